package registry

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/docstore/docstore"
)

// Manifest declares a set of stores and their options up front, so an
// application can open everything from one YAML file.
//
//	root: ./data
//	stores:
//	  users:
//	    pk: id
//	    write_delay_ms: 50
//	  sessions:
//	    memory_only: true
//	    pretty: false
type Manifest struct {
	Root   string                   `yaml:"root"`
	Stores map[string]ManifestStore `yaml:"stores"`
}

// ManifestStore holds the per-store overrides expressible in a manifest.
type ManifestStore struct {
	PrimaryKey   string `yaml:"pk"`
	WriteDelayMS int    `yaml:"write_delay_ms"`
	Pretty       *bool  `yaml:"pretty"`
	MemoryOnly   bool   `yaml:"memory_only"`
}

// config translates manifest overrides into a store configuration.
func (m ManifestStore) config(root string) docstore.Config {
	cfg := docstore.DefaultConfig()
	cfg.RootPath = root
	cfg.PrimaryKey = m.PrimaryKey
	cfg.WriteDelay = time.Duration(m.WriteDelayMS) * time.Millisecond
	if m.Pretty != nil {
		cfg.PrettyPrint = *m.Pretty
	}
	if m.MemoryOnly {
		cfg.WriteToDisk = false
		cfg.LoadFromDisk = false
	}
	return cfg
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Root == "" {
		m.Root = "."
	}
	return &m, nil
}

// LoadManifest reads a YAML manifest from path and returns a registry with
// every declared store opened.
func LoadManifest(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}

	defaults := docstore.DefaultConfig()
	defaults.RootPath = m.Root
	r := New(defaults)
	for name, ms := range m.Stores {
		if _, err := r.OpenWith(name, ms.config(m.Root)); err != nil {
			_ = r.Close()
			return nil, err
		}
	}
	return r, nil
}
