package docstore

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
)

// Config controls disk behavior, id assignment and serialization of a store.
// It is immutable after construction. Callers normally start from
// DefaultConfig and override individual fields; the zero value describes a
// memory-only store that never touches disk.
type Config struct {
	// WriteToDisk enables persistence. When false, Sync is a no-op that
	// completes immediately and no file is ever created.
	WriteToDisk bool

	// LoadFromDisk enables the initial load and explicit reloads.
	LoadFromDisk bool

	// RootPath is the directory holding the backing file. Defaults to the
	// current working directory.
	RootPath string

	// WriteDelay is the minimum spacing between successive physical writes.
	WriteDelay time.Duration

	// PrettyPrint selects indented JSON on disk (4-space indent) instead of
	// the compact form.
	PrettyPrint bool

	// PrimaryKey is the document field mirrored to equal the storage id.
	// Defaults to "id".
	PrimaryKey string

	// IDFunc overrides default id generation. It receives the normalized
	// document and must return a non-empty id; uniqueness is then the
	// caller's responsibility.
	IDFunc func(doc interface{}) string

	// Logger receives structured load/write events. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the standard configuration: persistent, loading from
// disk, pretty-printed, "id" as the primary key, no write delay.
func DefaultConfig() Config {
	return Config{
		WriteToDisk:  true,
		LoadFromDisk: true,
		PrettyPrint:  true,
		PrimaryKey:   "id",
	}
}

// normalize fills in the defaults that cannot be expressed by zero values
// and resolves the root path to an absolute directory.
func (c Config) normalize() (Config, error) {
	if c.PrimaryKey == "" {
		c.PrimaryKey = "id"
	}
	if c.RootPath == "" {
		c.RootPath = "."
	}
	abs, err := filepath.Abs(c.RootPath)
	if err != nil {
		return c, fmt.Errorf("invalid root path %q: %w", c.RootPath, err)
	}
	c.RootPath = abs
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c, nil
}

// filePath returns the on-disk location of the named store:
// <RootPath>/<name>.json.
func (c Config) filePath(name string) string {
	return filepath.Join(c.RootPath, name+".json")
}
