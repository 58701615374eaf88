// Package registry provides keyed lookup of named document stores. A
// Registry caches one Store per name; it is an explicit object owned by the
// application, not a process-wide singleton.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/arthur-debert/docstore/docstore"
)

// Registry hands out cached named stores built from a base configuration.
type Registry struct {
	defaults docstore.Config

	mu     sync.Mutex
	stores map[string]docstore.Store
}

// New creates a registry whose stores share the given base configuration.
func New(defaults docstore.Config) *Registry {
	return &Registry{
		defaults: defaults,
		stores:   make(map[string]docstore.Store),
	}
}

// Open returns the cached store for name, creating it with the registry
// defaults on first use.
func (r *Registry) Open(name string) (docstore.Store, error) {
	return r.OpenWith(name, r.defaults)
}

// OpenWith is Open with a per-store configuration. The configuration only
// applies when the store is created; a cached instance is returned as-is.
func (r *Registry) OpenWith(name string, config docstore.Config) (docstore.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[name]; ok {
		return s, nil
	}
	s, err := docstore.New(name, config)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %q: %w", name, err)
	}
	r.stores[name] = s
	return s, nil
}

// Get returns the cached store for name without creating one.
func (r *Registry) Get(name string) (docstore.Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[name]
	return s, ok
}

// Names lists the cached store names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every cached store and empties the registry. The first error
// is returned; remaining stores are still closed.
func (r *Registry) Close() error {
	r.mu.Lock()
	stores := r.stores
	r.stores = make(map[string]docstore.Store)
	r.mu.Unlock()

	var firstErr error
	for _, s := range stores {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
