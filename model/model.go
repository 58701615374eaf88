// Package model provides typed access to a document store. A Collection[T]
// is a thin decorator: it round-trips documents through their JSON shape so
// callers work with Go structs instead of raw maps, while the store remains
// the source of truth.
package model

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arthur-debert/docstore/docstore"
)

// Collection is a typed view over a store. The zero value is not usable;
// construct with NewCollection.
type Collection[T any] struct {
	store docstore.Store
}

// NewCollection wraps a store in a typed view.
func NewCollection[T any](s docstore.Store) *Collection[T] {
	return &Collection[T]{store: s}
}

// Store returns the underlying store.
func (c *Collection[T]) Store() docstore.Store { return c.store }

// Get returns the typed document under id. A missing id surfaces as the
// store's *docstore.NotFoundError.
func (c *Collection[T]) Get(id string) (T, error) {
	var item T
	doc, err := c.store.Load(id)
	if err != nil {
		return item, err
	}
	return decode[T](doc)
}

// Put stores item and persists it, returning the resolved id. An empty id
// follows the store's id-assignment policy.
func (c *Collection[T]) Put(ctx context.Context, id string, item T) (string, error) {
	return c.store.Save(ctx, id, item)
}

// Delete removes the document under id and persists the removal. It reports
// whether the document existed.
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := c.store.Remove(ctx, docstore.ByID(id))
	return len(removed) > 0, err
}

// Find returns the typed documents matching the predicate.
func (c *Collection[T]) Find(pred docstore.Predicate) ([]T, error) {
	return decodeAll[T](c.store.Filter(pred))
}

// All returns every typed document, ordered by id.
func (c *Collection[T]) All() ([]T, error) {
	return decodeAll[T](c.store.Query().Run())
}

// OnLoaded registers fn to run each time the store's table is replaced
// wholesale, so typed caches layered on top can refresh. The returned cancel
// function removes the subscription.
func (c *Collection[T]) OnLoaded(fn func()) func() {
	return c.store.Subscribe(func(ev docstore.Event) {
		if ev.Kind == docstore.EventLoaded {
			fn()
		}
	})
}

func decode[T any](doc interface{}) (T, error) {
	var item T
	data, err := json.Marshal(doc)
	if err != nil {
		return item, fmt.Errorf("failed to encode document: %w", err)
	}
	if err := json.Unmarshal(data, &item); err != nil {
		return item, fmt.Errorf("document does not fit %T: %w", item, err)
	}
	return item, nil
}

func decodeAll[T any](docs []docstore.Document) ([]T, error) {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := decode[T](doc.Value)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		items = append(items, item)
	}
	return items, nil
}
