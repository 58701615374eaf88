// Package testutil provides a shared fixture store for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/arthur-debert/docstore/docstore"
)

// Universe is a small populated store covering the shapes tests care about:
// object documents with and without explicit ids, a nested object, an array
// document and a scalar document.
type Universe struct {
	Store docstore.Store

	// Object documents keyed by their storage ids.
	AdminAlice  string // {name: alice, admin: true, role: admin}
	AdminBertha string // {name: bertha, admin: true, role: admin}
	UserCarol   string // {name: carol, admin: false, role: user}
	UserDave    string // {name: dave, admin: false, role: user, profile: {...}}

	// Non-object documents.
	ScalarPi string // 3.14
	ListTags string // ["red", "green"]
}

// NewUniverse creates the fixture in a temp directory and waits for the
// (empty) initial load. The store is closed via t.Cleanup.
func NewUniverse(t *testing.T) *Universe {
	t.Helper()

	cfg := docstore.DefaultConfig()
	cfg.RootPath = t.TempDir()

	store, err := docstore.New("universe", cfg)
	if err != nil {
		t.Fatalf("failed to create fixture store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.WaitLoaded(ctx); err != nil {
		t.Fatalf("fixture store failed to load: %v", err)
	}

	u := &Universe{Store: store}
	u.AdminAlice = u.set(t, "alice", map[string]interface{}{"name": "alice", "admin": true, "role": "admin", "age": 41})
	u.AdminBertha = u.set(t, "", map[string]interface{}{"name": "bertha", "admin": true, "role": "admin", "age": 29})
	u.UserCarol = u.set(t, "carol", map[string]interface{}{"name": "carol", "admin": false, "role": "user", "age": 35})
	u.UserDave = u.set(t, "dave", map[string]interface{}{
		"name": "dave", "admin": false, "role": "user", "age": 52,
		"profile": map[string]interface{}{"city": "lisbon", "languages": []string{"pt", "en"}},
	})
	u.ScalarPi = u.set(t, "pi", 3.14)
	u.ListTags = u.set(t, "tags", []string{"red", "green"})
	return u
}

func (u *Universe) set(t *testing.T, id string, doc interface{}) string {
	t.Helper()
	resolved, err := u.Store.Set(id, doc)
	if err != nil {
		t.Fatalf("failed to seed fixture document: %v", err)
	}
	return resolved
}
