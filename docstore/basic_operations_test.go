package docstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arthur-debert/docstore/docstore"
)

// newTestStore creates a store in a temp directory and waits for the initial
// load. The configuration can be adjusted before construction via mutate.
func newTestStore(t *testing.T, name string, mutate func(*docstore.Config)) docstore.Store {
	t.Helper()

	cfg := docstore.DefaultConfig()
	cfg.RootPath = t.TempDir()
	if mutate != nil {
		mutate(&cfg)
	}

	store, err := docstore.New(name, cfg)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.WaitLoaded(ctx); err != nil {
		t.Fatalf("store failed to load: %v", err)
	}
	return store
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSetAndGet(t *testing.T) {
	store := newTestStore(t, "basic", nil)

	t.Run("ExplicitID", func(t *testing.T) {
		id, err := store.Set("user-1", map[string]interface{}{"name": "alice"})
		if err != nil {
			t.Fatalf("set failed: %v", err)
		}
		if id != "user-1" {
			t.Fatalf("expected id user-1, got %q", id)
		}

		doc, ok := store.Get("user-1")
		if !ok {
			t.Fatal("document not found after set")
		}
		obj := doc.(map[string]interface{})
		if obj["name"] != "alice" {
			t.Errorf("expected name alice, got %v", obj["name"])
		}
		// The primary-key field is forced to the storage id.
		if obj["id"] != "user-1" {
			t.Errorf("expected pk field user-1, got %v", obj["id"])
		}
	})

	t.Run("IDFromPrimaryKeyField", func(t *testing.T) {
		id, err := store.Set("", map[string]interface{}{"id": "from-pk", "name": "bertha"})
		if err != nil {
			t.Fatalf("set failed: %v", err)
		}
		if id != "from-pk" {
			t.Errorf("expected id from-pk, got %q", id)
		}
	})

	t.Run("GeneratedID", func(t *testing.T) {
		id, err := store.Set("", map[string]interface{}{"name": "carol"})
		if err != nil {
			t.Fatalf("set failed: %v", err)
		}
		if id == "" {
			t.Fatal("expected generated id")
		}
		doc, _ := store.Get(id)
		if doc.(map[string]interface{})["id"] != id {
			t.Error("generated id was not mirrored into the pk field")
		}
	})

	t.Run("ExplicitIDOverridesPkField", func(t *testing.T) {
		id, err := store.Set("winner", map[string]interface{}{"id": "loser"})
		if err != nil {
			t.Fatalf("set failed: %v", err)
		}
		if id != "winner" {
			t.Fatalf("expected id winner, got %q", id)
		}
		doc, _ := store.Get("winner")
		if doc.(map[string]interface{})["id"] != "winner" {
			t.Error("pk field was not overwritten to match the storage id")
		}
		if store.Has("loser") {
			t.Error("document stored under its pk field instead of the explicit id")
		}
	})

	t.Run("ScalarAndArrayStayPkless", func(t *testing.T) {
		if _, err := store.Set("pi", 3.14); err != nil {
			t.Fatalf("set scalar failed: %v", err)
		}
		doc, _ := store.Get("pi")
		if doc != 3.14 {
			t.Errorf("expected 3.14, got %v", doc)
		}

		if _, err := store.Set("tags", []string{"a", "b"}); err != nil {
			t.Fatalf("set array failed: %v", err)
		}
		doc, _ = store.Get("tags")
		if _, isList := doc.([]interface{}); !isList {
			t.Errorf("expected array document, got %T", doc)
		}
	})

	t.Run("Absent", func(t *testing.T) {
		if _, ok := store.Get("nope"); ok {
			t.Error("expected absent document")
		}
	})
}

func TestDeepCopySemantics(t *testing.T) {
	store := newTestStore(t, "copies", nil)

	original := map[string]interface{}{
		"name":    "alice",
		"profile": map[string]interface{}{"city": "lisbon"},
	}
	if _, err := store.Set("alice", original); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// Mutating the value passed in must not affect the table.
	original["name"] = "mutated"
	doc, _ := store.Get("alice")
	if doc.(map[string]interface{})["name"] != "alice" {
		t.Error("table shares state with the caller's document")
	}

	// Mutating a returned copy must not affect later reads.
	first, _ := store.Get("alice")
	first.(map[string]interface{})["profile"].(map[string]interface{})["city"] = "porto"
	second, _ := store.Get("alice")
	if second.(map[string]interface{})["profile"].(map[string]interface{})["city"] != "lisbon" {
		t.Error("returned documents share state across reads")
	}
}

func TestLoadReportsNotFound(t *testing.T) {
	store := newTestStore(t, "loadable", nil)

	if _, err := store.Set("present", map[string]interface{}{"x": 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load("present"); err != nil {
		t.Errorf("load of existing document failed: %v", err)
	}

	_, err := store.Load("missing")
	var nf *docstore.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.ID != "missing" {
		t.Errorf("error carries id %q, want missing", nf.ID)
	}
}

func TestSaveOverwritesByPk(t *testing.T) {
	store := newTestStore(t, "savetest", nil)
	ctx := testContext(t)

	id, err := store.Save(ctx, "", map[string]interface{}{"name": "x"})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	// Saving a document whose pk field equals an existing id overwrites
	// that entry instead of creating a new one.
	doc, _ := store.Get(id)
	obj := doc.(map[string]interface{})
	obj["name"] = "renamed"
	id2, err := store.Save(ctx, "", obj)
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if id2 != id {
		t.Errorf("expected overwrite of %q, got new id %q", id, id2)
	}
	if store.Count() != 1 {
		t.Errorf("expected 1 document, got %d", store.Count())
	}
	doc, _ = store.Get(id)
	if doc.(map[string]interface{})["name"] != "renamed" {
		t.Error("overwrite did not stick")
	}
}

func TestMergeOperation(t *testing.T) {
	store := newTestStore(t, "mergetest", nil)
	ctx := testContext(t)

	if _, err := store.Save(ctx, "dave", map[string]interface{}{
		"name":    "dave",
		"profile": map[string]interface{}{"city": "lisbon", "zip": "1000"},
		"tags":    []interface{}{"a", "b"},
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Merge(ctx, "dave", map[string]interface{}{
		"profile": map[string]interface{}{"city": "porto"},
		"tags":    []interface{}{"z"},
	}); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	doc, _ := store.Get("dave")
	obj := doc.(map[string]interface{})
	profile := obj["profile"].(map[string]interface{})
	if profile["city"] != "porto" || profile["zip"] != "1000" {
		t.Errorf("nested object did not merge key-wise: %v", profile)
	}
	tags := obj["tags"].([]interface{})
	if len(tags) != 1 || tags[0] != "z" {
		t.Errorf("array should be replaced, got %v", tags)
	}
	if obj["name"] != "dave" {
		t.Error("untouched fields must survive a merge")
	}

	t.Run("MissingDocumentStartsEmpty", func(t *testing.T) {
		id, err := store.Merge(ctx, "fresh", map[string]interface{}{"a": float64(1)})
		if err != nil {
			t.Fatalf("merge into missing id failed: %v", err)
		}
		if id != "fresh" {
			t.Errorf("expected id fresh, got %q", id)
		}
		doc, _ := store.Get("fresh")
		if doc.(map[string]interface{})["a"] != float64(1) {
			t.Error("merge did not create the document")
		}
	})

	t.Run("GeneratedIDWithoutKey", func(t *testing.T) {
		id, err := store.Merge(ctx, "", map[string]interface{}{"anon": true})
		if err != nil {
			t.Fatalf("merge without id failed: %v", err)
		}
		if id == "" {
			t.Error("expected generated id")
		}
	})
}
