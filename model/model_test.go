package model_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arthur-debert/docstore/docstore"
	"github.com/arthur-debert/docstore/model"
)

type account struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
	Age   int    `json:"age"`
}

func newAccounts(t *testing.T) *model.Collection[account] {
	t.Helper()

	cfg := docstore.DefaultConfig()
	cfg.RootPath = t.TempDir()
	store, err := docstore.New("accounts", cfg)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.WaitLoaded(ctx); err != nil {
		t.Fatalf("store failed to load: %v", err)
	}
	return model.NewCollection[account](store)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestTypedRoundTrip(t *testing.T) {
	accounts := newAccounts(t)
	ctx := testContext(t)

	id, err := accounts.Put(ctx, "", account{Name: "alice", Admin: true, Age: 41})
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	got, err := accounts.Get(id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	// The generated id lands in the struct via the pk field.
	want := account{ID: id, Name: "alice", Admin: true, Age: 41}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestGetMissingSurfacesNotFound(t *testing.T) {
	accounts := newAccounts(t)

	_, err := accounts.Get("absent")
	var nf *docstore.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestFindAndAll(t *testing.T) {
	accounts := newAccounts(t)
	ctx := testContext(t)

	seed := []account{
		{ID: "alice", Name: "alice", Admin: true, Age: 41},
		{ID: "bob", Name: "bob", Admin: false, Age: 29},
		{ID: "carol", Name: "carol", Admin: true, Age: 35},
	}
	for _, a := range seed {
		if _, err := accounts.Put(ctx, "", a); err != nil {
			t.Fatal(err)
		}
	}

	admins, err := accounts.Find(docstore.Match(map[string]interface{}{"admin": true}))
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(admins) != 2 {
		t.Fatalf("expected 2 admins, got %+v", admins)
	}
	for _, a := range admins {
		if !a.Admin {
			t.Errorf("non-admin in result: %+v", a)
		}
	}

	all, err := accounts.All()
	if err != nil {
		t.Fatalf("all failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(all))
	}
	// Query results come back ordered by id.
	if all[0].ID != "alice" || all[1].ID != "bob" || all[2].ID != "carol" {
		t.Errorf("unexpected order: %+v", all)
	}
}

func TestDelete(t *testing.T) {
	accounts := newAccounts(t)
	ctx := testContext(t)

	if _, err := accounts.Put(ctx, "alice", account{Name: "alice"}); err != nil {
		t.Fatal(err)
	}

	existed, err := accounts.Delete(ctx, "alice")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !existed {
		t.Error("delete must report that the document existed")
	}

	existed, err = accounts.Delete(ctx, "alice")
	if err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if existed {
		t.Error("second delete must report absence")
	}
}

func TestOnLoaded(t *testing.T) {
	accounts := newAccounts(t)
	ctx := testContext(t)

	loaded := make(chan struct{}, 4)
	cancel := accounts.OnLoaded(func() { loaded <- struct{}{} })
	defer cancel()

	// A plain save emits a sync event only; the callback must stay quiet.
	if _, err := accounts.Put(ctx, "alice", account{Name: "alice"}); err != nil {
		t.Fatal(err)
	}
	select {
	case <-loaded:
		t.Fatal("OnLoaded fired for a sync event")
	case <-time.After(50 * time.Millisecond):
	}

	if _, err := accounts.Store().Reload(ctx); err != nil {
		t.Fatal(err)
	}
	select {
	case <-loaded:
	case <-time.After(5 * time.Second):
		t.Fatal("OnLoaded did not fire on reload")
	}
}
