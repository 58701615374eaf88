// Package docstore implements an embedded, file-backed document store: an
// in-memory table of JSON-serializable documents that is asynchronously
// persisted to a single JSON file per named store through a debounced,
// coalescing write scheduler.
//
// Construction triggers an asynchronous load of the backing file; mutations
// update the table synchronously in memory and persistence catches up in the
// background. A single process is assumed to own each backing file.
package docstore

import "context"

// Document is a JSON-serializable value stored under an id. Values handed
// out by the store are deep copies in JSON shape (maps, slices, strings,
// float64, bool, nil) and are safe to mutate.
type Document struct {
	ID    string
	Value interface{}
}

// Store is the public operation surface of one named document store.
type Store interface {
	// Name returns the store name; Path the resolved backing file location.
	Name() string
	Path() string

	// Get returns a deep copy of the document, or false when absent.
	Get(id string) (interface{}, bool)

	// Load is Get that fails with *NotFoundError when the id is absent.
	Load(id string) (interface{}, error)

	// Set stores a document in memory and returns the resolved id. An empty
	// id is taken from the document's primary-key field when present, and
	// generated otherwise. Object documents get their primary-key field
	// forced to the resolved id. Set does not trigger persistence.
	Set(id string, doc interface{}) (string, error)

	// Save is Set followed by Sync; it returns once the document is durable.
	Save(ctx context.Context, id string, doc interface{}) (string, error)

	// Merge deep-merges partial into the existing (or empty) object
	// document under id and persists the result. Incoming objects merge
	// key-wise; incoming scalars and arrays replace.
	Merge(ctx context.Context, id string, partial map[string]interface{}) (string, error)

	// Remove deletes every matching document, persists the removal and
	// returns the removed documents.
	Remove(ctx context.Context, pred Predicate) ([]Document, error)

	// Filter returns every matching document without mutating the table.
	Filter(pred Predicate) []Document

	// Query starts a lazy, chainable view over a snapshot of the table.
	Query() *Query

	// Clear empties the table and persists the empty state.
	Clear(ctx context.Context) error

	Keys() []string
	Has(id string) bool
	Count() int

	// Sync schedules persistence of the current table state. The returned
	// channel receives exactly one value: nil once the state as of this
	// call (or newer) is durably on disk, or the write failure. With
	// WriteToDisk disabled it completes immediately.
	Sync() <-chan error

	// Reload forces a re-read of the backing file. It reports whether the
	// file existed and fails with ErrLoadDisabled when the store was
	// configured without disk loading.
	Reload(ctx context.Context) (bool, error)

	// WaitLoaded blocks until the initial load attempt has completed and
	// returns its outcome. A missing backing file is not an error.
	WaitLoaded(ctx context.Context) error

	// Subscribe registers fn for lifecycle events and returns a cancel
	// function. EventLoaded fires on every wholesale table replacement,
	// EventSync after every successful physical write.
	Subscribe(fn func(Event)) func()

	// Close flushes a pending scheduled write and detaches subscribers.
	Close() error
}

// New creates the named store. With LoadFromDisk enabled the backing file is
// read asynchronously; use WaitLoaded to await readiness.
func New(name string, config Config) (Store, error) {
	return newStore(name, config)
}
