package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/arthur-debert/docstore/docstore/ids"
	"github.com/arthur-debert/docstore/docstore/storage"
)

// store implements the Store interface over one table, one write scheduler
// and one backing file.
type store struct {
	name   string
	path   string
	config Config
	logger *slog.Logger

	table *table
	sched *scheduler
	subs  subscribers

	// ready closes once the initial load attempt has completed; loadErr and
	// fileSeen are only written before that.
	ready   chan struct{}
	loadErr error

	// loadMu serializes disk reads (initial load, reload) against each
	// other; fileSeen records whether the backing file existed at the last
	// load so Reload can report the distinction.
	loadMu   sync.Mutex
	fileSeen bool
}

func newStore(name string, config Config) (*store, error) {
	if name == "" {
		return nil, fmt.Errorf("store name is required")
	}
	config, err := config.normalize()
	if err != nil {
		return nil, err
	}

	gen := config.IDFunc
	if gen == nil {
		gen = func(interface{}) string { return ids.New() }
	}

	s := &store{
		name:   name,
		path:   config.filePath(name),
		config: config,
		logger: config.Logger.With("store", name),
		table:  newTable(config.PrimaryKey, gen),
		ready:  make(chan struct{}),
	}
	s.sched = newScheduler(
		config.WriteToDisk,
		config.WriteDelay,
		s.writeTable,
		func() { s.subs.notify(Event{Kind: EventSync, Store: name}) },
		s.logger,
	)

	if config.LoadFromDisk {
		go func() {
			_, err := s.loadFromFile()
			if err != nil {
				s.logger.Warn("initial load failed", "path", s.path, "error", err)
				s.loadErr = err
			}
			close(s.ready)
		}()
	} else {
		close(s.ready)
	}

	return s, nil
}

func (s *store) Name() string { return s.name }
func (s *store) Path() string { return s.path }

// loadFromFile reads and parses the backing file, replacing the whole table
// on success. A missing file is recovered as an empty table (new store); the
// bool return preserves the distinction for Reload.
func (s *store) loadFromFile() (bool, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	data, err := storage.Read(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.fileSeen = false
		s.table.replace(nil)
		s.logger.Debug("backing file absent, starting empty", "path", s.path)
		s.subs.notify(Event{Kind: EventLoaded, Store: s.name})
		return false, nil
	}
	if err != nil {
		return true, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	s.fileSeen = true

	docs := make(map[string]interface{})
	// An empty file is acceptable, same as a missing one.
	if len(data) > 0 {
		if err := json.Unmarshal(data, &docs); err != nil {
			return true, &ParseError{Path: s.path, Err: err}
		}
	}

	s.table.replace(docs)
	s.logger.Debug("loaded", "path", s.path, "documents", s.table.count())
	s.subs.notify(Event{Kind: EventLoaded, Store: s.name})
	return true, nil
}

// writeTable serializes the table and hands the blob to the filesystem
// adapter. It runs inside the scheduler's Writing state.
func (s *store) writeTable() error {
	data, err := s.table.marshal(s.config.PrettyPrint)
	if err != nil {
		return &storage.WriteError{Path: s.path, Err: err}
	}
	if err := storage.Write(s.path, data); err != nil {
		return err
	}
	s.logger.Debug("wrote", "path", s.path, "bytes", len(data))
	return nil
}

func (s *store) WaitLoaded(ctx context.Context) error {
	select {
	case <-s.ready:
		return s.loadErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *store) Reload(ctx context.Context) (bool, error) {
	if !s.config.LoadFromDisk {
		return false, ErrLoadDisabled
	}
	if err := s.WaitLoaded(ctx); err != nil && ctx.Err() != nil {
		return false, err
	}
	return s.loadFromFile()
}

func (s *store) Get(id string) (interface{}, bool) {
	return s.table.get(id)
}

func (s *store) Load(id string) (interface{}, error) {
	doc, ok := s.table.get(id)
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return doc, nil
}

func (s *store) Set(id string, doc interface{}) (string, error) {
	return s.table.set(id, doc)
}

func (s *store) Save(ctx context.Context, id string, doc interface{}) (string, error) {
	resolved, err := s.table.set(id, doc)
	if err != nil {
		return "", err
	}
	if err := s.await(ctx, s.Sync()); err != nil {
		return "", err
	}
	return resolved, nil
}

func (s *store) Merge(ctx context.Context, id string, partial map[string]interface{}) (string, error) {
	normalized, err := normalize(partial)
	if err != nil {
		return "", err
	}
	incoming, ok := normalized.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("merge requires an object document")
	}

	// Merge into the existing object document, or an empty one when the id
	// is new or currently holds a scalar.
	base := make(map[string]interface{})
	if id != "" {
		if existing, ok := s.table.get(id); ok {
			if obj, ok := existing.(map[string]interface{}); ok {
				base = obj
			}
		}
	}
	merged := deepMerge(base, incoming)

	resolved, err := s.table.set(id, merged)
	if err != nil {
		return "", err
	}
	if err := s.await(ctx, s.Sync()); err != nil {
		return "", err
	}
	return resolved, nil
}

func (s *store) Remove(ctx context.Context, pred Predicate) ([]Document, error) {
	removed := s.table.remove(pred)
	if len(removed) == 0 {
		return nil, nil
	}
	if err := s.await(ctx, s.Sync()); err != nil {
		return removed, err
	}
	return removed, nil
}

func (s *store) Filter(pred Predicate) []Document {
	return s.table.filter(pred)
}

func (s *store) Query() *Query {
	return newQuery(s.table.snapshot)
}

func (s *store) Clear(ctx context.Context) error {
	s.table.replace(nil)
	s.subs.notify(Event{Kind: EventLoaded, Store: s.name})
	return s.await(ctx, s.Sync())
}

func (s *store) Keys() []string { return s.table.keys() }
func (s *store) Has(id string) bool { return s.table.has(id) }
func (s *store) Count() int { return s.table.count() }

func (s *store) Sync() <-chan error {
	return s.sched.sync()
}

func (s *store) Subscribe(fn func(Event)) func() {
	return s.subs.add(fn)
}

// Close flushes any pending scheduled write and drops subscribers. The store
// must not be used afterwards.
func (s *store) Close() error {
	err := s.sched.flush()
	s.subs.clear()
	return err
}

func (s *store) await(ctx context.Context, done <-chan error) error {
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
