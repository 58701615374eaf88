package docstore

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// table is the canonical id → document mapping. Documents are deep-copied on
// the way in and out, so external mutation of a returned value never
// corrupts the table and internal mutation never leaks to callers.
type table struct {
	mu   sync.RWMutex
	docs map[string]interface{}
	pk   string
	gen  func(doc interface{}) string
}

func newTable(pk string, gen func(doc interface{}) string) *table {
	return &table{
		docs: make(map[string]interface{}),
		pk:   pk,
		gen:  gen,
	}
}

// get returns a deep copy of the stored document.
func (t *table) get(id string) (interface{}, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	doc, ok := t.docs[id]
	if !ok {
		return nil, false
	}
	return deepCopy(doc), true
}

// set stores a deep-copied, normalized document and returns the resolved id.
// An empty id resolves to the document's primary-key field when present, and
// failing that to a generated id. Object documents get their primary-key
// field forced to the resolved id; scalars and arrays are stored pk-less.
func (t *table) set(id string, doc interface{}) (string, error) {
	value, err := normalize(doc)
	if err != nil {
		return "", err
	}

	obj, isObject := value.(map[string]interface{})
	if id == "" {
		if isObject {
			if pkVal, ok := obj[t.pk].(string); ok && pkVal != "" {
				id = pkVal
			}
		}
		if id == "" {
			id = t.gen(value)
			if id == "" {
				return "", fmt.Errorf("id generator returned an empty id")
			}
		}
	}
	if isObject {
		obj[t.pk] = id
	}

	t.mu.Lock()
	t.docs[id] = value
	t.mu.Unlock()

	return id, nil
}

// remove deletes every document matching the predicate and returns deep
// copies of the removed documents, ordered by id.
func (t *table) remove(pred Predicate) []Document {
	t.mu.Lock()
	defer t.mu.Unlock()

	var removed []Document
	for id, doc := range t.docs {
		if pred.matches(id, doc) {
			removed = append(removed, Document{ID: id, Value: deepCopy(doc)})
		}
	}
	for _, doc := range removed {
		delete(t.docs, doc.ID)
	}
	sortDocuments(removed)
	return removed
}

// filter returns deep copies of every document matching the predicate,
// ordered by id. The table is not mutated.
func (t *table) filter(pred Predicate) []Document {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var matched []Document
	for id, doc := range t.docs {
		if pred.matches(id, doc) {
			matched = append(matched, Document{ID: id, Value: deepCopy(doc)})
		}
	}
	sortDocuments(matched)
	return matched
}

// snapshot returns a deep copy of the whole table as documents ordered by id.
func (t *table) snapshot() []Document {
	t.mu.RLock()
	defer t.mu.RUnlock()

	docs := make([]Document, 0, len(t.docs))
	for id, doc := range t.docs {
		docs = append(docs, Document{ID: id, Value: deepCopy(doc)})
	}
	sortDocuments(docs)
	return docs
}

// replace swaps in a whole new document map (initial load, reload, clear).
func (t *table) replace(docs map[string]interface{}) {
	if docs == nil {
		docs = make(map[string]interface{})
	}
	t.mu.Lock()
	t.docs = docs
	t.mu.Unlock()
}

// marshal serializes the current table state. It is called at write start so
// the most recent state is always what gets written.
func (t *table) marshal(pretty bool) ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if pretty {
		return json.MarshalIndent(t.docs, "", "    ")
	}
	return json.Marshal(t.docs)
}

func (t *table) keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]string, 0, len(t.docs))
	for id := range t.docs {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	return keys
}

func (t *table) has(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.docs[id]
	return ok
}

func (t *table) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.docs)
}

func sortDocuments(docs []Document) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
}
