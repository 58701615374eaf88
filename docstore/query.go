package docstore

import (
	"fmt"
	"sort"
)

// Query is a lazy, chainable view over the table. Steps accumulate until Run
// materializes the result against a deep copy of the table taken at that
// point; the table itself is never mutated and later table mutations do not
// affect results already materialized.
type Query struct {
	source func() []Document
	steps  []func([]Document) []Document
}

func newQuery(source func() []Document) *Query {
	return &Query{source: source}
}

// Filter keeps only documents matching the predicate.
func (q *Query) Filter(pred Predicate) *Query {
	return q.append(func(docs []Document) []Document {
		kept := docs[:0]
		for _, doc := range docs {
			if pred.matches(doc.ID, doc.Value) {
				kept = append(kept, doc)
			}
		}
		return kept
	})
}

// Map transforms every document. The transformed value replaces the original
// in the view only; storage ids are preserved unless fn changes them.
func (q *Query) Map(fn func(doc Document) Document) *Query {
	return q.append(func(docs []Document) []Document {
		for i := range docs {
			docs[i] = fn(docs[i])
		}
		return docs
	})
}

// SortBy orders object documents by the named field, ascending. Documents
// without the field sort first.
func (q *Query) SortBy(field string) *Query {
	return q.sortBy(field, false)
}

// SortByDesc orders object documents by the named field, descending.
func (q *Query) SortByDesc(field string) *Query {
	return q.sortBy(field, true)
}

func (q *Query) sortBy(field string, descending bool) *Query {
	return q.append(func(docs []Document) []Document {
		sort.SliceStable(docs, func(i, j int) bool {
			less := lessValue(fieldValue(docs[i].Value, field), fieldValue(docs[j].Value, field))
			if descending {
				return lessValue(fieldValue(docs[j].Value, field), fieldValue(docs[i].Value, field))
			}
			return less
		})
		return docs
	})
}

// Limit keeps at most n documents.
func (q *Query) Limit(n int) *Query {
	return q.append(func(docs []Document) []Document {
		if n < len(docs) {
			return docs[:n]
		}
		return docs
	})
}

// Run materializes the view: it snapshots the table and applies the
// accumulated steps in order.
func (q *Query) Run() []Document {
	docs := q.source()
	for _, step := range q.steps {
		docs = step(docs)
	}
	return docs
}

// First runs the query and returns its first document, if any.
func (q *Query) First() (Document, bool) {
	docs := q.Run()
	if len(docs) == 0 {
		return Document{}, false
	}
	return docs[0], true
}

// Count runs the query and returns the number of matching documents.
func (q *Query) Count() int {
	return len(q.Run())
}

func (q *Query) append(step func([]Document) []Document) *Query {
	q.steps = append(q.steps, step)
	return q
}

func fieldValue(doc interface{}, field string) interface{} {
	obj, ok := doc.(map[string]interface{})
	if !ok {
		return nil
	}
	return obj[field]
}

// lessValue compares two normalized values: numerically when both are
// numbers, lexically otherwise. Missing values sort first.
func lessValue(a, b interface{}) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	af, aNum := a.(float64)
	bf, bNum := b.(float64)
	if aNum && bNum {
		return af < bf
	}
	return valueToString(a) < valueToString(b)
}

func valueToString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
