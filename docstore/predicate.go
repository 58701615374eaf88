package docstore

import (
	"github.com/arthur-debert/docstore/internal/matching"
)

// Predicate selects documents for Filter and Remove. The three constructors
// cover the supported shapes: exact id match, structural subset match
// against a partial object, and an arbitrary function of id and value.
type Predicate interface {
	matches(id string, doc interface{}) bool
}

// ByID matches documents whose storage id is one of the given ids.
func ByID(ids ...string) Predicate {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return idPredicate(set)
}

type idPredicate map[string]struct{}

func (p idPredicate) matches(id string, _ interface{}) bool {
	_, ok := p[id]
	return ok
}

// Match matches object documents containing every key of filter with an
// equal value. The filter is normalized once so typed values (ints, structs)
// compare correctly against stored documents.
func Match(filter map[string]interface{}) Predicate {
	normalized := make(map[string]interface{}, len(filter))
	for key, value := range filter {
		nv, err := normalize(value)
		if err != nil {
			// A non-serializable filter value can never equal a stored
			// document value.
			return wherePredicate(func(string, interface{}) bool { return false })
		}
		normalized[key] = nv
	}
	return matchPredicate(normalized)
}

type matchPredicate map[string]interface{}

func (p matchPredicate) matches(_ string, doc interface{}) bool {
	return matching.Subset(p, doc)
}

// Where matches documents for which fn returns true. The document passed to
// fn is the normalized stored value; fn must not retain or mutate it.
func Where(fn func(id string, doc interface{}) bool) Predicate {
	return wherePredicate(fn)
}

type wherePredicate func(id string, doc interface{}) bool

func (p wherePredicate) matches(id string, doc interface{}) bool {
	return p(id, doc)
}
