// Package matching implements structural subset matching for partial-object
// document filters.
package matching

import "reflect"

// Subset reports whether candidate is an object containing every key of
// filter with an equal value. Values are compared in their JSON shape
// (maps, slices, strings, float64, bool, nil), so callers must normalize
// the filter before matching.
func Subset(filter map[string]interface{}, candidate interface{}) bool {
	obj, ok := candidate.(map[string]interface{})
	if !ok {
		return false
	}

	for key, want := range filter {
		got, exists := obj[key]
		if !exists {
			return false
		}
		if !reflect.DeepEqual(want, got) {
			return false
		}
	}

	return true
}
