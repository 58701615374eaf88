package docstore

import (
	"encoding/json"
	"fmt"
)

// normalize returns a deep copy of v in its JSON shape: maps, slices,
// strings, float64, bool and nil. Documents are normalized on the way into
// the table so that typed values, deep copies and the on-disk form all agree.
func normalize(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("document is not JSON-serializable: %w", err)
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("document is not JSON-serializable: %w", err)
	}
	return out, nil
}

// deepCopy clones an already-normalized value. Scalars are immutable and
// returned as-is.
func deepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		clone := make(map[string]interface{}, len(t))
		for k, item := range t {
			clone[k] = deepCopy(item)
		}
		return clone
	case []interface{}:
		clone := make([]interface{}, len(t))
		for i, item := range t {
			clone[i] = deepCopy(item)
		}
		return clone
	default:
		return v
	}
}
