package docstore

// deepMerge merges src into dst and returns dst. Conflict policy: an
// incoming object merges key-wise into an existing object, any other
// incoming value (scalar or array) replaces the existing one. Values taken
// from src are deep-copied so dst never aliases it.
func deepMerge(dst, src map[string]interface{}) map[string]interface{} {
	if dst == nil {
		dst = make(map[string]interface{}, len(src))
	}
	for key, incoming := range src {
		if srcObj, ok := incoming.(map[string]interface{}); ok {
			if dstObj, ok := dst[key].(map[string]interface{}); ok {
				dst[key] = deepMerge(dstObj, srcObj)
				continue
			}
			dst[key] = deepMerge(make(map[string]interface{}, len(srcObj)), srcObj)
			continue
		}
		dst[key] = deepCopy(incoming)
	}
	return dst
}
