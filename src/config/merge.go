package config

// Merge returns a new Object holding every key of base with override applied
// on top. Neither input is modified and the result shares no nested maps or
// lists with them.
//
// When both sides hold an object under the same key the two are merged
// recursively. In every other case the override value replaces the base
// value wholesale: lists are replaced rather than concatenated, and nil,
// false, 0 and "" are ordinary overriding scalars.
func Merge(base, override Object) Object {
	out := base.Clone()
	if out == nil {
		out = make(Object, len(override))
	}
	for k, v := range override {
		if src, ok := asObject(v); ok {
			if dst, ok := asObject(out[k]); ok {
				out[k] = map[string]any(Merge(dst, src))
				continue
			}
		}
		out[k] = cloneValue(v)
	}
	return out
}
