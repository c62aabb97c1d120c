package config

// Object is one configuration layer: string keys mapping to nested objects,
// lists or scalars. No schema is enforced; every key is passed through to
// the consumer.
type Object map[string]any

// Well-known keys.
const (
	BlacklistKey = "blacklist"
	FormatKey    = "format"
	RulesKey     = "rules"

	// TargetBranchKey names the branch lint --changed diffs against when
	// neither the flag nor the environment picks one.
	TargetBranchKey = "target_branch"
)

// Clone returns a deep copy of o. Nested objects and lists are copied;
// scalars are shared.
func (o Object) Clone() Object {
	if o == nil {
		return nil
	}
	out := make(Object, len(o))
	for k, v := range o {
		out[k] = cloneValue(v)
	}
	return out
}

// Blacklist returns the normalized ignore list, or nil when the key is
// missing or holds something other than a list of strings.
func (o Object) Blacklist() []string {
	switch v := o[BlacklistKey].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Format returns the output format identifier, or "" when unset.
func (o Object) Format() string {
	s, _ := o[FormatKey].(string)
	return s
}

// TargetBranch returns the configured delta target branch, or "".
func (o Object) TargetBranch() string {
	s, _ := o[TargetBranchKey].(string)
	return s
}

// Section returns the nested object stored under key, or nil.
func (o Object) Section(key string) Object {
	m, _ := asObject(o[key])
	return m
}

// asObject reports whether v is a structured (non-list) object. Both the
// named Object type and the plain maps produced by decoders qualify.
func asObject(v any) (Object, bool) {
	switch m := v.(type) {
	case Object:
		return m, m != nil
	case map[string]any:
		return Object(m), m != nil
	}
	return nil, false
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Object:
		return t.Clone()
	case map[string]any:
		return map[string]any(Object(t).Clone())
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	}
	return v
}
