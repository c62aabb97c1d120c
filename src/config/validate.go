package config

import (
	"fmt"
	"sort"
	"strings"
)

// Validate checks the structure of one configuration layer as loaded from
// disk, before path normalization. Unknown top-level keys are passed through
// by the resolver and reported as warnings; malformed well-known keys make
// the layer invalid.
func Validate(cfg Object) (warnings []string, err error) {
	var errs []string

	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch k {
		case BlacklistKey:
			errs = append(errs, validateBlacklist(cfg[k])...)
		case FormatKey, TargetBranchKey:
			if _, ok := cfg[k].(string); !ok && cfg[k] != nil {
				errs = append(errs, fmt.Sprintf("%s: must be a string, got %s", k, typeName(cfg[k])))
			}
		case RulesKey:
			errs = append(errs, validateRules(cfg[k])...)
		default:
			warnings = append(warnings, fmt.Sprintf("unknown key %q", k))
		}
	}

	if len(errs) > 0 {
		return warnings, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return warnings, nil
}

func validateBlacklist(v any) []string {
	switch t := v.(type) {
	case nil, string, []string:
		return nil
	case []any:
		var errs []string
		for i, e := range t {
			if _, ok := e.(string); !ok {
				errs = append(errs, fmt.Sprintf("blacklist[%d]: must be a string, got %s", i, typeName(e)))
			}
		}
		return errs
	default:
		return []string{fmt.Sprintf("blacklist: must be a list of paths, got %s", typeName(v))}
	}
}

func validateRules(v any) []string {
	if v == nil {
		return nil
	}
	rules, ok := asObject(v)
	if !ok {
		return []string{fmt.Sprintf("rules: must be an object, got %s", typeName(v))}
	}
	var errs []string
	for name := range rules {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, "rules: empty rule name")
		}
	}
	return errs
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64, uint64, float64:
		return "number"
	case []any, []string:
		return "list"
	case Object, map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
