package lint

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sofmeright/lintrc/src/config"
)

// Level is the configured strength of a rule.
type Level int

const (
	LevelOff Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Rule is one entry of the "rules" section.
type Rule struct {
	Level   Level
	Options map[string]any
}

// ParseRule interprets a rule value. Accepted shapes:
//
//	2 | "error" | true            level only
//	[1, {"max_bytes": 1024}]      level followed by options
//	{"level": 1, "options": {}}   object form
//
// null and false switch the rule off.
func ParseRule(v any) (Rule, error) {
	switch t := v.(type) {
	case config.Object:
		return ParseRule(map[string]any(t))
	case []any:
		if len(t) == 0 {
			return Rule{}, fmt.Errorf("empty rule list")
		}
		level, err := parseLevel(t[0])
		if err != nil {
			return Rule{}, err
		}
		r := Rule{Level: level}
		if len(t) > 1 {
			opts, ok := asOptions(t[1])
			if !ok {
				return Rule{}, fmt.Errorf("rule options must be an object, got %T", t[1])
			}
			r.Options = opts
		}
		return r, nil
	case map[string]any:
		r := Rule{Level: LevelWarn}
		if lv, ok := t["level"]; ok {
			level, err := parseLevel(lv)
			if err != nil {
				return Rule{}, err
			}
			r.Level = level
		}
		if o, ok := t["options"]; ok && o != nil {
			opts, ok := asOptions(o)
			if !ok {
				return Rule{}, fmt.Errorf("rule options must be an object, got %T", o)
			}
			r.Options = opts
		}
		return r, nil
	default:
		level, err := parseLevel(v)
		return Rule{Level: level}, err
	}
}

// asOptions accepts both plain decoded maps and config.Object values.
func asOptions(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case config.Object:
		return map[string]any(m), true
	}
	return nil, false
}

func parseLevel(v any) (Level, error) {
	switch t := v.(type) {
	case nil:
		return LevelOff, nil
	case bool:
		if t {
			return LevelWarn, nil
		}
		return LevelOff, nil
	case int:
		return levelFromInt(int64(t))
	case int64:
		return levelFromInt(t)
	case uint64:
		if t > math.MaxInt64 {
			return 0, fmt.Errorf("invalid rule level %d", t)
		}
		return levelFromInt(int64(t))
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("invalid rule level %v", t)
		}
		return levelFromInt(int64(t))
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "off", "0":
			return LevelOff, nil
		case "warn", "warning", "1":
			return LevelWarn, nil
		case "error", "2":
			return LevelError, nil
		}
		return 0, fmt.Errorf("invalid rule level %q", t)
	}
	return 0, fmt.Errorf("invalid rule level of type %T", v)
}

func levelFromInt(n int64) (Level, error) {
	if n < int64(LevelOff) || n > int64(LevelError) {
		return 0, fmt.Errorf("invalid rule level %d", n)
	}
	return Level(n), nil
}

// RulesFromConfig parses the "rules" section of a resolved configuration.
// A missing section yields no rules. Errors name the offending rule.
func RulesFromConfig(cfg config.Object) (map[string]Rule, error) {
	section := cfg.Section(config.RulesKey)
	rules := make(map[string]Rule, len(section))

	names := make([]string, 0, len(section))
	for name := range section {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r, err := ParseRule(section[name])
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", name, err)
		}
		rules[name] = r
	}
	return rules, nil
}
