package lint

import (
	"path/filepath"
	"strings"

	"github.com/sofmeright/lintrc/src/config"
)

// MatchGlob matches a glob pattern supporting ** against a forward-slash path.
// Patterns and paths should use "/" separators.
func MatchGlob(pattern, path string) bool { return matchGlob(pattern, path) }

// matchGlob extends filepath.Match with support for "**" (zero or more path
// segments). Patterns without "**" delegate directly to filepath.Match.
func matchGlob(pattern, path string) bool {
	if !strings.Contains(pattern, "**") {
		matched, _ := filepath.Match(pattern, path)
		return matched
	}

	idx := strings.Index(pattern, "**")
	prefix := pattern[:idx]
	suffix := strings.TrimLeft(pattern[idx+2:], "/")

	// The prefix (before **) must match the start of path.
	if prefix != "" {
		prefix = strings.TrimRight(prefix, "/")
		if !strings.HasPrefix(path, prefix) {
			return false
		}
		path = strings.TrimPrefix(path, prefix)
		path = strings.TrimLeft(path, "/")
	}

	// ** at the end matches everything remaining.
	if suffix == "" {
		return true
	}

	// Try the suffix against every tail: "a/b/c", "b/c", "c".
	parts := strings.Split(path, "/")
	for i := 0; i <= len(parts); i++ {
		tail := strings.Join(parts[i:], "/")
		if matchGlob(suffix, tail) {
			return true
		}
	}

	return false
}

// IsBlacklisted reports whether absPath is excluded by the blacklist of cfg.
// An entry excludes the path itself and everything below it; entries with
// glob metacharacters are matched as patterns against the whole path.
func IsBlacklisted(cfg config.Object, absPath string) bool {
	absPath = filepath.Clean(absPath)
	for _, entry := range cfg.Blacklist() {
		if entry == "" {
			continue
		}
		if absPath == entry || strings.HasPrefix(absPath, strings.TrimRight(entry, string(filepath.Separator))+string(filepath.Separator)) {
			return true
		}
		if strings.ContainsAny(entry, "*?[") && matchGlob(filepath.ToSlash(entry), filepath.ToSlash(absPath)) {
			return true
		}
	}
	return false
}
