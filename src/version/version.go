package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// These variables are injected at build time via -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Semver returns Version normalized to semantic versioning, tolerating a
// leading "v" and short forms like "1.2". Anything unparsable becomes a
// 0.0.0 prerelease, so "dev" reports 0.0.0-dev and "feature/x" reports
// 0.0.0-feature-x.
func Semver() string {
	if v, err := semver.NewVersion(Version); err == nil {
		return v.String()
	}
	v, err := semver.NewVersion("0.0.0-" + prerelease(Version))
	if err != nil {
		return "0.0.0-unknown"
	}
	return v.String()
}

// prerelease turns s into dot-separated identifiers of [0-9A-Za-z-] with no
// empty parts and no leading zeros on numeric parts.
func prerelease(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '.':
			return r
		}
		return '-'
	}, s)

	var ids []string
	for _, id := range strings.Split(mapped, ".") {
		if id == "" {
			continue
		}
		if strings.Trim(id, "0123456789") == "" {
			if id = strings.TrimLeft(id, "0"); id == "" {
				id = "0"
			}
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return "unknown"
	}
	return strings.Join(ids, ".")
}

// String returns a human-readable version string.
func String() string {
	return fmt.Sprintf("lintrc %s (%s, %s)", Semver(), Commit, BuildDate)
}
