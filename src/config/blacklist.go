package config

import "path/filepath"

// ResolveBlacklistPaths rewrites every blacklist entry of cfg to an absolute
// path relative to dir and returns cfg. Entry order is preserved and the key
// is always present afterwards. A bare string is treated as a one-entry
// list; non-string entries are dropped.
//
// Each loaded object must be normalized exactly once, against the directory
// of the file it came from: entries that are already absolute stay put, but
// relative ones would resolve against whatever dir a second call passes.
func ResolveBlacklistPaths(cfg Object, dir string) Object {
	if cfg == nil {
		cfg = Object{}
	}

	var raw []string
	switch v := cfg[BlacklistKey].(type) {
	case string:
		raw = []string{v}
	default:
		raw = cfg.Blacklist()
	}

	paths := make([]string, 0, len(raw))
	for _, p := range raw {
		paths = append(paths, resolvePath(dir, p))
	}
	cfg[BlacklistKey] = paths
	return cfg
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}
