package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveBlacklistPaths(t *testing.T) {
	cfg := Object{"blacklist": []any{"foo.js", "../treasure"}}

	got := ResolveBlacklistPaths(cfg, "/Users/superman/dev/js")

	assert.Equal(t, []string{"/Users/superman/dev/js/foo.js", "/Users/superman/dev/treasure"}, got.Blacklist())
}

func TestResolveBlacklistPaths_InstallsEmptyList(t *testing.T) {
	got := ResolveBlacklistPaths(Object{"rules": map[string]any{}}, "/work")

	assert.Contains(t, got, BlacklistKey)
	assert.Equal(t, []string{}, got[BlacklistKey])
}

func TestResolveBlacklistPaths_NilConfig(t *testing.T) {
	got := ResolveBlacklistPaths(nil, "/work")

	assert.Equal(t, Object{BlacklistKey: []string{}}, got)
}

func TestResolveBlacklistPaths_KeepsAbsoluteEntries(t *testing.T) {
	cfg := Object{"blacklist": []any{"/var/cache/", "build", "./gen/../out"}}

	got := ResolveBlacklistPaths(cfg, "/work")

	assert.Equal(t, []string{"/var/cache", "/work/build", "/work/out"}, got.Blacklist())
}

func TestResolveBlacklistPaths_Shapes(t *testing.T) {
	t.Run("single string", func(t *testing.T) {
		got := ResolveBlacklistPaths(Object{"blacklist": "vendor"}, "/work")
		assert.Equal(t, []string{"/work/vendor"}, got.Blacklist())
	})
	t.Run("non-string entries dropped", func(t *testing.T) {
		got := ResolveBlacklistPaths(Object{"blacklist": []any{"a", 3, nil, "b"}}, "/work")
		assert.Equal(t, []string{"/work/a", "/work/b"}, got.Blacklist())
	})
	t.Run("unsupported type becomes empty", func(t *testing.T) {
		got := ResolveBlacklistPaths(Object{"blacklist": map[string]any{"a": true}}, "/work")
		assert.Equal(t, []string{}, got[BlacklistKey])
	})
}

func TestResolveBlacklistPaths_ReturnsSameObject(t *testing.T) {
	cfg := Object{"blacklist": []any{"x"}}

	got := ResolveBlacklistPaths(cfg, "/base")

	assert.Equal(t, []string{"/base/x"}, cfg.Blacklist())
	got["marker"] = true
	assert.Equal(t, true, cfg["marker"])
}
