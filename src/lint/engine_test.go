package lint

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofmeright/lintrc/src/config"
)

func init() {
	Register("marker", func() Module { return &markerModule{name: "marker", message: "marked"} })
	Register("quiet", func() Module { return &markerModule{name: "quiet", message: "quiet"} })
}

// markerModule reports one info finding per file.
type markerModule struct {
	name    string
	message string
}

func (m *markerModule) Name() string { return m.name }

func (m *markerModule) Configure(opts map[string]any) error {
	if s, ok := opts["message"].(string); ok {
		m.message = s
	}
	return nil
}

func (m *markerModule) Check(ctx context.Context, f FileInfo) ([]Finding, error) {
	return []Finding{{File: f.Path, Line: 1, Module: m.name, Severity: SeverityInfo, Message: m.message}}, nil
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func newResolver(t *testing.T, root, baseline string) *config.Resolver {
	t.Helper()
	install := t.TempDir()
	baselinePath := filepath.Join(install, "baseline.json")
	require.NoError(t, os.WriteFile(baselinePath, []byte(baseline), 0o644))

	logger := zerolog.Nop()
	r, err := config.New(config.Options{Cwd: root, BaselineFile: baselinePath, Logger: &logger})
	require.NoError(t, err)
	return r
}

func byFile(findings []Finding) map[string]Finding {
	out := make(map[string]Finding, len(findings))
	for _, f := range findings {
		out[filepath.ToSlash(f.File)] = f
	}
	return out
}

func TestEngine_PerDirectoryConfig(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".lintrc":          `{"blacklist": ["gen", "**/*.min.js"]}`,
		"a/one.txt":        "one",
		"a/lib.min.js":     "x",
		"gen/out.txt":      "generated",
		"b/.lintrc":        `{"rules": {"marker": 0}}`,
		"b/two.txt":        "two",
		"c/.lintrc":        `{"rules": {"marker": [2, {"message": "custom"}]}}`,
		"c/three.txt":      "three",
		".hidden/skip.txt": "hidden",
	})

	engine, err := NewEngine(newResolver(t, root, `{"rules": {"marker": 1}}`), root, nil, nil)
	require.NoError(t, err)

	files, err := engine.CollectFiles()
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, filepath.ToSlash(f.Path))
	}
	assert.ElementsMatch(t, []string{".lintrc", "a/one.txt", "a/lib.min.js", "b/.lintrc", "b/two.txt", "c/.lintrc", "c/three.txt"}, paths)

	findings, stats, err := engine.RunWithStats(context.Background(), files)
	require.NoError(t, err)

	got := byFile(findings)
	assert.Len(t, got, 4)

	assert.Equal(t, "marked", got["a/one.txt"].Message)
	assert.Equal(t, SeverityInfo, got["a/one.txt"].Severity)
	assert.NotContains(t, got, "a/lib.min.js")
	assert.NotContains(t, got, "b/two.txt")

	assert.Equal(t, "custom", got["c/three.txt"].Message)
	assert.Equal(t, SeverityCritical, got["c/three.txt"].Severity)

	total := 0
	for _, st := range stats {
		total += st.Findings
	}
	assert.Equal(t, 4, total)
}

func TestEngine_OnlyAndSkip(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "x"})
	resolver := newResolver(t, root, `{"rules": {"marker": 1, "quiet": 1}}`)

	files := []FileInfo{{Path: "f.txt", AbsPath: filepath.Join(root, "f.txt")}}

	engine, err := NewEngine(resolver, root, []string{"quiet"}, nil)
	require.NoError(t, err)
	findings, err := engine.Run(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "quiet", findings[0].Message)

	engine, err = NewEngine(resolver, root, nil, []string{"quiet"})
	require.NoError(t, err)
	findings, err = engine.Run(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "marked", findings[0].Message)
}

func TestNewEngine_UnknownModule(t *testing.T) {
	_, err := NewEngine(nil, "/", []string{"nope"}, nil)
	assert.Error(t, err)
}

func TestEngine_InvalidRule(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".lintrc": `{"rules": {"marker": "sometimes"}}`,
		"f.txt":   "x",
	})
	engine, err := NewEngine(newResolver(t, root, `{"rules": {}}`), root, nil, nil)
	require.NoError(t, err)

	_, err = engine.Run(context.Background(), []FileInfo{{Path: "f.txt", AbsPath: filepath.Join(root, "f.txt")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule marker")
}

type failingSource struct{ err error }

func (s failingSource) GetConfig(string) (config.Object, error) { return nil, s.err }

func TestEngine_ConfigErrorPropagates(t *testing.T) {
	boom := &config.FileSystemError{Dir: "/gone", Err: os.ErrPermission}
	engine, err := NewEngine(failingSource{err: boom}, "/", nil, nil)
	require.NoError(t, err)

	_, err = engine.Run(context.Background(), []FileInfo{{Path: "x", AbsPath: "/gone/x"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrPermission))
}
