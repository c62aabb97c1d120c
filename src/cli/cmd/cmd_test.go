package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofmeright/lintrc/src/output"
)

// execute runs the root command in dir with fresh flag state and returns
// what it wrote to stdout.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)

	cfgFile, outFormat, verbose, logLevel = "", "", false, ""
	lintModules, lintNoModule = nil, nil
	lintChanged, lintTargetBranch = false, ""
	printConfigOutput = output.ConfigJSON

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "lintrc ")
}

func TestFindConfigCommand(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		".lintrc":   "{}\n",
		"a/b/c.txt": "x\n",
	})

	out, err := execute(t, filepath.Join(root, "a", "b"), "find-config")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".lintrc")+"\n", out)

	out, err = execute(t, root, "find-config", "a")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".lintrc")+"\n", out)
}

func TestPrintConfigCommand(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		".lintrc":       `{"blacklist": ["vendor"], "rules": {"tabs": 0}}` + "\n",
		"sub/.lintrc":   "rules:\n  secrets: 1\n",
		"sub/file.yaml": "a: 1\n",
	})

	out, err := execute(t, root, "print-config")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []any{filepath.Join(root, "vendor")}, got["blacklist"])
	rules := got["rules"].(map[string]any)
	assert.Equal(t, float64(0), rules["tabs"])
	assert.Equal(t, float64(2), rules["conflicts"])

	out, err = execute(t, root, "print-config", "sub/file.yaml")
	require.NoError(t, err)
	got = nil
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	rules = got["rules"].(map[string]any)
	assert.Equal(t, float64(1), rules["secrets"])
	assert.Equal(t, float64(1), rules["tabs"], "sub/.lintrc replaces the root file, not merges with it")
	assert.Equal(t, []any{}, got["blacklist"])

	out, err = execute(t, root, "print-config", "--output", "yaml", "-c", ".lintrc", "sub/file.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "tabs: 0")
}

func TestLintCommand(t *testing.T) {
	t.Run("critical findings fail", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{
			"merge.txt": "<<<<<<< HEAD\nmine\n",
			"ok.txt":    "fine\n",
		})

		out, err := execute(t, root, "lint", "--format", "compact")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 critical")
		assert.Contains(t, out, "merge.txt:1: critical [conflicts] merge conflict marker: <<<<<<<")
		assert.NotContains(t, out, "ok.txt")
	})

	t.Run("local config disables module and selects format", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{
			".lintrc":   `{"format": "json", "rules": {"conflicts": 0}}` + "\n",
			"merge.txt": "<<<<<<< HEAD\nmine\n",
		})

		out, err := execute(t, root, "lint")
		require.NoError(t, err)

		var report struct {
			Findings []map[string]any `json:"findings"`
			Summary  map[string]int   `json:"summary"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Empty(t, report.Findings)
		assert.Equal(t, 2, report.Summary["files"])
	})

	t.Run("blacklisted directory is not scanned", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{
			".lintrc":          `{"blacklist": ["third_party"]}` + "\n",
			"third_party/x.go": "<<<<<<< HEAD\n",
		})

		out, err := execute(t, root, "lint", "--format", "compact")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("unknown format", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{"a.txt": "a\n"})

		_, err := execute(t, root, "lint", "--format", "sarif")
		assert.ErrorContains(t, err, "unknown output format")
	})
}

func TestValidateCommand(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"good.json": `{"rules": {"tabs": "warn"}, "format": "stylish"}`,
		"bad.json":  `{"rules": {"tabs": "sometimes"}, "format": "sarif"}`,
		".lintrc":   "blacklist: [dist]\n",
	})

	out, err := execute(t, root, "validate", "good.json")
	require.NoError(t, err)
	assert.Equal(t, "good.json: ok\n", out)

	out, err = execute(t, root, "validate", "good.json", "bad.json")
	require.Error(t, err)
	assert.Equal(t, "1 of 2 config files invalid", err.Error())
	assert.Contains(t, out, "rule tabs")
	assert.Contains(t, out, "unknown output format")

	out, err = execute(t, root, "validate")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".lintrc")+": ok\n", out)
}

func TestValidateCommand_BrokenConfigFlag(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"broken.json": `{"rules": {"tabs": 0},}`,
	})

	out, err := execute(t, root, "validate", "--config", "broken.json")
	require.Error(t, err)
	assert.Equal(t, "1 of 1 config files invalid", err.Error())
	assert.Contains(t, out, "broken.json: parsing config broken.json")
}

func TestLintCommand_ModuleFlagsDoNotLeak(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"merge.txt": "<<<<<<< HEAD\nmine\n",
	})

	out, err := execute(t, root, "lint", "--format", "compact", "--module", "tabs")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = execute(t, root, "lint", "--format", "compact")
	require.Error(t, err)
	assert.Contains(t, out, "[conflicts]")
}
