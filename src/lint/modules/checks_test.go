package modules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofmeright/lintrc/src/lint"
)

func TestUnicode(t *testing.T) {
	content := "\uFEFFclean line\n" +
		"if admin\u202E {\n" +
		"price:\u00A0100\n" +
		"zero\u200Bwidth\n" +
		"bell\x07\n"
	file := writeTempFile(t, "trojan.go", []byte(content))

	t.Run("defaults", func(t *testing.T) {
		got, err := configured(t, "unicode", nil).Check(context.Background(), file)
		require.NoError(t, err)
		require.Len(t, got, 4)

		assert.Equal(t, 2, got[0].Line)
		assert.Equal(t, 9, got[0].Column)
		assert.Equal(t, lint.SeverityCritical, got[0].Severity)
		assert.Equal(t, "bidi override: right-to-left override (U+202E)", got[0].Message)

		assert.Equal(t, "non-breaking space (U+00A0)", got[1].Message)
		assert.Equal(t, lint.SeverityWarning, got[1].Severity)
		assert.Equal(t, "zero-width space (U+200B)", got[2].Message)
		assert.Equal(t, "ASCII control character (U+0007)", got[3].Message)
	})

	t.Run("allow and whitespace off", func(t *testing.T) {
		m := configured(t, "unicode", map[string]any{
			"allow":      []any{"U+200B", "\x07"},
			"whitespace": false,
		})
		got, err := m.Check(context.Background(), file)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].Line)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		got, err := configured(t, "unicode", nil).Check(context.Background(), writeTempFile(t, "bin.txt", []byte("ok\n\xff\xfe\n")))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "invalid UTF-8 encoding", got[0].Message)
	})

	t.Run("bad allow entry", func(t *testing.T) {
		m, err := lint.Get("unicode")
		require.NoError(t, err)
		assert.Error(t, m.(lint.ConfigurableModule).Configure(map[string]any{"allow": []any{"ab"}}))
		assert.Error(t, m.(lint.ConfigurableModule).Configure(map[string]any{"allow": []any{"U+ZZZZ"}}))
	})
}

func TestParseCodePoint(t *testing.T) {
	r, err := parseCodePoint("u+00a0")
	require.NoError(t, err)
	assert.Equal(t, '\u00A0', r)

	r, err = parseCodePoint("é")
	require.NoError(t, err)
	assert.Equal(t, 'é', r)

	r, err = parseCodePoint("U+1")
	assert.Error(t, err)
	assert.Zero(t, r)
}

func TestYAML(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		opts    map[string]any
		want    []string
	}{
		{"valid", "a.yaml", "a: 1\nb: [1, 2]\n", nil, nil},
		{"not yaml", "a.txt", "a: [\n", nil, nil},
		{"empty", "a.yml", "\n  \n", nil, nil},
		{"duplicate key", "a.yml", "a: 1\nb:\n  c: 1\n  c: 2\na: 3\n", nil, []string{
			`duplicate key "a" (first defined at line 1)`,
			`duplicate key "c" (first defined at line 3)`,
		}},
		{"duplicates ignored", "a.yml", "a: 1\na: 2\n", map[string]any{"duplicate_keys": false}, nil},
		{"second document", "a.yaml", "a: 1\n---\nb: 1\nb: 2\n", nil, []string{`duplicate key "b" (first defined at line 3)`}},
		{"custom suffix", "values.yaml.gotmpl", "a: 1\na: 2\n", map[string]any{"suffixes": []any{".yaml.gotmpl"}}, []string{`duplicate key "a" (first defined at line 1)`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := configured(t, "yaml", tt.opts).Check(context.Background(), writeTempFile(t, tt.file, []byte(tt.content)))
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.ElementsMatch(t, tt.want, messages(got))
		})
	}

	t.Run("syntax error", func(t *testing.T) {
		got, err := configured(t, "yaml", nil).Check(context.Background(), writeTempFile(t, "bad.yaml", []byte("a: [1, 2\n")))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, lint.SeverityCritical, got[0].Severity)
		assert.Contains(t, got[0].Message, "YAML parse error")
	})
}

func TestLintrc(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    []string
	}{
		{"other file", "notes.txt", "{", nil},
		{"valid", ".lintrc", `{"blacklist": ["dist"], "rules": {"tabs": "error"}}`, nil},
		{"unknown key and module", "sub/.lintrc", "extends: base\nrules:\n  nosuch: 1\n", []string{
			`unknown key "extends"`,
			`rule for unknown module "nosuch"`,
		}},
		{"bad level", ".lintrc", `{"rules": {"tabs": "loud"}}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := configured(t, "lintrc", nil).Check(context.Background(), writeTempFile(t, tt.file, []byte(tt.content)))
			require.NoError(t, err)
			if tt.name == "bad level" {
				require.Len(t, got, 1)
				assert.Equal(t, lint.SeverityCritical, got[0].Severity)
				assert.Contains(t, got[0].Message, "rule tabs")
				return
			}
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, messages(got))
		})
	}

	t.Run("malformed", func(t *testing.T) {
		got, err := configured(t, "lintrc", nil).Check(context.Background(), writeTempFile(t, ".lintrc", []byte(`{"rules": `)))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, lint.SeverityCritical, got[0].Severity)
		assert.Contains(t, got[0].Message, "parsing config")
	})
}
