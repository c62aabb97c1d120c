package modules

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sofmeright/lintrc/src/lint"
)

func init() {
	lint.Register("unicode", func() lint.Module { return &unicodeModule{cfg: defaultUnicodeConfig()} })
}

// runeClass describes a suspicious code point.
type runeClass struct {
	desc     string
	severity lint.Severity
	spacing  bool // confusable whitespace, controlled by the whitespace option
}

var suspiciousRunes = map[rune]runeClass{
	// Bidi controls can reorder rendered source (trojan source).
	'\u202A': {"bidi override: left-to-right embedding", lint.SeverityCritical, false},
	'\u202B': {"bidi override: right-to-left embedding", lint.SeverityCritical, false},
	'\u202C': {"bidi override: pop directional formatting", lint.SeverityCritical, false},
	'\u202D': {"bidi override: left-to-right override", lint.SeverityCritical, false},
	'\u202E': {"bidi override: right-to-left override", lint.SeverityCritical, false},
	'\u2066': {"bidi override: left-to-right isolate", lint.SeverityCritical, false},
	'\u2067': {"bidi override: right-to-left isolate", lint.SeverityCritical, false},
	'\u2068': {"bidi override: first strong isolate", lint.SeverityCritical, false},
	'\u2069': {"bidi override: pop directional isolate", lint.SeverityCritical, false},

	'\u200B': {"zero-width space", lint.SeverityCritical, false},
	'\u200C': {"zero-width non-joiner", lint.SeverityCritical, false},
	'\u200D': {"zero-width joiner", lint.SeverityCritical, false},
	'\uFEFF': {"zero-width no-break space (unexpected BOM)", lint.SeverityCritical, false},

	'\u00AD': {"soft hyphen (invisible)", lint.SeverityWarning, false},
	'\u034F': {"combining grapheme joiner", lint.SeverityWarning, false},
	'\u2060': {"word joiner (invisible)", lint.SeverityWarning, false},
	'\u2061': {"invisible math operator", lint.SeverityWarning, false},
	'\u2062': {"invisible math operator", lint.SeverityWarning, false},
	'\u2063': {"invisible math operator", lint.SeverityWarning, false},
	'\u2064': {"invisible math operator", lint.SeverityWarning, false},
	'\u180E': {"mongolian vowel separator (invisible whitespace)", lint.SeverityWarning, false},

	'\u00A0': {"non-breaking space", lint.SeverityWarning, true},
	'\u205F': {"medium mathematical space", lint.SeverityWarning, true},
	'\u3000': {"ideographic space", lint.SeverityWarning, true},
}

func classify(r rune) (runeClass, bool) {
	if c, ok := suspiciousRunes[r]; ok {
		return c, true
	}
	switch {
	case r >= '\u2000' && r <= '\u200A':
		return runeClass{"unusual whitespace character", lint.SeverityWarning, true}, true
	case r >= 0xE0001 && r <= 0xE007F:
		return runeClass{"tag character (invisible)", lint.SeverityCritical, false}, true
	case r < 0x80 && r != '\t' && r != '\n' && r != '\r' && unicode.IsControl(r):
		return runeClass{"ASCII control character", lint.SeverityWarning, false}, true
	}
	return runeClass{}, false
}

type unicodeConfig struct {
	// Allow lists code points that are never reported, either as the
	// character itself or as "U+XXXX".
	Allow []string `json:"allow"`
	// Whitespace reports confusable space characters.
	Whitespace bool `json:"whitespace"`
}

func defaultUnicodeConfig() unicodeConfig {
	return unicodeConfig{Whitespace: true}
}

type unicodeModule struct {
	cfg   unicodeConfig
	allow map[rune]bool
}

func (m *unicodeModule) Name() string { return "unicode" }

// Configure implements lint.ConfigurableModule.
func (m *unicodeModule) Configure(opts map[string]any) error {
	cfg := defaultUnicodeConfig()
	if err := decodeOptions(m.Name(), opts, &cfg); err != nil {
		return err
	}

	allow := make(map[rune]bool, len(cfg.Allow))
	for _, s := range cfg.Allow {
		r, err := parseCodePoint(s)
		if err != nil {
			return fmt.Errorf("%s: allow: %w", m.Name(), err)
		}
		allow[r] = true
	}

	m.cfg = cfg
	m.allow = allow
	return nil
}

// parseCodePoint accepts a single character or U+XXXX notation.
func parseCodePoint(s string) (rune, error) {
	if rest, ok := strings.CutPrefix(strings.ToUpper(s), "U+"); ok && len(rest) >= 4 {
		n, err := strconv.ParseUint(rest, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid code point %q", s)
		}
		return rune(n), nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("expected one character or U+XXXX, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func (m *unicodeModule) Check(ctx context.Context, file lint.FileInfo) ([]lint.Finding, error) {
	f, err := os.Open(file.AbsPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var findings []lint.Finding
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		if !utf8.Valid(line) {
			findings = append(findings, lint.Finding{
				File:     file.Path,
				Line:     lineNum,
				Module:   m.Name(),
				Severity: lint.SeverityWarning,
				Message:  "invalid UTF-8 encoding",
			})
			continue
		}

		col := 0
		for i := 0; i < len(line); {
			r, size := utf8.DecodeRune(line[i:])
			col++
			i += size

			// A byte order mark is fine as the first character of the file.
			if r == '\uFEFF' && lineNum == 1 && col == 1 {
				continue
			}
			if m.allow[r] {
				continue
			}
			c, ok := classify(r)
			if !ok || (c.spacing && !m.cfg.Whitespace) {
				continue
			}

			findings = append(findings, lint.Finding{
				File:     file.Path,
				Line:     lineNum,
				Column:   col,
				Module:   m.Name(),
				Severity: c.severity,
				Message:  fmt.Sprintf("%s (U+%04X)", c.desc, r),
			})
		}
	}

	return findings, scanner.Err()
}
