package modules

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/sofmeright/lintrc/src/lint"
)

func init() {
	lint.Register("lineendings", func() lint.Module {
		return &lineEndingsModule{cfg: defaultLineEndingsConfig()}
	})
}

type lineEndingsConfig struct {
	// Style is "lf", "crlf" or "" (any, as long as it is consistent).
	Style              string `json:"style"`
	TrailingWhitespace bool   `json:"trailing_whitespace"`
	FinalNewline       bool   `json:"final_newline"`
}

func defaultLineEndingsConfig() lineEndingsConfig {
	return lineEndingsConfig{TrailingWhitespace: true, FinalNewline: true}
}

type lineEndingsModule struct {
	cfg lineEndingsConfig
}

func (m *lineEndingsModule) Name() string { return "lineendings" }

// Configure implements lint.ConfigurableModule.
func (m *lineEndingsModule) Configure(opts map[string]any) error {
	cfg := defaultLineEndingsConfig()
	if err := decodeOptions(m.Name(), opts, &cfg); err != nil {
		return err
	}
	switch cfg.Style {
	case "", "lf", "crlf":
	default:
		return fmt.Errorf("lineendings: style must be lf or crlf, got %q", cfg.Style)
	}
	m.cfg = cfg
	return nil
}

func (m *lineEndingsModule) Check(ctx context.Context, file lint.FileInfo) ([]lint.Finding, error) {
	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var findings []lint.Finding
	add := func(line int, sev lint.Severity, msg string) {
		findings = append(findings, lint.Finding{
			File:     file.Path,
			Line:     line,
			Module:   m.Name(),
			Severity: sev,
			Message:  msg,
		})
	}

	crlf := bytes.Count(data, []byte("\r\n"))
	lf := bytes.Count(data, []byte("\n")) - crlf

	switch {
	case crlf > 0 && lf > 0:
		add(1, lint.SeverityWarning, "mixed line endings (CRLF and LF)")
	case crlf > 0 && m.cfg.Style == "lf":
		add(1, lint.SeverityWarning, "file uses CRLF line endings, LF expected")
	case lf > 0 && m.cfg.Style == "crlf":
		add(1, lint.SeverityWarning, "file uses LF line endings, CRLF expected")
	}

	lines := bytes.Split(data, []byte("\n"))
	if m.cfg.TrailingWhitespace {
		for i, line := range lines {
			line = bytes.TrimSuffix(line, []byte("\r"))
			if len(bytes.TrimRight(line, " \t")) < len(line) {
				add(i+1, lint.SeverityInfo, "trailing whitespace")
			}
		}
	}

	if m.cfg.FinalNewline && data[len(data)-1] != '\n' {
		add(len(lines), lint.SeverityInfo, "missing final newline")
	}

	return findings, nil
}
