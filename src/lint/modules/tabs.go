package modules

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sofmeright/lintrc/src/lint"
)

func init() {
	lint.Register("tabs", func() lint.Module { return &tabsModule{cfg: defaultTabsConfig()} })
}

// defaultTabSuffixes lists file suffixes where tab indentation breaks syntax:
// YAML and compound YAML template extensions. Bare .tpl is omitted since
// Helm uses it for non-YAML too.
var defaultTabSuffixes = []string{
	".yml", ".yaml",
	".yaml.gotmpl", ".yml.gotmpl",
	".yaml.tmpl", ".yml.tmpl",
	".yaml.tpl", ".yml.tpl",
	".yaml.j2", ".yml.j2",
}

type tabsConfig struct {
	// Suffixes are matched against the file's base name. "*" matches
	// every file.
	Suffixes []string `json:"suffixes"`
}

func defaultTabsConfig() tabsConfig {
	return tabsConfig{Suffixes: defaultTabSuffixes}
}

type tabsModule struct {
	cfg tabsConfig
}

func (m *tabsModule) Name() string { return "tabs" }

// Configure implements lint.ConfigurableModule.
func (m *tabsModule) Configure(opts map[string]any) error {
	cfg := defaultTabsConfig()
	if err := decodeOptions(m.Name(), opts, &cfg); err != nil {
		return err
	}
	m.cfg = cfg
	return nil
}

func (m *tabsModule) Check(ctx context.Context, file lint.FileInfo) ([]lint.Finding, error) {
	if !m.tabsForbidden(file.Path) {
		return nil, nil
	}

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
		line := scanner.Text()

		// Only flag leading tabs (indentation), not tabs inside content
		if strings.HasPrefix(line, "\t") {
			findings = append(findings, lint.Finding{
				File:     file.Path,
				Line:     lineNum,
				Module:   m.Name(),
				Severity: lint.SeverityInfo,
				Message:  "tab indentation (spaces expected)",
			})
		}
	}

	return findings, scanner.Err()
}

// tabsForbidden matches on the full base name, so "values.yaml.gotmpl"
// is caught even though its last extension is ".gotmpl".
func (m *tabsModule) tabsForbidden(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range m.cfg.Suffixes {
		if suffix == "*" || strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}
