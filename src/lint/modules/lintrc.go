package modules

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sofmeright/lintrc/src/config"
	"github.com/sofmeright/lintrc/src/lint"
)

func init() {
	lint.Register("lintrc", func() lint.Module { return &lintrcModule{} })
}

// lintrcModule checks local configuration files. The resolver swallows a
// malformed .lintrc and falls back to the baseline, so this is where the
// user learns about it.
type lintrcModule struct{}

func (m *lintrcModule) Name() string { return "lintrc" }

func (m *lintrcModule) Check(ctx context.Context, file lint.FileInfo) ([]lint.Finding, error) {
	if filepath.Base(file.Path) != config.LocalConfigFilename {
		return nil, nil
	}

	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, err
	}

	finding := func(sev lint.Severity, msg string) lint.Finding {
		return lint.Finding{File: file.Path, Module: m.Name(), Severity: sev, Message: msg}
	}

	cfg, err := config.Parse(data, file.Path)
	if err != nil {
		return []lint.Finding{finding(lint.SeverityCritical, err.Error())}, nil
	}

	var findings []lint.Finding
	warnings, err := config.Validate(cfg)
	for _, w := range warnings {
		findings = append(findings, finding(lint.SeverityWarning, w))
	}
	if err != nil {
		findings = append(findings, finding(lint.SeverityCritical, err.Error()))
	}

	rules, err := lint.RulesFromConfig(cfg)
	if err != nil {
		return append(findings, finding(lint.SeverityCritical, err.Error())), nil
	}

	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := lint.Get(name); err != nil {
			findings = append(findings, finding(lint.SeverityWarning, fmt.Sprintf("rule for unknown module %q", name)))
		}
	}

	return findings, nil
}
