package modules

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sofmeright/lintrc/src/lint"
)

func init() {
	lint.Register("yaml", func() lint.Module { return &yamlModule{cfg: defaultYAMLConfig()} })
}

type yamlConfig struct {
	Suffixes      []string `json:"suffixes"`
	DuplicateKeys bool     `json:"duplicate_keys"`
}

func defaultYAMLConfig() yamlConfig {
	return yamlConfig{Suffixes: []string{".yml", ".yaml"}, DuplicateKeys: true}
}

type yamlModule struct {
	cfg yamlConfig
}

func (m *yamlModule) Name() string { return "yaml" }

// Configure implements lint.ConfigurableModule.
func (m *yamlModule) Configure(opts map[string]any) error {
	cfg := defaultYAMLConfig()
	if err := decodeOptions(m.Name(), opts, &cfg); err != nil {
		return err
	}
	m.cfg = cfg
	return nil
}

func (m *yamlModule) applies(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, suffix := range m.cfg.Suffixes {
		if strings.HasSuffix(base, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}

// Check reports syntax errors in every document of a multi-document stream
// and, optionally, duplicate mapping keys.
func (m *yamlModule) Check(ctx context.Context, file lint.FileInfo) ([]lint.Finding, error) {
	if !m.applies(file.Path) {
		return nil, nil
	}

	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var findings []lint.Finding
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc yaml.Node
		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			findings = append(findings, lint.Finding{
				File:     file.Path,
				Module:   m.Name(),
				Severity: lint.SeverityCritical,
				Message:  fmt.Sprintf("YAML parse error: %v", err),
			})
			break
		}
		if m.cfg.DuplicateKeys {
			findings = append(findings, duplicateKeys(&doc, file.Path, m.Name())...)
		}
	}

	return findings, nil
}

// duplicateKeys walks a node tree and reports keys repeated within one mapping.
func duplicateKeys(node *yaml.Node, path, module string) []lint.Finding {
	if node == nil {
		return nil
	}

	var findings []lint.Finding
	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			findings = append(findings, duplicateKeys(child, path, module)...)
		}
	case yaml.MappingNode:
		seen := make(map[string]int) // key -> first line number
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if first, ok := seen[key.Value]; ok {
				findings = append(findings, lint.Finding{
					File:     path,
					Line:     key.Line,
					Column:   key.Column,
					Module:   module,
					Severity: lint.SeverityWarning,
					Message:  fmt.Sprintf("duplicate key %q (first defined at line %d)", key.Value, first),
				})
			} else {
				seen[key.Value] = key.Line
			}
			findings = append(findings, duplicateKeys(node.Content[i+1], path, module)...)
		}
	}
	return findings
}
