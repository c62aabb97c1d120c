package modules

import (
	"context"
	"fmt"
	"os"

	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/sofmeright/lintrc/src/lint"
)

func init() {
	lint.Register("secrets", func() lint.Module { return &secretsModule{} })
}

type secretsModule struct {
	detector *detect.Detector
}

func (m *secretsModule) Name() string { return "secrets" }

// Configure implements lint.ConfigurableModule. It builds the detector;
// Check only reads it, so one instance can serve concurrent checks.
func (m *secretsModule) Configure(opts map[string]any) error {
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return fmt.Errorf("secrets: loading detector: %w", err)
	}
	m.detector = d
	return nil
}

func (m *secretsModule) Check(ctx context.Context, file lint.FileInfo) ([]lint.Finding, error) {
	if m.detector == nil {
		return nil, fmt.Errorf("secrets: module not configured")
	}

	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, err
	}

	hits := m.detector.DetectBytes(data)
	if len(hits) == 0 {
		return nil, nil
	}

	findings := make([]lint.Finding, 0, len(hits))
	for _, h := range hits {
		findings = append(findings, lint.Finding{
			File:     file.Path,
			Line:     h.StartLine + 1, // gitleaks is 0-indexed
			Module:   m.Name(),
			Severity: lint.SeverityCritical,
			Message:  h.Description + " (" + h.RuleID + ")",
		})
	}
	return findings, nil
}
