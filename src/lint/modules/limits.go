package modules

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/sofmeright/lintrc/src/lint"
)

const (
	defaultMaxBytes int64 = 500 * 1024 // 500 KB
	defaultMaxLines       = 1000
)

func init() {
	lint.Register("filesize", func() lint.Module {
		return &filesizeModule{cfg: filesizeConfig{MaxBytes: defaultMaxBytes}}
	})
	lint.Register("linecount", func() lint.Module {
		return &linecountModule{cfg: linecountConfig{MaxLines: defaultMaxLines}}
	})
}

type filesizeConfig struct {
	MaxBytes int64 `json:"max_bytes"`
}

// filesizeModule flags files larger than max_bytes. It works from the size
// collected during the walk and never opens the file.
type filesizeModule struct {
	cfg filesizeConfig
}

func (m *filesizeModule) Name() string { return "filesize" }

// Configure implements lint.ConfigurableModule.
func (m *filesizeModule) Configure(opts map[string]any) error {
	cfg := filesizeConfig{MaxBytes: defaultMaxBytes}
	if err := decodeOptions(m.Name(), opts, &cfg); err != nil {
		return err
	}
	if cfg.MaxBytes < 0 {
		return fmt.Errorf("filesize: max_bytes must be non-negative, got %d", cfg.MaxBytes)
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	m.cfg = cfg
	return nil
}

func (m *filesizeModule) Check(ctx context.Context, file lint.FileInfo) ([]lint.Finding, error) {
	if file.Size <= m.cfg.MaxBytes {
		return nil, nil
	}
	return []lint.Finding{{
		File:     file.Path,
		Module:   m.Name(),
		Severity: lint.SeverityWarning,
		Message:  fmt.Sprintf("file size %s exceeds threshold %s", humanSize(file.Size), humanSize(m.cfg.MaxBytes)),
	}}, nil
}

type linecountConfig struct {
	MaxLines int `json:"max_lines"`
}

type linecountModule struct {
	cfg linecountConfig
}

func (m *linecountModule) Name() string { return "linecount" }

// Configure implements lint.ConfigurableModule.
func (m *linecountModule) Configure(opts map[string]any) error {
	cfg := linecountConfig{MaxLines: defaultMaxLines}
	if err := decodeOptions(m.Name(), opts, &cfg); err != nil {
		return err
	}
	if cfg.MaxLines < 0 {
		return fmt.Errorf("linecount: max_lines must be non-negative, got %d", cfg.MaxLines)
	}
	if cfg.MaxLines == 0 {
		cfg.MaxLines = defaultMaxLines
	}
	m.cfg = cfg
	return nil
}

func (m *linecountModule) Check(ctx context.Context, file lint.FileInfo) ([]lint.Finding, error) {
	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, err
	}

	count := bytes.Count(data, []byte("\n"))
	if len(data) > 0 && data[len(data)-1] != '\n' {
		count++
	}
	if count <= m.cfg.MaxLines {
		return nil, nil
	}

	return []lint.Finding{{
		File:     file.Path,
		Line:     count,
		Module:   m.Name(),
		Severity: lint.SeverityWarning,
		Message:  fmt.Sprintf("file has %d lines, exceeds threshold %d", count, m.cfg.MaxLines),
	}}, nil
}

func humanSize(b int64) string {
	switch {
	case b >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(b)/(1024*1024))
	case b >= 1024:
		return fmt.Sprintf("%.1f KB", float64(b)/1024)
	default:
		return fmt.Sprintf("%d B", b)
	}
}
