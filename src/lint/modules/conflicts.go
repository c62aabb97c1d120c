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
	lint.Register("conflicts", func() lint.Module { return &conflictsModule{} })
}

type conflictsModule struct{}

func (m *conflictsModule) Name() string { return "conflicts" }

// Check flags merge conflict markers. Markers must start the line; the
// separator must be the whole line so that setext headings and ASCII rules
// of other lengths are not reported.
func (m *conflictsModule) Check(ctx context.Context, file lint.FileInfo) ([]lint.Finding, error) {
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
		line := strings.TrimRight(scanner.Text(), "\r")

		marker := conflictMarker(line)
		if marker == "" {
			continue
		}
		findings = append(findings, lint.Finding{
			File:     file.Path,
			Line:     lineNum,
			Module:   m.Name(),
			Severity: lint.SeverityCritical,
			Message:  "merge conflict marker: " + marker,
		})
	}

	return findings, scanner.Err()
}

func conflictMarker(line string) string {
	switch {
	case line == "=======":
		return line
	case line == "<<<<<<<" || strings.HasPrefix(line, "<<<<<<< "):
		return "<<<<<<<"
	case line == ">>>>>>>" || strings.HasPrefix(line, ">>>>>>> "):
		return ">>>>>>>"
	case line == "|||||||" || strings.HasPrefix(line, "||||||| "):
		return "|||||||"
	}
	return ""
}

// CheckFilenameCollisions detects case-insensitive filename collisions across a set of files.
// Called separately from the per-file Check because it needs the full file list.
func CheckFilenameCollisions(files []lint.FileInfo) []lint.Finding {
	seen := make(map[string]string) // lowercase path -> original path
	var findings []lint.Finding

	for _, f := range files {
		lower := strings.ToLower(filepath.ToSlash(f.Path))
		if original, exists := seen[lower]; exists && original != f.Path {
			findings = append(findings, lint.Finding{
				File:     f.Path,
				Module:   "conflicts",
				Severity: lint.SeverityWarning,
				Message:  "case-insensitive filename collision with " + original,
			})
		} else {
			seen[lower] = f.Path
		}
	}

	return findings
}
