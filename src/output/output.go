package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sofmeright/lintrc/src/lint"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// Findings output formats, selected by the "format" configuration key.
const (
	FormatStylish = "stylish"
	FormatCompact = "compact"
	FormatJSON    = "json"
	FormatJUnit   = "junit"
)

// Formats lists the supported findings formats.
func Formats() []string {
	return []string{FormatStylish, FormatCompact, FormatJSON, FormatJUnit}
}

// Report is everything a formatter may render for one lint run.
type Report struct {
	Findings []lint.Finding
	Files    []lint.FileInfo
	Stats    []lint.ModuleStats
	Elapsed  time.Duration
}

// Tally counts findings by severity.
func (r Report) Tally() (critical, warning, info int) {
	for _, f := range r.Findings {
		switch f.Severity {
		case lint.SeverityCritical:
			critical++
		case lint.SeverityWarning:
			warning++
		case lint.SeverityInfo:
			info++
		}
	}
	return critical, warning, info
}

// Printer formats and writes lint findings.
type Printer struct {
	Writer io.Writer
	Color  bool
	Format string
}

// NewPrinter creates a printer for format writing to stdout with color
// auto-detection. An empty format selects stylish.
func NewPrinter(format string) (*Printer, error) {
	if format == "" {
		format = FormatStylish
	}
	format = strings.ToLower(format)
	switch format {
	case FormatStylish, FormatCompact, FormatJSON, FormatJUnit:
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
	return &Printer{
		Writer: os.Stdout,
		Color:  UseColor(),
		Format: format,
	}, nil
}

// Print renders the report in the printer's format.
func (p *Printer) Print(r Report) error {
	switch p.Format {
	case FormatCompact:
		p.compact(r)
		return nil
	case FormatJSON:
		return p.json(r)
	case FormatJUnit:
		return WriteJUnit(p.Writer, r)
	default:
		p.stylish(r)
		return nil
	}
}

// stylish prints findings grouped by file followed by a summary line.
func (p *Printer) stylish(r Report) {
	grouped := make(map[string][]lint.Finding)
	for _, f := range r.Findings {
		grouped[f.File] = append(grouped[f.File], f)
	}

	files := make([]string, 0, len(grouped))
	for f := range grouped {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, file := range files {
		fmt.Fprintf(p.Writer, "\n%s\n", p.colorize(file, colorBold))

		for _, f := range grouped[file] {
			fmt.Fprintf(p.Writer, "  %s %s %s %s\n",
				p.colorize(location(f), colorGray),
				severityTag(f.Severity, p.Color),
				p.colorize(f.Module, colorCyan),
				f.Message,
			)
		}
	}

	critical, warning, info := r.Tally()
	fmt.Fprintf(p.Writer, "\n%s\n", FindingsSummaryLine(len(r.Findings), critical, warning, info, len(r.Files), p.Color))
}

// compact prints one finding per line: file:line:col: severity [module] message.
func (p *Printer) compact(r Report) {
	for _, f := range r.Findings {
		loc := f.File
		if f.Line > 0 {
			loc += fmt.Sprintf(":%d", f.Line)
			if f.Column > 0 {
				loc += fmt.Sprintf(":%d", f.Column)
			}
		}
		fmt.Fprintf(p.Writer, "%s: %s [%s] %s\n", loc, f.Severity, f.Module, f.Message)
	}
}

type jsonSummary struct {
	Files    int `json:"files"`
	Findings int `json:"findings"`
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

type jsonReport struct {
	Findings []lint.Finding `json:"findings"`
	Summary  jsonSummary    `json:"summary"`
}

func (p *Printer) json(r Report) error {
	critical, warning, info := r.Tally()
	out := jsonReport{
		Findings: r.Findings,
		Summary: jsonSummary{
			Files:    len(r.Files),
			Findings: len(r.Findings),
			Critical: critical,
			Warning:  warning,
			Info:     info,
		},
	}
	if out.Findings == nil {
		out.Findings = []lint.Finding{}
	}

	enc := json.NewEncoder(p.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// FindingsSummaryLine returns a one-line findings summary, optionally colored.
func FindingsSummaryLine(total, critical, warning, info, filesScanned int, color bool) string {
	parts := []string{}
	if critical > 0 {
		s := fmt.Sprintf("%d critical", critical)
		if color {
			s = colorRed + s + colorReset
		}
		parts = append(parts, s)
	}
	if warning > 0 {
		s := fmt.Sprintf("%d warning", warning)
		if color {
			s = colorYellow + s + colorReset
		}
		parts = append(parts, s)
	}
	if info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", info))
	}

	summary := "no findings"
	if len(parts) > 0 {
		summary = strings.Join(parts, ", ")
	}

	totalStr := fmt.Sprintf("%d", total)
	if color {
		totalStr = colorBold + totalStr + colorReset
	}
	return fmt.Sprintf("%s findings in %d files: %s", totalStr, filesScanned, summary)
}

func location(f lint.Finding) string {
	switch {
	case f.Line == 0:
		return "-"
	case f.Column > 0:
		return fmt.Sprintf("%d:%d", f.Line, f.Column)
	default:
		return fmt.Sprintf("%d", f.Line)
	}
}

// severityTag returns a short severity label, optionally colored.
func severityTag(s lint.Severity, color bool) string {
	switch s {
	case lint.SeverityCritical:
		if color {
			return colorRed + "CRIT" + colorReset
		}
		return "CRIT"
	case lint.SeverityWarning:
		if color {
			return colorYellow + "WARN" + colorReset
		}
		return "WARN"
	case lint.SeverityInfo:
		if color {
			return colorGray + "INFO" + colorReset
		}
		return "INFO"
	default:
		return s.String()
	}
}

func (p *Printer) colorize(text, color string) string {
	if !p.Color {
		return text
	}
	return color + text + colorReset
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}
