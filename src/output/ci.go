package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sofmeright/lintrc/src/lint"
)

// IsCI reports whether the process runs under a CI system.
func IsCI() bool {
	return os.Getenv("CI") == "true"
}

// JUnit XML types for CI test reporting.

type JUnitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Name     string           `xml:"name,attr"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Time     string           `xml:"time,attr"`
	Suites   []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Cases    []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// WriteJUnit writes the report as JUnit XML. Each module that ran becomes a
// test suite with one case per file it reported on; only critical findings
// count as failures.
func WriteJUnit(w io.Writer, r Report) error {
	byModule := make(map[string]map[string][]lint.Finding)
	for _, f := range r.Findings {
		if _, ok := byModule[f.Module]; !ok {
			byModule[f.Module] = make(map[string][]lint.Finding)
		}
		byModule[f.Module][f.File] = append(byModule[f.Module][f.File], f)
	}

	root := JUnitTestSuites{
		Name: "lintrc",
		Time: fmt.Sprintf("%.3f", r.Elapsed.Seconds()),
	}

	for _, st := range r.Stats {
		modFindings := byModule[st.Name]
		suite := JUnitTestSuite{Name: "lint/" + st.Name}

		for _, f := range r.Files {
			ff := modFindings[f.Path]
			if len(ff) == 0 {
				continue
			}
			tc := JUnitTestCase{Name: f.Path, Classname: "lint." + st.Name}

			worst := lint.SeverityInfo
			var lines []string
			for _, finding := range ff {
				if finding.Severity > worst {
					worst = finding.Severity
				}
				lines = append(lines, fmt.Sprintf("  %s [%s] %s", location(finding), finding.Severity, finding.Message))
			}
			if worst >= lint.SeverityCritical {
				tc.Failure = &JUnitFailure{
					Message: fmt.Sprintf("%d finding(s) in %s", len(ff), f.Path),
					Type:    worst.String(),
					Body:    strings.Join(lines, "\n"),
				}
				suite.Failures++
			}
			suite.Cases = append(suite.Cases, tc)
		}

		// Files checked without findings pass; only the count is reported.
		suite.Tests = max(st.Files, len(suite.Cases))

		root.Tests += suite.Tests
		root.Failures += suite.Failures
		root.Suites = append(root.Suites, suite)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encoding junit xml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
