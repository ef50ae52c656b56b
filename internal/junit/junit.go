// Package junit writes test outcomes as JUnit XML for CI systems.
package junit

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/xmldiff/internal/tester"
)

// TestSuites is the root element of a JUnit report.
type TestSuites struct {
	XMLName    xml.Name     `xml:"testsuites"`
	Name       string       `xml:"name,attr"`
	Tests      int          `xml:"tests,attr"`
	Failures   int          `xml:"failures,attr"`
	Errors     int          `xml:"errors,attr"`
	Skipped    int          `xml:"skipped,attr"`
	Time       float64      `xml:"time,attr"`
	TestSuites []*TestSuite `xml:"testsuite"`
}

// TestSuite groups the tests of one spec directory.
type TestSuite struct {
	Name      string     `xml:"name,attr"`
	Tests     int        `xml:"tests,attr"`
	Failures  int        `xml:"failures,attr"`
	Errors    int        `xml:"errors,attr"`
	Skipped   int        `xml:"skipped,attr"`
	Time      float64    `xml:"time,attr"`
	TestCases []TestCase `xml:"testcase"`
}

// TestCase is one test.
type TestCase struct {
	Name      string   `xml:"name,attr"`
	Classname string   `xml:"classname,attr"`
	Time      float64  `xml:"time,attr"`
	Failure   *Failure `xml:"failure,omitempty"`
	Error     *Failure `xml:"error,omitempty"`
	Skipped   *Skipped `xml:"skipped,omitempty"`
	SystemOut *Output  `xml:"system-out,omitempty"`
}

// Failure describes a failed test. It is also used for errored tests.
type Failure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Content string `xml:",chardata"`
}

// Skipped marks a test whose checks did not run.
type Skipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// Output holds captured report text.
type Output struct {
	Content string `xml:",chardata"`
}

// Build converts test outcomes into a report. Tests are grouped into one
// suite per spec directory, named relative to root, in first-seen order.
// XMLDIFF outcomes are failures; other failing outcomes are errors.
func Build(name, root string, tests []*tester.Test) *TestSuites {
	report := &TestSuites{Name: name}
	byDir := make(map[string]*TestSuite)

	for _, t := range tests {
		suiteName := suiteName(root, t.Spec.Dir)
		suite, ok := byDir[suiteName]
		if !ok {
			suite = &TestSuite{Name: suiteName}
			byDir[suiteName] = suite
			report.TestSuites = append(report.TestSuites, suite)
		}

		tc := TestCase{
			Name:      t.Spec.Name,
			Classname: suiteName,
			Time:      t.Duration.Seconds(),
		}
		if t.Output != "" {
			tc.SystemOut = &Output{Content: t.Output}
		}

		switch {
		case t.Status == tester.StatusDiff:
			tc.Failure = &Failure{Message: failureMessage(t), Type: string(t.Status), Content: t.Output}
			suite.Failures++
		case t.Status.Failed():
			tc.Error = &Failure{Message: failureMessage(t), Type: string(t.Status), Content: t.Output}
			suite.Errors++
		case t.Status == tester.StatusSkip:
			tc.Skipped = &Skipped{Message: t.Reason}
			suite.Skipped++
		}

		suite.Tests++
		suite.Time += tc.Time
		suite.TestCases = append(suite.TestCases, tc)
	}

	for _, s := range report.TestSuites {
		report.Tests += s.Tests
		report.Failures += s.Failures
		report.Errors += s.Errors
		report.Skipped += s.Skipped
		report.Time += s.Time
	}
	return report
}

func suiteName(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(dir)
	}
	return filepath.ToSlash(rel)
}

func failureMessage(t *tester.Test) string {
	if t.Reason != "" {
		return t.Reason
	}
	return string(t.Status)
}

// Write encodes the report as indented XML with a declaration.
func Write(w io.Writer, report *TestSuites) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode junit report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile writes the report to path, creating parent directories.
func WriteFile(path string, report *TestSuites) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return Write(f, report)
}
