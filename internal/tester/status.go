// Package tester runs the XML diff checks of a test spec and records the
// outcome on the test.
package tester

import (
	"time"

	"github.com/AndreyAkinshin/xmldiff/internal/testspec"
)

// Status is the outcome of one test.
type Status string

// Test outcomes. StatusNone means no outcome has been recorded yet.
const (
	StatusNone Status = ""
	StatusPass Status = "PASS"
	StatusSkip Status = "SKIP"
	StatusFail Status = "FAIL"
	StatusDiff Status = "XMLDIFF"
)

// Failed reports whether s is a failing outcome.
func (s Status) Failed() bool {
	return s == StatusFail || s == StatusDiff
}

func (s Status) String() string {
	if s == StatusNone {
		return "NONE"
	}
	return string(s)
}

// Test is one test case and its recorded outcome.
type Test struct {
	Spec     *testspec.Spec
	Status   Status
	Reason   string // short cause shown next to the status
	Output   string // composed report
	Duration time.Duration
}

// NewTest returns a test with no outcome yet.
func NewTest(spec *testspec.Spec) *Test {
	return &Test{Spec: spec}
}

// SetStatus records an outcome and its reason.
func (t *Test) SetStatus(s Status, reason string) {
	t.Status = s
	t.Reason = reason
}
