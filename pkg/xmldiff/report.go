package xmldiff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Report prefixes. A passing message always starts with PassPrefix.
const (
	PassPrefix  = "XMLDiff: PASS"
	FailPrefix  = "XMLDiff: FAIL"
	ErrorPrefix = "XMLDiff: ERROR"
)

// Result is the outcome of comparing one file pair.
type Result struct {
	GoldPath   string
	TestPath   string
	Config     Config
	Mismatches []Mismatch
	// Err is set when the comparison could not complete: a *ParseError, a
	// *DepthLimitError, or an invalid configuration.
	Err error
}

// Fail reports whether the comparison found differences or could not be
// completed.
func (r *Result) Fail() bool {
	return r.Err != nil || len(r.Mismatches) > 0
}

// Message composes the human-readable report. Mismatches appear one per
// line in the order they were found, followed by a count.
func (r *Result) Message() string {
	var b strings.Builder

	if r.Err != nil {
		fmt.Fprintf(&b, "%s: %s vs %s\n", ErrorPrefix, r.TestPath, r.GoldPath)
		fmt.Fprintf(&b, "  %v", r.Err)
		for _, m := range r.Mismatches {
			fmt.Fprintf(&b, "\n  %s", m)
		}
		return b.String()
	}

	if len(r.Mismatches) == 0 {
		fmt.Fprintf(&b, "%s: %s matches %s", PassPrefix, r.TestPath, r.GoldPath)
		return b.String()
	}

	fmt.Fprintf(&b, "%s: %s differs from %s\n", FailPrefix, r.TestPath, r.GoldPath)
	for _, m := range r.Mismatches {
		fmt.Fprintf(&b, "  %s\n", m)
	}
	fmt.Fprintf(&b, "%s", countLine(len(r.Mismatches)))
	return b.String()
}

func countLine(n int) string {
	if n == 1 {
		return "1 mismatch found"
	}
	return fmt.Sprintf("%d mismatches found", n)
}

// Summary counts mismatches by class.
type Summary struct {
	Structural int `json:"structural"`
	Value      int `json:"value"`
}

// Summary returns mismatch counts by class.
func (r *Result) Summary() Summary {
	var s Summary
	for _, m := range r.Mismatches {
		if m.Kind.Class() == ClassValue {
			s.Value++
		} else {
			s.Structural++
		}
	}
	return s
}

// ErrorKind names the class of r.Err: "parse", "depth_limit", "canceled",
// "config", or "" when there is no error.
func (r *Result) ErrorKind() string {
	if r.Err == nil {
		return ""
	}
	if errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded) {
		return "canceled"
	}
	var parseErr *ParseError
	if errors.As(r.Err, &parseErr) {
		return "parse"
	}
	var depthErr *DepthLimitError
	if errors.As(r.Err, &depthErr) {
		return "depth_limit"
	}
	return "config"
}

type resultJSON struct {
	Gold              string     `json:"gold"`
	Test              string     `json:"test"`
	Pass              bool       `json:"pass"`
	Error             string     `json:"error,omitempty"`
	ErrorKind         string     `json:"error_kind,omitempty"`
	AbsZero           float64    `json:"abs_zero"`
	RelTol            float64    `json:"rel_err"`
	IgnoredAttributes []string   `json:"ignored_attributes"`
	Summary           Summary    `json:"summary"`
	Mismatches        []Mismatch `json:"mismatches"`
}

// MarshalJSON encodes r for machine consumption.
func (r *Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Gold:              r.GoldPath,
		Test:              r.TestPath,
		Pass:              !r.Fail(),
		ErrorKind:         r.ErrorKind(),
		AbsZero:           r.Config.AbsZero,
		RelTol:            r.Config.RelTol,
		IgnoredAttributes: EffectiveIgnoreSet(r.Config.IgnoredAttributes),
		Summary:           r.Summary(),
		Mismatches:        r.Mismatches,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	if out.Mismatches == nil {
		out.Mismatches = []Mismatch{}
	}
	return json.Marshal(out)
}
