package tester

import (
	"context"

	"github.com/AndreyAkinshin/xmldiff/internal/testspec"
)

// Summary counts test outcomes.
type Summary struct {
	Passed  int
	Skipped int
	Failed  int
}

// Total returns the number of tests counted.
func (s Summary) Total() int {
	return s.Passed + s.Skipped + s.Failed
}

// RunSuite checks every spec in order and returns the tests with their
// outcomes. A failing test does not stop the suite.
func (x *XMLDiff) RunSuite(ctx context.Context, specs []*testspec.Spec, opts Options) ([]*Test, Summary) {
	tests := make([]*Test, 0, len(specs))
	var sum Summary
	for _, spec := range specs {
		t := NewTest(spec)
		if err := ctx.Err(); err != nil {
			t.SetStatus(StatusFail, "CANCELED")
		} else {
			x.ProcessResults(ctx, t, opts, "")
		}
		switch {
		case t.Status.Failed():
			sum.Failed++
		case t.Status == StatusSkip:
			sum.Skipped++
		default:
			sum.Passed++
		}
		tests = append(tests, t)
	}
	return tests, sum
}

// PrepareSuite runs Prepare for every spec and returns the first error.
func (x *XMLDiff) PrepareSuite(specs []*testspec.Spec) error {
	for _, spec := range specs {
		if err := x.Prepare(NewTest(spec)); err != nil {
			return err
		}
	}
	return nil
}
