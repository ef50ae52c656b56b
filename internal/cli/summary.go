package cli

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/xmldiff/internal/tester"
	"github.com/AndreyAkinshin/xmldiff/pkg/xmldiff"
)

// printCheckSummary prints a formatted summary of a check run.
func printCheckSummary(tests []*tester.Test, sum tester.Summary) {
	if out.Quiet() {
		return
	}

	out.SummaryHeader("Test Summary")

	out.SummaryPassed("Passed", fmt.Sprintf("%d", sum.Passed))
	if sum.Failed > 0 {
		out.SummaryFailed("Failed", fmt.Sprintf("%d", sum.Failed))
	}
	if sum.Skipped > 0 {
		out.SummaryItem("Skipped", fmt.Sprintf("%d", sum.Skipped))
	}
	out.SummaryItem("Total", fmt.Sprintf("%d", sum.Total()))

	var failed []*tester.Test
	for _, t := range tests {
		if t.Status.Failed() {
			failed = append(failed, t)
		}
	}
	if len(failed) > 0 {
		out.Println("")
		out.SummarySectionLabel("Failed Tests:")
		for _, t := range failed {
			out.SummaryFailed("  "+t.Spec.Name, t.Reason)
		}
	}

	if sum.Failed == 0 {
		out.FinalSuccess("All %d tests passed.", sum.Total())
	} else {
		out.FinalFailure("%d of %d tests failed.", sum.Failed, sum.Total())
	}
}

// printDiffSummary prints pair and mismatch counts for a multi-pair diff.
func printDiffSummary(results []*xmldiff.Result) {
	if out.Quiet() {
		return
	}

	var total xmldiff.Summary
	failed, errored := 0, 0
	for _, res := range results {
		if res.Fail() {
			failed++
		}
		if res.Err != nil {
			errored++
		}
		s := res.Summary()
		total.Structural += s.Structural
		total.Value += s.Value
	}

	titleCase := cases.Title(language.English)
	out.SummaryHeader("Diff Summary")
	out.SummaryPassed("Passed", fmt.Sprintf("%d", len(results)-failed))
	if failed > 0 {
		out.SummaryFailed("Failed", fmt.Sprintf("%d", failed))
	}
	out.SummaryItem(titleCase.String(xmldiff.ClassStructural.String()+"es"), fmt.Sprintf("%d", total.Structural))
	out.SummaryItem(titleCase.String(xmldiff.ClassValue.String()+"es"), fmt.Sprintf("%d", total.Value))
	if errored > 0 {
		out.SummaryFailed("Unreadable", fmt.Sprintf("%d", errored))
	}

	if failed == 0 {
		out.FinalSuccess("All %d pairs match.", len(results))
	} else {
		out.FinalFailure("%d of %d pairs differ.", failed, len(results))
	}
}
