package testhelper

import (
	"context"

	"github.com/AndreyAkinshin/xmldiff/internal/tester"
	"github.com/AndreyAkinshin/xmldiff/pkg/xmldiff"
)

// TB is the subset of testing.TB the helpers report through.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
	Skipf(format string, args ...any)
}

// CompareFiles compares test against gold.
// Returns true if they match, and the report message either way.
func CompareFiles(gold, test string, cfg xmldiff.Config) (bool, string) {
	res := xmldiff.Run(gold, test, cfg)
	return !res.Fail(), res.Message()
}

// FormatComparisonResult compares test against gold, returning a
// human-readable description of any differences.
//
// Returns:
//   - "" (empty string) if the files match
//   - the report message if they differ or cannot be read
func FormatComparisonResult(gold, test string, cfg xmldiff.Config) string {
	ok, msg := CompareFiles(gold, test, cfg)
	if ok {
		return ""
	}
	return msg
}

// AssertMatchesGold reports an error on t when test differs from gold.
func AssertMatchesGold(t TB, gold, test string, cfg xmldiff.Config) bool {
	t.Helper()
	if msg := FormatComparisonResult(gold, test, cfg); msg != "" {
		t.Errorf("%s", msg)
		return false
	}
	return true
}

// Check compares every output of tc against its gold copy, stopping at the
// first difference, and reports the composed report on failure. Tests with
// checks disabled are skipped. It returns false when the test failed.
func Check(t TB, tc TestCase) bool {
	t.Helper()
	if tc.spec == nil {
		t.Errorf("test case %q was not loaded by LoadTestCases", tc.Name)
		return false
	}

	test := tester.NewTest(tc.spec)
	report := tester.New(nil, nil).ProcessResults(context.Background(), test, tester.Options{}, "")
	switch {
	case test.Status == tester.StatusSkip:
		t.Skipf("%s: %s", tc.Name, test.Reason)
		return true
	case test.Status.Failed():
		t.Errorf("%s: %s\n%s", tc.Name, test.Status, report)
		return false
	}
	return true
}
