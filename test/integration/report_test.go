package integration

import (
	"bytes"
	"context"
	"encoding/xml"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/xmldiff/internal/junit"
	"github.com/AndreyAkinshin/xmldiff/internal/tester"
	"github.com/AndreyAkinshin/xmldiff/pkg/xmldiff"
)

func TestDivergedStopsAtFirstFailure(t *testing.T) {
	t.Parallel()
	_, specs := loadFixtureSuite(t)
	tests, _ := tester.New(nil, nil).RunSuite(context.Background(), specs, tester.Options{})

	diverged := byName(tests)["diverged"]
	if !strings.HasPrefix(diverged.Output, xmldiff.FailPrefix) {
		t.Errorf("Output = %q, want to start with %q", diverged.Output, xmldiff.FailPrefix)
	}
	if !strings.Contains(diverged.Output, "/result[1]/value[2]") {
		t.Errorf("Output missing mismatch path:\n%s", diverged.Output)
	}
	if strings.Contains(diverged.Output, "later.xml") {
		t.Errorf("Output mentions a file after the first failure:\n%s", diverged.Output)
	}
}

func TestGoldFilesMatchThemselves(t *testing.T) {
	t.Parallel()
	golds, err := filepath.Glob(filepath.Join(fixturesDir(), "vtk", "tests", "*", "gold", "*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(golds) == 0 {
		t.Fatal("no gold files found")
	}
	for _, g := range golds {
		res := xmldiff.Run(g, g, xmldiff.Config{})
		if res.Fail() {
			t.Errorf("%s vs itself: %s", g, res.Message())
		}
	}
}

func TestFixtureJUnitReport(t *testing.T) {
	t.Parallel()
	proj, specs := loadFixtureSuite(t)
	tests, _ := tester.New(nil, nil).RunSuite(context.Background(), specs, tester.Options{})

	var buf bytes.Buffer
	if err := junit.Write(&buf, junit.Build("xmldiff", proj.TestsDirectory(), tests)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var report junit.TestSuites
	if err := xml.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("report is not valid XML: %v\n%s", err, buf.String())
	}
	if report.Tests != 4 || report.Failures != 2 || report.Skipped != 1 || report.Errors != 0 {
		t.Errorf("totals = tests %d failures %d skipped %d errors %d", report.Tests, report.Failures, report.Skipped, report.Errors)
	}

	var names []string
	for _, s := range report.TestSuites {
		names = append(names, s.Name)
	}
	if strings.Join(names, ",") != "broken,disabled,mesh" {
		t.Errorf("suites = %v, want [broken disabled mesh]", names)
	}
}
