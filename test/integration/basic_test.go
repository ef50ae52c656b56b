// Package integration contains integration tests for xmldiff.
package integration

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/AndreyAkinshin/xmldiff/internal/project"
	"github.com/AndreyAkinshin/xmldiff/internal/tester"
	"github.com/AndreyAkinshin/xmldiff/internal/testspec"
)

var (
	fixturesDirOnce sync.Once
	fixturesDirPath string
)

// fixturesDir returns the path to the test fixtures directory.
// The result is cached for efficiency since runtime.Caller is relatively expensive.
func fixturesDir() string {
	fixturesDirOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		fixturesDirPath = filepath.Join(filepath.Dir(filename), "..", "fixtures")
	})
	return fixturesDirPath
}

// loadFixtureSuite loads the vtk fixture project and all of its test specs.
func loadFixtureSuite(t *testing.T) (*project.Project, []*testspec.Spec) {
	t.Helper()
	proj, err := project.LoadProjectFrom(filepath.Join(fixturesDir(), "vtk"))
	if err != nil {
		t.Fatalf("failed to load vtk fixture: %v", err)
	}

	files, err := project.DiscoverSpecFiles(proj.TestsDirectory(), proj.Config.SpecFile, proj.Config.GoldDir)
	if err != nil {
		t.Fatalf("DiscoverSpecFiles() error = %v", err)
	}
	specs, err := testspec.LoadAll(files, proj.Config)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	return proj, specs
}

func byName(tests []*tester.Test) map[string]*tester.Test {
	m := make(map[string]*tester.Test, len(tests))
	for _, t := range tests {
		m[t.Spec.Name] = t
	}
	return m
}

func TestFixtureProject(t *testing.T) {
	t.Parallel()
	proj, specs := loadFixtureSuite(t)

	if proj.Config.TestsDir != "tests" {
		t.Errorf("TestsDir = %q, want tests", proj.Config.TestsDir)
	}
	if got := proj.Config.Comparison.IgnoredAttributes; len(got) != 1 || got[0] != "offset" {
		t.Errorf("IgnoredAttributes = %v, want [offset]", got)
	}
	if len(proj.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", proj.Warnings)
	}

	want := []string{"diverged", "disabled", "pass-within-tolerance", "refine"}
	if len(specs) != len(want) {
		t.Fatalf("loaded %d specs, want %d", len(specs), len(want))
	}
	for i, s := range specs {
		if s.Name != want[i] {
			t.Errorf("specs[%d].Name = %q, want %q", i, s.Name, want[i])
		}
		if s.GoldDir != "gold" {
			t.Errorf("%s: GoldDir = %q, want gold", s.Name, s.GoldDir)
		}
	}
}

func TestFixtureSuite(t *testing.T) {
	t.Parallel()
	_, specs := loadFixtureSuite(t)

	tests, sum := tester.New(nil, nil).RunSuite(context.Background(), specs, tester.Options{})
	if sum != (tester.Summary{Passed: 1, Skipped: 1, Failed: 2}) {
		t.Errorf("Summary = %+v, want 1 passed, 1 skipped, 2 failed", sum)
	}

	got := byName(tests)
	wantStatus := map[string]tester.Status{
		"pass-within-tolerance": tester.StatusPass,
		"refine":                tester.StatusDiff,
		"diverged":              tester.StatusDiff,
		"disabled":              tester.StatusSkip,
	}
	for name, want := range wantStatus {
		if got[name].Status != want {
			t.Errorf("%s: Status = %s, want %s\n%s", name, got[name].Status, want, got[name].Output)
		}
	}
	if got["disabled"].Reason != tester.ReasonChecksDisabled {
		t.Errorf("disabled: Reason = %q, want %q", got["disabled"].Reason, tester.ReasonChecksDisabled)
	}
}

func TestFixtureSuite_Scaling(t *testing.T) {
	t.Parallel()
	_, specs := loadFixtureSuite(t)

	tests, sum := tester.New(nil, nil).RunSuite(context.Background(), specs, tester.Options{Scaling: true})
	if sum.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", sum.Skipped)
	}
	refine := byName(tests)["refine"]
	if refine.Status != tester.StatusSkip || refine.Reason != tester.ReasonScaling {
		t.Errorf("refine = %s (%s), want SKIP (%s)", refine.Status, refine.Reason, tester.ReasonScaling)
	}
}
