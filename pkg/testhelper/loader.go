// Package testhelper provides reusable loading and comparison utilities for
// Go test suites whose outputs are checked against gold XML copies.
//
// Example usage in a Go test:
//
//	func TestSimulation(t *testing.T) {
//	    cases, err := testhelper.LoadTestCases("testdata/tests.yaml")
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//
//	    for _, tc := range cases {
//	        t.Run(tc.Name, func(t *testing.T) {
//	            runSimulation(tc.Dir)
//	            testhelper.Check(t, tc)
//	        })
//	    }
//	}
package testhelper

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/xmldiff/internal/project"
	"github.com/AndreyAkinshin/xmldiff/internal/testspec"
	"github.com/AndreyAkinshin/xmldiff/pkg/xmldiff"
)

// TestCase represents a single xmldiff test block loaded from a tests.yaml file.
type TestCase struct {
	// Name is the test name.
	Name string

	// Dir is the directory holding the test outputs.
	Dir string

	// Files lists the compared outputs, relative to Dir.
	Files []string

	// GoldDir is the directory holding the gold copies, relative to Dir.
	GoldDir string

	// Config is the comparison configuration after project defaults.
	Config xmldiff.Config

	spec *testspec.Spec
}

// LoadTestCases loads the test blocks of a tests.yaml file. Defaults come from
// the project enclosing the file, or the built-in defaults outside a project.
func LoadTestCases(specPath string) ([]TestCase, error) {
	proj, err := project.LoadOrDefault(filepath.Dir(specPath))
	if err != nil {
		return nil, err
	}

	specs, err := testspec.Load(specPath, proj.Config)
	if err != nil {
		return nil, err
	}

	cases := make([]TestCase, 0, len(specs))
	for _, s := range specs {
		cases = append(cases, TestCase{
			Name:    s.Name,
			Dir:     s.Dir,
			Files:   append([]string(nil), s.XMLDiff...),
			GoldDir: s.GoldDir,
			Config:  s.DiffConfig(),
			spec:    s,
		})
	}
	return cases, nil
}

// GoldPath returns the gold copy of the named output.
func (tc TestCase) GoldPath(name string) string {
	return filepath.Join(tc.Dir, tc.GoldDir, name)
}

// OutputPath returns the path of the named output.
func (tc TestCase) OutputPath(name string) string {
	return filepath.Join(tc.Dir, name)
}

// FindProjectRoot walks up the directory tree to find .xmldiff/config.json.
// It returns the directory containing .xmldiff/config.json.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindProjectRootFrom(cwd)
}

// FindProjectRootFrom finds the project root starting from a specific directory.
func FindProjectRootFrom(startDir string) (string, error) {
	root, err := project.FindRootFrom(startDir)
	if errors.Is(err, project.ErrNoProjectRoot) {
		return "", &ProjectNotFoundError{StartDir: startDir}
	}
	return root, err
}

// ProjectNotFoundError indicates .xmldiff/config.json was not found.
type ProjectNotFoundError struct {
	StartDir string
}

func (e *ProjectNotFoundError) Error() string {
	return ".xmldiff/config.json not found (searched from " + e.StartDir + ")"
}
