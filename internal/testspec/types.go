// Package testspec loads the xmldiff test blocks of a tests.yaml file.
package testspec

import (
	"github.com/AndreyAkinshin/xmldiff/internal/config"
	"github.com/AndreyAkinshin/xmldiff/pkg/xmldiff"
)

// Spec is one test document: the output files it compares and the
// tolerances it compares them with.
type Spec struct {
	Name                      string   `yaml:"name"`
	XMLDiff                   []string `yaml:"xmldiff"`                                // Output files, relative to the spec's directory
	GoldDir                   string   `yaml:"gold_dir,omitempty"`                     // Directory holding the gold copies
	AbsZero                   *float64 `yaml:"abs_zero,omitempty"`                     // Absolute zero cutoff
	RelErr                    *float64 `yaml:"rel_err,omitempty"`                      // Relative tolerance
	IgnoredAttributes         []string `yaml:"ignored_attributes,omitempty"`           // Replaces the harness list when set
	MaxDepth                  int      `yaml:"max_depth,omitempty"`                    // Nesting limit
	SkipChecks                bool     `yaml:"skip_checks,omitempty"`                  // Run but do not diff
	ScaleRefine               bool     `yaml:"scale_refine,omitempty"`                 // Skip diffs in scaling mode
	DeleteOutputBeforeRunning *bool    `yaml:"delete_output_before_running,omitempty"` // Defaults to the harness setting

	// Dir is the directory of the file the spec was loaded from.
	Dir string `yaml:"-"`
}

// ApplyDefaults fills unset fields from the harness configuration.
func (s *Spec) ApplyDefaults(h *config.Config) {
	if h == nil {
		h = config.Default()
	}
	if s.GoldDir == "" {
		s.GoldDir = h.GoldDir
	}
	if s.GoldDir == "" {
		s.GoldDir = xmldiff.DefaultGoldDir
	}
	if s.DeleteOutputBeforeRunning == nil {
		v := h.DeleteOutputBeforeRunning
		s.DeleteOutputBeforeRunning = &v
	}

	base := h.DiffConfig()
	if s.AbsZero == nil {
		v := base.AbsZero
		s.AbsZero = &v
	}
	if s.RelErr == nil {
		v := base.RelTol
		s.RelErr = &v
	}
	if s.IgnoredAttributes == nil && len(base.IgnoredAttributes) > 0 {
		s.IgnoredAttributes = base.IgnoredAttributes
	}
	if s.MaxDepth == 0 {
		s.MaxDepth = base.MaxDepth
	}
}

// DiffConfig returns the comparison settings for this spec. Unset
// tolerances fall back to the library defaults.
func (s *Spec) DiffConfig() xmldiff.Config {
	cfg := xmldiff.DefaultConfig()
	if s.AbsZero != nil {
		cfg.AbsZero = *s.AbsZero
	}
	if s.RelErr != nil {
		cfg.RelTol = *s.RelErr
	}
	if len(s.IgnoredAttributes) > 0 {
		cfg.IgnoredAttributes = append([]string(nil), s.IgnoredAttributes...)
	}
	if s.MaxDepth > 0 {
		cfg.MaxDepth = s.MaxDepth
	}
	return cfg
}

// DeleteOutput reports whether outputs should be removed before the run.
func (s *Spec) DeleteOutput() bool {
	return s.DeleteOutputBeforeRunning != nil && *s.DeleteOutputBeforeRunning
}
