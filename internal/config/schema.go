// Package config provides configuration loading and validation for
// .xmldiff/config.json.
package config

import "github.com/AndreyAkinshin/xmldiff/pkg/xmldiff"

// Config represents the complete .xmldiff/config.json configuration.
type Config struct {
	Comparison                *ComparisonConfig `json:"comparison,omitempty"`
	GoldDir                   string            `json:"gold_dir,omitempty"`
	DeleteOutputBeforeRunning bool              `json:"delete_output_before_running,omitempty"`
	Scaling                   bool              `json:"scaling,omitempty"`
	TestsDir                  string            `json:"tests_dir,omitempty"`
	SpecFile                  string            `json:"spec_file,omitempty"`
}

// ComparisonConfig holds the harness-wide comparison defaults. Individual
// test specs may override them.
type ComparisonConfig struct {
	AbsZero           *float64 `json:"abs_zero,omitempty"`
	RelErr            *float64 `json:"rel_err,omitempty"`
	IgnoredAttributes []string `json:"ignored_attributes,omitempty"`
	MaxDepth          int      `json:"max_depth,omitempty"`
}

// DiffConfig returns the comparison settings as an xmldiff.Config.
// The ignore list is copied.
func (c *Config) DiffConfig() xmldiff.Config {
	cfg := xmldiff.DefaultConfig()
	if c == nil || c.Comparison == nil {
		return cfg
	}
	if c.Comparison.AbsZero != nil {
		cfg.AbsZero = *c.Comparison.AbsZero
	}
	if c.Comparison.RelErr != nil {
		cfg.RelTol = *c.Comparison.RelErr
	}
	if len(c.Comparison.IgnoredAttributes) > 0 {
		cfg.IgnoredAttributes = append([]string(nil), c.Comparison.IgnoredAttributes...)
	}
	if c.Comparison.MaxDepth > 0 {
		cfg.MaxDepth = c.Comparison.MaxDepth
	}
	return cfg
}
