package config

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/xmldiff/pkg/xmldiff"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors and returns warnings for
// non-fatal issues.
func Validate(cfg *Config) (warnings []string, err error) {
	if err := validateComparison(cfg.Comparison); err != nil {
		return nil, err
	}
	if err := ValidateRelativePath("gold_dir", cfg.GoldDir); err != nil {
		return nil, err
	}
	if err := ValidateRelativePath("tests_dir", cfg.TestsDir); err != nil {
		return nil, err
	}
	if err := validateSpecFile(cfg.SpecFile); err != nil {
		return nil, err
	}

	if cfg.Comparison != nil {
		for _, name := range cfg.Comparison.IgnoredAttributes {
			if name == xmldiff.BuiltinIgnoredAttribute {
				warnings = append(warnings, fmt.Sprintf("comparison.ignored_attributes: %q is always ignored; listing it has no effect", name))
			}
		}
	}
	return warnings, nil
}

func validateComparison(c *ComparisonConfig) error {
	if c == nil {
		return nil
	}
	if err := ValidateTolerance("comparison.abs_zero", c.AbsZero); err != nil {
		return err
	}
	if err := ValidateTolerance("comparison.rel_err", c.RelErr); err != nil {
		return err
	}
	if c.MaxDepth < 0 {
		return &ValidationError{Field: "comparison.max_depth", Message: "must be non-negative"}
	}
	for i, name := range c.IgnoredAttributes {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("comparison.ignored_attributes[%d]", i),
				Message: "must not be empty",
			}
		}
	}
	return nil
}

// ValidateTolerance checks an optional tolerance value. A nil value is
// valid and means "use the default".
func ValidateTolerance(field string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || *v < 0 {
		return &ValidationError{Field: field, Message: "must be a non-negative number"}
	}
	return nil
}

// ValidateRelativePath checks that path stays inside the directory it is
// resolved against. Empty paths are accepted.
func ValidateRelativePath(field, path string) error {
	if path == "" {
		return nil
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return &ValidationError{Field: field, Message: "must be a relative path"}
	}
	for _, part := range strings.FieldsFunc(filepath.ToSlash(path), func(r rune) bool { return r == '/' }) {
		if part == ".." {
			return &ValidationError{Field: field, Message: `must not contain ".."`}
		}
	}
	return nil
}

func validateSpecFile(name string) error {
	if name == "" {
		return nil
	}
	if strings.ContainsAny(name, `/\`) {
		return &ValidationError{Field: "spec_file", Message: "must be a file name, not a path"}
	}
	if ext := filepath.Ext(name); ext != ".yaml" && ext != ".yml" {
		return &ValidationError{Field: "spec_file", Message: "must have a .yaml or .yml extension"}
	}
	return nil
}
