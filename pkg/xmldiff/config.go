// Package xmldiff compares XML documents against golden references under
// numeric tolerance rules.
//
// The comparison is structural and positional: elements are matched in
// document order, attributes are matched by name, and leaf values (attribute
// values and text content) are compared numerically when both sides parse as
// numbers and textually otherwise.
package xmldiff

import (
	"fmt"
	"math"
)

// Default comparison settings.
const (
	DefaultAbsZero  = 1e-10
	DefaultRelTol   = 5.5e-6
	DefaultMaxDepth = 256
	DefaultGoldDir  = "gold"
)

// Config configures a comparison.
//
// Config is passed by value and never modified by the engine. Callers that
// share a Config across goroutines may do so freely.
type Config struct {
	// AbsZero is the absolute difference below which two numbers are equal
	// regardless of magnitude.
	AbsZero float64

	// RelTol is the difference, relative to the larger magnitude of the two
	// numbers, below which they are equal.
	RelTol float64

	// IgnoredAttributes lists attribute names excluded from comparison.
	// Names are matched exactly. The built-in ignored name is always added.
	IgnoredAttributes []string

	// MaxDepth limits element nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

// DefaultConfig returns the default comparison settings.
func DefaultConfig() Config {
	return Config{
		AbsZero:  DefaultAbsZero,
		RelTol:   DefaultRelTol,
		MaxDepth: DefaultMaxDepth,
	}
}

// ValidateConfig reports whether cfg holds usable thresholds.
func ValidateConfig(cfg Config) error {
	if math.IsNaN(cfg.AbsZero) || cfg.AbsZero < 0 {
		return fmt.Errorf("invalid AbsZero: %v (must be a non-negative number)", cfg.AbsZero)
	}
	if math.IsNaN(cfg.RelTol) || cfg.RelTol < 0 {
		return fmt.Errorf("invalid RelTol: %v (must be a non-negative number)", cfg.RelTol)
	}
	if cfg.MaxDepth < 0 {
		return fmt.Errorf("invalid MaxDepth: %d (must be >= 0)", cfg.MaxDepth)
	}
	return nil
}

func (c Config) depthLimit() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

// clone returns a copy of c that shares no memory with the caller.
func (c Config) clone() Config {
	out := c
	if c.IgnoredAttributes != nil {
		out.IgnoredAttributes = append([]string(nil), c.IgnoredAttributes...)
	}
	return out
}
