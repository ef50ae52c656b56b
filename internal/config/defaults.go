package config

import "github.com/AndreyAkinshin/xmldiff/pkg/xmldiff"

// Default configuration values.
const (
	DefaultGoldDir  = xmldiff.DefaultGoldDir
	DefaultTestsDir = "."
	DefaultSpecFile = "tests.yaml"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	applyComparisonDefaults(cfg)
	if cfg.GoldDir == "" {
		cfg.GoldDir = DefaultGoldDir
	}
	if cfg.TestsDir == "" {
		cfg.TestsDir = DefaultTestsDir
	}
	if cfg.SpecFile == "" {
		cfg.SpecFile = DefaultSpecFile
	}
}

func applyComparisonDefaults(cfg *Config) {
	if cfg.Comparison == nil {
		cfg.Comparison = &ComparisonConfig{}
	}
	if cfg.Comparison.AbsZero == nil {
		v := xmldiff.DefaultAbsZero
		cfg.Comparison.AbsZero = &v
	}
	if cfg.Comparison.RelErr == nil {
		v := xmldiff.DefaultRelTol
		cfg.Comparison.RelErr = &v
	}
	if cfg.Comparison.MaxDepth == 0 {
		cfg.Comparison.MaxDepth = xmldiff.DefaultMaxDepth
	}
}
