package testspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/xmldiff/internal/config"
	"github.com/AndreyAkinshin/xmldiff/internal/schema"
)

// Load reads and parses a YAML spec file. Multiple test documents are
// separated by ---. Each spec's Dir is set to the file's directory and
// defaults are applied from h.
func Load(filename string, h *config.Config) ([]*Spec, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	specs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	dir := filepath.Dir(filename)
	for _, s := range specs {
		s.Dir = dir
		s.ApplyDefaults(h)
	}
	return specs, nil
}

// LoadAll loads every spec file in order. Test names must be unique within
// a directory.
func LoadAll(filenames []string, h *config.Config) ([]*Spec, error) {
	var all []*Spec
	seen := make(map[string]bool)
	for _, f := range filenames {
		specs, err := Load(f, h)
		if err != nil {
			return nil, err
		}
		for _, s := range specs {
			key := filepath.Join(s.Dir, s.Name)
			if seen[key] {
				return nil, fmt.Errorf("%s: duplicate test name %q", f, s.Name)
			}
			seen[key] = true
		}
		all = append(all, specs...)
	}
	return all, nil
}

// Parse decodes the test documents in data without applying defaults.
func Parse(data []byte) ([]*Spec, error) {
	// Typed decoding is strict; the generic pass feeds the schema check.
	typed := yaml.NewDecoder(bytes.NewReader(data))
	typed.KnownFields(true)
	generic := yaml.NewDecoder(bytes.NewReader(data))

	var specs []*Spec
	names := make(map[string]bool)
	docNum := 0

	for {
		var spec Spec
		err := typed.Decode(&spec)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing test document %d: %w", docNum+1, err)
		}

		docNum++

		var doc any
		if err := generic.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parsing test document %d: %w", docNum, err)
		}
		if err := validateSchema(doc); err != nil {
			return nil, fmt.Errorf("test %d (%q): %w", docNum, spec.Name, err)
		}

		if err := validate(&spec); err != nil {
			return nil, fmt.Errorf("test %d (%q): %w", docNum, spec.Name, err)
		}
		if names[spec.Name] {
			return nil, fmt.Errorf("test %d: duplicate test name %q", docNum, spec.Name)
		}
		names[spec.Name] = true

		specs = append(specs, &spec)
	}

	if len(specs) == 0 {
		return nil, fmt.Errorf("no test documents found")
	}

	return specs, nil
}

func validateSchema(doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("test document is not a mapping of plain values: %w", err)
	}
	return schema.ValidateTestSpec(data)
}

// validate checks the fields the schema cannot express.
func validate(s *Spec) error {
	if s.Name == "" {
		return fmt.Errorf("test name is required")
	}
	if len(s.XMLDiff) == 0 {
		return fmt.Errorf("xmldiff must list at least one file")
	}
	for i, f := range s.XMLDiff {
		if err := config.ValidateRelativePath(fmt.Sprintf("xmldiff[%d]", i), f); err != nil {
			return err
		}
	}
	if err := config.ValidateRelativePath("gold_dir", s.GoldDir); err != nil {
		return err
	}
	if err := config.ValidateTolerance("abs_zero", s.AbsZero); err != nil {
		return err
	}
	if err := config.ValidateTolerance("rel_err", s.RelErr); err != nil {
		return err
	}
	if s.MaxDepth < 0 {
		return &config.ValidationError{Field: "max_depth", Message: "must be non-negative"}
	}
	return nil
}
