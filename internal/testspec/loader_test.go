package testspec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/xmldiff/internal/config"
	"github.com/AndreyAkinshin/xmldiff/pkg/xmldiff"
)

func writeSpec(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "tests.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create spec file: %v", err)
	}
	return path
}

func TestLoad_SingleDocument(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeSpec(t, dir, `name: vtk_output
xmldiff:
  - out.vtu
  - out_002.vtu
abs_zero: 1e-8
ignored_attributes: [version]
`)

	specs, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(specs) != 1 {
		t.Fatalf("len(specs) = %d, want 1", len(specs))
	}
	s := specs[0]
	if s.Name != "vtk_output" || len(s.XMLDiff) != 2 || s.XMLDiff[1] != "out_002.vtu" {
		t.Errorf("spec = %+v", s)
	}
	if s.Dir != dir {
		t.Errorf("Dir = %q, want %q", s.Dir, dir)
	}

	cfg := s.DiffConfig()
	if cfg.AbsZero != 1e-8 {
		t.Errorf("AbsZero = %v, want 1e-8", cfg.AbsZero)
	}
	if cfg.RelTol != xmldiff.DefaultRelTol {
		t.Errorf("RelTol = %v, want default %v", cfg.RelTol, xmldiff.DefaultRelTol)
	}
	if len(cfg.IgnoredAttributes) != 1 || cfg.IgnoredAttributes[0] != "version" {
		t.Errorf("IgnoredAttributes = %v", cfg.IgnoredAttributes)
	}
	if s.GoldDir != "gold" {
		t.Errorf("GoldDir = %q, want gold", s.GoldDir)
	}
	if s.DeleteOutput() {
		t.Error("DeleteOutput() = true, want false by default")
	}
}

func TestLoad_MultipleDocuments(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, t.TempDir(), `name: first
xmldiff: [a.xml]
---
name: second
xmldiff: [b.xml]
skip_checks: true
---
name: third
xmldiff: [c.xml]
scale_refine: true
`)

	specs, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(specs) != 3 {
		t.Fatalf("len(specs) = %d, want 3", len(specs))
	}
	if !specs[1].SkipChecks || !specs[2].ScaleRefine {
		t.Errorf("flags not decoded: %+v %+v", specs[1], specs[2])
	}
}

func TestLoad_HarnessDefaults(t *testing.T) {
	t.Parallel()
	abs, rel := 1e-6, 1e-3
	h := &config.Config{
		Comparison: &config.ComparisonConfig{
			AbsZero:           &abs,
			RelErr:            &rel,
			IgnoredAttributes: []string{"date"},
			MaxDepth:          32,
		},
		GoldDir:                   "reference",
		DeleteOutputBeforeRunning: true,
	}

	path := writeSpec(t, t.TempDir(), `name: inherit
xmldiff: [a.xml]
---
name: override
xmldiff: [a.xml]
rel_err: 0
gold_dir: mine
ignored_attributes: [time]
delete_output_before_running: false
`)

	specs, err := Load(path, h)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	inherit := specs[0]
	if inherit.GoldDir != "reference" || !inherit.DeleteOutput() {
		t.Errorf("inherit = GoldDir %q DeleteOutput %v", inherit.GoldDir, inherit.DeleteOutput())
	}
	if cfg := inherit.DiffConfig(); cfg.AbsZero != 1e-6 || cfg.RelTol != 1e-3 || cfg.MaxDepth != 32 || cfg.IgnoredAttributes[0] != "date" {
		t.Errorf("inherit DiffConfig() = %+v", cfg)
	}

	override := specs[1]
	if override.GoldDir != "mine" || override.DeleteOutput() {
		t.Errorf("override = GoldDir %q DeleteOutput %v", override.GoldDir, override.DeleteOutput())
	}
	if cfg := override.DiffConfig(); cfg.AbsZero != 1e-6 || cfg.RelTol != 0 || len(cfg.IgnoredAttributes) != 1 || cfg.IgnoredAttributes[0] != "time" {
		t.Errorf("override DiffConfig() = %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"empty file", "", "no test documents"},
		{"unknown field", "name: t\nxmldiff: [a]\nexodiff: [b]\n", "exodiff"},
		{"missing name", "xmldiff: [a]\n", ""},
		{"missing files", "name: t\n", ""},
		{"empty files", "name: t\nxmldiff: []\n", ""},
		{"absolute file", "name: t\nxmldiff: [/etc/passwd]\n", "relative"},
		{"escaping file", "name: t\nxmldiff: [../out.xml]\n", ".."},
		{"escaping gold dir", "name: t\nxmldiff: [a]\ngold_dir: ../g\n", ".."},
		{"negative abs zero", "name: t\nxmldiff: [a]\nabs_zero: -1\n", ""},
		{"wrong type", "name: t\nxmldiff: a.xml\n", ""},
		{"duplicate names", "name: t\nxmldiff: [a]\n---\nname: t\nxmldiff: [b]\n", "duplicate"},
		{"malformed yaml", "name: [t\n", "parsing test document 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeSpec(t, t.TempDir(), tt.content)
			_, err := Load(path, nil)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Load() error = %q, want to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "tests.yaml"), nil)
	if err == nil || !strings.Contains(err.Error(), "reading spec file") {
		t.Errorf("Load() error = %v, want read failure", err)
	}
}

func TestLoadAll(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	for _, d := range []string{a, b} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	// The same test name in different directories is allowed.
	pa := writeSpec(t, a, "name: t\nxmldiff: [x.xml]\n")
	pb := writeSpec(t, b, "name: t\nxmldiff: [y.xml]\n")

	specs, err := LoadAll([]string{pa, pb}, nil)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(specs) != 2 || specs[0].Dir != a || specs[1].Dir != b {
		t.Errorf("LoadAll() = %+v", specs)
	}

	if _, err := LoadAll([]string{pa, pa}, nil); err == nil {
		t.Error("LoadAll() expected duplicate error when loading a file twice")
	}
}
