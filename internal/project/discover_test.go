package project

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("name: t\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverSpecFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	touch(t, filepath.Join(dir, "tests.yaml"))
	touch(t, filepath.Join(dir, "vtk", "tests.yaml"))
	touch(t, filepath.Join(dir, "vtk", "nested", "deep", "tests.yaml"))
	touch(t, filepath.Join(dir, "vtk", "gold", "tests.yaml"))
	touch(t, filepath.Join(dir, ".cache", "tests.yaml"))
	touch(t, filepath.Join(dir, "vendor", "tests.yaml"))
	touch(t, filepath.Join(dir, "other", "spec.yaml"))

	got, err := DiscoverSpecFiles(dir, "tests.yaml", "gold")
	if err != nil {
		t.Fatalf("DiscoverSpecFiles() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "tests.yaml"),
		filepath.Join(dir, "vtk", "nested", "deep", "tests.yaml"),
		filepath.Join(dir, "vtk", "tests.yaml"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DiscoverSpecFiles() = %v, want %v", got, want)
	}
}

func TestDiscoverSpecFiles_NestedGoldDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a", "tests.yaml"))
	touch(t, filepath.Join(dir, "a", "reference", "tests.yaml"))

	got, err := DiscoverSpecFiles(dir, "tests.yaml", "ref/reference")
	if err != nil {
		t.Fatalf("DiscoverSpecFiles() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("DiscoverSpecFiles() = %v, want only a/tests.yaml", got)
	}
}

func TestDiscoverSpecFiles_MissingDir(t *testing.T) {
	t.Parallel()
	if _, err := DiscoverSpecFiles(filepath.Join(t.TempDir(), "missing"), "tests.yaml", "gold"); err == nil {
		t.Error("DiscoverSpecFiles() expected error for missing directory")
	}
}

func TestIsExcludedDir(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		goldDir string
		want    bool
	}{
		{".git", "gold", true},
		{"gold", "gold", true},
		{"gold", "", false},
		{"vendor", "gold", true},
		{"node_modules", "gold", true},
		{"vtk", "gold", false},
	}
	for _, tt := range tests {
		if got := isExcludedDir(tt.name, tt.goldDir); got != tt.want {
			t.Errorf("isExcludedDir(%q, %q) = %v, want %v", tt.name, tt.goldDir, got, tt.want)
		}
	}
}
