package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/xmldiff/internal/config"
)

// Project represents a loaded xmldiff project.
type Project struct {
	Root     string
	Config   *config.Config
	Warnings []string
}

// LoadProject finds and loads a project from the current directory.
func LoadProject() (*Project, error) {
	root, err := FindRoot()
	if err != nil {
		return nil, err
	}
	return LoadProjectFrom(root)
}

// LoadProjectFrom loads a project from a specified root directory.
func LoadProjectFrom(root string) (*Project, error) {
	configPath := filepath.Join(root, ConfigDirName, ConfigFileName)

	cfg, warnings, err := config.LoadAndValidate(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validateDirectory(filepath.Join(root, cfg.TestsDir), "tests_dir"); err != nil {
		return nil, err
	}

	return &Project{
		Root:     root,
		Config:   cfg,
		Warnings: warnings,
	}, nil
}

// LoadOrDefault loads the project enclosing startDir. Outside a project it
// returns a project rooted at startDir with the default configuration.
func LoadOrDefault(startDir string) (*Project, error) {
	root, err := FindRootFrom(startDir)
	if errors.Is(err, ErrNoProjectRoot) {
		abs, absErr := filepath.Abs(startDir)
		if absErr != nil {
			return nil, absErr
		}
		return &Project{Root: abs, Config: config.Default()}, nil
	}
	if err != nil {
		return nil, err
	}
	return LoadProjectFrom(root)
}

// ConfigPath returns the full path to the project configuration file.
func (p *Project) ConfigPath() string {
	return filepath.Join(p.Root, ConfigDirName, ConfigFileName)
}

// TestsDirectory returns the absolute path to the directory searched for
// test specs.
func (p *Project) TestsDirectory() string {
	return filepath.Join(p.Root, p.Config.TestsDir)
}

// validateDirectory checks if a configured directory exists.
func validateDirectory(dir, field string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: directory %q does not exist", field, dir)
	}
	if err != nil {
		return fmt.Errorf("%s: cannot access directory %q: %w", field, dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %q is not a directory", field, dir)
	}
	return nil
}
