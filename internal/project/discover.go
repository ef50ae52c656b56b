package project

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverSpecFiles finds every file named specFile below dir. Hidden
// directories and directories named goldDir are not searched, since gold
// trees mirror test output rather than define tests. Results are sorted.
func DiscoverSpecFiles(dir, specFile, goldDir string) ([]string, error) {
	var matches []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && isExcludedDir(d.Name(), goldDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == specFile {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	return matches, nil
}

// isExcludedDir returns true for directories that never hold test specs.
func isExcludedDir(name, goldDir string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if goldDir != "" && name == filepath.Base(goldDir) {
		return true
	}
	excluded := map[string]bool{
		"node_modules": true,
		"vendor":       true,
	}
	return excluded[name]
}
