package frontend

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Extension is the file extension of μHigh sources.
const Extension = ".mu"

// IsSourceFile reports whether path names a μHigh source file.
func IsSourceFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}

// Discover expands paths into a sorted, de-duplicated list of source files.
// Directories are walked recursively; a directory whose base name is in
// exclude is skipped. Files named explicitly are kept whatever their
// extension.
func Discover(paths, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && slices.Contains(exclude, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if IsSourceFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}
	}

	slices.Sort(files)
	return files, nil
}

// ReadSources loads each file into a Source named by its path.
func ReadSources(files []string) ([]Source, error) {
	sources := make([]Source, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
		sources = append(sources, Source{Name: f, Text: string(data)})
	}
	return sources, nil
}
