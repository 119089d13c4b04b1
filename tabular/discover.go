package tabular

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Discovered represents a benchmark directory found during data-dir
// traversal.
type Discovered struct {
	Name      string // directory name holding the space file
	Dir       string // absolute path to the benchmark directory
	SpacePath string // absolute path to space.yaml
	TablePath string // absolute path to the table (empty if not found)
}

// HasTable returns true if the directory has a discovered data table.
func (d Discovered) HasTable() bool {
	return d.TablePath != ""
}

// DiscoverDir walks the given data directory and finds all benchmark
// directories. A benchmark directory contains space.yaml; a loadable
// one also has table.csv or table.csv.zst alongside it.
func DiscoverDir(root string) ([]Discovered, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving data dir: %w", err)
	}

	// Verify root exists before walking
	if _, err := os.Stat(absRoot); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	var found []Discovered

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}

		// Skip hidden directories, but not a hidden data root itself
		if d.IsDir() && path != absRoot && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}

		// Look for space files
		if !d.IsDir() && d.Name() == SpaceFileName {
			dir := filepath.Dir(path)
			table, _ := tablePath(dir)

			found = append(found, Discovered{
				Name:      filepath.Base(dir),
				Dir:       dir,
				SpacePath: path,
				TablePath: table,
			})
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking data dir %s: %w", absRoot, err)
	}

	return found, nil
}

// FilterLoadable returns only benchmark directories that have a data
// table alongside their space file.
func FilterLoadable(found []Discovered) []Discovered {
	var result []Discovered
	for _, d := range found {
		if d.HasTable() {
			result = append(result, d)
		}
	}
	return result
}

// fileExists checks if a path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
