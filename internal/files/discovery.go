package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "genaidash/internal/errors"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// DataExtensions lists the file extensions the data processor can load
var DataExtensions = []string{".csv", ".tsv", ".txt", ".xlsx"}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance. Relative paths and
// patterns are resolved against basePath; an empty basePath means the
// working directory.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// Resolve expands data source patterns into concrete paths, keeping the
// order of the patterns. Matches of one pattern are sorted by name, and a
// directory expands to the data files directly inside it. A plain path, a
// directory without data files, or a pattern that matches nothing is passed
// through unchanged so that validation can report it.
func (d *Discovery) Resolve(patterns []string) ([]string, error) {
	resolved := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		full := d.fullPath(pattern)
		if !hasMeta(pattern) {
			resolved = append(resolved, expandDir(full)...)
			continue
		}

		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid data source pattern %q", pattern)).
				WithContext("pattern", pattern)
		}

		files := matches[:0]
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && !info.IsDir() {
				files = append(files, m)
			}
		}

		if len(files) == 0 {
			resolved = append(resolved, full)
			continue
		}
		sort.Strings(files)
		resolved = append(resolved, files...)
	}
	return resolved, nil
}

// FindDataFiles finds loadable data files (CSV, TSV, TXT, XLSX) in the
// specified directory, sorted by name. Spreadsheet lock files are skipped.
func (d *Discovery) FindDataFiles(dir string) ([]FileInfo, error) {
	return listDataFiles(d.fullPath(dir))
}

func listDataFiles(fullPath string) ([]FileInfo, error) {
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, "~$") || !IsDataFile(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// Paths returns the paths of the given files
func Paths(files []FileInfo) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

// IsDataFile reports whether name has a loadable extension
func IsDataFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range DataExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// expandDir returns the data files of path when it is a readable directory
// holding any, and path itself otherwise
func expandDir(path string) []string {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return []string{path}
	}
	files, err := listDataFiles(path)
	if err != nil || len(files) == 0 {
		return []string{path}
	}
	return Paths(files)
}

func (d *Discovery) fullPath(p string) string {
	if d.basePath == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.basePath, p)
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[`)
}
