package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "genaidash/internal/errors"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("a,b\n1,2\n"), 0644))
	}
}

func TestNewDiscovery(t *testing.T) {
	discovery := NewDiscovery("/test/base")

	assert.NotNil(t, discovery)
	assert.Equal(t, "/test/base", discovery.basePath)
}

func TestDiscovery_Resolve(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "sales_data_2.csv", "sales_data_1.csv", "returns.xlsx", "notes.md")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sales_data_dir.csv"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "q3"), 0755))
	touch(t, filepath.Join(dir, "q3"), "b.csv", "a.xlsx", "~$a.xlsx", "readme.md")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "empty"), 0755))

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "glob expands sorted and skips directories",
			patterns: []string{"sales_data_*.csv"},
			want:     []string{"sales_data_1.csv", "sales_data_2.csv"},
		},
		{
			name:     "pattern order is preserved",
			patterns: []string{"returns.xlsx", "sales_data_*.csv"},
			want:     []string{"returns.xlsx", "sales_data_1.csv", "sales_data_2.csv"},
		},
		{
			name:     "plain missing path passes through",
			patterns: []string{"missing.csv"},
			want:     []string{"missing.csv"},
		},
		{
			name:     "unmatched pattern passes through",
			patterns: []string{"orders_*.csv"},
			want:     []string{"orders_*.csv"},
		},
		{
			name:     "directory expands to its data files",
			patterns: []string{"q3", "returns.xlsx"},
			want:     []string{"q3/a.xlsx", "q3/b.csv", "returns.xlsx"},
		},
		{
			name:     "directory without data files passes through",
			patterns: []string{"empty"},
			want:     []string{"empty"},
		},
		{
			name:     "empty list",
			patterns: nil,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewDiscovery(dir).Resolve(tt.patterns)
			require.NoError(t, err)

			want := make([]string, len(tt.want))
			for i, w := range tt.want {
				want[i] = filepath.Join(dir, filepath.FromSlash(w))
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestDiscovery_Resolve_AbsoluteAndBadPattern(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.csv")

	got, err := NewDiscovery("/elsewhere").Resolve([]string{filepath.Join(dir, "*.csv")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.csv")}, got)

	_, err = NewDiscovery(dir).Resolve([]string{"[unclosed"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestDiscovery_FindDataFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.csv", "a.TSV", "c.xlsx", "~$c.xlsx", "readme.md", "d.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0755))

	files, err := NewDiscovery("").FindDataFiles(dir)
	require.NoError(t, err)

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
		assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
	}
	assert.Equal(t, []string{"a.TSV", "b.csv", "c.xlsx", "d.txt"}, names)
	assert.Len(t, Paths(files), 4)

	_, err = NewDiscovery("").FindDataFiles(filepath.Join(dir, "absent"))
	assert.Error(t, err)
}

func TestIsDataFile(t *testing.T) {
	tests := map[string]bool{
		"sales.csv":  true,
		"SALES.CSV":  true,
		"data.tsv":   true,
		"book.xlsx":  true,
		"dump.txt":   true,
		"legacy.xls": false,
		"notes":      false,
	}

	for name, want := range tests {
		assert.Equal(t, want, IsDataFile(name), name)
	}
}
