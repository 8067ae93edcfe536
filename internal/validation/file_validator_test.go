package validation

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "genaidash/internal/errors"
	"genaidash/internal/shared/testutil"
)

func TestFileValidator_ValidateDataSources(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(good, []byte("a\n1\n"), 0644))
	lock := filepath.Join(dir, "~$book.xlsx")
	require.NoError(t, os.WriteFile(lock, []byte("x"), 0644))

	tests := []struct {
		name          string
		sources       []string
		wantErr       bool
		errorContains string
	}{
		{
			name:    "single existing file",
			sources: []string{good},
		},
		{
			name:    "repeated file",
			sources: []string{good, good},
		},
		{
			name:          "nil list",
			sources:       nil,
			wantErr:       true,
			errorContains: "no data sources provided",
		},
		{
			name:          "empty list",
			sources:       []string{},
			wantErr:       true,
			errorContains: "no data sources provided",
		},
		{
			name:          "missing file after valid one",
			sources:       []string{good, filepath.Join(dir, "missing.csv")},
			wantErr:       true,
			errorContains: "data source not found",
		},
		{
			name:          "directory",
			sources:       []string{dir},
			wantErr:       true,
			errorContains: "is a directory",
		},
		{
			name:          "lock file",
			sources:       []string{lock},
			wantErr:       true,
			errorContains: "temporary lock file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			v := NewFileValidator(logger)

			err := v.ValidateDataSources(tt.sources)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
		})
	}
}

func TestFileValidator_FirstFailureReported(t *testing.T) {
	dir := t.TempDir()
	v := NewFileValidator(nil)

	err := v.ValidateDataSources([]string{filepath.Join(dir, "first.csv"), filepath.Join(dir, "second.csv")})

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, filepath.Join(dir, "first.csv"), appErr.Context["source"])
}

func TestFileValidator_UnreadableFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	path := filepath.Join(t.TempDir(), "locked.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0000))

	err := NewFileValidator(nil).ValidateFile(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not readable")
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	out := filepath.Join(t.TempDir(), "exports", "daily")
	require.NoError(t, v.ValidateOutputDirectory(out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	_, err = os.Stat(filepath.Join(out, ".write_test"))
	assert.True(t, os.IsNotExist(err))

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	err = v.ValidateOutputDirectory(filepath.Join(file, "sub"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}
