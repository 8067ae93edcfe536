package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "genaidash/internal/errors"
)

// FileValidator checks that data sources and output locations are usable
// before any work starts.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateDataSources fails with a VALIDATION error when sources is empty or
// when any source is missing, a directory, or unreadable. Sources are only
// stat'ed and opened; nothing is parsed. The first failing source, in list
// order, is reported.
func (v *FileValidator) ValidateDataSources(sources []string) error {
	if len(sources) == 0 {
		v.logger.Debug("No data sources provided")
		return apperrors.NewValidationError("no data sources provided")
	}

	for _, source := range sources {
		if err := v.ValidateFile(source); err != nil {
			return err
		}
	}

	v.logger.Debug("Data sources validated", slog.Int("count", len(sources)))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		v.logger.Debug("File does not exist", slog.String("file", path))
		return sourceError(path, "data source not found: %s", nil)
	}
	if err != nil {
		v.logger.Debug("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return sourceError(path, "data source not accessible: %s", err)
	}
	if info.IsDir() {
		v.logger.Debug("Path is a directory, not a file", slog.String("path", path))
		return sourceError(path, "data source is a directory: %s", nil)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Debug("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return sourceError(path, "data source not readable: %s", err)
	}
	file.Close()

	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Debug("Temporary spreadsheet lock file", slog.String("file", path))
		return sourceError(path, "data source is a temporary lock file: %s", nil)
	}

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("cannot create output directory %s", dir), err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

func sourceError(path, format string, cause error) error {
	err := apperrors.NewAppError(apperrors.ErrTypeValidation, fmt.Sprintf(format, path), cause)
	return err.WithContext("source", path)
}
