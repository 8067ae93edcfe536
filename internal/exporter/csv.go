package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"genaidash/internal/dataprocessing"
	apperrors "genaidash/internal/errors"
	"genaidash/internal/validation"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger    *slog.Logger
	validator *validation.FileValidator
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &CSVWriter{
		logger:    logger,
		validator: validation.NewFileValidator(logger),
	}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteTable writes the header and every row of t. Cells are written as
// their source text, filled means as plain decimals.
func (w *CSVWriter) WriteTable(path string, t *dataprocessing.Table, bom bool) error {
	records := t.Records()
	return w.WriteCSV(path, WriteOptions{
		Headers:   records[0],
		Records:   records[1:],
		BOMPrefix: bom,
	})
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	if err := w.validator.ValidateOutputDirectory(filepath.Dir(filePath)); err != nil {
		return err
	}

	// Open file with appropriate flags
	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(filePath, flags, 0644)
	if err != nil {
		return storageError("failed to open file", filePath, err)
	}
	defer file.Close()

	// Write BOM if requested (helps Excel recognize UTF-8)
	if options.BOMPrefix && !options.Append {
		if _, err := file.Write(utf8BOM); err != nil {
			return storageError("failed to write BOM", filePath, err)
		}
	}

	writer := csv.NewWriter(file)

	// Write headers if not appending
	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return storageError("failed to write headers", filePath, err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return storageError(fmt.Sprintf("failed to write record %d", i), filePath, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return storageError("failed to flush", filePath, err)
	}
	return file.Close()
}

// AppendToCSV appends records to an existing CSV file
func (w *CSVWriter) AppendToCSV(filePath string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Records: records,
		Append:  true,
	})
}

func storageError(message, path string, cause error) error {
	return apperrors.NewStorageError(message, cause).WithContext("path", path)
}
