package exporter

import (
	"log/slog"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"genaidash/internal/dataprocessing"
	"genaidash/internal/validation"
)

// DefaultSheetName is the worksheet XLSXWriter writes to
const DefaultSheetName = "Data"

// XLSXWriter writes a table to a single-sheet workbook. Numeric columns are
// stored as numbers, everything else as text.
type XLSXWriter struct {
	logger    *slog.Logger
	validator *validation.FileValidator
}

// NewXLSXWriter creates a new workbook writer
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &XLSXWriter{
		logger:    logger,
		validator: validation.NewFileValidator(logger),
	}
}

// WriteTable writes t to path, replacing any existing file
func (w *XLSXWriter) WriteTable(path string, t *dataprocessing.Table) error {
	w.logger.Info("Writing XLSX file",
		slog.String("file_path", path),
		slog.Int("record_count", t.Len()))

	if err := w.validator.ValidateOutputDirectory(filepath.Dir(path)); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), DefaultSheetName); err != nil {
		return storageError("failed to name sheet", path, err)
	}

	sw, err := f.NewStreamWriter(DefaultSheetName)
	if err != nil {
		return storageError("failed to open sheet", path, err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return storageError("failed to write headers", path, err)
	}

	for r, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = cellValue(t, i, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return storageError("row out of range", path, err)
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return storageError("failed to write row", path, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return storageError("failed to flush sheet", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return storageError("failed to save workbook", path, err)
	}
	return nil
}
