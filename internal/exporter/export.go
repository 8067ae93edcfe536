package exporter

import (
	"log/slog"

	"genaidash/internal/dataprocessing"
)

// Exporter writes tables in the format implied by the output path
type Exporter struct {
	csv  *CSVWriter
	xlsx *XLSXWriter
	bom  bool
}

// New creates an exporter. bom controls the UTF-8 byte order mark on CSV
// output.
func New(logger *slog.Logger, bom bool) *Exporter {
	return &Exporter{
		csv:  NewCSVWriter(logger),
		xlsx: NewXLSXWriter(logger),
		bom:  bom,
	}
}

// Export writes t to path
func (e *Exporter) Export(path string, t *dataprocessing.Table) error {
	if FormatFor(path) == FormatXLSX {
		return e.xlsx.WriteTable(path, t)
	}
	return e.csv.WriteTable(path, t, e.bom)
}
