package exporter

import (
	"path/filepath"
	"strings"

	"genaidash/internal/dataprocessing"
	"genaidash/pkg/contracts/domain"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFor picks the export format from the file extension; anything but
// .xlsx is CSV
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// cellValue returns what a workbook cell should hold: nil for nulls, a
// float64 in numeric columns, the source text otherwise
func cellValue(t *dataprocessing.Table, col int, v dataprocessing.Value) interface{} {
	switch {
	case v.Null:
		return nil
	case t.Kinds[col] == domain.ColumnKindNumeric:
		return v.Num
	default:
		return v.Raw
	}
}
