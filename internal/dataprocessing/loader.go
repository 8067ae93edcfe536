package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "genaidash/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader reads one source file into a Table. Kinds are not inferred here;
// that happens once on the concatenated table.
type Loader interface {
	Load(path string) (*Table, error)
}

// LoaderFor picks a loader by file extension. Unknown extensions are read as
// comma separated text.
func LoaderFor(path string) Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv":
		return DelimitedLoader{Comma: '\t'}
	case ".xlsx", ".xlsm":
		return XLSXLoader{}
	default:
		return DelimitedLoader{Comma: ','}
	}
}

// DelimitedLoader reads CSV-like text. The first record is the header.
type DelimitedLoader struct {
	Comma rune
}

// Load implements Loader
func (l DelimitedLoader) Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, parseError(path, "cannot read data source", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = l.Comma
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, parseError(path, "no columns to parse", nil)
	}
	if err != nil {
		return nil, parseError(path, "malformed header", err)
	}

	table := NewTable(uniqueHeader(header))
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(path, "malformed record", err)
		}
		if err := appendRecord(table, rec); err != nil {
			line, _ := r.FieldPos(0)
			return nil, parseError(path, err.Error(), nil).WithContext("line", line)
		}
	}

	return table, nil
}

// XLSXLoader reads the first worksheet of a workbook. The first row is the
// header.
type XLSXLoader struct{}

// Load implements Loader
func (XLSXLoader) Load(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, parseError(path, "cannot open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, parseError(path, "workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, parseError(path, "cannot read worksheet", err).WithContext("sheet", sheets[0])
	}

	// Leading blank rows are skipped, as a spreadsheet reader would.
	for len(rows) > 0 && blankRecord(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, parseError(path, "no columns to parse", nil).WithContext("sheet", sheets[0])
	}

	table := NewTable(uniqueHeader(rows[0]))
	for i, rec := range rows[1:] {
		if blankRecord(rec) {
			continue
		}
		if err := appendRecord(table, rec); err != nil {
			return nil, parseError(path, err.Error(), nil).WithContext("row", i+2)
		}
	}

	return table, nil
}

// Concat stacks tables in order. The result has the union of their columns in
// order of first appearance; cells for columns a table lacks are null.
func Concat(tables ...*Table) *Table {
	var columns []string
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
	}

	out := NewTable(columns)
	for _, t := range tables {
		pos := make([]int, len(columns))
		for i, c := range columns {
			pos[i] = t.ColumnIndex(c)
		}
		for _, row := range t.Rows {
			cells := make([]Value, len(columns))
			for i, p := range pos {
				if p < 0 {
					cells[i] = NullValue()
				} else {
					cells[i] = row[p]
				}
			}
			out.Rows = append(out.Rows, cells)
		}
	}

	return out
}

func appendRecord(t *Table, rec []string) error {
	if len(rec) > len(t.Columns) {
		// Trailing empty cells are common in exported sheets.
		for len(rec) > len(t.Columns) && strings.TrimSpace(rec[len(rec)-1]) == "" {
			rec = rec[:len(rec)-1]
		}
		if len(rec) > len(t.Columns) {
			return fmt.Errorf("expected %d fields, saw %d", len(t.Columns), len(rec))
		}
	}

	cells := make([]Value, len(rec))
	for i, raw := range rec {
		cells[i] = TextValue(raw)
	}
	t.AppendRow(cells)
	return nil
}

// uniqueHeader trims names, names blank columns "Unnamed: i" and suffixes
// repeats with ".1", ".2", ...
func uniqueHeader(header []string) []string {
	out := make([]string, len(header))
	counts := make(map[string]int)
	used := make(map[string]bool)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		base := name
		for used[name] {
			counts[base]++
			name = base + "." + strconv.Itoa(counts[base])
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseError(path, message string, cause error) *apperrors.AppError {
	return apperrors.NewParsingError(fmt.Sprintf("%s: %s", message, path), cause).
		WithContext("source", path)
}
