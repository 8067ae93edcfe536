package dataprocessing

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"genaidash/pkg/contracts/domain"
)

// nullTokens are the cell texts read as missing values. The set matches the
// defaults of common dataframe libraries so exports round-trip.
var nullTokens = map[string]struct{}{
	"":        {},
	"NA":      {},
	"N/A":     {},
	"n/a":     {},
	"NaN":     {},
	"nan":     {},
	"-NaN":    {},
	"-nan":    {},
	"null":    {},
	"NULL":    {},
	"None":    {},
	"#N/A":    {},
	"<NA>":    {},
	"#NA":     {},
	"1.#QNAN": {},
}

// IsNullToken reports whether raw cell text denotes a missing value
func IsNullToken(raw string) bool {
	_, ok := nullTokens[strings.TrimSpace(raw)]
	return ok
}

// Value is a single cell. Raw keeps the source text; Num is only meaningful
// once the owning column is numeric.
type Value struct {
	Raw  string
	Num  float64
	Null bool
}

// TextValue builds a cell from source text
func TextValue(raw string) Value {
	return Value{Raw: raw, Null: IsNullToken(raw)}
}

// NumberValue builds a non-null numeric cell
func NumberValue(n float64) Value {
	return Value{Raw: strconv.FormatFloat(n, 'f', -1, 64), Num: n}
}

// NullValue builds a missing cell
func NullValue() Value {
	return Value{Null: true}
}

// Table is an ordered, column-labelled dataset. Every row has exactly
// len(Columns) cells.
type Table struct {
	Columns []string
	Kinds   []domain.ColumnKind
	Rows    [][]Value
}

// NewTable creates an empty table with the given header
func NewTable(columns []string) *Table {
	cols := append([]string(nil), columns...)
	kinds := make([]domain.ColumnKind, len(cols))
	for i := range kinds {
		kinds[i] = domain.ColumnKindText
	}
	return &Table{Columns: cols, Kinds: kinds, Rows: [][]Value{}}
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of name, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AppendRow adds a row, padding short rows with nulls and truncating long ones
func (t *Table) AppendRow(cells []Value) {
	row := make([]Value, len(t.Columns))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = NullValue()
		}
	}
	t.Rows = append(t.Rows, row)
}

// AddColumn appends a column computed per row and returns its index
func (t *Table) AddColumn(name string, kind domain.ColumnKind, fn func(row []Value) Value) int {
	t.Columns = append(t.Columns, name)
	t.Kinds = append(t.Kinds, kind)
	for i, row := range t.Rows {
		t.Rows[i] = append(row, fn(row))
	}
	return len(t.Columns) - 1
}

// DropColumns removes the named columns; unknown names are ignored
func (t *Table) DropColumns(names ...string) {
	drop := make(map[int]bool)
	for _, n := range names {
		if i := t.ColumnIndex(n); i >= 0 {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return
	}

	keep := make([]int, 0, len(t.Columns)-len(drop))
	for i := range t.Columns {
		if !drop[i] {
			keep = append(keep, i)
		}
	}

	cols := make([]string, len(keep))
	kinds := make([]domain.ColumnKind, len(keep))
	for j, i := range keep {
		cols[j] = t.Columns[i]
		kinds[j] = t.Kinds[i]
	}
	for r, row := range t.Rows {
		out := make([]Value, len(keep))
		for j, i := range keep {
			out[j] = row[i]
		}
		t.Rows[r] = out
	}
	t.Columns, t.Kinds = cols, kinds
}

// Column returns a copy of the cells of column i
func (t *Table) Column(i int) []Value {
	out := make([]Value, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Kinds:   append([]domain.ColumnKind(nil), t.Kinds...),
		Rows:    make([][]Value, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]Value(nil), row...)
	}
	return out
}

// InferKinds marks each column numeric when every non-null cell parses as a
// float and at least one cell is non-null, and fills Num for those cells.
func (t *Table) InferKinds() {
	for c := range t.Columns {
		numeric, seen := true, false
		for _, row := range t.Rows {
			v := row[c]
			if v.Null {
				continue
			}
			seen = true
			if _, err := parseNumber(v.Raw); err != nil {
				numeric = false
				break
			}
		}

		if !numeric || !seen {
			t.Kinds[c] = domain.ColumnKindText
			continue
		}

		t.Kinds[c] = domain.ColumnKindNumeric
		for _, row := range t.Rows {
			if !row[c].Null {
				row[c].Num, _ = parseNumber(row[c].Raw)
			}
		}
	}
}

// Records returns the table as string rows, header first. Cells keep their
// source text, so null tokens such as NA are written back unchanged.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, append([]string(nil), t.Columns...))
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = v.Raw
		}
		out = append(out, rec)
	}
	return out
}

var errNotFinite = errors.New("not a finite number")

// parseNumber accepts finite floats only, so cells such as inf keep their
// column textual.
func parseNumber(raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errNotFinite
	}
	return f, nil
}
