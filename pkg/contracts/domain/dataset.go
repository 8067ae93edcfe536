package domain

// ColumnKind classifies a column after loading
type ColumnKind string

const (
	ColumnKindNumeric ColumnKind = "numeric"
	ColumnKindText    ColumnKind = "text"
)

// ColumnSummary describes one column of a processed table
type ColumnSummary struct {
	Name    string     `json:"name"`
	Kind    ColumnKind `json:"kind"`
	Count   int        `json:"count"`          // non-null cells
	Nulls   int        `json:"nulls"`          // null cells
	Unique  int        `json:"unique"`         // distinct non-null values
	Mean    *float64   `json:"mean,omitempty"` // numeric columns only
	Min     *float64   `json:"min,omitempty"`  // numeric columns only
	Max     *float64   `json:"max,omitempty"`  // numeric columns only
	Example string     `json:"example,omitempty"`
}

// DatasetSummary is a compact description of a processed table, suitable
// for prompting or display.
type DatasetSummary struct {
	Rows    int             `json:"rows"`
	Columns []ColumnSummary `json:"columns"`
}
