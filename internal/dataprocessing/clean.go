package dataprocessing

import (
	"math"
	"strconv"
	"strings"

	"genaidash/pkg/contracts/domain"
)

// CleanOptions toggles the cleaning steps. Both are on by default.
type CleanOptions struct {
	RemoveDuplicates bool `json:"remove_duplicates" yaml:"remove_duplicates"`
	FillNulls        bool `json:"fill_nulls" yaml:"fill_nulls"`
}

// DefaultCleanOptions returns the options used when none are given
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		RemoveDuplicates: true,
		FillNulls:        true,
	}
}

// CleanStats reports what Clean changed
type CleanStats struct {
	DuplicatesRemoved int
	NullsFilled       int
}

// Clean fills nulls in numeric columns with the column mean and then drops
// exact duplicate rows, keeping the first occurrence. Means are taken over the
// table as given, before any row is removed. Kinds must already be inferred.
func Clean(t *Table, opts CleanOptions) CleanStats {
	var stats CleanStats

	if opts.FillNulls {
		means := ColumnMeans(t)
		for c, mean := range means {
			if math.IsNaN(mean) {
				continue
			}
			for _, row := range t.Rows {
				if row[c].Null {
					row[c] = NumberValue(mean)
					stats.NullsFilled++
				}
			}
		}
	}

	if opts.RemoveDuplicates {
		stats.DuplicatesRemoved = dropDuplicates(t)
	}

	return stats
}

// ColumnMeans returns the arithmetic mean of the non-null cells of each
// numeric column, keyed by column index. Text columns are absent.
func ColumnMeans(t *Table) map[int]float64 {
	means := make(map[int]float64)
	for c, kind := range t.Kinds {
		if kind != domain.ColumnKindNumeric {
			continue
		}
		var sum float64
		var n int
		for _, row := range t.Rows {
			if !row[c].Null {
				sum += row[c].Num
				n++
			}
		}
		if n > 0 {
			means[c] = sum / float64(n)
		} else {
			means[c] = math.NaN()
		}
	}
	return means
}

func dropDuplicates(t *Table) int {
	seen := make(map[string]struct{}, len(t.Rows))
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		key := rowKey(t.Kinds, row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	removed := len(t.Rows) - len(kept)
	// Clear the tail so dropped rows can be collected.
	for i := len(kept); i < len(t.Rows); i++ {
		t.Rows[i] = nil
	}
	t.Rows = kept
	return removed
}

// rowKey encodes a row for equality: numbers by value, text by raw string,
// and all nulls alike. Each cell is length-prefixed so no two rows collide.
func rowKey(kinds []domain.ColumnKind, row []Value) string {
	var b strings.Builder
	for i, v := range row {
		var cell string
		switch {
		case v.Null:
			b.WriteString("n;")
			continue
		case kinds[i] == domain.ColumnKindNumeric:
			// +0 folds -0 into 0.
			cell = "f" + strconv.FormatUint(math.Float64bits(v.Num+0), 16)
		default:
			cell = "s" + v.Raw
		}
		b.WriteString(strconv.Itoa(len(cell)))
		b.WriteByte(':')
		b.WriteString(cell)
	}
	return b.String()
}
