package dataprocessing

import (
	"context"
	"fmt"

	"genaidash/pkg/contracts/domain"
)

// TransformFunc is a post-cleaning step. It may modify and return the given
// table or build a new one.
type TransformFunc func(ctx context.Context, t *Table) (*Table, error)

// Identity returns the table unchanged
func Identity(_ context.Context, t *Table) (*Table, error) {
	return t, nil
}

// Chain runs transforms in order. Nil entries are skipped.
func Chain(fns ...TransformFunc) TransformFunc {
	return func(ctx context.Context, t *Table) (*Table, error) {
		var err error
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if err = ctx.Err(); err != nil {
				return nil, err
			}
			if t, err = fn(ctx, t); err != nil {
				return nil, err
			}
		}
		return t, nil
	}
}

// DerivedProduct adds column name = a * b, for example revenue from quantity
// and price. A row with either factor null gets a null product. The factor
// columns must be numeric.
func DerivedProduct(name, a, b string) TransformFunc {
	return func(_ context.Context, t *Table) (*Table, error) {
		ia, ib := t.ColumnIndex(a), t.ColumnIndex(b)
		for _, c := range []struct {
			name string
			idx  int
		}{{a, ia}, {b, ib}} {
			if c.idx < 0 {
				return nil, fmt.Errorf("derive %s: column %q not found", name, c.name)
			}
			if t.Kinds[c.idx] != domain.ColumnKindNumeric {
				return nil, fmt.Errorf("derive %s: column %q is not numeric", name, c.name)
			}
		}
		if t.ColumnIndex(name) >= 0 {
			return nil, fmt.Errorf("derive %s: column already exists", name)
		}

		t.AddColumn(name, domain.ColumnKindNumeric, func(row []Value) Value {
			if row[ia].Null || row[ib].Null {
				return NullValue()
			}
			return NumberValue(row[ia].Num * row[ib].Num)
		})
		return t, nil
	}
}
