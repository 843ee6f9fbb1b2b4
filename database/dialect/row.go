package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/gaborage/go-sqlmodel/database/types"
)

// Row is a snapshot of one result row, addressable by column name.
// Values are whatever the driver produced when scanning into *any.
type Row struct {
	columns []string
	index   map[string]int
	values  []any
}

// NewRow builds a Row from parallel column and value slices.
// Lookups fall back to a case-insensitive match, since some vendors
// report unquoted aliases in upper case.
func NewRow(columns []string, values []any) *Row {
	index := make(map[string]int, len(columns)*2)
	for i, c := range columns {
		if _, ok := index[c]; !ok {
			index[c] = i
		}
		lower := strings.ToLower(c)
		if _, ok := index[lower]; !ok {
			index[lower] = i
		}
	}
	return &Row{columns: columns, index: index, values: values}
}

// withValues returns a Row sharing r's column index.
func (r *Row) withValues(values []any) *Row {
	return &Row{columns: r.columns, index: r.index, values: values}
}

// Columns returns the column names in result order.
func (r *Row) Columns() []string { return r.columns }

// Value returns the value of the named column. A nil value is SQL NULL.
func (r *Row) Value(column string) (any, error) {
	i, ok := r.index[column]
	if !ok {
		i, ok = r.index[strings.ToLower(column)]
	}
	if !ok || i >= len(r.values) {
		return nil, fmt.Errorf("%w: %q", types.ErrColumnNotFound, column)
	}
	return r.values[i], nil
}

// EachRow scans every remaining row of rows into a Row snapshot and calls fn.
// It stops at the first error and reports rows.Err() after iteration.
func EachRow(rows *sql.Rows, fn func(*Row) error) error {
	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	proto := NewRow(columns, nil)

	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		if err := fn(proto.withValues(values)); err != nil {
			return err
		}
	}
	return rows.Err()
}
