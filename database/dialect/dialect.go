// Package dialect holds the per-vendor strategies the statement builders are
// parameterized over: placeholder syntax, paging idiom, and the conversions
// between Go values and driver-native bound parameters or column values.
package dialect

import (
	"fmt"
	"strings"

	"github.com/gaborage/go-sqlmodel/database/types"
)

// Paging selects how a dialect renders page bounds.
type Paging int

const (
	// LimitOffset renders `LIMIT ? OFFSET ?`.
	LimitOffset Paging = iota
	// OffsetFetch renders `OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`.
	OffsetFetch
	// RowNumber wraps the select in a ROW_NUMBER() OVER subquery bounded by
	// `_num BETWEEN (1+offset) AND (offset+limit)`. Single-row selects use TOP 1.
	// The offset placeholder is referenced twice, so placeholders must be positional.
	RowNumber
)

// Features describes the syntax differences between vendors.
type Features struct {
	Paging Paging
	// DualTable is the FROM target of a SELECT that reads no table, empty when
	// the vendor accepts a bare SELECT ... WHERE.
	DualTable string
	// NamedDerivedColumns requires every column of a derived table to carry a name.
	NamedDerivedColumns bool
}

// Dialect is one target database's syntax and conversion strategy.
type Dialect interface {
	// Vendor returns the types.Vendor identifier served by the dialect.
	Vendor() string
	// Placeholder renders the bound parameter at the given 1-based statement position.
	Placeholder(position int) string
	Features() Features
	// ConvertArg binds exactly one driver-native value for value and returns its debug text.
	ConvertArg(value any, b *Binder) (string, error)
	// ScanColumn populates slot, a pointer, from the named column of row.
	ScanColumn(column string, row *Row, slot any) error
}

// ArgConverter is a caller-supplied ConvertArg tried before the dialect's own.
// Returning an error wrapping types.ErrUnsupportedType defers to the built-in set.
type ArgConverter func(value any, b *Binder) (string, error)

// RowConverter is a caller-supplied ScanColumn tried before the dialect's own.
// Returning an error wrapping types.ErrUnsupportedType defers to the built-in set.
type RowConverter func(column string, row *Row, slot any) error

// For returns the dialect serving vendor.
func For(vendor string) (Dialect, error) {
	switch strings.ToLower(vendor) {
	case types.PostgreSQL:
		return Postgres(), nil
	case types.MySQL:
		return MySQL(), nil
	case types.SQLite:
		return SQLite(), nil
	case types.SQLServer:
		return SQLServer(), nil
	case types.Oracle:
		return Oracle(), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedDatabaseType, vendor)
	}
}

// vendorDialect is the single Dialect implementation; vendors differ only in configuration.
type vendorDialect struct {
	vendor      string
	placeholder func(position int) string
	features    Features
	codec       codec
}

func (d *vendorDialect) Vendor() string { return d.vendor }

func (d *vendorDialect) Placeholder(position int) string { return d.placeholder(position) }

func (d *vendorDialect) Features() Features { return d.features }

func (d *vendorDialect) ConvertArg(value any, b *Binder) (string, error) {
	return d.codec.convertArg(value, b)
}

func (d *vendorDialect) ScanColumn(column string, row *Row, slot any) error {
	return d.codec.scanColumn(column, row, slot)
}

func (d *vendorDialect) String() string { return d.vendor }
