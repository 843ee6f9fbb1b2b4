package dialect

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-sqlmodel/database/types"
)

type grade string

func (g grade) Value() (driver.Value, error) {
	if g == "" {
		return nil, nil
	}
	if g == "?" {
		return nil, errors.New("unknown grade")
	}
	return string(g), nil
}

func convert(t *testing.T, d Dialect, value any) (string, []any, error) {
	t.Helper()
	b := NewBinder(nil)
	text, err := d.ConvertArg(value, b)
	return text, b.Args(), err
}

func TestConvertArgBuiltins(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	name := "ann"
	var nilName *string

	tests := []struct {
		name  string
		value any
		text  string
		bound any
	}{
		{"nil", nil, "NULL", nil},
		{"nil pointer", nilName, "NULL", nil},
		{"string", "ann", "ann", "ann"},
		{"pointer", &name, "ann", "ann"},
		{"bytes", []byte{1, 2}, "[1 2]", []byte{1, 2}},
		{"int", 42, "42", 42},
		{"int16", int16(-3), "-3", int16(-3)},
		{"int8", int8(5), "5", int8(5)},
		{"float", 1.5, "1.5", 1.5},
		{"bool", true, "true", true},
		{"time", at, "2024-03-01T10:30:00Z", at},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, args, err := convert(t, Postgres(), tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.text, text)
			require.Len(t, args, 1)
			assert.Equal(t, tt.bound, args[0])
		})
	}
}

func TestConvertArgValuer(t *testing.T) {
	text, args, err := convert(t, SQLite(), grade("A"))
	require.NoError(t, err)
	assert.Equal(t, "A", text)
	assert.Equal(t, []any{grade("A")}, args)

	text, _, err = convert(t, SQLite(), grade(""))
	require.NoError(t, err)
	assert.Equal(t, "NULL", text)

	_, args, err = convert(t, SQLite(), grade("?"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown grade")
	assert.Empty(t, args)
}

func TestConvertArgOracleBool(t *testing.T) {
	text, args, err := convert(t, Oracle(), true)
	require.NoError(t, err)
	assert.Equal(t, "1", text)
	assert.Equal(t, []any{1}, args)

	f := false
	text, args, err = convert(t, Oracle(), &f)
	require.NoError(t, err)
	assert.Equal(t, "0", text)
	assert.Equal(t, []any{0}, args)
}

func TestConvertArgIntegerWidths(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		value   any
		ok      bool
	}{
		{"postgres rejects uint", Postgres(), uint(1), false},
		{"postgres rejects uint8", Postgres(), uint8(1), false},
		{"postgres accepts int8", Postgres(), int8(1), true},
		{"mysql accepts uint64", MySQL(), uint64(1), true},
		{"mysql accepts uint8", MySQL(), uint8(1), true},
		{"sqlserver accepts uint8", SQLServer(), uint8(1), true},
		{"sqlserver rejects int8", SQLServer(), int8(1), false},
		{"sqlserver rejects uint32", SQLServer(), uint32(1), false},
		{"oracle rejects uint16 pointer", Oracle(), new(uint16), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, args, err := convert(t, tt.dialect, tt.value)
			if tt.ok {
				require.NoError(t, err)
				assert.Len(t, args, 1)
				return
			}
			require.ErrorIs(t, err, types.ErrUnsupportedType)
			assert.Empty(t, args)
		})
	}
}

func TestConvertArgUnsupported(t *testing.T) {
	_, args, err := convert(t, MySQL(), map[string]int{"a": 1})
	require.ErrorIs(t, err, types.ErrUnsupportedType)
	assert.Contains(t, err.Error(), "map[string]int")
	assert.Empty(t, args)
}

func scan(d Dialect, value, slot any) error {
	row := NewRow([]string{"col"}, []any{value})
	return d.ScanColumn("col", row, slot)
}

func TestScanColumnPrimitives(t *testing.T) {
	var (
		s  string
		bs []byte
		b  bool
		f  float64
		n  int
		n8 int8
		u  uint64
		tm time.Time
	)

	require.NoError(t, scan(Postgres(), []byte("ann"), &s))
	assert.Equal(t, "ann", s)

	raw := []byte{1, 2}
	require.NoError(t, scan(Postgres(), raw, &bs))
	raw[0] = 9
	assert.Equal(t, []byte{1, 2}, bs, "bytes are copied out of the driver buffer")

	require.NoError(t, scan(SQLite(), int64(1), &b))
	assert.True(t, b)

	require.NoError(t, scan(MySQL(), []byte("2.5"), &f))
	assert.InDelta(t, 2.5, f, 0.0001)

	require.NoError(t, scan(Postgres(), int64(42), &n))
	assert.Equal(t, 42, n)

	require.NoError(t, scan(MySQL(), int64(-8), &n8))
	assert.Equal(t, int8(-8), n8)

	require.NoError(t, scan(MySQL(), []byte("18446744073709551615"), &u))
	assert.Equal(t, uint64(18446744073709551615), u)

	require.NoError(t, scan(SQLite(), "2024-03-01 10:30:00", &tm))
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), tm)
}

func TestScanColumnNullLeavesSlot(t *testing.T) {
	s := "unchanged"
	require.NoError(t, scan(Postgres(), nil, &s))
	assert.Equal(t, "unchanged", s)

	var p *int
	require.NoError(t, scan(Postgres(), nil, &p))
	assert.Nil(t, p)
}

func TestScanColumnPointerSlot(t *testing.T) {
	var p *string
	require.NoError(t, scan(Postgres(), "ann", &p))
	require.NotNil(t, p)
	assert.Equal(t, "ann", *p)
}

func TestScanColumnScanner(t *testing.T) {
	var ns sql.NullString
	require.NoError(t, scan(Postgres(), "ann", &ns))
	assert.Equal(t, sql.NullString{String: "ann", Valid: true}, ns)

	require.NoError(t, scan(Postgres(), nil, &ns))
	assert.False(t, ns.Valid, "scanners see NULL")

	var ni sql.NullInt64
	err := scan(Postgres(), "abc", &ni)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "col"`)
}

func TestScanColumnErrors(t *testing.T) {
	var n8 int8
	err := scan(MySQL(), int64(300), &n8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflows 8-bit integer")

	var u8 uint8
	err = scan(SQLServer(), int64(-1), &u8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")

	var u uint
	err = scan(Postgres(), int64(1), &u)
	require.ErrorIs(t, err, types.ErrUnsupportedType)

	var n int
	err = scan(Postgres(), 1.5, &n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an integer")

	var m map[string]any
	err = scan(Postgres(), "x", &m)
	require.ErrorIs(t, err, types.ErrUnsupportedType)

	var s string
	err = Postgres().ScanColumn("missing", NewRow([]string{"col"}, []any{"x"}), &s)
	require.ErrorIs(t, err, types.ErrColumnNotFound)
}

func TestScanColumnCaseInsensitive(t *testing.T) {
	row := NewRow([]string{"FULL_NAME"}, []any{"Ann Lee"})
	var s string
	require.NoError(t, Oracle().ScanColumn("full_name", row, &s))
	assert.Equal(t, "Ann Lee", s)
}
