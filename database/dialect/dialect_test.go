package dialect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-sqlmodel/database/types"
)

func TestFor(t *testing.T) {
	tests := []struct {
		vendor      string
		placeholder string
		features    Features
	}{
		{types.PostgreSQL, "$3", Features{Paging: LimitOffset}},
		{types.MySQL, "?", Features{Paging: LimitOffset, DualTable: "dual"}},
		{types.SQLite, "?", Features{Paging: LimitOffset}},
		{types.SQLServer, "@P3", Features{Paging: RowNumber, NamedDerivedColumns: true}},
		{types.Oracle, ":3", Features{Paging: OffsetFetch, DualTable: "dual"}},
	}

	for _, tt := range tests {
		t.Run(tt.vendor, func(t *testing.T) {
			d, err := For(strings.ToUpper(tt.vendor))
			require.NoError(t, err)
			assert.Equal(t, tt.vendor, d.Vendor())
			assert.Equal(t, tt.placeholder, d.Placeholder(3))
			assert.Equal(t, tt.features, d.Features())
			assert.Equal(t, tt.vendor, d.(interface{ String() string }).String())
		})
	}
}

func TestForUnknownVendor(t *testing.T) {
	_, err := For("db2")
	require.ErrorIs(t, err, types.ErrUnsupportedDatabaseType)
	assert.Contains(t, err.Error(), `"db2"`)
}

func TestDialectsAreShared(t *testing.T) {
	a, err := For(types.PostgreSQL)
	require.NoError(t, err)
	assert.Same(t, Postgres(), a)
}

func TestBinder(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("SELECT * FROM t WHERE a = ")
	b := NewBinder(&sb)

	b.Bind(1)
	b.Bind("x")
	b.Bind(nil)
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []any{1, "x", nil}, b.Args())
	assert.Equal(t, "SELECT * FROM t WHERE a = ", b.SQL())

	b.Truncate(5)
	assert.Equal(t, 3, b.Len())
	b.Truncate(1)
	assert.Equal(t, []any{1}, b.Args())
}

func TestBinderNilBuilder(t *testing.T) {
	b := NewBinder(nil)
	assert.Empty(t, b.SQL())

	err := Unsupported(struct{}{}, b)
	require.ErrorIs(t, err, types.ErrUnsupportedType)
	assert.Contains(t, err.Error(), "struct {}")
}

func TestRowLookup(t *testing.T) {
	row := NewRow([]string{"ID", "name", "Name"}, []any{int64(7), "ann", "other"})

	v, err := row.Value("id")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	v, err = row.Value("Name")
	require.NoError(t, err)
	assert.Equal(t, "other", v)

	v, err = row.Value("NAME")
	require.NoError(t, err)
	assert.Equal(t, "ann", v, "case-insensitive match picks the first column")

	_, err = row.Value("missing")
	require.ErrorIs(t, err, types.ErrColumnNotFound)

	assert.Equal(t, []string{"ID", "name", "Name"}, row.Columns())
}

func TestRowShortValues(t *testing.T) {
	row := NewRow([]string{"a", "b"}, []any{1})
	_, err := row.Value("b")
	require.ErrorIs(t, err, types.ErrColumnNotFound)
}
