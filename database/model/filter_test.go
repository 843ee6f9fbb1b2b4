package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenPred struct{}

//nolint:revive // squirrel.Sqlizer
func (brokenPred) ToSql() (string, []any, error) {
	return "", nil, errors.New("broken predicate")
}

func TestFilterJoin(t *testing.T) {
	f := Where("age > ?", 18).
		And("name like ?", "A%").
		Or("(id = ?)", 7)

	assert.Equal(t, "age > ? and name like ? or (id = ?)", f.Expr)
	assert.Equal(t, []any{18, "A%", 7}, f.Args)
	assert.NoError(t, f.Err())
}

func TestFilterConditional(t *testing.T) {
	name := ""
	f := Where("age > ?", 18).
		IfAnd(name != "", "name = ?", name).
		IfOr(true, "id = ?", 1).
		IfOr(false, "id = ?", 2)

	assert.Equal(t, "age > ? or id = ?", f.Expr)
	assert.Equal(t, []any{18, 1}, f.Args)
}

func TestFilterEmptyExprKeepsArgs(t *testing.T) {
	f := (&Filter{}).And("", 1, 2)
	assert.Empty(t, f.Expr)
	assert.Equal(t, []any{1, 2}, f.Args)

	f.And("id = ?")
	assert.Equal(t, "id = ?", f.Expr)
}

func TestNilFilter(t *testing.T) {
	var f *Filter
	assert.NoError(t, f.Err())
	expr, args := f.expr()
	assert.Empty(t, expr)
	assert.Nil(t, args)
}

func TestFilterPredicates(t *testing.T) {
	f := (&Filter{}).
		AndPred(Gte("age", 18)).
		AndPred(In("id", []int{1, 2, 3})).
		OrPred(Null("note")).
		IfAndPred(false, Eq("name", "x")).
		IfOrPred(true, Like("name", "A%"))

	require.NoError(t, f.Err())
	assert.Equal(t, "age >= ? and id IN (?,?,?) or note IS NULL or name LIKE ?", f.Expr)
	assert.Equal(t, []any{18, 1, 2, 3, "A%"}, f.Args)
}

func TestFilterPredicateError(t *testing.T) {
	f := Where("age > ?", 18).AndPred(brokenPred{}).AndPred(Eq("id", 1))

	require.Error(t, f.Err())
	assert.Contains(t, f.Err().Error(), "broken predicate")
	assert.Equal(t, "age > ? and id = ?", f.Expr, "the failed predicate is left out")
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		pred interface {
			ToSql() (string, []any, error)
		}
		sql  string
		args []any
	}{
		{"eq", Eq("id", 1), "id = ?", []any{1}},
		{"eq nil", Eq("note", nil), "note IS NULL", nil},
		{"not eq", NotEq("id", 1), "id <> ?", []any{1}},
		{"lt", Lt("age", 3), "age < ?", []any{3}},
		{"lte", Lte("age", 3), "age <= ?", []any{3}},
		{"gt", Gt("age", 3), "age > ?", []any{3}},
		{"gte", Gte("age", 3), "age >= ?", []any{3}},
		{"in scalar", In("id", 5), "id IN (?)", []any{5}},
		{"not in", NotIn("id", []string{"a", "b"}), "id NOT IN (?,?)", []any{"a", "b"}},
		{"like", Like("name", "A%"), "name LIKE ?", []any{"A%"}},
		{"not like", NotLike("name", "A%"), "name NOT LIKE ?", []any{"A%"}},
		{"null", Null("note"), "note IS NULL", nil},
		{"not null", NotNull("note"), "note IS NOT NULL", nil},
		{"between", Between("age", 10, 20), "(age >= ? AND age <= ?)", []any{10, 20}},
		{"raw", Raw("lower(name) = ?", "ann"), "lower(name) = ?", []any{"ann"}},
		{"not", Not(Gt("age", 3)), "NOT (age > ?)", []any{3}},
		{"all", All(Eq("id", 1), nil, Gt("age", 3)), "(id = ? AND age > ?)", []any{1, 3}},
		{"any", Any(Eq("id", 1), Eq("id", 2)), "(id = ? OR id = ?)", []any{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.pred.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestInEmptyNeverMatches(t *testing.T) {
	sql, args, err := In("id", []int{}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "(1=0)", sql)
	assert.Empty(t, args)
}

func TestNotPropagatesError(t *testing.T) {
	_, _, err := Not(brokenPred{}).ToSql()
	require.Error(t, err)
}
