package model

import (
	"reflect"

	"github.com/Masterminds/squirrel"
)

// Predicate helpers render `?` placeholders and are meant for Filter.AndPred
// and Filter.OrPred. Column names are used verbatim.

// Eq creates an equality predicate (column = value). A nil value renders IS NULL.
func Eq(column string, value any) squirrel.Sqlizer {
	return squirrel.Eq{column: value}
}

// NotEq creates a not-equal predicate (column <> value).
func NotEq(column string, value any) squirrel.Sqlizer {
	return squirrel.NotEq{column: value}
}

// Lt creates a less-than predicate (column < value).
func Lt(column string, value any) squirrel.Sqlizer {
	return squirrel.Lt{column: value}
}

// Lte creates a less-than-or-equal predicate (column <= value).
func Lte(column string, value any) squirrel.Sqlizer {
	return squirrel.LtOrEq{column: value}
}

// Gt creates a greater-than predicate (column > value).
func Gt(column string, value any) squirrel.Sqlizer {
	return squirrel.Gt{column: value}
}

// Gte creates a greater-than-or-equal predicate (column >= value).
func Gte(column string, value any) squirrel.Sqlizer {
	return squirrel.GtOrEq{column: value}
}

// In creates an IN predicate. Scalars are wrapped in a single-element slice
// and an empty slice renders a predicate that never matches.
func In(column string, values any) squirrel.Sqlizer {
	return squirrel.Eq{column: normalizeToSlice(values)}
}

// NotIn creates a NOT IN predicate. Scalars are wrapped like In.
func NotIn(column string, values any) squirrel.Sqlizer {
	return squirrel.NotEq{column: normalizeToSlice(values)}
}

// Like creates a LIKE predicate.
func Like(column, pattern string) squirrel.Sqlizer {
	return squirrel.Like{column: pattern}
}

// NotLike creates a NOT LIKE predicate.
func NotLike(column, pattern string) squirrel.Sqlizer {
	return squirrel.NotLike{column: pattern}
}

// Null creates an IS NULL predicate.
func Null(column string) squirrel.Sqlizer {
	return squirrel.Eq{column: nil}
}

// NotNull creates an IS NOT NULL predicate.
func NotNull(column string) squirrel.Sqlizer {
	return squirrel.NotEq{column: nil}
}

// Between creates an inclusive range predicate.
func Between(column string, lowerBound, upperBound any) squirrel.Sqlizer {
	return squirrel.And{
		squirrel.GtOrEq{column: lowerBound},
		squirrel.LtOrEq{column: upperBound},
	}
}

// Raw wraps a hand-written condition with `?` placeholders.
func Raw(condition string, args ...any) squirrel.Sqlizer {
	return squirrel.Expr(condition, args...)
}

// All joins predicates with AND. Nil predicates are skipped.
func All(preds ...squirrel.Sqlizer) squirrel.Sqlizer {
	return squirrel.And(compact(preds))
}

// Any joins predicates with OR. Nil predicates are skipped.
func Any(preds ...squirrel.Sqlizer) squirrel.Sqlizer {
	return squirrel.Or(compact(preds))
}

// Not negates a predicate.
func Not(pred squirrel.Sqlizer) squirrel.Sqlizer {
	return notPredicate{pred: pred}
}

type notPredicate struct {
	pred squirrel.Sqlizer
}

//nolint:revive // ToSql is required by squirrel.Sqlizer interface (lowercase 's')
func (n notPredicate) ToSql() (sql string, args []any, err error) {
	sql, args, err = n.pred.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + sql + ")", args, nil
}

func compact(preds []squirrel.Sqlizer) []squirrel.Sqlizer {
	out := make([]squirrel.Sqlizer, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// normalizeToSlice keeps squirrel.Eq from rendering `column = ?` for scalars.
func normalizeToSlice(value any) any {
	if value == nil {
		return []any{}
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		return value
	default:
		return []any{value}
	}
}
