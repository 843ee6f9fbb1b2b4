package model

import (
	"github.com/Masterminds/squirrel"
)

// Filter accumulates a boolean expression with `?` placeholders and the
// positional arguments they consume. A nil *Filter is an empty filter.
//
// Fragments are joined verbatim; wrap them in parentheses when mixing And and Or.
type Filter struct {
	Expr string
	Args []any

	err error
}

// Where starts a filter with expr and its arguments.
func Where(expr string, args ...any) *Filter {
	return (&Filter{}).And(expr, args...)
}

// And appends expr joined by " and ".
func (f *Filter) And(expr string, args ...any) *Filter {
	return f.join(" and ", expr, args)
}

// Or appends expr joined by " or ".
func (f *Filter) Or(expr string, args ...any) *Filter {
	return f.join(" or ", expr, args)
}

// IfAnd appends expr joined by " and " when cond holds.
func (f *Filter) IfAnd(cond bool, expr string, args ...any) *Filter {
	if !cond {
		return f
	}
	return f.And(expr, args...)
}

// IfOr appends expr joined by " or " when cond holds.
func (f *Filter) IfOr(cond bool, expr string, args ...any) *Filter {
	if !cond {
		return f
	}
	return f.Or(expr, args...)
}

// AndPred appends a rendered predicate joined by " and ".
// Rendering errors are kept and reported by Err and by the statement using the filter.
func (f *Filter) AndPred(pred squirrel.Sqlizer) *Filter {
	return f.pred(" and ", pred)
}

// OrPred appends a rendered predicate joined by " or ".
func (f *Filter) OrPred(pred squirrel.Sqlizer) *Filter {
	return f.pred(" or ", pred)
}

// IfAndPred appends pred joined by " and " when cond holds.
func (f *Filter) IfAndPred(cond bool, pred squirrel.Sqlizer) *Filter {
	if !cond {
		return f
	}
	return f.AndPred(pred)
}

// IfOrPred appends pred joined by " or " when cond holds.
func (f *Filter) IfOrPred(cond bool, pred squirrel.Sqlizer) *Filter {
	if !cond {
		return f
	}
	return f.OrPred(pred)
}

// Err returns the first predicate rendering error.
func (f *Filter) Err() error {
	if f == nil {
		return nil
	}
	return f.err
}

// An empty expr leaves the expression untouched but still appends args.
func (f *Filter) join(sep, expr string, args []any) *Filter {
	if expr != "" {
		if f.Expr != "" {
			f.Expr += sep
		}
		f.Expr += expr
	}
	if len(args) > 0 {
		f.Args = append(f.Args, args...)
	}
	return f
}

func (f *Filter) pred(sep string, pred squirrel.Sqlizer) *Filter {
	expr, args, err := pred.ToSql()
	if err != nil {
		if f.err == nil {
			f.err = err
		}
		return f
	}
	return f.join(sep, expr, args)
}

func (f *Filter) expr() (string, []any) {
	if f == nil {
		return "", nil
	}
	return f.Expr, f.Args
}

// Other carries the raw join, group by and having fragments of a read.
// Join and Having may hold `?` placeholders; they consume the filter's
// arguments before and after the where clause respectively.
// GroupBy is copied verbatim and Having is only rendered alongside it.
type Other struct {
	JoinOn  string
	GroupBy string
	Having  string
}
