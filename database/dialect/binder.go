package dialect

import (
	"fmt"
	"strings"

	"github.com/gaborage/go-sqlmodel/database/types"
)

// Binder accumulates the bound arguments of one statement. Converters call Bind
// once per value; the statement builder writes the matching placeholder.
type Binder struct {
	sql  *strings.Builder
	args []any
}

// NewBinder returns a Binder reporting sql as the statement text built so far.
// A nil sql is treated as an empty statement.
func NewBinder(sql *strings.Builder) *Binder {
	if sql == nil {
		sql = &strings.Builder{}
	}
	return &Binder{sql: sql}
}

// Bind appends one driver-native argument.
func (b *Binder) Bind(value any) {
	b.args = append(b.args, value)
}

// Len returns the number of bound arguments, which is also the statement
// position of the most recent one.
func (b *Binder) Len() int { return len(b.args) }

// Args returns the bound arguments in statement order.
func (b *Binder) Args() []any { return b.args }

// Truncate drops every argument after the first n.
func (b *Binder) Truncate(n int) {
	if n < len(b.args) {
		b.args = b.args[:n]
	}
}

// SQL returns the statement text written so far.
func (b *Binder) SQL() string { return b.sql.String() }

// Unsupported reports that value has no conversion, naming the SQL built so far.
func Unsupported(value any, b *Binder) error {
	return fmt.Errorf("%w: argument of type %T after `%s`", types.ErrUnsupportedType, value, b.SQL())
}
