package builder

import (
	"errors"
	"fmt"

	"github.com/gaborage/go-sqlmodel/database/types"
)

// cursor walks the filter arguments shared by every fragment of one statement.
// Fragments consume it in the order join, where, having.
type cursor struct {
	args []any
	next int
}

func newCursor(args []any) *cursor {
	return &cursor{args: args}
}

// finish reports arguments that no placeholder consumed.
func (c *cursor) finish() error {
	if c.next != len(c.args) {
		return fmt.Errorf("%w: %d placeholders for %d args", types.ErrArgumentCountMismatch, c.next, len(c.args))
	}
	return nil
}

// rewrite copies fragment into the statement, replacing each `?` outside a
// single-quoted literal with the dialect placeholder of the next argument.
// Escaped quotes ('') toggle the literal state twice and so are transparent.
func (w *writer) rewrite(clause, fragment string, cur *cursor) error {
	quoted := false
	start := 0
	for i := 0; i < len(fragment); i++ {
		switch fragment[i] {
		case '\'':
			quoted = !quoted
		case '?':
			if quoted {
				continue
			}
			w.sql.WriteString(fragment[start:i])
			start = i + 1
			if cur.next >= len(cur.args) {
				return fmt.Errorf("%w: %s `%s`", types.ErrPlaceholderOverflow, clause, fragment)
			}
			if err := w.param(cur.args[cur.next]); err != nil {
				return err
			}
			cur.next++
		}
	}
	w.sql.WriteString(fragment[start:])

	if quoted {
		return fmt.Errorf("%w: %s `%s`", types.ErrMalformedExpression, clause, fragment)
	}
	return nil
}

func isUnsupported(err error) bool {
	return errors.Is(err, types.ErrUnsupportedType)
}
