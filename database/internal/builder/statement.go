// Package builder assembles parameterized SQL statements for the model package.
// It rewrites `?` placeholders in caller fragments into dialect syntax and
// binds arguments through the dialect's converters in statement order.
package builder

import (
	"fmt"
	"strings"

	"github.com/gaborage/go-sqlmodel/database/dialect"
	"github.com/gaborage/go-sqlmodel/database/types"
)

// Statement is a rendered SQL text with its bound arguments.
type Statement struct {
	SQL  string
	Args []any

	debug []string
}

// DebugArgs renders the converted arguments for logs and error messages.
func (s *Statement) DebugArgs() string {
	return "[" + strings.Join(s.debug, ", ") + "]"
}

// writer accumulates one statement. Arguments are bound through the custom
// converter first, then the dialect's built-in set.
type writer struct {
	dialect dialect.Dialect
	convert dialect.ArgConverter
	sql     strings.Builder
	binder  *dialect.Binder
	debug   []string
}

func (a *Assembler) newWriter() *writer {
	w := &writer{dialect: a.dialect, convert: a.convert}
	w.binder = dialect.NewBinder(&w.sql)
	return w
}

func (w *writer) write(parts ...string) {
	for _, p := range parts {
		w.sql.WriteString(p)
	}
}

// bind converts value into exactly one bound argument and returns its position.
func (w *writer) bind(value any) (int, error) {
	before := w.binder.Len()
	text, err := w.convertArg(value)
	if err != nil {
		w.binder.Truncate(before)
		return 0, err
	}
	if bound := w.binder.Len() - before; bound != 1 {
		w.binder.Truncate(before)
		return 0, fmt.Errorf("%w: %T bound %d values", types.ErrConverterContract, value, bound)
	}
	w.debug = append(w.debug, text)
	return w.binder.Len(), nil
}

func (w *writer) convertArg(value any) (string, error) {
	if w.convert != nil {
		before := w.binder.Len()
		text, err := w.convert(value, w.binder)
		if err == nil {
			return text, nil
		}
		if !isUnsupported(err) {
			return "", err
		}
		w.binder.Truncate(before)
	}
	return w.dialect.ConvertArg(value, w.binder)
}

// param binds value and writes its placeholder.
func (w *writer) param(value any) error {
	pos, err := w.bind(value)
	if err != nil {
		return err
	}
	w.sql.WriteString(w.dialect.Placeholder(pos))
	return nil
}

func (w *writer) statement() *Statement {
	return &Statement{SQL: w.sql.String(), Args: w.binder.Args(), debug: w.debug}
}
