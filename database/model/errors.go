package model

import (
	"fmt"

	"github.com/gaborage/go-sqlmodel/database/types"
)

// Error taxonomy, re-exported so callers need not import the types package.
var (
	ErrPlaceholderOverflow   = types.ErrPlaceholderOverflow
	ErrArgumentCountMismatch = types.ErrArgumentCountMismatch
	ErrMalformedExpression   = types.ErrMalformedExpression
	ErrUnsupportedType       = types.ErrUnsupportedType
	ErrConverterContract     = types.ErrConverterContract
	ErrNotFound              = types.ErrNotFound
	ErrBuilderConsumed       = types.ErrBuilderConsumed
	ErrUnknownField          = types.ErrUnknownField
	ErrColumnNotFound        = types.ErrColumnNotFound
	ErrTransport             = types.ErrTransport
)

// StatementError annotates a failure of the underlying connection with the
// statement that caused it. It matches ErrTransport with errors.Is.
type StatementError struct {
	Op   string
	SQL  string
	Args string
	Err  error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("sql:`%s` args:%s %v", e.SQL, e.Args, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

// Is reports ErrTransport so every statement failure can be matched without
// knowing the driver's error types.
func (e *StatementError) Is(target error) bool { return target == types.ErrTransport }
