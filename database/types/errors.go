//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

import "errors"

// Sentinel errors raised while building and running statements.
// These can be used with errors.Is() for programmatic error checking.
var (
	// ErrPlaceholderOverflow is returned when a fragment holds more unquoted `?`
	// placeholders than the filter supplies arguments.
	ErrPlaceholderOverflow = errors.New("? exceeds the number of args")

	// ErrArgumentCountMismatch is returned when arguments remain after every
	// fragment of a statement has been rewritten.
	ErrArgumentCountMismatch = errors.New("the number of ? does not match the number of args")

	// ErrMalformedExpression is returned when a fragment ends inside a quoted literal.
	ErrMalformedExpression = errors.New("unbalanced quote in expression")

	// ErrUnsupportedType is returned when no converter handles a value or target slot.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrConverterContract is returned when a custom argument converter reports
	// success without binding exactly one value.
	ErrConverterContract = errors.New("converter must bind exactly one value")

	// ErrNotFound is returned when a single-row query yields no rows.
	ErrNotFound = errors.New("no data found")

	// ErrBuilderConsumed is returned when a statement builder handle is used twice.
	ErrBuilderConsumed = errors.New("statement builder already used")

	// ErrUnknownField is returned when a mapping override names a field the entity does not have.
	ErrUnknownField = errors.New("unknown field")

	// ErrColumnNotFound is returned when a result row lacks a mapped column.
	ErrColumnNotFound = errors.New("column not found in result row")

	// ErrTransport marks failures returned by the underlying connection.
	ErrTransport = errors.New("transport error")

	// ErrUnsupportedDatabaseType is returned for vendor identifiers with no dialect or driver.
	ErrUnsupportedDatabaseType = errors.New("unsupported database type")

	// ErrConnectionNotFound is returned when a named connection is not configured.
	ErrConnectionNotFound = errors.New("database connection not configured")
)
