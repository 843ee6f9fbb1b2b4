//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

import (
	"context"
	"database/sql"
)

// Runner is the statement execution surface shared by connections and transactions.
// It is the transport the statement builders execute against.
type Runner interface {
	// Query executes a SQL query that returns rows, typically a SELECT statement.
	// The caller is responsible for closing the returned rows.
	//
	// The query must already use vendor-specific placeholders:
	//   - PostgreSQL: $1, $2, $3
	//   - MySQL, SQLite: ?
	//   - SQL Server: @P1, @P2
	//   - Oracle: :1, :2, :3
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// QueryRow executes a SQL query that is expected to return at most one row.
	// QueryRow always returns a non-nil value. Errors are deferred until Row's Scan method is called.
	QueryRow(ctx context.Context, query string, args ...any) Row

	// Exec executes a SQL statement that doesn't return rows, typically INSERT, UPDATE, or DELETE.
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Querier is a Runner that knows which vendor it talks to.
//
// DatabaseType is included here (despite being metadata) because the statement
// builders pick their dialect from it. Keeping it on the small interface spares
// test doubles from implementing the full Interface.
type Querier interface {
	Runner

	// DatabaseType returns the vendor identifier for this database connection.
	// Valid values are the Vendor constants.
	DatabaseType() string
}
