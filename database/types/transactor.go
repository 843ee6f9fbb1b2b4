//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

import (
	"context"
	"database/sql"
)

// Transactor defines transaction management operations.
//
// Statement builders bound to a Tx run inside it:
//
//	tx, err := db.Begin(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback() // no-op after Commit
//
//	if _, err := model.New(desc, &student).BindTx(tx, dialect.Postgres()).InsertOne(ctx, nil); err != nil {
//	    return err
//	}
//	return tx.Commit()
type Transactor interface {
	// Begin starts a new transaction with default isolation level.
	Begin(ctx context.Context) (Tx, error)

	// BeginTx starts a new transaction with explicit isolation level and read-only settings.
	// Not all databases support all isolation levels.
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}
