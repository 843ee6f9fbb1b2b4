package tracking

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/gaborage/go-sqlmodel/config"
	"github.com/gaborage/go-sqlmodel/database/types"
	"github.com/gaborage/go-sqlmodel/logger"
)

// Connection delegates to a types.Interface and tracks every statement and
// transaction boundary. Health, Stats and Close pass straight through.
type Connection struct {
	conn types.Interface
	tc   *Context
}

var _ types.Interface = (*Connection)(nil)

// NewConnection wraps conn. Metric instrument creation failures are logged
// and leave the connection without metrics.
func NewConnection(conn types.Interface, log logger.Logger, cfg *config.DatabaseConfig) *Connection {
	metrics, err := NewMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Database metrics disabled")
	}
	return &Connection{
		conn: conn,
		tc: &Context{
			Logger:   log,
			Vendor:   conn.DatabaseType(),
			Settings: NewSettings(cfg),
			Metrics:  metrics,
		},
	}
}

// Unwrap returns the wrapped connection.
func (c *Connection) Unwrap() types.Interface { return c.conn }

func (c *Connection) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := c.conn.Query(ctx, query, args...)
	TrackDBOperation(ctx, c.tc, query, args, start, 0, err)
	return rows, err
}

// QueryRow defers tracking until the row is scanned, which is when the
// driver reports errors.
func (c *Connection) QueryRow(ctx context.Context, query string, args ...any) types.Row {
	start := time.Now()
	row := c.conn.QueryRow(ctx, query, args...)
	return wrapRow(row, func(err error) {
		TrackDBOperation(ctx, c.tc, query, args, start, 0, err)
	})
}

func (c *Connection) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := c.conn.Exec(ctx, query, args...)
	TrackDBOperation(ctx, c.tc, query, args, start, extractRowsAffected(result, err), err)
	return result, err
}

func (c *Connection) Begin(ctx context.Context) (types.Tx, error) {
	return c.BeginTx(ctx, nil)
}

func (c *Connection) BeginTx(ctx context.Context, opts *sql.TxOptions) (types.Tx, error) {
	start := time.Now()
	tx, err := c.conn.BeginTx(ctx, opts)
	TrackDBOperation(ctx, c.tc, opBegin, nil, start, 0, err)
	if err != nil {
		return nil, err
	}
	return &Transaction{tx: tx, ctx: ctx, tc: c.tc}, nil
}

func (c *Connection) Health(ctx context.Context) error { return c.conn.Health(ctx) }

func (c *Connection) Stats() (map[string]any, error) { return c.conn.Stats() }

func (c *Connection) Close() error { return c.conn.Close() }

func (c *Connection) DatabaseType() string { return c.conn.DatabaseType() }

// Transaction tracks statements run inside a transaction. Commit and
// Rollback are reported against the context the transaction began with.
type Transaction struct {
	tx  types.Tx
	ctx context.Context
	tc  *Context
}

var _ types.Tx = (*Transaction)(nil)

func (t *Transaction) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.Query(ctx, query, args...)
	TrackDBOperation(ctx, t.tc, query, args, start, 0, err)
	return rows, err
}

func (t *Transaction) QueryRow(ctx context.Context, query string, args ...any) types.Row {
	start := time.Now()
	row := t.tx.QueryRow(ctx, query, args...)
	return wrapRow(row, func(err error) {
		TrackDBOperation(ctx, t.tc, query, args, start, 0, err)
	})
}

func (t *Transaction) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.tx.Exec(ctx, query, args...)
	TrackDBOperation(ctx, t.tc, query, args, start, extractRowsAffected(result, err), err)
	return result, err
}

func (t *Transaction) Commit() error {
	start := time.Now()
	err := t.tx.Commit()
	TrackDBOperation(t.ctx, t.tc, opCommit, nil, start, 0, err)
	return err
}

func (t *Transaction) Rollback() error {
	start := time.Now()
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		// deferred rollback after commit
		return err
	}
	TrackDBOperation(t.ctx, t.tc, opRollback, nil, start, 0, err)
	return err
}

// trackedRow reports once, on the first Scan or on a failing Err.
type trackedRow struct {
	row    types.Row
	finish func(error)
	once   sync.Once
}

func wrapRow(row types.Row, finish func(error)) types.Row {
	if row == nil {
		return nil
	}
	return &trackedRow{row: row, finish: finish}
}

func (r *trackedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	r.once.Do(func() { r.finish(err) })
	return err
}

func (r *trackedRow) Err() error {
	err := r.row.Err()
	if err != nil {
		r.once.Do(func() { r.finish(err) })
	}
	return err
}
