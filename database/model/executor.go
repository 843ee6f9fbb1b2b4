package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gaborage/go-sqlmodel/database/dialect"
	"github.com/gaborage/go-sqlmodel/database/internal/builder"
	"github.com/gaborage/go-sqlmodel/database/types"
	"github.com/gaborage/go-sqlmodel/logger"
)

// handle makes each chain link usable exactly once.
type handle struct {
	used atomic.Bool
}

func (h *handle) claim() error {
	if !h.used.CompareAndSwap(false, true) {
		return types.ErrBuilderConsumed
	}
	return nil
}

// execution is the state carried along one chain.
type execution[T any] struct {
	model     *Model[T]
	runner    types.Runner
	assembler *builder.Assembler
	rowConv   dialect.RowConverter
	log       logger.Logger

	order string
	page  *builder.Page

	// err is deferred to the terminal operation
	err error
}

// next copies the chain state for the following link, recording err.
func (ex *execution[T]) next(err error) *execution[T] {
	n := *ex
	if n.err == nil {
		n.err = err
	}
	return &n
}

// Executor is a Model bound to a connection. Every method consumes the
// Executor; using it again fails with ErrBuilderConsumed. Executors are not
// safe for concurrent use.
type Executor[T any] struct {
	handle
	ex *execution[T]
}

// OrderExecutor is an Executor with an ORDER BY clause.
type OrderExecutor[T any] struct {
	handle
	ex *execution[T]
}

// LimitExecutor is an Executor with page bounds.
type LimitExecutor[T any] struct {
	handle
	ex *execution[T]
}

// OrderBy sets the raw ORDER BY expression. It is copied into the statement
// verbatim, so it must never carry end-user input.
func (e *Executor[T]) OrderBy(order string) *OrderExecutor[T] {
	ex := e.ex.next(e.claim())
	ex.order = order
	return &OrderExecutor[T]{ex: ex}
}

// Limit bounds the result to limit rows after skipping offset rows.
func (e *Executor[T]) Limit(limit, offset int64) *LimitExecutor[T] {
	return limitOf(e.ex.next(e.claim()), limit, offset)
}

// Limit bounds the result to limit rows after skipping offset rows.
func (o *OrderExecutor[T]) Limit(limit, offset int64) *LimitExecutor[T] {
	return limitOf(o.ex.next(o.claim()), limit, offset)
}

func limitOf[T any](ex *execution[T], limit, offset int64) *LimitExecutor[T] {
	ex.page = &builder.Page{Limit: limit, Offset: offset}
	return &LimitExecutor[T]{ex: ex}
}

// InsertOne inserts the model's entity. With a non-nil filter the row is
// inserted only when the filter holds, through INSERT ... SELECT ... WHERE.
func (e *Executor[T]) InsertOne(ctx context.Context, filter *Filter) (int64, error) {
	ex, err := e.start(filter)
	if err != nil {
		return 0, err
	}
	m := ex.model
	cols, idx := m.participating()

	var q *builder.Query
	if filter != nil {
		where, args := filter.expr()
		q = &builder.Query{Where: where, Args: args}
	}
	stmt, err := ex.assembler.InsertOne(m.Table, cols, m.values(m.entity, idx), q)
	if err != nil {
		return 0, err
	}
	return ex.exec(ctx, "insert_one", stmt)
}

// Insert inserts rows with one multi-row statement. Nothing is sent when any
// row fails to convert or rows is empty.
func (e *Executor[T]) Insert(ctx context.Context, rows []T) (int64, error) {
	ex, err := e.start(nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	m := ex.model
	cols, idx := m.participating()

	values := make([][]any, len(rows))
	for i := range rows {
		values[i] = m.values(&rows[i], idx)
	}
	stmt, err := ex.assembler.Insert(m.Table, cols, values)
	if err != nil {
		return 0, err
	}
	return ex.exec(ctx, "insert", stmt)
}

// Update writes the model's entity to every row matching filter.
// An empty filter updates every row of the table.
func (e *Executor[T]) Update(ctx context.Context, filter *Filter) (int64, error) {
	ex, err := e.start(filter)
	if err != nil {
		return 0, err
	}
	m := ex.model
	cols, idx := m.participating()

	where, args := filter.expr()
	stmt, err := ex.assembler.Update(m.Table, cols, m.values(m.entity, idx), builder.Query{Where: where, Args: args})
	if err != nil {
		return 0, err
	}
	return ex.exec(ctx, "update", stmt)
}

// Delete removes every row matching filter.
// An empty filter deletes every row of the table.
func (e *Executor[T]) Delete(ctx context.Context, filter *Filter) (int64, error) {
	ex, err := e.start(filter)
	if err != nil {
		return 0, err
	}
	where, args := filter.expr()
	stmt, err := ex.assembler.Delete(ex.model.Table, builder.Query{Where: where, Args: args})
	if err != nil {
		return 0, err
	}
	return ex.exec(ctx, "delete", stmt)
}

// Count returns the number of rows, or of groups when other sets GroupBy.
func (e *Executor[T]) Count(ctx context.Context, filter *Filter, other *Other) (int64, error) {
	ex, err := e.start(filter)
	if err != nil {
		return 0, err
	}
	stmt, err := ex.assembler.Count(ex.model.Table, query(filter, other))
	if err != nil {
		return 0, err
	}
	return ex.count(ctx, stmt)
}

// Query returns every matching row, like OrderBy("").Query.
func (e *Executor[T]) Query(ctx context.Context, filter *Filter, other *Other) ([]T, error) {
	ex, err := e.start(filter)
	if err != nil {
		return nil, err
	}
	return ex.query(ctx, filter, other, false)
}

// QueryOne returns the first matching row, like OrderBy("").QueryOne.
func (e *Executor[T]) QueryOne(ctx context.Context, filter *Filter, other *Other) (T, error) {
	ex, err := e.start(filter)
	if err != nil {
		var zero T
		return zero, err
	}
	return ex.queryOne(ctx, filter, other)
}

// Query returns every matching row in order.
func (o *OrderExecutor[T]) Query(ctx context.Context, filter *Filter, other *Other) ([]T, error) {
	ex, err := start(&o.handle, o.ex, filter)
	if err != nil {
		return nil, err
	}
	return ex.query(ctx, filter, other, false)
}

// QueryOne returns the first row in order. It fails with ErrNotFound when no row matches.
func (o *OrderExecutor[T]) QueryOne(ctx context.Context, filter *Filter, other *Other) (T, error) {
	ex, err := start(&o.handle, o.ex, filter)
	if err != nil {
		var zero T
		return zero, err
	}
	return ex.queryOne(ctx, filter, other)
}

// Query returns one page of matching rows.
func (l *LimitExecutor[T]) Query(ctx context.Context, filter *Filter, other *Other) ([]T, error) {
	ex, err := start(&l.handle, l.ex, filter)
	if err != nil {
		return nil, err
	}
	return ex.query(ctx, filter, other, false)
}

func (e *Executor[T]) start(filter *Filter) (*execution[T], error) {
	return start(&e.handle, e.ex, filter)
}

// start claims h and reports any error deferred along the chain.
func start[T any](h *handle, ex *execution[T], filter *Filter) (*execution[T], error) {
	if err := h.claim(); err != nil {
		return nil, err
	}
	if ex.err != nil {
		return nil, ex.err
	}
	if err := filter.Err(); err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	return ex, nil
}

func query(filter *Filter, other *Other) builder.Query {
	where, args := filter.expr()
	q := builder.Query{Where: where, Args: args}
	if other != nil {
		q.Join = other.JoinOn
		q.GroupBy = other.GroupBy
		q.Having = other.Having
	}
	return q
}

func (ex *execution[T]) exec(ctx context.Context, op string, stmt *builder.Statement) (int64, error) {
	ex.trace(op, stmt)
	res, err := ex.runner.Exec(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, ex.fail(op, stmt, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, ex.fail(op, stmt, err)
	}
	return n, nil
}

func (ex *execution[T]) count(ctx context.Context, stmt *builder.Statement) (int64, error) {
	ex.trace("count", stmt)
	var n sql.NullInt64
	if err := ex.runner.QueryRow(ctx, stmt.SQL, stmt.Args...).Scan(&n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("count: %w", types.ErrNotFound)
		}
		return 0, ex.fail("count", stmt, err)
	}
	if !n.Valid {
		return 0, fmt.Errorf("count: NULL result: %w", types.ErrNotFound)
	}
	return n.Int64, nil
}

func (ex *execution[T]) queryOne(ctx context.Context, filter *Filter, other *Other) (T, error) {
	var zero T
	items, err := ex.query(ctx, filter, other, true)
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, types.ErrNotFound
	}
	return items[0], nil
}

func (ex *execution[T]) query(ctx context.Context, filter *Filter, other *Other, single bool) ([]T, error) {
	m := ex.model
	cols, idx := m.participating()
	op := "query"
	if single {
		op = "query_one"
	}

	stmt, err := ex.assembler.Select(m.Table, cols, query(filter, other), ex.order, ex.page, single)
	if err != nil {
		return nil, err
	}

	ex.trace(op, stmt)
	rows, err := ex.runner.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, ex.fail(op, stmt, err)
	}
	defer rows.Close()

	var items []T
	var decodeErr error
	err = dialect.EachRow(rows, func(row *dialect.Row) error {
		item := *m.entity
		for i, fi := range idx {
			if err := ex.scan(cols[i].Field, row, m.desc.slot(&item, fi)); err != nil {
				decodeErr = err
				return err
			}
		}
		items = append(items, item)
		return nil
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	if err != nil {
		return nil, ex.fail(op, stmt, err)
	}
	return items, nil
}

// scan decodes one column, trying the custom converter first.
func (ex *execution[T]) scan(column string, row *dialect.Row, slot any) error {
	if ex.rowConv != nil {
		err := ex.rowConv(column, row, slot)
		if err == nil || !errors.Is(err, types.ErrUnsupportedType) {
			return err
		}
	}
	return ex.assembler.Dialect().ScanColumn(column, row, slot)
}

func (ex *execution[T]) trace(op string, stmt *builder.Statement) {
	if ex.log == nil {
		return
	}
	ex.log.Debug().
		Str("op", op).
		Str("table", ex.model.Table).
		Str("sql", stmt.SQL).
		Str("args", stmt.DebugArgs()).
		Msg("Executing statement")
}

func (ex *execution[T]) fail(op string, stmt *builder.Statement, err error) error {
	serr := &StatementError{Op: op, SQL: stmt.SQL, Args: stmt.DebugArgs(), Err: err}
	if ex.log != nil {
		ex.log.Error().
			Err(err).
			Str("op", op).
			Str("sql", stmt.SQL).
			Str("args", stmt.DebugArgs()).
			Msg("Statement failed")
	}
	return serr
}
