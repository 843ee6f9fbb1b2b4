// Package mocks provides testify-based doubles of the connection interfaces the
// statement builders run against.
package mocks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/gaborage/go-sqlmodel/database/types"
)

// MockQuerier is a types.Querier whose statements are expectations:
//
//	q := mocks.NewMockQuerier(types.PostgreSQL)
//	q.ExpectExec("DELETE FROM student WHERE id = $1", sqlmock.NewResult(0, 1), nil, 4)
//
//	n, err := model.New(desc, nil).Bind(q).Delete(ctx, model.Where("id = ?", 4))
type MockQuerier struct {
	mock.Mock
	vendor string
}

var _ types.Querier = (*MockQuerier)(nil)

// NewMockQuerier returns a MockQuerier reporting vendor as its DatabaseType.
func NewMockQuerier(vendor string) *MockQuerier {
	return &MockQuerier{vendor: vendor}
}

// Query implements types.Runner
func (m *MockQuerier) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return queryCall(ctx, &m.Mock, query, args)
}

// QueryRow implements types.Runner
func (m *MockQuerier) QueryRow(ctx context.Context, query string, args ...any) types.Row {
	return queryRowCall(ctx, &m.Mock, query, args)
}

// Exec implements types.Runner
func (m *MockQuerier) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return execCall(ctx, &m.Mock, query, args)
}

// DatabaseType implements types.Querier
func (m *MockQuerier) DatabaseType() string { return m.vendor }

// ExpectExec expects query with exactly args and answers with result and err.
func (m *MockQuerier) ExpectExec(query string, result sql.Result, err error, args ...any) *mock.Call {
	return m.On("Exec", statementArgs(query, args)...).Return(result, err)
}

// ExpectQueryRow expects query with exactly args and answers with row.
func (m *MockQuerier) ExpectQueryRow(query string, row types.Row, args ...any) *mock.Call {
	return m.On("QueryRow", statementArgs(query, args)...).Return(row)
}

// MockRow is a types.Row whose Scan copies preset values into the destinations.
type MockRow struct {
	values []any
	err    error
}

// NewMockRow returns a row holding values, or failing every Scan with err.
func NewMockRow(err error, values ...any) *MockRow {
	return &MockRow{values: values, err: err}
}

// Scan implements types.Row. Destinations must be *any or point to the exact
// type of the matching value; sql.Scanner destinations are handed the value.
func (r *MockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		if i >= len(r.values) {
			break
		}
		switch p := d.(type) {
		case sql.Scanner:
			if err := p.Scan(r.values[i]); err != nil {
				return err
			}
		case *any:
			*p = r.values[i]
		case *int64:
			*p = r.values[i].(int64)
		case *string:
			*p = r.values[i].(string)
		}
	}
	return nil
}

// Err implements types.Row
func (r *MockRow) Err() error { return r.err }

func statementArgs(query string, args []any) []any {
	return append([]any{mock.Anything, query}, args...)
}

func queryCall(ctx context.Context, m *mock.Mock, query string, args []any) (*sql.Rows, error) {
	arguments := m.MethodCalled("Query", append([]any{ctx, query}, args...)...)
	rows, _ := arguments.Get(0).(*sql.Rows)
	return rows, arguments.Error(1)
}

func queryRowCall(ctx context.Context, m *mock.Mock, query string, args []any) types.Row {
	arguments := m.MethodCalled("QueryRow", append([]any{ctx, query}, args...)...)
	return arguments.Get(0).(types.Row)
}

func execCall(ctx context.Context, m *mock.Mock, query string, args []any) (sql.Result, error) {
	arguments := m.MethodCalled("Exec", append([]any{ctx, query}, args...)...)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).(sql.Result), arguments.Error(1)
}
