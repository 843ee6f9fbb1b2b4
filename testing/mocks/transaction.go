package mocks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/gaborage/go-sqlmodel/database/types"
)

// MockTx is a types.Tx for code that binds statement builders to a transaction:
//
//	tx := &mocks.MockTx{}
//	tx.ExpectExec("UPDATE student SET age = $1 WHERE id = $2", sqlmock.NewResult(0, 1), nil, 30, 3)
//	tx.ExpectCommit(nil)
type MockTx struct {
	mock.Mock
}

var _ types.Tx = (*MockTx)(nil)

// Query implements types.Runner
func (m *MockTx) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return queryCall(ctx, &m.Mock, query, args)
}

// QueryRow implements types.Runner
func (m *MockTx) QueryRow(ctx context.Context, query string, args ...any) types.Row {
	return queryRowCall(ctx, &m.Mock, query, args)
}

// Exec implements types.Runner
func (m *MockTx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return execCall(ctx, &m.Mock, query, args)
}

// Commit implements types.Tx
func (m *MockTx) Commit() error {
	return m.Called().Error(0)
}

// Rollback implements types.Tx
func (m *MockTx) Rollback() error {
	return m.Called().Error(0)
}

// ExpectExec expects query with exactly args and answers with result and err.
func (m *MockTx) ExpectExec(query string, result sql.Result, err error, args ...any) *mock.Call {
	return m.On("Exec", statementArgs(query, args)...).Return(result, err)
}

// ExpectCommit sets up a commit expectation with the provided error
func (m *MockTx) ExpectCommit(err error) *mock.Call {
	return m.On("Commit").Return(err)
}

// ExpectRollback sets up a rollback expectation with the provided error
func (m *MockTx) ExpectRollback(err error) *mock.Call {
	return m.On("Rollback").Return(err)
}

// ExpectFailedTransaction expects a commit failing with commitErr followed by a rollback.
func (m *MockTx) ExpectFailedTransaction(commitErr error) {
	m.On("Commit").Return(commitErr)
	m.On("Rollback").Return(nil)
}
