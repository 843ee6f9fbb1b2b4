package model

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-sqlmodel/database/dialect"
	"github.com/gaborage/go-sqlmodel/database/types"
	"github.com/gaborage/go-sqlmodel/testing/mocks"
)

func TestExecutorAgainstMockQuerier(t *testing.T) {
	q := mocks.NewMockQuerier(types.Oracle)
	q.ExpectExec("DELETE FROM student WHERE id = :1", sqlmock.NewResult(0, 1), nil, 4)
	q.ExpectQueryRow("SELECT COUNT(*) FROM student WHERE age > :1", mocks.NewMockRow(nil, int64(5)), 18)

	ctx := context.Background()
	n, err := New(students, nil).Bind(q).Delete(ctx, Where("id = ?", 4))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = New(students, nil).Bind(q).Count(ctx, Where("age > ?", 18), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	q.AssertExpectations(t)
}

func TestCountScanFailureIsTransport(t *testing.T) {
	q := mocks.NewMockQuerier(types.MySQL)
	q.ExpectQueryRow("SELECT COUNT(*) FROM student", mocks.NewMockRow(errors.New("broken pipe")))

	_, err := New(students, nil).Bind(q).Count(context.Background(), nil, nil)
	require.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestExecutorAgainstMockTx(t *testing.T) {
	tx := &mocks.MockTx{}
	tx.ExpectExec("UPDATE student SET age = @P1 WHERE id = @P2", sqlmock.NewResult(0, 1), nil, 30, 3)
	tx.ExpectCommit(nil)

	m := New(students, &Student{Age: 30})
	require.NoError(t, m.Fields.Skip("id", "name", "note"))

	n, err := m.BindTx(tx, dialect.SQLServer()).Update(context.Background(), Where("id = ?", 3))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, tx.Commit())

	tx.AssertExpectations(t)
}
