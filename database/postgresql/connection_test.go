package postgresql

import (
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-sqlmodel/config"
	"github.com/gaborage/go-sqlmodel/database/types"
	"github.com/gaborage/go-sqlmodel/logger"
)

func TestQuoteDSN(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{name: "empty", value: "", expected: "''"},
		{name: "plain", value: "school_db-1.x", expected: "school_db-1.x"},
		{name: "space", value: "my db", expected: "'my db'"},
		{name: "quote", value: "it's", expected: `'it\'s'`},
		{name: "backslash", value: `a\b`, expected: `'a\\b'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, quoteDSN(tt.value))
		})
	}
}

func TestBuildDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "school",
		Username: "app",
		Password: "p@ss word",
		TLS:      config.TLSConfig{Mode: "disable"},
	}
	assert.Equal(t,
		"host=localhost port=5432 user=app password='p@ss word' dbname=school sslmode=disable",
		buildDSN(cfg))

	cfg.ConnectionString = "postgres://app:secret@db:5432/school"
	assert.Equal(t, cfg.ConnectionString, buildDSN(cfg))
}

func stubOpen(t *testing.T, db *sql.DB) {
	t.Helper()
	original := openPostgresDB
	openPostgresDB = func(*pgx.ConnConfig) *sql.DB { return db }
	t.Cleanup(func() { openPostgresDB = original })
}

func TestNewConnection(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	stubOpen(t, db)

	mock.ExpectPing()

	cfg := &config.DatabaseConfig{Host: "localhost", Port: 5432, Database: "school", Username: "app"}
	conn, err := NewConnection(cfg, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, types.PostgreSQL, conn.DatabaseType())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewConnectionPingFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	stubOpen(t, db)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	cfg := &config.DatabaseConfig{Host: "localhost", Port: 5432}
	conn, err := NewConnection(cfg, logger.NewNop())
	require.Error(t, err)
	assert.Nil(t, conn)
	assert.Contains(t, err.Error(), "failed to ping postgresql database")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewConnectionInvalidDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{ConnectionString: "postgres://app@localhost:notaport/school"}
	_, err := NewConnection(cfg, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse PostgreSQL config")
}
