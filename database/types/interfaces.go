// Package types contains the core database interface definitions for go-sqlmodel.
// These interfaces are separate from the main database package to avoid import cycles
// and to make them easily accessible for mocking and testing.
//
//nolint:revive // Package name "types" is intentionally generic to avoid circular
package types

import (
	"context"
	"database/sql"
	"errors"
)

// Database vendor identifiers shared across the database packages.
type Vendor = string

const (
	PostgreSQL Vendor = "postgresql"
	MySQL      Vendor = "mysql"
	SQLite     Vendor = "sqlite"
	SQLServer  Vendor = "sqlserver"
	Oracle     Vendor = "oracle"
)

// Row represents a single result set row with basic scanning behaviour.
type Row interface {
	Scan(dest ...any) error
	Err() error
}

type sqlRowAdapter struct {
	row *sql.Row
}

// NewRowFromSQL wraps the provided *sql.Row in a Row.
// If row is nil, NewRowFromSQL returns nil.
func NewRowFromSQL(row *sql.Row) Row {
	if row == nil {
		return nil
	}
	return &sqlRowAdapter{row: row}
}

func (r *sqlRowAdapter) Scan(dest ...any) error {
	if r == nil || r.row == nil {
		return errors.New("sqlRowAdapter: underlying sql.Row is nil")
	}
	return r.row.Scan(dest...)
}

func (r *sqlRowAdapter) Err() error {
	if r == nil || r.row == nil {
		return errors.New("sqlRowAdapter: underlying sql.Row is nil")
	}
	return r.row.Err()
}

// Tx defines the interface for database transactions
type Tx interface {
	Runner

	// Transaction control
	Commit() error
	Rollback() error
}

// Interface defines the common database operations supported by the module.
// Connections returned by the database package implement it, and the model
// package binds statement builders to it.
type Interface interface {
	Querier
	Transactor

	// Health and diagnostics
	Health(ctx context.Context) error
	Stats() (map[string]any, error)

	// Connection management
	Close() error
}
