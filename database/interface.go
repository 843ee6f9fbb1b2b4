// Package database opens tracked connections for every supported vendor and
// manages named connections declared in configuration.
package database

import "github.com/gaborage/go-sqlmodel/database/types"

type (
	// Interface is a full connection: statements, transactions, health and stats.
	Interface = types.Interface
	// Querier is the surface model.Bind needs.
	Querier = types.Querier
	// Runner executes statements.
	Runner = types.Runner
	// Tx is an open transaction.
	Tx = types.Tx
	// Row is a single-row result.
	Row = types.Row
)

const (
	PostgreSQL = types.PostgreSQL
	MySQL      = types.MySQL
	SQLite     = types.SQLite
	SQLServer  = types.SQLServer
	Oracle     = types.Oracle
)
