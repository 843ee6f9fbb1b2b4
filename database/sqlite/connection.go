// Package sqlite opens SQLite databases through the pure Go modernc.org/sqlite
// driver.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/gaborage/go-sqlmodel/config"
	"github.com/gaborage/go-sqlmodel/database/internal/sqldb"
	"github.com/gaborage/go-sqlmodel/database/types"
	"github.com/gaborage/go-sqlmodel/logger"
)

const (
	driverName = "sqlite"
	memory     = ":memory:"
)

var openSQLiteDB = func(dsn string) (*sql.DB, error) {
	return sql.Open(driverName, dsn)
}

// buildDSN turns cfg.Database into a file URI with foreign keys enabled.
// cfg.ConnectionString is used verbatim.
func buildDSN(cfg *config.DatabaseConfig) string {
	if cfg.ConnectionString != "" {
		return cfg.ConnectionString
	}
	if cfg.Database == memory {
		return "file::memory:?_pragma=foreign_keys(1)"
	}
	path := strings.TrimPrefix(cfg.Database, "file:")
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func inMemory(dsn string) bool {
	return strings.Contains(dsn, memory) || strings.Contains(dsn, "mode=memory")
}

// NewConnection opens and pings a SQLite database. In-memory databases are
// pinned to a single connection so every statement sees the same data.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (types.Interface, error) {
	dsn := buildDSN(cfg)
	db, err := openSQLiteDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if inMemory(dsn) {
		pinned := *cfg
		pinned.Pool = config.PoolConfig{
			Max:  config.PoolMaxConfig{Connections: 1},
			Idle: config.PoolIdleConfig{Connections: 1},
		}
		cfg = &pinned
	}

	conn, err := sqldb.Open(db, types.SQLite, cfg, log)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
