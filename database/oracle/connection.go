// Package oracle opens Oracle connections through the pure Go go-ora driver.
package oracle

import (
	"database/sql"
	"fmt"

	go_ora "github.com/sijms/go-ora/v2"

	"github.com/gaborage/go-sqlmodel/config"
	"github.com/gaborage/go-sqlmodel/database/internal/sqldb"
	"github.com/gaborage/go-sqlmodel/database/types"
	"github.com/gaborage/go-sqlmodel/logger"
)

var openOracleDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("oracle", dsn)
}

// buildDSN prefers the connection string, then the service name, then the
// SID and finally the database name as service.
func buildDSN(cfg *config.DatabaseConfig) string {
	switch {
	case cfg.ConnectionString != "":
		return cfg.ConnectionString
	case cfg.Oracle.Service.Name != "":
		return go_ora.BuildUrl(cfg.Host, cfg.Port, cfg.Oracle.Service.Name, cfg.Username, cfg.Password, nil)
	case cfg.Oracle.Service.SID != "":
		opts := map[string]string{"SID": cfg.Oracle.Service.SID}
		return go_ora.BuildUrl(cfg.Host, cfg.Port, "", cfg.Username, cfg.Password, opts)
	default:
		return go_ora.BuildUrl(cfg.Host, cfg.Port, cfg.Database, cfg.Username, cfg.Password, nil)
	}
}

// NewConnection opens and pings an Oracle pool.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (types.Interface, error) {
	db, err := openOracleDB(buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open Oracle connection: %w", err)
	}

	conn, err := sqldb.Open(db, types.Oracle, cfg, log)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
