// Package sqlserver opens Microsoft SQL Server connections through
// go-mssqldb. Statements use the driver's native @pN parameters.
package sqlserver

import (
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"

	mssql "github.com/microsoft/go-mssqldb"

	"github.com/gaborage/go-sqlmodel/config"
	"github.com/gaborage/go-sqlmodel/database/internal/sqldb"
	"github.com/gaborage/go-sqlmodel/database/types"
	"github.com/gaborage/go-sqlmodel/logger"
)

var openSQLServerDB = func(dsn string) (*sql.DB, error) {
	connector, err := mssql.NewConnector(dsn)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

// buildDSN returns cfg.ConnectionString when set, else a sqlserver:// URL.
func buildDSN(cfg *config.DatabaseConfig) string {
	if cfg.ConnectionString != "" {
		return cfg.ConnectionString
	}

	u := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
	}
	q := url.Values{}
	if cfg.Database != "" {
		q.Set("database", cfg.Database)
	}
	if cfg.SQLServer.Encrypt != "" {
		q.Set("encrypt", cfg.SQLServer.Encrypt)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// NewConnection opens and pings a SQL Server pool.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (types.Interface, error) {
	db, err := openSQLServerDB(buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQL Server connection: %w", err)
	}

	conn, err := sqldb.Open(db, types.SQLServer, cfg, log)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
