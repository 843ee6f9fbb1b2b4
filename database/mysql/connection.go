// Package mysql opens MySQL connections through go-sql-driver/mysql.
package mysql

import (
	"database/sql"
	"fmt"
	"net"
	"strconv"

	driver "github.com/go-sql-driver/mysql"

	"github.com/gaborage/go-sqlmodel/config"
	"github.com/gaborage/go-sqlmodel/database/internal/sqldb"
	"github.com/gaborage/go-sqlmodel/database/types"
	"github.com/gaborage/go-sqlmodel/logger"
)

var openMySQLDB = func(cfg *driver.Config) (*sql.DB, error) {
	connector, err := driver.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

// driverConfig parses cfg.ConnectionString when set, else assembles a TCP
// configuration. Time columns are always decoded into time.Time.
func driverConfig(cfg *config.DatabaseConfig) (*driver.Config, error) {
	if cfg.ConnectionString != "" {
		c, err := driver.ParseDSN(cfg.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("failed to parse MySQL DSN: %w", err)
		}
		c.ParseTime = true
		return c, nil
	}

	c := driver.NewConfig()
	c.User = cfg.Username
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.DBName = cfg.Database
	c.ParseTime = true
	c.TLSConfig = cfg.TLS.Mode
	return c, nil
}

// NewConnection opens and pings a MySQL pool.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (types.Interface, error) {
	c, err := driverConfig(cfg)
	if err != nil {
		return nil, err
	}

	db, err := openMySQLDB(c)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	conn, err := sqldb.Open(db, types.MySQL, cfg, log)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
