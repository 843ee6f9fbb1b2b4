package database

import (
	"fmt"
	"slices"

	"github.com/gaborage/go-sqlmodel/config"
	"github.com/gaborage/go-sqlmodel/database/internal/tracking"
	"github.com/gaborage/go-sqlmodel/database/mysql"
	"github.com/gaborage/go-sqlmodel/database/oracle"
	"github.com/gaborage/go-sqlmodel/database/postgresql"
	"github.com/gaborage/go-sqlmodel/database/sqlite"
	"github.com/gaborage/go-sqlmodel/database/sqlserver"
	"github.com/gaborage/go-sqlmodel/database/types"
	"github.com/gaborage/go-sqlmodel/logger"
)

// Connector opens a connection from configuration.
type Connector func(*config.DatabaseConfig, logger.Logger) (Interface, error)

var connectors = map[string]Connector{
	PostgreSQL: postgresql.NewConnection,
	MySQL:      mysql.NewConnection,
	SQLite:     sqlite.NewConnection,
	SQLServer:  sqlserver.NewConnection,
	Oracle:     oracle.NewConnection,
}

// NewConnection opens the connection described by cfg and wraps it with
// statement tracking.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (Interface, error) {
	connect, ok := connectors[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %v)", types.ErrUnsupportedDatabaseType, cfg.Type, SupportedDatabaseTypes())
	}

	conn, err := connect(cfg, log)
	if err != nil {
		return nil, err
	}
	return tracking.NewConnection(conn, log, cfg), nil
}

// ValidateDatabaseType reports whether dbType names a supported vendor.
func ValidateDatabaseType(dbType string) error {
	if _, ok := connectors[dbType]; !ok {
		return fmt.Errorf("%w: %q (supported: %v)", types.ErrUnsupportedDatabaseType, dbType, SupportedDatabaseTypes())
	}
	return nil
}

// SupportedDatabaseTypes lists the vendor identifiers in sorted order.
func SupportedDatabaseTypes() []string {
	vendors := make([]string, 0, len(connectors))
	for v := range connectors {
		vendors = append(vendors, v)
	}
	slices.Sort(vendors)
	return vendors
}
