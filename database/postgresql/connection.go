// Package postgresql opens PostgreSQL connections through the pgx stdlib driver.
package postgresql

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/gaborage/go-sqlmodel/config"
	"github.com/gaborage/go-sqlmodel/database/internal/sqldb"
	"github.com/gaborage/go-sqlmodel/database/types"
	"github.com/gaborage/go-sqlmodel/logger"
)

var openPostgresDB = func(cfg *pgx.ConnConfig) *sql.DB {
	return stdlib.OpenDB(*cfg)
}

// quoteDSN quotes a keyword/value DSN value following libpq rules.
func quoteDSN(value string) string {
	if value == "" {
		return "''"
	}

	needsQuoting := false
	for _, r := range value {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') &&
			(r < '0' || r > '9') && r != '.' && r != '_' && r != '-' {
			needsQuoting = true
			break
		}
	}
	if !needsQuoting {
		return value
	}

	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "'", `\'`)
	return "'" + escaped + "'"
}

// buildDSN returns cfg.ConnectionString when set, else a keyword/value DSN.
func buildDSN(cfg *config.DatabaseConfig) string {
	if cfg.ConnectionString != "" {
		return cfg.ConnectionString
	}

	parts := []string{
		"host=" + quoteDSN(cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		"user=" + quoteDSN(cfg.Username),
		"password=" + quoteDSN(cfg.Password),
		"dbname=" + quoteDSN(cfg.Database),
	}
	if cfg.TLS.Mode != "" {
		parts = append(parts, "sslmode="+quoteDSN(cfg.TLS.Mode))
	}
	return strings.Join(parts, " ")
}

// NewConnection opens and pings a PostgreSQL pool.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (types.Interface, error) {
	pgxConfig, err := pgx.ParseConfig(buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL config: %w", err)
	}

	conn, err := sqldb.Open(openPostgresDB(pgxConfig), types.PostgreSQL, cfg, log)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
