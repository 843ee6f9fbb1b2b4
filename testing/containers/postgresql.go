//go:build integration

package containers

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gaborage/go-sqlmodel/config"
	"github.com/gaborage/go-sqlmodel/database/types"
	"github.com/gaborage/go-sqlmodel/logger"
)

// PostgreSQLOptions configures the PostgreSQL test container.
type PostgreSQLOptions struct {
	Image          string
	Username       string
	Password       string
	Database       string
	StartupTimeout time.Duration
}

// DefaultPostgreSQLOptions runs postgres:17-alpine with a throwaway database.
func DefaultPostgreSQLOptions() PostgreSQLOptions {
	return PostgreSQLOptions{
		Image:          "postgres:17-alpine",
		Username:       "testuser",
		Password:       "testpass",
		Database:       "testdb",
		StartupTimeout: 60 * time.Second,
	}
}

// PostgreSQL starts a PostgreSQL container for the duration of t and returns
// the configuration to reach it. The test is skipped without Docker.
func PostgreSQL(ctx context.Context, t *testing.T, opts PostgreSQLOptions) *config.DatabaseConfig {
	t.Helper()
	requireDocker(ctx, t)

	c, err := postgres.Run(ctx, opts.Image,
		postgres.WithDatabase(opts.Database),
		postgres.WithUsername(opts.Username),
		postgres.WithPassword(opts.Password),
		testcontainers.WithWaitStrategy(
			// the server restarts once after init scripts
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(opts.StartupTimeout),
		),
	)
	if err != nil {
		t.Fatalf("failed to start PostgreSQL container: %v", err)
	}
	terminateOnCleanup(t, "PostgreSQL", c)

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to read PostgreSQL connection string: %v", err)
	}
	t.Logf("PostgreSQL container started at %s", logger.MaskDSN(dsn))

	return &config.DatabaseConfig{
		Type:             types.PostgreSQL,
		ConnectionString: dsn,
	}
}
