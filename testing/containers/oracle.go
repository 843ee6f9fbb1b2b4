//go:build integration

package containers

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gaborage/go-sqlmodel/config"
	"github.com/gaborage/go-sqlmodel/database/types"
)

const oraclePort = "1521/tcp"

// OracleOptions configures the Oracle Free test container.
type OracleOptions struct {
	Image    string
	Password string
	// Service is the pluggable database the application user lives in.
	Service        string
	AppUser        string
	StartupTimeout time.Duration
}

// DefaultOracleOptions runs gvenzl/oracle-free:23-slim. Oracle takes a while
// to initialize, hence the longer timeout.
func DefaultOracleOptions() OracleOptions {
	return OracleOptions{
		Image:          "gvenzl/oracle-free:23-slim",
		Password:       "testpass",
		Service:        "FREEPDB1",
		AppUser:        "testuser",
		StartupTimeout: 3 * time.Minute,
	}
}

// Oracle starts an Oracle container for the duration of t and returns the
// configuration to reach it as the application user.
func Oracle(ctx context.Context, t *testing.T, opts OracleOptions) *config.DatabaseConfig {
	t.Helper()
	requireDocker(ctx, t)

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        opts.Image,
			ExposedPorts: []string{oraclePort},
			Env: map[string]string{
				"ORACLE_PASSWORD":   opts.Password,
				"APP_USER":          opts.AppUser,
				"APP_USER_PASSWORD": opts.Password,
			},
			// the log line comes before the listener accepts sessions
			WaitingFor: wait.ForAll(
				wait.ForLog("DATABASE IS READY TO USE!"),
				wait.ForListeningPort(oraclePort),
			).WithStartupTimeout(opts.StartupTimeout),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start Oracle container: %v", err)
	}
	terminateOnCleanup(t, "Oracle", c)

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("failed to read Oracle container host: %v", err)
	}
	port, err := c.MappedPort(ctx, oraclePort)
	if err != nil {
		t.Fatalf("failed to read Oracle container port: %v", err)
	}
	t.Logf("Oracle container started at %s:%d (service %s)", host, port.Int(), opts.Service)

	cfg := &config.DatabaseConfig{
		Type:     types.Oracle,
		Host:     host,
		Port:     port.Int(),
		Username: opts.AppUser,
		Password: opts.Password,
	}
	cfg.Oracle.Service.Name = opts.Service
	return cfg
}
