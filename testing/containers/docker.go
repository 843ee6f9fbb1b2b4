//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

// requireDocker skips t when the Docker daemon cannot be reached.
func requireDocker(ctx context.Context, t *testing.T) {
	t.Helper()

	provider, err := testcontainers.NewDockerProvider()
	if err == nil {
		defer provider.Close()
		_, err = provider.DaemonHost(ctx)
	}
	if err != nil {
		t.Skipf("Docker is not available, skipping integration test: %v", err)
	}
}

// terminateOnCleanup removes c when t finishes.
func terminateOnCleanup(t *testing.T, name string, c testcontainers.Container) {
	t.Helper()
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate %s container: %v", name, err)
		}
	})
}
