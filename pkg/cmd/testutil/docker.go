package testutil

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/pseudomuto/dbkeeper/pkg/docker"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
	"github.com/stretchr/testify/require"
)

// Clients lists the client programs each dialect runs.
var Clients = map[string][]string{
	"mysql":    {"mysql", "mysqldump"},
	"postgres": {"psql", "pg_dump"},
}

// SkipIfNoDocker skips the test if Docker is not available
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("Docker not available")
	}

	// Check if Docker daemon is running
	cmd := exec.CommandContext(t.Context(), "docker", "ps")
	if err := cmd.Run(); err != nil {
		t.Skip("Docker daemon not running")
	}
}

// SkipIfNoClients skips the test unless every client program of the dialect
// is on the PATH.
func SkipIfNoClients(t *testing.T, dialectName string) {
	t.Helper()

	for _, name := range Clients[dialectName] {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available", name)
		}
	}
}

// StartDatabase starts a throwaway server for the dialect and returns a writable
// environment pointing at it. The container is removed when the test ends.
// Tests are skipped in short mode, without Docker, or without the client programs.
// DBKEEPER_MYSQL_VERSION and DBKEEPER_POSTGRES_VERSION select the server image
// tag, which must not be newer than the local clients.
func StartDatabase(t *testing.T, dialectName string) *environment.Environment {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	SkipIfNoClients(t, dialectName)
	SkipIfNoDocker(t)

	opts := docker.DockerOptions{
		Dialect:  dialectName,
		Version:  os.Getenv("DBKEEPER_" + strings.ToUpper(dialectName) + "_VERSION"),
		Database: "shop",
	}

	// mysqldump needs the PROCESS privilege to dump tablespaces
	if dialectName == "mysql" {
		opts.Username = "root"
	}

	container := docker.NewWithOptions(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	require.NoError(t, container.Start(ctx), "Failed to start %s container", dialectName)
	t.Cleanup(func() {
		_ = container.Stop(context.Background())
	})

	env, err := container.Environment(ctx, "docker")
	require.NoError(t, err, "Failed to get container environment")

	return env
}
