package command_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/command"
	"github.com/stretchr/testify/require"
)

func TestDumpFilename(t *testing.T) {
	require.Equal(t, "dump-02-orders.sql", command.DumpFilename(2, "orders"))
	require.Equal(t, "dump-12-items.sql", command.DumpFilename(12, "items"))
}

func TestStore(t *testing.T) {
	t.Run("dumps every table not skipped", func(t *testing.T) {
		f := newFixture(t)
		writeFile(t, f.path("populate", "default", "accounts.skip"), "", 0o644)
		writeFile(t, f.path("populate", "default", "dump-01-stale.sql"), "old", 0o644)
		writeFile(t, f.path("populate", "default", "seed.sql"), "keep", 0o644)

		cmd := &command.Store{App: f.app, Source: local(t), Set: "default"}
		require.NoError(t, cmd.Run(t.Context()))

		require.Equal(t, []string{"dump-table orders"}, f.dialect.Ops())
		require.NoFileExists(t, f.path("populate", "default", "dump-01-stale.sql"))
		require.FileExists(t, f.path("populate", "default", "seed.sql"))

		data, err := os.ReadFile(f.path("populate", "default", "dump-02-orders.sql"))
		require.NoError(t, err)
		require.Equal(t, "rows of orders\n", string(data))

		require.Equal(t, fmt.Sprintf("- %-32sskipping\n- %-32sok\n", "accounts", "orders"), f.out.String())
	})

	t.Run("creates the data set directory", func(t *testing.T) {
		f := newFixture(t)

		cmd := &command.Store{App: f.app, Source: local(t), Set: "fresh"}
		require.NoError(t, cmd.Run(t.Context()))
		require.FileExists(t, f.path("populate", "fresh", "dump-01-accounts.sql"))
		require.FileExists(t, f.path("populate", "fresh", "dump-02-orders.sql"))
	})

	t.Run("no tables", func(t *testing.T) {
		f := newFixture(t)
		writeFile(t, f.app.Config.Create, "-- nothing here\n", 0o644)
		writeFile(t, f.path("populate", "default", "dump-01-stale.sql"), "old", 0o644)

		cmd := &command.Store{App: f.app, Source: local(t), Set: "default"}
		require.NoError(t, cmd.Run(t.Context()))
		require.Equal(t, "No tables found in the create script\n", f.out.String())
		require.FileExists(t, f.path("populate", "default", "dump-01-stale.sql"))
		require.Empty(t, f.dialect.Calls())
	})

	t.Run("a failing table does not stop the others", func(t *testing.T) {
		f := newFixture(t)
		f.dialect.Errors["dump-table accounts"] = errors.New("boom")

		cmd := &command.Store{App: f.app, Source: local(t), Set: "default"}
		err := cmd.Run(t.Context())
		require.EqualError(t, err, "cannot dump accounts: boom")
		require.Equal(t, []string{"dump-table accounts", "dump-table orders"}, f.dialect.Ops())
		require.FileExists(t, f.path("populate", "default", "dump-02-orders.sql"))
		require.Equal(t, fmt.Sprintf("- %-32serror\n- %-32sok\n", "accounts", "orders"), f.out.String())
	})

	t.Run("missing populate root", func(t *testing.T) {
		f := newFixture(t)
		f.app.Config.Populate = ""

		cmd := &command.Store{App: f.app, Source: local(t), Set: "default"}
		require.EqualError(t, cmd.Run(t.Context()), "no database.populate found in the .db file")
	})
}
