package command_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/command"
	"github.com/pseudomuto/dbkeeper/pkg/dialect/dialecttest"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	staging := func(t *testing.T) *environment.Environment {
		return env(t, "staging", "db-staging", environment.ReadOnlyTrue)
	}

	t.Run("dumps, clears, loads and runs hooks", func(t *testing.T) {
		f := newFixture(t)
		f.dialect.Dump = "INSERT INTO accounts VALUES (1);\n"
		f.app.Config.PostClear = f.path("post-clear.sql")
		f.app.Config.PostFetch = f.path("post-fetch.sql")
		writeFile(t, f.app.Config.PostClear, "SET foreign_key_checks=0;", 0o644)
		writeFile(t, f.app.Config.PostFetch, "UPDATE accounts SET email='';", 0o644)

		cmd := &command.Fetch{App: f.app, Source: staging(t), Destination: local(t)}
		require.NoError(t, cmd.Run(t.Context()))

		calls := f.dialect.Calls()
		require.Equal(t, []string{
			dialecttest.OpDumpDatabase,
			dialecttest.OpClear,
			dialecttest.OpExecute,
			dialecttest.OpExecute,
			dialecttest.OpExecute,
		}, f.ops())

		require.Equal(t, "staging", calls[0].Env)
		dump := calls[0].Arg

		require.Equal(t, "local", calls[1].Env)
		require.Equal(t, f.app.Config.PostClear, calls[2].Arg)
		require.Equal(t, dump, calls[3].Arg)
		require.Equal(t, "INSERT INTO accounts VALUES (1);\n", calls[3].Content)
		require.Equal(t, f.app.Config.PostFetch, calls[4].Arg)

		require.NoFileExists(t, dump)
		require.Contains(t, f.out.String(), "Database fetch done\n")
	})

	t.Run("same environment", func(t *testing.T) {
		f := newFixture(t)

		dest := env(t, "other", "DB", environment.ReadOnlyTrue)
		cmd := &command.Fetch{App: f.app, Source: local(t), Destination: dest}
		err := cmd.Run(t.Context())
		require.ErrorIs(t, err, command.ErrSameEnvironment)
		require.NotErrorIs(t, err, command.ErrReadOnly)
		require.Empty(t, f.dialect.Calls())
	})

	t.Run("read-only destination", func(t *testing.T) {
		f := newFixture(t)

		cmd := &command.Fetch{App: f.app, Source: local(t), Destination: staging(t)}
		require.ErrorIs(t, cmd.Run(t.Context()), command.ErrReadOnly)
		require.Empty(t, f.dialect.Calls())
	})

	t.Run("dump failure leaves the destination untouched", func(t *testing.T) {
		f := newFixture(t)
		f.dialect.Errors["dump"] = errors.New("boom")

		cmd := &command.Fetch{App: f.app, Source: staging(t), Destination: local(t)}
		err := cmd.Run(t.Context())
		require.EqualError(t, err, "cannot dump staging: boom")
		require.NotErrorIs(t, err, command.ErrCleared)
		require.Equal(t, []string{dialecttest.OpDumpDatabase}, f.ops())
		require.NoFileExists(t, f.dialect.Calls()[0].Arg)
	})

	t.Run("clear failure", func(t *testing.T) {
		f := newFixture(t)
		f.dialect.Errors["clear"] = errors.New("boom")

		cmd := &command.Fetch{App: f.app, Source: staging(t), Destination: local(t)}
		err := cmd.Run(t.Context())
		require.Error(t, err)
		require.NotErrorIs(t, err, command.ErrCleared)
	})

	t.Run("load failure leaves the destination cleared", func(t *testing.T) {
		f := newFixture(t)
		f.dialect.Errors["execute"] = errors.New("boom")

		cmd := &command.Fetch{App: f.app, Source: staging(t), Destination: local(t)}
		err := cmd.Run(t.Context())
		require.ErrorIs(t, err, command.ErrCleared)
		require.Contains(t, err.Error(), "database load failed: boom")
		require.Equal(t, []string{
			dialecttest.OpDumpDatabase,
			dialecttest.OpClear,
			dialecttest.OpExecute,
		}, f.ops())
		require.NoFileExists(t, f.dialect.Calls()[0].Arg)
	})
}
