package command_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/command"
	"github.com/pseudomuto/dbkeeper/pkg/dialect/dialecttest"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
	"github.com/pseudomuto/dbkeeper/pkg/process/processtest"
	"github.com/stretchr/testify/require"
)

func populateSet(t *testing.T, f *fixture) string {
	t.Helper()

	writeFile(t, f.path("populate", "default", "a.sql"), "INSERT INTO accounts VALUES (1);", 0o644)
	writeFile(t, f.path("populate", "default", "b.sh"), "#!/bin/sh\necho 'INSERT INTO orders VALUES (1);'\n", 0o755)
	writeFile(t, f.path("populate", "default", "c.skip"), "INSERT INTO nothing VALUES (1);", 0o755)
	writeFile(t, f.path("populate", "default", "D.SKIP"), "", 0o644)
	writeFile(t, f.path("populate", "default", "notes.txt"), "", 0o644)

	return f.path("populate", "default")
}

func TestPopulate(t *testing.T) {
	t.Run("runs the data set in order", func(t *testing.T) {
		f := newFixture(t)
		dir := populateSet(t, f)
		runner := processtest.NewRunner(processtest.Response{Lines: []string{"INSERT INTO orders VALUES (1);"}})
		f.app.Runner = runner

		cmd := &command.Populate{App: f.app, Target: local(t), Set: "default"}
		require.NoError(t, cmd.Run(t.Context()))

		calls := f.dialect.Calls()
		require.Equal(t, []string{
			dialecttest.OpClear,
			dialecttest.OpExecute,
			dialecttest.OpExecute,
			dialecttest.OpExecute,
		}, f.ops())
		require.Equal(t, f.path("create.sql"), calls[1].Arg)
		require.Equal(t, f.path("populate", "default", "a.sql"), calls[2].Arg)
		require.Equal(t, "INSERT INTO orders VALUES (1);\n", calls[3].Content)
		require.NoFileExists(t, calls[3].Arg)

		runs := runner.Calls()
		require.Len(t, runs, 1)
		require.Equal(t, []string{"./b.sh"}, runs[0].Args)
		require.Equal(t, dir, runs[0].Dir)
		require.Equal(t, []string{"DATABASE_NAME=shop", "DATABASE_URL=fake://db/shop"}, runs[0].Env)

		out := f.out.String()
		require.Contains(t, out, "Skipping: D.SKIP\n")
		require.Contains(t, out, "Executing SQL: a.sql\n")
		require.Contains(t, out, "Executing script: b.sh\n")
		require.Contains(t, out, "Skipping: c.skip\n")
		require.Contains(t, out, "Skipping (unknown): notes.txt\n")
	})

	t.Run("a failing sql file does not stop the loop", func(t *testing.T) {
		f := newFixture(t)
		populateSet(t, f)
		runner := processtest.NewRunner(processtest.Response{Lines: []string{"SELECT 1;"}})
		f.app.Runner = runner
		f.dialect.Errors["execute "+f.path("populate", "default", "a.sql")] = errors.New("boom")

		cmd := &command.Populate{App: f.app, Target: local(t), Set: "default"}
		err := cmd.Run(t.Context())
		require.EqualError(t, err, "cannot execute a.sql: boom")
		require.Len(t, runner.Calls(), 1)
		require.Len(t, f.dialect.Calls(), 4)
	})

	t.Run("a failing script does not stop the loop", func(t *testing.T) {
		f := newFixture(t)
		populateSet(t, f)
		writeFile(t, f.path("populate", "default", "z.sql"), "SELECT 1;", 0o644)
		f.app.Runner = processtest.NewRunner(processtest.Response{ExitCode: 2})

		cmd := &command.Populate{App: f.app, Target: local(t), Set: "default"}
		err := cmd.Run(t.Context())
		require.EqualError(t, err, "cannot run the script b.sh: exit code was 2")
		require.Equal(t, []string{
			dialecttest.OpClear,
			"execute " + f.path("create.sql"),
			"execute " + f.path("populate", "default", "a.sql"),
			"execute " + f.path("populate", "default", "z.sql"),
		}, f.dialect.Ops())
	})

	t.Run("missing data set", func(t *testing.T) {
		f := newFixture(t)

		cmd := &command.Populate{App: f.app, Target: local(t), Set: "missing"}
		err := cmd.Run(t.Context())
		require.EqualError(t, err, "populate directory not found: missing in "+f.path("populate"))
		require.Empty(t, f.dialect.Calls())
	})

	t.Run("read-only", func(t *testing.T) {
		f := newFixture(t)
		populateSet(t, f)

		cmd := &command.Populate{App: f.app, Target: env(t, "production", "db", environment.ReadOnlyTrue), Set: "default"}
		require.ErrorIs(t, cmd.Run(t.Context()), command.ErrReadOnly)
		require.Empty(t, f.dialect.Calls())
	})

	t.Run("create failure", func(t *testing.T) {
		f := newFixture(t)
		populateSet(t, f)
		f.dialect.Errors["execute "+f.path("create.sql")] = errors.New("boom")

		cmd := &command.Populate{App: f.app, Target: local(t), Set: "default"}
		require.EqualError(t, cmd.Run(t.Context()), "cannot create the database before populate: boom")
		require.Len(t, f.dialect.Calls(), 2)
	})
}
