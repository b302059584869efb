package command_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/dbkeeper/pkg/cmd/testutil"
	"github.com/pseudomuto/dbkeeper/pkg/command"
	"github.com/pseudomuto/dbkeeper/pkg/dialect"
	"github.com/pseudomuto/dbkeeper/pkg/process"
	"github.com/pseudomuto/dbkeeper/pkg/project"
	"github.com/stretchr/testify/require"
)

func TestPopulateStore_Integration(t *testing.T) {
	for _, name := range []string{"mysql", "postgres"} {
		t.Run(name, func(t *testing.T) {
			env := testutil.StartDatabase(t, name)
			ctx := t.Context()

			d, err := dialect.New(name, process.NewWithStderr(os.Stderr))
			require.NoError(t, err)

			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "create.sql"), "CREATE TABLE accounts (id INT PRIMARY KEY, email VARCHAR(64) NOT NULL);\n", 0o644)
			writeFile(t, filepath.Join(dir, "populate", "default", "01-accounts.sql"),
				"INSERT INTO accounts (id, email) VALUES (2, 'b@example.com'), (1, 'a@example.com');\n", 0o644)

			app := &command.App{
				Config: &project.Config{
					Name:     "shop",
					Create:   filepath.Join(dir, "create.sql"),
					Populate: filepath.Join(dir, "populate"),
					Dialect:  name,
				},
				Dialect: d,
				Out:     new(bytes.Buffer),
			}

			count := func() int {
				t.Helper()

				info := &command.Info{App: app, Target: env}
				tables, err := info.Tables(ctx)
				require.NoError(t, err)
				require.Len(t, tables, 1)
				require.NotNil(t, tables[0].Rows)
				return *tables[0].Rows
			}

			require.NoError(t, (&command.Populate{App: app, Target: env, Set: "default"}).Run(ctx))
			require.Equal(t, 2, count())

			require.NoError(t, (&command.Store{App: app, Source: env, Set: "snapshot"}).Run(ctx))
			testutil.RequireFileExists(t, filepath.Join(dir, "populate", "snapshot", "dump-01-accounts.sql"),
				testutil.RequireFileContains(t, "a@example.com"))

			require.NoError(t, (&command.Populate{App: app, Target: env, Set: "snapshot"}).Run(ctx))
			require.Equal(t, 2, count())
		})
	}
}
