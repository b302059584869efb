package project_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/pseudomuto/dbkeeper/pkg/project"
	"github.com/stretchr/testify/require"
)

// layout creates the files and directories of a project in a temp dir. Names
// ending in a slash are directories.
func layout(t *testing.T, entries ...string) string {
	t.Helper()

	root := t.TempDir()
	for _, entry := range entries {
		path := filepath.Join(root, entry)
		if strings.HasSuffix(entry, "/") {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}

		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("-- "+entry), 0o644))
	}

	return root
}

func TestLoadConfig(t *testing.T) {
	root := layout(t, "db/create.sql", "db/populate/default/", "db/post-fetch/", "db/post-clear.sql")

	t.Run("success", func(t *testing.T) {
		data := `
# shop project
name = shop

database.dialect=postgresql
database.create=db/create.sql
database.populate=db/populate
database.post-fetch=db/post-fetch
database.post-clear=db/post-clear.sql
`
		cfg, err := LoadConfig(strings.NewReader(data), root)
		require.NoError(t, err)
		require.Equal(t, &Config{
			Name:      "shop",
			Create:    filepath.Join(root, "db/create.sql"),
			Populate:  filepath.Join(root, "db/populate"),
			Dialect:   "postgresql",
			PostFetch: filepath.Join(root, "db/post-fetch"),
			PostClear: filepath.Join(root, "db/post-clear.sql"),
		}, cfg)
	})

	t.Run("only a name", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader("name=shop"), root)
		require.NoError(t, err)
		require.Equal(t, &Config{Name: "shop"}, cfg)
	})

	t.Run("absolute paths", func(t *testing.T) {
		create := filepath.Join(root, "db/create.sql")

		cfg, err := LoadConfig(strings.NewReader("name=shop\ndatabase.create="+create), t.TempDir())
		require.NoError(t, err)
		require.Equal(t, create, cfg.Create)
	})

	tests := []struct {
		name string
		data string
		err  string
	}{
		{name: "no name", data: "database.dialect=mysql", err: "no name found"},
		{name: "missing create script", data: "name=shop\ndatabase.create=db/missing.sql", err: "cannot find the create script at " + filepath.Join(root, "db/missing.sql")},
		{name: "create script is a directory", data: "name=shop\ndatabase.create=db", err: "the create script is a directory at " + filepath.Join(root, "db")},
		{name: "missing populate root", data: "name=shop\ndatabase.populate=seeds", err: "cannot find the populate path at " + filepath.Join(root, "seeds")},
		{name: "populate root is a file", data: "name=shop\ndatabase.populate=db/create.sql", err: "populate path is not a directory at " + filepath.Join(root, "db/create.sql")},
		{name: "missing hook", data: "name=shop\ndatabase.post-clear=db/missing", err: "cannot find the hook file or directory at " + filepath.Join(root, "db/missing")},
		{name: "unknown dialect", data: "name=shop\ndatabase.dialect=oracle", err: "invalid database.dialect"},
		{name: "malformed line", data: "name=shop\nwhat is this", err: "failed to parse project configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(strings.NewReader(tt.data), root)
			require.Nil(t, cfg)
			require.ErrorContains(t, err, tt.err)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	root := layout(t, "db/create.sql")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".db"), []byte("name=shop\ndatabase.create=db/create.sql\n"), 0o644))

	cfg, err := LoadConfigFile(filepath.Join(root, ".db"))
	require.NoError(t, err)
	require.Equal(t, "shop", cfg.Name)
	require.Equal(t, filepath.Join(root, "db/create.sql"), cfg.Create)

	_, err = LoadConfigFile(filepath.Join(root, "missing"))
	require.ErrorContains(t, err, "failed to open file")
}
