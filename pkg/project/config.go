package project

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/config"
	"github.com/pseudomuto/dbkeeper/pkg/consts"
	"github.com/pseudomuto/dbkeeper/pkg/dialect"
)

const (
	keyName      = "name"
	keyCreate    = "database.create"
	keyPopulate  = "database.populate"
	keyDialect   = "database.dialect"
	keyPostFetch = "database.post-fetch"
	keyPostClear = "database.post-clear"
)

// Config represents the project configuration read from the .db file.
//
// Paths are absolute, resolved against the directory holding the .db file.
// Every value except Name is optional; commands that need a missing value fail
// when they run.
type Config struct {
	// Name is the project name, used to look up credentials and to name dumps
	Name string

	// Create is the script creating every table of the database
	Create string

	// Populate is the directory holding one sub-directory of seed files per data set
	Populate string

	// Dialect is the dialect name: mysql, postgres or postgresql
	Dialect string

	// PostFetch is the hook file or directory run after fetch
	PostFetch string

	// PostClear is the hook file or directory run after every clear
	PostClear string
}

// LoadConfig parses a project configuration from the provided io.Reader and
// validates it. Relative paths are resolved against dir.
//
// Example:
//
//	data := `
//	name=shop
//	database.dialect=mysql
//	database.create=db/create.sql
//	database.populate=db/populate
//	`
//
//	cfg, err := project.LoadConfig(strings.NewReader(data), "/src/shop")
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Println(cfg.Create) // /src/shop/db/create.sql
func LoadConfig(r io.Reader, dir string) (*Config, error) {
	values, err := config.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse project configuration")
	}

	cfg := &Config{
		Name:      values[keyName],
		Create:    resolve(dir, values[keyCreate]),
		Populate:  resolve(dir, values[keyPopulate]),
		Dialect:   values[keyDialect],
		PostFetch: resolve(dir, values[keyPostFetch]),
		PostClear: resolve(dir, values[keyPostClear]),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfigFile loads the project configuration from the specified .db file.
//
// Example:
//
//	cfg, err := project.LoadConfigFile("/src/shop/.db")
//	if err != nil {
//		log.Fatal("Failed to load config:", err)
//	}
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	cfg, err := LoadConfig(f, filepath.Dir(path))
	return cfg, errors.Wrapf(err, "invalid %s at %s", consts.ProjectFile, path)
}

// Validate checks that the configured paths exist with the expected kind and that
// the dialect is known.
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.Errorf("no %s found", keyName)
	}

	if c.Create != "" {
		info, err := os.Stat(c.Create)
		if err != nil {
			return errors.Errorf("cannot find the create script at %s", c.Create)
		}
		if info.IsDir() {
			return errors.Errorf("the create script is a directory at %s", c.Create)
		}
	}

	if c.Populate != "" {
		info, err := os.Stat(c.Populate)
		if err != nil {
			return errors.Errorf("cannot find the populate path at %s", c.Populate)
		}
		if !info.IsDir() {
			return errors.Errorf("populate path is not a directory at %s", c.Populate)
		}
	}

	for _, hook := range []string{c.PostFetch, c.PostClear} {
		if hook == "" {
			continue
		}

		if _, err := os.Stat(hook); err != nil {
			return errors.Errorf("cannot find the hook file or directory at %s", hook)
		}
	}

	if c.Dialect != "" {
		if _, err := dialect.New(c.Dialect, nil); err != nil {
			return errors.Wrapf(err, "invalid %s", keyDialect)
		}
	}

	return nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(dir, path)
}
