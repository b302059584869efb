package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/consts"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
	"go.uber.org/multierr"
)

// Store writes the rows of every table of Source into a data set directory
// under the populate root, one dump-NN-<table>.sql file per table.
//
// Tables come from the CREATE TABLE statements of the create script, and NN is
// the position of the table in that script. A <table>.skip file in the data
// set directory excludes the table. Previous dump files are removed first.
type Store struct {
	*App
	Source *environment.Environment

	// Set names the data set directory under the populate root.
	Set string
}

// DumpFilename returns the name of the file holding the rows of table at the
// 1-based ordinal.
func DumpFilename(ordinal int, table string) string {
	return fmt.Sprintf("%s%02d-%s.sql", consts.DumpPrefix, ordinal, table)
}

func (s *Store) Run(ctx context.Context) error {
	if s.Config == nil || s.Config.Populate == "" {
		return errors.New("no database.populate found in the " + consts.ProjectFile + " file")
	}

	script, err := s.createScript()
	if err != nil {
		return err
	}

	dir := filepath.Join(s.Config.Populate, s.Set)
	if err := os.MkdirAll(dir, consts.ModeDir); err != nil {
		return errors.Wrapf(err, "populate directory not found and cannot create: %s", s.Set)
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return errors.Errorf("not a directory: %s", s.Set)
	}

	tables, err := TablesFromFile(script)
	if err != nil {
		return err
	}

	if len(tables) == 0 {
		s.printf("No tables found in the create script\n")
		return nil
	}

	if err := removeDumps(dir); err != nil {
		return err
	}

	var errs error
	for i, table := range tables {
		s.printf("- %-32s", table)

		if _, err := os.Stat(filepath.Join(dir, table+consts.SkipSuffix)); err == nil {
			s.printf("skipping\n")
			continue
		}

		out := filepath.Join(dir, DumpFilename(i+1, table))
		if err := s.Dialect.DumpTable(ctx, s.Source, table, out); err != nil {
			s.printf("error\n")
			slog.Error("Cannot dump table", "table", table, "err", err)
			errs = multierr.Append(errs, errors.Wrapf(err, "cannot dump %s", table))

			if ctx.Err() != nil {
				return errs
			}
			continue
		}

		s.printf("ok\n")
	}

	return errs
}

func removeDumps(dir string) error {
	matches, err := doublestar.Glob(os.DirFS(dir), consts.DumpPrefix+"*")
	if err != nil {
		return errors.Wrapf(err, "failed to list dumps in %s", dir)
	}

	for _, match := range matches {
		if err := os.Remove(filepath.Join(dir, match)); err != nil {
			return errors.Wrapf(err, "failed to remove %s", match)
		}
	}

	return nil
}
