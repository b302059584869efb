package command

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/consts"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
	"github.com/pseudomuto/dbkeeper/pkg/process"
	"go.uber.org/multierr"
)

// Populate recreates the target from the create script and loads the seed files
// of one data set.
//
// Entries of the data set run in name order: *.skip entries are ignored, *.sql
// files are executed, and executable files are run from the data set directory
// with their output executed as SQL. A failing entry does not stop the others.
type Populate struct {
	*App
	Target *environment.Environment

	// Set names the data set directory under the populate root.
	Set string
}

func (p *Populate) Run(ctx context.Context) error {
	if p.Config == nil || p.Config.Populate == "" {
		return errors.New("no database.populate found in the " + consts.ProjectFile + " file")
	}

	if info, err := os.Stat(p.Config.Populate); err != nil || !info.IsDir() {
		return errors.Errorf("populate directory not found: %s", p.Config.Populate)
	}

	dir := filepath.Join(p.Config.Populate, p.Set)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return errors.Errorf("populate directory not found: %s in %s", p.Set, p.Config.Populate)
	}

	script, err := p.createScript()
	if err != nil {
		return err
	}

	if err := p.gate(p.Target); err != nil {
		return err
	}

	if err := p.Dialect.Clear(ctx, p.Target); err != nil {
		return errors.Wrap(err, "cannot clear the database before populate")
	}
	p.printf("Database cleared\n")

	if err := p.Dialect.Execute(ctx, p.Target, script); err != nil {
		return errors.Wrap(err, "cannot create the database before populate")
	}
	p.printf("Database created\n")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", dir)
	}

	var errs error
	for _, entry := range entries {
		name := entry.Name()
		lower := strings.ToLower(name)

		switch {
		case strings.HasSuffix(lower, consts.SkipSuffix):
			p.printf("Skipping: %s\n", name)

		case strings.HasSuffix(lower, ".sql") && !entry.IsDir():
			p.printf("Executing SQL: %s\n", name)
			if err := p.Dialect.Execute(ctx, p.Target, filepath.Join(dir, name)); err != nil {
				slog.Error("Cannot execute", "file", name, "err", err)
				errs = multierr.Append(errs, errors.Wrapf(err, "cannot execute %s", name))
			}

		case isExecutable(entry):
			p.printf("Executing script: %s\n", name)
			if err := p.runScript(ctx, dir, name); err != nil {
				slog.Error("Cannot run the script", "file", name, "err", err)
				errs = multierr.Append(errs, err)
			}

		default:
			p.printf("Skipping (unknown): %s\n", name)
		}

		// an interrupt ends the whole run
		if ctx.Err() != nil {
			return multierr.Append(errs, errors.Wrap(process.ErrInterrupted, "populate"))
		}
	}

	return errs
}

// runScript runs the executable seed file name from dir and executes its output.
func (p *Populate) runScript(ctx context.Context, dir, name string) error {
	tmp, cleanup, err := tempFile()
	if err != nil {
		return err
	}
	defer cleanup()

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_TRUNC, consts.ModeFile)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", tmp)
	}
	defer func() {
		if f != nil {
			_ = f.Close()
		}
	}()

	w := bufio.NewWriter(f)
	res, err := p.runner().Run(ctx, process.Request{
		Args: []string{"./" + name},
		Dir:  dir,
		Env: []string{
			"DATABASE_NAME=" + p.Target.Database(),
			"DATABASE_URL=" + p.Dialect.DatabaseURL(p.Target),
		},
		OnLine: func(line string) error {
			_, werr := w.WriteString(line + "\n")
			return werr
		},
	})
	if err != nil {
		return errors.Wrapf(err, "cannot run the script %s", name)
	}

	if err := res.Check("cannot run the script " + name); err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "failed to write %s", tmp)
	}

	cerr := f.Close()
	f = nil
	if cerr != nil {
		return errors.Wrapf(cerr, "failed to close %s", tmp)
	}

	return errors.Wrapf(p.Dialect.Execute(ctx, p.Target, tmp), "cannot load the output of %s", name)
}

func isExecutable(entry os.DirEntry) bool {
	if entry.IsDir() {
		return false
	}

	info, err := entry.Info()
	if err != nil {
		return false
	}

	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
