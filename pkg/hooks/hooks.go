// Package hooks runs the post-fetch and post-clear hooks of a project.
//
// A hook is either a single SQL file or a directory of SQL files. Directory
// entries run in ascending name order and the first failure stops the hook.
// Hooks that already ran are not undone.
package hooks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/dialect"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
	"github.com/pseudomuto/dbkeeper/pkg/prompt"
)

const (
	// PostFetch runs after a fetched dump has been loaded
	PostFetch = "post-fetch"

	// PostClear runs right after a database has been cleared
	PostClear = "post-clear"
)

type (
	// Mode controls how hook files are applied.
	Mode int

	// Params configures an Executor.
	Params struct {
		Dialect  dialect.Dialect
		Prompter prompt.Prompter
		Mode     Mode

		// Output receives one progress line per hook file. Defaults to os.Stderr.
		Output io.Writer
	}

	// Executor applies hooks through a dialect.
	Executor struct {
		dialect  dialect.Dialect
		prompter prompt.Prompter
		mode     Mode
		out      io.Writer
	}
)

const (
	// Run applies every hook file
	Run Mode = iota

	// Skip reports every hook file as skipped without applying it
	Skip

	// Confirm asks before applying each file of a hook directory
	Confirm
)

// New returns an Executor for the given params.
func New(p Params) *Executor {
	if p.Prompter == nil {
		p.Prompter = prompt.Always(false)
	}
	if p.Output == nil {
		p.Output = os.Stderr
	}

	return &Executor{
		dialect:  p.Dialect,
		prompter: p.Prompter,
		mode:     p.Mode,
		out:      p.Output,
	}
}

// Execute applies the hook called name from source against destination. An
// empty source means the hook is not configured. A source that is neither a
// file nor a directory is reported and ignored.
//
// Example:
//
//	exec := hooks.New(hooks.Params{Dialect: d, Mode: hooks.Confirm, Prompter: p})
//	if err := exec.Execute(ctx, hooks.PostClear, "/project/db/post-clear", env); err != nil {
//		return err
//	}
func (e *Executor) Execute(ctx context.Context, name, source string, destination *environment.Environment) error {
	if source == "" {
		return nil
	}

	info, err := os.Stat(source)
	if err != nil || (!info.IsDir() && !info.Mode().IsRegular()) {
		slog.Warn("Invalid hook, not a file nor a directory", "hook", name, "path", source)
		return nil
	}

	if !info.IsDir() {
		if e.mode == Skip {
			e.report(name, source, true)
			return nil
		}

		if err := e.dialect.Execute(ctx, destination, source); err != nil {
			return errors.Wrapf(err, "could not run the %s hook: %s", name, source)
		}

		e.report(name, source, false)
		return nil
	}

	entries, err := os.ReadDir(source)
	if err != nil {
		return errors.Wrapf(err, "failed to read the %s hook directory %s", name, source)
	}

	// os.ReadDir returns entries sorted by name
	for _, entry := range entries {
		if entry.IsDir() {
			slog.Warn("Ignoring directory in hook", "hook", name, "path", filepath.Join(source, entry.Name()))
			continue
		}

		if e.mode == Skip {
			e.report(name, entry.Name(), true)
			continue
		}

		if e.mode == Confirm && !e.prompter.Confirm(name+": "+entry.Name()+" Type 'yes' to proceed: ") {
			e.report(name, entry.Name(), true)
			continue
		}

		if err := e.dialect.Execute(ctx, destination, filepath.Join(source, entry.Name())); err != nil {
			return errors.Wrapf(err, "could not run the %s hook: %s", name, entry.Name())
		}

		e.report(name, entry.Name(), false)
	}

	return nil
}

func (e *Executor) report(name, file string, skipped bool) {
	if skipped {
		_, _ = fmt.Fprintf(e.out, "%s: %s (skipped)\n", name, file)
		return
	}

	_, _ = fmt.Fprintf(e.out, "%s: %s\n", name, file)
}
