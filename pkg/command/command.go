package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/consts"
	"github.com/pseudomuto/dbkeeper/pkg/dialect"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
	"github.com/pseudomuto/dbkeeper/pkg/hooks"
	"github.com/pseudomuto/dbkeeper/pkg/process"
	"github.com/pseudomuto/dbkeeper/pkg/project"
	"github.com/pseudomuto/dbkeeper/pkg/prompt"
)

// confirmation is asked before writing to an environment with readonly=ask.
const confirmation = "Are you sure? Type 'yes' to proceed: "

var (
	// ErrReadOnly is returned when the target environment refuses writes.
	ErrReadOnly = environment.ErrReadOnly

	// ErrDeclined is returned when the operator did not confirm a write.
	ErrDeclined = errors.New("declined by the operator")

	// ErrSameEnvironment is returned by Fetch when source and destination are
	// the same database.
	ErrSameEnvironment = errors.New("source must be different from destination")

	// ErrCleared marks failures that left the destination cleared but not
	// loaded.
	ErrCleared = errors.New("database was cleared")
)

type (
	// Command is a single dbkeeper operation.
	Command interface {
		Run(ctx context.Context) error
	}

	// App holds what every command shares for one invocation.
	App struct {
		Config   *project.Config
		Dialect  dialect.Dialect
		Hooks    *hooks.Executor
		Prompter prompt.Prompter

		// Runner runs the executable seed files of populate. Defaults to process.New().
		Runner process.Runner

		// Out receives reports and progress. Defaults to os.Stderr.
		Out io.Writer

		// Now returns the current time. Defaults to time.Now.
		Now func() time.Time
	}

	clearedError struct {
		err error
	}
)

func (e *clearedError) Error() string {
	return "database was cleared but not loaded: " + e.err.Error()
}

func (e *clearedError) Unwrap() error { return e.err }

func (e *clearedError) Is(target error) bool { return target == ErrCleared }

// Gate applies the read-only policy of env before a write: readonly=true refuses
// with ErrReadOnly, readonly=ask prompts and refuses with ErrDeclined unless the
// operator answers yes, readonly=false proceeds.
func Gate(p prompt.Prompter, env *environment.Environment) error {
	switch env.ReadOnly() {
	case environment.ReadOnlyTrue:
		return errors.Wrapf(ErrReadOnly, "%s", env.Name())
	case environment.ReadOnlyAsk:
		if p == nil || !p.Confirm(confirmation) {
			return errors.Wrapf(ErrDeclined, "%s", env.Name())
		}
	}

	return nil
}

func (a *App) printf(format string, args ...any) {
	out := a.Out
	if out == nil {
		out = os.Stderr
	}

	_, _ = fmt.Fprintf(out, format, args...)
}

func (a *App) runner() process.Runner {
	if a.Runner == nil {
		return process.New()
	}

	return a.Runner
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}

	return a.Now()
}

func (a *App) gate(env *environment.Environment) error {
	return Gate(a.Prompter, env)
}

func (a *App) hook(ctx context.Context, name, source string, env *environment.Environment) error {
	if a.Hooks == nil {
		return nil
	}

	return a.Hooks.Execute(ctx, name, source, env)
}

func (a *App) createScript() (string, error) {
	if a.Config == nil || a.Config.Create == "" {
		return "", errors.New("no database.create found in the " + consts.ProjectFile + " file")
	}

	return a.Config.Create, nil
}

// tempFile creates an empty temporary file and returns its path along with the
// function removing it.
func tempFile() (string, func(), error) {
	f, err := os.CreateTemp("", consts.TempPattern)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to create temporary file")
	}

	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, errors.Wrapf(err, "failed to close %s", path)
	}

	return path, cleanup, nil
}

// clearAndLoad clears env, runs the post-clear hook and executes script. Every
// failure after the clear matches ErrCleared.
func (a *App) clearAndLoad(ctx context.Context, env *environment.Environment, script string) error {
	if err := a.Dialect.Clear(ctx, env); err != nil {
		return errors.Wrap(err, "cannot clear the database")
	}
	a.printf("Database cleared\n")

	var postClear string
	if a.Config != nil {
		postClear = a.Config.PostClear
	}

	if err := a.hook(ctx, hooks.PostClear, postClear, env); err != nil {
		return &clearedError{err: err}
	}

	if err := a.Dialect.Execute(ctx, env, script); err != nil {
		return &clearedError{err: errors.Wrap(err, "database load failed")}
	}

	return nil
}
