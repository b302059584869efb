package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/command"
	"github.com/pseudomuto/dbkeeper/pkg/config"
	"github.com/pseudomuto/dbkeeper/pkg/consts"
	"github.com/pseudomuto/dbkeeper/pkg/dialect"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
	"github.com/pseudomuto/dbkeeper/pkg/hooks"
	"github.com/pseudomuto/dbkeeper/pkg/process"
	"github.com/pseudomuto/dbkeeper/pkg/project"
	"github.com/pseudomuto/dbkeeper/pkg/prompt"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	sessionParams struct {
		fx.In

		Project     *project.Project
		Credentials *config.Credentials
		Runner      process.Runner  `optional:"true"`
		Prompter    prompt.Prompter `optional:"true"`
	}

	// session resolves what the database commands share: the project, its
	// environments and the dialect.
	session struct {
		project     *project.Project
		credentials *config.Credentials
		runner      process.Runner
		prompter    prompt.Prompter
	}
)

func newSession(p sessionParams) *session {
	runner := p.Runner
	if runner == nil {
		runner = process.New()
	}

	return &session{
		project:     p.Project,
		credentials: p.Credentials,
		runner:      runner,
		prompter:    p.Prompter,
	}
}

// app builds the shared state of a database command from the global flags.
func (s *session) app(cmd *cli.Command) (*command.App, error) {
	if s.project == nil {
		return nil, errors.Wrapf(project.ErrNotFound, "no %s file in this directory or its parents", consts.ProjectFile)
	}

	cfg := s.project.Config()
	out := errWriter(cmd)

	name := cfg.Dialect
	if name == "" {
		name = dialect.MySQLName
	}

	d, err := dialect.NewWithOptions(name, dialect.Options{Runner: s.runner, Output: out})
	if err != nil {
		return nil, err
	}

	p := s.prompter
	if p == nil {
		p = prompt.New(os.Stdin, out)
	}

	mode := hooks.Run
	switch {
	case cmd.Root().Bool(flagSkipHooks):
		mode = hooks.Skip
	case cmd.Root().Bool(flagConfirmHooks):
		mode = hooks.Confirm
	}

	return &command.App{
		Config:   cfg,
		Dialect:  d,
		Hooks:    hooks.New(hooks.Params{Dialect: d, Prompter: p, Mode: mode, Output: out}),
		Prompter: p,
		Runner:   s.runner,
		Out:      out,
	}, nil
}

// environment resolves the named environment of the project, or the default
// one when name is empty.
func (s *session) environment(cmd *cli.Command, name string) (*environment.Environment, error) {
	if name == "" {
		name = cmd.Root().String(flagEnv)
	}

	if name == "" {
		return nil, errors.Errorf("%s is not set", consts.EnvironmentVar)
	}

	if s.project == nil {
		return nil, errors.Wrapf(project.ErrNotFound, "no %s file in this directory or its parents", consts.ProjectFile)
	}

	if s.credentials == nil {
		path, _ := config.DefaultCredentialsPath()
		return nil, errors.Errorf("credentials not found at %s", path)
	}

	projectName := s.project.Config().Name
	creds := s.credentials.Project(projectName)
	if creds == nil {
		return nil, errors.Errorf("credentials not found for project: %s", projectName)
	}

	env := creds.Environment(name)
	if env == nil {
		var b strings.Builder
		fmt.Fprintf(&b, "unknown environment: %s\n\nEnvironments:", name)
		for _, known := range creds.EnvironmentNames() {
			fmt.Fprintf(&b, "\n- %s", known)
		}

		return nil, errors.New(b.String())
	}

	return env, nil
}

// execute prints the banner for target and runs c.
func execute(ctx context.Context, app *command.App, target *environment.Environment, c command.Command) error {
	banner(app.Out, app.Config.Name, target, app.Dialect.Name())
	return c.Run(ctx)
}

func banner(w io.Writer, projectName string, env *environment.Environment, dialectName string) {
	fmt.Fprintf(w, "Project:     %s\n", projectName)
	fmt.Fprintf(w, "Environment: %s\n", env.Name())
	fmt.Fprintf(w, "Destination: %s (%s)\n\n", env.Describe(), dialectName)
}

// arguments checks that cmd received between minArgs and maxArgs positional
// arguments and returns them.
func arguments(cmd *cli.Command, minArgs, maxArgs int) ([]string, error) {
	args := cmd.Args().Slice()
	if len(args) < minArgs || len(args) > maxArgs {
		return nil, errors.Errorf("invalid arguments, usage: %s %s %s", cmd.Root().Name, cmd.Name, cmd.ArgsUsage)
	}

	return args, nil
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}

	return os.Stderr
}

// first returns the first argument, or an empty string when there is none.
func first(args []string) string {
	if len(args) == 0 {
		return ""
	}

	return args[0]
}
