package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/consts"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

const (
	flagEnv          = "env"
	flagSkipHooks    = "skip-hooks"
	flagConfirmHooks = "confirm-hooks"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run creates and executes the dbkeeper CLI application with the registered
// commands and command-line arguments.
//
// Global Flags:
//   - --env, -e: the default environment (defaults to $ENVIRONMENT)
//   - --skip-hooks, -s: report hooks as skipped instead of running them
//   - --confirm-hooks, -c: ask before running each file of a hook directory
//
// The hook flags are mutually exclusive. Any failure is logged and the
// application shuts down with exit code 1.
//
// Example usage:
//
//	dbkeeper info
//	dbkeeper -s fetch production
//	dbkeeper --env staging populate default
func Run(p Params) {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	app := NewApp(p.Version.Version, p.Commands)

	p.Lifecycle.Append(fx.StartHook(func() {
		if err := app.Run(p.Ctx, p.Args); err != nil {
			slog.Error("Error running command", "err", err)
			_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
			return
		}

		_ = p.Shutdowner.Shutdown(fx.ExitCode(0))
	}))
}

// NewApp returns the root command holding the global flags and commands.
func NewApp(version string, commands []*cli.Command) *cli.Command {
	// value groups have no stable order
	sort.Slice(commands, func(i, j int) bool { return commands[i].Name < commands[j].Name })

	return &cli.Command{
		Name:  "dbkeeper",
		Usage: "Keep MySQL and PostgreSQL databases consistent across environments",
		Description: `dbkeeper inspects, dumps, clears, creates and seeds the database of a
project in any of its environments, local or reached through SSH.

The project is configured by the .db file found in the working directory or
one of its parents. Environment credentials are read from ~/.dbpass.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagEnv,
				Aliases: []string{"e"},
				Usage:   "the default environment",
				Sources: cli.EnvVars(consts.EnvironmentVar),
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.BoolFlag{
				Name:    flagSkipHooks,
				Aliases: []string{"s"},
				Usage:   "skip the post-fetch and post-clear hooks",
			},
			&cli.BoolFlag{
				Name:    flagConfirmHooks,
				Aliases: []string{"c"},
				Usage:   "ask before running each hook file",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool(flagSkipHooks) && cmd.Bool(flagConfirmHooks) {
				return ctx, errors.Errorf("--%s and --%s cannot be used together", flagSkipHooks, flagConfirmHooks)
			}

			return ctx, nil
		},
		Commands: commands,
	}
}
