package cmd

import (
	"context"

	"github.com/pseudomuto/dbkeeper/pkg/command"
	"github.com/urfave/cli/v3"
)

// info creates the info command listing the tables of an environment with
// their row counts.
//
// Example usage:
//
//	dbkeeper info
//	dbkeeper info staging --format yaml
func info(s *session) *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "List the tables and their row counts",
		ArgsUsage: "[environment]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format: text or yaml",
				Value:   command.FormatText,
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args, err := arguments(cmd, 0, 1)
			if err != nil {
				return err
			}

			app, err := s.app(cmd)
			if err != nil {
				return err
			}

			target, err := s.environment(cmd, first(args))
			if err != nil {
				return err
			}

			return execute(ctx, app, target, &command.Info{
				App:    app,
				Target: target,
				Format: cmd.String("format"),
			})
		},
	}
}
