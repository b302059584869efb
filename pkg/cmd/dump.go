package cmd

import (
	"context"

	"github.com/pseudomuto/dbkeeper/pkg/command"
	"github.com/urfave/cli/v3"
)

// dump creates the dump command writing a full dump of an environment to
// <project>-<environment>-<timestamp>.sql.
//
// Example usage:
//
//	dbkeeper dump
//	dbkeeper dump production --out backups
func dump(s *session) *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Dump the database to a file",
		ArgsUsage: "[environment]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "the output directory",
				Value:   ".",
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

			source, err := s.environment(cmd, first(args))
			if err != nil {
				return err
			}

			return execute(ctx, app, source, &command.Dump{
				App:    app,
				Source: source,
				Dir:    cmd.String("out"),
			})
		},
	}
}
