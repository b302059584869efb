package cmd

import (
	"context"

	"github.com/pseudomuto/dbkeeper/pkg/command"
	"github.com/urfave/cli/v3"
)

// load creates the hidden load command replacing the database with the
// content of a SQL file.
//
// Example usage:
//
//	dbkeeper load shop-production-20240307-090501.sql
func load(s *session) *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "Replace the database with the content of a SQL file",
		ArgsUsage: "<file> [environment]",
		Hidden:    true,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args, err := arguments(cmd, 1, 2)
			if err != nil {
				return err
			}

			app, err := s.app(cmd)
			if err != nil {
				return err
			}

			target, err := s.environment(cmd, first(args[1:]))
			if err != nil {
				return err
			}

			return execute(ctx, app, target, &command.Load{App: app, Target: target, Path: args[0]})
		},
	}
}
