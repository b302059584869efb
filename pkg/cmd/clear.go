package cmd

import (
	"context"

	"github.com/pseudomuto/dbkeeper/pkg/command"
	"github.com/urfave/cli/v3"
)

// clearCmd creates the clear command emptying the database of an environment.
//
// Example usage:
//
//	dbkeeper clear
//	dbkeeper -s clear staging
func clearCmd(s *session) *cli.Command {
	return &cli.Command{
		Name:      "clear",
		Usage:     "Drop every table of the database",
		ArgsUsage: "[environment]",
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

			return execute(ctx, app, target, &command.Clear{App: app, Target: target})
		},
	}
}

// create creates the create command running the create script.
func create(s *session) *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Run the create script",
		ArgsUsage: "[environment]",
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

			return execute(ctx, app, target, &command.Create{App: app, Target: target})
		},
	}
}
