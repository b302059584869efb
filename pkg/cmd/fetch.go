package cmd

import (
	"context"

	"github.com/pseudomuto/dbkeeper/pkg/command"
	"github.com/urfave/cli/v3"
)

// fetch creates the fetch command copying another environment into the
// default one.
//
// Example usage:
//
//	dbkeeper fetch production
//	dbkeeper --env staging fetch production
func fetch(s *session) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Replace the database with a copy of another environment",
		ArgsUsage: "<environment>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args, err := arguments(cmd, 1, 1)
			if err != nil {
				return err
			}

			app, err := s.app(cmd)
			if err != nil {
				return err
			}

			source, err := s.environment(cmd, args[0])
			if err != nil {
				return err
			}

			destination, err := s.environment(cmd, "")
			if err != nil {
				return err
			}

			return execute(ctx, app, destination, &command.Fetch{
				App:         app,
				Source:      source,
				Destination: destination,
			})
		},
	}
}
