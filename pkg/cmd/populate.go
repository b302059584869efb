package cmd

import (
	"context"

	"github.com/pseudomuto/dbkeeper/pkg/command"
	"github.com/urfave/cli/v3"
)

// populate creates the populate command recreating a database and loading a
// data set from the populate root.
//
// Example usage:
//
//	dbkeeper populate default
//	dbkeeper -c populate demo staging
func populate(s *session) *cli.Command {
	return &cli.Command{
		Name:      "populate",
		Usage:     "Recreate the database and load a data set",
		ArgsUsage: "<data set> [environment]",
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

			return execute(ctx, app, target, &command.Populate{App: app, Target: target, Set: args[0]})
		},
	}
}
