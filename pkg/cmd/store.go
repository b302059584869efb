package cmd

import (
	"context"

	"github.com/pseudomuto/dbkeeper/pkg/command"
	"github.com/urfave/cli/v3"
)

// store creates the store command saving the rows of the default environment
// as a data set under the populate root.
//
// Example usage:
//
//	dbkeeper store default
func store(s *session) *cli.Command {
	return &cli.Command{
		Name:      "store",
		Usage:     "Save the rows of every table as a data set",
		ArgsUsage: "<data set>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args, err := arguments(cmd, 1, 1)
			if err != nil {
				return err
			}

			app, err := s.app(cmd)
			if err != nil {
				return err
			}

			source, err := s.environment(cmd, "")
			if err != nil {
				return err
			}

			return execute(ctx, app, source, &command.Store{App: app, Source: source, Set: args[0]})
		},
	}
}
