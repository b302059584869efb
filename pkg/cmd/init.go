package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/consts"
	"github.com/pseudomuto/dbkeeper/pkg/dialect"
	"github.com/pseudomuto/dbkeeper/pkg/project"
	"github.com/urfave/cli/v3"
)

// initCmd creates the init command writing a .db file, an empty create script
// and a default data set. Existing files are left untouched.
//
// Example usage:
//
//	dbkeeper init
//	dbkeeper init --name shop --dialect postgres ./shop
func initCmd() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Initialize a new project",
		ArgsUsage: "[directory]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "the project name",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.StringFlag{
				Name:    "dialect",
				Aliases: []string{"d"},
				Usage:   "the database dialect: mysql or postgres",
				Value:   dialect.MySQLName,
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

			dir := first(args)
			if dir == "" {
				dir = "."
			}

			p := project.New(dir)
			if err := p.Initialize(project.InitOptions{
				Name:    cmd.String("name"),
				Dialect: cmd.String("dialect"),
			}); err != nil {
				return errors.Wrap(err, "failed to initialize project")
			}

			fmt.Fprintf(cmd.Root().Writer, "Initialized %s project %s in %s\n", p.Config().Dialect, p.Config().Name, p.Root())
			fmt.Fprintf(cmd.Root().Writer, "Add the credentials of its environments to ~/%s\n", consts.CredentialsFile)
			return nil
		},
	}
}
