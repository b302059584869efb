package command

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
	"github.com/pseudomuto/dbkeeper/pkg/hooks"
)

type (
	// Clear empties the target database and runs the post-clear hook.
	Clear struct {
		*App
		Target *environment.Environment
	}

	// Create runs the create script against the target without clearing it.
	Create struct {
		*App
		Target *environment.Environment
	}
)

func (c *Clear) Run(ctx context.Context) error {
	if err := c.gate(c.Target); err != nil {
		return err
	}

	if err := c.Dialect.Clear(ctx, c.Target); err != nil {
		return errors.Wrap(err, "cannot clear the database")
	}
	c.printf("Database cleared\n")

	var postClear string
	if c.Config != nil {
		postClear = c.Config.PostClear
	}

	return c.hook(ctx, hooks.PostClear, postClear, c.Target)
}

func (c *Create) Run(ctx context.Context) error {
	script, err := c.createScript()
	if err != nil {
		return err
	}

	if err := c.gate(c.Target); err != nil {
		return err
	}

	if err := c.Dialect.Execute(ctx, c.Target, script); err != nil {
		return errors.Wrap(err, "cannot create the database")
	}

	c.printf("Database created\n")
	return nil
}
