package command

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
	"github.com/pseudomuto/dbkeeper/pkg/hooks"
)

// Fetch copies the Source database into Destination.
//
// The source is dumped to a temporary file before the destination is touched.
// Once the destination has been cleared, any later failure matches ErrCleared
// since the destination is left empty.
type Fetch struct {
	*App
	Source      *environment.Environment
	Destination *environment.Environment
}

func (f *Fetch) Run(ctx context.Context) error {
	if f.Source.Same(f.Destination) {
		return errors.Wrapf(ErrSameEnvironment, "%s and %s", f.Source.Name(), f.Destination.Name())
	}

	if err := f.gate(f.Destination); err != nil {
		return err
	}

	dump, cleanup, err := tempFile()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := f.Dialect.DumpDatabase(ctx, f.Source, dump); err != nil {
		return errors.Wrapf(err, "cannot dump %s", f.Source.Name())
	}
	f.printf("Database dumped from %s\n", f.Source.Name())

	if err := f.clearAndLoad(ctx, f.Destination, dump); err != nil {
		return err
	}
	f.printf("Database loaded\n")

	var postFetch string
	if f.Config != nil {
		postFetch = f.Config.PostFetch
	}

	if err := f.hook(ctx, hooks.PostFetch, postFetch, f.Destination); err != nil {
		return err
	}

	f.printf("Database fetch done\n")
	return nil
}
