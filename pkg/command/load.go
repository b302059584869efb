package command

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
)

// Load replaces the content of Target with the SQL file at Path.
type Load struct {
	*App
	Target *environment.Environment
	Path   string
}

func (l *Load) Run(ctx context.Context) error {
	info, err := os.Stat(l.Path)
	if err != nil {
		return errors.Errorf("file not found: %s", l.Path)
	}

	if info.IsDir() {
		return errors.Errorf("not a file: %s", l.Path)
	}

	f, err := os.Open(l.Path)
	if err != nil {
		return errors.Errorf("file not readable: %s", l.Path)
	}
	_ = f.Close()

	if err := l.gate(l.Target); err != nil {
		return err
	}

	if err := l.clearAndLoad(ctx, l.Target, l.Path); err != nil {
		return err
	}

	l.printf("Database loaded from %s\n", l.Path)
	return nil
}
