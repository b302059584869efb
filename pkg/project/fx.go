package project

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

var Module = fx.Module("project", fx.Provide(
	// Loads the project enclosing the working directory. Returns nil outside of
	// a project so help and init work anywhere.
	func() (*Project, error) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get working directory")
		}

		p, err := Load(wd)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}

		return p, err
	},
))
