package config

import (
	"os"

	"go.uber.org/fx"
)

var Module = fx.Module("config", fx.Provide(
	// Loads the credentials from the user's home directory. Returns nil if the
	// file doesn't exist so help and usage output work without credentials; the
	// commands that need them fail with a descriptive error instead.
	func() (*Credentials, error) {
		path, err := DefaultCredentialsPath()
		if err != nil {
			return nil, err
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, nil
		}

		return LoadCredentials(path)
	},
))
