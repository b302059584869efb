// Package command implements the dbkeeper operations: info, dump, clear,
// create, populate, fetch, store and load.
//
// Every command is a single-use value holding its own parameters and a shared
// *App with the project configuration, the selected dialect and the hook
// executor. Commands that write to an environment pass its read-only policy
// through Gate before doing anything else, so a refused or declined write
// leaves the database untouched.
//
// Compound commands are not transactional. Fetch and Load clear the
// destination before loading it; when the load fails afterwards the error
// matches ErrCleared and the destination is left empty.
//
// # Example
//
//	app := &command.App{
//		Config:   cfg,
//		Dialect:  d,
//		Hooks:    hooks.New(hooks.Params{Dialect: d}),
//		Prompter: prompt.New(os.Stdin, os.Stderr),
//		Out:      os.Stderr,
//	}
//
//	fetch := &command.Fetch{App: app, Source: production, Destination: local}
//	if err := fetch.Run(ctx); errors.Is(err, command.ErrCleared) {
//		log.Printf("%s was cleared but not reloaded", local.Name())
//	}
package command
