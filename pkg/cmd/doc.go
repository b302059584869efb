// Package cmd provides the CLI commands of the dbkeeper tool.
//
// Each command is a function returning a *cli.Command, registered with the
// application through the fx value group "commands". Commands share a session
// resolving the project found from the working directory, the environments of
// ~/.dbpass and the dialect of the project.
//
// # Available Commands
//
//   - info [environment]: list the tables and their row counts
//   - dump [environment]: dump the database to a file
//   - clear [environment]: drop every table, then run the post-clear hook
//   - create [environment]: run the create script
//   - populate <data set> [environment]: recreate the database and load a data set
//   - fetch <environment>: replace the default environment with a copy of another one
//   - store <data set>: save the rows of the default environment as a data set
//   - init [directory]: write a new .db file and its directories
//
// # Global Options
//
//   - --env, -e: the default environment, $ENVIRONMENT when not given
//   - --skip-hooks, -s: report hooks as skipped instead of running them
//   - --confirm-hooks, -c: ask before running each file of a hook directory
//   - --help, -h: display help
//
// Every database command prints the project, the environment and the
// destination it works on before running. Writes to an environment configured
// with readonly=true are refused, and readonly=ask environments ask first.
package cmd
