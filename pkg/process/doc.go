// Package process runs the external programs dbkeeper delegates to.
//
// Every database operation ends up as one external process (mysql, mysqldump,
// psql, pg_dump, ssh or a seed script). The Runner interface is the single
// capability the rest of the code base uses for that: given an argument vector,
// an environment overlay and an optional stdin file, it returns the captured
// stdout lines and the exit code.
//
// Processes run strictly one at a time. stdout is drained completely before the
// process is waited for, and stderr is passed through to the operator.
//
// # Failure Kinds
//
// Three failure kinds are kept apart:
//   - the program could not be started (e.g. missing binary): a wrapped exec error
//   - the program exited with a non-zero code: *ExitError, built by Result.Check
//   - the wait was interrupted (context cancelled, process killed by a signal): ErrInterrupted
//
// Example:
//
//	res, err := process.New().Run(ctx, process.Request{
//		Args: []string{"psql", "-wU", "app", "-h", "db", "shop", "-tc", "SELECT 1"},
//		Env:  []string{"PGPASSWORD=secret"},
//	})
//	if err != nil {
//		return err
//	}
//
//	if err := res.Check("select"); err != nil {
//		return err
//	}
package process
