// Package dialect implements the per-engine protocol dbkeeper speaks to MySQL
// and PostgreSQL through their command line clients.
//
// A Dialect never opens a database connection itself. Every operation builds
// the argument vector of mysql, mysqldump, psql or pg_dump, runs it through a
// process.Runner and interprets the captured output. Environments configured
// with an SSH hostname run the same clients on the jump host through
// `ssh -C <target>`, with the remote command line quoted for the remote shell.
//
// # Operations
//
//   - ListTables: names of every table in the environment's database
//   - CountRows: number of rows in a table
//   - Clear: drop and recreate the database (MySQL) or the public schema (PostgreSQL)
//   - Execute: run a SQL script as a single batch
//   - DumpDatabase: full dump with privilege statements filtered out
//   - DumpTable: insert-only dump of one table, normalized for version control
//
// # Example
//
//	d, err := dialect.New("postgres", process.New())
//	if err != nil {
//		return err
//	}
//
//	tables, err := d.ListTables(ctx, env)
//	if err != nil {
//		return err
//	}
//
//	for _, table := range tables {
//		n, err := d.CountRows(ctx, env, table)
//		...
//	}
package dialect
