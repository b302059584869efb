package dialect

import (
	"bufio"
	"context"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
	"github.com/pseudomuto/dbkeeper/pkg/process"
)

const (
	postgresListTables = "SELECT tablename FROM pg_tables WHERE schemaname='public'"
	postgresClear      = "DROP SCHEMA public CASCADE; CREATE SCHEMA public;"
)

// Postgres drives the psql and pg_dump clients. The password is handed over in
// PGPASSWORD, never in argv.
type Postgres struct {
	client
}

// NewPostgres returns the PostgreSQL dialect running clients through runner.
func NewPostgres(runner process.Runner) *Postgres {
	d, _ := NewWithOptions(PostgresName, Options{Runner: runner})
	return d.(*Postgres)
}

func (p *Postgres) Name() string { return PostgresName }

// DatabaseURL returns the postgres:// URL of the environment.
func (p *Postgres) DatabaseURL(env *environment.Environment) string {
	return env.PostgresURL()
}

// ListTables lists the tables of the public schema.
func (p *Postgres) ListTables(ctx context.Context, env *environment.Environment) ([]string, error) {
	res, err := p.run(ctx, "cannot retrieve the tables", p.query(env, postgresListTables))
	if err != nil {
		return nil, err
	}

	return tableNames(res.Lines), nil
}

// CountRows runs SELECT COUNT(*) against the quoted table.
func (p *Postgres) CountRows(ctx context.Context, env *environment.Environment, table string) (int, error) {
	if table == "" {
		return -1, errors.New("cannot count rows: no table given")
	}

	res, err := p.run(ctx, "cannot count rows of "+table, p.query(env, "SELECT COUNT(*) FROM "+pq.QuoteIdentifier(table)))
	if err != nil {
		return -1, err
	}

	return parseCount(table, res)
}

// Clear drops the public schema with everything in it and recreates it empty.
func (p *Postgres) Clear(ctx context.Context, env *environment.Environment) error {
	if err := env.CheckWritable(); err != nil {
		return errors.Wrap(err, "cannot clear the database")
	}

	res, err := p.run(ctx, "cannot clear the database", p.query(env, postgresClear))
	if err != nil {
		return err
	}

	p.print(res.Lines)
	return nil
}

// Execute runs the script in a single transaction, stopping at the first error.
// Over SSH the script is streamed on stdin since the file only exists locally.
func (p *Postgres) Execute(ctx context.Context, env *environment.Environment, script string) error {
	if err := env.CheckWritable(); err != nil {
		return errors.Wrap(err, "cannot execute")
	}

	if err := checkScript(script); err != nil {
		return err
	}

	args := p.command("psql", env, env.Database(), "-q", "-1", "-v", "ON_ERROR_STOP=1")
	req := process.Request{}
	if env.IsSSH() {
		req.Stdin = script
	} else {
		args = append(args, "-f", script)
	}

	req.Args, req.Env = remote(env, p.password(env), args...)
	res, err := p.run(ctx, "cannot execute "+script, req)
	if err != nil {
		return err
	}

	p.print(res.Lines)
	return nil
}

// DumpDatabase runs pg_dump without ownership, dropping schema privilege statements.
func (p *Postgres) DumpDatabase(ctx context.Context, env *environment.Environment, out string) error {
	args, overlay := remote(env, p.password(env), p.command("pg_dump", env, "--no-owner", env.Database())...)
	req := process.Request{Args: args, Env: overlay}

	return p.save(ctx, "cannot dump the database", req, out, func(line string) bool {
		return !strings.Contains(line, "REVOKE ALL ON SCHEMA") && !strings.Contains(line, "GRANT ALL ON SCHEMA")
	})
}

// DumpTable dumps the rows of table and strips blank lines, comments and
// session settings so the output only changes when the data does.
func (p *Postgres) DumpTable(ctx context.Context, env *environment.Environment, table, out string) error {
	if table == "" {
		return errors.New("cannot dump: no table given")
	}

	args, overlay := remote(env, p.password(env), p.command("pg_dump", env, "--no-owner", "-t", pq.QuoteIdentifier(table), "-a", env.Database())...)
	step := "cannot dump the table " + table
	if err := p.save(ctx, step, process.Request{Args: args, Env: overlay}, out, nil); err != nil {
		return err
	}

	return rewrite(out, dropNoise)
}

func (p *Postgres) query(env *environment.Environment, statement string) process.Request {
	args, overlay := remote(env, p.password(env), p.command("psql", env, env.Database(), "-tc", statement)...)
	return process.Request{Args: args, Env: overlay}
}

// command builds the argument vector of a PostgreSQL client. -w keeps the
// client from prompting when the password is rejected.
func (p *Postgres) command(program string, env *environment.Environment, rest ...string) []string {
	args := []string{program, "-wU", env.Username(), "-h", env.Hostname()}
	if env.Port() != 0 {
		args = append(args, "-p", strconv.Itoa(env.Port()))
	}

	return append(args, rest...)
}

func (p *Postgres) password(env *environment.Environment) []string {
	return []string{"PGPASSWORD=" + env.Password()}
}

func dropNoise(line string, w *bufio.Writer) error {
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "--") || strings.HasPrefix(line, "SET ") {
		return nil
	}

	_, err := w.WriteString(line + "\n")
	return err
}
