package dialect

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
	"github.com/pseudomuto/dbkeeper/pkg/process"
	"github.com/pseudomuto/dbkeeper/pkg/utils"
)

// definerPrefix starts the view and trigger DEFINER clauses mysqldump emits.
// They name accounts that rarely exist on the target server.
const definerPrefix = "/*!50013 DEFINER="

// MySQL drives the mysql and mysqldump clients.
type MySQL struct {
	client
}

// NewMySQL returns the MySQL dialect running clients through runner.
func NewMySQL(runner process.Runner) *MySQL {
	d, _ := NewWithOptions(MySQLName, Options{Runner: runner})
	return d.(*MySQL)
}

func (m *MySQL) Name() string { return MySQLName }

// DatabaseURL returns the go-sql-driver DSN of the environment.
func (m *MySQL) DatabaseURL(env *environment.Environment) string {
	return env.MySQLDSN()
}

// ListTables runs SHOW TABLES.
func (m *MySQL) ListTables(ctx context.Context, env *environment.Environment) ([]string, error) {
	res, err := m.run(ctx, "cannot retrieve the tables", m.query(env, "SHOW TABLES"))
	if err != nil {
		return nil, err
	}

	return tableNames(res.Lines), nil
}

// CountRows runs SELECT COUNT(*) against the backticked table.
func (m *MySQL) CountRows(ctx context.Context, env *environment.Environment, table string) (int, error) {
	if table == "" {
		return -1, errors.New("cannot count rows: no table given")
	}

	res, err := m.run(ctx, "cannot count rows of "+table, m.query(env, "SELECT COUNT(*) FROM "+utils.BacktickIdentifier(table)))
	if err != nil {
		return -1, err
	}

	return parseCount(table, res)
}

// Clear drops and recreates the environment's database.
func (m *MySQL) Clear(ctx context.Context, env *environment.Environment) error {
	if err := env.CheckWritable(); err != nil {
		return errors.Wrap(err, "cannot clear the database")
	}

	name := utils.BacktickIdentifier(env.Database())
	res, err := m.run(ctx, "cannot clear the database", m.query(env, "DROP DATABASE "+name+"; CREATE DATABASE "+name+";"))
	if err != nil {
		return err
	}

	m.print(res.Lines)
	return nil
}

// Execute feeds the script to mysql wrapped in a single transaction.
func (m *MySQL) Execute(ctx context.Context, env *environment.Environment, script string) error {
	if err := env.CheckWritable(); err != nil {
		return errors.Wrap(err, "cannot execute")
	}

	if err := checkScript(script); err != nil {
		return err
	}

	f, err := os.Open(script)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", script)
	}
	defer func() { _ = f.Close() }()

	tmp, err := writeTemp(
		strings.NewReader("SET autocommit=0;\n"),
		f,
		strings.NewReader("\nCOMMIT;\n"),
	)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp) }()

	args, overlay := remote(env, nil, m.command("mysql", env, env.Database())...)
	res, err := m.run(ctx, "cannot execute "+script, process.Request{Args: args, Env: overlay, Stdin: tmp})
	if err != nil {
		return err
	}

	m.print(res.Lines)
	return nil
}

// DumpDatabase runs mysqldump, dropping DEFINER clauses.
func (m *MySQL) DumpDatabase(ctx context.Context, env *environment.Environment, out string) error {
	args, overlay := remote(env, nil, m.command("mysqldump", env, env.Database())...)
	req := process.Request{Args: args, Env: overlay}

	return m.save(ctx, "cannot dump the database", req, out, func(line string) bool {
		return !strings.HasPrefix(line, definerPrefix)
	})
}

// DumpTable dumps the rows of table as complete inserts ordered by primary key,
// one row per line.
func (m *MySQL) DumpTable(ctx context.Context, env *environment.Environment, table, out string) error {
	if table == "" {
		return errors.New("cannot dump: no table given")
	}

	base := []string{"mysqldump", "-c", "--compact", "--no-create-info", "--order-by-primary"}
	base = append(base, m.flags(env)...)

	args, overlay := remote(env, nil, append(base, env.Database(), table)...)
	step := "cannot dump the table " + table
	if err := m.save(ctx, step, process.Request{Args: args, Env: overlay}, out, nil); err != nil {
		return err
	}

	return rewrite(out, splitRows)
}

// query returns the request running a single statement through mysql.
func (m *MySQL) query(env *environment.Environment, statement string) process.Request {
	args, overlay := remote(env, nil, m.command("mysql", env, env.Database(), "-Ne", statement)...)
	return process.Request{Args: args, Env: overlay}
}

// command builds the argument vector of a mysql client with the connection flags
// of env followed by rest.
func (m *MySQL) command(program string, env *environment.Environment, rest ...string) []string {
	args := append([]string{program}, m.flags(env)...)
	return append(args, rest...)
}

// flags returns the connection flags of env. The password travels in argv.
func (m *MySQL) flags(env *environment.Environment) []string {
	flags := []string{"--host", env.Hostname()}
	if env.Port() != 0 {
		flags = append(flags, "--port", strconv.Itoa(env.Port()))
	}

	return append(flags, "--user", env.Username(), "--password="+env.Password())
}

// splitRows puts every row of an extended insert on its own line.
func splitRows(line string, w *bufio.Writer) error {
	line = strings.ReplaceAll(line, "),(", "),\n(")
	line = strings.ReplaceAll(line, ") VALUES (", ") VALUES\n(")

	_, err := w.WriteString(line + "\n")
	return err
}

// checkScript verifies the script exists and is a regular file.
func checkScript(script string) error {
	info, err := os.Stat(script)
	if err != nil {
		return errors.Wrapf(err, "file not found: %s", script)
	}

	if info.IsDir() {
		return errors.Errorf("not a file: %s", script)
	}

	return nil
}
