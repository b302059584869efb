package dialect

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
	"github.com/pseudomuto/dbkeeper/pkg/process"
)

const (
	// MySQLName is the configuration name of the MySQL dialect
	MySQLName = "mysql"

	// PostgresName is the configuration name of the PostgreSQL dialect
	PostgresName = "postgres"
)

// ErrUnknownDialect is returned by New for names it cannot resolve.
var ErrUnknownDialect = errors.New("unknown dialect")

type (
	// Dialect is the per-engine protocol for inspecting, clearing, loading and
	// dumping a database through its command line clients. Implementations
	// are stateless and safe to reuse across environments.
	Dialect interface {
		// Name returns the configuration name of the dialect.
		Name() string

		// ListTables returns the tables of the environment's database.
		ListTables(ctx context.Context, env *environment.Environment) ([]string, error)

		// CountRows returns the number of rows in table, or -1 with an error.
		CountRows(ctx context.Context, env *environment.Environment, table string) (int, error)

		// Clear removes every object from the environment's database.
		Clear(ctx context.Context, env *environment.Environment) error

		// Execute runs the SQL script at path against the environment.
		Execute(ctx context.Context, env *environment.Environment, script string) error

		// DumpDatabase writes a full dump of the environment's database to out.
		DumpDatabase(ctx context.Context, env *environment.Environment, out string) error

		// DumpTable writes the normalized rows of table to out.
		DumpTable(ctx context.Context, env *environment.Environment, table, out string) error

		// DatabaseURL returns the connection URL of the environment in the
		// format native to the engine's drivers.
		DatabaseURL(env *environment.Environment) string
	}

	// Options configures a Dialect.
	Options struct {
		// Runner runs the client processes. Defaults to process.New().
		Runner process.Runner

		// Output receives the messages printed by clients while executing
		// scripts. Defaults to io.Discard.
		Output io.Writer
	}

	// client is the shared process plumbing of both dialects.
	client struct {
		runner process.Runner
		output io.Writer
	}
)

// New returns the Dialect registered under name. Names are case-insensitive and
// "postgresql" is accepted as an alias of "postgres".
//
// Example:
//
//	d, err := dialect.New("MySQL", process.New())
//	// d.Name() == "mysql"
func New(name string, runner process.Runner) (Dialect, error) {
	return NewWithOptions(name, Options{Runner: runner})
}

// NewWithOptions is New with full control over the dialect's options.
func NewWithOptions(name string, opts Options) (Dialect, error) {
	if opts.Runner == nil {
		opts.Runner = process.New()
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}

	c := client{runner: opts.Runner, output: opts.Output}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case MySQLName:
		return &MySQL{client: c}, nil
	case PostgresName, "postgresql":
		return &Postgres{client: c}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownDialect, "%q", name)
	}
}

// Names returns the accepted dialect names.
func Names() []string {
	return []string{MySQLName, PostgresName, "postgresql"}
}

// remote wraps args in `ssh -C <target>` when the environment is reached
// through a jump host. The remote command line is quoted for a POSIX shell and
// prefixed with the given variable assignments. Locally the assignments are
// returned as the child's environment overlay instead.
func remote(env *environment.Environment, vars []string, args ...string) (argv, overlay []string) {
	if !env.IsSSH() {
		return args, vars
	}

	parts := make([]string, 0, len(vars)+1)
	for _, v := range vars {
		name, value, _ := strings.Cut(v, "=")
		parts = append(parts, name+"="+shellescape.Quote(value))
	}
	parts = append(parts, shellescape.QuoteCommand(args))

	return []string{"ssh", "-C", env.SSHTarget(), strings.Join(parts, " ")}, nil
}

// run executes req and turns a non-zero exit into a *process.ExitError.
func (c *client) run(ctx context.Context, step string, req process.Request) (*process.Result, error) {
	res, err := c.runner.Run(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, step)
	}

	if err := res.Check(step); err != nil {
		slog.Debug("Client exited with an error", "step", step, "code", res.ExitCode)
		return nil, err
	}

	return res, nil
}

// print forwards client output lines to the configured writer.
func (c *client) print(lines []string) {
	for _, line := range lines {
		_, _ = io.WriteString(c.output, line+"\n")
	}
}

// parseCount reads the row count from the first line of a query result.
func parseCount(table string, res *process.Result) (int, error) {
	first := strings.TrimSpace(res.First())
	if first == "" {
		return -1, errors.Errorf("cannot count rows of %s: no output", table)
	}

	n, err := strconv.Atoi(first)
	if err != nil || n < 0 {
		return -1, errors.Errorf("cannot count rows of %s: unexpected output %q", table, first)
	}

	return n, nil
}

// tableNames trims every output line and drops the blank ones.
func tableNames(lines []string) []string {
	tables := make([]string, 0, len(lines))
	for _, line := range lines {
		if name := strings.TrimSpace(line); name != "" {
			tables = append(tables, name)
		}
	}

	return tables
}
