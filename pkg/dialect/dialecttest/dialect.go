// Package dialecttest provides an in-memory dialect.Dialect for tests.
package dialecttest

import (
	"context"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/consts"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
)

const (
	OpListTables   = "list"
	OpCountRows    = "count"
	OpClear        = "clear"
	OpExecute      = "execute"
	OpDumpDatabase = "dump"
	OpDumpTable    = "dump-table"
)

type (
	// Call is one recorded dialect operation.
	Call struct {
		Op  string
		Env string
		Arg string

		// Content holds the script of an execute call, read when it ran.
		Content string
	}

	// Dialect records every operation and answers from its fields.
	Dialect struct {
		mu    sync.Mutex
		calls []Call

		// Tables is returned by ListTables.
		Tables []string

		// Counts holds the row count per table. Tables without an entry count
		// as empty.
		Counts map[string]int

		// Errors fails operations. Keys are "<op> <arg>" for a specific
		// argument (table name or script path) or "<op>" for every call.
		Errors map[string]error

		// Dump is written by DumpDatabase. DumpTable writes "rows of <table>".
		Dump string
	}
)

// New returns an empty Dialect.
func New() *Dialect {
	return &Dialect{Counts: map[string]int{}, Errors: map[string]error{}}
}

func (d *Dialect) Name() string { return "fake" }

func (d *Dialect) DatabaseURL(env *environment.Environment) string {
	return "fake://" + env.Address() + "/" + env.Database()
}

func (d *Dialect) ListTables(_ context.Context, env *environment.Environment) ([]string, error) {
	if err := d.record(Call{Op: OpListTables, Env: env.Name()}); err != nil {
		return nil, err
	}

	return append([]string(nil), d.Tables...), nil
}

func (d *Dialect) CountRows(_ context.Context, env *environment.Environment, table string) (int, error) {
	if err := d.record(Call{Op: OpCountRows, Env: env.Name(), Arg: table}); err != nil {
		return -1, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Counts[table], nil
}

func (d *Dialect) Clear(_ context.Context, env *environment.Environment) error {
	return d.record(Call{Op: OpClear, Env: env.Name()})
}

func (d *Dialect) Execute(_ context.Context, env *environment.Environment, script string) error {
	data, err := os.ReadFile(script)
	if err != nil {
		return errors.Wrapf(err, "file not found: %s", script)
	}

	return d.record(Call{Op: OpExecute, Env: env.Name(), Arg: script, Content: string(data)})
}

func (d *Dialect) DumpDatabase(_ context.Context, env *environment.Environment, out string) error {
	if err := d.record(Call{Op: OpDumpDatabase, Env: env.Name(), Arg: out}); err != nil {
		return err
	}

	return os.WriteFile(out, []byte(d.Dump), consts.ModeFile)
}

func (d *Dialect) DumpTable(_ context.Context, env *environment.Environment, table, out string) error {
	if err := d.record(Call{Op: OpDumpTable, Env: env.Name(), Arg: table}); err != nil {
		return err
	}

	return os.WriteFile(out, []byte("rows of "+table+"\n"), consts.ModeFile)
}

// Calls returns the recorded operations in order.
func (d *Dialect) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]Call(nil), d.calls...)
}

// Ops returns "<op>" or "<op> <arg>" for every recorded operation.
func (d *Dialect) Ops() []string {
	calls := d.Calls()
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = c.Op
		if c.Arg != "" {
			ops[i] += " " + c.Arg
		}
	}

	return ops
}

func (d *Dialect) record(c Call) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls = append(d.calls, c)

	if err, ok := d.Errors[c.Op+" "+c.Arg]; ok && c.Arg != "" {
		return err
	}

	return d.Errors[c.Op]
}
