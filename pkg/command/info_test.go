package command_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/command"
	"github.com/stretchr/testify/require"
)

func TestInfo(t *testing.T) {
	t.Run("no tables", func(t *testing.T) {
		f := newFixture(t)

		cmd := &command.Info{App: f.app, Target: local(t)}
		require.NoError(t, cmd.Run(t.Context()))
		require.Equal(t, "No tables\n", f.out.String())
	})

	t.Run("sorted tables with counts", func(t *testing.T) {
		f := newFixture(t)
		f.dialect.Tables = []string{"orders", "accounts", "items"}
		f.dialect.Counts["accounts"] = 12
		f.dialect.Counts["orders"] = 3
		f.dialect.Errors["count items"] = errors.New("boom")

		cmd := &command.Info{App: f.app, Target: local(t)}
		require.NoError(t, cmd.Run(t.Context()))
		require.Equal(t, "Tables:\n- accounts: 12\n- items: ERROR\n- orders: 3\n", f.out.String())
	})

	t.Run("yaml", func(t *testing.T) {
		f := newFixture(t)
		f.dialect.Tables = []string{"orders", "accounts"}
		f.dialect.Counts["accounts"] = 2
		f.dialect.Errors["count orders"] = errors.New("boom")

		cmd := &command.Info{App: f.app, Target: local(t), Format: command.FormatYAML}
		require.NoError(t, cmd.Run(t.Context()))
		require.YAMLEq(t, `
project: shop
environment: local
tables:
  - name: accounts
    rows: 2
  - name: orders
    rows: null
    error: ERROR
`, f.out.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		f := newFixture(t)

		cmd := &command.Info{App: f.app, Target: local(t), Format: "xml"}
		require.EqualError(t, cmd.Run(t.Context()), "unknown format: xml")
	})

	t.Run("list failure", func(t *testing.T) {
		f := newFixture(t)
		f.dialect.Errors["list"] = errors.New("boom")

		cmd := &command.Info{App: f.app, Target: local(t)}
		require.EqualError(t, cmd.Run(t.Context()), "cannot retrieve the tables: boom")
	})
}
