package environment_test

import (
	"testing"

	. "github.com/pseudomuto/dbkeeper/pkg/environment"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T, p Params) *Environment {
	t.Helper()

	if p.Name == "" {
		p.Name = "local"
	}
	if p.Username == "" {
		p.Username = "app"
	}
	if p.Password == "" {
		p.Password = "secret"
	}

	env, err := New(p)
	require.NoError(t, err)
	return env
}

func TestNew(t *testing.T) {
	t.Run("rejects missing required values", func(t *testing.T) {
		tests := []struct {
			name     string
			params   Params
			expected string
		}{
			{"username", Params{Name: "dev", Password: "p", Database: "d", Hostname: "h"}, "username not found"},
			{"password", Params{Name: "dev", Username: "u", Database: "d", Hostname: "h"}, "password not found"},
			{"database", Params{Name: "dev", Username: "u", Password: "p", Hostname: "h"}, "database not found"},
			{"hostname", Params{Name: "dev", Username: "u", Password: "p", Database: "d"}, "hostname not found"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				env, err := New(tt.params)
				require.Error(t, err)
				require.Nil(t, env)
				require.Contains(t, err.Error(), tt.expected)
			})
		}
	})

	t.Run("rejects local ssh hosts", func(t *testing.T) {
		for _, host := range []string{"localhost", "LocalHost", "LOCALHOST", "127.0.0.1"} {
			env, err := New(Params{
				Name:        "dev",
				Username:    "u",
				Password:    "p",
				Database:    "d",
				Hostname:    "h",
				SSHHostname: host,
			})
			require.Error(t, err, host)
			require.Nil(t, env)
			require.Contains(t, err.Error(), "ssh.hostname cannot be set")
		}
	})
}

func TestFromValues(t *testing.T) {
	env, err := FromValues("staging", map[string]string{
		"username":     "app",
		"password":     "secret",
		"database":     "shop",
		"hostname":     "db.internal",
		"ssh.hostname": "bastion",
		"ssh.username": "deploy",
		"readonly":     "ASK",
	})
	require.NoError(t, err)
	require.Equal(t, "staging", env.Name())
	require.Equal(t, "shop", env.Database())
	require.Equal(t, ReadOnlyAsk, env.ReadOnly())
	require.Equal(t, "deploy@bastion", env.SSHTarget())
	require.True(t, env.IsSSH())

	_, err = FromValues("broken", map[string]string{
		"username": "app",
		"password": "secret",
		"database": "shop",
		"hostname": "db.internal",
		"readonly": "maybe",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid readonly value: maybe")
}

func TestParseReadOnly(t *testing.T) {
	tests := []struct {
		input    string
		expected ReadOnly
	}{
		{"", ReadOnlyFalse},
		{"false", ReadOnlyFalse},
		{"TRUE", ReadOnlyTrue},
		{" ask ", ReadOnlyAsk},
	}

	for _, tt := range tests {
		got, err := ParseReadOnly(tt.input)
		require.NoError(t, err)
		require.Equal(t, tt.expected, got)
	}
}

func TestSSHTarget(t *testing.T) {
	require.Empty(t, newEnv(t, Params{Database: "d", Hostname: "h"}).SSHTarget())
	require.Equal(t, "bastion", newEnv(t, Params{Database: "d", Hostname: "h", SSHHostname: "bastion"}).SSHTarget())
	require.Equal(t, "ops@bastion", newEnv(t, Params{
		Database:    "d",
		Hostname:    "h",
		SSHHostname: "bastion",
		SSHUsername: "ops",
	}).SSHTarget())
}

func TestSame(t *testing.T) {
	a := newEnv(t, Params{Name: "a", Database: "Shop", Hostname: "DB.internal", SSHHostname: "Bastion"})
	b := newEnv(t, Params{Name: "b", Username: "other", Database: "shop", Hostname: "db.INTERNAL", SSHHostname: "bastion"})
	c := newEnv(t, Params{Name: "c", Database: "shop", Hostname: "db.internal"})
	d := newEnv(t, Params{Name: "d", Database: "shop_copy", Hostname: "db.internal", SSHHostname: "bastion"})

	t.Run("reflexive", func(t *testing.T) {
		for _, env := range []*Environment{a, b, c, d} {
			require.True(t, env.Same(env))
		}
	})

	t.Run("symmetric and case-insensitive", func(t *testing.T) {
		require.True(t, a.Same(b))
		require.True(t, b.Same(a))
	})

	t.Run("ssh host and database take part", func(t *testing.T) {
		require.False(t, a.Same(c))
		require.False(t, c.Same(a))
		require.False(t, a.Same(d))
		require.False(t, d.Same(a))
	})

	t.Run("nil", func(t *testing.T) {
		require.False(t, a.Same(nil))
	})
}

func TestConnectionStrings(t *testing.T) {
	env := newEnv(t, Params{Database: "shop", Hostname: "db", Port: 3306})
	require.Equal(t, "db:3306", env.Address())
	require.Equal(t, "app:secret@tcp(db:3306)/shop", env.MySQLDSN())
	require.Equal(t, "postgres://app:secret@db:3306/shop", env.PostgresURL())
	require.Equal(t, "app@db:3306/shop", env.Describe())

	env = newEnv(t, Params{Database: "blog", Hostname: "pg", SSHHostname: "bastion", SSHUsername: "deploy"})
	require.Equal(t, "pg", env.Address())
	require.Equal(t, "postgres://app:secret@pg/blog", env.PostgresURL())
	require.Equal(t, "app@pg/blog via deploy@bastion", env.Describe())
}

func TestPort(t *testing.T) {
	env, err := FromValues("local", map[string]string{
		"username": "app",
		"password": "secret",
		"database": "shop",
		"hostname": "127.0.0.1",
		"port":     "33060",
	})
	require.NoError(t, err)
	require.Equal(t, 33060, env.Port())

	_, err = FromValues("local", map[string]string{
		"username": "app",
		"password": "secret",
		"database": "shop",
		"hostname": "127.0.0.1",
		"port":     "mysql",
	})
	require.EqualError(t, err, "invalid port for environment local: mysql")

	_, err = New(Params{Name: "local", Username: "a", Password: "b", Database: "c", Hostname: "d", Port: 70000})
	require.Error(t, err)
}

func TestCheckWritable(t *testing.T) {
	require.NoError(t, newEnv(t, Params{Database: "shop", Hostname: "db"}).CheckWritable())
	require.NoError(t, newEnv(t, Params{Database: "shop", Hostname: "db", ReadOnly: ReadOnlyAsk}).CheckWritable())

	err := newEnv(t, Params{Name: "production", Database: "shop", Hostname: "db", ReadOnly: ReadOnlyTrue}).CheckWritable()
	require.ErrorIs(t, err, ErrReadOnly)
	require.EqualError(t, err, "production: read-only environment")
}
