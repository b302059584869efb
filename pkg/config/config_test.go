package config_test

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/pseudomuto/dbkeeper/pkg/config"
	"github.com/pseudomuto/dbkeeper/pkg/consts"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/dbpass
var testCredentials string

func TestParse(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		values, err := Parse(strings.NewReader(`
# comment
name=shop

  database.dialect = mysql
database.create=db/create.sql
url=jdbc:mysql://host/db?a=b
`))
		require.NoError(t, err)
		require.Equal(t, Values{
			"name":             "shop",
			"database.dialect": "mysql",
			"database.create":  "db/create.sql",
			"url":              "jdbc:mysql://host/db?a=b",
		}, values)
	})

	t.Run("error", func(t *testing.T) {
		values, err := Parse(strings.NewReader("name=shop\n\nbroken line\n"))
		require.Error(t, err)
		require.Nil(t, values)
		require.Contains(t, err.Error(), "invalid line at #3: broken line")
	})
}

func TestValues_Grouping(t *testing.T) {
	values := Values{
		"name":                    "ignored",
		"shop.local.username":     "root",
		"shop.local.ssh.hostname": "bastion",
		"blog.local.username":     "admin",
	}

	require.Equal(t, []string{"blog", "shop"}, values.SubKeys())

	shop := values.Sub("shop")
	require.Equal(t, Values{
		"local.username":     "root",
		"local.ssh.hostname": "bastion",
	}, shop)
	require.Equal(t, []string{"local"}, shop.SubKeys())
	require.Equal(t, Values{"username": "root", "ssh.hostname": "bastion"}, shop.Sub("local"))
	require.Empty(t, values.Sub("missing"))
}

func TestNewCredentials(t *testing.T) {
	values, err := Parse(strings.NewReader(testCredentials))
	require.NoError(t, err)

	creds, err := NewCredentials(values)
	require.NoError(t, err)

	shop := creds.Project("shop")
	require.NotNil(t, shop)
	require.Equal(t, "shop", shop.Name())
	require.Equal(t, []string{"local", "production"}, shop.EnvironmentNames())

	prod := shop.Environment("production")
	require.NotNil(t, prod)
	require.Equal(t, "p=ss=word", prod.Password())
	require.Equal(t, "deploy@bastion.example.com", prod.SSHTarget())
	require.Equal(t, environment.ReadOnlyAsk, prod.ReadOnly())

	local := shop.Environment("local")
	require.False(t, local.IsSSH())
	require.Equal(t, environment.ReadOnlyFalse, local.ReadOnly())

	require.Nil(t, shop.Environment("staging"))
	require.Nil(t, creds.Project("unknown"))
	require.NotNil(t, creds.Project("blog"))
}

func TestNewCredentials_InvalidEnvironment(t *testing.T) {
	creds, err := NewCredentials(Values{
		"shop.remote.username":     "u",
		"shop.remote.password":     "p",
		"shop.remote.database":     "d",
		"shop.remote.hostname":     "h",
		"shop.remote.ssh.hostname": "localhost",
	})
	require.Error(t, err)
	require.Nil(t, creds)
	require.Contains(t, err.Error(), "invalid credentials for project shop")
	require.Contains(t, err.Error(), "ssh.hostname cannot be set to localhost")
}

func TestLoadCredentials(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), consts.CredentialsFile)
		require.NoError(t, os.WriteFile(path, []byte(testCredentials), consts.ModeFile))

		creds, err := LoadCredentials(path)
		require.NoError(t, err)
		require.NotNil(t, creds.Project("shop"))
	})

	t.Run("missing file", func(t *testing.T) {
		creds, err := LoadCredentials(filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		require.Nil(t, creds)
		require.Contains(t, err.Error(), "cannot load the credentials")
	})

	t.Run("directory", func(t *testing.T) {
		creds, err := LoadCredentials(t.TempDir())
		require.Error(t, err)
		require.Nil(t, creds)
		require.Contains(t, err.Error(), "not a file")
	})
}
