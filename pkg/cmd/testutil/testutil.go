package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/pseudomuto/dbkeeper/pkg/config"
	"github.com/pseudomuto/dbkeeper/pkg/consts"
	"github.com/pseudomuto/dbkeeper/pkg/project"
	"github.com/stretchr/testify/require"
)

// ProjectFixture represents a test project with its credentials
type ProjectFixture struct {
	Dir         string
	Project     *project.Project
	Credentials *config.Credentials
	t           *testing.T

	credentials map[string]string
}

// TestProject creates an isolated temp directory with an initialized project
// named shop using the given dialect.
func TestProject(t *testing.T, dialectName string) *ProjectFixture {
	t.Helper()

	dir := t.TempDir()
	proj := project.New(dir)
	require.NoError(t, proj.Initialize(project.InitOptions{Name: "shop", Dialect: dialectName}), "Failed to initialize test project")

	fixture := &ProjectFixture{
		Dir:         dir,
		Project:     proj,
		t:           t,
		credentials: map[string]string{},
	}
	fixture.reloadCredentials()

	return fixture
}

// WithEnvironment adds the credentials of an environment. Values use the keys
// of the credentials file (hostname, ssh.hostname, readonly, ...). Username,
// password, database and hostname default to app, secret, shop and db.
func (p *ProjectFixture) WithEnvironment(name string, values map[string]string) *ProjectFixture {
	p.t.Helper()

	defaults := map[string]string{
		"username": "app",
		"password": "secret",
		"database": "shop",
		"hostname": "db",
	}
	for k, v := range values {
		defaults[k] = v
	}

	for k, v := range defaults {
		p.credentials[fmt.Sprintf("%s.%s.%s", p.Project.Config().Name, name, k)] = v
	}

	p.reloadCredentials()
	return p
}

// WithCreateScript replaces the content of the create script
func (p *ProjectFixture) WithCreateScript(sql string) *ProjectFixture {
	p.t.Helper()

	err := os.WriteFile(p.Project.Config().Create, []byte(sql), consts.ModeFile)
	require.NoError(p.t, err, "Failed to write create script")
	return p
}

// WithDataSet adds files to a data set directory under the populate root
func (p *ProjectFixture) WithDataSet(name string, files map[string]string) *ProjectFixture {
	p.t.Helper()

	dir := filepath.Join(p.Project.Config().Populate, name)
	require.NoError(p.t, os.MkdirAll(dir, consts.ModeDir), "Failed to create data set directory: %s", dir)

	for file, content := range files {
		err := os.WriteFile(filepath.Join(dir, file), []byte(content), consts.ModeFile)
		require.NoError(p.t, err, "Failed to write data set file: %s", file)
	}

	return p
}

// GetCredentialsPath returns the path of the credentials file written for the fixture
func (p *ProjectFixture) GetCredentialsPath() string {
	return filepath.Join(p.Dir, consts.CredentialsFile)
}

// GetPopulateDir returns the path of the populate root
func (p *ProjectFixture) GetPopulateDir() string {
	return p.Project.Config().Populate
}

// reloadCredentials writes the credentials file and loads it back
func (p *ProjectFixture) reloadCredentials() {
	p.t.Helper()

	keys := make([]string, 0, len(p.credentials))
	for k := range p.credentials {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("# test credentials\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, p.credentials[k])
	}

	path := p.GetCredentialsPath()
	require.NoError(p.t, os.WriteFile(path, []byte(b.String()), consts.ModeFile), "Failed to write credentials")

	creds, err := config.LoadCredentials(path)
	require.NoError(p.t, err, "Failed to load credentials")
	p.Credentials = creds
}
