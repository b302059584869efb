package config

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/consts"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
)

type (
	// Credentials holds the environments of every project listed in the
	// credentials file.
	Credentials struct {
		projects map[string]*Project
	}

	// Project is the set of named environments of one project.
	Project struct {
		name         string
		environments map[string]*environment.Environment
	}
)

// NewCredentials groups values by project and then by environment.
func NewCredentials(values Values) (*Credentials, error) {
	projects := make(map[string]*Project)

	for _, name := range values.SubKeys() {
		project, err := newProject(name, values.Sub(name))
		if err != nil {
			return nil, err
		}
		projects[name] = project
	}

	return &Credentials{projects: projects}, nil
}

// LoadCredentials loads the credentials file at path.
func LoadCredentials(path string) (*Credentials, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot load the credentials from %s", path)
	}

	if info.IsDir() {
		return nil, errors.Errorf("cannot load the credentials from %s: not a file", path)
	}

	values, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	return NewCredentials(values)
}

// DefaultCredentialsPath returns the credentials file in the user's home directory.
func DefaultCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve home directory")
	}

	return filepath.Join(home, consts.CredentialsFile), nil
}

// Project returns the named project, or nil if the credentials do not know it.
func (c *Credentials) Project(name string) *Project {
	return c.projects[name]
}

func newProject(name string, values Values) (*Project, error) {
	environments := make(map[string]*environment.Environment)

	for _, envName := range values.SubKeys() {
		env, err := environment.FromValues(envName, values.Sub(envName))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid credentials for project %s", name)
		}
		environments[envName] = env
	}

	return &Project{name: name, environments: environments}, nil
}

// Name returns the project name.
func (p *Project) Name() string {
	return p.name
}

// Environment returns the named environment, or nil if it is not configured.
func (p *Project) Environment(name string) *environment.Environment {
	return p.environments[name]
}

// EnvironmentNames returns the configured environment names, sorted.
func (p *Project) EnvironmentNames() []string {
	names := make([]string, 0, len(p.environments))
	for name := range p.environments {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
