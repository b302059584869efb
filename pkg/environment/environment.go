package environment

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// ErrReadOnly is returned for writes against an environment whose readonly
// policy is true.
var ErrReadOnly = errors.New("read-only environment")

// ReadOnly is the policy guarding destructive operations against an environment.
type ReadOnly int

const (
	// ReadOnlyFalse allows destructive operations without asking
	ReadOnlyFalse ReadOnly = iota

	// ReadOnlyTrue refuses every destructive operation
	ReadOnlyTrue

	// ReadOnlyAsk asks the operator for confirmation before destructive operations
	ReadOnlyAsk
)

// ParseReadOnly parses the readonly value of an environment. An empty value
// means the environment is writable.
func ParseReadOnly(value string) (ReadOnly, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "false":
		return ReadOnlyFalse, nil
	case "true":
		return ReadOnlyTrue, nil
	case "ask":
		return ReadOnlyAsk, nil
	default:
		return ReadOnlyFalse, errors.Errorf("invalid readonly value: %s", value)
	}
}

func (r ReadOnly) String() string {
	switch r {
	case ReadOnlyTrue:
		return "true"
	case ReadOnlyAsk:
		return "ask"
	default:
		return "false"
	}
}

type (
	// Params holds the values an Environment is built from.
	Params struct {
		Name        string
		Username    string
		Password    string
		Database    string
		Hostname    string
		Port        int
		SSHHostname string
		SSHUsername string
		ReadOnly    ReadOnly
	}

	// Environment is an immutable, named database connection descriptor.
	Environment struct {
		name        string
		username    string
		password    string
		database    string
		hostname    string
		port        int
		sshHostname string
		sshUsername string
		readOnly    ReadOnly
	}
)

// New validates the params and returns the Environment they describe.
func New(p Params) (*Environment, error) {
	required := []struct{ key, value string }{
		{"name", p.Name},
		{"username", p.Username},
		{"password", p.Password},
		{"database", p.Database},
		{"hostname", p.Hostname},
	}

	for _, r := range required {
		if r.value == "" {
			return nil, errors.Errorf("%s not found for environment: %s", r.key, p.Name)
		}
	}

	if p.Port < 0 || p.Port > 65535 {
		return nil, errors.Errorf("invalid port for environment %s: %d", p.Name, p.Port)
	}

	if strings.EqualFold(p.SSHHostname, "localhost") || p.SSHHostname == "127.0.0.1" {
		return nil, errors.Errorf("ssh.hostname cannot be set to %s", p.SSHHostname)
	}

	return &Environment{
		name:        p.Name,
		username:    p.Username,
		password:    p.Password,
		database:    p.Database,
		hostname:    p.Hostname,
		port:        p.Port,
		sshHostname: p.SSHHostname,
		sshUsername: p.SSHUsername,
		readOnly:    p.ReadOnly,
	}, nil
}

// FromValues builds the named Environment from the keys of a credentials group
// (username, password, database, hostname, port, ssh.hostname, ssh.username, readonly).
func FromValues(name string, values map[string]string) (*Environment, error) {
	readOnly, err := ParseReadOnly(values["readonly"])
	if err != nil {
		return nil, errors.Wrapf(err, "environment %s", name)
	}

	var port int
	if v := values["port"]; v != "" {
		if port, err = strconv.Atoi(v); err != nil {
			return nil, errors.Errorf("invalid port for environment %s: %s", name, v)
		}
	}

	return New(Params{
		Name:        name,
		Username:    values["username"],
		Password:    values["password"],
		Database:    values["database"],
		Hostname:    values["hostname"],
		Port:        port,
		SSHHostname: values["ssh.hostname"],
		SSHUsername: values["ssh.username"],
		ReadOnly:    readOnly,
	})
}

func (e *Environment) Name() string        { return e.name }
func (e *Environment) Username() string    { return e.username }
func (e *Environment) Password() string    { return e.password }
func (e *Environment) Database() string    { return e.database }
func (e *Environment) Hostname() string    { return e.hostname }
func (e *Environment) Port() int           { return e.port }
func (e *Environment) SSHHostname() string { return e.sshHostname }
func (e *Environment) SSHUsername() string { return e.sshUsername }
func (e *Environment) ReadOnly() ReadOnly  { return e.readOnly }

// CheckWritable returns ErrReadOnly when the environment refuses every write.
// Environments asking for confirmation are writable here; asking is up to the
// caller.
func (e *Environment) CheckWritable() error {
	if e.readOnly == ReadOnlyTrue {
		return errors.Wrapf(ErrReadOnly, "%s", e.name)
	}

	return nil
}

// IsSSH reports whether database clients must run on an SSH jump host.
func (e *Environment) IsSSH() bool {
	return e.sshHostname != ""
}

// SSHTarget returns the ssh destination (user@host or host), or an empty string
// when the environment is reached directly.
func (e *Environment) SSHTarget() string {
	if e.sshHostname == "" {
		return ""
	}

	if e.sshUsername == "" {
		return e.sshHostname
	}

	return e.sshUsername + "@" + e.sshHostname
}

// Same reports whether both environments point at the same database, comparing
// database, hostname and SSH hostname case-insensitively.
func (e *Environment) Same(other *Environment) bool {
	if e == nil || other == nil {
		return false
	}

	return strings.EqualFold(e.database, other.database) &&
		strings.EqualFold(e.hostname, other.hostname) &&
		strings.EqualFold(e.sshHostname, other.sshHostname)
}

// Address returns host:port when a port is configured, the bare hostname otherwise.
func (e *Environment) Address() string {
	if e.port == 0 {
		return e.hostname
	}

	return net.JoinHostPort(e.hostname, strconv.Itoa(e.port))
}

// Describe renders user@host/database for reports. It never includes the password.
func (e *Environment) Describe() string {
	s := e.username + "@" + e.Address() + "/" + e.database
	if e.IsSSH() {
		s += " via " + e.SSHTarget()
	}

	return s
}

// MySQLDSN renders the environment as a go-sql-driver DSN.
func (e *Environment) MySQLDSN() string {
	cfg := mysql.NewConfig()
	cfg.User = e.username
	cfg.Passwd = e.password
	cfg.Net = "tcp"
	cfg.Addr = e.Address()
	cfg.DBName = e.database

	return cfg.FormatDSN()
}

// PostgresURL renders the environment as a postgres:// connection URL.
func (e *Environment) PostgresURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(e.username, e.password),
		Host:   e.Address(),
		Path:   "/" + e.database,
	}

	return u.String()
}
