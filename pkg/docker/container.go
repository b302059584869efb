package docker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/dialect"
	"github.com/pseudomuto/dbkeeper/pkg/environment"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultMySQLVersion is the mysql image tag used when none is given
	DefaultMySQLVersion = "8.0"

	// DefaultPostgresVersion is the postgres image tag used when none is given
	DefaultPostgresVersion = "16-alpine"

	// DefaultDatabase is the database created in the container
	DefaultDatabase = "dbkeeper"

	// DefaultUsername is the account created in the container
	DefaultUsername = "dbkeeper"

	// DefaultPassword is the password of DefaultUsername
	DefaultPassword = "dbkeeper"

	startupTimeout = 3 * time.Minute
)

type (
	// DockerOptions represents options for running a database server in Docker
	DockerOptions struct {
		// Dialect selects the server image: mysql or postgres
		Dialect string

		// Version is the image tag to run (default: DefaultMySQLVersion or DefaultPostgresVersion)
		Version string

		// Database, Username and Password configure the account the server is
		// initialized with. They default to DefaultDatabase, DefaultUsername and
		// DefaultPassword.
		Database string
		Username string
		Password string
	}

	// Container manages a throwaway MySQL or PostgreSQL server, used to run
	// dialects against a real database.
	Container struct {
		options   DockerOptions
		port      nat.Port
		container testcontainers.Container
	}
)

// New creates a new Docker container for the given dialect with default options
//
// Example:
//
//	container := docker.New("postgres")
//
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer container.Stop(ctx)
func New(dialectName string) *Container {
	return NewWithOptions(DockerOptions{Dialect: dialectName})
}

// NewWithOptions creates a new Docker container with custom options
//
// Example:
//
//	opts := docker.DockerOptions{
//		Dialect:  "mysql",
//		Version:  "8.4",
//		Database: "shop",
//	}
//	container := docker.NewWithOptions(opts)
func NewWithOptions(opts DockerOptions) *Container {
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Username == "" {
		opts.Username = DefaultUsername
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}

	return &Container{options: opts}
}

// Start starts the database server and waits until it accepts connections
func (c *Container) Start(ctx context.Context) error {
	if c.container != nil {
		return errors.New("container is already running")
	}

	req, err := c.request()
	if err != nil {
		return err
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to start %s container", req.Image)
	}

	c.container = container
	return nil
}

// Stop stops and removes the Docker container
func (c *Container) Stop(ctx context.Context) error {
	if c.container == nil {
		return nil // Already stopped
	}

	err := c.container.Terminate(ctx)
	c.container = nil

	if err != nil {
		return errors.Wrap(err, "failed to stop container")
	}

	return nil
}

// Environment returns a writable environment pointing at the running server
// through its mapped port.
func (c *Container) Environment(ctx context.Context, name string) (*environment.Environment, error) {
	if c.container == nil {
		return nil, errors.New("container is not running")
	}

	host, err := c.container.Host(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get container host")
	}

	// mysql treats localhost as a request for the unix socket
	if host == "localhost" {
		host = "127.0.0.1"
	}

	port, err := c.container.MappedPort(ctx, c.port)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get container port")
	}

	return environment.New(environment.Params{
		Name:     name,
		Username: c.options.Username,
		Password: c.options.Password,
		Database: c.options.Database,
		Hostname: host,
		Port:     port.Int(),
	})
}

// IsRunning returns true if the container is currently running
func (c *Container) IsRunning() bool {
	return c.container != nil
}

func (c *Container) request() (testcontainers.ContainerRequest, error) {
	version := c.options.Version

	switch strings.ToLower(c.options.Dialect) {
	case dialect.MySQLName:
		if version == "" {
			version = DefaultMySQLVersion
		}

		env := map[string]string{
			"MYSQL_ROOT_PASSWORD": c.options.Password,
			"MYSQL_DATABASE":      c.options.Database,
		}

		// root always exists, the image refuses to create it again
		if c.options.Username != "root" {
			env["MYSQL_USER"] = c.options.Username
			env["MYSQL_PASSWORD"] = c.options.Password
		}

		c.port = nat.Port("3306/tcp")
		return testcontainers.ContainerRequest{
			Image:        fmt.Sprintf("mysql:%s", version),
			ExposedPorts: []string{string(c.port)},
			Env:          env,
			WaitingFor: wait.ForAll(
				wait.ForLog("port: 3306  MySQL Community Server"),
				wait.ForListeningPort(c.port),
			).WithDeadline(startupTimeout),
		}, nil

	case dialect.PostgresName, "postgresql":
		if version == "" {
			version = DefaultPostgresVersion
		}

		c.port = nat.Port("5432/tcp")
		return testcontainers.ContainerRequest{
			Image:        fmt.Sprintf("postgres:%s", version),
			ExposedPorts: []string{string(c.port)},
			Env: map[string]string{
				"POSTGRES_DB":       c.options.Database,
				"POSTGRES_USER":     c.options.Username,
				"POSTGRES_PASSWORD": c.options.Password,
			},
			// the server restarts once after running the init scripts
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort(c.port),
			).WithDeadline(startupTimeout),
		}, nil

	default:
		return testcontainers.ContainerRequest{}, errors.Wrapf(dialect.ErrUnknownDialect, "%q", c.options.Dialect)
	}
}
