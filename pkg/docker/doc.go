// Package docker provides Docker integration for running temporary MySQL and
// PostgreSQL servers, used to exercise dialects and commands against a real
// database.
//
// Containers are managed through testcontainers-go. Once started, a container
// hands out an environment.Environment pointing at its mapped port, so the
// regular client processes (mysql, psql, ...) on the host can reach it.
//
// # Usage Example
//
//	container := docker.NewWithOptions(docker.DockerOptions{
//		Dialect:  "postgres",
//		Database: "shop",
//	})
//
//	ctx := context.Background()
//	defer container.Stop(ctx)
//
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	env, _ := container.Environment(ctx, "docker")
//	d, _ := dialect.New("postgres", process.New())
//	tables, _ := d.ListTables(ctx, env)
package docker
