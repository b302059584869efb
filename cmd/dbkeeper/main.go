package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pseudomuto/dbkeeper/pkg/cmd"
	"github.com/pseudomuto/dbkeeper/pkg/config"
	"github.com/pseudomuto/dbkeeper/pkg/project"
	"go.uber.org/fx"
)

// NB: These are set by GoReleaser during a build.
var (
	version string
	commit  string
	date    string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := fx.New(
		fx.NopLogger,
		fx.Supply(
			os.Args,
			&cmd.Version{
				Version:   version,
				Commit:    commit,
				Timestamp: date,
			},
		),
		fx.Provide(func() context.Context { return ctx }),
		config.Module,
		project.Module,
		cmd.Module,
	)

	// The command runs in the start hook, so there is no start deadline.
	if err := app.Start(ctx); err != nil {
		slog.Error("Error starting dbkeeper", "err", err)
		stop()
		os.Exit(1)
	}

	sig := <-app.Wait()
	_ = app.Stop(context.Background())

	stop()
	os.Exit(sig.ExitCode)
}
