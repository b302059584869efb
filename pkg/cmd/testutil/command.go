package testutil

import (
	"bytes"
	"context"
	"testing"

	"github.com/urfave/cli/v3"
)

// Output holds what a command wrote to its writers
type Output struct {
	Stdout bytes.Buffer
	Stderr bytes.Buffer
}

// RunApp runs root with args, capturing its output. args start with the
// command name, without the program name.
func RunApp(t *testing.T, root *cli.Command, args ...string) (*Output, error) {
	t.Helper()
	return RunAppWithContext(t.Context(), t, root, args...)
}

// RunAppWithContext runs root with a custom context
func RunAppWithContext(ctx context.Context, t *testing.T, root *cli.Command, args ...string) (*Output, error) {
	t.Helper()

	out := new(Output)
	root.Writer = &out.Stdout
	root.ErrWriter = &out.Stderr

	fullArgs := append([]string{root.Name}, args...)
	return out, root.Run(ctx, fullArgs)
}
