package process

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// ErrInterrupted is returned when waiting for a process was interrupted rather
// than the process exiting on its own.
var ErrInterrupted = errors.New("wait interrupted")

type (
	// Request describes a single process invocation.
	Request struct {
		// Args is the argument vector; Args[0] is the program.
		Args []string

		// Env is a KEY=VALUE overlay applied on top of the current environment.
		Env []string

		// Stdin is an optional file fed to the process as standard input.
		Stdin string

		// Dir is the working directory, the current one when empty.
		Dir string

		// OnLine, when set, receives every stdout line in order instead of the
		// lines being collected into Result.Lines.
		OnLine func(line string) error
	}

	// Result is the outcome of a process that ran to completion.
	Result struct {
		Lines    []string
		ExitCode int
	}

	// Runner runs external processes.
	Runner interface {
		Run(ctx context.Context, req Request) (*Result, error)
	}

	// ExitError reports a process that exited with a non-zero code.
	ExitError struct {
		Step string
		Code int
	}

	// Exec is the Runner backed by os/exec.
	Exec struct {
		stderr io.Writer
	}
)

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit code was %d", e.Step, e.Code)
}

// Check returns an *ExitError naming step when the process did not exit cleanly.
func (r *Result) Check(step string) error {
	if r.ExitCode != 0 {
		return &ExitError{Step: step, Code: r.ExitCode}
	}

	return nil
}

// First returns the first output line, or an empty string when there is none.
func (r *Result) First() string {
	if len(r.Lines) == 0 {
		return ""
	}

	return r.Lines[0]
}

// New returns a Runner passing stderr of every process through to os.Stderr.
func New() *Exec {
	return &Exec{stderr: os.Stderr}
}

// NewWithStderr returns a Runner writing the stderr of every process to w.
func NewWithStderr(w io.Writer) *Exec {
	return &Exec{stderr: w}
}

// Run starts the process, drains its stdout line by line and waits for it.
func (e *Exec) Run(ctx context.Context, req Request) (*Result, error) {
	if len(req.Args) == 0 {
		return nil, errors.New("no program given")
	}

	cmd := exec.CommandContext(ctx, req.Args[0], req.Args[1:]...)
	cmd.Dir = req.Dir
	cmd.Stderr = e.stderr
	if len(req.Env) > 0 {
		cmd.Env = append(os.Environ(), req.Env...)
	}

	if req.Stdin != "" {
		in, err := os.Open(req.Stdin)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open stdin for %s", req.Args[0])
		}
		defer func() { _ = in.Close() }()
		cmd.Stdin = in
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to capture output of %s", req.Args[0])
	}

	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrapf(ErrInterrupted, "%s", req.Args[0])
		}
		return nil, errors.Wrapf(err, "failed to start %s", req.Args[0])
	}

	res := &Result{}
	if err := drain(stdout, req.OnLine, res); err != nil {
		// The process may block on a full pipe once we stop reading.
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, err
	}

	err = cmd.Wait()

	// A process that exited on its own keeps its exit code, even when the
	// context was cancelled before the wait returned.
	if state := cmd.ProcessState; state != nil && state.Exited() {
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) && ctx.Err() == nil {
			return nil, errors.Wrapf(err, "failed to wait for %s", req.Args[0])
		}

		res.ExitCode = state.ExitCode()
		return res, nil
	}

	if err == nil {
		return res, nil
	}

	if ctx.Err() != nil {
		return nil, errors.Wrapf(ErrInterrupted, "%s", req.Args[0])
	}

	if cmd.ProcessState != nil {
		return nil, errors.Wrapf(ErrInterrupted, "%s terminated by signal", req.Args[0])
	}

	return nil, errors.Wrapf(err, "failed to wait for %s", req.Args[0])
}

func drain(r io.Reader, onLine func(string) error, res *Result) error {
	reader := bufio.NewReader(r)

	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")

			if onLine != nil {
				if cbErr := onLine(line); cbErr != nil {
					return cbErr
				}
			} else {
				res.Lines = append(res.Lines, line)
			}
		}

		if err == io.EOF {
			return nil
		}

		if err != nil {
			return errors.Wrap(err, "failed to read process output")
		}
	}
}

// IsInterrupted reports whether err was caused by an interrupted wait.
func IsInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted)
}
