// Package processtest provides a scripted process.Runner for tests.
package processtest

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/pseudomuto/dbkeeper/pkg/process"
)

type (
	// Response is the scripted outcome of one process invocation.
	Response struct {
		Lines    []string
		ExitCode int
		Err      error
	}

	// Call is a recorded invocation. StdinContent holds the content of the
	// stdin file at the time of the call, since temporary files are gone
	// once the caller returns.
	Call struct {
		process.Request
		StdinContent string
	}

	// Runner records every request and answers with scripted responses.
	Runner struct {
		mu        sync.Mutex
		calls     []Call
		responses []Response

		// Respond, when set, decides the response for every request and the
		// queued responses are ignored.
		Respond func(req process.Request) Response
	}
)

// NewRunner returns a Runner answering requests with the given responses in
// order. Once they are used up every request succeeds with no output.
func NewRunner(responses ...Response) *Runner {
	return &Runner{responses: responses}
}

// Run implements process.Runner.
func (r *Runner) Run(_ context.Context, req process.Request) (*process.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	call := Call{Request: req}
	if req.Stdin != "" {
		data, err := os.ReadFile(req.Stdin)
		if err != nil {
			return nil, err
		}
		call.StdinContent = string(data)
	}
	r.calls = append(r.calls, call)

	var resp Response
	switch {
	case r.Respond != nil:
		resp = r.Respond(req)
	case len(r.responses) > 0:
		resp = r.responses[0]
		r.responses = r.responses[1:]
	}

	if resp.Err != nil {
		return nil, resp.Err
	}

	res := &process.Result{ExitCode: resp.ExitCode}
	for _, line := range resp.Lines {
		if req.OnLine != nil {
			if err := req.OnLine(line); err != nil {
				return nil, err
			}
			continue
		}
		res.Lines = append(res.Lines, line)
	}

	return res, nil
}

// Calls returns the recorded invocations in order.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Call(nil), r.calls...)
}

// Commands returns the argument vector of every call joined by spaces.
func (r *Runner) Commands() []string {
	calls := r.Calls()
	cmds := make([]string, len(calls))
	for i, c := range calls {
		cmds[i] = strings.Join(c.Args, " ")
	}

	return cmds
}
