// Package prompt asks the operator for interactive confirmation.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type (
	// Prompter asks a yes/no question and reports whether the operator agreed.
	Prompter interface {
		Confirm(message string) bool
	}

	// Func adapts a plain function to the Prompter interface.
	Func func(message string) bool

	// Terminal prompts on out and reads answers from in. Only the literal
	// answer "yes" counts as agreement; anything else, including EOF, is a refusal.
	Terminal struct {
		in  *bufio.Reader
		out io.Writer
	}
)

// Confirm implements Prompter.
func (f Func) Confirm(message string) bool {
	return f(message)
}

// New returns a Terminal prompter.
func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Confirm implements Prompter.
func (t *Terminal) Confirm(message string) bool {
	fmt.Fprint(t.out, message)

	answer, err := t.in.ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(t.out)
		return false
	}

	return strings.TrimSpace(answer) == "yes"
}

// Always returns a Prompter answering every question with answer.
func Always(answer bool) Prompter {
	return Func(func(string) bool { return answer })
}
