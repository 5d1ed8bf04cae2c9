// Package cmdexec is the command-execution port for the orchestrator. All
// real side effects flow through a Runner; everything above it can be tested
// against the Fake without a live cluster.
package cmdexec

import (
	"context"
	"strings"
	"time"
)

// Command describes one control-plane invocation (kubectl, helm, docker).
type Command struct {
	Name    string
	Args    []string
	Env     map[string]string
	Dir     string
	Timeout time.Duration
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner executes external commands with a bounded timeout. Implementations
// carry no retry logic; retries are a step-level concern.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}
