package cmdexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	platformerrors "github.com/idp-platform/platformctl/pkg/errors"
)

const defaultTimeout = 60 * time.Second

// waitDelay bounds how long Run waits for pipe draining after the context
// kills the process, so a lingering child never blocks the caller.
const waitDelay = 5 * time.Second

// Local runs commands as subprocesses on the host.
type Local struct {
	DefaultTimeout time.Duration
}

// NewLocal creates a Local runner with the given default timeout. A zero or
// negative value falls back to 60 seconds.
func NewLocal(timeout time.Duration) *Local {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Local{DefaultTimeout: timeout}
}

var _ Runner = (*Local)(nil)

// Run executes the command, capturing stdout and stderr separately. A
// deadline overrun returns a TimeoutError; a non-zero exit returns an
// ExecutionError carrying stderr. The Result is returned in both cases so
// callers can inspect partial output.
func (l *Local) Run(ctx context.Context, cmd Command) (*Result, error) {
	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = l.DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	proc := exec.CommandContext(runCtx, cmd.Name, cmd.Args...)
	proc.WaitDelay = waitDelay
	if cmd.Dir != "" {
		proc.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		proc.Env = os.Environ()
		for k, v := range cmd.Env {
			proc.Env = append(proc.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	start := time.Now()
	err := proc.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.ExitCode = -1
		return result, platformerrors.NewTimeoutError(cmd.String(), timeout, err)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, platformerrors.NewCommandError(cmd.String(), strings.TrimSpace(result.Stderr), err)
	}

	result.ExitCode = -1
	return result, platformerrors.NewExecutionError(cmd.String(), err)
}
