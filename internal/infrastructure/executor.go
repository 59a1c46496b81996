// Package infrastructure holds adapters that have no package of their own.
package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/haunted-sh/haunted/internal/domain"
	"github.com/haunted-sh/haunted/internal/ports"
)

// LocalExecutor runs commands on the host shell.
type LocalExecutor struct {
	shell string
}

// NewLocalExecutor builds a new executor, shell defaults to /bin/sh.
func NewLocalExecutor(shell string) *LocalExecutor {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return &LocalExecutor{shell: shell}
}

// Execute implements ports.CommandExecutor. A non-zero exit code is a normal
// outcome: the error return is reserved for the shell itself failing to
// start.
func (e *LocalExecutor) Execute(ctx context.Context, command string) (domain.ExecutionOutcome, error) {
	c := exec.CommandContext(ctx, e.shell, "-c", command)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()

	outcome := domain.ExecutionOutcome{
		Command:   command,
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Elapsed:   time.Since(start),
		Timestamp: start,
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		outcome.ExitCode = exitErr.ExitCode()
		return outcome, nil
	}
	if err != nil {
		return outcome, err
	}
	return outcome, nil
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
