// Package runner executes test tool subprocesses and captures their output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/rs/zerolog"
)

// ErrStart is returned when a command could not be started at all.
var ErrStart = errors.New("runner: failed to start command")

// Command describes one subprocess invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is appended to the current environment.
	Env []string
}

// String renders the command line with shell quoting, for logs.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, shellescape.Quote(c.Name))
	for _, arg := range c.Args {
		parts = append(parts, shellescape.Quote(arg))
	}
	return strings.Join(parts, " ")
}

// Result is the captured outcome of a finished command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// ExitError reports a command that ran to completion with a non-zero exit code.
// Test tools exit non-zero when tests fail, so callers decide which codes are fatal.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
}

// ExitCode returns the exit code carried by err, or -1 when err is not an ExitError.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}
	return -1
}

// Executor runs commands.
type Executor interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// Exec runs commands as local subprocesses.
type Exec struct {
	logger zerolog.Logger
}

// New returns an Exec that logs through logger.
func New(logger zerolog.Logger) *Exec {
	return &Exec{logger: logger}
}

// Run starts cmd, waits for it and returns its captured output. A non-zero
// exit yields both the Result and an *ExitError.
func (e *Exec) Run(ctx context.Context, cmd Command) (*Result, error) {
	e.logger.Debug().
		Str("command", cmd.String()).
		Str("dir", cmd.Dir).
		Msg("Running command")

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("%s: %w", cmd.Name, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			e.logger.Debug().
				Int("exit_code", result.ExitCode).
				Dur("duration", result.Duration).
				Msg("Command exited non-zero")
			return result, &ExitError{
				Command:  cmd.Name,
				ExitCode: result.ExitCode,
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrStart, cmd.Name, err)
	}

	e.logger.Debug().Dur("duration", result.Duration).Msg("Command finished")
	return result, nil
}
