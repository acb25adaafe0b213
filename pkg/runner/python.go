package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"
)

// MinPythonVersion is the oldest interpreter the tools are run with.
const MinPythonVersion = "3.7"

// ErrUnsupportedPython is returned when the interpreter is older than MinPythonVersion.
var ErrUnsupportedPython = errors.New("runner: unsupported python version")

// PythonVersion asks python for its version.
func PythonVersion(ctx context.Context, e Executor, python string) (*version.Version, error) {
	res, err := e.Run(ctx, Command{Name: python, Args: []string{"--version"}})
	if err != nil {
		return nil, fmt.Errorf("determine python version: %w", err)
	}

	// Python 2 and early 3.x print the version on stderr.
	out := strings.TrimSpace(string(res.Stdout))
	if out == "" {
		out = strings.TrimSpace(string(res.Stderr))
	}
	return ParsePythonVersion(out)
}

// ParsePythonVersion parses "Python 3.11.4" style output.
func ParsePythonVersion(output string) (*version.Version, error) {
	fields := strings.Fields(output)
	if len(fields) != 2 || fields[0] != "Python" {
		return nil, fmt.Errorf("unexpected python version output %q", output)
	}
	v, err := version.NewVersion(strings.TrimSuffix(fields[1], "+"))
	if err != nil {
		return nil, fmt.Errorf("parse python version %q: %w", fields[1], err)
	}
	return v, nil
}

// CheckPython verifies python is at least MinPythonVersion.
func CheckPython(ctx context.Context, e Executor, python string) (*version.Version, error) {
	v, err := PythonVersion(ctx, e, python)
	if err != nil {
		return nil, err
	}

	constraint, err := version.NewConstraint(">= " + MinPythonVersion)
	if err != nil {
		return nil, err
	}
	// Pre-releases do not satisfy constraints in go-version; compare the core.
	core := v.Core()
	if !constraint.Check(core) {
		return v, fmt.Errorf("%w: %s is %s, need >= %s", ErrUnsupportedPython, python, v, MinPythonVersion)
	}
	return v, nil
}
