package tool

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/specvital/pyadapter/pkg/discovery"
	"github.com/specvital/pyadapter/pkg/domain"
	"github.com/specvital/pyadapter/pkg/runner"
)

// ErrToolFailed is returned when a tool exits with a code that does not
// mean "some tests failed".
var ErrToolFailed = errors.New("tool: test tool failed")

// Outcome is one result reported by a tool, keyed by the qualname it maps to.
type Outcome struct {
	Qualname string
	Result   domain.TestResult
}

// DiscoverWith walks opts.Root using reader.
func DiscoverWith(ctx context.Context, reader discovery.Reader, opts Options) (*domain.DiscoveryResult, error) {
	res, err := discovery.NewWalker(reader, opts.ScanOptions()...).Walk(ctx, opts.Root)
	if err != nil {
		return nil, err
	}
	return res.Discovery, nil
}

// ModuleCommand builds "python -m module args... opts.Args" run from the
// absolute root. With debug set the module is started under debugpy and
// waits for a client on opts.DebugHost:opts.DebugPort.
func ModuleCommand(opts Options, debug bool, module string, args ...string) (runner.Command, error) {
	dir, err := filepath.Abs(opts.Root)
	if err != nil {
		return runner.Command{}, fmt.Errorf("resolve root %s: %w", opts.Root, err)
	}

	var argv []string
	if debug {
		addr := net.JoinHostPort(opts.DebugHost, strconv.Itoa(opts.DebugPort))
		argv = append(argv, "-m", "debugpy", "--listen", addr, "--wait-for-client")
	}
	argv = append(argv, "-m", module)
	argv = append(argv, args...)
	argv = append(argv, opts.Args...)

	return runner.Command{Name: opts.Python, Args: argv, Dir: dir}, nil
}

// ExecutorOrDefault returns e, or a local executor logging through opts.Logger.
func ExecutorOrDefault(e runner.Executor, opts Options) runner.Executor {
	if e != nil {
		return e
	}
	return runner.New(opts.Logger)
}

// Execute checks the interpreter, then runs cmd. Exit codes listed in ok
// are not errors. Exit code 0 is always accepted.
func Execute(ctx context.Context, e runner.Executor, cmd runner.Command, logger zerolog.Logger, ok ...int) (*runner.Result, error) {
	v, err := runner.CheckPython(ctx, e, cmd.Name)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("python", v.String()).Str("command", cmd.String()).Msg("Starting test tool")

	res, err := e.Run(ctx, cmd)
	if err == nil {
		return res, nil
	}

	code := runner.ExitCode(err)
	if code >= 0 && slices.Contains(ok, code) {
		logger.Info().Int("exit_code", code).Msg("Tests completed with failures")
		return res, nil
	}
	if code >= 0 {
		var exitErr *runner.ExitError
		errors.As(err, &exitErr)
		return res, fmt.Errorf("%w: %w: %s", ErrToolFailed, err, exitErr.Stderr)
	}
	return res, err
}

// Collect records outcomes onto a result set over discovered. Outcomes that
// match no discovered test are kept and logged.
func Collect(discovered *domain.DiscoveryResult, outcomes []Outcome, logger zerolog.Logger) *domain.RunResults {
	results := domain.NewRunResults(discovered)
	for _, o := range outcomes {
		results.Record(o.Qualname, o.Result)
	}
	for _, q := range results.Unmatched() {
		logger.Warn().Str("qualname", q).Msg("Result does not match a discovered test")
	}
	return results
}
