// Package cli wires the testadapter command line to the tool dispatcher.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/specvital/pyadapter/internal/config"
	"github.com/specvital/pyadapter/pkg/tool"
	_ "github.com/specvital/pyadapter/pkg/tool/all"
)

// AppName is the binary and app name.
const AppName = "testadapter"

const envPrefix = "TESTADAPTER_"

// ErrMissingSubcommand is returned when no subcommand is given.
var ErrMissingSubcommand = errors.New("missing subcommand")

// App is the testadapter command line application.
type App struct {
	logger   zerolog.Logger
	cli      *cli.App
	registry *tool.Registry
	stdout   io.Writer
}

// New builds the app with logging on stderr and every tool registered.
func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger:   logger,
		registry: tool.DefaultRegistry(),
		stdout:   os.Stdout,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Discover, run and debug Python tests, reporting JSON on stdout",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "verbose",
					Usage:   "Enable verbose (debug) logging",
					EnvVars: []string{envPrefix + "VERBOSE"},
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
			// Exit codes are decided by the caller of Run.
			ExitErrHandler: func(*cli.Context, error) {},
		},
	}
	app.cli.Action = app.missingSubcommand

	app.cli.Commands = []*cli.Command{
		{
			Name:   tool.CommandDiscover.String(),
			Usage:  "Discover tests and print the discovery tree",
			Action: app.discover,
			Flags:  commandFlags(),
		},
		{
			Name:   tool.CommandRun.String(),
			Usage:  "Run tests and print their results",
			Action: app.run,
			Flags:  commandFlags(),
		},
		{
			Name:   tool.CommandDebug.String(),
			Usage:  "Run tests under debugpy, waiting for a debugger to attach",
			Action: app.debug,
			Flags:  commandFlags(),
		},
	}
	return app
}

func commandFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "tool",
			Usage:    "Test tool, one of: " + strings.Join(tool.Kinds(), ", "),
			EnvVars:  []string{envPrefix + "TOOL"},
			Required: true,
			Action: func(_ *cli.Context, name string) error {
				_, err := tool.ParseKind(name)
				return err
			},
		},
		&cli.StringFlag{
			Name:    "root",
			Usage:   "Directory to discover tests in",
			Value:   ".",
			EnvVars: []string{envPrefix + "ROOT"},
		},
		&cli.StringFlag{
			Name:    "python",
			Usage:   "Python interpreter used to run the tool",
			EnvVars: []string{envPrefix + "PYTHON"},
		},
		&cli.StringSliceFlag{
			Name:  "pattern",
			Usage: "Only consider files matching this glob, relative to the root (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Directory name to skip during discovery (repeatable)",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of files parsed concurrently (default: GOMAXPROCS)",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "Abort the command after this long",
			EnvVars: []string{envPrefix + "TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    "args",
			Usage:   "Extra arguments for the test tool, split like a shell would",
			EnvVars: []string{envPrefix + "ARGS"},
		},
		&cli.StringFlag{
			Name:  "debug-host",
			Usage: "Host debugpy listens on",
			Value: tool.DefaultDebugHost,
		},
		&cli.IntFlag{
			Name:  "debug-port",
			Usage: "Port debugpy listens on",
			Value: tool.DefaultDebugPort,
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Config file (default: " + config.FileName + " in the root, if present)",
			EnvVars: []string{envPrefix + "CONFIG"},
		},
	}
}

// Run parses args and executes the selected subcommand.
func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// RunContext is Run with a caller-controlled context.
func (a *App) RunContext(ctx context.Context, args []string) error {
	return a.cli.RunContext(ctx, args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && len(commit) >= 8 {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

func (a *App) missingSubcommand(ctx *cli.Context) error {
	if ctx.NArg() > 0 {
		return cli.Exit(fmt.Sprintf("unknown subcommand %q", ctx.Args().First()), 2)
	}
	return cli.Exit(ErrMissingSubcommand, 2)
}

func (a *App) discover(ctx *cli.Context) error {
	return a.dispatch(ctx, tool.CommandDiscover)
}

func (a *App) run(ctx *cli.Context) error {
	return a.dispatch(ctx, tool.CommandRun)
}

func (a *App) debug(ctx *cli.Context) error {
	return a.dispatch(ctx, tool.CommandDebug)
}

func (a *App) dispatch(ctx *cli.Context, cmd tool.Command) error {
	logger := a.logger.With().Str("run_id", uuid.NewString()).Logger()

	kind, err := tool.ParseKind(ctx.String("tool"))
	if err != nil {
		return cli.Exit(err, 2)
	}

	opts, err := a.options(ctx, logger)
	if err != nil {
		return cli.Exit(err, 2)
	}

	if err := tool.Dispatch(ctx.Context, a.registry, kind, cmd, opts, a.stdout); err != nil {
		logger.Error().Err(err).Str("tool", kind.String()).Msg("Command failed")
		return cli.Exit(err, 1)
	}
	return nil
}

// options layers defaults, the config file and flags, in that order.
func (a *App) options(ctx *cli.Context, logger zerolog.Logger) (tool.Options, error) {
	cfg, err := config.Find(ctx.String("root"), ctx.String("config"))
	if err != nil {
		return tool.Options{}, err
	}
	opts := cfg.Options()
	base := tool.NewOptions(opts...)

	if ctx.IsSet("root") {
		opts = append(opts, tool.WithRoot(ctx.String("root")))
	}
	if ctx.IsSet("python") {
		opts = append(opts, tool.WithPython(ctx.String("python")))
	}
	if ctx.IsSet("pattern") {
		opts = append(opts, tool.WithPatterns(ctx.StringSlice("pattern")))
	}
	if ctx.IsSet("exclude") {
		opts = append(opts, tool.WithExclude(ctx.StringSlice("exclude")))
	}
	if ctx.IsSet("workers") {
		if ctx.Int("workers") < 0 {
			return tool.Options{}, fmt.Errorf("--workers must not be negative, got %d", ctx.Int("workers"))
		}
		opts = append(opts, tool.WithWorkers(ctx.Int("workers")))
	}
	if ctx.IsSet("timeout") {
		opts = append(opts, tool.WithTimeout(ctx.Duration("timeout")))
	}
	if ctx.IsSet("args") {
		args, err := config.SplitArgs(ctx.String("args"))
		if err != nil {
			return tool.Options{}, err
		}
		opts = append(opts, tool.WithArgs(args))
	}
	if ctx.IsSet("debug-host") || ctx.IsSet("debug-port") {
		host, port := base.DebugHost, base.DebugPort
		if ctx.IsSet("debug-host") {
			host = ctx.String("debug-host")
		}
		if ctx.IsSet("debug-port") {
			port = ctx.Int("debug-port")
		}
		if host == "" || port <= 0 || port > 65535 {
			return tool.Options{}, fmt.Errorf("invalid debug address %s:%d", host, port)
		}
		opts = append(opts, tool.WithDebugAddress(host, port))
	}
	opts = append(opts, tool.WithLogger(logger))

	return tool.NewOptions(opts...), nil
}
