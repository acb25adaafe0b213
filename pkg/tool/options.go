package tool

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/specvital/pyadapter/pkg/discovery"
)

const (
	DefaultPython    = "python3"
	DefaultDebugHost = "localhost"
	DefaultDebugPort = 5678
)

// Options configures a tool invocation.
type Options struct {
	// Root is the directory tests are discovered and run from.
	Root string

	// Python is the interpreter used to run the tool.
	Python string

	// Patterns restricts discovery to files matching any doublestar glob,
	// relative to Root. Empty means every candidate file.
	Patterns []string

	// Exclude lists directory names skipped in addition to
	// discovery.DefaultSkipPatterns.
	Exclude []string

	// Workers is the number of concurrent file parsers.
	// Zero uses runtime.GOMAXPROCS(0).
	Workers int

	// MaxFileSize skips files larger than this many bytes. Zero uses
	// discovery.DefaultMaxFileSize.
	MaxFileSize int64

	// Timeout bounds the whole command. Zero means no limit beyond
	// the discovery default.
	Timeout time.Duration

	// Args are extra arguments handed to the tool on run and debug.
	Args []string

	DebugHost string
	DebugPort int

	Logger zerolog.Logger
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// WithRoot sets the root directory.
func WithRoot(root string) Option {
	return func(o *Options) {
		if root != "" {
			o.Root = root
		}
	}
}

// WithPython sets the interpreter path.
func WithPython(python string) Option {
	return func(o *Options) {
		if python != "" {
			o.Python = python
		}
	}
}

// WithPatterns sets glob patterns to filter test files.
func WithPatterns(patterns []string) Option {
	return func(o *Options) {
		o.Patterns = patterns
	}
}

// WithExclude adds directory names to skip during discovery.
func WithExclude(dirs []string) Option {
	return func(o *Options) {
		o.Exclude = dirs
	}
}

// WithWorkers sets the number of concurrent file parsers.
// Negative values are ignored.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.Workers = n
		}
	}
}

// WithMaxFileSize sets the maximum file size to parse.
// Negative values are ignored.
func WithMaxFileSize(size int64) Option {
	return func(o *Options) {
		if size >= 0 {
			o.MaxFileSize = size
		}
	}
}

// WithTimeout sets the command timeout.
// Negative values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d >= 0 {
			o.Timeout = d
		}
	}
}

// WithArgs sets extra tool arguments.
func WithArgs(args []string) Option {
	return func(o *Options) {
		o.Args = args
	}
}

// WithDebugAddress sets where the debug adapter listens.
// An empty host or a non-positive port keeps the current value.
func WithDebugAddress(host string, port int) Option {
	return func(o *Options) {
		if host != "" {
			o.DebugHost = host
		}
		if port > 0 {
			o.DebugPort = port
		}
	}
}

// WithLogger sets the logger passed down to discovery and the runner.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// NewOptions returns Options with defaults applied, then opts.
func NewOptions(opts ...Option) Options {
	o := Options{
		Root:        ".",
		Python:      DefaultPython,
		MaxFileSize: discovery.DefaultMaxFileSize,
		DebugHost:   DefaultDebugHost,
		DebugPort:   DefaultDebugPort,
		Logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ScanOptions translates o into discovery walker options.
func (o Options) ScanOptions() []discovery.Option {
	opts := []discovery.Option{
		discovery.WithWorkers(o.Workers),
		discovery.WithExcludePatterns(o.Exclude),
		discovery.WithPatterns(o.Patterns),
		discovery.WithMaxFileSize(o.MaxFileSize),
		discovery.WithLogger(o.Logger),
	}
	if o.Timeout > 0 {
		opts = append(opts, discovery.WithTimeout(o.Timeout))
	}
	return opts
}
