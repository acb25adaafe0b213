package discovery

import (
	"time"

	"github.com/rs/zerolog"
)

// ScanOptions configures walker behavior.
type ScanOptions struct {
	// ExcludePatterns specifies directory names to skip during file discovery.
	// These are combined with DefaultSkipPatterns.
	ExcludePatterns []string

	// MaxFileSize is the maximum file size in bytes to process.
	// Files larger than this are skipped. Zero or negative values use
	// DefaultMaxFileSize; there is no unlimited setting.
	MaxFileSize int64

	// Patterns specifies doublestar globs, relative to the root, that a
	// candidate must match. Empty means all candidates are processed.
	Patterns []string

	// Timeout is the maximum duration for the entire walk.
	// Zero or negative values use DefaultTimeout.
	Timeout time.Duration

	// Workers specifies the number of concurrent file parsers.
	// Zero or negative values use runtime.GOMAXPROCS(0).
	Workers int

	Logger zerolog.Logger
}

// Option is a functional option for configuring Walker.
type Option func(*ScanOptions)

// WithWorkers sets the number of concurrent file parsers.
// Negative values are ignored.
func WithWorkers(n int) Option {
	return func(o *ScanOptions) {
		if n >= 0 {
			o.Workers = n
		}
	}
}

// WithTimeout sets the walk timeout duration.
// Negative values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *ScanOptions) {
		if d >= 0 {
			o.Timeout = d
		}
	}
}

// WithExcludePatterns adds directory names to skip during file discovery.
func WithExcludePatterns(patterns []string) Option {
	return func(o *ScanOptions) {
		o.ExcludePatterns = patterns
	}
}

// WithMaxFileSize sets the maximum file size to process.
// Zero selects DefaultMaxFileSize. Negative values are ignored.
func WithMaxFileSize(size int64) Option {
	return func(o *ScanOptions) {
		if size >= 0 {
			o.MaxFileSize = size
		}
	}
}

// WithPatterns sets glob patterns to filter test files.
func WithPatterns(patterns []string) Option {
	return func(o *ScanOptions) {
		o.Patterns = patterns
	}
}

// WithLogger sets the logger used for skipped files and per-file errors.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *ScanOptions) {
		o.Logger = logger
	}
}

func applyDefaults(opts *ScanOptions) {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
}

func newDefaultOptions() ScanOptions {
	return ScanOptions{
		Logger: zerolog.Nop(),
	}
}
