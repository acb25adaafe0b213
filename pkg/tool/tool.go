package tool

import (
	"context"

	"github.com/specvital/pyadapter/pkg/domain"
)

// Tool discovers and executes tests for one Python test tool.
type Tool interface {
	// Kind returns the tool identifier.
	Kind() Kind
	// Discover builds the test tree under opts.Root without running anything.
	Discover(ctx context.Context, opts Options) (*domain.DiscoveryResult, error)
	// Run executes the discovered tests and attaches their outcomes.
	Run(ctx context.Context, opts Options) (*domain.RunResults, error)
	// Debug is Run with the tool started under a debug adapter.
	Debug(ctx context.Context, opts Options) (*domain.RunResults, error)
}
