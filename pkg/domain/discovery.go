package domain

import (
	"fmt"
	"time"
)

// now is replaced in tests.
var now = time.Now

// DiscoveryResult is the outcome of one discovery run over a single test root.
type DiscoveryResult struct {
	Root *TestFolder
	// Timestamp is the capture time in seconds since the epoch.
	Timestamp int64
}

// NewDiscoveryResult wraps root. A zero timestamp is replaced by the current time.
func NewDiscoveryResult(root *TestFolder, timestamp int64) *DiscoveryResult {
	if timestamp == 0 {
		timestamp = now().Unix()
	}
	return &DiscoveryResult{
		Root:      root,
		Timestamp: timestamp,
	}
}

// DiscoveryResultFromDirname derives the root folder from dirname.
func DiscoveryResultFromDirname(dirname string, timestamp int64) (*DiscoveryResult, error) {
	root, err := FolderFromDirname(dirname)
	if err != nil {
		return nil, err
	}
	return NewDiscoveryResult(root, timestamp), nil
}

// AllTests returns every test under the root.
func (r *DiscoveryResult) AllTests() []*Test {
	return r.Root.AllTests()
}

// CountTests returns the number of tests under the root.
func (r *DiscoveryResult) CountTests() int {
	return r.Root.CountTests()
}

// Equal reports whether r and other hold identical trees and timestamps.
func (r *DiscoveryResult) Equal(other *DiscoveryResult) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Timestamp == other.Timestamp && r.Root.Equal(other.Root)
}

func (r *DiscoveryResult) String() string {
	return fmt.Sprintf("DiscoveryResults(root=%s, timestamp=%d)", r.Root, r.Timestamp)
}
