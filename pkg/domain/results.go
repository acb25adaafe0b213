package domain

import (
	"sort"
	"strings"
)

// TestResult is the outcome of executing one test.
type TestResult struct {
	Status TestStatus
	// Duration is the run time in seconds.
	Duration  float64
	Message   string
	Traceback string
}

// RunResults attaches execution outcomes to a discovered tree.
// Results are keyed by test qualname.
type RunResults struct {
	Discovery *DiscoveryResult
	results   map[string]TestResult
	order     []string
}

// NewRunResults creates an empty result set over discovery.
func NewRunResults(discovery *DiscoveryResult) *RunResults {
	return &RunResults{
		Discovery: discovery,
		results:   make(map[string]TestResult),
	}
}

// Record stores the outcome for qualname. Recording the same qualname again
// (parametrized cases) merges the outcomes: the worse status wins, durations
// add up and messages are joined.
func (r *RunResults) Record(qualname string, result TestResult) {
	prev, ok := r.results[qualname]
	if !ok {
		r.results[qualname] = result
		r.order = append(r.order, qualname)
		return
	}

	merged := TestResult{
		Status:    prev.Status.Worse(result.Status),
		Duration:  prev.Duration + result.Duration,
		Message:   joinNonEmpty(prev.Message, result.Message),
		Traceback: joinNonEmpty(prev.Traceback, result.Traceback),
	}
	r.results[qualname] = merged
}

// Lookup returns the outcome recorded for qualname.
func (r *RunResults) Lookup(qualname string) (TestResult, bool) {
	res, ok := r.results[qualname]
	return res, ok
}

// Len returns the number of distinct qualnames recorded.
func (r *RunResults) Len() int {
	return len(r.results)
}

// Qualnames returns the recorded qualnames in recording order.
func (r *RunResults) Qualnames() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Unmatched returns the recorded qualnames that match no discovered test, sorted.
func (r *RunResults) Unmatched() []string {
	known := make(map[string]struct{})
	if r.Discovery != nil && r.Discovery.Root != nil {
		for _, t := range r.Discovery.AllTests() {
			known[t.Qualname] = struct{}{}
		}
	}

	var unmatched []string
	for _, name := range r.order {
		if _, ok := known[name]; !ok {
			unmatched = append(unmatched, name)
		}
	}
	sort.Strings(unmatched)
	return unmatched
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return strings.Join([]string{a, b}, "\n")
	}
}
