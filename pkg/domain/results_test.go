package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunResults_Record(t *testing.T) {
	results := NewRunResults(nil)

	results.Record("a.test_x", TestResult{Status: TestStatusPass, Duration: 0.5})
	results.Record("a.test_y", TestResult{Status: TestStatusSkipped})

	res, ok := results.Lookup("a.test_x")
	require.True(t, ok)
	assert.Equal(t, TestStatusPass, res.Status)
	assert.Equal(t, 2, results.Len())
	assert.Equal(t, []string{"a.test_x", "a.test_y"}, results.Qualnames())

	_, ok = results.Lookup("a.test_z")
	assert.False(t, ok)
}

func TestRunResults_Record_Merges(t *testing.T) {
	tests := []struct {
		name  string
		first TestStatus
		then  TestStatus
		want  TestStatus
	}{
		{"pass then fail", TestStatusPass, TestStatusFail, TestStatusFail},
		{"fail then pass", TestStatusFail, TestStatusPass, TestStatusFail},
		{"fail then error", TestStatusFail, TestStatusError, TestStatusError},
		{"skipped then pass", TestStatusSkipped, TestStatusPass, TestStatusPass},
		{"skipped then skipped", TestStatusSkipped, TestStatusSkipped, TestStatusSkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := NewRunResults(nil)

			results.Record("a.test_p", TestResult{Status: tt.first, Duration: 1, Message: "one"})
			results.Record("a.test_p", TestResult{Status: tt.then, Duration: 2, Message: "two"})

			res, ok := results.Lookup("a.test_p")
			require.True(t, ok)
			assert.Equal(t, tt.want, res.Status)
			assert.InDelta(t, 3.0, res.Duration, 1e-9)
			assert.Equal(t, "one\ntwo", res.Message)
			assert.Equal(t, 1, results.Len())
		})
	}
}

func TestRunResults_Unmatched(t *testing.T) {
	root := NewTestFolder("/x", "x")
	file, _ := root.AddFile("test_a.py")
	_, _ = file.AddTest("test_one", 1)
	results := NewRunResults(NewDiscoveryResult(root, 1))

	results.Record("x.test_a.test_one", TestResult{Status: TestStatusPass})
	results.Record("x.test_a.test_gone", TestResult{Status: TestStatusFail})

	assert.Equal(t, []string{"x.test_a.test_gone"}, results.Unmatched())
}

func TestTestStatus_Worse(t *testing.T) {
	assert.Equal(t, TestStatusError, TestStatusFail.Worse(TestStatusError))
	assert.Equal(t, TestStatusPass, TestStatusUnknown.Worse(TestStatusPass))
	assert.Equal(t, TestStatusFail, TestStatusFail.Worse(TestStatusSkipped))
	assert.True(t, TestStatusError.Failed())
	assert.True(t, TestStatusPass.Passed())
	assert.False(t, TestStatusSkipped.Failed())
}
