package domain

// TestStatus is the execution state of a test or container as shown by the UI.
// Discovery never sets it; run and debug carry the values reported by the tool.
type TestStatus string

const (
	TestStatusUnknown     TestStatus = "Unknown"
	TestStatusDiscovering TestStatus = "Discovering"
	TestStatusIdle        TestStatus = "Idle"
	TestStatusRunning     TestStatus = "Running"
	TestStatusFail        TestStatus = "Fail"
	TestStatusError       TestStatus = "Error"
	TestStatusSkipped     TestStatus = "Skipped"
	TestStatusPass        TestStatus = "Pass"
)

// severity orders terminal statuses when several outcomes merge into one.
func (s TestStatus) severity() int {
	switch s {
	case TestStatusError:
		return 4
	case TestStatusFail:
		return 3
	case TestStatusPass:
		return 2
	case TestStatusSkipped:
		return 1
	default:
		return 0
	}
}

// Worse returns whichever of s and other ranks higher.
// Error outranks Fail, which outranks Pass, which outranks Skipped.
func (s TestStatus) Worse(other TestStatus) TestStatus {
	if other.severity() > s.severity() {
		return other
	}
	return s
}

// Passed reports whether the status counts as a pass.
func (s TestStatus) Passed() bool {
	return s == TestStatusPass
}

// Failed reports whether the status counts as a failure (Fail or Error).
func (s TestStatus) Failed() bool {
	return s == TestStatusFail || s == TestStatusError
}
