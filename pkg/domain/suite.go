package domain

import "fmt"

// TestSuite groups tests, typically a test class. Suites nest.
type TestSuite struct {
	Qualname  string
	Filename  string
	Line      int
	Tests     []*Test
	Subsuites []*TestSuite
}

// NewTestSuite creates an empty suite. A line without a filename is rejected.
func NewTestSuite(qualname, filename string, line int) (*TestSuite, error) {
	if err := checkLocation(qualname, filename, line); err != nil {
		return nil, err
	}
	return &TestSuite{
		Qualname: qualname,
		Filename: filename,
		Line:     line,
	}, nil
}

// Name returns the display name of the suite.
func (s *TestSuite) Name() string {
	return DisplayName(s.Qualname)
}

// AddTest creates a test inside the suite and appends it.
func (s *TestSuite) AddTest(name string, line int) (*Test, error) {
	test, err := NewTest(joinQualname(s.Qualname, name), s.Filename, line)
	if err != nil {
		return nil, err
	}
	s.Tests = append(s.Tests, test)
	return test, nil
}

// AddSubsuite creates a nested suite and appends it.
func (s *TestSuite) AddSubsuite(name string, line int) (*TestSuite, error) {
	sub, err := NewTestSuite(joinQualname(s.Qualname, name), s.Filename, line)
	if err != nil {
		return nil, err
	}
	s.Subsuites = append(s.Subsuites, sub)
	return sub, nil
}

// AllTests returns the direct tests followed by the tests of each subsuite.
func (s *TestSuite) AllTests() []*Test {
	tests := make([]*Test, 0, len(s.Tests))
	tests = append(tests, s.Tests...)
	for _, sub := range s.Subsuites {
		tests = append(tests, sub.AllTests()...)
	}
	return tests
}

// CountTests returns the total number of tests in this suite and its subsuites.
func (s *TestSuite) CountTests() int {
	count := len(s.Tests)
	for _, sub := range s.Subsuites {
		count += sub.CountTests()
	}
	return count
}

// Equal reports whether s and other are structurally identical.
func (s *TestSuite) Equal(other *TestSuite) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Qualname == other.Qualname &&
		s.Filename == other.Filename &&
		s.Line == other.Line &&
		equalSlices(s.Tests, other.Tests) &&
		equalSlices(s.Subsuites, other.Subsuites)
}

func (s *TestSuite) String() string {
	return fmt.Sprintf("TestSuite(qualname=%q, filename=%s, lineno=%s, tests=%s, subsuites=%s)",
		s.Qualname, optString(s.Filename), optInt(s.Line),
		joinStrings(s.Tests), joinStrings(s.Subsuites))
}
