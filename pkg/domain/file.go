package domain

import "fmt"

// TestFile is a Python module holding suites and module-level tests.
type TestFile struct {
	// Filename is the path of the module.
	Filename string
	// Qualname is the dotted module path.
	Qualname string
	// Suites contains the top-level suites in this file.
	Suites []*TestSuite
	// Tests contains the top-level tests in this file (outside any suite).
	Tests []*Test
}

// NewTestFile creates an empty test file.
func NewTestFile(filename, qualname string) *TestFile {
	return &TestFile{
		Filename: filename,
		Qualname: qualname,
	}
}

// Name returns the display name of the file (its module name).
func (f *TestFile) Name() string {
	return DisplayName(f.Qualname)
}

// AddSuite creates a top-level suite in the file and appends it.
func (f *TestFile) AddSuite(name string, line int) (*TestSuite, error) {
	suite, err := NewTestSuite(joinQualname(f.Qualname, name), f.Filename, line)
	if err != nil {
		return nil, err
	}
	f.Suites = append(f.Suites, suite)
	return suite, nil
}

// AddTest creates a module-level test and appends it.
func (f *TestFile) AddTest(name string, line int) (*Test, error) {
	test, err := NewTest(joinQualname(f.Qualname, name), f.Filename, line)
	if err != nil {
		return nil, err
	}
	f.Tests = append(f.Tests, test)
	return test, nil
}

// AllTests returns the module-level tests followed by the tests of each suite.
func (f *TestFile) AllTests() []*Test {
	tests := make([]*Test, 0, len(f.Tests))
	tests = append(tests, f.Tests...)
	for _, s := range f.Suites {
		tests = append(tests, s.AllTests()...)
	}
	return tests
}

// CountTests returns the total number of tests in this file.
func (f *TestFile) CountTests() int {
	count := len(f.Tests)
	for _, s := range f.Suites {
		count += s.CountTests()
	}
	return count
}

// Equal reports whether f and other are structurally identical.
func (f *TestFile) Equal(other *TestFile) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.Filename == other.Filename &&
		f.Qualname == other.Qualname &&
		equalSlices(f.Suites, other.Suites) &&
		equalSlices(f.Tests, other.Tests)
}

func (f *TestFile) String() string {
	return fmt.Sprintf("TestFile(filename=%q, qualname=%q, suites=%s, tests=%s)",
		f.Filename, f.Qualname, joinStrings(f.Suites), joinStrings(f.Tests))
}
