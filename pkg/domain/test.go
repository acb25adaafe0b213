package domain

import (
	"fmt"
	"strings"
)

// Test is a single discovered test function or method.
type Test struct {
	// Qualname is the dotted name of the test (e.g. "x.y.z.ATests.test_a").
	Qualname string
	// Filename is the source file, empty when unknown.
	Filename string
	// Line is the 1-based definition line, zero when unknown.
	Line int
}

// NewTest creates a test. A line without a filename is rejected.
func NewTest(qualname, filename string, line int) (*Test, error) {
	if err := checkLocation(qualname, filename, line); err != nil {
		return nil, err
	}
	return &Test{
		Qualname: qualname,
		Filename: filename,
		Line:     line,
	}, nil
}

// Name returns the display name of the test.
func (t *Test) Name() string {
	return DisplayName(t.Qualname)
}

// Equal reports whether t and other have the same fields.
func (t *Test) Equal(other *Test) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Qualname == other.Qualname &&
		t.Filename == other.Filename &&
		t.Line == other.Line
}

func (t *Test) String() string {
	return fmt.Sprintf("Test(qualname=%q, filename=%s, lineno=%s)",
		t.Qualname, optString(t.Filename), optInt(t.Line))
}

func checkLocation(qualname, filename string, line int) error {
	if line != 0 && filename == "" {
		return fmt.Errorf("%s: %w", qualname, ErrMissingFilename)
	}
	return nil
}

func optString(s string) string {
	if s == "" {
		return "None"
	}
	return fmt.Sprintf("%q", s)
}

func optInt(n int) string {
	if n == 0 {
		return "None"
	}
	return fmt.Sprintf("%d", n)
}

func joinStrings[T fmt.Stringer](items []T) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func equalSlices[T interface{ Equal(T) bool }](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
