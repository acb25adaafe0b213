// Package junit reads JUnit XML reports written by pytest (--junitxml) and
// nose (--with-xunit).
package junit

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/specvital/pyadapter/pkg/domain"
)

// ErrUnexpectedRoot is returned when the document root is neither testsuites nor testsuite.
var ErrUnexpectedRoot = errors.New("junit: unexpected root element")

type report struct {
	XMLName xml.Name
	Suites  []testSuite `xml:"testsuite"`
	Cases   []testCase  `xml:"testcase"`
}

type testSuite struct {
	Name   string      `xml:"name,attr"`
	Suites []testSuite `xml:"testsuite"`
	Cases  []testCase  `xml:"testcase"`
}

type testCase struct {
	Name      string  `xml:"name,attr"`
	ClassName string  `xml:"classname,attr"`
	Time      string  `xml:"time,attr"`
	Failure   *detail `xml:"failure"`
	Error     *detail `xml:"error"`
	Skipped   *detail `xml:"skipped"`
}

type detail struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// Record is one test case outcome.
type Record struct {
	ClassName string
	Name      string
	Status    domain.TestStatus
	// Time is in seconds.
	Time      float64
	Message   string
	Traceback string
}

// Qualname maps the record onto the discovered tree rooted at rootQualname.
// Parametrized case ids ("test_x[1-2]") collapse onto their function.
func (r Record) Qualname(rootQualname string) string {
	parts := []string{rootQualname}
	if r.ClassName != "" {
		parts = append(parts, r.ClassName)
	}
	parts = append(parts, StripParams(r.Name))
	return strings.Join(parts, domain.QualnameSeparator)
}

// Result converts the record into a domain result.
func (r Record) Result() domain.TestResult {
	return domain.TestResult{
		Status:    r.Status,
		Duration:  r.Time,
		Message:   r.Message,
		Traceback: r.Traceback,
	}
}

// StripParams removes a trailing "[...]" parameter id.
func StripParams(name string) string {
	if i := strings.IndexByte(name, '['); i > 0 && strings.HasSuffix(name, "]") {
		return name[:i]
	}
	return name
}

// Parse reads a report and returns its test cases in document order.
func Parse(r io.Reader) ([]Record, error) {
	var rep report
	if err := xml.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("junit: decode report: %w", err)
	}

	var records []Record
	switch rep.XMLName.Local {
	case "testsuites":
		for _, s := range rep.Suites {
			records = appendSuite(records, s)
		}
	case "testsuite":
		records = appendSuite(records, testSuite{Suites: rep.Suites, Cases: rep.Cases})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnexpectedRoot, rep.XMLName.Local)
	}
	return records, nil
}

func appendSuite(records []Record, s testSuite) []Record {
	for _, c := range s.Cases {
		if c.Name == "" {
			continue
		}
		records = append(records, c.record())
	}
	for _, sub := range s.Suites {
		records = appendSuite(records, sub)
	}
	return records
}

func (c testCase) record() Record {
	rec := Record{
		ClassName: c.ClassName,
		Name:      c.Name,
		Status:    domain.TestStatusPass,
	}
	if t, err := strconv.ParseFloat(strings.TrimSpace(c.Time), 64); err == nil {
		rec.Time = t
	}

	var d *detail
	switch {
	case c.Error != nil:
		rec.Status, d = domain.TestStatusError, c.Error
	case c.Failure != nil:
		rec.Status, d = domain.TestStatusFail, c.Failure
	case c.Skipped != nil:
		rec.Status, d = domain.TestStatusSkipped, c.Skipped
	}
	if d != nil {
		rec.Message = d.Message
		rec.Traceback = strings.TrimSpace(d.Body)
	}
	return rec
}
