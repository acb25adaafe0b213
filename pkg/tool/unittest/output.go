package unittest

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/specvital/pyadapter/pkg/domain"
)

// Result is one test outcome read from "python -m unittest -v" output.
type Result struct {
	// ID is the dotted test id: module path, class and method.
	ID        string
	Status    domain.TestStatus
	Message   string
	Traceback string
}

var (
	// "test_x (pkg.mod.Class) ... ok" before 3.11, "(pkg.mod.Class.test_x)" after.
	resultLine = regexp.MustCompile(`^(\w+) \(([\w.]+)\)(?: \.\.\. (.*))?$`)
	// Status after a docstring description or after output the test
	// wrote to stderr, either " ... ok" or "ok" on a line of its own.
	statusLine = regexp.MustCompile(`(?:^|(?:^| )\.\.\. )(ok|FAIL|ERROR|skipped.*|expected failure|unexpected success)$`)
	// statusWord matches the text after " ... " when it is a status.
	statusWord = regexp.MustCompile(`^(ok|FAIL|ERROR|skipped.*|expected failure|unexpected success)$`)
	// "FAIL: test_x (pkg.mod.Class)" section headers.
	sectionHeader = regexp.MustCompile(`^(FAIL|ERROR): (\w+) \(([\w.]+)\)`)
)

const (
	doubleRule = "======================================================================"
	singleRule = "----------------------------------------------------------------------"
)

// ParseOutput reads verbose unittest output. Results are returned in the
// order tests ran; tracebacks from the failure sections are attached.
func ParseOutput(r io.Reader) ([]Result, error) {
	var (
		results []Result
		index   = map[string]int{}
		pending string
		lines   []string
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		if line == doubleRule {
			break
		}

		if m := resultLine.FindStringSubmatch(line); m != nil {
			id := testID(m[1], m[2])
			// Without a status word the status follows on a later line.
			if !statusWord.MatchString(m[3]) {
				pending = id
				continue
			}
			pending = ""
			index[id] = len(results)
			results = append(results, newResult(id, m[3]))
			continue
		}

		if pending != "" {
			if m := statusLine.FindStringSubmatch(line); m != nil {
				index[pending] = len(results)
				results = append(results, newResult(pending, m[1]))
				pending = ""
			}
		}
	}

	// Failure sections: header, rule, traceback up to the next rule.
	for ; i < len(lines); i++ {
		if lines[i] != doubleRule || i+1 >= len(lines) {
			continue
		}
		m := sectionHeader.FindStringSubmatch(lines[i+1])
		if m == nil {
			continue
		}
		j := i + 2
		if j < len(lines) && lines[j] == singleRule {
			j++
		}
		start := j
		for j < len(lines) && lines[j] != doubleRule && lines[j] != singleRule {
			j++
		}
		traceback := strings.TrimSpace(strings.Join(lines[start:j], "\n"))

		status := domain.TestStatusError
		if m[1] == "FAIL" {
			status = domain.TestStatusFail
		}
		id := testID(m[2], m[3])
		pos, ok := index[id]
		if !ok {
			pos = len(results)
			index[id] = pos
			results = append(results, Result{ID: id, Status: status})
		}
		if results[pos].Status == domain.TestStatusUnknown {
			results[pos].Status = status
		}
		results[pos].Traceback = traceback
		results[pos].Message = lastLine(traceback)
		i = j - 1
	}

	return results, nil
}

// testID joins method and its parenthesized location, dropping the
// trailing method name newer Pythons repeat.
func testID(method, location string) string {
	if strings.HasSuffix(location, "."+method) {
		return location
	}
	return location + "." + method
}

func newResult(id, status string) Result {
	res := Result{ID: id}
	switch {
	case status == "ok", status == "expected failure":
		res.Status = domain.TestStatusPass
	case status == "FAIL", status == "unexpected success":
		res.Status = domain.TestStatusFail
	case status == "ERROR":
		res.Status = domain.TestStatusError
	case strings.HasPrefix(status, "skipped"):
		res.Status = domain.TestStatusSkipped
		res.Message = strings.Trim(strings.TrimSpace(strings.TrimPrefix(status, "skipped")), `'"`)
	default:
		res.Status = domain.TestStatusUnknown
	}
	return res
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
