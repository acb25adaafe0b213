package nose

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/pyadapter/pkg/domain"
	"github.com/specvital/pyadapter/pkg/parser/pyast"
	"github.com/specvital/pyadapter/pkg/runner"
	"github.com/specvital/pyadapter/pkg/tool"
)

const sampleModule = `import unittest


def test_spam():
    pass


def check_eggs_test():
    pass


def contest():
    pass


class TestHam:
    def test_one(self):
        pass

    def helper(self):
        pass


class Eggs(unittest.TestCase):
    def testTwo(self):
        pass


class Toast:
    def test_three(self):
        pass
`

func TestTestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"test_spam", true},
		{"Test", true},
		{"spam_test", true},
		{"spam.test", true},
		{"spam-test", true},
		{"testing", true},
		{"contest", false},
		{"latest", false},
		{"helper", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TestMatch.MatchString(tt.name), tt.name)
	}
}

func TestReader(t *testing.T) {
	t.Parallel()

	assert.True(t, Reader{}.Match("pkg/test_spam.py"))
	assert.True(t, Reader{}.Match("spam_tests.py"))
	assert.False(t, Reader{}.Match("pkg/contest.py"))

	defs, err := pyast.ParseModule(context.Background(), []byte(sampleModule))
	require.NoError(t, err)

	file := domain.NewTestFile("/proj/test_sample.py", "proj.test_sample")
	require.NoError(t, Reader{}.Build(file, defs))

	var names []string
	for _, test := range file.AllTests() {
		names = append(names, strings.TrimPrefix(test.Qualname, "proj.test_sample."))
	}
	assert.Equal(t, []string{"test_spam", "check_eggs_test", "TestHam.test_one", "Eggs.testTwo"}, names)
}

type scriptedExecutor struct {
	t      *testing.T
	report string
	cmds   []runner.Command
}

func (s *scriptedExecutor) Run(_ context.Context, cmd runner.Command) (*runner.Result, error) {
	s.cmds = append(s.cmds, cmd)
	if len(cmd.Args) == 1 && cmd.Args[0] == "--version" {
		return &runner.Result{Stdout: []byte("Python 3.9.18\n")}, nil
	}
	for _, arg := range cmd.Args {
		if p, ok := strings.CutPrefix(arg, "--xunit-file="); ok {
			require.NoError(s.t, os.WriteFile(p, []byte(s.report), 0o644))
		}
	}
	return &runner.Result{ExitCode: 1}, &runner.ExitError{Command: cmd.Name, ExitCode: 1}
}

func TestTool_Run(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "test_sample.py"), []byte(sampleModule), 0o644))

	e := &scriptedExecutor{t: t, report: `<?xml version="1.0" encoding="UTF-8"?>
<testsuite name="nosetests" tests="2">
  <testcase classname="test_sample" name="test_spam" time="0.001"/>
  <testcase classname="test_sample.TestHam" name="test_one" time="0.002"><error type="ValueError" message="bad">Traceback</error></testcase>
</testsuite>`}

	results, err := New(e).Run(context.Background(), tool.NewOptions(tool.WithRoot(root)))
	require.NoError(t, err)

	assert.Equal(t, []string{"-m", "nose", "--with-xunit"}, e.cmds[1].Args[:3])

	spam, ok := results.Lookup("proj.test_sample.test_spam")
	require.True(t, ok)
	assert.Equal(t, domain.TestStatusPass, spam.Status)

	one, ok := results.Lookup("proj.test_sample.TestHam.test_one")
	require.True(t, ok)
	assert.Equal(t, domain.TestStatusError, one.Status)
	assert.Equal(t, "bad", one.Message)
	assert.Equal(t, tool.KindNose, New(nil).Kind())
}
