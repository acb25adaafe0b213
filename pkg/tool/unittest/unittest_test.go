package unittest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/pyadapter/pkg/discovery"
	"github.com/specvital/pyadapter/pkg/domain"
	"github.com/specvital/pyadapter/pkg/parser/pyast"
	"github.com/specvital/pyadapter/pkg/runner"
	"github.com/specvital/pyadapter/pkg/tool"
)

const sampleModule = `import unittest


class BaseTests(unittest.TestCase):
    def test_shared(self):
        pass


class SpamTests(BaseTests):
    def setUp(self):
        pass

    def test_ham(self):
        pass

    @unittest.expectedFailure
    def test_eggs(self):
        pass

    class Inner(unittest.TestCase):
        def test_inner(self):
            pass


class NotATest:
    def test_nothing(self):
        pass


class NoTests(unittest.TestCase):
    def helper(self):
        pass


def test_function():
    pass
`

func TestReader_Match(t *testing.T) {
	t.Parallel()

	assert.True(t, Reader{}.Match("test_spam.py"))
	assert.True(t, Reader{}.Match("pkg/tests.py"))
	assert.False(t, Reader{}.Match("spam_test.py"))
	assert.False(t, Reader{}.Match("pkg/helpers.py"))
}

func TestReader_Build(t *testing.T) {
	t.Parallel()

	defs, err := pyast.ParseModule(context.Background(), []byte(sampleModule))
	require.NoError(t, err)

	file := domain.NewTestFile("/proj/test_spam.py", "proj.test_spam")
	require.NoError(t, Reader{}.Build(file, defs))

	require.Len(t, file.Suites, 2)
	assert.Empty(t, file.Tests)

	base := file.Suites[0]
	assert.Equal(t, "proj.test_spam.BaseTests", base.Qualname)

	spam := file.Suites[1]
	assert.Equal(t, "proj.test_spam.SpamTests", spam.Qualname)
	var names []string
	for _, test := range spam.Tests {
		names = append(names, test.Name())
	}
	assert.Equal(t, []string{"test_ham", "test_eggs", "test_shared"}, names)
	assert.Equal(t, 5, spam.Tests[2].Line)
	assert.Empty(t, spam.Subsuites)
}

var _ discovery.DirMatcher = Reader{}

func TestReader_MatchDir(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"pkg/__init__.py":   {},
		"pkg/test_a.py":     {},
		"pkg/sub/test_b.py": {},
		"scripts/test_c.py": {},
	}

	assert.True(t, Reader{}.MatchDir(fsys, "pkg"))
	assert.False(t, Reader{}.MatchDir(fsys, "pkg/sub"))
	assert.False(t, Reader{}.MatchDir(fsys, "scripts"))
}

func TestTool_DiscoverSkipsNonPackages(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "proj")
	for _, dir := range []string{"pkg", "scripts"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, dir, "test_spam.py"), []byte(sampleModule), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "__init__.py"), nil, 0o644))

	result, err := New(nil).Discover(context.Background(), tool.NewOptions(tool.WithRoot(root)))
	require.NoError(t, err)

	require.Len(t, result.Root.Subfolders, 1)
	assert.Equal(t, "proj.pkg", result.Root.Subfolders[0].Qualname)
}

type scriptedExecutor struct {
	stderr string
	code   int
	cmds   []runner.Command
}

func (s *scriptedExecutor) Run(_ context.Context, cmd runner.Command) (*runner.Result, error) {
	s.cmds = append(s.cmds, cmd)
	if len(cmd.Args) == 1 && cmd.Args[0] == "--version" {
		return &runner.Result{Stdout: []byte("Python 3.11.9\n")}, nil
	}
	res := &runner.Result{Stderr: []byte(s.stderr), ExitCode: s.code}
	if s.code != 0 {
		return res, &runner.ExitError{Command: cmd.Name, ExitCode: s.code}
	}
	return res, nil
}

func TestTool_Run(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "test_spam.py"), []byte(sampleModule), 0o644))

	e := &scriptedExecutor{code: 1, stderr: `test_shared (test_spam.BaseTests.test_shared) ... ok
test_eggs (test_spam.SpamTests.test_eggs) ... expected failure
test_ham (test_spam.SpamTests.test_ham) ... FAIL
test_shared (test_spam.SpamTests.test_shared) ... ok

======================================================================
FAIL: test_ham (test_spam.SpamTests.test_ham)
----------------------------------------------------------------------
AssertionError: False is not true

----------------------------------------------------------------------
Ran 4 tests in 0.001s
`}

	results, err := New(e).Run(context.Background(), tool.NewOptions(tool.WithRoot(root)))
	require.NoError(t, err)

	require.Len(t, e.cmds, 2)
	assert.Equal(t, []string{"-m", "unittest", "discover", "-v", "-s", ".", "-t", ".", "-p", "test*.py"}, e.cmds[1].Args)

	ham, ok := results.Lookup("proj.test_spam.SpamTests.test_ham")
	require.True(t, ok)
	assert.Equal(t, domain.TestStatusFail, ham.Status)
	assert.Equal(t, "AssertionError: False is not true", ham.Message)

	assert.Equal(t, 4, results.Len())
	assert.Empty(t, results.Unmatched())
	assert.Equal(t, tool.KindUnittest, New(nil).Kind())
}
