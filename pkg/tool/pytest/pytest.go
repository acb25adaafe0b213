// Package pytest discovers pytest-style tests statically and runs them with
// pytest, reading outcomes from its JUnit XML report.
package pytest

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/specvital/pyadapter/pkg/domain"
	"github.com/specvital/pyadapter/pkg/junit"
	"github.com/specvital/pyadapter/pkg/parser/pyast"
	"github.com/specvital/pyadapter/pkg/runner"
	"github.com/specvital/pyadapter/pkg/tool"
)

const module = "pytest"

// Exit codes that still produce a usable report: tests failed, no tests collected.
const (
	exitTestsFailed = 1
	exitNoTests     = 5
)

func init() {
	tool.Register(New(nil))
}

// Tool implements tool.Tool for pytest.
type Tool struct {
	executor runner.Executor
}

// New returns a pytest tool. A nil executor runs local subprocesses.
func New(e runner.Executor) *Tool {
	return &Tool{executor: e}
}

func (t *Tool) Kind() tool.Kind { return tool.KindPytest }

func (t *Tool) Discover(ctx context.Context, opts tool.Options) (*domain.DiscoveryResult, error) {
	return tool.DiscoverWith(ctx, Reader{}, opts)
}

func (t *Tool) Run(ctx context.Context, opts tool.Options) (*domain.RunResults, error) {
	return t.run(ctx, opts, false)
}

func (t *Tool) Debug(ctx context.Context, opts tool.Options) (*domain.RunResults, error) {
	return t.run(ctx, opts, true)
}

func (t *Tool) run(ctx context.Context, opts tool.Options, debug bool) (*domain.RunResults, error) {
	discovered, err := t.Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "testadapter-pytest-")
	if err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)
	report := filepath.Join(tmpDir, "report.xml")

	// Report classnames are relative to rootdir, which pytest would otherwise
	// place at the nearest ancestor with an ini file.
	rootDir, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", opts.Root, err)
	}

	cmd, err := tool.ModuleCommand(opts, debug, module,
		"--rootdir="+rootDir,
		"--junitxml="+report,
		"-o", "junit_family=xunit1",
		"-p", "no:cacheprovider",
		"-q",
	)
	if err != nil {
		return nil, err
	}

	e := tool.ExecutorOrDefault(t.executor, opts)
	if _, err := tool.Execute(ctx, e, cmd, opts.Logger, exitTestsFailed, exitNoTests); err != nil {
		return nil, err
	}

	outcomes, err := readReport(report, discovered.Root.Qualname)
	if err != nil {
		return nil, err
	}
	return tool.Collect(discovered, outcomes, opts.Logger), nil
}

func readReport(p, rootQualname string) ([]tool.Outcome, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open pytest report: %w", err)
	}
	defer f.Close()

	records, err := junit.Parse(f)
	if err != nil {
		return nil, err
	}

	outcomes := make([]tool.Outcome, 0, len(records))
	for _, r := range records {
		outcomes = append(outcomes, tool.Outcome{Qualname: r.Qualname(rootQualname), Result: r.Result()})
	}
	return outcomes, nil
}

// Reader applies pytest's default collection rules.
type Reader struct{}

// Match accepts test_*.py and *_test.py.
func (Reader) Match(relPath string) bool {
	base := path.Base(relPath)
	if base == "conftest.py" {
		return false
	}
	return strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.py")
}

// Build collects module-level test functions, Test classes and
// unittest.TestCase subclasses. TestCase subclasses are collected whatever
// their name, with inherited test methods, as pytest's unittest plugin does.
func (Reader) Build(file *domain.TestFile, defs []pyast.Definition) error {
	known := pyast.TestCaseClasses{}

	for _, def := range defs {
		switch {
		case def.Kind == pyast.KindFunction && isTestFunction(def.Name):
			if _, err := file.AddTest(def.Name, def.Line); err != nil {
				return err
			}
		case known.Add(def):
			if err := addTestCase(file, def, known.TestMethods(def)); err != nil {
				return err
			}
		case isTestClass(def):
			if countTests(def) == 0 {
				continue
			}
			suite, err := file.AddSuite(def.Name, def.Line)
			if err != nil {
				return err
			}
			if err := buildSuite(suite, def); err != nil {
				return err
			}
		}
	}
	return nil
}

func addTestCase(file *domain.TestFile, class pyast.Definition, methods []pyast.Definition) error {
	if len(methods) == 0 {
		return nil
	}
	suite, err := file.AddSuite(class.Name, class.Line)
	if err != nil {
		return err
	}
	for _, m := range methods {
		if _, err := suite.AddTest(m.Name, m.Line); err != nil {
			return err
		}
	}
	return nil
}

func buildSuite(suite *domain.TestSuite, class pyast.Definition) error {
	for _, def := range class.Body {
		switch {
		case def.Kind == pyast.KindFunction && isTestFunction(def.Name):
			if _, err := suite.AddTest(def.Name, def.Line); err != nil {
				return err
			}
		case isTestClass(def):
			if countTests(def) == 0 {
				continue
			}
			sub, err := suite.AddSubsuite(def.Name, def.Line)
			if err != nil {
				return err
			}
			if err := buildSuite(sub, def); err != nil {
				return err
			}
		}
	}
	return nil
}

func countTests(class pyast.Definition) int {
	n := 0
	for _, def := range class.Body {
		switch {
		case def.Kind == pyast.KindFunction && isTestFunction(def.Name):
			n++
		case isTestClass(def):
			n += countTests(def)
		}
	}
	return n
}

func isTestFunction(name string) bool {
	return strings.HasPrefix(name, "test")
}

// isTestClass reports whether pytest collects class: Test prefix and no __init__.
func isTestClass(def pyast.Definition) bool {
	return def.IsClass() && strings.HasPrefix(def.Name, "Test") && !def.HasMethod("__init__")
}
