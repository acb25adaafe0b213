// Package unittest discovers unittest.TestCase tests statically and runs
// them with "python -m unittest", reading outcomes from its verbose output.
package unittest

import (
	"bytes"
	"context"
	"io/fs"
	"path"

	"github.com/specvital/pyadapter/pkg/domain"
	"github.com/specvital/pyadapter/pkg/parser/pyast"
	"github.com/specvital/pyadapter/pkg/runner"
	"github.com/specvital/pyadapter/pkg/tool"
)

const (
	module = "unittest"
	// DefaultPattern is the file pattern unittest discovery uses.
	DefaultPattern = "test*.py"
)

// Exit codes that still produce usable output: tests failed, no tests ran (3.12+).
const (
	exitTestsFailed = 1
	exitNoTests     = 5
)

func init() {
	tool.Register(New(nil))
}

// Tool implements tool.Tool for unittest.
type Tool struct {
	executor runner.Executor
}

// New returns a unittest tool. A nil executor runs local subprocesses.
func New(e runner.Executor) *Tool {
	return &Tool{executor: e}
}

func (t *Tool) Kind() tool.Kind { return tool.KindUnittest }

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

	cmd, err := tool.ModuleCommand(opts, debug, module, "discover", "-v", "-s", ".", "-t", ".", "-p", DefaultPattern)
	if err != nil {
		return nil, err
	}

	e := tool.ExecutorOrDefault(t.executor, opts)
	res, err := tool.Execute(ctx, e, cmd, opts.Logger, exitTestsFailed, exitNoTests)
	if err != nil {
		return nil, err
	}

	// unittest reports on stderr.
	parsed, err := ParseOutput(bytes.NewReader(res.Stderr))
	if err != nil {
		return nil, err
	}

	outcomes := make([]tool.Outcome, 0, len(parsed))
	for _, r := range parsed {
		outcomes = append(outcomes, tool.Outcome{
			Qualname: discovered.Root.Qualname + domain.QualnameSeparator + r.ID,
			Result: domain.TestResult{
				Status:    r.Status,
				Message:   r.Message,
				Traceback: r.Traceback,
			},
		})
	}
	return tool.Collect(discovered, outcomes, opts.Logger), nil
}

// Reader applies unittest's default loader rules.
type Reader struct{}

// Match accepts modules named test*.py.
func (Reader) Match(relPath string) bool {
	matched, _ := path.Match(DefaultPattern, path.Base(relPath))
	return matched
}

// MatchDir accepts package directories only, since discovery from the
// root imports nothing below a directory without __init__.py.
func (Reader) MatchDir(fsys fs.FS, relDir string) bool {
	_, err := fs.Stat(fsys, path.Join(relDir, "__init__.py"))
	return err == nil
}

// Build collects TestCase subclasses and their test methods, including
// methods inherited from TestCase subclasses defined earlier in the module.
func (Reader) Build(file *domain.TestFile, defs []pyast.Definition) error {
	known := pyast.TestCaseClasses{}

	for _, def := range defs {
		if !known.Add(def) {
			continue
		}
		methods := known.TestMethods(def)
		if len(methods) == 0 {
			continue
		}
		suite, err := file.AddSuite(def.Name, def.Line)
		if err != nil {
			return err
		}
		for _, m := range methods {
			if _, err := suite.AddTest(m.Name, m.Line); err != nil {
				return err
			}
		}
	}
	return nil
}
