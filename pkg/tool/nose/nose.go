// Package nose discovers tests with nose's default testMatch rules and runs
// them with nosetests, reading outcomes from its xunit report.
package nose

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/specvital/pyadapter/pkg/domain"
	"github.com/specvital/pyadapter/pkg/junit"
	"github.com/specvital/pyadapter/pkg/parser/pyast"
	"github.com/specvital/pyadapter/pkg/runner"
	"github.com/specvital/pyadapter/pkg/tool"
)

const module = "nose"

const exitTestsFailed = 1

// TestMatch is nose's default testMatch expression.
var TestMatch = regexp.MustCompile(`(?:^|[\x08_.\-])[Tt]est`)

func init() {
	tool.Register(New(nil))
}

// Tool implements tool.Tool for nose.
type Tool struct {
	executor runner.Executor
}

// New returns a nose tool. A nil executor runs local subprocesses.
func New(e runner.Executor) *Tool {
	return &Tool{executor: e}
}

func (t *Tool) Kind() tool.Kind { return tool.KindNose }

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

	tmpDir, err := os.MkdirTemp("", "testadapter-nose-")
	if err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)
	report := filepath.Join(tmpDir, "nosetests.xml")

	cmd, err := tool.ModuleCommand(opts, debug, module, "--with-xunit", "--xunit-file="+report, "-v")
	if err != nil {
		return nil, err
	}

	e := tool.ExecutorOrDefault(t.executor, opts)
	if _, err := tool.Execute(ctx, e, cmd, opts.Logger, exitTestsFailed); err != nil {
		return nil, err
	}

	f, err := os.Open(report)
	if err != nil {
		return nil, fmt.Errorf("open nose report: %w", err)
	}
	defer f.Close()

	records, err := junit.Parse(f)
	if err != nil {
		return nil, err
	}

	outcomes := make([]tool.Outcome, 0, len(records))
	for _, r := range records {
		outcomes = append(outcomes, tool.Outcome{Qualname: r.Qualname(discovered.Root.Qualname), Result: r.Result()})
	}
	return tool.Collect(discovered, outcomes, opts.Logger), nil
}

// Reader applies nose's default selector.
type Reader struct{}

// Match accepts modules whose name matches TestMatch. Directories on the way
// are walked regardless, as nose does for packages.
func (Reader) Match(relPath string) bool {
	name := strings.TrimSuffix(path.Base(relPath), path.Ext(relPath))
	return TestMatch.MatchString(name)
}

// Build collects matching functions and classes. Classes qualify by name
// or by subclassing TestCase; their matching methods become tests.
func (Reader) Build(file *domain.TestFile, defs []pyast.Definition) error {
	for _, def := range defs {
		switch {
		case def.Kind == pyast.KindFunction && TestMatch.MatchString(def.Name):
			if _, err := file.AddTest(def.Name, def.Line); err != nil {
				return err
			}
		case isTestClass(def):
			var methods []pyast.Definition
			for _, m := range def.Body {
				if m.Kind == pyast.KindFunction && TestMatch.MatchString(m.Name) {
					methods = append(methods, m)
				}
			}
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
	}
	return nil
}

func isTestClass(def pyast.Definition) bool {
	if !def.IsClass() {
		return false
	}
	return TestMatch.MatchString(def.Name) || strings.Contains(def.Superclasses, "TestCase")
}
