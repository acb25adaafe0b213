package output

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/specvital/pyadapter/pkg/domain"
)

// collector builds the flat document arrays from walk callbacks.
type collector struct {
	files     []*FileNode
	folders   []*FolderNode
	suites    []*FlattenedSuite
	functions []*FlattenedFunction
}

func newCollector() *collector {
	return &collector{
		files:     []*FileNode{},
		folders:   []*FolderNode{},
		suites:    []*FlattenedSuite{},
		functions: []*FlattenedFunction{},
	}
}

func (c *collector) OnFolder(folder *FolderNode) {
	c.folders = append(c.folders, folder)
}

func (c *collector) OnFile(file *FileNode) {
	c.files = append(c.files, file)
}

func (c *collector) OnSuite(suite, parent *SuiteNode, file *FileNode) {
	c.suites = append(c.suites, &FlattenedSuite{
		TestSuite:       suite,
		ParentTestSuite: parent,
		ParentTestFile:  file,
		XMLClassName:    suite.Name,
	})
}

func (c *collector) OnTest(test *FunctionNode, parent *SuiteNode, file *FileNode) {
	className := file.XMLName
	if parent != nil {
		className = parent.XMLName
	}
	c.functions = append(c.functions, &FlattenedFunction{
		TestFunction:    test,
		ParentTestSuite: parent,
		ParentTestFile:  file,
		XMLClassName:    className,
	})
}

func (c *collector) document(root *FolderNode, summary Summary) *Document {
	return &Document{
		Summary:         summary,
		TestFiles:       c.files,
		TestFunctions:   c.functions,
		TestSuites:      c.suites,
		TestFolders:     c.folders,
		RootTestFolders: []*FolderNode{root},
	}
}

// BuildDiscovered returns the discovery document for result.
func BuildDiscovered(result *domain.DiscoveryResult, opts ...Option) *Document {
	c := newCollector()
	w := newWalker(float64(result.Timestamp), nil, c, opts)
	root, _ := w.folder(result.Root)
	return c.document(root, Summary{})
}

// BuildResults returns the results document for results. It shares the
// discovery schema with status fields and summary populated.
func BuildResults(results *domain.RunResults, opts ...Option) *Document {
	c := newCollector()
	w := newWalker(float64(results.Discovery.Timestamp), results, c, opts)
	root, _ := w.folder(results.Discovery.Root)
	return c.document(root, summarize(c.functions))
}

// SerializeDiscovered encodes the discovery document for result as JSON.
func SerializeDiscovered(result *domain.DiscoveryResult, opts ...Option) ([]byte, error) {
	data, err := json.Marshal(BuildDiscovered(result, opts...))
	if err != nil {
		return nil, fmt.Errorf("encode discovery document: %w", err)
	}
	return data, nil
}

// SerializeResults encodes the results document for results as JSON.
func SerializeResults(results *domain.RunResults, opts ...Option) ([]byte, error) {
	data, err := json.Marshal(BuildResults(results, opts...))
	if err != nil {
		return nil, fmt.Errorf("encode results document: %w", err)
	}
	return data, nil
}

func summarize(functions []*FlattenedFunction) Summary {
	var s Summary
	for _, f := range functions {
		switch f.TestFunction.Status {
		case domain.TestStatusPass:
			s.Passed++
		case domain.TestStatusFail:
			s.Failures++
		case domain.TestStatusError:
			s.Errors++
		case domain.TestStatusSkipped:
			s.Skipped++
		}
	}
	return s
}
