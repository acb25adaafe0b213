package output

import (
	"path/filepath"

	"github.com/specvital/pyadapter/pkg/domain"
)

// Visitor receives every node once, in pre-order, as the tree is walked.
// Parent nodes passed to OnSuite and OnTest have already been visited; their
// child slices keep growing until the walk returns.
type Visitor interface {
	OnFolder(folder *FolderNode)
	OnFile(file *FileNode)
	OnSuite(suite, parent *SuiteNode, file *FileNode)
	OnTest(test *FunctionNode, parent *SuiteNode, file *FileNode)
}

// Option configures serialization.
type Option func(*options)

type options struct {
	unitTest bool
}

// WithUnitTest marks every suite as a unittest TestCase.
func WithUnitTest(enabled bool) Option {
	return func(o *options) {
		o.unitTest = enabled
	}
}

// Walk serializes the tree under root in a single pass and returns the root
// folder node. Timestamp fills the time field of every discovered node.
func Walk(root *domain.TestFolder, timestamp int64, v Visitor, opts ...Option) *FolderNode {
	w := newWalker(float64(timestamp), nil, v, opts)
	node, _ := w.folder(root)
	return node
}

// tally aggregates execution outcomes below a container.
type tally struct {
	passed   int
	failed   int
	notRun   int
	status   domain.TestStatus
	duration float64
}

func (t *tally) add(other tally) {
	t.passed += other.passed
	t.failed += other.failed
	t.notRun += other.notRun
	t.status = t.status.Worse(other.status)
	t.duration += other.duration
}

type walker struct {
	timestamp float64
	results   *domain.RunResults
	visitor   Visitor
	options   options
}

func newWalker(timestamp float64, results *domain.RunResults, v Visitor, opts []Option) *walker {
	w := &walker{
		timestamp: timestamp,
		results:   results,
		visitor:   v,
	}
	for _, opt := range opts {
		opt(&w.options)
	}
	return w
}

func (w *walker) folder(folder *domain.TestFolder) (*FolderNode, tally) {
	node := &FolderNode{
		Name:      filepath.Base(folder.Dirname),
		TestFiles: []*FileNode{},
		Folders:   []*FolderNode{},
		NameToRun: folder.Dirname,
		Time:      w.timestamp,
	}
	w.visitor.OnFolder(node)

	var sum tally
	for _, file := range folder.Files {
		child, t := w.file(file)
		node.TestFiles = append(node.TestFiles, child)
		sum.add(t)
	}
	for _, sub := range folder.Subfolders {
		child, t := w.folder(sub)
		node.Folders = append(node.Folders, child)
		sum.add(t)
	}

	if w.results != nil {
		node.ResultFields = containerFields(sum)
		node.Time = sum.duration
	}
	return node, sum
}

func (w *walker) file(file *domain.TestFile) (*FileNode, tally) {
	node := &FileNode{
		Name:      filepath.Base(file.Filename),
		FullPath:  file.Filename,
		Functions: []*FunctionNode{},
		Suites:    []*SuiteNode{},
		NameToRun: file.Qualname,
		XMLName:   file.Qualname,
		Time:      w.timestamp,
	}
	w.visitor.OnFile(node)

	var sum tally
	for _, test := range file.Tests {
		child, t := w.test(test)
		node.Functions = append(node.Functions, child)
		w.visitor.OnTest(child, nil, node)
		sum.add(t)
	}
	for _, suite := range file.Suites {
		child, t := w.suite(suite, nil, node)
		node.Suites = append(node.Suites, child)
		sum.add(t)
	}

	if w.results != nil {
		node.ResultFields = containerFields(sum)
		node.Time = sum.duration
	}
	return node, sum
}

func (w *walker) suite(suite *domain.TestSuite, parent *SuiteNode, file *FileNode) (*SuiteNode, tally) {
	node := &SuiteNode{
		Name:       suite.Name(),
		Functions:  []*FunctionNode{},
		Suites:     []*SuiteNode{},
		IsUnitTest: w.options.unitTest,
		NameToRun:  suite.Qualname,
		XMLName:    suite.Qualname,
		Time:       w.timestamp,
		Line:       suite.Line,
		File:       suite.Filename,
	}
	w.visitor.OnSuite(node, parent, file)

	var sum tally
	for _, test := range suite.Tests {
		child, t := w.test(test)
		node.Functions = append(node.Functions, child)
		w.visitor.OnTest(child, node, file)
		sum.add(t)
	}
	for _, sub := range suite.Subsuites {
		child, t := w.suite(sub, node, file)
		node.Suites = append(node.Suites, child)
		sum.add(t)
	}

	if w.results != nil {
		node.ResultFields = containerFields(sum)
		node.Time = sum.duration
	}
	return node, sum
}

func (w *walker) test(test *domain.Test) (*FunctionNode, tally) {
	node := &FunctionNode{
		Name:      test.Name(),
		NameToRun: test.Qualname,
		Time:      w.timestamp,
		Line:      test.Line,
		File:      test.Filename,
	}
	if w.results == nil {
		return node, tally{}
	}

	res, ok := w.results.Lookup(test.Qualname)
	if !ok {
		node.Time = 0
		node.Status = domain.TestStatusUnknown
		return node, tally{notRun: 1}
	}

	node.Time = res.Duration
	node.Status = res.Status
	node.Message = res.Message
	node.Traceback = res.Traceback

	t := tally{status: res.Status, duration: res.Duration}
	switch {
	case res.Status.Passed():
		node.Passed = boolPtr(true)
		t.passed = 1
	case res.Status.Failed():
		node.Passed = boolPtr(false)
		t.failed = 1
	default:
		t.notRun = 1
	}
	return node, t
}

func containerFields(t tally) ResultFields {
	fields := ResultFields{
		Status:             t.status,
		FunctionsPassed:    intPtr(t.passed),
		FunctionsFailed:    intPtr(t.failed),
		FunctionsDidNotRun: intPtr(t.notRun),
	}
	if fields.Status == "" {
		fields.Status = domain.TestStatusUnknown
	}
	switch {
	case t.failed > 0:
		fields.Passed = boolPtr(false)
	case t.passed > 0:
		fields.Passed = boolPtr(true)
	}
	return fields
}

func boolPtr(b bool) *bool { return &b }

func intPtr(n int) *int { return &n }
