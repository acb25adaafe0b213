// Package output renders discovery and run results into the document consumed
// by the editor UI.
//
// The document nests folders, files, suites and functions, and additionally
// lists every suite and function in flat arrays together with references to
// their parent file and suite. Execution-only fields are omitted from
// discovery documents.
package output

import "github.com/specvital/pyadapter/pkg/domain"

// Summary counts outcomes. All counts are zero on discovery.
type Summary struct {
	Passed   int `json:"passed"`
	Failures int `json:"failures"`
	Errors   int `json:"errors"`
	Skipped  int `json:"skipped"`
}

// ResultFields holds the execution-only fields shared by every node kind.
// They are only set by run and debug.
type ResultFields struct {
	Status             domain.TestStatus `json:"status,omitempty"`
	Passed             *bool             `json:"passed,omitempty"`
	Message            string            `json:"message,omitempty"`
	Traceback          string            `json:"traceback,omitempty"`
	FunctionsPassed    *int              `json:"functionsPassed,omitempty"`
	FunctionsFailed    *int              `json:"functionsFailed,omitempty"`
	FunctionsDidNotRun *int              `json:"functionsDidNotRun,omitempty"`
}

// FunctionNode is a serialized test.
type FunctionNode struct {
	Name      string  `json:"name"`
	NameToRun string  `json:"nameToRun"`
	Time      float64 `json:"time"`
	Line      int     `json:"line,omitempty"`
	File      string  `json:"file,omitempty"`
	ResultFields
}

// SuiteNode is a serialized test suite. Suites nest.
type SuiteNode struct {
	Name       string          `json:"name"`
	Functions  []*FunctionNode `json:"functions"`
	Suites     []*SuiteNode    `json:"suites"`
	IsUnitTest bool            `json:"isUnitTest"`
	IsInstance bool            `json:"isInstance"`
	NameToRun  string          `json:"nameToRun"`
	XMLName    string          `json:"xmlName"`
	Time       float64         `json:"time"`
	Line       int             `json:"line,omitempty"`
	File       string          `json:"file,omitempty"`
	ResultFields
}

// FileNode is a serialized test file with its suites and functions inline.
type FileNode struct {
	Name      string          `json:"name"`
	FullPath  string          `json:"fullPath"`
	Functions []*FunctionNode `json:"functions"`
	Suites    []*SuiteNode    `json:"suites"`
	NameToRun string          `json:"nameToRun"`
	XMLName   string          `json:"xmlName"`
	Time      float64         `json:"time"`
	ResultFields
}

// FolderNode is a serialized folder with its files and subfolders inline.
type FolderNode struct {
	Name      string        `json:"name"`
	TestFiles []*FileNode   `json:"testFiles"`
	Folders   []*FolderNode `json:"folders"`
	NameToRun string        `json:"nameToRun"`
	Time      float64       `json:"time"`
	ResultFields
}

// FlattenedFunction pairs a function with its parents.
type FlattenedFunction struct {
	TestFunction    *FunctionNode `json:"testFunction"`
	ParentTestSuite *SuiteNode    `json:"parentTestSuite,omitempty"`
	ParentTestFile  *FileNode     `json:"parentTestFile"`
	XMLClassName    string        `json:"xmlClassName"`
}

// FlattenedSuite pairs a suite with its parents.
type FlattenedSuite struct {
	TestSuite       *SuiteNode `json:"testSuite"`
	ParentTestSuite *SuiteNode `json:"parentTestSuite,omitempty"`
	ParentTestFile  *FileNode  `json:"parentTestFile"`
	XMLClassName    string     `json:"xmlClassName"`
}

// Document is the top-level object written for discover, run and debug.
type Document struct {
	Summary         Summary              `json:"summary"`
	TestFiles       []*FileNode          `json:"testFiles"`
	TestFunctions   []*FlattenedFunction `json:"testFunctions"`
	TestSuites      []*FlattenedSuite    `json:"testSuites"`
	TestFolders     []*FolderNode        `json:"testFolders"`
	RootTestFolders []*FolderNode        `json:"rootTestFolders"`
}
