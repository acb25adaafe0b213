package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TestFolder is a directory of test files and subfolders.
type TestFolder struct {
	Dirname    string
	Qualname   string
	Files      []*TestFile
	Subfolders []*TestFolder
}

// NewTestFolder creates an empty folder.
func NewTestFolder(dirname, qualname string) *TestFolder {
	return &TestFolder{
		Dirname:  dirname,
		Qualname: qualname,
	}
}

// FolderFromDirname derives a folder from a directory path.
// An absolute path keeps only its base name as the qualname. A relative path
// becomes the dotted relative path and is resolved to an absolute dirname.
func FolderFromDirname(dirname string) (*TestFolder, error) {
	if filepath.IsAbs(dirname) {
		return NewTestFolder(dirname, filepath.Base(dirname)), nil
	}

	sep := string(os.PathSeparator)
	abs, err := filepath.Abs(dirname)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dirname, err)
	}
	abs = strings.TrimRight(abs, sep)

	rel := filepath.Clean(dirname)
	if rel == "." {
		return NewTestFolder(abs, filepath.Base(abs)), nil
	}
	qualname := strings.ReplaceAll(strings.Trim(rel, sep), sep, QualnameSeparator)
	return NewTestFolder(abs, qualname), nil
}

// Name returns the display name of the folder.
func (f *TestFolder) Name() string {
	return DisplayName(f.Qualname)
}

// AddFile creates a test file in the folder and appends it.
func (f *TestFolder) AddFile(basename string) (*TestFile, error) {
	if !IsSourceFile(basename) {
		return nil, fmt.Errorf("%s: %w", basename, ErrUnsupportedFileType)
	}
	module := strings.TrimSuffix(basename, filepath.Ext(basename))
	file := NewTestFile(
		filepath.Join(f.Dirname, basename),
		joinQualname(f.Qualname, module),
	)
	f.Files = append(f.Files, file)
	return file, nil
}

// AddSubfolder creates a subfolder and appends it.
func (f *TestFolder) AddSubfolder(basename string) *TestFolder {
	sub := NewTestFolder(
		filepath.Join(f.Dirname, basename),
		joinQualname(f.Qualname, basename),
	)
	f.Subfolders = append(f.Subfolders, sub)
	return sub
}

// AllTests returns the tests of every file, then of every subfolder.
func (f *TestFolder) AllTests() []*Test {
	var tests []*Test
	for _, file := range f.Files {
		tests = append(tests, file.AllTests()...)
	}
	for _, sub := range f.Subfolders {
		tests = append(tests, sub.AllTests()...)
	}
	return tests
}

// CountTests returns the total number of tests in the folder tree.
func (f *TestFolder) CountTests() int {
	count := 0
	for _, file := range f.Files {
		count += file.CountTests()
	}
	for _, sub := range f.Subfolders {
		count += sub.CountTests()
	}
	return count
}

// Equal reports whether f and other are structurally identical.
func (f *TestFolder) Equal(other *TestFolder) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.Dirname == other.Dirname &&
		f.Qualname == other.Qualname &&
		equalSlices(f.Files, other.Files) &&
		equalSlices(f.Subfolders, other.Subfolders)
}

func (f *TestFolder) String() string {
	return fmt.Sprintf("TestFolder(dirname=%q, qualname=%q, files=%s, subfolders=%s)",
		f.Dirname, f.Qualname, joinStrings(f.Files), joinStrings(f.Subfolders))
}
