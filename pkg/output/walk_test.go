package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingVisitor struct {
	events []string
}

func (r *recordingVisitor) OnFolder(folder *FolderNode) {
	r.events = append(r.events, "folder:"+folder.Name)
}

func (r *recordingVisitor) OnFile(file *FileNode) {
	r.events = append(r.events, "file:"+file.Name)
}

func (r *recordingVisitor) OnSuite(suite, parent *SuiteNode, file *FileNode) {
	p := "-"
	if parent != nil {
		p = parent.Name
	}
	r.events = append(r.events, "suite:"+suite.Name+"<"+p+"<"+file.Name)
}

func (r *recordingVisitor) OnTest(test *FunctionNode, parent *SuiteNode, file *FileNode) {
	p := "-"
	if parent != nil {
		p = parent.Name
	}
	r.events = append(r.events, "test:"+test.Name+"<"+p+"<"+file.Name)
}

func TestWalk_VisitsOnceInPreOrder(t *testing.T) {
	v := &recordingVisitor{}

	root := Walk(sampleTree(t), 5, v)

	assert.Equal(t, []string{
		"folder:y",
		"file:test_z.py",
		"test:test_spam<-<test_z.py",
		"suite:ATests<-<test_z.py",
		"test:test_ham<ATests<test_z.py",
		"suite:SubTests<ATests<test_z.py",
		"test:test_spam<SubTests<test_z.py",
		"folder:pkg",
		"file:test_w.py",
		"test:test_x<-<test_w.py",
	}, v.events)
	assert.Equal(t, "y", root.Name)
	assert.Len(t, root.TestFiles, 1)
	assert.Len(t, root.Folders, 1)
	assert.Equal(t, float64(5), root.Time)
}
