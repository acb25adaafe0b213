// Package parser holds tree-sitter helpers shared by the Python AST readers.
package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/pyadapter/pkg/parser/tspool"
)

// MaxTreeDepth bounds recursion when walking syntax trees.
const MaxTreeDepth = tspool.MaxTreeDepth

// GetNodeText returns the source text for the given AST node.
// Returns empty string if the node's byte range exceeds the source length.
func GetNodeText(node *sitter.Node, source []byte) (result string) {
	start := node.StartByte()
	end := node.EndByte()
	sourceLen := uint32(len(source))

	// Validate bounds before calling tree-sitter C code
	if start > sourceLen || end > sourceLen {
		return ""
	}

	// tree-sitter's C side can still step past the slice on malformed trees
	defer func() {
		if r := recover(); r != nil {
			result = ""
		}
	}()

	return node.Content(source)
}

// GetLine returns the 1-based start line of node.
func GetLine(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

// FindChildByType returns the first direct child with the given node type.
func FindChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// FindChildrenByType returns all direct children with the given node type.
func FindChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var children []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType {
			children = append(children, child)
		}
	}
	return children
}
