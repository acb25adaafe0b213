// Package pyast provides shared Python AST traversal utilities for the test tool readers.
package pyast

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/pyadapter/pkg/domain"
	"github.com/specvital/pyadapter/pkg/parser"
	"github.com/specvital/pyadapter/pkg/parser/tspool"
)

// Python AST node types.
const (
	NodeBlock               = "block"
	NodeClassDefinition     = "class_definition"
	NodeDecorator           = "decorator"
	NodeDecoratedDefinition = "decorated_definition"
	NodeFunctionDefinition  = "function_definition"
)

// Kind distinguishes function and class definitions.
type Kind int

const (
	KindFunction Kind = iota
	KindClass
)

// Definition is a function or class defined at module level or in a class body.
type Definition struct {
	Kind Kind
	Name string
	// Line is the 1-based line of the def/class keyword.
	Line int
	// Superclasses is the raw text of the base class list, classes only.
	Superclasses string
	// Decorators holds the raw text of each decorator, without the "@".
	Decorators []string
	// Body holds the definitions nested in a class body.
	Body []Definition
}

// IsClass reports whether d is a class definition.
func (d Definition) IsClass() bool {
	return d.Kind == KindClass
}

// HasMethod reports whether a class defines a method called name.
func (d Definition) HasMethod(name string) bool {
	for _, child := range d.Body {
		if child.Kind == KindFunction && child.Name == name {
			return true
		}
	}
	return false
}

// HasDecorator reports whether any decorator starts with prefix.
func (d Definition) HasDecorator(prefix string) bool {
	for _, dec := range d.Decorators {
		if strings.HasPrefix(dec, prefix) {
			return true
		}
	}
	return false
}

// ParseModule parses Python source and returns its top-level definitions.
func ParseModule(ctx context.Context, source []byte) ([]Definition, error) {
	tree, err := tspool.Parse(ctx, domain.LanguagePython, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return collectDefinitions(tree.RootNode(), source, 0), nil
}

func collectDefinitions(container *sitter.Node, source []byte, depth int) []Definition {
	if depth > parser.MaxTreeDepth {
		return nil
	}

	var defs []Definition
	for i := 0; i < int(container.ChildCount()); i++ {
		child := container.Child(i)

		switch child.Type() {
		case NodeFunctionDefinition, NodeClassDefinition:
			if def, ok := readDefinition(child, nil, source, depth); ok {
				defs = append(defs, def)
			}

		case NodeDecoratedDefinition:
			definition := GetDecoratedDefinition(child)
			if definition == nil {
				continue
			}
			decorators := decoratorTexts(GetDecorators(child), source)
			if def, ok := readDefinition(definition, decorators, source, depth); ok {
				defs = append(defs, def)
			}
		}
	}
	return defs
}

func readDefinition(node *sitter.Node, decorators []string, source []byte, depth int) (Definition, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return Definition{}, false
	}

	def := Definition{
		Kind:       KindFunction,
		Name:       parser.GetNodeText(nameNode, source),
		Line:       parser.GetLine(node),
		Decorators: decorators,
	}

	if node.Type() == NodeClassDefinition {
		def.Kind = KindClass
		if supers := node.ChildByFieldName("superclasses"); supers != nil {
			def.Superclasses = parser.GetNodeText(supers, source)
		}
		body := node.ChildByFieldName("body")
		if body == nil {
			body = parser.FindChildByType(node, NodeBlock)
		}
		if body != nil {
			def.Body = collectDefinitions(body, source, depth+1)
		}
	}
	return def, true
}

// GetDecoratedDefinition extracts the actual definition from a decorated_definition node.
func GetDecoratedDefinition(node *sitter.Node) *sitter.Node {
	definition := node.ChildByFieldName("definition")
	if definition != nil {
		return definition
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == NodeFunctionDefinition || child.Type() == NodeClassDefinition {
			return child
		}
	}
	return nil
}

// GetDecorators extracts all decorator nodes from a decorated_definition.
func GetDecorators(node *sitter.Node) []*sitter.Node {
	return parser.FindChildrenByType(node, NodeDecorator)
}

func decoratorTexts(nodes []*sitter.Node, source []byte) []string {
	if len(nodes) == 0 {
		return nil
	}
	texts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		texts = append(texts, strings.TrimSpace(strings.TrimPrefix(parser.GetNodeText(n, source), "@")))
	}
	return texts
}

// String renders a definition for debugging.
func (d Definition) String() string {
	kind := "def"
	if d.IsClass() {
		kind = "class"
	}
	return fmt.Sprintf("%s %s@%d", kind, d.Name, d.Line)
}
