package pyast

import (
	"strings"
	"unicode"

	"github.com/specvital/pyadapter/pkg/domain"
)

// TestCaseClasses records the classes of one module that derive from
// unittest.TestCase, directly or through a class recorded earlier.
type TestCaseClasses map[string]Definition

// Add records class and reports whether it is a TestCase subclass.
// Classes must be added in source order.
func (k TestCaseClasses) Add(class Definition) bool {
	if !class.IsClass() {
		return false
	}
	for _, b := range BaseNames(class.Superclasses) {
		_, known := k[b]
		if strings.HasSuffix(b, "TestCase") || (known && b != class.Name) {
			k[class.Name] = class
			return true
		}
	}
	return false
}

// TestMethods returns the test* methods of class followed by those it
// inherits from recorded bases. Overridden names appear once.
func (k TestCaseClasses) TestMethods(class Definition) []Definition {
	var methods []Definition
	seen := map[string]bool{}
	visited := map[string]bool{}

	var collect func(Definition)
	collect = func(c Definition) {
		visited[c.Name] = true
		for _, def := range c.Body {
			if def.Kind == KindFunction && strings.HasPrefix(def.Name, "test") && !seen[def.Name] {
				seen[def.Name] = true
				methods = append(methods, def)
			}
		}
		for _, b := range BaseNames(c.Superclasses) {
			if base, ok := k[b]; ok && !visited[b] {
				collect(base)
			}
		}
	}
	collect(class)
	return methods
}

// BaseNames splits "(unittest.TestCase, Mixin)" into its identifiers,
// keeping the last dotted segment of each.
func BaseNames(superclasses string) []string {
	fields := strings.FieldsFunc(superclasses, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.')
	})
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, domain.DisplayName(f))
	}
	return names
}
