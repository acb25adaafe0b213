// Package domain defines the discovery result tree and execution results
// for Python test tools.
package domain

import (
	"path/filepath"
	"strings"
)

// Language represents a programming language.
type Language string

// LanguagePython is the only language the adapter discovers tests for.
const LanguagePython Language = "python"

// QualnameSeparator joins the segments of a qualified name.
const QualnameSeparator = "."

// SourceExtensions lists the file extensions accepted as Python test sources.
var SourceExtensions = []string{".py"}

// IsSourceFile reports whether name carries a recognized source extension.
func IsSourceFile(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range SourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// DisplayName returns the last dotted segment of a qualified name.
func DisplayName(qualname string) string {
	if idx := strings.LastIndex(qualname, QualnameSeparator); idx >= 0 {
		return qualname[idx+1:]
	}
	return qualname
}

func joinQualname(parent, name string) string {
	return parent + QualnameSeparator + name
}
