// Package all imports every Python tool for side-effect registration.
// Usage: _ "github.com/specvital/pyadapter/pkg/tool/all"
package all

import (
	_ "github.com/specvital/pyadapter/pkg/tool/nose"
	_ "github.com/specvital/pyadapter/pkg/tool/pytest"
	_ "github.com/specvital/pyadapter/pkg/tool/unittest"
)
