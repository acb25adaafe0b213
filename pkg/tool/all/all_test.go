package all

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/specvital/pyadapter/pkg/tool"
)

func TestAllToolsRegistered(t *testing.T) {
	assert.Equal(t, []tool.Kind{tool.KindUnittest, tool.KindPytest, tool.KindNose}, tool.DefaultRegistry().Kinds())
}
