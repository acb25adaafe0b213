package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTest(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		test, err := NewTest("x.y.z.ATests.test_a", "", 0)
		require.NoError(t, err)

		assert.Equal(t, "x.y.z.ATests.test_a", test.Qualname)
		assert.Empty(t, test.Filename)
		assert.Zero(t, test.Line)
		assert.Equal(t, "test_a", test.Name())
	})

	t.Run("full", func(t *testing.T) {
		test, err := NewTest("x.y.z.ATests.test_a", "/x/y/z.py", 10)
		require.NoError(t, err)

		assert.Equal(t, "/x/y/z.py", test.Filename)
		assert.Equal(t, 10, test.Line)
		assert.Equal(t, `Test(qualname="x.y.z.ATests.test_a", filename="/x/y/z.py", lineno=10)`, test.String())
	})

	t.Run("missing filename", func(t *testing.T) {
		test, err := NewTest("x.y.z.ATests.test_a", "", 10)

		assert.ErrorIs(t, err, ErrMissingFilename)
		assert.Contains(t, err.Error(), "x.y.z.ATests.test_a")
		assert.Nil(t, test)
	})
}

func TestTest_Equal(t *testing.T) {
	base := &Test{Qualname: "a.b", Filename: "/a.py", Line: 3}

	tests := []struct {
		name  string
		other *Test
		want  bool
	}{
		{"identical fields", &Test{Qualname: "a.b", Filename: "/a.py", Line: 3}, true},
		{"different qualname", &Test{Qualname: "a.c", Filename: "/a.py", Line: 3}, false},
		{"different file", &Test{Qualname: "a.b", Filename: "/b.py", Line: 3}, false},
		{"different line", &Test{Qualname: "a.b", Filename: "/a.py", Line: 4}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Equal(tt.other))
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "test_a", DisplayName("x.y.ATests.test_a"))
	assert.Equal(t, "single", DisplayName("single"))
	assert.Equal(t, "", DisplayName(""))
}
