package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    Kind
		wantErr bool
	}{
		{name: "unittest", want: KindUnittest},
		{name: "pytest", want: KindPytest},
		{name: "nose", want: KindNose},
		{name: "nose2", wantErr: true},
		{name: "", wantErr: true},
		{name: "PyTest", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseKind(tt.name)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownTool)
				assert.Equal(t, KindUnknown, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.name, got.String())
		})
	}
}

func TestKinds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"nose", "pytest", "unittest"}, Kinds())
}

func TestKind_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, KindPytest.Valid())
	assert.False(t, KindUnknown.Valid())
	assert.False(t, Kind(42).Valid())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"discover", "run", "debug"} {
		cmd, err := ParseCommand(name)
		require.NoError(t, err)
		assert.Equal(t, name, cmd.String())
	}

	_, err := ParseCommand("collect")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}
