package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/pyadapter/pkg/tool"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
root: src
python: /usr/bin/python3.12
patterns:
  - "tests/**"
exclude: [build]
workers: 4
timeout: 30s
args: "-x --tb='short form'"
debug:
  port: 9000
`))
	require.NoError(t, err)

	opts := tool.NewOptions(cfg.Options()...)
	assert.Equal(t, "src", opts.Root)
	assert.Equal(t, "/usr/bin/python3.12", opts.Python)
	assert.Equal(t, []string{"tests/**"}, opts.Patterns)
	assert.Equal(t, []string{"build"}, opts.Exclude)
	assert.Equal(t, 4, opts.Workers)
	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, []string{"-x", "--tb=short form"}, opts.Args)
	assert.Equal(t, tool.DefaultDebugHost, opts.DebugHost)
	assert.Equal(t, 9000, opts.DebugPort)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want error
	}{
		{"unknown field", "colour: red\n", ErrInvalidConfig},
		{"negative workers", "workers: -1\n", ErrInvalidConfig},
		{"bad timeout", "timeout: soon\n", ErrInvalidConfig},
		{"bad port", "debug:\n  port: 70000\n", ErrInvalidConfig},
		{"unbalanced quotes", "args: \"-k 'spam\"\n", ErrInvalidArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFind(t *testing.T) {
	t.Parallel()

	t.Run("missing file yields empty config", func(t *testing.T) {
		t.Parallel()

		cfg, err := Find(t.TempDir(), "")
		require.NoError(t, err)
		assert.Empty(t, cfg.Options())
	})

	t.Run("file in root", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("root: tests\n"), 0o644))

		cfg, err := Find(dir, "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "tests"), tool.NewOptions(cfg.Options()...).Root)
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		t.Parallel()

		_, err := Find(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestSplitArgs(t *testing.T) {
	t.Parallel()

	args, err := SplitArgs(`-k "spam and eggs" -q`)
	require.NoError(t, err)
	assert.Equal(t, []string{"-k", "spam and eggs", "-q"}, args)

	args, err = SplitArgs("")
	require.NoError(t, err)
	assert.Empty(t, args)
}
