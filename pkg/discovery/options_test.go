package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_MaxFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int64
		want int64
	}{
		{"zero selects default", 0, DefaultMaxFileSize},
		{"negative is ignored", -1, DefaultMaxFileSize},
		{"explicit limit", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := newDefaultOptions()
			WithMaxFileSize(tt.size)(&opts)
			applyDefaults(&opts)
			assert.Equal(t, tt.want, opts.MaxFileSize)
		})
	}
}
