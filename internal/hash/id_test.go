package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty name", "", 0xef46db3751d8e999},
		{"short name", "test", 0x4fdcca5ddb678139},
		{"long name", "this is a longer test string to hash", 0x69275f7f7ee59dbd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, ID(tt.data))
			assert.Equal(t, tt.id, IDBytes([]byte(tt.data)))
		})
	}
}

func TestID_DistinctFieldNames(t *testing.T) {
	names := []string{"x", "X", "x1", "unnamed1", "unnamed2", "settings", "trace"}

	seen := make(map[uint64]string, len(names))
	for _, n := range names {
		id := ID(n)
		prev, dup := seen[id]
		assert.False(t, dup, "%q and %q share a digest", n, prev)
		seen[id] = n
	}
}
