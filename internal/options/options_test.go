package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type readerConfig struct {
	workers int
	tags    []string
	strict  bool
	calls   []string
}

func newReaderConfig() *readerConfig {
	return &readerConfig{workers: 1}
}

var errNegative = errors.New("workers cannot be negative")

func withWorkers(n int) Option[*readerConfig] {
	return New(func(c *readerConfig) error {
		if n < 0 {
			return errNegative
		}
		c.workers = n
		c.calls = append(c.calls, "workers")

		return nil
	})
}

func withTags(tags ...string) Option[*readerConfig] {
	return NoError(func(c *readerConfig) {
		c.tags = tags
		c.calls = append(c.calls, "tags")
	})
}

func withStrict(strict bool) Option[*readerConfig] {
	return NoError(func(c *readerConfig) {
		c.strict = strict
		c.calls = append(c.calls, "strict")
	})
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option[*readerConfig]
		want    *readerConfig
		wantErr error
	}{
		{
			name: "no options",
			want: &readerConfig{workers: 1},
		},
		{
			name: "in order",
			opts: []Option[*readerConfig]{withWorkers(4), withTags("a", "b"), withStrict(true)},
			want: &readerConfig{workers: 4, tags: []string{"a", "b"}, strict: true,
				calls: []string{"workers", "tags", "strict"}},
		},
		{
			name: "later option wins",
			opts: []Option[*readerConfig]{withWorkers(4), withWorkers(2)},
			want: &readerConfig{workers: 2, calls: []string{"workers", "workers"}},
		},
		{
			name: "nil options skipped",
			opts: []Option[*readerConfig]{nil, withStrict(true), nil},
			want: &readerConfig{workers: 1, strict: true, calls: []string{"strict"}},
		},
		{
			name:    "stops at first error",
			opts:    []Option[*readerConfig]{withTags("x"), withWorkers(-1), withStrict(true)},
			want:    &readerConfig{workers: 1, tags: []string{"x"}, calls: []string{"tags"}},
			wantErr: errNegative,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newReaderConfig()
			err := Apply(cfg, tt.opts...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.want, cfg)
		})
	}
}

func TestBuild(t *testing.T) {
	cfg, err := Build(newReaderConfig, withWorkers(8))
	require.NoError(t, err)
	require.Equal(t, 8, cfg.workers)

	cfg, err = Build(newReaderConfig, withWorkers(-3))
	require.ErrorIs(t, err, errNegative)
	require.Nil(t, cfg)
}

func TestNoError_PrimitiveTarget(t *testing.T) {
	var n int
	require.NoError(t, Apply(&n, NoError(func(p *int) { *p = 42 })))
	require.Equal(t, 42, n)
}
