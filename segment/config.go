package segment

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/arloliu/ubinary/internal/options"
)

// Config controls how Assemble selects, decodes and merges segments.
type Config struct {
	tags        []string
	flatten     bool
	partial     bool
	concurrency int
	logger      *zap.Logger
}

// NewConfig creates a configuration with the defaults: every tag, keyed
// merge, fail on the first broken segment, one worker per CPU.
func NewConfig() *Config {
	return &Config{concurrency: runtime.GOMAXPROCS(0)}
}

// Tags returns the requested tag names; empty means every tag.
func (c *Config) Tags() []string { return c.tags }

// Flatten reports whether segment members are merged into one cluster.
func (c *Config) Flatten() bool { return c.flatten }

// Partial reports whether failed segments are skipped instead of failing the call.
func (c *Config) Partial() bool { return c.partial }

// Concurrency returns the number of segments decoded at once.
func (c *Config) Concurrency() int { return c.concurrency }

func (c *Config) log() *zap.Logger {
	if c.logger != nil {
		return c.logger
	}

	return Logger()
}

// Option configures Assemble.
type Option = options.Option[*Config]

// WithTags restricts decoding to the named tags. Names are matched against
// the raw tag text, before sanitization. Tags absent from the buffer are
// reported as warnings.
func WithTags(tags ...string) Option {
	return options.NoError(func(c *Config) {
		c.tags = append(c.tags, tags...)
	})
}

// WithFlatten selects the legacy merge: the members of every segment are
// placed side by side in one cluster instead of under their tag names.
func WithFlatten(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.flatten = enabled
	})
}

// WithPartial makes Assemble return the segments that decoded, together with
// the joined errors of those that did not.
func WithPartial(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.partial = enabled
	})
}

// WithConcurrency bounds the number of segments decoded in parallel.
// Zero restores the default of one per CPU.
func WithConcurrency(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("concurrency must not be negative, got %d", n)
		}

		if n == 0 {
			n = runtime.GOMAXPROCS(0)
		}
		c.concurrency = n

		return nil
	})
}

// WithLogger overrides the package logger for one call.
func WithLogger(l *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		c.logger = l
	})
}
