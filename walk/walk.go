// Package walk enumerates container files under a directory.
package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/arloliu/ubinary/internal/options"
)

// Config controls Files.
type Config struct {
	recursive bool
	pattern   string
	hidden    bool
}

// Option configures Files.
type Option = options.Option[*Config]

// WithRecursive descends into subdirectories.
func WithRecursive(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.recursive = enabled
	})
}

// WithPattern keeps only files matching a doublestar glob such as
// "**/*.ubin" or "run-{a,b}*.bin". A pattern without '/' is matched against
// the base name, any other pattern against the slash-separated path relative
// to the root.
func WithPattern(pattern string) Option {
	return options.New(func(c *Config) error {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid pattern %q", pattern)
		}
		c.pattern = pattern

		return nil
	})
}

// WithHidden includes files and directories whose name starts with a dot.
func WithHidden(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.hidden = enabled
	})
}

// Files returns the regular files under root in lexical order.
func Files(root string, opts ...Option) ([]string, error) {
	cfg, err := options.Build(func() *Config { return &Config{} }, opts...)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path == root {
			return nil
		}

		if !cfg.hidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			if !cfg.recursive {
				return fs.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		ok, err := cfg.match(root, path)
		if err != nil {
			return err
		}
		if ok {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

func (c *Config) match(root, path string) (bool, error) {
	if c.pattern == "" {
		return true, nil
	}

	if !strings.Contains(c.pattern, "/") {
		return doublestar.Match(c.pattern, filepath.Base(path))
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false, err
	}

	return doublestar.Match(c.pattern, filepath.ToSlash(rel))
}

// Each calls fn for every path. It keeps going after a failure and returns
// the failures joined, each prefixed with its path.
func Each(paths []string, fn func(path string) error) error {
	var errs []error
	for _, p := range paths {
		if err := fn(p); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
		}
	}

	return errors.Join(errs...)
}
