// Package options implements generic functional options.
//
// Each configurable package declares its own alias,
//
//	type Option = options.Option[*Config]
//
// and builds options with New (validating) or NoError (plain setters).
package options

// Option configures a target of type T.
type Option[T any] interface {
	apply(T) error
}

// Func adapts a function to Option.
type Func[T any] struct {
	applyFunc func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// New wraps a setter that may reject its input.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{applyFunc: fn}
}

// NoError wraps a setter that cannot fail.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Apply applies opts to target in order and stops at the first error. Nil
// options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}

// Build creates a target with newFn and applies opts to it.
func Build[T any](newFn func() T, opts ...Option[T]) (T, error) {
	target := newFn()
	if err := Apply(target, opts...); err != nil {
		var zero T
		return zero, err
	}

	return target, nil
}
