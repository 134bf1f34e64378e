package fit

import (
	"errors"
	"fmt"

	"github.com/arloliu/ubinary/internal/options"
)

// Config holds the solver settings for Fit.
type Config struct {
	fixed           []bool
	lower, upper    []float64
	weights         []float64
	confidenceLevel float64
	maxIterations   int
	tolerance       float64
}

// NewConfig returns the default configuration: 95% intervals, 200
// iterations and a relative tolerance of 1e-10.
func NewConfig() *Config {
	return &Config{
		confidenceLevel: 0.95,
		maxIterations:   200,
		tolerance:       1e-10,
	}
}

// Option configures a fit.
type Option = options.Option[*Config]

// WithFixed marks parameters that keep their starting value. The mask length
// must match the model's parameter count.
func WithFixed(mask ...bool) Option {
	return options.NoError(func(cfg *Config) {
		cfg.fixed = mask
	})
}

// WithBounds boxes the parameters. Use ±Inf for an open side.
func WithBounds(lower, upper []float64) Option {
	return options.New(func(cfg *Config) error {
		if len(lower) != len(upper) {
			return fmt.Errorf("%w: %d lower and %d upper bounds", ErrInvalidInput, len(lower), len(upper))
		}

		for i := range lower {
			if lower[i] > upper[i] {
				return fmt.Errorf("%w: lower bound %g above upper bound %g for parameter %d",
					ErrInvalidInput, lower[i], upper[i], i)
			}
		}

		cfg.lower, cfg.upper = lower, upper

		return nil
	})
}

// WithWeights weights each squared residual. Weights must be non-negative.
func WithWeights(weights []float64) Option {
	return options.New(func(cfg *Config) error {
		for i, w := range weights {
			if w < 0 || !finite(w) {
				return fmt.Errorf("%w: weight %d is %g", ErrInvalidInput, i, w)
			}
		}

		cfg.weights = weights

		return nil
	})
}

// WithConfidenceLevel sets the two-sided confidence level of the parameter
// intervals, in (0, 1).
func WithConfidenceLevel(level float64) Option {
	return options.New(func(cfg *Config) error {
		if !(level > 0 && level < 1) {
			return fmt.Errorf("%w: confidence level %g outside (0, 1)", ErrInvalidInput, level)
		}
		cfg.confidenceLevel = level

		return nil
	})
}

// WithMaxIterations caps the number of accepted solver steps.
func WithMaxIterations(n int) Option {
	return options.New(func(cfg *Config) error {
		if n <= 0 {
			return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidInput, n)
		}
		cfg.maxIterations = n

		return nil
	})
}

// WithTolerance sets the relative change in chi-square and parameters below
// which the solver stops.
func WithTolerance(tol float64) Option {
	return options.New(func(cfg *Config) error {
		if !(tol > 0) {
			return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidInput, tol)
		}
		cfg.tolerance = tol

		return nil
	})
}

var (
	// ErrInvalidInput reports unusable data, starting values or options.
	ErrInvalidInput = errors.New("fit: invalid input")
	// ErrSingular reports a Jacobian without full rank at the solution, so
	// the parameter covariance is undefined.
	ErrSingular = errors.New("fit: singular normal matrix")
)
