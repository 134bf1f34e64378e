package fit

import (
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/ubinary/internal/options"
)

// Result is the outcome of a fit.
type Result struct {
	// Model is the name of the fitted model.
	Model string
	// Params holds the fitted parameters, fixed ones included.
	Params []float64
	// Errors holds one standard error per parameter; fixed parameters
	// report 0.
	Errors []float64
	// Intervals holds the two-sided confidence interval of each parameter.
	Intervals [][2]float64
	// ConfidenceLevel is the level the intervals were computed at.
	ConfidenceLevel float64
	// ChiSquare is the weighted sum of squared residuals.
	ChiSquare float64
	// ReducedChiSquare is ChiSquare divided by DOF.
	ReducedChiSquare float64
	// RSquared is the coefficient of determination of the unweighted fit.
	RSquared float64
	// RMSE is the unweighted root mean square error.
	RMSE float64
	// DOF is the number of weighted points minus the number of free parameters.
	DOF int
	// Iterations counts accepted solver steps.
	Iterations int
	// Converged reports whether the solver met its tolerance before the
	// iteration cap.
	Converged bool

	fn      ModelFunc
	formula func([]float64) string
}

// Predict evaluates the fitted model at x.
func (r *Result) Predict(x float64) float64 {
	return r.fn(x, r.Params)
}

// Formula renders the fitted model, or the parameter list for models without
// a formula.
func (r *Result) Formula() string {
	if r.formula != nil {
		return r.formula(r.Params)
	}

	parts := make([]string, len(r.Params))
	for i, p := range r.Params {
		parts[i] = fmt.Sprintf("p%d = %.4g", i, p)
	}

	return r.Model + "(" + strings.Join(parts, ", ") + ")"
}

func (r *Result) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Fit{Model: %s, R²: %.4f, RMSE: %.4g, χ²/dof: %.4g, Formula: %s}",
		r.Model, r.RSquared, r.RMSE, r.ReducedChiSquare, r.Formula())
	for i := range r.Params {
		fmt.Fprintf(&sb, "\n  p%d = %.6g ± %.3g  [%.6g, %.6g] @ %g%%",
			i, r.Params[i], r.Errors[i], r.Intervals[i][0], r.Intervals[i][1], r.ConfidenceLevel*100)
	}

	return sb.String()
}

// Fit fits model to the points (x, y) starting from p0. A nil p0 asks the
// model for a starting guess.
func Fit(x, y []float64, model Model, p0 []float64, opts ...Option) (*Result, error) {
	cfg, err := options.Build(NewConfig, opts...)
	if err != nil {
		return nil, err
	}

	pr, start, err := newProblem(x, y, model, p0, cfg)
	if err != nil {
		return nil, err
	}

	points := 0
	for _, s := range pr.sw {
		if s > 0 {
			points++
		}
	}

	dof := points - len(pr.free)
	if dof < 1 {
		return nil, fmt.Errorf("%w: %d weighted points for %d free parameters", ErrInvalidInput, points, len(pr.free))
	}

	if chi2 := pr.residuals(start, make([]float64, len(x))); math.IsInf(chi2, 1) {
		return nil, fmt.Errorf("%w: %s is not finite at the starting parameters %v", ErrInvalidInput, model.Name, start)
	}

	sol := pr.levenbergMarquardt(start, cfg.maxIterations, cfg.tolerance)

	cov, ok := pr.covariance(sol.params)
	if !ok {
		return nil, fmt.Errorf("%w: %s at %v", ErrSingular, model.Name, sol.params)
	}

	res := &Result{
		Model:            model.Name,
		Params:           sol.params,
		Errors:           make([]float64, len(sol.params)),
		Intervals:        make([][2]float64, len(sol.params)),
		ConfidenceLevel:  cfg.confidenceLevel,
		ChiSquare:        sol.chi2,
		ReducedChiSquare: sol.chi2 / float64(dof),
		DOF:              dof,
		Iterations:       sol.iterations,
		Converged:        sol.converged,
		fn:               model.Func,
		formula:          model.Formula,
	}

	t := studentTQuantile(1-(1-cfg.confidenceLevel)/2, float64(dof))
	m := len(pr.free)
	for k, idx := range pr.free {
		res.Errors[idx] = math.Sqrt(math.Max(cov[k*m+k], 0) * res.ReducedChiSquare)
	}
	for i, p := range res.Params {
		res.Intervals[i] = [2]float64{p - t*res.Errors[i], p + t*res.Errors[i]}
	}

	predicted := make([]float64, len(x))
	for i, xi := range x {
		predicted[i] = model.Func(xi, res.Params)
	}
	res.RSquared = calculateRSquared(y, predicted)
	res.RMSE = calculateRMSE(y, predicted)

	return res, nil
}

// newProblem validates the inputs and returns the problem and the clamped
// starting parameters.
func newProblem(x, y []float64, model Model, p0 []float64, cfg *Config) (*problem, []float64, error) {
	n := len(x)
	switch {
	case n == 0:
		return nil, nil, fmt.Errorf("%w: no data points", ErrInvalidInput)
	case len(y) != n:
		return nil, nil, fmt.Errorf("%w: %d x values and %d y values", ErrInvalidInput, n, len(y))
	case model.Func == nil || model.NumParams < 1:
		return nil, nil, fmt.Errorf("%w: model %q has no function or parameters", ErrInvalidInput, model.Name)
	}

	for i := range x {
		if !finite(x[i]) || !finite(y[i]) {
			return nil, nil, fmt.Errorf("%w: point %d is (%g, %g)", ErrInvalidInput, i, x[i], y[i])
		}
	}

	np := model.NumParams

	if p0 == nil {
		if model.Guess == nil {
			return nil, nil, fmt.Errorf("%w: model %q needs starting parameters", ErrInvalidInput, model.Name)
		}
		p0 = model.Guess(x, y)
		for i := range p0 {
			if !finite(p0[i]) {
				p0[i] = 1
			}
		}
	}

	if len(p0) != np {
		return nil, nil, fmt.Errorf("%w: %d starting parameters for %d-parameter model %q",
			ErrInvalidInput, len(p0), np, model.Name)
	}

	pr := &problem{
		x: x, y: y, fn: model.Func,
		sw:    make([]float64, n),
		lower: make([]float64, np),
		upper: make([]float64, np),
	}

	for i := range pr.sw {
		pr.sw[i] = 1
	}
	if cfg.weights != nil {
		if len(cfg.weights) != n {
			return nil, nil, fmt.Errorf("%w: %d weights for %d points", ErrInvalidInput, len(cfg.weights), n)
		}
		for i, w := range cfg.weights {
			pr.sw[i] = math.Sqrt(w)
		}
	}

	for i := range np {
		pr.lower[i], pr.upper[i] = math.Inf(-1), math.Inf(1)
	}
	if cfg.lower != nil {
		if len(cfg.lower) != np {
			return nil, nil, fmt.Errorf("%w: %d bounds for %d parameters", ErrInvalidInput, len(cfg.lower), np)
		}
		copy(pr.lower, cfg.lower)
		copy(pr.upper, cfg.upper)
	}

	if cfg.fixed != nil && len(cfg.fixed) != np {
		return nil, nil, fmt.Errorf("%w: fixed mask of %d for %d parameters", ErrInvalidInput, len(cfg.fixed), np)
	}
	for i := range np {
		if cfg.fixed == nil || !cfg.fixed[i] {
			pr.free = append(pr.free, i)
		}
	}
	if len(pr.free) == 0 {
		return nil, nil, fmt.Errorf("%w: every parameter is fixed", ErrInvalidInput)
	}

	start := append([]float64(nil), p0...)
	pr.clamp(start)

	return pr, start, nil
}
