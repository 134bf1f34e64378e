// Package fit provides nonlinear least-squares fitting for decoded waveform
// and array data.
//
// Fit runs a Levenberg–Marquardt solver with a forward-difference Jacobian.
// Parameters can be held fixed, boxed between bounds and weighted per point;
// the result carries standard errors, Student t confidence intervals, the
// reduced chi-square, R² and RMSE.
//
// Built-in models:
//   - Hyperbolic:  y = a + b/x
//   - Logarithmic: y = a + b·ln(x)
//   - Power:       y = a·x^b
//   - Exponential: y = a·e^(b·x)
//   - Polynomial:  y = a + b·x + c·x²
//
// Each built-in model can derive starting parameters from the data through
// its linearized closed-form fit, so p0 may be nil:
//
//	model, _ := fit.ModelFor(fit.ModelTypeExponential)
//	res, err := fit.Fit(t, y, model, nil, fit.WithConfidenceLevel(0.99))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Params, res.Intervals)
//
// Custom models wrap any ModelFunc with NewModel.
package fit
