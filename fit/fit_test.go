package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func sample(n int, start, step float64, fn func(float64) float64) ([]float64, []float64) {
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = start + float64(i)*step
		y[i] = fn(x[i])
	}

	return x, y
}

func mustModel(t *testing.T, mt ModelType) Model {
	t.Helper()
	m, err := ModelFor(mt)
	require.NoError(t, err)

	return m
}

func TestModelTypeNames(t *testing.T) {
	for mt, name := range modelTypeNames {
		require.Equal(t, name, mt.String())
		require.Equal(t, mt, ModelTypeFromString(name))
	}

	require.Equal(t, ModelTypeExponential, ModelTypeFromString("EXP"))
	require.Equal(t, ModelTypePolynomial, ModelTypeFromString("poly"))
	require.Equal(t, ModelType(-1), ModelTypeFromString("spline"))
	require.Equal(t, "unknown", ModelType(42).String())

	_, err := ModelFor(ModelType(42))
	require.Error(t, err)
}

func TestFit_ExactData(t *testing.T) {
	tests := []struct {
		name  string
		model ModelType
		truth []float64
		start float64
	}{
		{"hyperbolic", ModelTypeHyperbolic, []float64{3, 5}, 1},
		{"logarithmic", ModelTypeLogarithmic, []float64{-1, 2.5}, 1},
		{"power", ModelTypePower, []float64{1.5, 0.7}, 1},
		{"exponential", ModelTypeExponential, []float64{2, 0.5}, 0},
		{"polynomial", ModelTypePolynomial, []float64{1, -2, 0.25}, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustModel(t, tt.model)
			x, y := sample(12, tt.start, 0.75, func(x float64) float64 { return m.Func(x, tt.truth) })

			res, err := Fit(x, y, m, nil)
			require.NoError(t, err)
			require.InDeltaSlice(t, tt.truth, res.Params, 1e-6)
			require.InDelta(t, 1.0, res.RSquared, 1e-9)
			require.InDelta(t, 0.0, res.RMSE, 1e-6)
			require.Equal(t, 12-m.NumParams, res.DOF)
			require.True(t, res.Converged)
			require.Equal(t, tt.model.String(), res.Model)
		})
	}
}

func TestFit_FromStartingParameters(t *testing.T) {
	m := mustModel(t, ModelTypeExponential)
	x, y := sample(10, 0, 0.5, func(x float64) float64 { return 2 * math.Exp(0.5*x) })

	res, err := Fit(x, y, m, []float64{1.5, 0.4})
	require.NoError(t, err)
	require.InDelta(t, 2.0, res.Params[0], 1e-6)
	require.InDelta(t, 0.5, res.Params[1], 1e-6)
	require.Positive(t, res.Iterations)
	require.InDelta(t, 2*math.Exp(0.5*3), res.Predict(3), 1e-4)
}

func TestFit_NoisyData(t *testing.T) {
	m := mustModel(t, ModelTypeHyperbolic)
	x, y := sample(20, 1, 1, func(x float64) float64 { return 3 + 5/x })
	for i := range y {
		if i%2 == 0 {
			y[i] += 0.01
		} else {
			y[i] -= 0.01
		}
	}

	res, err := Fit(x, y, m, []float64{1, 1}, WithConfidenceLevel(0.9))
	require.NoError(t, err)
	require.InDelta(t, 3.0, res.Params[0], 0.05)
	require.InDelta(t, 5.0, res.Params[1], 0.05)
	require.Positive(t, res.ReducedChiSquare)
	require.InDelta(t, res.ChiSquare/float64(res.DOF), res.ReducedChiSquare, 1e-15)

	q := studentTQuantile(0.95, float64(res.DOF))
	for i, p := range res.Params {
		require.Positive(t, res.Errors[i])
		require.InDelta(t, p-q*res.Errors[i], res.Intervals[i][0], 1e-12)
		require.InDelta(t, p+q*res.Errors[i], res.Intervals[i][1], 1e-12)
	}
	require.Equal(t, 0.9, res.ConfidenceLevel)
}

func TestFit_Fixed(t *testing.T) {
	m := mustModel(t, ModelTypePolynomial)
	x, y := sample(8, 0, 1, func(x float64) float64 { return 1 + 2*x })

	res, err := Fit(x, y, m, []float64{0, 0, 0}, WithFixed(false, false, true))
	require.NoError(t, err)
	require.InDelta(t, 1.0, res.Params[0], 1e-6)
	require.InDelta(t, 2.0, res.Params[1], 1e-6)
	require.Zero(t, res.Params[2])
	require.Zero(t, res.Errors[2])
	require.Equal(t, [2]float64{0, 0}, res.Intervals[2])
	require.Equal(t, 6, res.DOF)
}

func TestFit_Bounds(t *testing.T) {
	m := mustModel(t, ModelTypeExponential)
	x, y := sample(10, 0, 0.5, func(x float64) float64 { return 2 * math.Exp(0.5*x) })

	res, err := Fit(x, y, m, []float64{1, 0.1},
		WithBounds([]float64{0, -1}, []float64{10, 0.4}))
	require.NoError(t, err)
	require.LessOrEqual(t, res.Params[1], 0.4)
	require.InDelta(t, 0.4, res.Params[1], 0.01)
	require.Less(t, res.RSquared, 1.0)

	// starting values outside the box are clamped
	res, err = Fit(x, y, m, []float64{50, 0.5}, WithBounds([]float64{0, 0}, []float64{10, 1}))
	require.NoError(t, err)
	require.InDelta(t, 2.0, res.Params[0], 1e-5)
}

func TestFit_Weights(t *testing.T) {
	m := mustModel(t, ModelTypePolynomial)
	x, y := sample(9, -2, 0.5, func(x float64) float64 { return 1 + x + 0.5*x*x })
	y[8] += 100

	w := []float64{1, 1, 1, 1, 1, 1, 1, 1, 0}
	res, err := Fit(x, y, m, []float64{0, 0, 0}, WithWeights(w))
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1, 1, 0.5}, res.Params, 1e-6)
	require.Equal(t, 5, res.DOF)

	res, err = Fit(x, y, m, []float64{0, 0, 0})
	require.NoError(t, err)
	require.Greater(t, math.Abs(res.Params[2]-0.5), 0.1)
}

func TestFit_CustomModel(t *testing.T) {
	sine := NewModel("sine", 2, func(x float64, p []float64) float64 {
		return p[0] * math.Sin(p[1]*x)
	})
	x, y := sample(40, 0, 0.1, func(x float64) float64 { return 1.5 * math.Sin(2*x) })

	res, err := Fit(x, y, sine, []float64{1, 1.8})
	require.NoError(t, err)
	require.InDelta(t, 1.5, res.Params[0], 1e-6)
	require.InDelta(t, 2.0, res.Params[1], 1e-6)
	require.Equal(t, "sine(p0 = 1.5, p1 = 2)", res.Formula())
	require.Contains(t, res.String(), "Model: sine")

	_, err = Fit(x, y, sine, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFit_InvalidInput(t *testing.T) {
	m := mustModel(t, ModelTypeHyperbolic)
	x, y := sample(5, 1, 1, func(x float64) float64 { return 1 + 1/x })

	tests := []struct {
		name string
		x, y []float64
		p0   []float64
		opts []Option
	}{
		{"no points", nil, nil, []float64{1, 1}, nil},
		{"length mismatch", x, y[:4], []float64{1, 1}, nil},
		{"non-finite point", x, []float64{1, 2, math.NaN(), 4, 5}, []float64{1, 1}, nil},
		{"wrong p0 length", x, y, []float64{1}, nil},
		{"too few points", x[:2], y[:2], []float64{1, 1}, nil},
		{"all fixed", x, y, []float64{1, 1}, []Option{WithFixed(true, true)}},
		{"mask length", x, y, []float64{1, 1}, []Option{WithFixed(true)}},
		{"weights length", x, y, []float64{1, 1}, []Option{WithWeights([]float64{1})}},
		{"negative weight", x, y, []float64{1, 1}, []Option{WithWeights([]float64{1, 1, -1, 1, 1})}},
		{"zero weights leave no dof", x, y, []float64{1, 1}, []Option{WithWeights([]float64{1, 1, 0, 0, 0})}},
		{"bounds length", x, y, []float64{1, 1}, []Option{WithBounds([]float64{0}, []float64{1})}},
		{"inverted bounds", x, y, []float64{1, 1}, []Option{WithBounds([]float64{0, 2}, []float64{1, 1})}},
		{"bounds mismatch", x, y, []float64{1, 1}, []Option{WithBounds([]float64{0, 0}, []float64{1})}},
		{"confidence level", x, y, []float64{1, 1}, []Option{WithConfidenceLevel(1)}},
		{"iterations", x, y, []float64{1, 1}, []Option{WithMaxIterations(0)}},
		{"tolerance", x, y, []float64{1, 1}, []Option{WithTolerance(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.x, tt.y, m, tt.p0, tt.opts...)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	// y = a + b/x is undefined at x = 0
	_, err := Fit([]float64{0, 1, 2}, []float64{1, 2, 3}, m, []float64{1, 1})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFit_Singular(t *testing.T) {
	// the two parameters of a·b·x are not separable
	m := NewModel("product", 2, func(x float64, p []float64) float64 { return p[0] * p[1] * x })
	x, y := sample(6, 1, 1, func(x float64) float64 { return 2 * x })

	_, err := Fit(x, y, m, []float64{1, 2})
	require.ErrorIs(t, err, ErrSingular)
}

func TestStudentTQuantile(t *testing.T) {
	tests := []struct {
		q, dof, want float64
	}{
		{0.975, 1, 12.706204736},
		{0.975, 10, 2.228138852},
		{0.995, 5, 4.032142984},
		{0.95, 30, 1.697260887},
		{0.975, 1000, 1.962339081},
	}

	for _, tt := range tests {
		require.InDelta(t, tt.want, studentTQuantile(tt.q, tt.dof), 1e-5, "q=%g dof=%g", tt.q, tt.dof)
	}

	require.Zero(t, studentTQuantile(0.5, 3))
}

func TestRegIncBeta(t *testing.T) {
	require.InDelta(t, 0.5, regIncBeta(2, 2, 0.5), 1e-12)
	require.InDelta(t, 0.3, regIncBeta(1, 1, 0.3), 1e-12)
	require.InDelta(t, 1-math.Pow(0.8, 3), regIncBeta(1, 3, 0.2), 1e-12)
	require.Zero(t, regIncBeta(2, 3, 0))
	require.Equal(t, 1.0, regIncBeta(2, 3, 1))
}

func TestSolveAndInvert(t *testing.T) {
	a := []float64{
		0, 2, 1,
		1, 1, 0,
		3, 0, 1,
	}
	b := []float64{7, 3, 6}

	x, ok := solve(a, b, 3)
	require.True(t, ok)
	require.InDeltaSlice(t, []float64{1, 2, 3}, x, 1e-12)

	inv, ok := invert(a, 3)
	require.True(t, ok)
	for i := range 3 {
		for j := range 3 {
			var s float64
			for k := range 3 {
				s += a[i*3+k] * inv[k*3+j]
			}
			want := 0.0
			if i == j {
				want = 1
			}
			require.InDelta(t, want, s, 1e-12)
		}
	}

	_, ok = solve([]float64{1, 2, 2, 4}, []float64{1, 2}, 2)
	require.False(t, ok)
	_, ok = invert([]float64{1, 2, 2, 4}, 2)
	require.False(t, ok)
}

func TestCalculateStats(t *testing.T) {
	obs := []float64{1, 2, 3, 4}
	require.InDelta(t, 1.0, calculateRSquared(obs, obs), 1e-15)
	require.Zero(t, calculateRMSE(obs, obs))
	require.InDelta(t, 0.5, calculateRMSE(obs, []float64{1.5, 2.5, 3.5, 4.5}), 1e-15)
	require.Zero(t, calculateRSquared([]float64{2, 2}, []float64{1, 3}))
	require.Zero(t, calculateRSquared(nil, nil))
	require.Equal(t, 2.5, mean(obs))
}
