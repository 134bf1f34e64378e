package fit

import (
	"fmt"
	"math"
	"strings"
)

// ModelFunc evaluates a model at x with parameters p.
type ModelFunc func(x float64, p []float64) float64

// ModelType names a built-in model.
type ModelType int

const (
	ModelTypeHyperbolic ModelType = iota
	ModelTypeLogarithmic
	ModelTypePower
	ModelTypeExponential
	ModelTypePolynomial
)

var modelTypeNames = map[ModelType]string{
	ModelTypeHyperbolic:  "hyperbolic",
	ModelTypeLogarithmic: "logarithmic",
	ModelTypePower:       "power",
	ModelTypeExponential: "exponential",
	ModelTypePolynomial:  "polynomial",
}

func (mt ModelType) String() string {
	if name, exists := modelTypeNames[mt]; exists {
		return name
	}

	return "unknown"
}

var modelTypeFromString = map[string]ModelType{
	"hyperbolic":  ModelTypeHyperbolic,
	"logarithmic": ModelTypeLogarithmic,
	"log":         ModelTypeLogarithmic,
	"power":       ModelTypePower,
	"exponential": ModelTypeExponential,
	"exp":         ModelTypeExponential,
	"polynomial":  ModelTypePolynomial,
	"poly":        ModelTypePolynomial,
}

// ModelTypeFromString parses a model name, case-insensitively. Unknown names
// return ModelType(-1).
func ModelTypeFromString(name string) ModelType {
	if modelType, exists := modelTypeFromString[strings.ToLower(name)]; exists {
		return modelType
	}

	return ModelType(-1)
}

// Model is a parametric model ready for Fit.
type Model struct {
	// Name identifies the model in results and errors.
	Name string
	// Func evaluates the model.
	Func ModelFunc
	// NumParams is the number of parameters Func expects.
	NumParams int
	// Guess derives starting parameters from the data. It may be nil.
	Guess func(x, y []float64) []float64
	// Formula renders the model with concrete parameters. It may be nil.
	Formula func(p []float64) string
}

// NewModel wraps a custom function.
func NewModel(name string, numParams int, fn ModelFunc) Model {
	return Model{Name: name, Func: fn, NumParams: numParams}
}

// ModelFor returns a built-in model.
func ModelFor(mt ModelType) (Model, error) {
	switch mt {
	case ModelTypeHyperbolic:
		return Model{
			Name: mt.String(), NumParams: 2,
			Func:    func(x float64, p []float64) float64 { return p[0] + p[1]/x },
			Guess:   func(x, y []float64) []float64 { return linearGuess(x, y, inv, ident) },
			Formula: func(p []float64) string { return fmt.Sprintf("y = %.4g + %.4g / x", p[0], p[1]) },
		}, nil
	case ModelTypeLogarithmic:
		return Model{
			Name: mt.String(), NumParams: 2,
			Func:    func(x float64, p []float64) float64 { return p[0] + p[1]*math.Log(x) },
			Guess:   func(x, y []float64) []float64 { return linearGuess(x, y, math.Log, ident) },
			Formula: func(p []float64) string { return fmt.Sprintf("y = %.4g + %.4g * ln(x)", p[0], p[1]) },
		}, nil
	case ModelTypePower:
		return Model{
			Name: mt.String(), NumParams: 2,
			Func: func(x float64, p []float64) float64 { return p[0] * math.Pow(x, p[1]) },
			Guess: func(x, y []float64) []float64 {
				p := linearGuess(x, y, math.Log, math.Log)
				p[0] = math.Exp(p[0])

				return p
			},
			Formula: func(p []float64) string { return fmt.Sprintf("y = %.4g * x^%.4g", p[0], p[1]) },
		}, nil
	case ModelTypeExponential:
		return Model{
			Name: mt.String(), NumParams: 2,
			Func: func(x float64, p []float64) float64 { return p[0] * math.Exp(p[1]*x) },
			Guess: func(x, y []float64) []float64 {
				p := linearGuess(x, y, ident, math.Log)
				p[0] = math.Exp(p[0])

				return p
			},
			Formula: func(p []float64) string { return fmt.Sprintf("y = %.4g * e^(%.4g * x)", p[0], p[1]) },
		}, nil
	case ModelTypePolynomial:
		return Model{
			Name: mt.String(), NumParams: 3,
			Func:  func(x float64, p []float64) float64 { return p[0] + p[1]*x + p[2]*x*x },
			Guess: quadraticGuess,
			Formula: func(p []float64) string {
				return fmt.Sprintf("y = %.4g + %.4g*x + %.4g*x²", p[0], p[1], p[2])
			},
		}, nil
	default:
		return Model{}, fmt.Errorf("unknown model type %d", int(mt))
	}
}

func ident(v float64) float64 { return v }
func inv(v float64) float64   { return 1 / v }

// linearGuess fits v(y) = a + b·u(x) in closed form over the points where
// both transforms are finite. With fewer than two such points it returns the
// mean of y and a zero slope.
func linearGuess(x, y []float64, u, v func(float64) float64) []float64 {
	var n, sumU, sumV, sumUV, sumU2 float64
	for i := range x {
		ui, vi := u(x[i]), v(y[i])
		if !finite(ui) || !finite(vi) {
			continue
		}
		n++
		sumU += ui
		sumV += vi
		sumUV += ui * vi
		sumU2 += ui * ui
	}

	den := n*sumU2 - sumU*sumU
	if n < 2 || den == 0 {
		return []float64{v(mean(y)), 0}
	}

	b := (n*sumUV - sumU*sumV) / den
	a := (sumV - b*sumU) / n

	return []float64{a, b}
}

// quadraticGuess solves the 3×3 normal equations of y = a + b·x + c·x².
func quadraticGuess(x, y []float64) []float64 {
	var s [5]float64
	var t [3]float64
	for i := range x {
		xi := 1.0
		for k := range s {
			s[k] += xi
			if k < 3 {
				t[k] += xi * y[i]
			}
			xi *= x[i]
		}
	}

	a := []float64{
		s[0], s[1], s[2],
		s[1], s[2], s[3],
		s[2], s[3], s[4],
	}

	p, ok := solve(a, t[:], 3)
	if !ok {
		return []float64{mean(y), 0, 0}
	}

	return p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
