package fit

import (
	"math"

	"github.com/arloliu/ubinary/internal/pool"
)

const (
	lambdaInit = 1e-3
	lambdaMin  = 1e-12
	lambdaMax  = 1e12
	stepScale  = 1.4901161193847656e-08 // sqrt of float64 epsilon
)

// problem is a weighted least-squares problem over the free parameters.
type problem struct {
	x, y  []float64
	sw    []float64 // square roots of the weights
	fn    ModelFunc
	free  []int
	lower []float64
	upper []float64
}

// residuals fills r with sw·(y - f(x, p)) and returns the sum of squares.
// A non-finite model value makes the sum +Inf.
func (pr *problem) residuals(p, r []float64) float64 {
	var chi2 float64
	for i, xi := range pr.x {
		f := pr.fn(xi, p)
		r[i] = pr.sw[i] * (pr.y[i] - f)
		chi2 += r[i] * r[i]
	}

	if !finite(chi2) {
		return math.Inf(1)
	}

	return chi2
}

// jacobian fills jac (n rows, one column per free parameter) with
// sw·∂f/∂p by forward differences. Steps that would leave the box go
// backwards instead.
func (pr *problem) jacobian(p, jac []float64) {
	m := len(pr.free)
	trial := append([]float64(nil), p...)

	for k, idx := range pr.free {
		h := stepScale * math.Max(math.Abs(p[idx]), 1)
		if p[idx]+h > pr.upper[idx] {
			h = -h
		}
		trial[idx] = p[idx] + h

		for i, xi := range pr.x {
			jac[i*m+k] = pr.sw[i] * (pr.fn(xi, trial) - pr.fn(xi, p)) / h
		}
		trial[idx] = p[idx]
	}
}

// normal builds JᵀJ and Jᵀr.
func normal(jac, r []float64, n, m int) ([]float64, []float64) {
	a := make([]float64, m*m)
	g := make([]float64, m)

	for i := range n {
		row := jac[i*m : (i+1)*m]
		for j := range m {
			g[j] += row[j] * r[i]
			for k := j; k < m; k++ {
				a[j*m+k] += row[j] * row[k]
			}
		}
	}

	for j := range m {
		for k := range j {
			a[j*m+k] = a[k*m+j]
		}
	}

	return a, g
}

func (pr *problem) clamp(p []float64) {
	for i := range p {
		p[i] = math.Min(math.Max(p[i], pr.lower[i]), pr.upper[i])
	}
}

type solution struct {
	params     []float64
	chi2       float64
	iterations int
	converged  bool
}

// levenbergMarquardt minimizes the weighted sum of squared residuals from
// p0, projecting every trial step onto the bounds.
func (pr *problem) levenbergMarquardt(p0 []float64, maxIter int, tol float64) solution {
	n, m := len(pr.x), len(pr.free)

	p := append([]float64(nil), p0...)
	pr.clamp(p)

	r := make([]float64, n)
	rTrial := make([]float64, n)
	trial := make([]float64, len(p))
	chi2 := pr.residuals(p, r)

	jac, release := pool.GetFloat64Slice(n * m)
	defer release()

	lambda := lambdaInit
	sol := solution{}

	for sol.iterations < maxIter {
		if chi2 == 0 {
			sol.converged = true
			break
		}

		pr.jacobian(p, jac)
		a, g := normal(jac, r, n, m)

		accepted := false
		for lambda <= lambdaMax {
			damped := append([]float64(nil), a...)
			for j := range m {
				d := a[j*m+j]
				if d == 0 {
					d = 1
				}
				damped[j*m+j] += lambda * d
			}

			delta, ok := solve(damped, g, m)
			if !ok {
				lambda *= 10
				continue
			}

			copy(trial, p)
			for k, idx := range pr.free {
				trial[idx] += delta[k]
			}
			pr.clamp(trial)

			chiTrial := pr.residuals(trial, rTrial)
			if chiTrial >= chi2 {
				lambda *= 10
				continue
			}

			small := true
			for _, idx := range pr.free {
				if math.Abs(trial[idx]-p[idx]) > tol*(math.Abs(p[idx])+tol) {
					small = false
					break
				}
			}

			drop := chi2 - chiTrial
			copy(p, trial)
			r, rTrial = rTrial, r
			chi2 = chiTrial
			lambda = math.Max(lambda/10, lambdaMin)
			accepted = true
			sol.iterations++

			if small || drop <= tol*chi2 {
				sol.converged = true
			}

			break
		}

		// no downhill step at any damping: p is a local minimum
		if !accepted {
			sol.converged = true
			break
		}

		if sol.converged {
			break
		}
	}

	sol.params = p
	sol.chi2 = chi2

	return sol
}

// covariance returns (JᵀJ)⁻¹ over the free parameters at p.
func (pr *problem) covariance(p []float64) ([]float64, bool) {
	n, m := len(pr.x), len(pr.free)

	jac, release := pool.GetFloat64Slice(n * m)
	defer release()

	pr.jacobian(p, jac)
	a, _ := normal(jac, make([]float64, n), n, m)

	return invert(a, m)
}

// solve solves the m×m system a·x = b by Gaussian elimination with partial
// pivoting. a and b are left untouched.
func solve(a, b []float64, m int) ([]float64, bool) {
	w := append([]float64(nil), a...)
	x := append([]float64(nil), b...)

	for col := range m {
		pivot := col
		for row := col + 1; row < m; row++ {
			if math.Abs(w[row*m+col]) > math.Abs(w[pivot*m+col]) {
				pivot = row
			}
		}

		if w[pivot*m+col] == 0 || !finite(w[pivot*m+col]) {
			return nil, false
		}

		if pivot != col {
			for k := range m {
				w[col*m+k], w[pivot*m+k] = w[pivot*m+k], w[col*m+k]
			}
			x[col], x[pivot] = x[pivot], x[col]
		}

		for row := col + 1; row < m; row++ {
			f := w[row*m+col] / w[col*m+col]
			for k := col; k < m; k++ {
				w[row*m+k] -= f * w[col*m+k]
			}
			x[row] -= f * x[col]
		}
	}

	for row := m - 1; row >= 0; row-- {
		s := x[row]
		for k := row + 1; k < m; k++ {
			s -= w[row*m+k] * x[k]
		}
		x[row] = s / w[row*m+row]
	}

	return x, true
}

// invert returns the inverse of the m×m matrix a by Gauss-Jordan
// elimination. Pivots below a relative threshold count as singular.
func invert(a []float64, m int) ([]float64, bool) {
	w := append([]float64(nil), a...)
	inv := make([]float64, m*m)
	for i := range m {
		inv[i*m+i] = 1
	}

	var scale float64
	for _, v := range a {
		scale = math.Max(scale, math.Abs(v))
	}
	threshold := scale * 1e-14

	for col := range m {
		pivot := col
		for row := col + 1; row < m; row++ {
			if math.Abs(w[row*m+col]) > math.Abs(w[pivot*m+col]) {
				pivot = row
			}
		}

		if math.Abs(w[pivot*m+col]) <= threshold {
			return nil, false
		}

		if pivot != col {
			for k := range m {
				w[col*m+k], w[pivot*m+k] = w[pivot*m+k], w[col*m+k]
				inv[col*m+k], inv[pivot*m+k] = inv[pivot*m+k], inv[col*m+k]
			}
		}

		d := w[col*m+col]
		for k := range m {
			w[col*m+k] /= d
			inv[col*m+k] /= d
		}

		for row := range m {
			if row == col {
				continue
			}
			f := w[row*m+col]
			if f == 0 {
				continue
			}
			for k := range m {
				w[row*m+k] -= f * w[col*m+k]
				inv[row*m+k] -= f * inv[col*m+k]
			}
		}
	}

	return inv, true
}
