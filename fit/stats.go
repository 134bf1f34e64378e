package fit

import "math"

// calculateRSquared returns the coefficient of determination, or 0 when the
// observations have no variance.
func calculateRSquared(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}

	m := mean(observed)
	ssTot := 0.0
	ssRes := 0.0

	for i := range observed {
		ssTot += (observed[i] - m) * (observed[i] - m)
		ssRes += (observed[i] - predicted[i]) * (observed[i] - predicted[i])
	}

	if ssTot == 0 {
		return 0
	}

	return 1.0 - (ssRes / ssTot)
}

func calculateRMSE(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}

	sumSq := 0.0
	for i := range observed {
		diff := observed[i] - predicted[i]
		sumSq += diff * diff
	}

	return math.Sqrt(sumSq / float64(len(observed)))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// studentTCDF is the cumulative distribution of Student's t with dof
// degrees of freedom.
func studentTCDF(t, dof float64) float64 {
	tail := 0.5 * regIncBeta(dof/2, 0.5, dof/(dof+t*t))
	if t >= 0 {
		return 1 - tail
	}

	return tail
}

// studentTQuantile returns t with P(T ≤ t) = q for q in [0.5, 1).
func studentTQuantile(q, dof float64) float64 {
	if q <= 0.5 {
		return 0
	}

	hi := 1.0
	for studentTCDF(hi, dof) < q && hi < 1e12 {
		hi *= 2
	}

	lo := 0.0
	for range 200 {
		mid := (lo + hi) / 2
		if studentTCDF(mid, dof) < q {
			lo = mid
		} else {
			hi = mid
		}

		if hi-lo <= 1e-12*hi {
			break
		}
	}

	return (lo + hi) / 2
}

// regIncBeta is the regularized incomplete beta function I_x(a, b).
func regIncBeta(a, b, x float64) float64 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 1
	}

	lga, _ := math.Lgamma(a)
	lgb, _ := math.Lgamma(b)
	lgab, _ := math.Lgamma(a + b)
	front := math.Exp(lgab - lga - lgb + a*math.Log(x) + b*math.Log1p(-x))

	if x < (a+1)/(a+b+2) {
		return front * betaContinuedFraction(a, b, x) / a
	}

	return 1 - front*betaContinuedFraction(b, a, 1-x)/b
}

// betaContinuedFraction evaluates the continued fraction of the incomplete
// beta function with the modified Lentz method.
func betaContinuedFraction(a, b, x float64) float64 {
	const (
		maxIter = 300
		eps     = 1e-15
		tiny    = 1e-300
	)

	guard := func(v float64) float64 {
		if math.Abs(v) < tiny {
			return tiny
		}

		return v
	}

	qab, qap, qam := a+b, a+1, a-1
	c := 1.0
	d := 1 / guard(1-qab*x/qap)
	h := d

	for m := 1; m <= maxIter; m++ {
		fm := float64(m)
		m2 := 2 * fm

		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 / guard(1+aa*d)
		c = guard(1 + aa/c)
		h *= d * c

		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 / guard(1+aa*d)
		c = guard(1 + aa/c)
		del := d * c
		h *= del

		if math.Abs(del-1) < eps {
			break
		}
	}

	return h
}
