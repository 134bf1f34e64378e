package fit_test

import (
	"fmt"
	"log"

	"github.com/arloliu/ubinary/fit"
)

// ExampleFit fits a quadratic to exact samples and derives the starting
// parameters from the data.
func ExampleFit() {
	x := []float64{-2, -1, 0, 1, 2, 3, 4}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 1 + 2*v + 0.5*v*v
	}

	model, err := fit.ModelFor(fit.ModelTypePolynomial)
	if err != nil {
		log.Fatal(err)
	}

	res, err := fit.Fit(x, y, model, nil)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("params: %.3f %.3f %.3f\n", res.Params[0], res.Params[1], res.Params[2])
	fmt.Printf("R²: %.4f\n", res.RSquared)
	fmt.Printf("y(5) = %.2f\n", res.Predict(5))

	// Output:
	// params: 1.000 2.000 0.500
	// R²: 1.0000
	// y(5) = 23.50
}

// ExampleWithFixed holds one parameter at its starting value.
func ExampleWithFixed() {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{3, 5, 7, 9, 11}

	model, _ := fit.ModelFor(fit.ModelTypePolynomial)
	res, err := fit.Fit(x, y, model, []float64{0, 0, 0}, fit.WithFixed(false, false, true))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(res.Formula())

	// Output:
	// y = 1 + 2*x + 0*x²
}
