package estimate

import (
	"fmt"
	"math"

	"statlab/domain/core"
	"statlab/internal/likelihood"
)

// Default search interval for a Poisson rate. Numerically safe for the count
// data handled here; callers with larger rates pass their own bounds.
const (
	DefaultRateLower = 0.001
	DefaultRateUpper = 10.0
)

// invPhi is 1/phi, the golden-section interval reduction factor
var invPhi = (math.Sqrt(5) - 1) / 2

// RateMLE estimates the no-covariate Poisson rate by golden-section search
// over [lower, upper], minimizing the negated scalar log-likelihood. The MLE
// of a Poisson rate is the sample mean, which makes this directly testable.
func RateMLE(counts []float64, lower, upper float64) (float64, error) {
	if len(counts) == 0 {
		return 0, core.ErrInsufficientData
	}
	if lower >= upper || lower <= 0 {
		return 0, fmt.Errorf("%w: rate bounds [%g, %g]", core.ErrInvalidConfig, lower, upper)
	}

	f := func(lambda float64) float64 {
		return -likelihood.RateLogLik(lambda, counts)
	}

	a, b := lower, upper
	c := b - (b-a)*invPhi
	d := a + (b-a)*invPhi
	fc, fd := f(c), f(d)

	const tol = 1e-9
	for iter := 0; iter < 200 && b-a > tol; iter++ {
		if fc < fd {
			b, d, fd = d, c, fc
			c = b - (b-a)*invPhi
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + (b-a)*invPhi
			fd = f(d)
		}
	}
	return (a + b) / 2, nil
}
