// Package estimate produces maximum-likelihood point estimates with
// Hessian-based standard errors. The quasi-Newton path goes through gonum's
// BFGS implementation with a numerically approximated gradient; the
// univariate no-covariate Poisson rate uses a bounded golden-section search
// instead, since the parameter is constrained positive.
package estimate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"statlab/domain/core"
	"statlab/domain/model"
	"statlab/internal/likelihood"
)

// zCritical95 is the two-sided normal critical value for 95% confidence
const zCritical95 = 1.959964

// Options controls the quasi-Newton optimization
type Options struct {
	// GradientThreshold is the convergence tolerance on the gradient norm
	GradientThreshold float64
	// MaxIterations caps the number of major BFGS iterations
	MaxIterations int
}

// DefaultOptions returns the standard optimizer settings
func DefaultOptions() *Options {
	return &Options{
		GradientThreshold: 1e-6,
		MaxIterations:     1000,
	}
}

// MLE minimizes the negative log-likelihood from the starting vector
// (convention: zero vector) and computes standard errors from the inverted
// numerical Hessian at the optimum. Dimension mismatches are rejected before
// any optimizer iteration. A Hessian that is not positive definite surfaces
// as a numerical-instability error rather than NaN standard errors.
func MLE(obj likelihood.Objective, start []float64, opts *Options) (*model.Fit, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if len(start) != obj.NumParams() {
		return nil, core.NewDimensionError("initial parameter vector", len(start), obj.NumParams())
	}

	problem := optimize.Problem{
		Func: obj.NegLogLik,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, obj.NegLogLik, x, &fd.Settings{Formula: fd.Central})
		},
	}
	settings := &optimize.Settings{
		GradientThreshold: opts.GradientThreshold,
		MajorIterations:   opts.MaxIterations,
	}

	x0 := append([]float64(nil), start...)
	result, err := optimize.Minimize(problem, x0, settings, &optimize.BFGS{})
	if err != nil {
		return nil, core.NewInstabilityError("quasi-Newton minimization failed", err)
	}

	converged := result.Status != optimize.NotTerminated &&
		result.Status != optimize.IterationLimit &&
		result.Status != optimize.Failure

	stderr, err := hessianStdErr(obj.NegLogLik, result.X)
	if err != nil {
		return nil, err
	}

	n := len(result.X)
	fit := &model.Fit{
		Names:      paramNames(obj, n),
		Params:     append([]float64(nil), result.X...),
		StdErr:     stderr,
		Lower:      make([]float64, n),
		Upper:      make([]float64, n),
		LogLik:     -result.F,
		Converged:  converged,
		Iterations: result.Stats.MajorIterations,
	}
	for j := range fit.Params {
		fit.Lower[j] = fit.Params[j] - zCritical95*stderr[j]
		fit.Upper[j] = fit.Params[j] + zCritical95*stderr[j]
	}
	return fit, nil
}

// hessianStdErr computes the finite-difference Hessian of the negative
// log-likelihood at beta, inverts it, and returns the square roots of the
// diagonal. Collinear covariates make the Hessian singular here.
func hessianStdErr(negLogLik func([]float64) float64, beta []float64) ([]float64, error) {
	n := len(beta)
	hess := mat.NewSymDense(n, nil)
	fd.Hessian(hess, negLogLik, beta, nil)

	var chol mat.Cholesky
	if ok := chol.Factorize(hess); !ok {
		return nil, core.NewInstabilityError("hessian is not positive definite", nil)
	}

	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, core.NewInstabilityError("hessian inversion failed", err)
	}

	stderr := make([]float64, n)
	for j := 0; j < n; j++ {
		v := inv.At(j, j)
		if v < 0 || math.IsNaN(v) {
			return nil, core.NewInstabilityError("negative variance from inverted hessian", nil)
		}
		stderr[j] = math.Sqrt(v)
	}
	return stderr, nil
}

func paramNames(obj likelihood.Objective, n int) []string {
	names := obj.ParamNames()
	if len(names) == n {
		return append([]string(nil), names...)
	}
	generated := make([]string, n)
	for j := range generated {
		generated[j] = fmt.Sprintf("beta%d", j)
	}
	return generated
}
