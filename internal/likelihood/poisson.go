package likelihood

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"statlab/domain/core"
	"statlab/domain/model"
)

// Poisson is a Poisson regression log-likelihood with log link: for each
// record i the rate is lambda_i = exp(X_i . beta), positive for any real beta.
type Poisson struct {
	x model.Design
	y []float64
}

// NewPoisson validates the design/outcome pair and returns the likelihood.
// Counts must be non-negative integers; validation rejects mismatched
// dimensions before any optimizer iteration runs.
func NewPoisson(x model.Design, y []float64) (*Poisson, error) {
	if err := x.Validate(); err != nil {
		return nil, err
	}
	if len(y) != x.NumRows() {
		return nil, core.NewDimensionError("outcome vector", len(y), x.NumRows())
	}
	if x.NumRows() == 0 {
		return nil, core.ErrInsufficientData
	}
	for i, yi := range y {
		if yi < 0 || yi != math.Trunc(yi) {
			return nil, fmt.Errorf("%w: outcome %d is not a non-negative integer count", core.ErrInvalidConfig, i)
		}
	}
	return &Poisson{x: x, y: y}, nil
}

// NumParams returns the number of covariate columns
func (p *Poisson) NumParams() int { return p.x.NumCols() }

// ParamNames returns the design column names
func (p *Poisson) ParamNames() []string { return p.x.Names }

// LogLik computes sum_i [ y_i*eta_i - exp(eta_i) - lgamma(y_i+1) ] where
// eta_i = X_i . beta. The lgamma term supports non-trivial counts without
// overflowing a factorial.
func (p *Poisson) LogLik(beta []float64) float64 {
	if len(beta) != p.NumParams() {
		return math.Inf(-1)
	}
	ll := 0.0
	for i, row := range p.x.Rows {
		eta := floats.Dot(row, beta)
		lg, _ := math.Lgamma(p.y[i] + 1)
		ll += p.y[i]*eta - math.Exp(eta) - lg
	}
	return ll
}

// NegLogLik returns -LogLik(beta) for use by a minimizer
func (p *Poisson) NegLogLik(beta []float64) float64 {
	return -p.LogLik(beta)
}

// RateLogLik is the no-covariate Poisson log-likelihood for a scalar rate.
// A non-positive rate is outside the parameter domain and evaluates to -Inf,
// which steers a minimizer away rather than raising from log().
func RateLogLik(lambda float64, counts []float64) float64 {
	if lambda <= 0 {
		return math.Inf(-1)
	}
	ll := 0.0
	logLambda := math.Log(lambda)
	for _, k := range counts {
		lg, _ := math.Lgamma(k + 1)
		ll += k*logLambda - lambda - lg
	}
	return ll
}
