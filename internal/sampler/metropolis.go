// Package sampler implements a random-walk Metropolis-Hastings sampler over
// an unnormalized log-posterior (log-likelihood plus log-prior). The sampler
// is a pure function of its inputs and an explicitly seeded random source,
// so runs are reproducible and independently testable.
package sampler

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"statlab/domain/core"
	"statlab/domain/model"
)

// Config controls one sampling run
type Config struct {
	// Iterations is the total chain length, including burn-in
	Iterations int
	// BurnIn is the discarded prefix length
	BurnIn int
	// StepSizes are per-parameter proposal standard deviations
	StepSizes []float64
	// Seed initializes the PCG random source
	Seed uint64
	// Names labels the parameters in the resulting chain, optional
	Names []string
}

// Prior is an unnormalized log-prior density over the parameter vector
type Prior interface {
	LogDensity(beta []float64) float64
}

// NormalPrior places independent zero-mean normal priors on each parameter,
// with caller-specified variances (weakly informative by convention).
type NormalPrior struct {
	Variances []float64
}

// LogDensity sums the per-parameter normal log-densities
func (p NormalPrior) LogDensity(beta []float64) float64 {
	if len(beta) != len(p.Variances) {
		return math.Inf(-1)
	}
	ld := 0.0
	for j, v := range p.Variances {
		dist := distuv.Normal{Mu: 0, Sigma: math.Sqrt(v)}
		ld += dist.LogProb(beta[j])
	}
	return ld
}

// FlatPrior is an improper uniform prior; the posterior is the likelihood
type FlatPrior struct{}

// LogDensity is constant everywhere
func (FlatPrior) LogDensity([]float64) float64 { return 0 }

// Metropolis runs a single random-walk chain targeting
// logLik(beta) + prior.LogDensity(beta). Each iteration perturbs every
// parameter independently with a zero-mean normal step, accepts with
// probability min(1, exp(lprop - lcur)), and records the current state
// whether or not the proposal was taken.
func Metropolis(logLik func([]float64) float64, prior Prior, start []float64, cfg Config) (*model.Chain, error) {
	if err := validate(start, cfg); err != nil {
		return nil, err
	}
	if prior == nil {
		prior = FlatPrior{}
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed+1))

	cur := append([]float64(nil), start...)
	lcur := logLik(cur) + prior.LogDensity(cur)
	if math.IsNaN(lcur) {
		return nil, core.NewInstabilityError("log-posterior is NaN at the starting point", nil)
	}

	chain := &model.Chain{
		Names:  chainNames(cfg.Names, len(start)),
		Draws:  make([][]float64, cfg.Iterations),
		BurnIn: cfg.BurnIn,
	}

	prop := make([]float64, len(cur))
	for iter := 0; iter < cfg.Iterations; iter++ {
		for j := range cur {
			prop[j] = cur[j] + rng.NormFloat64()*cfg.StepSizes[j]
		}
		lprop := logLik(prop) + prior.LogDensity(prop)

		// Accept iff log(u) < lprop - lcur; a -Inf proposal never wins
		// against a finite current state.
		if math.Log(rng.Float64()) < lprop-lcur {
			copy(cur, prop)
			lcur = lprop
			chain.Accepted++
		}
		chain.Draws[iter] = append([]float64(nil), cur...)
	}
	return chain, nil
}

func validate(start []float64, cfg Config) error {
	if len(start) == 0 {
		return core.ErrInsufficientData
	}
	if cfg.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive", core.ErrInvalidConfig)
	}
	if cfg.BurnIn < 0 || cfg.BurnIn >= cfg.Iterations {
		return fmt.Errorf("%w: burn-in %d outside [0, %d)", core.ErrInvalidConfig, cfg.BurnIn, cfg.Iterations)
	}
	if len(cfg.StepSizes) != len(start) {
		return core.NewDimensionError("proposal step sizes", len(cfg.StepSizes), len(start))
	}
	for j, s := range cfg.StepSizes {
		if s <= 0 {
			return fmt.Errorf("%w: step size %d must be positive", core.ErrInvalidConfig, j)
		}
	}
	return nil
}

func chainNames(names []string, n int) []string {
	if len(names) == n {
		return append([]string(nil), names...)
	}
	generated := make([]string, n)
	for j := range generated {
		generated[j] = fmt.Sprintf("beta%d", j)
	}
	return generated
}
