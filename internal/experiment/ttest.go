// Package experiment implements the charitable-giving field-experiment
// replication toolkit: two-sample t-tests for treatment effects, OLS
// regressions for covariate-adjusted estimates, and seeded Monte Carlo
// material for the Law of Large Numbers and Central Limit Theorem sections.
package experiment

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"statlab/domain/core"
)

// TTestResult holds a Welch two-sample t-test outcome
type TTestResult struct {
	MeanA float64 `json:"mean_a"`
	MeanB float64 `json:"mean_b"`
	Diff  float64 `json:"diff"`
	T     float64 `json:"t"`
	DF    float64 `json:"df"`
	P     float64 `json:"p"` // two-sided
	NA    int     `json:"n_a"`
	NB    int     `json:"n_b"`
}

// WelchTTest compares two group means without assuming equal variances,
// with Welch-Satterthwaite degrees of freedom and a two-sided p-value.
func WelchTTest(a, b []float64) (*TTestResult, error) {
	if len(a) < 2 || len(b) < 2 {
		return nil, core.ErrInsufficientData
	}

	meanA, err := stats.Mean(a)
	if err != nil {
		return nil, core.NewInstabilityError("group a mean", err)
	}
	meanB, err := stats.Mean(b)
	if err != nil {
		return nil, core.NewInstabilityError("group b mean", err)
	}
	varA, err := stats.VarS(a)
	if err != nil {
		return nil, core.NewInstabilityError("group a variance", err)
	}
	varB, err := stats.VarS(b)
	if err != nil {
		return nil, core.NewInstabilityError("group b variance", err)
	}

	na, nb := float64(len(a)), float64(len(b))
	seA := varA / na
	seB := varB / nb
	se := math.Sqrt(seA + seB)
	if se == 0 {
		return nil, core.NewInstabilityError("zero pooled standard error", nil)
	}

	tStat := (meanA - meanB) / se

	// Welch-Satterthwaite approximation.
	df := (seA + seB) * (seA + seB) / (seA*seA/(na-1) + seB*seB/(nb-1))

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * (1 - tDist.CDF(math.Abs(tStat)))

	return &TTestResult{
		MeanA: meanA,
		MeanB: meanB,
		Diff:  meanA - meanB,
		T:     tStat,
		DF:    df,
		P:     p,
		NA:    len(a),
		NB:    len(b),
	}, nil
}
