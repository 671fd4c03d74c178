package sampler

import (
	"github.com/montanaflynn/stats"

	"statlab/domain/core"
	"statlab/domain/model"
)

// Summarize computes the posterior mean, standard deviation, and the
// 2.5th/97.5th empirical percentiles (95% credible interval) for each
// parameter over the post-burn-in draws.
func Summarize(chain *model.Chain) ([]model.ParamSummary, error) {
	retained := chain.Retained()
	if len(retained) == 0 {
		return nil, core.ErrInsufficientData
	}

	nParams := len(retained[0])
	summaries := make([]model.ParamSummary, nParams)
	column := make([]float64, len(retained))

	for j := 0; j < nParams; j++ {
		for i, draw := range retained {
			column[i] = draw[j]
		}

		mean, err := stats.Mean(column)
		if err != nil {
			return nil, core.NewInstabilityError("posterior mean", err)
		}
		sd, err := stats.StandardDeviationSample(column)
		if err != nil {
			return nil, core.NewInstabilityError("posterior standard deviation", err)
		}
		lower, err := stats.Percentile(column, 2.5)
		if err != nil {
			return nil, core.NewInstabilityError("credible interval lower bound", err)
		}
		upper, err := stats.Percentile(column, 97.5)
		if err != nil {
			return nil, core.NewInstabilityError("credible interval upper bound", err)
		}

		name := ""
		if j < len(chain.Names) {
			name = chain.Names[j]
		}
		summaries[j] = model.ParamSummary{
			Name:   name,
			Mean:   mean,
			StdDev: sd,
			Lower:  lower,
			Upper:  upper,
		}
	}
	return summaries, nil
}
