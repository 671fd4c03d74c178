package model

import (
	"statlab/domain/core"
)

// Design is a row-major covariate matrix. The first column is conventionally
// a constant 1 (intercept).
type Design struct {
	Names []string    `json:"names"`
	Rows  [][]float64 `json:"rows"`
}

// NumRows returns the number of observations
func (d Design) NumRows() int {
	return len(d.Rows)
}

// NumCols returns the number of covariate columns
func (d Design) NumCols() int {
	if len(d.Rows) == 0 {
		return len(d.Names)
	}
	return len(d.Rows[0])
}

// Validate checks that the matrix is rectangular and consistent with Names
func (d Design) Validate() error {
	cols := d.NumCols()
	for _, row := range d.Rows {
		if len(row) != cols {
			return core.NewDimensionError("design row", len(row), cols)
		}
	}
	if len(d.Names) != 0 && len(d.Names) != cols {
		return core.NewDimensionError("design names", len(d.Names), cols)
	}
	return nil
}

// Fit is the result of a maximum-likelihood estimation. Immutable after return.
type Fit struct {
	Names      []string  `json:"names"`
	Params     []float64 `json:"params"`
	StdErr     []float64 `json:"std_err"`
	Lower      []float64 `json:"lower"` // 95% confidence bound
	Upper      []float64 `json:"upper"` // 95% confidence bound
	LogLik     float64   `json:"log_lik"`
	Converged  bool      `json:"converged"`
	Iterations int       `json:"iterations"`
}

// NumParams returns the number of estimated parameters
func (f *Fit) NumParams() int {
	return len(f.Params)
}

// Chain is a sequence of posterior parameter draws from a single MCMC run.
// Every draw is defined: a rejected proposal repeats the previous state.
type Chain struct {
	Names    []string    `json:"names"`
	Draws    [][]float64 `json:"draws"`
	BurnIn   int         `json:"burn_in"`
	Accepted int         `json:"accepted"`
}

// Retained returns the post-burn-in draws
func (c *Chain) Retained() [][]float64 {
	if c.BurnIn >= len(c.Draws) {
		return nil
	}
	return c.Draws[c.BurnIn:]
}

// AcceptanceRate returns the fraction of proposals accepted over the full chain
func (c *Chain) AcceptanceRate() float64 {
	if len(c.Draws) == 0 {
		return 0
	}
	return float64(c.Accepted) / float64(len(c.Draws))
}

// ParamSummary summarizes one parameter's posterior sample
type ParamSummary struct {
	Name   string  `json:"name"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Lower  float64 `json:"lower"` // 2.5th empirical percentile
	Upper  float64 `json:"upper"` // 97.5th empirical percentile
}

// StudyRun records one execution of a study for persistence and reporting
type StudyRun struct {
	ID        core.RunID     `json:"id" db:"id"`
	Study     core.StudyKey  `json:"study" db:"study"`
	Report    string         `json:"report" db:"report"` // markdown
	Summary   map[string]any `json:"summary"`
	CreatedAt core.Timestamp `json:"created_at" db:"created_at"`
}
