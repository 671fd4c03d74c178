package studies

import (
	"context"
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"statlab/domain/core"
	"statlab/domain/model"
	"statlab/internal/estimate"
	"statlab/internal/likelihood"
)

// PatentStudy fits a Poisson regression of firm patent counts on R&D
// spending and sector, and checks the no-covariate rate estimate against the
// sample mean.
type PatentStudy struct {
	exporter fitExporter
}

// fitExporter is the subset of ports.Exporter a single study needs; nil
// means no export.
type fitExporter interface {
	ExportFit(study core.StudyKey, fit *model.Fit) error
	ExportSummaries(study core.StudyKey, summaries []model.ParamSummary) error
}

// NewPatentStudy creates the patent-count study. The exporter may be nil.
func NewPatentStudy(exporter fitExporter) *PatentStudy {
	return &PatentStudy{exporter: exporter}
}

func (s *PatentStudy) Key() core.StudyKey { return "patents" }

func (s *PatentStudy) Title() string { return "Patent counts and R&D spending" }

// Run estimates the count model and renders the report
func (s *PatentStudy) Run(ctx context.Context) (string, map[string]any, error) {
	table, err := loadTable("patents.csv")
	if err != nil {
		return "", nil, err
	}

	design, err := table.Builder().
		Intercept().
		Numeric("log_rd").
		Dummies("sector", "chem").
		Build()
	if err != nil {
		return "", nil, err
	}
	counts, err := table.Numeric("patents")
	if err != nil {
		return "", nil, err
	}

	obj, err := likelihood.NewPoisson(design, counts)
	if err != nil {
		return "", nil, err
	}
	fit, err := estimate.MLE(obj, make([]float64, design.NumCols()), nil)
	if err != nil {
		return "", nil, err
	}

	// Without covariates the MLE of the rate is the sample mean; the
	// golden-section estimate should land on it.
	rate, err := estimate.RateMLE(counts, estimate.DefaultRateLower, estimate.DefaultRateUpper)
	if err != nil {
		return "", nil, err
	}
	mean, err := stats.Mean(counts)
	if err != nil {
		return "", nil, core.NewInstabilityError("sample mean", err)
	}

	if s.exporter != nil {
		if err := s.exporter.ExportFit(s.Key(), fit); err != nil {
			return "", nil, err
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title())
	fmt.Fprintf(&b, "Poisson regression, log link, %d firms.\n\n", design.NumRows())
	b.WriteString(fitTable(fit))
	fmt.Fprintf(&b, "\nNo-covariate rate: golden-section MLE %.4f vs sample mean %.4f.\n", rate, mean)

	summary := map[string]any{
		"n":           design.NumRows(),
		"log_lik":     fit.LogLik,
		"converged":   fit.Converged,
		"params":      paramMap(fit),
		"rate_mle":    rate,
		"sample_mean": mean,
	}
	return b.String(), summary, nil
}

// paramMap flattens a fit into name -> estimate for the run summary
func paramMap(fit *model.Fit) map[string]float64 {
	out := make(map[string]float64, len(fit.Params))
	for i, name := range fit.Names {
		out[name] = fit.Params[i]
	}
	return out
}
