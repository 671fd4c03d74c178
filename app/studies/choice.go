package studies

import (
	"context"
	"fmt"
	"strings"

	"statlab/domain/core"
	"statlab/internal/estimate"
	"statlab/internal/likelihood"
	"statlab/internal/sampler"
)

// ChoiceStudy fits a multinomial logit to product-choice tasks twice: by
// maximum likelihood and by Metropolis-Hastings sampling, then compares the
// two answers.
type ChoiceStudy struct {
	exporter fitExporter
	cfg      sampler.Config
}

// NewChoiceStudy creates the discrete-choice study. The exporter may be nil;
// the sampler config's step sizes and names are filled in per parameter.
func NewChoiceStudy(exporter fitExporter, cfg sampler.Config) *ChoiceStudy {
	return &ChoiceStudy{exporter: exporter, cfg: cfg}
}

func (s *ChoiceStudy) Key() core.StudyKey { return "choice" }

func (s *ChoiceStudy) Title() string { return "Product choice by price and quality" }

// Run estimates the choice model both ways and renders the report
func (s *ChoiceStudy) Run(ctx context.Context) (string, map[string]any, error) {
	table, err := loadTable("choice.csv")
	if err != nil {
		return "", nil, err
	}

	design, err := table.Builder().Numeric("price", "quality").Build()
	if err != nil {
		return "", nil, err
	}
	chosen, err := table.Numeric("chosen")
	if err != nil {
		return "", nil, err
	}
	taskCol, err := table.Numeric("task")
	if err != nil {
		return "", nil, err
	}
	task := make([]int, len(taskCol))
	for i, v := range taskCol {
		task[i] = int(v)
	}

	obj, err := likelihood.NewLogit(design, chosen, task)
	if err != nil {
		return "", nil, err
	}

	fit, err := estimate.MLE(obj, make([]float64, obj.NumParams()), nil)
	if err != nil {
		return "", nil, err
	}

	cfg := s.cfg
	if len(cfg.StepSizes) == 0 {
		cfg.StepSizes = []float64{0.15, 0.15}
	}
	cfg.Names = obj.ParamNames()
	prior := sampler.NormalPrior{Variances: []float64{25, 25}}
	chain, err := sampler.Metropolis(obj.LogLik, prior, make([]float64, obj.NumParams()), cfg)
	if err != nil {
		return "", nil, err
	}
	summaries, err := sampler.Summarize(chain)
	if err != nil {
		return "", nil, err
	}

	if s.exporter != nil {
		if err := s.exporter.ExportFit(s.Key(), fit); err != nil {
			return "", nil, err
		}
		if err := s.exporter.ExportSummaries(s.Key(), summaries); err != nil {
			return "", nil, err
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title())
	fmt.Fprintf(&b, "Multinomial logit over %d choice tasks.\n\n", obj.NumTasks())
	b.WriteString("## Maximum likelihood\n\n")
	b.WriteString(fitTable(fit))
	b.WriteString("\n## Posterior (random-walk Metropolis)\n\n")
	b.WriteString(summaryTable(summaries))
	fmt.Fprintf(&b, "\n%d retained draws after burn-in, acceptance rate %.2f.\n",
		len(chain.Retained()), chain.AcceptanceRate())

	summary := map[string]any{
		"tasks":           obj.NumTasks(),
		"log_lik":         fit.LogLik,
		"converged":       fit.Converged,
		"params":          paramMap(fit),
		"acceptance_rate": chain.AcceptanceRate(),
		"posterior":       summaries,
	}
	return b.String(), summary, nil
}
