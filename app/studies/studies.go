// Package studies contains the built-in analyses. Each study loads its
// embedded dataset, runs the relevant estimators, and renders a markdown
// report alongside a machine-readable summary.
package studies

import (
	"bytes"
	"embed"
	"fmt"
	"strings"

	"statlab/adapters/csvdata"
	"statlab/domain/model"
	"statlab/internal/errors"
)

//go:embed data/*.csv
var datasets embed.FS

// loadTable reads one of the embedded datasets
func loadTable(name string) (*csvdata.Table, error) {
	raw, err := datasets.ReadFile("data/" + name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read embedded dataset %s", name)
	}
	return csvdata.Read(bytes.NewReader(raw))
}

// fitTable renders an MLE fit as a markdown coefficient table
func fitTable(fit *model.Fit) string {
	var b strings.Builder
	b.WriteString("| parameter | estimate | std err | 95% CI |\n")
	b.WriteString("|---|---|---|---|\n")
	for i := range fit.Params {
		fmt.Fprintf(&b, "| %s | %.4f | %.4f | [%.4f, %.4f] |\n",
			fit.Names[i], fit.Params[i], fit.StdErr[i], fit.Lower[i], fit.Upper[i])
	}
	fmt.Fprintf(&b, "\nlog-likelihood %.4f, converged in %d iterations\n",
		fit.LogLik, fit.Iterations)
	return b.String()
}

// summaryTable renders posterior summaries as a markdown table
func summaryTable(summaries []model.ParamSummary) string {
	var b strings.Builder
	b.WriteString("| parameter | mean | sd | 95% CrI |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "| %s | %.4f | %.4f | [%.4f, %.4f] |\n",
			s.Name, s.Mean, s.StdDev, s.Lower, s.Upper)
	}
	return b.String()
}
