package sampler

import (
	"math"
	"testing"

	"statlab/domain/core"
	"statlab/domain/model"
	"statlab/internal/likelihood"
)

// standardNormalLogLik is an easy target with known posterior: N(0, 1)
func standardNormalLogLik(beta []float64) float64 {
	return -0.5 * beta[0] * beta[0]
}

func defaultConfig() Config {
	return Config{
		Iterations: 11000,
		BurnIn:     1000,
		StepSizes:  []float64{1.0},
		Seed:       42,
	}
}

// TestMetropolisChainShape: chain length equals the configured iteration
// count and every draw is defined.
func TestMetropolisChainShape(t *testing.T) {
	chain, err := Metropolis(standardNormalLogLik, nil, []float64{0}, defaultConfig())
	if err != nil {
		t.Fatalf("Metropolis: %v", err)
	}
	if len(chain.Draws) != 11000 {
		t.Fatalf("chain length = %d, want 11000", len(chain.Draws))
	}
	for i, draw := range chain.Draws {
		if len(draw) != 1 {
			t.Fatalf("draw %d has %d parameters, want 1", i, len(draw))
		}
		if math.IsNaN(draw[0]) {
			t.Fatalf("draw %d is NaN", i)
		}
	}
	if got := len(chain.Retained()); got != 10000 {
		t.Errorf("retained draws = %d, want 10000", got)
	}
}

// TestMetropolisAcceptanceRate: strictly between 0 and 1 for a reasonable
// step size.
func TestMetropolisAcceptanceRate(t *testing.T) {
	chain, err := Metropolis(standardNormalLogLik, nil, []float64{0}, defaultConfig())
	if err != nil {
		t.Fatalf("Metropolis: %v", err)
	}
	rate := chain.AcceptanceRate()
	if rate <= 0 || rate >= 1 {
		t.Errorf("acceptance rate = %v, want strictly inside (0,1)", rate)
	}
}

// TestMetropolisRecoverStandardNormal: posterior mean and spread of the
// N(0,1) target over a long chain.
func TestMetropolisRecoverStandardNormal(t *testing.T) {
	chain, err := Metropolis(standardNormalLogLik, nil, []float64{3}, defaultConfig())
	if err != nil {
		t.Fatalf("Metropolis: %v", err)
	}
	summaries, err := Summarize(chain)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	s := summaries[0]
	if math.Abs(s.Mean) > 0.15 {
		t.Errorf("posterior mean = %v, want ~0", s.Mean)
	}
	if math.Abs(s.StdDev-1) > 0.15 {
		t.Errorf("posterior sd = %v, want ~1", s.StdDev)
	}
	if s.Lower >= 0 || s.Upper <= 0 {
		t.Errorf("95%% credible interval [%v, %v] should cover 0", s.Lower, s.Upper)
	}
	// Roughly the central 95% of a standard normal.
	if s.Lower > -1.5 || s.Lower < -2.5 || s.Upper < 1.5 || s.Upper > 2.5 {
		t.Errorf("credible interval [%v, %v] far from [-1.96, 1.96]", s.Lower, s.Upper)
	}
}

// TestMetropolisPoissonPosterior: with a flat prior the posterior of the
// intercept-only Poisson model concentrates near log(mean(Y)).
func TestMetropolisPoissonPosterior(t *testing.T) {
	counts := []float64{1, 3, 5, 2, 4, 3, 3, 2, 4, 3}
	logLik := func(beta []float64) float64 {
		return likelihood.RateLogLik(math.Exp(beta[0]), counts)
	}
	prior := NormalPrior{Variances: []float64{5}}

	cfg := defaultConfig()
	cfg.StepSizes = []float64{0.3}
	chain, err := Metropolis(logLik, prior, []float64{0}, cfg)
	if err != nil {
		t.Fatalf("Metropolis: %v", err)
	}
	summaries, err := Summarize(chain)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	want := math.Log(3.0) // sample mean of counts is 3.0
	s := summaries[0]
	if math.Abs(s.Mean-want) > 0.15 {
		t.Errorf("posterior mean = %v, want ~%v", s.Mean, want)
	}
	if s.Lower > want || s.Upper < want {
		t.Errorf("credible interval [%v, %v] should cover %v", s.Lower, s.Upper, want)
	}
}

// TestMetropolisReproducibility: identical seeds give identical chains,
// different seeds diverge.
func TestMetropolisReproducibility(t *testing.T) {
	cfg := defaultConfig()
	cfg.Iterations = 500
	cfg.BurnIn = 100

	a, err := Metropolis(standardNormalLogLik, nil, []float64{0}, cfg)
	if err != nil {
		t.Fatalf("Metropolis: %v", err)
	}
	b, err := Metropolis(standardNormalLogLik, nil, []float64{0}, cfg)
	if err != nil {
		t.Fatalf("Metropolis: %v", err)
	}
	for i := range a.Draws {
		if a.Draws[i][0] != b.Draws[i][0] {
			t.Fatalf("draw %d differs under identical seeds", i)
		}
	}

	cfg.Seed = 7
	c, err := Metropolis(standardNormalLogLik, nil, []float64{0}, cfg)
	if err != nil {
		t.Fatalf("Metropolis: %v", err)
	}
	same := true
	for i := range a.Draws {
		if a.Draws[i][0] != c.Draws[i][0] {
			same = false
			break
		}
	}
	if same {
		t.Error("chains with different seeds should diverge")
	}
}

// TestMetropolisRejectedProposalRepeatsState: with an impossible proposal
// region the chain stays at its start rather than recording undefined draws.
func TestMetropolisRejectedProposalRepeatsState(t *testing.T) {
	logLik := func(beta []float64) float64 {
		if beta[0] != 2.5 {
			return math.Inf(-1)
		}
		return 0
	}
	cfg := Config{Iterations: 50, BurnIn: 0, StepSizes: []float64{0.1}, Seed: 1}
	chain, err := Metropolis(logLik, nil, []float64{2.5}, cfg)
	if err != nil {
		t.Fatalf("Metropolis: %v", err)
	}
	if chain.Accepted != 0 {
		t.Errorf("accepted = %d, want 0", chain.Accepted)
	}
	for i, draw := range chain.Draws {
		if draw[0] != 2.5 {
			t.Errorf("draw %d = %v, want the initial state 2.5", i, draw[0])
		}
	}
}

// TestMetropolisValidation covers configuration rejection before iteration
func TestMetropolisValidation(t *testing.T) {
	cases := []struct {
		name  string
		start []float64
		cfg   Config
	}{
		{"empty start", nil, defaultConfig()},
		{"zero iterations", []float64{0}, Config{Iterations: 0, StepSizes: []float64{1}}},
		{"burn-in too large", []float64{0}, Config{Iterations: 10, BurnIn: 10, StepSizes: []float64{1}}},
		{"step size mismatch", []float64{0, 0}, Config{Iterations: 10, StepSizes: []float64{1}}},
		{"non-positive step", []float64{0}, Config{Iterations: 10, StepSizes: []float64{0}}},
	}
	for _, tc := range cases {
		if _, err := Metropolis(standardNormalLogLik, nil, tc.start, tc.cfg); !core.IsConfigurationError(err) {
			t.Errorf("%s: got %v, want configuration error", tc.name, err)
		}
	}
}

// TestSummarizeKnownColumn sanity-checks the summary math on a fixed chain
func TestSummarizeKnownColumn(t *testing.T) {
	chain := &model.Chain{
		Names:  []string{"x"},
		BurnIn: 1,
		Draws:  [][]float64{{100}, {1}, {2}, {3}, {4}, {5}},
	}
	summaries, err := Summarize(chain)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summaries[0].Mean != 3 {
		t.Errorf("mean = %v, want 3 (burn-in must exclude the first draw)", summaries[0].Mean)
	}
	if summaries[0].Name != "x" {
		t.Errorf("name = %q, want x", summaries[0].Name)
	}
}
