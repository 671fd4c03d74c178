package likelihood

import (
	"math"
	"testing"

	"statlab/domain/core"
	"statlab/domain/model"
)

// threeAltTasks builds nTasks choice occasions with three alternatives each.
// Features: alternative dummy for alt B and C plus a price column.
func threeAltTasks(nTasks int, chosenAlt int) (model.Design, []float64, []int) {
	var rows [][]float64
	var chosen []float64
	var task []int
	prices := []float64{1.0, 2.0, 3.0}
	for t := 0; t < nTasks; t++ {
		for j := 0; j < 3; j++ {
			altB, altC := 0.0, 0.0
			if j == 1 {
				altB = 1
			}
			if j == 2 {
				altC = 1
			}
			rows = append(rows, []float64{altB, altC, prices[j]})
			if j == chosenAlt {
				chosen = append(chosen, 1)
			} else {
				chosen = append(chosen, 0)
			}
			task = append(task, t)
		}
	}
	x := model.Design{Names: []string{"alt_b", "alt_c", "price"}, Rows: rows}
	return x, chosen, task
}

// TestLogitEqualUtilities verifies P(j) = 1/3 exactly when utilities are equal
func TestLogitEqualUtilities(t *testing.T) {
	x, chosen, task := threeAltTasks(2, 0)
	l, err := NewLogit(x, chosen, task)
	if err != nil {
		t.Fatalf("NewLogit: %v", err)
	}

	// beta = 0 gives v = 0 for every alternative.
	probs := l.Probs([]float64{0, 0, 0}, 0)
	if len(probs) != 3 {
		t.Fatalf("expected 3 probabilities, got %d", len(probs))
	}
	for j, p := range probs {
		if p != 1.0/3.0 {
			t.Errorf("P(%d) = %v, want exactly 1/3", j, p)
		}
	}

	// Log-likelihood is nTasks * log(1/3).
	got := l.LogLik([]float64{0, 0, 0})
	want := 2 * math.Log(1.0/3.0)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("LogLik = %f, want %f", got, want)
	}
}

// TestLogitProbsSumToOne checks normalization for arbitrary parameters
func TestLogitProbsSumToOne(t *testing.T) {
	x, chosen, task := threeAltTasks(3, 1)
	l, err := NewLogit(x, chosen, task)
	if err != nil {
		t.Fatalf("NewLogit: %v", err)
	}

	for _, beta := range [][]float64{
		{0.5, -0.2, -1.1},
		{3, 2, 0.4},
		{-5, 5, 2},
	} {
		for task := 0; task < l.NumTasks(); task++ {
			probs := l.Probs(beta, task)
			sum := 0.0
			for _, p := range probs {
				sum += p
			}
			if math.Abs(sum-1) > 1e-12 {
				t.Errorf("beta=%v task=%d: probabilities sum to %v", beta, task, sum)
			}
		}
	}
}

// TestLogitShiftInvariance verifies the softmax shift property survives the
// max-subtraction stabilization: adding a constant to all utilities in a
// task leaves the log-likelihood unchanged. A covariate that is constant
// within every task shifts all utilities by the same amount.
func TestLogitShiftInvariance(t *testing.T) {
	// Add a task-constant column so a coefficient on it shifts whole tasks.
	var rows [][]float64
	var chosen []float64
	var task []int
	for tt := 0; tt < 4; tt++ {
		for j := 0; j < 3; j++ {
			rows = append(rows, []float64{float64(j), 1.0})
			if j == 0 {
				chosen = append(chosen, 1)
			} else {
				chosen = append(chosen, 0)
			}
			task = append(task, tt)
		}
	}
	x := model.Design{Names: []string{"alt", "const_in_task"}, Rows: rows}
	l, err := NewLogit(x, chosen, task)
	if err != nil {
		t.Fatalf("NewLogit: %v", err)
	}

	base := l.LogLik([]float64{0.7, 0})
	for _, shift := range []float64{-100, -1, 1, 50, 500} {
		shifted := l.LogLik([]float64{0.7, shift})
		if math.Abs(shifted-base) > 1e-9 {
			t.Errorf("shift %v changed log-likelihood: %f vs %f", shift, shifted, base)
		}
	}
}

// TestLogitDominantUtility checks that an overwhelming utility drives its
// probability to 1 and the others to 0 without producing NaN.
func TestLogitDominantUtility(t *testing.T) {
	x, chosen, task := threeAltTasks(1, 2)
	l, err := NewLogit(x, chosen, task)
	if err != nil {
		t.Fatalf("NewLogit: %v", err)
	}

	// A huge coefficient on price makes alternative C (price 3) dominate.
	probs := l.Probs([]float64{0, 0, 500}, 0)
	for j, p := range probs {
		if math.IsNaN(p) {
			t.Fatalf("P(%d) is NaN", j)
		}
	}
	if probs[2] != 1 {
		t.Errorf("dominant alternative probability = %v, want 1", probs[2])
	}
	if probs[0] != 0 || probs[1] != 0 {
		t.Errorf("dominated probabilities = %v, %v, want 0", probs[0], probs[1])
	}

	if ll := l.LogLik([]float64{0, 0, 500}); math.IsNaN(ll) {
		t.Errorf("LogLik is NaN under extreme utilities")
	}
}

// TestLogitValidation covers the task-grouping configuration errors
func TestLogitValidation(t *testing.T) {
	x, chosen, task := threeAltTasks(2, 0)

	// Two records marked chosen in task 0.
	badChosen := append([]float64(nil), chosen...)
	badChosen[1] = 1
	if _, err := NewLogit(x, badChosen, task); !core.IsConfigurationError(err) {
		t.Errorf("double choice: got %v, want configuration error", err)
	}

	// No record chosen in task 0.
	noneChosen := append([]float64(nil), chosen...)
	noneChosen[0] = 0
	if _, err := NewLogit(x, noneChosen, task); !core.IsConfigurationError(err) {
		t.Errorf("no choice: got %v, want configuration error", err)
	}

	// Uneven group size.
	badTask := append([]int(nil), task...)
	badTask[5] = 0
	if _, err := NewLogit(x, chosen, badTask); !core.IsConfigurationError(err) {
		t.Errorf("uneven groups: got %v, want configuration error", err)
	}

	// Non-binary indicator.
	fractional := append([]float64(nil), chosen...)
	fractional[0] = 0.5
	if _, err := NewLogit(x, fractional, task); !core.IsConfigurationError(err) {
		t.Errorf("fractional indicator: got %v, want configuration error", err)
	}

	// Mismatched lengths.
	if _, err := NewLogit(x, chosen[:3], task); !core.IsConfigurationError(err) {
		t.Errorf("short chosen: got %v, want configuration error", err)
	}
}
