package experiment

import (
	"math"
	"testing"

	"github.com/montanaflynn/stats"

	"statlab/domain/core"
	"statlab/domain/model"
)

// TestWelchTTestDetectsDifference: clearly separated group means must give a
// large t statistic and a tiny p-value.
func TestWelchTTestDetectsDifference(t *testing.T) {
	a := []float64{10.1, 9.8, 10.3, 10.0, 9.9, 10.2, 10.1, 9.7}
	b := []float64{5.2, 4.9, 5.1, 5.0, 4.8, 5.3, 5.1, 4.9}

	result, err := WelchTTest(a, b)
	if err != nil {
		t.Fatalf("WelchTTest: %v", err)
	}
	if result.Diff < 4.5 || result.Diff > 5.5 {
		t.Errorf("diff = %v, want ~5", result.Diff)
	}
	if result.T < 10 {
		t.Errorf("t = %v, want large for separated groups", result.T)
	}
	if result.P > 1e-6 {
		t.Errorf("p = %v, want near zero", result.P)
	}
	if result.NA != 8 || result.NB != 8 {
		t.Errorf("group sizes = %d, %d, want 8, 8", result.NA, result.NB)
	}
}

// TestWelchTTestNoDifference: identical distributions give |t| small and a
// large p-value.
func TestWelchTTestNoDifference(t *testing.T) {
	a := []float64{1.0, 2.0, 3.0, 4.0, 5.0}
	b := []float64{1.1, 1.9, 3.1, 3.9, 5.0}

	result, err := WelchTTest(a, b)
	if err != nil {
		t.Fatalf("WelchTTest: %v", err)
	}
	if math.Abs(result.T) > 0.5 {
		t.Errorf("t = %v, want near zero", result.T)
	}
	if result.P < 0.5 {
		t.Errorf("p = %v, want large for same-mean groups", result.P)
	}
}

func TestWelchTTestValidation(t *testing.T) {
	if _, err := WelchTTest([]float64{1}, []float64{1, 2}); !core.IsConfigurationError(err) {
		t.Errorf("got %v, want configuration error", err)
	}
}

// TestOLSRecoversExactLine: noiseless data recovers the generating
// coefficients with R2 = 1.
func TestOLSRecoversExactLine(t *testing.T) {
	x := model.Design{
		Names: []string{"intercept", "slope"},
		Rows:  [][]float64{{1, 0}, {1, 1}, {1, 2}, {1, 3}, {1, 4}},
	}
	y := make([]float64, 5)
	for i := range y {
		y[i] = 2.0 + 3.0*float64(i)
	}

	result, err := OLS(x, y)
	if err != nil {
		t.Fatalf("OLS: %v", err)
	}
	if math.Abs(result.Coef[0]-2.0) > 1e-9 {
		t.Errorf("intercept = %v, want 2", result.Coef[0])
	}
	if math.Abs(result.Coef[1]-3.0) > 1e-9 {
		t.Errorf("slope = %v, want 3", result.Coef[1])
	}
	if math.Abs(result.R2-1.0) > 1e-9 {
		t.Errorf("R2 = %v, want 1", result.R2)
	}
}

// TestOLSTreatmentEffect: a binary treatment column reproduces the
// difference in group means as its coefficient.
func TestOLSTreatmentEffect(t *testing.T) {
	var rows [][]float64
	var y []float64
	control := []float64{3.1, 2.9, 3.0, 3.2, 2.8}
	treated := []float64{4.0, 4.2, 3.9, 4.1, 3.8}
	for _, v := range control {
		rows = append(rows, []float64{1, 0})
		y = append(y, v)
	}
	for _, v := range treated {
		rows = append(rows, []float64{1, 1})
		y = append(y, v)
	}
	x := model.Design{Names: []string{"intercept", "treatment"}, Rows: rows}

	result, err := OLS(x, y)
	if err != nil {
		t.Fatalf("OLS: %v", err)
	}

	meanC, _ := stats.Mean(control)
	meanT, _ := stats.Mean(treated)
	if math.Abs(result.Coef[0]-meanC) > 1e-9 {
		t.Errorf("intercept = %v, want control mean %v", result.Coef[0], meanC)
	}
	if math.Abs(result.Coef[1]-(meanT-meanC)) > 1e-9 {
		t.Errorf("treatment = %v, want mean difference %v", result.Coef[1], meanT-meanC)
	}
	if result.P[1] > 0.01 {
		t.Errorf("treatment p = %v, want significant", result.P[1])
	}
}

// TestOLSRankDeficient: duplicated columns must fail explicitly
func TestOLSRankDeficient(t *testing.T) {
	x := model.Design{
		Names: []string{"intercept", "copy"},
		Rows:  [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}},
	}
	if _, err := OLS(x, []float64{1, 2, 3, 4}); !core.IsNumericalError(err) {
		t.Errorf("got %v, want numerical error", err)
	}
}

// TestRunningMeansConverges: LLN demonstration approaches the true mean
func TestRunningMeansConverges(t *testing.T) {
	means, err := RunningMeans(BernoulliDraw(0.3), 20000, 11)
	if err != nil {
		t.Fatalf("RunningMeans: %v", err)
	}
	final := means[len(means)-1]
	if math.Abs(final-0.3) > 0.02 {
		t.Errorf("final running mean = %v, want ~0.3", final)
	}
}

// TestSampleMeansCLT: the distribution of sample means centers on the draw
// mean with standard deviation near sigma/sqrt(n).
func TestSampleMeansCLT(t *testing.T) {
	// Uniform [0,1): mean 0.5, variance 1/12.
	means, err := SampleMeans(UniformDraw(0, 1), 100, 2000, 5)
	if err != nil {
		t.Fatalf("SampleMeans: %v", err)
	}

	mean, _ := stats.Mean(means)
	sd, _ := stats.StandardDeviationSample(means)
	if math.Abs(mean-0.5) > 0.01 {
		t.Errorf("mean of sample means = %v, want ~0.5", mean)
	}
	wantSD := math.Sqrt(1.0/12.0) / 10 // sigma/sqrt(100)
	if math.Abs(sd-wantSD) > 0.005 {
		t.Errorf("sd of sample means = %v, want ~%v", sd, wantSD)
	}
}

func TestMonteCarloValidation(t *testing.T) {
	if _, err := RunningMeans(BernoulliDraw(0.5), 0, 1); !core.IsConfigurationError(err) {
		t.Errorf("got %v, want configuration error", err)
	}
	if _, err := SampleMeans(UniformDraw(0, 1), 10, 0, 1); !core.IsConfigurationError(err) {
		t.Errorf("got %v, want configuration error", err)
	}
}
