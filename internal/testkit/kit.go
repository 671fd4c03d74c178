// Package testkit generates synthetic datasets with known generating
// parameters. Every generator takes an explicit seed so fixtures are
// reproducible across runs and tests.
package testkit

import (
	"fmt"
	"math"
	"math/rand/v2"

	"statlab/domain/model"
)

// PoissonDataset is simulated count data with a known generating beta
type PoissonDataset struct {
	X    model.Design
	Y    []float64
	Beta []float64
}

// SimulatePoisson draws n records with standard-normal covariates (plus an
// intercept) and Poisson counts at rate exp(X . beta).
func SimulatePoisson(beta []float64, n int, seed uint64) *PoissonDataset {
	rng := rand.New(rand.NewPCG(seed, seed+1))

	names := make([]string, len(beta))
	names[0] = "intercept"
	for j := 1; j < len(beta); j++ {
		names[j] = covariateName(j)
	}

	rows := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(beta))
		row[0] = 1
		eta := beta[0]
		for j := 1; j < len(beta); j++ {
			row[j] = rng.NormFloat64()
			eta += beta[j] * row[j]
		}
		rows[i] = row
		y[i] = poissonDraw(rng, math.Exp(eta))
	}

	return &PoissonDataset{
		X:    model.Design{Names: names, Rows: rows},
		Y:    y,
		Beta: append([]float64(nil), beta...),
	}
}

// ChoiceDataset is simulated discrete-choice data with a known beta
type ChoiceDataset struct {
	X      model.Design
	Chosen []float64
	Task   []int
	Beta   []float64
}

// SimulateChoice draws nTasks choice occasions with nAlts alternatives each.
// Alternative features are standard normal; choices follow the softmax of
// the utilities at the generating beta.
func SimulateChoice(beta []float64, nTasks, nAlts int, seed uint64) *ChoiceDataset {
	rng := rand.New(rand.NewPCG(seed, seed+1))

	names := make([]string, len(beta))
	for j := range names {
		names[j] = covariateName(j + 1)
	}

	var rows [][]float64
	chosen := make([]float64, 0, nTasks*nAlts)
	task := make([]int, 0, nTasks*nAlts)
	for t := 0; t < nTasks; t++ {
		utils := make([]float64, nAlts)
		taskRows := make([][]float64, nAlts)
		for a := 0; a < nAlts; a++ {
			row := make([]float64, len(beta))
			v := 0.0
			for j := range beta {
				row[j] = rng.NormFloat64()
				v += beta[j] * row[j]
			}
			taskRows[a] = row
			utils[a] = v
		}

		pick := softmaxDraw(rng, utils)
		for a := 0; a < nAlts; a++ {
			rows = append(rows, taskRows[a])
			if a == pick {
				chosen = append(chosen, 1)
			} else {
				chosen = append(chosen, 0)
			}
			task = append(task, t)
		}
	}

	return &ChoiceDataset{
		X:      model.Design{Names: names, Rows: rows},
		Chosen: chosen,
		Task:   task,
		Beta:   append([]float64(nil), beta...),
	}
}

// SimulateBlobs draws k spherical Gaussian clusters of equal size around the
// given centers.
func SimulateBlobs(centers [][]float64, perCluster int, spread float64, seed uint64) (points [][]float64, labels []int) {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	for c, center := range centers {
		for i := 0; i < perCluster; i++ {
			p := make([]float64, len(center))
			for d := range center {
				p[d] = center[d] + rng.NormFloat64()*spread
			}
			points = append(points, p)
			labels = append(labels, c)
		}
	}
	return points, labels
}

// SimulateTreatment draws a two-arm experiment: control outcomes are
// N(baseline, sd), treated outcomes are N(baseline+effect, sd).
func SimulateTreatment(baseline, effect, sd float64, nControl, nTreated int, seed uint64) (control, treated []float64) {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	control = make([]float64, nControl)
	for i := range control {
		control[i] = baseline + rng.NormFloat64()*sd
	}
	treated = make([]float64, nTreated)
	for i := range treated {
		treated[i] = baseline + effect + rng.NormFloat64()*sd
	}
	return control, treated
}

// poissonDraw inverts the Poisson CDF by sequential search; rates here are
// small, so the loop is short.
func poissonDraw(rng *rand.Rand, lambda float64) float64 {
	l := math.Exp(-lambda)
	k := 0.0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}

func softmaxDraw(rng *rand.Rand, utils []float64) int {
	maxV := utils[0]
	for _, v := range utils {
		if v > maxV {
			maxV = v
		}
	}
	sum := 0.0
	weights := make([]float64, len(utils))
	for i, v := range utils {
		weights[i] = math.Exp(v - maxV)
		sum += weights[i]
	}
	u := rng.Float64() * sum
	acc := 0.0
	for i, w := range weights {
		acc += w
		if u < acc {
			return i
		}
	}
	return len(utils) - 1
}

func covariateName(j int) string {
	return fmt.Sprintf("x%d", j)
}
