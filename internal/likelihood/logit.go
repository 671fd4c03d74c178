package likelihood

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"statlab/domain/core"
	"statlab/domain/model"
)

// Logit is a multinomial logit log-likelihood over grouped choice tasks.
// Records sharing a task index form one choice occasion; every task has the
// same number of alternatives and exactly one chosen record.
type Logit struct {
	x      model.Design
	chosen []float64
	groups [][]int // record indices per task, in task order
}

// NewLogit validates the choice data and returns the likelihood. task maps
// each record to its choice occasion; tasks may appear in any order but
// every group must have the same size and indicators summing to exactly 1.
func NewLogit(x model.Design, chosen []float64, task []int) (*Logit, error) {
	if err := x.Validate(); err != nil {
		return nil, err
	}
	n := x.NumRows()
	if len(chosen) != n {
		return nil, core.NewDimensionError("chosen indicator", len(chosen), n)
	}
	if len(task) != n {
		return nil, core.NewDimensionError("task index", len(task), n)
	}
	if n == 0 {
		return nil, core.ErrInsufficientData
	}

	// One grouping pass, preserving first-seen task order.
	index := make(map[int]int)
	var groups [][]int
	var order []int
	for i, t := range task {
		gi, ok := index[t]
		if !ok {
			gi = len(groups)
			index[t] = gi
			groups = append(groups, nil)
			order = append(order, t)
		}
		groups[gi] = append(groups[gi], i)
	}

	size := len(groups[0])
	for gi, g := range groups {
		if len(g) != size {
			return nil, core.NewTaskGroupError(order[gi], "inconsistent alternative count")
		}
		sum := 0.0
		for _, i := range g {
			if chosen[i] != 0 && chosen[i] != 1 {
				return nil, core.NewTaskGroupError(order[gi], "indicator must be 0 or 1")
			}
			sum += chosen[i]
		}
		if sum != 1 {
			return nil, core.NewTaskGroupError(order[gi], "indicators must sum to exactly 1")
		}
	}

	return &Logit{x: x, chosen: chosen, groups: groups}, nil
}

// NumParams returns the number of covariate columns
func (l *Logit) NumParams() int { return l.x.NumCols() }

// ParamNames returns the design column names
func (l *Logit) ParamNames() []string { return l.x.Names }

// NumTasks returns the number of choice occasions
func (l *Logit) NumTasks() int { return len(l.groups) }

// LogLik computes sum over chosen records of log P(j), with
// P(j) = exp(v_j) / sum_k exp(v_k) within each task. The per-task maximum
// utility is subtracted before exponentiating; the result is mathematically
// identical and tolerates large-magnitude utilities without overflow.
func (l *Logit) LogLik(beta []float64) float64 {
	if len(beta) != l.NumParams() {
		return math.Inf(-1)
	}
	ll := 0.0
	for _, g := range l.groups {
		maxV := math.Inf(-1)
		utils := make([]float64, len(g))
		for j, i := range g {
			v := floats.Dot(l.x.Rows[i], beta)
			utils[j] = v
			if v > maxV {
				maxV = v
			}
		}
		sumExp := 0.0
		for _, v := range utils {
			sumExp += math.Exp(v - maxV)
		}
		logSumExp := maxV + math.Log(sumExp)
		for j, i := range g {
			if l.chosen[i] == 1 {
				ll += utils[j] - logSumExp
			}
		}
	}
	return ll
}

// NegLogLik returns -LogLik(beta) for use by a minimizer
func (l *Logit) NegLogLik(beta []float64) float64 {
	return -l.LogLik(beta)
}

// Probs returns the choice probabilities for one task (by group position).
// The probabilities sum to 1; an alternative whose utility dominates the
// rest approaches probability 1 without producing NaN.
func (l *Logit) Probs(beta []float64, task int) []float64 {
	if task < 0 || task >= len(l.groups) || len(beta) != l.NumParams() {
		return nil
	}
	g := l.groups[task]
	utils := make([]float64, len(g))
	maxV := math.Inf(-1)
	for j, i := range g {
		utils[j] = floats.Dot(l.x.Rows[i], beta)
		if utils[j] > maxV {
			maxV = utils[j]
		}
	}
	sumExp := 0.0
	probs := make([]float64, len(g))
	for j, v := range utils {
		probs[j] = math.Exp(v - maxV)
		sumExp += probs[j]
	}
	for j := range probs {
		probs[j] /= sumExp
	}
	return probs
}
