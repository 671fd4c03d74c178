package cluster

import (
	"fmt"
	"math"
	"sort"

	"statlab/domain/core"
)

// KNN is a K-nearest-neighbors classifier over a fixed training set
type KNN struct {
	train  [][]float64
	labels []string
	k      int
}

// NewKNN validates the training data and returns a classifier
func NewKNN(train [][]float64, labels []string, k int) (*KNN, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", core.ErrInvalidConfig)
	}
	if len(train) == 0 || len(train) < k {
		return nil, core.ErrInsufficientData
	}
	if len(labels) != len(train) {
		return nil, core.NewDimensionError("labels", len(labels), len(train))
	}
	dim := len(train[0])
	for _, p := range train {
		if len(p) != dim {
			return nil, core.NewDimensionError("training point", len(p), dim)
		}
	}
	return &KNN{train: train, labels: labels, k: k}, nil
}

// Predict returns the majority label among the k nearest training points by
// Euclidean distance. Ties break toward the nearer neighbor's label.
func (c *KNN) Predict(x []float64) (string, error) {
	if len(x) != len(c.train[0]) {
		return "", core.NewDimensionError("query point", len(x), len(c.train[0]))
	}

	type neighbor struct {
		dist  float64
		label string
	}
	neighbors := make([]neighbor, len(c.train))
	for i, p := range c.train {
		neighbors[i] = neighbor{dist: math.Sqrt(squaredDistance(x, p)), label: c.labels[i]}
	}
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].dist < neighbors[j].dist
	})

	votes := make(map[string]int)
	for _, nb := range neighbors[:c.k] {
		votes[nb.label]++
	}

	best, bestVotes := "", -1
	for _, nb := range neighbors[:c.k] {
		if v := votes[nb.label]; v > bestVotes {
			best, bestVotes = nb.label, v
		}
	}
	return best, nil
}

// Accuracy scores the classifier against a labelled test set
func (c *KNN) Accuracy(test [][]float64, want []string) (float64, error) {
	if len(test) == 0 {
		return 0, core.ErrInsufficientData
	}
	if len(want) != len(test) {
		return 0, core.NewDimensionError("test labels", len(want), len(test))
	}
	correct := 0
	for i, x := range test {
		got, err := c.Predict(x)
		if err != nil {
			return 0, err
		}
		if got == want[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(test)), nil
}
