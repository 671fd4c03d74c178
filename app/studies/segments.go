package studies

import (
	"context"
	"fmt"
	"strings"

	"statlab/domain/core"
	"statlab/internal/cluster"
)

// SegmentStudy clusters customers on spend and visit frequency with k-means,
// then scores a k-nearest-neighbors classifier on a holdout split against
// the labeled segments.
type SegmentStudy struct {
	seed uint64
}

// NewSegmentStudy creates the customer-segmentation study
func NewSegmentStudy(seed uint64) *SegmentStudy {
	return &SegmentStudy{seed: seed}
}

func (s *SegmentStudy) Key() core.StudyKey { return "segments" }

func (s *SegmentStudy) Title() string { return "Customer segmentation" }

// Run clusters the customers and renders the report
func (s *SegmentStudy) Run(ctx context.Context) (string, map[string]any, error) {
	table, err := loadTable("segments.csv")
	if err != nil {
		return "", nil, err
	}

	spend, err := table.Numeric("spend")
	if err != nil {
		return "", nil, err
	}
	visits, err := table.Numeric("visits")
	if err != nil {
		return "", nil, err
	}
	points := make([][]float64, len(spend))
	labels := make([]string, len(spend))
	for i := range spend {
		points[i] = []float64{spend[i], visits[i]}
		labels[i] = table.Rows[i][2]
	}

	km, err := cluster.KMeans(points, 3, 100, s.seed)
	if err != nil {
		return "", nil, err
	}

	// Every third record is held out for scoring; the rest trains the
	// classifier.
	var train, test [][]float64
	var trainLabels, testLabels []string
	for i := range points {
		if i%3 == 0 {
			test = append(test, points[i])
			testLabels = append(testLabels, labels[i])
		} else {
			train = append(train, points[i])
			trainLabels = append(trainLabels, labels[i])
		}
	}
	knn, err := cluster.NewKNN(train, trainLabels, 5)
	if err != nil {
		return "", nil, err
	}
	accuracy, err := knn.Accuracy(test, testLabels)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title())
	fmt.Fprintf(&b, "K-means on %d customers converged in %d iterations, inertia %.2f.\n\n",
		len(points), km.Iterations, km.Inertia)
	b.WriteString("| cluster | spend | visits |\n|---|---|---|\n")
	for i, c := range km.Centroids {
		fmt.Fprintf(&b, "| %d | %.2f | %.2f |\n", i, c[0], c[1])
	}
	fmt.Fprintf(&b, "\n5-NN holdout accuracy %.3f on %d held-out customers.\n",
		accuracy, len(test))

	summary := map[string]any{
		"n":            len(points),
		"k":            3,
		"iterations":   km.Iterations,
		"inertia":      km.Inertia,
		"knn_accuracy": accuracy,
		"holdout":      len(test),
	}
	return b.String(), summary, nil
}
