// Package cluster holds the hand-written K-means and K-nearest-neighbors
// implementations used by the clustering case study. Both are direct
// textbook algorithms: K-means runs Lloyd iterations under a fixed cap,
// KNN classifies by majority vote among Euclidean neighbors.
package cluster

import (
	"fmt"
	"math"
	"math/rand/v2"

	"statlab/domain/core"
)

// KMeansResult is the outcome of one K-means run
type KMeansResult struct {
	Centroids  [][]float64
	Labels     []int
	Iterations int
	// Inertia is the total within-cluster sum of squared distances
	Inertia float64
}

// KMeans partitions points into k clusters. Initial centroids are chosen
// uniformly at random from the points using the explicitly seeded source,
// so runs are reproducible. Iteration stops when assignments are stable or
// maxIter is reached.
func KMeans(points [][]float64, k, maxIter int, seed uint64) (*KMeansResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", core.ErrInvalidConfig)
	}
	if maxIter <= 0 {
		return nil, fmt.Errorf("%w: maxIter must be positive", core.ErrInvalidConfig)
	}
	if len(points) < k {
		return nil, core.ErrInsufficientData
	}
	dim := len(points[0])
	for _, p := range points {
		if len(p) != dim {
			return nil, core.NewDimensionError("point", len(p), dim)
		}
	}

	rng := rand.New(rand.NewPCG(seed, seed+1))

	// Sample k distinct points as initial centroids.
	perm := rng.Perm(len(points))
	centroids := make([][]float64, k)
	for c := 0; c < k; c++ {
		centroids[c] = append([]float64(nil), points[perm[c]]...)
	}

	labels := make([]int, len(points))
	result := &KMeansResult{}
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if labels[i] != best || iter == 0 {
				labels[i] = best
				changed = true
			}
		}
		result.Iterations = iter + 1
		if !changed {
			break
		}

		// Recompute centroids as cluster means. An emptied cluster keeps
		// its previous centroid.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			c := labels[i]
			counts[c]++
			for d, v := range p {
				sums[c][d] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for d := 0; d < dim; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	result.Centroids = centroids
	result.Labels = labels
	for i, p := range points {
		result.Inertia += squaredDistance(p, centroids[labels[i]])
	}
	return result, nil
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for d := range a {
		diff := a[d] - b[d]
		sum += diff * diff
	}
	return sum
}
