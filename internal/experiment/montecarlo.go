package experiment

import (
	"math/rand/v2"

	"statlab/domain/core"
)

// Draw produces one random value from some distribution
type Draw func(rng *rand.Rand) float64

// BernoulliDraw returns a Draw over {0,1} with success probability p
func BernoulliDraw(p float64) Draw {
	return func(rng *rand.Rand) float64 {
		if rng.Float64() < p {
			return 1
		}
		return 0
	}
}

// UniformDraw returns a Draw over [lo, hi)
func UniformDraw(lo, hi float64) Draw {
	return func(rng *rand.Rand) float64 {
		return lo + rng.Float64()*(hi-lo)
	}
}

// RunningMeans demonstrates the Law of Large Numbers: it draws n values and
// returns the running mean after each draw, which converges to the
// distribution mean as n grows.
func RunningMeans(draw Draw, n int, seed uint64) ([]float64, error) {
	if n <= 0 {
		return nil, core.ErrInsufficientData
	}
	rng := rand.New(rand.NewPCG(seed, seed+1))
	means := make([]float64, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += draw(rng)
		means[i] = sum / float64(i+1)
	}
	return means, nil
}

// SampleMeans demonstrates the Central Limit Theorem: it computes reps
// independent means of samples of size n. The resulting distribution
// approaches a normal centered on the distribution mean regardless of the
// shape of the underlying draw.
func SampleMeans(draw Draw, n, reps int, seed uint64) ([]float64, error) {
	if n <= 0 || reps <= 0 {
		return nil, core.ErrInsufficientData
	}
	rng := rand.New(rand.NewPCG(seed, seed+1))
	means := make([]float64, reps)
	for r := 0; r < reps; r++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += draw(rng)
		}
		means[r] = sum / float64(n)
	}
	return means, nil
}
