package combat

import "math/rand/v2"

// Rand is the randomness source for combat rolls.
// *rand.Rand from math/rand/v2 satisfies it; tests inject scripted values.
type Rand interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// NewRand returns a Rand seeded from the runtime's entropy source.
func NewRand() Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// RollRange returns a random integer in [lo, hi], bounds inclusive.
func RollRange(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Chance reports whether a uniform draw falls below p.
func Chance(r Rand, p float64) bool {
	return r.Float64() < p
}

// WeightedIndex picks an index with probability weights[i]/sum(weights).
// Weights are used as given; the draw is scaled by their sum.
func WeightedIndex(r Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	roll := r.Float64() * total
	var cumulative float64
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}
