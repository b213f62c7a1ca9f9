package sim

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// Stream is the single shared source of random draws for a run.
// Every stochastic step (effect draws, initial speed sampling) pulls from
// the same stream, so the interleaving of draws is part of the engine's
// reproducibility contract: a fixed seed plus a fixed configuration yields
// identical runs.
type Stream struct {
	src rand.Source
	rng *rand.Rand
}

// NewStream creates a stream seeded for one run.
func NewStream(seed uint64) *Stream {
	src := rand.NewSource(seed)
	return &Stream{
		src: src,
		rng: rand.New(src),
	}
}

// Chance consumes one draw and returns true with probability p.
func (s *Stream) Chance(p float64) bool {
	return s.rng.Float64() < p
}

// Bool consumes one draw and returns true or false with equal probability.
func (s *Stream) Bool() bool {
	return s.Chance(0.5)
}

// WeightedInt draws one value from values using the given relative weights.
// len(values) must equal len(weights); the caller validates that.
func (s *Stream) WeightedInt(values []int, weights []float64) int {
	w := sampleuv.NewWeighted(weights, s.src)
	i, _ := w.Take()
	return values[i]
}
