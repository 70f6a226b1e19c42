package core

import "math/rand"

// RandSampler adapts *rand.Rand to the Sampler interface. Each render tile
// owns one, seeded deterministically from the tile index, so that a given
// scene/settings pair always produces the same image.
type RandSampler struct {
	rng *rand.Rand
}

// NewRandSampler creates a sampler seeded deterministically from seed.
func NewRandSampler(seed int64) *RandSampler {
	return &RandSampler{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandSampler) Float64() float64 {
	return s.rng.Float64()
}
