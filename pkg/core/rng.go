package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// IntN returns a random int in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Percent returns a uniform draw in [0, 100).
func (r *RNG) Percent() int {
	return r.r.IntN(100)
}

// Chance reports whether a percent draw falls below pct.
func (r *RNG) Chance(pct int) bool {
	return r.Percent() < pct
}

// Pick returns a uniformly chosen index into a slice of length n.
func (r *RNG) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return r.r.IntN(n)
}
