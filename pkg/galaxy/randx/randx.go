// Package randx provides per-task random sources and the few continuous
// distributions the generators sample from.
//
// Every generator task owns its own *rand.Rand. Sources are derived from a
// run seed and a task salt so that one task's draws never depend on another
// task's call order.
package randx

import (
	"hash/fnv"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// New returns a PCG-backed generator for the given run seed and task name.
// The same (seed, task) pair always yields the same stream.
func New(seed uint64, task string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(task))
	salt := h.Sum64()
	return rand.New(rand.NewPCG(seed, seed^salt^0xdeadbeef))
}

// Uniform returns a float in [lo, hi). When lo == hi it returns lo.
func Uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// Normal returns a gaussian sample with mean mu and standard deviation
// sigma. A zero sigma returns exactly mu.
func Normal(rng *rand.Rand, mu, sigma float64) float64 {
	return mu + sigma*rng.NormFloat64()
}

// Exp returns an exponential sample with the given rate (lambda).
func Exp(rng *rand.Rand, rate float64) float64 {
	return rng.ExpFloat64() / rate
}

// IntRange returns an int in the closed interval [lo, hi].
func IntRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// Chance reports true with probability p.
func Chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// Beta returns a sample from the Beta(alpha, beta) distribution in [0, 1].
// Both shape parameters must be positive.
func Beta(rng *rand.Rand, alpha, beta float64) float64 {
	x := distuv.Beta{Alpha: alpha, Beta: beta, Src: rng}.Rand()
	if math.IsNaN(x) {
		// Both gamma draws underflowed for tiny shapes.
		return 0
	}
	return x
}

// Shuffle permutes s in place.
func Shuffle[T any](rng *rand.Rand, s []T) {
	rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// Pick returns a uniformly chosen element of s. s must not be empty.
func Pick[T any](rng *rand.Rand, s []T) T {
	return s[rng.IntN(len(s))]
}
