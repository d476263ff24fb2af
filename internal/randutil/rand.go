// Package randutil centralises how the environment turns an int64 seed into
// a reproducible random stream.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// Source is the subset of *rand.Rand drawn on by the game: shuffles,
// uniform chamber draws, bluff card picks and challenge coin flips.
type Source interface {
	IntN(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

var _ Source = (*rand.Rand)(nil)

// New returns a *rand.Rand seeded deterministically from seed. Both PCG
// words are derived from the one int64 so equal seeds give equal streams.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// TimeSeed returns a seed for callers that did not ask for determinism.
func TimeSeed() int64 {
	return time.Now().UnixNano()
}

// NextSeed draws a fresh episode seed from a master stream.
func NextSeed(r *rand.Rand) int64 {
	return r.Int64()
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
