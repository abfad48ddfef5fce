package game

import (
	rand "math/rand/v2"
	"slices"
)

// Shuffle returns a uniformly random permutation of in, via Fisher-Yates.
// The input slice is never modified. Pass a seeded rng for reproducibility.
func Shuffle[T any](rng *rand.Rand, in []T) []T {
	out := slices.Clone(in)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
