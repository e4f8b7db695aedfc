package exam

import "math/rand/v2"

// Source is the randomness used for shuffling pools and picking
// replacements. *rand.Rand satisfies it.
type Source interface {
	Shuffle(n int, swap func(i, j int))
	IntN(n int) int
}

// NewSource returns a deterministic PCG source for seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// globalSource draws from the runtime's auto-seeded generator.
type globalSource struct{}

func (globalSource) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }
func (globalSource) IntN(n int) int                     { return rand.IntN(n) }

func sourceOrDefault(s Source) Source {
	if s == nil {
		return globalSource{}
	}
	return s
}
