package bloom

import (
	"math/rand/v2"

	"github.com/twmb/murmur3"
)

// RandomName tags filters probed by RandomProbeGenerator.
const RandomName = "RANDOM"

// RandomProbeGenerator seeds a PCG generator with the 128-bit murmur3 hash of
// the key and draws k unbiased positions from it.
//
// The positions depend on math/rand/v2's range sampling, so filters built with
// this generator should only be exchanged between builds of this package.
type RandomProbeGenerator struct{}

func (RandomProbeGenerator) Name() string {
	return RandomName
}

func (RandomProbeGenerator) Probes(k, m uint, key []byte) []uint {
	hi, lo := murmur3.Sum128(key)
	r := rand.New(rand.NewPCG(hi, lo))

	positions := make([]uint, k)
	for i := range positions {
		positions[i] = r.UintN(m)
	}
	return positions
}
