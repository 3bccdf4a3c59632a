package bloom

import "math/big"

// MersenneName tags filters probed by MersenneProbeGenerator.
const MersenneName = "MERSENNE"

// Each triple seeds one polynomial hash: 2^17-1, 2^31-1, 2^127-1 and
// 2^19-1, 2^67-1, 2^257-1.
var (
	mersenne1 = mersennePrimes(17, 31, 127)
	mersenne2 = mersennePrimes(19, 67, 257)
)

// MersenneProbeGenerator uses enhanced double hashing (Kirsch-Mitzenmacher):
// two polynomial hashes h1, h2 over the key bytes give probe i = (h1 + i*h2)
// mod m for i in 1..k.
type MersenneProbeGenerator struct{}

func (MersenneProbeGenerator) Name() string {
	return MersenneName
}

func (MersenneProbeGenerator) Probes(k, m uint, key []byte) []uint {
	mod := new(big.Int).SetUint64(uint64(m))
	h1 := polyHash(key, mersenne1)
	h2 := polyHash(key, mersenne2)
	pos := h1.Mod(h1, mod).Uint64()
	step := h2.Mod(h2, mod).Uint64()

	positions := make([]uint, k)
	for i := range positions {
		// pos and step are below m <= MaxUint64/2, so the sum cannot wrap.
		pos = (pos + step) % uint64(m)
		positions[i] = uint(pos)
	}
	return positions
}

// polyHash folds key into result = ((result + b + p[0]) * p[1]) mod p[2].
func polyHash(key []byte, p [3]*big.Int) *big.Int {
	result := new(big.Int)
	v := new(big.Int)
	for _, b := range key {
		v.SetUint64(uint64(b))
		result.Add(result, v)
		result.Add(result, p[0])
		result.Mul(result, p[1])
		result.Mod(result, p[2])
	}
	return result
}

func mersennePrimes(exps ...uint) (p [3]*big.Int) {
	one := big.NewInt(1)
	for i, e := range exps {
		p[i] = new(big.Int).Sub(new(big.Int).Lsh(one, e), one)
	}
	return p
}
