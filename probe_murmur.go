package bloom

import (
	"math"

	"github.com/HoangViet144/probebloom/internal/overflow"
)

const (
	// MurmurName tags filters probed by MurmurProbeGenerator.
	MurmurName = "MURMUR"

	murmurSeed int32 = 89478583
	murmurMul  int32 = 0x5bd1e995
	murmurRot        = 24
)

// MurmurProbeGenerator derives probes from a 32-bit MurmurHash2 over a
// counter-mutated copy of the key.
//
// Before each hash the key is incremented as a little-endian counter whose
// digits wrap from 127 to 0. An empty key has no digits, so every probe of it
// is the same position. A hash is accepted only if its absolute value
// lies in [0, MaxInt32 - MaxInt32%m]; anything else (including MinInt32) is
// rejected and the next counter value is hashed instead. Accepted hashes are
// reduced modulo m, so no position is favoured by modulo bias.
//
// m must not exceed math.MaxInt32.
type MurmurProbeGenerator struct{}

func (MurmurProbeGenerator) Name() string {
	return MurmurName
}

func (MurmurProbeGenerator) Probes(k, m uint, key []byte) []uint {
	data := append([]byte(nil), key...)

	positions := make([]uint, 0, k)
	for uint(len(positions)) < k {
		incrementKey(data)
		if pos, ok := rejectionSample(murmurHash2(data), m); ok {
			positions = append(positions, pos)
		}
	}
	return positions
}

func incrementKey(data []byte) {
	for i := range data {
		if data[i] == 127 {
			data[i] = 0
			continue
		}
		data[i]++
		return
	}
}

func murmurHash2(data []byte) int32 {
	n := len(data)
	h := murmurSeed ^ overflow.Wrap32(int64(n))

	i := 0
	for ; n >= 4; n -= 4 {
		k := int32(uint32(data[i]) | uint32(data[i+1])<<8 | uint32(data[i+2])<<16 | uint32(data[i+3])<<24)
		k = overflow.Mul32(k, murmurMul)
		k ^= overflow.UnsignedRightShift32(k, murmurRot)
		k = overflow.Mul32(k, murmurMul)

		h = overflow.Mul32(h, murmurMul)
		h ^= k
		i += 4
	}

	switch n {
	case 3:
		h ^= overflow.ShiftLeft32(int32(data[i+2]), 16)
		fallthrough
	case 2:
		h ^= overflow.ShiftLeft32(int32(data[i+1]), 8)
		fallthrough
	case 1:
		h ^= int32(data[i])
		h = overflow.Mul32(h, murmurMul)
	}

	h ^= overflow.UnsignedRightShift32(h, 13)
	h = overflow.Mul32(h, murmurMul)
	h ^= overflow.UnsignedRightShift32(h, 15)
	return h
}

func rejectionSample(h int32, m uint) (uint, bool) {
	if h == math.MinInt32 {
		return 0, false
	}
	if h < 0 {
		h = -h
	}
	limit := int64(math.MaxInt32) - int64(math.MaxInt32)%int64(m)
	if int64(h) > limit {
		return 0, false
	}
	return uint(h) % m, true
}
