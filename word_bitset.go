package bloom

import "math/bits"

// WordBitSet is the in-memory BitSet.
type WordBitSet []uint32

// NewWordBitSet allocates a zeroed set of the given word count.
func NewWordBitSet(words int) WordBitSet {
	return make(WordBitSet, words)
}

// FromWords wraps words without copying.
func FromWords(words []uint32) WordBitSet {
	return WordBitSet(words)
}

func (b WordBitSet) Len() int {
	return len(b)
}

func (b WordBitSet) Set(i uint) BitSet {
	b[i>>5] |= 1 << (i & 31)
	return b
}

func (b WordBitSet) Test(i uint) bool {
	return b[i>>5]&(1<<(i&31)) != 0
}

func (b WordBitSet) InPlaceUnion(compare BitSet) {
	for i, w := range compare.Words()[:len(b)] {
		b[i] |= w
	}
}

func (b WordBitSet) InPlaceIntersection(compare BitSet) {
	for i, w := range compare.Words()[:len(b)] {
		b[i] &= w
	}
}

func (b WordBitSet) ClearAll() BitSet {
	clear(b)
	return b
}

func (b WordBitSet) Count() uint {
	var n int
	for _, w := range b {
		n += bits.OnesCount32(w)
	}
	return uint(n)
}

func (b WordBitSet) Equal(c BitSet) bool {
	if c == nil || c.Len() != len(b) {
		return false
	}
	for i, w := range c.Words() {
		if b[i] != w {
			return false
		}
	}
	return true
}

func (b WordBitSet) Words() []uint32 {
	return b
}

func (b WordBitSet) Clone() BitSet {
	c := make(WordBitSet, len(b))
	copy(c, b)
	return c
}
