package bloom

// BitSet stores the bits of a Bloom filter as 32-bit words. Bit i lives in
// word i/32 at position i%32.
type BitSet interface {
	// Len returns the number of words.
	Len() int
	// Set bit i to 1.
	// If i is beyond the last word, this function will panic: the filter
	// only hands out probes in [0, m).
	Set(i uint) BitSet
	// Test whether bit i is set.
	Test(i uint) bool
	// InPlaceUnion creates the destructive union of base set and compare set.
	// This is the BitSet equivalent of | (or). Both sets must have the same Len.
	InPlaceUnion(compare BitSet)
	// InPlaceIntersection creates the destructive intersection of base set and
	// compare set. This is the BitSet equivalent of & (and). Both sets must
	// have the same Len.
	InPlaceIntersection(compare BitSet)
	// ClearAll clears the entire BitSet
	ClearAll() BitSet
	// Count (number of set bits).
	// Also known as "popcount" or "population count".
	Count() uint
	// Equal tests the equivalence of two BitSets.
	// False if they are of different sizes, otherwise true
	// only if all the same bits are set
	Equal(c BitSet) bool
	// Words returns the backing words. Callers must not modify them.
	Words() []uint32
	// Clone returns an independent copy.
	Clone() BitSet
}
