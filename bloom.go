/*
Package bloom provides Bloom filters with pluggable probe generators and a
portable, integrity-checked wire format.

A Bloom filter is a representation of a set of _n_ items, where the main
requirement is to make membership queries; _i.e._, whether an item is a
member of a set.

A filter is sized from two parameters: _n_, the number of elements it is
expected to hold, and _p_, the target false positive rate. From those it
derives _m_, the number of bits, and _k_, the number of probes per key:

	m = ceil(-n * ln(p) / ln(2)^2)
	k = ceil(m / n * ln(2))

A key is represented in the filter by setting the _k_ bits its ProbeGenerator
computes. Set membership is done by _testing_ whether all of those bits are
set. If the item is actually in the set, a Bloom filter will never fail (the
true positive rate is 1.0); but it is susceptible to false positives.

Three probe generators are available and are identified by name on the wire:

	MURMUR    32-bit MurmurHash2 with rejection sampling (the default)
	MERSENNE  double hashing over two Mersenne-prime polynomial hashes
	RANDOM    a PCG generator seeded from the murmur3 hash of the key

To add a string item, "Love":

	filter, err := bloom.NewWithEstimates(1000, 0.001, nil)
	if err != nil { ... }
	filter.AddString("Love")

Similarly, to test if "Love" is in bloom:

	if filter.TestString("Love")

Filters are exchanged as JSON envelopes (see Encode and Decode):

	{"v":"1.0","n":1000,"p":0.001,"zlib":true,"data":"...","hash":"...","gen":"MURMUR"}

where data is the base64 of the (optionally zlib-compressed) bit array and
hash is the SHA-256 of the uncompressed bit array.

Filters are not safe for concurrent mutation. Concurrent Test calls against a
filter nobody is modifying are fine; otherwise wrap it in a SyncFilter.
*/
package bloom

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

type BloomFilter interface {
	// Cap returns the capacity, _m_, of a Bloom filter
	Cap() uint
	// K returns the number of probes used in the BloomFilter
	K() uint
	// N returns the number of elements the filter was sized for.
	N() uint
	// P returns the false positive rate the filter was sized for.
	P() float64
	// Generator returns the probe generator computing bit positions.
	Generator() ProbeGenerator
	// BitSet returns the underlying bitset for this filter.
	BitSet() BitSet
	// Add data to the Bloom Filter. Returns the filter (allows chaining)
	Add(data []byte) BloomFilter
	// AddString to the Bloom Filter. Returns the filter (allows chaining)
	AddString(data string) BloomFilter
	// AddKey converts key with KeyBytes and adds it.
	AddKey(key interface{}) error
	// Test returns true if the data is in the BloomFilter, false otherwise.
	// If true, the result might be a false positive. If false, the data
	// is definitely not in the set.
	Test(data []byte) bool
	// TestString returns true if the string is in the BloomFilter, false otherwise.
	// If true, the result might be a false positive. If false, the data
	// is definitely not in the set.
	TestString(data string) bool
	// TestKey converts key with KeyBytes and tests it.
	TestKey(key interface{}) (bool, error)
	// Locations returns the probe positions of data in this filter.
	Locations(data []byte) []uint
	// TestLocations returns true if all locations are set in the BloomFilter, false
	// otherwise.
	TestLocations(locs []uint) bool
	// TestAndAdd is the equivalent to calling Test(data) then Add(data).
	// Returns the result of Test.
	TestAndAdd(data []byte) bool
	// TestOrAdd is the equivalent to calling Test(data) then if not present Add(data).
	// Returns the result of Test.
	TestOrAdd(data []byte) bool
	// ClearAll clears all the data in a Bloom filter, removing all keys
	ClearAll() BloomFilter
	// ApproximatedSize approximates the number of items
	// https://en.wikipedia.org/wiki/Bloom_filter#Approximating_the_number_of_items_in_a_Bloom_filter
	ApproximatedSize() uint32
	// MatchesTemplate reports whether g shares m, k and probe generator with
	// this filter, which is what Union and Intersection require.
	MatchesTemplate(g BloomFilter) bool
	// Union replaces the bits of this filter with the OR of both filters.
	// It fails with ErrTemplateMismatch and leaves the filter untouched if
	// the templates differ.
	Union(g BloomFilter) error
	// Intersection replaces the bits of this filter with the AND of both
	// filters. It fails with ErrTemplateMismatch and leaves the filter
	// untouched if the templates differ.
	Intersection(g BloomFilter) error
	// MarshalJSON implements json.Marshaler interface using the compressed
	// wire envelope.
	MarshalJSON() ([]byte, error)
	// UnmarshalJSON implements json.Unmarshaler interface. The receiver is
	// replaced only if data decodes successfully.
	UnmarshalJSON(data []byte) error
	// WriteTo writes the compressed wire envelope to an i/o stream.
	// It returns the number of bytes written.
	WriteTo(stream io.Writer) (int64, error)
	// ReadFrom reads a wire envelope (such as might have been written by
	// WriteTo()) from an i/o stream. It returns the number of bytes read.
	ReadFrom(stream io.Reader) (int64, error)
	// GobEncode implements gob.GobEncoder interface.
	GobEncode() ([]byte, error)
	// GobDecode implements gob.GobDecoder interface.
	GobDecode(data []byte) error
	// Equal tests for the equality of two Bloom filters
	Equal(g BloomFilter) bool
}

// NewWithEstimates creates a new, empty Bloom filter for about n items with
// false positive rate p. A nil gen selects MurmurProbeGenerator.
func NewWithEstimates(n uint, p float64, gen ProbeGenerator) (BloomFilter, error) {
	m, k, err := checkParameters(n, p)
	if err != nil {
		return nil, err
	}
	return newFilter(n, p, m, k, gen, NewWordBitSet(NumWords(m))), nil
}

// FromData creates a Bloom filter for n items and rate p over existing words.
// The words are not copied. Their count must equal NumWords of the derived m,
// otherwise ErrCorruptData is returned.
func FromData(n uint, p float64, gen ProbeGenerator, words []uint32) (BloomFilter, error) {
	m, k, err := checkParameters(n, p)
	if err != nil {
		return nil, err
	}
	if want := NumWords(m); len(words) != want {
		return nil, fmt.Errorf("%w: have %d words, n=%d p=%v needs %d", ErrCorruptData, len(words), n, p, want)
	}
	return newFilter(n, p, m, k, gen, FromWords(words)), nil
}

func newFilter(n uint, p float64, m, k uint, gen ProbeGenerator, b BitSet) *bloomFilterImpl {
	if gen == nil {
		gen = MurmurProbeGenerator{}
	}
	return &bloomFilterImpl{n: n, p: p, m: m, k: k, gen: gen, b: b}
}

// EstimateParameters estimates requirements for m and k.
// Based on https://bitbucket.org/ww/bloom/src/829aa19d01d9/bloom.go
// used with permission.
func EstimateParameters(n uint, p float64) (m uint, k uint) {
	m = uint(math.Ceil(-1 * float64(n) * math.Log(p) / math.Pow(math.Log(2), 2)))
	k = uint(math.Ceil(math.Log(2) * float64(m) / float64(n)))
	return
}

// NumWords returns the number of 32-bit words holding m bits.
func NumWords(m uint) int {
	return int((m + 31) / 32)
}

func checkParameters(n uint, p float64) (m, k uint, err error) {
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: n must be > 0", ErrInvalidParameter)
	}
	if !(p > 0 && p < 1) {
		return 0, 0, fmt.Errorf("%w: p must be between 0 and 1 exclusive, got %v", ErrInvalidParameter, p)
	}
	bitsNeeded := math.Ceil(-1 * float64(n) * math.Log(p) / math.Pow(math.Log(2), 2))
	if bitsNeeded > math.MaxInt32 {
		return 0, 0, fmt.Errorf("%w: n=%d p=%v needs %.0f bits, more than %d", ErrInvalidParameter, n, p, bitsNeeded, math.MaxInt32)
	}
	m, k = EstimateParameters(n, p)
	return max(m, 1), max(k, 1), nil
}

// EstimateFalsePositiveRate returns, for a BloomFilter sized for n entries at
// rate p, an estimation of the false positive rate when storing n entries.
// This is an empirical, relatively slow test using integers as keys.
// This function is useful to validate the implementation.
func EstimateFalsePositiveRate(n uint, p float64, gen ProbeGenerator) (fpRate float64, err error) {
	rounds := uint32(100000)
	// We construct a new filter.
	f, err := NewWithEstimates(n, p, gen)
	if err != nil {
		return 0, err
	}
	n1 := make([]byte, 4)
	// We populate the filter with n values.
	for i := uint32(0); i < uint32(n); i++ {
		binary.BigEndian.PutUint32(n1, i)
		f.Add(n1)
	}
	fp := 0
	// test for number of rounds
	for i := uint32(0); i < rounds; i++ {
		binary.BigEndian.PutUint32(n1, i+uint32(n)+1)
		if f.Test(n1) {
			fp++
		}
	}
	return float64(fp) / float64(rounds), nil
}
