/*
In this implementation, the bit positions of a key are computed by a
ProbeGenerator; the default is MurmurHash2 with rejection sampling.
*/
package bloom

import (
	"bytes"
	"io"
	"math"
)

// A BloomFilter is a representation of a set of _n_ items, where the main
// requirement is to make membership queries; _i.e._, whether an item is a
// member of a set.
type bloomFilterImpl struct {
	n   uint
	p   float64
	m   uint
	k   uint
	gen ProbeGenerator
	b   BitSet
}

func (f *bloomFilterImpl) Cap() uint {
	return f.m
}

func (f *bloomFilterImpl) K() uint {
	return f.k
}

func (f *bloomFilterImpl) N() uint {
	return f.n
}

func (f *bloomFilterImpl) P() float64 {
	return f.p
}

func (f *bloomFilterImpl) Generator() ProbeGenerator {
	return f.gen
}

func (f *bloomFilterImpl) BitSet() BitSet {
	return f.b
}

func (f *bloomFilterImpl) Locations(data []byte) []uint {
	return f.gen.Probes(f.k, f.m, data)
}

func (f *bloomFilterImpl) Add(data []byte) BloomFilter {
	for _, l := range f.Locations(data) {
		f.b.Set(l)
	}
	return f
}

func (f *bloomFilterImpl) AddString(data string) BloomFilter {
	return f.Add([]byte(data))
}

func (f *bloomFilterImpl) AddKey(key interface{}) error {
	data, err := KeyBytes(key)
	if err != nil {
		return err
	}
	f.Add(data)
	return nil
}

func (f *bloomFilterImpl) Test(data []byte) bool {
	for _, l := range f.Locations(data) {
		if !f.b.Test(l) {
			return false
		}
	}
	return true
}

func (f *bloomFilterImpl) TestString(data string) bool {
	return f.Test([]byte(data))
}

func (f *bloomFilterImpl) TestKey(key interface{}) (bool, error) {
	data, err := KeyBytes(key)
	if err != nil {
		return false, err
	}
	return f.Test(data), nil
}

func (f *bloomFilterImpl) TestLocations(locs []uint) bool {
	for _, l := range locs {
		if !f.b.Test(l % f.m) {
			return false
		}
	}
	return true
}

func (f *bloomFilterImpl) TestAndAdd(data []byte) bool {
	present := true
	for _, l := range f.Locations(data) {
		if !f.b.Test(l) {
			present = false
		}
		f.b.Set(l)
	}
	return present
}

func (f *bloomFilterImpl) TestOrAdd(data []byte) bool {
	present := true
	for _, l := range f.Locations(data) {
		if !f.b.Test(l) {
			present = false
			f.b.Set(l)
		}
	}
	return present
}

func (f *bloomFilterImpl) ClearAll() BloomFilter {
	f.b.ClearAll()
	return f
}

func (f *bloomFilterImpl) ApproximatedSize() uint32 {
	m := float64(f.Cap())
	x := math.Min(float64(f.b.Count()), m)
	k := float64(f.K())
	size := -1 * m / k * math.Log(1-x/m) / math.Log(math.E)
	if size >= math.MaxUint32 {
		// a saturated filter gives +Inf
		return math.MaxUint32
	}
	return uint32(math.Floor(size + 0.5)) // round
}

func (f *bloomFilterImpl) MatchesTemplate(g BloomFilter) bool {
	return g != nil &&
		f.m == g.Cap() &&
		f.k == g.K() &&
		f.gen.Name() == g.Generator().Name()
}

func (f *bloomFilterImpl) Union(g BloomFilter) error {
	if !f.MatchesTemplate(g) {
		return templateMismatch(f, g)
	}
	f.b.InPlaceUnion(g.BitSet())
	return nil
}

func (f *bloomFilterImpl) Intersection(g BloomFilter) error {
	if !f.MatchesTemplate(g) {
		return templateMismatch(f, g)
	}
	f.b.InPlaceIntersection(g.BitSet())
	return nil
}

func (f *bloomFilterImpl) MarshalJSON() ([]byte, error) {
	return Encode(f, true)
}

func (f *bloomFilterImpl) UnmarshalJSON(data []byte) error {
	g, err := Decode(data)
	if err != nil {
		return err
	}
	*f = *g.(*bloomFilterImpl)
	return nil
}

func (f *bloomFilterImpl) WriteTo(stream io.Writer) (int64, error) {
	data, err := Encode(f, true)
	if err != nil {
		return 0, err
	}
	n, err := stream.Write(data)
	return int64(n), err
}

func (f *bloomFilterImpl) ReadFrom(stream io.Reader) (int64, error) {
	var buf bytes.Buffer
	n, err := buf.ReadFrom(stream)
	if err != nil {
		return n, err
	}
	return n, f.UnmarshalJSON(buf.Bytes())
}

func (f *bloomFilterImpl) GobEncode() ([]byte, error) {
	return f.MarshalJSON()
}

func (f *bloomFilterImpl) GobDecode(data []byte) error {
	return f.UnmarshalJSON(data)
}

func (f *bloomFilterImpl) Equal(g BloomFilter) bool {
	return f.MatchesTemplate(g) && f.b.Equal(g.BitSet())
}
