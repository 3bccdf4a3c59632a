package bloom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWordBitSetSetTest(t *testing.T) {
	b := NewWordBitSet(2)
	require.Equal(t, 2, b.Len())

	for _, i := range []uint{0, 1, 31, 32, 63} {
		require.False(t, b.Test(i))
		b.Set(i)
		require.True(t, b.Test(i))
	}
	require.Equal(t, []uint32{0x80000003, 0x80000001}, b.Words())
	require.Equal(t, uint(5), b.Count())

	// Setting twice is a no-op.
	b.Set(31)
	require.Equal(t, uint(5), b.Count())

	b.ClearAll()
	require.Equal(t, uint(0), b.Count())
	require.Equal(t, 2, b.Len())
}

func TestWordBitSetUnionIntersection(t *testing.T) {
	a := FromWords([]uint32{0b1100, 0xffff0000})
	b := FromWords([]uint32{0b1010, 0x00ffff00})

	u := a.Clone()
	u.InPlaceUnion(b)
	require.Equal(t, []uint32{0b1110, 0xffffff00}, u.Words())

	in := a.Clone()
	in.InPlaceIntersection(b)
	require.Equal(t, []uint32{0b1000, 0x00ff0000}, in.Words())

	// The operands are untouched.
	require.Equal(t, []uint32{0b1100, 0xffff0000}, a.Words())
	require.Equal(t, []uint32{0b1010, 0x00ffff00}, b.Words())
}

func TestWordBitSetEqual(t *testing.T) {
	a := FromWords([]uint32{1, 2})
	require.True(t, a.Equal(FromWords([]uint32{1, 2})))
	require.False(t, a.Equal(FromWords([]uint32{1, 3})))
	require.False(t, a.Equal(FromWords([]uint32{1})))
	require.False(t, a.Equal(nil))
}
