package overflow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrap32(t *testing.T) {
	tests := []struct {
		in   int64
		want int32
	}{
		{0, 0},
		{math.MaxInt32, math.MaxInt32},
		{math.MinInt32, math.MinInt32},
		{math.MaxInt32 + 1, math.MinInt32},
		{math.MinInt32 - 1, math.MaxInt32},
		{1 << 32, 0},
		{(1 << 32) + 5, 5},
		{-(1 << 32) - 5, -5},
		{0x5bd1e995 * 0x5bd1e995, 678072505},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Wrap32(tt.in), "Wrap32(%d)", tt.in)
	}
}

func TestMul32(t *testing.T) {
	require.Equal(t, int32(-2), Mul32(math.MaxInt32, 2))
	require.Equal(t, int32(math.MinInt32), Mul32(math.MinInt32, -1))

	// Must agree with reducing the exact product.
	for _, a := range []int32{0x5bd1e995, -7, 123456789, math.MinInt32} {
		for _, b := range []int32{0x5bd1e995, 3, -987654321, math.MaxInt32} {
			require.Equal(t, Wrap32(int64(a)*int64(b)), Mul32(a, b))
		}
	}
}

func TestShifts(t *testing.T) {
	require.Equal(t, int32(1), UnsignedRightShift32(math.MinInt32, 31))
	require.Equal(t, int32(0x7fffffff), UnsignedRightShift32(-1, 1))
	require.Equal(t, int32(0xff), UnsignedRightShift32(-1, 24))
	require.Equal(t, int32(0x12), UnsignedRightShift32(0x1234, 8))
	require.Equal(t, int32(-1), UnsignedRightShift32(-1, 0))

	require.Equal(t, int32(math.MinInt32), ShiftLeft32(1, 31))
	require.Equal(t, int32(0), ShiftLeft32(2, 31))
	require.Equal(t, int32(0xff0000), ShiftLeft32(0xff, 16))
}
