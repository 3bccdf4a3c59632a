// Package overflow emulates fixed-width signed 32-bit integer arithmetic with
// two's-complement wraparound.
//
// Every function is total and pure. Results are identical on hosts whose native
// int is 32 or 64 bits wide, which keeps hash bit patterns reproducible across
// implementations that silently overflow (Java, C) and those that widen.
package overflow

// Wrap32 reduces x modulo 2^32 into the range [-2^31, 2^31-1].
func Wrap32(x int64) int32 {
	return int32(uint32(uint64(x)))
}

// Mul32 returns a*b with wraparound.
func Mul32(a, b int32) int32 {
	return int32(uint32(a) * uint32(b))
}

// ShiftLeft32 returns x<<n with the shifted-out bits discarded. n is taken
// modulo 32.
func ShiftLeft32(x int32, n uint) int32 {
	return int32(uint32(x) << (n & 31))
}

// UnsignedRightShift32 shifts the bit pattern of x right by n with zero fill,
// treating x as an unsigned 32-bit value (Java's >>>). n is taken modulo 32.
func UnsignedRightShift32(x int32, n uint) int32 {
	return int32(uint32(x) >> (n & 31))
}
