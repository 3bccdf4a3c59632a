package bloom

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is returned when a filter is sized with n <= 0, p
	// outside (0, 1), or parameters that overflow the supported bit range.
	ErrInvalidParameter = errors.New("bloom: invalid parameter")
	// ErrTemplateMismatch is returned by Union and Intersection when the two
	// filters do not share m, k and probe generator.
	ErrTemplateMismatch = errors.New("bloom: mismatched bloom filters")
	// ErrCorruptData is returned when an encoded filter is malformed, has an
	// unsupported version, fails its integrity digest, or carries a bit array
	// whose size disagrees with its parameters.
	ErrCorruptData = errors.New("bloom: corrupt data")
	// ErrUnsupportedGenerator is returned when a probe generator name is unknown.
	ErrUnsupportedGenerator = errors.New("bloom: unsupported probe generator")
	// ErrUnsupportedKeyType is returned when a key cannot be converted to bytes.
	ErrUnsupportedKeyType = errors.New("bloom: unsupported key type")
	// ErrNotFound is returned by a Store when no filter is stored under a key.
	ErrNotFound = errors.New("bloom: filter not found")
)

func templateMismatch(f, g BloomFilter) error {
	if g == nil {
		return fmt.Errorf("%w: nil filter", ErrTemplateMismatch)
	}
	return fmt.Errorf("%w: m=%d k=%d gen=%s vs m=%d k=%d gen=%s", ErrTemplateMismatch,
		f.Cap(), f.K(), f.Generator().Name(), g.Cap(), g.K(), g.Generator().Name())
}
