package bloom

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// Version is the only wire format version Decode accepts.
const Version = "1.0"

// wordBytes is the width of one word on the wire. Each 32-bit word travels in
// a signed 64-bit big-endian slot with its upper half zero.
const wordBytes = 8

// Envelope is the JSON form of an encoded filter.
type Envelope struct {
	Version   string  `json:"v"`
	N         uint    `json:"n"`
	P         float64 `json:"p"`
	Zlib      bool    `json:"zlib"`
	Data      string  `json:"data"`
	Hash      string  `json:"hash"`
	Generator string  `json:"gen"`
}

// rawEnvelope mirrors Envelope but keeps absent and zero fields apart.
type rawEnvelope struct {
	Version   *string      `json:"v"`
	N         *json.Number `json:"n"`
	P         *json.Number `json:"p"`
	Zlib      *bool        `json:"zlib"`
	Data      *string      `json:"data"`
	Hash      *string      `json:"hash"`
	Generator *string      `json:"gen"`
}

// Encode serializes f into a version 1.0 JSON envelope. The digest always
// covers the uncompressed bit array; compress only changes the payload.
func Encode(f BloomFilter, compress bool) ([]byte, error) {
	env, err := NewEnvelope(f, compress)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// NewEnvelope builds the envelope Encode serializes.
func NewEnvelope(f BloomFilter, compress bool) (*Envelope, error) {
	raw := packWords(f.BitSet().Words())
	sum := sha256.Sum256(raw)

	payload := raw
	if compress {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(raw); err != nil {
			return nil, fmt.Errorf("compress bit array: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("compress bit array: %w", err)
		}
		payload = buf.Bytes()
	}

	return &Envelope{
		Version:   Version,
		N:         f.N(),
		P:         f.P(),
		Zlib:      compress,
		Data:      base64.StdEncoding.EncodeToString(payload),
		Hash:      hex.EncodeToString(sum[:]),
		Generator: f.Generator().Name(),
	}, nil
}

// Decode parses an envelope produced by Encode, verifies it and rebuilds the
// filter. Every failure wraps ErrCorruptData, except an unknown generator
// name which wraps ErrUnsupportedGenerator.
func Decode(data []byte) (BloomFilter, error) {
	var env rawEnvelope
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}

	if isBlank(env.Version) || isBlank(env.Data) || isBlank(env.Hash) || isBlank(env.Generator) || env.N == nil || env.P == nil {
		return nil, fmt.Errorf("%w: invalid envelope structure", ErrCorruptData)
	}
	if *env.Version != Version {
		return nil, fmt.Errorf("%w: incompatible version %q", ErrCorruptData, *env.Version)
	}
	n, err := strictUint(*env.N)
	if err != nil || n == 0 {
		return nil, fmt.Errorf("%w: invalid n %q", ErrCorruptData, env.N.String())
	}
	p, err := env.P.Float64()
	if err != nil || !(p > 0 && p < 1) {
		return nil, fmt.Errorf("%w: invalid p %q", ErrCorruptData, env.P.String())
	}
	m, _, err := checkParameters(n, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}

	wantHash, err := hex.DecodeString(*env.Hash)
	if err != nil || len(wantHash) != sha256.Size {
		return nil, fmt.Errorf("%w: malformed hash", ErrCorruptData)
	}

	payload, err := base64.StdEncoding.DecodeString(stripSpace(*env.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}

	raw := payload
	if env.Zlib != nil && *env.Zlib {
		// One byte past the expected size is enough to detect oversized output.
		raw, err = inflate(payload, int64(NumWords(m))*wordBytes+1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
		}
	}

	sum := sha256.Sum256(raw)
	if !bytes.Equal(sum[:], wantHash) {
		return nil, fmt.Errorf("%w: data integrity error", ErrCorruptData)
	}

	gen, err := LookupProbeGenerator(*env.Generator)
	if err != nil {
		return nil, err
	}

	words, err := unpackWords(raw)
	if err != nil {
		return nil, err
	}
	return FromData(n, p, gen, words)
}

func packWords(words []uint32) []byte {
	raw := make([]byte, len(words)*wordBytes)
	for i, w := range words {
		binary.BigEndian.PutUint64(raw[i*wordBytes:], uint64(w))
	}
	return raw
}

func unpackWords(raw []byte) ([]uint32, error) {
	if len(raw)%wordBytes != 0 {
		return nil, fmt.Errorf("%w: bit array length %d is not a multiple of %d", ErrCorruptData, len(raw), wordBytes)
	}
	words := make([]uint32, len(raw)/wordBytes)
	for i := range words {
		v := binary.BigEndian.Uint64(raw[i*wordBytes:])
		if v > math.MaxUint32 {
			return nil, fmt.Errorf("%w: word %d has bits above 32", ErrCorruptData, i)
		}
		words[i] = uint32(v)
	}
	return words, nil
}

func inflate(payload []byte, limit int64) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	raw, err := io.ReadAll(io.LimitReader(zr, limit))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) >= limit {
		return nil, fmt.Errorf("decompressed bit array exceeds %d bytes", limit-1)
	}
	return raw, nil
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

// strictUint accepts only non-negative integral JSON numbers.
func strictUint(num json.Number) (uint, error) {
	v, err := num.Int64()
	if err != nil {
		return 0, err
	}
	if v < 0 || uint64(v) > uint64(math.MaxUint32) {
		return 0, fmt.Errorf("out of range")
	}
	return uint(v), nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)
}
