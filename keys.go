package bloom

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"reflect"
)

// KeyBytes converts key to the byte sequence probe generators hash.
//
// Strings and byte slices are used as is. Fixed-size integers are written
// big-endian at their natural width; int and uint are written as 64-bit
// values so the encoding does not depend on the platform. Values implementing
// encoding.BinaryMarshaler are marshalled, unless they are nil pointers. Anything else fails with
// ErrUnsupportedKeyType.
func KeyBytes(key interface{}) ([]byte, error) {
	switch v := key.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case uint8:
		return []byte{v}, nil
	case int8:
		return []byte{byte(v)}, nil
	case uint16:
		return binary.BigEndian.AppendUint16(nil, v), nil
	case int16:
		return binary.BigEndian.AppendUint16(nil, uint16(v)), nil
	case uint32:
		return binary.BigEndian.AppendUint32(nil, v), nil
	case int32:
		return binary.BigEndian.AppendUint32(nil, uint32(v)), nil
	case uint64:
		return binary.BigEndian.AppendUint64(nil, v), nil
	case int64:
		return binary.BigEndian.AppendUint64(nil, uint64(v)), nil
	case uint:
		return binary.BigEndian.AppendUint64(nil, uint64(v)), nil
	case int:
		return binary.BigEndian.AppendUint64(nil, uint64(v)), nil
	case encoding.BinaryMarshaler:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, fmt.Errorf("%w: nil %T", ErrUnsupportedKeyType, key)
		}
		b, err := v.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("%w: %T: %v", ErrUnsupportedKeyType, key, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKeyType, key)
	}
}
