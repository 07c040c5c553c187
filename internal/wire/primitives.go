// Package wire implements the fixed- and variable-length byte primitives
// that every peer-protocol message is composed from.
//
// Each primitive is a total decode/encode pair over raw byte strings:
// decode splits a value off the front of its input and returns the
// remainder; encode serializes a value back to bytes. For every primitive
// p and every valid input b, encode(decode(b).value) || decode(b).remainder
// == b.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTooFewBytes is returned when a primitive needs more input than is
// available.
var ErrTooFewBytes = errors.New("wire: too few bytes")

// ErrInvalidValue is returned when the bytes present do not encode a legal
// value for the primitive being decoded (e.g. an unknown address type).
var ErrInvalidValue = errors.New("wire: invalid value")

func tooFew(need, have int) error {
	return fmt.Errorf("%w: need %d, have %d", ErrTooFewBytes, need, have)
}

// DecodeU8 reads a single byte.
func DecodeU8(b []byte) (uint8, []byte, error) {
	if len(b) < 1 {
		return 0, nil, tooFew(1, len(b))
	}
	return b[0], b[1:], nil
}

// EncodeU8 serializes a single byte.
func EncodeU8(v uint8) []byte {
	return []byte{v}
}

// DecodeU16 reads a big-endian uint16.
func DecodeU16(b []byte) (uint16, []byte, error) {
	if len(b) < 2 {
		return 0, nil, tooFew(2, len(b))
	}
	return binary.BigEndian.Uint16(b[:2]), b[2:], nil
}

// EncodeU16 serializes a big-endian uint16.
func EncodeU16(v uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, v)
	return buf
}

// DecodeU32 reads a big-endian uint32.
func DecodeU32(b []byte) (uint32, []byte, error) {
	if len(b) < 4 {
		return 0, nil, tooFew(4, len(b))
	}
	return binary.BigEndian.Uint32(b[:4]), b[4:], nil
}

// EncodeU32 serializes a big-endian uint32.
func EncodeU32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

// DecodeU64 reads a big-endian uint64.
func DecodeU64(b []byte) (uint64, []byte, error) {
	if len(b) < 8 {
		return 0, nil, tooFew(8, len(b))
	}
	return binary.BigEndian.Uint64(b[:8]), b[8:], nil
}

// EncodeU64 serializes a big-endian uint64.
func EncodeU64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

// decodeFixed reads n raw bytes.
func decodeFixed(b []byte, n int) ([]byte, []byte, error) {
	if len(b) < n {
		return nil, nil, tooFew(n, len(b))
	}
	out := make([]byte, n)
	copy(out, b[:n])
	return out, b[n:], nil
}

// DecodeBytes3 reads a fixed 3-byte array.
func DecodeBytes3(b []byte) ([3]byte, []byte, error) {
	var out [3]byte
	raw, rem, err := decodeFixed(b, 3)
	if err != nil {
		return out, nil, err
	}
	copy(out[:], raw)
	return out, rem, nil
}

// EncodeBytes3 serializes a fixed 3-byte array.
func EncodeBytes3(v [3]byte) []byte {
	out := make([]byte, 3)
	copy(out, v[:])
	return out
}

// DecodeBytes8 reads a fixed 8-byte array.
func DecodeBytes8(b []byte) ([8]byte, []byte, error) {
	var out [8]byte
	raw, rem, err := decodeFixed(b, 8)
	if err != nil {
		return out, nil, err
	}
	copy(out[:], raw)
	return out, rem, nil
}

// EncodeBytes8 serializes a fixed 8-byte array.
func EncodeBytes8(v [8]byte) []byte {
	out := make([]byte, 8)
	copy(out, v[:])
	return out
}

// DecodeBytes32 reads a fixed 32-byte array.
func DecodeBytes32(b []byte) ([32]byte, []byte, error) {
	var out [32]byte
	raw, rem, err := decodeFixed(b, 32)
	if err != nil {
		return out, nil, err
	}
	copy(out[:], raw)
	return out, rem, nil
}

// EncodeBytes32 serializes a fixed 32-byte array.
func EncodeBytes32(v [32]byte) []byte {
	out := make([]byte, 32)
	copy(out, v[:])
	return out
}

// DecodeBytes33 reads a fixed 33-byte array (a compressed secp256k1 point).
func DecodeBytes33(b []byte) ([33]byte, []byte, error) {
	var out [33]byte
	raw, rem, err := decodeFixed(b, 33)
	if err != nil {
		return out, nil, err
	}
	copy(out[:], raw)
	return out, rem, nil
}

// EncodeBytes33 serializes a fixed 33-byte array.
func EncodeBytes33(v [33]byte) []byte {
	out := make([]byte, 33)
	copy(out, v[:])
	return out
}

// DecodeBytes64 reads a fixed 64-byte array (a signature).
func DecodeBytes64(b []byte) ([64]byte, []byte, error) {
	var out [64]byte
	raw, rem, err := decodeFixed(b, 64)
	if err != nil {
		return out, nil, err
	}
	copy(out[:], raw)
	return out, rem, nil
}

// EncodeBytes64 serializes a fixed 64-byte array.
func EncodeBytes64(v [64]byte) []byte {
	out := make([]byte, 64)
	copy(out, v[:])
	return out
}

// DecodeSizedBytes reads a 2-byte big-endian length L followed by L bytes.
func DecodeSizedBytes(b []byte) ([]byte, []byte, error) {
	l, rem, err := DecodeU16(b)
	if err != nil {
		return nil, nil, err
	}
	return decodeFixed(rem, int(l))
}

// EncodeSizedBytes serializes a u16_sized_bytes value.
func EncodeSizedBytes(v []byte) []byte {
	out := make([]byte, 0, 2+len(v))
	out = append(out, EncodeU16(uint16(len(v)))...)
	out = append(out, v...)
	return out
}

// DecodeRemainder consumes every remaining byte; it never fails.
func DecodeRemainder(b []byte) ([]byte, []byte) {
	out := make([]byte, len(b))
	copy(out, b)
	return out, b[len(b):]
}

// EncodeRemainder is the identity function; remainder has no framing of
// its own.
func EncodeRemainder(v []byte) []byte {
	out := make([]byte, len(v))
	copy(out, v)
	return out
}
