package wire

import (
	"bytes"
	"testing"
)

func TestU16RoundTrip(t *testing.T) {
	cases := []uint16{0, 1, 255, 256, 65535}
	for _, v := range cases {
		b := EncodeU16(v)
		got, rem, err := DecodeU16(b)
		if err != nil {
			t.Fatalf("DecodeU16(%x): %v", b, err)
		}
		if got != v {
			t.Errorf("DecodeU16(%x) = %d, want %d", b, got, v)
		}
		if len(rem) != 0 {
			t.Errorf("DecodeU16(%x) left remainder %x", b, rem)
		}
	}
}

func TestU32RoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 1 << 24, 0xffffffff} {
		b := EncodeU32(v)
		got, rem, err := DecodeU32(b)
		if err != nil {
			t.Fatalf("DecodeU32(%x): %v", b, err)
		}
		if got != v || len(rem) != 0 {
			t.Errorf("DecodeU32(%x) = (%d, %x), want (%d, <empty>)", b, got, rem, v)
		}
	}
}

func TestU64RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 1 << 40, 0xffffffffffffffff} {
		b := EncodeU64(v)
		got, rem, err := DecodeU64(b)
		if err != nil {
			t.Fatalf("DecodeU64(%x): %v", b, err)
		}
		if got != v || len(rem) != 0 {
			t.Errorf("DecodeU64(%x) = (%d, %x), want (%d, <empty>)", b, got, rem, v)
		}
	}
}

func TestDecodeTooFewBytes(t *testing.T) {
	if _, _, err := DecodeU16([]byte{0x01}); err == nil {
		t.Error("DecodeU16 on 1 byte: want error, got nil")
	}
	if _, _, err := DecodeU32([]byte{0x01, 0x02}); err == nil {
		t.Error("DecodeU32 on 2 bytes: want error, got nil")
	}
	if _, _, err := DecodeBytes32(make([]byte, 10)); err == nil {
		t.Error("DecodeBytes32 on 10 bytes: want error, got nil")
	}
}

func TestSizedBytesRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x01},
		bytes.Repeat([]byte{0xab}, 300),
	}
	for _, v := range cases {
		b := EncodeSizedBytes(v)
		got, rem, err := DecodeSizedBytes(b)
		if err != nil {
			t.Fatalf("DecodeSizedBytes: %v", err)
		}
		if !bytes.Equal(got, v) {
			t.Errorf("DecodeSizedBytes = %x, want %x", got, v)
		}
		if len(rem) != 0 {
			t.Errorf("DecodeSizedBytes left remainder %x", rem)
		}
	}
}

func TestSizedBytesTrailingData(t *testing.T) {
	inner := []byte{0x01, 0x02}
	trailer := []byte{0xff, 0xee}
	b := append(EncodeSizedBytes(inner), trailer...)

	got, rem, err := DecodeSizedBytes(b)
	if err != nil {
		t.Fatalf("DecodeSizedBytes: %v", err)
	}
	if !bytes.Equal(got, inner) {
		t.Errorf("DecodeSizedBytes value = %x, want %x", got, inner)
	}
	if !bytes.Equal(rem, trailer) {
		t.Errorf("DecodeSizedBytes remainder = %x, want %x", rem, trailer)
	}
}

func TestRemainderConsumesAll(t *testing.T) {
	in := []byte{0x01, 0x02, 0x03}
	v, rem := DecodeRemainder(in)
	if !bytes.Equal(v, in) {
		t.Errorf("DecodeRemainder value = %x, want %x", v, in)
	}
	if len(rem) != 0 {
		t.Errorf("DecodeRemainder left remainder %x", rem)
	}
	if !bytes.Equal(EncodeRemainder(v), in) {
		t.Errorf("EncodeRemainder(%x) = %x, want %x", v, EncodeRemainder(v), in)
	}
}

func TestFixedArrayRoundTrip(t *testing.T) {
	var a32 [32]byte
	for i := range a32 {
		a32[i] = byte(i)
	}
	got, rem, err := DecodeBytes32(EncodeBytes32(a32))
	if err != nil {
		t.Fatalf("DecodeBytes32: %v", err)
	}
	if got != a32 || len(rem) != 0 {
		t.Errorf("DecodeBytes32 round-trip failed")
	}

	var a33 [33]byte
	a33[0] = 0x02
	got33, _, err := DecodeBytes33(EncodeBytes33(a33))
	if err != nil {
		t.Fatalf("DecodeBytes33: %v", err)
	}
	if got33 != a33 {
		t.Errorf("DecodeBytes33 round-trip failed")
	}
}
