package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestValueRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		[]byte("hello"),
		{0, 1, 2, 3, 4},
	}
	for _, payload := range cases {
		enc := EncodeValue(payload)
		isNull, got, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%x): %v", payload, err)
		}
		if isNull {
			t.Fatalf("value entry decoded as null")
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("payload mismatch: got %x want %x", got, payload)
		}
	}
}

func TestNullRoundTrip(t *testing.T) {
	isNull, payload, err := Decode(EncodeNull())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !isNull {
		t.Fatalf("null entry decoded as value")
	}
	if len(payload) != 0 {
		t.Fatalf("null entry carries payload: %x", payload)
	}
}

func TestNullRejectsTrailingBytes(t *testing.T) {
	enc := append(EncodeNull(), 0xDE, 0xAD)
	if _, _, err := Decode(enc); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt on trailing bytes, got %v", err)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	cases := []struct {
		name string
		b    []byte
	}{
		{"empty", nil},
		{"short", []byte{'T', 'Y', 'P'}},
		{"bad magic", []byte{'X', 'X', 'X', 'X', version, kindValue}},
		{"bad version", []byte{'T', 'Y', 'P', 'C', 99, kindValue}},
		{"bad kind", []byte{'T', 'Y', 'P', 'C', version, 7}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := Decode(tc.b); !errors.Is(err, ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}
