// Package wire frames entries stored in byte-backed stores so a real
// payload and the cached-nil marker stay distinguishable after
// serialization. Stores that keep values in memory pass the marker through
// untouched and do not need this framing.
package wire

import (
	"bytes"
	"errors"
)

const (
	version   byte = 1
	kindValue byte = 1
	kindNull  byte = 2
)

var (
	ErrCorrupt = errors.New("typedcache: corrupt entry")
	magic4     = [...]byte{'T', 'Y', 'P', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Value entry: magic(4) | ver(1) | kind(1=value) | payload
func EncodeValue(payload []byte) []byte {
	out := make([]byte, 0, 4+1+1+len(payload))
	out = append(out, magic4[:]...)
	out = append(out, version, kindValue)
	out = append(out, payload...)
	return out
}

// Null entry: magic(4) | ver(1) | kind(2=null)
func EncodeNull() []byte {
	out := make([]byte, 0, 4+1+1)
	out = append(out, magic4[:]...)
	out = append(out, version, kindNull)
	return out
}

// Decode splits an entry into its kind and payload. A null entry carrying
// trailing bytes is corrupt.
func Decode(b []byte) (isNull bool, payload []byte, err error) {
	const hdr = 4 + 1 + 1
	if len(b) < hdr || !hasMagic(b) || b[4] != version {
		return false, nil, ErrCorrupt
	}
	switch b[5] {
	case kindValue:
		return false, b[hdr:], nil
	case kindNull:
		if len(b) != hdr {
			return false, nil, ErrCorrupt
		}
		return true, nil, nil
	default:
		return false, nil, ErrCorrupt
	}
}
