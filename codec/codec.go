// Package codec provides pluggable value serialization for the byte-backed
// stores (store/bigcache, store/redis). In-memory stores keep values as-is
// and need no codec.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
