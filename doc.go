// Package typedcache is a type-safe caching facade over an arbitrary
// string-keyed object store. A typed key (anything implementing Key) is
// rendered to a string and the entry is delegated to a pluggable
// store.Store; the store's own eviction/expiration engine stays opaque
// behind a per-entry Policy.
//
// The facade layers three guarantees on top of the store's minimal
// contract:
//
//   - GetOrAdd runs its value factory at most once per key under concurrent
//     misses, even though the store offers no atomic compute-if-absent
//     primitive (singleflight around a check-then-create-then-add window).
//   - region.Decorator emulates partitioned key spaces over a flat store
//     using unguessable per-region tokens; see the region package.
//   - Aggregate composes collision-resistant string keys from ordered
//     operand lists, with order-sensitive equality and hashing.
//
// Stores:
//   - store/memory: in-process map store (reference implementation).
//   - store/ristretto: dgraph-io/ristretto, values stored as-is.
//   - store/bigcache, store/redis: byte-backed; values round-trip through a
//     codec.Codec.
//
// Intentionally cached nil values are stored as a private marker, so
// "entry holds nil" and "no entry exists" stay distinguishable: Contains
// and TryGet see the entry, and TryGet returns the value type's zero value.
//
// Keep exactly one Cache instance per (key type, value type, store) key
// space. GetOrAdd's at-most-once factory guarantee is scoped to an
// instance; several instances over the same key space break it. This is a
// documented invariant, not enforced.
package typedcache
