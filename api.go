package typedcache

import (
	"context"

	"github.com/csf-dev/typedcache/region"
	"github.com/csf-dev/typedcache/store"
)

// Entry pairs a typed key with its cached value in GetMany results.
type Entry[K Key, V any] struct {
	Key   K
	Value V
}

// Factory produces the value for a key on a GetOrAdd miss.
type Factory[K Key, V any] func(K) (V, error)

// Cache is the typed, consumer-facing facade over a string-keyed object
// store. K must render itself via Key; V is the caller's value type.
//
// Contract:
//   - Safe for concurrent use by multiple goroutines.
//   - Designed as a long-lived shared singleton: keep exactly one Cache per
//     (key type, value type, store) key space, or GetOrAdd's at-most-once
//     factory guarantee is lost.
//   - A nil-ish value (nil pointer/map/slice/interface) is cached as a
//     private marker: Contains and TryGet see the entry, and TryGet returns
//     V's zero value.
type Cache[K Key, V any] interface {
	// Add stores value only if the key is absent; ErrConflict otherwise.
	Add(ctx context.Context, key K, value V) error

	// TryAdd is Add without the conflict error; reports acceptance.
	TryAdd(ctx context.Context, key K, value V) (bool, error)

	// Set stores value unconditionally (upsert).
	Set(ctx context.Context, key K, value V) error

	// Contains reports whether an entry exists for the key.
	Contains(ctx context.Context, key K) (bool, error)

	// Get returns the cached value. ErrNotFound when absent;
	// ErrTypeMismatch when the stored payload has a foreign type.
	Get(ctx context.Context, key K) (V, error)

	// TryGet is Get without the not-found error: (zero, false, nil) on miss.
	TryGet(ctx context.Context, key K) (V, bool, error)

	// Remove deletes the entry and reports whether one existed. Removing
	// an absent key is a no-op.
	Remove(ctx context.Context, key K) (bool, error)

	// GetMany is a best-effort batch fetch: keys that are absent or hold a
	// foreign-typed payload are silently omitted, and result order is
	// unspecified. The only visible difference between "absent" and
	// "foreign type" is the size of the result.
	GetMany(ctx context.Context, keys []K) ([]Entry[K, V], error)

	// GetOrAdd returns the cached value, or runs factory and stores its
	// result. Concurrent callers of one Cache instance run the factory at
	// most once per key and all observe the same value; a factory error is
	// not stored and is returned to every waiting caller.
	GetOrAdd(ctx context.Context, key K, factory Factory[K, V]) (V, error)
}

// Options configure a Cache. Exactly one of Store and RegionStore is
// required; everything else has defaults.
type Options[K Key, V any] struct {
	// Store is the flat backing store.
	Store store.Store

	// RegionStore plus Region scope the cache to one logical partition of
	// a region-aware store. Region "" addresses the unscoped partition.
	RegionStore region.Store
	Region      string

	// Policy derives the retention policy handed to the store on every
	// write. nil => store.NeverExpire.
	Policy store.PolicyFunc

	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used
}

// New constructs the Cache for a key space.
func New[K Key, V any](opts Options[K, V]) (Cache[K, V], error) {
	return newAdapter[K, V](opts)
}
