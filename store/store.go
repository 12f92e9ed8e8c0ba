// Package store defines the storage abstraction consumed by typedcache.
//
// Implementations MUST be safe for concurrent use and atomic per call: each
// Get/Add/Set/Remove/Contains is an indivisible operation on its key. No
// transactional or check-and-set semantics across calls are assumed; the
// facade layers its own coordination on top.
//
// Implementations MUST be value-transparent: Get must return the value
// previously passed to Add/Set for the key, unchanged. Byte-backed stores
// that serialize values must fully reverse the transform.
package store

import (
	"context"
	"time"
)

// Policy carries per-entry retention hints derived by the facade at write
// time. The zero value means "never expire, default weight". Eviction and
// expiration are entirely the store's business; the facade only forwards
// the policy.
type Policy struct {
	// TTL bounds the entry lifetime. Non-positive means no expiration.
	TTL time.Duration

	// Cost is an optional weight hint for stores that track capacity by
	// cost (e.g. ristretto). Zero lets the store pick a default.
	Cost int64
}

// PolicyFunc derives the retention policy for an entry about to be written.
type PolicyFunc func(key string, value any) Policy

// NeverExpire is the default PolicyFunc: no TTL, default weight.
func NeverExpire(string, any) Policy { return Policy{} }

// Store is a minimal flat (single key space) object store.
type Store interface {
	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss.
	// IO/remote failures surface as (nil, false, err).
	Get(ctx context.Context, key string) (any, bool, error)

	// Add stores value only if the key is absent. Returns false when an
	// entry already exists; no update is performed in that case.
	Add(ctx context.Context, key string, value any, pol Policy) (bool, error)

	// Set stores value unconditionally.
	Set(ctx context.Context, key string, value any, pol Policy) error

	// Remove deletes the key and returns the removed value, if any.
	Remove(ctx context.Context, key string) (any, bool, error)

	// Contains reports whether an entry exists for the key.
	Contains(ctx context.Context, key string) (bool, error)

	// GetMany returns the present entries among keys. Absent keys are
	// simply missing from the result map.
	GetMany(ctx context.Context, keys []string) (map[string]any, error)
}

// Counter is an optional capability for stores that can report how many
// entries they hold.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Closer is an optional capability for stores holding resources.
type Closer interface {
	Close(ctx context.Context) error
}
