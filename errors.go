package typedcache

import "errors"

// Error taxonomy. All failures are synchronous return values; call sites
// wrap these sentinels with fmt.Errorf("%w: ...") so errors.Is works.
var (
	// ErrNilKey rejects a nil typed key before the store is touched.
	// Caller bug; never retried.
	ErrNilKey = errors.New("typedcache: nil cache key")

	// ErrEmptyKey rejects a key whose Render returns the empty string.
	// Caller bug; never retried.
	ErrEmptyKey = errors.New("typedcache: key renders empty")

	// ErrConflict reports Add on a key that already holds an entry.
	// Callers racing benignly should use TryAdd or Set instead.
	ErrConflict = errors.New("typedcache: entry already exists")

	// ErrNotFound reports Get on an absent key. Callers expecting misses
	// should use TryGet.
	ErrNotFound = errors.New("typedcache: entry not found")

	// ErrTypeMismatch reports a stored payload of a foreign type, i.e. the
	// key space is being reused by adapters with incompatible value types.
	// Fatal to the call; not retried.
	ErrTypeMismatch = errors.New("typedcache: stored value has foreign type")
)
