package region

import "errors"

var (
	// ErrEmptyKey rejects an empty cache key before namespacing.
	ErrEmptyKey = errors.New("region: empty key")

	// ErrUnsupported signals an operation the namespacing shim cannot
	// answer correctly for a simulated region. Structural misuse, not a
	// transient condition.
	ErrUnsupported = errors.New("region: operation not supported")
)
