package typedcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths. Wrap with hooks/async to dispatch
// off the caller's goroutine.
type Hooks interface {
	// A stored payload had a foreign type for the requesting adapter
	// (key-space reuse across incompatible value types).
	TypeMismatch(storeKey string)

	// GetMany silently dropped a key.
	// reason ∈ {"missing", "type_mismatch"}
	ManyDropped(storeKey, reason string)

	// GetOrAdd missed and ran the value factory.
	FactoryInvoked(storeKey string)

	// GetOrAdd lost the store-level add race and adopted the winner's value.
	AddRaceLost(storeKey string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) TypeMismatch(string)        {}
func (NopHooks) ManyDropped(string, string) {}
func (NopHooks) FactoryInvoked(string)      {}
func (NopHooks) AddRaceLost(string)         {}
