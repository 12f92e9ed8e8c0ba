package typedcache

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/csf-dev/typedcache/internal/null"
	"github.com/csf-dev/typedcache/region"
	"github.com/csf-dev/typedcache/store"
)

type adapter[K Key, V any] struct {
	store  store.Store
	policy store.PolicyFunc
	log    Logger
	hooks  Hooks

	// flight coalesces concurrent GetOrAdd misses per derived store key so
	// the factory runs at most once per miss on this instance. Unrelated
	// keys are not serialized against each other.
	flight singleflight.Group
}

func newAdapter[K Key, V any](opts Options[K, V]) (*adapter[K, V], error) {
	s := opts.Store
	switch {
	case s == nil && opts.RegionStore == nil:
		return nil, fmt.Errorf("typedcache: a Store or RegionStore is required")
	case s != nil && opts.RegionStore != nil:
		return nil, fmt.Errorf("typedcache: Store and RegionStore are mutually exclusive")
	case s != nil && opts.Region != "":
		return nil, fmt.Errorf("typedcache: Region requires RegionStore")
	case s == nil:
		s = region.Bind(opts.RegionStore, opts.Region)
	}

	a := &adapter[K, V]{store: s}

	// defaults
	a.log = coalesce[Logger](opts.Logger, NopLogger{})
	a.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	if opts.Policy != nil {
		a.policy = opts.Policy
	} else {
		a.policy = store.NeverExpire
	}
	return a, nil
}

// storeKey validates the typed key and derives the flat store key. Both
// the nil key and the empty rendering are rejected before the store is
// touched.
func (a *adapter[K, V]) storeKey(key K) (string, error) {
	if null.IsNil(key) {
		return "", ErrNilKey
	}
	k := key.Render()
	if k == "" {
		return "", fmt.Errorf("%w: %T", ErrEmptyKey, key)
	}
	return k, nil
}

// wrap substitutes the cached-nil marker for nil-ish values so the store's
// "absent" signal stays reserved for "no entry exists".
func (a *adapter[K, V]) wrap(v V) any {
	if null.IsNil(v) {
		return null.Marker
	}
	return v
}

// unwrap recovers a typed value from a raw store payload. The marker maps
// back to V's zero value; anything else of a foreign type means the key
// space is shared with an incompatible adapter.
func (a *adapter[K, V]) unwrap(k string, raw any) (V, error) {
	var zero V
	if null.IsMarker(raw) {
		return zero, nil
	}
	v, ok := raw.(V)
	if !ok {
		a.hooks.TypeMismatch(k)
		a.log.Warn("foreign payload type", Fields{"key": k, "stored": fmt.Sprintf("%T", raw)})
		return zero, fmt.Errorf("%w: key %q holds %T", ErrTypeMismatch, k, raw)
	}
	return v, nil
}

func (a *adapter[K, V]) Add(ctx context.Context, key K, value V) error {
	ok, err := a.TryAdd(ctx, key, value)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: key %q", ErrConflict, key.Render())
	}
	return nil
}

func (a *adapter[K, V]) TryAdd(ctx context.Context, key K, value V) (bool, error) {
	k, err := a.storeKey(key)
	if err != nil {
		return false, err
	}
	stored := a.wrap(value)
	ok, err := a.store.Add(ctx, k, stored, a.policy(k, stored))
	if err != nil {
		return false, err
	}
	if !ok {
		a.log.Debug("add rejected, entry exists", Fields{"key": k})
	}
	return ok, nil
}

func (a *adapter[K, V]) Set(ctx context.Context, key K, value V) error {
	k, err := a.storeKey(key)
	if err != nil {
		return err
	}
	stored := a.wrap(value)
	return a.store.Set(ctx, k, stored, a.policy(k, stored))
}

func (a *adapter[K, V]) Contains(ctx context.Context, key K) (bool, error) {
	k, err := a.storeKey(key)
	if err != nil {
		return false, err
	}
	return a.store.Contains(ctx, k)
}

func (a *adapter[K, V]) Get(ctx context.Context, key K) (V, error) {
	v, ok, err := a.TryGet(ctx, key)
	if err != nil {
		return v, err
	}
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: key %q", ErrNotFound, key.Render())
	}
	return v, nil
}

func (a *adapter[K, V]) TryGet(ctx context.Context, key K) (V, bool, error) {
	var zero V
	k, err := a.storeKey(key)
	if err != nil {
		return zero, false, err
	}
	raw, ok, err := a.store.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := a.unwrap(k, raw)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

func (a *adapter[K, V]) Remove(ctx context.Context, key K) (bool, error) {
	k, err := a.storeKey(key)
	if err != nil {
		return false, err
	}
	_, removed, err := a.store.Remove(ctx, k)
	return removed, err
}

func (a *adapter[K, V]) GetMany(ctx context.Context, keys []K) ([]Entry[K, V], error) {
	if len(keys) == 0 {
		return nil, nil
	}
	storeKeys := make([]string, 0, len(keys))
	back := make(map[string]K, len(keys))
	for _, key := range keys {
		k, err := a.storeKey(key)
		if err != nil {
			return nil, err
		}
		storeKeys = append(storeKeys, k)
		back[k] = key
	}
	raw, err := a.store.GetMany(ctx, storeKeys)
	if err != nil {
		return nil, err
	}
	out := make([]Entry[K, V], 0, len(raw))
	for _, k := range storeKeys {
		rv, ok := raw[k]
		if !ok {
			a.hooks.ManyDropped(k, "missing")
			continue
		}
		v, err := a.unwrap(k, rv)
		if err != nil {
			// best-effort by contract: foreign-typed entries are omitted
			a.hooks.ManyDropped(k, "type_mismatch")
			continue
		}
		out = append(out, Entry[K, V]{Key: back[k], Value: v})
	}
	return out, nil
}

func (a *adapter[K, V]) GetOrAdd(ctx context.Context, key K, factory Factory[K, V]) (V, error) {
	var zero V
	if factory == nil {
		return zero, fmt.Errorf("typedcache: nil factory")
	}
	k, err := a.storeKey(key)
	if err != nil {
		return zero, err
	}

	// fast path: hit without joining a flight
	if raw, ok, err := a.store.Get(ctx, k); err != nil {
		return zero, err
	} else if ok {
		return a.unwrap(k, raw)
	}

	res, err, _ := a.flight.Do(k, func() (any, error) {
		// re-check inside the flight: an earlier flight or a direct write
		// may have populated the key since the fast path
		if raw, ok, err := a.store.Get(ctx, k); err != nil {
			return nil, err
		} else if ok {
			return a.unwrap(k, raw)
		}

		a.hooks.FactoryInvoked(k)
		v, err := factory(key)
		if err != nil {
			return nil, err
		}
		stored := a.wrap(v)
		added, err := a.store.Add(ctx, k, stored, a.policy(k, stored))
		if err != nil {
			return nil, err
		}
		if !added {
			// a direct Add or Set won the store-level race; adopt that
			// value so exactly one value stays committed for the key
			a.hooks.AddRaceLost(k)
			a.log.Debug("adopting concurrently added value", Fields{"key": k})
			if raw, ok, err := a.store.Get(ctx, k); err != nil {
				return nil, err
			} else if ok {
				return a.unwrap(k, raw)
			}
			// the winner was removed in between; reinstate ours
			if err := a.store.Set(ctx, k, stored, a.policy(k, stored)); err != nil {
				return nil, err
			}
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	v, _ := res.(V)
	return v, nil
}
