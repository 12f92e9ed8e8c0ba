package region

import (
	"context"
	"fmt"

	"github.com/csf-dev/typedcache/store"
)

// Store is the region-aware store contract exposed by the Decorator.
//
// There are deliberately no flat, region-free accessors here: callers go
// through the explicit region-aware operations, or pin one region with
// Bind. Region "" addresses the unscoped partition, which is still
// tokenized like any other.
type Store interface {
	Get(ctx context.Context, key, region string) (any, bool, error)
	Add(ctx context.Context, key, region string, value any, pol store.Policy) (bool, error)
	Set(ctx context.Context, key, region string, value any, pol store.Policy) error
	Remove(ctx context.Context, key, region string) (any, bool, error)
	Contains(ctx context.Context, key, region string) (bool, error)

	// GetMany namespaces every key independently and maps results back to
	// the caller's original keys.
	GetMany(ctx context.Context, keys []string, region string) (map[string]any, error)

	// Count reports the total number of entries in the wrapped store.
	// Counting one simulated region would mean enumerating foreign key
	// spaces, so any non-empty region fails with ErrUnsupported rather
	// than return a wrong answer.
	Count(ctx context.Context, region string) (int, error)
}

// Decorator exposes a region-aware view of a flat store by rewriting every
// key through a KeyProvider before delegating.
type Decorator struct {
	underlying store.Store
	keys       *KeyProvider
}

var _ Store = (*Decorator)(nil)

// NewDecorator wraps underlying. A nil provider gets a fresh one; pass a
// Restore-d provider instead to keep previously written entries reachable.
func NewDecorator(underlying store.Store, keys *KeyProvider) *Decorator {
	if keys == nil {
		keys = NewKeyProvider()
	}
	return &Decorator{underlying: underlying, keys: keys}
}

// Keys returns the provider backing this decorator, e.g. to Snapshot it.
func (d *Decorator) Keys() *KeyProvider { return d.keys }

func (d *Decorator) Get(ctx context.Context, key, region string) (any, bool, error) {
	k, err := d.keys.CacheKey(key, region)
	if err != nil {
		return nil, false, err
	}
	return d.underlying.Get(ctx, k)
}

func (d *Decorator) Add(ctx context.Context, key, region string, value any, pol store.Policy) (bool, error) {
	k, err := d.keys.CacheKey(key, region)
	if err != nil {
		return false, err
	}
	return d.underlying.Add(ctx, k, value, pol)
}

func (d *Decorator) Set(ctx context.Context, key, region string, value any, pol store.Policy) error {
	k, err := d.keys.CacheKey(key, region)
	if err != nil {
		return err
	}
	return d.underlying.Set(ctx, k, value, pol)
}

func (d *Decorator) Remove(ctx context.Context, key, region string) (any, bool, error) {
	k, err := d.keys.CacheKey(key, region)
	if err != nil {
		return nil, false, err
	}
	return d.underlying.Remove(ctx, k)
}

func (d *Decorator) Contains(ctx context.Context, key, region string) (bool, error) {
	k, err := d.keys.CacheKey(key, region)
	if err != nil {
		return false, err
	}
	return d.underlying.Contains(ctx, k)
}

func (d *Decorator) GetMany(ctx context.Context, keys []string, region string) (map[string]any, error) {
	if len(keys) == 0 {
		return map[string]any{}, nil
	}
	namespaced := make([]string, len(keys))
	back := make(map[string]string, len(keys))
	for i, key := range keys {
		k, err := d.keys.CacheKey(key, region)
		if err != nil {
			return nil, err
		}
		namespaced[i] = k
		back[k] = key
	}
	raw, err := d.underlying.GetMany(ctx, namespaced)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if orig, ok := back[k]; ok {
			out[orig] = v
		}
	}
	return out, nil
}

func (d *Decorator) Count(ctx context.Context, region string) (int, error) {
	if region != "" {
		return 0, fmt.Errorf("%w: count within region %q", ErrUnsupported, region)
	}
	c, ok := d.underlying.(store.Counter)
	if !ok {
		return 0, fmt.Errorf("%w: wrapped store cannot count", ErrUnsupported)
	}
	return c.Count(ctx)
}

// Bind pins one region of a region-aware store and presents it as a flat
// store.Store, which is what the typedcache adapter consumes.
func Bind(s Store, region string) store.Store {
	return &bound{s: s, region: region}
}

type bound struct {
	s      Store
	region string
}

var (
	_ store.Store   = (*bound)(nil)
	_ store.Counter = (*bound)(nil)
)

func (b *bound) Get(ctx context.Context, key string) (any, bool, error) {
	return b.s.Get(ctx, key, b.region)
}

func (b *bound) Add(ctx context.Context, key string, value any, pol store.Policy) (bool, error) {
	return b.s.Add(ctx, key, b.region, value, pol)
}

func (b *bound) Set(ctx context.Context, key string, value any, pol store.Policy) error {
	return b.s.Set(ctx, key, b.region, value, pol)
}

func (b *bound) Remove(ctx context.Context, key string) (any, bool, error) {
	return b.s.Remove(ctx, key, b.region)
}

func (b *bound) Contains(ctx context.Context, key string) (bool, error) {
	return b.s.Contains(ctx, key, b.region)
}

func (b *bound) GetMany(ctx context.Context, keys []string) (map[string]any, error) {
	return b.s.GetMany(ctx, keys, b.region)
}

func (b *bound) Count(ctx context.Context) (int, error) {
	return b.s.Count(ctx, b.region)
}
