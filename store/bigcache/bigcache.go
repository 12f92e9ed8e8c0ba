// Package bigcache adapts allegro/bigcache to the store.Store contract for
// values of one concrete type V.
package bigcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/csf-dev/typedcache/codec"
	"github.com/csf-dev/typedcache/internal/null"
	"github.com/csf-dev/typedcache/internal/wire"
	"github.com/csf-dev/typedcache/store"
)

// Store wraps a BigCache instance. BigCache holds raw bytes, so values
// round-trip through the configured codec and the cached-nil marker is
// framed explicitly so it survives serialization.
//
// BigCache has no per-entry TTL: entries age out with the configured
// LifeWindow and Policy.TTL is ignored. It also has no add-if-absent
// primitive, so Add and Remove serialize their check-then-act window behind
// a mutex.
type Store[V any] struct {
	mu    sync.Mutex
	c     *bc.BigCache
	codec codec.Codec[V]
}

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New[V any](cfg Config, cdc codec.Codec[V]) (*Store[V], error) {
	if cdc == nil {
		return nil, errors.New("bigcache: codec is required")
	}
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &Store[V]{c: c, codec: cdc}, nil
}

func (s *Store[V]) Get(_ context.Context, key string) (any, bool, error) {
	b, err := s.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	v, err := s.decode(b)
	if err != nil {
		// self-heal: drop undecodable bytes
		_ = s.c.Delete(key)
		return nil, false, nil
	}
	return v, true, nil
}

func (s *Store[V]) Add(_ context.Context, key string, value any, _ store.Policy) (bool, error) {
	b, err := s.encode(value)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.c.Get(key); err == nil {
		return false, nil
	}
	return true, s.c.Set(key, b)
}

func (s *Store[V]) Set(_ context.Context, key string, value any, _ store.Policy) error {
	b, err := s.encode(value)
	if err != nil {
		return err
	}
	return s.c.Set(key, b)
}

func (s *Store[V]) Remove(_ context.Context, key string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := s.c.Delete(key); err != nil && !errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, err
	}
	v, err := s.decode(b)
	if err != nil {
		return nil, false, nil
	}
	return v, true, nil
}

func (s *Store[V]) Contains(_ context.Context, key string) (bool, error) {
	_, err := s.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store[V]) GetMany(ctx context.Context, keys []string) (map[string]any, error) {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		v, ok, err := s.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *Store[V]) Count(_ context.Context) (int, error) {
	return s.c.Len(), nil
}

func (s *Store[V]) Close(_ context.Context) error {
	return s.c.Close()
}

func (s *Store[V]) encode(value any) ([]byte, error) {
	if null.IsMarker(value) {
		return wire.EncodeNull(), nil
	}
	v, ok := value.(V)
	if !ok {
		return nil, fmt.Errorf("bigcache: value %T is not the configured type", value)
	}
	payload, err := s.codec.Encode(v)
	if err != nil {
		return nil, err
	}
	return wire.EncodeValue(payload), nil
}

func (s *Store[V]) decode(b []byte) (any, error) {
	isNull, payload, err := wire.Decode(b)
	if err != nil {
		return nil, err
	}
	if isNull {
		return null.Marker, nil
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		return nil, err
	}
	return v, nil
}

var (
	_ store.Store   = (*Store[string])(nil)
	_ store.Counter = (*Store[string])(nil)
	_ store.Closer  = (*Store[string])(nil)
)
