// Package redis adapts redis/go-redis to the store.Store contract for
// values of one concrete type V. Values round-trip through the configured
// codec; the cached-nil marker is framed explicitly so it survives
// serialization.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/csf-dev/typedcache/codec"
	"github.com/csf-dev/typedcache/internal/null"
	"github.com/csf-dev/typedcache/internal/wire"
	"github.com/csf-dev/typedcache/store"
)

var ErrNilClient = errors.New("redis store: nil client")

// Store is backed by a redis client. Add maps to SETNX, which gives a true
// atomic add-if-absent; Remove maps to GETDEL.
type Store[V any] struct {
	rdb         goredis.UniversalClient
	codec       codec.Codec[V]
	closeClient bool
}

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this store exclusively owns the client
}

func New[V any](cfg Config, cdc codec.Codec[V]) (*Store[V], error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	if cdc == nil {
		return nil, errors.New("redis store: codec is required")
	}
	return &Store[V]{rdb: cfg.Client, codec: cdc, closeClient: cfg.CloseClient}, nil
}

func (s *Store[V]) Get(ctx context.Context, key string) (any, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	v, err := s.decode(b)
	if err != nil {
		// self-heal: drop undecodable bytes
		_ = s.rdb.Del(ctx, key).Err()
		return nil, false, nil
	}
	return v, true, nil
}

func (s *Store[V]) Add(ctx context.Context, key string, value any, pol store.Policy) (bool, error) {
	b, err := s.encode(value)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, b, ttl(pol)).Result()
}

func (s *Store[V]) Set(ctx context.Context, key string, value any, pol store.Policy) error {
	b, err := s.encode(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, b, ttl(pol)).Err()
}

func (s *Store[V]) Remove(ctx context.Context, key string) (any, bool, error) {
	b, err := s.rdb.GetDel(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	v, err := s.decode(b)
	if err != nil {
		return nil, false, nil
	}
	return v, true, nil
}

func (s *Store[V]) Contains(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, key).Result()
	return n > 0, err
}

func (s *Store[V]) GetMany(ctx context.Context, keys []string) (map[string]any, error) {
	if len(keys) == 0 {
		return map[string]any{}, nil
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(keys))
	for i, raw := range vals {
		if raw == nil {
			continue
		}
		str, ok := raw.(string)
		if !ok {
			continue
		}
		v, err := s.decode([]byte(str))
		if err != nil {
			_ = s.rdb.Del(ctx, keys[i]).Err()
			continue
		}
		out[keys[i]] = v
	}
	return out, nil
}

// Count reports the size of the whole logical database, not a prefix scan.
func (s *Store[V]) Count(ctx context.Context) (int, error) {
	n, err := s.rdb.DBSize(ctx).Result()
	return int(n), err
}

// Close releases the underlying client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Store[V]) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

func (s *Store[V]) encode(value any) ([]byte, error) {
	if null.IsMarker(value) {
		return wire.EncodeNull(), nil
	}
	v, ok := value.(V)
	if !ok {
		return nil, fmt.Errorf("redis store: value %T is not the configured type", value)
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

// ttl treats non-positive TTLs as "no expiry".
func ttl(pol store.Policy) time.Duration {
	if pol.TTL > 0 {
		return pol.TTL
	}
	return 0
}

var (
	_ store.Store   = (*Store[string])(nil)
	_ store.Counter = (*Store[string])(nil)
	_ store.Closer  = (*Store[string])(nil)
)
