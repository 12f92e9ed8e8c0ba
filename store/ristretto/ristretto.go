// Package ristretto adapts dgraph-io/ristretto to the store.Store contract.
package ristretto

import (
	"context"
	"errors"
	"sync"

	rc "github.com/dgraph-io/ristretto"

	"github.com/csf-dev/typedcache/store"
)

// Store wraps a ristretto cache. Values are stored as-is (no serialization),
// so the cached-nil marker survives round trips unchanged.
//
// Ristretto applies writes through an async buffer and has no add-if-absent
// primitive. Add and Remove therefore serialize their check-then-act window
// behind a mutex and wait for the write buffer to drain, which keeps the
// per-call atomicity the contract asks for. Admission may still drop an
// entry under pressure; that shows up as a later miss, which is within
// ristretto's best-effort semantics.
type Store struct {
	mu sync.Mutex
	c  *rc.Cache
}

var (
	_ store.Store  = (*Store)(nil)
	_ store.Closer = (*Store)(nil)
)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) (any, bool, error) {
	v, ok := s.c.Get(key)
	return v, ok, nil
}

func (s *Store) Add(_ context.Context, key string, value any, pol store.Policy) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.c.Get(key); ok {
		return false, nil
	}
	s.c.SetWithTTL(key, value, cost(pol), pol.TTL)
	s.c.Wait()
	return true, nil
}

func (s *Store) Set(_ context.Context, key string, value any, pol store.Policy) error {
	s.c.SetWithTTL(key, value, cost(pol), pol.TTL)
	s.c.Wait()
	return nil
}

func (s *Store) Remove(_ context.Context, key string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	s.c.Del(key)
	s.c.Wait()
	return v, true, nil
}

func (s *Store) Contains(_ context.Context, key string) (bool, error) {
	_, ok := s.c.Get(key)
	return ok, nil
}

func (s *Store) GetMany(_ context.Context, keys []string) (map[string]any, error) {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := s.c.Get(k); ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *Store) Close(_ context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes ristretto's counters for the embedding application.
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }

func cost(pol store.Policy) int64 {
	if pol.Cost > 0 {
		return pol.Cost
	}
	return 1
}
