// Package memory provides the in-process reference implementation of
// store.Store. It honors per-entry Policy TTLs and is safe for concurrent
// use.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/csf-dev/typedcache/store"
)

type entry struct {
	value any
	exp   time.Time // zero => no expiration
}

// Store keeps entries in a mutex-guarded map. An optional janitor loop
// prunes expired entries so the map does not grow unbounded between
// accesses; expired entries are also reaped lazily on read.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ticker  *time.Ticker
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

var (
	_ store.Store   = (*Store)(nil)
	_ store.Counter = (*Store)(nil)
	_ store.Closer  = (*Store)(nil)
)

// New constructs a memory store. sweepInterval <= 0 disables the janitor.
func New(sweepInterval time.Duration) *Store {
	s := &Store{entries: make(map[string]entry)}
	if sweepInterval > 0 {
		s.ticker = time.NewTicker(sweepInterval)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-s.ticker.C:
					s.sweep()
				case <-s.stopCh:
					return
				}
			}
		}()
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (any, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if expired(e, time.Now()) {
		s.reap(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *Store) Add(_ context.Context, key string, value any, pol store.Policy) (bool, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok && !expired(e, now) {
		return false, nil
	}
	s.entries[key] = entry{value: value, exp: deadline(now, pol)}
	return true, nil
}

func (s *Store) Set(_ context.Context, key string, value any, pol store.Policy) error {
	now := time.Now()
	s.mu.Lock()
	s.entries[key] = entry{value: value, exp: deadline(now, pol)}
	s.mu.Unlock()
	return nil
}

func (s *Store) Remove(_ context.Context, key string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	delete(s.entries, key)
	if expired(e, time.Now()) {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *Store) Contains(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

func (s *Store) GetMany(_ context.Context, keys []string) (map[string]any, error) {
	now := time.Now()
	out := make(map[string]any, len(keys))
	s.mu.RLock()
	for _, k := range keys {
		if e, ok := s.entries[k]; ok && !expired(e, now) {
			out[k] = e.value
		}
	}
	s.mu.RUnlock()
	return out, nil
}

// Count reports live (non-expired) entries.
func (s *Store) Count(_ context.Context) (int, error) {
	now := time.Now()
	n := 0
	s.mu.RLock()
	for _, e := range s.entries {
		if !expired(e, now) {
			n++
		}
	}
	s.mu.RUnlock()
	return n, nil
}

// Close stops the janitor. The store stays usable afterwards; expired
// entries are then reaped only lazily.
func (s *Store) Close(_ context.Context) error {
	if s.stopCh != nil {
		close(s.stopCh)
		s.ticker.Stop()
		s.wg.Wait()
		s.stopCh = nil
	}
	return nil
}

func (s *Store) sweep() {
	now := time.Now()
	s.mu.Lock()
	for k, e := range s.entries {
		if expired(e, now) {
			delete(s.entries, k)
		}
	}
	s.mu.Unlock()
}

// reap deletes key only if it is still the same expired entry.
func (s *Store) reap(key string) {
	now := time.Now()
	s.mu.Lock()
	if e, ok := s.entries[key]; ok && expired(e, now) {
		delete(s.entries, key)
	}
	s.mu.Unlock()
}

func expired(e entry, now time.Time) bool {
	return !e.exp.IsZero() && now.After(e.exp)
}

func deadline(now time.Time, pol store.Policy) time.Time {
	if pol.TTL <= 0 {
		return time.Time{}
	}
	return now.Add(pol.TTL)
}
