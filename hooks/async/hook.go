// Package asynchook decouples hook callbacks from the cache's hot path by
// dispatching them on a bounded worker pool. Events are dropped, not
// queued unboundedly, when the queue is full.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    MismatchEvery: 10, // sample: ~every 10th type mismatch
//	    DropEvery:     1,  // log every GetMany drop
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache, _ := typedcache.New[UserKey, User](typedcache.Options[UserKey, User]{
//	    Store: st,
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/csf-dev/typedcache"
)

type Hooks struct {
	inner typedcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ typedcache.Hooks = (*Hooks)(nil)

func New(inner typedcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) TypeMismatch(k string)   { h.try(func() { h.inner.TypeMismatch(k) }) }
func (h *Hooks) FactoryInvoked(k string) { h.try(func() { h.inner.FactoryInvoked(k) }) }
func (h *Hooks) AddRaceLost(k string)    { h.try(func() { h.inner.AddRaceLost(k) }) }
func (h *Hooks) ManyDropped(k, reason string) {
	h.try(func() { h.inner.ManyDropped(k, reason) })
}
