package memory

import (
	"context"
	"testing"
	"time"

	"github.com/csf-dev/typedcache/store"
)

func TestAddOnlyIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := New(0)

	ok, err := s.Add(ctx, "k", 1, store.Policy{})
	if err != nil || !ok {
		t.Fatalf("Add (absent): ok=%v err=%v", ok, err)
	}
	ok, err = s.Add(ctx, "k", 2, store.Policy{})
	if err != nil || ok {
		t.Fatalf("Add (present): ok=%v err=%v", ok, err)
	}
	v, found, err := s.Get(ctx, "k")
	if err != nil || !found || v != 1 {
		t.Fatalf("Get: v=%v found=%v err=%v", v, found, err)
	}
}

func TestSetOverwrites(t *testing.T) {
	ctx := context.Background()
	s := New(0)

	if err := s.Set(ctx, "k", 1, store.Policy{}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "k", 2, store.Policy{}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, found, _ := s.Get(ctx, "k")
	if !found || v != 2 {
		t.Fatalf("Get after overwrite: v=%v found=%v", v, found)
	}
}

func TestRemoveReturnsValue(t *testing.T) {
	ctx := context.Background()
	s := New(0)

	if _, removed, _ := s.Remove(ctx, "k"); removed {
		t.Fatalf("Remove on absent key must report false")
	}

	_ = s.Set(ctx, "k", "v", store.Policy{})
	v, removed, err := s.Remove(ctx, "k")
	if err != nil || !removed || v != "v" {
		t.Fatalf("Remove: v=%v removed=%v err=%v", v, removed, err)
	}
	if ok, _ := s.Contains(ctx, "k"); ok {
		t.Fatalf("Contains after Remove")
	}
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	s := New(0)

	if err := s.Set(ctx, "k", 1, store.Policy{TTL: 15 * time.Millisecond}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found, _ := s.Get(ctx, "k"); !found {
		t.Fatalf("entry should be visible before expiry")
	}

	time.Sleep(40 * time.Millisecond)
	if _, found, _ := s.Get(ctx, "k"); found {
		t.Fatalf("entry should have expired")
	}
	// expired entries do not block a fresh Add
	if ok, _ := s.Add(ctx, "k", 2, store.Policy{}); !ok {
		t.Fatalf("Add over an expired entry must succeed")
	}
}

func TestGetManyAndCount(t *testing.T) {
	ctx := context.Background()
	s := New(0)

	_ = s.Set(ctx, "a", 1, store.Policy{})
	_ = s.Set(ctx, "b", 2, store.Policy{})
	_ = s.Set(ctx, "expired", 3, store.Policy{TTL: time.Nanosecond})
	time.Sleep(5 * time.Millisecond)

	got, err := s.GetMany(ctx, []string{"a", "b", "expired", "missing"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 2 || got["a"] != 1 || got["b"] != 2 {
		t.Fatalf("GetMany: got %v", got)
	}

	n, err := s.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}
}

func TestJanitorSweeps(t *testing.T) {
	ctx := context.Background()
	s := New(10 * time.Millisecond)
	defer s.Close(ctx)

	_ = s.Set(ctx, "k", 1, store.Policy{TTL: 5 * time.Millisecond})
	_ = s.Set(ctx, "keep", 2, store.Policy{})

	time.Sleep(60 * time.Millisecond)

	s.mu.RLock()
	_, gone := s.entries["k"]
	_, kept := s.entries["keep"]
	s.mu.RUnlock()
	if gone {
		t.Fatalf("janitor should have swept the expired entry")
	}
	if !kept {
		t.Fatalf("janitor must not sweep live entries")
	}
}

func TestCloseIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New(time.Minute)
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	// store stays usable after Close
	if err := s.Set(ctx, "k", 1, store.Policy{}); err != nil {
		t.Fatalf("Set after Close: %v", err)
	}
}
