package region

import (
	"context"
	"errors"
	"testing"

	"github.com/csf-dev/typedcache/store"
	"github.com/csf-dev/typedcache/store/memory"
)

// flatStore is a minimal store.Store without the Counter capability.
type flatStore struct{ m map[string]any }

func newFlatStore() *flatStore { return &flatStore{m: make(map[string]any)} }

func (s *flatStore) Get(_ context.Context, key string) (any, bool, error) {
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *flatStore) Add(_ context.Context, key string, value any, _ store.Policy) (bool, error) {
	if _, ok := s.m[key]; ok {
		return false, nil
	}
	s.m[key] = value
	return true, nil
}

func (s *flatStore) Set(_ context.Context, key string, value any, _ store.Policy) error {
	s.m[key] = value
	return nil
}

func (s *flatStore) Remove(_ context.Context, key string) (any, bool, error) {
	v, ok := s.m[key]
	delete(s.m, key)
	return v, ok, nil
}

func (s *flatStore) Contains(_ context.Context, key string) (bool, error) {
	_, ok := s.m[key]
	return ok, nil
}

func (s *flatStore) GetMany(_ context.Context, keys []string) (map[string]any, error) {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := s.m[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func TestRegionIsolation(t *testing.T) {
	ctx := context.Background()
	d := NewDecorator(newFlatStore(), nil)

	if err := d.Set(ctx, "k", "left", "L", store.Policy{}); err != nil {
		t.Fatalf("Set left: %v", err)
	}
	if err := d.Set(ctx, "k", "right", "R", store.Policy{}); err != nil {
		t.Fatalf("Set right: %v", err)
	}
	if err := d.Set(ctx, "k", "", "unscoped", store.Policy{}); err != nil {
		t.Fatalf("Set unscoped: %v", err)
	}

	for region, want := range map[string]string{"left": "L", "right": "R", "": "unscoped"} {
		v, ok, err := d.Get(ctx, "k", region)
		if err != nil || !ok {
			t.Fatalf("Get %q: ok=%v err=%v", region, ok, err)
		}
		if v != want {
			t.Fatalf("Get %q: got %v want %v", region, v, want)
		}
	}

	// removing in one region must not touch the others
	if _, removed, err := d.Remove(ctx, "k", "left"); err != nil || !removed {
		t.Fatalf("Remove left: removed=%v err=%v", removed, err)
	}
	if ok, _ := d.Contains(ctx, "k", "right"); !ok {
		t.Fatalf("right region lost its entry")
	}
}

func TestDecoratorAdd(t *testing.T) {
	ctx := context.Background()
	d := NewDecorator(newFlatStore(), nil)

	ok, err := d.Add(ctx, "k", "r", 1, store.Policy{})
	if err != nil || !ok {
		t.Fatalf("Add (absent): ok=%v err=%v", ok, err)
	}
	ok, err = d.Add(ctx, "k", "r", 2, store.Policy{})
	if err != nil || ok {
		t.Fatalf("Add (present): ok=%v err=%v", ok, err)
	}
	// same plaintext key in a different region is still absent
	ok, err = d.Add(ctx, "k", "other", 3, store.Policy{})
	if err != nil || !ok {
		t.Fatalf("Add (other region): ok=%v err=%v", ok, err)
	}
}

func TestGetManyRemapsToOriginalKeys(t *testing.T) {
	ctx := context.Background()
	d := NewDecorator(newFlatStore(), nil)

	if err := d.Set(ctx, "a", "r", 1, store.Policy{}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := d.Set(ctx, "b", "r", 2, store.Policy{}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := d.GetMany(ctx, []string{"a", "b", "missing"}, "r")
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 2 || got["a"] != 1 || got["b"] != 2 {
		t.Fatalf("GetMany remap: got %v", got)
	}
	if _, ok := got["missing"]; ok {
		t.Fatalf("absent key must be omitted, got %v", got)
	}
}

func TestCountRejectsRegions(t *testing.T) {
	ctx := context.Background()
	d := NewDecorator(memory.New(0), nil)

	if _, err := d.Count(ctx, "r"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Count with region: got %v want ErrUnsupported", err)
	}
}

func TestCountDelegatesUnscoped(t *testing.T) {
	ctx := context.Background()
	mem := memory.New(0)
	d := NewDecorator(mem, nil)

	if err := d.Set(ctx, "a", "r1", 1, store.Policy{}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := d.Set(ctx, "b", "r2", 2, store.Policy{}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	n, err := d.Count(ctx, "")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Fatalf("Count: got %d want 2", n)
	}
}

func TestCountUnsupportedStore(t *testing.T) {
	ctx := context.Background()
	d := NewDecorator(newFlatStore(), nil) // flatStore has no Counter

	if _, err := d.Count(ctx, ""); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Count on non-counting store: got %v want ErrUnsupported", err)
	}
}

func TestLostProviderOrphansEntries(t *testing.T) {
	ctx := context.Background()
	flat := newFlatStore()

	d1 := NewDecorator(flat, nil)
	if err := d1.Set(ctx, "k", "r", "v", store.Policy{}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// a decorator with a fresh provider cannot see d1's entries
	d2 := NewDecorator(flat, nil)
	if _, ok, _ := d2.Get(ctx, "k", "r"); ok {
		t.Fatalf("fresh provider must not reach entries written under another provider")
	}

	// a decorator restored from d1's snapshot can
	tokens, nullTok := d1.Keys().Snapshot()
	kp, err := Restore(tokens, nullTok)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	d3 := NewDecorator(flat, kp)
	v, ok, err := d3.Get(ctx, "k", "r")
	if err != nil || !ok || v != "v" {
		t.Fatalf("restored provider Get: v=%v ok=%v err=%v", v, ok, err)
	}
}

func TestBindPinsOneRegion(t *testing.T) {
	ctx := context.Background()
	d := NewDecorator(newFlatStore(), nil)
	left := Bind(d, "left")
	right := Bind(d, "right")

	if err := left.Set(ctx, "k", "L", store.Policy{}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := right.Set(ctx, "k", "R", store.Policy{}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	lv, ok, err := left.Get(ctx, "k")
	if err != nil || !ok || lv != "L" {
		t.Fatalf("left Get: v=%v ok=%v err=%v", lv, ok, err)
	}
	rv, ok, err := right.Get(ctx, "k")
	if err != nil || !ok || rv != "R" {
		t.Fatalf("right Get: v=%v ok=%v err=%v", rv, ok, err)
	}

	// a bound view surfaces the decorator's count restriction
	if c, ok := left.(store.Counter); ok {
		if _, err := c.Count(ctx); !errors.Is(err, ErrUnsupported) {
			t.Fatalf("bound Count: got %v want ErrUnsupported", err)
		}
	} else {
		t.Fatalf("bound store should expose Counter")
	}
}
