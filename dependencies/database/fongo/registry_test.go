package fongo

import (
	"sync"
	"sync/atomic"
	"testing"
)

type handle struct {
	name string
}

func newHandleRegistry(creations *atomic.Int32) *registry[*handle] {
	return newRegistry(func(name string) *handle {
		creations.Add(1)
		return &handle{name: name}
	})
}

func TestRegistryGetOrCreate(t *testing.T) {
	var creations atomic.Int32
	r := newHandleRegistry(&creations)

	first, created := r.getOrCreate("orders")
	if !created {
		t.Fatal("first lookup should create the handle")
	}
	second, created := r.getOrCreate("orders")
	if created {
		t.Error("second lookup should not create a handle")
	}
	if first != second {
		t.Error("expected the same handle for the same name")
	}
	if first.name != "orders" {
		t.Errorf("expected handle name 'orders', got '%s'", first.name)
	}

	empty, _ := r.getOrCreate("")
	if empty == first {
		t.Error("the empty name must get its own handle")
	}
	if got := creations.Load(); got != 2 {
		t.Errorf("expected 2 creations, got %d", got)
	}
}

func TestRegistrySnapshots(t *testing.T) {
	var creations atomic.Int32
	r := newHandleRegistry(&creations)
	for _, name := range []string{"z", "x", "y"} {
		r.getOrCreate(name)
	}

	names := r.names()
	want := []string{"x", "y", "z"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	handles := r.handles()
	for i, h := range handles {
		if h.name != want[i] {
			t.Errorf("handles[%d] = %q, want %q", i, h.name, want[i])
		}
	}

	// snapshots do not follow later changes
	r.drop("x")
	r.getOrCreate("w")
	if len(names) != 3 || names[0] != "x" {
		t.Errorf("names snapshot changed: %v", names)
	}
	if len(handles) != 3 {
		t.Errorf("handles snapshot changed: %d", len(handles))
	}
}

func TestRegistryDrop(t *testing.T) {
	var creations atomic.Int32
	r := newHandleRegistry(&creations)
	before, _ := r.getOrCreate("orders")

	dropped, ok := r.drop("orders")
	if !ok || dropped != before {
		t.Fatal("drop should return the registered handle")
	}
	if _, ok = r.drop("orders"); ok {
		t.Error("dropping an absent name should report nothing dropped")
	}
	if r.len() != 0 {
		t.Errorf("expected empty registry, got %d entries", r.len())
	}

	after, created := r.getOrCreate("orders")
	if !created || after == before {
		t.Error("lookup after drop should create a new handle")
	}
	if before.name != "orders" {
		t.Error("dropped handle should stay usable")
	}
}

func TestRegistryClear(t *testing.T) {
	var creations atomic.Int32
	r := newHandleRegistry(&creations)
	r.getOrCreate("a")
	r.getOrCreate("b")

	if n := r.clear(); n != 2 {
		t.Errorf("expected 2 cleared, got %d", n)
	}
	if len(r.names()) != 0 {
		t.Error("expected no names after clear")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	var creations atomic.Int32
	r := newHandleRegistry(&creations)
	names := []string{"a", "b", "c", "d"}

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := names[i%len(names)]
			switch i % 5 {
			case 0:
				r.drop(name)
			case 1:
				r.names()
			case 2:
				r.handles()
			default:
				if h, _ := r.getOrCreate(name); h.name != name {
					t.Errorf("got handle %q for name %q", h.name, name)
				}
			}
		}(i)
	}
	wg.Wait()

	for _, h := range r.handles() {
		got, created := r.getOrCreate(h.name)
		if created || got != h {
			t.Errorf("registry inconsistent for %q", h.name)
		}
	}
}
