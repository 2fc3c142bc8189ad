package fongo

import (
	"sort"
	"sync"
)

// registry maps database names to handles. A name maps to at most one
// handle, and the handle of a name stays the same until the name is dropped.
//
// create runs with the registry locked, it must not call back into the registry.
type registry[T any] struct {
	mu      sync.Mutex
	entries map[string]T
	create  func(name string) T
}

func newRegistry[T any](create func(name string) T) *registry[T] {
	return &registry[T]{
		entries: make(map[string]T),
		create:  create,
	}
}

// getOrCreate returns the handle of name, created reports whether this call made it.
func (r *registry[T]) getOrCreate(name string) (handle T, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.entries[name]; ok {
		return h, false
	}
	handle = r.create(name)
	r.entries[name] = handle
	return handle, true
}

// names returns a sorted snapshot of the registered names.
func (r *registry[T]) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedNames()
}

// handles returns a snapshot of the registered handles, in name order.
func (r *registry[T]) handles() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := r.sortedNames()
	out := make([]T, len(names))
	for i, name := range names {
		out[i] = r.entries[name]
	}
	return out
}

func (r *registry[T]) sortedNames() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// drop unregisters name, the removed handle itself stays usable.
func (r *registry[T]) drop(name string) (handle T, dropped bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	handle, dropped = r.entries[name]
	if dropped {
		delete(r.entries, name)
	}
	return handle, dropped
}

// clear unregisters every name and returns how many there were.
func (r *registry[T]) clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.entries)
	r.entries = make(map[string]T)
	return n
}

func (r *registry[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
