// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pipecache provides the keyed table backing the engine's compiled
// program memoization.
//
// Unlike a capacity-bounded cache, the table never evicts: entries are
// reference-counted by their owners and removed explicitly when the count
// reaches zero. Hit/miss counters are kept so hosts can verify memoization
// is effective.
package pipecache

import (
	"sync"
	"sync/atomic"
)

// Table is a generic keyed table with hit/miss statistics.
//
// Table is safe for concurrent use, although the engine drives it from a
// single goroutine; the lock exists so diagnostic reads (Stats, Len) from
// other goroutines stay race-free.
// Table must not be copied after creation (has mutex).
type Table[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]V

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates an empty table.
func New[K comparable, V any]() *Table[K, V] {
	return &Table[K, V]{entries: make(map[K]V)}
}

// Get retrieves a value. Returns (value, true) if present, (zero, false)
// otherwise. Lookups update the hit/miss counters.
func (t *Table[K, V]) Get(key K) (V, bool) {
	t.mu.Lock()
	v, ok := t.entries[key]
	t.mu.Unlock()

	if ok {
		t.hits.Add(1)
	} else {
		t.misses.Add(1)
	}
	return v, ok
}

// Set stores a value, replacing any existing entry.
func (t *Table[K, V]) Set(key K, value V) {
	t.mu.Lock()
	t.entries[key] = value
	t.mu.Unlock()
}

// Delete removes an entry. Deleting an absent key is a no-op.
func (t *Table[K, V]) Delete(key K) {
	t.mu.Lock()
	delete(t.entries, key)
	t.mu.Unlock()
}

// Len returns the number of entries.
func (t *Table[K, V]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Range calls fn for every entry. fn must not call back into the table.
func (t *Table[K, V]) Range(fn func(key K, value V)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, v := range t.entries {
		fn(k, v)
	}
}

// Clear removes every entry.
func (t *Table[K, V]) Clear() {
	t.mu.Lock()
	t.entries = make(map[K]V)
	t.mu.Unlock()
}

// Stats reports lookup statistics.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Stats returns a snapshot of the lookup counters.
func (t *Table[K, V]) Stats() Stats {
	return Stats{Hits: t.hits.Load(), Misses: t.misses.Load()}
}
