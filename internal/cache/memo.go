package cache

import (
	"context"
	"errors"
	"sync"
)

// FetchFunc loads the value for a key on a cache miss
type FetchFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

type entry[V any] struct {
	value V
	err   error
}

// Stats reports cache effectiveness for a run
type Stats struct {
	Hits     int
	Misses   int
	Failures int
}

// Memo memoizes a fetch function for the lifetime of the process.
// Failures are cached with their value, so a failed key is not fetched again.
type Memo[K comparable, V any] struct {
	mu      sync.Mutex
	fetch   FetchFunc[K, V]
	entries map[K]entry[V]
	stats   Stats
}

// NewMemo creates a new memo around fetch
func NewMemo[K comparable, V any](fetch FetchFunc[K, V]) *Memo[K, V] {
	return &Memo[K, V]{
		fetch:   fetch,
		entries: make(map[K]entry[V]),
	}
}

// GetOrFetch returns the cached value for key, calling fetch on the first lookup
func (m *Memo[K, V]) GetOrFetch(ctx context.Context, key K) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok {
		m.stats.Hits++
		return e.value, e.err
	}

	m.stats.Misses++
	value, err := m.fetch(ctx, key)

	// A cancelled run says nothing about the key
	if err != nil && ctx.Err() != nil &&
		(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return value, err
	}

	if err != nil {
		m.stats.Failures++
	}
	m.entries[key] = entry[V]{value: value, err: err}
	return value, err
}

// Peek returns the cached value without fetching
func (m *Memo[K, V]) Peek(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	return e.value, ok
}

// Len returns the number of cached keys
func (m *Memo[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Stats returns hit, miss and failure counts
func (m *Memo[K, V]) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}
