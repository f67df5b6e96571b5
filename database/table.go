package database

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Table caches derived data (completion verdicts, default structs) under a
// stable declaration-identity key, rather than as mutable fields on shared
// symbols. Computation runs at most once per key: concurrent callers for the
// same key share a single in-flight computation and all observe the one
// published value. A computation that fails (cancellation) publishes
// nothing, so a later caller retries.
type Table[K comparable, V any] struct {
	mu    sync.RWMutex
	m     map[K]V
	group singleflight.Group
	key   func(K) string
}

func NewTable[K comparable, V any](key func(K) string) *Table[K, V] {
	return &Table[K, V]{
		m:   map[K]V{},
		key: key,
	}
}

func (t *Table[K, V]) Get(k K, compute func() (V, error)) (V, error) {
	t.mu.RLock()
	value, ok := t.m[k]
	t.mu.RUnlock()
	if ok {
		return value, nil
	}

	result, err, _ := t.group.Do(t.key(k), func() (any, error) {
		t.mu.RLock()
		value, ok := t.m[k]
		t.mu.RUnlock()
		if ok {
			return value, nil
		}

		value, err := compute()
		if err != nil {
			return nil, err
		}

		t.mu.Lock()
		t.m[k] = value
		t.mu.Unlock()

		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	return result.(V), nil
}

func (t *Table[K, V]) Peek(k K) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	value, ok := t.m[k]
	return value, ok
}
