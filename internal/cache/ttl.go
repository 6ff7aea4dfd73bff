// Package cache holds the in-memory TTL map and the two caches built on it:
// category listings backed by the persistent store, and search suggestions.
package cache

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrUnavailable reports that the persistent tier could not be used. Callers
// never see it from the caches themselves; it marks backing failures in logs.
var ErrUnavailable = errors.New("persistent cache unavailable")

// Clock returns the current time.
type Clock func() time.Time

// Entry is a cached value and the time it was stored.
type Entry[V any] struct {
	Value     V
	Timestamp time.Time
	seq       uint64
}

// TTL is a concurrency-safe map whose entries expire ttl after they are set.
// An entry stored at T is served for reads at T' with T'-T < ttl and is a
// miss from T'-T >= ttl onwards.
type TTL[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	seq     uint64
	entries map[K]Entry[V]
}

// NewTTL creates a TTL map. A nil clock uses time.Now.
func NewTTL[K comparable, V any](ttl time.Duration, now Clock) *TTL[K, V] {
	if now == nil {
		now = time.Now
	}
	return &TTL[K, V]{ttl: ttl, now: now, entries: make(map[K]Entry[V])}
}

// SetClock replaces the clock.
func (c *TTL[K, V]) SetClock(now Clock) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Get returns the live value for key. Expired entries are removed.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(e.Timestamp) >= c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.Value, true
}

// Set stores value under key, stamped with the current time.
func (c *TTL[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.entries[key] = Entry[V]{Value: value, Timestamp: c.now(), seq: c.seq}
}

// Delete removes key.
func (c *TTL[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of stored entries, including ones that have
// expired but not yet been read.
func (c *TTL[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes every entry.
func (c *TTL[K, V]) Clear() {
	c.mu.Lock()
	c.entries = make(map[K]Entry[V])
	c.mu.Unlock()
}

// Oldest returns up to n keys ordered from oldest to newest. Entries stored
// at the same instant are ordered by insertion.
func (c *TTL[K, V]) Oldest(n int) []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.oldestLocked(n)
}

// EvictOldest removes the n oldest entries and returns how many were removed.
func (c *TTL[K, V]) EvictOldest(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := c.oldestLocked(n)
	for _, k := range keys {
		delete(c.entries, k)
	}
	return len(keys)
}

// Range calls fn for each live entry until fn returns false.
func (c *TTL[K, V]) Range(fn func(K, Entry[V]) bool) {
	c.mu.Lock()
	now := c.now()
	snapshot := make(map[K]Entry[V], len(c.entries))
	for k, e := range c.entries {
		if now.Sub(e.Timestamp) < c.ttl {
			snapshot[k] = e
		}
	}
	c.mu.Unlock()

	for k, e := range snapshot {
		if !fn(k, e) {
			return
		}
	}
}

func (c *TTL[K, V]) oldestLocked(n int) []K {
	if n <= 0 || len(c.entries) == 0 {
		return nil
	}
	type kv struct {
		key K
		e   Entry[V]
	}
	all := make([]kv, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, kv{k, e})
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].e.Timestamp.Equal(all[j].e.Timestamp) {
			return all[i].e.Timestamp.Before(all[j].e.Timestamp)
		}
		return all[i].e.seq < all[j].e.seq
	})
	if n > len(all) {
		n = len(all)
	}
	keys := make([]K, n)
	for i := 0; i < n; i++ {
		keys[i] = all[i].key
	}
	return keys
}
