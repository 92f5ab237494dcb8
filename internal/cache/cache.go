// Package cache provides the bounded caches shared by the measuring and
// drawing code.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity is used when NewLRU is given a non-positive capacity.
const DefaultCapacity = 1024

// LRU is a thread-safe least-recently-used cache with hit statistics.
type LRU[K comparable, V any] struct {
	entries  *lru.Cache[K, V]
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// Stats is a snapshot of cache counters. Evictions counts entries dropped
// for capacity or by Purge.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// NewLRU creates a cache holding at most capacity entries.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &LRU[K, V]{capacity: capacity}
	entries, err := lru.NewWithEvict(capacity, func(K, V) { c.evictions.Add(1) })
	if err != nil {
		// Only a non-positive size fails.
		panic("cache: " + err.Error())
	}
	c.entries = entries
	return c
}

// Get returns the value for key and marks it recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	v, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Add stores value under key, evicting the oldest entry when full.
func (c *LRU[K, V]) Add(key K, value V) { c.entries.Add(key, value) }

// GetOrAdd returns the cached value for key, computing and storing it with
// fn on a miss. Concurrent misses may call fn more than once.
func (c *LRU[K, V]) GetOrAdd(key K, fn func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := fn()
	c.entries.Add(key, v)
	return v
}

// Len returns the number of entries.
func (c *LRU[K, V]) Len() int { return c.entries.Len() }

// Purge removes every entry.
func (c *LRU[K, V]) Purge() { c.entries.Purge() }

// Stats returns the current counters.
func (c *LRU[K, V]) Stats() Stats {
	return Stats{
		Len:       c.entries.Len(),
		Capacity:  c.capacity,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
