// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache provides in-memory TTL caches for upstream responses.
package cache

import (
	"sync"
	"time"
)

// Store is the caching contract shared by all implementations. A TTL of
// zero or less means "do not cache": callers are expected to bypass the
// store entirely rather than call Set with it.
type Store[K comparable, V any] interface {
	// Get returns the stored value for key, or false if the key is
	// absent or its entry has expired.
	Get(key K) (V, bool)
	// Set stores value under key until now + ttl. Last write wins.
	Set(key K, value V, ttl time.Duration)
}

// entry pairs a cached value with its absolute expiry instant.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a generic, thread-safe, in-memory cache with per-entry expiry.
// Expired entries are evicted lazily on read; there is no background
// sweeper, so an entry for a key that is never read again stays resident
// until overwritten. Use Bounded when memory must stay capped.
type TTL[K comparable, V any] struct {
	mu   sync.Mutex
	data map[K]entry[V]

	// now is the clock; tests substitute it to advance time.
	now func() time.Time
}

// NewTTL creates an empty TTL cache.
func NewTTL[K comparable, V any]() *TTL[K, V] {
	return &TTL[K, V]{
		data: make(map[K]entry[V]),
		now:  time.Now,
	}
}

// Get returns the value for key unless the key is absent or expired.
// An expired entry is deleted so the map does not accumulate dead keys
// for hot entries.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.data, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with an absolute expiry of now + ttl,
// overwriting any previous entry.
func (c *TTL[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
}

// Len returns the number of resident entries, expired or not.
func (c *TTL[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}
