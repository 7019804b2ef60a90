// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// boundedItem is the element payload stored in the recency list.
type boundedItem[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// Bounded is a TTL cache with a fixed capacity and least-recently-used
// eviction. It keeps the Store contract of TTL while guaranteeing bounded
// memory under a long process lifetime: when an insert pushes the cache
// over capacity, the least recently used entry is dropped. Expired entries
// are still evicted lazily on read.
type Bounded[K comparable, V any] struct {
	capacity int

	mu   sync.Mutex
	ll   *list.List               // front = most recently used
	data map[K]*list.Element

	now func() time.Time
}

// NewBounded creates a Bounded cache holding at most capacity entries.
func NewBounded[K comparable, V any](capacity int) (*Bounded[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}
	return &Bounded[K, V]{
		capacity: capacity,
		ll:       list.New(),
		data:     make(map[K]*list.Element),
		now:      time.Now,
	}, nil
}

// Get returns the value for key unless absent or expired. A hit moves the
// entry to the front of the recency list; an expired entry is removed.
func (c *Bounded[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.data[key]
	if !ok {
		return zero, false
	}
	item := elem.Value.(*boundedItem[K, V])
	if c.now().After(item.expiresAt) {
		c.ll.Remove(elem)
		delete(c.data, key)
		return zero, false
	}
	c.ll.MoveToFront(elem)
	return item.value, true
}

// Set stores value under key until now + ttl. An existing entry is
// refreshed in place; a new entry may evict the least recently used one.
func (c *Bounded[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)
	if elem, ok := c.data[key]; ok {
		item := elem.Value.(*boundedItem[K, V])
		item.value = value
		item.expiresAt = expiresAt
		c.ll.MoveToFront(elem)
		return
	}

	elem := c.ll.PushFront(&boundedItem[K, V]{key: key, value: value, expiresAt: expiresAt})
	c.data[key] = elem

	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			item := c.ll.Remove(oldest).(*boundedItem[K, V])
			delete(c.data, item.key)
		}
	}
}

// Len returns the number of resident entries.
func (c *Bounded[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
