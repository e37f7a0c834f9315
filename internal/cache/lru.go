package cache

import (
	"container/list"
	"sync"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// LRU is a capacity-bounded cache evicting the least-recently-touched entry.
// Both Get and Put count as a touch. Safe for concurrent use; the check /
// evict / insert sequence runs under one lock.
type LRU[K comparable, V any] struct {
	mu        sync.Mutex
	capacity  int
	items     map[K]*list.Element
	evictList *list.List
}

// NewLRU creates a cache holding at most capacity entries. Capacity below 1
// is treated as 1.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU[K, V]{
		capacity:  capacity,
		items:     make(map[K]*list.Element, capacity),
		evictList: list.New(),
	}
}

// Put inserts or updates a value and marks it most recently touched. When a
// new key arrives at capacity, the least recently touched entry is evicted
// first.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry[K, V]).value = value
		c.evictList.MoveToFront(el)
		return
	}

	if c.evictList.Len() >= c.capacity {
		c.evictOldest()
	}

	el := c.evictList.PushFront(&entry[K, V]{key: key, value: value})
	c.items[key] = el
}

// Get returns the cached value and marks it most recently touched.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.evictList.MoveToFront(el)
		return el.Value.(*entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Remove drops an entry if present.
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.evictList.Remove(el)
		delete(c.items, key)
	}
}

// Len returns the current occupancy, always <= capacity.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// evictOldest must be called with the lock held.
func (c *LRU[K, V]) evictOldest() {
	oldest := c.evictList.Back()
	if oldest == nil {
		return
	}
	e := c.evictList.Remove(oldest).(*entry[K, V])
	delete(c.items, e.key)
}
