// Package glyphcache keeps recently rasterized words so repeated words skip
// the rasterizer.
package glyphcache

import "container/list"

// LRU is a fixed-capacity least-recently-used map.
// Not safe for concurrent use; the reading loop owns it.
type LRU[K comparable, V any] struct {
	capacity int
	order    *list.List // front = most recent
	items    map[K]*list.Element
	onEvict  func(K, V)
}

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// NewLRU creates a cache holding at most capacity entries, minimum 1
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	return &LRU[K, V]{
		capacity: max(capacity, 1),
		order:    list.New(),
		items:    make(map[K]*list.Element),
	}
}

// OnEvict sets a callback run for every entry dropped by capacity pressure
func (c *LRU[K, V]) OnEvict(fn func(K, V)) {
	c.onEvict = fn
}

// Get returns the value for key and marks it most recently used
func (c *LRU[K, V]) Get(key K) (V, bool) {
	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruEntry[K, V]).value, true
}

// Put inserts or replaces key, evicting the least recently used entry when full
func (c *LRU[K, V]) Put(key K, value V) {
	if el, ok := c.items[key]; ok {
		el.Value.(*lruEntry[K, V]).value = value
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&lruEntry[K, V]{key: key, value: value})
	for c.order.Len() > c.capacity {
		c.removeOldest()
	}
}

// Contains reports presence without touching recency
func (c *LRU[K, V]) Contains(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Len returns the number of entries
func (c *LRU[K, V]) Len() int {
	return c.order.Len()
}

// Cap returns the capacity
func (c *LRU[K, V]) Cap() int {
	return c.capacity
}

// Clear removes all entries without running the eviction callback
func (c *LRU[K, V]) Clear() {
	c.order.Init()
	clear(c.items)
}

func (c *LRU[K, V]) removeOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	c.order.Remove(el)
	e := el.Value.(*lruEntry[K, V])
	delete(c.items, e.key)
	if c.onEvict != nil {
		c.onEvict(e.key, e.value)
	}
}
