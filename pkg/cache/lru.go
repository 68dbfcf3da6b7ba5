package cache

import (
	"sync"
)

// node is a doubly linked list entry.
type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// LRU is a thread-safe least-recently-used cache.
type LRU[K comparable, V any] struct {
	mu       sync.RWMutex
	capacity int
	items    map[K]*node[K, V]
	head     *node[K, V] // most recently used
	tail     *node[K, V] // least recently used
}

// DefaultCapacity is used when NewLRU is given a non-positive capacity.
const DefaultCapacity = 1000

// NewLRU creates an LRU cache with the given capacity.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	c := &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*node[K, V], capacity),
	}

	// Dummy head and tail
	c.head = &node[K, V]{}
	c.tail = &node[K, V]{}
	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// Get retrieves a value and marks it as recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(n)
	return n.value, true
}

// Put adds or updates an entry, evicting the least recently used one when
// the cache is full.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.items[key]; ok {
		n.value = value
		c.moveToFront(n)
		return
	}
	if len(c.items) >= c.capacity {
		c.evictTail()
	}
	n := &node[K, V]{key: key, value: value}
	c.addToFront(n)
	c.items[key] = n
}

// Delete removes key and reports whether it was present.
func (c *LRU[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeNode(n)
	delete(c.items, key)
	return true
}

// Clear empties the cache.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*node[K, V], c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

func (c *LRU[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *LRU[K, V]) moveToFront(n *node[K, V]) {
	c.removeNode(n)
	c.addToFront(n)
}

// removeNode unlinks n without touching the map.
func (c *LRU[K, V]) removeNode(n *node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
}

func (c *LRU[K, V]) addToFront(n *node[K, V]) {
	first := c.head.next
	n.next = first
	n.prev = c.head
	c.head.next = n
	first.prev = n
}

func (c *LRU[K, V]) evictTail() {
	lru := c.tail.prev
	if lru == c.head {
		return
	}
	c.removeNode(lru)
	delete(c.items, lru.key)
}
