package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/vecsim/internal/resource"
)

// SizeFunc reports the memory held by a cached value in bytes.
type SizeFunc[V any] func(V) int64

// LRU is a fixed-capacity least-recently-used cache. It is safe for
// concurrent use.
type LRU[K comparable, V any] struct {
	mu        sync.Mutex
	capacity  int
	items     map[K]*list.Element
	evictList *list.List
	sizeOf    SizeFunc[V]
	rc        *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type entry[K comparable, V any] struct {
	key   K
	value V
	size  int64
}

// NewLRU creates a cache holding at most capacity entries. If rc and sizeOf
// are both non-nil, cached values are charged against rc.
func NewLRU[K comparable, V any](capacity int, sizeOf SizeFunc[V], rc *resource.Controller) *LRU[K, V] {
	return &LRU[K, V]{
		capacity:  max(capacity, 0),
		items:     make(map[K]*list.Element),
		evictList: list.New(),
		sizeOf:    sizeOf,
		rc:        rc,
	}
}

// Get returns the cached value for key.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry[K, V]).value, true
	}

	c.misses.Add(1)
	var zero V
	return zero, false
}

// Set caches value under key, evicting the least recently used entry when
// the cache is full.
func (c *LRU[K, V]) Set(key K, value V) {
	if c.capacity == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)
	}

	for len(c.items) >= c.capacity {
		c.removeElement(c.evictList.Back())
	}

	var size int64
	if c.sizeOf != nil && c.rc != nil {
		size = c.sizeOf(value)
		// If the controller says no, don't cache.
		if !c.rc.TryAcquireMemory(size) {
			return
		}
	}

	c.items[key] = c.evictList.PushFront(&entry[K, V]{key: key, value: value, size: size})
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns cache statistics.
func (c *LRU[K, V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *LRU[K, V]) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	ent := e.Value.(*entry[K, V])
	delete(c.items, ent.key)
	c.rc.ReleaseMemory(ent.size)
}
