package cache

import (
	"container/list"
	"sync"
	"time"
)

// ClipCache is a count-bounded in-memory cache that evicts in insertion
// order. Lookups never promote an entry: the first key in is always the
// first key out.
type ClipCache[T any] struct {
	capacity int

	items map[string]*list.Element
	order *list.List // front is newest

	onEvict func(key string, value T)

	mu    sync.Mutex
	stats CacheStats
}

type clipEntry[T any] struct {
	key   string
	value T
}

// NewClipCache creates a cache holding at most capacity entries. onEvict,
// if not nil, is called for every entry dropped by eviction or Purge. It
// runs outside the cache lock.
func NewClipCache[T any](capacity int, onEvict func(key string, value T)) *ClipCache[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &ClipCache[T]{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
		onEvict:  onEvict,
		stats:    CacheStats{Capacity: int64(capacity)},
	}
}

// Get retrieves a value from the cache.
func (c *ClipCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		var zero T
		return zero, false
	}
	c.stats.Hits++
	return elem.Value.(*clipEntry[T]).value, true
}

// Contains checks if a key exists without touching the stats.
func (c *ClipCache[T]) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.items[key]
	return ok
}

// LoadOrStore returns the existing value for key if present. Otherwise it
// stores value, evicting the oldest entries to stay within capacity, and
// returns it with stored set to true.
func (c *ClipCache[T]) LoadOrStore(key string, value T) (actual T, stored bool) {
	c.mu.Lock()
	if elem, ok := c.items[key]; ok {
		c.mu.Unlock()
		return elem.Value.(*clipEntry[T]).value, false
	}

	var evicted []*clipEntry[T]
	for c.order.Len() >= c.capacity {
		evicted = append(evicted, c.evictOldest())
	}

	c.items[key] = c.order.PushFront(&clipEntry[T]{key: key, value: value})
	c.mu.Unlock()

	c.notify(evicted)
	return value, true
}

// Delete removes an entry without calling the eviction callback and
// returns the removed value.
func (c *ClipCache[T]) Delete(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		var zero T
		return zero, false
	}
	c.order.Remove(elem)
	delete(c.items, key)
	return elem.Value.(*clipEntry[T]).value, true
}

// Purge removes every entry, oldest first, calling the eviction callback
// for each.
func (c *ClipCache[T]) Purge() {
	c.mu.Lock()
	var evicted []*clipEntry[T]
	for elem := c.order.Back(); elem != nil; elem = elem.Prev() {
		evicted = append(evicted, elem.Value.(*clipEntry[T]))
	}
	c.items = make(map[string]*list.Element)
	c.order.Init()
	c.mu.Unlock()

	c.notify(evicted)
}

// Len returns the number of entries.
func (c *ClipCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Keys returns the keys in insertion order, oldest first.
func (c *ClipCache[T]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.order.Len())
	for elem := c.order.Back(); elem != nil; elem = elem.Prev() {
		keys = append(keys, elem.Value.(*clipEntry[T]).key)
	}
	return keys
}

// Stats returns cache statistics.
func (c *ClipCache[T]) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = int64(c.order.Len())
	stats.ItemCount = stats.Size
	stats.computeHitRate()
	return stats
}

// evictOldest removes the oldest entry (must be called with lock held).
func (c *ClipCache[T]) evictOldest() *clipEntry[T] {
	elem := c.order.Back()
	c.order.Remove(elem)
	entry := elem.Value.(*clipEntry[T])
	delete(c.items, entry.key)
	c.stats.Evictions++
	c.stats.LastEvict = time.Now()
	return entry
}

func (c *ClipCache[T]) notify(entries []*clipEntry[T]) {
	if c.onEvict == nil {
		return
	}
	for _, e := range entries {
		c.onEvict(e.key, e.value)
	}
}
