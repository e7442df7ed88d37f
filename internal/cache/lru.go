package cache

import (
	"container/list"
	"sync"
	"time"
)

// EvictReason tells an eviction hook why an entry left the cache.
type EvictReason int

const (
	EvictExpired EvictReason = iota
	EvictCapacity
	EvictDeleted
	EvictReplaced
)

func (r EvictReason) String() string {
	switch r {
	case EvictExpired:
		return "expired"
	case EvictCapacity:
		return "capacity"
	case EvictDeleted:
		return "deleted"
	case EvictReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// Options configures an LRUCache.
type Options[T any] struct {
	// OnEvict is called for every entry that leaves the cache, after the
	// cache lock is released.
	OnEvict func(key string, value T, reason EvictReason)
	// Sliding extends an entry's expiry on every successful Get.
	Sliding bool
}

// LRU cache with TTL and size-based eviction
type LRUCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	opts    Options[T]
	items   map[string]*list.Element
	lru     *list.List
	now     func() time.Time
}

type cacheItem[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

type eviction[T any] struct {
	key    string
	data   T
	reason EvictReason
}

// NewLRUCache creates a new LRU cache with TTL
func NewLRUCache[T any](maxSize int, ttl time.Duration) *LRUCache[T] {
	return NewLRUCacheWithOptions(maxSize, ttl, Options[T]{})
}

// NewLRUCacheWithOptions creates an LRU cache with an eviction hook and/or
// sliding expiry.
func NewLRUCacheWithOptions[T any](maxSize int, ttl time.Duration, opts Options[T]) *LRUCache[T] {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &LRUCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		opts:    opts,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

// Get retrieves a value from the cache
func (c *LRUCache[T]) Get(key string) (T, bool) {
	var zero T
	var evicted []eviction[T]
	defer func() { c.notify(evicted) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.items[key]
	if !exists {
		return zero, false
	}

	item := elem.Value.(*cacheItem[T])
	now := c.now()
	if now.After(item.expiresAt) {
		evicted = append(evicted, c.removeElement(elem, EvictExpired))
		return zero, false
	}

	if c.opts.Sliding {
		item.expiresAt = now.Add(c.ttl)
	}
	c.lru.MoveToFront(elem)
	return item.data, true
}

// Set stores a value in the cache
func (c *LRUCache[T]) Set(key string, data T) {
	var evicted []eviction[T]
	defer func() { c.notify(evicted) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	item := &cacheItem[T]{
		key:       key,
		data:      data,
		expiresAt: c.now().Add(c.ttl),
	}

	if elem, exists := c.items[key]; exists {
		old := elem.Value.(*cacheItem[T])
		evicted = append(evicted, eviction[T]{key: key, data: old.data, reason: EvictReplaced})
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}

	elem := c.lru.PushFront(item)
	c.items[key] = elem

	for c.lru.Len() > c.maxSize {
		evicted = append(evicted, c.removeElement(c.lru.Back(), EvictCapacity))
	}
}

// Delete removes a key from the cache
func (c *LRUCache[T]) Delete(key string) {
	var evicted []eviction[T]
	defer func() { c.notify(evicted) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		evicted = append(evicted, c.removeElement(elem, EvictDeleted))
	}
}

// Clear removes every entry.
func (c *LRUCache[T]) Clear() int {
	c.mu.Lock()
	evicted := make([]eviction[T], 0, c.lru.Len())
	for c.lru.Len() > 0 {
		evicted = append(evicted, c.removeElement(c.lru.Back(), EvictDeleted))
	}
	c.mu.Unlock()

	c.notify(evicted)
	return len(evicted)
}

func (c *LRUCache[T]) removeElement(elem *list.Element, reason EvictReason) eviction[T] {
	item := elem.Value.(*cacheItem[T])
	delete(c.items, item.key)
	c.lru.Remove(elem)
	return eviction[T]{key: item.key, data: item.data, reason: reason}
}

func (c *LRUCache[T]) notify(evicted []eviction[T]) {
	if c.opts.OnEvict == nil {
		return
	}
	for _, e := range evicted {
		c.opts.OnEvict(e.key, e.data, e.reason)
	}
}

// CleanExpired removes all expired entries and returns count of removed items
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	now := c.now()
	var evicted []eviction[T]
	for elem := c.lru.Front(); elem != nil; {
		next := elem.Next()
		if now.After(elem.Value.(*cacheItem[T]).expiresAt) {
			evicted = append(evicted, c.removeElement(elem, EvictExpired))
		}
		elem = next
	}
	c.mu.Unlock()

	c.notify(evicted)
	return len(evicted)
}

// Size returns the current number of items in the cache
func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
