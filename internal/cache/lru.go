// Package cache provides a bounded, recency-ordered key-value cache with
// per-entry expiry, and a partitioned pool of such caches.
package cache

import (
	"sync"
	"time"

	"github.com/guttosm/famroot-client/internal/metrics"
)

// DefaultMaxSize is the capacity used when Options.MaxSize is not positive.
const DefaultMaxSize = 100

// Options configures an LRU cache.
type Options[K comparable, V any] struct {
	// Name labels the cache in metrics. Defaults to "default".
	Name string
	// MaxSize bounds the number of entries. Defaults to DefaultMaxSize.
	MaxSize int
	// TTL is the default time-to-live. Zero means entries never expire.
	TTL time.Duration
	// OnEvict is called for entries removed to make room for a new key.
	// It is not called for deletes, clears or expiry.
	OnEvict func(key K, value V)
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// Stats is a point-in-time view of an LRU cache.
// OldestKey and NewestKey are zero values when the cache is empty.
type Stats[K comparable] struct {
	Size      int   `json:"size"`
	MaxSize   int   `json:"max_size"`
	OldestKey K     `json:"oldest_key"`
	NewestKey K     `json:"newest_key"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// LRU is a thread-safe cache with least-recently-used eviction and lazy
// TTL expiry. The zero value is not usable; construct with New.
type LRU[K comparable, V any] struct {
	mu        sync.Mutex
	name      string
	maxSize   int
	ttl       time.Duration
	onEvict   func(K, V)
	now       func() time.Time
	items     map[K]*entry[K, V]
	head      *entry[K, V] // most recently used
	tail      *entry[K, V] // least recently used
	hits      int64
	misses    int64
	evictions int64
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	createdAt time.Time
	expiresAt time.Time
	prev      *entry[K, V]
	next      *entry[K, V]
}

func (e *entry[K, V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// New creates an LRU cache.
func New[K comparable, V any](opts Options[K, V]) *LRU[K, V] {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}
	if opts.Name == "" {
		opts.Name = "default"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &LRU[K, V]{
		name:    opts.Name,
		maxSize: opts.MaxSize,
		ttl:     opts.TTL,
		onEvict: opts.OnEvict,
		now:     opts.Now,
		items:   make(map[K]*entry[K, V], opts.MaxSize),
	}
	metrics.UpdateCacheMetrics(c.name, 0, c.maxSize)
	return c
}

// Set stores value under key with the default TTL.
func (c *LRU[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, 0)
}

// SetWithTTL stores value under key. A non-positive ttl uses the default TTL.
// Updating an existing key refreshes its expiry and recency and never evicts.
// Inserting a new key into a full cache first evicts the least recently used entry.
func (c *LRU[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	now := c.now()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	if e, ok := c.items[key]; ok {
		e.value = value
		e.createdAt = now
		e.expiresAt = expiresAt
		c.moveToFront(e)
		c.mu.Unlock()
		metrics.RecordCacheOperation(c.name, "set", "update")
		return
	}

	var evicted *entry[K, V]
	if len(c.items) >= c.maxSize {
		evicted = c.removeTail()
		c.evictions++
	}

	e := &entry[K, V]{
		key:       key,
		value:     value,
		createdAt: now,
		expiresAt: expiresAt,
	}
	c.items[key] = e
	c.addToFront(e)
	size := len(c.items)
	onEvict := c.onEvict
	c.mu.Unlock()

	metrics.RecordCacheOperation(c.name, "set", "success")
	metrics.UpdateCacheMetrics(c.name, size, c.maxSize)
	if evicted != nil {
		metrics.RecordCacheOperation(c.name, "evict", "capacity")
		if onEvict != nil {
			onEvict(evicted.key, evicted.value)
		}
	}
}

// Get returns the value for key. An expired entry is removed and reported
// as absent. A hit marks the entry most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		c.misses++
		metrics.RecordCacheOperation(c.name, "get", "miss")
		return zero, false
	}
	if e.expired(c.now()) {
		c.removeEntry(e)
		c.misses++
		metrics.RecordCacheOperation(c.name, "get", "expired")
		return zero, false
	}

	c.moveToFront(e)
	c.hits++
	metrics.RecordCacheOperation(c.name, "get", "hit")
	return e.value, true
}

// Has reports whether key is present and unexpired without touching recency.
// An expired entry is removed.
func (c *LRU[K, V]) Has(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return false
	}
	if e.expired(c.now()) {
		c.removeEntry(e)
		return false
	}
	return true
}

// Delete removes key and reports whether it was present.
func (c *LRU[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeEntry(e)
	metrics.RecordCacheOperation(c.name, "delete", "success")
	return true
}

// DeleteFunc removes every entry for which fn returns true and returns the count.
func (c *LRU[K, V]) DeleteFunc(fn func(key K, value V) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for e := c.head; e != nil; {
		next := e.next
		if fn(e.key, e.value) {
			c.removeEntry(e)
			removed++
		}
		e = next
	}
	if removed > 0 {
		metrics.RecordCacheOperation(c.name, "delete", "success")
	}
	return removed
}

// Clear removes all entries. Hit and miss counters are kept.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*entry[K, V], c.maxSize)
	c.head = nil
	c.tail = nil

	metrics.RecordCacheOperation(c.name, "clear", "success")
	metrics.UpdateCacheMetrics(c.name, 0, c.maxSize)
}

// Cleanup removes all expired entries and returns how many were removed.
func (c *LRU[K, V]) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for e := c.head; e != nil; {
		next := e.next
		if e.expired(now) {
			c.removeEntry(e)
			removed++
		}
		e = next
	}
	if removed > 0 {
		metrics.RecordCacheOperation(c.name, "cleanup", "expired")
	}
	return removed
}

// Len returns the number of stored entries, including expired entries not yet removed.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Keys returns the stored keys from most to least recently used.
func (c *LRU[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, len(c.items))
	for e := c.head; e != nil; e = e.next {
		keys = append(keys, e.key)
	}
	return keys
}

// Values returns the stored values in the same order as Keys.
func (c *LRU[K, V]) Values() []V {
	c.mu.Lock()
	defer c.mu.Unlock()

	values := make([]V, 0, len(c.items))
	for e := c.head; e != nil; e = e.next {
		values = append(values, e.value)
	}
	return values
}

// Stats returns the current cache statistics.
func (c *LRU[K, V]) Stats() Stats[K] {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats[K]{
		Size:      len(c.items),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if c.tail != nil {
		s.OldestKey = c.tail.key
	}
	if c.head != nil {
		s.NewestKey = c.head.key
	}
	return s
}

// MaxSize returns the configured capacity.
func (c *LRU[K, V]) MaxSize() int {
	return c.maxSize
}

// removeEntry removes an entry from both the map and the linked list.
func (c *LRU[K, V]) removeEntry(e *entry[K, V]) {
	delete(c.items, e.key)
	c.remove(e)
	metrics.UpdateCacheMetrics(c.name, len(c.items), c.maxSize)
}

// moveToFront moves an existing entry to the front of the LRU list.
func (c *LRU[K, V]) moveToFront(e *entry[K, V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

// addToFront adds an entry to the front of the LRU list.
func (c *LRU[K, V]) addToFront(e *entry[K, V]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

// remove unlinks an entry from the list without touching the map.
func (c *LRU[K, V]) remove(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

// removeTail removes and returns the least recently used entry.
func (c *LRU[K, V]) removeTail() *entry[K, V] {
	e := c.tail
	if e == nil {
		return nil
	}
	delete(c.items, e.key)
	c.remove(e)
	return e
}
