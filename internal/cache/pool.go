package cache

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultPartition receives every key no rule matches.
const DefaultPartition = "default"

// PoolRule routes keys containing Contains into the partition Name.
type PoolRule struct {
	Name     string `json:"name" yaml:"name"`
	Contains string `json:"contains" yaml:"contains"`
}

// ContainsPartitioner returns a partition function applying rules in order.
// The first rule whose substring appears in the key wins.
func ContainsPartitioner(rules []PoolRule) func(key string) string {
	rules = append([]PoolRule(nil), rules...)
	return func(key string) string {
		for _, r := range rules {
			if r.Contains != "" && strings.Contains(key, r.Contains) {
				return r.Name
			}
		}
		return DefaultPartition
	}
}

// PoolOptions configures a Pool.
type PoolOptions[V any] struct {
	// Name prefixes partition names in metrics.
	Name string
	// MaxSize bounds each partition.
	MaxSize int
	// TTL is the default time-to-live for every partition.
	TTL time.Duration
	// Partition maps a key to its partition name. Defaults to a single partition.
	Partition func(key string) string
	// OnEvict is called for capacity evictions in any partition.
	OnEvict func(partition, key string, value V)
	// Now is the clock shared by all partitions.
	Now func() time.Time
}

// PoolStats aggregates the statistics of every partition.
type PoolStats struct {
	Size       int                      `json:"size"`
	MaxSize    int                      `json:"max_size"`
	Hits       int64                    `json:"hits"`
	Misses     int64                    `json:"misses"`
	Evictions  int64                    `json:"evictions"`
	Partitions map[string]Stats[string] `json:"partitions"`
}

// Pool is a set of LRU caches selected per key by a partition function.
// Partitions are created on first write.
type Pool[V any] struct {
	mu         sync.RWMutex
	opts       PoolOptions[V]
	partitions map[string]*LRU[string, V]
}

// NewPool creates a partitioned cache pool.
func NewPool[V any](opts PoolOptions[V]) *Pool[V] {
	if opts.Partition == nil {
		opts.Partition = func(string) string { return DefaultPartition }
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}
	if opts.Name == "" {
		opts.Name = "pool"
	}
	return &Pool[V]{
		opts:       opts,
		partitions: make(map[string]*LRU[string, V]),
	}
}

func (p *Pool[V]) partitionName(key string) string {
	name := p.opts.Partition(key)
	if name == "" {
		return DefaultPartition
	}
	return name
}

func (p *Pool[V]) lookup(name string) *LRU[string, V] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.partitions[name]
}

func (p *Pool[V]) getOrCreate(name string) *LRU[string, V] {
	if c := p.lookup(name); c != nil {
		return c
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.partitions[name]; ok {
		return c
	}

	var onEvict func(string, V)
	if p.opts.OnEvict != nil {
		onEvict = func(key string, value V) { p.opts.OnEvict(name, key, value) }
	}
	c := New(Options[string, V]{
		Name:    p.opts.Name + "." + name,
		MaxSize: p.opts.MaxSize,
		TTL:     p.opts.TTL,
		OnEvict: onEvict,
		Now:     p.opts.Now,
	})
	p.partitions[name] = c
	return c
}

func (p *Pool[V]) snapshot() map[string]*LRU[string, V] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]*LRU[string, V], len(p.partitions))
	for k, v := range p.partitions {
		out[k] = v
	}
	return out
}

// Set stores value with the default TTL in the key's partition.
func (p *Pool[V]) Set(key string, value V) {
	p.getOrCreate(p.partitionName(key)).Set(key, value)
}

// SetWithTTL stores value with ttl in the key's partition.
func (p *Pool[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	p.getOrCreate(p.partitionName(key)).SetWithTTL(key, value, ttl)
}

// Get returns the value for key from its partition.
func (p *Pool[V]) Get(key string) (V, bool) {
	if c := p.lookup(p.partitionName(key)); c != nil {
		return c.Get(key)
	}
	var zero V
	return zero, false
}

// Has reports whether key is present and unexpired.
func (p *Pool[V]) Has(key string) bool {
	if c := p.lookup(p.partitionName(key)); c != nil {
		return c.Has(key)
	}
	return false
}

// Delete removes key and reports whether it was present.
func (p *Pool[V]) Delete(key string) bool {
	if c := p.lookup(p.partitionName(key)); c != nil {
		return c.Delete(key)
	}
	return false
}

// DeleteFunc removes matching entries from every partition.
func (p *Pool[V]) DeleteFunc(fn func(key string, value V) bool) int {
	removed := 0
	for _, c := range p.snapshot() {
		removed += c.DeleteFunc(fn)
	}
	return removed
}

// Clear empties every partition.
func (p *Pool[V]) Clear() {
	for _, c := range p.snapshot() {
		c.Clear()
	}
}

// ClearPartition empties one partition and returns how many entries it held.
func (p *Pool[V]) ClearPartition(name string) int {
	c := p.lookup(name)
	if c == nil {
		return 0
	}
	n := c.Len()
	c.Clear()
	return n
}

// Cleanup removes expired entries from every partition.
func (p *Pool[V]) Cleanup() int {
	removed := 0
	for _, c := range p.snapshot() {
		removed += c.Cleanup()
	}
	return removed
}

// Len returns the number of stored entries across partitions.
func (p *Pool[V]) Len() int {
	n := 0
	for _, c := range p.snapshot() {
		n += c.Len()
	}
	return n
}

// Keys returns the stored keys of every partition, partitions in name order.
func (p *Pool[V]) Keys() []string {
	var keys []string
	for _, name := range p.Partitions() {
		if c := p.lookup(name); c != nil {
			keys = append(keys, c.Keys()...)
		}
	}
	return keys
}

// Partitions returns the partition names in sorted order.
func (p *Pool[V]) Partitions() []string {
	p.mu.RLock()
	names := make([]string, 0, len(p.partitions))
	for name := range p.partitions {
		names = append(names, name)
	}
	p.mu.RUnlock()
	sort.Strings(names)
	return names
}

// PartitionStats returns statistics per partition.
func (p *Pool[V]) PartitionStats() map[string]Stats[string] {
	parts := p.snapshot()
	out := make(map[string]Stats[string], len(parts))
	for name, c := range parts {
		out[name] = c.Stats()
	}
	return out
}

// Stats returns aggregate statistics with a per-partition breakdown.
func (p *Pool[V]) Stats() PoolStats {
	s := PoolStats{Partitions: p.PartitionStats()}
	for _, ps := range s.Partitions {
		s.Size += ps.Size
		s.MaxSize += ps.MaxSize
		s.Hits += ps.Hits
		s.Misses += ps.Misses
		s.Evictions += ps.Evictions
	}
	return s
}
