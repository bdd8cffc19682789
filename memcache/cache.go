// Package memcache implements the bounded, concurrent, in-process LRU
// memory tier described in spec.md §3.1 and §4.1: a doubly-linked arena
// plus hash index, trimmed under three orthogonal bounds (count, cost,
// age), tolerant of concurrent readers, and built so that destroying an
// evicted value never blocks a critical section.
//
// The design generalizes Krishna8167/tempuscache's container/list +
// map[string]*list.Element cache: same hash-index-plus-list shape, same
// functional-options construction and background-janitor lifecycle, but
// with an arena-backed list (no per-node allocation, no pointer cycles),
// three independent limits instead of one TTL, and an injectable
// destruction executor instead of inline deletes.
package memcache

import (
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cache is a thread-safe, bounded, in-process LRU cache.
type Cache struct {
	mu sync.Mutex
	a  *arena

	countLimit uint64
	costLimit  uint64
	ageLimit   time.Duration

	autoTrimInterval     time.Duration
	clearOnMemoryWarning bool
	clearOnBackground    bool

	destructor      DestructionExecutor
	signals         PlatformSignalSource
	onMemoryWarning func()
	onBackground    func()

	log *zap.Logger

	capacityHint int
	stopChan     chan struct{}
	stopOnce     sync.Once

	stats Stats
}

// New builds a Cache with unbounded limits by default (spec.md §4.1):
// count_limit, cost_limit and age_limit all default to "unbounded", and
// auto_trim_interval defaults to 5 seconds.
func New(opts ...Option) *Cache {
	c := &Cache{
		countLimit:           unboundedLimit,
		costLimit:            unboundedLimit,
		ageLimit:             unboundedAge,
		autoTrimInterval:     5 * time.Second,
		clearOnMemoryWarning: true,
		clearOnBackground:    true,
		log:                  zap.NewNop(),
		stopChan:             make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.a = newArena(c.capacityHint)
	if c.destructor == nil {
		c.destructor = NewPoolExecutor(nil)
	}

	c.startAutoTrim()
	c.listenForSignals()

	return c
}

// Contains reports whether key is present, without reordering it.
func (c *Cache) Contains(key string) bool {
	if key == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.a.index[key]
	return ok
}

// Get returns the value for key and moves it to the head of the LRU
// list, updating its access time. The null-key sentinel (empty string)
// is silently ignored, per spec.md §4.1 failure semantics.
func (c *Cache) Get(key string) (interface{}, bool) {
	if key == "" {
		return nil, false
	}
	c.mu.Lock()
	i, ok := c.a.index[key]
	if !ok {
		c.stats.Misses++
		c.mu.Unlock()
		return nil, false
	}
	c.a.nodes[i].accessTime = nowNano()
	c.a.moveToFront(i)
	val := c.a.nodes[i].value
	c.stats.Hits++
	c.mu.Unlock()
	return val, true
}

// Set inserts or replaces key with value and the given cost. A nil
// value is treated as an explicit remove, per spec.md §4.1.
//
// If the resulting total cost exceeds cost_limit, an asynchronous
// cost-trim is scheduled. If the resulting total count exceeds
// count_limit, the new tail is evicted in-line (spec.md §4.1).
func (c *Cache) Set(key string, value interface{}, cost uint64) {
	if key == "" {
		return
	}
	if value == nil {
		c.Remove(key)
		return
	}

	c.mu.Lock()
	now := nowNano()
	if i, ok := c.a.index[key]; ok {
		old := c.a.nodes[i].value
		c.a.totalCost = c.a.totalCost - c.a.nodes[i].cost + cost
		c.a.nodes[i].value = value
		c.a.nodes[i].cost = cost
		c.a.nodes[i].accessTime = now
		c.a.moveToFront(i)
		exceedsCost := c.costLimit != unboundedLimit && c.a.totalCost > c.costLimit
		c.mu.Unlock()

		if old != nil && !valuesEqual(old, value) {
			c.destructor.Run(func() { destroy(old) })
		}
		if exceedsCost {
			go c.TrimToCost(c.costLimit)
		}
		return
	}

	i := c.a.alloc()
	c.a.nodes[i] = node{key: key, value: value, cost: cost, accessTime: now}
	c.a.index[key] = i
	c.a.pushFront(i)
	c.a.totalCount++
	c.a.totalCost += cost

	exceedsCost := c.costLimit != unboundedLimit && c.a.totalCost > c.costLimit
	var evicted *node
	if c.countLimit != unboundedLimit && uint64(c.a.totalCount) > c.countLimit {
		evicted = c.evictTailLocked()
	}
	c.mu.Unlock()

	if evicted != nil {
		c.destroyAsync(evicted)
	}
	if exceedsCost {
		go c.TrimToCost(c.costLimit)
	}
}

// Remove deletes key if present. Destructor execution for its value is
// handed to the configured destruction executor. Idempotent: removing a
// missing key is a no-op that still succeeds (spec.md §8 property 6).
func (c *Cache) Remove(key string) {
	if key == "" {
		return
	}
	c.mu.Lock()
	i, ok := c.a.index[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	c.a.unlink(i)
	delete(c.a.index, key)
	n := c.a.nodes[i]
	c.a.totalCount--
	c.a.totalCost -= n.cost
	c.a.free(i)
	c.mu.Unlock()

	c.log.Debug("removed key", zap.String("key", key))
	c.destroyAsync(&n)
}

// RemoveAll clears the cache. The map and list are swapped out under the
// lock; destruction of the evicted values is handed to the destruction
// executor so the call itself returns quickly (spec.md §4.1).
func (c *Cache) RemoveAll() {
	c.mu.Lock()
	old := c.a
	c.a = newArena(c.capacityHint)
	c.mu.Unlock()

	values := make([]interface{}, 0, len(old.index))
	for _, i := range old.index {
		values = append(values, old.nodes[i].value)
	}
	c.log.Info("cleared cache", zap.Int("count", len(values)))
	if len(values) == 0 {
		return
	}
	c.destructor.Run(func() {
		for _, v := range values {
			destroy(v)
		}
	})
}

// TotalCount returns the current live node count.
func (c *Cache) TotalCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return uint64(c.a.totalCount)
}

// TotalCost returns the current sum of live node costs.
func (c *Cache) TotalCost() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.a.totalCost
}

// CountLimit, CostLimit and AgeLimit report the configured bounds.
func (c *Cache) CountLimit() uint64      { return c.countLimit }
func (c *Cache) CostLimit() uint64       { return c.costLimit }
func (c *Cache) AgeLimit() time.Duration { return c.ageLimit }

// Stats returns a snapshot of hit/miss/eviction counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Close stops the background janitor and signal listener. Safe to call
// more than once.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

// evictTailLocked evicts the current tail node. The caller must hold
// c.mu. Returns the evicted node's data (already unlinked from the
// arena) so the caller can hand it to the destruction executor outside
// the lock.
func (c *Cache) evictTailLocked() *node {
	if c.a.tail == noIndex {
		return nil
	}
	i := c.a.tail
	n := c.a.nodes[i]
	c.a.unlink(i)
	delete(c.a.index, n.key)
	c.a.totalCount--
	c.a.totalCost -= n.cost
	c.a.free(i)
	c.stats.Evictions++
	return &n
}

func (c *Cache) destroyAsync(n *node) {
	if n == nil || n.value == nil {
		return
	}
	v := n.value
	c.destructor.Run(func() { destroy(v) })
}

// destroy calls Destroy() on an evicted value that implements
// interface{ Destroy() }, matching the spec's "opaque owned object"
// model: the memory tier does not know how to destroy a value beyond
// calling a destructor the embedder attached. Other values are left to
// the garbage collector.
func destroy(v interface{}) {
	if d, ok := v.(interface{ Destroy() }); ok {
		d.Destroy()
	}
}

// valuesEqual reports whether a and b are the same boxed value. Raw `==`
// on interface{} panics when both sides hold the same uncomparable
// dynamic type (slices, maps, funcs) — exactly what a facade storing
// []byte values hits on every repeated Set of the same key. Uncomparable
// dynamic types are simply treated as never equal, so their destructor
// always runs.
func valuesEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == b
	}
	t := reflect.TypeOf(a)
	if !t.Comparable() || t != reflect.TypeOf(b) {
		return false
	}
	return a == b
}

func nowNano() int64 { return time.Now().UnixNano() }
