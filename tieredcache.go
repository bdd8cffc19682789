// Package tieredcache is the unified facade of spec.md §4.4: a
// read-through/write-through cache composing an in-process memcache.Cache
// with a disk-backed diskcache.Cache, plus asynchronous siblings of every
// synchronous operation dispatched on a shared background pool.
package tieredcache

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tempuscache/tieredcache/diskcache"
	"github.com/tempuscache/tieredcache/internal/execpool"
	"github.com/tempuscache/tieredcache/memcache"
)

// Cache is the unified two-tier facade.
type Cache struct {
	name string

	mem  *memcache.Cache
	disk *diskcache.Cache
	pool *execpool.Pool
	ownsPool bool

	log *zap.Logger
}

// ByName constructs a cache rooted under the per-user caches directory
// joined with name (spec.md §4.4, §6: "a cache name (storage rooted under
// a per-user caches directory joined with the name)"). Returns nil on
// invalid input or engine-init failure, per spec.md §6's constructor
// contract.
func ByName(name string, opts ...Option) *Cache {
	if name == "" {
		return nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return nil
	}
	return ByPath(filepath.Join(base, name), opts...)
}

// ByPath constructs a cache rooted at an absolute path. The cache's name
// is the last path segment (spec.md §4.4). Returns nil on invalid input
// or engine-init failure.
func ByPath(path string, opts ...Option) *Cache {
	if path == "" {
		return nil
	}

	c := &Cache{
		name: filepath.Base(path),
		log:  zap.NewNop(),
	}
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.log != nil {
		c.log = cfg.log
	}

	pool := cfg.pool
	if pool == nil {
		p, err := execpool.New(execpool.DefaultSize)
		if err != nil {
			return nil
		}
		pool = p
		c.ownsPool = true
	}
	c.pool = pool

	memOpts := append([]memcache.Option{
		memcache.WithLogger(c.log),
		memcache.WithDestructionExecutor(memcache.NewPoolExecutor(pool)),
	}, cfg.memOpts...)
	c.mem = memcache.New(memOpts...)

	diskOpts := append([]diskcache.Option{
		diskcache.WithLogger(c.log),
		diskcache.WithPool(pool),
	}, cfg.diskOpts...)
	disk, err := diskcache.Open(path, diskOpts...)
	if err != nil {
		c.mem.Close()
		return nil
	}
	c.disk = disk

	return c
}

// Name returns the cache's name (the last path segment of its root).
func (c *Cache) Name() string { return c.name }

// MemoryCache exposes the memory tier handle (spec.md §6 accessors).
func (c *Cache) MemoryCache() *memcache.Cache { return c.mem }

// DiskCache exposes the disk tier handle (spec.md §6 accessors).
func (c *Cache) DiskCache() *diskcache.Cache { return c.disk }

// Contains returns true if either tier reports key present (spec.md §4.4
// write-through: "contains(key) returns true if either tier reports the
// key present").
func (c *Cache) Contains(key string) bool {
	if c.mem.Contains(key) {
		return true
	}
	return c.disk.Contains(key)
}

// Get probes the memory tier first; on miss it probes the disk tier and,
// on a disk hit, promotes the value into memory before returning it
// (spec.md §4.4 read-through, §8 property 8).
func (c *Cache) Get(key string) ([]byte, bool) {
	if v, ok := c.mem.Get(key); ok {
		b, _ := v.([]byte)
		return b, true
	}
	v, ok := c.disk.Get(key)
	if !ok {
		return nil, false
	}
	c.mem.Set(key, v, uint64(len(v)))
	return v, true
}

// Set writes value into the memory tier then the disk tier (spec.md §4.4
// write-through ordering).
func (c *Cache) Set(key string, value []byte) bool {
	c.mem.Set(key, value, uint64(len(value)))
	return c.disk.Set(key, value, nil)
}

// Remove deletes key from the memory tier then the disk tier.
func (c *Cache) Remove(key string) {
	c.mem.Remove(key)
	c.disk.Remove(key)
}

// RemoveAll clears both tiers.
func (c *Cache) RemoveAll() {
	c.mem.RemoveAll()
	c.disk.RemoveAll()
}

// RemoveAllWithProgress clears both tiers, reporting disk-tier progress
// through progress/end (spec.md §4.4, §6: "a progress-and-end pair is
// provided for remove_all").
func (c *Cache) RemoveAllWithProgress(progress func(done, total int), end func(canceledOrErrored bool)) {
	c.mem.RemoveAll()
	c.disk.RemoveAllWithProgress(progress, end)
}

// Close tears down both tiers and, if this cache created its own
// background pool, releases it.
func (c *Cache) Close() error {
	c.mem.Close()
	err := c.disk.Close()
	if c.ownsPool {
		c.pool.Release()
	}
	return err
}
