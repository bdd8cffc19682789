package tieredcache

// async.go implements the asynchronous sibling of every synchronous
// facade operation (spec.md §4.4, §6): each dispatches the synchronous
// call onto the shared background pool and invokes the caller's
// completion callback with a signature mirroring the result type.

// ContainsAsync dispatches Contains and reports (key, present) on
// completion.
func (c *Cache) ContainsAsync(key string, done func(key string, present bool)) {
	c.pool.Submit(func() {
		present := c.Contains(key)
		if done != nil {
			done(key, present)
		}
	})
}

// GetAsync dispatches Get and reports (key, value) on completion; value
// is nil on miss.
func (c *Cache) GetAsync(key string, done func(key string, value []byte)) {
	c.pool.Submit(func() {
		v, _ := c.Get(key)
		if done != nil {
			done(key, v)
		}
	})
}

// SetAsync dispatches Set and invokes done with no arguments on
// completion.
func (c *Cache) SetAsync(key string, value []byte, done func()) {
	c.pool.Submit(func() {
		c.Set(key, value)
		if done != nil {
			done()
		}
	})
}

// RemoveAsync dispatches Remove and reports (key) on completion.
func (c *Cache) RemoveAsync(key string, done func(key string)) {
	c.pool.Submit(func() {
		c.Remove(key)
		if done != nil {
			done(key)
		}
	})
}

// RemoveAllAsync dispatches RemoveAll and invokes done with no arguments
// on completion.
func (c *Cache) RemoveAllAsync(done func()) {
	c.pool.Submit(func() {
		c.RemoveAll()
		if done != nil {
			done()
		}
	})
}

// RemoveAllWithProgressAsync dispatches RemoveAllWithProgress; progress
// and end are invoked on the background goroutine, matching the
// synchronous disk-tier progress callback's calling context.
func (c *Cache) RemoveAllWithProgressAsync(progress func(done, total int), end func(canceledOrErrored bool)) {
	c.pool.Submit(func() {
		c.RemoveAllWithProgress(progress, end)
	})
}
