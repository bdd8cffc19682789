// Package execpool provides a small shared goroutine-pool wrapper used by
// every tier (memcache destruction, diskstore trash drain, facade async
// calls) so that background work is bounded instead of spawning an
// unbounded number of raw goroutines.
package execpool

import (
	"github.com/panjf2000/ants/v2"
)

// Pool submits work to a bounded set of reusable goroutines.
type Pool struct {
	p *ants.Pool
}

// DefaultSize is used when a caller does not specify a pool size.
const DefaultSize = 64

// New creates a pool with the given worker capacity. size <= 0 uses
// DefaultSize.
func New(size int) (*Pool, error) {
	if size <= 0 {
		size = DefaultSize
	}
	p, err := ants.NewPool(size, ants.WithNonblocking(false))
	if err != nil {
		return nil, err
	}
	return &Pool{p: p}, nil
}

// Submit schedules fn to run on the pool. If the pool has been released,
// fn runs synchronously on the calling goroutine as a fallback so callers
// never silently lose work during shutdown races.
func (p *Pool) Submit(fn func()) {
	if p == nil || p.p == nil {
		fn()
		return
	}
	if err := p.p.Submit(fn); err != nil {
		fn()
	}
}

// Running reports the number of goroutines currently executing pool work.
func (p *Pool) Running() int {
	if p == nil || p.p == nil {
		return 0
	}
	return p.p.Running()
}

// Release stops accepting work and waits for idle workers to exit.
func (p *Pool) Release() {
	if p == nil || p.p == nil {
		return
	}
	p.p.Release()
}
