package memcache

import "github.com/tempuscache/tieredcache/internal/execpool"

/*
executor.go implements the "destruction executor" first-class parameter
called for in spec.md §9 Design Notes: evicted values (potentially owning
expensive-to-destroy resources, e.g. decoded images) should have their
destructors run off the critical path, on a caller-chosen executor.

Three implementations cover the source's "release on main thread / release
asynchronously" flag pair:

  - InlineExecutor runs destructors synchronously, in the goroutine
    that scheduled them, after the cache lock has been released. Only
    useful for cheap values or tests.
  - MainThreadExecutor forwards work to a single dedicated goroutine,
    the closest Go analogue to "the main/UI thread" the source pins
    destructors to.
  - PoolExecutor fans work out across a bounded goroutine pool (the
    default), so a burst of evictions does not serialize behind one
    worker.
*/

// DestructionExecutor runs value-destructor callbacks for evicted nodes.
type DestructionExecutor interface {
	Run(fn func())
}

// InlineExecutor runs the destructor synchronously on the calling
// goroutine.
type InlineExecutor struct{}

func (InlineExecutor) Run(fn func()) { fn() }

// MainThreadExecutor serializes destructors onto one dedicated goroutine,
// started by NewMainThreadExecutor and left running until Close. Intended for destructors that mutate state (e.g. UI widgets)
// that may only be touched from a single goroutine.
type MainThreadExecutor struct {
	work chan func()
	stop chan struct{}
}

// NewMainThreadExecutor starts the dedicated worker goroutine.
func NewMainThreadExecutor() *MainThreadExecutor {
	e := &MainThreadExecutor{
		work: make(chan func(), 256),
		stop: make(chan struct{}),
	}
	go e.loop()
	return e
}

func (e *MainThreadExecutor) loop() {
	for {
		select {
		case fn := <-e.work:
			fn()
		case <-e.stop:
			return
		}
	}
}

func (e *MainThreadExecutor) Run(fn func()) {
	select {
	case e.work <- fn:
	case <-e.stop:
	}
}

// Close stops the dedicated goroutine. Safe to call once.
func (e *MainThreadExecutor) Close() { close(e.stop) }

// PoolExecutor runs destructors on a shared execpool.Pool. This is the
// default destruction executor: background, asynchronous, bounded.
type PoolExecutor struct {
	pool *execpool.Pool
}

// NewPoolExecutor wraps an existing pool. Pass nil to get a fresh
// pool sized execpool.DefaultSize.
func NewPoolExecutor(pool *execpool.Pool) *PoolExecutor {
	if pool == nil {
		pool, _ = execpool.New(execpool.DefaultSize)
	}
	return &PoolExecutor{pool: pool}
}

func (e *PoolExecutor) Run(fn func()) {
	e.pool.Submit(fn)
}
