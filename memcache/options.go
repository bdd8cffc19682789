package memcache

import (
	"time"

	"go.uber.org/zap"
)

/*
options.go implements the functional-options pattern the teacher cache
uses (Krishna8167/tempuscache's WithCleanupInterval), extended to cover
every configuration knob spec.md §4.1 enumerates:

    count_limit, cost_limit, age_limit, auto_trim_interval,
    clear_on_memory_warning, clear_on_background, destruction_executor,
    on_memory_warning, on_background.

Adding a new option never changes New's signature, matching the teacher's
stated rationale (API stability, readability, extensibility).
*/

// Option configures a Cache at construction time.
type Option func(*Cache)

const unboundedLimit = ^uint64(0)

// WithCountLimit bounds the maximum live node count. Zero evicts
// everything on the next trim.
func WithCountLimit(n uint64) Option {
	return func(c *Cache) { c.countLimit = n }
}

// WithCostLimit bounds the sum of live node costs.
func WithCostLimit(n uint64) Option {
	return func(c *Cache) { c.costLimit = n }
}

// WithAgeLimit bounds now-accessTime for any live node.
func WithAgeLimit(d time.Duration) Option {
	return func(c *Cache) { c.ageLimit = d }
}

// WithAutoTrimInterval sets the period between background trims.
// Default is 5 seconds, matching spec.md §4.1.
func WithAutoTrimInterval(d time.Duration) Option {
	return func(c *Cache) { c.autoTrimInterval = d }
}

// WithClearOnMemoryWarning toggles remove_all on a low-memory platform
// signal. Default true.
func WithClearOnMemoryWarning(enabled bool) Option {
	return func(c *Cache) { c.clearOnMemoryWarning = enabled }
}

// WithClearOnBackground toggles remove_all on a background-transition
// platform signal. Default true.
func WithClearOnBackground(enabled bool) Option {
	return func(c *Cache) { c.clearOnBackground = enabled }
}

// WithDestructionExecutor selects where evicted-value destructors run.
// Default is a PoolExecutor on a fresh pool of execpool.DefaultSize
// workers.
func WithDestructionExecutor(e DestructionExecutor) Option {
	return func(c *Cache) { c.destructor = e }
}

// WithMemoryWarningObserver registers a callback fired before the
// optional clear on a low-memory signal.
func WithMemoryWarningObserver(fn func()) Option {
	return func(c *Cache) { c.onMemoryWarning = fn }
}

// WithBackgroundObserver registers a callback fired before the optional
// clear on a background-transition signal.
func WithBackgroundObserver(fn func()) Option {
	return func(c *Cache) { c.onBackground = fn }
}

// WithSignalSource injects the platform notification source. Defaults to
// nil (no platform signals delivered).
func WithSignalSource(s PlatformSignalSource) Option {
	return func(c *Cache) { c.signals = s }
}

// WithLogger attaches a structured logger for trim/evict/clear
// diagnostics. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// WithCapacityHint preallocates the arena's backing slice, avoiding
// growth reallocation for callers who know their working set size.
func WithCapacityHint(n int) Option {
	return func(c *Cache) { c.capacityHint = n }
}
