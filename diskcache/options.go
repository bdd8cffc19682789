package diskcache

import (
	"time"

	"go.uber.org/zap"

	"github.com/tempuscache/tieredcache/diskstore"
	"github.com/tempuscache/tieredcache/internal/execpool"
)

// Option configures a Cache at construction time. Some options also
// shape the underlying engine, so Open collects them into an
// []diskstore.Option alongside setting fields directly on the Cache.
type Option func(*Cache, *[]diskstore.Option)

// WithInlineThreshold sets the length boundary at or below which values
// are stored inline. It also selects the engine's storage type: 0 forces
// StorageFile, MaxThreshold forces StorageSQLite, anything else is
// StorageMixed (spec.md §4.3).
func WithInlineThreshold(n int64) Option {
	return func(c *Cache, _ *[]diskstore.Option) { c.inlineThreshold = n }
}

// WithLogger attaches a structured logger, forwarded to the engine too.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache, _ *[]diskstore.Option) {
		if l != nil {
			c.log = l
		}
	}
}

// WithPool injects the shared background pool the engine uses for its
// trash drain.
func WithPool(p *execpool.Pool) Option {
	return func(_ *Cache, engineOpts *[]diskstore.Option) {
		*engineOpts = append(*engineOpts, diskstore.WithPool(p))
	}
}

// WithOpenBackoff forwards to diskstore.WithOpenBackoff.
func WithOpenBackoff(d time.Duration) Option {
	return func(_ *Cache, engineOpts *[]diskstore.Option) {
		*engineOpts = append(*engineOpts, diskstore.WithOpenBackoff(d))
	}
}

// WithDBFilename forwards to diskstore.WithDBFilename.
func WithDBFilename(name string) Option {
	return func(_ *Cache, engineOpts *[]diskstore.Option) {
		*engineOpts = append(*engineOpts, diskstore.WithDBFilename(name))
	}
}
