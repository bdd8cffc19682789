package tieredcache

import (
	"go.uber.org/zap"

	"github.com/tempuscache/tieredcache/diskcache"
	"github.com/tempuscache/tieredcache/internal/execpool"
	"github.com/tempuscache/tieredcache/memcache"
)

type config struct {
	log      *zap.Logger
	pool     *execpool.Pool
	memOpts  []memcache.Option
	diskOpts []diskcache.Option
}

// Option configures a Cache at construction time.
type Option func(*config)

// WithLogger attaches a structured logger, forwarded to both tiers.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) { cfg.log = l }
}

// WithPool injects a shared background pool for the disk tier's trash
// drain, the memory tier's default destruction executor and the async
// facade calls, instead of the facade creating its own.
func WithPool(p *execpool.Pool) Option {
	return func(cfg *config) { cfg.pool = p }
}

// WithMemoryOptions forwards construction options to the memory tier
// (count/cost/age limits, destruction executor, signal source, ...).
func WithMemoryOptions(opts ...memcache.Option) Option {
	return func(cfg *config) { cfg.memOpts = append(cfg.memOpts, opts...) }
}

// WithDiskOptions forwards construction options to the disk tier
// (inline threshold, open backoff, db filename, ...).
func WithDiskOptions(opts ...diskcache.Option) Option {
	return func(cfg *config) { cfg.diskOpts = append(cfg.diskOpts, opts...) }
}
