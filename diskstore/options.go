package diskstore

import (
	"time"

	"go.uber.org/zap"

	"github.com/tempuscache/tieredcache/internal/execpool"
)

// Option configures an Engine at construction time, following the same
// functional-options shape memcache.Option uses.
type Option func(*Engine)

// WithStorageType selects how Save chooses between inline and external
// payloads. Default is StorageMixed.
func WithStorageType(t StorageType) Option {
	return func(e *Engine) { e.storageType = t }
}

// WithLogger attaches a structured logger for open/exec/filesystem
// failures (spec.md §7: "logged, if enabled").
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithPool injects the shared background pool used for the swap-to-trash
// drain. RemoveAllWithProgress, including its use as RemoveAll's fallback,
// runs on the calling goroutine. A private pool is created if none is
// given.
func WithPool(p *execpool.Pool) Option {
	return func(e *Engine) { e.pool = p }
}

// WithOpenBackoff sets the minimum delay between retrying a failed
// database open (spec.md §4.2: "back off so that open failures do not
// tight-loop"). Default 500ms.
func WithOpenBackoff(d time.Duration) Option {
	return func(e *Engine) { e.openBackoff = d }
}

// WithDBFilename overrides the manifest file's base name. Default
// "manifest.db", matching spec.md §4.2's "<root>/manifest.<db>" layout.
func WithDBFilename(name string) Option {
	return func(e *Engine) { e.dbFilename = name }
}
