package diskstore

/*
stats.go mirrors memcache.Stats so the disk tier exposes the same
Hits/Misses/Evictions shape the memory tier does (SPEC_FULL.md §4:
"a Stats struct per tier"). Unlike memcache's Stats, which relies on the
cache's own mutex for synchronization, these counters are updated from
several independent code paths (Get, RemoveMany, and every
predicate/fit/trash delete), so they are atomic.Uint64 fields on Engine
rather than a plain struct guarded by one lock.
*/

// Stats is a point-in-time snapshot of engine performance counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns a snapshot of the engine's hit/miss/eviction counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Hits:      e.hits.Load(),
		Misses:    e.misses.Load(),
		Evictions: e.evictions.Load(),
	}
}
