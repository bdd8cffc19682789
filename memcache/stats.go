package memcache

/*
stats.go mirrors the teacher's stats.go (Krishna8167/tempuscache), which
tracks Hits/Misses/Evictions with no internal locking, relying on the
Cache's own mutex for synchronization. spec.md §6 groups this under the
memory cache's "extras"; it is not a named operation but the Testable
Properties and End-to-end Scenarios in spec.md §8 are most naturally
checked against it in tests.
*/

// Stats is a point-in-time snapshot of cache performance counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}
