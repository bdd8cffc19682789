package memcache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

/*
cache_test.go mirrors the teacher's cache_test.go structure
(Krishna8167/tempuscache): set/get round trip, delete idempotence, a
concurrency stress test, and a stats-tracking check. Assertions use
testify's require instead of the teacher's bare t.Fatal, matching the
test dependency most of the retrieved corpus reaches for.
*/

func TestSetAndGet(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("a", "b", 0)

	val, found := c.Get("a")
	require.True(t, found)
	require.Equal(t, "b", val)
}

// TestRoundTrip checks spec.md §8 property 5: for any non-empty key and
// non-empty value, set(k, v); get(k) = v.
func TestRoundTrip(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("k", []byte("hello"), 0)
	val, found := c.Get("k")
	require.True(t, found)
	require.Equal(t, []byte("hello"), val)
}

func TestIdempotentRemove(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("a", "b", 0)
	c.Remove("a")
	c.Remove("a")

	_, found := c.Get("a")
	require.False(t, found)
}

func TestNilValueIsExplicitRemove(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("a", "b", 0)
	c.Set("a", nil, 0)

	_, found := c.Get("a")
	require.False(t, found)
}

func TestEmptyKeyIgnored(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("", "v", 0)
	_, found := c.Get("")
	require.False(t, found)
	require.False(t, c.Contains(""))
}

// TestLRUOrdering checks spec.md §8 property 1 / scenario S1: after
// set(a); set(b); set(c) with count_limit=2, only {b, c} survive.
func TestLRUOrdering(t *testing.T) {
	c := New(WithCountLimit(2))
	defer c.Close()

	c.Set("a", "A", 0)
	c.Set("b", "B", 0)
	c.Set("c", "C", 0)

	_, found := c.Get("a")
	require.False(t, found, "a should have been evicted")

	v, found := c.Get("b")
	require.True(t, found)
	require.Equal(t, "B", v)

	v, found = c.Get("c")
	require.True(t, found)
	require.Equal(t, "C", v)
}

// TestAccessPromotes checks spec.md §8 property 2: set(a); set(b);
// set(c); get(a); trim_to_count(2) leaves {a, c}.
func TestAccessPromotes(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("a", "A", 0)
	c.Set("b", "B", 0)
	c.Set("c", "C", 0)
	_, _ = c.Get("a")

	c.TrimToCount(2)

	require.True(t, c.Contains("a"))
	require.True(t, c.Contains("c"))
	require.False(t, c.Contains("b"))
}

func TestDelete(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("a", "b", 0)
	c.Remove("a")

	_, found := c.Get("a")
	require.False(t, found)
}

func TestConcurrentAccess(t *testing.T) {
	c := New()
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set("key", i, 1)
			c.Get("key")
		}(i)
	}
	wg.Wait()
}

func TestStatsTracking(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("a", 1, 0)
	c.Get("a") // hit
	c.Get("b") // miss

	stats := c.Stats()
	require.Equal(t, uint64(1), stats.Hits)
	require.Equal(t, uint64(1), stats.Misses)
}

func TestTierCoherenceOnSet(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("k", "v", 0)
	require.True(t, c.Contains("k"))
}

func TestClearIsTotal(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("a", "A", 1)
	c.Set("b", "B", 1)
	c.RemoveAll()

	require.Equal(t, uint64(0), c.TotalCount())
}

// TestReplaceWithByteSliceDoesNotPanic guards against comparing two
// interface{} values that both box an uncomparable dynamic type
// ([]byte): replacing a []byte-valued key must not panic.
func TestReplaceWithByteSliceDoesNotPanic(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("k", []byte("v1"), 0)
	require.NotPanics(t, func() {
		c.Set("k", []byte("v2"), 0)
	})

	v, found := c.Get("k")
	require.True(t, found)
	require.Equal(t, []byte("v2"), v)
}

// TestCostTrimScheduledOnReplace checks that replacing an existing key
// with a higher-cost value schedules the same cost-trim the insert path
// schedules, per spec.md §4.1 ("set" generally, not only inserts).
func TestCostTrimScheduledOnReplace(t *testing.T) {
	c := New(WithCostLimit(10))
	defer c.Close()

	c.Set("k", "small", 4)
	c.Set("k", "big", 20)

	require.Eventually(t, func() bool {
		return c.TotalCost() <= 10
	}, time.Second, time.Millisecond)
}

func TestManualSignalSourceClearsOnMemoryWarning(t *testing.T) {
	signals := NewManualSignalSource()
	c := New(WithSignalSource(signals))
	defer c.Close()

	c.Set("a", "A", 0)
	signals.FireMemoryWarning()

	require.Eventually(t, func() bool {
		return c.TotalCount() == 0
	}, time.Second, time.Millisecond)
}
