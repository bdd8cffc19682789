package memcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestCostTrimming checks spec.md §8 property 3 and scenario S2.
func TestCostTrimming(t *testing.T) {
	c := New(WithCostLimit(10))
	defer c.Close()

	c.Set("x", "X", 6)
	c.Set("y", "Y", 6)

	c.TrimToCost(10)

	require.LessOrEqual(t, c.TotalCost(), uint64(10))
	require.Equal(t, uint64(1), c.TotalCount())
	require.True(t, c.Contains("y"), "most recently written entry should survive")
}

func TestCostTrimmingSingleEntryExceedsLimit(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("huge", "V", 100)
	c.TrimToCost(10)

	require.Equal(t, uint64(0), c.TotalCount(), "sole oversized entry is evicted; the trim stops once the list is empty")
}

// TestAgeTrimming checks spec.md §8 property 4 and scenario S3.
func TestAgeTrimming(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("k", "V", 0)
	time.Sleep(20 * time.Millisecond)

	c.TrimToAge(10 * time.Millisecond)

	_, found := c.Get("k")
	require.False(t, found)
}

func TestTrimToCountZeroClearsAll(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("a", "A", 0)
	c.Set("b", "B", 0)
	c.TrimToCount(0)

	require.Equal(t, uint64(0), c.TotalCount())
}

func TestTrimToCountNoop(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("a", "A", 0)
	c.TrimToCount(5)

	require.Equal(t, uint64(1), c.TotalCount())
}

// TestPromotionAfterMemoryEviction checks scenario S6's memory half:
// evicting via trim_to_count(0) leaves the cache empty, ready for the
// facade layer to repopulate on a disk hit.
func TestPromotionAfterMemoryEviction(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("k", "V", 0)
	c.TrimToCount(0)

	require.False(t, c.Contains("k"))
}

func TestAutoTrimRunsPeriodically(t *testing.T) {
	c := New(WithCountLimit(1), WithAutoTrimInterval(5*time.Millisecond))
	defer c.Close()

	c.Set("a", "A", 0)
	c.Set("b", "B", 0)

	require.Eventually(t, func() bool {
		return c.TotalCount() <= 1
	}, time.Second, 5*time.Millisecond)
}
