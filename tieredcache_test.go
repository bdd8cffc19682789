package tieredcache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tempuscache/tieredcache/memcache"
)

func timeoutChan() <-chan time.Time {
	return time.After(2 * time.Second)
}

func TestByPathRejectsEmptyPath(t *testing.T) {
	require.Nil(t, ByPath(""))
}

func TestByNameRejectsEmptyName(t *testing.T) {
	require.Nil(t, ByName(""))
}

// TestTierCoherenceOnSet checks spec.md §8 property 7: after set(k, v),
// both tiers report contains(k) = true.
func TestTierCoherenceOnSet(t *testing.T) {
	c := ByPath(t.TempDir())
	require.NotNil(t, c)
	defer c.Close()

	require.True(t, c.Set("k", []byte("v")))
	require.True(t, c.MemoryCache().Contains("k"))
	require.True(t, c.DiskCache().Contains("k"))
}

// TestReadThroughPopulation checks spec.md §8 property 8: a key present
// only on disk is promoted into memory on get.
func TestReadThroughPopulation(t *testing.T) {
	c := ByPath(t.TempDir())
	require.NotNil(t, c)
	defer c.Close()

	require.True(t, c.DiskCache().Set("k", []byte("v"), nil))
	require.False(t, c.MemoryCache().Contains("k"))

	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, []byte("v"), v)
	require.True(t, c.MemoryCache().Contains("k"))
}

// TestPromotionAfterMemoryEviction is scenario S6: a value evicted from
// memory is still retrievable via the disk tier and re-promoted.
func TestPromotionAfterMemoryEviction(t *testing.T) {
	c := ByPath(t.TempDir())
	require.NotNil(t, c)
	defer c.Close()

	require.True(t, c.Set("k", []byte("v")))
	c.MemoryCache().TrimToCount(0)
	require.False(t, c.MemoryCache().Contains("k"))

	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, []byte("v"), v)
	require.True(t, c.MemoryCache().Contains("k"))
}

// TestDiskRoundTripAcrossRestart is scenario S4: a value survives the
// cache being closed and reopened at the same path.
func TestDiskRoundTripAcrossRestart(t *testing.T) {
	root := t.TempDir()

	c1 := ByPath(root)
	require.NotNil(t, c1)
	require.True(t, c1.Set("k", []byte("hello")))
	require.NoError(t, c1.Close())

	c2 := ByPath(root)
	require.NotNil(t, c2)
	defer c2.Close()

	v, ok := c2.Get("k")
	require.True(t, ok)
	require.Equal(t, []byte("hello"), v)
}

func TestRemoveClearsBothTiers(t *testing.T) {
	c := ByPath(t.TempDir())
	require.NotNil(t, c)
	defer c.Close()

	require.True(t, c.Set("k", []byte("v")))
	c.Remove("k")
	require.False(t, c.Contains("k"))
	require.False(t, c.MemoryCache().Contains("k"))
	require.False(t, c.DiskCache().Contains("k"))
}

func TestRemoveAllClearsBothTiers(t *testing.T) {
	c := ByPath(t.TempDir())
	require.NotNil(t, c)
	defer c.Close()

	require.True(t, c.Set("a", []byte("v")))
	require.True(t, c.Set("b", []byte("v")))
	c.RemoveAll()

	require.Equal(t, uint64(0), c.MemoryCache().TotalCount())
	require.Equal(t, int64(0), c.DiskCache().Count())
}

func TestAsyncGetDeliversValue(t *testing.T) {
	c := ByPath(t.TempDir())
	require.NotNil(t, c)
	defer c.Close()

	require.True(t, c.Set("k", []byte("v")))

	done := make(chan []byte, 1)
	c.GetAsync("k", func(key string, value []byte) {
		done <- value
	})

	select {
	case v := <-done:
		require.Equal(t, []byte("v"), v)
	case <-timeoutChan():
		t.Fatal("async get did not complete")
	}
}

func TestAsyncRemoveAllWithProgressReportsEnd(t *testing.T) {
	c := ByPath(t.TempDir())
	require.NotNil(t, c)
	defer c.Close()

	for _, k := range []string{"a", "b", "c"} {
		require.True(t, c.Set(k, []byte("v")))
	}

	ended := make(chan bool, 1)
	c.RemoveAllWithProgressAsync(nil, func(canceledOrErrored bool) {
		ended <- canceledOrErrored
	})

	select {
	case errored := <-ended:
		require.False(t, errored)
	case <-timeoutChan():
		t.Fatal("async remove-all did not complete")
	}
}

func TestWithMemoryOptionsForwardsCountLimit(t *testing.T) {
	c := ByPath(t.TempDir(), WithMemoryOptions(memcache.WithCountLimit(2)))
	require.NotNil(t, c)
	defer c.Close()

	require.Equal(t, uint64(2), c.MemoryCache().CountLimit())
}

func TestNameIsLastPathSegment(t *testing.T) {
	root := t.TempDir()
	c := ByPath(filepath.Join(root, "my-cache"))
	require.NotNil(t, c)
	defer c.Close()

	require.Equal(t, "my-cache", c.Name())
}
