package diskcache

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, opts ...Option) *Cache {
	t.Helper()
	root := t.TempDir()
	c, err := Open(root, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRoundTrip(t *testing.T) {
	c := newTestCache(t)
	require.True(t, c.Set("k", []byte("hello"), nil))

	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, []byte("hello"), v)
}

func TestIdempotentRemove(t *testing.T) {
	c := newTestCache(t)
	require.True(t, c.Set("k", []byte("v"), nil))
	require.True(t, c.Remove("k"))
	require.True(t, c.Remove("k"))
	require.False(t, c.Contains("k"))
}

// TestInlineThresholdSwitch checks spec.md §8 property 10 and the S5
// scenario: values at or under the threshold stay inline; larger values
// land in an external file.
func TestInlineThresholdSwitch(t *testing.T) {
	c := newTestCache(t, WithInlineThreshold(4))
	require.True(t, c.Set("s", []byte("hi"), nil))
	require.True(t, c.Set("l", []byte("hello"), nil))

	entries, err := os.ReadDir(c.engine.DataDir())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	sItem, ok := c.engine.GetInfo("s")
	require.True(t, ok)
	require.Empty(t, sItem.Filename)

	lItem, ok := c.engine.GetInfo("l")
	require.True(t, ok)
	require.NotEmpty(t, lItem.Filename)
}

func TestZeroThresholdForcesFileStorage(t *testing.T) {
	c := newTestCache(t, WithInlineThreshold(0))
	require.True(t, c.Set("k", []byte("v"), nil))

	item, ok := c.engine.GetInfo("k")
	require.True(t, ok)
	require.NotEmpty(t, item.Filename)
}

func TestMaxThresholdForcesInlineStorage(t *testing.T) {
	c := newTestCache(t, WithInlineThreshold(MaxThreshold))
	require.True(t, c.Set("k", []byte("v"), nil))

	item, ok := c.engine.GetInfo("k")
	require.True(t, ok)
	require.Empty(t, item.Filename)
}

// TestClearIsTotal checks spec.md §8 property 9 at the disk-cache level.
func TestClearIsTotal(t *testing.T) {
	c := newTestCache(t)
	require.True(t, c.Set("a", []byte("v"), nil))
	require.True(t, c.Set("b", []byte("v"), nil))

	require.True(t, c.RemoveAll())
	require.Equal(t, int64(0), c.Count())
	require.Equal(t, int64(0), c.Size())
}

func TestExtendedDataRoundTrip(t *testing.T) {
	c := newTestCache(t)
	require.True(t, c.Set("k", []byte("v"), []byte("meta")))

	data, ok := c.GetExtendedDataFor("k")
	require.True(t, ok)
	require.Equal(t, []byte("meta"), data)
}

func TestTrimToAgeEvictsOldEntries(t *testing.T) {
	c := newTestCache(t)
	require.True(t, c.Set("old", []byte("v"), nil))
	// Times are stored in whole seconds: sleeping a full second beyond
	// the age puts the cutoff in a later second than the write.
	time.Sleep(1600 * time.Millisecond)

	require.True(t, c.TrimToAge(500*time.Millisecond))
	require.False(t, c.Contains("old"))
}

func TestRecordExtendedDataHelpers(t *testing.T) {
	r := &Record{Value: []byte("v")}
	require.Nil(t, GetExtendedData(r))

	SetExtendedData(r, []byte("meta"))
	require.Equal(t, []byte("meta"), GetExtendedData(r))

	require.Nil(t, GetExtendedData(nil))
}
