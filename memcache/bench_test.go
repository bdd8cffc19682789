package memcache

import "testing"

// BenchmarkSet measures the write path, mirroring the teacher's
// BenchmarkSet (Krishna8167/tempuscache benchmark_test.go).
func BenchmarkSet(b *testing.B) {
	c := New()
	defer c.Close()

	for i := 0; i < b.N; i++ {
		c.Set("key", "value", 1)
	}
}

func BenchmarkGet(b *testing.B) {
	c := New()
	defer c.Close()
	c.Set("key", "value", 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("key")
	}
}

func BenchmarkSetUniqueKeys(b *testing.B) {
	c := New(WithCountLimit(10_000))
	defer c.Close()

	keys := make([]string, b.N)
	for i := range keys {
		keys[i] = string(rune(i%26+'a')) + string(rune((i/26)%26+'a'))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(keys[i], i, 1)
	}
}
