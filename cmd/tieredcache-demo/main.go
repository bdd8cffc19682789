// Command tieredcache-demo exercises the facade end to end against a
// temporary cache directory: a write, a read-through after an explicit
// memory eviction, and a timed clear.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tempuscache/tieredcache"
	"github.com/tempuscache/tieredcache/memcache"
)

func main() {
	name := flag.String("name", "tieredcache-demo", "cache name under the per-user caches directory")
	path := flag.String("path", "", "absolute root path; overrides -name when set")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	opts := []tieredcache.Option{
		tieredcache.WithLogger(logger),
		tieredcache.WithMemoryOptions(memcache.WithCountLimit(128)),
	}

	var c *tieredcache.Cache
	if *path != "" {
		c = tieredcache.ByPath(*path, opts...)
	} else {
		c = tieredcache.ByName(*name, opts...)
	}
	if c == nil {
		fmt.Fprintln(os.Stderr, "tieredcache-demo: failed to open cache")
		os.Exit(1)
	}
	defer c.Close()

	key, value := "greeting", []byte("hello from the tiered cache")
	if !c.Set(key, value) {
		fmt.Fprintln(os.Stderr, "tieredcache-demo: set failed")
		os.Exit(1)
	}
	fmt.Printf("set %q (%d bytes)\n", key, len(value))

	c.MemoryCache().TrimToCount(0)
	fmt.Printf("memory resident after trim: %v\n", c.MemoryCache().Contains(key))

	if v, ok := c.Get(key); ok {
		fmt.Printf("read-through get %q = %q\n", key, v)
	}
	fmt.Printf("memory resident after get: %v\n", c.MemoryCache().Contains(key))

	done := make(chan struct{})
	c.RemoveAllWithProgressAsync(
		func(doneN, total int) { fmt.Printf("clearing %d/%d\n", doneN, total) },
		func(errored bool) {
			fmt.Printf("clear finished, errored=%v\n", errored)
			close(done)
		},
	)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		fmt.Fprintln(os.Stderr, "tieredcache-demo: clear timed out")
	}
}
