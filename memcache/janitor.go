package memcache

import "time"

/*
janitor.go runs the periodic auto-trim task, generalizing the teacher's
startJanitor/Stop pair (Krishna8167/tempuscache janitor.go): a
time.Ticker on a dedicated goroutine, stopped through a close-once
channel.

spec.md §4.1 auto-trim protocol: each tick runs three trims in order —
cost, count, age — each using the limit-relative trim protocol.
startAutoTrim is not idempotent: every call starts another ticker
goroutine. New calls it exactly once, and Close (safe to call more than
once) stops it.
*/

func (c *Cache) startAutoTrim() {
	if c.autoTrimInterval <= 0 {
		return
	}

	ticker := time.NewTicker(c.autoTrimInterval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.TrimToCost(c.costLimit)
				c.TrimToCount(c.countLimit)
				c.TrimToAge(c.ageLimit)
			case <-c.stopChan:
				return
			}
		}
	}()
}
