package querycache

import (
	"context"
	"sort"
	"time"
)

var timeZero time.Time

// Sweep evicts entries that have had no subscriber for at least the
// retention period and returns their keys in sorted order. Entries with a
// fetch in flight are kept.
func (c *Cache[T]) Sweep() []string {
	now := c.opts.Now()
	var evicted []string

	c.mu.Lock()
	for key, e := range c.entries {
		if len(e.subscribers) > 0 || e.fetching || e.inactiveSince.IsZero() {
			continue
		}
		if now.Sub(e.inactiveSince) >= c.opts.RetentionTime {
			delete(c.entries, key)
			evicted = append(evicted, key)
		}
	}
	c.mu.Unlock()

	sort.Strings(evicted)
	return evicted
}

// Run sweeps expired entries every interval until ctx is done or the cache
// is closed.
func (c *Cache[T]) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if evicted := c.Sweep(); len(evicted) > 0 {
				c.opts.Logf("query cache evicted keys=%v", evicted)
			}
		}
	}
}
