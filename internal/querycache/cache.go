package querycache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/singleflight"
)

// ErrNoFetcher is reported when a key is read before any fetcher was
// registered for it.
var ErrNoFetcher = errors.New("querycache: no fetcher registered for key")

// Cache holds keyed results of type T. It is safe for concurrent use.
type Cache[T any] struct {
	opts   Options
	group  singleflight.Group
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	entries map[string]*entry[T]
	genSeq  uint64
	subSeq  uint64
}

// New builds a cache. Background fetches run until Close is called.
func New[T any](opts Options) *Cache[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache[T]{
		opts:    opts.normalized(),
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]*entry[T]),
	}
}

// Close cancels in-flight background fetches. Reads keep returning cached
// data but no new fetch will succeed.
func (c *Cache[T]) Close() {
	c.cancel()
}

// Get returns the current snapshot for key without blocking. When the entry
// is missing, stale or invalidated a background fetch is started, unless one
// is already running for the key. A nil fetch reuses the last registered
// fetcher.
func (c *Cache[T]) Get(key string, fetch Fetcher[T]) Entry[T] {
	c.mu.Lock()
	e := c.ensureLocked(key, fetch)
	if len(e.subscribers) == 0 {
		e.inactiveSince = c.opts.Now()
	}
	start := !e.fetching && c.staleLocked(e) && e.fetch != nil
	snap := e.snapshot(key)
	fetchFn := e.fetch
	c.mu.Unlock()

	if start {
		c.launch(key, fetchFn)
	}
	return snap
}

// Peek returns the snapshot for key without triggering a fetch.
func (c *Cache[T]) Peek(key string) (Entry[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Entry[T]{Key: key, State: StateIdle}, false
	}
	return e.snapshot(key), true
}

// Fetch blocks until the entry holds data fetched no earlier than the most
// recent invalidation seen at call time. A running fetch that started before
// that invalidation is waited out and followed by a fresh one. On failure the
// returned snapshot still carries any previous data.
//
// Fetch is the synchronous counterpart of Get for callers that must wait for
// a result, such as batch jobs and tests; page handlers use Get or Subscribe.
func (c *Cache[T]) Fetch(ctx context.Context, key string, fetch Fetcher[T]) (Entry[T], error) {
	c.mu.Lock()
	e := c.ensureLocked(key, fetch)
	wantGen := e.gen
	fetchFn := e.fetch
	c.mu.Unlock()

	if fetchFn == nil {
		return Entry[T]{Key: key, State: StateError, Err: ErrNoFetcher}, ErrNoFetcher
	}

	for {
		c.mu.Lock()
		e = c.ensureLocked(key, nil)
		fresh := e.hasData && e.fetchedGen >= wantGen && !c.expiredLocked(e)
		snap := e.snapshot(key)
		c.mu.Unlock()
		if fresh {
			return snap, nil
		}

		ch := c.group.DoChan(key, c.runner(key, fetchFn))
		select {
		case <-ctx.Done():
			return snap, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				current, _ := c.Peek(key)
				return current, res.Err
			}
		}
	}
}

// Invalidate marks key stale. Subscribed keys are refetched in the
// background right away; others are refetched by the next read.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	c.genSeq++
	e.gen = c.genSeq
	refetch := len(e.subscribers) > 0 && !e.fetching && e.fetch != nil
	fetchFn := e.fetch
	c.mu.Unlock()

	if refetch {
		c.launch(key, fetchFn)
	}
	c.notify(key)
}

// Refocus refetches every subscribed key, as when a viewer returns to the
// page. It returns the number of keys refetched.
func (c *Cache[T]) Refocus() int {
	if c.opts.DisableRefetchOnFocus {
		return 0
	}
	return c.refetchActive()
}

// Reconnect refetches every subscribed key after connectivity comes back.
func (c *Cache[T]) Reconnect() int {
	if c.opts.DisableRefetchOnReconnect {
		return 0
	}
	return c.refetchActive()
}

// Len returns the number of cached keys.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[T]) refetchActive() int {
	type target struct {
		key   string
		fetch Fetcher[T]
	}
	var targets []target
	c.mu.Lock()
	for key, e := range c.entries {
		if len(e.subscribers) == 0 || e.fetch == nil || e.fetching {
			continue
		}
		targets = append(targets, target{key: key, fetch: e.fetch})
	}
	c.mu.Unlock()

	for _, t := range targets {
		c.launch(t.key, t.fetch)
	}
	return len(targets)
}

func (c *Cache[T]) ensureLocked(key string, fetch Fetcher[T]) *entry[T] {
	e, ok := c.entries[key]
	if !ok {
		e = &entry[T]{
			gen:           c.genSeq,
			fetchedGen:    c.genSeq,
			subscribers:   make(map[uint64]*Subscription[T]),
			inactiveSince: c.opts.Now(),
		}
		c.entries[key] = e
	}
	if fetch != nil {
		e.fetch = fetch
	}
	return e
}

func (c *Cache[T]) expiredLocked(e *entry[T]) bool {
	return c.opts.Now().Sub(e.fetchedAt) >= c.opts.StaleTime
}

func (c *Cache[T]) staleLocked(e *entry[T]) bool {
	return !e.hasData || e.invalidated() || c.expiredLocked(e)
}

// launch starts a background fetch for key, joining the running one if any.
func (c *Cache[T]) launch(key string, fetch Fetcher[T]) {
	c.group.DoChan(key, c.runner(key, fetch))
}

func (c *Cache[T]) runner(key string, fetch Fetcher[T]) func() (any, error) {
	return func() (any, error) {
		c.mu.Lock()
		e := c.ensureLocked(key, nil)
		startGen := e.gen
		e.fetching = true
		c.mu.Unlock()
		c.notify(key)

		data, err := c.fetchWithRetry(key, fetch)

		c.mu.Lock()
		e = c.ensureLocked(key, nil)
		e.fetching = false
		if err == nil {
			e.data = data
			e.hasData = true
			e.fetchedAt = c.opts.Now()
			e.fetchedGen = startGen
			e.err = nil
			e.version++
		} else {
			e.err = err
		}
		snap := e.snapshot(key)
		c.mu.Unlock()
		c.notify(key)
		return snap, err
	}
}

func (c *Cache[T]) fetchWithRetry(key string, fetch Fetcher[T]) (T, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.opts.RetryBaseDelay
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxInterval = c.opts.RetryMaxDelay

	attempt := 0
	return backoff.Retry(c.ctx, func() (T, error) {
		attempt++
		return fetch(c.ctx)
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.opts.MaxAttempts)),
		backoff.WithNotify(func(err error, delay time.Duration) {
			c.opts.Logf("query cache retry key=%s attempt=%d delay=%s err=%v", key, attempt, delay, err)
		}),
	)
}

func (c *Cache[T]) notify(key string) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || len(e.subscribers) == 0 {
		c.mu.Unlock()
		return
	}
	snap := e.snapshot(key)
	listeners := make([]func(Entry[T]), 0, len(e.subscribers))
	for _, sub := range e.subscribers {
		if sub.listener != nil {
			listeners = append(listeners, sub.listener)
		}
	}
	c.mu.Unlock()

	for _, listener := range listeners {
		listener(snap)
	}
}
