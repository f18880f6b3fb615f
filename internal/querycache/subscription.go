package querycache

import "sync"

// Subscription keeps a key active: it is not evicted, it is refetched right
// after invalidation and on Refocus or Reconnect.
type Subscription[T any] struct {
	cache    *Cache[T]
	key      string
	id       uint64
	listener func(Entry[T])
	once     sync.Once
}

// Subscribe registers interest in key and triggers a read. listener, when
// non-nil, receives a snapshot after every state change of the key. It runs
// on the goroutine that caused the change and must not block.
func (c *Cache[T]) Subscribe(key string, fetch Fetcher[T], listener func(Entry[T])) *Subscription[T] {
	c.mu.Lock()
	e := c.ensureLocked(key, fetch)
	c.subSeq++
	sub := &Subscription[T]{cache: c, key: key, id: c.subSeq, listener: listener}
	e.subscribers[sub.id] = sub
	e.inactiveSince = timeZero
	c.mu.Unlock()

	c.Get(key, nil)
	return sub
}

// Key returns the subscribed key.
func (s *Subscription[T]) Key() string { return s.key }

// Read returns the current snapshot, starting a refetch when it is stale.
func (s *Subscription[T]) Read() Entry[T] {
	return s.cache.Get(s.key, nil)
}

// Unsubscribe drops interest in the key. Once no subscriber remains the
// retention clock starts. Calling it more than once is a no-op.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		c := s.cache
		c.mu.Lock()
		defer c.mu.Unlock()
		e, ok := c.entries[s.key]
		if !ok {
			return
		}
		delete(e.subscribers, s.id)
		if len(e.subscribers) == 0 {
			e.inactiveSince = c.opts.Now()
		}
	})
}
