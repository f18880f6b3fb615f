package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(t *testing.T, clock *fakeClock, opts Options) *Cache[[]string] {
	t.Helper()
	opts.Now = clock.Now
	if opts.RetryBaseDelay == 0 {
		opts.RetryBaseDelay = time.Millisecond
	}
	opts.Logf = t.Logf
	c := New[[]string](opts)
	t.Cleanup(c.Close)
	return c
}

// countingFetcher returns a fresh slice naming the call number on every call.
func countingFetcher(calls *atomic.Int32) Fetcher[[]string] {
	return func(context.Context) ([]string, error) {
		n := calls.Add(1)
		return []string{"call", string(rune('0' + n))}, nil
	}
}

func TestFetchLoadsAndCaches(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := newTestCache(t, clock, Options{})
	var calls atomic.Int32

	first := c.Get("posts", countingFetcher(&calls))
	assert.True(t, first.Loading())
	assert.False(t, first.HasData)

	got, err := c.Fetch(context.Background(), "posts", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"call", "1"}, got.Data)
	assert.Equal(t, StateIdle, got.State)
	assert.Equal(t, uint64(1), got.Version)
	assert.Equal(t, clock.Now(), got.FetchedAt)

	again := c.Get("posts", nil)
	assert.Equal(t, []string{"call", "1"}, again.Data)
	assert.False(t, again.Fetching)
	assert.Equal(t, int32(1), calls.Load())
}

func TestConcurrentReadsShareOneFetch(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, newFakeClock(), Options{})
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(context.Context) ([]string, error) {
		calls.Add(1)
		<-release
		return []string{"shared"}, nil
	}

	var readers sync.WaitGroup
	for range 10 {
		readers.Add(1)
		go func() {
			defer readers.Done()
			c.Get("posts", fetch)
		}()
	}

	results := make(chan Entry[[]string], 3)
	var waiters sync.WaitGroup
	for range 3 {
		waiters.Add(1)
		go func() {
			defer waiters.Done()
			got, err := c.Fetch(context.Background(), "posts", fetch)
			assert.NoError(t, err)
			results <- got
		}()
	}

	readers.Wait()
	close(release)
	waiters.Wait()
	close(results)

	for got := range results {
		assert.Equal(t, []string{"shared"}, got.Data)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestStaleDataIsServedWhileRefetching(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := newTestCache(t, clock, Options{StaleTime: time.Minute})
	var calls atomic.Int32
	fetch := countingFetcher(&calls)

	_, err := c.Fetch(context.Background(), "posts", fetch)
	require.NoError(t, err)

	clock.Advance(59 * time.Second)
	fresh := c.Get("posts", nil)
	assert.Equal(t, StateIdle, fresh.State)
	assert.Equal(t, int32(1), calls.Load())

	clock.Advance(time.Second)
	stale := c.Get("posts", nil)
	assert.True(t, stale.HasData)
	assert.False(t, stale.Loading())
	assert.Equal(t, []string{"call", "1"}, stale.Data)

	refreshed, err := c.Fetch(context.Background(), "posts", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"call", "2"}, refreshed.Data)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInvalidateForcesNextReadToRefetch(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, newFakeClock(), Options{})
	var calls atomic.Int32

	_, err := c.Fetch(context.Background(), "posts", countingFetcher(&calls))
	require.NoError(t, err)

	c.Invalidate("posts")
	peeked, ok := c.Peek("posts")
	require.True(t, ok)
	assert.True(t, peeked.Invalidated)
	assert.Equal(t, int32(1), calls.Load(), "unsubscribed keys refetch lazily")

	got, err := c.Fetch(context.Background(), "posts", nil)
	require.NoError(t, err)
	assert.False(t, got.Invalidated)
	assert.Equal(t, []string{"call", "2"}, got.Data)
}

func TestInvalidateUnknownKeyIsNoop(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, newFakeClock(), Options{})
	c.Invalidate("posts")
	assert.Equal(t, 0, c.Len())
}

func TestInvalidateDuringFetchIsNotMaskedByDedup(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, newFakeClock(), Options{})
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(context.Context) ([]string, error) {
		n := calls.Add(1)
		if n == 1 {
			close(started)
			<-release
			return []string{"before"}, nil
		}
		return []string{"after"}, nil
	}

	c.Get("posts", fetch)
	<-started
	c.Invalidate("posts")

	done := make(chan Entry[[]string], 1)
	go func() {
		got, err := c.Fetch(context.Background(), "posts", nil)
		assert.NoError(t, err)
		done <- got
	}()
	close(release)

	select {
	case got := <-done:
		assert.Equal(t, []string{"after"}, got.Data)
	case <-time.After(5 * time.Second):
		t.Fatal("Fetch did not return")
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestInvalidateRefetchesSubscribedKey(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, newFakeClock(), Options{})
	var calls atomic.Int32
	sub := c.Subscribe("posts", countingFetcher(&calls), nil)
	defer sub.Unsubscribe()

	require.Eventually(t, func() bool { return sub.Read().HasData }, 5*time.Second, time.Millisecond)

	c.Invalidate("posts")
	require.Eventually(t, func() bool {
		got, _ := c.Peek("posts")
		return calls.Load() == 2 && !got.Fetching && !got.Invalidated
	}, 5*time.Second, time.Millisecond)

	got := sub.Read()
	assert.Equal(t, []string{"call", "2"}, got.Data)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, newFakeClock(), Options{})
	var calls atomic.Int32
	fetch := func(context.Context) ([]string, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("store unavailable")
		}
		return []string{"ok"}, nil
	}

	got, err := c.Fetch(context.Background(), "posts", fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, got.Data)
	assert.Nil(t, got.Err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetriesExhaustedKeepsPreviousData(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := newTestCache(t, clock, Options{})
	failure := errors.New("store unavailable")
	var calls atomic.Int32
	fetch := func(context.Context) ([]string, error) {
		if calls.Add(1) == 1 {
			return []string{"kept"}, nil
		}
		return nil, failure
	}

	_, err := c.Fetch(context.Background(), "posts", fetch)
	require.NoError(t, err)

	clock.Advance(DefaultStaleTime)
	got, err := c.Fetch(context.Background(), "posts", nil)
	require.ErrorIs(t, err, failure)
	assert.Equal(t, StateError, got.State)
	assert.ErrorIs(t, got.Err, failure)
	assert.True(t, got.HasData)
	assert.Equal(t, []string{"kept"}, got.Data)
	assert.Equal(t, int32(1+DefaultMaxAttempts), calls.Load())
}

func TestMaxAttemptsOneDisablesRetry(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, newFakeClock(), Options{MaxAttempts: 1})
	var calls atomic.Int32
	fetch := func(context.Context) ([]string, error) {
		calls.Add(1)
		return nil, errors.New("boom")
	}

	got, err := c.Fetch(context.Background(), "posts", fetch)
	require.Error(t, err)
	assert.Equal(t, StateError, got.State)
	assert.False(t, got.HasData)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSuccessClearsPreviousError(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, newFakeClock(), Options{MaxAttempts: 1})
	var calls atomic.Int32
	fetch := func(context.Context) ([]string, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("boom")
		}
		return []string{"ok"}, nil
	}

	_, err := c.Fetch(context.Background(), "posts", fetch)
	require.Error(t, err)

	got, err := c.Fetch(context.Background(), "posts", nil)
	require.NoError(t, err)
	assert.Nil(t, got.Err)
	assert.Equal(t, StateIdle, got.State)
}

func TestRetryDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 0, want: 100 * time.Millisecond},
		{attempt: 1, want: 200 * time.Millisecond},
		{attempt: 2, want: 400 * time.Millisecond},
		{attempt: 8, want: 25600 * time.Millisecond},
		{attempt: 9, want: 30 * time.Second},
		{attempt: 40, want: 30 * time.Second},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Options{}.RetryDelay(tc.attempt), "attempt %d", tc.attempt)
	}
}

func TestFetchWithoutFetcher(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, newFakeClock(), Options{})
	got, err := c.Fetch(context.Background(), "posts", nil)
	require.ErrorIs(t, err, ErrNoFetcher)
	assert.Equal(t, StateError, got.State)
}

func TestFetchHonorsCallerContext(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, newFakeClock(), Options{})
	release := make(chan struct{})
	defer close(release)
	fetch := func(context.Context) ([]string, error) {
		<-release
		return []string{"late"}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := c.Fetch(ctx, "posts", fetch)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCloseCancelsBackgroundFetch(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, newFakeClock(), Options{MaxAttempts: 1})
	fetch := func(ctx context.Context) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	c.Get("posts", fetch)
	c.Close()

	require.Eventually(t, func() bool {
		got, _ := c.Peek("posts")
		return got.State == StateError && errors.Is(got.Err, context.Canceled)
	}, 5*time.Second, time.Millisecond)
}
