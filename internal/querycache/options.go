package querycache

import (
	"log"
	"time"
)

const (
	// DefaultStaleTime is how long fetched data counts as fresh.
	DefaultStaleTime = 5 * time.Minute
	// DefaultRetentionTime is how long an entry without subscribers is kept.
	DefaultRetentionTime = 15 * time.Minute
	// DefaultMaxAttempts bounds fetch attempts per read, first try included.
	DefaultMaxAttempts = 3
	// DefaultRetryBaseDelay is the delay before the first retry.
	DefaultRetryBaseDelay = 100 * time.Millisecond
	// DefaultRetryMaxDelay caps the delay between retries.
	DefaultRetryMaxDelay = 30 * time.Second
	// DefaultSweepInterval is how often Run looks for expired entries.
	DefaultSweepInterval = time.Minute
)

// Options tunes cache timing. Zero values select the defaults above.
type Options struct {
	StaleTime      time.Duration
	RetentionTime  time.Duration
	MaxAttempts    int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	DisableRefetchOnFocus     bool
	DisableRefetchOnReconnect bool

	// Now overrides the clock used for freshness and retention.
	Now func() time.Time
	// Logf receives retry and eviction logs. Defaults to log.Printf.
	Logf func(format string, args ...any)
}

func (o Options) normalized() Options {
	if o.StaleTime <= 0 {
		o.StaleTime = DefaultStaleTime
	}
	if o.RetentionTime <= 0 {
		o.RetentionTime = DefaultRetentionTime
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.RetryBaseDelay <= 0 {
		o.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if o.RetryMaxDelay <= 0 {
		o.RetryMaxDelay = DefaultRetryMaxDelay
	}
	if o.RetryMaxDelay < o.RetryBaseDelay {
		o.RetryMaxDelay = o.RetryBaseDelay
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logf == nil {
		o.Logf = log.Printf
	}
	return o
}

// RetryDelay returns the wait before retry attempt (0-based):
// min(base*2^attempt, max).
func (o Options) RetryDelay(attempt int) time.Duration {
	o = o.normalized()
	delay := o.RetryBaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= o.RetryMaxDelay {
			return o.RetryMaxDelay
		}
	}
	return delay
}
