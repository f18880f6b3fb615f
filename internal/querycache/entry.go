package querycache

import (
	"context"
	"time"
)

// State is the fetch lifecycle state of an entry.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateError   State = "error"
)

// Fetcher loads the value stored under a key.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Entry is a point-in-time snapshot of one cache key. Data is shared with
// other readers and must be treated as read-only.
type Entry[T any] struct {
	Key         string
	Data        T
	HasData     bool
	FetchedAt   time.Time
	State       State
	Err         error
	Fetching    bool
	Invalidated bool
	Version     uint64
}

// Loading reports whether nothing can be shown yet because the first fetch
// is still running.
func (e Entry[T]) Loading() bool {
	return !e.HasData && e.State == StateLoading
}

type entry[T any] struct {
	data      T
	hasData   bool
	fetchedAt time.Time
	err       error
	fetching  bool
	version   uint64

	// gen moves forward on every invalidation; fetchedGen records the gen a
	// fetch started under. Data is fresh only while fetchedGen >= gen.
	gen        uint64
	fetchedGen uint64

	fetch         Fetcher[T]
	subscribers   map[uint64]*Subscription[T]
	inactiveSince time.Time
}

func (e *entry[T]) invalidated() bool {
	return e.fetchedGen < e.gen
}

func (e *entry[T]) state() State {
	switch {
	case e.fetching:
		return StateLoading
	case e.err != nil:
		return StateError
	case !e.hasData:
		return StateLoading
	default:
		return StateIdle
	}
}

func (e *entry[T]) snapshot(key string) Entry[T] {
	return Entry[T]{
		Key:         key,
		Data:        e.data,
		HasData:     e.hasData,
		FetchedAt:   e.fetchedAt,
		State:       e.state(),
		Err:         e.err,
		Fetching:    e.fetching,
		Invalidated: e.hasData && e.invalidated(),
		Version:     e.version,
	}
}
