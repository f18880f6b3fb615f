// Package mutation runs one-shot write operations and tracks their status.
package mutation

import (
	"context"
	"sync"
)

// State is the lifecycle state of a runner.
type State string

const (
	StateIdle    State = "idle"
	StatePending State = "pending"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Func performs the write.
type Func[In, Out any] func(ctx context.Context, in In) (Out, error)

// Status is a snapshot of the most recent run.
type Status[Out any] struct {
	State  State
	Result Out
	Err    error
	// Run counts completed and in-flight runs.
	Run uint64
}

// Option configures a Runner.
type Option[In, Out any] func(*Runner[In, Out])

// WithOnSuccess registers a side effect that runs after a successful write
// and before Run returns, typically a cache invalidation.
func WithOnSuccess[In, Out any](fn func(ctx context.Context, in In, out Out)) Option[In, Out] {
	return func(r *Runner[In, Out]) {
		r.onSuccess = append(r.onSuccess, fn)
	}
}

// Runner executes a Func and records the outcome. Failed runs are never
// retried and a new Run while one is pending is not blocked; the status
// reflects the most recently started run.
type Runner[In, Out any] struct {
	fn        Func[In, Out]
	onSuccess []func(ctx context.Context, in In, out Out)

	mu     sync.Mutex
	status Status[Out]
}

// New builds a runner around fn.
func New[In, Out any](fn Func[In, Out], opts ...Option[In, Out]) *Runner[In, Out] {
	r := &Runner[In, Out]{fn: fn, status: Status[Out]{State: StateIdle}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the write. The returned error is exactly the one fn produced.
func (r *Runner[In, Out]) Run(ctx context.Context, in In) (Out, error) {
	r.mu.Lock()
	r.status = Status[Out]{State: StatePending, Run: r.status.Run + 1}
	run := r.status.Run
	r.mu.Unlock()

	out, err := r.fn(ctx, in)
	if err == nil {
		for _, fn := range r.onSuccess {
			fn(ctx, in, out)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Run == run {
		if err != nil {
			r.status = Status[Out]{State: StateError, Err: err, Run: run}
		} else {
			r.status = Status[Out]{State: StateSuccess, Result: out, Run: run}
		}
	}
	return out, err
}

// Status returns the state of the most recently started run.
func (r *Runner[In, Out]) Status() Status[Out] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Reset returns the runner to idle unless a run is pending.
func (r *Runner[In, Out]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.State != StatePending {
		r.status = Status[Out]{State: StateIdle, Run: r.status.Run}
	}
}
