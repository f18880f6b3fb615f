// Package forms holds the per-visitor state machines behind the post forms
// and the post list.
package forms

import (
	"context"
	"log"
	"sync"
	"time"
)

// Phase is the lifecycle phase of a form.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSuccess    Phase = "success"
	PhaseError      Phase = "error"
)

// DefaultNoticeDuration is how long a success notice stays visible.
const DefaultNoticeDuration = 5 * time.Second

// Timer is the subset of *time.Timer used for notice expiry.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Runner performs the write behind a form.
type Runner[In, Out any] interface {
	Run(ctx context.Context, in In) (Out, error)
}

// Config wires a Controller.
type Config[In, Out any] struct {
	// Name labels log lines.
	Name     string
	Runner   Runner[In, Out]
	Validate func(In) error
	// ResetOnSuccess clears the field values after a successful submit.
	ResetOnSuccess bool
	// ResetOnSubmit clears the field values once a submit passes validation,
	// whatever its outcome.
	ResetOnSubmit bool
	NoticeDuration time.Duration
	AfterFunc      AfterFunc
	// OnSuccess observes accepted results, after controller state is updated.
	OnSuccess func(in In, out Out)
}

// View is a snapshot of a form for rendering.
type View[In, Out any] struct {
	Phase  Phase
	Values In
	Result Out
	Err    error
}

// Submitting reports whether a submit is in flight.
func (v View[In, Out]) Submitting() bool { return v.Phase == PhaseSubmitting }

// Notice reports whether the success notice is visible.
func (v View[In, Out]) Notice() bool { return v.Phase == PhaseSuccess }

// Failed reports whether an error notice is visible.
func (v View[In, Out]) Failed() bool { return v.Phase == PhaseError && v.Err != nil }

// Controller drives one form: Idle, Submitting, then a timed success notice
// or an error notice that stays until the next submit. A closed controller
// ignores submits and drops responses that arrive late.
type Controller[In, Out any] struct {
	cfg Config[In, Out]

	mu     sync.Mutex
	view   View[In, Out]
	seq    uint64
	timer  Timer
	closed bool
}

// NewController builds an idle controller.
func NewController[In, Out any](cfg Config[In, Out]) *Controller[In, Out] {
	if cfg.NoticeDuration <= 0 {
		cfg.NoticeDuration = DefaultNoticeDuration
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = realAfterFunc
	}
	return &Controller[In, Out]{cfg: cfg, view: View[In, Out]{Phase: PhaseIdle}}
}

// View returns the current snapshot.
func (c *Controller[In, Out]) View() View[In, Out] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Submit validates in and, when valid, runs the write. It returns the view
// after the outcome is applied. Validation failures never reach the runner.
func (c *Controller[In, Out]) Submit(ctx context.Context, in In) View[In, Out] {
	c.mu.Lock()
	if c.closed {
		defer c.mu.Unlock()
		return c.view
	}
	c.seq++
	seq := c.seq
	c.stopTimerLocked()

	if c.cfg.Validate != nil {
		if err := c.cfg.Validate(in); err != nil {
			c.view = View[In, Out]{Phase: PhaseError, Values: in, Err: err}
			defer c.mu.Unlock()
			return c.view
		}
	}
	kept := in
	if c.cfg.ResetOnSubmit {
		var zero In
		kept = zero
	}
	c.view = View[In, Out]{Phase: PhaseSubmitting, Values: kept}
	c.mu.Unlock()

	out, err := c.cfg.Runner.Run(ctx, in)

	c.mu.Lock()
	if c.closed || seq != c.seq {
		defer c.mu.Unlock()
		log.Printf("form response discarded form=%s", c.cfg.Name)
		return c.view
	}
	if ctx.Err() != nil {
		// Nobody is waiting for this outcome; leave the form usable.
		c.view = View[In, Out]{Phase: PhaseIdle, Values: kept}
		defer c.mu.Unlock()
		log.Printf("form response discarded form=%s err=%v", c.cfg.Name, ctx.Err())
		return c.view
	}
	if err != nil {
		c.view = View[In, Out]{Phase: PhaseError, Values: kept, Err: err}
		defer c.mu.Unlock()
		return c.view
	}

	values := kept
	if c.cfg.ResetOnSuccess {
		var zero In
		values = zero
	}
	c.view = View[In, Out]{Phase: PhaseSuccess, Values: values, Result: out}
	c.timer = c.cfg.AfterFunc(c.cfg.NoticeDuration, func() { c.expireNotice(seq) })
	view := c.view
	c.mu.Unlock()

	if c.cfg.OnSuccess != nil {
		c.cfg.OnSuccess(in, out)
	}
	return view
}

// Close cancels the notice timer and detaches the controller from any
// submit still in flight.
func (c *Controller[In, Out]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimerLocked()
}

// Closed reports whether Close has been called.
func (c *Controller[In, Out]) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller[In, Out]) expireNotice(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.seq || c.view.Phase != PhaseSuccess {
		return
	}
	c.timer = nil
	c.view = View[In, Out]{Phase: PhaseIdle, Values: c.view.Values}
}

func (c *Controller[In, Out]) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
