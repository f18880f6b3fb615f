package forms

import (
	"context"
	"sync"
	"time"

	"github.com/louisbranch/postdesk/internal/posts"
)

type fakeTimer struct {
	mu       sync.Mutex
	duration time.Duration
	fn       func()
	stopped  bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

// Fire runs the callback unless the timer was stopped.
func (t *fakeTimer) Fire() {
	t.mu.Lock()
	stopped := t.stopped
	t.stopped = true
	t.mu.Unlock()
	if !stopped {
		t.fn()
	}
}

func (t *fakeTimer) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &fakeTimer{duration: d, fn: fn}
	c.timers = append(c.timers, timer)
	return timer
}

func (c *fakeClock) Timers() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*fakeTimer(nil), c.timers...)
}

type fakeWriter struct {
	mu    sync.Mutex
	calls []string

	createErr  error
	updateErr  error
	deleteErr  error
	commentErr error
	// block, when set, holds every call until it is closed.
	block   chan struct{}
	entered chan struct{}
}

var _ PostWriter = (*fakeWriter)(nil)

func (f *fakeWriter) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeWriter) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeWriter) CreatePost(_ context.Context, draft posts.Draft) (posts.Post, error) {
	f.record("create")
	if f.createErr != nil {
		return posts.Post{}, f.createErr
	}
	return posts.Post{ID: 101, Title: draft.Title, Body: draft.Body, UserID: 1}, nil
}

func (f *fakeWriter) UpdatePost(_ context.Context, id string, draft posts.Draft) (posts.Post, error) {
	f.record("update " + id)
	if f.updateErr != nil {
		return posts.Post{}, f.updateErr
	}
	return posts.Post{ID: 1, Title: draft.Title, Body: draft.Body, UserID: 1}, nil
}

func (f *fakeWriter) DeletePost(_ context.Context, id string) (posts.Deleted, error) {
	f.record("delete " + id)
	if f.deleteErr != nil {
		return posts.Deleted{}, f.deleteErr
	}
	return posts.Deleted{ID: 1}, nil
}

func (f *fakeWriter) CreateComment(_ context.Context, draft posts.CommentDraft) (posts.Comment, error) {
	f.record("comment " + draft.PostID)
	if f.commentErr != nil {
		return posts.Comment{}, f.commentErr
	}
	return posts.Comment{ID: 501, Body: draft.Body, PostID: 1}, nil
}

type recordingInvalidator struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordingInvalidator) Invalidate(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
}

func (r *recordingInvalidator) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.keys...)
}
