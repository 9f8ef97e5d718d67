// Package loop provides the cooperative scheduler the playback engine runs
// on. Every callback runs to completion on a single goroutine, so engine
// state needs no locking; timers only enqueue work.
package loop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Handle cancels a scheduled callback. Cancel is idempotent.
type Handle interface {
	Cancel()
	Cancelled() bool
}

// Scheduler is what the engine, the fader and the notifier schedule on.
type Scheduler interface {
	Now() time.Time
	// Repeat runs fn every interval until the handle is cancelled.
	Repeat(interval time.Duration, fn func()) Handle
	// After runs fn once after delay unless cancelled first.
	After(delay time.Duration, fn func()) Handle
	// Post queues fn to run on the loop. Safe from any goroutine.
	Post(fn func())
}

// Stop cancels h if it is non-nil. Call sites keep their handle in a field
// and clear it with Stop before installing a replacement.
func Stop(h Handle) {
	if h != nil {
		h.Cancel()
	}
}

type handle struct {
	cancelled atomic.Bool
	timer     *time.Timer
	mu        sync.Mutex
}

func (h *handle) Cancel() {
	h.cancelled.Store(true)
	h.mu.Lock()
	if h.timer != nil {
		h.timer.Stop()
	}
	h.mu.Unlock()
}

func (h *handle) Cancelled() bool {
	return h.cancelled.Load()
}

// Loop is a single-goroutine event loop backed by real timers.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// New creates a loop with room for size queued callbacks.
func New(size int) *Loop {
	if size <= 0 {
		size = 256
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Run processes callbacks until ctx is cancelled. It must be called from
// exactly one goroutine.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) Now() time.Time {
	return time.Now()
}

func (l *Loop) Post(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

func (l *Loop) After(delay time.Duration, fn func()) Handle {
	h := &handle{}
	h.mu.Lock()
	h.timer = time.AfterFunc(delay, func() {
		l.Post(func() {
			if h.Cancelled() {
				return
			}
			h.cancelled.Store(true)
			fn()
		})
	})
	h.mu.Unlock()
	return h
}

func (l *Loop) Repeat(interval time.Duration, fn func()) Handle {
	h := &handle{}
	var tick func()
	tick = func() {
		l.Post(func() {
			if h.Cancelled() {
				return
			}
			fn()
			if h.Cancelled() {
				return
			}
			h.mu.Lock()
			h.timer = time.AfterFunc(interval, tick)
			h.mu.Unlock()
		})
	}
	h.mu.Lock()
	h.timer = time.AfterFunc(interval, tick)
	h.mu.Unlock()
	return h
}

var _ Scheduler = (*Loop)(nil)
