// Package loop runs plugin work on a single goroutine, in the order it was submitted.
package loop

import (
	"context"
	"errors"
	"time"

	"github.com/pixil98/go-quicksell/internal/debounce"
)

const DefaultQueueSize = 256

// ErrStopped is returned when work is submitted to a loop that is not running.
var ErrStopped = errors.New("loop stopped")

// Loop is a FIFO executor. Everything posted to it runs on the goroutine
// that called Start, one task at a time.
type Loop struct {
	tasks   chan func()
	started chan struct{}
	done    chan struct{}
}

type LoopOpt func(*Loop)

// WithQueueSize sets how many tasks may wait before Post blocks.
func WithQueueSize(n int) LoopOpt {
	return func(l *Loop) {
		l.tasks = make(chan func(), n)
	}
}

func New(opts ...LoopOpt) *Loop {
	l := &Loop{
		tasks:   make(chan func(), DefaultQueueSize),
		started: make(chan struct{}),
		done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Start runs queued tasks until ctx is canceled. It must only be called once.
func (l *Loop) Start(ctx context.Context) error {
	close(l.started)
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Started is closed once Start has been called.
func (l *Loop) Started() <-chan struct{} {
	return l.started
}

// Post queues fn. It returns ErrStopped if the loop has exited.
// Tasks must not call Post or Call themselves while the queue may be full.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}

	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Call runs fn on the loop and waits for its result. It must not be used
// from a task already running on the loop.
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	res := make(chan error, 1)
	err := l.Post(func() { res <- fn() })
	if err != nil {
		return err
	}

	select {
	case err := <-res:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}

// AfterFunc arms a timer whose callback runs on the loop. Stopping the timer
// from the loop guarantees the callback does not run, even if the timer had
// already gone off and the callback is waiting in the queue.
func (l *Loop) AfterFunc(d time.Duration, fn func()) debounce.Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		// Ignoring post error - a stopped loop has nobody left to refresh
		_ = l.Post(func() {
			if lt.stopped {
				return
			}
			fn()
		})
	})
	return lt
}

type loopTimer struct {
	t       *time.Timer
	stopped bool
}

// Stop must be called from the loop goroutine.
func (lt *loopTimer) Stop() bool {
	lt.stopped = true
	return lt.t.Stop()
}
