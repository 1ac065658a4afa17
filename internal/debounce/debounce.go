// Package debounce coalesces bursts of triggers per key into one delayed call.
package debounce

import (
	"sync"
	"time"
)

// Timer is a pending delayed call.
type Timer interface {
	Stop() bool
}

// AfterFunc arms a timer that calls f once d has elapsed.
type AfterFunc func(d time.Duration, f func()) Timer

// StdAfterFunc schedules with time.AfterFunc. Callbacks run on their own goroutine.
func StdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer keeps at most one pending call per key. Scheduling again for a
// key cancels the previous call and restarts the delay.
type Debouncer[K comparable] struct {
	delay time.Duration
	after AfterFunc

	mu      sync.Mutex
	seq     uint64
	pending map[K]*entry
}

type entry struct {
	id    uint64
	timer Timer
}

// New creates a Debouncer firing delay after the last Schedule for a key.
// A nil after uses StdAfterFunc.
func New[K comparable](delay time.Duration, after AfterFunc) *Debouncer[K] {
	if after == nil {
		after = StdAfterFunc
	}
	return &Debouncer[K]{
		delay:   delay,
		after:   after,
		pending: map[K]*entry{},
	}
}

// Delay returns the configured delay.
func (d *Debouncer[K]) Delay() time.Duration {
	return d.delay
}

// Schedule arms fn for key, replacing any call still pending for it.
func (d *Debouncer[K]) Schedule(key K, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked(key)

	d.seq++
	e := &entry{id: d.seq}
	d.pending[key] = e
	e.timer = d.after(d.delay, func() { d.fire(key, e.id, fn) })
}

func (d *Debouncer[K]) fire(key K, id uint64, fn func()) {
	d.mu.Lock()
	cur, ok := d.pending[key]
	if !ok || cur.id != id {
		// superseded or canceled after the timer had already gone off
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	fn()
}

// Cancel stops the pending call for key. It reports whether one was pending.
func (d *Debouncer[K]) Cancel(key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.cancelLocked(key)
}

func (d *Debouncer[K]) cancelLocked(key K) bool {
	e, ok := d.pending[key]
	if !ok {
		return false
	}
	delete(d.pending, key)
	if e.timer != nil {
		e.timer.Stop()
	}
	return true
}

// Pending reports whether a call is armed for key.
func (d *Debouncer[K]) Pending(key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.pending[key]
	return ok
}

// Len returns the number of keys with a pending call.
func (d *Debouncer[K]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.pending)
}
