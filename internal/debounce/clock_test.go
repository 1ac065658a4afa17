package debounce

import "time"

// fakeClock records timers so tests decide when they go off.
type fakeClock struct {
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: c.now + d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs every live timer that is due.
func (c *fakeClock) Advance(d time.Duration) {
	c.now += d
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			t.fn()
		}
	}
}
