package ui

import (
	"sync"
	"sync/atomic"
	"time"
)

// TickTimer fires a callback at a fixed interval from its own goroutine.
// The interval can be retuned while running; the new value takes effect
// on the next tick.
type TickTimer struct {
	intervalUs atomic.Int64
	fn         func()

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewTickTimer creates a stopped timer.
func NewTickTimer() *TickTimer {
	t := &TickTimer{}
	t.intervalUs.Store(int64(time.Second / time.Microsecond))
	return t
}

// SetFunction sets the tick callback. Must not be called while running.
func (t *TickTimer) SetFunction(fn func()) {
	t.mu.Lock()
	t.fn = fn
	t.mu.Unlock()
}

// SetInterval sets the tick period in microseconds.
func (t *TickTimer) SetInterval(us int64) {
	t.intervalUs.Store(us)
}

// Interval returns the tick period in microseconds.
func (t *TickTimer) Interval() int64 {
	return t.intervalUs.Load()
}

// Start launches the timer goroutine. A second Start without an
// intervening Stop is a no-op.
func (t *TickTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.stopCh = make(chan struct{})
	t.doneCh = make(chan struct{})
	go t.loop(t.stopCh, t.doneCh)
}

func (t *TickTimer) loop(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	next := time.Now()
	for {
		next = next.Add(time.Duration(t.intervalUs.Load()) * time.Microsecond)
		wait := time.Until(next)
		if wait < 0 {
			// Fell behind; resynchronize instead of firing a burst.
			next = time.Now()
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-stopCh:
			timer.Stop()
			return
		case <-timer.C:
		}

		t.mu.Lock()
		fn := t.fn
		t.mu.Unlock()
		if fn != nil {
			fn()
		}
	}
}

// Stop halts the timer and waits for the goroutine to exit. Safe to call
// on a stopped timer.
func (t *TickTimer) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	stopCh, doneCh := t.stopCh, t.doneCh
	t.mu.Unlock()

	close(stopCh)
	<-doneCh
}
