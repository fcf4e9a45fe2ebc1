package ui

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTickTimerFires(t *testing.T) {
	var ticks atomic.Int32
	tm := NewTickTimer()
	tm.SetInterval(5000) // 5 ms
	tm.SetFunction(func() { ticks.Add(1) })

	tm.Start()
	time.Sleep(60 * time.Millisecond)
	tm.Stop()

	got := ticks.Load()
	if got < 5 {
		t.Errorf("ticks in 60 ms at 5 ms interval = %d, want at least 5", got)
	}

	// Stopped timer fires no more.
	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	if ticks.Load() != after {
		t.Error("timer fired after Stop")
	}
}

func TestTickTimerInterval(t *testing.T) {
	tm := NewTickTimer()
	if got := tm.Interval(); got != 1000000 {
		t.Errorf("default interval = %d, want 1000000", got)
	}
	tm.SetInterval(16666)
	if got := tm.Interval(); got != 16666 {
		t.Errorf("interval = %d, want 16666", got)
	}
}

func TestTickTimerRestart(t *testing.T) {
	var ticks atomic.Int32
	tm := NewTickTimer()
	tm.SetInterval(5000)
	tm.SetFunction(func() { ticks.Add(1) })

	tm.Start()
	tm.Start() // no-op while running
	tm.Stop()
	tm.Stop() // no-op while stopped

	before := ticks.Load()
	tm.Start()
	time.Sleep(30 * time.Millisecond)
	tm.Stop()
	if ticks.Load() == before {
		t.Error("restarted timer never fired")
	}
}
