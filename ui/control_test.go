package ui

import (
	"testing"
	"time"
)

func TestPlaybackControlPauseResume(t *testing.T) {
	pc := NewPlaybackControl()
	if !pc.ShouldRun() {
		t.Fatal("fresh control should run")
	}
	if pc.IsPaused() {
		t.Fatal("fresh control should not be paused")
	}

	// Simulated tick loop parking in CheckPause between ticks.
	stop := make(chan struct{})
	go func() {
		for pc.CheckPause() {
			select {
			case <-stop:
				return
			case <-time.After(time.Millisecond):
			}
		}
	}()
	defer close(stop)

	// RequestPause returns only after the loop has parked.
	done := make(chan struct{})
	go func() {
		pc.RequestPause()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RequestPause never acknowledged")
	}
	if !pc.IsPaused() {
		t.Error("control should be paused after acknowledgment")
	}

	// Duplicate pause requests return immediately.
	pc.RequestPause()

	pc.RequestResume()
	deadline := time.Now().Add(time.Second)
	for pc.IsPaused() {
		if time.Now().After(deadline) {
			t.Fatal("playback never resumed")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPlaybackControlStop(t *testing.T) {
	pc := NewPlaybackControl()

	pc.Stop()
	if pc.ShouldRun() {
		t.Error("control should not run after Stop")
	}
	if pc.CheckPause() {
		t.Error("CheckPause after Stop should report exit")
	}
}

func TestPlaybackControlStopWhilePaused(t *testing.T) {
	pc := NewPlaybackControl()

	exited := make(chan struct{})
	go func() {
		for pc.CheckPause() {
			time.Sleep(time.Millisecond)
		}
		close(exited)
	}()

	pc.RequestPause()
	if !pc.IsPaused() {
		t.Fatal("loop should be parked once RequestPause returns")
	}

	// Stop must wake the parked loop and make it exit.
	pc.Stop()
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("CheckPause did not exit after Stop")
	}
}

func TestPlaybackControlStopUnblocksPendingPause(t *testing.T) {
	pc := NewPlaybackControl()

	// No tick loop exists, so nothing will acknowledge the pause.
	done := make(chan struct{})
	go func() {
		pc.RequestPause()
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	pc.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RequestPause still blocked after Stop")
	}
}
