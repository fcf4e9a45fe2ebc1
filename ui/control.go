package ui

import "sync"

// playState tracks where the tick loop is in the pause/stop handshake.
type playState int

const (
	statePlaying playState = iota
	statePausePending // pause asked for, tick loop has not parked yet
	statePaused
	stateStopped
)

// PlaybackControl coordinates pause and stop between the terminal side and
// the tick loop. The tick loop calls CheckPause between ticks and parks
// inside it while paused; RequestPause does not return until the loop has
// actually parked, so the caller knows no further audio is produced.
type PlaybackControl struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state playState
}

func NewPlaybackControl() *PlaybackControl {
	pc := &PlaybackControl{}
	pc.cond = sync.NewCond(&pc.mu)
	return pc
}

// RequestPause asks the tick loop to pause and blocks until it parks in
// CheckPause. Returns immediately if already paused or stopped.
func (pc *PlaybackControl) RequestPause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.state != statePlaying {
		return
	}
	pc.state = statePausePending
	pc.cond.Broadcast()
	for pc.state == statePausePending {
		pc.cond.Wait()
	}
}

// RequestResume releases a paused or pausing tick loop.
func (pc *PlaybackControl) RequestResume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.state == statePaused || pc.state == statePausePending {
		pc.state = statePlaying
		pc.cond.Broadcast()
	}
}

// CheckPause is the tick loop's side of the handshake. On a pending pause
// it acknowledges, then sleeps on the condition until resumed or stopped.
// Returns false when the loop should exit.
func (pc *PlaybackControl) CheckPause() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.state == statePausePending {
		pc.state = statePaused
		pc.cond.Broadcast()
	}
	for pc.state == statePaused {
		pc.cond.Wait()
	}
	return pc.state != stateStopped
}

// Stop ends the session, waking anything parked in CheckPause or blocked
// in RequestPause.
func (pc *PlaybackControl) Stop() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.state = stateStopped
	pc.cond.Broadcast()
}

// ShouldRun reports whether the tick loop should keep going.
func (pc *PlaybackControl) ShouldRun() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.state != stateStopped
}

// IsPaused reports whether the tick loop is parked.
func (pc *PlaybackControl) IsPaused() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.state == statePaused
}
