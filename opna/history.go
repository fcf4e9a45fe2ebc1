package opna

import "sync"

// OutputHistorySize is the number of recent stereo frames retained for
// waveform display.
const OutputHistorySize = 1024

// outputHistory keeps a double-buffered window of the most recent mixed
// samples. The stream goroutine appends into the working buffer and
// publishes a linearized snapshot whenever the reader is not holding the
// ready buffer, so the audio path never blocks on a slow UI.
type outputHistory struct {
	work  [2 * OutputHistorySize]int16 // ring, write position = index
	index int

	readyMu sync.Mutex
	ready   [2 * OutputHistorySize]int16
}

// fill appends interleaved stereo samples to the ring and tries to publish.
func (h *outputHistory) fill(samples []int16) {
	n := len(samples) / 2
	if n > OutputHistorySize {
		samples = samples[2*(n-OutputHistorySize):]
		n = OutputHistorySize
	}

	back := OutputHistorySize - h.index
	if back > n {
		back = n
	}
	copy(h.work[2*h.index:], samples[:2*back])
	copy(h.work[:], samples[2*back:])
	h.index = (h.index + n) % OutputHistorySize

	if h.readyMu.TryLock() {
		h.publish()
		h.readyMu.Unlock()
	}
}

// publish linearizes the ring into the ready buffer, oldest frame first.
// Callers must hold readyMu.
func (h *outputHistory) publish() {
	copy(h.ready[:], h.work[2*h.index:])
	copy(h.ready[2*(OutputHistorySize-h.index):], h.work[:2*h.index])
}

// snapshot copies the published history into dst.
func (h *outputHistory) snapshot(dst []int16) {
	h.readyMu.Lock()
	copy(dst, h.ready[:])
	h.readyMu.Unlock()
}

func (h *outputHistory) reset() {
	h.readyMu.Lock()
	h.work = [2 * OutputHistorySize]int16{}
	h.ready = [2 * OutputHistorySize]int16{}
	h.index = 0
	h.readyMu.Unlock()
}
