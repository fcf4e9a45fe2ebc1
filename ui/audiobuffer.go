package ui

import (
	"io"
	"sync"
)

// AudioRingBuffer holds interleaved stereo int16 samples between the tick
// loop and oto. The producer pushes whole tick mixes with Write; oto pulls
// little endian bytes through io.Reader. Read blocks while empty, Write
// drops the oldest samples on overflow so a stalled player never blocks
// the engine.
type AudioRingBuffer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []int16
	head   int // index of the oldest sample
	count  int
	closed bool
}

// NewAudioRingBuffer creates a ring buffer holding capacity samples.
// Interleaved stereo means capacity/2 frames.
func NewAudioRingBuffer(capacity int) *AudioRingBuffer {
	rb := &AudioRingBuffer{buf: make([]int16, capacity)}
	rb.cond = sync.NewCond(&rb.mu)
	return rb
}

// Write queues samples without blocking. When the buffer is full the
// oldest samples are discarded; a write larger than the whole buffer keeps
// only its tail.
func (rb *AudioRingBuffer) Write(samples []int16) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.closed || len(samples) == 0 {
		return
	}

	capacity := len(rb.buf)
	if len(samples) > capacity {
		samples = samples[len(samples)-capacity:]
	}
	if over := rb.count + len(samples) - capacity; over > 0 {
		rb.head = (rb.head + over) % capacity
		rb.count -= over
	}

	tail := (rb.head + rb.count) % capacity
	for _, s := range samples {
		rb.buf[tail] = s
		tail = (tail + 1) % capacity
	}
	rb.count += len(samples)

	rb.cond.Signal()
}

// Read implements io.Reader for oto, emitting buffered samples as little
// endian int16 pairs. Blocks until samples arrive; returns io.EOF once
// closed and drained.
func (rb *AudioRingBuffer) Read(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for rb.count == 0 {
		if rb.closed {
			return 0, io.EOF
		}
		rb.cond.Wait()
	}

	n := len(p) / 2
	if n > rb.count {
		n = rb.count
	}
	capacity := len(rb.buf)
	for i := 0; i < n; i++ {
		s := rb.buf[(rb.head+i)%capacity]
		p[2*i] = byte(s)
		p[2*i+1] = byte(s >> 8)
	}
	rb.head = (rb.head + n) % capacity
	rb.count -= n

	return 2 * n, nil
}

// Buffered returns the queued audio in bytes, matching the unit of oto's
// player buffer so the two can be summed for pacing.
func (rb *AudioRingBuffer) Buffered() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return 2 * rb.count
}

// Clear discards all queued samples.
func (rb *AudioRingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.head = 0
	rb.count = 0
}

// Close signals shutdown, waking any blocked Read. Later writes are
// discarded; reads drain the remainder and then return io.EOF.
func (rb *AudioRingBuffer) Close() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.closed = true
	rb.cond.Broadcast()
}
