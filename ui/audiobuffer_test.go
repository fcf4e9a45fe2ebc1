package ui

import (
	"io"
	"testing"
	"time"
)

// readSamples drains n samples through the byte-oriented Read side and
// decodes them back to int16.
func readSamples(t *testing.T, rb *AudioRingBuffer, n int) []int16 {
	t.Helper()
	p := make([]byte, 2*n)
	got, err := rb.Read(p)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if got%2 != 0 {
		t.Fatalf("Read returned %d bytes, want a whole number of samples", got)
	}
	out := make([]int16, got/2)
	for i := range out {
		out[i] = int16(p[2*i]) | int16(p[2*i+1])<<8
	}
	return out
}

func sampleSlicesEqual(a, b []int16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAudioRingBufferReadWrite(t *testing.T) {
	rb := NewAudioRingBuffer(8)

	rb.Write([]int16{100, -100, 32767, -32768})
	if got := rb.Buffered(); got != 8 {
		t.Fatalf("Buffered = %d bytes, want 8", got)
	}

	got := readSamples(t, rb, 4)
	if !sampleSlicesEqual(got, []int16{100, -100, 32767, -32768}) {
		t.Errorf("Read samples = %v", got)
	}
	if got := rb.Buffered(); got != 0 {
		t.Errorf("Buffered after drain = %d, want 0", got)
	}
}

func TestAudioRingBufferOverflowDropsOldest(t *testing.T) {
	rb := NewAudioRingBuffer(4)

	rb.Write([]int16{1, 2, 3, 4})
	rb.Write([]int16{5, 6})

	got := readSamples(t, rb, 4)
	if !sampleSlicesEqual(got, []int16{3, 4, 5, 6}) {
		t.Errorf("Read samples = %v, want [3 4 5 6]", got)
	}
}

func TestAudioRingBufferOversizeWriteKeepsTail(t *testing.T) {
	rb := NewAudioRingBuffer(4)

	rb.Write([]int16{1, 2, 3, 4, 5, 6, 7, 8})

	got := readSamples(t, rb, 4)
	if !sampleSlicesEqual(got, []int16{5, 6, 7, 8}) {
		t.Errorf("Read samples = %v, want [5 6 7 8]", got)
	}
}

func TestAudioRingBufferBlockingRead(t *testing.T) {
	rb := NewAudioRingBuffer(8)

	done := make(chan []int16)
	go func() {
		p := make([]byte, 2)
		n, _ := rb.Read(p)
		out := make([]int16, n/2)
		for i := range out {
			out[i] = int16(p[2*i]) | int16(p[2*i+1])<<8
		}
		done <- out
	}()

	select {
	case <-done:
		t.Fatal("Read returned before any write")
	case <-time.After(20 * time.Millisecond):
	}

	rb.Write([]int16{9})
	select {
	case got := <-done:
		if !sampleSlicesEqual(got, []int16{9}) {
			t.Errorf("Read samples = %v, want [9]", got)
		}
	case <-time.After(time.Second):
		t.Fatal("Read did not wake after write")
	}
}

func TestAudioRingBufferCloseUnblocks(t *testing.T) {
	rb := NewAudioRingBuffer(8)

	errCh := make(chan error)
	go func() {
		_, err := rb.Read(make([]byte, 2))
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	rb.Close()

	select {
	case err := <-errCh:
		if err != io.EOF {
			t.Errorf("Read after close = %v, want io.EOF", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Read did not unblock on close")
	}

	// Writes after close are discarded.
	rb.Write([]int16{1})
	if _, err := rb.Read(make([]byte, 2)); err != io.EOF {
		t.Errorf("Read = %v, want io.EOF", err)
	}
}

func TestAudioRingBufferClear(t *testing.T) {
	rb := NewAudioRingBuffer(8)
	rb.Write([]int16{1, 2, 3})
	rb.Clear()
	if got := rb.Buffered(); got != 0 {
		t.Errorf("Buffered after clear = %d, want 0", got)
	}
}
