package opna

import "testing"

func TestOutputHistoryFillAndSnapshot(t *testing.T) {
	var h outputHistory

	samples := []int16{1, 2, 3, 4, 5, 6, 7, 8}
	h.fill(samples)

	dst := make([]int16, 2*OutputHistorySize)
	h.snapshot(dst)

	// The snapshot is oldest-first, so the new frames sit at the tail.
	tail := dst[2*(OutputHistorySize-4):]
	for i, want := range samples {
		if tail[i] != want {
			t.Fatalf("tail[%d] = %d, want %d", i, tail[i], want)
		}
	}
	if dst[0] != 0 {
		t.Errorf("head = %d, want 0 padding", dst[0])
	}
}

func TestOutputHistoryWrap(t *testing.T) {
	var h outputHistory

	old := make([]int16, 2*OutputHistorySize)
	for i := range old {
		old[i] = 1
	}
	h.fill(old)
	h.fill([]int16{2, 2, 2, 2})

	dst := make([]int16, 2*OutputHistorySize)
	h.snapshot(dst)

	if dst[0] != 1 {
		t.Errorf("oldest sample = %d, want 1", dst[0])
	}
	tail := dst[2*(OutputHistorySize-2):]
	for i := range tail {
		if tail[i] != 2 {
			t.Fatalf("tail[%d] = %d, want 2", i, tail[i])
		}
	}
}

func TestOutputHistoryOversizeFill(t *testing.T) {
	var h outputHistory

	big := make([]int16, 2*(OutputHistorySize+8))
	for i := range big {
		big[i] = int16(i)
	}
	h.fill(big)

	dst := make([]int16, 2*OutputHistorySize)
	h.snapshot(dst)

	// Only the last OutputHistorySize frames survive.
	if dst[0] != big[16] {
		t.Errorf("oldest sample = %d, want %d", dst[0], big[16])
	}
	if dst[len(dst)-1] != big[len(big)-1] {
		t.Errorf("newest sample = %d, want %d", dst[len(dst)-1], big[len(big)-1])
	}
}
