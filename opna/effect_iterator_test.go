package opna

import "testing"

func TestArpeggioEffectIterator(t *testing.T) {
	it := NewArpeggioEffectIterator(4, 7)

	it.Front()
	want := []int{48, 52, 55, 48, 52}
	for i, w := range want {
		if got := it.CommandType(); got != w {
			t.Errorf("step %d = %d, want %d", i, got, w)
		}
		it.Next(false)
	}

	it.End()
	if pos := it.Next(false); pos != -1 {
		t.Errorf("Next after End = %d, want -1", pos)
	}
}

func TestWavingEffectIterator(t *testing.T) {
	it := NewWavingEffectIterator(4, 2)

	it.Front()
	// One triangle cycle, then wrap.
	want := []int{0, 2, 0, -2, 0, 2}
	for i, w := range want {
		if got := it.CommandType(); got != w {
			t.Errorf("step %d = %d, want %d", i, got, w)
		}
		it.Next(false)
	}
}

func TestNoteSlideEffectIterator(t *testing.T) {
	it := NewNoteSlideEffectIterator(3, 1)

	it.Front()
	// 32 pitch units spread over 3 ticks, remainder first.
	want := []int{11, 11, 10}
	for i, w := range want {
		if got := it.CommandType(); got != w {
			t.Errorf("step %d = %d, want %d", i, got, w)
		}
		if i < len(want)-1 {
			if pos := it.Next(false); pos != i+1 {
				t.Fatalf("Next = %d, want %d", pos, i+1)
			}
		}
	}
	if pos := it.Next(false); pos != -1 {
		t.Errorf("Next past end = %d, want -1", pos)
	}
	if got := it.CommandType(); got != -1 {
		t.Errorf("CommandType past end = %d, want -1", got)
	}
}

func TestNoteSlideEffectIteratorDown(t *testing.T) {
	it := NewNoteSlideEffectIterator(2, -1)

	it.Front()
	want := []int{-16, -16}
	for i, w := range want {
		if got := it.CommandType(); got != w {
			t.Errorf("step %d = %d, want %d", i, got, w)
		}
		it.Next(false)
	}
}
