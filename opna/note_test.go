package opna

import "testing"

func TestNoteNumberConversion(t *testing.T) {
	oct, note := NoteNumberToOctaveAndNote(57)
	if oct != 4 || note != NoteA {
		t.Errorf("note 57 = (%d, %d), want (4, NoteA)", oct, note)
	}
	if got := OctaveAndNoteToNoteNumber(4, NoteA); got != 57 {
		t.Errorf("A4 note number = %d, want 57", got)
	}

	// Round trip across the playable range.
	for n := 0; n < 96; n++ {
		oct, note := NoteNumberToOctaveAndNote(n)
		if got := OctaveAndNoteToNoteNumber(oct, note); got != n {
			t.Fatalf("round trip %d = %d", n, got)
		}
	}

	// Out-of-range inputs clamp to the chip's limits.
	if oct, note := NoteNumberToOctaveAndNote(-3); oct != 0 || note != NoteC {
		t.Errorf("negative note = (%d, %d), want (0, NoteC)", oct, note)
	}
	if oct, note := NoteNumberToOctaveAndNote(200); oct != 7 || note != NoteB {
		t.Errorf("overflow note = (%d, %d), want (7, NoteB)", oct, note)
	}
}

func TestFMChannelCount(t *testing.T) {
	if got := FMChannelCount(SongStandard); got != 6 {
		t.Errorf("standard = %d, want 6", got)
	}
	if got := FMChannelCount(SongFM3chExpanded); got != 9 {
		t.Errorf("expanded = %d, want 9", got)
	}
}

func TestEchoBuffer(t *testing.T) {
	e := newEchoBuffer()
	if e.latest().Octave != -1 {
		t.Fatal("fresh buffer should hold the unset sentinel")
	}

	e.push(ToneDetail{Octave: 4, Note: NoteC})
	e.push(ToneDetail{Octave: 4, Note: NoteE})
	e.push(ToneDetail{Octave: 4, Note: NoteG})

	if got := e.latest(); got.Note != NoteG {
		t.Errorf("latest = %d, want NoteG", got.Note)
	}
	if got := e.at(2); got.Note != NoteC {
		t.Errorf("at(2) = %d, want NoteC", got.Note)
	}
	if got := e.at(3); got.Octave != -1 {
		t.Errorf("at(3) octave = %d, want -1", got.Octave)
	}
}

func TestBCD(t *testing.T) {
	if got := UItoBCD(42); got != 0x42 {
		t.Errorf("UItoBCD(42) = %#x, want 0x42", got)
	}
	if got := BCDtoUI(0x42); got != 42 {
		t.Errorf("BCDtoUI(0x42) = %d, want 42", got)
	}
	for v := uint8(0); v < 100; v++ {
		if got := BCDtoUI(UItoBCD(v)); got != v {
			t.Fatalf("round trip %d = %d", v, got)
		}
	}
}
