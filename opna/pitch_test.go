package opna

import "testing"

func TestPitchFM(t *testing.T) {
	// A4 at 440 Hz on the 7.9872 MHz clock.
	if got := PitchFM(NoteA, 4, 0); got != 0x2410 {
		t.Errorf("A4 = %#x, want 0x2410", got)
	}

	// One octave down halves the frequency; the F-number is block-relative
	// so it stays put while the block drops.
	if got := PitchFM(NoteA, 3, 0); got != 3<<11|0x410 {
		t.Errorf("A3 = %#x, want %#x", got, 3<<11|0x410)
	}

	// The block clamps to the 3-bit field.
	if got := PitchFM(NoteA, 9, 0) >> 11; got != 7 {
		t.Errorf("clamped block = %d, want 7", got)
	}
}

func TestPitchSSG(t *testing.T) {
	if got := PitchSSGSquare(NoteA, 4, 0); got != 142 {
		t.Errorf("square A4 = %d, want 142", got)
	}
	if got := PitchSSGTriangle(NoteA, 4, 0); got != 4 {
		t.Errorf("triangle A4 = %d, want 4", got)
	}
	if got := PitchSSGSaw(NoteA, 4, 0); got != 9 {
		t.Errorf("saw A4 = %d, want 9", got)
	}

	// A pitch offset of one full semitone equals the next note.
	if got, want := PitchSSGSquare(NoteA, 4, PitchPerSeminote), PitchSSGSquare(NoteAS, 4, 0); got != want {
		t.Errorf("A4+32 = %d, want %d", got, want)
	}
}

func TestCalcADPCMDeltaN(t *testing.T) {
	// The chip's nominal rate maps to a unity ratio.
	if got := CalcADPCMDeltaN(55500); got != 0x10000 {
		t.Errorf("55.5 kHz = %#x, want 0x10000", got)
	}
	if got := CalcADPCMDeltaN(16000); got != 18893 {
		t.Errorf("16 kHz = %d, want 18893", got)
	}
}

func TestPitchADPCM(t *testing.T) {
	const root = 57
	const rootDN = 18893

	if got := PitchADPCM(NoteA, 4, 0, root, rootDN); got != rootDN {
		t.Errorf("root key = %d, want %d", got, rootDN)
	}
	if got := PitchADPCM(NoteA, 5, 0, root, rootDN); got != rootDN*2 {
		t.Errorf("octave up = %d, want %d", got, rootDN*2)
	}
	if got := PitchADPCM(NoteA, 3, 0, root, rootDN); got != (rootDN+1)/2 {
		t.Errorf("octave down = %d, want %d", got, (rootDN+1)/2)
	}

	// Large distances clamp to the 16-bit register pair.
	if got := PitchADPCM(NoteB, 7, 0, 0, rootDN); got != 0xffff {
		t.Errorf("clamped delta-N = %#x, want 0xffff", got)
	}
}
