// Package opna implements the sequencing and register-encoding engine for
// the Yamaha OPNA (YM2608) sound chip: instrument macro sequences, live
// effect iterators, the instrument property store, and the controller that
// translates tick-driven playback state into byte-exact register writes.
package opna

// SoundSource identifies one of the OPNA's four sound sources.
type SoundSource int

const (
	SourceFM    SoundSource = 1
	SourceSSG   SoundSource = 2
	SourceDrum  SoundSource = 4
	SourceADPCM SoundSource = 8
)

// SongType selects the FM channel layout.
type SongType int

const (
	SongStandard      SongType = iota // 6 FM channels
	SongFM3chExpanded                 // 9 FM channels; ch3's operators split out
)

// FMChannelCount returns the number of logical FM channels for the song type.
func FMChannelCount(t SongType) int {
	if t == SongFM3chExpanded {
		return 9
	}
	return 6
}

// Note values are spaced by the fine pitch resolution so that a raw pitch
// offset can be added directly to a note value.
type Note int

const (
	NoteC  Note = 0
	NoteCS Note = 32
	NoteD  Note = 64
	NoteDS Note = 96
	NoteE  Note = 128
	NoteF  Note = 160
	NoteFS Note = 192
	NoteG  Note = 224
	NoteGS Note = 256
	NoteA  Note = 288
	NoteAS Note = 320
	NoteB  Note = 352
)

// PitchPerSeminote is the number of fine pitch units in one semitone.
const PitchPerSeminote = 32

var noteTable = [12]Note{
	NoteC, NoteCS, NoteD, NoteDS, NoteE, NoteF,
	NoteFS, NoteG, NoteGS, NoteA, NoteAS, NoteB,
}

// NoteNumberToOctaveAndNote converts a 0-based note number (semitones from
// C0) to octave and note, clamping to the chip's playable range.
func NoteNumberToOctaveAndNote(num int) (int, Note) {
	if num < 0 {
		return 0, NoteC
	}
	oct := num / 12
	if oct > 7 {
		return 7, NoteB
	}
	return oct, noteTable[num%12]
}

// OctaveAndNoteToNoteNumber is the inverse of NoteNumberToOctaveAndNote.
func OctaveAndNoteToNoteNumber(octave int, note Note) int {
	return 12*octave + int(note)/PitchPerSeminote
}

// ToneDetail is a per-channel tone: octave, note and fine pitch offset.
// Octave -1 is the sentinel for "no tone set yet".
type ToneDetail struct {
	Octave int
	Note   Note
	Pitch  int
}

// echoBufferSize is the number of recent tones kept per channel for
// portamento-to-last-note and multi-depth legato.
const echoBufferSize = 4

// echoBuffer is a fixed-depth deque of recent tones, newest first.
type echoBuffer [echoBufferSize]ToneDetail

func newEchoBuffer() echoBuffer {
	var e echoBuffer
	for i := range e {
		e[i] = ToneDetail{Octave: -1}
	}
	return e
}

// push inserts a tone at the front, dropping the oldest entry.
func (e *echoBuffer) push(t ToneDetail) {
	copy(e[1:], e[:len(e)-1])
	e[0] = t
}

// latest returns the most recent tone.
func (e *echoBuffer) latest() ToneDetail {
	return e[0]
}

// at returns the n-th most recent tone (0 = latest).
func (e *echoBuffer) at(n int) ToneDetail {
	return e[n]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// UItoBCD converts 0-99 to packed binary-coded decimal.
func UItoBCD(v uint8) uint8 {
	return (v/10)<<4 | v%10
}

// BCDtoUI unpacks binary-coded decimal to an integer.
func BCDtoUI(v uint8) uint8 {
	return (v>>4)*10 + v&0x0f
}
