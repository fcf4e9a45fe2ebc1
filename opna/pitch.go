package opna

import "math"

// OPNA master clock in Hz. The SSG section runs at a quarter of it.
const (
	MasterClock   = 7987200
	ssgClock      = MasterClock / 4
)

// noteFrequency returns the equal-tempered frequency for a note with a
// fine pitch offset in 1/32 semitone units. A4 (note number 57) = 440 Hz.
func noteFrequency(note Note, octave, pitch int) float64 {
	nn := OctaveAndNoteToNoteNumber(octave, note)
	semis := float64(nn) + float64(pitch)/PitchPerSeminote
	return 440 * math.Pow(2, (semis-57)/12)
}

// PitchFM computes the FM block/F-number pair, packed as block<<11 | fnum.
func PitchFM(note Note, octave, pitch int) uint16 {
	f := noteFrequency(note, octave, pitch)
	block := clamp(octave, 0, 7)
	fnum := int(math.Round(f * (1 << 20) * 144 / MasterClock / math.Pow(2, float64(block-1))))
	fnum = clamp(fnum, 0, 0x7ff)
	return uint16(block)<<11 | uint16(fnum)
}

// PitchSSGSquare computes the 12-bit SSG tone period.
func PitchSSGSquare(note Note, octave, pitch int) uint16 {
	f := noteFrequency(note, octave, pitch)
	tp := int(math.Round(ssgClock / (32 * f)))
	return uint16(clamp(tp, 0, 0xfff))
}

// PitchSSGSaw computes the envelope period for saw/inverse-saw waveforms
// generated by the hardware envelope.
func PitchSSGSaw(note Note, octave, pitch int) uint16 {
	f := noteFrequency(note, octave, pitch)
	ep := int(math.Round(ssgClock / (512 * f)))
	return uint16(clamp(ep, 0, 0xffff))
}

// PitchSSGTriangle computes the envelope period for the triangle waveform,
// which repeats at half the envelope rate.
func PitchSSGTriangle(note Note, octave, pitch int) uint16 {
	f := noteFrequency(note, octave, pitch)
	ep := int(math.Round(ssgClock / (1024 * f)))
	return uint16(clamp(ep, 0, 0xffff))
}

// CalcADPCMDeltaN converts a sample rate to the chip's delta-N ratio.
func CalcADPCMDeltaN(rate int) int {
	return int(math.Round(float64(uint32(rate)<<16) / 55500))
}

// PitchADPCM scales a waveform's root delta-N by the distance between the
// played pitch and the waveform's root key.
func PitchADPCM(note Note, octave, pitch, rootKeyNum, rootDeltaN int) uint16 {
	p := OctaveAndNoteToNoteNumber(octave, note)*PitchPerSeminote + pitch
	diff := p - PitchPerSeminote*rootKeyNum
	dn := int(math.Round(float64(rootDeltaN) * math.Pow(2, float64(diff)/384)))
	return uint16(clamp(dn, 0, 0xffff))
}
