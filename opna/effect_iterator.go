package opna

import "math"

// ArpeggioEffectIterator cycles the held note through two offsets,
// 0 -> second -> third -> 0, one step per tick. It reports values in the
// same 48-biased form as an absolute arpeggio macro so the controller can
// consume either interchangeably.
type ArpeggioEffectIterator struct {
	second int
	third  int
	pos    int
	step   int
}

func NewArpeggioEffectIterator(second, third int) *ArpeggioEffectIterator {
	return &ArpeggioEffectIterator{second: second, third: third, pos: -1}
}

func (it *ArpeggioEffectIterator) SequenceType() SequenceType { return SequenceTypeAbsolute }
func (it *ArpeggioEffectIterator) Position() int              { return it.pos }

func (it *ArpeggioEffectIterator) Front() int {
	it.step = 0
	it.pos = 0
	return it.pos
}

func (it *ArpeggioEffectIterator) Next(isRelease bool) int {
	if it.pos == -1 {
		return -1
	}
	it.step = (it.step + 1) % 3
	it.pos = it.step
	return it.pos
}

func (it *ArpeggioEffectIterator) End() { it.pos = -1 }

func (it *ArpeggioEffectIterator) CommandType() int {
	switch it.step {
	case 1:
		return 48 + it.second
	case 2:
		return 48 + it.third
	default:
		return 48
	}
}

func (it *ArpeggioEffectIterator) CommandData() int { return NoData }

// WavingEffectIterator produces a bounded triangle oscillation with one
// full cycle per period ticks, clamped to [-depth, depth]. It backs both
// vibrato (pitch) and tremolo (volume).
type WavingEffectIterator struct {
	seq []int
	pos int
}

func NewWavingEffectIterator(period, depth int) *WavingEffectIterator {
	if period < 1 {
		period = 1
	}
	it := &WavingEffectIterator{pos: -1}
	for i := 0; i < period; i++ {
		phase := 4 * float64(i) / float64(period) // 0..4 over one cycle
		var v float64
		switch {
		case phase < 1:
			v = phase
		case phase < 3:
			v = 2 - phase
		default:
			v = phase - 4
		}
		it.seq = append(it.seq, clamp(int(math.Round(v*float64(depth))), -depth, depth))
	}
	return it
}

func (it *WavingEffectIterator) SequenceType() SequenceType { return SequenceTypeAbsolute }
func (it *WavingEffectIterator) Position() int              { return it.pos }

func (it *WavingEffectIterator) Front() int {
	it.pos = 0
	return it.pos
}

func (it *WavingEffectIterator) Next(isRelease bool) int {
	if it.pos == -1 {
		return -1
	}
	it.pos = (it.pos + 1) % len(it.seq)
	return it.pos
}

func (it *WavingEffectIterator) End() { it.pos = -1 }

func (it *WavingEffectIterator) CommandType() int {
	if it.pos == -1 {
		return 0
	}
	return it.seq[it.pos]
}

func (it *WavingEffectIterator) CommandData() int { return NoData }

// NoteSlideEffectIterator steps a cumulative pitch offset toward a
// semitone target over a fixed number of ticks. Each step reports the
// delta to accumulate; once the target is reached it reports -1 so the
// consumer stops accumulating.
type NoteSlideEffectIterator struct {
	seq []int
	pos int
}

func NewNoteSlideEffectIterator(speed, seminote int) *NoteSlideEffectIterator {
	it := &NoteSlideEffectIterator{pos: -1}
	total := seminote * PitchPerSeminote
	if speed < 1 {
		speed = 1
	}
	base := total / speed
	rem := total - base*speed
	for i := 0; i < speed; i++ {
		d := base
		if rem > 0 {
			d++
			rem--
		} else if rem < 0 {
			d--
			rem++
		}
		it.seq = append(it.seq, d)
	}
	return it
}

func (it *NoteSlideEffectIterator) SequenceType() SequenceType { return SequenceTypeRelative }
func (it *NoteSlideEffectIterator) Position() int              { return it.pos }

func (it *NoteSlideEffectIterator) Front() int {
	if len(it.seq) == 0 {
		it.pos = -1
	} else {
		it.pos = 0
	}
	return it.pos
}

func (it *NoteSlideEffectIterator) Next(isRelease bool) int {
	if it.pos == -1 || it.pos+1 >= len(it.seq) {
		it.pos = -1
		return -1
	}
	it.pos++
	return it.pos
}

func (it *NoteSlideEffectIterator) End() { it.pos = -1 }

func (it *NoteSlideEffectIterator) CommandType() int {
	if it.pos == -1 {
		return -1
	}
	return it.seq[it.pos]
}

func (it *NoteSlideEffectIterator) CommandData() int { return NoData }
