package opna

// SequenceType tags how a consumer interprets a sequence's command values.
type SequenceType int

const (
	SequenceTypeNone SequenceType = iota
	SequenceTypeAbsolute
	SequenceTypeFixed
	SequenceTypeRelative
)

// DataType classifies the encoding of a sequence unit's data field.
type DataType int

const (
	DataNone DataType = iota - 1
	DataRaw
	DataRatio
	DataLShift
	DataRShift
)

// NoData is the sentinel for a unit carrying no data payload.
const NoData = -1

// Data field layout: bits 0-15 payload, bits 16-17 tag. A ratio payload
// packs the numerator in bits 8-15 and the denominator in bits 0-7; a shift
// payload keeps the magnitude in bits 0-7.
const (
	dataTagShift = 16
	dataTagMask  = 0x3 << dataTagShift
)

// CheckDataType returns the encoding tag of a data value.
func CheckDataType(data int) DataType {
	if data < 0 {
		return DataNone
	}
	return DataType((data & dataTagMask) >> dataTagShift)
}

// RatioToData encodes a numerator/denominator pair.
func RatioToData(num, den int) int {
	return int(DataRatio)<<dataTagShift | (num&0xff)<<8 | den&0xff
}

// DataToRatio decodes a ratio-tagged data value.
func DataToRatio(data int) (num, den int) {
	return (data >> 8) & 0xff, data & 0xff
}

// ShiftToData encodes a left or right shift magnitude.
func ShiftToData(shift int, left bool) int {
	tag := DataRShift
	if left {
		tag = DataLShift
	}
	return int(tag)<<dataTagShift | shift&0xff
}

// DataToShift decodes a shift-tagged data value's magnitude.
func DataToShift(data int) int {
	return data & 0xff
}

// SequenceUnit is one command of an instrument macro. Type selects a value
// whose meaning depends on the macro category; Data is NoData, a raw value,
// or a ratio/shift encoding (see CheckDataType).
type SequenceUnit struct {
	Type int
	Data int
}

// Loop is a repeat region over sequence positions. Times is a literal wrap
// count; InfiniteTimes repeats forever.
type Loop struct {
	Begin int
	End   int
	Times int
}

// InfiniteTimes marks a loop that never exhausts.
const InfiniteTimes = 255

// ReleaseType selects how a sequence behaves once a key is released.
type ReleaseType int

const (
	ReleaseNone ReleaseType = iota
	ReleaseFixed
	ReleaseAbsolute
	ReleaseRelative
)

// Release marks where the post-key-off region of a sequence begins.
type Release struct {
	Type  ReleaseType
	Begin int
}

// CommandSequence is a stored instrument macro: an ordered command list
// with loop regions and a release point. It is also an instrument property
// slot (numbered, user-tracked) shared between instruments.
type CommandSequence struct {
	propertyBase

	seqType SequenceType
	units   []SequenceUnit
	loops   []Loop
	release Release

	defType  SequenceType
	defValue int
}

// NewCommandSequence creates a macro slot with a single default command.
func NewCommandSequence(num int, seqType SequenceType, initValue int) *CommandSequence {
	return &CommandSequence{
		propertyBase: propertyBase{num: num},
		seqType:      seqType,
		units:        []SequenceUnit{{Type: initValue, Data: NoData}},
		release:      Release{Type: ReleaseNone, Begin: -1},
		defType:      seqType,
		defValue:     initValue,
	}
}

func (s *CommandSequence) Type() SequenceType        { return s.seqType }
func (s *CommandSequence) SetType(t SequenceType)    { s.seqType = t }
func (s *CommandSequence) Length() int               { return len(s.units) }
func (s *CommandSequence) Sequence() []SequenceUnit  { return s.units }
func (s *CommandSequence) Unit(pos int) SequenceUnit { return s.units[pos] }

// AddSequenceCommand appends a command.
func (s *CommandSequence) AddSequenceCommand(typ, data int) {
	s.units = append(s.units, SequenceUnit{Type: typ, Data: data})
}

// RemoveSequenceCommand drops the last command. The release point is
// re-coerced since it may now lie past the end.
func (s *CommandSequence) RemoveSequenceCommand() {
	if len(s.units) == 0 {
		return
	}
	s.units = s.units[:len(s.units)-1]
	if s.release.Type != ReleaseNone && s.release.Begin >= len(s.units) {
		s.release = Release{Type: ReleaseNone, Begin: -1}
	}
}

// SetSequenceCommand replaces the command at the given position.
func (s *CommandSequence) SetSequenceCommand(pos, typ, data int) {
	s.units[pos] = SequenceUnit{Type: typ, Data: data}
}

// SetLoops replaces all loop regions.
func (s *CommandSequence) SetLoops(begins, ends, times []int) {
	s.loops = s.loops[:0]
	for i := range begins {
		s.loops = append(s.loops, Loop{Begin: begins[i], End: ends[i], Times: times[i]})
	}
}

func (s *CommandSequence) Loops() []Loop { return s.loops }

// SetRelease sets the release descriptor. A begin position at or past the
// sequence end can occur in older saved data and is silently coerced to no
// release for compatibility.
func (s *CommandSequence) SetRelease(typ ReleaseType, begin int) {
	if typ == ReleaseNone || begin < 0 || begin >= len(s.units) {
		s.release = Release{Type: ReleaseNone, Begin: -1}
		return
	}
	s.release = Release{Type: typ, Begin: begin}
}

func (s *CommandSequence) Release() Release { return s.release }

func (s *CommandSequence) isEdited() bool {
	if s.seqType != s.defType || len(s.loops) != 0 || s.release.Type != ReleaseNone {
		return true
	}
	if len(s.units) != 1 {
		return true
	}
	return s.units[0] != SequenceUnit{Type: s.defValue, Data: NoData}
}

func (s *CommandSequence) clearParameters() {
	s.seqType = s.defType
	s.units = []SequenceUnit{{Type: s.defValue, Data: NoData}}
	s.loops = nil
	s.release = Release{Type: ReleaseNone, Begin: -1}
}

// clone copies the macro content into a fresh slot with no users.
func (s *CommandSequence) clone() *CommandSequence {
	c := &CommandSequence{
		propertyBase: propertyBase{num: s.num},
		seqType:      s.seqType,
		units:        append([]SequenceUnit(nil), s.units...),
		loops:        append([]Loop(nil), s.loops...),
		release:      s.release,
		defType:      s.defType,
		defValue:     s.defValue,
	}
	return c
}

func (s *CommandSequence) equal(o *CommandSequence) bool {
	if s.seqType != o.seqType || len(s.units) != len(o.units) ||
		len(s.loops) != len(o.loops) || s.release != o.release {
		return false
	}
	for i := range s.units {
		if s.units[i] != o.units[i] {
			return false
		}
	}
	for i := range s.loops {
		if s.loops[i] != o.loops[i] {
			return false
		}
	}
	return true
}

// SequenceIteratorInterface is the contract shared by sequence iterators
// and the effect iterators, letting live effects substitute for instrument
// macros at every consumption site.
type SequenceIteratorInterface interface {
	// SequenceType tells the consumer how to interpret command values.
	SequenceType() SequenceType
	// Position reports the current cursor, -1 when not started or ended.
	Position() int
	// Front restarts at the beginning and returns the new position.
	Front() int
	// Next advances one step. With isRelease the cursor jumps to the
	// release region on its first call after key off.
	Next(isRelease bool) int
	// End forces the terminal state.
	End()
	CommandType() int
	CommandData() int
}

// SequenceIterator walks a CommandSequence honoring loops and release.
type SequenceIterator struct {
	seq      *CommandSequence
	pos      int
	started  bool
	released bool
	remain   []int // per-loop remaining wrap count
}

// Iterator returns a fresh cursor over the sequence. The release point is
// re-checked here since the sequence may have shrunk after SetRelease.
func (s *CommandSequence) Iterator() *SequenceIterator {
	it := &SequenceIterator{seq: s, pos: -1, remain: make([]int, len(s.loops))}
	return it
}

// SequenceType reports the owning sequence's type tag.
func (it *SequenceIterator) SequenceType() SequenceType { return it.seq.seqType }

func (it *SequenceIterator) Position() int { return it.pos }

func (it *SequenceIterator) Front() int {
	it.started = true
	it.released = false
	for i, l := range it.seq.loops {
		it.remain[i] = l.Times
	}
	if len(it.seq.units) == 0 {
		it.pos = -1
	} else {
		it.pos = 0
	}
	return it.pos
}

// release returns the effective release descriptor, coercing an
// out-of-range begin (possible from legacy data) to no release.
func (it *SequenceIterator) releaseDesc() Release {
	r := it.seq.release
	if r.Type != ReleaseNone && r.Begin >= len(it.seq.units) {
		return Release{Type: ReleaseNone, Begin: -1}
	}
	return r
}

func (it *SequenceIterator) Next(isRelease bool) int {
	if !it.started || it.pos == -1 {
		return -1
	}

	rel := it.releaseDesc()

	if isRelease && !it.released {
		if rel.Type == ReleaseNone {
			it.pos = -1
			return -1
		}
		it.released = true
		it.pos = rel.Begin
		return it.pos
	}

	// Loop wrap: pick the innermost active loop ending here.
	for i := len(it.seq.loops) - 1; i >= 0; i-- {
		l := it.seq.loops[i]
		if l.End != it.pos {
			continue
		}
		if l.Times == InfiniteTimes {
			it.pos = l.Begin
			return it.pos
		}
		if it.remain[i] > 0 {
			it.remain[i]--
			it.pos = l.Begin
			return it.pos
		}
	}

	limit := len(it.seq.units)
	if !it.released && rel.Type != ReleaseNone {
		limit = rel.Begin
	}

	if it.pos+1 >= limit {
		if it.released || rel.Type == ReleaseNone {
			if it.pos+1 >= len(it.seq.units) {
				// Fixed sequences stop at true exhaustion; others hold
				// the final command.
				if it.seq.seqType == SequenceTypeFixed {
					it.pos = -1
				}
				return it.pos
			}
			it.pos++
			return it.pos
		}
		// Waiting for release: hold the last pre-release command.
		return it.pos
	}
	it.pos++
	return it.pos
}

func (it *SequenceIterator) End() {
	it.started = true
	it.pos = -1
}

func (it *SequenceIterator) CommandType() int {
	if it.pos == -1 {
		return -1
	}
	return it.seq.units[it.pos].Type
}

func (it *SequenceIterator) CommandData() int {
	if it.pos == -1 {
		return NoData
	}
	return it.seq.units[it.pos].Data
}
