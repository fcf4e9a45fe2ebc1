package opna

// propertySlots is the pool size of every macro category.
const propertySlots = 128

// property is the common behavior of a pool slot used by the assignment
// scan.
type property interface {
	isUserInstrument() bool
	isEdited() bool
	clearParameters()
	registerUser(instNum int)
	deregisterUser(instNum int)
}

// findFirstAssignable scans a pool for a slot free to hand to a new
// instrument. With regardingUnedited, slots that diverged from default are
// also skipped (so stale contents survive for undo); otherwise the found
// slot is cleared before use. Returns -1 when the pool is exhausted.
func findFirstAssignable[T property](pool []T, regardingUnedited bool) int {
	for i, p := range pool {
		if p.isUserInstrument() {
			continue
		}
		if regardingUnedited {
			if p.isEdited() {
				continue
			}
		} else {
			p.clearParameters()
		}
		return i
	}
	return -1
}

// firstUserless returns the first slot no instrument references, ignoring
// edits. Used by deep clone, which overwrites the slot content anyway.
func firstUserless[T property](pool []T) int {
	for i, p := range pool {
		if !p.isUserInstrument() {
			return i
		}
	}
	return -1
}

// orLastSlot applies the silent overflow policy: when a pool has no
// assignable slot, the last one is reused.
func orLastSlot(idx int) int {
	if idx == -1 {
		return propertySlots - 1
	}
	return idx
}

// InstrumentsManager owns all instrument definitions and the shared macro
// pools for the three instrument-capable sound sources. All macro mutation
// and sharing goes through it; instruments hold only slot numbers.
type InstrumentsManager struct {
	regardingUnedited bool

	insts [propertySlots]Instrument

	envFM   [propertySlots]*EnvelopeFM
	lfoFM   [propertySlots]*LFOFM
	opSeqFM map[FMEnvelopeParameter][]*CommandSequence
	arpFM   [propertySlots]*CommandSequence
	ptFM    [propertySlots]*CommandSequence

	wfSSG  [propertySlots]*CommandSequence
	tnSSG  [propertySlots]*CommandSequence
	envSSG [propertySlots]*CommandSequence
	arpSSG [propertySlots]*CommandSequence
	ptSSG  [propertySlots]*CommandSequence

	wfADPCM  [propertySlots]*WaveformADPCM
	envADPCM [propertySlots]*CommandSequence
	arpADPCM [propertySlots]*CommandSequence
	ptADPCM  [propertySlots]*CommandSequence
}

func NewInstrumentsManager(regardingUnedited bool) *InstrumentsManager {
	m := &InstrumentsManager{regardingUnedited: regardingUnedited}
	m.ClearAll()
	return m
}

// SetPropertyFindMode switches whether edited-but-unused slots count as
// assignable.
func (m *InstrumentsManager) SetPropertyFindMode(regardingUnedited bool) {
	m.regardingUnedited = regardingUnedited
}

// ClearAll drops every instrument and resets every macro pool to defaults.
func (m *InstrumentsManager) ClearAll() {
	m.opSeqFM = make(map[FMEnvelopeParameter][]*CommandSequence)
	for _, p := range fmOpSequenceParams {
		m.opSeqFM[p] = make([]*CommandSequence, propertySlots)
	}
	for i := 0; i < propertySlots; i++ {
		m.insts[i] = nil

		m.envFM[i] = NewEnvelopeFM(i)
		m.lfoFM[i] = NewLFOFM(i)
		for _, p := range fmOpSequenceParams {
			m.opSeqFM[p][i] = NewCommandSequence(i, SequenceTypeNone, 0)
		}
		m.arpFM[i] = NewCommandSequence(i, SequenceTypeAbsolute, 48)
		m.ptFM[i] = NewCommandSequence(i, SequenceTypeAbsolute, 127)

		m.wfSSG[i] = NewCommandSequence(i, SequenceTypeNone, 0)
		m.tnSSG[i] = NewCommandSequence(i, SequenceTypeNone, 0)
		m.envSSG[i] = NewCommandSequence(i, SequenceTypeNone, 15)
		m.arpSSG[i] = NewCommandSequence(i, SequenceTypeAbsolute, 48)
		m.ptSSG[i] = NewCommandSequence(i, SequenceTypeAbsolute, 127)

		m.wfADPCM[i] = NewWaveformADPCM(i)
		m.envADPCM[i] = NewCommandSequence(i, SequenceTypeNone, 255)
		m.arpADPCM[i] = NewCommandSequence(i, SequenceTypeAbsolute, 48)
		m.ptADPCM[i] = NewCommandSequence(i, SequenceTypeAbsolute, 127)
	}
}

// AddInstrument creates an instrument in the given slot, auto-assigning
// macro slots for every category its source requires. Categories that are
// always active (FM envelope, ADPCM waveform) register the instrument as a
// user immediately; the rest only record the assigned number.
func (m *InstrumentsManager) AddInstrument(instNum int, source SoundSource, name string) {
	switch source {
	case SourceFM:
		fm := NewInstrumentFM(instNum, name)
		en := orLastSlot(findFirstAssignable(m.envFM[:], m.regardingUnedited))
		fm.envNum = en
		m.envFM[en].registerUser(instNum)
		fm.lfoNum = orLastSlot(findFirstAssignable(m.lfoFM[:], m.regardingUnedited))
		for _, p := range fmOpSequenceParams {
			fm.opSeqNum[p] = orLastSlot(findFirstAssignable(m.opSeqFM[p], m.regardingUnedited))
		}
		arp := orLastSlot(findFirstAssignable(m.arpFM[:], m.regardingUnedited))
		pt := orLastSlot(findFirstAssignable(m.ptFM[:], m.regardingUnedited))
		for _, t := range fmOperatorTypes {
			fm.arpNum[t] = arp
			fm.ptNum[t] = pt
		}
		m.insts[instNum] = fm

	case SourceSSG:
		ssg := NewInstrumentSSG(instNum, name)
		ssg.wfNum = orLastSlot(findFirstAssignable(m.wfSSG[:], m.regardingUnedited))
		ssg.tnNum = orLastSlot(findFirstAssignable(m.tnSSG[:], m.regardingUnedited))
		ssg.envNum = orLastSlot(findFirstAssignable(m.envSSG[:], m.regardingUnedited))
		ssg.arpNum = orLastSlot(findFirstAssignable(m.arpSSG[:], m.regardingUnedited))
		ssg.ptNum = orLastSlot(findFirstAssignable(m.ptSSG[:], m.regardingUnedited))
		m.insts[instNum] = ssg

	case SourceADPCM:
		ad := NewInstrumentADPCM(instNum, name)
		wf := orLastSlot(findFirstAssignable(m.wfADPCM[:], m.regardingUnedited))
		ad.wfNum = wf
		m.wfADPCM[wf].registerUser(instNum)
		ad.envNum = orLastSlot(findFirstAssignable(m.envADPCM[:], m.regardingUnedited))
		ad.arpNum = orLastSlot(findFirstAssignable(m.arpADPCM[:], m.regardingUnedited))
		ad.ptNum = orLastSlot(findFirstAssignable(m.ptADPCM[:], m.regardingUnedited))
		m.insts[instNum] = ad
	}
}

// AddInstrumentObject re-registers a detached instrument (e.g. from undo),
// re-binding it as a user of every macro slot it references.
func (m *InstrumentsManager) AddInstrumentObject(inst Instrument) {
	n := inst.Number()
	m.insts[n] = inst
	switch i := inst.(type) {
	case *InstrumentFM:
		m.envFM[i.envNum].registerUser(n)
		if i.lfoEnabled {
			m.lfoFM[i.lfoNum].registerUser(n)
		}
		for _, p := range fmOpSequenceParams {
			if i.opSeqEnabled[p] {
				m.opSeqFM[p][i.opSeqNum[p]].registerUser(n)
			}
		}
		for _, t := range fmOperatorTypes {
			if i.arpEnabled[t] {
				m.arpFM[i.arpNum[t]].registerUser(n)
			}
			if i.ptEnabled[t] {
				m.ptFM[i.ptNum[t]].registerUser(n)
			}
		}
	case *InstrumentSSG:
		if i.wfEnabled {
			m.wfSSG[i.wfNum].registerUser(n)
		}
		if i.tnEnabled {
			m.tnSSG[i.tnNum].registerUser(n)
		}
		if i.envEnabled {
			m.envSSG[i.envNum].registerUser(n)
		}
		if i.arpEnabled {
			m.arpSSG[i.arpNum].registerUser(n)
		}
		if i.ptEnabled {
			m.ptSSG[i.ptNum].registerUser(n)
		}
	case *InstrumentADPCM:
		m.wfADPCM[i.wfNum].registerUser(n)
		if i.envEnabled {
			m.envADPCM[i.envNum].registerUser(n)
		}
		if i.arpEnabled {
			m.arpADPCM[i.arpNum].registerUser(n)
		}
		if i.ptEnabled {
			m.ptADPCM[i.ptNum].registerUser(n)
		}
	}
}

// CloneInstrument makes a shallow clone: the clone shares every macro slot
// with the source, bumping user registrations.
func (m *InstrumentsManager) CloneInstrument(cloneNum, refNum int) {
	ref := m.insts[refNum]
	switch r := ref.(type) {
	case *InstrumentFM:
		c := r.clone().(*InstrumentFM)
		c.setNumber(cloneNum)
		m.insts[cloneNum] = nil
		m.AddInstrumentObject(c)
	case *InstrumentSSG:
		c := r.clone().(*InstrumentSSG)
		c.setNumber(cloneNum)
		m.insts[cloneNum] = nil
		m.AddInstrumentObject(c)
	case *InstrumentADPCM:
		c := r.clone().(*InstrumentADPCM)
		c.setNumber(cloneNum)
		m.insts[cloneNum] = nil
		m.AddInstrumentObject(c)
	}
}

// DeepCloneInstrument copies macro content into newly assigned slots so
// later edits to the clone never touch the source. Macro slots shared
// between several references inside one instrument (e.g. the same arpeggio
// for Op1 and Op3) stay shared in the clone via a slot translation map.
func (m *InstrumentsManager) DeepCloneInstrument(cloneNum, refNum int) {
	m.CloneInstrument(cloneNum, refNum)

	switch c := m.insts[cloneNum].(type) {
	case *InstrumentFM:
		m.envFM[c.envNum].deregisterUser(cloneNum)
		c.envNum = m.deepCloneEnvelopeFM(c.envNum)
		m.envFM[c.envNum].registerUser(cloneNum)

		if c.lfoEnabled {
			m.lfoFM[c.lfoNum].deregisterUser(cloneNum)
			c.lfoNum = m.deepCloneLFOFM(c.lfoNum)
			m.lfoFM[c.lfoNum].registerUser(cloneNum)
		}

		for _, p := range fmOpSequenceParams {
			if !c.opSeqEnabled[p] {
				continue
			}
			m.opSeqFM[p][c.opSeqNum[p]].deregisterUser(cloneNum)
			c.opSeqNum[p] = deepCloneSequence(m.opSeqFM[p], c.opSeqNum[p])
			m.opSeqFM[p][c.opSeqNum[p]].registerUser(cloneNum)
		}

		arpMap := map[int]int{}
		ptMap := map[int]int{}
		for _, t := range fmOperatorTypes {
			if c.arpEnabled[t] {
				old := c.arpNum[t]
				m.arpFM[old].deregisterUser(cloneNum)
				if _, ok := arpMap[old]; !ok {
					arpMap[old] = deepCloneSequence(m.arpFM[:], old)
				}
				c.arpNum[t] = arpMap[old]
				m.arpFM[c.arpNum[t]].registerUser(cloneNum)
			}
			if c.ptEnabled[t] {
				old := c.ptNum[t]
				m.ptFM[old].deregisterUser(cloneNum)
				if _, ok := ptMap[old]; !ok {
					ptMap[old] = deepCloneSequence(m.ptFM[:], old)
				}
				c.ptNum[t] = ptMap[old]
				m.ptFM[c.ptNum[t]].registerUser(cloneNum)
			}
		}

	case *InstrumentSSG:
		if c.wfEnabled {
			m.wfSSG[c.wfNum].deregisterUser(cloneNum)
			c.wfNum = deepCloneSequence(m.wfSSG[:], c.wfNum)
			m.wfSSG[c.wfNum].registerUser(cloneNum)
		}
		if c.tnEnabled {
			m.tnSSG[c.tnNum].deregisterUser(cloneNum)
			c.tnNum = deepCloneSequence(m.tnSSG[:], c.tnNum)
			m.tnSSG[c.tnNum].registerUser(cloneNum)
		}
		if c.envEnabled {
			m.envSSG[c.envNum].deregisterUser(cloneNum)
			c.envNum = deepCloneSequence(m.envSSG[:], c.envNum)
			m.envSSG[c.envNum].registerUser(cloneNum)
		}
		if c.arpEnabled {
			m.arpSSG[c.arpNum].deregisterUser(cloneNum)
			c.arpNum = deepCloneSequence(m.arpSSG[:], c.arpNum)
			m.arpSSG[c.arpNum].registerUser(cloneNum)
		}
		if c.ptEnabled {
			m.ptSSG[c.ptNum].deregisterUser(cloneNum)
			c.ptNum = deepCloneSequence(m.ptSSG[:], c.ptNum)
			m.ptSSG[c.ptNum].registerUser(cloneNum)
		}

	case *InstrumentADPCM:
		m.wfADPCM[c.wfNum].deregisterUser(cloneNum)
		c.wfNum = m.deepCloneWaveformADPCM(c.wfNum)
		m.wfADPCM[c.wfNum].registerUser(cloneNum)

		if c.envEnabled {
			m.envADPCM[c.envNum].deregisterUser(cloneNum)
			c.envNum = deepCloneSequence(m.envADPCM[:], c.envNum)
			m.envADPCM[c.envNum].registerUser(cloneNum)
		}
		if c.arpEnabled {
			m.arpADPCM[c.arpNum].deregisterUser(cloneNum)
			c.arpNum = deepCloneSequence(m.arpADPCM[:], c.arpNum)
			m.arpADPCM[c.arpNum].registerUser(cloneNum)
		}
		if c.ptEnabled {
			m.ptADPCM[c.ptNum].deregisterUser(cloneNum)
			c.ptNum = deepCloneSequence(m.ptADPCM[:], c.ptNum)
			m.ptADPCM[c.ptNum].registerUser(cloneNum)
		}
	}
}

func (m *InstrumentsManager) deepCloneEnvelopeFM(srcNum int) int {
	n := orLastSlot(firstUserless(m.envFM[:]))
	c := m.envFM[srcNum].clone()
	c.setNumber(n)
	m.envFM[n] = c
	return n
}

func (m *InstrumentsManager) deepCloneLFOFM(srcNum int) int {
	n := orLastSlot(firstUserless(m.lfoFM[:]))
	c := m.lfoFM[srcNum].clone()
	c.setNumber(n)
	m.lfoFM[n] = c
	return n
}

func (m *InstrumentsManager) deepCloneWaveformADPCM(srcNum int) int {
	n := orLastSlot(firstUserless(m.wfADPCM[:]))
	c := m.wfADPCM[srcNum].clone()
	c.setNumber(n)
	m.wfADPCM[n] = c
	return n
}

func deepCloneSequence(pool []*CommandSequence, srcNum int) int {
	n := orLastSlot(firstUserless(pool))
	c := pool[srcNum].clone()
	c.setNumber(n)
	pool[n] = c
	return n
}

// RemoveInstrument deregisters the instrument from every macro slot it
// used and returns a detached clone for undo. Slot contents stay in place.
func (m *InstrumentsManager) RemoveInstrument(instNum int) Instrument {
	switch i := m.insts[instNum].(type) {
	case *InstrumentFM:
		m.envFM[i.envNum].deregisterUser(instNum)
		if i.lfoEnabled {
			m.lfoFM[i.lfoNum].deregisterUser(instNum)
		}
		for _, p := range fmOpSequenceParams {
			if i.opSeqEnabled[p] {
				m.opSeqFM[p][i.opSeqNum[p]].deregisterUser(instNum)
			}
		}
		for _, t := range fmOperatorTypes {
			if i.arpEnabled[t] {
				m.arpFM[i.arpNum[t]].deregisterUser(instNum)
			}
			if i.ptEnabled[t] {
				m.ptFM[i.ptNum[t]].deregisterUser(instNum)
			}
		}
	case *InstrumentSSG:
		if i.wfEnabled {
			m.wfSSG[i.wfNum].deregisterUser(instNum)
		}
		if i.tnEnabled {
			m.tnSSG[i.tnNum].deregisterUser(instNum)
		}
		if i.envEnabled {
			m.envSSG[i.envNum].deregisterUser(instNum)
		}
		if i.arpEnabled {
			m.arpSSG[i.arpNum].deregisterUser(instNum)
		}
		if i.ptEnabled {
			m.ptSSG[i.ptNum].deregisterUser(instNum)
		}
	case *InstrumentADPCM:
		m.wfADPCM[i.wfNum].deregisterUser(instNum)
		if i.envEnabled {
			m.envADPCM[i.envNum].deregisterUser(instNum)
		}
		if i.arpEnabled {
			m.arpADPCM[i.arpNum].deregisterUser(instNum)
		}
		if i.ptEnabled {
			m.ptADPCM[i.ptNum].deregisterUser(instNum)
		}
	}

	detached := m.insts[instNum].clone()
	m.insts[instNum] = nil
	return detached
}

// Registered reports whether the given instrument object is the one
// currently occupying its slot. A detached clone from RemoveInstrument is
// not registered even if its slot was refilled.
func (m *InstrumentsManager) Registered(inst Instrument) bool {
	n := inst.Number()
	return n >= 0 && n < propertySlots && m.insts[n] == inst
}

// Instrument returns the instrument in a slot, nil when empty or out of
// range.
func (m *InstrumentsManager) Instrument(instNum int) Instrument {
	if instNum < 0 || instNum >= propertySlots {
		return nil
	}
	return m.insts[instNum]
}

// InstrumentIndices lists occupied instrument slots.
func (m *InstrumentsManager) InstrumentIndices() []int {
	var idcs []int
	for i, inst := range m.insts {
		if inst != nil {
			idcs = append(idcs, i)
		}
	}
	return idcs
}

// InstrumentNameList lists names of occupied slots in slot order.
func (m *InstrumentsManager) InstrumentNameList() []string {
	var names []string
	for _, inst := range m.insts {
		if inst != nil {
			names = append(names, inst.Name())
		}
	}
	return names
}

// FindFirstFreeInstrument returns the lowest empty instrument slot, -1
// when full.
func (m *InstrumentsManager) FindFirstFreeInstrument() int {
	for i, inst := range m.insts {
		if inst == nil {
			return i
		}
	}
	return -1
}

// ClearUnusedInstrumentProperties resets every macro slot no instrument
// references.
func (m *InstrumentsManager) ClearUnusedInstrumentProperties() {
	for i := 0; i < propertySlots; i++ {
		if !m.envFM[i].isUserInstrument() {
			m.envFM[i] = NewEnvelopeFM(i)
		}
		if !m.lfoFM[i].isUserInstrument() {
			m.lfoFM[i] = NewLFOFM(i)
		}
		for _, p := range fmOpSequenceParams {
			if !m.opSeqFM[p][i].isUserInstrument() {
				m.opSeqFM[p][i] = NewCommandSequence(i, SequenceTypeNone, 0)
			}
		}
		if !m.arpFM[i].isUserInstrument() {
			m.arpFM[i] = NewCommandSequence(i, SequenceTypeAbsolute, 48)
		}
		if !m.ptFM[i].isUserInstrument() {
			m.ptFM[i] = NewCommandSequence(i, SequenceTypeAbsolute, 127)
		}
		if !m.wfSSG[i].isUserInstrument() {
			m.wfSSG[i] = NewCommandSequence(i, SequenceTypeNone, 0)
		}
		if !m.tnSSG[i].isUserInstrument() {
			m.tnSSG[i] = NewCommandSequence(i, SequenceTypeNone, 0)
		}
		if !m.envSSG[i].isUserInstrument() {
			m.envSSG[i] = NewCommandSequence(i, SequenceTypeNone, 15)
		}
		if !m.arpSSG[i].isUserInstrument() {
			m.arpSSG[i] = NewCommandSequence(i, SequenceTypeAbsolute, 48)
		}
		if !m.ptSSG[i].isUserInstrument() {
			m.ptSSG[i] = NewCommandSequence(i, SequenceTypeAbsolute, 127)
		}
		if !m.wfADPCM[i].isUserInstrument() {
			m.wfADPCM[i] = NewWaveformADPCM(i)
		}
		if !m.envADPCM[i].isUserInstrument() {
			m.envADPCM[i] = NewCommandSequence(i, SequenceTypeNone, 255)
		}
		if !m.arpADPCM[i].isUserInstrument() {
			m.arpADPCM[i] = NewCommandSequence(i, SequenceTypeAbsolute, 48)
		}
		if !m.ptADPCM[i].isUserInstrument() {
			m.ptADPCM[i] = NewCommandSequence(i, SequenceTypeAbsolute, 127)
		}
	}
}

// CheckDuplicateInstruments groups instruments whose enabled macro
// contents are value-equal (slot identity does not matter). Each returned
// group lists fully interchangeable instrument numbers.
func (m *InstrumentsManager) CheckDuplicateInstruments() [][]int {
	var dup [][]int
	idcs := m.InstrumentIndices()
	for i := 0; i < len(idcs); i++ {
		base := m.insts[idcs[i]]
		group := []int{idcs[i]}
		for j := i + 1; j < len(idcs); {
			tgt := m.insts[idcs[j]]
			if base.Source() == tgt.Source() && m.equalInstrumentProperties(base, tgt) {
				group = append(group, idcs[j])
				idcs = append(idcs[:j], idcs[j+1:]...)
				continue
			}
			j++
		}
		if len(group) > 1 {
			dup = append(dup, group)
		}
	}
	return dup
}

func (m *InstrumentsManager) equalInstrumentProperties(a, b Instrument) bool {
	switch x := a.(type) {
	case *InstrumentFM:
		return m.equalPropertiesFM(x, b.(*InstrumentFM))
	case *InstrumentSSG:
		return m.equalPropertiesSSG(x, b.(*InstrumentSSG))
	case *InstrumentADPCM:
		return m.equalPropertiesADPCM(x, b.(*InstrumentADPCM))
	}
	return false
}

func (m *InstrumentsManager) equalPropertiesFM(a, b *InstrumentFM) bool {
	if !m.envFM[a.envNum].equal(m.envFM[b.envNum]) {
		return false
	}
	if a.lfoEnabled != b.lfoEnabled {
		return false
	}
	if a.lfoEnabled && !m.lfoFM[a.lfoNum].equal(m.lfoFM[b.lfoNum]) {
		return false
	}
	for _, p := range fmOpSequenceParams {
		if a.opSeqEnabled[p] != b.opSeqEnabled[p] {
			return false
		}
		if a.opSeqEnabled[p] && !m.opSeqFM[p][a.opSeqNum[p]].equal(m.opSeqFM[p][b.opSeqNum[p]]) {
			return false
		}
	}
	for _, t := range fmOperatorTypes {
		if a.arpEnabled[t] != b.arpEnabled[t] {
			return false
		}
		if a.arpEnabled[t] && !m.arpFM[a.arpNum[t]].equal(m.arpFM[b.arpNum[t]]) {
			return false
		}
		if a.ptEnabled[t] != b.ptEnabled[t] {
			return false
		}
		if a.ptEnabled[t] && !m.ptFM[a.ptNum[t]].equal(m.ptFM[b.ptNum[t]]) {
			return false
		}
		if a.envResetEnabled[t] != b.envResetEnabled[t] {
			return false
		}
	}
	return true
}

func (m *InstrumentsManager) equalPropertiesSSG(a, b *InstrumentSSG) bool {
	if a.wfEnabled != b.wfEnabled {
		return false
	}
	if a.wfEnabled && !m.wfSSG[a.wfNum].equal(m.wfSSG[b.wfNum]) {
		return false
	}
	if a.tnEnabled != b.tnEnabled {
		return false
	}
	if a.tnEnabled && !m.tnSSG[a.tnNum].equal(m.tnSSG[b.tnNum]) {
		return false
	}
	if a.envEnabled != b.envEnabled {
		return false
	}
	if a.envEnabled && !m.envSSG[a.envNum].equal(m.envSSG[b.envNum]) {
		return false
	}
	if a.arpEnabled != b.arpEnabled {
		return false
	}
	if a.arpEnabled && !m.arpSSG[a.arpNum].equal(m.arpSSG[b.arpNum]) {
		return false
	}
	if a.ptEnabled != b.ptEnabled {
		return false
	}
	if a.ptEnabled && !m.ptSSG[a.ptNum].equal(m.ptSSG[b.ptNum]) {
		return false
	}
	return true
}

func (m *InstrumentsManager) equalPropertiesADPCM(a, b *InstrumentADPCM) bool {
	if !m.wfADPCM[a.wfNum].equal(m.wfADPCM[b.wfNum]) {
		return false
	}
	if a.envEnabled != b.envEnabled {
		return false
	}
	if a.envEnabled && !m.envADPCM[a.envNum].equal(m.envADPCM[b.envNum]) {
		return false
	}
	if a.arpEnabled != b.arpEnabled {
		return false
	}
	if a.arpEnabled && !m.arpADPCM[a.arpNum].equal(m.arpADPCM[b.arpNum]) {
		return false
	}
	if a.ptEnabled != b.ptEnabled {
		return false
	}
	if a.ptEnabled && !m.ptADPCM[a.ptNum].equal(m.ptADPCM[b.ptNum]) {
		return false
	}
	return true
}
