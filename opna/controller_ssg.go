package opna

import "math"

// SSGWaveformType is the waveform a channel plays: the plain square tone,
// a buzz waveform made from the hardware envelope, or a buzz waveform with
// the square tone layered on top as a mask.
type SSGWaveformType int

const (
	SSGWaveformUnset SSGWaveformType = iota - 1
	SSGWaveformSquare
	SSGWaveformTriangle
	SSGWaveformSaw
	SSGWaveformInvSaw
	SSGWaveformSqMaskTriangle
	SSGWaveformSqMaskSaw
	SSGWaveformSqMaskInvSaw
)

// ssgWaveform is the channel's committed waveform state. data carries the
// square mask frequency (raw period or ratio) for the masked types.
type ssgWaveform struct {
	typ  SSGWaveformType
	data int
}

// ssgEnvelope is the channel's committed envelope state: typ is -1 when
// unset, 0-15 for a software volume, 16-23 for a hardware shape. data
// carries the hardware period (raw or ratio/shift relative to the tone).
type ssgEnvelope struct {
	typ  int
	data int
}

// toneNoiseState mirrors the channel's share of the mixer register plus
// the committed noise period.
type toneNoiseState struct {
	isTone      bool
	isNoise     bool
	noisePeriod int
}

func ssgToneFlag(ch int) uint8  { return 1 << ch }
func ssgNoiseFlag(ch int) uint8 { return 1 << (ch + 3) }

// autoEnvShapeType maps the auto envelope effect's shape value (1-15) to
// the committed envelope type. Shapes below 8 alias the hardware's
// one-shot and repeating forms.
var autoEnvShapeType = [15]int{
	17, 17, 17, 23, 23, 23, 23,
	16, 17, 18, 19, 20, 21, 22, 23,
}

// KeyOnSSG triggers a note on an SSG channel.
func (c *OPNAController) KeyOnSSG(ch int, note Note, octave, pitch int, jam bool) {
	if c.isMuteSSG[ch] {
		return
	}

	c.baseToneSSG[ch].push(ToneDetail{Octave: octave, Note: note, Pitch: pitch})

	isTonePrtm := c.isTonePrtmSSG[ch] && c.hasKeyOnBeforeSSG[ch]
	if isTonePrtm {
		c.keyToneSSG[ch].Pitch += c.sumNoteSldSSG[ch] + c.transposeSSG[ch]
	} else {
		c.keyToneSSG[ch] = c.baseToneSSG[ch].latest()
		c.sumPitchSSG[ch] = 0
		c.sumVolSldSSG[ch] = 0
	}
	if c.tmpVolSSG[ch] != -1 {
		c.SetVolumeSSG(ch, c.baseVolSSG[ch])
	}
	if !c.noteSldSSGSetFlag {
		c.nsItSSG[ch] = nil
	}
	c.noteSldSSGSetFlag = false
	c.needToneSetSSG[ch] = true
	c.sumNoteSldSSG[ch] = 0
	c.transposeSSG[ch] = 0

	c.isKeyOnSSG[ch] = false // used inside the front sequence writers
	c.setFrontSSGSequences(ch)
	c.hasPreSetTickSSG[ch] = jam
	c.isKeyOnSSG[ch] = true
	c.hasKeyOnBeforeSSG[ch] = true
}

// KeyOnSSGEcho re-triggers a tone from the channel's echo buffer.
func (c *OPNAController) KeyOnSSGEcho(ch, echoBuf int) {
	td := c.baseToneSSG[ch].at(echoBuf)
	if td.Octave == -1 {
		return
	}
	c.KeyOnSSG(ch, td.Note, td.Octave, td.Pitch, false)
}

// KeyOffSSG releases a note, advancing sequences into their release region.
func (c *OPNAController) KeyOffSSG(ch int, jam bool) {
	if !c.isKeyOnSSG[ch] {
		c.tickEventSSG(ch)
		return
	}
	c.releaseStartSSGSequences(ch)
	c.hasPreSetTickSSG[ch] = jam
	c.isKeyOnSSG[ch] = false
}

// SetInstrumentSSG binds an instrument and rebuilds its macro iterators.
func (c *OPNAController) SetInstrumentSSG(ch int, inst *InstrumentSSG) {
	c.instSSG[ch] = inst

	if inst.WaveformEnabled() {
		c.wfItSSG[ch] = c.mgr.WaveformSSGIterator(inst.WaveformNumber())
	} else {
		c.wfItSSG[ch] = nil
	}
	if inst.ToneNoiseEnabled() {
		c.tnItSSG[ch] = c.mgr.ToneNoiseSSGIterator(inst.ToneNoiseNumber())
	} else {
		c.tnItSSG[ch] = nil
	}
	if inst.EnvelopeEnabled() {
		c.envItSSG[ch] = c.mgr.EnvelopeSSGIterator(inst.EnvelopeNumber())
	} else {
		c.envItSSG[ch] = nil
	}
	if !c.isArpEffSSG[ch] {
		if inst.ArpeggioEnabled() {
			c.arpItSSG[ch] = c.mgr.ArpeggioSSGIterator(inst.ArpeggioNumber())
		} else {
			c.arpItSSG[ch] = nil
		}
	}
	if inst.PitchEnabled() {
		c.ptItSSG[ch] = c.mgr.PitchSSGIterator(inst.PitchNumber())
	} else {
		c.ptItSSG[ch] = nil
	}
}

// UpdateInstrumentSSG drops iterators whose macro was disabled by an edit.
func (c *OPNAController) UpdateInstrumentSSG(instNum int) {
	for ch := 0; ch < ssgChannelCount; ch++ {
		inst := c.instSSG[ch]
		if inst == nil || !c.mgr.Registered(inst) || inst.Number() != instNum {
			continue
		}
		if !inst.WaveformEnabled() {
			c.wfItSSG[ch] = nil
		}
		if !inst.ToneNoiseEnabled() {
			c.tnItSSG[ch] = nil
		}
		if !inst.EnvelopeEnabled() {
			c.envItSSG[ch] = nil
		}
		if !inst.ArpeggioEnabled() {
			c.arpItSSG[ch] = nil
		}
		if !inst.PitchEnabled() {
			c.ptItSSG[ch] = nil
		}
	}
}

// SetVolumeSSG sets the 4-bit base volume. Out-of-range values are ignored.
func (c *OPNAController) SetVolumeSSG(ch, volume int) {
	if volume > 0xf {
		return
	}
	c.baseVolSSG[ch] = volume
	c.tmpVolSSG[ch] = -1

	if c.isKeyOnSSG[ch] {
		c.setRealVolumeSSG(ch)
	}
}

// SetTemporaryVolumeSSG sets a one-note volume override.
func (c *OPNAController) SetTemporaryVolumeSSG(ch, volume int) {
	if volume > 0xf {
		return
	}
	c.tmpVolSSG[ch] = volume

	if c.isKeyOnSSG[ch] {
		c.setRealVolumeSSG(ch)
	}
}

// setRealVolumeSSG writes the level register from base volume, envelope
// macro attenuation, tremolo and volume slide. Buzz and hardware envelope
// channels own the level register and are left alone.
func (c *OPNAController) setRealVolumeSSG(ch int) {
	if c.isBuzzEffSSG[ch] || c.isHardEnvSSG[ch] {
		return
	}

	vol := c.baseVolSSG[ch]
	if c.tmpVolSSG[ch] != -1 {
		vol = c.tmpVolSSG[ch]
	}
	if c.envItSSG[ch] != nil {
		if t := c.envItSSG[ch].CommandType(); 0 <= t && t < 16 {
			vol -= 15 - t
		}
	}
	if c.treItSSG[ch] != nil {
		vol += c.treItSSG[ch].CommandType()
	}
	vol += c.sumVolSldSSG[ch]
	vol = clamp(vol, 0, 15)

	c.chip.SetRegister(0x08+uint32(ch), uint8(vol))
	c.needEnvSetSSG[ch] = false
}

// SetArpeggioEffectSSG enables a live arpeggio, shadowing the instrument's
// arpeggio macro until cleared.
func (c *OPNAController) SetArpeggioEffectSSG(ch, second, third int) {
	if second != 0 || third != 0 {
		c.arpItSSG[ch] = NewArpeggioEffectIterator(second, third)
		c.isArpEffSSG[ch] = true
		return
	}
	if inst := c.instSSG[ch]; inst != nil && inst.ArpeggioEnabled() {
		c.arpItSSG[ch] = c.mgr.ArpeggioSSGIterator(inst.ArpeggioNumber())
	} else {
		c.arpItSSG[ch] = nil
	}
	c.isArpEffSSG[ch] = false
}

func (c *OPNAController) SetPortamentoEffectSSG(ch, depth int, isTonePortamento bool) {
	c.prtmSSG[ch] = depth
	c.isTonePrtmSSG[ch] = depth != 0 && isTonePortamento
}

func (c *OPNAController) SetVibratoEffectSSG(ch, period, depth int) {
	if period != 0 && depth != 0 {
		c.vibItSSG[ch] = NewWavingEffectIterator(period, depth)
	} else {
		c.vibItSSG[ch] = nil
	}
}

func (c *OPNAController) SetTremoloEffectSSG(ch, period, depth int) {
	if period != 0 && depth != 0 {
		c.treItSSG[ch] = NewWavingEffectIterator(period, depth)
	} else {
		c.treItSSG[ch] = nil
	}
}

func (c *OPNAController) SetVolumeSlideSSG(ch, depth int, isUp bool) {
	if isUp {
		c.volSldSSG[ch] = depth
	} else {
		c.volSldSSG[ch] = -depth
	}
}

func (c *OPNAController) SetDetuneSSG(ch, pitch int) {
	c.detuneSSG[ch] = pitch
	c.needToneSetSSG[ch] = true
}

func (c *OPNAController) SetNoteSlideSSG(ch, speed, seminote int) {
	if seminote != 0 {
		c.nsItSSG[ch] = NewNoteSlideEffectIterator(speed, seminote)
		c.noteSldSSGSetFlag = true
	} else {
		c.nsItSSG[ch] = nil
	}
}

func (c *OPNAController) SetTransposeEffectSSG(ch, seminote int) {
	c.transposeSSG[ch] += seminote * PitchPerSeminote
	c.needToneSetSSG[ch] = true
}

// SetToneNoiseMixSSG overrides the channel's mixer bits: bit 0 enables the
// tone, bit 1 the noise. The tone/noise macro is detached.
func (c *OPNAController) SetToneNoiseMixSSG(ch, value int) {
	c.toneNoiseMixSSG[ch] = value

	if value&0x1 != 0 {
		c.mixerSSG &^= ssgToneFlag(ch)
		c.tnSSG[ch].isTone = true
	} else {
		c.mixerSSG |= ssgToneFlag(ch)
		c.tnSSG[ch].isTone = false
	}
	if value&0x2 != 0 {
		c.mixerSSG &^= ssgNoiseFlag(ch)
		c.tnSSG[ch].isNoise = true
	} else {
		c.mixerSSG |= ssgNoiseFlag(ch)
		c.tnSSG[ch].isNoise = false
	}
	c.chip.SetRegister(0x07, c.mixerSSG)

	c.tnItSSG[ch] = nil
}

// SetNoisePitchSSG writes the shared noise period. The register counts in
// the opposite direction from the effect value.
func (c *OPNAController) SetNoisePitchSSG(ch, pitch int) {
	c.noisePitchSSG = pitch
	c.tnSSG[ch].noisePeriod = pitch
	c.chip.SetRegister(0x06, uint8(31-pitch))
}

// SetHardEnvelopePeriodSSG latches one byte of the hardware envelope
// period, writing through only while a raw-period hardware envelope is
// active.
func (c *OPNAController) SetHardEnvelopePeriodSSG(ch int, high bool, period int) {
	sendable := c.isHardEnvSSG[ch] && CheckDataType(c.envSSG[ch].data) == DataRaw
	if high {
		c.hardEnvPeriodHiSSG = period
		if sendable {
			c.envSSG[ch].data = c.envSSG[ch].data&0x00ff | period<<8
			c.chip.SetRegister(0x0c, uint8(period))
		}
	} else {
		c.hardEnvPeriodLoSSG = period
		if sendable {
			c.envSSG[ch].data = c.envSSG[ch].data&0xff00 | period
			c.chip.SetRegister(0x0b, uint8(period))
		}
	}
}

// SetAutoEnvelopeSSG enables a hardware envelope whose period follows the
// tone. shift -8 selects the latched raw period instead; shape 0 disables
// the envelope.
func (c *OPNAController) SetAutoEnvelopeSSG(ch, shift, shape int) {
	if shape != 0 {
		c.chip.SetRegister(0x0d, uint8(shape))
		c.envSSG[ch].typ = autoEnvShapeType[shape-1]
		c.chip.SetRegister(0x08+uint32(ch), 0x10)
		c.isHardEnvSSG[ch] = true
	}
	if shift == -8 {
		c.envSSG[ch].data = c.hardEnvPeriodHiSSG<<8 | c.hardEnvPeriodLoSSG
		c.chip.SetRegister(0x0c, uint8(c.hardEnvPeriodHiSSG))
		c.chip.SetRegister(0x0b, uint8(c.hardEnvPeriodLoSSG))
	} else if shift < 0 {
		c.envSSG[ch].data = ShiftToData(-shift, false)
	} else {
		c.envSSG[ch].data = ShiftToData(shift, true)
	}
	if shape == 0 {
		c.isHardEnvSSG[ch] = false
		c.envSSG[ch] = ssgEnvelope{typ: -1, data: NoData}
	}
	c.needEnvSetSSG[ch] = true
	c.envItSSG[ch] = nil
}

// HaltSequencesSSG forces every iterator on the channel to its end state.
func (c *OPNAController) HaltSequencesSSG(ch int) {
	for _, it := range []SequenceIteratorInterface{c.arpItSSG[ch], c.ptItSSG[ch]} {
		if it != nil {
			it.End()
		}
	}
	for _, it := range []*SequenceIterator{c.wfItSSG[ch], c.tnItSSG[ch], c.envItSSG[ch]} {
		if it != nil {
			it.End()
		}
	}
	if c.treItSSG[ch] != nil {
		c.treItSSG[ch].End()
	}
	if c.vibItSSG[ch] != nil {
		c.vibItSSG[ch].End()
	}
	if c.nsItSSG[ch] != nil {
		c.nsItSSG[ch].End()
	}
}

func (c *OPNAController) IsKeyOnSSG(ch int) bool          { return c.isKeyOnSSG[ch] }
func (c *OPNAController) IsTonePortamentoSSG(ch int) bool { return c.isTonePrtmSSG[ch] }
func (c *OPNAController) SSGTone(ch int) ToneDetail       { return c.baseToneSSG[ch].latest() }

func (c *OPNAController) initSSG() {
	c.mixerSSG = 0xff
	c.chip.SetRegister(0x07, c.mixerSSG) // all tone and noise off
	c.noisePitchSSG = 0
	c.hardEnvPeriodHiSSG = 0
	c.hardEnvPeriodLoSSG = 0
	c.noteSldSSGSetFlag = false

	for ch := 0; ch < ssgChannelCount; ch++ {
		c.isKeyOnSSG[ch] = false
		c.hasKeyOnBeforeSSG[ch] = false
		c.instSSG[ch] = nil

		c.baseToneSSG[ch] = newEchoBuffer()
		c.keyToneSSG[ch] = ToneDetail{Octave: -1}
		c.sumPitchSSG[ch] = 0
		c.tnSSG[ch] = toneNoiseState{noisePeriod: -1}
		c.baseVolSSG[ch] = 0xf
		c.tmpVolSSG[ch] = -1
		c.isHardEnvSSG[ch] = false
		c.isBuzzEffSSG[ch] = false
		c.wfSSG[ch] = ssgWaveform{typ: SSGWaveformUnset, data: NoData}
		c.envSSG[ch] = ssgEnvelope{typ: -1, data: NoData}

		c.wfItSSG[ch] = nil
		c.tnItSSG[ch] = nil
		c.envItSSG[ch] = nil
		c.arpItSSG[ch] = nil
		c.ptItSSG[ch] = nil
		c.vibItSSG[ch] = nil
		c.treItSSG[ch] = nil
		c.nsItSSG[ch] = nil

		c.hasPreSetTickSSG[ch] = false
		c.needEnvSetSSG[ch] = false
		c.setHardEnvIfNeeded[ch] = false
		c.needMixSetSSG[ch] = false
		c.needToneSetSSG[ch] = false
		c.needSqMaskSetSSG[ch] = false

		c.isArpEffSSG[ch] = false
		c.prtmSSG[ch] = 0
		c.isTonePrtmSSG[ch] = false
		c.volSldSSG[ch] = 0
		c.sumVolSldSSG[ch] = 0
		c.detuneSSG[ch] = 0
		c.sumNoteSldSSG[ch] = 0
		c.transposeSSG[ch] = 0
		c.toneNoiseMixSSG[ch] = 0
	}
}

func (c *OPNAController) setMuteSSGState(ch int, mute bool) {
	c.isMuteSSG[ch] = mute

	if mute {
		c.chip.SetRegister(0x08+uint32(ch), 0)
		c.isKeyOnSSG[ch] = false
	}
}

func (c *OPNAController) setFrontSSGSequences(ch int) {
	if c.isMuteSSG[ch] {
		return
	}

	c.setHardEnvIfNeeded[ch] = false

	if c.wfItSSG[ch] != nil {
		c.writeWaveformSSGToRegister(ch, c.wfItSSG[ch].Front())
	} else {
		c.writeSquareWaveform(ch)
	}

	if c.treItSSG[ch] != nil {
		c.treItSSG[ch].Front()
		c.needEnvSetSSG[ch] = true
	}
	if c.volSldSSG[ch] != 0 {
		c.sumVolSldSSG[ch] += c.volSldSSG[ch]
		c.needEnvSetSSG[ch] = true
	}
	if c.envItSSG[ch] != nil {
		c.writeEnvelopeSSGToRegister(ch, c.envItSSG[ch].Front())
	} else {
		c.setRealVolumeSSG(ch)
	}

	if c.tnItSSG[ch] != nil {
		c.writeToneNoiseSSGToRegister(ch, c.tnItSSG[ch].Front())
	} else if c.needMixSetSSG[ch] {
		c.writeToneNoiseSSGToRegisterNoReference(ch)
	}

	if c.arpItSSG[ch] != nil {
		checkRealToneByArpeggio(c.arpItSSG[ch].Front(), c.arpItSSG[ch],
			&c.baseToneSSG[ch], &c.keyToneSSG[ch], &c.needToneSetSSG[ch])
	}
	checkPortamento(c.arpItSSG[ch], c.prtmSSG[ch], c.hasKeyOnBeforeSSG[ch],
		c.isTonePrtmSSG[ch], &c.baseToneSSG[ch], &c.keyToneSSG[ch], &c.needToneSetSSG[ch])

	if c.ptItSSG[ch] != nil {
		checkRealToneByPitch(c.ptItSSG[ch].Front(), c.ptItSSG[ch],
			&c.sumPitchSSG[ch], &c.needToneSetSSG[ch])
	}
	if c.vibItSSG[ch] != nil {
		c.vibItSSG[ch].Front()
		c.needToneSetSSG[ch] = true
	}
	if c.nsItSSG[ch] != nil && c.nsItSSG[ch].Front() != -1 {
		c.sumNoteSldSSG[ch] += c.nsItSSG[ch].CommandType()
		c.needToneSetSSG[ch] = true
	}

	c.writePitchSSG(ch)
}

func (c *OPNAController) releaseStartSSGSequences(ch int) {
	if c.isMuteSSG[ch] {
		return
	}

	if c.wfItSSG[ch] != nil {
		c.writeWaveformSSGToRegister(ch, c.wfItSSG[ch].Next(true))
	}

	if c.treItSSG[ch] != nil {
		c.treItSSG[ch].Next(true)
		c.needEnvSetSSG[ch] = true
	}
	if c.volSldSSG[ch] != 0 {
		c.sumVolSldSSG[ch] += c.volSldSSG[ch]
		c.needEnvSetSSG[ch] = true
	}
	if c.envItSSG[ch] != nil {
		if pos := c.envItSSG[ch].Next(true); pos == -1 {
			c.chip.SetRegister(0x08+uint32(ch), 0)
			c.isHardEnvSSG[ch] = false
		} else {
			c.writeEnvelopeSSGToRegister(ch, pos)
		}
	} else if !c.hasPreSetTickSSG[ch] {
		c.chip.SetRegister(0x08+uint32(ch), 0)
		c.isHardEnvSSG[ch] = false
	}

	if c.tnItSSG[ch] != nil {
		c.writeToneNoiseSSGToRegister(ch, c.tnItSSG[ch].Next(true))
	} else if c.needMixSetSSG[ch] {
		c.writeToneNoiseSSGToRegisterNoReference(ch)
	}

	if c.arpItSSG[ch] != nil {
		checkRealToneByArpeggio(c.arpItSSG[ch].Next(true), c.arpItSSG[ch],
			&c.baseToneSSG[ch], &c.keyToneSSG[ch], &c.needToneSetSSG[ch])
	}
	checkPortamento(c.arpItSSG[ch], c.prtmSSG[ch], c.hasKeyOnBeforeSSG[ch],
		c.isTonePrtmSSG[ch], &c.baseToneSSG[ch], &c.keyToneSSG[ch], &c.needToneSetSSG[ch])

	if c.ptItSSG[ch] != nil {
		checkRealToneByPitch(c.ptItSSG[ch].Next(true), c.ptItSSG[ch],
			&c.sumPitchSSG[ch], &c.needToneSetSSG[ch])
	}
	if c.vibItSSG[ch] != nil {
		c.vibItSSG[ch].Next(true)
		c.needToneSetSSG[ch] = true
	}
	if c.nsItSSG[ch] != nil && c.nsItSSG[ch].Next(true) != -1 {
		c.sumNoteSldSSG[ch] += c.nsItSSG[ch].CommandType()
		c.needToneSetSSG[ch] = true
	}

	if c.needToneSetSSG[ch] || (c.isHardEnvSSG[ch] && c.needEnvSetSSG[ch]) ||
		c.needSqMaskSetSSG[ch] {
		c.writePitchSSG(ch)
	}
}

func (c *OPNAController) tickEventSSG(ch int) {
	if c.hasPreSetTickSSG[ch] {
		c.hasPreSetTickSSG[ch] = false
		return
	}
	if c.isMuteSSG[ch] {
		return
	}

	if c.wfItSSG[ch] != nil {
		c.writeWaveformSSGToRegister(ch, c.wfItSSG[ch].Next(false))
	}

	if c.treItSSG[ch] != nil {
		c.treItSSG[ch].Next(false)
		c.needEnvSetSSG[ch] = true
	}
	if c.volSldSSG[ch] != 0 {
		c.sumVolSldSSG[ch] += c.volSldSSG[ch]
		c.needEnvSetSSG[ch] = true
	}
	if c.envItSSG[ch] != nil {
		c.writeEnvelopeSSGToRegister(ch, c.envItSSG[ch].Next(false))
	} else if c.needToneSetSSG[ch] || c.needEnvSetSSG[ch] {
		c.setRealVolumeSSG(ch)
	}

	if c.tnItSSG[ch] != nil {
		c.writeToneNoiseSSGToRegister(ch, c.tnItSSG[ch].Next(false))
	} else if c.needMixSetSSG[ch] {
		c.writeToneNoiseSSGToRegisterNoReference(ch)
	}

	if c.arpItSSG[ch] != nil {
		checkRealToneByArpeggio(c.arpItSSG[ch].Next(false), c.arpItSSG[ch],
			&c.baseToneSSG[ch], &c.keyToneSSG[ch], &c.needToneSetSSG[ch])
	}
	checkPortamento(c.arpItSSG[ch], c.prtmSSG[ch], c.hasKeyOnBeforeSSG[ch],
		c.isTonePrtmSSG[ch], &c.baseToneSSG[ch], &c.keyToneSSG[ch], &c.needToneSetSSG[ch])

	if c.ptItSSG[ch] != nil {
		checkRealToneByPitch(c.ptItSSG[ch].Next(false), c.ptItSSG[ch],
			&c.sumPitchSSG[ch], &c.needToneSetSSG[ch])
	}
	if c.vibItSSG[ch] != nil {
		c.vibItSSG[ch].Next(false)
		c.needToneSetSSG[ch] = true
	}
	if c.nsItSSG[ch] != nil && c.nsItSSG[ch].Next(false) != -1 {
		c.sumNoteSldSSG[ch] += c.nsItSSG[ch].CommandType()
		c.needToneSetSSG[ch] = true
	}

	if c.needToneSetSSG[ch] || (c.isHardEnvSSG[ch] && c.needEnvSetSSG[ch]) ||
		c.needSqMaskSetSSG[ch] {
		c.writePitchSSG(ch)
	}
}

// writeWaveformSSGToRegister commits the waveform macro's current command,
// writing only the registers that differ from the committed state.
func (c *OPNAController) writeWaveformSSGToRegister(ch, seqPos int) {
	if seqPos == -1 {
		return
	}

	wf := SSGWaveformType(c.wfItSSG[ch].CommandType())
	data := c.wfItSSG[ch].CommandData()

	if wf == SSGWaveformSquare {
		c.writeSquareWaveform(ch)
		return
	}

	sqmask := wf >= SSGWaveformSqMaskTriangle
	if c.wfSSG[ch].typ == wf && (!sqmask || c.wfSSG[ch].data == data) && c.isKeyOnSSG[ch] {
		return
	}

	// Leaving the square tone or a square mask changes the mixer share.
	switch c.wfSSG[ch].typ {
	case SSGWaveformUnset, SSGWaveformSquare,
		SSGWaveformSqMaskTriangle, SSGWaveformSqMaskSaw, SSGWaveformSqMaskInvSaw:
		c.needMixSetSSG[ch] = true
	}

	if sqmask && c.wfSSG[ch].data != data {
		switch CheckDataType(data) {
		case DataRatio:
			c.needSqMaskSetSSG[ch] = true
		case DataRaw:
			c.chip.SetRegister(0x00+2*uint32(ch), uint8(data))
			c.chip.SetRegister(0x01+2*uint32(ch), uint8(data>>8))
		}
	}

	var shape uint8
	var sameShape bool
	switch wf {
	case SSGWaveformTriangle, SSGWaveformSqMaskTriangle:
		shape = 0x0e
		sameShape = c.wfSSG[ch].typ == SSGWaveformTriangle ||
			c.wfSSG[ch].typ == SSGWaveformSqMaskTriangle
	case SSGWaveformSaw, SSGWaveformSqMaskSaw:
		shape = 0x0c
		sameShape = c.wfSSG[ch].typ == SSGWaveformSaw ||
			c.wfSSG[ch].typ == SSGWaveformSqMaskSaw
	default:
		shape = 0x08
		sameShape = c.wfSSG[ch].typ == SSGWaveformInvSaw ||
			c.wfSSG[ch].typ == SSGWaveformSqMaskInvSaw
	}
	if !sameShape || !c.isKeyOnSSG[ch] {
		c.chip.SetRegister(0x0d, shape)
	}

	if c.isHardEnvSSG[ch] {
		c.isBuzzEffSSG[ch] = true
		c.isHardEnvSSG[ch] = false
	} else if !c.isBuzzEffSSG[ch] || !c.isKeyOnSSG[ch] {
		c.isBuzzEffSSG[ch] = true
		c.chip.SetRegister(0x08+uint32(ch), 0x10)
	}

	if c.envSSG[ch].typ == 0 {
		c.envSSG[ch] = ssgEnvelope{typ: -1, data: NoData}
	}

	c.needEnvSetSSG[ch] = false
	c.needToneSetSSG[ch] = true
	if sqmask {
		c.wfSSG[ch] = ssgWaveform{typ: wf, data: data}
	} else {
		c.needSqMaskSetSSG[ch] = false
		c.wfSSG[ch] = ssgWaveform{typ: wf, data: NoData}
	}
}

// writeSquareWaveform commits the plain square tone, releasing the
// envelope generator if a buzz waveform held it.
func (c *OPNAController) writeSquareWaveform(ch int) {
	if c.wfSSG[ch].typ == SSGWaveformSquare {
		if !c.isKeyOnSSG[ch] {
			c.needEnvSetSSG[ch] = true
			c.needToneSetSSG[ch] = true
		}
		return
	}

	switch c.wfSSG[ch].typ {
	case SSGWaveformSqMaskTriangle, SSGWaveformSqMaskSaw, SSGWaveformSqMaskInvSaw:
		// Mask waveforms already ran the square tone.
	default:
		c.needMixSetSSG[ch] = true
	}

	if c.isBuzzEffSSG[ch] {
		c.isBuzzEffSSG[ch] = false
		c.setHardEnvIfNeeded[ch] = true
	}

	c.needEnvSetSSG[ch] = true
	c.needToneSetSSG[ch] = true
	c.needSqMaskSetSSG[ch] = false
	c.wfSSG[ch] = ssgWaveform{typ: SSGWaveformSquare, data: NoData}
}

// writeToneNoiseSSGToRegister commits the tone/noise macro's current
// command. Command 0 is tone, 1-32 noise with period, above 32 both.
func (c *OPNAController) writeToneNoiseSSGToRegister(ch, seqPos int) {
	if seqPos == -1 {
		if c.needMixSetSSG[ch] {
			c.writeToneNoiseSSGToRegisterNoReference(ch)
		}
		return
	}

	cmd := c.tnItSSG[ch].CommandType()
	mixer := c.mixerSSG

	setTone := func() {
		switch c.wfSSG[ch].typ {
		case SSGWaveformTriangle, SSGWaveformSaw, SSGWaveformInvSaw:
			// Buzz waveforms keep the square tone masked.
			mixer |= ssgToneFlag(ch)
			c.tnSSG[ch].isTone = false
		default:
			mixer &^= ssgToneFlag(ch)
			c.tnSSG[ch].isTone = true
		}
	}
	setNoise := func(period int) {
		mixer &^= ssgNoiseFlag(ch)
		c.tnSSG[ch].isNoise = true
		if c.tnSSG[ch].noisePeriod != period {
			c.chip.SetRegister(0x06, uint8(31-period))
			c.tnSSG[ch].noisePeriod = period
		}
	}

	switch {
	case cmd == 0:
		setTone()
		mixer |= ssgNoiseFlag(ch)
		c.tnSSG[ch].isNoise = false
	case cmd > 32:
		setTone()
		setNoise(cmd - 33)
	default:
		mixer |= ssgToneFlag(ch)
		c.tnSSG[ch].isTone = false
		setNoise(cmd - 1)
	}

	if mixer != c.mixerSSG {
		c.mixerSSG = mixer
		c.chip.SetRegister(0x07, c.mixerSSG)
	}
	c.needMixSetSSG[ch] = false
}

// writeToneNoiseSSGToRegisterNoReference refreshes the mixer after a
// waveform change when no tone/noise macro drives the channel.
func (c *OPNAController) writeToneNoiseSSGToRegisterNoReference(ch int) {
	switch c.wfSSG[ch].typ {
	case SSGWaveformTriangle, SSGWaveformSaw, SSGWaveformInvSaw:
		c.mixerSSG |= ssgToneFlag(ch)
		c.tnSSG[ch].isTone = false
	default:
		c.mixerSSG &^= ssgToneFlag(ch)
		c.tnSSG[ch].isTone = true
	}
	c.chip.SetRegister(0x07, c.mixerSSG)
	c.needMixSetSSG[ch] = false
}

// writeEnvelopeSSGToRegister commits the envelope macro's current command:
// types below 16 are software volumes, the rest hardware envelope shapes.
func (c *OPNAController) writeEnvelopeSSGToRegister(ch, seqPos int) {
	if c.isBuzzEffSSG[ch] {
		return
	}
	if seqPos == -1 {
		if c.needEnvSetSSG[ch] {
			c.setRealVolumeSSG(ch)
		}
		return
	}

	t := c.envItSSG[ch].CommandType()
	data := c.envItSSG[ch].CommandData()

	if t < 16 {
		c.isHardEnvSSG[ch] = false
		c.envSSG[ch] = ssgEnvelope{typ: t, data: NoData}
		c.setRealVolumeSSG(ch)
		return
	}

	if c.envSSG[ch].data != data || c.setHardEnvIfNeeded[ch] {
		c.envSSG[ch].data = data
		if CheckDataType(data) == DataRatio {
			c.needEnvSetSSG[ch] = true // period follows the tone pitch
		} else {
			c.chip.SetRegister(0x0b, uint8(data))
			c.chip.SetRegister(0x0c, uint8(data>>8))
			c.needEnvSetSSG[ch] = false
		}
	}
	if c.envSSG[ch].typ != t || !c.isKeyOnSSG[ch] || c.setHardEnvIfNeeded[ch] {
		c.chip.SetRegister(0x0d, uint8(t-16+8))
		c.envSSG[ch].typ = t
		if CheckDataType(data) == DataRatio {
			c.needEnvSetSSG[ch] = true
		}
	}
	if !c.isHardEnvSSG[ch] {
		c.chip.SetRegister(0x08+uint32(ch), 0x10)
		c.isHardEnvSSG[ch] = true
	}
	c.setHardEnvIfNeeded[ch] = false
}

// writePitchSSG writes the frequency registers of whatever the committed
// waveform uses: the tone period, the envelope period, or both for the
// masked waveforms.
func (c *OPNAController) writePitchSSG(ch int) {
	if c.keyToneSSG[ch].Octave == -1 {
		return // No note set yet
	}

	vib := 0
	if c.vibItSSG[ch] != nil {
		vib = c.vibItSSG[ch].CommandType()
	}
	note := c.keyToneSSG[ch].Note
	oct := c.keyToneSSG[ch].Octave
	p := c.keyToneSSG[ch].Pitch + c.sumPitchSSG[ch] + vib + c.detuneSSG[ch] +
		c.sumNoteSldSSG[ch] + c.transposeSSG[ch]

	switch c.wfSSG[ch].typ {
	case SSGWaveformSquare:
		pitch := PitchSSGSquare(note, oct, p)
		if c.needToneSetSSG[ch] {
			c.chip.SetRegister(0x00+2*uint32(ch), uint8(pitch))
			c.chip.SetRegister(0x01+2*uint32(ch), uint8(pitch>>8))
			c.writeAutoEnvelopePitchSSG(ch, pitch)
		} else if c.isHardEnvSSG[ch] && c.needEnvSetSSG[ch] {
			c.writeAutoEnvelopePitchSSG(ch, pitch)
		}
	case SSGWaveformTriangle:
		if c.needToneSetSSG[ch] {
			pitch := PitchSSGTriangle(note, oct, p)
			c.chip.SetRegister(0x0b, uint8(pitch))
			c.chip.SetRegister(0x0c, uint8(pitch>>8))
		}
	case SSGWaveformSaw, SSGWaveformInvSaw:
		if c.needToneSetSSG[ch] {
			pitch := PitchSSGSaw(note, oct, p)
			c.chip.SetRegister(0x0b, uint8(pitch))
			c.chip.SetRegister(0x0c, uint8(pitch>>8))
		}
	case SSGWaveformSqMaskTriangle:
		pitch := PitchSSGTriangle(note, oct, p)
		if c.needToneSetSSG[ch] {
			c.chip.SetRegister(0x0b, uint8(pitch))
			c.chip.SetRegister(0x0c, uint8(pitch>>8))
			if CheckDataType(c.wfSSG[ch].data) == DataRatio {
				c.writeSquareMaskPitchSSG(ch, pitch, true)
			}
		} else if c.needSqMaskSetSSG[ch] && CheckDataType(c.wfSSG[ch].data) == DataRatio {
			c.writeSquareMaskPitchSSG(ch, pitch, true)
		}
	case SSGWaveformSqMaskSaw, SSGWaveformSqMaskInvSaw:
		pitch := PitchSSGSaw(note, oct, p)
		if c.needToneSetSSG[ch] {
			c.chip.SetRegister(0x0b, uint8(pitch))
			c.chip.SetRegister(0x0c, uint8(pitch>>8))
			if CheckDataType(c.wfSSG[ch].data) == DataRatio {
				c.writeSquareMaskPitchSSG(ch, pitch, false)
			}
		} else if c.needSqMaskSetSSG[ch] && CheckDataType(c.wfSSG[ch].data) == DataRatio {
			c.writeSquareMaskPitchSSG(ch, pitch, false)
		}
	}

	c.needToneSetSSG[ch] = false
	c.needEnvSetSSG[ch] = false
	c.needSqMaskSetSSG[ch] = false
}

// writeAutoEnvelopePitchSSG derives the hardware envelope period from the
// tone period using the committed ratio or shift. The repeating triangle
// shapes run at half the envelope rate, so their divider doubles.
func (c *OPNAController) writeAutoEnvelopePitchSSG(ch int, tonePitch uint16) {
	div := 16.0
	if c.envSSG[ch].typ == 18 || c.envSSG[ch].typ == 22 {
		div = 32.0
	}

	data := c.envSSG[ch].data
	switch CheckDataType(data) {
	case DataRatio:
		num, den := DataToRatio(data)
		period := int(math.Round(float64(tonePitch) * float64(num) / (float64(den) * div)))
		c.chip.SetRegister(0x0b, uint8(period))
		c.chip.SetRegister(0x0c, uint8(period>>8))
	case DataLShift, DataRShift:
		period := int(math.Round(float64(tonePitch) / div))
		s := DataToShift(data)
		if CheckDataType(data) == DataLShift {
			s = -s
		}
		s -= 4
		if s < 0 {
			period <<= -s
		} else {
			period >>= s
		}
		c.chip.SetRegister(0x0b, uint8(period))
		c.chip.SetRegister(0x0c, uint8(period>>8))
	}
}

// writeSquareMaskPitchSSG derives the square mask period from the buzz
// pitch using the committed ratio.
func (c *OPNAController) writeSquareMaskPitchSSG(ch int, pitch uint16, isTriangle bool) {
	mul := 16
	if isTriangle {
		mul = 32
	}
	num, den := DataToRatio(c.wfSSG[ch].data)
	period := int(math.Round(float64(num*mul) * float64(pitch) / float64(den)))
	c.chip.SetRegister(0x00+2*uint32(ch), uint8(period))
	c.chip.SetRegister(0x01+2*uint32(ch), uint8(period>>8))
}
