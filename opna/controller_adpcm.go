package opna

// KeyOnADPCM triggers the sample channel. Playback restarts the chip's
// address counters, but the start/stop registers are rewritten only when
// the sample addresses actually changed.
func (c *OPNAController) KeyOnADPCM(note Note, octave, pitch int, jam bool) {
	if c.isMuteADPCM || c.instADPCM == nil {
		return
	}

	c.baseToneADPCM.push(ToneDetail{Octave: octave, Note: note, Pitch: pitch})

	isTonePrtm := c.isTonePrtmADPCM && c.hasKeyOnBeforeADPCM
	if isTonePrtm {
		c.keyToneADPCM.Pitch += c.sumNoteSldADPCM + c.transposeADPCM
	} else {
		c.keyToneADPCM = c.baseToneADPCM.latest()
		c.sumPitchADPCM = 0
		c.sumVolSldADPCM = 0
	}
	if c.tmpVolADPCM != -1 {
		c.SetVolumeADPCM(c.baseVolADPCM)
	}
	if !c.noteSldADPCMSetFlag {
		c.nsItADPCM = nil
	}
	c.noteSldADPCMSetFlag = false
	c.needToneSetADPCM = true
	c.sumNoteSldADPCM = 0
	c.transposeADPCM = 0

	c.setFrontADPCMSequences()
	c.hasPreSetTickADPCM = jam

	if !isTonePrtm {
		wf := c.mgr.WaveformADPCMRecord(c.instADPCM.WaveformNumber())
		start, stop := wf.Addresses()

		c.chip.SetRegister(0x101, 0x02)
		c.chip.SetRegister(0x100, 0xa1) // Reset

		var repeatFlag uint8
		if wf.RepeatEnabled() {
			repeatFlag = 0x10
		}
		c.chip.SetRegister(0x100, 0x21|repeatFlag)

		if c.startAddrADPCM != start {
			c.chip.SetRegister(0x102, uint8(start))
			c.chip.SetRegister(0x103, uint8(start>>8))
			c.startAddrADPCM = start
		}
		if c.stopAddrADPCM != stop {
			c.chip.SetRegister(0x104, uint8(stop))
			c.chip.SetRegister(0x105, uint8(stop>>8))
			c.stopAddrADPCM = stop
		}

		c.chip.SetRegister(0x100, 0xa0|repeatFlag) // Play
		c.chip.SetRegister(0x101, c.panADPCM|0x02)
		c.isKeyOnADPCM = true
	}

	c.hasKeyOnBeforeADPCM = true
}

// KeyOnADPCMEcho re-triggers a tone from the echo buffer.
func (c *OPNAController) KeyOnADPCMEcho(echoBuf int) {
	td := c.baseToneADPCM.at(echoBuf)
	if td.Octave == -1 {
		return
	}
	c.KeyOnADPCM(td.Note, td.Octave, td.Pitch, false)
}

// KeyOffADPCM releases the sample, advancing sequences into their release
// region. Silence comes from the envelope path, not a playback stop.
func (c *OPNAController) KeyOffADPCM(jam bool) {
	if !c.isKeyOnADPCM {
		c.tickEventADPCM()
		return
	}
	c.releaseStartADPCMSequences()
	c.hasPreSetTickADPCM = jam
	c.isKeyOnADPCM = false
}

// SetInstrumentADPCM binds an instrument and rebuilds its macro iterators.
func (c *OPNAController) SetInstrumentADPCM(inst *InstrumentADPCM) {
	c.instADPCM = inst

	if inst.EnvelopeEnabled() {
		c.envItADPCM = c.mgr.EnvelopeADPCMIterator(inst.EnvelopeNumber())
	} else {
		c.envItADPCM = nil
	}
	if !c.isArpEffADPCM {
		if inst.ArpeggioEnabled() {
			c.arpItADPCM = c.mgr.ArpeggioADPCMIterator(inst.ArpeggioNumber())
		} else {
			c.arpItADPCM = nil
		}
	}
	if inst.PitchEnabled() {
		c.ptItADPCM = c.mgr.PitchADPCMIterator(inst.PitchNumber())
	} else {
		c.ptItADPCM = nil
	}
}

// UpdateInstrumentADPCM drops iterators whose macro was disabled by an
// edit.
func (c *OPNAController) UpdateInstrumentADPCM(instNum int) {
	inst := c.instADPCM
	if inst == nil || !c.mgr.Registered(inst) || inst.Number() != instNum {
		return
	}
	if !inst.EnvelopeEnabled() {
		c.envItADPCM = nil
	}
	if !inst.ArpeggioEnabled() {
		c.arpItADPCM = nil
	}
	if !inst.PitchEnabled() {
		c.ptItADPCM = nil
	}
}

// ClearSamplesADPCM rewinds the DRAM store point; the next upload starts
// from address zero.
func (c *OPNAController) ClearSamplesADPCM() {
	c.storePointADPCM = 0
}

// StoreSampleADPCM uploads a waveform slot's encoded sample into chip DRAM
// at the current store point and records the assigned addresses on the
// slot. Returns false when the memory is full.
func (c *OPNAController) StoreSampleADPCM(wfNum int) bool {
	wf := c.mgr.WaveformADPCMRecord(wfNum)
	start, stop, ok := c.storeSampleADPCM(wf.Sample())
	if ok {
		wf.setAddresses(start, stop)
	}
	return ok
}

// storeSampleADPCM drives the chip's memory write protocol. Addresses are
// in 32-byte units.
func (c *OPNAController) storeSampleADPCM(sample []byte) (start, stop uint32, ok bool) {
	c.chip.SetRegister(0x110, 0x80) // Clear flags
	c.chip.SetRegister(0x100, 0x61) // Memory write, reset
	c.chip.SetRegister(0x100, 0x60)
	c.chip.SetRegister(0x101, 0x02)

	dramLim := uint32(DRAMSize-1) >> 5
	c.chip.SetRegister(0x10c, uint8(dramLim))
	c.chip.SetRegister(0x10d, uint8(dramLim>>8))

	if len(sample) != 0 && c.storePointADPCM < dramLim {
		start = c.storePointADPCM
		c.chip.SetRegister(0x102, uint8(start))
		c.chip.SetRegister(0x103, uint8(start>>8))

		stop = start + uint32(len(sample)-1)>>5
		if stop > dramLim {
			stop = dramLim
		}
		c.chip.SetRegister(0x104, uint8(stop))
		c.chip.SetRegister(0x105, uint8(stop>>8))
		c.storePointADPCM = stop + 1

		for _, b := range sample {
			c.chip.SetRegister(0x108, b)
		}
		ok = true
	}

	c.chip.SetRegister(0x100, 0x00)
	c.chip.SetRegister(0x110, 0x80)
	return start, stop, ok
}

// ADPCMStoredSize reports the bytes of DRAM claimed by uploads so far.
func (c *OPNAController) ADPCMStoredSize() int {
	return int(c.storePointADPCM << 5)
}

// SetVolumeADPCM sets the 8-bit base volume. Out-of-range values are
// ignored.
func (c *OPNAController) SetVolumeADPCM(volume int) {
	if volume > 0xff {
		return
	}
	c.baseVolADPCM = volume
	c.tmpVolADPCM = -1

	if c.isKeyOnADPCM {
		c.setRealVolumeADPCM()
	}
}

// SetTemporaryVolumeADPCM sets a one-note volume override.
func (c *OPNAController) SetTemporaryVolumeADPCM(volume int) {
	if volume > 0xff {
		return
	}
	c.tmpVolADPCM = volume

	if c.isKeyOnADPCM {
		c.setRealVolumeADPCM()
	}
}

func (c *OPNAController) setRealVolumeADPCM() {
	vol := c.baseVolADPCM
	if c.tmpVolADPCM != -1 {
		vol = c.tmpVolADPCM
	}
	if c.envItADPCM != nil {
		if t := c.envItADPCM.CommandType(); t >= 0 {
			vol -= 0xff - t
		}
	}
	if c.treItADPCM != nil {
		vol += c.treItADPCM.CommandType()
	}
	vol += c.sumVolSldADPCM
	vol = clamp(vol, 0, 0xff)

	c.chip.SetRegister(0x10b, uint8(vol))
	c.needEnvSetADPCM = false
}

// SetPanADPCM writes the L/R enable bits.
func (c *OPNAController) SetPanADPCM(value int) {
	c.panADPCM = uint8(value) << 6
	c.chip.SetRegister(0x101, c.panADPCM|0x02)
}

func (c *OPNAController) SetArpeggioEffectADPCM(second, third int) {
	if second != 0 || third != 0 {
		c.arpItADPCM = NewArpeggioEffectIterator(second, third)
		c.isArpEffADPCM = true
		return
	}
	if inst := c.instADPCM; inst != nil && inst.ArpeggioEnabled() {
		c.arpItADPCM = c.mgr.ArpeggioADPCMIterator(inst.ArpeggioNumber())
	} else {
		c.arpItADPCM = nil
	}
	c.isArpEffADPCM = false
}

func (c *OPNAController) SetPortamentoEffectADPCM(depth int, isTonePortamento bool) {
	c.prtmADPCM = depth
	c.isTonePrtmADPCM = depth != 0 && isTonePortamento
}

func (c *OPNAController) SetVibratoEffectADPCM(period, depth int) {
	if period != 0 && depth != 0 {
		c.vibItADPCM = NewWavingEffectIterator(period, depth)
	} else {
		c.vibItADPCM = nil
	}
}

func (c *OPNAController) SetTremoloEffectADPCM(period, depth int) {
	if period != 0 && depth != 0 {
		c.treItADPCM = NewWavingEffectIterator(period, depth)
	} else {
		c.treItADPCM = nil
	}
}

func (c *OPNAController) SetVolumeSlideADPCM(depth int, isUp bool) {
	if isUp {
		c.volSldADPCM = depth
	} else {
		c.volSldADPCM = -depth
	}
}

func (c *OPNAController) SetDetuneADPCM(pitch int) {
	c.detuneADPCM = pitch
	c.needToneSetADPCM = true
}

func (c *OPNAController) SetNoteSlideADPCM(speed, seminote int) {
	if seminote != 0 {
		c.nsItADPCM = NewNoteSlideEffectIterator(speed, seminote)
		c.noteSldADPCMSetFlag = true
	} else {
		c.nsItADPCM = nil
	}
}

func (c *OPNAController) SetTransposeEffectADPCM(seminote int) {
	c.transposeADPCM += seminote * PitchPerSeminote
	c.needToneSetADPCM = true
}

// HaltSequencesADPCM forces every iterator to its end state.
func (c *OPNAController) HaltSequencesADPCM() {
	for _, it := range []SequenceIteratorInterface{c.arpItADPCM, c.ptItADPCM} {
		if it != nil {
			it.End()
		}
	}
	if c.envItADPCM != nil {
		c.envItADPCM.End()
	}
	if c.treItADPCM != nil {
		c.treItADPCM.End()
	}
	if c.vibItADPCM != nil {
		c.vibItADPCM.End()
	}
	if c.nsItADPCM != nil {
		c.nsItADPCM.End()
	}
}

func (c *OPNAController) IsKeyOnADPCM() bool          { return c.isKeyOnADPCM }
func (c *OPNAController) IsTonePortamentoADPCM() bool { return c.isTonePrtmADPCM }
func (c *OPNAController) ADPCMTone() ToneDetail       { return c.baseToneADPCM.latest() }

func (c *OPNAController) initADPCM() {
	c.isKeyOnADPCM = false
	c.hasKeyOnBeforeADPCM = false
	c.instADPCM = nil

	c.baseToneADPCM = newEchoBuffer()
	c.keyToneADPCM = ToneDetail{Octave: -1}
	c.sumPitchADPCM = 0
	c.baseVolADPCM = 0xff
	c.tmpVolADPCM = -1
	c.panADPCM = 0xc0
	c.startAddrADPCM = ^uint32(0)
	c.stopAddrADPCM = ^uint32(0)

	c.chip.SetRegister(0x100, 0xa1) // Reset

	dramLim := uint32(DRAMSize-1) >> 5
	c.chip.SetRegister(0x10c, uint8(dramLim))
	c.chip.SetRegister(0x10d, uint8(dramLim>>8))

	c.envItADPCM = nil
	c.arpItADPCM = nil
	c.ptItADPCM = nil
	c.vibItADPCM = nil
	c.treItADPCM = nil
	c.nsItADPCM = nil

	c.hasPreSetTickADPCM = false
	c.needEnvSetADPCM = false
	c.needToneSetADPCM = false

	c.isArpEffADPCM = false
	c.prtmADPCM = 0
	c.isTonePrtmADPCM = false
	c.volSldADPCM = 0
	c.sumVolSldADPCM = 0
	c.detuneADPCM = 0
	c.sumNoteSldADPCM = 0
	c.noteSldADPCMSetFlag = false
	c.transposeADPCM = 0
}

func (c *OPNAController) setMuteADPCMState(mute bool) {
	c.isMuteADPCM = mute

	if mute {
		c.chip.SetRegister(0x10b, 0)
		c.isKeyOnADPCM = false
	}
}

func (c *OPNAController) setFrontADPCMSequences() {
	if c.isMuteADPCM {
		return
	}

	if c.treItADPCM != nil {
		c.treItADPCM.Front()
		c.needEnvSetADPCM = true
	}
	if c.volSldADPCM != 0 {
		c.sumVolSldADPCM += c.volSldADPCM
		c.needEnvSetADPCM = true
	}
	if c.envItADPCM != nil {
		c.writeEnvelopeADPCMToRegister(c.envItADPCM.Front())
	} else {
		c.setRealVolumeADPCM()
	}

	if c.arpItADPCM != nil {
		checkRealToneByArpeggio(c.arpItADPCM.Front(), c.arpItADPCM,
			&c.baseToneADPCM, &c.keyToneADPCM, &c.needToneSetADPCM)
	}
	checkPortamento(c.arpItADPCM, c.prtmADPCM, c.hasKeyOnBeforeADPCM,
		c.isTonePrtmADPCM, &c.baseToneADPCM, &c.keyToneADPCM, &c.needToneSetADPCM)

	if c.ptItADPCM != nil {
		checkRealToneByPitch(c.ptItADPCM.Front(), c.ptItADPCM,
			&c.sumPitchADPCM, &c.needToneSetADPCM)
	}
	if c.vibItADPCM != nil {
		c.vibItADPCM.Front()
		c.needToneSetADPCM = true
	}
	if c.nsItADPCM != nil && c.nsItADPCM.Front() != -1 {
		c.sumNoteSldADPCM += c.nsItADPCM.CommandType()
		c.needToneSetADPCM = true
	}

	c.writePitchADPCM()
}

func (c *OPNAController) releaseStartADPCMSequences() {
	if c.isMuteADPCM {
		return
	}

	if c.treItADPCM != nil {
		c.treItADPCM.Next(true)
		c.needEnvSetADPCM = true
	}
	if c.volSldADPCM != 0 {
		c.sumVolSldADPCM += c.volSldADPCM
		c.needEnvSetADPCM = true
	}
	if c.envItADPCM != nil {
		if pos := c.envItADPCM.Next(true); pos == -1 {
			c.chip.SetRegister(0x10b, 0)
		} else {
			c.writeEnvelopeADPCMToRegister(pos)
		}
	} else if !c.hasPreSetTickADPCM {
		c.chip.SetRegister(0x10b, 0)
	}

	if c.arpItADPCM != nil {
		checkRealToneByArpeggio(c.arpItADPCM.Next(true), c.arpItADPCM,
			&c.baseToneADPCM, &c.keyToneADPCM, &c.needToneSetADPCM)
	}
	checkPortamento(c.arpItADPCM, c.prtmADPCM, c.hasKeyOnBeforeADPCM,
		c.isTonePrtmADPCM, &c.baseToneADPCM, &c.keyToneADPCM, &c.needToneSetADPCM)

	if c.ptItADPCM != nil {
		checkRealToneByPitch(c.ptItADPCM.Next(true), c.ptItADPCM,
			&c.sumPitchADPCM, &c.needToneSetADPCM)
	}
	if c.vibItADPCM != nil {
		c.vibItADPCM.Next(true)
		c.needToneSetADPCM = true
	}
	if c.nsItADPCM != nil && c.nsItADPCM.Next(true) != -1 {
		c.sumNoteSldADPCM += c.nsItADPCM.CommandType()
		c.needToneSetADPCM = true
	}

	if c.needToneSetADPCM {
		c.writePitchADPCM()
	}
}

func (c *OPNAController) tickEventADPCM() {
	if c.hasPreSetTickADPCM {
		c.hasPreSetTickADPCM = false
		return
	}
	if c.isMuteADPCM {
		return
	}

	if c.treItADPCM != nil {
		c.treItADPCM.Next(false)
		c.needEnvSetADPCM = true
	}
	if c.volSldADPCM != 0 {
		c.sumVolSldADPCM += c.volSldADPCM
		c.needEnvSetADPCM = true
	}
	if c.envItADPCM != nil {
		c.writeEnvelopeADPCMToRegister(c.envItADPCM.Next(false))
	} else if c.needToneSetADPCM || c.needEnvSetADPCM {
		c.setRealVolumeADPCM()
	}

	if c.arpItADPCM != nil {
		checkRealToneByArpeggio(c.arpItADPCM.Next(false), c.arpItADPCM,
			&c.baseToneADPCM, &c.keyToneADPCM, &c.needToneSetADPCM)
	}
	checkPortamento(c.arpItADPCM, c.prtmADPCM, c.hasKeyOnBeforeADPCM,
		c.isTonePrtmADPCM, &c.baseToneADPCM, &c.keyToneADPCM, &c.needToneSetADPCM)

	if c.ptItADPCM != nil {
		checkRealToneByPitch(c.ptItADPCM.Next(false), c.ptItADPCM,
			&c.sumPitchADPCM, &c.needToneSetADPCM)
	}
	if c.vibItADPCM != nil {
		c.vibItADPCM.Next(false)
		c.needToneSetADPCM = true
	}
	if c.nsItADPCM != nil && c.nsItADPCM.Next(false) != -1 {
		c.sumNoteSldADPCM += c.nsItADPCM.CommandType()
		c.needToneSetADPCM = true
	}

	if c.needToneSetADPCM {
		c.writePitchADPCM()
	}
}

func (c *OPNAController) writeEnvelopeADPCMToRegister(seqPos int) {
	if seqPos != -1 || c.needEnvSetADPCM {
		c.setRealVolumeADPCM()
	}
}

// writePitchADPCM recomputes delta-N from the key tone and the waveform's
// root key.
func (c *OPNAController) writePitchADPCM() {
	if c.keyToneADPCM.Octave == -1 || c.instADPCM == nil {
		return
	}

	vib := 0
	if c.vibItADPCM != nil {
		vib = c.vibItADPCM.CommandType()
	}
	p := c.keyToneADPCM.Pitch + c.sumPitchADPCM + vib + c.detuneADPCM +
		c.sumNoteSldADPCM + c.transposeADPCM

	wf := c.mgr.WaveformADPCMRecord(c.instADPCM.WaveformNumber())
	deltan := PitchADPCM(c.keyToneADPCM.Note, c.keyToneADPCM.Octave, p,
		wf.RootKeyNumber(), wf.RootDeltaN())
	c.chip.SetRegister(0x109, uint8(deltan))
	c.chip.SetRegister(0x10a, uint8(deltan>>8))

	c.needToneSetADPCM = false
	c.needEnvSetADPCM = false
}
