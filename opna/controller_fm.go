package opna

// fmOpRegOffsets is the register offset of each operator within a channel.
// The hardware interleaves operators 2 and 3.
var fmOpRegOffsets = [4]uint32{0, 8, 4, 12}

// fm3ExpandedLogicalCh maps an operator index to the logical channel that
// owns it when channel 2 is expanded.
var fm3ExpandedLogicalCh = [4]int{2, 6, 7, 8}

// fm3KeyOffMask removes a logical channel's own slot bit from the valid
// slot set, used to key off a single slot before re-keying it.
var fm3KeyOffMask = map[int]uint8{2: 0xe, 6: 0xd, 7: 0xb, 8: 0x7}

// toInternalFMChannel folds the logical channel down to the physical one.
func (c *OPNAController) toInternalFMChannel(ch int) int {
	if ch < fmInternalChannels {
		return ch
	}
	return 2
}

// fmChannelOffset returns the bank/channel register offset. Pitch registers
// of the expanded channel 2 slots live at dedicated offsets.
func (c *OPNAController) fmChannelOffset(ch int, forPitch bool) uint32 {
	if c.mode == SongFM3chExpanded && forPitch {
		switch ch {
		case 0, 1:
			return uint32(ch)
		case 3, 4, 5:
			return uint32(0x100 + ch%3)
		case 2: // FM3 operator 1
			return 9
		case 6: // FM3 operator 2
			return 10
		case 7: // FM3 operator 3
			return 8
		case 8: // FM3 operator 4
			return 2
		default:
			return 0
		}
	}
	inch := c.toInternalFMChannel(ch)
	if inch < 3 {
		return uint32(inch)
	}
	return uint32(0x100 + inch%3)
}

// toChannelOperatorType reports which operator scope a logical channel
// controls: a whole channel, or one slot of the expanded channel 2.
func (c *OPNAController) toChannelOperatorType(ch int) FMOperatorType {
	if c.mode == SongFM3chExpanded && c.toInternalFMChannel(ch) == 2 {
		switch ch {
		case 2:
			return Operator1
		case 6:
			return Operator2
		case 7:
			return Operator3
		case 8:
			return Operator4
		}
	}
	return OperatorAll
}

// fmKeyOnOffChannelMask is the channel field of key register 0x28.
func (c *OPNAController) fmKeyOnOffChannelMask(ch int) uint8 {
	inch := c.toInternalFMChannel(ch)
	if inch < 3 {
		return uint8(inch)
	}
	return uint8(inch + 1)
}

// fm3SlotValidStatus collects the slot bits of the expanded channel 2
// logical channels that are currently keyed on.
func (c *OPNAController) fm3SlotValidStatus() uint8 {
	var slot uint8
	if c.isKeyOnFM[2] {
		slot |= 0x1
	}
	if c.isKeyOnFM[6] {
		slot |= 0x2
	}
	if c.isKeyOnFM[7] {
		slot |= 0x4
	}
	if c.isKeyOnFM[8] {
		slot |= 0x8
	}
	return slot
}

// fmParamsForOperator lists the envelope parameters a channel of the given
// operator scope drives. Operator 1 keeps AL/FB since it owns the channel
// registers.
func fmParamsForOperator(op FMOperatorType) []FMEnvelopeParameter {
	opParams := func(o int) []FMEnvelopeParameter {
		ps := make([]FMEnvelopeParameter, 0, 9)
		for _, f := range []fmOperatorField{fieldAR, fieldDR, fieldSR, fieldRR, fieldSL, fieldTL, fieldKS, fieldML, fieldDT} {
			ps = append(ps, fmOperatorParam(o, f))
		}
		return ps
	}
	switch op {
	case Operator1:
		return append([]FMEnvelopeParameter{ParamAL, ParamFB}, opParams(0)...)
	case Operator2:
		return opParams(1)
	case Operator3:
		return opParams(2)
	case Operator4:
		return opParams(3)
	default:
		ps := []FMEnvelopeParameter{ParamAL, ParamFB}
		for o := 0; o < 4; o++ {
			ps = append(ps, opParams(o)...)
		}
		return ps
	}
}

// isCarrier reports whether an operator feeds the output directly under
// the given algorithm.
func isCarrier(op, al int) bool {
	for _, o := range operatorsInLevel(0, al) {
		if o == op {
			return true
		}
	}
	return false
}

// operatorsInLevel returns the operators at a given distance from the
// output for an algorithm: level 0 is the carriers, higher levels are
// successive modulator stages.
func operatorsInLevel(level, al int) []int {
	switch level {
	case 0:
		switch al {
		case 0, 1, 2, 3:
			return []int{3}
		case 4:
			return []int{1, 3}
		case 5, 6:
			return []int{1, 2, 3}
		default:
			return []int{0, 1, 2, 3}
		}
	case 1:
		switch al {
		case 0, 1:
			return []int{2}
		case 2:
			return []int{0, 2}
		case 3:
			return []int{1, 2}
		case 4:
			return []int{0, 2}
		case 5, 6:
			return []int{0}
		default:
			return nil
		}
	case 2:
		switch al {
		case 0:
			return []int{1}
		case 1:
			return []int{0, 1}
		case 2:
			return []int{1}
		case 3:
			return []int{0}
		default:
			return nil
		}
	default:
		if al == 0 {
			return []int{0}
		}
		return nil
	}
}

// calculateTL folds the channel volume into a carrier's total level.
func (c *OPNAController) calculateTL(ch int, data uint8) uint8 {
	v := c.baseVolFM[ch]
	if c.tmpVolFM[ch] != -1 {
		v = c.tmpVolFM[ch]
	}
	if int(data) > 127-v {
		return 127
	}
	return data + uint8(v)
}

// judgeSSGEGRegisterValue maps the stored SSG-EG value (-1 = off) to the
// register encoding with the enable bit.
func judgeSSGEGRegisterValue(v int) uint8 {
	if v == -1 {
		return 0
	}
	return uint8(0x08 + v)
}

func (c *OPNAController) fmLFOParam(inch int, p FMLFOParameter) int {
	return c.mgr.LFOFMParameter(c.instFM[inch].LFONumber(), p)
}

func (c *OPNAController) fmEnvParam(inch int, p FMEnvelopeParameter) int {
	return c.mgr.EnvelopeFMParameter(c.instFM[inch].EnvelopeNumber(), p)
}

// KeyOnFM triggers a note on an FM channel. With jam, the first following
// tick event is swallowed since the key-on already ran the front step.
func (c *OPNAController) KeyOnFM(ch int, note Note, octave, pitch int, jam bool) {
	if c.isMuteFM[ch] {
		return
	}

	c.baseToneFM[ch].push(ToneDetail{Octave: octave, Note: note, Pitch: pitch})

	isTonePrtm := c.isTonePrtmFM[ch] && c.hasKeyOnBeforeFM[ch]
	if isTonePrtm {
		c.keyToneFM[ch].Pitch += c.sumNoteSldFM[ch] + c.transposeFM[ch]
	} else {
		c.keyToneFM[ch] = c.baseToneFM[ch].latest()
		c.sumPitchFM[ch] = 0
		c.sumVolSldFM[ch] = 0
	}
	if c.tmpVolFM[ch] != -1 {
		c.SetVolumeFM(ch, c.baseVolFM[ch])
	}
	if !c.noteSldFMSetFlag[ch] {
		c.nsItFM[ch] = nil
	}
	c.noteSldFMSetFlag[ch] = false
	c.needToneSetFM[ch] = true
	c.sumNoteSldFM[ch] = 0
	c.transposeFM[ch] = 0

	c.setFrontFMSequences(ch)
	c.hasPreSetTickFM[ch] = jam

	if !isTonePrtm {
		chdata := c.fmKeyOnOffChannelMask(ch)
		switch c.mode {
		case SongStandard:
			if c.isKeyOnFM[ch] {
				c.chip.SetRegister(0x28, chdata) // Key off first
			} else {
				c.isKeyOnFM[ch] = true
			}
			c.chip.SetRegister(0x28, c.fmOpEnables[ch]<<4|chdata)
		case SongFM3chExpanded:
			var slot uint8
			switch ch {
			case 2, 6, 7, 8:
				prev := c.isKeyOnFM[ch]
				c.isKeyOnFM[ch] = true
				slot = c.fm3SlotValidStatus()
				if prev { // Key off this slot only
					c.chip.SetRegister(0x28, (slot&fm3KeyOffMask[ch])<<4|chdata)
				}
			default:
				slot = c.fmOpEnables[ch]
				if c.isKeyOnFM[ch] {
					c.chip.SetRegister(0x28, chdata) // Key off first
				} else {
					c.isKeyOnFM[ch] = true
				}
			}
			c.chip.SetRegister(0x28, slot<<4|chdata)
		}
	}

	c.hasKeyOnBeforeFM[ch] = true
}

// KeyOnFMEcho re-triggers a tone from the channel's echo buffer.
func (c *OPNAController) KeyOnFMEcho(ch, echoBuf int) {
	td := c.baseToneFM[ch].at(echoBuf)
	if td.Octave == -1 {
		return
	}
	c.KeyOnFM(ch, td.Note, td.Octave, td.Pitch, false)
}

// KeyOffFM releases a note. On an already-off channel it only advances the
// tick so sequences stay in step.
func (c *OPNAController) KeyOffFM(ch int, jam bool) {
	if !c.isKeyOnFM[ch] {
		c.tickEventFM(ch)
		return
	}
	c.releaseStartFMSequences(ch)
	c.hasPreSetTickFM[ch] = jam

	c.isKeyOnFM[ch] = false

	chdata := c.fmKeyOnOffChannelMask(ch)
	switch c.mode {
	case SongStandard:
		c.chip.SetRegister(0x28, chdata)
	case SongFM3chExpanded:
		var slot uint8
		if c.toInternalFMChannel(ch) == 2 {
			slot = c.fm3SlotValidStatus() << 4
		}
		c.chip.SetRegister(0x28, slot|chdata)
	}
}

// resetFMChannelEnvelope forces the channel silent by keying off and
// slamming the release rate to maximum. The shadow envelope keeps the real
// value so the instrument can restore it on the next key on.
func (c *OPNAController) resetFMChannelEnvelope(ch int) {
	c.KeyOffFM(ch, false)
	c.hasResetEnvFM[ch] = true

	if c.mode == SongFM3chExpanded && c.toInternalFMChannel(ch) == 2 {
		var param FMEnvelopeParameter
		switch ch {
		case 2:
			param = fmOperatorParam(0, fieldRR)
		case 6:
			param = fmOperatorParam(1, fieldRR)
		case 7:
			param = fmOperatorParam(2, fieldRR)
		case 8:
			param = fmOperatorParam(3, fieldRR)
		}
		prev := c.envFM[2].ParameterValue(param)
		c.writeFMEnvelopeParameterToRegister(2, param, 127)
		c.envFM[2].SetParameterValue(param, prev)
	} else {
		for op := 0; op < 4; op++ {
			param := fmOperatorParam(op, fieldRR)
			prev := c.envFM[ch].ParameterValue(param)
			c.writeFMEnvelopeParameterToRegister(ch, param, 127)
			c.envFM[ch].SetParameterValue(param, prev)
		}
	}
}

// SetInstrumentFM binds an instrument to a channel. A new instrument gets
// a full envelope rewrite; re-selecting the current one only restores the
// fields that effects overrode.
func (c *OPNAController) SetInstrumentFM(ch int, inst *InstrumentFM) {
	inch := c.toInternalFMChannel(ch)
	opType := c.toChannelOperatorType(ch)

	if c.instFM[inch] == nil || !c.mgr.Registered(c.instFM[inch]) ||
		c.instFM[inch].Number() != inst.Number() {
		c.instFM[inch] = inst
		c.writeFMEnvelopeToRegistersFromInstrument(inch)
		env := c.mgr.envFM[inst.EnvelopeNumber()]
		var enables uint8
		for op := 0; op < 4; op++ {
			if env.OperatorEnabled(op) {
				enables |= 1 << op
			}
		}
		c.fmOpEnables[inch] = enables
	} else {
		if c.isFBCtrlFM[inch] {
			c.isFBCtrlFM[inch] = false
			c.writeFMEnvelopeParameterToRegister(inch, ParamFB, c.fmEnvParam(inch, ParamFB))
		}
		for op := 0; op < 4; op++ {
			if c.isTLCtrlFM[inch][op] || c.isBrightFM[inch][op] {
				c.isTLCtrlFM[inch][op] = false
				c.isBrightFM[inch][op] = false
				tl := fmOperatorParam(op, fieldTL)
				c.writeFMEnvelopeParameterToRegister(inch, tl, c.fmEnvParam(inch, tl))
			}
			for _, f := range []fmOperatorField{fieldML, fieldAR, fieldDR, fieldRR} {
				var flags *[fmInternalChannels][4]bool
				switch f {
				case fieldML:
					flags = &c.isMLCtrlFM
				case fieldAR:
					flags = &c.isARCtrlFM
				case fieldDR:
					flags = &c.isDRCtrlFM
				default:
					flags = &c.isRRCtrlFM
				}
				if flags[inch][op] {
					flags[inch][op] = false
					p := fmOperatorParam(op, f)
					c.writeFMEnvelopeParameterToRegister(inch, p, c.fmEnvParam(inch, p))
				}
			}
		}
		c.restoreFMEnvelopeFromReset(ch)
	}

	if c.isKeyOnFM[ch] && c.lfoStartCntFM[inch] == -1 {
		c.writeFMLFOAllRegisters(inch)
	}
	for _, p := range fmParamsForOperator(opType) {
		if c.instFM[inch].OperatorSequenceEnabled(p) {
			c.opSeqItFM[inch][p] = c.mgr.OperatorSequenceFMIterator(p, c.instFM[inch].OperatorSequenceNumber(p))
			op, field := fmParamSplit(p)
			switch {
			case p == ParamFB:
				c.isFBCtrlFM[inch] = false
			case field == fieldTL:
				c.isTLCtrlFM[inch][op] = false
				c.isBrightFM[inch][op] = false
			case field == fieldML:
				c.isMLCtrlFM[inch][op] = false
			case field == fieldAR:
				c.isARCtrlFM[inch][op] = false
			case field == fieldDR:
				c.isDRCtrlFM[inch][op] = false
			case field == fieldRR:
				c.isRRCtrlFM[inch][op] = false
			}
		} else {
			delete(c.opSeqItFM[inch], p)
		}
	}
	if !c.isArpEffFM[ch] {
		if c.instFM[inch].ArpeggioEnabled(opType) {
			c.arpItFM[ch] = c.mgr.ArpeggioFMIterator(c.instFM[inch].ArpeggioNumber(opType))
		} else {
			c.arpItFM[ch] = nil
		}
	}
	if c.instFM[inch].PitchEnabled(opType) {
		c.ptItFM[ch] = c.mgr.PitchFMIterator(c.instFM[inch].PitchNumber(opType))
	} else {
		c.ptItFM[ch] = nil
	}
	c.enableEnvResetFM[ch] = c.instFM[inch].EnvelopeResetEnabled(opType)

	c.checkLFOUsed()
}

// UpdateInstrumentFM pushes edits of a loaded instrument out to every
// channel currently playing it.
func (c *OPNAController) UpdateInstrumentFM(instNum int) {
	cnt := FMChannelCount(c.mode)
	for ch := 0; ch < cnt; ch++ {
		inch := c.toInternalFMChannel(ch)
		if c.instFM[inch] == nil || !c.mgr.Registered(c.instFM[inch]) ||
			c.instFM[inch].Number() != instNum {
			continue
		}
		c.writeFMEnvelopeToRegistersFromInstrument(inch)
		if c.isKeyOnFM[ch] && c.lfoStartCntFM[inch] == -1 {
			c.writeFMLFOAllRegisters(inch)
		}
		opType := c.toChannelOperatorType(ch)
		for _, p := range fmParamsForOperator(opType) {
			if !c.instFM[inch].OperatorSequenceEnabled(p) {
				delete(c.opSeqItFM[inch], p)
			}
		}
		if !c.instFM[inch].ArpeggioEnabled(opType) {
			c.arpItFM[ch] = nil
		}
		if !c.instFM[inch].PitchEnabled(opType) {
			c.ptItFM[ch] = nil
		}
		c.enableEnvResetFM[ch] = c.instFM[inch].EnvelopeResetEnabled(opType)
	}

	c.checkLFOUsed()
}

// UpdateInstrumentFMEnvelopeParameter rewrites one envelope field on every
// channel whose instrument shares the edited envelope slot.
func (c *OPNAController) UpdateInstrumentFMEnvelopeParameter(envNum int, param FMEnvelopeParameter) {
	for inch := 0; inch < fmInternalChannels; inch++ {
		if c.instFM[inch] != nil && c.instFM[inch].EnvelopeNumber() == envNum {
			c.writeFMEnvelopeParameterToRegister(inch, param, c.fmEnvParam(inch, param))
		}
	}
}

// SetInstrumentFMOperatorEnabled refreshes the slot enable mask after an
// operator of a shared envelope was toggled, re-keying live channels.
func (c *OPNAController) SetInstrumentFMOperatorEnabled(envNum, opNum int) {
	cnt := FMChannelCount(c.mode)
	for ch := 0; ch < cnt; ch++ {
		inch := c.toInternalFMChannel(ch)
		if c.instFM[inch] == nil || c.instFM[inch].EnvelopeNumber() != envNum {
			continue
		}
		enabled := c.mgr.envFM[envNum].OperatorEnabled(opNum)
		c.envFM[inch].SetOperatorEnabled(opNum, enabled)
		if enabled {
			c.fmOpEnables[inch] |= 1 << opNum
		} else {
			c.fmOpEnables[inch] &^= 1 << opNum
		}
		if c.isKeyOnFM[ch] {
			chdata := c.fmKeyOnOffChannelMask(ch)
			switch c.mode {
			case SongStandard:
				c.chip.SetRegister(0x28, c.fmOpEnables[inch]<<4|chdata)
			case SongFM3chExpanded:
				slot := c.fmOpEnables[inch]
				if inch == 2 {
					slot = c.fm3SlotValidStatus()
				}
				c.chip.SetRegister(0x28, slot<<4|chdata)
			}
		}
	}
}

// UpdateInstrumentFMLFOParameter rewrites one LFO field on every channel
// whose instrument shares the edited LFO slot.
func (c *OPNAController) UpdateInstrumentFMLFOParameter(lfoNum int, param FMLFOParameter) {
	for inch := 0; inch < fmInternalChannels; inch++ {
		if c.instFM[inch] != nil && c.instFM[inch].LFOEnabled() &&
			c.instFM[inch].LFONumber() == lfoNum {
			c.writeFMLFORegister(inch, param)
		}
	}
}

// SetVolumeFM sets the base channel volume, folded into carrier TL.
func (c *OPNAController) SetVolumeFM(ch, volume int) {
	c.baseVolFM[ch] = volume
	c.tmpVolFM[ch] = -1

	if c.instFM[c.toInternalFMChannel(ch)] != nil {
		c.updateFMVolume(ch)
	}
}

// SetTemporaryVolumeFM sets a one-note volume override.
func (c *OPNAController) SetTemporaryVolumeFM(ch, volume int) {
	c.tmpVolFM[ch] = volume

	if c.instFM[c.toInternalFMChannel(ch)] != nil {
		c.updateFMVolume(ch)
	}
}

func (c *OPNAController) updateFMVolume(ch int) {
	inch := c.toInternalFMChannel(ch)
	switch c.toChannelOperatorType(ch) {
	case Operator1:
		p := fmOperatorParam(0, fieldTL)
		c.writeFMEnvelopeParameterToRegister(inch, p, c.fmEnvParam(inch, p))
	case Operator2:
		p := fmOperatorParam(1, fieldTL)
		c.writeFMEnvelopeParameterToRegister(inch, p, c.fmEnvParam(inch, p))
	case Operator3:
		p := fmOperatorParam(2, fieldTL)
		c.writeFMEnvelopeParameterToRegister(inch, p, c.fmEnvParam(inch, p))
	case Operator4:
		p := fmOperatorParam(3, fieldTL)
		c.writeFMEnvelopeParameterToRegister(inch, p, c.fmEnvParam(inch, p))
	default:
		for op := 0; op < 4; op++ {
			p := fmOperatorParam(op, fieldTL)
			c.writeFMEnvelopeParameterToRegister(inch, p, c.fmEnvParam(inch, p))
		}
	}
}

// SetPanFM writes the channel pan bits together with the current LFO
// sensitivities.
func (c *OPNAController) SetPanFM(ch, value int) {
	inch := c.toInternalFMChannel(ch)
	c.panFM[inch] = uint8(value)

	bch := c.fmChannelOffset(ch, false)
	data := uint8(value << 6)
	if c.instFM[inch] != nil && c.instFM[inch].LFOEnabled() {
		data |= uint8(c.fmLFOParam(inch, LFOAMS) << 4)
		data |= uint8(c.fmLFOParam(inch, LFOPMS))
	}
	c.chip.SetRegister(0xb4+bch, data)
}

// SetArpeggioEffectFM enables a live arpeggio, shadowing the instrument's
// arpeggio macro until cleared.
func (c *OPNAController) SetArpeggioEffectFM(ch, second, third int) {
	if second != 0 || third != 0 {
		c.arpItFM[ch] = NewArpeggioEffectIterator(second, third)
		c.isArpEffFM[ch] = true
		return
	}
	inch := c.toInternalFMChannel(ch)
	if c.instFM[inch] != nil {
		op := c.toChannelOperatorType(ch)
		if c.instFM[inch].ArpeggioEnabled(op) {
			c.arpItFM[ch] = c.mgr.ArpeggioFMIterator(c.instFM[inch].ArpeggioNumber(op))
		} else {
			c.arpItFM[ch] = nil
		}
	}
	c.isArpEffFM[ch] = false
}

func (c *OPNAController) SetPortamentoEffectFM(ch, depth int, isTonePortamento bool) {
	c.prtmFM[ch] = depth
	c.isTonePrtmFM[ch] = depth != 0 && isTonePortamento
}

func (c *OPNAController) SetVibratoEffectFM(ch, period, depth int) {
	if period != 0 && depth != 0 {
		c.vibItFM[ch] = NewWavingEffectIterator(period, depth)
	} else {
		c.vibItFM[ch] = nil
	}
}

func (c *OPNAController) SetTremoloEffectFM(ch, period, depth int) {
	if period != 0 && depth != 0 {
		c.treItFM[ch] = NewWavingEffectIterator(period, depth)
	} else {
		c.treItFM[ch] = nil
	}
}

// SetVolumeSlideFM sets a per-tick volume delta. FM volume is attenuation,
// so up means a negative TL delta.
func (c *OPNAController) SetVolumeSlideFM(ch, depth int, isUp bool) {
	if isUp {
		c.volSldFM[ch] = -depth
	} else {
		c.volSldFM[ch] = depth
	}
}

func (c *OPNAController) SetDetuneFM(ch, pitch int) {
	c.detuneFM[ch] = pitch
	c.needToneSetFM[ch] = true
}

func (c *OPNAController) SetNoteSlideFM(ch, speed, seminote int) {
	if seminote != 0 {
		c.nsItFM[ch] = NewNoteSlideEffectIterator(speed, seminote)
		c.noteSldFMSetFlag[ch] = true
	} else {
		c.nsItFM[ch] = nil
	}
}

func (c *OPNAController) SetTransposeEffectFM(ch, seminote int) {
	c.transposeFM[ch] += seminote * PitchPerSeminote
	c.needToneSetFM[ch] = true
}

// setFMControl writes an overridden envelope field and marks it so the
// instrument restores it on re-selection.
func (c *OPNAController) setFMControl(ch int, param FMEnvelopeParameter, value int, mark func(inch int)) {
	inch := c.toInternalFMChannel(ch)
	c.writeFMEnvelopeParameterToRegister(inch, param, value)
	mark(inch)
	delete(c.opSeqItFM[inch], param)
}

func (c *OPNAController) SetFBControlFM(ch, value int) {
	c.setFMControl(ch, ParamFB, value, func(inch int) { c.isFBCtrlFM[inch] = true })
}

func (c *OPNAController) SetTLControlFM(ch, op, value int) {
	c.setFMControl(ch, fmOperatorParam(op, fieldTL), value,
		func(inch int) { c.isTLCtrlFM[inch][op] = true })
}

func (c *OPNAController) SetMLControlFM(ch, op, value int) {
	c.setFMControl(ch, fmOperatorParam(op, fieldML), value,
		func(inch int) { c.isMLCtrlFM[inch][op] = true })
}

func (c *OPNAController) SetARControlFM(ch, op, value int) {
	c.setFMControl(ch, fmOperatorParam(op, fieldAR), value,
		func(inch int) { c.isARCtrlFM[inch][op] = true })
}

func (c *OPNAController) SetDRControlFM(ch, op, value int) {
	c.setFMControl(ch, fmOperatorParam(op, fieldDR), value,
		func(inch int) { c.isDRCtrlFM[inch][op] = true })
}

func (c *OPNAController) SetRRControlFM(ch, op, value int) {
	c.setFMControl(ch, fmOperatorParam(op, fieldRR), value,
		func(inch int) { c.isRRCtrlFM[inch][op] = true })
}

// SetBrightnessFM offsets the total level of the first modulator stage.
func (c *OPNAController) SetBrightnessFM(ch, value int) {
	inch := c.toInternalFMChannel(ch)
	for _, op := range operatorsInLevel(1, c.envFM[inch].ParameterValue(ParamAL)) {
		param := fmOperatorParam(op, fieldTL)
		v := clamp(c.envFM[inch].ParameterValue(param)+value, 0, 127)
		c.writeFMEnvelopeParameterToRegister(inch, param, v)
		c.isBrightFM[inch][op] = true
		delete(c.opSeqItFM[inch], param)
	}
}

// HaltSequencesFM forces every iterator on the channel to its end state.
func (c *OPNAController) HaltSequencesFM(ch int) {
	inch := c.toInternalFMChannel(ch)
	for _, p := range fmParamsForOperator(c.toChannelOperatorType(ch)) {
		if it := c.opSeqItFM[inch][p]; it != nil {
			it.End()
		}
	}
	for _, it := range []SequenceIteratorInterface{c.arpItFM[ch], c.ptItFM[ch]} {
		if it != nil {
			it.End()
		}
	}
	if c.treItFM[ch] != nil {
		c.treItFM[ch].End()
	}
	if c.vibItFM[ch] != nil {
		c.vibItFM[ch].End()
	}
	if c.nsItFM[ch] != nil {
		c.nsItFM[ch].End()
	}
}

func (c *OPNAController) IsKeyOnFM(ch int) bool          { return c.isKeyOnFM[ch] }
func (c *OPNAController) IsTonePortamentoFM(ch int) bool { return c.isTonePrtmFM[ch] }
func (c *OPNAController) FMTone(ch int) ToneDetail       { return c.baseToneFM[ch].latest() }

// EnableFMEnvelopeReset reports whether key off should hard-reset the
// channel envelope. True until an instrument says otherwise.
func (c *OPNAController) EnableFMEnvelopeReset(ch int) bool {
	if c.envFM[c.toInternalFMChannel(ch)] == nil {
		return true
	}
	return c.enableEnvResetFM[ch]
}

func (c *OPNAController) initFM() {
	c.lfoFreq = -1

	var mode uint8
	if c.mode == SongFM3chExpanded {
		mode = 0x40
	}
	c.chip.SetRegister(0x27, mode)

	for inch := 0; inch < fmInternalChannels; inch++ {
		c.envFM[inch] = NewEnvelopeFM(-1)
		c.instFM[inch] = nil

		bch := c.fmChannelOffset(inch, false)
		c.panFM[inch] = 3
		c.chip.SetRegister(0xb4+bch, 0xc0)

		for p := range c.opSeqItFM[inch] {
			delete(c.opSeqItFM[inch], p)
		}

		c.lfoStartCntFM[inch] = -1

		c.isFBCtrlFM[inch] = false
		c.isTLCtrlFM[inch] = [4]bool{}
		c.isMLCtrlFM[inch] = [4]bool{}
		c.isARCtrlFM[inch] = [4]bool{}
		c.isDRCtrlFM[inch] = [4]bool{}
		c.isRRCtrlFM[inch] = [4]bool{}
		c.isBrightFM[inch] = [4]bool{}
	}

	for ch := 0; ch < FMChannelCount(c.mode); ch++ {
		c.isKeyOnFM[ch] = false
		c.hasKeyOnBeforeFM[ch] = false

		c.baseToneFM[ch] = newEchoBuffer()
		c.keyToneFM[ch] = ToneDetail{Octave: -1}
		c.sumPitchFM[ch] = 0
		c.baseVolFM[ch] = 0
		c.tmpVolFM[ch] = -1
		c.enableEnvResetFM[ch] = false
		c.hasResetEnvFM[ch] = false

		c.hasPreSetTickFM[ch] = false
		c.arpItFM[ch] = nil
		c.ptItFM[ch] = nil
		c.needToneSetFM[ch] = false

		c.isArpEffFM[ch] = false
		c.prtmFM[ch] = 0
		c.isTonePrtmFM[ch] = false
		c.vibItFM[ch] = nil
		c.treItFM[ch] = nil
		c.volSldFM[ch] = 0
		c.sumVolSldFM[ch] = 0
		c.detuneFM[ch] = 0
		c.nsItFM[ch] = nil
		c.sumNoteSldFM[ch] = 0
		c.noteSldFMSetFlag[ch] = false
		c.transposeFM[ch] = 0
	}
}

// setMuteFMState silences the channel with a full envelope reset on mute
// and restores the stored release rates on unmute.
func (c *OPNAController) setMuteFMState(ch int, mute bool) {
	c.isMuteFM[ch] = mute

	if mute {
		c.resetFMChannelEnvelope(ch)
		return
	}

	inch := c.toInternalFMChannel(ch)
	switch c.toChannelOperatorType(ch) {
	case Operator1:
		p := fmOperatorParam(0, fieldRR)
		c.writeFMEnvelopeParameterToRegister(inch, p, c.envFM[inch].ParameterValue(p))
	case Operator2:
		p := fmOperatorParam(1, fieldRR)
		c.writeFMEnvelopeParameterToRegister(inch, p, c.envFM[inch].ParameterValue(p))
	case Operator3:
		p := fmOperatorParam(2, fieldRR)
		c.writeFMEnvelopeParameterToRegister(inch, p, c.envFM[inch].ParameterValue(p))
	case Operator4:
		p := fmOperatorParam(3, fieldRR)
		c.writeFMEnvelopeParameterToRegister(inch, p, c.envFM[inch].ParameterValue(p))
	default:
		for op := 0; op < 4; op++ {
			p := fmOperatorParam(op, fieldRR)
			c.writeFMEnvelopeParameterToRegister(inch, p, c.envFM[inch].ParameterValue(p))
		}
	}
}

func (c *OPNAController) setFrontFMSequences(ch int) {
	if c.isMuteFM[ch] {
		return
	}

	inch := c.toInternalFMChannel(ch)
	if c.instFM[inch] != nil && c.instFM[inch].LFOEnabled() {
		c.lfoStartCntFM[inch] = c.fmLFOParam(inch, LFOCount)
		c.writeFMLFOAllRegisters(inch)
	} else {
		c.lfoStartCntFM[inch] = -1
	}

	c.checkOperatorSequenceFM(ch, seqStepFront)

	if c.treItFM[ch] != nil {
		c.treItFM[ch].Front()
	}
	c.sumVolSldFM[ch] += c.volSldFM[ch]
	c.checkVolumeEffectFM(ch)

	if c.arpItFM[ch] != nil {
		checkRealToneByArpeggio(c.arpItFM[ch].Front(), c.arpItFM[ch],
			&c.baseToneFM[ch], &c.keyToneFM[ch], &c.needToneSetFM[ch])
	}
	checkPortamento(c.arpItFM[ch], c.prtmFM[ch], c.hasKeyOnBeforeFM[ch],
		c.isTonePrtmFM[ch], &c.baseToneFM[ch], &c.keyToneFM[ch], &c.needToneSetFM[ch])

	if c.ptItFM[ch] != nil {
		checkRealToneByPitch(c.ptItFM[ch].Front(), c.ptItFM[ch],
			&c.sumPitchFM[ch], &c.needToneSetFM[ch])
	}
	if c.vibItFM[ch] != nil {
		c.vibItFM[ch].Front()
		c.needToneSetFM[ch] = true
	}
	if c.nsItFM[ch] != nil && c.nsItFM[ch].Front() != -1 {
		c.sumNoteSldFM[ch] += c.nsItFM[ch].CommandType()
		c.needToneSetFM[ch] = true
	}

	c.writePitchFM(ch)
}

func (c *OPNAController) releaseStartFMSequences(ch int) {
	if c.isMuteFM[ch] {
		return
	}

	inch := c.toInternalFMChannel(ch)
	if c.lfoStartCntFM[inch] > 0 {
		c.lfoStartCntFM[inch]--
		c.writeFMLFOAllRegisters(inch)
	}

	c.checkOperatorSequenceFM(ch, seqStepRelease)

	if c.treItFM[ch] != nil {
		c.treItFM[ch].Next(true)
	}
	c.sumVolSldFM[ch] += c.volSldFM[ch]
	c.checkVolumeEffectFM(ch)

	if c.arpItFM[ch] != nil {
		checkRealToneByArpeggio(c.arpItFM[ch].Next(true), c.arpItFM[ch],
			&c.baseToneFM[ch], &c.keyToneFM[ch], &c.needToneSetFM[ch])
	}
	checkPortamento(c.arpItFM[ch], c.prtmFM[ch], c.hasKeyOnBeforeFM[ch],
		c.isTonePrtmFM[ch], &c.baseToneFM[ch], &c.keyToneFM[ch], &c.needToneSetFM[ch])

	if c.ptItFM[ch] != nil {
		checkRealToneByPitch(c.ptItFM[ch].Next(true), c.ptItFM[ch],
			&c.sumPitchFM[ch], &c.needToneSetFM[ch])
	}
	if c.vibItFM[ch] != nil {
		c.vibItFM[ch].Next(true)
		c.needToneSetFM[ch] = true
	}
	if c.nsItFM[ch] != nil && c.nsItFM[ch].Next(true) != -1 {
		c.sumNoteSldFM[ch] += c.nsItFM[ch].CommandType()
		c.needToneSetFM[ch] = true
	}

	if c.needToneSetFM[ch] {
		c.writePitchFM(ch)
	}
}

func (c *OPNAController) tickEventFM(ch int) {
	if c.hasPreSetTickFM[ch] {
		c.hasPreSetTickFM[ch] = false
		return
	}
	if c.isMuteFM[ch] {
		return
	}

	inch := c.toInternalFMChannel(ch)
	if c.lfoStartCntFM[inch] > 0 {
		c.lfoStartCntFM[inch]--
		c.writeFMLFOAllRegisters(inch)
	}

	c.checkOperatorSequenceFM(ch, seqStepNext)

	if c.treItFM[ch] != nil {
		c.treItFM[ch].Next(false)
	}
	c.sumVolSldFM[ch] += c.volSldFM[ch]
	c.checkVolumeEffectFM(ch)

	if c.arpItFM[ch] != nil {
		checkRealToneByArpeggio(c.arpItFM[ch].Next(false), c.arpItFM[ch],
			&c.baseToneFM[ch], &c.keyToneFM[ch], &c.needToneSetFM[ch])
	}
	checkPortamento(c.arpItFM[ch], c.prtmFM[ch], c.hasKeyOnBeforeFM[ch],
		c.isTonePrtmFM[ch], &c.baseToneFM[ch], &c.keyToneFM[ch], &c.needToneSetFM[ch])

	if c.ptItFM[ch] != nil {
		checkRealToneByPitch(c.ptItFM[ch].Next(false), c.ptItFM[ch],
			&c.sumPitchFM[ch], &c.needToneSetFM[ch])
	}
	if c.vibItFM[ch] != nil {
		c.vibItFM[ch].Next(false)
		c.needToneSetFM[ch] = true
	}
	if c.nsItFM[ch] != nil && c.nsItFM[ch].Next(false) != -1 {
		c.sumNoteSldFM[ch] += c.nsItFM[ch].CommandType()
		c.needToneSetFM[ch] = true
	}

	if c.needToneSetFM[ch] {
		c.writePitchFM(ch)
	}
}

// seqStep selects how checkOperatorSequenceFM advances each iterator.
type seqStep int

const (
	seqStepNext seqStep = iota
	seqStepFront
	seqStepRelease
)

// checkOperatorSequenceFM advances every active operator-sequence macro
// on the channel and writes the fields whose value changed.
func (c *OPNAController) checkOperatorSequenceFM(ch int, step seqStep) {
	inch := c.toInternalFMChannel(ch)
	for _, p := range fmParamsForOperator(c.toChannelOperatorType(ch)) {
		it := c.opSeqItFM[inch][p]
		if it == nil {
			continue
		}
		var pos int
		switch step {
		case seqStepFront:
			pos = it.Front()
		case seqStepRelease:
			pos = it.Next(true)
		default:
			pos = it.Next(false)
		}
		if pos != -1 {
			if d := it.CommandType(); d != c.envFM[inch].ParameterValue(p) {
				c.writeFMEnvelopeParameterToRegister(inch, p, d)
			}
		}
	}
}

// checkVolumeEffectFM reapplies tremolo and volume-slide offsets to the
// carrier total levels.
func (c *OPNAController) checkVolumeEffectFM(ch int) {
	var v int
	if c.treItFM[ch] != nil {
		v = c.treItFM[ch].CommandType() + c.sumVolSldFM[ch]
	} else if c.volSldFM[ch] != 0 {
		v = c.sumVolSldFM[ch]
	} else {
		return
	}

	bch := c.fmChannelOffset(ch, false)
	inch := c.toInternalFMChannel(ch)
	writeOp := func(op int) {
		p := fmOperatorParam(op, fieldTL)
		data := c.envFM[inch].ParameterValue(p) + v
		c.chip.SetRegister(0x40+bch+fmOpRegOffsets[op], uint8(clamp(data, 0, 127)))
	}
	switch c.toChannelOperatorType(ch) {
	case Operator1:
		writeOp(0)
	case Operator2:
		writeOp(1)
	case Operator3:
		writeOp(2)
	case Operator4:
		writeOp(3)
	default:
		al := c.envFM[inch].ParameterValue(ParamAL)
		for op := 0; op < 4; op++ {
			if isCarrier(op, al) {
				writeOp(op)
			}
		}
	}
}

// writePitchFM recomputes and writes the block/F-number pair from the key
// tone and every active pitch modulation.
func (c *OPNAController) writePitchFM(ch int) {
	if c.keyToneFM[ch].Octave == -1 {
		return // No note set yet
	}

	vib := 0
	if c.vibItFM[ch] != nil {
		vib = c.vibItFM[ch].CommandType()
	}
	p := PitchFM(c.keyToneFM[ch].Note, c.keyToneFM[ch].Octave,
		c.keyToneFM[ch].Pitch+c.sumPitchFM[ch]+vib+c.detuneFM[ch]+
			c.sumNoteSldFM[ch]+c.transposeFM[ch])
	offset := c.fmChannelOffset(ch, true)
	c.chip.SetRegister(0xa4+offset, uint8(p>>8))
	c.chip.SetRegister(0xa0+offset, uint8(p))

	c.needToneSetFM[ch] = false
}

// writeFMEnvelopeToRegistersFromInstrument packs the instrument's whole
// envelope into the channel registers, capturing each stored value into
// the shadow envelope. Carrier total levels absorb the channel volume.
func (c *OPNAController) writeFMEnvelopeToRegistersFromInstrument(inch int) {
	bch := c.fmChannelOffset(inch, false)
	inst := c.instFM[inch]

	fb := c.fmEnvParam(inch, ParamFB)
	c.envFM[inch].SetParameterValue(ParamFB, fb)
	al := c.fmEnvParam(inch, ParamAL)
	c.envFM[inch].SetParameterValue(ParamAL, al)
	c.chip.SetRegister(0xb0+bch, uint8(fb<<3|al))

	lfoOn := inst.LFOEnabled()
	for op := 0; op < 4; op++ {
		offset := bch + fmOpRegOffsets[op]
		get := func(f fmOperatorField) int {
			p := fmOperatorParam(op, f)
			v := c.fmEnvParam(inch, p)
			c.envFM[inch].SetParameterValue(p, v)
			return v
		}

		dt := get(fieldDT)
		ml := get(fieldML)
		c.chip.SetRegister(0x30+offset, uint8(dt<<4|ml))

		tl := uint8(c.fmEnvParam(inch, fmOperatorParam(op, fieldTL)))
		if c.mode == SongFM3chExpanded && inch == 2 {
			tl = c.calculateTL(fm3ExpandedLogicalCh[op], tl)
		} else if op == 3 || isCarrier(op, al) {
			tl = c.calculateTL(inch, tl)
		}
		c.envFM[inch].SetParameterValue(fmOperatorParam(op, fieldTL), int(tl))
		c.chip.SetRegister(0x40+offset, tl)

		ks := get(fieldKS)
		ar := get(fieldAR)
		c.chip.SetRegister(0x50+offset, uint8(ks<<6|ar))

		am := 0
		if lfoOn {
			am = c.fmLFOParam(inch, LFOAM1+FMLFOParameter(op))
		}
		dr := get(fieldDR)
		c.chip.SetRegister(0x60+offset, uint8(am<<7|dr))

		sr := get(fieldSR)
		c.chip.SetRegister(0x70+offset, uint8(sr))

		sl := get(fieldSL)
		rr := get(fieldRR)
		c.chip.SetRegister(0x80+offset, uint8(sl<<4|rr))

		ssgeg := get(fieldSSGEG)
		c.chip.SetRegister(0x90+offset, judgeSSGEGRegisterValue(ssgeg))
	}
}

// writeFMEnvelopeParameterToRegister stores one envelope field and writes
// the register it shares with its sibling field.
func (c *OPNAController) writeFMEnvelopeParameterToRegister(inch int, param FMEnvelopeParameter, value int) {
	bch := c.fmChannelOffset(inch, false)
	env := c.envFM[inch]

	env.SetParameterValue(param, value)

	if param == ParamAL || param == ParamFB {
		c.chip.SetRegister(0xb0+bch,
			uint8(env.ParameterValue(ParamFB)<<3|env.ParameterValue(ParamAL)))
		return
	}

	op, field := fmParamSplit(param)
	offset := bch + fmOpRegOffsets[op]

	switch field {
	case fieldDT, fieldML:
		c.chip.SetRegister(0x30+offset,
			uint8(env.ParameterValue(fmOperatorParam(op, fieldDT))<<4|
				env.ParameterValue(fmOperatorParam(op, fieldML))))
	case fieldTL:
		data := uint8(env.ParameterValue(param))
		if c.mode == SongFM3chExpanded && inch == 2 {
			data = c.calculateTL(fm3ExpandedLogicalCh[op], data)
			env.SetParameterValue(param, int(data))
		} else if op == 3 || isCarrier(op, env.ParameterValue(ParamAL)) {
			data = c.calculateTL(inch, data)
			env.SetParameterValue(param, int(data))
		}
		c.chip.SetRegister(0x40+offset, data)
	case fieldKS, fieldAR:
		c.chip.SetRegister(0x50+offset,
			uint8(env.ParameterValue(fmOperatorParam(op, fieldKS))<<6|
				env.ParameterValue(fmOperatorParam(op, fieldAR))))
	case fieldDR:
		am := 0
		if c.instFM[inch] != nil && c.instFM[inch].LFOEnabled() {
			am = c.fmLFOParam(inch, LFOAM1+FMLFOParameter(op))
		}
		c.chip.SetRegister(0x60+offset,
			uint8(am<<7|env.ParameterValue(param)))
	case fieldSR:
		c.chip.SetRegister(0x70+offset, uint8(env.ParameterValue(param)))
	case fieldSL, fieldRR:
		c.chip.SetRegister(0x80+offset,
			uint8(env.ParameterValue(fmOperatorParam(op, fieldSL))<<4|
				env.ParameterValue(fmOperatorParam(op, fieldRR))))
	case fieldSSGEG:
		c.chip.SetRegister(0x90+offset, judgeSSGEGRegisterValue(env.ParameterValue(param)))
	}
}

// restoreFMEnvelopeFromReset undoes resetFMChannelEnvelope's forced
// release rates, if the instrument opts into envelope reset.
func (c *OPNAController) restoreFMEnvelopeFromReset(ch int) {
	inch := c.toInternalFMChannel(ch)

	if !c.hasResetEnvFM[ch] || c.instFM[inch] == nil {
		return
	}

	switch c.mode {
	case SongStandard:
		if c.instFM[inch].EnvelopeResetEnabled(OperatorAll) {
			c.hasResetEnvFM[ch] = false
			for op := 0; op < 4; op++ {
				p := fmOperatorParam(op, fieldRR)
				c.writeFMEnvelopeParameterToRegister(inch, p, c.fmEnvParam(inch, p))
			}
		}
	case SongFM3chExpanded:
		if !c.instFM[inch].EnvelopeResetEnabled(c.toChannelOperatorType(ch)) {
			return
		}
		if inch == 2 {
			var param FMEnvelopeParameter
			switch ch {
			case 2:
				param = fmOperatorParam(0, fieldRR)
			case 6:
				param = fmOperatorParam(1, fieldRR)
			case 7:
				param = fmOperatorParam(2, fieldRR)
			case 8:
				param = fmOperatorParam(3, fieldRR)
			}
			c.hasResetEnvFM[ch] = false
			c.writeFMEnvelopeParameterToRegister(2, param, c.fmEnvParam(2, param))
		} else {
			c.hasResetEnvFM[ch] = false
			for op := 0; op < 4; op++ {
				p := fmOperatorParam(op, fieldRR)
				c.writeFMEnvelopeParameterToRegister(inch, p, c.fmEnvParam(inch, p))
			}
		}
	}
}

// writeFMLFOAllRegisters arms or clears all the channel's LFO registers.
// While the start delay is still counting down, the pan and decay
// registers are written without their LFO bits.
func (c *OPNAController) writeFMLFOAllRegisters(inch int) {
	if !c.instFM[inch].LFOEnabled() || c.lfoStartCntFM[inch] > 0 {
		bch := c.fmChannelOffset(inch, false)
		c.chip.SetRegister(0xb4+bch, c.panFM[inch]<<6)
		for op := 0; op < 4; op++ {
			c.chip.SetRegister(0x60+bch+fmOpRegOffsets[op],
				uint8(c.envFM[inch].ParameterValue(fmOperatorParam(op, fieldDR))))
		}
		return
	}

	c.writeFMLFORegister(inch, LFOFreq)
	c.writeFMLFORegister(inch, LFOPMS)
	c.writeFMLFORegister(inch, LFOAMS)
	c.writeFMLFORegister(inch, LFOAM1)
	c.writeFMLFORegister(inch, LFOAM2)
	c.writeFMLFORegister(inch, LFOAM3)
	c.writeFMLFORegister(inch, LFOAM4)
	c.lfoStartCntFM[inch] = -1
}

func (c *OPNAController) writeFMLFORegister(inch int, param FMLFOParameter) {
	bch := c.fmChannelOffset(inch, false)

	switch param {
	case LFOFreq:
		c.lfoFreq = c.fmLFOParam(inch, LFOFreq)
		c.chip.SetRegister(0x22, uint8(c.lfoFreq|1<<3))
	case LFOPMS, LFOAMS:
		data := c.panFM[inch] << 6
		data |= uint8(c.fmLFOParam(inch, LFOAMS) << 4)
		data |= uint8(c.fmLFOParam(inch, LFOPMS))
		c.chip.SetRegister(0xb4+bch, data)
	case LFOAM1, LFOAM2, LFOAM3, LFOAM4:
		op := int(param - LFOAM1)
		data := uint8(c.fmLFOParam(inch, param) << 7)
		data |= uint8(c.envFM[inch].ParameterValue(fmOperatorParam(op, fieldDR)))
		c.chip.SetRegister(0x60+bch+fmOpRegOffsets[op], data)
	}
}

// checkLFOUsed turns the global LFO off once no loaded instrument needs it.
func (c *OPNAController) checkLFOUsed() {
	for inch := 0; inch < fmInternalChannels; inch++ {
		if c.instFM[inch] != nil && c.instFM[inch].LFOEnabled() {
			return
		}
	}
	if c.lfoFreq != -1 {
		c.lfoFreq = -1
		c.chip.SetRegister(0x22, 0) // LFO off
	}
}
