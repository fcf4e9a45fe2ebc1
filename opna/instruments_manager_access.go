package opna

// Accessors linking instruments to macro slots. The Set*-by-instrument
// forms keep user registration consistent; the record accessors hand out
// the shared macro for editing (edits are visible to every user, matching
// the shared-slot workflow).

//----- FM -----

func (m *InstrumentsManager) SetInstrumentFMEnvelope(instNum, envNum int) {
	fm := m.insts[instNum].(*InstrumentFM)
	m.envFM[fm.envNum].deregisterUser(instNum)
	m.envFM[envNum].registerUser(instNum)
	fm.envNum = envNum
}

func (m *InstrumentsManager) EnvelopeFMParameter(envNum int, p FMEnvelopeParameter) int {
	return m.envFM[envNum].ParameterValue(p)
}

func (m *InstrumentsManager) SetEnvelopeFMParameter(envNum int, p FMEnvelopeParameter, v int) {
	m.envFM[envNum].SetParameterValue(p, v)
}

func (m *InstrumentsManager) EnvelopeFMOperatorEnabled(envNum, op int) bool {
	return m.envFM[envNum].OperatorEnabled(op)
}

func (m *InstrumentsManager) SetEnvelopeFMOperatorEnabled(envNum, op int, enabled bool) {
	m.envFM[envNum].SetOperatorEnabled(op, enabled)
}

func (m *InstrumentsManager) EnvelopeFMUsers(envNum int) []int {
	return m.envFM[envNum].userInstruments()
}

func (m *InstrumentsManager) SetInstrumentFMLFOEnabled(instNum int, enabled bool) {
	fm := m.insts[instNum].(*InstrumentFM)
	fm.lfoEnabled = enabled
	if enabled {
		m.lfoFM[fm.lfoNum].registerUser(instNum)
	} else {
		m.lfoFM[fm.lfoNum].deregisterUser(instNum)
	}
}

func (m *InstrumentsManager) SetInstrumentFMLFO(instNum, lfoNum int) {
	fm := m.insts[instNum].(*InstrumentFM)
	if fm.lfoEnabled {
		m.lfoFM[fm.lfoNum].deregisterUser(instNum)
		m.lfoFM[lfoNum].registerUser(instNum)
	}
	fm.lfoNum = lfoNum
}

func (m *InstrumentsManager) LFOFMParameter(lfoNum int, p FMLFOParameter) int {
	return m.lfoFM[lfoNum].ParameterValue(p)
}

func (m *InstrumentsManager) SetLFOFMParameter(lfoNum int, p FMLFOParameter, v int) {
	m.lfoFM[lfoNum].SetParameterValue(p, v)
}

func (m *InstrumentsManager) SetInstrumentFMOperatorSequenceEnabled(instNum int, p FMEnvelopeParameter, enabled bool) {
	fm := m.insts[instNum].(*InstrumentFM)
	fm.opSeqEnabled[p] = enabled
	if enabled {
		m.opSeqFM[p][fm.opSeqNum[p]].registerUser(instNum)
	} else {
		m.opSeqFM[p][fm.opSeqNum[p]].deregisterUser(instNum)
	}
}

func (m *InstrumentsManager) SetInstrumentFMOperatorSequence(instNum int, p FMEnvelopeParameter, seqNum int) {
	fm := m.insts[instNum].(*InstrumentFM)
	if fm.opSeqEnabled[p] {
		m.opSeqFM[p][fm.opSeqNum[p]].deregisterUser(instNum)
		m.opSeqFM[p][seqNum].registerUser(instNum)
	}
	fm.opSeqNum[p] = seqNum
}

func (m *InstrumentsManager) OperatorSequenceFM(p FMEnvelopeParameter, seqNum int) *CommandSequence {
	return m.opSeqFM[p][seqNum]
}

func (m *InstrumentsManager) OperatorSequenceFMIterator(p FMEnvelopeParameter, seqNum int) *SequenceIterator {
	return m.opSeqFM[p][seqNum].Iterator()
}

func (m *InstrumentsManager) SetInstrumentFMArpeggioEnabled(instNum int, t FMOperatorType, enabled bool) {
	fm := m.insts[instNum].(*InstrumentFM)
	fm.arpEnabled[t] = enabled
	if enabled {
		m.arpFM[fm.arpNum[t]].registerUser(instNum)
	} else {
		m.arpFM[fm.arpNum[t]].deregisterUser(instNum)
	}
}

func (m *InstrumentsManager) SetInstrumentFMArpeggio(instNum int, t FMOperatorType, arpNum int) {
	fm := m.insts[instNum].(*InstrumentFM)
	if fm.arpEnabled[t] {
		m.arpFM[fm.arpNum[t]].deregisterUser(instNum)
		m.arpFM[arpNum].registerUser(instNum)
	}
	fm.arpNum[t] = arpNum
}

func (m *InstrumentsManager) ArpeggioFM(arpNum int) *CommandSequence {
	return m.arpFM[arpNum]
}

func (m *InstrumentsManager) ArpeggioFMIterator(arpNum int) *SequenceIterator {
	return m.arpFM[arpNum].Iterator()
}

func (m *InstrumentsManager) SetInstrumentFMPitchEnabled(instNum int, t FMOperatorType, enabled bool) {
	fm := m.insts[instNum].(*InstrumentFM)
	fm.ptEnabled[t] = enabled
	if enabled {
		m.ptFM[fm.ptNum[t]].registerUser(instNum)
	} else {
		m.ptFM[fm.ptNum[t]].deregisterUser(instNum)
	}
}

func (m *InstrumentsManager) SetInstrumentFMPitch(instNum int, t FMOperatorType, ptNum int) {
	fm := m.insts[instNum].(*InstrumentFM)
	if fm.ptEnabled[t] {
		m.ptFM[fm.ptNum[t]].deregisterUser(instNum)
		m.ptFM[ptNum].registerUser(instNum)
	}
	fm.ptNum[t] = ptNum
}

func (m *InstrumentsManager) PitchFM(ptNum int) *CommandSequence {
	return m.ptFM[ptNum]
}

func (m *InstrumentsManager) PitchFMIterator(ptNum int) *SequenceIterator {
	return m.ptFM[ptNum].Iterator()
}

func (m *InstrumentsManager) SetInstrumentFMEnvelopeResetEnabled(instNum int, t FMOperatorType, enabled bool) {
	m.insts[instNum].(*InstrumentFM).envResetEnabled[t] = enabled
}

//----- SSG -----

func (m *InstrumentsManager) SetInstrumentSSGWaveformEnabled(instNum int, enabled bool) {
	ssg := m.insts[instNum].(*InstrumentSSG)
	ssg.wfEnabled = enabled
	if enabled {
		m.wfSSG[ssg.wfNum].registerUser(instNum)
	} else {
		m.wfSSG[ssg.wfNum].deregisterUser(instNum)
	}
}

func (m *InstrumentsManager) SetInstrumentSSGWaveform(instNum, wfNum int) {
	ssg := m.insts[instNum].(*InstrumentSSG)
	if ssg.wfEnabled {
		m.wfSSG[ssg.wfNum].deregisterUser(instNum)
		m.wfSSG[wfNum].registerUser(instNum)
	}
	ssg.wfNum = wfNum
}

func (m *InstrumentsManager) WaveformSSG(wfNum int) *CommandSequence {
	return m.wfSSG[wfNum]
}

func (m *InstrumentsManager) WaveformSSGIterator(wfNum int) *SequenceIterator {
	return m.wfSSG[wfNum].Iterator()
}

func (m *InstrumentsManager) SetInstrumentSSGToneNoiseEnabled(instNum int, enabled bool) {
	ssg := m.insts[instNum].(*InstrumentSSG)
	ssg.tnEnabled = enabled
	if enabled {
		m.tnSSG[ssg.tnNum].registerUser(instNum)
	} else {
		m.tnSSG[ssg.tnNum].deregisterUser(instNum)
	}
}

func (m *InstrumentsManager) SetInstrumentSSGToneNoise(instNum, tnNum int) {
	ssg := m.insts[instNum].(*InstrumentSSG)
	if ssg.tnEnabled {
		m.tnSSG[ssg.tnNum].deregisterUser(instNum)
		m.tnSSG[tnNum].registerUser(instNum)
	}
	ssg.tnNum = tnNum
}

func (m *InstrumentsManager) ToneNoiseSSG(tnNum int) *CommandSequence {
	return m.tnSSG[tnNum]
}

func (m *InstrumentsManager) ToneNoiseSSGIterator(tnNum int) *SequenceIterator {
	return m.tnSSG[tnNum].Iterator()
}

func (m *InstrumentsManager) SetInstrumentSSGEnvelopeEnabled(instNum int, enabled bool) {
	ssg := m.insts[instNum].(*InstrumentSSG)
	ssg.envEnabled = enabled
	if enabled {
		m.envSSG[ssg.envNum].registerUser(instNum)
	} else {
		m.envSSG[ssg.envNum].deregisterUser(instNum)
	}
}

func (m *InstrumentsManager) SetInstrumentSSGEnvelope(instNum, envNum int) {
	ssg := m.insts[instNum].(*InstrumentSSG)
	if ssg.envEnabled {
		m.envSSG[ssg.envNum].deregisterUser(instNum)
		m.envSSG[envNum].registerUser(instNum)
	}
	ssg.envNum = envNum
}

func (m *InstrumentsManager) EnvelopeSSG(envNum int) *CommandSequence {
	return m.envSSG[envNum]
}

func (m *InstrumentsManager) EnvelopeSSGIterator(envNum int) *SequenceIterator {
	return m.envSSG[envNum].Iterator()
}

func (m *InstrumentsManager) SetInstrumentSSGArpeggioEnabled(instNum int, enabled bool) {
	ssg := m.insts[instNum].(*InstrumentSSG)
	ssg.arpEnabled = enabled
	if enabled {
		m.arpSSG[ssg.arpNum].registerUser(instNum)
	} else {
		m.arpSSG[ssg.arpNum].deregisterUser(instNum)
	}
}

func (m *InstrumentsManager) SetInstrumentSSGArpeggio(instNum, arpNum int) {
	ssg := m.insts[instNum].(*InstrumentSSG)
	if ssg.arpEnabled {
		m.arpSSG[ssg.arpNum].deregisterUser(instNum)
		m.arpSSG[arpNum].registerUser(instNum)
	}
	ssg.arpNum = arpNum
}

func (m *InstrumentsManager) ArpeggioSSG(arpNum int) *CommandSequence {
	return m.arpSSG[arpNum]
}

func (m *InstrumentsManager) ArpeggioSSGIterator(arpNum int) *SequenceIterator {
	return m.arpSSG[arpNum].Iterator()
}

func (m *InstrumentsManager) SetInstrumentSSGPitchEnabled(instNum int, enabled bool) {
	ssg := m.insts[instNum].(*InstrumentSSG)
	ssg.ptEnabled = enabled
	if enabled {
		m.ptSSG[ssg.ptNum].registerUser(instNum)
	} else {
		m.ptSSG[ssg.ptNum].deregisterUser(instNum)
	}
}

func (m *InstrumentsManager) SetInstrumentSSGPitch(instNum, ptNum int) {
	ssg := m.insts[instNum].(*InstrumentSSG)
	if ssg.ptEnabled {
		m.ptSSG[ssg.ptNum].deregisterUser(instNum)
		m.ptSSG[ptNum].registerUser(instNum)
	}
	ssg.ptNum = ptNum
}

func (m *InstrumentsManager) PitchSSG(ptNum int) *CommandSequence {
	return m.ptSSG[ptNum]
}

func (m *InstrumentsManager) PitchSSGIterator(ptNum int) *SequenceIterator {
	return m.ptSSG[ptNum].Iterator()
}

//----- ADPCM -----

func (m *InstrumentsManager) SetInstrumentADPCMWaveform(instNum, wfNum int) {
	ad := m.insts[instNum].(*InstrumentADPCM)
	m.wfADPCM[ad.wfNum].deregisterUser(instNum)
	m.wfADPCM[wfNum].registerUser(instNum)
	ad.wfNum = wfNum
}

func (m *InstrumentsManager) WaveformADPCMRecord(wfNum int) *WaveformADPCM {
	return m.wfADPCM[wfNum]
}

func (m *InstrumentsManager) SetInstrumentADPCMEnvelopeEnabled(instNum int, enabled bool) {
	ad := m.insts[instNum].(*InstrumentADPCM)
	ad.envEnabled = enabled
	if enabled {
		m.envADPCM[ad.envNum].registerUser(instNum)
	} else {
		m.envADPCM[ad.envNum].deregisterUser(instNum)
	}
}

func (m *InstrumentsManager) SetInstrumentADPCMEnvelope(instNum, envNum int) {
	ad := m.insts[instNum].(*InstrumentADPCM)
	if ad.envEnabled {
		m.envADPCM[ad.envNum].deregisterUser(instNum)
		m.envADPCM[envNum].registerUser(instNum)
	}
	ad.envNum = envNum
}

func (m *InstrumentsManager) EnvelopeADPCM(envNum int) *CommandSequence {
	return m.envADPCM[envNum]
}

func (m *InstrumentsManager) EnvelopeADPCMIterator(envNum int) *SequenceIterator {
	return m.envADPCM[envNum].Iterator()
}

func (m *InstrumentsManager) SetInstrumentADPCMArpeggioEnabled(instNum int, enabled bool) {
	ad := m.insts[instNum].(*InstrumentADPCM)
	ad.arpEnabled = enabled
	if enabled {
		m.arpADPCM[ad.arpNum].registerUser(instNum)
	} else {
		m.arpADPCM[ad.arpNum].deregisterUser(instNum)
	}
}

func (m *InstrumentsManager) SetInstrumentADPCMArpeggio(instNum, arpNum int) {
	ad := m.insts[instNum].(*InstrumentADPCM)
	if ad.arpEnabled {
		m.arpADPCM[ad.arpNum].deregisterUser(instNum)
		m.arpADPCM[arpNum].registerUser(instNum)
	}
	ad.arpNum = arpNum
}

func (m *InstrumentsManager) ArpeggioADPCM(arpNum int) *CommandSequence {
	return m.arpADPCM[arpNum]
}

func (m *InstrumentsManager) ArpeggioADPCMIterator(arpNum int) *SequenceIterator {
	return m.arpADPCM[arpNum].Iterator()
}

func (m *InstrumentsManager) SetInstrumentADPCMPitchEnabled(instNum int, enabled bool) {
	ad := m.insts[instNum].(*InstrumentADPCM)
	ad.ptEnabled = enabled
	if enabled {
		m.ptADPCM[ad.ptNum].registerUser(instNum)
	} else {
		m.ptADPCM[ad.ptNum].deregisterUser(instNum)
	}
}

func (m *InstrumentsManager) SetInstrumentADPCMPitch(instNum, ptNum int) {
	ad := m.insts[instNum].(*InstrumentADPCM)
	if ad.ptEnabled {
		m.ptADPCM[ad.ptNum].deregisterUser(instNum)
		m.ptADPCM[ptNum].registerUser(instNum)
	}
	ad.ptNum = ptNum
}

func (m *InstrumentsManager) PitchADPCMRecord(ptNum int) *CommandSequence {
	return m.ptADPCM[ptNum]
}

func (m *InstrumentsManager) PitchADPCMIterator(ptNum int) *SequenceIterator {
	return m.ptADPCM[ptNum].Iterator()
}
