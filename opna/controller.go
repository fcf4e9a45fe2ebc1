package opna

// Channel counts per sound source. FM has six physical channels; in
// FM3-expanded mode channel 2's four operators are addressed as logical
// channels 2, 6, 7 and 8.
const (
	fmLogicalChannels  = 9
	fmInternalChannels = 6
	ssgChannelCount    = 3
	drumChannelCount   = 6
)

// registerPoke is one unit of the direct register side channel: an address
// latched first, a value latched second.
type registerPoke struct {
	addr      int
	value     int
	completed bool
}

// OPNAController translates tracker playback state into OPNA register
// writes. It owns the per-channel sequencing state (key tones, echo
// buffers, macro iterators, effect accumulators) and a shadow copy of the
// FM envelopes so read-modify-write packings never touch the chip.
type OPNAController struct {
	chip *Registers
	mgr  *InstrumentsManager
	mode SongType

	regPokes []registerPoke
	history  outputHistory

	// FM, indexed by internal channel (0-5)
	instFM        [fmInternalChannels]*InstrumentFM
	envFM         [fmInternalChannels]*EnvelopeFM
	panFM         [fmInternalChannels]uint8
	fmOpEnables   [fmInternalChannels]uint8
	lfoStartCntFM [fmInternalChannels]int
	opSeqItFM     [fmInternalChannels]map[FMEnvelopeParameter]*SequenceIterator
	isFBCtrlFM    [fmInternalChannels]bool
	isTLCtrlFM    [fmInternalChannels][4]bool
	isMLCtrlFM    [fmInternalChannels][4]bool
	isARCtrlFM    [fmInternalChannels][4]bool
	isDRCtrlFM    [fmInternalChannels][4]bool
	isRRCtrlFM    [fmInternalChannels][4]bool
	isBrightFM    [fmInternalChannels][4]bool
	lfoFreq       int

	// FM, indexed by logical channel (0-8)
	isKeyOnFM          [fmLogicalChannels]bool
	hasKeyOnBeforeFM   [fmLogicalChannels]bool
	isMuteFM           [fmLogicalChannels]bool
	baseToneFM         [fmLogicalChannels]echoBuffer
	keyToneFM          [fmLogicalChannels]ToneDetail
	sumPitchFM         [fmLogicalChannels]int
	baseVolFM          [fmLogicalChannels]int
	tmpVolFM           [fmLogicalChannels]int
	enableEnvResetFM   [fmLogicalChannels]bool
	hasResetEnvFM      [fmLogicalChannels]bool
	hasPreSetTickFM    [fmLogicalChannels]bool
	needToneSetFM      [fmLogicalChannels]bool
	arpItFM            [fmLogicalChannels]SequenceIteratorInterface
	ptItFM             [fmLogicalChannels]SequenceIteratorInterface
	vibItFM            [fmLogicalChannels]*WavingEffectIterator
	treItFM            [fmLogicalChannels]*WavingEffectIterator
	nsItFM             [fmLogicalChannels]*NoteSlideEffectIterator
	isArpEffFM         [fmLogicalChannels]bool
	prtmFM             [fmLogicalChannels]int
	isTonePrtmFM       [fmLogicalChannels]bool
	volSldFM           [fmLogicalChannels]int
	sumVolSldFM        [fmLogicalChannels]int
	detuneFM           [fmLogicalChannels]int
	sumNoteSldFM       [fmLogicalChannels]int
	noteSldFMSetFlag   [fmLogicalChannels]bool
	transposeFM        [fmLogicalChannels]int

	// SSG
	instSSG            [ssgChannelCount]*InstrumentSSG
	isKeyOnSSG         [ssgChannelCount]bool
	hasKeyOnBeforeSSG  [ssgChannelCount]bool
	isMuteSSG          [ssgChannelCount]bool
	baseToneSSG        [ssgChannelCount]echoBuffer
	keyToneSSG         [ssgChannelCount]ToneDetail
	sumPitchSSG        [ssgChannelCount]int
	tnSSG              [ssgChannelCount]toneNoiseState
	baseVolSSG         [ssgChannelCount]int
	tmpVolSSG          [ssgChannelCount]int
	isHardEnvSSG       [ssgChannelCount]bool
	isBuzzEffSSG       [ssgChannelCount]bool
	wfSSG              [ssgChannelCount]ssgWaveform
	envSSG             [ssgChannelCount]ssgEnvelope
	wfItSSG            [ssgChannelCount]*SequenceIterator
	tnItSSG            [ssgChannelCount]*SequenceIterator
	envItSSG           [ssgChannelCount]*SequenceIterator
	arpItSSG           [ssgChannelCount]SequenceIteratorInterface
	ptItSSG            [ssgChannelCount]SequenceIteratorInterface
	vibItSSG           [ssgChannelCount]*WavingEffectIterator
	treItSSG           [ssgChannelCount]*WavingEffectIterator
	nsItSSG            [ssgChannelCount]*NoteSlideEffectIterator
	hasPreSetTickSSG   [ssgChannelCount]bool
	needEnvSetSSG      [ssgChannelCount]bool
	setHardEnvIfNeeded [ssgChannelCount]bool
	needMixSetSSG      [ssgChannelCount]bool
	needToneSetSSG     [ssgChannelCount]bool
	needSqMaskSetSSG   [ssgChannelCount]bool
	isArpEffSSG        [ssgChannelCount]bool
	prtmSSG            [ssgChannelCount]int
	isTonePrtmSSG      [ssgChannelCount]bool
	volSldSSG          [ssgChannelCount]int
	sumVolSldSSG       [ssgChannelCount]int
	detuneSSG          [ssgChannelCount]int
	sumNoteSldSSG      [ssgChannelCount]int
	transposeSSG       [ssgChannelCount]int
	toneNoiseMixSSG    [ssgChannelCount]int
	noteSldSSGSetFlag  bool
	mixerSSG           uint8
	noisePitchSSG      int
	hardEnvPeriodHiSSG int
	hardEnvPeriodLoSSG int

	// Rhythm
	isMuteDrum     [drumChannelCount]bool
	volDrum        [drumChannelCount]int
	tmpVolDrum     [drumChannelCount]int
	panDrum        [drumChannelCount]uint8
	mVolDrum       int
	keyOnFlagDrum  uint8
	keyOffFlagDrum uint8

	// ADPCM
	instADPCM           *InstrumentADPCM
	isKeyOnADPCM        bool
	hasKeyOnBeforeADPCM bool
	isMuteADPCM         bool
	baseToneADPCM       echoBuffer
	keyToneADPCM        ToneDetail
	sumPitchADPCM       int
	baseVolADPCM        int
	tmpVolADPCM         int
	panADPCM            uint8
	startAddrADPCM      uint32
	stopAddrADPCM       uint32
	storePointADPCM     uint32
	envItADPCM          *SequenceIterator
	arpItADPCM          SequenceIteratorInterface
	ptItADPCM           SequenceIteratorInterface
	vibItADPCM          *WavingEffectIterator
	treItADPCM          *WavingEffectIterator
	nsItADPCM           *NoteSlideEffectIterator
	hasPreSetTickADPCM  bool
	needEnvSetADPCM     bool
	needToneSetADPCM    bool
	isArpEffADPCM       bool
	prtmADPCM           int
	isTonePrtmADPCM     bool
	volSldADPCM         int
	sumVolSldADPCM      int
	detuneADPCM         int
	sumNoteSldADPCM     int
	noteSldADPCMSetFlag bool
	transposeADPCM      int
}

// NewOPNAController builds a controller over a fresh register image mixing
// at the given sample rate. Macro content is resolved through mgr.
func NewOPNAController(mgr *InstrumentsManager, rate int) *OPNAController {
	c := &OPNAController{
		chip: NewRegisters(rate),
		mgr:  mgr,
		mode: SongStandard,
	}
	for inch := 0; inch < fmInternalChannels; inch++ {
		c.fmOpEnables[inch] = 0xf
		c.opSeqItFM[inch] = make(map[FMEnvelopeParameter]*SequenceIterator)
	}
	c.initChip()
	return c
}

// Chip exposes the register image for streaming and inspection.
func (c *OPNAController) Chip() *Registers { return c.chip }

// Reset reinitializes every channel and rewrites the chip's base state.
func (c *OPNAController) Reset() {
	c.initChip()
	c.history.reset()
}

func (c *OPNAController) initChip() {
	c.chip.SetRegister(0x29, 0x80) // Interrupt mask / YM2608 mode

	c.regPokes = c.regPokes[:0]

	c.initFM()
	c.initSSG()
	c.initDrum()
	c.initADPCM()
}

// Mode reports the FM channel layout.
func (c *OPNAController) Mode() SongType { return c.mode }

// SetMode switches the FM channel layout and resets the controller.
func (c *OPNAController) SetMode(mode SongType) {
	c.mode = mode
	c.Reset()
}

// TickEvent advances one channel's sequences by one tick without key
// state change.
func (c *OPNAController) TickEvent(src SoundSource, ch int) {
	switch src {
	case SourceFM:
		c.tickEventFM(ch)
	case SourceSSG:
		c.tickEventSSG(ch)
	case SourceADPCM:
		c.tickEventADPCM()
	}
}

// SendRegisterAddress latches the target of a direct register poke. A
// second address before any value overwrites the first.
func (c *OPNAController) SendRegisterAddress(bank, address int) {
	address = bank<<8 | address
	if len(c.regPokes) == 0 || c.regPokes[len(c.regPokes)-1].completed {
		c.regPokes = append(c.regPokes, registerPoke{addr: address})
	} else {
		c.regPokes[len(c.regPokes)-1].addr = address
	}
}

// SendRegisterValue completes the pending poke.
func (c *OPNAController) SendRegisterValue(value int) {
	if len(c.regPokes) != 0 {
		p := &c.regPokes[len(c.regPokes)-1]
		p.value = value
		p.completed = true
	}
}

// UpdateRegisterStates flushes deferred work at the end of a tick: buffered
// rhythm key flags and the direct register poke queue. An incomplete
// trailing poke is discarded.
func (c *OPNAController) UpdateRegisterStates() {
	c.updateKeyOnOffStatusDrum()

	if len(c.regPokes) != 0 {
		if !c.regPokes[len(c.regPokes)-1].completed {
			c.regPokes = c.regPokes[:len(c.regPokes)-1]
		}
		for _, p := range c.regPokes {
			c.chip.SetRegister(uint32(p.addr), uint8(p.value))
		}
		c.regPokes = c.regPokes[:0]
	}
}

// DRAMSize reports the ADPCM memory size in bytes.
func (c *OPNAController) DRAMSize() int { return DRAMSize }

// Stream mixes nFrames stereo frames into buf and records them into the
// output history window.
func (c *OPNAController) Stream(buf []int16) {
	c.chip.Mix(buf)
	c.history.fill(buf)
}

// OutputHistory copies the most recent published sample window into dst,
// which should hold 2*OutputHistorySize values.
func (c *OPNAController) OutputHistory(dst []int16) {
	c.history.snapshot(dst)
}

// Rate reports the mixing sample rate.
func (c *OPNAController) Rate() int { return c.chip.Rate() }

// SetRate changes the mixing sample rate.
func (c *OPNAController) SetRate(rate int) { c.chip.SetRate(rate) }

// SetMasterVolume scales the mixed output, 100 = unity.
func (c *OPNAController) SetMasterVolume(percentage int) {
	c.chip.SetMasterVolume(percentage)
}

// SetExportSink installs a capture sink on the register/stream path.
func (c *OPNAController) SetExportSink(sink ExportSink) {
	c.chip.SetExportSink(sink)
}

// SetMuteState mutes or unmutes one channel of a sound source.
func (c *OPNAController) SetMuteState(src SoundSource, chInSrc int, mute bool) {
	switch src {
	case SourceFM:
		c.setMuteFMState(chInSrc, mute)
	case SourceSSG:
		c.setMuteSSGState(chInSrc, mute)
	case SourceDrum:
		c.setMuteDrumState(chInSrc, mute)
	case SourceADPCM:
		c.setMuteADPCMState(mute)
	}
}

// IsMute reports a channel's mute state.
func (c *OPNAController) IsMute(src SoundSource, chInSrc int) bool {
	switch src {
	case SourceFM:
		return c.isMuteFM[chInSrc]
	case SourceSSG:
		return c.isMuteSSG[chInSrc]
	case SourceDrum:
		return c.isMuteDrum[chInSrc]
	default:
		return c.isMuteADPCM
	}
}

// checkRealToneByArpeggio applies an arpeggio step to a channel's key tone.
func checkRealToneByArpeggio(seqPos int, it SequenceIteratorInterface,
	baseTone *echoBuffer, keyTone *ToneDetail, needToneSet *bool) {
	if seqPos == -1 {
		return
	}

	switch it.SequenceType() {
	case SequenceTypeAbsolute:
		oct, note := NoteNumberToOctaveAndNote(
			OctaveAndNoteToNoteNumber(baseTone.latest().Octave, baseTone.latest().Note) +
				it.CommandType() - 48)
		keyTone.Octave = oct
		keyTone.Note = note
	case SequenceTypeFixed:
		oct, note := NoteNumberToOctaveAndNote(it.CommandType())
		keyTone.Octave = oct
		keyTone.Note = note
	case SequenceTypeRelative:
		oct, note := NoteNumberToOctaveAndNote(
			OctaveAndNoteToNoteNumber(keyTone.Octave, keyTone.Note) +
				it.CommandType() - 48)
		keyTone.Octave = oct
		keyTone.Note = note
	default:
		return
	}

	*needToneSet = true
}

// checkPortamento slides the key tone toward the base tone (tone
// portamento) or freely (pitch slide). Inactive while an arpeggio runs.
func checkPortamento(it SequenceIteratorInterface, prtm int,
	hasKeyOnBefore, isTonePrtm bool, baseTone *echoBuffer,
	keyTone *ToneDetail, needToneSet *bool) {
	if (it != nil && it.Position() != -1) || prtm == 0 || !hasKeyOnBefore {
		return
	}
	if isTonePrtm {
		target := baseTone.latest()
		dif := (OctaveAndNoteToNoteNumber(target.Octave, target.Note)*PitchPerSeminote + target.Pitch) -
			(OctaveAndNoteToNoteNumber(keyTone.Octave, keyTone.Note)*PitchPerSeminote + keyTone.Pitch)
		switch {
		case dif > 0:
			if dif-prtm < 0 {
				*keyTone = target
			} else {
				keyTone.Pitch += prtm
			}
			*needToneSet = true
		case dif < 0:
			if dif+prtm > 0 {
				*keyTone = target
			} else {
				keyTone.Pitch -= prtm
			}
			*needToneSet = true
		}
	} else {
		keyTone.Pitch += prtm
		*needToneSet = true
	}
}

// checkRealToneByPitch folds a pitch macro step into the channel's pitch
// accumulator. Commands are biased by 127 (the center value).
func checkRealToneByPitch(seqPos int, it SequenceIteratorInterface,
	sumPitch *int, needToneSet *bool) {
	if seqPos == -1 {
		return
	}
	switch it.SequenceType() {
	case SequenceTypeAbsolute:
		*sumPitch = it.CommandType() - 127
	case SequenceTypeRelative:
		*sumPitch += it.CommandType() - 127
	default:
		return
	}
	*needToneSet = true
}
