package opna

// Instrument is the common surface of FM/SSG/ADPCM instruments. An
// instrument holds macro slot numbers, never macro content; the content
// lives in the InstrumentsManager pools.
type Instrument interface {
	Number() int
	setNumber(n int)
	Name() string
	SetName(name string)
	Source() SoundSource
	clone() Instrument
}

type instrumentBase struct {
	num    int
	name   string
	source SoundSource
}

func (b *instrumentBase) Number() int         { return b.num }
func (b *instrumentBase) setNumber(n int)     { b.num = n }
func (b *instrumentBase) Name() string        { return b.name }
func (b *instrumentBase) SetName(name string) { b.name = name }
func (b *instrumentBase) Source() SoundSource { return b.source }

// InstrumentFM references an envelope slot, an optional LFO slot, optional
// operator sequences per envelope parameter, and arpeggio/pitch slots per
// operator scope.
type InstrumentFM struct {
	instrumentBase

	envNum int

	lfoEnabled bool
	lfoNum     int

	opSeqEnabled map[FMEnvelopeParameter]bool
	opSeqNum     map[FMEnvelopeParameter]int

	arpEnabled map[FMOperatorType]bool
	arpNum     map[FMOperatorType]int
	ptEnabled  map[FMOperatorType]bool
	ptNum      map[FMOperatorType]int

	envResetEnabled map[FMOperatorType]bool
}

func NewInstrumentFM(num int, name string) *InstrumentFM {
	fm := &InstrumentFM{
		instrumentBase:  instrumentBase{num: num, name: name, source: SourceFM},
		opSeqEnabled:    make(map[FMEnvelopeParameter]bool),
		opSeqNum:        make(map[FMEnvelopeParameter]int),
		arpEnabled:      make(map[FMOperatorType]bool),
		arpNum:          make(map[FMOperatorType]int),
		ptEnabled:       make(map[FMOperatorType]bool),
		ptNum:           make(map[FMOperatorType]int),
		envResetEnabled: make(map[FMOperatorType]bool),
	}
	for _, t := range fmOperatorTypes {
		fm.envResetEnabled[t] = true
	}
	return fm
}

func (fm *InstrumentFM) clone() Instrument {
	c := NewInstrumentFM(fm.num, fm.name)
	c.envNum = fm.envNum
	c.lfoEnabled = fm.lfoEnabled
	c.lfoNum = fm.lfoNum
	for k, v := range fm.opSeqEnabled {
		c.opSeqEnabled[k] = v
	}
	for k, v := range fm.opSeqNum {
		c.opSeqNum[k] = v
	}
	for k, v := range fm.arpEnabled {
		c.arpEnabled[k] = v
	}
	for k, v := range fm.arpNum {
		c.arpNum[k] = v
	}
	for k, v := range fm.ptEnabled {
		c.ptEnabled[k] = v
	}
	for k, v := range fm.ptNum {
		c.ptNum[k] = v
	}
	for k, v := range fm.envResetEnabled {
		c.envResetEnabled[k] = v
	}
	return c
}

func (fm *InstrumentFM) EnvelopeNumber() int     { return fm.envNum }
func (fm *InstrumentFM) LFOEnabled() bool        { return fm.lfoEnabled }
func (fm *InstrumentFM) LFONumber() int          { return fm.lfoNum }

func (fm *InstrumentFM) OperatorSequenceEnabled(p FMEnvelopeParameter) bool {
	return fm.opSeqEnabled[p]
}

func (fm *InstrumentFM) OperatorSequenceNumber(p FMEnvelopeParameter) int {
	return fm.opSeqNum[p]
}

func (fm *InstrumentFM) ArpeggioEnabled(t FMOperatorType) bool { return fm.arpEnabled[t] }
func (fm *InstrumentFM) ArpeggioNumber(t FMOperatorType) int   { return fm.arpNum[t] }
func (fm *InstrumentFM) PitchEnabled(t FMOperatorType) bool    { return fm.ptEnabled[t] }
func (fm *InstrumentFM) PitchNumber(t FMOperatorType) int      { return fm.ptNum[t] }

func (fm *InstrumentFM) EnvelopeResetEnabled(t FMOperatorType) bool {
	return fm.envResetEnabled[t]
}

func (fm *InstrumentFM) SetEnvelopeResetEnabled(t FMOperatorType, en bool) {
	fm.envResetEnabled[t] = en
}

// InstrumentSSG references waveform, tone/noise, envelope, arpeggio and
// pitch macro slots, each independently enabled.
type InstrumentSSG struct {
	instrumentBase

	wfEnabled  bool
	wfNum      int
	tnEnabled  bool
	tnNum      int
	envEnabled bool
	envNum     int
	arpEnabled bool
	arpNum     int
	ptEnabled  bool
	ptNum      int
}

func NewInstrumentSSG(num int, name string) *InstrumentSSG {
	return &InstrumentSSG{instrumentBase: instrumentBase{num: num, name: name, source: SourceSSG}}
}

func (s *InstrumentSSG) clone() Instrument {
	c := *s
	return &c
}

func (s *InstrumentSSG) WaveformEnabled() bool  { return s.wfEnabled }
func (s *InstrumentSSG) WaveformNumber() int    { return s.wfNum }
func (s *InstrumentSSG) ToneNoiseEnabled() bool { return s.tnEnabled }
func (s *InstrumentSSG) ToneNoiseNumber() int   { return s.tnNum }
func (s *InstrumentSSG) EnvelopeEnabled() bool  { return s.envEnabled }
func (s *InstrumentSSG) EnvelopeNumber() int    { return s.envNum }
func (s *InstrumentSSG) ArpeggioEnabled() bool  { return s.arpEnabled }
func (s *InstrumentSSG) ArpeggioNumber() int    { return s.arpNum }
func (s *InstrumentSSG) PitchEnabled() bool     { return s.ptEnabled }
func (s *InstrumentSSG) PitchNumber() int       { return s.ptNum }

// InstrumentADPCM always references a waveform (sample) slot, plus
// optional envelope, arpeggio and pitch macros.
type InstrumentADPCM struct {
	instrumentBase

	wfNum      int
	envEnabled bool
	envNum     int
	arpEnabled bool
	arpNum     int
	ptEnabled  bool
	ptNum      int
}

func NewInstrumentADPCM(num int, name string) *InstrumentADPCM {
	return &InstrumentADPCM{instrumentBase: instrumentBase{num: num, name: name, source: SourceADPCM}}
}

func (a *InstrumentADPCM) clone() Instrument {
	c := *a
	return &c
}

func (a *InstrumentADPCM) WaveformNumber() int   { return a.wfNum }
func (a *InstrumentADPCM) EnvelopeEnabled() bool { return a.envEnabled }
func (a *InstrumentADPCM) EnvelopeNumber() int   { return a.envNum }
func (a *InstrumentADPCM) ArpeggioEnabled() bool { return a.arpEnabled }
func (a *InstrumentADPCM) ArpeggioNumber() int   { return a.arpNum }
func (a *InstrumentADPCM) PitchEnabled() bool    { return a.ptEnabled }
func (a *InstrumentADPCM) PitchNumber() int      { return a.ptNum }
