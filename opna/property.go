package opna

// propertyBase is the common state of every instrument property slot:
// its pool index and the set of instrument numbers currently pointing at
// it. A slot with no users and no edits is reclaimable.
type propertyBase struct {
	num   int
	users []int
}

func (p *propertyBase) Number() int    { return p.num }
func (p *propertyBase) setNumber(n int) { p.num = n }

func (p *propertyBase) registerUser(instNum int) {
	for _, u := range p.users {
		if u == instNum {
			return
		}
	}
	p.users = append(p.users, instNum)
}

func (p *propertyBase) deregisterUser(instNum int) {
	for i, u := range p.users {
		if u == instNum {
			p.users = append(p.users[:i], p.users[i+1:]...)
			return
		}
	}
}

func (p *propertyBase) isUserInstrument() bool { return len(p.users) > 0 }

func (p *propertyBase) userInstruments() []int {
	return append([]int(nil), p.users...)
}

func (p *propertyBase) clearUsers() { p.users = nil }

// FMEnvelopeParameter identifies one field of an FM envelope, flat across
// the channel fields (AL/FB) and the four operators.
type FMEnvelopeParameter int

const (
	ParamAL FMEnvelopeParameter = iota
	ParamFB
	ParamAR1
	ParamDR1
	ParamSR1
	ParamRR1
	ParamSL1
	ParamTL1
	ParamKS1
	ParamML1
	ParamDT1
	ParamSSGEG1
	ParamAR2
	ParamDR2
	ParamSR2
	ParamRR2
	ParamSL2
	ParamTL2
	ParamKS2
	ParamML2
	ParamDT2
	ParamSSGEG2
	ParamAR3
	ParamDR3
	ParamSR3
	ParamRR3
	ParamSL3
	ParamTL3
	ParamKS3
	ParamML3
	ParamDT3
	ParamSSGEG3
	ParamAR4
	ParamDR4
	ParamSR4
	ParamRR4
	ParamSL4
	ParamTL4
	ParamKS4
	ParamML4
	ParamDT4
	ParamSSGEG4

	fmEnvelopeParameterCount
)

// fmOperatorField indexes within one operator's parameter group.
type fmOperatorField int

const (
	fieldAR fmOperatorField = iota
	fieldDR
	fieldSR
	fieldRR
	fieldSL
	fieldTL
	fieldKS
	fieldML
	fieldDT
	fieldSSGEG

	fmOperatorFieldCount
)

// fmParamSplit resolves a flat parameter into operator index and field.
// AL/FB report operator -1.
func fmParamSplit(p FMEnvelopeParameter) (op int, field fmOperatorField) {
	if p == ParamAL || p == ParamFB {
		return -1, 0
	}
	i := int(p - ParamAR1)
	return i / int(fmOperatorFieldCount), fmOperatorField(i % int(fmOperatorFieldCount))
}

// fmOperatorParam builds the flat parameter for an operator field.
func fmOperatorParam(op int, field fmOperatorField) FMEnvelopeParameter {
	return ParamAR1 + FMEnvelopeParameter(op*int(fmOperatorFieldCount)+int(field))
}

// fmOpSequenceParams lists the envelope parameters that can be driven by
// an operator sequence macro (SSG-EG is excluded).
var fmOpSequenceParams = func() []FMEnvelopeParameter {
	ps := []FMEnvelopeParameter{ParamAL, ParamFB}
	for op := 0; op < 4; op++ {
		for f := fieldAR; f < fieldSSGEG; f++ {
			ps = append(ps, fmOperatorParam(op, f))
		}
	}
	return ps
}()

// FMOperatorType selects which operator an FM arpeggio/pitch macro drives.
type FMOperatorType int

const (
	OperatorAll FMOperatorType = iota
	Operator1
	Operator2
	Operator3
	Operator4
)

var fmOperatorTypes = []FMOperatorType{
	OperatorAll, Operator1, Operator2, Operator3, Operator4,
}

// fmOperator is one operator's stored envelope parameters.
type fmOperator struct {
	enabled bool
	ar      int
	dr      int
	sr      int
	rr      int
	sl      int
	tl      int
	ks      int
	ml      int
	dt      int
	ssgeg   int // -1 when disabled
}

var defaultFMOperator = [4]fmOperator{
	{enabled: true, ar: 31, rr: 7, tl: 32, ssgeg: -1},
	{enabled: true, ar: 31, rr: 7, ssgeg: -1},
	{enabled: true, ar: 31, rr: 7, tl: 32, ssgeg: -1},
	{enabled: true, ar: 31, rr: 7, ssgeg: -1},
}

const (
	defaultFMAL = 4
	defaultFMFB = 0
)

// EnvelopeFM is the FM envelope property: algorithm, feedback and the four
// operators' rate/level parameters.
type EnvelopeFM struct {
	propertyBase
	al int
	fb int
	op [4]fmOperator
}

func NewEnvelopeFM(num int) *EnvelopeFM {
	e := &EnvelopeFM{propertyBase: propertyBase{num: num}}
	e.clearParameters()
	return e
}

func (e *EnvelopeFM) clearParameters() {
	e.al = defaultFMAL
	e.fb = defaultFMFB
	e.op = defaultFMOperator
}

func (e *EnvelopeFM) OperatorEnabled(op int) bool         { return e.op[op].enabled }
func (e *EnvelopeFM) SetOperatorEnabled(op int, en bool)  { e.op[op].enabled = en }

func (e *EnvelopeFM) ParameterValue(p FMEnvelopeParameter) int {
	switch p {
	case ParamAL:
		return e.al
	case ParamFB:
		return e.fb
	}
	op, field := fmParamSplit(p)
	o := &e.op[op]
	switch field {
	case fieldAR:
		return o.ar
	case fieldDR:
		return o.dr
	case fieldSR:
		return o.sr
	case fieldRR:
		return o.rr
	case fieldSL:
		return o.sl
	case fieldTL:
		return o.tl
	case fieldKS:
		return o.ks
	case fieldML:
		return o.ml
	case fieldDT:
		return o.dt
	default:
		return o.ssgeg
	}
}

func (e *EnvelopeFM) SetParameterValue(p FMEnvelopeParameter, v int) {
	switch p {
	case ParamAL:
		e.al = v
		return
	case ParamFB:
		e.fb = v
		return
	}
	op, field := fmParamSplit(p)
	o := &e.op[op]
	switch field {
	case fieldAR:
		o.ar = v
	case fieldDR:
		o.dr = v
	case fieldSR:
		o.sr = v
	case fieldRR:
		o.rr = v
	case fieldSL:
		o.sl = v
	case fieldTL:
		o.tl = v
	case fieldKS:
		o.ks = v
	case fieldML:
		o.ml = v
	case fieldDT:
		o.dt = v
	default:
		o.ssgeg = v
	}
}

func (e *EnvelopeFM) isEdited() bool {
	return e.al != defaultFMAL || e.fb != defaultFMFB || e.op != defaultFMOperator
}

func (e *EnvelopeFM) clone() *EnvelopeFM {
	c := &EnvelopeFM{propertyBase: propertyBase{num: e.num}, al: e.al, fb: e.fb, op: e.op}
	return c
}

func (e *EnvelopeFM) equal(o *EnvelopeFM) bool {
	return e.al == o.al && e.fb == o.fb && e.op == o.op
}

// FMLFOParameter identifies one field of an FM LFO setting.
type FMLFOParameter int

const (
	LFOFreq FMLFOParameter = iota
	LFOPMS
	LFOAMS
	LFOAM1
	LFOAM2
	LFOAM3
	LFOAM4
	LFOCount
)

// LFOFM is the FM LFO property: frequency, sensitivities, per-operator AM
// enables and a tick delay before the LFO starts.
type LFOFM struct {
	propertyBase
	freq  int
	pms   int
	ams   int
	am    [4]bool
	count int
}

func NewLFOFM(num int) *LFOFM {
	l := &LFOFM{propertyBase: propertyBase{num: num}}
	l.clearParameters()
	return l
}

func (l *LFOFM) clearParameters() {
	l.freq = 0
	l.pms = 0
	l.ams = 0
	l.am = [4]bool{}
	l.count = 0
}

func (l *LFOFM) ParameterValue(p FMLFOParameter) int {
	switch p {
	case LFOFreq:
		return l.freq
	case LFOPMS:
		return l.pms
	case LFOAMS:
		return l.ams
	case LFOCount:
		return l.count
	default:
		if l.am[p-LFOAM1] {
			return 1
		}
		return 0
	}
}

func (l *LFOFM) SetParameterValue(p FMLFOParameter, v int) {
	switch p {
	case LFOFreq:
		l.freq = v
	case LFOPMS:
		l.pms = v
	case LFOAMS:
		l.ams = v
	case LFOCount:
		l.count = v
	default:
		l.am[p-LFOAM1] = v != 0
	}
}

func (l *LFOFM) isEdited() bool {
	return l.freq != 0 || l.pms != 0 || l.ams != 0 || l.am != [4]bool{} || l.count != 0
}

func (l *LFOFM) clone() *LFOFM {
	return &LFOFM{propertyBase: propertyBase{num: l.num},
		freq: l.freq, pms: l.pms, ams: l.ams, am: l.am, count: l.count}
}

func (l *LFOFM) equal(o *LFOFM) bool {
	return l.freq == o.freq && l.pms == o.pms && l.ams == o.ams &&
		l.am == o.am && l.count == o.count
}

// WaveformADPCM is the ADPCM sample property: encoded sample data, root
// key/rate, repeat flag, and the chip RAM addresses assigned on upload.
type WaveformADPCM struct {
	propertyBase
	rootKeyNum  int
	rootDeltaN  int
	repeat      bool
	sample      []byte
	startAddr   uint32
	stopAddr    uint32
}

func NewWaveformADPCM(num int) *WaveformADPCM {
	w := &WaveformADPCM{propertyBase: propertyBase{num: num}}
	w.clearParameters()
	return w
}

func (w *WaveformADPCM) clearParameters() {
	w.rootKeyNum = 60 // C5
	w.rootDeltaN = CalcADPCMDeltaN(16000)
	w.repeat = false
	w.sample = nil
	w.startAddr = 0
	w.stopAddr = 0
}

func (w *WaveformADPCM) RootKeyNumber() int      { return w.rootKeyNum }
func (w *WaveformADPCM) SetRootKeyNumber(n int)  { w.rootKeyNum = n }
func (w *WaveformADPCM) RootDeltaN() int         { return w.rootDeltaN }
func (w *WaveformADPCM) SetRootDeltaN(dn int)    { w.rootDeltaN = dn }
func (w *WaveformADPCM) RepeatEnabled() bool     { return w.repeat }
func (w *WaveformADPCM) SetRepeatEnabled(r bool) { w.repeat = r }
func (w *WaveformADPCM) Sample() []byte          { return w.sample }
func (w *WaveformADPCM) SetSample(s []byte)      { w.sample = append([]byte(nil), s...) }

func (w *WaveformADPCM) Addresses() (start, stop uint32) { return w.startAddr, w.stopAddr }
func (w *WaveformADPCM) setAddresses(start, stop uint32) {
	w.startAddr = start
	w.stopAddr = stop
}

func (w *WaveformADPCM) isEdited() bool {
	return w.rootKeyNum != 60 || w.rootDeltaN != CalcADPCMDeltaN(16000) ||
		w.repeat || len(w.sample) != 0
}

func (w *WaveformADPCM) clone() *WaveformADPCM {
	return &WaveformADPCM{propertyBase: propertyBase{num: w.num},
		rootKeyNum: w.rootKeyNum, rootDeltaN: w.rootDeltaN, repeat: w.repeat,
		sample: append([]byte(nil), w.sample...),
		startAddr: w.startAddr, stopAddr: w.stopAddr}
}

func (w *WaveformADPCM) equal(o *WaveformADPCM) bool {
	if w.rootKeyNum != o.rootKeyNum || w.rootDeltaN != o.rootDeltaN ||
		w.repeat != o.repeat || len(w.sample) != len(o.sample) {
		return false
	}
	for i := range w.sample {
		if w.sample[i] != o.sample[i] {
			return false
		}
	}
	return true
}
