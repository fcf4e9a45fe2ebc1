// Package cli drives the tracker engine from a terminal: a built-in demo
// song or a live jam mode fed by raw keyboard input, with optional VGM,
// S98 and WAV capture.
package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/Zeinok/BambooTracker/export"
	"github.com/Zeinok/BambooTracker/opna"
	"github.com/Zeinok/BambooTracker/ui"
)

// ADT buffer thresholds in bytes. Above max the producer holds off until
// playback drains below min.
const (
	adtMinBuffer = 9600
	adtMaxBuffer = 19200
)

// Config carries the command line settings.
type Config struct {
	Mode       string // "demo" or "jam"
	SampleRate int
	TickRate   int // engine ticks per second
	Volume     float64

	VGMPath string
	S98Path string
	WAVPath string
}

// teeSink fans one capture stream out to several containers.
type teeSink struct {
	sinks []opna.ExportSink
}

func (t *teeSink) RecordRegisterChange(addr uint32, value uint8) {
	for _, s := range t.sinks {
		s.RecordRegisterChange(addr, value)
	}
}

func (t *teeSink) RecordStream(samples []int16) {
	for _, s := range t.sinks {
		s.RecordStream(samples)
	}
}

func (t *teeSink) Clear() {
	for _, s := range t.sinks {
		s.Clear()
	}
}

func (t *teeSink) Empty() bool {
	for _, s := range t.sinks {
		if !s.Empty() {
			return false
		}
	}
	return true
}

// Runner owns the controller, the audio output and the capture sinks for
// one terminal session.
type Runner struct {
	cfg  Config
	mgr  *opna.InstrumentsManager
	ctrl *opna.OPNAController

	audio   *ui.AudioPlayer
	control *ui.PlaybackControl

	vgm *export.VGMContainer
	s98 *export.S98Container
	wav *export.WAVContainer

	tickBuf []int16
}

// NewRunner builds a runner, opens the audio device and installs the
// requested capture sinks.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.TickRate <= 0 {
		return nil, fmt.Errorf("invalid tick rate %d", cfg.TickRate)
	}

	mgr := opna.NewInstrumentsManager(false)
	ctrl := opna.NewOPNAController(mgr, cfg.SampleRate)
	ctrl.SetMasterVolume(100)

	audio, err := ui.NewAudioPlayer(cfg.SampleRate, cfg.Volume)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:     cfg,
		mgr:     mgr,
		ctrl:    ctrl,
		audio:   audio,
		control: ui.NewPlaybackControl(),
		tickBuf: make([]int16, 2*(cfg.SampleRate/cfg.TickRate)),
	}

	var sinks []opna.ExportSink
	if cfg.VGMPath != "" {
		r.vgm = export.NewVGMContainer(cfg.SampleRate, export.TargetYM2608)
		sinks = append(sinks, r.vgm)
	}
	if cfg.S98Path != "" {
		r.s98 = export.NewS98Container(cfg.SampleRate)
		sinks = append(sinks, r.s98)
	}
	if cfg.WAVPath != "" {
		r.wav = export.NewWAVContainer(cfg.SampleRate)
		sinks = append(sinks, r.wav)
	}
	switch len(sinks) {
	case 0:
	case 1:
		ctrl.SetExportSink(sinks[0])
	default:
		ctrl.SetExportSink(&teeSink{sinks: sinks})
	}

	return r, nil
}

// Run executes the selected mode until it finishes or is interrupted,
// then writes any requested capture files.
func (r *Runner) Run() error {
	defer r.audio.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var err error
	switch r.cfg.Mode {
	case "demo":
		err = r.runDemo(sigCh)
	case "jam":
		err = r.runJam(sigCh)
	default:
		err = fmt.Errorf("unknown mode %q", r.cfg.Mode)
	}
	if err != nil {
		return err
	}

	return r.writeExports()
}

// runTick advances the engine by one tick and mixes the tick's worth of
// audio. rowEvent, when set, replaces the plain per-channel tick and is
// responsible for advancing every channel itself.
func (r *Runner) runTick(rowEvent func()) {
	if rowEvent != nil {
		rowEvent()
	} else {
		for ch := 0; ch < opna.FMChannelCount(r.ctrl.Mode()); ch++ {
			r.ctrl.TickEvent(opna.SourceFM, ch)
		}
		for ch := 0; ch < 3; ch++ {
			r.ctrl.TickEvent(opna.SourceSSG, ch)
		}
		r.ctrl.TickEvent(opna.SourceADPCM, 0)
	}

	r.ctrl.UpdateRegisterStates()
	r.ctrl.Stream(r.tickBuf)
	r.audio.QueueSamples(r.tickBuf)
}

// pace holds the producer while the audio buffer runs high so engine
// ticks stay in step with playback. Hysteresis between the two marks
// keeps the producer from toggling every tick.
func (r *Runner) pace() {
	if r.audio.GetBufferLevel() <= adtMaxBuffer {
		return
	}
	for r.audio.GetBufferLevel() > adtMinBuffer {
		if !r.control.CheckPause() {
			return
		}
	}
}

func (r *Runner) writeExports() error {
	write := func(path string, fn func(f *os.File) error) error {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Printf("wrote %s", path)
		return nil
	}

	if r.vgm != nil {
		if err := write(r.cfg.VGMPath, func(f *os.File) error {
			return export.WriteVGM(f, r.vgm, true)
		}); err != nil {
			return err
		}
	}
	if r.s98 != nil {
		if err := write(r.cfg.S98Path, func(f *os.File) error {
			return export.WriteS98(f, r.s98, true)
		}); err != nil {
			return err
		}
	}
	if r.wav != nil {
		if err := write(r.cfg.WAVPath, func(f *os.File) error {
			return export.WriteWAV(f, r.wav)
		}); err != nil {
			return err
		}
	}
	return nil
}

// startTicker runs a tick timer feeding a non-blocking channel. A slow
// consumer coalesces ticks instead of queueing a burst.
func (r *Runner) startTicker() (*ui.TickTimer, chan struct{}) {
	timer := ui.NewTickTimer()
	timer.SetInterval(int64(1000000 / r.cfg.TickRate))
	tickCh := make(chan struct{}, 1)
	timer.SetFunction(func() {
		select {
		case tickCh <- struct{}{}:
		default:
		}
	})
	timer.Start()
	return timer, tickCh
}

//----- jam mode -----

// jamKeyNotes maps the bottom keyboard row to one octave plus a third,
// tracker style.
var jamKeyNotes = map[byte]int{
	'z': 0, 's': 1, 'x': 2, 'd': 3, 'c': 4, 'v': 5, 'g': 6,
	'b': 7, 'h': 8, 'n': 9, 'j': 10, 'm': 11, ',': 12, 'l': 13, '.': 14,
}

func (r *Runner) runJam(sigCh chan os.Signal) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw terminal: %w", err)
	}
	defer term.Restore(fd, oldState)

	setupLeadFM(r.mgr, 0)
	setupChordSSG(r.mgr, 1)

	log.Printf("jam: z-m row plays, [ ] octave, 1=FM 2=SSG 3=drums, space=release, p=pause, q=quit")

	// The reader goroutine owns the control keys: pause needs the blocking
	// RequestPause handshake, which would deadlock if issued from the tick
	// loop that has to acknowledge it, and quit must work while the tick
	// loop is parked in CheckPause.
	keyCh := make(chan byte, 16)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil || n == 0 {
				r.control.Stop()
				return
			}
			switch buf[0] {
			case 'q', 0x03, 0x1b: // q, ctrl-c, esc
				r.control.Stop()
				return
			case 'p':
				if r.control.IsPaused() {
					r.control.RequestResume()
				} else {
					r.control.RequestPause()
				}
			default:
				// Drop note keys instead of blocking, or a full queue
				// while paused would wedge the reader before it could
				// see the resume key.
				select {
				case keyCh <- buf[0]:
				default:
				}
			}
		}
	}()

	timer, tickCh := r.startTicker()
	defer timer.Stop()

	octave := 4
	source := opna.SourceFM

	for r.control.ShouldRun() {
		select {
		case <-sigCh:
			r.control.Stop()

		case k := <-keyCh:
			r.handleJamKey(k, &octave, &source)

		case <-tickCh:
			if !r.control.CheckPause() {
				break
			}
			r.runTick(nil)
			r.pace()
		}
	}
	return nil
}

func (r *Runner) handleJamKey(k byte, octave *int, source *opna.SoundSource) {
	switch k {
	case '[':
		if *octave > 0 {
			*octave--
		}
	case ']':
		if *octave < 7 {
			*octave++
		}
	case '1':
		*source = opna.SourceFM
	case '2':
		*source = opna.SourceSSG
	case '3':
		*source = opna.SourceDrum
	case ' ':
		switch *source {
		case opna.SourceFM:
			r.ctrl.KeyOffFM(0, true)
		case opna.SourceSSG:
			r.ctrl.KeyOffSSG(0, true)
		}
	default:
		step, ok := jamKeyNotes[k]
		if !ok {
			return
		}
		oct, note := opna.NoteNumberToOctaveAndNote(12**octave + step)
		switch *source {
		case opna.SourceFM:
			r.ctrl.SetInstrumentFM(0, r.mgr.Instrument(0).(*opna.InstrumentFM))
			r.ctrl.KeyOnFM(0, note, oct, 0, true)
		case opna.SourceSSG:
			r.ctrl.SetInstrumentSSG(0, r.mgr.Instrument(1).(*opna.InstrumentSSG))
			r.ctrl.KeyOnSSG(0, note, oct, 0, true)
		case opna.SourceDrum:
			r.ctrl.SetKeyOnFlagDrum(step % 6)
		}
	}
}

//----- demo mode -----

const (
	demoTicksPerRow = 6
	demoRows        = 32
	demoLoops       = 2
)

// hold keeps the previous note running; cut releases it.
const (
	hold = -1
	cut  = -2
)

// demoSong is a fixed two-bar loop: FM lead and bass, an SSG chord line,
// a rhythm backbeat and an ADPCM tom fill.
type demoSong struct {
	lead  [demoRows]int
	bass  [demoRows]int
	chord [demoRows]int
	drums [demoRows]uint8
	tom   [demoRows]int
}

func newDemoSong() *demoSong {
	s := &demoSong{}
	for i := range s.lead {
		s.lead[i] = hold
		s.bass[i] = hold
		s.chord[i] = hold
		s.tom[i] = hold
	}

	// A minor riff. Cells are semitones from C0.
	for i, n := range map[int]int{
		0: 57, 3: 60, 6: 64, 8: 62, 12: 60, 14: cut,
		16: 55, 19: 59, 22: 62, 24: 64, 28: 60, 30: cut,
	} {
		s.lead[i] = n
	}

	for i := 0; i < demoRows; i += 8 {
		s.bass[i] = 33 // A1
		s.bass[i+4] = 40
		s.bass[i+6] = cut
	}

	for i := 0; i < demoRows; i += 4 {
		s.chord[i] = 69
		s.chord[i+2] = cut
	}

	for i := 0; i < demoRows; i += 4 {
		s.drums[i] |= 1 << 0 // bass drum
		s.drums[i+2] |= 1 << 2
	}
	s.drums[8] |= 1 << 1 // snare on the backbeats
	s.drums[24] |= 1 << 1

	s.tom[30] = 45

	return s
}

func (r *Runner) runDemo(sigCh chan os.Signal) error {
	setupLeadFM(r.mgr, 0)
	setupBassFM(r.mgr, 1)
	setupChordSSG(r.mgr, 2)
	setupTomADPCM(r.mgr, 3, r.ctrl)

	song := newDemoSong()

	timer, tickCh := r.startTicker()
	defer timer.Stop()

	log.Printf("demo: %d rows, %d loops at %d ticks/s", demoRows, demoLoops, r.cfg.TickRate)

	tick := 0
	for r.control.ShouldRun() {
		select {
		case <-sigCh:
			r.control.Stop()

		case <-tickCh:
			row := tick / demoTicksPerRow
			if row >= demoRows*demoLoops {
				r.control.Stop()
				break
			}
			if tick%demoTicksPerRow == 0 {
				if row == demoRows { // second pass begins
					if r.vgm != nil {
						r.vgm.SetLoopPoint()
					}
					if r.s98 != nil {
						r.s98.SetLoopPoint()
					}
				}
				r.runTick(func() { r.playRow(song, row%demoRows) })
			} else {
				r.runTick(nil)
			}
			r.pace()
			tick++
		}
	}
	return nil
}

// playRow issues this row's key events; channels with no event this row
// advance their macros with a plain tick.
func (r *Runner) playRow(song *demoSong, row int) {
	cell := func(v int, src opna.SoundSource, ch int, on func(oct int, note opna.Note), off func()) {
		switch v {
		case hold:
			r.ctrl.TickEvent(src, ch)
		case cut:
			off()
		default:
			oct, note := opna.NoteNumberToOctaveAndNote(v)
			on(oct, note)
		}
	}

	cell(song.lead[row], opna.SourceFM, 0,
		func(oct int, note opna.Note) {
			r.ctrl.SetInstrumentFM(0, r.mgr.Instrument(0).(*opna.InstrumentFM))
			r.ctrl.KeyOnFM(0, note, oct, 0, false)
		},
		func() { r.ctrl.KeyOffFM(0, false) })

	cell(song.bass[row], opna.SourceFM, 1,
		func(oct int, note opna.Note) {
			r.ctrl.SetInstrumentFM(1, r.mgr.Instrument(1).(*opna.InstrumentFM))
			r.ctrl.KeyOnFM(1, note, oct, 0, false)
		},
		func() { r.ctrl.KeyOffFM(1, false) })

	cell(song.chord[row], opna.SourceSSG, 0,
		func(oct int, note opna.Note) {
			r.ctrl.SetInstrumentSSG(0, r.mgr.Instrument(2).(*opna.InstrumentSSG))
			r.ctrl.KeyOnSSG(0, note, oct, 0, false)
		},
		func() { r.ctrl.KeyOffSSG(0, false) })

	cell(song.tom[row], opna.SourceADPCM, 0,
		func(oct int, note opna.Note) {
			r.ctrl.SetInstrumentADPCM(r.mgr.Instrument(3).(*opna.InstrumentADPCM))
			r.ctrl.KeyOnADPCM(note, oct, 0, false)
		},
		func() { r.ctrl.KeyOffADPCM(false) })

	for ch := 0; ch < 6; ch++ {
		if song.drums[row]&(1<<ch) != 0 {
			r.ctrl.SetKeyOnFlagDrum(ch)
		}
	}

	// Unused channels still advance.
	for ch := 2; ch < opna.FMChannelCount(r.ctrl.Mode()); ch++ {
		r.ctrl.TickEvent(opna.SourceFM, ch)
	}
	for ch := 1; ch < 3; ch++ {
		r.ctrl.TickEvent(opna.SourceSSG, ch)
	}
}

//----- demo instruments -----

// setupLeadFM fills a slot with a bright 4-op lead patch.
func setupLeadFM(mgr *opna.InstrumentsManager, instNum int) {
	mgr.AddInstrument(instNum, opna.SourceFM, "lead")
	fm := mgr.Instrument(instNum).(*opna.InstrumentFM)
	en := fm.EnvelopeNumber()

	mgr.SetEnvelopeFMParameter(en, opna.ParamAL, 4)
	mgr.SetEnvelopeFMParameter(en, opna.ParamFB, 5)

	set := func(p opna.FMEnvelopeParameter, vals [4]int) {
		for op := 0; op < 4; op++ {
			mgr.SetEnvelopeFMParameter(en, p+opna.FMEnvelopeParameter(op*10), vals[op])
		}
	}
	set(opna.ParamAR1, [4]int{31, 31, 31, 31})
	set(opna.ParamDR1, [4]int{8, 6, 10, 4})
	set(opna.ParamSL1, [4]int{3, 2, 4, 1})
	set(opna.ParamRR1, [4]int{7, 7, 7, 9})
	set(opna.ParamTL1, [4]int{28, 32, 4, 0})
	set(opna.ParamML1, [4]int{2, 4, 1, 1})
}

// setupBassFM fills a slot with a punchy bass patch.
func setupBassFM(mgr *opna.InstrumentsManager, instNum int) {
	mgr.AddInstrument(instNum, opna.SourceFM, "bass")
	fm := mgr.Instrument(instNum).(*opna.InstrumentFM)
	en := fm.EnvelopeNumber()

	mgr.SetEnvelopeFMParameter(en, opna.ParamAL, 3)
	mgr.SetEnvelopeFMParameter(en, opna.ParamFB, 6)
	for op := 0; op < 4; op++ {
		base := opna.FMEnvelopeParameter(op * 10)
		mgr.SetEnvelopeFMParameter(en, opna.ParamAR1+base, 31)
		mgr.SetEnvelopeFMParameter(en, opna.ParamDR1+base, 12)
		mgr.SetEnvelopeFMParameter(en, opna.ParamSL1+base, 4)
		mgr.SetEnvelopeFMParameter(en, opna.ParamRR1+base, 8)
		mgr.SetEnvelopeFMParameter(en, opna.ParamML1+base, 1)
	}
	mgr.SetEnvelopeFMParameter(en, opna.ParamTL1, 30)
	mgr.SetEnvelopeFMParameter(en, opna.ParamTL2, 24)
	mgr.SetEnvelopeFMParameter(en, opna.ParamTL3, 26)
	mgr.SetEnvelopeFMParameter(en, opna.ParamTL4, 2)
}

// setupChordSSG fills a slot with a square wave, a decaying software
// envelope and a minor-triad arpeggio macro.
func setupChordSSG(mgr *opna.InstrumentsManager, instNum int) {
	mgr.AddInstrument(instNum, opna.SourceSSG, "chord")
	ssg := mgr.Instrument(instNum).(*opna.InstrumentSSG)

	mgr.SetInstrumentSSGWaveformEnabled(instNum, true)
	wf := mgr.WaveformSSG(ssg.WaveformNumber())
	wf.SetSequenceCommand(0, int(opna.SSGWaveformSquare), opna.NoData)

	mgr.SetInstrumentSSGEnvelopeEnabled(instNum, true)
	env := mgr.EnvelopeSSG(ssg.EnvelopeNumber())
	env.SetSequenceCommand(0, 15, opna.NoData)
	for _, v := range []int{13, 11, 10, 9} {
		env.AddSequenceCommand(v, opna.NoData)
	}

	mgr.SetInstrumentSSGArpeggioEnabled(instNum, true)
	arp := mgr.ArpeggioSSG(ssg.ArpeggioNumber())
	arp.AddSequenceCommand(51, opna.NoData) // +3
	arp.AddSequenceCommand(55, opna.NoData) // +7
	arp.SetLoops([]int{0}, []int{2}, []int{opna.InfiniteTimes})
}

// setupTomADPCM synthesizes a short decaying noise burst, registers it as
// a sample and uploads it to the chip DRAM.
func setupTomADPCM(mgr *opna.InstrumentsManager, instNum int, ctrl *opna.OPNAController) {
	mgr.AddInstrument(instNum, opna.SourceADPCM, "tom")
	ad := mgr.Instrument(instNum).(*opna.InstrumentADPCM)

	wf := mgr.WaveformADPCMRecord(ad.WaveformNumber())
	wf.SetRootKeyNumber(45) // A2
	wf.SetRootDeltaN(opna.CalcADPCMDeltaN(16000))

	// Cheap pseudo noise with a linear fade; encoder quality is irrelevant
	// for a drum hit.
	sample := make([]byte, 2048)
	seed := uint32(0x2608)
	for i := range sample {
		seed = seed*1664525 + 1013904223
		v := (seed >> 24) & 0xff
		fade := uint32(len(sample)-i) * 255 / uint32(len(sample))
		sample[i] = byte(v * fade / 255)
	}
	wf.SetSample(sample)

	ctrl.StoreSampleADPCM(ad.WaveformNumber())
}
