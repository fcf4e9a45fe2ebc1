package opna

import (
	"math"
	"testing"
)

func TestKeyOnSSGSquare(t *testing.T) {
	c, _ := newTestController()
	rec := &writeRecorder{}
	c.SetExportSink(rec)

	c.KeyOnSSG(0, NoteA, 4, 0, false)

	if !c.IsKeyOnSSG(0) {
		t.Fatal("channel 0 should be keyed on")
	}
	if got := c.Chip().Register(0x08); got != 0x0f {
		t.Errorf("volume = %#x, want 0x0f", got)
	}
	if got := c.Chip().Register(0x07); got != 0xfe {
		t.Errorf("mixer = %#x, want 0xfe", got)
	}
	tp := PitchSSGSquare(NoteA, 4, 0)
	if got := c.Chip().Register(0x00); got != uint8(tp) {
		t.Errorf("tone period low = %#x, want %#x", got, uint8(tp))
	}
	if got := c.Chip().Register(0x01); got != uint8(tp>>8) {
		t.Errorf("tone period high = %#x, want %#x", got, uint8(tp>>8))
	}

	// Steady square playback never rewrites the mixer.
	c.KeyOnSSG(0, NoteC, 5, 0, false)
	if got := rec.values(0x07); len(got) != 1 {
		t.Errorf("mixer writes = %#v, want exactly one", got)
	}
}

func TestKeyOffSSG(t *testing.T) {
	c, _ := newTestController()
	c.KeyOnSSG(0, NoteA, 4, 0, false)

	c.KeyOffSSG(0, false)

	if c.IsKeyOnSSG(0) {
		t.Fatal("channel 0 should be keyed off")
	}
	if got := c.Chip().Register(0x08); got != 0 {
		t.Errorf("volume after key off = %d, want 0", got)
	}
}

func TestSetVolumeSSG(t *testing.T) {
	c, _ := newTestController()
	c.KeyOnSSG(1, NoteC, 4, 0, false)

	c.SetVolumeSSG(1, 9)
	if got := c.Chip().Register(0x09); got != 9 {
		t.Errorf("volume = %d, want 9", got)
	}

	// Out-of-range values are ignored.
	c.SetVolumeSSG(1, 0x10)
	if got := c.Chip().Register(0x09); got != 9 {
		t.Errorf("volume after invalid set = %d, want 9", got)
	}
}

func TestSetToneNoiseMixSSG(t *testing.T) {
	c, _ := newTestController()

	c.SetToneNoiseMixSSG(0, 3)
	if got := c.Chip().Register(0x07); got != 0xf6 {
		t.Errorf("mixer = %#x, want 0xf6", got)
	}

	c.SetNoisePitchSSG(0, 10)
	if got := c.Chip().Register(0x06); got != 21 {
		t.Errorf("noise period = %d, want 21", got)
	}

	c.SetToneNoiseMixSSG(0, 0)
	if got := c.Chip().Register(0x07); got != 0xff {
		t.Errorf("mixer = %#x, want 0xff", got)
	}
}

func TestAutoEnvelopeSSG(t *testing.T) {
	c, _ := newTestController()

	c.SetAutoEnvelopeSSG(0, 0, 1)
	if got := c.Chip().Register(0x0d); got != 1 {
		t.Errorf("envelope shape = %d, want 1", got)
	}
	if got := c.Chip().Register(0x08); got != 0x10 {
		t.Errorf("volume = %#x, want 0x10 (hardware envelope)", got)
	}

	c.KeyOnSSG(0, NoteA, 4, 0, false)

	// The hardware envelope owns the level register.
	if got := c.Chip().Register(0x08); got != 0x10 {
		t.Errorf("volume after key on = %#x, want 0x10", got)
	}

	// Shift 0 tracks the tone period divided by 16, biased left 4 bits.
	tp := PitchSSGSquare(NoteA, 4, 0)
	period := int(math.Round(float64(tp)/16)) << 4
	if got := c.Chip().Register(0x0b); got != uint8(period) {
		t.Errorf("envelope period low = %#x, want %#x", got, uint8(period))
	}
	if got := c.Chip().Register(0x0c); got != uint8(period>>8) {
		t.Errorf("envelope period high = %#x, want %#x", got, uint8(period>>8))
	}
}

func TestBuzzTriangleWaveformSSG(t *testing.T) {
	c, mgr := newTestController()
	mgr.AddInstrument(0, SourceSSG, "buzz")
	inst := mgr.Instrument(0).(*InstrumentSSG)
	mgr.SetInstrumentSSGWaveformEnabled(0, true)
	mgr.WaveformSSG(inst.WaveformNumber()).
		SetSequenceCommand(0, int(SSGWaveformTriangle), NoData)

	c.SetInstrumentSSG(0, inst)
	c.KeyOnSSG(0, NoteA, 4, 0, false)

	if got := c.Chip().Register(0x0d); got != 0x0e {
		t.Errorf("envelope shape = %#x, want 0x0e", got)
	}
	if got := c.Chip().Register(0x08); got != 0x10 {
		t.Errorf("volume = %#x, want 0x10", got)
	}
	// Triangle masks the square tone in the mixer.
	if got := c.Chip().Register(0x07); got != 0xff {
		t.Errorf("mixer = %#x, want 0xff", got)
	}
	ep := PitchSSGTriangle(NoteA, 4, 0)
	if got := c.Chip().Register(0x0b); got != uint8(ep) {
		t.Errorf("envelope period low = %#x, want %#x", got, uint8(ep))
	}
	if got := c.Chip().Register(0x0c); got != uint8(ep>>8) {
		t.Errorf("envelope period high = %#x, want %#x", got, uint8(ep>>8))
	}
}

func TestSoftwareEnvelopeMacroSSG(t *testing.T) {
	c, mgr := newTestController()
	mgr.AddInstrument(0, SourceSSG, "env")
	inst := mgr.Instrument(0).(*InstrumentSSG)
	mgr.SetInstrumentSSGEnvelopeEnabled(0, true)
	env := mgr.EnvelopeSSG(inst.EnvelopeNumber())
	env.SetSequenceCommand(0, 12, NoData)
	env.AddSequenceCommand(9, NoData)

	c.SetInstrumentSSG(1, inst)
	c.KeyOnSSG(1, NoteC, 4, 0, false)

	// Type 12 attenuates the full volume by 15-12.
	if got := c.Chip().Register(0x09); got != 12 {
		t.Errorf("volume at step 0 = %d, want 12", got)
	}

	c.TickEvent(SourceSSG, 1)
	if got := c.Chip().Register(0x09); got != 9 {
		t.Errorf("volume at step 1 = %d, want 9", got)
	}
}

func TestSSGVibratoRetunesEachTick(t *testing.T) {
	c, _ := newTestController()
	c.SetVibratoEffectSSG(0, 4, 8)
	c.KeyOnSSG(0, NoteA, 4, 0, false)

	// Waving iterator step 1 of period 4 depth 8 is +8.
	c.TickEvent(SourceSSG, 0)
	want := PitchSSGSquare(NoteA, 4, 8)
	if got := c.Chip().Register(0x00); got != uint8(want) {
		t.Errorf("tone period low = %#x, want %#x", got, uint8(want))
	}
}
