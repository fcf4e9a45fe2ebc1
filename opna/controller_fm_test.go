package opna

import "testing"

func TestKeyOnFMStandard(t *testing.T) {
	c, mgr := newTestController()
	mgr.AddInstrument(0, SourceFM, "lead")
	c.SetInstrumentFM(0, mgr.Instrument(0).(*InstrumentFM))

	rec := &writeRecorder{}
	c.SetExportSink(rec)

	c.KeyOnFM(0, NoteA, 4, 0, false)

	if !c.IsKeyOnFM(0) {
		t.Fatal("channel 0 should be keyed on")
	}
	if got := rec.values(0x28); len(got) != 1 || got[0] != 0xf0 {
		t.Errorf("key register writes = %#v, want [0xf0]", got)
	}
	p := PitchFM(NoteA, 4, 0)
	if got := c.Chip().Register(0xa4); got != uint8(p>>8) {
		t.Errorf("block/fnum high = %#x, want %#x", got, uint8(p>>8))
	}
	if got := c.Chip().Register(0xa0); got != uint8(p) {
		t.Errorf("fnum low = %#x, want %#x", got, uint8(p))
	}
}

func TestKeyOnFMRetrigger(t *testing.T) {
	c, mgr := newTestController()
	mgr.AddInstrument(0, SourceFM, "lead")
	c.SetInstrumentFM(0, mgr.Instrument(0).(*InstrumentFM))
	c.KeyOnFM(0, NoteA, 4, 0, false)

	rec := &writeRecorder{}
	c.SetExportSink(rec)

	// Re-keying a sounding channel must key off before keying on again.
	c.KeyOnFM(0, NoteC, 5, 0, false)

	got := rec.values(0x28)
	if len(got) != 2 || got[0] != 0x00 || got[1] != 0xf0 {
		t.Errorf("key register writes = %#v, want [0x00 0xf0]", got)
	}
}

func TestKeyOffFM(t *testing.T) {
	c, mgr := newTestController()
	mgr.AddInstrument(0, SourceFM, "lead")
	c.SetInstrumentFM(0, mgr.Instrument(0).(*InstrumentFM))
	c.KeyOnFM(0, NoteA, 4, 0, false)

	rec := &writeRecorder{}
	c.SetExportSink(rec)

	c.KeyOffFM(0, false)
	if c.IsKeyOnFM(0) {
		t.Fatal("channel 0 should be keyed off")
	}
	if got := rec.values(0x28); len(got) != 1 || got[0] != 0x00 {
		t.Errorf("key register writes = %#v, want [0x00]", got)
	}

	// A second key off only advances the tick; no key register traffic.
	rec.Clear()
	c.KeyOffFM(0, false)
	if got := rec.values(0x28); len(got) != 0 {
		t.Errorf("key register writes on idle key off = %#v, want none", got)
	}
}

func TestKeyOnFM3Expanded(t *testing.T) {
	c, _ := newTestController()
	c.SetMode(SongFM3chExpanded)

	rec := &writeRecorder{}
	c.SetExportSink(rec)

	// Logical channels 2 and 6 are operators 1 and 2 of physical channel 2;
	// their slot bits accumulate in the key register.
	c.KeyOnFM(2, NoteC, 4, 0, false)
	c.KeyOnFM(6, NoteE, 4, 0, false)
	c.KeyOffFM(6, false)
	c.KeyOffFM(7, false) // never keyed, must stay silent

	got := rec.values(0x28)
	want := []uint8{0x12, 0x32, 0x12}
	if len(got) != len(want) {
		t.Fatalf("key register writes = %#v, want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key register write %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestCarrierTLFolding(t *testing.T) {
	c, mgr := newTestController()
	mgr.AddInstrument(0, SourceFM, "alg0")
	mgr.AddInstrument(1, SourceFM, "alg7")

	for env, al := range map[int]int{0: 0, 1: 7} {
		mgr.SetEnvelopeFMParameter(env, ParamAL, al)
		mgr.SetEnvelopeFMParameter(env, ParamTL1, 10)
		mgr.SetEnvelopeFMParameter(env, ParamTL2, 20)
		mgr.SetEnvelopeFMParameter(env, ParamTL3, 30)
		mgr.SetEnvelopeFMParameter(env, ParamTL4, 40)
	}

	c.SetVolumeFM(0, 20)
	c.SetVolumeFM(1, 20)
	c.SetInstrumentFM(0, mgr.Instrument(0).(*InstrumentFM))
	c.SetInstrumentFM(1, mgr.Instrument(1).(*InstrumentFM))

	chip := c.Chip()

	// Algorithm 0: only operator 4 is a carrier, so only it absorbs the
	// channel volume.
	for _, tc := range []struct {
		addr uint32
		want uint8
	}{
		{0x40, 10}, {0x48, 20}, {0x44, 30}, {0x4c, 60},
	} {
		if got := chip.Register(tc.addr); got != tc.want {
			t.Errorf("alg0 TL at %#x = %d, want %d", tc.addr, got, tc.want)
		}
	}

	// Algorithm 7: every operator is a carrier.
	for _, tc := range []struct {
		addr uint32
		want uint8
	}{
		{0x41, 30}, {0x49, 40}, {0x45, 50}, {0x4d, 60},
	} {
		if got := chip.Register(tc.addr); got != tc.want {
			t.Errorf("alg7 TL at %#x = %d, want %d", tc.addr, got, tc.want)
		}
	}

	// Volume folding saturates at the register maximum.
	c.SetVolumeFM(0, 120)
	if got := chip.Register(0x4c); got != 127 {
		t.Errorf("saturated TL = %d, want 127", got)
	}
	if got := chip.Register(0x40); got != 10 {
		t.Errorf("modulator TL changed with volume: %d, want 10", got)
	}
}

func TestTemporaryVolumeFM(t *testing.T) {
	c, mgr := newTestController()
	mgr.AddInstrument(0, SourceFM, "lead")
	c.SetInstrumentFM(0, mgr.Instrument(0).(*InstrumentFM))

	// Default envelope: algorithm 4, operator 2 is a carrier with TL 0.
	c.SetVolumeFM(0, 10)
	if got := c.Chip().Register(0x48); got != 10 {
		t.Fatalf("carrier TL = %d, want 10", got)
	}

	c.SetTemporaryVolumeFM(0, 20)
	if got := c.Chip().Register(0x48); got != 20 {
		t.Errorf("temporary TL = %d, want 20", got)
	}

	// Key on drops the one-note override back to the base volume.
	c.KeyOnFM(0, NoteC, 4, 0, false)
	if got := c.Chip().Register(0x48); got != 10 {
		t.Errorf("TL after key on = %d, want 10", got)
	}
}

func TestMuteFMResetsRelease(t *testing.T) {
	c, mgr := newTestController()
	mgr.AddInstrument(0, SourceFM, "lead")
	c.SetInstrumentFM(0, mgr.Instrument(0).(*InstrumentFM))

	// Mute slams RR to maximum in the shared SL/RR register.
	c.SetMuteState(SourceFM, 0, true)
	for _, addr := range []uint32{0x80, 0x88, 0x84, 0x8c} {
		if got := c.Chip().Register(addr); got != 0x7f {
			t.Errorf("muted SL/RR at %#x = %#x, want 0x7f", addr, got)
		}
	}

	// Unmute restores the stored release rate (default 7, SL 0).
	c.SetMuteState(SourceFM, 0, false)
	for _, addr := range []uint32{0x80, 0x88, 0x84, 0x8c} {
		if got := c.Chip().Register(addr); got != 0x07 {
			t.Errorf("restored SL/RR at %#x = %#x, want 0x07", addr, got)
		}
	}
}

func TestFMEnvelopeResetClearedOnReselect(t *testing.T) {
	c, mgr := newTestController()
	mgr.AddInstrument(0, SourceFM, "lead")
	inst := mgr.Instrument(0).(*InstrumentFM)
	c.SetInstrumentFM(0, inst)

	c.SetMuteState(SourceFM, 0, true)
	if !c.hasResetEnvFM[0] {
		t.Fatal("mute should mark the channel envelope as reset")
	}
	c.SetMuteState(SourceFM, 0, false)

	// Re-selecting the instrument clears the flag on the logical channel
	// and rewrites the stored release rates.
	c.SetInstrumentFM(0, inst)
	if c.hasResetEnvFM[0] {
		t.Error("reset flag should clear on instrument reselect")
	}
	for _, addr := range []uint32{0x80, 0x88, 0x84, 0x8c} {
		if got := c.Chip().Register(addr); got != 0x07 {
			t.Errorf("SL/RR at %#x = %#x, want 0x07", addr, got)
		}
	}
}

func TestSetPanFM(t *testing.T) {
	c, _ := newTestController()

	c.SetPanFM(1, 2) // left only
	if got := c.Chip().Register(0xb5); got != 0x80 {
		t.Errorf("pan register = %#x, want 0x80", got)
	}
	c.SetPanFM(1, 3)
	if got := c.Chip().Register(0xb5); got != 0xc0 {
		t.Errorf("pan register = %#x, want 0xc0", got)
	}
}

func TestFMEnvelopeControlRestoredByInstrument(t *testing.T) {
	c, mgr := newTestController()
	mgr.AddInstrument(0, SourceFM, "lead")
	inst := mgr.Instrument(0).(*InstrumentFM)
	c.SetInstrumentFM(0, inst)

	c.SetFBControlFM(0, 7)
	if got := c.Chip().Register(0xb0); got != 7<<3|4 {
		t.Fatalf("FB/AL after control = %#x, want %#x", got, 7<<3|4)
	}

	// Re-selecting the same instrument reverts the override.
	c.SetInstrumentFM(0, inst)
	if got := c.Chip().Register(0xb0); got != 4 {
		t.Errorf("FB/AL after reselect = %#x, want 0x04", got)
	}
}

func TestFMDetuneRewritesPitch(t *testing.T) {
	c, mgr := newTestController()
	mgr.AddInstrument(0, SourceFM, "lead")
	c.SetInstrumentFM(0, mgr.Instrument(0).(*InstrumentFM))
	c.KeyOnFM(0, NoteA, 4, 0, false)

	c.SetDetuneFM(0, 16)
	c.TickEvent(SourceFM, 0)

	p := PitchFM(NoteA, 4, 16)
	if got := c.Chip().Register(0xa0); got != uint8(p) {
		t.Errorf("detuned fnum low = %#x, want %#x", got, uint8(p))
	}
	if got := c.Chip().Register(0xa4); got != uint8(p>>8) {
		t.Errorf("detuned fnum high = %#x, want %#x", got, uint8(p>>8))
	}
}

func TestFMArpeggioEffect(t *testing.T) {
	c, mgr := newTestController()
	mgr.AddInstrument(0, SourceFM, "lead")
	c.SetInstrumentFM(0, mgr.Instrument(0).(*InstrumentFM))

	c.SetArpeggioEffectFM(0, 4, 7)
	c.KeyOnFM(0, NoteC, 4, 0, false)

	base := PitchFM(NoteC, 4, 0)
	if got := c.Chip().Register(0xa0); got != uint8(base) {
		t.Fatalf("fnum low at step 0 = %#x, want %#x", got, uint8(base))
	}

	c.TickEvent(SourceFM, 0)
	up4 := PitchFM(NoteE, 4, 0)
	if got := c.Chip().Register(0xa0); got != uint8(up4) {
		t.Errorf("fnum low at step 1 = %#x, want %#x", got, uint8(up4))
	}

	c.TickEvent(SourceFM, 0)
	up7 := PitchFM(NoteG, 4, 0)
	if got := c.Chip().Register(0xa0); got != uint8(up7) {
		t.Errorf("fnum low at step 2 = %#x, want %#x", got, uint8(up7))
	}

	c.TickEvent(SourceFM, 0)
	if got := c.Chip().Register(0xa0); got != uint8(base) {
		t.Errorf("fnum low back at root = %#x, want %#x", got, uint8(base))
	}
}
