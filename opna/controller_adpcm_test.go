package opna

import (
	"bytes"
	"testing"
)

func testSample(fill byte) []byte {
	s := make([]byte, 64)
	for i := range s {
		s[i] = fill + byte(i)
	}
	return s
}

func TestStoreSampleADPCM(t *testing.T) {
	c, mgr := newTestController()

	mgr.WaveformADPCMRecord(0).SetSample(testSample(0x40))
	if !c.StoreSampleADPCM(0) {
		t.Fatal("first upload should succeed")
	}

	start, stop := mgr.WaveformADPCMRecord(0).Addresses()
	if start != 0 || stop != 1 {
		t.Errorf("slot 0 addresses = (%d, %d), want (0, 1)", start, stop)
	}
	if got := c.ADPCMStoredSize(); got != 64 {
		t.Errorf("stored size = %d, want 64", got)
	}
	if !bytes.Equal(c.Chip().DRAM()[:64], testSample(0x40)) {
		t.Error("DRAM content differs from uploaded sample")
	}

	// The next slot lands right after the previous store point.
	mgr.WaveformADPCMRecord(1).SetSample(testSample(0x80))
	if !c.StoreSampleADPCM(1) {
		t.Fatal("second upload should succeed")
	}
	start, stop = mgr.WaveformADPCMRecord(1).Addresses()
	if start != 2 || stop != 3 {
		t.Errorf("slot 1 addresses = (%d, %d), want (2, 3)", start, stop)
	}
	if !bytes.Equal(c.Chip().DRAM()[64:128], testSample(0x80)) {
		t.Error("DRAM content of second sample differs")
	}

	// Clearing rewinds the store point so uploads start over.
	c.ClearSamplesADPCM()
	if !c.StoreSampleADPCM(0) {
		t.Fatal("upload after clear should succeed")
	}
	start, stop = mgr.WaveformADPCMRecord(0).Addresses()
	if start != 0 || stop != 1 {
		t.Errorf("addresses after clear = (%d, %d), want (0, 1)", start, stop)
	}
}

func TestKeyOnADPCM(t *testing.T) {
	c, mgr := newTestController()
	mgr.AddInstrument(0, SourceADPCM, "smp")
	inst := mgr.Instrument(0).(*InstrumentADPCM)

	wf := mgr.WaveformADPCMRecord(inst.WaveformNumber())
	wf.SetSample(testSample(0))
	if !c.StoreSampleADPCM(inst.WaveformNumber()) {
		t.Fatal("upload should succeed")
	}
	c.SetInstrumentADPCM(inst)

	rec := &writeRecorder{}
	c.SetExportSink(rec)

	// Root key is C5, so delta-N must be exactly the root rate.
	c.KeyOnADPCM(NoteC, 5, 0, false)

	if !c.IsKeyOnADPCM() {
		t.Fatal("channel should be keyed on")
	}
	ctrl := rec.values(0x100)
	want := []uint8{0xa1, 0x21, 0xa0}
	if len(ctrl) != len(want) {
		t.Fatalf("control writes = %#v, want %#v", ctrl, want)
	}
	for i := range want {
		if ctrl[i] != want[i] {
			t.Errorf("control write %d = %#x, want %#x", i, ctrl[i], want[i])
		}
	}
	if got := rec.values(0x102); len(got) != 1 || got[0] != 0 {
		t.Errorf("start address writes = %#v, want [0x00]", got)
	}
	if got := rec.values(0x104); len(got) != 1 || got[0] != 1 {
		t.Errorf("stop address writes = %#v, want [0x01]", got)
	}

	dn := wf.RootDeltaN()
	if got := c.Chip().Register(0x109); got != uint8(dn) {
		t.Errorf("delta-N low = %#x, want %#x", got, uint8(dn))
	}
	if got := c.Chip().Register(0x10a); got != uint8(dn>>8) {
		t.Errorf("delta-N high = %#x, want %#x", got, uint8(dn>>8))
	}
	if got := c.Chip().Register(0x10b); got != 0xff {
		t.Errorf("level = %#x, want 0xff", got)
	}
	if got := c.Chip().Register(0x101); got != 0xc2 {
		t.Errorf("pan/control = %#x, want 0xc2", got)
	}

	// Re-keying the same sample skips the address registers.
	rec.Clear()
	c.KeyOnADPCM(NoteC, 5, 0, false)
	if got := rec.values(0x102); len(got) != 0 {
		t.Errorf("start address rewritten on re-key: %#v", got)
	}
	if got := rec.values(0x104); len(got) != 0 {
		t.Errorf("stop address rewritten on re-key: %#v", got)
	}
}

func TestKeyOnADPCMOctaveDoublesDeltaN(t *testing.T) {
	c, mgr := newTestController()
	mgr.AddInstrument(0, SourceADPCM, "smp")
	inst := mgr.Instrument(0).(*InstrumentADPCM)
	wf := mgr.WaveformADPCMRecord(inst.WaveformNumber())
	wf.SetSample(testSample(0))
	c.StoreSampleADPCM(inst.WaveformNumber())
	c.SetInstrumentADPCM(inst)

	c.KeyOnADPCM(NoteC, 6, 0, false)

	dn := wf.RootDeltaN() * 2
	if got := c.Chip().Register(0x109); got != uint8(dn) {
		t.Errorf("delta-N low = %#x, want %#x", got, uint8(dn))
	}
	if got := c.Chip().Register(0x10a); got != uint8(dn>>8) {
		t.Errorf("delta-N high = %#x, want %#x", got, uint8(dn>>8))
	}
}

func TestKeyOffADPCM(t *testing.T) {
	c, mgr := newTestController()
	mgr.AddInstrument(0, SourceADPCM, "smp")
	inst := mgr.Instrument(0).(*InstrumentADPCM)
	mgr.WaveformADPCMRecord(inst.WaveformNumber()).SetSample(testSample(0))
	c.StoreSampleADPCM(inst.WaveformNumber())
	c.SetInstrumentADPCM(inst)
	c.KeyOnADPCM(NoteC, 5, 0, false)

	c.KeyOffADPCM(false)

	if c.IsKeyOnADPCM() {
		t.Fatal("channel should be keyed off")
	}
	if got := c.Chip().Register(0x10b); got != 0 {
		t.Errorf("level after key off = %d, want 0", got)
	}
}
