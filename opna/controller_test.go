package opna

import "testing"

// regWrite is one captured chip register write.
type regWrite struct {
	addr  uint32
	value uint8
}

// writeRecorder is an ExportSink that keeps the ordered register write
// stream for assertions.
type writeRecorder struct {
	writes []regWrite
}

func (r *writeRecorder) RecordRegisterChange(addr uint32, value uint8) {
	r.writes = append(r.writes, regWrite{addr: addr, value: value})
}

func (r *writeRecorder) RecordStream(samples []int16) {}
func (r *writeRecorder) Clear()                       { r.writes = nil }
func (r *writeRecorder) Empty() bool                  { return len(r.writes) == 0 }

// values returns every value written to one address, in order.
func (r *writeRecorder) values(addr uint32) []uint8 {
	var vs []uint8
	for _, w := range r.writes {
		if w.addr == addr {
			vs = append(vs, w.value)
		}
	}
	return vs
}

func newTestController() (*OPNAController, *InstrumentsManager) {
	mgr := NewInstrumentsManager(false)
	return NewOPNAController(mgr, 44100), mgr
}

func TestInitChipBaseState(t *testing.T) {
	c, _ := newTestController()
	chip := c.Chip()

	if got := chip.Register(0x29); got != 0x80 {
		t.Errorf("mode register = %#x, want 0x80", got)
	}
	if got := chip.Register(0x07); got != 0xff {
		t.Errorf("SSG mixer = %#x, want 0xff", got)
	}
	if got := chip.Register(0x11); got != 0x3f {
		t.Errorf("rhythm total level = %#x, want 0x3f", got)
	}
	for ch := uint32(0); ch < 6; ch++ {
		if got := chip.Register(0x18 + ch); got != 0xdf {
			t.Errorf("rhythm level ch%d = %#x, want 0xdf", ch, got)
		}
	}
}

func TestRegisterPokeFlush(t *testing.T) {
	c, _ := newTestController()

	c.SendRegisterAddress(0, 0x33)
	c.SendRegisterValue(0x44)
	c.SendRegisterAddress(1, 0x05) // incomplete, must be discarded

	if got := c.Chip().Register(0x33); got != 0 {
		t.Fatalf("poke applied before flush: %#x", got)
	}

	c.UpdateRegisterStates()

	if got := c.Chip().Register(0x33); got != 0x44 {
		t.Errorf("register 0x33 = %#x, want 0x44", got)
	}
	if got := c.Chip().Register(0x105); got != 0 {
		t.Errorf("incomplete poke landed: %#x", got)
	}
}

func TestRegisterPokeAddressOverwrite(t *testing.T) {
	c, _ := newTestController()

	c.SendRegisterAddress(0, 0x35)
	c.SendRegisterAddress(0, 0x36)
	c.SendRegisterValue(9)
	c.UpdateRegisterStates()

	if got := c.Chip().Register(0x36); got != 9 {
		t.Errorf("register 0x36 = %d, want 9", got)
	}
	if got := c.Chip().Register(0x35); got != 0 {
		t.Errorf("register 0x35 = %d, want 0", got)
	}
}

func TestSetMuteState(t *testing.T) {
	c, _ := newTestController()

	c.SetMuteState(SourceSSG, 1, true)
	if !c.IsMute(SourceSSG, 1) {
		t.Error("SSG channel 1 should be muted")
	}
	if got := c.Chip().Register(0x09); got != 0 {
		t.Errorf("muted SSG volume = %d, want 0", got)
	}

	c.SetMuteState(SourceSSG, 1, false)
	if c.IsMute(SourceSSG, 1) {
		t.Error("SSG channel 1 should be unmuted")
	}

	c.SetMuteState(SourceADPCM, 0, true)
	if got := c.Chip().Register(0x10b); got != 0 {
		t.Errorf("muted ADPCM level = %d, want 0", got)
	}
}
