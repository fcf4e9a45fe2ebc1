package opna

import "testing"

func TestDrumKeyFlagsDeferredToFlush(t *testing.T) {
	c, _ := newTestController()
	rec := &writeRecorder{}
	c.SetExportSink(rec)

	c.SetKeyOnFlagDrum(0)
	c.SetKeyOnFlagDrum(3)
	c.SetKeyOffFlagDrum(1)

	if got := rec.values(0x10); len(got) != 0 {
		t.Fatalf("key register written before flush: %#v", got)
	}

	c.UpdateRegisterStates()

	got := rec.values(0x10)
	want := []uint8{0x09, 0x82}
	if len(got) != len(want) {
		t.Fatalf("key register writes = %#v, want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key register write %d = %#x, want %#x", i, got[i], want[i])
		}
	}

	// Flags are consumed; a second flush is silent.
	rec.Clear()
	c.UpdateRegisterStates()
	if got := rec.values(0x10); len(got) != 0 {
		t.Errorf("key register writes on empty flush = %#v, want none", got)
	}
}

func TestSetVolumeDrum(t *testing.T) {
	c, _ := newTestController()

	c.SetVolumeDrum(2, 0x10)
	if got := c.Chip().Register(0x1a); got != 0xd0 {
		t.Errorf("level register = %#x, want 0xd0", got)
	}

	c.SetPanDrum(2, 1) // right only
	if got := c.Chip().Register(0x1a); got != 0x50 {
		t.Errorf("level register after pan = %#x, want 0x50", got)
	}

	c.SetMasterVolumeDrum(0x20)
	if got := c.Chip().Register(0x11); got != 0x20 {
		t.Errorf("master level = %#x, want 0x20", got)
	}
}

func TestMuteDrumFlushesKeyOff(t *testing.T) {
	c, _ := newTestController()
	rec := &writeRecorder{}
	c.SetExportSink(rec)

	// Mute forces the key off immediately, bypassing the deferred queue.
	c.SetMuteState(SourceDrum, 2, true)
	got := rec.values(0x10)
	if len(got) != 1 || got[0] != 0x84 {
		t.Fatalf("key register writes = %#v, want [0x84]", got)
	}

	// Key on requests for a muted channel are dropped.
	rec.Clear()
	c.SetKeyOnFlagDrum(2)
	c.UpdateRegisterStates()
	if got := rec.values(0x10); len(got) != 0 {
		t.Errorf("key register writes while muted = %#v, want none", got)
	}
}
