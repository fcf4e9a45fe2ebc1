package opna

import "testing"

func TestAddInstrumentAssignsSlots(t *testing.T) {
	m := NewInstrumentsManager(false)

	m.AddInstrument(0, SourceFM, "a")
	m.AddInstrument(1, SourceFM, "b")

	a := m.Instrument(0).(*InstrumentFM)
	b := m.Instrument(1).(*InstrumentFM)
	if a.EnvelopeNumber() != 0 {
		t.Errorf("first envelope slot = %d, want 0", a.EnvelopeNumber())
	}
	// The envelope registers its user at creation, so the next instrument
	// gets the next slot.
	if b.EnvelopeNumber() != 1 {
		t.Errorf("second envelope slot = %d, want 1", b.EnvelopeNumber())
	}
	if !m.Registered(a) || !m.Registered(b) {
		t.Error("added instruments should be registered")
	}
	if got := m.FindFirstFreeInstrument(); got != 2 {
		t.Errorf("FindFirstFreeInstrument = %d, want 2", got)
	}
	if m.Instrument(-1) != nil || m.Instrument(propertySlots) != nil {
		t.Error("out-of-range slots should be nil")
	}
	if got := m.InstrumentIndices(); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("InstrumentIndices = %v, want [0 1]", got)
	}
}

func TestCloneInstrumentSharesSlots(t *testing.T) {
	m := NewInstrumentsManager(false)
	m.AddInstrument(0, SourceFM, "src")
	m.SetEnvelopeFMParameter(0, ParamAL, 3)

	m.CloneInstrument(1, 0)

	c := m.Instrument(1).(*InstrumentFM)
	if !m.Registered(c) {
		t.Fatal("clone should be registered")
	}
	if c.EnvelopeNumber() != 0 {
		t.Errorf("clone envelope slot = %d, want shared slot 0", c.EnvelopeNumber())
	}
	// An edit through either instrument is visible to both.
	if got := m.EnvelopeFMParameter(c.EnvelopeNumber(), ParamAL); got != 3 {
		t.Errorf("shared AL = %d, want 3", got)
	}
}

func TestDeepCloneInstrument(t *testing.T) {
	m := NewInstrumentsManager(false)
	m.AddInstrument(0, SourceFM, "src")
	m.SetEnvelopeFMParameter(0, ParamAL, 3)
	m.SetInstrumentFMArpeggioEnabled(0, OperatorAll, true)
	m.SetInstrumentFMArpeggioEnabled(0, Operator1, true)
	m.ArpeggioFM(0).AddSequenceCommand(52, NoData)

	m.DeepCloneInstrument(1, 0)

	c := m.Instrument(1).(*InstrumentFM)
	if c.EnvelopeNumber() == 0 {
		t.Fatal("deep clone should own a fresh envelope slot")
	}
	if got := m.EnvelopeFMParameter(c.EnvelopeNumber(), ParamAL); got != 3 {
		t.Errorf("cloned AL = %d, want 3", got)
	}

	// Later edits to the clone must not touch the source.
	m.SetEnvelopeFMParameter(c.EnvelopeNumber(), ParamAL, 5)
	if got := m.EnvelopeFMParameter(0, ParamAL); got != 3 {
		t.Errorf("source AL after clone edit = %d, want 3", got)
	}

	// An arpeggio shared by several operator bindings stays shared, in a
	// new slot.
	arpAll := c.ArpeggioNumber(OperatorAll)
	arpOp1 := c.ArpeggioNumber(Operator1)
	if arpAll == 0 {
		t.Error("deep clone should own a fresh arpeggio slot")
	}
	if arpAll != arpOp1 {
		t.Errorf("arpeggio slots diverged: %d vs %d", arpAll, arpOp1)
	}
	if got := m.ArpeggioFM(arpAll).Unit(1).Type; got != 52 {
		t.Errorf("cloned arpeggio command = %d, want 52", got)
	}
}

func TestRemoveInstrumentDetaches(t *testing.T) {
	m := NewInstrumentsManager(false)
	m.AddInstrument(0, SourceSSG, "s")

	detached := m.RemoveInstrument(0)

	if m.Instrument(0) != nil {
		t.Fatal("slot should be empty after removal")
	}
	if m.Registered(detached) {
		t.Error("detached instrument should not be registered")
	}

	m.AddInstrumentObject(detached)
	if !m.Registered(detached) {
		t.Error("re-added instrument should be registered")
	}
}

func TestCheckDuplicateInstruments(t *testing.T) {
	m := NewInstrumentsManager(false)
	m.AddInstrument(0, SourceFM, "a")
	m.AddInstrument(1, SourceFM, "b")

	dup := m.CheckDuplicateInstruments()
	if len(dup) != 1 || len(dup[0]) != 2 || dup[0][0] != 0 || dup[0][1] != 1 {
		t.Fatalf("duplicates = %v, want [[0 1]]", dup)
	}

	// Diverging one envelope splits the group.
	m.SetEnvelopeFMParameter(1, ParamAL, 2)
	if dup := m.CheckDuplicateInstruments(); dup != nil {
		t.Errorf("duplicates after edit = %v, want none", dup)
	}
}
