package export

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/Zeinok/BambooTracker/opna"
)

func TestS98SyncEncodings(t *testing.T) {
	cases := []struct {
		frames int
		want   []byte
	}{
		{1, []byte{0xff}},
		{2, []byte{0xfe, 0x00}},
		{3, []byte{0xfe, 0x01}},
		{129, []byte{0xfe, 0x7f}},
		// 7-bit little endian continuation.
		{130, []byte{0xfe, 0x80, 0x01}},
	}

	for _, tc := range cases {
		c := NewS98Container(44100)
		recordWait(c, tc.frames)
		c.RecordRegisterChange(0x28, 0)

		data := c.Data()
		want := append(append([]byte(nil), tc.want...), 0x00, 0x28, 0x00)
		if !bytes.Equal(data, want) {
			t.Errorf("sync %d = % x, want % x", tc.frames, data, want)
		}
	}
}

func TestS98BankCommands(t *testing.T) {
	c := NewS98Container(44100)
	c.RecordRegisterChange(0x28, 0xf0)
	c.RecordRegisterChange(0x10b, 0xff)

	want := []byte{
		0x00, 0x28, 0xf0,
		0x01, 0x0b, 0xff,
	}
	if got := c.Data(); !bytes.Equal(got, want) {
		t.Errorf("commands = % x, want % x", got, want)
	}
}

func TestS98Empty(t *testing.T) {
	c := NewS98Container(44100)
	if !c.Empty() {
		t.Error("fresh container should be empty")
	}
	c.RecordRegisterChange(0x28, 0)
	if c.Empty() {
		t.Error("container with a command should not be empty")
	}
	recordWait(c, 5)
	if !c.Empty() {
		t.Error("container with a pending sync should be empty")
	}
}

func TestWriteS98(t *testing.T) {
	c := NewS98Container(48000)
	c.RecordRegisterChange(0x28, 0xf0)
	recordWait(c, 2)
	c.RecordRegisterChange(0x28, 0x00)

	var buf bytes.Buffer
	if err := WriteS98(&buf, c, false); err != nil {
		t.Fatal(err)
	}
	out := buf.Bytes()

	if string(out[:4]) != "S983" {
		t.Errorf("magic = %q", out[:4])
	}
	if got := binary.LittleEndian.Uint32(out[0x04:]); got != 1 {
		t.Errorf("timer numerator = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(out[0x08:]); got != 48000 {
		t.Errorf("timer denominator = %d, want 48000", got)
	}
	if got := binary.LittleEndian.Uint32(out[0x14:]); got != 0x30 {
		t.Errorf("dump offset = %#x, want 0x30", got)
	}
	if got := binary.LittleEndian.Uint32(out[0x18:]); got != 0 {
		t.Errorf("loop offset without loop = %d, want 0", got)
	}
	if got := binary.LittleEndian.Uint32(out[0x1c:]); got != 1 {
		t.Errorf("device count = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(out[0x20:]); got != 4 {
		t.Errorf("device type = %d, want 4 (OPNA)", got)
	}
	if got := binary.LittleEndian.Uint32(out[0x24:]); got != opna.MasterClock {
		t.Errorf("device clock = %d, want %d", got, opna.MasterClock)
	}
	if out[len(out)-1] != 0xfd {
		t.Errorf("trailer = %#x, want 0xfd", out[len(out)-1])
	}

	// Header, three commands and a sync pair, end mark.
	if wantLen := 0x30 + 3 + 2 + 3 + 1; len(out) != wantLen {
		t.Errorf("file length = %d, want %d", len(out), wantLen)
	}
}
