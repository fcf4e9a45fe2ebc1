package export

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/Zeinok/BambooTracker/opna"
)

// recordWait advances the container's clock by the given number of stereo
// frames.
func recordWait(sink opna.ExportSink, frames int) {
	sink.RecordStream(make([]int16, frames*2))
}

func TestVGMWaitEncodings(t *testing.T) {
	cases := []struct {
		frames int
		want   []byte
	}{
		{10, []byte{0x79}},
		{16, []byte{0x7f}},
		{735, []byte{0x62}},
		{736, []byte{0x62, 0x70}},
		{882, []byte{0x63}},
		{898, []byte{0x63, 0x7f}},
		{1470, []byte{0x62, 0x62}},
		{1764, []byte{0x63, 0x63}},
		{2205, []byte{0x62, 0x62, 0x62}},
		{2646, []byte{0x63, 0x63, 0x63}},
		{3000, []byte{0x61, 0xb8, 0x0b}},
		{70000, []byte{0x61, 0xff, 0xff, 0x61, 0x71, 0x11}},
		// A remainder of 1..16 after a max chunk cannot follow another
		// 16-bit wait, so the first chunk is shortened.
		{65540, []byte{0x61, 0xef, 0xff, 0x61, 0x15, 0x00}},
	}

	for _, tc := range cases {
		c := NewVGMContainer(44100, TargetYM2608)
		recordWait(c, tc.frames)
		c.RecordRegisterChange(0x28, 0)

		data := c.Data()
		want := append(append([]byte(nil), tc.want...), 0x56, 0x28, 0x00)
		if !bytes.Equal(data, want) {
			t.Errorf("wait %d = % x, want % x", tc.frames, data, want)
		}
	}
}

func TestVGMWaitRateConversion(t *testing.T) {
	// 480 frames at 48 kHz are 441 samples on the 44.1 kHz time base; the
	// fractional part must carry across flushes without drift.
	c := NewVGMContainer(48000, TargetYM2608)
	for i := 0; i < 10; i++ {
		recordWait(c, 48)
		c.RecordRegisterChange(0x28, 0)
	}
	c.Data()
	if c.totalSmpl != 441 {
		t.Errorf("total samples = %d, want 441", c.totalSmpl)
	}
}

func TestVGMTargetCommands(t *testing.T) {
	writeAll := func(c *VGMContainer) {
		c.RecordRegisterChange(0x07, 0xfe)  // SSG
		c.RecordRegisterChange(0x18, 0xdf)  // rhythm
		c.RecordRegisterChange(0x29, 0x80)  // mode
		c.RecordRegisterChange(0x28, 0xf0)  // FM
		c.RecordRegisterChange(0x10b, 0xff) // ADPCM
	}

	c := NewVGMContainer(44100, TargetYM2608)
	writeAll(c)
	want := []byte{
		0x56, 0x07, 0xfe,
		0x56, 0x18, 0xdf,
		0x56, 0x29, 0x80,
		0x56, 0x28, 0xf0,
		0x57, 0x0b, 0xff,
	}
	if got := c.Data(); !bytes.Equal(got, want) {
		t.Errorf("YM2608 = % x, want % x", got, want)
	}

	// YM2612 routes SSG to an external PSG and has no rhythm, mode
	// register, or ADPCM bank.
	c = NewVGMContainer(44100, TargetYM2612)
	writeAll(c)
	want = []byte{
		0xa0, 0x07, 0xfe,
		0x52, 0x28, 0xf0,
	}
	if got := c.Data(); !bytes.Equal(got, want) {
		t.Errorf("YM2612 = % x, want % x", got, want)
	}

	// YM2203 keeps the SSG on the same chip.
	c = NewVGMContainer(44100, TargetYM2203)
	writeAll(c)
	want = []byte{
		0x55, 0x07, 0xfe,
		0x55, 0x28, 0xf0,
	}
	if got := c.Data(); !bytes.Equal(got, want) {
		t.Errorf("YM2203 = % x, want % x", got, want)
	}
}

func TestVGMEmpty(t *testing.T) {
	c := NewVGMContainer(44100, TargetYM2608)
	if !c.Empty() {
		t.Error("fresh container should be empty")
	}

	c.RecordRegisterChange(0x28, 0)
	if c.Empty() {
		t.Error("container with a command should not be empty")
	}

	// A trailing unflushed wait counts as incomplete.
	recordWait(c, 100)
	if !c.Empty() {
		t.Error("container with a pending wait should be empty")
	}

	c.Clear()
	if !c.Empty() || len(c.buf) != 0 {
		t.Error("cleared container should be empty")
	}
}

func TestVGMSetDataBlock(t *testing.T) {
	c := NewVGMContainer(44100, TargetYM2608)
	c.RecordRegisterChange(0x28, 0xf0)
	c.SetLoopPoint()
	c.RecordRegisterChange(0x28, 0x00)

	loopBefore := c.loopPoint
	sample := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	c.SetDataBlock(sample)

	data := c.Data()
	want := []byte{0x67, 0x66, 0x81, 16, 0, 0, 0, 8, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(data[:15], want) {
		t.Errorf("block header = % x, want % x", data[:15], want)
	}
	if !bytes.Equal(data[15:23], sample) {
		t.Errorf("block payload = % x, want % x", data[15:23], sample)
	}
	if c.loopPoint != loopBefore+23 {
		t.Errorf("loop point = %d, want %d", c.loopPoint, loopBefore+23)
	}
}

func TestWriteVGM(t *testing.T) {
	c := NewVGMContainer(44100, TargetYM2608)
	c.RecordRegisterChange(0x28, 0xf0)
	recordWait(c, 441)
	c.RecordRegisterChange(0x28, 0x00)

	var buf bytes.Buffer
	if err := WriteVGM(&buf, c, false); err != nil {
		t.Fatal(err)
	}
	out := buf.Bytes()

	if string(out[:4]) != "Vgm " {
		t.Errorf("magic = %q", out[:4])
	}
	if got := binary.LittleEndian.Uint32(out[0x08:]); got != 0x171 {
		t.Errorf("version = %#x, want 0x171", got)
	}
	if got := binary.LittleEndian.Uint32(out[0x04:]); got != uint32(len(out)-4) {
		t.Errorf("eof offset = %d, want %d", got, len(out)-4)
	}
	if got := binary.LittleEndian.Uint32(out[0x18:]); got != 441 {
		t.Errorf("total samples = %d, want 441", got)
	}
	if got := binary.LittleEndian.Uint32(out[0x34:]); got != 0x100-0x34 {
		t.Errorf("data offset = %#x, want %#x", got, 0x100-0x34)
	}
	if got := binary.LittleEndian.Uint32(out[0x48:]); got != opna.MasterClock {
		t.Errorf("YM2608 clock = %d, want %d", got, opna.MasterClock)
	}
	if out[len(out)-1] != 0x66 {
		t.Errorf("trailer = %#x, want 0x66", out[len(out)-1])
	}
}
