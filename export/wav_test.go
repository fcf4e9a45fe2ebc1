package export

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWriteWAV(t *testing.T) {
	c := NewWAVContainer(44100)
	if !c.Empty() {
		t.Error("fresh container should be empty")
	}

	samples := []int16{100, -100, 32767, -32768}
	c.RecordStream(samples)
	if c.Empty() {
		t.Error("container with samples should not be empty")
	}

	var buf bytes.Buffer
	if err := WriteWAV(&buf, c); err != nil {
		t.Fatal(err)
	}
	out := buf.Bytes()

	if len(out) != 44+len(samples)*2 {
		t.Fatalf("file length = %d, want %d", len(out), 44+len(samples)*2)
	}
	if string(out[:4]) != "RIFF" || string(out[8:12]) != "WAVE" {
		t.Errorf("container magic = %q %q", out[:4], out[8:12])
	}
	if got := binary.LittleEndian.Uint32(out[4:]); got != uint32(36+len(samples)*2) {
		t.Errorf("riff size = %d, want %d", got, 36+len(samples)*2)
	}
	if got := binary.LittleEndian.Uint16(out[20:]); got != 1 {
		t.Errorf("format = %d, want 1 (PCM)", got)
	}
	if got := binary.LittleEndian.Uint16(out[22:]); got != 2 {
		t.Errorf("channels = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint32(out[24:]); got != 44100 {
		t.Errorf("sample rate = %d, want 44100", got)
	}
	if got := binary.LittleEndian.Uint32(out[28:]); got != 44100*4 {
		t.Errorf("byte rate = %d, want %d", got, 44100*4)
	}
	if got := binary.LittleEndian.Uint16(out[34:]); got != 16 {
		t.Errorf("bits per sample = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint32(out[40:]); got != uint32(len(samples)*2) {
		t.Errorf("data size = %d, want %d", got, len(samples)*2)
	}

	for i, s := range samples {
		if got := int16(binary.LittleEndian.Uint16(out[44+i*2:])); got != s {
			t.Errorf("sample %d = %d, want %d", i, got, s)
		}
	}
}
