package export

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WAVContainer accumulates the mixed stereo stream. Register writes are
// irrelevant to plain audio and ignored.
type WAVContainer struct {
	rate    int
	samples []int16
}

func NewWAVContainer(rate int) *WAVContainer {
	return &WAVContainer{rate: rate}
}

func (c *WAVContainer) RecordRegisterChange(addr uint32, value uint8) {}

func (c *WAVContainer) RecordStream(samples []int16) {
	c.samples = append(c.samples, samples...)
}

func (c *WAVContainer) Clear()      { c.samples = nil }
func (c *WAVContainer) Empty() bool { return len(c.samples) == 0 }

// WriteWAV writes the captured stream as 16-bit stereo PCM.
func WriteWAV(w io.Writer, c *WAVContainer) error {
	const (
		channels      = 2
		bitsPerSample = 16
	)
	dataSize := len(c.samples) * 2
	blockAlign := channels * bitsPerSample / 8

	header := make([]byte, 44)
	copy(header, "RIFF")
	binary.LittleEndian.PutUint32(header[4:], uint32(36+dataSize))
	copy(header[8:], "WAVE")
	copy(header[12:], "fmt ")
	binary.LittleEndian.PutUint32(header[16:], 16)
	binary.LittleEndian.PutUint16(header[20:], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:], channels)
	binary.LittleEndian.PutUint32(header[24:], uint32(c.rate))
	binary.LittleEndian.PutUint32(header[28:], uint32(c.rate*blockAlign))
	binary.LittleEndian.PutUint16(header[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:], bitsPerSample)
	copy(header[36:], "data")
	binary.LittleEndian.PutUint32(header[40:], uint32(dataSize))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("wav header: %w", err)
	}

	body := make([]byte, dataSize)
	for i, s := range c.samples {
		binary.LittleEndian.PutUint16(body[i*2:], uint16(s))
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("wav data: %w", err)
	}
	return nil
}
