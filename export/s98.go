package export

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Zeinok/BambooTracker/opna"
)

// S98Container logs register writes as S98 v3 device commands. The sync
// unit is one sample at the mixing rate, so waits are frame counts.
type S98Container struct {
	rate int

	buf      []byte
	lastWait uint32

	loopPoint int
	isSetLoop bool
}

func NewS98Container(rate int) *S98Container {
	return &S98Container{rate: rate}
}

func (c *S98Container) RecordRegisterChange(addr uint32, value uint8) {
	c.flushWait()

	// Device 0, port A (0x00) or port B (0x01).
	if addr < 0x100 {
		c.buf = append(c.buf, 0x00, uint8(addr), value)
	} else {
		c.buf = append(c.buf, 0x01, uint8(addr), value)
	}
}

func (c *S98Container) RecordStream(samples []int16) {
	c.lastWait += uint32(len(samples) / 2)
}

func (c *S98Container) Clear() {
	c.buf = nil
	c.lastWait = 0
	c.loopPoint = 0
	c.isSetLoop = false
}

func (c *S98Container) Empty() bool {
	return len(c.buf) == 0 || c.lastWait != 0
}

// SetLoopPoint pins the loop to the current position.
func (c *S98Container) SetLoopPoint() {
	c.flushWait()
	c.loopPoint = len(c.buf)
	c.isSetLoop = true
}

// flushWait emits SYNC commands. 0xff is one sync; 0xfe carries n-2 as a
// 7-bit little endian variable length count.
func (c *S98Container) flushWait() {
	w := c.lastWait
	c.lastWait = 0
	if w == 0 {
		return
	}
	if w == 1 {
		c.buf = append(c.buf, 0xff)
	} else {
		c.buf = append(c.buf, 0xfe)
		n := w - 2
		for {
			b := uint8(n & 0x7f)
			n >>= 7
			if n == 0 {
				c.buf = append(c.buf, b)
				break
			}
			c.buf = append(c.buf, b|0x80)
		}
	}
	if !c.isSetLoop {
		c.loopPoint = len(c.buf)
	}
}

// Data returns the encoded command stream, flushing any pending wait.
func (c *S98Container) Data() []byte {
	c.flushWait()
	return c.buf
}

const (
	s98HeaderSize = 0x20
	s98DeviceSize = 0x10
	s98DeviceOPNA = 4
)

// WriteS98 writes an S98 version 3 file with a single OPNA device entry.
func WriteS98(w io.Writer, c *S98Container, loop bool) error {
	data := c.Data()
	dumpOffset := uint32(s98HeaderSize + s98DeviceSize)

	header := make([]byte, s98HeaderSize+s98DeviceSize)
	copy(header, "S983")
	binary.LittleEndian.PutUint32(header[0x04:], 1)              // timer numerator
	binary.LittleEndian.PutUint32(header[0x08:], uint32(c.rate)) // timer denominator
	binary.LittleEndian.PutUint32(header[0x14:], dumpOffset)
	if loop && c.loopPoint < len(data) {
		binary.LittleEndian.PutUint32(header[0x18:], dumpOffset+uint32(c.loopPoint))
	}
	binary.LittleEndian.PutUint32(header[0x1c:], 1) // device count

	binary.LittleEndian.PutUint32(header[0x20:], s98DeviceOPNA)
	binary.LittleEndian.PutUint32(header[0x24:], opna.MasterClock)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("s98 header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("s98 data: %w", err)
	}
	if _, err := w.Write([]byte{0xfd}); err != nil {
		return fmt.Errorf("s98 end: %w", err)
	}
	return nil
}
