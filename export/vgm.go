// Package export captures the chip's register write stream and mixed
// output into playback log formats (VGM, S98) and plain audio (WAV).
package export

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Zeinok/BambooTracker/opna"
)

// ChipTarget selects which chip the exported log claims to drive. Targets
// without a rhythm or ADPCM section get those writes filtered out.
type ChipTarget int

const (
	TargetYM2608 ChipTarget = iota
	TargetYM2612
	TargetYM2203
)

// vgmSampleRate is the wait time base mandated by the format.
const vgmSampleRate = 44100

// VGMContainer logs register writes as VGM commands. Stream blocks only
// advance the wait clock; the pending wait is encoded right before the
// next register command.
type VGMContainer struct {
	rate   int
	target ChipTarget

	cmdSsg     uint8
	cmdFmPortA uint8
	cmdFmPortB uint8

	buf       []byte
	lastWait  uint32 // frames at the mixing rate
	waitCarry uint64

	loopPoint int
	isSetLoop bool
	totalSmpl uint64
	loopSmpl  uint64
}

// NewVGMContainer creates a container for a stream mixed at the given
// sample rate.
func NewVGMContainer(rate int, target ChipTarget) *VGMContainer {
	c := &VGMContainer{rate: rate, target: target}
	switch target {
	case TargetYM2612:
		c.cmdSsg = 0xa0 // external AY-3-8910
		c.cmdFmPortA = 0x52
		c.cmdFmPortB = 0x53
	case TargetYM2203:
		c.cmdSsg = 0x55
		c.cmdFmPortA = 0x55
		c.cmdFmPortB = 0x55
	default:
		c.cmdSsg = 0x56
		c.cmdFmPortA = 0x56
		c.cmdFmPortB = 0x57
	}
	return c
}

func (c *VGMContainer) RecordRegisterChange(addr uint32, value uint8) {
	c.flushWait()

	if addr < 0x100 {
		switch {
		case addr < 0x10: // SSG
			c.buf = append(c.buf, c.cmdSsg, uint8(addr), value)
		case addr < 0x20: // Rhythm
			if c.target != TargetYM2608 {
				return
			}
			c.buf = append(c.buf, c.cmdFmPortA, uint8(addr), value)
		case addr == 0x29: // YM2608 mode register
			if c.target != TargetYM2608 {
				return
			}
			c.buf = append(c.buf, c.cmdFmPortA, uint8(addr), value)
		default:
			c.buf = append(c.buf, c.cmdFmPortA, uint8(addr), value)
		}
		return
	}

	// Bank 1 is the ADPCM section.
	if c.target != TargetYM2608 {
		return
	}
	c.buf = append(c.buf, c.cmdFmPortB, uint8(addr), value)
}

func (c *VGMContainer) RecordStream(samples []int16) {
	c.lastWait += uint32(len(samples) / 2)
}

func (c *VGMContainer) Clear() {
	c.buf = nil
	c.lastWait = 0
	c.waitCarry = 0
	c.loopPoint = 0
	c.isSetLoop = false
	c.totalSmpl = 0
	c.loopSmpl = 0
}

// Empty reports whether nothing complete has been captured: no commands,
// or a trailing wait still pending.
func (c *VGMContainer) Empty() bool {
	return len(c.buf) == 0 || c.lastWait != 0
}

// SetLoopPoint pins the loop to the current position. Without it the loop
// floats to the latest wait so a forced loop always lands on a boundary.
func (c *VGMContainer) SetLoopPoint() {
	c.flushWait()
	c.loopPoint = len(c.buf)
	c.loopSmpl = c.totalSmpl
	c.isSetLoop = true
}

// SetDataBlock prepends an ADPCM memory image as a data block so players
// can preload the sample RAM.
func (c *VGMContainer) SetDataBlock(data []byte) {
	block := make([]byte, 0, len(data)+15)
	block = append(block, 0x67, 0x66, 0x81)
	block = binary.LittleEndian.AppendUint32(block, uint32(len(data)+8))
	block = binary.LittleEndian.AppendUint32(block, uint32(len(data)))
	block = append(block, 0, 0, 0, 0) // start address
	block = append(block, data...)
	c.buf = append(block, c.buf...)
	if c.isSetLoop {
		c.loopPoint += len(block)
	}
}

// flushWait encodes the pending wait, converted to the format's 44.1 kHz
// time base. 0x62/0x63 are the one-frame shorthands (60 and 50 Hz), 0x7n
// waits n+1 samples, 0x61 carries a 16-bit count.
func (c *VGMContainer) flushWait() {
	if c.lastWait == 0 {
		return
	}
	total := uint64(c.lastWait)*vgmSampleRate + c.waitCarry
	w := uint32(total / uint64(c.rate))
	c.waitCarry = total % uint64(c.rate)
	c.totalSmpl += uint64(w)
	c.lastWait = 0

	for w > 65535 {
		sub := uint32(65535)
		// Keep the remainder out of the unencodable 0 gap after a max
		// chunk would leave less than one short wait.
		if rem := w - 65535; rem > 0 && rem <= 16 {
			sub = 65535 - 16
		}
		c.buf = append(c.buf, 0x61, uint8(sub), uint8(sub>>8))
		w -= sub
	}

	switch {
	case w == 0:
	case w <= 16:
		c.buf = append(c.buf, 0x70|uint8(w-1))
	case w == 735:
		c.buf = append(c.buf, 0x62)
	case 735 < w && w <= 751:
		c.buf = append(c.buf, 0x62, 0x70|uint8(w-736))
	case w == 882:
		c.buf = append(c.buf, 0x63)
	case 882 < w && w <= 898:
		c.buf = append(c.buf, 0x63, 0x70|uint8(w-883))
	case w == 1470:
		c.buf = append(c.buf, 0x62, 0x62)
	case 1470 < w && w <= 1486:
		c.buf = append(c.buf, 0x62, 0x62, 0x70|uint8(w-1471))
	case w == 1764:
		c.buf = append(c.buf, 0x63, 0x63)
	case 1764 < w && w <= 1780:
		c.buf = append(c.buf, 0x63, 0x63, 0x70|uint8(w-1765))
	case w == 2205:
		c.buf = append(c.buf, 0x62, 0x62, 0x62)
	case w == 2646:
		c.buf = append(c.buf, 0x63, 0x63, 0x63)
	default:
		c.buf = append(c.buf, 0x61, uint8(w), uint8(w>>8))
	}

	if !c.isSetLoop {
		c.loopPoint = len(c.buf)
		c.loopSmpl = c.totalSmpl
	}
}

// Data returns the encoded command stream, flushing any pending wait.
func (c *VGMContainer) Data() []byte {
	c.flushWait()
	return c.buf
}

const vgmHeaderSize = 0x100

// WriteVGM writes a version 1.71 VGM file. With loop enabled the loop
// point recorded in the container is used.
func WriteVGM(w io.Writer, c *VGMContainer, loop bool) error {
	data := c.Data()

	header := make([]byte, vgmHeaderSize)
	copy(header, "Vgm ")
	total := vgmHeaderSize + len(data) + 1 // trailing end-of-data command
	binary.LittleEndian.PutUint32(header[0x04:], uint32(total-4))
	binary.LittleEndian.PutUint32(header[0x08:], 0x00000171)
	binary.LittleEndian.PutUint32(header[0x18:], uint32(c.totalSmpl))
	if loop && c.loopPoint < len(data) {
		binary.LittleEndian.PutUint32(header[0x1c:], uint32(vgmHeaderSize+c.loopPoint-0x1c))
		binary.LittleEndian.PutUint32(header[0x20:], uint32(c.totalSmpl-c.loopSmpl))
	}
	binary.LittleEndian.PutUint32(header[0x34:], vgmHeaderSize-0x34)

	switch c.target {
	case TargetYM2612:
		binary.LittleEndian.PutUint32(header[0x2c:], opna.MasterClock)
		binary.LittleEndian.PutUint32(header[0x74:], opna.MasterClock/4) // AY-3-8910
	case TargetYM2203:
		binary.LittleEndian.PutUint32(header[0x44:], opna.MasterClock/2)
	default:
		binary.LittleEndian.PutUint32(header[0x48:], opna.MasterClock)
	}

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("vgm header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("vgm data: %w", err)
	}
	if _, err := w.Write([]byte{0x66}); err != nil {
		return fmt.Errorf("vgm end: %w", err)
	}
	return nil
}
