package opna

// ExportSink receives every chip register write and every mixed sample
// block, in order. Implementations log them into a capture format.
type ExportSink interface {
	RecordRegisterChange(addr uint32, value uint8)
	// RecordStream is given interleaved stereo samples.
	RecordStream(samples []int16)
	Clear()
	// Empty reports whether nothing complete has been captured yet.
	Empty() bool
}

// DRAMSize is the ADPCM sample memory size in bytes (256 KiB board).
const DRAMSize = 262144

// ssgVolumeTable maps the 4-bit SSG level to a 16-bit amplitude, 3 dB per
// step like the hardware DAC.
var ssgVolumeTable = func() [16]int32 {
	var t [16]int32
	v := 8000.0
	for i := 15; i > 0; i-- {
		t[i] = int32(v)
		v /= 1.4125 // 10^(3/20)
	}
	return t
}()

type ssgTone struct {
	phase uint32 // 16.16 fixed point cycle fraction
	level int16
}

// Registers is a software image of the OPNA register file. It records every
// write into banked storage, forwards writes to an installed ExportSink,
// services the ADPCM DRAM write port, and synthesizes a rough SSG tone
// preview so the register stream is audible without a full chip core.
type Registers struct {
	regs [0x200]uint8
	rate int

	masterVolume int // percentage

	sink ExportSink

	dram        []byte
	dramWriting bool
	dramPtr     uint32
	dramLimit   uint32

	tones [3]ssgTone
}

// NewRegisters creates a register image mixing at the given sample rate.
func NewRegisters(rate int) *Registers {
	return &Registers{
		rate:         rate,
		masterVolume: 100,
		dram:         make([]byte, DRAMSize),
		dramLimit:    DRAMSize - 1,
	}
}

func (r *Registers) Rate() int        { return r.rate }
func (r *Registers) SetRate(rate int) { r.rate = rate }

// SetMasterVolume scales the mixed output, 100 = unity.
func (r *Registers) SetMasterVolume(percentage int) { r.masterVolume = percentage }

// SetExportSink installs the capture sink. A nil sink detaches it.
func (r *Registers) SetExportSink(sink ExportSink) { r.sink = sink }

// Register returns the last value written to an address.
func (r *Registers) Register(addr uint32) uint8 { return r.regs[addr&0x1ff] }

// SetRegister stores a write and forwards it to the sink. Writes to the
// ADPCM data port while the chip is in memory-write mode land in DRAM
// instead of the register file.
func (r *Registers) SetRegister(addr uint32, data uint8) {
	addr &= 0x1ff

	if r.sink != nil {
		r.sink.RecordRegisterChange(addr, data)
	}

	switch addr {
	case 0x100:
		// Control 1: bit6 = memory access, bit5 = write.
		r.dramWriting = data&0x60 == 0x60
	case 0x102:
		r.dramPtr = (r.dramPtr &^ (0xff << 5)) | uint32(data)<<5
	case 0x103:
		r.dramPtr = (r.dramPtr &^ (0xff << 13)) | uint32(data)<<13
	case 0x10c:
		r.dramLimit = (r.dramLimit &^ (0xff << 5)) | uint32(data)<<5 | 0x1f
	case 0x10d:
		r.dramLimit = (r.dramLimit &^ (0xff << 13)) | uint32(data)<<13 | 0x1f
	case 0x108:
		if r.dramWriting {
			if r.dramPtr < uint32(len(r.dram)) && r.dramPtr <= r.dramLimit {
				r.dram[r.dramPtr] = data
				r.dramPtr++
			}
			return
		}
	}

	r.regs[addr] = data
}

// DRAM exposes the sample memory for tests and sample export.
func (r *Registers) DRAM() []byte { return r.dram }

// Mix renders interleaved stereo samples for the current register state.
// Only the SSG tone channels are synthesized; the FM, rhythm and ADPCM
// sections are register-image only.
func (r *Registers) Mix(buf []int16) {
	mixer := r.regs[0x07]
	for i := 0; i < len(buf); i += 2 {
		var sum int32
		for ch := 0; ch < 3; ch++ {
			if mixer&(1<<ch) != 0 { // tone masked
				continue
			}
			tp := uint32(r.regs[0x00+2*ch]) | uint32(r.regs[0x01+2*ch]&0x0f)<<8
			if tp == 0 {
				continue
			}
			vreg := r.regs[0x08+ch]
			level := vreg & 0x0f
			if vreg&0x10 != 0 {
				level = 15 // hard envelope: show full scale
			}
			t := &r.tones[ch]
			// One square cycle is 32*TP master clock ticks.
			step := uint32(uint64(ssgClock) << 16 / (uint64(32*tp) * uint64(r.rate)))
			t.phase += step
			if t.phase&(1<<15) == 0 {
				sum += ssgVolumeTable[level]
			} else {
				sum -= ssgVolumeTable[level]
			}
		}
		sum = sum * int32(r.masterVolume) / 100
		if sum > 32767 {
			sum = 32767
		} else if sum < -32768 {
			sum = -32768
		}
		buf[i] = int16(sum)
		buf[i+1] = int16(sum)
	}

	if r.sink != nil {
		r.sink.RecordStream(buf)
	}
}
