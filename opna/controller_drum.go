package opna

// The rhythm section's key on/off writes are deferred: flags accumulate
// during a tick and UpdateRegisterStates flushes them in one register
// write each, matching how hardware expects simultaneous drum hits.

// SetKeyOnFlagDrum latches a drum hit for the end-of-tick flush.
func (c *OPNAController) SetKeyOnFlagDrum(ch int) {
	if c.isMuteDrum[ch] {
		return
	}

	if c.tmpVolDrum[ch] != -1 {
		c.SetVolumeDrum(ch, c.volDrum[ch])
	}

	c.keyOnFlagDrum |= 1 << ch
}

// SetKeyOffFlagDrum latches a drum cut for the end-of-tick flush.
func (c *OPNAController) SetKeyOffFlagDrum(ch int) {
	c.keyOffFlagDrum |= 1 << ch
}

// SetVolumeDrum sets a channel's 5-bit instrument level.
func (c *OPNAController) SetVolumeDrum(ch, volume int) {
	if volume > 0x1f {
		return
	}
	c.volDrum[ch] = volume
	c.tmpVolDrum[ch] = -1
	c.chip.SetRegister(0x18+uint32(ch), c.panDrum[ch]<<6|uint8(volume))
}

// SetTemporaryVolumeDrum sets a one-hit volume override.
func (c *OPNAController) SetTemporaryVolumeDrum(ch, volume int) {
	if volume > 0x1f {
		return
	}
	c.tmpVolDrum[ch] = volume
	c.chip.SetRegister(0x18+uint32(ch), c.panDrum[ch]<<6|uint8(volume))
}

// SetMasterVolumeDrum sets the rhythm section's shared 6-bit level.
func (c *OPNAController) SetMasterVolumeDrum(volume int) {
	c.mVolDrum = volume
	c.chip.SetRegister(0x11, uint8(volume))
}

// SetPanDrum sets a channel's pan bits, rewriting them with the current
// level.
func (c *OPNAController) SetPanDrum(ch, value int) {
	c.panDrum[ch] = uint8(value)
	vol := c.volDrum[ch]
	if c.tmpVolDrum[ch] != -1 {
		vol = c.tmpVolDrum[ch]
	}
	c.chip.SetRegister(0x18+uint32(ch), uint8(value)<<6|uint8(vol))
}

func (c *OPNAController) initDrum() {
	c.keyOnFlagDrum = 0
	c.keyOffFlagDrum = 0

	c.mVolDrum = 0x3f
	c.chip.SetRegister(0x11, 0x3f) // Rhythm total level

	for ch := 0; ch < drumChannelCount; ch++ {
		c.volDrum[ch] = 0x1f
		c.tmpVolDrum[ch] = -1

		c.panDrum[ch] = 3
		c.chip.SetRegister(0x18+uint32(ch), 0xdf)
	}
}

func (c *OPNAController) setMuteDrumState(ch int, mute bool) {
	c.isMuteDrum[ch] = mute

	if mute {
		c.SetKeyOffFlagDrum(ch)
		c.updateKeyOnOffStatusDrum()
	}
}

// updateKeyOnOffStatusDrum flushes the latched drum flags. Key off carries
// the dump bit.
func (c *OPNAController) updateKeyOnOffStatusDrum() {
	if c.keyOnFlagDrum != 0 {
		c.chip.SetRegister(0x10, c.keyOnFlagDrum)
		c.keyOnFlagDrum = 0
	}
	if c.keyOffFlagDrum != 0 {
		c.chip.SetRegister(0x10, 0x80|c.keyOffFlagDrum)
		c.keyOffFlagDrum = 0
	}
}
