package machine

// updateTimers decrements both timers once, the tone is signaled when the
// sound timer expires.
func (m *Machine) updateTimers() {
	if m.delayTimer > 0 {
		m.delayTimer--
	}
	if m.soundTimer > 0 {
		if m.soundTimer == 1 {
			m.tone()
		}
		m.soundTimer--
	}
}

// SetKey latches the pressed hex key 0x0-0xF. It is safe to call
// concurrently with Step.
func (m *Machine) SetKey(key uint8) {
	m.key.Store(uint32(key & 0xF))
}

// ReleaseKey resets the key latch to NoKey.
func (m *Machine) ReleaseKey() {
	m.key.Store(uint32(NoKey))
}

// Key returns the latched key or NoKey.
func (m *Machine) Key() uint8 {
	return uint8(m.key.Load())
}
