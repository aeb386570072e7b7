package machine

type handler func(m *Machine, ins Instruction) error

// handlers maps every instruction pattern to its implementation, the array
// size forces an entry for every Op.
var handlers = [opCount]handler{
	OpUnknown:          (*Machine).nop,
	OpClearScreen:      (*Machine).clearScreen,
	OpReturn:           (*Machine).ret,
	OpJump:             (*Machine).jump,
	OpCall:             (*Machine).call,
	OpSkipEqualByte:    (*Machine).skipEqualByte,
	OpSkipNotEqualByte: (*Machine).skipNotEqualByte,
	OpSkipEqualReg:     (*Machine).skipEqualReg,
	OpLoadByte:         (*Machine).loadByte,
	OpAddByte:          (*Machine).addByte,
	OpLoadReg:          (*Machine).loadReg,
	OpOr:               (*Machine).or,
	OpAnd:              (*Machine).and,
	OpXor:              (*Machine).xor,
	OpAddReg:           (*Machine).addReg,
	OpSub:              (*Machine).sub,
	OpShiftRight:       (*Machine).shiftRight,
	OpSubN:             (*Machine).subN,
	OpShiftLeft:        (*Machine).shiftLeft,
	OpSkipNotEqualReg:  (*Machine).skipNotEqualReg,
	OpLoadIndex:        (*Machine).loadIndex,
	OpJumpOffset:       (*Machine).jumpOffset,
	OpRandom:           (*Machine).rnd,
	OpDraw:             (*Machine).draw,
	OpSkipKey:          (*Machine).skipKey,
	OpSkipNotKey:       (*Machine).skipNotKey,
	OpLoadDelay:        (*Machine).loadDelay,
	OpWaitKey:          (*Machine).waitKey,
	OpSetDelay:         (*Machine).setDelay,
	OpSetSound:         (*Machine).setSound,
	OpAddIndex:         (*Machine).addIndex,
	OpLoadGlyph:        (*Machine).loadGlyph,
	OpStoreBCD:         (*Machine).storeBCD,
	OpStoreRegs:        (*Machine).storeRegs,
	OpLoadRegs:         (*Machine).loadRegs,
}

func (m *Machine) skipIf(condition bool) {
	if condition {
		m.pc += opcodeSize
	}
}

// nop is executed for unknown opcodes.
func (m *Machine) nop(_ Instruction) error {
	return nil
}

func (m *Machine) clearScreen(_ Instruction) error {
	m.display = Display{}
	m.redraw = true
	return nil
}

func (m *Machine) ret(_ Instruction) error {
	if m.sp == 0 {
		return ErrStackUnderflow
	}
	m.sp--
	m.pc = m.stack[m.sp]
	return nil
}

func (m *Machine) jump(ins Instruction) error {
	m.pc = ins.NNN
	return nil
}

func (m *Machine) call(ins Instruction) error {
	if int(m.sp) == stackDepth {
		return ErrStackOverflow
	}
	m.stack[m.sp] = m.pc
	m.sp++
	m.pc = ins.NNN
	return nil
}

func (m *Machine) skipEqualByte(ins Instruction) error {
	m.skipIf(m.v[ins.X] == ins.KK)
	return nil
}

func (m *Machine) skipNotEqualByte(ins Instruction) error {
	m.skipIf(m.v[ins.X] != ins.KK)
	return nil
}

func (m *Machine) skipEqualReg(ins Instruction) error {
	m.skipIf(m.v[ins.X] == m.v[ins.Y])
	return nil
}

func (m *Machine) skipNotEqualReg(ins Instruction) error {
	m.skipIf(m.v[ins.X] != m.v[ins.Y])
	return nil
}

func (m *Machine) loadByte(ins Instruction) error {
	m.v[ins.X] = ins.KK
	return nil
}

// addByte does not touch the carry flag.
func (m *Machine) addByte(ins Instruction) error {
	m.v[ins.X] += ins.KK
	return nil
}

func (m *Machine) loadReg(ins Instruction) error {
	m.v[ins.X] = m.v[ins.Y]
	return nil
}

func (m *Machine) or(ins Instruction) error {
	m.v[ins.X] |= m.v[ins.Y]
	return nil
}

func (m *Machine) and(ins Instruction) error {
	m.v[ins.X] &= m.v[ins.Y]
	return nil
}

func (m *Machine) xor(ins Instruction) error {
	m.v[ins.X] ^= m.v[ins.Y]
	return nil
}

// The flag register is written before the result, a result targeting VF
// overwrites the flag.

func (m *Machine) addReg(ins Instruction) error {
	sum := uint16(m.v[ins.X]) + uint16(m.v[ins.Y])
	m.v[flagRegister] = boolToFlag(sum > 0xFF)
	m.v[ins.X] = uint8(sum)
	return nil
}

func (m *Machine) sub(ins Instruction) error {
	x, y := m.v[ins.X], m.v[ins.Y]
	m.v[flagRegister] = boolToFlag(x >= y)
	m.v[ins.X] = x - y
	return nil
}

func (m *Machine) subN(ins Instruction) error {
	x, y := m.v[ins.X], m.v[ins.Y]
	m.v[flagRegister] = boolToFlag(y >= x)
	m.v[ins.X] = y - x
	return nil
}

// shiftRight uses Vy as source, as the COSMAC VIP interpreter did.
func (m *Machine) shiftRight(ins Instruction) error {
	y := m.v[ins.Y]
	m.v[flagRegister] = y & 0x01
	m.v[ins.X] = y >> 1
	return nil
}

// shiftLeft uses Vy as source. The flag is the raw most significant bit
// value 0x80 and not normalized to 1.
func (m *Machine) shiftLeft(ins Instruction) error {
	y := m.v[ins.Y]
	m.v[flagRegister] = y & 0x80
	m.v[ins.X] = y << 1
	return nil
}

func (m *Machine) loadIndex(ins Instruction) error {
	m.i = ins.NNN
	return nil
}

func (m *Machine) jumpOffset(ins Instruction) error {
	m.pc = uint16(m.v[0]) + ins.NNN
	return nil
}

func (m *Machine) rnd(ins Instruction) error {
	m.v[ins.X] = m.random() & ins.KK
	return nil
}

func (m *Machine) skipKey(ins Instruction) error {
	m.skipIf(m.keyPressed(m.v[ins.X]))
	return nil
}

func (m *Machine) skipNotKey(ins Instruction) error {
	m.skipIf(!m.keyPressed(m.v[ins.X]))
	return nil
}

// keyPressed returns whether the hex key is latched. NoKey never matches a
// register value, not even 0xFF.
func (m *Machine) keyPressed(key uint8) bool {
	latched := m.Key()
	return latched != NoKey && latched == key
}

func (m *Machine) loadDelay(ins Instruction) error {
	m.v[ins.X] = m.delayTimer
	return nil
}

// waitKey repeats itself until a key is latched, the host loop keeps
// running in the meantime.
func (m *Machine) waitKey(ins Instruction) error {
	key := m.Key()
	if key == NoKey {
		m.pc -= opcodeSize
		return nil
	}
	m.v[ins.X] = key
	return nil
}

func (m *Machine) setDelay(ins Instruction) error {
	m.delayTimer = m.v[ins.X]
	return nil
}

func (m *Machine) setSound(ins Instruction) error {
	m.soundTimer = m.v[ins.X]
	return nil
}

// addIndex does not mask the result to 12 bits, following accesses through
// I fail with ErrMemoryFault instead.
func (m *Machine) addIndex(ins Instruction) error {
	m.i += uint16(m.v[ins.X])
	return nil
}

func (m *Machine) loadGlyph(ins Instruction) error {
	m.i = uint16(m.v[ins.X]) * glyphSize
	return nil
}

func (m *Machine) storeBCD(ins Instruction) error {
	buf, err := m.slice(int(m.i), 3)
	if err != nil {
		return err
	}
	value := m.v[ins.X]
	buf[0] = value / 100
	buf[1] = value / 10 % 10
	buf[2] = value % 10
	return nil
}

func (m *Machine) storeRegs(ins Instruction) error {
	count := int(ins.X) + 1
	buf, err := m.slice(int(m.i), count)
	if err != nil {
		return err
	}
	copy(buf, m.v[:count])
	m.i += uint16(count)
	return nil
}

func (m *Machine) loadRegs(ins Instruction) error {
	count := int(ins.X) + 1
	buf, err := m.slice(int(m.i), count)
	if err != nil {
		return err
	}
	copy(m.v[:count], buf)
	m.i += uint16(count)
	return nil
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
