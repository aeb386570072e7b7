package machine

import (
	"fmt"
	"io"
	"math/rand/v2"
	"sync/atomic"
)

// Display is a snapshot of the 64x32 display buffer, indexed as [y][x].
// Every pixel is either 0 or 1.
type Display [Height][Width]uint8

// Dependencies contains the collaborators of a Machine. Nil fields are
// replaced by defaults.
type Dependencies struct {
	// Random returns a random byte for the Cxkk instruction.
	Random func() uint8
	// Tone is called when the sound timer expires.
	Tone func()
	// Trace is called with the address and opcode of every executed instruction.
	Trace func(pc, opcode uint16)
}

// Machine is the CHIP-8 interpreter state.
type Machine struct {
	memory [MemorySize]uint8
	v      [registerCount]uint8
	i      uint16
	pc     uint16

	stack [stackDepth]uint16
	sp    uint8 // number of used stack entries

	delayTimer uint8
	soundTimer uint8

	key atomic.Uint32 // written by the input side, read by Step

	display Display
	redraw  bool

	random func() uint8
	tone   func()
	trace  func(pc, opcode uint16)
}

// New returns a new machine in power-on state.
func New(deps Dependencies) *Machine {
	m := &Machine{
		random: deps.Random,
		tone:   deps.Tone,
		trace:  deps.Trace,
	}
	if m.random == nil {
		m.random = func() uint8 {
			return uint8(rand.Uint32())
		}
	}
	if m.tone == nil {
		m.tone = func() {}
	}
	m.Reset()
	return m
}

// Reset puts the machine into power-on state. All of memory is cleared before
// the font set is copied to its start, so a previously loaded program does
// not survive a reset.
func (m *Machine) Reset() {
	m.memory = [MemorySize]uint8{}
	copy(m.memory[:], fontSet[:])

	m.v = [registerCount]uint8{}
	m.i = 0
	m.pc = ProgramStart
	m.stack = [stackDepth]uint16{}
	m.sp = 0
	m.delayTimer = 0
	m.soundTimer = 0
	m.key.Store(uint32(NoKey))

	m.display = Display{}
	m.redraw = true
}

// Load copies the program into memory starting at ProgramStart.
// Nothing is written if the program does not fit.
func (m *Machine) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return &LoadError{
			Size: len(program),
			Err:  fmt.Errorf("%w: maximum is %d bytes", ErrProgramTooLarge, MaxProgramSize),
		}
	}
	copy(m.memory[ProgramStart:], program)
	return nil
}

// LoadFrom reads the complete program from the reader and loads it.
func (m *Machine) LoadFrom(r io.Reader) error {
	// read one byte more than fits to detect oversized programs
	data, err := io.ReadAll(io.LimitReader(r, MaxProgramSize+1))
	if err != nil {
		return &LoadError{
			Size: len(data),
			Err:  fmt.Errorf("%w: %w", ErrTruncatedRead, err),
		}
	}
	return m.Load(data)
}

// Step executes a single fetch-decode-execute cycle.
func (m *Machine) Step() error {
	m.updateTimers()

	opcode, err := m.Opcode()
	if err != nil {
		return err
	}
	if m.trace != nil {
		m.trace(m.pc, opcode)
	}
	m.pc += opcodeSize

	ins := Decode(opcode)
	return handlers[ins.Op](m, ins)
}

// Opcode returns the instruction word at the program counter without
// executing it.
func (m *Machine) Opcode() (uint16, error) {
	address := int(m.pc)
	if err := checkRange(address, opcodeSize); err != nil {
		return 0, err
	}
	return uint16(m.memory[address])<<8 | uint16(m.memory[address+1]), nil
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// I returns the index register.
func (m *Machine) I() uint16 {
	return m.i
}

// V returns the value of register Vx, x is masked to 0-F.
func (m *Machine) V(x int) uint8 {
	return m.v[x&0xF]
}

// SP returns the number of return addresses on the call stack.
func (m *Machine) SP() uint8 {
	return m.sp
}

// DelayTimer returns the current delay timer value.
func (m *Machine) DelayTimer() uint8 {
	return m.delayTimer
}

// SoundTimer returns the current sound timer value.
func (m *Machine) SoundTimer() uint8 {
	return m.soundTimer
}

// Display returns a copy of the display buffer.
func (m *Machine) Display() Display {
	return m.display
}

// Pixel returns the pixel at the given position, coordinates wrap around.
func (m *Machine) Pixel(x, y int) uint8 {
	return m.display[y&(Height-1)][x&(Width-1)]
}

// Redraw returns whether the display changed since the last call.
func (m *Machine) Redraw() bool {
	redraw := m.redraw
	m.redraw = false
	return redraw
}

// ReadMemory returns the byte at the given address.
func (m *Machine) ReadMemory(address uint16) (uint8, error) {
	return m.read(int(address))
}
