package machine

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/retroenv/retrogolib/assert"
)

// newTestMachine returns a machine with the given instruction words loaded
// at the program start.
func newTestMachine(t *testing.T, opcodes ...uint16) *Machine {
	t.Helper()
	m := New(Dependencies{
		Random: func() uint8 { return 0xFF },
	})
	program := make([]byte, 0, len(opcodes)*opcodeSize)
	for _, op := range opcodes {
		program = append(program, byte(op>>8), byte(op))
	}
	assert.NoError(t, m.Load(program))
	return m
}

func step(t *testing.T, m *Machine, cycles int) {
	t.Helper()
	for range cycles {
		assert.NoError(t, m.Step())
	}
}

func TestNew(t *testing.T) {
	m := New(Dependencies{})

	assert.Equal(t, uint16(ProgramStart), m.PC())
	assert.Equal(t, uint16(0), m.I())
	assert.Equal(t, uint8(0), m.SP())
	assert.Equal(t, NoKey, m.Key())
	assert.True(t, m.Redraw())
	assert.False(t, m.Redraw())

	for address, value := range fontSet {
		b, err := m.ReadMemory(uint16(address))
		assert.NoError(t, err)
		assert.Equal(t, value, b)
	}
}

func TestReset(t *testing.T) {
	m := newTestMachine(t, 0x6A42, 0xA300, 0x2400)
	m.SetKey(0x5)
	step(t, m, 3)

	m.Reset()

	assert.Equal(t, uint16(ProgramStart), m.PC())
	assert.Equal(t, uint16(0), m.I())
	assert.Equal(t, uint8(0), m.SP())
	assert.Equal(t, uint8(0), m.V(0xA))
	assert.Equal(t, NoKey, m.Key())

	// memory outside the font is cleared
	b, err := m.ReadMemory(ProgramStart)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), b)
}

func TestLoad(t *testing.T) {
	t.Run("program fits", func(t *testing.T) {
		m := New(Dependencies{})
		assert.NoError(t, m.Load([]byte{0x12, 0x34}))

		opcode, err := m.Opcode()
		assert.NoError(t, err)
		assert.Equal(t, uint16(0x1234), opcode)
	})

	t.Run("maximum size", func(t *testing.T) {
		m := New(Dependencies{})
		program := make([]byte, MaxProgramSize)
		program[len(program)-1] = 0xAB
		assert.NoError(t, m.Load(program))

		b, err := m.ReadMemory(MaxAddress)
		assert.NoError(t, err)
		assert.Equal(t, uint8(0xAB), b)
	})

	t.Run("program too large", func(t *testing.T) {
		m := New(Dependencies{})
		program := bytes.Repeat([]byte{0xEE}, MaxProgramSize+1)

		err := m.Load(program)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrProgramTooLarge))

		var loadErr *LoadError
		assert.True(t, errors.As(err, &loadErr))
		assert.Equal(t, MaxProgramSize+1, loadErr.Size)

		// nothing was written
		b, err := m.ReadMemory(ProgramStart)
		assert.NoError(t, err)
		assert.Equal(t, uint8(0), b)
	})
}

func TestLoadFrom(t *testing.T) {
	t.Run("reader", func(t *testing.T) {
		m := New(Dependencies{})
		assert.NoError(t, m.LoadFrom(bytes.NewReader([]byte{0x00, 0xE0})))

		opcode, err := m.Opcode()
		assert.NoError(t, err)
		assert.Equal(t, uint16(0x00E0), opcode)
	})

	t.Run("truncated read", func(t *testing.T) {
		m := New(Dependencies{})
		r := io.MultiReader(
			bytes.NewReader([]byte{0x12, 0x34}),
			iotest.ErrReader(errors.New("device error")),
		)

		err := m.LoadFrom(r)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrTruncatedRead))

		b, err := m.ReadMemory(ProgramStart)
		assert.NoError(t, err)
		assert.Equal(t, uint8(0), b)
	})

	t.Run("oversized source", func(t *testing.T) {
		m := New(Dependencies{})
		err := m.LoadFrom(bytes.NewReader(make([]byte, 2*MaxProgramSize)))
		assert.True(t, errors.Is(err, ErrProgramTooLarge))
	})
}

func TestStepFetchAdvancesPC(t *testing.T) {
	var traced []uint16
	m := New(Dependencies{
		Trace: func(pc, opcode uint16) {
			traced = append(traced, pc, opcode)
		},
	})
	assert.NoError(t, m.Load([]byte{0x60, 0x01, 0x61, 0x02}))

	step(t, m, 2)
	assert.Equal(t, uint16(0x204), m.PC())
	assert.Len(t, traced, 4)
	assert.Equal(t, uint16(0x200), traced[0])
	assert.Equal(t, uint16(0x6001), traced[1])
	assert.Equal(t, uint16(0x202), traced[2])
	assert.Equal(t, uint16(0x6102), traced[3])
}

func TestStepMemoryFaultOnFetch(t *testing.T) {
	m := newTestMachine(t, 0x1FFF) // jp $FFF
	step(t, m, 1)

	err := m.Step()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrMemoryFault))
	assert.ErrorContains(t, err, "$1000")
}

func TestTimers(t *testing.T) {
	t.Run("delay timer decays once per cycle", func(t *testing.T) {
		// ld V0, 5; ld DT, V0; followed by jumps to self
		m := newTestMachine(t, 0x6005, 0xF015, 0x1204)
		step(t, m, 2)
		assert.Equal(t, uint8(5), m.DelayTimer())

		step(t, m, 5)
		assert.Equal(t, uint8(0), m.DelayTimer())

		step(t, m, 3)
		assert.Equal(t, uint8(0), m.DelayTimer())
	})

	t.Run("tone fires when the sound timer expires", func(t *testing.T) {
		var tones int
		m := New(Dependencies{Tone: func() { tones++ }})
		assert.NoError(t, m.Load([]byte{0x60, 0x02, 0xF0, 0x18, 0x12, 0x04}))

		step(t, m, 2)
		assert.Equal(t, uint8(2), m.SoundTimer())
		assert.Equal(t, 0, tones)

		step(t, m, 1)
		assert.Equal(t, uint8(1), m.SoundTimer())
		assert.Equal(t, 0, tones)

		step(t, m, 1)
		assert.Equal(t, uint8(0), m.SoundTimer())
		assert.Equal(t, 1, tones)

		step(t, m, 4)
		assert.Equal(t, 1, tones)
	})

	t.Run("load delay timer", func(t *testing.T) {
		// ld V0, $20; ld DT, V0; ld V1, DT
		m := newTestMachine(t, 0x6020, 0xF015, 0xF107)
		step(t, m, 3)
		// decremented once by the cycle reading it
		assert.Equal(t, uint8(0x1F), m.V(1))
	})
}

func TestPixel(t *testing.T) {
	m := newTestMachine(t, 0xA000, 0xD001) // ld I, $000; drw V0, V0, 1
	step(t, m, 2)

	// font glyph 0 starts with $F0
	assert.Equal(t, uint8(1), m.Pixel(0, 0))
	assert.Equal(t, uint8(1), m.Pixel(3, 0))
	assert.Equal(t, uint8(0), m.Pixel(4, 0))
	assert.Equal(t, uint8(1), m.Pixel(Width, Height))

	display := m.Display()
	assert.Equal(t, uint8(1), display[0][2])
}
