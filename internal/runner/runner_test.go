package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type fakeScreen struct {
	renders int
	beeps   int
	last    machine.Display
	err     error
}

func (s *fakeScreen) Render(display machine.Display) error {
	s.renders++
	s.last = display
	return s.err
}

func (s *fakeScreen) Beep() {
	s.beeps++
}

func newTestRunner(t *testing.T, opts Options, kp *keypad.Keypad, screen Screen, program ...byte) *Runner {
	t.Helper()
	r := New(log.NewTestLogger(t), opts, kp, screen)
	assert.NoError(t, r.Machine().Load(program))
	return r
}

func TestRunCyclesRendersOnRedraw(t *testing.T) {
	screen := &fakeScreen{}
	// ld I, $000; drw V0, V0, 5; jp $204
	r := newTestRunner(t, Options{}, nil, screen, 0xA0, 0x00, 0xD0, 0x05, 0x12, 0x04)

	assert.NoError(t, r.RunCycles(2))
	assert.Equal(t, 1, screen.renders)
	assert.Equal(t, uint8(1), screen.last[0][0])

	// the display is unchanged by the jump loop
	assert.NoError(t, r.RunCycles(10))
	assert.Equal(t, 1, screen.renders)
}

func TestRunCyclesWrapsMachineErrors(t *testing.T) {
	r := newTestRunner(t, Options{}, nil, nil, 0x00, 0xEE) // ret on an empty stack

	err := r.RunCycles(1)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, machine.ErrStackUnderflow))
	assert.ErrorContains(t, err, "$0200")
}

func TestRunCyclesRenderError(t *testing.T) {
	screen := &fakeScreen{err: errors.New("closed")}
	r := newTestRunner(t, Options{}, nil, screen, 0x00, 0xE0)

	err := r.RunCycles(1)
	assert.ErrorContains(t, err, "rendering display: closed")
}

func TestTone(t *testing.T) {
	screen := &fakeScreen{}
	// ld V0, 2; ld ST, V0; jp $204
	r := newTestRunner(t, Options{}, nil, screen, 0x60, 0x02, 0xF0, 0x18, 0x12, 0x04)

	assert.NoError(t, r.RunCycles(10))
	assert.Equal(t, 1, screen.beeps)
}

func TestKeypadLatch(t *testing.T) {
	kp := keypad.New(time.Hour)
	// ld V3, K; jp $202
	r := newTestRunner(t, Options{}, kp, nil, 0xF3, 0x0A, 0x12, 0x02)

	assert.NoError(t, r.RunCycles(3))
	assert.Equal(t, uint16(0x200), r.Machine().PC())
	assert.Equal(t, machine.NoKey, r.Machine().Key())

	kp.Press(0x7, time.Now())
	assert.NoError(t, r.RunCycles(1))
	assert.Equal(t, uint8(0x7), r.Machine().V(3))
	assert.Equal(t, uint16(0x202), r.Machine().PC())
	assert.Equal(t, uint8(0x7), r.Machine().Key())
}

func TestKeypadRelease(t *testing.T) {
	kp := keypad.New(time.Nanosecond)
	r := newTestRunner(t, Options{}, kp, nil, 0x12, 0x00)

	kp.Press(0x7, time.Now().Add(-time.Second))
	assert.NoError(t, r.RunCycles(1))
	assert.Equal(t, machine.NoKey, r.Machine().Key())
}

func TestUnknownOpcodesAreReportedOnce(t *testing.T) {
	// unknown $E2FF followed by jp $200
	r := newTestRunner(t, Options{Trace: true}, nil, nil, 0xE2, 0xFF, 0x12, 0x00)

	assert.NoError(t, r.RunCycles(6))
	assert.True(t, r.unknown.Contains(0x200))
	assert.False(t, r.unknown.Contains(0x202))
}

func TestControlFlow(t *testing.T) {
	tests := []struct {
		opcode   uint16
		expected string
	}{
		{0x2300, "call"},
		{0x00EE, "return"},
		{0x1200, "jump"},
		{0xB200, "jump"},
		{0x3012, "skip"},
		{0x5011, "skip"},
		{0xE0A1, "skip"},
		{0x6012, "next"},
		{0xE2FF, "next"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, controlFlow(tt.opcode))
		})
	}
}

func TestTraceCallDepth(t *testing.T) {
	// call $204; jp $202 (never reached); ret
	r := newTestRunner(t, Options{Trace: true}, nil, nil, 0x22, 0x04, 0x12, 0x02, 0x00, 0xEE)

	assert.NoError(t, r.RunCycles(2))
	assert.Equal(t, uint8(0), r.Machine().SP())
	assert.Equal(t, uint16(0x202), r.Machine().PC())
}

func TestRunStopsOnCancel(t *testing.T) {
	r := newTestRunner(t, Options{CycleRate: 1000}, nil, nil, 0x12, 0x00)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.NoError(t, r.Run(ctx))
	assert.Equal(t, uint16(0x200), r.Machine().PC())
}

func TestRunStopsOnError(t *testing.T) {
	r := newTestRunner(t, Options{CycleRate: 1000}, nil, nil, 0x00, 0xEE)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := r.Run(ctx)
	assert.True(t, errors.Is(err, machine.ErrStackUnderflow))
}

func TestNewDefaults(t *testing.T) {
	r := New(log.NewTestLogger(t), Options{}, nil, nil)
	assert.Equal(t, DefaultCycleRate, r.opts.CycleRate)
	assert.NotNil(t, r.screen)
}

func TestNewLimitsCycleRate(t *testing.T) {
	r := New(log.NewTestLogger(t), Options{CycleRate: 2_000_000_000}, nil, nil)
	assert.Equal(t, MaxCycleRate, r.opts.CycleRate)
}
