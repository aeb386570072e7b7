// Package runner drives a CHIP-8 machine in real time and connects it to
// the host keyboard and screen.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

const (
	// DefaultCycleRate is the default number of cycles executed per second.
	DefaultCycleRate = 500
	// MaxCycleRate is the highest supported number of cycles per second.
	MaxCycleRate = 1_000_000
)

// Screen renders the display and the tone of a machine.
type Screen interface {
	Render(display machine.Display) error
	Beep()
}

// Options controls the host loop.
type Options struct {
	CycleRate int  // cycles per second
	Trace     bool // log every executed instruction
}

// Runner owns a machine and executes it.
type Runner struct {
	logger  *log.Logger
	opts    Options
	machine *machine.Machine
	keypad  *keypad.Keypad
	screen  Screen
	unknown set.Set[uint16] // addresses of reported unknown opcodes
}

// New returns a runner for a newly created machine. The keypad is optional.
func New(logger *log.Logger, opts Options, kp *keypad.Keypad, screen Screen) *Runner {
	switch {
	case opts.CycleRate <= 0:
		opts.CycleRate = DefaultCycleRate
	case opts.CycleRate > MaxCycleRate:
		opts.CycleRate = MaxCycleRate
	}
	if screen == nil {
		screen = discardScreen{}
	}

	r := &Runner{
		logger:  logger,
		opts:    opts,
		keypad:  kp,
		screen:  screen,
		unknown: set.New[uint16](),
	}
	r.machine = machine.New(machine.Dependencies{
		Tone:  screen.Beep,
		Trace: r.inspect,
	})
	return r
}

// Machine returns the machine that the runner executes.
func (r *Runner) Machine() *machine.Machine {
	return r.machine
}

// Run executes cycles at the configured rate until the context is canceled
// or the machine fails.
func (r *Runner) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(r.opts.CycleRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Debug("Starting machine",
		log.Int("cycle_rate", r.opts.CycleRate),
		log.String("interval", interval.String()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if err := r.cycle(now); err != nil {
				return err
			}
		}
	}
}

// RunCycles executes the given number of cycles without pacing.
func (r *Runner) RunCycles(cycles int) error {
	for range cycles {
		if err := r.cycle(time.Now()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) cycle(now time.Time) error {
	if r.keypad != nil {
		if key, pressed := r.keypad.Poll(now); pressed {
			r.machine.SetKey(key)
		} else {
			r.machine.ReleaseKey()
		}
	}

	pc := r.machine.PC()
	if err := r.machine.Step(); err != nil {
		return fmt.Errorf("executing instruction at $%04X: %w", pc, err)
	}

	if r.machine.Redraw() {
		if err := r.screen.Render(r.machine.Display()); err != nil {
			return fmt.Errorf("rendering display: %w", err)
		}
	}
	return nil
}

// inspect is called by the machine for every fetched instruction.
func (r *Runner) inspect(pc, opcode uint16) {
	if r.opts.Trace {
		r.logger.Debug("Executing instruction",
			log.Hex("pc", pc),
			log.Hex("opcode", opcode),
			log.String("instruction", disasm.Format(opcode)),
			log.String("flow", controlFlow(opcode)),
			log.Uint8("depth", r.machine.SP()))
	}

	if machine.Decode(opcode).Op != machine.OpUnknown || r.unknown.Contains(pc) {
		return
	}
	r.unknown.Add(pc)
	r.logger.Warn("Ignoring unknown opcode",
		log.Hex("pc", pc),
		log.Hex("opcode", opcode))
}

// controlFlow names the effect of the instruction on the program flow.
func controlFlow(opcode uint16) string {
	switch {
	case disasm.IsCall(opcode):
		return "call"
	case disasm.IsReturn(opcode):
		return "return"
	case disasm.IsJump(opcode):
		return "jump"
	case disasm.IsSkip(opcode):
		return "skip"
	default:
		return "next"
	}
}

type discardScreen struct{}

func (discardScreen) Render(machine.Display) error { return nil }

func (discardScreen) Beep() {}
