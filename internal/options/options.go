// Package options contains the program options.
package options

import "time"

// Parameters contains file path options.
type Parameters struct {
	Input string `flag:"i" usage:"input ROM file"`
}

// Emulation contains options that control the machine execution.
type Emulation struct {
	CycleRate int           `flag:"rate" usage:"instructions executed per second" default:"500"`
	Keys      string        `flag:"keys" usage:"host keys bound to the hex keys 0-F" default:"x123qweasdzc4rfv"`
	Hold      time.Duration `flag:"hold" usage:"duration a key press stays held" default:"150ms"`
	Cycles    int           `flag:"cycles" usage:"run headless for the given number of cycles and print the display"`
	Trace     bool          `flag:"trace" usage:"log every executed instruction, requires -debug"`
}

// Flags contains behavior options.
type Flags struct {
	Debug bool `flag:"debug" usage:"enable debug logging"`
	Quiet bool `flag:"q" usage:"quiet mode"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Emulation
	Flags
}

// Headless returns whether the program runs a fixed number of cycles
// without terminal interface.
func (p Program) Headless() bool {
	return p.Cycles > 0
}
