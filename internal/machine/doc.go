// Package machine implements the CHIP-8 interpreter core.
//
// # Machine State
//
// The Machine owns all emulated hardware state:
//   - 4KB of memory (0x000-MaxAddress), the built-in font occupies 0x000-0x04F
//   - 16 general-purpose 8-bit registers (V0-VF), VF doubles as flag register
//   - the 16-bit index register I and program counter PC
//   - a 16 entry call stack with stack pointer SP
//   - delay and sound timers
//   - a single slot key latch
//   - a 64x32 monochrome display buffer
//
// # Execution
//
// Step performs exactly one cycle: both timers are decremented once, the
// big-endian instruction word at PC is fetched, PC is advanced by 2 and the
// decoded instruction is dispatched through a handler table indexed by Op.
// Unknown opcodes decode to OpUnknown and are ignored.
//
// Pacing of cycles is left to the caller, as is rendering of the display and
// mapping of physical keys to the hex keypad.
//
// # Errors
//
// Program loading fails with a *LoadError. Instruction execution fails with
// ErrMemoryFault when an address outside of the 4KB memory would be accessed
// and with ErrStackOverflow or ErrStackUnderflow on call stack misuse.
//
// # Usage Example
//
//	m := machine.New(machine.Dependencies{})
//	if err := m.Load(rom); err != nil {
//		return fmt.Errorf("loading program: %w", err)
//	}
//	for {
//		if err := m.Step(); err != nil {
//			return err
//		}
//	}
package machine
