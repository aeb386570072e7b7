package machine

import (
	"errors"
	"fmt"
)

var (
	// ErrProgramTooLarge is returned when a program does not fit into the program space.
	ErrProgramTooLarge = errors.New("program too large")
	// ErrTruncatedRead is returned when the program source could not be read in full.
	ErrTruncatedRead = errors.New("program read truncated")

	// ErrMemoryFault is returned when an instruction accesses an address outside of memory.
	ErrMemoryFault = errors.New("memory fault")
	// ErrStackOverflow is returned by a call with a full call stack.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned by a return with an empty call stack.
	ErrStackUnderflow = errors.New("stack underflow")
)

// LoadError describes a failed program load. Memory is not modified when
// a load fails.
type LoadError struct {
	Size int // number of bytes read from the source
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading program of %d bytes: %s", e.Size, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func memoryFault(address int) error {
	return fmt.Errorf("%w: address $%04X", ErrMemoryFault, address)
}
