// Package loader handles ROM file loading operations.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
)

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the ROM file set in the options into the program memory of
// the machine. It returns the size of the loaded program.
func (l *Loader) Load(opts options.Program, m *machine.Machine) (int, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return 0, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	reader := &countingReader{r: file}
	if err := m.LoadFrom(reader); err != nil {
		return 0, fmt.Errorf("loading ROM %s: %w", opts.Input, err)
	}
	return reader.n, nil
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}
