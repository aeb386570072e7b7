package machine

// All memory accesses of instructions go through these helpers, addresses
// outside of memory result in ErrMemoryFault instead of wrapping.

func checkRange(address, length int) error {
	if address < 0 || address > MaxAddress {
		return memoryFault(address)
	}
	if end := address + length - 1; end > MaxAddress {
		return memoryFault(end)
	}
	return nil
}

func (m *Machine) read(address int) (uint8, error) {
	if err := checkRange(address, 1); err != nil {
		return 0, err
	}
	return m.memory[address], nil
}

// slice returns the memory range [address, address+length).
func (m *Machine) slice(address, length int) ([]uint8, error) {
	if length == 0 {
		return nil, nil
	}
	if err := checkRange(address, length); err != nil {
		return nil, err
	}
	return m.memory[address : address+length], nil
}
