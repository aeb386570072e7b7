package machine

// draw XORs an n byte sprite from memory at I onto the display at
// (Vx, Vy). Pixels wrap around on both axes independently. VF is set to 1
// if any set pixel was cleared.
func (m *Machine) draw(ins Instruction) error {
	sprite, err := m.slice(int(m.i), int(ins.N))
	if err != nil {
		return err
	}

	originX, originY := int(m.v[ins.X]), int(m.v[ins.Y])
	var collision bool
	for row, data := range sprite {
		y := (originY + row) % Height
		for col := range spriteWidth {
			bit := data >> (7 - col) & 1
			if bit == 0 {
				continue
			}
			x := (originX + col) % Width
			if m.display[y][x] == 1 {
				collision = true
			}
			m.display[y][x] ^= 1
		}
	}

	m.v[flagRegister] = boolToFlag(collision)
	m.redraw = true
	return nil
}
