// Package disasm renders CHIP-8 instruction words as assembler mnemonics.
// Opcode identification is based on the retrogolib CHIP-8 opcode tables.
package disasm

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Lookup returns the opcode definition matching the instruction word.
// The register compares 5xyn and 9xyn match regardless of the low nibble.
func Lookup(opcode uint16) (chip8.Opcode, bool) {
	firstNibble := (opcode & 0xF000) >> 12
	if firstNibble == 0x5 || firstNibble == 0x9 {
		opcode &^= 0x000F
	}
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&opcode == op.Info.Value {
			return op, op.Instruction != nil
		}
	}
	return chip8.Opcode{}, false
}

// Format returns the instruction word in assembler notation, for example
// "drw V2, V3, $5". Unknown instruction words are returned as data.
func Format(opcode uint16) string {
	op, ok := Lookup(opcode)
	if !ok {
		return fmt.Sprintf(".word $%04X", opcode)
	}

	name := op.Instruction.Name
	if params := formatParams(name, opcode); params != "" {
		return fmt.Sprintf("%s %s", name, params)
	}
	return name
}

// IsJump returns whether the instruction word is an unconditional jump.
func IsJump(opcode uint16) bool {
	op, ok := Lookup(opcode)
	return ok && op.Instruction == chip8.JpInst
}

// IsCall returns whether the instruction word is a subroutine call.
func IsCall(opcode uint16) bool {
	op, ok := Lookup(opcode)
	return ok && op.Instruction == chip8.CallInst
}

// IsReturn returns whether the instruction word is a subroutine return.
func IsReturn(opcode uint16) bool {
	op, ok := Lookup(opcode)
	return ok && op.Instruction == chip8.RetInst
}

// IsSkip returns whether the instruction word conditionally skips the
// following instruction.
func IsSkip(opcode uint16) bool {
	op, ok := Lookup(opcode)
	return ok && chip8.SkipInstructions.Contains(op.Instruction.Name)
}

func formatParams(name string, opcode uint16) string {
	switch name {
	case chip8.ClsName, chip8.RetName:
		return ""
	case chip8.JpName:
		return formatJump(opcode)
	case chip8.CallName:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case chip8.SeName, chip8.SneName:
		return formatCompare(opcode)
	case chip8.LdName:
		return formatLoad(opcode)
	case chip8.AddName:
		return formatAdd(opcode)
	case chip8.OrName, chip8.AndName, chip8.XorName, chip8.SubName, chip8.SubnName:
		return fmt.Sprintf("V%X, V%X", registerX(opcode), registerY(opcode))
	case chip8.ShrName, chip8.ShlName, chip8.SkpName, chip8.SknpName:
		return fmt.Sprintf("V%X", registerX(opcode))
	case chip8.RndName:
		return fmt.Sprintf("V%X, $%02X", registerX(opcode), opcode&0x00FF)
	case chip8.DrwName:
		return fmt.Sprintf("V%X, V%X, $%X", registerX(opcode), registerY(opcode), opcode&0x000F)
	}
	return ""
}

// formatJump formats JP addr and JP V0, addr.
func formatJump(opcode uint16) string {
	switch opcode & 0xF000 {
	case 0x1000:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case 0xB000:
		return fmt.Sprintf("V0, $%03X", opcode&0x0FFF)
	}
	return ""
}

// formatCompare formats SE and SNE against a byte or a register.
func formatCompare(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x3000, 0x4000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	}
	return ""
}

// formatLoad formats all LD variants, including the timer, key, font and
// block transfer forms of the Fxkk group.
func formatLoad(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	case 0xA000:
		return fmt.Sprintf("I, $%03X", opcode&0x0FFF)
	case 0xF000:
		switch opcode & 0x00FF {
		case 0x07:
			return fmt.Sprintf("V%X, DT", x)
		case 0x0A:
			return fmt.Sprintf("V%X, K", x)
		case 0x15:
			return fmt.Sprintf("DT, V%X", x)
		case 0x18:
			return fmt.Sprintf("ST, V%X", x)
		case 0x29:
			return fmt.Sprintf("F, V%X", x)
		case 0x33:
			return fmt.Sprintf("B, V%X", x)
		case 0x55:
			return fmt.Sprintf("[I], V%X", x)
		case 0x65:
			return fmt.Sprintf("V%X, [I]", x)
		}
	}
	return ""
}

// formatAdd formats ADD Vx, byte, ADD Vx, Vy and ADD I, Vx.
func formatAdd(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x7000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	case 0xF000:
		return fmt.Sprintf("I, V%X", x)
	}
	return ""
}

func registerX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

func registerY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
