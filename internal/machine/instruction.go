package machine

import "fmt"

// Op identifies one of the instruction patterns of the CHIP-8 instruction set.
type Op uint8

// Instruction patterns, the comment lists the matching opcode.
const (
	// OpUnknown is any opcode not matched by one of the patterns below.
	OpUnknown Op = iota

	OpClearScreen      // 00E0
	OpReturn           // 00EE
	OpJump             // 1nnn
	OpCall             // 2nnn
	OpSkipEqualByte    // 3xkk
	OpSkipNotEqualByte // 4xkk
	OpSkipEqualReg     // 5xyn, n is ignored
	OpLoadByte         // 6xkk
	OpAddByte          // 7xkk
	OpLoadReg          // 8xy0
	OpOr               // 8xy1
	OpAnd              // 8xy2
	OpXor              // 8xy3
	OpAddReg           // 8xy4
	OpSub              // 8xy5
	OpShiftRight       // 8xy6
	OpSubN             // 8xy7
	OpShiftLeft        // 8xyE
	OpSkipNotEqualReg  // 9xyn, n is ignored
	OpLoadIndex        // Annn
	OpJumpOffset       // Bnnn
	OpRandom           // Cxkk
	OpDraw             // Dxyn
	OpSkipKey          // Ex9E
	OpSkipNotKey       // ExA1
	OpLoadDelay        // Fx07
	OpWaitKey          // Fx0A
	OpSetDelay         // Fx15
	OpSetSound         // Fx18
	OpAddIndex         // Fx1E
	OpLoadGlyph        // Fx29
	OpStoreBCD         // Fx33
	OpStoreRegs        // Fx55
	OpLoadRegs         // Fx65

	opCount
)

var opNames = [opCount]string{
	OpUnknown:          "unknown",
	OpClearScreen:      "cls",
	OpReturn:           "ret",
	OpJump:             "jp",
	OpCall:             "call",
	OpSkipEqualByte:    "se",
	OpSkipNotEqualByte: "sne",
	OpSkipEqualReg:     "se",
	OpLoadByte:         "ld",
	OpAddByte:          "add",
	OpLoadReg:          "ld",
	OpOr:               "or",
	OpAnd:              "and",
	OpXor:              "xor",
	OpAddReg:           "add",
	OpSub:              "sub",
	OpShiftRight:       "shr",
	OpSubN:             "subn",
	OpShiftLeft:        "shl",
	OpSkipNotEqualReg:  "sne",
	OpLoadIndex:        "ld",
	OpJumpOffset:       "jp",
	OpRandom:           "rnd",
	OpDraw:             "drw",
	OpSkipKey:          "skp",
	OpSkipNotKey:       "sknp",
	OpLoadDelay:        "ld",
	OpWaitKey:          "ld",
	OpSetDelay:         "ld",
	OpSetSound:         "ld",
	OpAddIndex:         "add",
	OpLoadGlyph:        "ld",
	OpStoreBCD:         "ld",
	OpStoreRegs:        "ld",
	OpLoadRegs:         "ld",
}

// String returns the assembler mnemonic of the instruction pattern.
func (o Op) String() string {
	if o >= opCount {
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
	return opNames[o]
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Op  Op
	X   uint8  // register index, bits 8-11
	Y   uint8  // register index, bits 4-7
	N   uint8  // low nibble
	KK  uint8  // low byte
	NNN uint16 // low 12 bits
}

// Decode splits the instruction word into its fields and identifies the
// instruction pattern.
func Decode(opcode uint16) Instruction {
	ins := Instruction{
		X:   uint8(opcode >> 8 & 0xF),
		Y:   uint8(opcode >> 4 & 0xF),
		N:   uint8(opcode & 0xF),
		KK:  uint8(opcode),
		NNN: opcode & 0x0FFF,
	}
	ins.Op = decodeOp(opcode, ins)
	return ins
}

func decodeOp(opcode uint16, ins Instruction) Op {
	switch opcode >> 12 {
	case 0x0:
		switch opcode {
		case 0x00E0:
			return OpClearScreen
		case 0x00EE:
			return OpReturn
		}
	case 0x1:
		return OpJump
	case 0x2:
		return OpCall
	case 0x3:
		return OpSkipEqualByte
	case 0x4:
		return OpSkipNotEqualByte
	case 0x5:
		return OpSkipEqualReg
	case 0x6:
		return OpLoadByte
	case 0x7:
		return OpAddByte
	case 0x8:
		return decodeArithmetic(ins.N)
	case 0x9:
		return OpSkipNotEqualReg
	case 0xA:
		return OpLoadIndex
	case 0xB:
		return OpJumpOffset
	case 0xC:
		return OpRandom
	case 0xD:
		return OpDraw
	case 0xE:
		switch ins.KK {
		case 0x9E:
			return OpSkipKey
		case 0xA1:
			return OpSkipNotKey
		}
	case 0xF:
		return decodeMisc(ins.KK)
	}
	return OpUnknown
}

func decodeArithmetic(n uint8) Op {
	switch n {
	case 0x0:
		return OpLoadReg
	case 0x1:
		return OpOr
	case 0x2:
		return OpAnd
	case 0x3:
		return OpXor
	case 0x4:
		return OpAddReg
	case 0x5:
		return OpSub
	case 0x6:
		return OpShiftRight
	case 0x7:
		return OpSubN
	case 0xE:
		return OpShiftLeft
	default:
		return OpUnknown
	}
}

func decodeMisc(kk uint8) Op {
	switch kk {
	case 0x07:
		return OpLoadDelay
	case 0x0A:
		return OpWaitKey
	case 0x15:
		return OpSetDelay
	case 0x18:
		return OpSetSound
	case 0x1E:
		return OpAddIndex
	case 0x29:
		return OpLoadGlyph
	case 0x33:
		return OpStoreBCD
	case 0x55:
		return OpStoreRegs
	case 0x65:
		return OpLoadRegs
	default:
		return OpUnknown
	}
}
