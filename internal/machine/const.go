package machine

// CHIP-8 memory layout constants.
//
//	0x000-0x04F: built-in font set (16 glyphs, 5 bytes each)
//	0x050-0x1FF: unused interpreter area
//	0x200-0xFFF: program space (3584 bytes)
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 4096

	// MaxAddress is the highest valid memory address.
	MaxAddress = MemorySize - 1

	// ProgramStart is the address programs are loaded to and executed from.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program image that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart
)

// Display dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

const (
	registerCount = 16
	stackDepth    = 16
	opcodeSize    = 2 // every instruction is a 2 byte big-endian word
	spriteWidth   = 8
	glyphSize     = 5
	flagRegister  = 0xF
)

// NoKey is the key latch value when no key is pressed.
const NoKey uint8 = 0xFF

// fontSet contains the glyphs for the hex digits 0-F, 5 rows each.
var fontSet = [...]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}
