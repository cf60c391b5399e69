package hw

// Memory map.
const (
	MemSize      = 0x1000 // 4KB of addressable memory
	FontStart    = 0x050  // first byte of the built-in fontset
	ProgramStart = 0x200  // load address and entry point of programs

	// MaxProgramSize is the largest program image that fits in memory.
	MaxProgramSize = MemSize - ProgramStart
)

const (
	NumRegs   = 16
	NumKeys   = 16
	StackSize = 16

	ScreenWidth  = 64
	ScreenHeight = 32

	// Height in bytes of a single fontset glyph.
	GlyphSize = 5
)

// Index of the register doubling as flag register.
const VF = 0xF
