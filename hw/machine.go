package hw

import (
	"fmt"
	"math/rand/v2"
)

// RandSource provides the random bytes of the RND instruction.
type RandSource interface {
	// IntN returns a uniform random value in [0, n).
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// NewRand returns a deterministic RandSource seeded with seed.
func NewRand(seed uint64) RandSource {
	return rand.New(rand.NewPCG(seed, seed))
}

// Machine holds the whole interpreter state. All state is mutated by Step,
// except for Keys which is set by the driver before each cycle.
type Machine struct {
	Mem [MemSize]uint8

	// registers
	V  [NumRegs]uint8
	I  uint16
	PC uint16

	Stack [StackSize]uint16
	SP    uint8 // next free stack slot

	// timers
	DT uint8 // delay
	ST uint8 // sound

	Keys   [NumKeys]bool
	Screen Framebuffer

	Cycles int64 // executed instructions

	redraw bool
	fault  error // non-nil once the machine has halted
	rng    RandSource

	// Non-nil when execution tracing is enabled.
	tracer tracer
}

// NewMachine creates a machine at power-up state, fontset loaded.
func NewMachine() *Machine {
	m := &Machine{rng: globalRand{}}
	m.Reset()
	return m
}

// Reset puts the machine back to its power-up state. The program needs to be
// loaded again. The random source and tracer are preserved.
func (m *Machine) Reset() {
	m.Mem = [MemSize]uint8{}
	m.V = [NumRegs]uint8{}
	m.I = 0
	m.PC = ProgramStart
	m.Stack = [StackSize]uint16{}
	m.SP = 0
	m.DT = 0
	m.ST = 0
	m.Keys = [NumKeys]bool{}
	m.Screen.clear()
	m.Cycles = 0
	m.redraw = false
	m.fault = nil

	m.loadFontset()
}

// LoadProgram copies prog into memory, starting at ProgramStart.
func (m *Machine) LoadProgram(prog []byte) error {
	if len(prog) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrProgramTooLarge, len(prog), MaxProgramSize)
	}
	copy(m.Mem[ProgramStart:], prog)
	return nil
}

// SetRand sets the source of the RND instruction.
func (m *Machine) SetRand(r RandSource) {
	if r == nil {
		r = globalRand{}
	}
	m.rng = r
}

// SetKeys replaces the whole key state.
func (m *Machine) SetKeys(keys [NumKeys]bool) { m.Keys = keys }

// SetKey sets the state of key k (0-F).
func (m *Machine) SetKey(k uint8, pressed bool) { m.Keys[k&0xF] = pressed }

// NeedsRedraw reports whether the screen changed since the last ClearRedraw.
func (m *Machine) NeedsRedraw() bool { return m.redraw }

// ClearRedraw acknowledges the screen has been presented.
func (m *Machine) ClearRedraw() { m.redraw = false }

// SoundActive reports whether the tone should be playing.
func (m *Machine) SoundActive() bool { return m.ST > 0 }

// IsHalted reports whether the machine stopped on a fault.
func (m *Machine) IsHalted() bool { return m.fault != nil }

// Fault returns the error that halted the machine, if any.
func (m *Machine) Fault() error { return m.fault }
