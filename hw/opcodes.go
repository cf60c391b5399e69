package hw

import (
	"chipper/emu/log"
)

// An opfunc executes a decoded instruction. It must validate everything that
// can fault before touching any state, and sets the next program counter.
type opfunc func(m *Machine, op Opcode) error

// Instructions selected by the family nibble alone.
var ops = [16]opfunc{
	0x1: jp,
	0x2: call,
	0x3: seImm,
	0x4: sneImm,
	0x5: seReg,
	0x6: ldImm,
	0x7: addImm,
	0x9: sneReg,
	0xA: ldI,
	0xB: jpV0,
	0xC: rnd,
	0xD: drw,
}

// 8XYN: register to register operations, selected by N.
var aluOps = [16]opfunc{
	0x0: ldReg,
	0x1: or,
	0x2: and,
	0x3: xor,
	0x4: addReg,
	0x5: sub,
	0x6: shr,
	0x7: subn,
	0xE: shl,
}

// FXNN: timers, input and memory operations, selected by NN.
var miscOps = map[uint8]opfunc{
	0x07: ldVxDT,
	0x0A: ldVxK,
	0x15: ldDTVx,
	0x18: ldSTVx,
	0x1E: addIVx,
	0x29: ldFVx,
	0x33: ldBVx,
	0x55: ldIVx,
	0x65: ldVxI,
}

// lookup returns the function executing op, or nil if op is not a valid
// instruction.
func lookup(op Opcode) opfunc {
	switch op.Family() {
	case 0x0:
		switch op {
		case 0x00E0:
			return cls
		case 0x00EE:
			return ret
		}
		// 0NNN, machine code routines, are not supported.
		return nil
	case 0x8:
		return aluOps[op.N()]
	case 0xE:
		switch op.NN() {
		case 0x9E:
			return skp
		case 0xA1:
			return sknp
		}
		return nil
	case 0xF:
		return miscOps[op.NN()]
	}
	return ops[op.Family()]
}

/* control flow */

// 00E0
func cls(m *Machine, _ Opcode) error {
	m.Screen.clear()
	m.redraw = true
	m.next()
	return nil
}

// 00EE
func ret(m *Machine, _ Opcode) error {
	if m.SP == 0 {
		return &StackError{PC: m.PC}
	}
	from := m.PC
	m.SP--
	m.PC = m.Stack[m.SP] + 2
	log.ModCPU.DebugZ("return").Hex16("from", from).Hex16("to", m.PC).End()
	return nil
}

// 1NNN
func jp(m *Machine, op Opcode) error {
	m.PC = op.NNN()
	return nil
}

// 2NNN
func call(m *Machine, op Opcode) error {
	if m.SP >= StackSize {
		return &StackError{PC: m.PC, Overflow: true}
	}
	m.Stack[m.SP] = m.PC
	m.SP++
	log.ModCPU.DebugZ("call").Hex16("from", m.PC).Hex16("to", op.NNN()).Int("depth", int(m.SP)).End()
	m.PC = op.NNN()
	return nil
}

// BNNN
func jpV0(m *Machine, op Opcode) error {
	m.PC = op.NNN() + uint16(m.V[0])
	log.ModCPU.DebugZ("computed jump").Hex16("to", m.PC).End()
	return nil
}

/* conditional skips */

// 3XNN
func seImm(m *Machine, op Opcode) error {
	m.skipIf(m.V[op.X()] == op.NN())
	return nil
}

// 4XNN
func sneImm(m *Machine, op Opcode) error {
	m.skipIf(m.V[op.X()] != op.NN())
	return nil
}

// 5XY0
func seReg(m *Machine, op Opcode) error {
	m.skipIf(m.V[op.X()] == m.V[op.Y()])
	return nil
}

// 9XY0
func sneReg(m *Machine, op Opcode) error {
	m.skipIf(m.V[op.X()] != m.V[op.Y()])
	return nil
}

// EX9E
func skp(m *Machine, op Opcode) error {
	m.skipIf(m.Keys[m.V[op.X()]&0xF])
	return nil
}

// EXA1
func sknp(m *Machine, op Opcode) error {
	m.skipIf(!m.Keys[m.V[op.X()]&0xF])
	return nil
}

/* registers */

// 6XNN
func ldImm(m *Machine, op Opcode) error {
	m.V[op.X()] = op.NN()
	m.next()
	return nil
}

// 7XNN, no carry.
func addImm(m *Machine, op Opcode) error {
	m.V[op.X()] += op.NN()
	m.next()
	return nil
}

// 8XY0
func ldReg(m *Machine, op Opcode) error {
	m.V[op.X()] = m.V[op.Y()]
	m.next()
	return nil
}

// 8XY1
func or(m *Machine, op Opcode) error {
	m.V[op.X()] |= m.V[op.Y()]
	m.next()
	return nil
}

// 8XY2
func and(m *Machine, op Opcode) error {
	m.V[op.X()] &= m.V[op.Y()]
	m.next()
	return nil
}

// 8XY3
func xor(m *Machine, op Opcode) error {
	m.V[op.X()] ^= m.V[op.Y()]
	m.next()
	return nil
}

// The flag producing operations below write VF first, then compute VX from
// the registers. With X or Y being F, the result is computed from the flag.

// 8XY4: VF is the carry.
func addReg(m *Machine, op Opcode) error {
	x, y := op.X(), op.Y()
	m.V[VF] = b2u8(uint16(m.V[x])+uint16(m.V[y]) > 0xFF)
	m.V[x] = m.V[x] + m.V[y]
	m.next()
	return nil
}

// 8XY5: VF is set when VX > VY (no borrow).
func sub(m *Machine, op Opcode) error {
	x, y := op.X(), op.Y()
	m.V[VF] = b2u8(m.V[x] > m.V[y])
	m.V[x] = m.V[x] - m.V[y]
	m.next()
	return nil
}

// 8XY7: VX = VY - VX, VF is cleared when VX > VY (borrow).
func subn(m *Machine, op Opcode) error {
	x, y := op.X(), op.Y()
	m.V[VF] = b2u8(m.V[x] <= m.V[y])
	m.V[x] = m.V[y] - m.V[x]
	m.next()
	return nil
}

// 8XY6: VF is the bit shifted out.
func shr(m *Machine, op Opcode) error {
	x := op.X()
	m.V[VF] = m.V[x] & 0x01
	m.V[x] >>= 1
	m.next()
	return nil
}

// 8XYE: VF is the bit shifted out, left in place (0x00 or 0x80).
func shl(m *Machine, op Opcode) error {
	x := op.X()
	m.V[VF] = m.V[x] & 0x80
	m.V[x] <<= 1
	m.next()
	return nil
}

// CXNN
func rnd(m *Machine, op Opcode) error {
	m.V[op.X()] = uint8(m.rng.IntN(256)) & op.NN()
	m.next()
	return nil
}

/* address register and memory */

// ANNN
func ldI(m *Machine, op Opcode) error {
	m.I = op.NNN()
	m.next()
	return nil
}

// FX1E
func addIVx(m *Machine, op Opcode) error {
	m.I += uint16(m.V[op.X()])
	m.next()
	return nil
}

// FX29
func ldFVx(m *Machine, op Opcode) error {
	m.I = GlyphAddr(m.V[op.X()])
	m.next()
	return nil
}

// FX33: binary-coded decimal of VX at I, I+1 and I+2.
func ldBVx(m *Machine, op Opcode) error {
	if err := m.checkRange("write", int(m.I), 3); err != nil {
		return err
	}
	v := m.V[op.X()]
	m.Mem[m.I] = v / 100
	m.Mem[m.I+1] = v / 10 % 10
	m.Mem[m.I+2] = v % 10
	m.next()
	return nil
}

// FX55: store V0..VX at I, I is left untouched.
func ldIVx(m *Machine, op Opcode) error {
	n := int(op.X()) + 1
	if err := m.checkRange("write", int(m.I), n); err != nil {
		return err
	}
	copy(m.Mem[m.I:], m.V[:n])
	m.next()
	return nil
}

// FX65: load V0..VX from I, then I advances past the loaded bytes.
func ldVxI(m *Machine, op Opcode) error {
	n := int(op.X()) + 1
	if err := m.checkRange("read", int(m.I), n); err != nil {
		return err
	}
	copy(m.V[:n], m.Mem[m.I:])
	m.I += uint16(n)
	m.next()
	return nil
}

/* timers and input */

// FX07
func ldVxDT(m *Machine, op Opcode) error {
	m.V[op.X()] = m.DT
	m.next()
	return nil
}

// FX15
func ldDTVx(m *Machine, op Opcode) error {
	m.DT = m.V[op.X()]
	m.next()
	return nil
}

// FX18
func ldSTVx(m *Machine, op Opcode) error {
	m.ST = m.V[op.X()]
	log.ModSound.DebugZ("sound timer").Hex8("value", m.ST).End()
	m.next()
	return nil
}

// FX0A: stays on the same instruction until a key is pressed, the lowest
// pressed key wins.
func ldVxK(m *Machine, op Opcode) error {
	for k, pressed := range m.Keys {
		if pressed {
			m.V[op.X()] = uint8(k)
			m.next()
			return nil
		}
	}
	return nil
}

/* display */

// DXYN: XOR an 8xN sprite read at I onto the screen at (VX, VY). VF is set
// when a lit pixel gets cleared.
func drw(m *Machine, op Opcode) error {
	n := int(op.N())
	if err := m.checkRange("read", int(m.I), n); err != nil {
		return err
	}

	x, y := int(m.V[op.X()]), int(m.V[op.Y()])
	collision := false
	for row := range n {
		if m.Screen.xorRow(x, y+row, m.Mem[int(m.I)+row]) {
			collision = true
		}
	}
	m.V[VF] = b2u8(collision)
	m.redraw = true
	m.next()
	return nil
}
