package hw

import (
	"fmt"
)

//go:generate go tool stringer -type=Mnemonic

// Mnemonic identifies an instruction in assembly listings.
type Mnemonic uint8

const (
	DW Mnemonic = iota // raw data word, not an instruction
	CLS
	RET
	JP
	CALL
	SE
	SNE
	LD
	ADD
	OR
	AND
	XOR
	SUB
	SHR
	SUBN
	SHL
	RND
	DRW
	SKP
	SKNP
)

// DisasmOp is a disassembled instruction.
type DisasmOp struct {
	PC       uint16
	Opcode   Opcode
	Mnemonic Mnemonic
	Oper     string
}

func (d DisasmOp) String() string {
	if d.Oper == "" {
		return d.Mnemonic.String()
	}
	return d.Mnemonic.String() + " " + d.Oper
}

// Disasm disassembles the instruction at pc. Out of bounds bytes read as 0.
func Disasm(mem []uint8, pc uint16) DisasmOp {
	var hi, lo uint8
	if int(pc) < len(mem) {
		hi = mem[pc]
	}
	if int(pc)+1 < len(mem) {
		lo = mem[pc+1]
	}
	op := Opcode(uint16(hi)<<8 | uint16(lo))
	mn, oper := DisasmOpcode(op)
	return DisasmOp{PC: pc, Opcode: op, Mnemonic: mn, Oper: oper}
}

func vreg(r uint8) string { return fmt.Sprintf("V%X", r) }

// DisasmOpcode returns the mnemonic and operands of op. Opcodes that are not
// valid instructions are returned as DW data words.
func DisasmOpcode(op Opcode) (Mnemonic, string) {
	x, y := vreg(op.X()), vreg(op.Y())
	nn := fmt.Sprintf("$%02X", op.NN())
	nnn := fmt.Sprintf("$%03X", op.NNN())

	switch op.Family() {
	case 0x0:
		switch op {
		case 0x00E0:
			return CLS, ""
		case 0x00EE:
			return RET, ""
		}
	case 0x1:
		return JP, nnn
	case 0x2:
		return CALL, nnn
	case 0x3:
		return SE, x + ", " + nn
	case 0x4:
		return SNE, x + ", " + nn
	case 0x5:
		return SE, x + ", " + y
	case 0x6:
		return LD, x + ", " + nn
	case 0x7:
		return ADD, x + ", " + nn
	case 0x8:
		switch op.N() {
		case 0x0:
			return LD, x + ", " + y
		case 0x1:
			return OR, x + ", " + y
		case 0x2:
			return AND, x + ", " + y
		case 0x3:
			return XOR, x + ", " + y
		case 0x4:
			return ADD, x + ", " + y
		case 0x5:
			return SUB, x + ", " + y
		case 0x6:
			return SHR, x
		case 0x7:
			return SUBN, x + ", " + y
		case 0xE:
			return SHL, x
		}
	case 0x9:
		return SNE, x + ", " + y
	case 0xA:
		return LD, "I, " + nnn
	case 0xB:
		return JP, "V0, " + nnn
	case 0xC:
		return RND, x + ", " + nn
	case 0xD:
		return DRW, fmt.Sprintf("%s, %s, $%X", x, y, op.N())
	case 0xE:
		switch op.NN() {
		case 0x9E:
			return SKP, x
		case 0xA1:
			return SKNP, x
		}
	case 0xF:
		switch op.NN() {
		case 0x07:
			return LD, x + ", DT"
		case 0x0A:
			return LD, x + ", K"
		case 0x15:
			return LD, "DT, " + x
		case 0x18:
			return LD, "ST, " + x
		case 0x1E:
			return ADD, "I, " + x
		case 0x29:
			return LD, "F, " + x
		case 0x33:
			return LD, "B, " + x
		case 0x55:
			return LD, "[I], " + x
		case 0x65:
			return LD, x + ", [I]"
		}
	}
	return DW, fmt.Sprintf("$%04X", uint16(op))
}
