package hw

import "fmt"

// An Opcode is a 16-bit instruction word, fetched big-endian from two
// consecutive memory cells.
//
//	F X Y N
//	  \_NN_/
//	\_ NNN_/
type Opcode uint16

// Family is the top nibble, selecting the instruction family.
func (op Opcode) Family() uint8 { return uint8(op >> 12) }

// X is the first register operand (bits 8-11).
func (op Opcode) X() uint8 { return uint8(op>>8) & 0xF }

// Y is the second register operand (bits 4-7).
func (op Opcode) Y() uint8 { return uint8(op>>4) & 0xF }

// N is the low nibble.
func (op Opcode) N() uint8 { return uint8(op) & 0xF }

// NN is the low byte.
func (op Opcode) NN() uint8 { return uint8(op) }

// NNN is the 12-bit address operand.
func (op Opcode) NNN() uint16 { return uint16(op) & 0x0FFF }

func (op Opcode) String() string { return fmt.Sprintf("%04X", uint16(op)) }
