package hw

import (
	"errors"
	"fmt"
)

// ErrProgramTooLarge is returned when a program image does not fit in memory
// past ProgramStart.
var ErrProgramTooLarge = errors.New("program too large")

// OpcodeError reports an instruction word matching no known instruction.
type OpcodeError struct {
	PC     uint16
	Opcode Opcode
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("unsupported opcode %s at $%03X", e.Opcode, e.PC)
}

// AddrError reports a memory access outside the address space.
type AddrError struct {
	PC   uint16
	Addr int    // first offending address
	Op   string // "fetch", "read" or "write"
}

func (e *AddrError) Error() string {
	return fmt.Sprintf("%s out of memory bounds at $%04X (pc $%03X)", e.Op, e.Addr, e.PC)
}

// StackError reports a call with a full stack or a return with an empty one.
type StackError struct {
	PC       uint16
	Overflow bool
}

func (e *StackError) Error() string {
	if e.Overflow {
		return fmt.Sprintf("stack overflow at $%03X", e.PC)
	}
	return fmt.Sprintf("stack underflow at $%03X", e.PC)
}
