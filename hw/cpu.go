package hw

import (
	"chipper/emu/log"
)

// Step executes exactly one instruction and ticks the timers.
//
// On a fault, Step returns an *OpcodeError, *AddrError or *StackError and
// the machine state is left as it was before the fetch. The machine is then
// halted, and Step keeps returning the same error until Reset.
func (m *Machine) Step() error {
	if m.fault != nil {
		return m.fault
	}

	pc := m.PC
	if int(pc)+1 >= MemSize {
		addr := int(pc)
		if addr < MemSize {
			addr++
		}
		return m.halt(&AddrError{PC: pc, Addr: addr, Op: "fetch"})
	}
	op := Opcode(uint16(m.Mem[pc])<<8 | uint16(m.Mem[pc+1]))

	if m.tracer != nil {
		m.tracer.trace(m, op)
	}

	exec := lookup(op)
	if exec == nil {
		return m.halt(&OpcodeError{PC: pc, Opcode: op})
	}
	if err := exec(m, op); err != nil {
		return m.halt(err)
	}

	if m.ST > 0 {
		m.ST--
	}
	if m.DT > 0 {
		m.DT--
	}
	m.Cycles++
	return nil
}

// Run executes up to n instructions, stopping at the first fault.
func (m *Machine) Run(n int64) error {
	for range n {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) halt(err error) error {
	m.fault = err
	log.ModCPU.WarnZ("CPU halted").
		Hex16("PC", m.PC).
		Int64("cycles", m.Cycles).
		Error("err", err).
		End()
	return err
}

// next moves to the following instruction.
func (m *Machine) next() { m.PC += 2 }

// skipIf skips the following instruction if cond holds.
func (m *Machine) skipIf(cond bool) {
	if cond {
		m.PC += 4
	} else {
		m.PC += 2
	}
}

// checkRange verifies that the n bytes starting at addr are addressable.
func (m *Machine) checkRange(op string, addr, n int) error {
	if addr+n > MemSize {
		return &AddrError{PC: m.PC, Addr: max(addr, MemSize), Op: op}
	}
	return nil
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
