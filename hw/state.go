package hw

import (
	"slices"

	"chipper/hw/snapshot"
)

// State returns a snapshot of the machine state. Keys aren't part of it,
// they belong to the host.
func (m *Machine) State() *snapshot.Machine {
	return &snapshot.Machine{
		Version: snapshot.Version,
		Mem:     slices.Clone(m.Mem[:]),
		V:       m.V,
		I:       m.I,
		PC:      m.PC,
		Stack:   m.Stack,
		SP:      m.SP,
		DT:      m.DT,
		ST:      m.ST,
		Screen:  m.Screen,
		Cycles:  m.Cycles,
	}
}
