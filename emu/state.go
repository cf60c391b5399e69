package emu

import (
	"os"

	"chipper/emu/log"
	"chipper/hw/snapshot"
)

// State returns a snapshot of the machine, taken between two cycles.
func (e *Emulator) State() *snapshot.Machine {
	e.mmu.Lock()
	defer e.mmu.Unlock()
	return e.Machine.State()
}

// DumpState writes the machine state as JSON to path.
func (e *Emulator) DumpState(path string) error {
	buf := e.State().Marshal()
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return err
	}
	log.ModEmu.InfoZ("State dumped").String("path", path).Int("size", len(buf)).End()
	return nil
}
