package hw

import (
	"fmt"
	"io"

	"github.com/go-faster/jx"
)

// TraceFormat selects the execution trace encoding.
type TraceFormat uint8

const (
	TraceText TraceFormat = iota // one fixed-width line per instruction
	TraceJSON                    // one JSON object per line
)

// ParseTraceFormat converts a format name, "text" or "json".
func ParseTraceFormat(s string) (TraceFormat, error) {
	switch s {
	case "", "text":
		return TraceText, nil
	case "json":
		return TraceJSON, nil
	}
	return 0, fmt.Errorf("unknown trace format %q", s)
}

func (f TraceFormat) String() string {
	if f == TraceJSON {
		return "json"
	}
	return "text"
}

type tracer interface {
	trace(m *Machine, op Opcode)
}

// SetTraceOutput enables execution tracing to w, or disables it if w is nil.
// Each instruction is traced before being executed.
func (m *Machine) SetTraceOutput(w io.Writer, format TraceFormat) {
	switch {
	case w == nil:
		m.tracer = nil
	case format == TraceJSON:
		m.tracer = &jsonTracer{w: w}
	default:
		m.tracer = &textTracer{w: w}
	}
}

// cpuState is the machine state recorded in execution traces.
type cpuState struct {
	PC     uint16
	Opcode Opcode
	V      [NumRegs]uint8
	I      uint16
	SP     uint8
	DT, ST uint8
	Cycles int64
}

func stateOf(m *Machine, op Opcode) cpuState {
	return cpuState{
		PC:     m.PC,
		Opcode: op,
		V:      m.V,
		I:      m.I,
		SP:     m.SP,
		DT:     m.DT,
		ST:     m.ST,
		Cycles: m.Cycles,
	}
}

type textTracer struct {
	w   io.Writer
	buf []byte
}

func (t *textTracer) trace(m *Machine, op Opcode) {
	t.buf = t.write(t.buf[:0], stateOf(m, op))
	t.w.Write(t.buf)
}

func (t *textTracer) write(buf []byte, s cpuState) []byte {
	mn, oper := DisasmOpcode(s.Opcode)
	dis := DisasmOp{Mnemonic: mn, Oper: oper}

	return fmt.Appendf(buf, "%04X  %02X %02X  %-18s V:%X I:%04X SP:%X DT:%02X ST:%02X CYC:%d\n",
		s.PC, uint8(s.Opcode>>8), uint8(s.Opcode), dis.String(),
		s.V[:], s.I, s.SP, s.DT, s.ST, s.Cycles)
}

type jsonTracer struct {
	w io.Writer
	e jx.Encoder
}

func (t *jsonTracer) trace(m *Machine, op Opcode) {
	t.e.Reset()
	t.encode(stateOf(m, op))
	t.w.Write(append(t.e.Bytes(), '\n'))
}

func (t *jsonTracer) encode(s cpuState) {
	mn, oper := DisasmOpcode(s.Opcode)
	dis := DisasmOp{Mnemonic: mn, Oper: oper}

	e := &t.e
	e.ObjStart()
	e.FieldStart("cyc")
	e.Int64(s.Cycles)
	e.FieldStart("pc")
	e.Int(int(s.PC))
	e.FieldStart("op")
	e.Str(s.Opcode.String())
	e.FieldStart("asm")
	e.Str(dis.String())
	e.FieldStart("v")
	e.ArrStart()
	for _, v := range s.V {
		e.Int(int(v))
	}
	e.ArrEnd()
	e.FieldStart("i")
	e.Int(int(s.I))
	e.FieldStart("sp")
	e.Int(int(s.SP))
	e.FieldStart("dt")
	e.Int(int(s.DT))
	e.FieldStart("st")
	e.Int(int(s.ST))
	e.ObjEnd()
}
