package hw

import (
	"bytes"
	"testing"
)

// loadMachine returns a machine with the given instructions loaded at
// ProgramStart.
func loadMachine(tb testing.TB, prog ...uint16) *Machine {
	tb.Helper()

	buf := make([]byte, 0, 2*len(prog))
	for _, op := range prog {
		buf = append(buf, uint8(op>>8), uint8(op))
	}
	m := NewMachine()
	if err := m.LoadProgram(buf); err != nil {
		tb.Fatalf("load program: %s", err)
	}
	if testing.Verbose() {
		m.SetTraceOutput(tbwriter{tb}, TraceText)
	}
	return m
}

// fixedRand is a RandSource always returning the same value.
type fixedRand int

func (r fixedRand) IntN(n int) int { return int(r) % n }

// runAndCheckState executes n instructions then checks the machine state
// against name/value pairs, for example "V3", uint8(0x10), "PC", uint16(0x204).
func runAndCheckState(t *testing.T, m *Machine, n int64, states ...any) {
	t.Helper()

	if len(states)%2 != 0 {
		panic("odd number of states")
	}

	if err := m.Run(n); err != nil {
		t.Fatalf("run: %s", err)
	}

	checkuint8 := func(name string, got, want uint8) {
		t.Helper()
		if got != want {
			t.Errorf("got %s=$%02X, want $%02X", name, got, want)
		}
	}
	checkuint16 := func(name string, got, want uint16) {
		t.Helper()
		if got != want {
			t.Errorf("got %s=$%04X, want $%04X", name, got, want)
		}
	}

	for i := 0; i < len(states); i += 2 {
		s := states[i].(string)
		switch {
		case s == "PC":
			checkuint16("PC", m.PC, states[i+1].(uint16))
		case s == "I":
			checkuint16("I", m.I, states[i+1].(uint16))
		case s == "SP":
			checkuint8("SP", m.SP, states[i+1].(uint8))
		case s == "DT":
			checkuint8("DT", m.DT, states[i+1].(uint8))
		case s == "ST":
			checkuint8("ST", m.ST, states[i+1].(uint8))
		case s == "redraw":
			if got, want := m.NeedsRedraw(), states[i+1].(bool); got != want {
				t.Errorf("got redraw=%t, want %t", got, want)
			}
		case len(s) == 2 && s[0] == 'V':
			r := hexDigit(s[1])
			checkuint8(s, m.V[r], states[i+1].(uint8))
		default:
			panic("unknown state: " + s)
		}
	}

	if t.Failed() {
		t.FailNow()
	}
}

func hexDigit(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	panic("invalid hex digit: " + string(c))
}

func wantMem(t *testing.T, m *Machine, addr uint16, want ...uint8) {
	t.Helper()

	got := m.Mem[addr : int(addr)+len(want)]
	if !bytes.Equal(got, want) {
		t.Errorf("mem at $%03X = % X, want % X", addr, got, want)
	}
}

type tbwriter struct {
	testing.TB
}

func (t tbwriter) Write(p []byte) (int, error) {
	t.TB.Helper()
	t.TB.Log(string(bytes.TrimSpace(p)))
	return len(p), nil
}
