package hw

import (
	"testing"

	"github.com/go-faster/jx"
	"github.com/google/go-cmp/cmp"

	"chipper/hw/snapshot"
)

func TestState(t *testing.T) {
	m := loadMachine(t,
		0x6A42, // LD VA, $42
		0xA050, // LD I, $050
		0xD0A5, // DRW V0, VA, 5
		0x2300, // CALL $300
	)
	m.DT = 20
	if err := m.Run(4); err != nil {
		t.Fatal(err)
	}

	s := m.State()
	if s.Version != snapshot.Version {
		t.Errorf("Version = %d, want %d", s.Version, snapshot.Version)
	}
	if s.PC != 0x300 || s.SP != 1 || s.Stack[0] != 0x206 || s.I != 0x050 || s.V[0xA] != 0x42 {
		t.Errorf("got PC=%04X SP=%d Stack[0]=%04X I=%04X VA=%02X", s.PC, s.SP, s.Stack[0], s.I, s.V[0xA])
	}
	if s.DT != 16 || s.Cycles != 4 {
		t.Errorf("got DT=%d Cycles=%d, want 16 and 4", s.DT, s.Cycles)
	}
	if s.Screen != m.Screen {
		t.Errorf("screen differs from the machine")
	}

	// The snapshot doesn't alias machine memory.
	s.Mem[0x200] = 0xFF
	if m.Mem[0x200] != 0x6A {
		t.Errorf("modifying the snapshot modified the machine memory")
	}
}

func TestStateMarshal(t *testing.T) {
	m := loadMachine(t, 0x6001, 0x6102)
	if err := m.Run(2); err != nil {
		t.Fatal(err)
	}

	type decoded struct {
		version int
		memLen  int
		v       []uint8
		pc      uint16
		screen  int
		cycles  int64
	}
	var got decoded
	d := jx.DecodeBytes(m.State().Marshal())
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "version":
			got.version, err = d.Int()
		case "mem":
			var mem []byte
			mem, err = d.Base64()
			got.memLen = len(mem)
		case "v":
			err = d.Arr(func(d *jx.Decoder) error {
				v, err := d.UInt8()
				got.v = append(got.v, v)
				return err
			})
		case "pc":
			got.pc, err = d.UInt16()
		case "screen":
			err = d.Arr(func(d *jx.Decoder) error {
				got.screen++
				return d.Skip()
			})
		case "cycles":
			got.cycles, err = d.Int64()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	want := decoded{
		version: snapshot.Version,
		memLen:  MemSize,
		v:       []uint8{1, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		pc:      0x204,
		screen:  ScreenHeight,
		cycles:  2,
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(decoded{})); diff != "" {
		t.Errorf("decoded state mismatch (-want +got):\n%s", diff)
	}
}
