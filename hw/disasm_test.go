package hw

import (
	"testing"
)

func TestDisasmOpcode(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{0x00E0, "CLS"},
		{0x00EE, "RET"},
		{0x0123, "DW $0123"},
		{0x1ABC, "JP $ABC"},
		{0x2300, "CALL $300"},
		{0x3A42, "SE VA, $42"},
		{0x4B07, "SNE VB, $07"},
		{0x5120, "SE V1, V2"},
		{0x6F00, "LD VF, $00"},
		{0x7C01, "ADD VC, $01"},
		{0x8120, "LD V1, V2"},
		{0x8121, "OR V1, V2"},
		{0x8122, "AND V1, V2"},
		{0x8123, "XOR V1, V2"},
		{0x8124, "ADD V1, V2"},
		{0x8125, "SUB V1, V2"},
		{0x8126, "SHR V1"},
		{0x8127, "SUBN V1, V2"},
		{0x812E, "SHL V1"},
		{0x8128, "DW $8128"},
		{0x9120, "SNE V1, V2"},
		{0xA123, "LD I, $123"},
		{0xB300, "JP V0, $300"},
		{0xC3FF, "RND V3, $FF"},
		{0xD125, "DRW V1, V2, $5"},
		{0xE29E, "SKP V2"},
		{0xE2A1, "SKNP V2"},
		{0xE2A2, "DW $E2A2"},
		{0xF307, "LD V3, DT"},
		{0xF30A, "LD V3, K"},
		{0xF315, "LD DT, V3"},
		{0xF318, "LD ST, V3"},
		{0xF31E, "ADD I, V3"},
		{0xF329, "LD F, V3"},
		{0xF333, "LD B, V3"},
		{0xF355, "LD [I], V3"},
		{0xF365, "LD V3, [I]"},
		{0xF366, "DW $F366"},
	}
	for _, tt := range tests {
		mn, oper := DisasmOpcode(tt.op)
		got := DisasmOp{Mnemonic: mn, Oper: oper}.String()
		if got != tt.want {
			t.Errorf("DisasmOpcode(%s) = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestDisasm(t *testing.T) {
	mem := []uint8{0x00, 0xE0, 0xA2, 0x2A, 0x60}

	d := Disasm(mem, 2)
	if d.PC != 2 || d.Opcode != 0xA22A || d.Mnemonic != LD || d.Oper != "I, $22A" {
		t.Errorf("Disasm(mem, 2) = %+v", d)
	}

	// Last byte is read as the high byte of a word whose low byte is 0.
	d = Disasm(mem, 4)
	if d.Opcode != 0x6000 || d.String() != "LD V0, $00" {
		t.Errorf("Disasm(mem, 4) = %+v", d)
	}
}

func TestMnemonicString(t *testing.T) {
	tests := map[Mnemonic]string{
		DW:   "DW",
		CLS:  "CLS",
		SUBN: "SUBN",
		SKNP: "SKNP",
	}
	for mn, want := range tests {
		if mn.String() != want {
			t.Errorf("%d.String() = %q, want %q", mn, mn.String(), want)
		}
	}
	if got := Mnemonic(200).String(); got != "Mnemonic(200)" {
		t.Errorf("out of range mnemonic = %q", got)
	}
}

func BenchmarkDisasmOpcode(b *testing.B) {
	for i := range b.N {
		DisasmOpcode(Opcode(i))
	}
}
