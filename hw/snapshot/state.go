// Package snapshot defines the exported view of the machine state, used to
// inspect a machine from the outside (state dumps, remote control).
package snapshot

import "github.com/go-faster/jx"

const Version = 1

type Machine struct {
	Version int

	Mem    []uint8 // whole memory, fontset included
	V      [16]uint8
	I      uint16
	PC     uint16
	Stack  [16]uint16
	SP     uint8
	DT, ST uint8
	Screen [32]uint64
	Cycles int64
}

// Encode writes s as a JSON object.
func (s *Machine) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("version")
	e.Int(s.Version)
	e.FieldStart("mem")
	e.Base64(s.Mem)
	e.FieldStart("v")
	e.ArrStart()
	for _, v := range s.V {
		e.UInt8(v)
	}
	e.ArrEnd()
	e.FieldStart("i")
	e.UInt16(s.I)
	e.FieldStart("pc")
	e.UInt16(s.PC)
	e.FieldStart("stack")
	e.ArrStart()
	for _, v := range s.Stack {
		e.UInt16(v)
	}
	e.ArrEnd()
	e.FieldStart("sp")
	e.UInt8(s.SP)
	e.FieldStart("dt")
	e.UInt8(s.DT)
	e.FieldStart("st")
	e.UInt8(s.ST)
	e.FieldStart("screen")
	e.ArrStart()
	for _, row := range s.Screen {
		e.UInt64(row)
	}
	e.ArrEnd()
	e.FieldStart("cycles")
	e.Int64(s.Cycles)
	e.ObjEnd()
}

// Marshal returns the JSON encoding of s.
func (s *Machine) Marshal() []byte {
	var e jx.Encoder
	s.Encode(&e)
	return e.Bytes()
}
