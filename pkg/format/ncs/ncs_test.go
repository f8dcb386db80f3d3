package ncs

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

// script assembles a bytecode payload from raw instruction bytes.
func script(instructions ...[]byte) []byte {
	var body []byte
	for _, ins := range instructions {
		body = append(body, ins...)
	}
	out := make([]byte, 0, headerSize+len(body))
	out = append(out, "NCS V1.0"...)
	out = append(out, 0x42)
	out = binary.BigEndian.AppendUint32(out, uint32(headerSize+len(body)))
	return append(out, body...)
}

func TestList(t *testing.T) {
	data := script(
		[]byte{0x04, 0x03, 0x00, 0x00, 0x00, 0x07}, // CONST int 7
		[]byte{0x05, 0x00, 0x01, 0x23, 0x01},       // ACTION 291, 1 arg
		[]byte{0x20, 0x00},                         // RETN
	)

	instructions, err := List(data)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(instructions) != 3 {
		t.Fatalf("got %d instructions, want 3", len(instructions))
	}

	wants := []struct {
		offset   int
		opcode   byte
		operands int
	}{
		{13, 0x04, 4},
		{19, 0x05, 3},
		{24, 0x20, 0},
	}
	for i, want := range wants {
		ins := instructions[i]
		if ins.Offset != want.offset || ins.Opcode != want.opcode || len(ins.Operands) != want.operands {
			t.Errorf("instruction %d = %+v, want offset %d opcode %#x operands %d",
				i, ins, want.offset, want.opcode, want.operands)
		}
	}
}

func TestList_StringConstant(t *testing.T) {
	// CONST string carries a u16 length prefix read from the stream.
	data := script(append([]byte{0x04, 0x05, 0x00, 0x05}, "hello"...))

	instructions, err := List(data)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(instructions) != 1 {
		t.Fatalf("got %d instructions, want 1", len(instructions))
	}
	if got := len(instructions[0].Operands); got != 7 {
		t.Errorf("operand bytes = %d, want 7", got)
	}
}

func TestList_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"Empty", nil, ErrTruncated},
		{"BadSignature", []byte("GFF V3.2\x42\x00\x00\x00\x0d"), ErrBadSignature},
		{"MissingSizeMarker", []byte("NCS V1.0\x00\x00\x00\x00\x0d"), ErrBadSignature},
		{"DeclaredBeyondPayload", []byte("NCS V1.0\x42\x00\x00\x00\xff"), ErrTruncated},
		{"UnknownOpcode", script([]byte{0xEE, 0x00}), ErrBadOpcode},
		{"TruncatedOperands", script([]byte{0x04, 0x03, 0x00}), ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := List(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("List() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInstructionString(t *testing.T) {
	ins := Instruction{Offset: 13, Opcode: 0x04, Type: 0x03, Operands: []byte{0, 0, 0, 7}}
	got := ins.String()
	if !strings.Contains(got, "CONST.03") || !strings.Contains(got, "00000007") {
		t.Errorf("String() = %q, want opcode name and hex operands", got)
	}

	unknown := Instruction{Opcode: 0xEE}
	if got := unknown.String(); !strings.Contains(got, "OPEE") {
		t.Errorf("String() = %q, want OPEE fallback", got)
	}
}

func TestListing(t *testing.T) {
	data := script(
		[]byte{0x2D, 0x00}, // NOP
		[]byte{0x20, 0x00}, // RETN
	)
	instructions, err := List(data)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	lines := Listing(instructions)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "NOP") || !strings.Contains(lines[1], "RETN") {
		t.Errorf("lines = %v", lines)
	}
}
