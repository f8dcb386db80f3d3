// Package ncs lists instructions of compiled script bytecode ("NCS V1.0").
// It is a lister, not a virtual machine: it knows opcode names and operand
// sizes well enough to enumerate instructions for diff reporting.
package ncs

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

// Version is the supported on-disk format version.
const Version = "V1.0"

var (
	// ErrBadSignature indicates a payload that is not compiled bytecode
	ErrBadSignature = errors.New("ncs: bad signature")
	// ErrTruncated indicates the payload ends mid-instruction
	ErrTruncated = errors.New("ncs: truncated data")
	// ErrBadOpcode indicates an opcode the lister does not know
	ErrBadOpcode = errors.New("ncs: unknown opcode")
)

// Instruction is one decoded bytecode instruction.
type Instruction struct {
	Offset   int
	Opcode   byte
	Type     byte
	Operands []byte
}

// String renders the instruction as one stable line for diff reporting.
func (i Instruction) String() string {
	name, ok := opcodeNames[i.Opcode]
	if !ok {
		name = fmt.Sprintf("OP%02X", i.Opcode)
	}
	if len(i.Operands) == 0 {
		return fmt.Sprintf("%08x %s.%02x", i.Offset, name, i.Type)
	}
	return fmt.Sprintf("%08x %s.%02x %s", i.Offset, name, i.Type, hex.EncodeToString(i.Operands))
}

var opcodeNames = map[byte]string{
	0x01: "CPDOWNSP", 0x02: "RSADD", 0x03: "CPTOPSP", 0x04: "CONST",
	0x05: "ACTION", 0x06: "LOGAND", 0x07: "LOGOR", 0x08: "INCOR",
	0x09: "EXCOR", 0x0A: "BOOLAND", 0x0B: "EQUAL", 0x0C: "NEQUAL",
	0x0D: "GEQ", 0x0E: "GT", 0x0F: "LT", 0x10: "LEQ",
	0x11: "SHLEFT", 0x12: "SHRIGHT", 0x13: "USHRIGHT",
	0x14: "ADD", 0x15: "SUB", 0x16: "MUL", 0x17: "DIV", 0x18: "MOD",
	0x19: "NEG", 0x1A: "COMP", 0x1B: "MOVSP", 0x1D: "JMP", 0x1E: "JSR",
	0x1F: "JZ", 0x20: "RETN", 0x21: "DESTRUCT", 0x22: "NOTI",
	0x23: "DECISP", 0x24: "INCISP", 0x25: "JNZ", 0x26: "CPDOWNBP",
	0x27: "CPTOPBP", 0x28: "DECIBP", 0x29: "INCIBP", 0x2A: "SAVEBP",
	0x2B: "RESTOREBP", 0x2C: "STORESTATE", 0x2D: "NOP",
}

// operandSize returns the operand byte count for an opcode/type pair, or
// -1 when the pair is unknown. -2 marks string constants whose size is
// read from the stream.
func operandSize(opcode, typ byte) int {
	switch opcode {
	case 0x01, 0x03, 0x26, 0x27: // stack copies: offset + size
		return 6
	case 0x04: // CONST
		switch typ {
		case 0x03, 0x04, 0x06: // int, float, object
			return 4
		case 0x05: // string: u16 length prefix
			return -2
		}
		return -1
	case 0x05: // ACTION: routine + arg count
		return 3
	case 0x0B, 0x0C: // struct comparisons carry a size
		if typ == 0x24 {
			return 2
		}
		return 0
	case 0x1B, 0x1D, 0x1E, 0x1F, 0x23, 0x24, 0x25, 0x28, 0x29:
		return 4
	case 0x21: // DESTRUCT: total size, element offset, element size
		return 6
	case 0x2C: // STORESTATE: bp size + sp size
		return 8
	case 0x02, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0D, 0x0E, 0x0F, 0x10,
		0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18, 0x19, 0x1A,
		0x20, 0x22, 0x2A, 0x2B, 0x2D:
		return 0
	}
	return -1
}

const headerSize = 13

// List decodes every instruction in a bytecode payload. Bytecode is
// big-endian, unlike every other format in the toolset.
func List(data []byte) ([]Instruction, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d byte header", ErrTruncated, len(data))
	}
	if string(data[0:4]) != "NCS " || string(data[4:8]) != Version {
		return nil, fmt.Errorf("%w: %q", ErrBadSignature, string(data[0:8]))
	}
	// Byte 8 is the program-size marker, followed by the declared total
	// size. The size covers the whole file including the header.
	if data[8] != 0x42 {
		return nil, fmt.Errorf("%w: missing size marker", ErrBadSignature)
	}
	declared := int(binary.BigEndian.Uint32(data[9:]))
	if declared > len(data) {
		return nil, fmt.Errorf("%w: declared %d bytes, have %d", ErrTruncated, declared, len(data))
	}

	var out []Instruction
	cursor := headerSize
	for cursor < declared {
		if cursor+2 > declared {
			return nil, fmt.Errorf("%w: instruction header at %d", ErrTruncated, cursor)
		}
		opcode, typ := data[cursor], data[cursor+1]
		size := operandSize(opcode, typ)
		operandStart := cursor + 2

		switch size {
		case -1:
			return nil, fmt.Errorf("%w: %02x.%02x at %d", ErrBadOpcode, opcode, typ, cursor)
		case -2:
			if operandStart+2 > declared {
				return nil, fmt.Errorf("%w: string constant at %d", ErrTruncated, cursor)
			}
			size = 2 + int(binary.BigEndian.Uint16(data[operandStart:]))
		}

		if operandStart+size > declared {
			return nil, fmt.Errorf("%w: operands at %d", ErrTruncated, cursor)
		}
		out = append(out, Instruction{
			Offset:   cursor,
			Opcode:   opcode,
			Type:     typ,
			Operands: data[operandStart : operandStart+size],
		})
		cursor = operandStart + size
	}

	return out, nil
}

// Listing renders instructions one per line for line-based diffing.
func Listing(instructions []Instruction) []string {
	lines := make([]string, len(instructions))
	for i, ins := range instructions {
		lines[i] = ins.String()
	}
	return lines
}
