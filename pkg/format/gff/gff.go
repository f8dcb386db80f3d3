// Package gff implements the binary structured-field-tree format used by
// the game's template, dialog and area resources. A file is a tree of
// structs holding labeled fields; fields hold scalars, strings, localized
// strings, raw blobs, nested structs or ordered lists of structs.
package gff

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is the only supported on-disk format version.
const Version = "V3.2"

// FieldType enumerates the on-disk field value types.
type FieldType uint32

const (
	TypeByte FieldType = iota
	TypeChar
	TypeWord
	TypeShort
	TypeDWord
	TypeInt
	TypeDWord64
	TypeInt64
	TypeFloat
	TypeDouble
	TypeString
	TypeResRef
	TypeLocString
	TypeVoid
	TypeStruct
	TypeList
	TypeOrientation
	TypeVector
)

// String returns the field type name.
func (t FieldType) String() string {
	names := [...]string{
		"Byte", "Char", "Word", "Short", "DWord", "Int", "DWord64",
		"Int64", "Float", "Double", "String", "ResRef", "LocString",
		"Void", "Struct", "List", "Orientation", "Vector",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("FieldType(%d)", uint32(t))
}

// Root is a parsed file: a four-character content type plus the top-level
// struct.
type Root struct {
	// FileType is the four-character content tag, e.g. "UTC " or "GFF "
	FileType string

	// Top is the root struct
	Top *Struct
}

// Struct is one struct node: a numeric type id plus ordered labeled fields.
type Struct struct {
	ID     uint32
	Fields []*Field
}

// Field returns the field with the given label, or nil.
func (s *Struct) Field(label string) *Field {
	for _, f := range s.Fields {
		if f.Label == label {
			return f
		}
	}
	return nil
}

// Set replaces the field with the same label or appends a new one.
func (s *Struct) Set(f *Field) {
	for i, existing := range s.Fields {
		if existing.Label == f.Label {
			s.Fields[i] = f
			return
		}
	}
	s.Fields = append(s.Fields, f)
}

// LocSub is one language-specific string inside a localized string.
type LocSub struct {
	// ID encodes language and gender
	ID   uint32
	Text string
}

// LocString is a localized string: an optional talk-table reference plus
// zero or more embedded language strings.
type LocString struct {
	// StrRef is the talk-table index, -1 when absent
	StrRef  int32
	Strings []LocSub
}

// Field is one labeled value. Exactly one value member is meaningful,
// selected by Type.
type Field struct {
	Label string
	Type  FieldType

	Uint   uint64     // Byte, Word, DWord, DWord64
	Int    int64      // Char, Short, Int, Int64
	Float  float64    // Float, Double
	Str    string     // String, ResRef
	Loc    *LocString // LocString
	Data   []byte     // Void
	Struct *Struct    // Struct
	List   []*Struct  // List
	Vec    [4]float64 // Orientation (4), Vector (3)
}

// ValueString renders the field value for delta reporting.
func (f *Field) ValueString() string {
	switch f.Type {
	case TypeByte, TypeWord, TypeDWord, TypeDWord64:
		return strconv.FormatUint(f.Uint, 10)
	case TypeChar, TypeShort, TypeInt, TypeInt64:
		return strconv.FormatInt(f.Int, 10)
	case TypeFloat, TypeDouble:
		return strconv.FormatFloat(f.Float, 'g', -1, 64)
	case TypeString, TypeResRef:
		return f.Str
	case TypeLocString:
		if f.Loc == nil {
			return ""
		}
		parts := make([]string, 0, len(f.Loc.Strings)+1)
		parts = append(parts, fmt.Sprintf("strref=%d", f.Loc.StrRef))
		for _, s := range f.Loc.Strings {
			parts = append(parts, fmt.Sprintf("%d:%q", s.ID, s.Text))
		}
		return strings.Join(parts, " ")
	case TypeVoid:
		return fmt.Sprintf("void[%d]", len(f.Data))
	case TypeStruct:
		return fmt.Sprintf("struct(%d)", f.Struct.ID)
	case TypeList:
		return fmt.Sprintf("list[%d]", len(f.List))
	case TypeOrientation:
		return fmt.Sprintf("(%g, %g, %g, %g)", f.Vec[0], f.Vec[1], f.Vec[2], f.Vec[3])
	case TypeVector:
		return fmt.Sprintf("(%g, %g, %g)", f.Vec[0], f.Vec[1], f.Vec[2])
	}
	return ""
}

// New returns an empty file with the given four-character content tag.
// Tags shorter than four characters are space padded.
func New(fileType string) *Root {
	for len(fileType) < 4 {
		fileType += " "
	}
	return &Root{FileType: fileType[:4], Top: &Struct{ID: 0xFFFFFFFF}}
}
