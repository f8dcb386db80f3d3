package gff

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/aurorakit/resdiff/pkg/format/internal/wintext"
)

type structEntry struct {
	id           uint32
	dataOrOffset uint32
	fieldCount   uint32
}

type fieldEntry struct {
	fieldType    uint32
	labelIndex   uint32
	dataOrOffset uint32
}

type encoder struct {
	structs      []structEntry
	fields       []fieldEntry
	labels       []string
	labelIndex   map[string]uint32
	fieldData    bytes.Buffer
	fieldIndices bytes.Buffer
	listIndices  bytes.Buffer
}

// Write serializes a Root back to its binary form.
func Write(r *Root) ([]byte, error) {
	if r.Top == nil {
		return nil, fmt.Errorf("gff: nil top-level struct")
	}
	e := &encoder{labelIndex: make(map[string]uint32)}
	if _, err := e.addStruct(r.Top); err != nil {
		return nil, err
	}
	return e.assemble(r.FileType), nil
}

func (e *encoder) addStruct(s *Struct) (uint32, error) {
	index := uint32(len(e.structs))
	e.structs = append(e.structs, structEntry{id: s.ID})

	switch len(s.Fields) {
	case 0:
	case 1:
		fi, err := e.addField(s.Fields[0])
		if err != nil {
			return 0, err
		}
		e.structs[index].dataOrOffset = fi
		e.structs[index].fieldCount = 1
	default:
		indices := make([]uint32, 0, len(s.Fields))
		for _, f := range s.Fields {
			fi, err := e.addField(f)
			if err != nil {
				return 0, err
			}
			indices = append(indices, fi)
		}
		e.structs[index].dataOrOffset = uint32(e.fieldIndices.Len())
		e.structs[index].fieldCount = uint32(len(indices))
		for _, fi := range indices {
			binary.Write(&e.fieldIndices, binary.LittleEndian, fi)
		}
	}
	return index, nil
}

func (e *encoder) addField(f *Field) (uint32, error) {
	index := uint32(len(e.fields))
	entry := fieldEntry{fieldType: uint32(f.Type), labelIndex: e.label(f.Label)}
	e.fields = append(e.fields, entry)

	le := binary.LittleEndian
	var raw uint32

	switch f.Type {
	case TypeByte, TypeWord, TypeDWord:
		raw = uint32(f.Uint)
	case TypeChar, TypeShort, TypeInt:
		raw = uint32(int32(f.Int))
	case TypeFloat:
		raw = math.Float32bits(float32(f.Float))
	case TypeDWord64:
		raw = e.data(le.AppendUint64(nil, f.Uint))
	case TypeInt64:
		raw = e.data(le.AppendUint64(nil, uint64(f.Int)))
	case TypeDouble:
		raw = e.data(le.AppendUint64(nil, math.Float64bits(f.Float)))
	case TypeString:
		enc := wintext.Encode(f.Str)
		raw = e.data(append(le.AppendUint32(nil, uint32(len(enc))), enc...))
	case TypeResRef:
		enc := wintext.Encode(f.Str)
		if len(enc) > 255 {
			enc = enc[:255]
		}
		raw = e.data(append([]byte{byte(len(enc))}, enc...))
	case TypeLocString:
		raw = e.locString(f.Loc)
	case TypeVoid:
		raw = e.data(append(le.AppendUint32(nil, uint32(len(f.Data))), f.Data...))
	case TypeStruct:
		if f.Struct == nil {
			return 0, fmt.Errorf("gff: struct field %q without value", f.Label)
		}
		si, err := e.addStruct(f.Struct)
		if err != nil {
			return 0, err
		}
		raw = si
	case TypeList:
		indices := make([]uint32, 0, len(f.List))
		for _, child := range f.List {
			si, err := e.addStruct(child)
			if err != nil {
				return 0, err
			}
			indices = append(indices, si)
		}
		raw = uint32(e.listIndices.Len())
		binary.Write(&e.listIndices, le, uint32(len(indices)))
		for _, si := range indices {
			binary.Write(&e.listIndices, le, si)
		}
	case TypeOrientation:
		buf := make([]byte, 0, 16)
		for i := 0; i < 4; i++ {
			buf = le.AppendUint32(buf, math.Float32bits(float32(f.Vec[i])))
		}
		raw = e.data(buf)
	case TypeVector:
		buf := make([]byte, 0, 12)
		for i := 0; i < 3; i++ {
			buf = le.AppendUint32(buf, math.Float32bits(float32(f.Vec[i])))
		}
		raw = e.data(buf)
	default:
		return 0, fmt.Errorf("gff: cannot encode field type %s", f.Type)
	}

	e.fields[index].dataOrOffset = raw
	return index, nil
}

func (e *encoder) label(name string) uint32 {
	if i, ok := e.labelIndex[name]; ok {
		return i
	}
	i := uint32(len(e.labels))
	e.labels = append(e.labels, name)
	e.labelIndex[name] = i
	return i
}

// data appends raw bytes to the field-data block and returns their offset.
func (e *encoder) data(b []byte) uint32 {
	off := uint32(e.fieldData.Len())
	e.fieldData.Write(b)
	return off
}

func (e *encoder) locString(loc *LocString) uint32 {
	if loc == nil {
		loc = &LocString{StrRef: -1}
	}
	var body bytes.Buffer
	le := binary.LittleEndian
	binary.Write(&body, le, uint32(loc.StrRef))
	binary.Write(&body, le, uint32(len(loc.Strings)))
	for _, s := range loc.Strings {
		enc := wintext.Encode(s.Text)
		binary.Write(&body, le, s.ID)
		binary.Write(&body, le, uint32(len(enc)))
		body.Write(enc)
	}
	return e.data(append(le.AppendUint32(nil, uint32(body.Len())), body.Bytes()...))
}

func (e *encoder) assemble(fileType string) []byte {
	le := binary.LittleEndian
	for len(fileType) < 4 {
		fileType += " "
	}

	structsLen := len(e.structs) * 12
	fieldsLen := len(e.fields) * 12
	labelsLen := len(e.labels) * 16

	structOff := uint32(headerSize)
	fieldOff := structOff + uint32(structsLen)
	labelOff := fieldOff + uint32(fieldsLen)
	dataOff := labelOff + uint32(labelsLen)
	fieldIdxOff := dataOff + uint32(e.fieldData.Len())
	listIdxOff := fieldIdxOff + uint32(e.fieldIndices.Len())

	var out bytes.Buffer
	out.WriteString(fileType[:4])
	out.WriteString(Version)
	for _, v := range []uint32{
		structOff, uint32(len(e.structs)),
		fieldOff, uint32(len(e.fields)),
		labelOff, uint32(len(e.labels)),
		dataOff, uint32(e.fieldData.Len()),
		fieldIdxOff, uint32(e.fieldIndices.Len()),
		listIdxOff, uint32(e.listIndices.Len()),
	} {
		binary.Write(&out, le, v)
	}

	for _, s := range e.structs {
		binary.Write(&out, le, s.id)
		binary.Write(&out, le, s.dataOrOffset)
		binary.Write(&out, le, s.fieldCount)
	}
	for _, f := range e.fields {
		binary.Write(&out, le, f.fieldType)
		binary.Write(&out, le, f.labelIndex)
		binary.Write(&out, le, f.dataOrOffset)
	}
	for _, label := range e.labels {
		var raw [16]byte
		copy(raw[:], label)
		out.Write(raw[:])
	}
	out.Write(e.fieldData.Bytes())
	out.Write(e.fieldIndices.Bytes())
	out.Write(e.listIndices.Bytes())

	return out.Bytes()
}
