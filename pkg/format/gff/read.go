package gff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/aurorakit/resdiff/pkg/format/internal/wintext"
)

var (
	// ErrBadVersion indicates an unrecognized format version
	ErrBadVersion = errors.New("gff: unsupported version")
	// ErrTruncated indicates the payload ends before a declared structure
	ErrTruncated = errors.New("gff: truncated data")
	// ErrCorrupt indicates an internally inconsistent offset table
	ErrCorrupt = errors.New("gff: corrupt offset table")
)

const headerSize = 56

type header struct {
	fileType          string
	structOffset      uint32
	structCount       uint32
	fieldOffset       uint32
	fieldCount        uint32
	labelOffset       uint32
	labelCount        uint32
	fieldDataOffset   uint32
	fieldDataCount    uint32
	fieldIndicesOff   uint32
	fieldIndicesBytes uint32
	listIndicesOff    uint32
	listIndicesBytes  uint32
}

type decoder struct {
	data   []byte
	hdr    header
	labels []string

	// structs are decoded on demand; visiting guards against index cycles
	visiting map[uint32]bool
}

// Read parses a binary payload into a Root.
func Read(data []byte) (*Root, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d byte header", ErrTruncated, len(data))
	}

	d := &decoder{data: data, visiting: make(map[uint32]bool)}

	d.hdr.fileType = string(data[0:4])
	if version := string(data[4:8]); version != Version {
		return nil, fmt.Errorf("%w: %q", ErrBadVersion, version)
	}

	le := binary.LittleEndian
	d.hdr.structOffset = le.Uint32(data[8:])
	d.hdr.structCount = le.Uint32(data[12:])
	d.hdr.fieldOffset = le.Uint32(data[16:])
	d.hdr.fieldCount = le.Uint32(data[20:])
	d.hdr.labelOffset = le.Uint32(data[24:])
	d.hdr.labelCount = le.Uint32(data[28:])
	d.hdr.fieldDataOffset = le.Uint32(data[32:])
	d.hdr.fieldDataCount = le.Uint32(data[36:])
	d.hdr.fieldIndicesOff = le.Uint32(data[40:])
	d.hdr.fieldIndicesBytes = le.Uint32(data[44:])
	d.hdr.listIndicesOff = le.Uint32(data[48:])
	d.hdr.listIndicesBytes = le.Uint32(data[52:])

	if err := d.readLabels(); err != nil {
		return nil, err
	}

	top, err := d.readStruct(0)
	if err != nil {
		return nil, err
	}

	return &Root{FileType: d.hdr.fileType, Top: top}, nil
}

func (d *decoder) readLabels() error {
	end := int64(d.hdr.labelOffset) + int64(d.hdr.labelCount)*16
	if end > int64(len(d.data)) {
		return fmt.Errorf("%w: label table", ErrTruncated)
	}
	d.labels = make([]string, d.hdr.labelCount)
	for i := uint32(0); i < d.hdr.labelCount; i++ {
		raw := d.data[d.hdr.labelOffset+i*16 : d.hdr.labelOffset+i*16+16]
		end := 0
		for end < 16 && raw[end] != 0 {
			end++
		}
		d.labels[i] = string(raw[:end])
	}
	return nil
}

func (d *decoder) readStruct(index uint32) (*Struct, error) {
	if index >= d.hdr.structCount {
		return nil, fmt.Errorf("%w: struct index %d of %d", ErrCorrupt, index, d.hdr.structCount)
	}
	if d.visiting[index] {
		return nil, fmt.Errorf("%w: struct cycle at index %d", ErrCorrupt, index)
	}
	d.visiting[index] = true
	defer delete(d.visiting, index)

	off := int64(d.hdr.structOffset) + int64(index)*12
	if off+12 > int64(len(d.data)) {
		return nil, fmt.Errorf("%w: struct entry", ErrTruncated)
	}

	le := binary.LittleEndian
	s := &Struct{ID: le.Uint32(d.data[off:])}
	dataOrOffset := le.Uint32(d.data[off+4:])
	fieldCount := le.Uint32(d.data[off+8:])

	switch {
	case fieldCount == 0:
	case fieldCount == 1:
		f, err := d.readField(dataOrOffset)
		if err != nil {
			return nil, err
		}
		s.Fields = []*Field{f}
	default:
		// dataOrOffset is a byte offset into the field-indices block
		base := int64(d.hdr.fieldIndicesOff) + int64(dataOrOffset)
		if base+int64(fieldCount)*4 > int64(len(d.data)) {
			return nil, fmt.Errorf("%w: field indices", ErrTruncated)
		}
		s.Fields = make([]*Field, 0, fieldCount)
		for i := uint32(0); i < fieldCount; i++ {
			fieldIndex := le.Uint32(d.data[base+int64(i)*4:])
			f, err := d.readField(fieldIndex)
			if err != nil {
				return nil, err
			}
			s.Fields = append(s.Fields, f)
		}
	}
	return s, nil
}

func (d *decoder) readField(index uint32) (*Field, error) {
	if index >= d.hdr.fieldCount {
		return nil, fmt.Errorf("%w: field index %d of %d", ErrCorrupt, index, d.hdr.fieldCount)
	}
	off := int64(d.hdr.fieldOffset) + int64(index)*12
	if off+12 > int64(len(d.data)) {
		return nil, fmt.Errorf("%w: field entry", ErrTruncated)
	}

	le := binary.LittleEndian
	fieldType := FieldType(le.Uint32(d.data[off:]))
	labelIndex := le.Uint32(d.data[off+4:])
	raw := le.Uint32(d.data[off+8:])

	if labelIndex >= uint32(len(d.labels)) {
		return nil, fmt.Errorf("%w: label index %d of %d", ErrCorrupt, labelIndex, len(d.labels))
	}

	f := &Field{Label: d.labels[labelIndex], Type: fieldType}

	switch fieldType {
	case TypeByte, TypeWord, TypeDWord:
		f.Uint = uint64(raw)
	case TypeChar:
		f.Int = int64(int8(raw))
	case TypeShort:
		f.Int = int64(int16(raw))
	case TypeInt:
		f.Int = int64(int32(raw))
	case TypeFloat:
		f.Float = float64(math.Float32frombits(raw))
	case TypeDWord64:
		b, err := d.fieldData(raw, 8)
		if err != nil {
			return nil, err
		}
		f.Uint = le.Uint64(b)
	case TypeInt64:
		b, err := d.fieldData(raw, 8)
		if err != nil {
			return nil, err
		}
		f.Int = int64(le.Uint64(b))
	case TypeDouble:
		b, err := d.fieldData(raw, 8)
		if err != nil {
			return nil, err
		}
		f.Float = math.Float64frombits(le.Uint64(b))
	case TypeString:
		b, err := d.fieldData(raw, 4)
		if err != nil {
			return nil, err
		}
		size := le.Uint32(b)
		b, err = d.fieldData(raw+4, int64(size))
		if err != nil {
			return nil, err
		}
		f.Str = wintext.Decode(b)
	case TypeResRef:
		b, err := d.fieldData(raw, 1)
		if err != nil {
			return nil, err
		}
		size := int64(b[0])
		b, err = d.fieldData(raw+1, size)
		if err != nil {
			return nil, err
		}
		f.Str = wintext.Decode(b)
	case TypeLocString:
		loc, err := d.readLocString(raw)
		if err != nil {
			return nil, err
		}
		f.Loc = loc
	case TypeVoid:
		b, err := d.fieldData(raw, 4)
		if err != nil {
			return nil, err
		}
		size := le.Uint32(b)
		b, err = d.fieldData(raw+4, int64(size))
		if err != nil {
			return nil, err
		}
		f.Data = append([]byte(nil), b...)
	case TypeStruct:
		child, err := d.readStruct(raw)
		if err != nil {
			return nil, err
		}
		f.Struct = child
	case TypeList:
		list, err := d.readList(raw)
		if err != nil {
			return nil, err
		}
		f.List = list
	case TypeOrientation:
		b, err := d.fieldData(raw, 16)
		if err != nil {
			return nil, err
		}
		for i := 0; i < 4; i++ {
			f.Vec[i] = float64(math.Float32frombits(le.Uint32(b[i*4:])))
		}
	case TypeVector:
		b, err := d.fieldData(raw, 12)
		if err != nil {
			return nil, err
		}
		for i := 0; i < 3; i++ {
			f.Vec[i] = float64(math.Float32frombits(le.Uint32(b[i*4:])))
		}
	default:
		return nil, fmt.Errorf("%w: field type %d", ErrCorrupt, fieldType)
	}

	return f, nil
}

// fieldData returns size bytes at offset within the field-data block.
func (d *decoder) fieldData(offset uint32, size int64) ([]byte, error) {
	base := int64(d.hdr.fieldDataOffset) + int64(offset)
	if base+size > int64(len(d.data)) || size < 0 {
		return nil, fmt.Errorf("%w: field data at %d+%d", ErrTruncated, offset, size)
	}
	return d.data[base : base+size], nil
}

func (d *decoder) readLocString(offset uint32) (*LocString, error) {
	le := binary.LittleEndian
	b, err := d.fieldData(offset, 12)
	if err != nil {
		return nil, err
	}
	loc := &LocString{StrRef: int32(le.Uint32(b[4:]))}
	count := le.Uint32(b[8:])

	cursor := offset + 12
	for i := uint32(0); i < count; i++ {
		b, err := d.fieldData(cursor, 8)
		if err != nil {
			return nil, err
		}
		id := le.Uint32(b)
		size := le.Uint32(b[4:])
		b, err = d.fieldData(cursor+8, int64(size))
		if err != nil {
			return nil, err
		}
		loc.Strings = append(loc.Strings, LocSub{ID: id, Text: wintext.Decode(b)})
		cursor += 8 + size
	}
	return loc, nil
}

func (d *decoder) readList(offset uint32) ([]*Struct, error) {
	le := binary.LittleEndian
	base := int64(d.hdr.listIndicesOff) + int64(offset)
	if base+4 > int64(len(d.data)) {
		return nil, fmt.Errorf("%w: list header", ErrTruncated)
	}
	count := le.Uint32(d.data[base:])
	if base+4+int64(count)*4 > int64(len(d.data)) {
		return nil, fmt.Errorf("%w: list indices", ErrTruncated)
	}

	list := make([]*Struct, 0, count)
	for i := uint32(0); i < count; i++ {
		structIndex := le.Uint32(d.data[base+4+int64(i)*4:])
		s, err := d.readStruct(structIndex)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}
