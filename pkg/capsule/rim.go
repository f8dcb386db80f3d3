package capsule

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/aurorakit/resdiff/pkg/resource"
)

// RIM V1.0 layout: 120-byte header, entry table (32 bytes per entry:
// resref, numeric type, id, offset, size), then resource data. RIMs are
// the read-only counterpart of ERF capsules.

const (
	rimHeaderSize = 120
	rimEntrySize  = 32
)

func readRIM(data []byte) (*Capsule, error) {
	if len(data) < rimHeaderSize {
		return nil, fmt.Errorf("%w: %d byte header", ErrTruncated, len(data))
	}
	if string(data[0:4]) != "RIM " || string(data[4:8]) != "V1.0" {
		return nil, fmt.Errorf("%w: %q", ErrBadSignature, string(data[0:8]))
	}

	le := binary.LittleEndian
	entryCount := int(le.Uint32(data[12:]))
	tableOff := int64(le.Uint32(data[16:]))

	if tableOff+int64(entryCount)*rimEntrySize > int64(len(data)) {
		return nil, fmt.Errorf("%w: entry table", ErrTruncated)
	}

	c := &Capsule{FileType: "RIM ", Entries: make([]Entry, 0, entryCount)}
	for i := 0; i < entryCount; i++ {
		raw := data[tableOff+int64(i)*rimEntrySize:]
		dataOff := int64(le.Uint32(raw[24:]))
		dataSize := int64(le.Uint32(raw[28:]))
		if dataOff+dataSize > int64(len(data)) {
			return nil, fmt.Errorf("%w: entry %d data", ErrTruncated, i)
		}
		c.Entries = append(c.Entries, Entry{
			ResRef: resource.NewResRef(string(raw[:16])),
			Type:   resource.TypeOfID(resource.TypeID(le.Uint32(raw[16:]))),
			Data:   data[dataOff : dataOff+dataSize],
		})
	}
	return c, nil
}

func writeRIM(c *Capsule) ([]byte, error) {
	le := binary.LittleEndian
	entryCount := len(c.Entries)
	dataOff := rimHeaderSize + entryCount*rimEntrySize

	var out bytes.Buffer
	out.WriteString("RIM ")
	out.WriteString("V1.0")
	binary.Write(&out, le, uint32(0)) // flags
	binary.Write(&out, le, uint32(entryCount))
	binary.Write(&out, le, uint32(rimHeaderSize))
	out.Write(make([]byte, rimHeaderSize-out.Len()))

	cursor := dataOff
	for i, e := range c.Entries {
		var ref [16]byte
		copy(ref[:], string(e.ResRef))
		out.Write(ref[:])
		binary.Write(&out, le, uint32(resource.IDOf(e.Type)))
		binary.Write(&out, le, uint32(i))
		binary.Write(&out, le, uint32(cursor))
		binary.Write(&out, le, uint32(len(e.Data)))
		cursor += len(e.Data)
	}
	for _, e := range c.Entries {
		out.Write(e.Data)
	}

	return out.Bytes(), nil
}
