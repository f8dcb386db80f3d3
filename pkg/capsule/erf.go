package capsule

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/aurorakit/resdiff/pkg/resource"
)

// ERF V1.0 layout: 160-byte header, optional localized description block,
// key list (24 bytes per entry: resref, id, type), resource list (8 bytes
// per entry: offset, size), then resource data.

const (
	erfHeaderSize = 160
	erfKeySize    = 24
	erfResSize    = 8
)

func readERF(data []byte) (*Capsule, error) {
	if len(data) < erfHeaderSize {
		return nil, fmt.Errorf("%w: %d byte header", ErrTruncated, len(data))
	}
	fileType := string(data[0:4])
	switch fileType {
	case "ERF ", "MOD ", "SAV ":
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadSignature, fileType)
	}
	if string(data[4:8]) != "V1.0" {
		return nil, fmt.Errorf("%w: version %q", ErrBadSignature, string(data[4:8]))
	}

	le := binary.LittleEndian
	entryCount := int(le.Uint32(data[16:]))
	keyOff := int64(le.Uint32(data[24:]))
	resOff := int64(le.Uint32(data[28:]))

	if keyOff+int64(entryCount)*erfKeySize > int64(len(data)) {
		return nil, fmt.Errorf("%w: key list", ErrTruncated)
	}
	if resOff+int64(entryCount)*erfResSize > int64(len(data)) {
		return nil, fmt.Errorf("%w: resource list", ErrTruncated)
	}

	c := &Capsule{FileType: fileType, Entries: make([]Entry, 0, entryCount)}
	for i := 0; i < entryCount; i++ {
		key := data[keyOff+int64(i)*erfKeySize:]
		res := data[resOff+int64(i)*erfResSize:]

		dataOff := int64(le.Uint32(res))
		dataSize := int64(le.Uint32(res[4:]))
		if dataOff+dataSize > int64(len(data)) {
			return nil, fmt.Errorf("%w: entry %d data", ErrTruncated, i)
		}

		c.Entries = append(c.Entries, Entry{
			ResRef: resource.NewResRef(string(key[:16])),
			Type:   resource.TypeOfID(resource.TypeID(le.Uint16(key[20:]))),
			Data:   data[dataOff : dataOff+dataSize],
		})
	}
	return c, nil
}

func writeERF(c *Capsule) ([]byte, error) {
	le := binary.LittleEndian
	entryCount := len(c.Entries)

	keyOff := erfHeaderSize
	resOff := keyOff + entryCount*erfKeySize
	dataOff := resOff + entryCount*erfResSize

	var out bytes.Buffer
	out.WriteString(c.FileType)
	out.WriteString("V1.0")
	now := time.Now()
	for _, v := range []uint32{
		0,                    // language count
		0,                    // localized string size
		uint32(entryCount),   //
		erfHeaderSize,        // localized string offset (empty block)
		uint32(keyOff),       //
		uint32(resOff),       //
		uint32(now.Year() - 1900),
		uint32(now.YearDay() - 1),
		0xFFFFFFFF, // description strref
	} {
		binary.Write(&out, le, v)
	}
	out.Write(make([]byte, erfHeaderSize-out.Len()))

	for i, e := range c.Entries {
		var ref [16]byte
		copy(ref[:], string(e.ResRef))
		out.Write(ref[:])
		binary.Write(&out, le, uint32(i))
		binary.Write(&out, le, uint16(resource.IDOf(e.Type)))
		binary.Write(&out, le, uint16(0))
	}

	cursor := dataOff
	for _, e := range c.Entries {
		binary.Write(&out, le, uint32(cursor))
		binary.Write(&out, le, uint32(len(e.Data)))
		cursor += len(e.Data)
	}
	for _, e := range c.Entries {
		out.Write(e.Data)
	}

	return out.Bytes(), nil
}
