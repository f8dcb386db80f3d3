package twoda

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrBadVersion indicates an unrecognized header line
	ErrBadVersion = errors.New("2da: unsupported version")
	// ErrTruncated indicates the payload ends before a declared structure
	ErrTruncated = errors.New("2da: truncated data")
)

// Read parses a binary payload into a Table.
//
// Layout: version line, tab-terminated column headers ended by NUL, row
// count, tab-terminated row labels, uint16 cell offsets (one per cell plus
// a trailing data-block size), NUL-terminated cell data.
func Read(data []byte) (*Table, error) {
	if len(data) < len(Version)+1 {
		return nil, fmt.Errorf("%w: %d byte header", ErrTruncated, len(data))
	}
	if string(data[:len(Version)]) != Version {
		return nil, fmt.Errorf("%w: %q", ErrBadVersion, string(data[:min(len(data), len(Version))]))
	}
	cursor := len(Version)
	if data[cursor] == '\n' {
		cursor++
	}

	t := &Table{}

	// Column headers, tab terminated, list ends at NUL.
	for {
		if cursor >= len(data) {
			return nil, fmt.Errorf("%w: column headers", ErrTruncated)
		}
		if data[cursor] == 0 {
			cursor++
			break
		}
		tab := bytes.IndexByte(data[cursor:], '\t')
		if tab < 0 {
			return nil, fmt.Errorf("%w: unterminated column header", ErrTruncated)
		}
		t.Columns = append(t.Columns, string(data[cursor:cursor+tab]))
		cursor += tab + 1
	}

	if cursor+4 > len(data) {
		return nil, fmt.Errorf("%w: row count", ErrTruncated)
	}
	rowCount := int(binary.LittleEndian.Uint32(data[cursor:]))
	cursor += 4

	for i := 0; i < rowCount; i++ {
		tab := bytes.IndexByte(data[cursor:], '\t')
		if tab < 0 {
			return nil, fmt.Errorf("%w: row label %d", ErrTruncated, i)
		}
		t.RowLabels = append(t.RowLabels, string(data[cursor:cursor+tab]))
		cursor += tab + 1
	}

	cellCount := rowCount * len(t.Columns)
	if cursor+(cellCount+1)*2 > len(data) {
		return nil, fmt.Errorf("%w: cell offsets", ErrTruncated)
	}
	offsets := make([]uint16, cellCount)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint16(data[cursor:])
		cursor += 2
	}
	// Trailing uint16 holds the data block size; the block itself follows.
	cursor += 2
	blob := data[cursor:]

	t.Cells = make([][]string, rowCount)
	for r := 0; r < rowCount; r++ {
		t.Cells[r] = make([]string, len(t.Columns))
		for c := range t.Columns {
			off := int(offsets[r*len(t.Columns)+c])
			if off >= len(blob) && !(off == 0 && len(blob) == 0) {
				return nil, fmt.Errorf("%w: cell (%d,%d) offset %d", ErrTruncated, r, c, off)
			}
			end := bytes.IndexByte(blob[off:], 0)
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated cell (%d,%d)", ErrTruncated, r, c)
			}
			t.Cells[r][c] = string(blob[off : off+end])
		}
	}

	return t, nil
}

// Write serializes a Table back to its binary form. Identical cell values
// share one data-block entry.
func Write(t *Table) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.WriteString(Version)
	out.WriteByte('\n')

	for _, c := range t.Columns {
		out.WriteString(c)
		out.WriteByte('\t')
	}
	out.WriteByte(0)

	binary.Write(&out, binary.LittleEndian, uint32(len(t.RowLabels)))
	for _, l := range t.RowLabels {
		out.WriteString(l)
		out.WriteByte('\t')
	}

	var blob bytes.Buffer
	seen := make(map[string]uint16)
	offsetOf := func(v string) (uint16, error) {
		if off, ok := seen[v]; ok {
			return off, nil
		}
		if blob.Len()+len(v)+1 > 0xFFFF {
			return 0, fmt.Errorf("2da: cell data exceeds 64KiB block limit")
		}
		off := uint16(blob.Len())
		seen[v] = off
		blob.WriteString(v)
		blob.WriteByte(0)
		return off, nil
	}

	for _, row := range t.Cells {
		for _, cell := range row {
			off, err := offsetOf(cell)
			if err != nil {
				return nil, err
			}
			binary.Write(&out, binary.LittleEndian, off)
		}
	}
	binary.Write(&out, binary.LittleEndian, uint16(blob.Len()))
	out.Write(blob.Bytes())

	return out.Bytes(), nil
}
