// Package tlk implements the talk-table string format ("TLK V3.0"): a flat
// array of numbered entries holding localized text and an optional voice
// resource reference.
package tlk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/aurorakit/resdiff/pkg/format/internal/wintext"
	"github.com/aurorakit/resdiff/pkg/models"
	"github.com/aurorakit/resdiff/pkg/resource"
)

// Version is the supported on-disk format version.
const Version = "V3.0"

// Entry flag bits.
const (
	FlagTextPresent   = 0x1
	FlagSoundPresent  = 0x2
	FlagLengthPresent = 0x4
)

var (
	// ErrBadSignature indicates a payload that is not a talk table
	ErrBadSignature = errors.New("tlk: bad signature")
	// ErrTruncated indicates the payload ends before a declared structure
	ErrTruncated = errors.New("tlk: truncated data")
)

// Entry is one talk-table string.
type Entry struct {
	Flags       uint32
	Text        string
	Sound       resource.ResRef
	SoundLength float64
}

// Table is a parsed talk table.
type Table struct {
	// LanguageID is the numeric language of the table
	LanguageID uint32
	Entries    []Entry
}

// New returns an empty talk table.
func New() *Table {
	return &Table{}
}

// Add appends an entry with text and optional voice reference, returning
// its index.
func (t *Table) Add(text string, sound resource.ResRef) int {
	flags := uint32(FlagTextPresent)
	if sound != "" {
		flags |= FlagSoundPresent
	}
	t.Entries = append(t.Entries, Entry{Flags: flags, Text: text, Sound: sound})
	return len(t.Entries) - 1
}

const headerSize = 20
const entrySize = 40

// Read parses a binary payload into a Table.
func Read(data []byte) (*Table, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d byte header", ErrTruncated, len(data))
	}
	if string(data[0:4]) != "TLK " || string(data[4:8]) != Version {
		return nil, fmt.Errorf("%w: %q", ErrBadSignature, string(data[0:8]))
	}

	le := binary.LittleEndian
	t := &Table{LanguageID: le.Uint32(data[8:])}
	count := int(le.Uint32(data[12:]))
	stringsOff := int64(le.Uint32(data[16:]))

	if int64(headerSize)+int64(count)*entrySize > int64(len(data)) {
		return nil, fmt.Errorf("%w: %d entries", ErrTruncated, count)
	}

	t.Entries = make([]Entry, count)
	for i := 0; i < count; i++ {
		raw := data[headerSize+i*entrySize:]
		e := Entry{Flags: le.Uint32(raw)}
		e.Sound = resource.NewResRef(string(raw[4:20]))
		textOff := stringsOff + int64(le.Uint32(raw[28:]))
		textSize := int64(le.Uint32(raw[32:]))
		e.SoundLength = float64(math.Float32frombits(le.Uint32(raw[36:])))
		if textSize > 0 {
			if textOff+textSize > int64(len(data)) {
				return nil, fmt.Errorf("%w: entry %d text", ErrTruncated, i)
			}
			e.Text = wintext.Decode(data[textOff : textOff+textSize])
		}
		t.Entries[i] = e
	}

	return t, nil
}

// Write serializes a Table back to its binary form.
func Write(t *Table) ([]byte, error) {
	le := binary.LittleEndian

	var out bytes.Buffer
	out.WriteString("TLK ")
	out.WriteString(Version)
	binary.Write(&out, le, t.LanguageID)
	binary.Write(&out, le, uint32(len(t.Entries)))
	binary.Write(&out, le, uint32(headerSize+len(t.Entries)*entrySize))

	var blob bytes.Buffer
	for _, e := range t.Entries {
		enc := wintext.Encode(e.Text)
		binary.Write(&out, le, e.Flags)
		var sound [16]byte
		copy(sound[:], string(e.Sound))
		out.Write(sound[:])
		binary.Write(&out, le, uint32(0)) // volume variance, unused
		binary.Write(&out, le, uint32(0)) // pitch variance, unused
		binary.Write(&out, le, uint32(blob.Len()))
		binary.Write(&out, le, uint32(len(enc)))
		binary.Write(&out, le, math.Float32bits(float32(e.SoundLength)))
		blob.Write(enc)
	}
	out.Write(blob.Bytes())

	return out.Bytes(), nil
}

// Compare compares two talk tables entry by entry. Delta paths are
// "index/text" and "index/sound".
func (t *Table) Compare(other *Table) (bool, []models.DeltaEntry) {
	var deltas []models.DeltaEntry

	if len(t.Entries) != len(other.Entries) {
		deltas = append(deltas, models.DeltaEntry{
			Path: "(entries)",
			Old:  strconv.Itoa(len(t.Entries)),
			New:  strconv.Itoa(len(other.Entries)),
		})
	}

	n := min(len(t.Entries), len(other.Entries))
	for i := 0; i < n; i++ {
		oe, ne := t.Entries[i], other.Entries[i]
		if oe.Text != ne.Text {
			deltas = append(deltas, models.DeltaEntry{
				Path: fmt.Sprintf("%d/text", i), Old: oe.Text, New: ne.Text,
			})
		}
		if oe.Sound != ne.Sound {
			deltas = append(deltas, models.DeltaEntry{
				Path: fmt.Sprintf("%d/sound", i), Old: string(oe.Sound), New: string(ne.Sound),
			})
		}
	}
	for i := n; i < len(other.Entries); i++ {
		deltas = append(deltas, models.DeltaEntry{
			Path: fmt.Sprintf("%d/text", i), Old: "(missing)", New: other.Entries[i].Text,
		})
	}
	for i := n; i < len(t.Entries); i++ {
		deltas = append(deltas, models.DeltaEntry{
			Path: fmt.Sprintf("%d/text", i), Old: t.Entries[i].Text, New: "(missing)",
		})
	}

	return len(deltas) == 0, deltas
}
