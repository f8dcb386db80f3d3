// Package ssf implements the sound-set format ("SSF V1.1"): a fixed array
// of talk-table references, one per named character sound slot.
package ssf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"

	"github.com/aurorakit/resdiff/pkg/models"
)

// Version is the supported on-disk format version.
const Version = "V1.1"

// SlotCount is the number of engine sound slots.
const SlotCount = 28

// tableSize is the padded on-disk table length; unused tail entries hold
// the unset marker.
const tableSize = 40

// Unset marks a slot with no assigned talk-table entry.
const Unset = int32(-1)

var (
	// ErrBadSignature indicates a payload that is not a sound set
	ErrBadSignature = errors.New("ssf: bad signature")
	// ErrTruncated indicates the payload ends before the slot table
	ErrTruncated = errors.New("ssf: truncated data")
)

// slotNames names the engine sound slots in table order.
var slotNames = [SlotCount]string{
	"battlecry1", "battlecry2", "battlecry3",
	"battlecry4", "battlecry5", "battlecry6",
	"select1", "select2", "select3",
	"attackgrunt1", "attackgrunt2", "attackgrunt3",
	"paingrunt1", "paingrunt2",
	"lowhealth", "dead", "criticalhit", "targetimmune",
	"laymine", "disarmmine", "beginstealth", "beginsearch",
	"beginunlock", "unlockfailed", "unlocksuccess",
	"separated", "rejoined", "poisoned",
}

// SlotName returns the name of slot i for reporting.
func SlotName(i int) string {
	if i >= 0 && i < SlotCount {
		return slotNames[i]
	}
	return "slot" + strconv.Itoa(i)
}

// SoundSet is a parsed sound set: a talk-table reference per slot.
type SoundSet struct {
	Slots [SlotCount]int32
}

// New returns a sound set with every slot unset.
func New() *SoundSet {
	s := &SoundSet{}
	for i := range s.Slots {
		s.Slots[i] = Unset
	}
	return s
}

const headerSize = 12

// Read parses a binary payload into a SoundSet.
func Read(data []byte) (*SoundSet, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d byte header", ErrTruncated, len(data))
	}
	if string(data[0:4]) != "SSF " || string(data[4:8]) != Version {
		return nil, fmt.Errorf("%w: %q", ErrBadSignature, string(data[0:8]))
	}

	le := binary.LittleEndian
	tableOff := int(le.Uint32(data[8:]))
	if tableOff+SlotCount*4 > len(data) {
		return nil, fmt.Errorf("%w: slot table at %d", ErrTruncated, tableOff)
	}

	s := New()
	for i := 0; i < SlotCount; i++ {
		s.Slots[i] = int32(le.Uint32(data[tableOff+i*4:]))
	}
	return s, nil
}

// Write serializes a SoundSet back to its binary form.
func Write(s *SoundSet) ([]byte, error) {
	le := binary.LittleEndian

	var out bytes.Buffer
	out.WriteString("SSF ")
	out.WriteString(Version)
	binary.Write(&out, le, uint32(headerSize))
	for _, ref := range s.Slots {
		binary.Write(&out, le, uint32(ref))
	}
	for i := SlotCount; i < tableSize; i++ {
		binary.Write(&out, le, Unset)
	}
	return out.Bytes(), nil
}

// Compare compares every named slot's assigned reference. Delta paths are
// slot names.
func (s *SoundSet) Compare(other *SoundSet) (bool, []models.DeltaEntry) {
	var deltas []models.DeltaEntry
	for i := 0; i < SlotCount; i++ {
		if s.Slots[i] != other.Slots[i] {
			deltas = append(deltas, models.DeltaEntry{
				Path: SlotName(i),
				Old:  strconv.FormatInt(int64(s.Slots[i]), 10),
				New:  strconv.FormatInt(int64(other.Slots[i]), 10),
			})
		}
	}
	return len(deltas) == 0, deltas
}
