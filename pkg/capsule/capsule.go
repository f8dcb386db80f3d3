// Package capsule reads and writes the game's archive-like container
// formats: ERF-style capsules (.erf, .mod, .sav) and RIM capsules (.rim).
// A capsule bundles many named, typed resources in one file.
package capsule

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aurorakit/resdiff/pkg/resource"
)

var (
	// ErrBadSignature indicates a payload that is not a known capsule
	ErrBadSignature = errors.New("capsule: bad signature")
	// ErrTruncated indicates the payload ends before a declared structure
	ErrTruncated = errors.New("capsule: truncated data")
	// ErrNotCapsule indicates a path whose extension is not a capsule type
	ErrNotCapsule = errors.New("capsule: not a capsule file")
)

// Entry is one contained resource.
type Entry struct {
	ResRef resource.ResRef
	Type   resource.Type
	Data   []byte
}

// Name returns the entry's filename, "resref.ext".
func (e Entry) Name() string {
	return fmt.Sprintf("%s.%s", e.ResRef, e.Type)
}

// Capsule is a parsed container: the four-character content tag and the
// contained resources in file order.
type Capsule struct {
	// FileType is "ERF ", "MOD ", "SAV " or "RIM "
	FileType string
	Entries  []Entry
}

// Find returns the entry with the given resref and type, or nil. Lookup is
// case-insensitive per engine rules.
func (c *Capsule) Find(ref resource.ResRef, t resource.Type) *Entry {
	for i := range c.Entries {
		if c.Entries[i].ResRef == ref && c.Entries[i].Type == t {
			return &c.Entries[i]
		}
	}
	return nil
}

// Decode parses capsule bytes, dispatching on the declared container kind.
func Decode(data []byte, kind resource.Type) (*Capsule, error) {
	switch kind {
	case "erf", "mod", "sav":
		return readERF(data)
	case "rim":
		return readRIM(data)
	}
	return nil, fmt.Errorf("%w: kind %q", ErrNotCapsule, kind)
}

// Open reads and parses a capsule file, dispatching on its extension.
func Open(path string) (*Capsule, error) {
	kind := resource.TypeFromPath(path)
	if !resource.IsCapsule(kind) {
		return nil, fmt.Errorf("%w: %s", ErrNotCapsule, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("capsule: read %s: %w", path, err)
	}
	c, err := Decode(data, kind)
	if err != nil {
		return nil, fmt.Errorf("capsule: parse %s: %w", path, err)
	}
	return c, nil
}

// Encode serializes a capsule, dispatching on its file type tag.
func Encode(c *Capsule) ([]byte, error) {
	switch strings.TrimSpace(c.FileType) {
	case "ERF", "MOD", "SAV":
		return writeERF(c)
	case "RIM":
		return writeRIM(c)
	}
	return nil, fmt.Errorf("%w: file type %q", ErrNotCapsule, c.FileType)
}
