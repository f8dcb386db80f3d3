package resource

import (
	"path"
	"strings"
)

// Type is a normalized resource type tag derived from a file extension
// (lowercase, no leading dot), e.g. "utc", "2da", "tlk".
type Type string

// TypeFromPath derives the resource type from a file path or identifier.
// Unknown extensions still yield a Type; classification into comparison
// families happens separately.
func TypeFromPath(p string) Type {
	ext := path.Ext(strings.ReplaceAll(p, "\\", "/"))
	return Type(strings.ToLower(strings.TrimPrefix(ext, ".")))
}

// ResRef is a resource reference: the base name of a resource without
// extension, at most 16 characters, compared case-insensitively.
type ResRef string

// NewResRef normalizes a raw name into a ResRef.
func NewResRef(name string) ResRef {
	name = strings.ToLower(strings.TrimRight(name, "\x00"))
	if len(name) > MaxResRefLength {
		name = name[:MaxResRefLength]
	}
	return ResRef(name)
}

// MaxResRefLength is the fixed on-disk size of a resource reference.
const MaxResRefLength = 16

// Comparable is a uniform wrapper around one comparable resource produced
// by an enumeration pass. Identifier is the relative path for loose files,
// or "container/resref.ext" for in-container resources. Instances are
// immutable once produced.
type Comparable struct {
	// Identifier is the unique key within one enumeration pass
	Identifier string

	// Kind is the normalized type tag
	Kind Type

	// Data is the raw payload
	Data []byte
}

// Filename returns the last path element of the identifier.
func (c Comparable) Filename() string {
	return path.Base(strings.ReplaceAll(c.Identifier, "\\", "/"))
}

// InContainer reports whether the resource came from inside a container
// rather than from a loose file.
func (c Comparable) InContainer() bool {
	return strings.Contains(c.Identifier, "/") && IsCapsule(TypeFromPath(path.Dir(c.Identifier)))
}

// IsCapsule reports whether t names an archive-like container format.
func IsCapsule(t Type) bool {
	switch t {
	case "erf", "mod", "rim", "sav":
		return true
	}
	return false
}
