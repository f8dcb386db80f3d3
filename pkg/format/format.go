// Package format binds the per-format codecs to the comparison families
// the diff engine dispatches on. Each codec satisfies one contract: parse
// bytes into a structured value, serialize a value back to bytes, and
// compare two values field by field. Adding a format means implementing
// these three operations and registering the codec under its family.
package format

import (
	"errors"
	"fmt"

	"github.com/aurorakit/resdiff/pkg/models"
	"github.com/aurorakit/resdiff/pkg/resource"
)

// Value is a parsed structured resource. Concrete types live in the
// per-format subpackages; codecs only ever see values they produced.
type Value any

// ErrWrongValue indicates a value handed to a codec that did not produce it.
var ErrWrongValue = errors.New("format: value belongs to a different codec")

// Codec is the three-operation contract every registered format provides.
type Codec interface {
	// Parse decodes a binary payload into a structured value
	Parse(data []byte) (Value, error)

	// Serialize encodes a structured value back to bytes
	Serialize(v Value) ([]byte, error)

	// Empty returns a pristine instance of the format, used as the base
	// when synthesizing a modification for a freshly installed file
	Empty() Value

	// Compare structurally compares two values of this format
	Compare(old, new Value) (bool, []models.DeltaEntry, error)

	// Name returns the codec name for logging
	Name() string
}

// Registry resolves comparison families to codecs. It is populated once at
// construction; lookups never mutate it.
type Registry struct {
	codecs map[resource.Family]Codec
}

// NewRegistry returns a registry with every built-in codec registered.
func NewRegistry() *Registry {
	return &Registry{codecs: map[resource.Family]Codec{
		resource.FamilyStructured:  gffCodec{},
		resource.FamilyTabular:     twodaCodec{},
		resource.FamilyStringTable: tlkCodec{},
		resource.FamilySoundSet:    ssfCodec{},
	}}
}

// Lookup returns the codec for a family, if one is registered.
func (r *Registry) Lookup(f resource.Family) (Codec, bool) {
	c, ok := r.codecs[f]
	return c, ok
}

// ForType returns the codec for a resource type, if its family has one.
func (r *Registry) ForType(t resource.Type) (Codec, bool) {
	return r.Lookup(resource.FamilyOf(t))
}

func wrongValue(codec string, v Value) error {
	return fmt.Errorf("%w: %s got %T", ErrWrongValue, codec, v)
}
