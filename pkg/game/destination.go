package game

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/aurorakit/resdiff/pkg/capsule"
	"github.com/aurorakit/resdiff/pkg/logging"
	"github.com/aurorakit/resdiff/pkg/models"
)

// DestinationOverride is the folder token for the loose-file override
// folder, the only writable location that shadows everything.
const DestinationOverride = "override"

// Resolver computes the destination folder a patch must target for a
// resource, from the modded side's resolution location.
type Resolver struct {
	log logging.Logger
}

// NewResolver creates a destination resolver.
func NewResolver(log logging.Logger) *Resolver {
	if log == nil {
		log = logging.NewNullLogger()
	}
	return &Resolver{log: log}
}

// Destination applies the destination rules in their fixed order. The rule
// order is load-bearing: later rules are only reached when earlier
// explicit tags are absent.
//
//  1. Override resources patch into the override folder.
//  2. Mutable .mod capsules are patched directly.
//  3. Read-only module groups cannot be modified in place; the patch
//     targets a .mod bearing the module's stem, which always shadows them.
//  4. The base-game archive can never be targeted; override is the only
//     writable shadow.
//  5. Without an explicit tag, infer from path segments.
//
// An unrecognized tag logs a warning and falls through to inference.
func (r *Resolver) Destination(loc models.Location, physicalPath string, trace *Trace) string {
	switch loc {
	case models.LocationOverride:
		trace.Addf("destination: override (override location)")
		return DestinationOverride
	case models.LocationModuleMod:
		dest := "modules/" + filepath.Base(physicalPath)
		trace.Addf("destination: %s (mutable module capsule)", dest)
		return dest
	case models.LocationModuleReadOnly:
		dest := "modules/" + capsule.FamilyRoot(filepath.Base(physicalPath)) + ".mod"
		trace.Addf("destination: %s (shadowing read-only module group)", dest)
		return dest
	case models.LocationChitin:
		trace.Addf("destination: override (base archive is immutable)")
		return DestinationOverride
	case models.LocationUnknown, "":
	default:
		r.log.Warn(context.Background(), "unknown location tag, inferring from path",
			logging.Fields{"location": string(loc), "path": physicalPath})
	}
	return r.Infer(physicalPath, trace)
}

// Infer derives a destination from path segments alone, for callers
// without installation awareness. Segment checks are case-insensitive.
func (r *Resolver) Infer(path string, trace *Trace) string {
	segments := strings.Split(filepath.ToSlash(path), "/")

	for _, seg := range segments {
		if strings.EqualFold(seg, "override") {
			trace.Addf("destination: override (override path segment)")
			return DestinationOverride
		}
	}

	// A capsule segment means the resource lives inside a module file.
	for _, seg := range segments {
		switch strings.ToLower(filepath.Ext(seg)) {
		case ".mod":
			dest := "modules/" + seg
			trace.Addf("destination: %s (capsule path segment)", dest)
			return dest
		case ".rim", ".erf":
			dest := "modules/" + capsule.FamilyRoot(seg) + ".mod"
			trace.Addf("destination: %s (read-only capsule path segment)", dest)
			return dest
		}
	}

	for _, seg := range segments {
		switch strings.ToLower(seg) {
		case "chitin", "bif", "data":
			trace.Addf("destination: override (base archive path segment)")
			return DestinationOverride
		}
	}

	trace.Addf("destination: override (default)")
	return DestinationOverride
}
