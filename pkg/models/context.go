package models

import (
	"github.com/aurorakit/resdiff/pkg/resource"
)

// DiffContext carries the per-comparison-unit inputs the engine and the
// synthesizer need. It is constructed fresh for each comparison and not
// mutated afterwards except for destination fields filled in during
// synthesis.
type DiffContext struct {
	// VanillaPath is the vanilla-side relative path of the unit
	VanillaPath string

	// ModdedPath is the modded-side relative path of the unit
	ModdedPath string

	// Kind is the normalized resource type
	Kind resource.Type

	// ResourceName is set when the unit is a resource inside a container
	// rather than a loose file
	ResourceName string

	// VanillaLocation is the vanilla-side resolution location
	VanillaLocation Location

	// ModdedLocation is the modded-side resolution location
	ModdedLocation Location

	// ModdedPhysicalPath is the concrete path the modded resource was
	// found at, needed to name the correct .mod-style destination
	ModdedPhysicalPath string

	// SkipDevSources silently treats developer-only source files as
	// identical; set only for whole-installation comparisons
	SkipDevSources bool
}

// SourceFilename returns the vanilla-relative filename a patch should use
// as its base. For in-container resources this is the resource name.
func (c *DiffContext) SourceFilename() string {
	if c.ResourceName != "" {
		return c.ResourceName
	}
	return c.VanillaPath
}
