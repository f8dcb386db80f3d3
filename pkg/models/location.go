package models

// Location identifies where in an installation's resolution order a
// resource was found. The game resolves resources by priority: Override
// always wins, then mutable per-module containers, then read-only module
// container groups, then the base-game archive.
type Location string

const (
	// LocationOverride is the loose-file override folder, highest priority
	LocationOverride Location = "override"
	// LocationModuleMod is a mutable per-module .mod container
	LocationModuleMod Location = "module-mod"
	// LocationModuleReadOnly is an immutable per-module container group
	LocationModuleReadOnly Location = "module-readonly"
	// LocationChitin is the base-game immutable bulk archive
	LocationChitin Location = "chitin"
	// LocationUnknown means no explicit location tag is available and
	// destination resolution must fall back to path inference
	LocationUnknown Location = "unknown"
)

// Priority returns the resolution priority of the location; higher values
// shadow lower ones. Unknown sorts below everything.
func (l Location) Priority() int {
	switch l {
	case LocationOverride:
		return 4
	case LocationModuleMod:
		return 3
	case LocationModuleReadOnly:
		return 2
	case LocationChitin:
		return 1
	default:
		return 0
	}
}

// Valid reports whether l is one of the four recognized location tags.
func (l Location) Valid() bool {
	return l.Priority() > 0
}
