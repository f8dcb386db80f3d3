package models

import (
	"github.com/aurorakit/resdiff/pkg/resource"
)

// Outcome categorizes the result of comparing one resource pairing.
type Outcome string

const (
	// OutcomeIdentical indicates both sides are structurally equal
	OutcomeIdentical Outcome = "identical"
	// OutcomeModified indicates both sides exist but differ
	OutcomeModified Outcome = "modified"
	// OutcomeMissingInVanilla indicates the resource exists only on the
	// modded side and needs an install directive
	OutcomeMissingInVanilla Outcome = "missing-in-vanilla"
	// OutcomeRemovedInModded indicates the resource exists only on the
	// vanilla side; no action is taken
	OutcomeRemovedInModded Outcome = "removed-in-modded"
	// OutcomeError indicates the pairing could not be compared
	OutcomeError Outcome = "error"
)

// DeltaEntry is one located structural difference. Path identifies the
// difference location in a family-specific way: a field path for
// structured resources, "row/column" for tabular, "index/field" for string
// tables, a slot name for sound sets, a line reference for text.
type DeltaEntry struct {
	Path string `json:"path"`
	Old  string `json:"old"`
	New  string `json:"new"`
}

// Verdict is the result of one (vanilla, modded) resource pairing.
// Exactly one verdict is produced per paired identifier.
type Verdict struct {
	// Identifier is the pairing key
	Identifier string

	// Kind is the normalized resource type
	Kind resource.Type

	// Outcome categorizes the result
	Outcome Outcome

	// Delta lists located differences for modified outcomes
	Delta []DeltaEntry

	// Lines holds unified-diff style output for line-based comparisons
	// (text resources and capped bytecode listings)
	Lines []string

	// Reason explains the outcome in one line
	Reason string

	// Err is set for error outcomes
	Err error

	// Context is the comparison context the verdict was produced under;
	// the synthesizer reads locations and paths from it
	Context *DiffContext

	// ModdedData retains the modded-side payload for outcomes that need
	// it downstream: install directives copy it, and fresh-install
	// modification synthesis parses it
	ModdedData []byte
}

// Changed reports whether the verdict requires a patch directive.
func (v *Verdict) Changed() bool {
	return v.Outcome == OutcomeModified || v.Outcome == OutcomeMissingInVanilla
}
