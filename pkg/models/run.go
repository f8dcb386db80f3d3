package models

import (
	"time"
)

// RunOptions represents one comparison run configuration.
type RunOptions struct {
	ID          string
	VanillaRoot string
	ModdedRoot  string

	// ExcludePatterns are glob patterns skipped on both sides
	ExcludePatterns []string

	// OutputDir is where a synthesized patch is staged; empty disables
	// synthesis and the run reports verdicts only
	OutputDir string

	// MaxBytecodeDiffLines caps bytecode diff output per verdict
	MaxBytecodeDiffLines int

	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// Validate checks if the run configuration is valid.
func (op *RunOptions) Validate() error {
	if op.VanillaRoot == "" {
		return &ValidationError{Field: "VanillaRoot", Message: "vanilla root is required"}
	}
	if op.ModdedRoot == "" {
		return &ValidationError{Field: "ModdedRoot", Message: "modded root is required"}
	}
	if op.MaxBytecodeDiffLines < 0 {
		return &ValidationError{Field: "MaxBytecodeDiffLines", Message: "must not be negative"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
