package models

import (
	"time"
)

// DiffReport represents the results of one full comparison run.
type DiffReport struct {
	// Run details
	RunID       string
	VanillaRoot string
	ModdedRoot  string

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// Verdicts in the order they were produced
	Verdicts []*Verdict

	// Warnings holds recoverable per-resource failures
	Warnings []RunWarning

	// Overall status
	Status RunStatus
}

// Statistics holds comparison run metrics.
type Statistics struct {
	// Resources processed (unique identifiers)
	ResourcesScanned int
	Identical        int
	Modified         int
	MissingInVanilla int
	RemovedInModded  int
	Errors           int

	// Directives synthesized
	InstallDirectives int
	ModifyDirectives  int

	// Data volume
	BytesScanned int64
}

// Record folds one verdict into the tally.
func (s *Statistics) Record(v *Verdict) {
	s.ResourcesScanned++
	switch v.Outcome {
	case OutcomeIdentical:
		s.Identical++
	case OutcomeModified:
		s.Modified++
	case OutcomeMissingInVanilla:
		s.MissingInVanilla++
	case OutcomeRemovedInModded:
		s.RemovedInModded++
	case OutcomeError:
		s.Errors++
	}
}

// RunWarning records a recoverable failure with enough context to locate
// the offending resource.
type RunWarning struct {
	Identifier  string
	VanillaPath string
	ModdedPath  string
	Message     string
}

// RunStatus represents the overall result of a run.
type RunStatus string

const (
	// StatusSuccess indicates the run completed without errors
	StatusSuccess RunStatus = "success"
	// StatusPartial indicates some pairings produced error verdicts
	StatusPartial RunStatus = "partial"
	// StatusFailed indicates the run aborted before completion
	StatusFailed RunStatus = "failed"
)

// ExitCode returns the appropriate process exit code for the run status.
func (s RunStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	default:
		return 2
	}
}

// Finalize computes duration and status from the tally.
func (r *DiffReport) Finalize() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	if r.Stats.Errors > 0 {
		r.Status = StatusPartial
	} else {
		r.Status = StatusSuccess
	}
}
