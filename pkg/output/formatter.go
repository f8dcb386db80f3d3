package output

import (
	"io"

	"github.com/aurorakit/resdiff/pkg/models"
	"github.com/aurorakit/resdiff/pkg/patch"
)

// Formatter defines the interface for output formatting
// Implementations include human-readable and JSON formatters
type Formatter interface {
	// Start initializes the formatter for a new comparison run
	Start(writer io.Writer, vanillaRoot, moddedRoot string) error

	// Verdict reports one verdict as the run produces it
	Verdict(v *models.Verdict) error

	// Complete finalizes output and displays the summary; p is nil when
	// no patch was synthesized
	Complete(report *models.DiffReport, p *patch.Patch) error

	// Error reports a run-level error
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter for a format name; unknown names fall back to
// the human formatter.
func New(format string, progress bool) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewHumanFormatter(progress)
	}
}
