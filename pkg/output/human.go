package output

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/aurorakit/resdiff/pkg/models"
	"github.com/aurorakit/resdiff/pkg/patch"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer   io.Writer
	progress *progressBar
	useBar   bool

	modified  *color.Color
	missing   *color.Color
	removed   *color.Color
	errored   *color.Color
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(progress bool) *HumanFormatter {
	return &HumanFormatter{
		useBar:   progress,
		modified: color.New(color.FgYellow),
		missing:  color.New(color.FgGreen),
		removed:  color.New(color.FgRed),
		errored:  color.New(color.FgRed, color.Bold),
	}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, vanillaRoot, moddedRoot string) error {
	f.writer = writer
	if writer != nil {
		fmt.Fprintf(writer, "Comparing %s against %s\n", moddedRoot, vanillaRoot)
		if f.useBar {
			f.progress = newProgressBar(writer)
		}
	}
	return nil
}

// Verdict reports one verdict; identical outcomes only advance the
// progress counter.
func (f *HumanFormatter) Verdict(v *models.Verdict) error {
	if f.progress != nil {
		f.progress.Tick()
	}
	if f.writer == nil || v.Outcome == models.OutcomeIdentical {
		return nil
	}

	line := func(c *color.Color, marker string) {
		if f.progress != nil {
			f.progress.Interrupt(func() {
				fmt.Fprintf(f.writer, "%s %s (%s)\n", c.Sprint(marker), v.Identifier, v.Reason)
			})
			return
		}
		fmt.Fprintf(f.writer, "%s %s (%s)\n", c.Sprint(marker), v.Identifier, v.Reason)
	}

	switch v.Outcome {
	case models.OutcomeModified:
		line(f.modified, "~")
	case models.OutcomeMissingInVanilla:
		line(f.missing, "+")
	case models.OutcomeRemovedInModded:
		line(f.removed, "-")
	case models.OutcomeError:
		line(f.errored, "!")
	}
	return nil
}

// Complete finalizes output and displays summary
func (f *HumanFormatter) Complete(report *models.DiffReport, p *patch.Patch) error {
	if f.progress != nil {
		f.progress.Finish()
	}
	if f.writer == nil {
		f.writer = io.Discard
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Comparison completed in %s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Summary:\n")
	fmt.Fprintf(f.writer, "  Resources scanned:  %d (%s)\n",
		report.Stats.ResourcesScanned, formatBytes(report.Stats.BytesScanned))
	fmt.Fprintf(f.writer, "  Identical:          %d\n", report.Stats.Identical)
	fmt.Fprintf(f.writer, "  Modified:           %d\n", report.Stats.Modified)
	fmt.Fprintf(f.writer, "  Missing in vanilla: %d\n", report.Stats.MissingInVanilla)
	fmt.Fprintf(f.writer, "  Removed in modded:  %d\n", report.Stats.RemovedInModded)
	fmt.Fprintf(f.writer, "  Errors:             %d\n", report.Stats.Errors)

	if p != nil {
		fmt.Fprintf(f.writer, "\n")
		fmt.Fprintf(f.writer, "Patch:\n")
		fmt.Fprintf(f.writer, "  Install directives: %d\n", len(p.Installs))
		fmt.Fprintf(f.writer, "  Modifications:      %d\n", len(p.Modifications))
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintf(f.writer, "\nWarnings:\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(f.writer, "  %s: %s\n", w.Identifier, w.Message)
		}
	}

	fmt.Fprintf(f.writer, "\nStatus: %s\n", report.Status)
	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	if f.progress != nil {
		f.progress.Finish()
		f.progress = nil
	}
	if f.writer != nil {
		fmt.Fprintf(f.writer, "Error: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
