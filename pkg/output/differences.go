package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aurorakit/resdiff/pkg/models"
)

// WriteDifferencesReport writes the differences report to a file
// Format can be "human" or "json"
func WriteDifferencesReport(report *models.DiffReport, filepath string, format string) error {
	changed := 0
	for _, v := range report.Verdicts {
		if v.Outcome != models.OutcomeIdentical {
			changed++
		}
	}
	if changed == 0 {
		// No differences - don't create empty file
		return nil
	}

	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create differences file: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		f := NewJSONFormatter()
		_ = f.Start(file, report.VanillaRoot, report.ModdedRoot)
		return f.Complete(report, nil)
	default: // "human"
		return writeDifferencesHuman(report, file)
	}
}

// writeDifferencesHuman writes differences in human-readable format
func writeDifferencesHuman(report *models.DiffReport, w io.Writer) error {
	fmt.Fprintf(w, "Differences Report\n")
	fmt.Fprintf(w, "==================\n\n")
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Vanilla: %s\n", report.VanillaRoot)
	fmt.Fprintf(w, "Modded: %s\n\n", report.ModdedRoot)

	// Group by outcome
	byOutcome := make(map[models.Outcome][]*models.Verdict)
	total := 0
	for _, v := range report.Verdicts {
		if v.Outcome == models.OutcomeIdentical {
			continue
		}
		byOutcome[v.Outcome] = append(byOutcome[v.Outcome], v)
		total++
	}
	fmt.Fprintf(w, "Total Differences: %d\n\n", total)

	outcomeOrder := []models.Outcome{
		models.OutcomeError,
		models.OutcomeModified,
		models.OutcomeMissingInVanilla,
		models.OutcomeRemovedInModded,
	}

	outcomeLabels := map[models.Outcome]string{
		models.OutcomeError:            "Errors",
		models.OutcomeModified:         "Modified",
		models.OutcomeMissingInVanilla: "Missing in Vanilla",
		models.OutcomeRemovedInModded:  "Removed in Modded",
	}

	for _, outcome := range outcomeOrder {
		verdicts, exists := byOutcome[outcome]
		if !exists || len(verdicts) == 0 {
			continue
		}

		label := fmt.Sprintf("%s (%d resources)", outcomeLabels[outcome], len(verdicts))
		fmt.Fprintf(w, "%s\n", label)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", len(label)))

		for _, v := range verdicts {
			fmt.Fprintf(w, "  %s\n", v.Identifier)
			if v.Reason != "" {
				fmt.Fprintf(w, "    Reason: %s\n", v.Reason)
			}
			if v.Err != nil {
				fmt.Fprintf(w, "    Error: %s\n", v.Err)
			}
			for _, d := range v.Delta {
				fmt.Fprintf(w, "    %s: %q -> %q\n", d.Path, d.Old, d.New)
			}
			for _, line := range v.Lines {
				fmt.Fprintf(w, "    %s\n", line)
			}
			fmt.Fprintf(w, "\n")
		}

		fmt.Fprintf(w, "\n")
	}

	return nil
}
