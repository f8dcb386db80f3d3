package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/aurorakit/resdiff/pkg/models"
	"github.com/aurorakit/resdiff/pkg/patch"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct {
	writer    io.Writer
	startTime time.Time
}

// JSONReportData represents the final report data
type JSONReportData struct {
	RunID       string            `json:"run_id"`
	VanillaRoot string            `json:"vanilla_root"`
	ModdedRoot  string            `json:"modded_root"`
	Status      string            `json:"status"`
	Duration    string            `json:"duration"`
	DurationMs  int64             `json:"duration_ms"`
	Stats       JSONStatsData     `json:"stats"`
	Verdicts    []JSONVerdictData `json:"verdicts,omitempty"`
	Warnings    []JSONWarningData `json:"warnings,omitempty"`
	Patch       *JSONPatchData    `json:"patch,omitempty"`
}

// JSONVerdictData represents one non-identical verdict
type JSONVerdictData struct {
	Identifier string             `json:"identifier"`
	Kind       string             `json:"kind"`
	Outcome    string             `json:"outcome"`
	Reason     string             `json:"reason,omitempty"`
	Error      string             `json:"error,omitempty"`
	Delta      []models.DeltaEntry `json:"delta,omitempty"`
	Lines      []string           `json:"lines,omitempty"`
}

// JSONWarningData represents a recoverable failure
type JSONWarningData struct {
	Identifier  string `json:"identifier"`
	VanillaPath string `json:"vanilla_path,omitempty"`
	ModdedPath  string `json:"modded_path,omitempty"`
	Message     string `json:"message"`
}

// JSONStatsData represents statistics in JSON format
type JSONStatsData struct {
	ResourcesScanned int   `json:"resources_scanned"`
	Identical        int   `json:"identical"`
	Modified         int   `json:"modified"`
	MissingInVanilla int   `json:"missing_in_vanilla"`
	RemovedInModded  int   `json:"removed_in_modded"`
	Errors           int   `json:"errors"`
	BytesScanned     int64 `json:"bytes_scanned"`
}

// JSONPatchData summarizes the synthesized patch
type JSONPatchData struct {
	Installs      []JSONInstallData      `json:"installs,omitempty"`
	Modifications []JSONModificationData `json:"modifications,omitempty"`
}

// JSONInstallData represents one install directive
type JSONInstallData struct {
	Destination string `json:"destination"`
	Filename    string `json:"filename"`
}

// JSONModificationData represents one modification directive
type JSONModificationData struct {
	Family         string `json:"family"`
	Kind           string `json:"kind"`
	Destination    string `json:"destination"`
	SourceFilename string `json:"source_filename"`
	Edits          int    `json:"edits"`
	FreshInstall   bool   `json:"fresh_install,omitempty"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, vanillaRoot, moddedRoot string) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.startTime = time.Now()
	return nil
}

// Verdict accumulates nothing; the full verdict list is emitted with the
// final report to keep the output a single parseable document.
func (f *JSONFormatter) Verdict(v *models.Verdict) error {
	return nil
}

// Complete finalizes output and displays the report as JSON
func (f *JSONFormatter) Complete(report *models.DiffReport, p *patch.Patch) error {
	if f.writer == nil {
		f.writer = io.Discard
	}

	var verdicts []JSONVerdictData
	for _, v := range report.Verdicts {
		if v.Outcome == models.OutcomeIdentical {
			continue
		}
		vd := JSONVerdictData{
			Identifier: v.Identifier,
			Kind:       string(v.Kind),
			Outcome:    string(v.Outcome),
			Reason:     v.Reason,
			Delta:      v.Delta,
			Lines:      v.Lines,
		}
		if v.Err != nil {
			vd.Error = v.Err.Error()
		}
		verdicts = append(verdicts, vd)
	}

	var warnings []JSONWarningData
	for _, w := range report.Warnings {
		warnings = append(warnings, JSONWarningData{
			Identifier:  w.Identifier,
			VanillaPath: w.VanillaPath,
			ModdedPath:  w.ModdedPath,
			Message:     w.Message,
		})
	}

	reportData := JSONReportData{
		RunID:       report.RunID,
		VanillaRoot: report.VanillaRoot,
		ModdedRoot:  report.ModdedRoot,
		Status:      string(report.Status),
		Duration:    report.Duration.Round(time.Millisecond).String(),
		DurationMs:  report.Duration.Milliseconds(),
		Stats: JSONStatsData{
			ResourcesScanned: report.Stats.ResourcesScanned,
			Identical:        report.Stats.Identical,
			Modified:         report.Stats.Modified,
			MissingInVanilla: report.Stats.MissingInVanilla,
			RemovedInModded:  report.Stats.RemovedInModded,
			Errors:           report.Stats.Errors,
			BytesScanned:     report.Stats.BytesScanned,
		},
		Verdicts: verdicts,
		Warnings: warnings,
	}

	if p != nil {
		pd := &JSONPatchData{}
		for _, inst := range p.Installs {
			pd.Installs = append(pd.Installs, JSONInstallData{
				Destination: inst.Dest,
				Filename:    inst.Name,
			})
		}
		for _, m := range p.Modifications {
			pd.Modifications = append(pd.Modifications, JSONModificationData{
				Family:         m.Family.String(),
				Kind:           string(m.Kind),
				Destination:    m.Dest,
				SourceFilename: m.SourceFilename,
				Edits:          len(m.Edits),
				FreshInstall:   m.FreshInstall,
			})
		}
		reportData.Patch = pd
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reportData)
}

// Error reports an error
func (f *JSONFormatter) Error(err error) error {
	if f.writer == nil {
		f.writer = os.Stderr
	}
	return json.NewEncoder(f.writer).Encode(map[string]string{
		"type":  "error",
		"error": err.Error(),
	})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
