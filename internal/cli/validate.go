package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aurorakit/resdiff/internal/platform"
	"github.com/aurorakit/resdiff/pkg/config"
	"github.com/aurorakit/resdiff/pkg/models"
)

// validateDiffFlags validates the diff command flags
func validateDiffFlags() error {
	for _, p := range []string{diffFlags.Vanilla, diffFlags.Modded} {
		if err := platform.ValidatePath(p); err != nil {
			return err
		}
	}

	// Validate both roots exist
	if _, err := os.Stat(diffFlags.Vanilla); os.IsNotExist(err) {
		return fmt.Errorf("vanilla root does not exist: %s", diffFlags.Vanilla)
	}
	if _, err := os.Stat(diffFlags.Modded); os.IsNotExist(err) {
		return fmt.Errorf("modded root does not exist: %s", diffFlags.Modded)
	}

	// Validate output format
	validOutputs := map[string]bool{"human": true, "json": true}
	if !validOutputs[diffFlags.Output] {
		return fmt.Errorf("invalid output format: %s (valid: human, json)", diffFlags.Output)
	}
	if !validOutputs[diffFlags.ReportFormat] {
		return fmt.Errorf("invalid report format: %s (valid: human, json)", diffFlags.ReportFormat)
	}

	if diffFlags.MaxBytecode < 0 {
		return fmt.Errorf("invalid --max-bytecode-lines: %d", diffFlags.MaxBytecode)
	}

	// A patch staging dir nested inside either root would be walked on
	// the next run
	if diffFlags.PatchDir != "" {
		patchAbs, err := filepath.Abs(diffFlags.PatchDir)
		if err != nil {
			return fmt.Errorf("failed to resolve patch dir: %w", err)
		}
		for _, root := range []string{diffFlags.Vanilla, diffFlags.Modded} {
			rootAbs, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("failed to resolve root path: %w", err)
			}
			if isWithin(patchAbs, rootAbs) {
				return fmt.Errorf("patch dir cannot be inside a compared root: %s", patchAbs)
			}
		}
	}

	return nil
}

func isWithin(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config) {
	if len(diffFlags.Exclude) > 0 {
		cfg.Exclude = diffFlags.Exclude
	}

	if diffFlags.Output != "" {
		cfg.Output.Format = diffFlags.Output
	}

	if diffFlags.MaxBytecode > 0 {
		cfg.Diff.MaxBytecodeDiffLines = diffFlags.MaxBytecode
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}

// createRunOptions creates run options from configuration
func createRunOptions(cfg *config.Config) (*models.RunOptions, error) {
	opts := &models.RunOptions{
		ID:                   uuid.New().String(),
		VanillaRoot:          platform.NormalizePath(diffFlags.Vanilla),
		ModdedRoot:           platform.NormalizePath(diffFlags.Modded),
		ExcludePatterns:      cfg.Exclude,
		OutputDir:            diffFlags.PatchDir,
		MaxBytecodeDiffLines: cfg.Diff.MaxBytecodeDiffLines,
		CreatedAt:            time.Now(),
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return opts, nil
}
