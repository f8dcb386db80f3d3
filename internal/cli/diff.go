package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aurorakit/resdiff/pkg/diff"
	"github.com/aurorakit/resdiff/pkg/logging"
	"github.com/aurorakit/resdiff/pkg/models"
	"github.com/aurorakit/resdiff/pkg/output"
	"github.com/aurorakit/resdiff/pkg/patch"
)

// DiffFlags holds diff command flags
type DiffFlags struct {
	Vanilla      string
	Modded       string
	Exclude      []string
	Output       string
	PatchDir     string
	Report       string
	ReportFormat string
	MaxBytecode  int
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var diffFlags DiffFlags

// NewDiffCommand creates the diff command
func NewDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare a modded game tree against a vanilla one",
		Long: `Compare two roots and report per-resource verdicts. Each root may be
a loose file, a capsule (.erf/.mod/.rim/.sav), a plain directory, or a
full game installation. With --patch-dir the differences are synthesized
into a replayable patch staging directory.`,
		RunE: runDiff,
	}

	// Required flags
	cmd.Flags().StringVarP(&diffFlags.Vanilla, "vanilla", "a", "", "vanilla root path (required)")
	cmd.Flags().StringVarP(&diffFlags.Modded, "modded", "b", "", "modded root path (required)")
	cmd.MarkFlagRequired("vanilla")
	cmd.MarkFlagRequired("modded")

	// Optional flags
	cmd.Flags().StringSliceVar(&diffFlags.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().StringVarP(&diffFlags.Output, "output", "o", "human", "output format: human, json")
	cmd.Flags().StringVarP(&diffFlags.PatchDir, "patch-dir", "p", "", "synthesize a patch into this staging directory")
	cmd.Flags().StringVar(&diffFlags.Report, "report", "", "write differences report to file")
	cmd.Flags().StringVar(&diffFlags.ReportFormat, "report-format", "human", "differences report format: human, json")
	cmd.Flags().IntVar(&diffFlags.MaxBytecode, "max-bytecode-lines", 0, "cap bytecode diff lines per resource (0 = default)")

	// Logging flags
	cmd.Flags().StringVar(&diffFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&diffFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&diffFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Validate flags
	if err := validateDiffFlags(); err != nil {
		return err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	applyFlagsToConfig(cfg)

	// Create run options
	opts, err := createRunOptions(cfg)
	if err != nil {
		return fmt.Errorf("failed to create run options: %w", err)
	}

	// Create logger
	logger, err := createLogger(diffFlags.LogFile, diffFlags.LogFormat, diffFlags.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	// Create output formatter
	formatter := output.New(cfg.Output.Format, cfg.Output.Progress && !cfg.Output.Quiet)

	var out io.Writer = os.Stdout
	if cfg.Output.Quiet {
		out = nil
	}
	if err := formatter.Start(out, opts.VanillaRoot, opts.ModdedRoot); err != nil {
		return err
	}

	// Create diff engine
	engine := diff.NewEngine(diff.Options{
		Excludes:             opts.ExcludePatterns,
		MaxBytecodeDiffLines: opts.MaxBytecodeDiffLines,
		OnVerdict: func(v *models.Verdict) {
			_ = formatter.Verdict(v)
		},
	}, logger)

	// Run comparison
	report, err := engine.Run(ctx, opts.VanillaRoot, opts.ModdedRoot)
	if err != nil {
		_ = formatter.Error(err)
		return fmt.Errorf("comparison failed: %w", err)
	}

	// Synthesize and stage a patch if requested
	var p *patch.Patch
	if opts.OutputDir != "" {
		synth := patch.NewSynthesizer(logger)
		p, err = synth.Synthesize(ctx, report)
		if err != nil {
			return fmt.Errorf("patch synthesis failed: %w", err)
		}
		writer, werr := patch.NewDirWriter(opts.OutputDir, logger)
		if werr != nil {
			return werr
		}
		if err := p.Apply(writer); err != nil {
			return fmt.Errorf("patch staging failed: %w", err)
		}
		if err := writer.Close(); err != nil {
			return err
		}
	}

	if err := formatter.Complete(report, p); err != nil {
		return err
	}

	// Write differences report if requested
	if diffFlags.Report != "" {
		if err := output.WriteDifferencesReport(report, diffFlags.Report, diffFlags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write differences report: %w", err)
		}
	}

	// Exit with appropriate code
	os.Exit(report.Status.ExitCode())
	return nil
}

// createLogger creates a logger based on configuration
func createLogger(logFile, logFormat, logLevel string) (logging.Logger, error) {
	if logFile == "" {
		return logging.NewNullLogger(), nil
	}

	var format logging.Format
	switch logFormat {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}

	level := logging.ParseLevel(logLevel)
	if globalFlags.Verbose {
		level = logging.DebugLevel
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:   logFile,
		Format: format,
		Level:  level,
	})
}
