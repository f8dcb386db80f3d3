package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aurorakit/resdiff/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "resdiff",
		Short: "Structural diff and patch synthesis for game resources",
		Long: `resdiff compares game resource trees structurally rather than byte-wise.
It walks installations, capsules, and directories, pairs resources across
the vanilla and modded sides, compares each pairing with a format-aware
comparator, and can synthesize the differences into a replayable patch.`,
		Version:       cli.BuildLine(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(cli.NewDiffCommand())
	rootCmd.AddCommand(cli.NewLsCommand())
	rootCmd.AddCommand(cli.NewConfigCommand())
	rootCmd.AddCommand(cli.NewVersionCommand())

	return rootCmd.Execute()
}
