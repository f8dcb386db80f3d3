package cli

import (
	"github.com/spf13/cobra"
)

// globalFlags are inherited by every subcommand through the root command.
var globalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
}

// AddGlobalFlags registers the persistent flags on the root command.
func AddGlobalFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.StringVar(&globalFlags.ConfigFile, "config", "",
		"config file (default $RESDIFF_CONFIG or $HOME/.config/resdiff/config.yaml)")
	pf.BoolVarP(&globalFlags.Verbose, "verbose", "v", false,
		"log at debug level")
	pf.BoolVarP(&globalFlags.Quiet, "quiet", "q", false,
		"suppress non-error output")
}
