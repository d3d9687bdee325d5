package cmd

import (
	"github.com/spf13/cobra"
	"rokuctl/internal/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "rokuctl",
	Short: "rokuctl - control Roku devices from the command line",
	Long: `rokuctl drives Roku devices over their HTTP control protocol.
It offers one-shot device commands, an interactive TUI remote, and a REST
bridge that exposes registered devices to other services.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetSilentMode(false)
			logger.SetLevel("debug")
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(cliCmd)
	rootCmd.AddCommand(bridgeCmd)
}
