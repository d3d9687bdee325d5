package cmd

import (
	"github.com/spf13/cobra"
	"rokuctl/cmd/cli"
	"rokuctl/internal/logger"
)

var (
	debugFlag  bool
	testFlag   bool
	configFlag string
)

var cliCmd = &cobra.Command{
	Use:   "cli",
	Short: "Start the interactive remote control",
	Long: `Launch the interactive Terminal User Interface (TUI) remote.
Connect to a device by address or pick one saved in the device book.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Set up logging based on debug or test flag
		if debugFlag || testFlag {
			logger.SetSilentMode(false)
			if debugFlag {
				logger.SetLevel("debug")
			}
		} else {
			logger.SetSilentMode(true)
		}

		log := logger.New()
		log.Info().
			Bool("debug", debugFlag).
			Bool("test", testFlag).
			Msg("Starting interactive remote")

		if err := cli.StartTUI(debugFlag, testFlag, configFlag); err != nil {
			log.Error().Err(err).Msg("Failed to start TUI")
			return err
		}

		return nil
	},
}

func init() {
	cliCmd.Flags().BoolVar(&debugFlag, "debug", false, "Enable debug logging for HTTP requests")
	cliCmd.Flags().BoolVar(&testFlag, "test", false, "Enable test mode (simulate device responses without HTTP calls)")
	cliCmd.Flags().StringVar(&configFlag, "config", "devices.yml", "Path to the saved-device book")
}
