package cmd

import (
	"github.com/spf13/cobra"
	"rokuctl/internal/bridge"
	"rokuctl/internal/logger"
)

var (
	bridgeListen string
	bridgeDB     string
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Run the REST bridge server",
	Long: `Run an HTTP bridge that exposes registered Roku devices over a JSON
REST API. Devices are kept in a local SQLite registry and every forwarded
action is recorded in a history log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetSilentMode(false)
		log := logger.New()

		store, err := bridge.NewStore(bridgeDB)
		if err != nil {
			log.Error().Err(err).Msg("Failed to open device registry")
			return err
		}
		defer store.Close()

		server, err := bridge.NewServer(store)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create bridge server")
			return err
		}

		log.Info().
			Str("listen", bridgeListen).
			Str("db", bridgeDB).
			Msg("Bridge starting")

		return server.Start(bridgeListen)
	},
}

func init() {
	bridgeCmd.Flags().StringVarP(&bridgeListen, "listen", "l", ":8070", "Address to listen on")
	bridgeCmd.Flags().StringVar(&bridgeDB, "db", "bridge.db", "Path to the SQLite device registry")
}
