package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"rokuctl/internal/logger"
	"rokuctl/internal/roku"
)

var (
	deviceHost  string
	deviceDebug bool
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Control a Roku device directly",
	Long: `Send one-shot commands to a Roku device over its HTTP control protocol.
Supports app queries, key presses, app launch, text entry and icon download.`,
}

// friendlyKeyNames maps kebab-case command-line names to protocol keys.
// Exact key names and single characters pass through unchanged.
var friendlyKeyNames = map[string]roku.Key{
	"home":           roku.KeyHome,
	"rev":            roku.KeyRev,
	"fwd":            roku.KeyFwd,
	"play":           roku.KeyPlay,
	"pause":          roku.KeyPause,
	"select":         roku.KeySelect,
	"ok":             roku.KeySelect,
	"left":           roku.KeyLeft,
	"right":          roku.KeyRight,
	"down":           roku.KeyDown,
	"up":             roku.KeyUp,
	"back":           roku.KeyBack,
	"instant-replay": roku.KeyInstantReplay,
	"info":           roku.KeyInfo,
	"backspace":      roku.KeyBackspace,
	"search":         roku.KeySearch,
	"enter":          roku.KeyEnter,
	"find-remote":    roku.KeyFindRemote,
	"volume-down":    roku.KeyVolumeDown,
	"mute":           roku.KeyVolumeMute,
	"volume-up":      roku.KeyVolumeUp,
	"power-off":      roku.KeyPowerOff,
	"power-on":       roku.KeyPowerOn,
	"channel-up":     roku.KeyChannelUp,
	"channel-down":   roku.KeyChannelDown,
	"tuner":          roku.KeyInputTuner,
	"hdmi1":          roku.KeyInputHDMI1,
	"hdmi2":          roku.KeyInputHDMI2,
	"hdmi3":          roku.KeyInputHDMI3,
	"hdmi4":          roku.KeyInputHDMI4,
	"av1":            roku.KeyInputAV1,
}

func newDeviceClient() *roku.Client {
	if deviceDebug {
		logger.SetSilentMode(false)
		logger.SetLevel("debug")
	}
	return roku.NewClient(deviceHost, deviceDebug)
}

func printJSON(v interface{}) {
	pretty, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(pretty))
}

var deviceAppsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List installed applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		apps, err := newDeviceClient().Apps()
		if err != nil {
			log := logger.New()
			log.Error().Err(err).Msg("Failed to query apps")
			return err
		}
		printJSON(apps)
		return nil
	},
}

var deviceActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the active application",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newDeviceClient().ActiveApp()
		if err != nil {
			log := logger.New()
			log.Error().Err(err).Msg("Failed to query active app")
			return err
		}
		if app == nil {
			fmt.Println("No active app")
			return nil
		}
		printJSON(app)
		return nil
	},
}

var deviceInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show device information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := newDeviceClient().DeviceInfo()
		if err != nil {
			log := logger.New()
			log.Error().Err(err).Msg("Failed to query device info")
			return err
		}
		printJSON(info)
		return nil
	},
}

var (
	keyDownFlag bool
	keyUpFlag   bool
)

var deviceKeyCmd = &cobra.Command{
	Use:   "key [name-or-character]",
	Short: "Send a key press, hold or release",
	Long: `Send a key action to the device. The argument is a friendly name
(volume-up, home, select, ...), an exact protocol key name, or a single
character to type literally.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		if key, ok := friendlyKeyNames[input]; ok {
			input = string(key)
		}

		client := newDeviceClient()
		log := logger.New()

		var err error
		switch {
		case keyDownFlag:
			err = client.Keydown(input)
		case keyUpFlag:
			err = client.Keyup(input)
		default:
			err = client.Keypress(input)
		}
		if err != nil {
			log.Error().Err(err).Str("key", input).Msg("Failed to send key action")
			return err
		}

		log.Info().Str("key", input).Msg("Key action sent")
		return nil
	},
}

var deviceLaunchCmd = &cobra.Command{
	Use:   "launch [app-id]",
	Short: "Launch an application by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newDeviceClient()
		log := logger.New()
		if err := client.Launch(args[0]); err != nil {
			log.Error().Err(err).Str("app_id", args[0]).Msg("Failed to launch app")
			return err
		}
		log.Info().Str("app_id", args[0]).Msg("App launched")
		return nil
	},
}

var deviceTextCmd = &cobra.Command{
	Use:   "text [string]",
	Short: "Type text one character at a time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newDeviceClient()
		log := logger.New()
		if err := client.Text(args[0]); err != nil {
			log.Error().Err(err).Msg("Failed to send text")
			return err
		}
		log.Info().Int("characters", len([]rune(args[0]))).Msg("Text sent")
		return nil
	},
}

var iconOutDir string

var deviceIconCmd = &cobra.Command{
	Use:   "icon [app-id]",
	Short: "Download an application icon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := iconOutDir
		if dir == "" {
			dir = "."
		}
		path, err := newDeviceClient().Icon(args[0], dir)
		if err != nil {
			log := logger.New()
			log.Error().Err(err).Str("app_id", args[0]).Msg("Failed to download icon")
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var deviceKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the named keys the device understands",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, key := range roku.Keys() {
			fmt.Println(string(key))
		}
		return nil
	},
}

func init() {
	deviceCmd.PersistentFlags().StringVarP(&deviceHost, "host", "H", "", "Device host address (IP or IP:port)")
	deviceCmd.PersistentFlags().BoolVarP(&deviceDebug, "debug", "d", false, "Enable debug logging")

	deviceKeyCmd.Flags().BoolVar(&keyDownFlag, "down", false, "Hold the key down instead of pressing it")
	deviceKeyCmd.Flags().BoolVar(&keyUpFlag, "up", false, "Release a held key instead of pressing it")
	deviceKeyCmd.MarkFlagsMutuallyExclusive("down", "up")

	deviceIconCmd.Flags().StringVarP(&iconOutDir, "out", "o", "", "Directory to write the icon into")

	for _, sub := range []*cobra.Command{
		deviceAppsCmd, deviceActiveCmd, deviceInfoCmd,
		deviceKeyCmd, deviceLaunchCmd, deviceTextCmd, deviceIconCmd,
	} {
		deviceCmd.AddCommand(sub)
	}
	deviceCmd.AddCommand(deviceKeysCmd)

	for _, sub := range deviceCmd.Commands() {
		if sub == deviceKeysCmd {
			continue
		}
		sub.MarkFlagRequired("host")
	}

	rootCmd.AddCommand(deviceCmd)
}
