package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mrsingh-rishi/voice-chat/config"
	"github.com/mrsingh-rishi/voice-chat/logging"
)

func main() {
	root := &cobra.Command{
		Use:           "voice-chat",
		Short:         "Chat widget with spoken replies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newChatCommand())

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("voice-chat failed")
	}
}

// loadConfig reads the environment and sets up the global logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	return cfg, nil
}
