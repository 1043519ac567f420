package main

import (
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mrsingh-rishi/voice-chat/client"
	"github.com/mrsingh-rishi/voice-chat/config"
	"github.com/mrsingh-rishi/voice-chat/model"
	"github.com/mrsingh-rishi/voice-chat/output"
	"github.com/mrsingh-rishi/voice-chat/terminal"
	"github.com/mrsingh-rishi/voice-chat/tts"
	"github.com/mrsingh-rishi/voice-chat/widget"
	"github.com/mrsingh-rishi/voice-chat/workers"
)

func newChatCommand() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat from the terminal against a running chat server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if baseURL != "" {
				cfg.Client.BaseURL = baseURL
			}

			speaker, stopSpeaker, err := newSpeaker(cfg)
			if err != nil {
				return err
			}
			defer stopSpeaker()

			rl, err := terminal.NewReadline()
			if err != nil {
				return err
			}
			defer rl.Close()

			var out io.Writer = rl
			surface := terminal.NewSurface(out)
			w := widget.New(surface, speaker, client.New(cfg.Client.BaseURL), widget.Options{
				Greeting: cfg.Persona.Greeting,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return terminal.NewConsole(w, surface, rl, out).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&baseURL, "api-base-url", "", "chat server base URL (overrides CHAT_API_BASE_URL)")
	return cmd
}

// newSpeaker returns ElevenLabs-backed speech when a key is configured and
// a silent speaker otherwise.
func newSpeaker(cfg config.Config) (widget.Speaker, func(), error) {
	if !cfg.SpeechConfigured() {
		log.Info().Msg("ELEVEN_LABS_API_KEY not set, replies will not be spoken")
		return silentSpeaker{}, func() {}, nil
	}

	speech := cfg.Speech
	synth, err := tts.NewElevenLabsClient(strings.TrimSpace(speech.APIKey), speech.ModelID, speech.BaseURL)
	if err != nil {
		return nil, nil, err
	}
	worker, err := workers.NewSpeechWorker(synth, output.NewCommandPlayer(speech.PlayerCommand, speech.PlayerArgs), speech.VoiceID)
	if err != nil {
		return nil, nil, err
	}
	worker.Start()
	return worker, worker.Stop, nil
}

type silentSpeaker struct{}

func (silentSpeaker) Voices() []model.Voice { return nil }
func (silentSpeaker) Cancel()               {}
func (silentSpeaker) Speak(model.Utterance) {}
