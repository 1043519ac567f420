package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mrsingh-rishi/voice-chat/client"
	"github.com/mrsingh-rishi/voice-chat/config"
	"github.com/mrsingh-rishi/voice-chat/llm"
	"github.com/mrsingh-rishi/voice-chat/server"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat API and the browser widget",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			persona, err := llm.LoadPersona(cfg.Persona.PromptFile)
			if err != nil {
				return err
			}

			var responder server.Responder
			if cfg.LLMConfigured() {
				c, err := llm.NewOpenAIClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
				if err != nil {
					return err
				}
				responder = c
			} else {
				log.Warn().Msg("GEMINI_API_KEY not set, /api/chat will report it as not configured")
			}

			srv := newServer(cfg, persona, responder)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				return srv.Listen(cfg.Server.Addr())
			})
			eg.Go(func() error {
				<-ctx.Done()
				log.Info().Msg("shutting down chat server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return eg.Wait()
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides PORT)")
	return cmd
}

// newServer builds the chat server. Browser widgets reach /api/chat through
// the same address the server listens on.
func newServer(cfg config.Config, persona llm.Persona, responder server.Responder) *server.Server {
	return server.New(server.Options{
		Responder:      responder,
		Persona:        persona,
		WidgetEndpoint: client.New(cfg.Server.LocalURL()),
		Greeting:       cfg.Persona.Greeting,
	})
}
