// Package server hosts the chat API and the browser widget.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"

	"github.com/mrsingh-rishi/voice-chat/llm"
	"github.com/mrsingh-rishi/voice-chat/types"
	"github.com/mrsingh-rishi/voice-chat/widget"
)

// Responder produces a model reply for a fully built prompt.
type Responder interface {
	Respond(ctx context.Context, prompt string) (string, error)
}

type Options struct {
	// Responder is nil when no model key is configured.
	Responder Responder
	Persona   llm.Persona
	// WidgetEndpoint is what browser widgets call to answer queries.
	WidgetEndpoint widget.Endpoint
	Greeting       string
	Now            func() time.Time
}

type Server struct {
	app  *fiber.App
	opts Options
}

func New(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	app := fiber.New(fiber.Config{
		AppName:               "voice-chat",
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          errorHandler,
	})

	s := &Server{app: app, opts: opts}

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestLogger)

	app.Get("/", s.handleIndex)
	app.Post("/api/chat", s.handleChat)
	app.Get("/api/health", s.handleHealth)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(s.handleWidget))

	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	log.Info().Str("addr", addr).Msg("chat server listening")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) timestamp() string {
	return s.opts.Now().Format(types.TimestampLayout)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	switch code {
	case fiber.StatusNotFound:
		return c.Status(code).JSON(types.ChatResponse{Error: "Endpoint not found"})
	case fiber.StatusInternalServerError:
		log.Error().Err(err).Str("path", c.Path()).Msg("internal server error")
		return c.Status(code).JSON(types.ChatResponse{Error: "Internal server error"})
	default:
		return c.Status(code).JSON(types.ChatResponse{Error: fe.Message})
	}
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	log.Debug().
		Str("component", "http").
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("elapsed", time.Since(start)).
		Msg("request")
	return err
}
