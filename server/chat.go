package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mrsingh-rishi/voice-chat/types"
)

// ModelFailureResponse is sent, with a 200, when the model call fails.
const ModelFailureResponse = "Sorry, something went wrong. Please try again later."

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req types.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ChatResponse{Error: "invalid JSON"})
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ChatResponse{Error: "Query is required"})
	}
	if s.opts.Responder == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(types.ChatResponse{Error: "Gemini API key not configured"})
	}

	prompt := s.opts.Persona.Prompt(query)
	reply, err := s.opts.Responder.Respond(c.UserContext(), prompt)
	if err != nil {
		log.Error().Err(err).Str("component", "chat").Msg("model call failed")
		reply = ModelFailureResponse
	}

	return c.JSON(types.ChatResponse{
		Response:  reply,
		Timestamp: s.timestamp(),
	})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(types.HealthResponse{Status: "healthy", Timestamp: s.timestamp()})
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.SendString(widgetHTML)
}
