// Package config resolves runtime settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Persona PersonaConfig
	Client  ClientConfig
	Speech  SpeechConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"5000"`
}

type LLMConfig struct {
	APIKey  string `env:"GEMINI_API_KEY"`
	BaseURL string `env:"LLM_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	Model   string `env:"LLM_MODEL" envDefault:"gemini-1.5-flash"`
}

type PersonaConfig struct {
	PromptFile string `env:"PROMPT_FILE" envDefault:"prompt.txt"`
	Greeting   string `env:"GREETING" envDefault:"Hi! I'm Hardik, feel free to ask anything about me."`
}

type ClientConfig struct {
	BaseURL string `env:"CHAT_API_BASE_URL" envDefault:"http://localhost:5000"`
}

type SpeechConfig struct {
	APIKey        string   `env:"ELEVEN_LABS_API_KEY"`
	BaseURL       string   `env:"ELEVEN_LABS_BASE_URL" envDefault:"https://api.elevenlabs.io"`
	ModelID       string   `env:"ELEVEN_LABS_MODEL_ID" envDefault:"eleven_multilingual_v2"`
	VoiceID       string   `env:"ELEVEN_LABS_VOICE_ID" envDefault:"JBFqnCBsd6RMkjVDRZzb"`
	PlayerCommand string   `env:"AUDIO_PLAYER_COMMAND" envDefault:"ffplay"`
	PlayerArgs    []string `env:"AUDIO_PLAYER_ARGS" envSeparator:" "`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load reads .env files (when present) and then the process environment.
// Variables already set in the environment win over .env entries.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Debug().Err(err).Msg("no .env file found, falling back to environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}

	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return Config{}, errors.Errorf("PORT out of range: %d", cfg.Server.Port)
	}
	return cfg, nil
}

// Addr is the listen address for the chat server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LocalURL is the base URL at which this process can reach its own chat
// server. Unspecified hosts map to the matching loopback address.
func (c ServerConfig) LocalURL() string {
	host := strings.TrimSpace(c.Host)
	switch host {
	case "", "0.0.0.0":
		host = "127.0.0.1"
	case "::", "[::]":
		host = "::1"
	default:
		host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(c.Port))
}

// LLMConfigured reports whether the chat backend can reach a model.
func (c Config) LLMConfigured() bool {
	return strings.TrimSpace(c.LLM.APIKey) != ""
}

// SpeechConfigured reports whether ElevenLabs speech can be used.
func (c Config) SpeechConfigured() bool {
	return strings.TrimSpace(c.Speech.APIKey) != ""
}
