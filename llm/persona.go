package llm

import (
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Placeholder marks where the user's query goes in a persona sketch.
const Placeholder = "[USER_INPUT]"

var nonPrintable = regexp.MustCompile(`[^\x20-\x7E]`)

// Persona is the character sketch the model answers as.
type Persona struct {
	Sketch string
}

// LoadPersona reads a sketch from path. A missing file yields an empty
// persona and a warning.
func LoadPersona(path string) (Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("prompt file not found, answering without a persona")
			return Persona{}, nil
		}
		return Persona{}, errors.Wrapf(err, "read prompt file %s", path)
	}
	return Persona{Sketch: string(data)}, nil
}

// Prompt fills the sketch with query and strips anything outside printable
// ASCII. An empty sketch passes the query through.
func (p Persona) Prompt(query string) string {
	prompt := query
	if p.Sketch != "" {
		prompt = strings.ReplaceAll(p.Sketch, Placeholder, query)
	}
	return Sanitize(prompt)
}

// Sanitize removes non-printable and non-ASCII characters, newlines included.
func Sanitize(text string) string {
	return nonPrintable.ReplaceAllString(text, "")
}
