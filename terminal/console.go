package terminal

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/ergochat/readline"
	"github.com/rs/zerolog/log"

	"github.com/mrsingh-rishi/voice-chat/widget"
)

const (
	cmdClear = "/clear"
	cmdStop  = "/stop"
	cmdQuit  = "/quit"
	cmdHelp  = "/help"
)

const helpText = "Type a question and press Enter. /clear resets the chat, /stop silences speech, /quit exits."

// LineReader yields one line of user input per call.
type LineReader interface {
	Readline() (string, error)
}

// Console feeds lines from a LineReader into a ChatWidget.
type Console struct {
	widget  *widget.ChatWidget
	surface *Surface
	lines   LineReader
	out     io.Writer
}

func NewConsole(w *widget.ChatWidget, surface *Surface, lines LineReader, out io.Writer) *Console {
	return &Console{widget: w, surface: surface, lines: lines, out: out}
}

// NewReadline opens an interactive prompt on the terminal.
func NewReadline() (*readline.Instance, error) {
	return readline.NewFromConfig(&readline.Config{Prompt: "> "})
}

// Run reads until /quit, EOF, interrupt, or ctx is done. Queries still in
// flight are left running.
func (c *Console) Run(ctx context.Context) error {
	c.widget.Init()
	io.WriteString(c.out, helpText+"\n")

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := c.lines.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			return err
		}

		switch strings.TrimSpace(line) {
		case cmdQuit:
			return nil
		case cmdClear:
			c.widget.ClearChat()
		case cmdStop:
			c.widget.StopVoice()
		case cmdHelp:
			io.WriteString(c.out, helpText+"\n")
		default:
			c.surface.SetInput(line)
			c.widget.SendTextMessage(ctx)
		}
		log.Debug().Str("component", "terminal").Msg("line handled")
	}
}
