// Package terminal renders the chat widget on a line-oriented console.
package terminal

import (
	"fmt"
	"io"
	"sync"

	"github.com/mrsingh-rishi/voice-chat/model"
)

const transcriptRule = "────────────────────────────────────────"

// Surface prints transcript and status lines to a writer. The input buffer
// is filled by the console loop before each send.
type Surface struct {
	mu    sync.Mutex
	out   io.Writer
	input string
}

func NewSurface(out io.Writer) *Surface {
	return &Surface{out: out}
}

func (s *Surface) RenderMessage(msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "%s %s\n", senderLabel(msg.Sender), msg.Text)
}

func (s *Surface) ResetTranscript(greeting model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, transcriptRule)
	fmt.Fprintf(s.out, "%s %s\n", senderLabel(greeting.Sender), greeting.Text)
}

func (s *Surface) SetStatus(status model.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "[%s] %s\n", status.Kind, status.Message)
}

func (s *Surface) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

func (s *Surface) ReadInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

func (s *Surface) ClearInput() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = ""
}

func senderLabel(sender model.Sender) string {
	if sender == model.SenderUser {
		return "You:"
	}
	return "Bot:"
}
