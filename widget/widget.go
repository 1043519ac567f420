// Package widget holds the chat widget logic independent of any rendering
// surface or speech engine.
package widget

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mrsingh-rishi/voice-chat/model"
	"github.com/mrsingh-rishi/voice-chat/voice"
)

const (
	DefaultGreeting  = "Hi! I'm Hardik, feel free to ask anything about me."
	FallbackResponse = "Sorry, I'm having trouble responding right now."
)

// Surface is the rendering side of the widget: a transcript, a status line
// and a text input.
type Surface interface {
	RenderMessage(msg model.Message)
	ResetTranscript(greeting model.Message)
	SetStatus(status model.Status)
	ReadInput() string
	ClearInput()
}

// Speaker is a speech-synthesis engine. Voices may change between calls and
// is called without the widget lock held.
type Speaker interface {
	Voices() []model.Voice
	Cancel()
	Speak(u model.Utterance)
}

// Endpoint answers a chat query.
type Endpoint interface {
	Ask(ctx context.Context, query string) (string, error)
}

type Options struct {
	Greeting string
	Logger   *zerolog.Logger
}

// ChatWidget wires user input to an Endpoint and renders and speaks the
// replies. Only the outcome of the most recently issued query is rendered.
type ChatWidget struct {
	surface  Surface
	speaker  Speaker
	endpoint Endpoint
	greeting string
	logger   zerolog.Logger

	// mu serialises surface access and speaker Cancel/Speak.
	mu     sync.Mutex
	seq    uint64
	status model.Status

	inflight sync.WaitGroup
}

func New(surface Surface, speaker Speaker, endpoint Endpoint, opts Options) *ChatWidget {
	greeting := strings.TrimSpace(opts.Greeting)
	if greeting == "" {
		greeting = DefaultGreeting
	}
	logger := log.With().Str("component", "widget").Logger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &ChatWidget{
		surface:  surface,
		speaker:  speaker,
		endpoint: endpoint,
		greeting: greeting,
		logger:   logger,
		status:   idleStatus,
	}
}

// Init renders the greeting and the idle status.
func (w *ChatWidget) Init() {
	w.ClearChat()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setStatusLocked(idleStatus)
}

// SendTextMessage sends the current input, if any, and clears it. The query
// runs in the background; use Wait to block until it settles.
func (w *ChatWidget) SendTextMessage(ctx context.Context) {
	w.mu.Lock()
	text := strings.TrimSpace(w.surface.ReadInput())
	if text == "" {
		w.mu.Unlock()
		return
	}
	w.surface.RenderMessage(model.Message{Text: text, Sender: model.SenderUser})
	seq := w.beginLocked()
	w.surface.ClearInput()
	w.mu.Unlock()

	w.dispatch(ctx, seq, text)
}

// AskQuestion posts query as if the user had typed it, leaving the input
// untouched.
func (w *ChatWidget) AskQuestion(ctx context.Context, query string) {
	w.mu.Lock()
	w.surface.RenderMessage(model.Message{Text: query, Sender: model.SenderUser})
	seq := w.beginLocked()
	w.mu.Unlock()

	w.dispatch(ctx, seq, query)
}

// ClearChat replaces the whole transcript with the greeting.
func (w *ChatWidget) ClearChat() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.surface.ResetTranscript(model.Message{Text: w.greeting, Sender: model.SenderBot})
}

// ProcessQuery asks the endpoint and renders the outcome. It blocks until the
// endpoint answers; there is no timeout.
func (w *ChatWidget) ProcessQuery(ctx context.Context, query string) {
	w.mu.Lock()
	seq := w.beginLocked()
	w.mu.Unlock()

	w.await(ctx, seq, query)
}

// SpeakResponse stops any current speech and speaks text.
func (w *ChatWidget) SpeakResponse(text string) {
	voices := w.speaker.Voices()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.speakLocked(text, voices)
}

// StopVoice silences the speaker.
func (w *ChatWidget) StopVoice() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.speaker.Cancel()
}

func (w *ChatWidget) Status() model.Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Wait blocks until every background query has settled.
func (w *ChatWidget) Wait() {
	w.inflight.Wait()
}

func (w *ChatWidget) dispatch(ctx context.Context, seq uint64, query string) {
	w.inflight.Add(1)
	go func() {
		defer w.inflight.Done()
		w.await(ctx, seq, query)
	}()
}

func (w *ChatWidget) beginLocked() uint64 {
	w.seq++
	w.setStatusLocked(processingStatus)
	return w.seq
}

func (w *ChatWidget) await(ctx context.Context, seq uint64, query string) {
	reply, err := w.endpoint.Ask(ctx, query)
	// Read outside mu: the catalogue may be a network call.
	voices := w.speaker.Voices()

	w.mu.Lock()
	defer w.mu.Unlock()

	if seq != w.seq {
		w.logger.Debug().Uint64("seq", seq).Uint64("latest", w.seq).Msg("dropping stale chat outcome")
		return
	}

	if err != nil {
		w.logger.Error().Err(err).Uint64("seq", seq).Msg("error processing query")
		w.surface.RenderMessage(model.Message{Text: FallbackResponse, Sender: model.SenderBot})
		w.speakLocked(FallbackResponse, voices)
		w.setStatusLocked(errorStatus)
		return
	}

	w.surface.RenderMessage(model.Message{Text: reply, Sender: model.SenderBot})
	w.speakLocked(reply, voices)
	w.setStatusLocked(readyStatus)
}

func (w *ChatWidget) speakLocked(text string, voices []model.Voice) {
	w.speaker.Cancel()

	u := model.Utterance{Text: text, Rate: 1, Pitch: 1, Volume: 1}
	if v, ok := voice.Select(voices); ok {
		u.Voice = &v
		w.logger.Debug().Str("voice", v.Name).Msg("using voice")
	} else {
		w.logger.Warn().Msg("no preferred voice found, using default")
	}

	w.speaker.Speak(u)
}

func (w *ChatWidget) setStatusLocked(status model.Status) {
	w.status = status
	w.surface.SetStatus(status)
}
