package server

import (
	"context"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mrsingh-rishi/voice-chat/model"
	"github.com/mrsingh-rishi/voice-chat/protocol"
	"github.com/mrsingh-rishi/voice-chat/widget"
)

const outboundBuffer = 64

// handleWidget runs one ChatWidget per socket. The page is only a rendering
// surface and a speech engine; all widget logic stays server side.
func (s *Server) handleWidget(conn *websocket.Conn) {
	sessionID := uuid.NewString()
	logger := log.With().Str("component", "widget").Str("session_id", sessionID).Logger()
	logger.Info().Msg("widget connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bridge := newBrowserBridge(logger)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		bridge.writeLoop(conn)
	}()
	defer func() {
		bridge.close()
		<-writerDone
	}()

	w := widget.New(bridge, bridge, s.opts.WidgetEndpoint, widget.Options{
		Greeting: s.opts.Greeting,
		Logger:   &logger,
	})
	w.Init()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Info().Msg("widget disconnected")
			} else {
				logger.Warn().Err(err).Msg("widget read error")
			}
			return
		}

		in, err := protocol.Decode(msg)
		if err != nil {
			if errors.Is(err, protocol.ErrUnknownType) {
				logger.Warn().Str("type", string(in.Type)).Msg("unknown widget message")
			} else {
				logger.Warn().Err(err).Msg("dropping malformed widget message")
			}
			continue
		}

		switch in.Type {
		case protocol.MsgSend:
			bridge.setInput(in.Text)
			w.SendTextMessage(ctx)
		case protocol.MsgAsk:
			w.AskQuestion(ctx, in.Text)
		case protocol.MsgClear:
			w.ClearChat()
		case protocol.MsgStopVoice:
			w.StopVoice()
		case protocol.MsgVoices:
			bridge.setVoices(in.Voices)
		}
	}
}

// browserBridge is both the widget Surface and its Speaker, forwarding every
// call to the page as a protocol message.
type browserBridge struct {
	logger zerolog.Logger
	out    chan []byte
	done   chan struct{}
	once   sync.Once

	mu     sync.Mutex
	input  string
	voices []model.Voice
}

func newBrowserBridge(logger zerolog.Logger) *browserBridge {
	return &browserBridge{
		logger: logger,
		out:    make(chan []byte, outboundBuffer),
		done:   make(chan struct{}),
	}
}

func (b *browserBridge) writeLoop(conn *websocket.Conn) {
	for {
		select {
		case <-b.done:
			return
		case data := <-b.out:
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				b.logger.Warn().Err(err).Msg("widget write failed")
				return
			}
		}
	}
}

func (b *browserBridge) close() {
	b.once.Do(func() { close(b.done) })
}

func (b *browserBridge) send(msgType protocol.MessageType, payload interface{}) {
	data, err := protocol.Marshal(msgType, payload)
	if err != nil {
		b.logger.Error().Err(err).Str("type", string(msgType)).Msg("encode widget message")
		return
	}
	select {
	case b.out <- data:
	case <-b.done:
	}
}

func (b *browserBridge) RenderMessage(msg model.Message) {
	b.send(protocol.MsgMessage, msg)
}

func (b *browserBridge) ResetTranscript(greeting model.Message) {
	b.send(protocol.MsgReset, protocol.ResetPayload{Greeting: greeting})
}

func (b *browserBridge) SetStatus(status model.Status) {
	b.send(protocol.MsgStatus, status)
}

func (b *browserBridge) ReadInput() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.input
}

func (b *browserBridge) ClearInput() {
	b.mu.Lock()
	b.input = ""
	b.mu.Unlock()
	b.send(protocol.MsgClearInput, nil)
}

func (b *browserBridge) setInput(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.input = text
}

func (b *browserBridge) setVoices(voices []model.Voice) {
	b.mu.Lock()
	b.voices = voices
	b.mu.Unlock()
	b.logger.Info().Int("count", len(voices)).Msg("voices loaded")
}

func (b *browserBridge) Voices() []model.Voice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Voice(nil), b.voices...)
}

func (b *browserBridge) Cancel() {
	b.send(protocol.MsgCancelSpeech, nil)
}

func (b *browserBridge) Speak(u model.Utterance) {
	payload := protocol.SpeakPayload{Text: u.Text, Rate: u.Rate, Pitch: u.Pitch, Volume: u.Volume}
	if u.Voice != nil {
		payload.Voice = u.Voice.Name
	}
	b.send(protocol.MsgSpeak, payload)
}
