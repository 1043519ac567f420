package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsingh-rishi/voice-chat/model"
)

const (
	timeout = 2 * time.Second
	tick    = 10 * time.Millisecond
)

func TestSendTextMessageAppendsUserMessageAndClearsInput(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{input: "  hello there \n"}
	endpoint := &fakeEndpoint{replies: map[string]string{"hello there": "hi!"}}
	w := New(surface, &fakeSpeaker{}, endpoint, Options{})

	w.SendTextMessage(context.Background())
	w.Wait()

	messages := surface.snapshotMessages()
	require.Len(t, messages, 2)
	assert.Equal(t, model.Message{Text: "hello there", Sender: model.SenderUser}, messages[0])
	assert.Equal(t, model.Message{Text: "hi!", Sender: model.SenderBot}, messages[1])
	assert.Equal(t, "", surface.ReadInput())
	assert.Equal(t, []string{"hello there"}, endpoint.snapshotQueries())
}

func TestSendTextMessageIgnoresBlankInput(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "\t\n"} {
		surface := &fakeSurface{input: input}
		endpoint := &fakeEndpoint{}
		w := New(surface, &fakeSpeaker{}, endpoint, Options{})

		w.SendTextMessage(context.Background())
		w.Wait()

		assert.Empty(t, surface.snapshotMessages())
		assert.Empty(t, endpoint.snapshotQueries())
		assert.Empty(t, surface.snapshotStatuses())
		assert.Equal(t, input, surface.ReadInput())
	}
}

func TestClearChatLeavesOnlyGreeting(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{}
	w := New(surface, &fakeSpeaker{}, &fakeEndpoint{replies: map[string]string{}}, Options{})

	for i := 0; i < 5; i++ {
		w.AskQuestion(context.Background(), fmt.Sprintf("q%d", i))
		w.Wait()
	}
	require.Greater(t, len(surface.snapshotMessages()), 1)

	w.ClearChat()
	assert.Equal(t, []model.Message{{Text: DefaultGreeting, Sender: model.SenderBot}}, surface.snapshotMessages())

	w.ClearChat()
	assert.Len(t, surface.snapshotMessages(), 1)
}

func TestClearChatUsesConfiguredGreeting(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{}
	w := New(surface, &fakeSpeaker{}, &fakeEndpoint{}, Options{Greeting: "Welcome back."})

	w.Init()

	assert.Equal(t, []model.Message{{Text: "Welcome back.", Sender: model.SenderBot}}, surface.snapshotMessages())
	assert.Equal(t, model.StatusIdle, w.Status().Kind)
}

func TestProcessQuerySuccess(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{}
	speaker := &fakeSpeaker{voices: []model.Voice{{Name: "Google US English Male", Lang: "en-US"}}}
	w := New(surface, speaker, &fakeEndpoint{replies: map[string]string{"hi": "Hello"}}, Options{})

	w.ProcessQuery(context.Background(), "hi")

	assert.Equal(t, []model.Message{{Text: "Hello", Sender: model.SenderBot}}, surface.snapshotMessages())
	assert.Equal(t, readyStatus, w.Status())
	assert.Equal(t, []model.StatusKind{model.StatusProcessing, model.StatusReady}, surface.statusKinds())

	spoken := speaker.snapshotSpoken()
	require.Len(t, spoken, 1)
	assert.Equal(t, "Hello", spoken[0].Text)
	require.NotNil(t, spoken[0].Voice)
	assert.Equal(t, "Google US English Male", spoken[0].Voice.Name)
	assert.Equal(t, 1.0, spoken[0].Rate)
	assert.Equal(t, 1.0, spoken[0].Pitch)
	assert.Equal(t, 1.0, spoken[0].Volume)
}

func TestProcessQueryFailureRendersFallback(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{}
	speaker := &fakeSpeaker{}
	w := New(surface, speaker, &fakeEndpoint{err: errors.New("HTTP error! Status: 500")}, Options{})

	w.ProcessQuery(context.Background(), "hi")

	assert.Equal(t, []model.Message{{Text: FallbackResponse, Sender: model.SenderBot}}, surface.snapshotMessages())
	assert.Equal(t, errorStatus, w.Status())
	spoken := speaker.snapshotSpoken()
	require.Len(t, spoken, 1)
	assert.Equal(t, FallbackResponse, spoken[0].Text)
	assert.Nil(t, spoken[0].Voice)
}

func TestWidgetRecoversAfterFailure(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{}
	endpoint := &fakeEndpoint{err: errors.New("down")}
	w := New(surface, &fakeSpeaker{}, endpoint, Options{})

	w.ProcessQuery(context.Background(), "first")
	require.Equal(t, model.StatusError, w.Status().Kind)

	endpoint.setErr(nil)
	endpoint.setReply("second", "back up")
	w.ProcessQuery(context.Background(), "second")

	assert.Equal(t, model.StatusReady, w.Status().Kind)
	messages := surface.snapshotMessages()
	assert.Equal(t, "back up", messages[len(messages)-1].Text)
}

func TestSpeakResponseCancelsBeforeSpeaking(t *testing.T) {
	t.Parallel()

	speaker := &fakeSpeaker{}
	w := New(&fakeSurface{}, speaker, &fakeEndpoint{}, Options{})

	w.SpeakResponse("first")
	w.SpeakResponse("second")

	assert.Equal(t, []string{"cancel", "speak:first", "cancel", "speak:second"}, speaker.snapshotCalls())
}

func TestStopVoiceCancelsSpeech(t *testing.T) {
	t.Parallel()

	speaker := &fakeSpeaker{}
	w := New(&fakeSurface{}, speaker, &fakeEndpoint{}, Options{})

	w.StopVoice()

	assert.Equal(t, []string{"cancel"}, speaker.snapshotCalls())
}

func TestSpeakResponseQueriesVoicesEachTime(t *testing.T) {
	t.Parallel()

	speaker := &fakeSpeaker{}
	w := New(&fakeSurface{}, speaker, &fakeEndpoint{}, Options{})

	w.SpeakResponse("early")
	speaker.setVoices([]model.Voice{{Name: "Samantha", Lang: "en-US"}})
	w.SpeakResponse("late")

	spoken := speaker.snapshotSpoken()
	require.Len(t, spoken, 2)
	assert.Nil(t, spoken[0].Voice)
	require.NotNil(t, spoken[1].Voice)
	assert.Equal(t, "Samantha", spoken[1].Voice.Name)
}

func TestSlowVoiceCatalogueDoesNotBlockControls(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{}
	speaker := &fakeSpeaker{voicesGate: make(chan struct{})}
	w := New(surface, speaker, &fakeEndpoint{replies: map[string]string{"hi": "hello"}}, Options{})

	w.AskQuestion(context.Background(), "hi")
	require.Eventually(t, func() bool { return speaker.voicesCallCount() == 1 }, timeout, tick)

	controls := make(chan struct{})
	go func() {
		defer close(controls)
		w.StopVoice()
		w.ClearChat()
		_ = w.Status()
	}()

	select {
	case <-controls:
	case <-time.After(timeout):
		t.Fatal("controls blocked behind the voice catalogue")
	}
	assert.Equal(t, []string{"cancel"}, speaker.snapshotCalls())

	close(speaker.voicesGate)
	w.Wait()

	assert.Equal(t, []string{"cancel", "cancel", "speak:hello"}, speaker.snapshotCalls())
	assert.Equal(t, model.StatusReady, w.Status().Kind)
}

func TestAskQuestionKeepsInput(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{input: "draft"}
	w := New(surface, &fakeSpeaker{}, &fakeEndpoint{replies: map[string]string{"who are you?": "Hardik"}}, Options{})

	w.AskQuestion(context.Background(), "who are you?")
	w.Wait()

	assert.Equal(t, "draft", surface.ReadInput())
	assert.Equal(t, []model.Message{
		{Text: "who are you?", Sender: model.SenderUser},
		{Text: "Hardik", Sender: model.SenderBot},
	}, surface.snapshotMessages())
}

func TestStaleResponseIsDropped(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	endpoint := &fakeEndpoint{
		replies: map[string]string{"slow": "slow answer", "fast": "fast answer"},
		gates:   map[string]chan struct{}{"slow": release},
	}
	surface := &fakeSurface{}
	speaker := &fakeSpeaker{}
	w := New(surface, speaker, endpoint, Options{})

	w.AskQuestion(context.Background(), "slow")
	endpoint.waitForQuery(t, "slow")

	w.AskQuestion(context.Background(), "fast")
	endpoint.waitForQuery(t, "fast")

	close(release)
	w.Wait()

	texts := []string{}
	for _, m := range surface.snapshotMessages() {
		if m.Sender == model.SenderBot {
			texts = append(texts, m.Text)
		}
	}
	assert.Equal(t, []string{"fast answer"}, texts)
	assert.Equal(t, model.StatusReady, w.Status().Kind)

	spoken := speaker.snapshotSpoken()
	require.Len(t, spoken, 1)
	assert.Equal(t, "fast answer", spoken[0].Text)
}

type fakeSurface struct {
	mu       sync.Mutex
	input    string
	messages []model.Message
	statuses []model.Status
}

func (s *fakeSurface) RenderMessage(msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *fakeSurface) ResetTranscript(greeting model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = []model.Message{greeting}
}

func (s *fakeSurface) SetStatus(status model.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
}

func (s *fakeSurface) ReadInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

func (s *fakeSurface) ClearInput() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = ""
}

func (s *fakeSurface) snapshotMessages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Message(nil), s.messages...)
}

func (s *fakeSurface) snapshotStatuses() []model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Status(nil), s.statuses...)
}

func (s *fakeSurface) statusKinds() []model.StatusKind {
	kinds := []model.StatusKind{}
	for _, st := range s.snapshotStatuses() {
		kinds = append(kinds, st.Kind)
	}
	return kinds
}

type fakeSpeaker struct {
	// voicesGate, when set, holds every Voices call until it is closed.
	voicesGate chan struct{}

	mu          sync.Mutex
	voices      []model.Voice
	voicesCalls int
	calls       []string
	spoken      []model.Utterance
}

func (s *fakeSpeaker) Voices() []model.Voice {
	s.mu.Lock()
	s.voicesCalls++
	gate := s.voicesGate
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Voice(nil), s.voices...)
}

func (s *fakeSpeaker) voicesCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voicesCalls
}

func (s *fakeSpeaker) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "cancel")
}

func (s *fakeSpeaker) Speak(u model.Utterance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "speak:"+u.Text)
	s.spoken = append(s.spoken, u)
}

func (s *fakeSpeaker) setVoices(voices []model.Voice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voices = voices
}

func (s *fakeSpeaker) snapshotCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fakeSpeaker) snapshotSpoken() []model.Utterance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Utterance(nil), s.spoken...)
}

type fakeEndpoint struct {
	mu      sync.Mutex
	replies map[string]string
	gates   map[string]chan struct{}
	err     error
	queries []string
}

func (e *fakeEndpoint) Ask(ctx context.Context, query string) (string, error) {
	e.mu.Lock()
	e.queries = append(e.queries, query)
	gate := e.gates[query]
	err := e.err
	reply, ok := e.replies[query]
	e.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return "", err
	}
	if !ok {
		reply = "echo: " + query
	}
	return reply, nil
}

func (e *fakeEndpoint) setErr(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
}

func (e *fakeEndpoint) setReply(query, reply string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.replies == nil {
		e.replies = map[string]string{}
	}
	e.replies[query] = reply
}

func (e *fakeEndpoint) snapshotQueries() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.queries...)
}

func (e *fakeEndpoint) waitForQuery(t *testing.T, query string) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, q := range e.snapshotQueries() {
			if q == query {
				return true
			}
		}
		return false
	}, timeout, tick)
}
