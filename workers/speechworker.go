package workers

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/mrsingh-rishi/voice-chat/model"
	"github.com/mrsingh-rishi/voice-chat/tts"
)

type Synthesizer interface {
	ListVoices(ctx context.Context) ([]model.Voice, error)
	Stream(ctx context.Context, text string, opts tts.Options) (io.ReadCloser, error)
}

type Player interface {
	Play(ctx context.Context, audio io.Reader, volume float64) error
}

type speechJob struct {
	utterance model.Utterance
	gen       uint64
}

// SpeechWorker speaks one utterance at a time. A new utterance replaces any
// pending one and Cancel stops whatever is playing; nothing is queued.
type SpeechWorker struct {
	ctx            context.Context
	cancel         context.CancelFunc
	Synthesizer    Synthesizer
	Player         Player
	DefaultVoiceID string
	VoicesTimeout  time.Duration
	jobs           chan speechJob

	mu      sync.Mutex
	gen     uint64
	current context.CancelFunc
	done    chan struct{}
}

func NewSpeechWorker(synthesizer Synthesizer, player Player, defaultVoiceID string) (*SpeechWorker, error) {
	if synthesizer == nil {
		return nil, errors.New("synthesizer is required")
	}
	if player == nil {
		return nil, errors.New("player is required")
	}
	if defaultVoiceID == "" {
		return nil, errors.New("default voice id is required")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SpeechWorker{
		ctx:            ctx,
		cancel:         cancel,
		Synthesizer:    synthesizer,
		Player:         player,
		DefaultVoiceID: defaultVoiceID,
		VoicesTimeout:  5 * time.Second,
		jobs:           make(chan speechJob, 1),
		done:           make(chan struct{}),
	}, nil
}

func (w *SpeechWorker) Start() {
	go func() {
		defer close(w.done)
		for {
			select {
			case <-w.ctx.Done():
				return
			case job := <-w.jobs:
				w.play(job)
			}
		}
	}()
}

// Stop cancels playback and waits for the worker loop to exit.
func (w *SpeechWorker) Stop() {
	w.Cancel()
	w.cancel()
	<-w.done
}

// Voices fetches the catalogue on every call so late-loading voices show up.
func (w *SpeechWorker) Voices() []model.Voice {
	ctx, cancel := context.WithTimeout(w.ctx, w.VoicesTimeout)
	defer cancel()

	voices, err := w.Synthesizer.ListVoices(ctx)
	if err != nil {
		log.Warn().Err(err).Str("component", "speech").Msg("could not list voices")
		return nil
	}
	return voices
}

// Cancel drops the pending utterance and stops the one playing.
func (w *SpeechWorker) Cancel() {
	w.mu.Lock()
	w.gen++
	if w.current != nil {
		w.current()
		w.current = nil
	}
	w.mu.Unlock()

	select {
	case <-w.jobs:
	default:
	}
}

// Speak hands u to the worker without blocking.
func (w *SpeechWorker) Speak(u model.Utterance) {
	w.mu.Lock()
	job := speechJob{utterance: u, gen: w.gen}
	w.mu.Unlock()

	for {
		select {
		case w.jobs <- job:
			return
		default:
		}
		select {
		case <-w.jobs:
		default:
		}
	}
}

func (w *SpeechWorker) play(job speechJob) {
	ctx, cancel := context.WithCancel(w.ctx)
	defer cancel()

	w.mu.Lock()
	if job.gen != w.gen {
		w.mu.Unlock()
		return
	}
	w.current = cancel
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		if job.gen == w.gen {
			w.current = nil
		}
		w.mu.Unlock()
	}()

	u := job.utterance
	voiceID := w.DefaultVoiceID
	if u.Voice != nil && u.Voice.ID != "" {
		voiceID = u.Voice.ID
	}

	logger := log.With().Str("component", "speech").Str("voice_id", voiceID).Logger()

	audio, err := w.Synthesizer.Stream(ctx, u.Text, tts.Options{VoiceID: voiceID, Speed: u.Rate})
	if err != nil {
		if ctx.Err() == nil {
			logger.Error().Err(err).Msg("speech synthesis failed")
		}
		return
	}
	defer audio.Close()

	if err := w.Player.Play(ctx, audio, u.Volume); err != nil {
		logger.Error().Err(err).Msg("audio playback failed")
	}
}
