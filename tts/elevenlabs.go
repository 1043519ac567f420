package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-chat/model"
)

const DefaultBaseURL = "https://api.elevenlabs.io"

// Options tunes a single synthesis request.
type Options struct {
	VoiceID string
	// Speed maps the utterance rate; ElevenLabs accepts 0.7 to 1.2.
	Speed float64
}

type ElevenLabsClient struct {
	APIKey  string
	ModelID string
	BaseURL string
	HTTP    *http.Client
}

func NewElevenLabsClient(apiKey string, modelID string, baseURL string) (*ElevenLabsClient, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}
	if modelID == "" {
		modelID = "eleven_multilingual_v2"
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ElevenLabsClient{
		APIKey:  apiKey,
		ModelID: modelID,
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    http.DefaultClient,
	}, nil
}

type voicesResponse struct {
	Voices []struct {
		VoiceID           string            `json:"voice_id"`
		Name              string            `json:"name"`
		Labels            map[string]string `json:"labels"`
		VerifiedLanguages []struct {
			Language string `json:"language"`
			Locale   string `json:"locale"`
		} `json:"verified_languages"`
	} `json:"voices"`
}

// ListVoices returns the account's voice catalogue. The language tag is the
// first verified locale, falling back to the language label.
func (client *ElevenLabsClient) ListVoices(ctx context.Context) ([]model.Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.BaseURL+"/v1/voices", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build voices request")
	}
	req.Header.Set("xi-api-key", client.APIKey)

	resp, err := client.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "voices request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read voices response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("voices request: bad status: %s", resp.Status)
	}

	var payload voicesResponse
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(err, "decode voices response")
	}

	voices := make([]model.Voice, 0, len(payload.Voices))
	for _, v := range payload.Voices {
		lang := v.Labels["language"]
		for _, verified := range v.VerifiedLanguages {
			if verified.Locale != "" {
				lang = verified.Locale
				break
			}
		}
		voices = append(voices, model.Voice{ID: v.VoiceID, Name: v.Name, Lang: lang})
	}
	return voices, nil
}

// Stream starts synthesis of text and returns the mp3 audio as it arrives.
// The caller must close the returned reader.
func (client *ElevenLabsClient) Stream(ctx context.Context, text string, opts Options) (io.ReadCloser, error) {
	if opts.VoiceID == "" {
		return nil, errors.New("voice id is required")
	}

	base, err := url.Parse(fmt.Sprintf("%s/v1/text-to-speech/%s/stream", client.BaseURL, url.PathEscape(opts.VoiceID)))
	if err != nil {
		return nil, errors.Wrap(err, "build synthesis url")
	}
	q := base.Query()
	q.Set("output_format", "mp3_44100_128")
	base.RawQuery = q.Encode()

	settings := map[string]float64{
		"stability":        0.75,
		"similarity_boost": 0.7,
	}
	if opts.Speed > 0 {
		settings["speed"] = clamp(opts.Speed, 0.7, 1.2)
	}
	bodyBytes, err := sonic.Marshal(map[string]interface{}{
		"text":           text,
		"model_id":       client.ModelID,
		"voice_settings": settings,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base.String(), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "build synthesis request")
	}
	req.Header.Set("xi-api-key", client.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := client.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "synthesis request")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("synthesis request: bad status: %s", resp.Status)
	}
	return resp.Body, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
