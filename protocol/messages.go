// Package protocol defines the websocket messages exchanged between the
// widget page and the server-side widget.
package protocol

import (
	"encoding/json"

	"github.com/mrsingh-rishi/voice-chat/model"
)

// MessageType enumerates all widget socket message types.
type MessageType string

const (
	// Page -> server
	MsgSend      MessageType = "send"
	MsgAsk       MessageType = "ask"
	MsgClear     MessageType = "clear"
	MsgStopVoice MessageType = "stop_voice"
	MsgVoices    MessageType = "voices"

	// Server -> page
	MsgMessage      MessageType = "message"
	MsgReset        MessageType = "reset"
	MsgStatus       MessageType = "status"
	MsgClearInput   MessageType = "clear_input"
	MsgSpeak        MessageType = "speak"
	MsgCancelSpeech MessageType = "cancel_speech"
)

// Envelope is the outer JSON wrapper for all socket messages.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TextPayload carries user text for send and ask.
type TextPayload struct {
	Text string `json:"text"`
}

// VoicesPayload is the page's current speech-synthesis catalogue.
type VoicesPayload struct {
	Voices []model.Voice `json:"voices"`
}

// ResetPayload replaces the transcript with a single greeting.
type ResetPayload struct {
	Greeting model.Message `json:"greeting"`
}

// SpeakPayload asks the page to speak. Voice is the voice name, empty for
// the engine default.
type SpeakPayload struct {
	Text   string  `json:"text"`
	Voice  string  `json:"voice,omitempty"`
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}
