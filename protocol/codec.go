package protocol

import (
	"encoding/json"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-chat/model"
)

// Marshal creates a JSON-encoded Envelope from a message type and payload.
func Marshal(msgType MessageType, payload interface{}) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := sonic.Marshal(payload)
		if err != nil {
			return nil, errors.Wrapf(err, "protocol: marshal payload for %q", msgType)
		}
		raw = b
	}
	return sonic.Marshal(Envelope{
		Type:    msgType,
		Payload: raw,
	})
}

// Unmarshal parses a JSON-encoded Envelope, returning the message type and raw payload.
func Unmarshal(data []byte) (MessageType, json.RawMessage, error) {
	var env Envelope
	if err := sonic.Unmarshal(data, &env); err != nil {
		return "", nil, errors.Wrap(err, "protocol: unmarshal envelope")
	}
	if env.Type == "" {
		return "", nil, errors.New("protocol: envelope missing type field")
	}
	return env.Type, env.Payload, nil
}

// UnmarshalPayload decodes a raw JSON payload into a typed struct.
func UnmarshalPayload[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, errors.New("protocol: empty payload")
	}
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return v, errors.Wrap(err, "protocol: unmarshal payload")
	}
	return v, nil
}

// ErrUnknownType is returned by Decode for types the page may not send.
var ErrUnknownType = errors.New("protocol: unknown inbound message type")

// Inbound is a decoded page-to-server message. Text is set for send and
// ask, Voices for voices.
type Inbound struct {
	Type   MessageType
	Text   string
	Voices []model.Voice
}

// Decode parses a page-to-server message and checks that its payload fits
// its type. Server-to-page types are rejected with ErrUnknownType.
func Decode(data []byte) (Inbound, error) {
	msgType, raw, err := Unmarshal(data)
	if err != nil {
		return Inbound{}, err
	}

	in := Inbound{Type: msgType}
	switch msgType {
	case MsgSend, MsgAsk:
		payload, err := UnmarshalPayload[TextPayload](raw)
		if err != nil {
			return Inbound{}, errors.Wrapf(err, "protocol: %s", msgType)
		}
		in.Text = payload.Text
	case MsgVoices:
		payload, err := UnmarshalPayload[VoicesPayload](raw)
		if err != nil {
			return Inbound{}, errors.Wrapf(err, "protocol: %s", msgType)
		}
		in.Voices = payload.Voices
	case MsgClear, MsgStopVoice:
	default:
		return Inbound{Type: msgType}, errors.Wrapf(ErrUnknownType, "%q", msgType)
	}
	return in, nil
}
