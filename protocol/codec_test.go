package protocol

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsingh-rishi/voice-chat/model"
)

func TestMarshalWithoutPayload(t *testing.T) {
	t.Parallel()

	data, err := Marshal(MsgClearInput, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"clear_input"}`, string(data))
}

func TestMarshalSpeakPayload(t *testing.T) {
	t.Parallel()

	data, err := Marshal(MsgSpeak, SpeakPayload{Text: "Hello", Voice: "Samantha", Rate: 1, Pitch: 1, Volume: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"speak","payload":{"text":"Hello","voice":"Samantha","rate":1,"pitch":1,"volume":1}}`, string(data))
}

func TestUnmarshalVoices(t *testing.T) {
	t.Parallel()

	msgType, raw, err := Unmarshal([]byte(`{"type":"voices","payload":{"voices":[{"id":"v1","name":"Google US English Male","lang":"en-US"}]}}`))
	require.NoError(t, err)
	require.Equal(t, MsgVoices, msgType)

	payload, err := UnmarshalPayload[VoicesPayload](raw)
	require.NoError(t, err)
	assert.Equal(t, []model.Voice{{ID: "v1", Name: "Google US English Male", Lang: "en-US"}}, payload.Voices)
}

func TestUnmarshalRejectsBadEnvelopes(t *testing.T) {
	t.Parallel()

	_, _, err := Unmarshal([]byte(`not json`))
	assert.Error(t, err)

	_, _, err = Unmarshal([]byte(`{"payload":{}}`))
	assert.ErrorContains(t, err, "missing type")
}

func TestUnmarshalPayloadRequiresBody(t *testing.T) {
	t.Parallel()

	_, err := UnmarshalPayload[TextPayload](nil)
	assert.Error(t, err)
}

func TestDecodeInbound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want Inbound
	}{
		{name: "send", data: `{"type":"send","payload":{"text":"hello"}}`, want: Inbound{Type: MsgSend, Text: "hello"}},
		{name: "ask", data: `{"type":"ask","payload":{"text":"who are you?"}}`, want: Inbound{Type: MsgAsk, Text: "who are you?"}},
		{name: "clear", data: `{"type":"clear"}`, want: Inbound{Type: MsgClear}},
		{name: "stop voice", data: `{"type":"stop_voice"}`, want: Inbound{Type: MsgStopVoice}},
		{
			name: "voices",
			data: `{"type":"voices","payload":{"voices":[{"id":"urn:a","name":"Samantha","lang":"en-US"}]}}`,
			want: Inbound{Type: MsgVoices, Voices: []model.Voice{{ID: "urn:a", Name: "Samantha", Lang: "en-US"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeRejectsMismatchedPayloads(t *testing.T) {
	t.Parallel()

	for _, data := range []string{
		`{"type":"send"}`,
		`{"type":"ask","payload":"text"}`,
		`{"type":"voices","payload":{"voices":"none"}}`,
		`not json`,
	} {
		_, err := Decode([]byte(data))
		assert.Error(t, err, data)
		assert.False(t, errors.Is(err, ErrUnknownType), data)
	}
}

func TestDecodeRejectsOutboundTypes(t *testing.T) {
	t.Parallel()

	for _, msgType := range []MessageType{MsgSpeak, MsgReset, "dance"} {
		data, err := Marshal(msgType, nil)
		require.NoError(t, err)

		in, err := Decode(data)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownType))
		assert.Equal(t, msgType, in.Type)
	}
}
