package model

// Sender identifies who authored a transcript message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one rendered entry of the chat transcript.
type Message struct {
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

// StatusKind tracks where the widget is in the query lifecycle.
type StatusKind string

const (
	StatusIdle       StatusKind = "idle"
	StatusProcessing StatusKind = "processing"
	StatusReady      StatusKind = "ready"
	StatusError      StatusKind = "error"
)

// Status is the transient line shown next to the transcript.
type Status struct {
	Message string     `json:"message"`
	Kind    StatusKind `json:"kind"`
}

// Voice describes a synthesizable voice offered by a speech engine.
type Voice struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// Utterance is a unit of text handed to a speech engine.
// A nil Voice leaves the choice to the engine default.
type Utterance struct {
	Text   string
	Voice  *Voice
	Rate   float64
	Pitch  float64
	Volume float64
}
