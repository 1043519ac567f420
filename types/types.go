package types

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Query string `json:"query"`
}

// ChatResponse is returned by POST /api/chat. Exactly one of Response or
// Error is set.
type ChatResponse struct {
	Response  string `json:"response,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// TimestampLayout matches the ISO-8601 local timestamps the chat API emits.
const TimestampLayout = "2006-01-02T15:04:05.000000"
