// Package client talks to the /api/chat endpoint.
package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-chat/types"
)

const chatPath = "/api/chat"

// RequestFailure is returned for every way a chat request can fail: the
// transport, a non-2xx status, an unreadable body, or an error reported by
// the service itself.
type RequestFailure struct {
	StatusCode int
	Reason     string
	Err        error
}

func (f *RequestFailure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("chat request failed: %s: %v", f.Reason, f.Err)
	}
	return "chat request failed: " + f.Reason
}

func (f *RequestFailure) Unwrap() error {
	return f.Err
}

// Client posts queries to a chat service.
type Client struct {
	baseURL string
	http    *fiber.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &fiber.Client{
			UserAgent:   "voice-chat",
			JSONEncoder: sonic.Marshal,
			JSONDecoder: sonic.Unmarshal,
		},
	}
}

// reply mirrors types.ChatResponse with presence tracking.
type reply struct {
	Response *string `json:"response"`
	Error    *string `json:"error"`
}

// Ask sends query and returns the service's reply text. The request is
// neither retried nor timed out.
func (c *Client) Ask(ctx context.Context, query string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &RequestFailure{Reason: "network", Err: err}
	}

	agent := c.http.Post(c.baseURL + chatPath)
	agent.JSON(types.ChatRequest{Query: query})

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", &RequestFailure{Reason: "network", Err: errs[0]}
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return "", &RequestFailure{StatusCode: code, Reason: fmt.Sprintf("HTTP error! Status: %d", code)}
	}

	var out reply
	if err := sonic.Unmarshal(body, &out); err != nil {
		return "", &RequestFailure{StatusCode: code, Reason: "malformed response", Err: errors.WithStack(err)}
	}
	if out.Error != nil {
		return "", &RequestFailure{StatusCode: code, Reason: *out.Error}
	}
	if out.Response == nil {
		return "", &RequestFailure{StatusCode: code, Reason: "response field missing"}
	}
	return *out.Response, nil
}
