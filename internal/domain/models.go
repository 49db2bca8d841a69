package domain

import "encoding/json"

const (
	// MaxConversationLength bounds the number of messages accepted per request.
	MaxConversationLength = 50

	// MaxContentLength bounds a single message's content, in characters.
	MaxContentLength = 4000
)

// ChatRequest is the untrusted inbound request body. Messages is kept raw so
// the validator can distinguish a missing or malformed field from an empty
// list, and SystemPrompt is untyped so non-string values sanitize to nothing
// instead of failing the decode.
type ChatRequest struct {
	Messages     json.RawMessage `json:"messages"`
	SystemPrompt any             `json:"systemPrompt,omitempty"`
}

// IncomingMessage is a single untrusted conversation entry. Role and Content
// stay untyped until validation so the validator can report the precise
// failure instead of a decode error.
type IncomingMessage struct {
	Role    any `json:"role"`
	Content any `json:"content"`
}

// Message is a validated, sanitized dialogue turn ready for the upstream call.
type Message struct {
	Role    string `json:"role"` // user or assistant
	Content string `json:"content"`
}

// Usage tracks upstream token consumption.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ChatResult is the normalized successful outcome of one relayed request.
type ChatResult struct {
	Message string `json:"message"`
	Usage   Usage  `json:"usage"`
	Model   string `json:"model"`
}

// FeedbackRequest is the inbound feedback body. Recording is a no-op; the
// shape exists so the endpoint can acknowledge well-formed submissions.
type FeedbackRequest struct {
	MessageID string `json:"messageId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}
