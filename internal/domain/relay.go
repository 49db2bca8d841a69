package domain

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/davidbz/hearth/internal/observability"
)

// RelayService runs the validation, sanitization and upstream pipeline for a
// single chat request.
type RelayService struct {
	upstream Upstream
}

// NewRelayService creates a new relay service (DI constructor).
func NewRelayService(upstream Upstream) *RelayService {
	return &RelayService{
		upstream: upstream,
	}
}

// Chat validates the request, sanitizes every message, and forwards the
// conversation upstream. Validation failures are reported before any upstream
// call so no quota is spent on inadmissible input. All failures come back as
// *Error; anything unclassified is wrapped as CodeUnhandled.
func (s *RelayService) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	if req == nil {
		return nil, NewValidationError(CodeInvalidFormat, "messages must be an array")
	}

	incoming, verr := ValidateConversation(req.Messages)
	if verr != nil {
		return nil, verr
	}

	messages := make([]Message, len(incoming))
	for i, msg := range incoming {
		role, _ := msg.Role.(string)
		messages[i] = Message{
			Role:    role,
			Content: Sanitize(msg.Content),
		}
	}

	systemPrompt := ""
	if req.SystemPrompt != nil {
		systemPrompt = Sanitize(req.SystemPrompt)
	}

	logger := observability.FromContext(ctx)
	logger.Info("relaying conversation upstream",
		observability.Int("messages", len(messages)),
		observability.Bool("system_prompt", systemPrompt != ""),
	)

	result, err := s.upstream.Complete(ctx, messages, systemPrompt)
	if err != nil {
		var relayErr *Error
		if errors.As(err, &relayErr) {
			return nil, relayErr
		}
		return nil, NewUpstreamError(CodeUnhandled, "Internal server error", err.Error())
	}

	return result, nil
}

// Model returns the configured upstream model identifier.
func (s *RelayService) Model() string {
	return s.upstream.Model()
}

// MessageCount best-effort counts the messages in a raw conversation for
// metrics. Absent or unparseable input counts as zero.
func MessageCount(raw []byte) int {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return 0
	}
	return len(elements)
}
