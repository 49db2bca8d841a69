package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ValidateConversation checks the raw messages field from a request body and
// returns the admissible conversation, still unsanitized. Checks run in a
// fixed order and stop at the first failure; within the per-message checks the
// earliest offending message wins.
func ValidateConversation(raw json.RawMessage) ([]IncomingMessage, *Error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, NewValidationError(CodeInvalidFormat, "messages must be an array")
	}

	// Only the array shell decides the format check; element shape is judged
	// per message below.
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, NewValidationError(CodeInvalidFormat, "messages must be an array")
	}

	if len(elements) == 0 {
		return nil, NewValidationError(CodeEmptyConversation, "messages cannot be empty")
	}

	if len(elements) > MaxConversationLength {
		return nil, NewValidationError(CodeTooManyMessages,
			fmt.Sprintf("conversation exceeds %d messages", MaxConversationLength))
	}

	messages := make([]IncomingMessage, len(elements))
	for i, element := range elements {
		// A non-object element carries no role or content at all.
		if err := json.Unmarshal(element, &messages[i]); err != nil {
			return nil, NewValidationError(CodeMalformedMessage,
				fmt.Sprintf("message %d is missing role or content", i))
		}

		if !truthy(messages[i].Role) || !truthy(messages[i].Content) {
			return nil, NewValidationError(CodeMalformedMessage,
				fmt.Sprintf("message %d is missing role or content", i))
		}

		role, ok := messages[i].Role.(string)
		if !ok || (role != "user" && role != "assistant") {
			return nil, NewValidationError(CodeInvalidRole,
				fmt.Sprintf("message %d has an invalid role", i))
		}
	}

	return messages, nil
}

// truthy mirrors the loose presence check applied to untyped JSON values:
// null, empty strings, zero numbers and false all count as absent.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	default:
		return true
	}
}
