package domain

import "net/http"

// Code classifies a relay failure.
type Code string

const (
	// Client-input failures (HTTP 400). The caller can correct and resubmit.
	CodeInvalidFormat     Code = "invalid_format"
	CodeEmptyConversation Code = "empty_conversation"
	CodeTooManyMessages   Code = "too_many_messages"
	CodeMalformedMessage  Code = "malformed_message"
	CodeInvalidRole       Code = "invalid_role"

	// CodeRateLimited is the local per-client limit (HTTP 429).
	CodeRateLimited Code = "rate_limited"

	// Upstream failures. Auth detail is withheld from the caller so that the
	// state of the server-held credential never leaks.
	CodeUpstreamAuth        Code = "upstream_auth"
	CodeUpstreamRateLimited Code = "upstream_rate_limited"
	CodeUpstreamUnavailable Code = "upstream_unavailable"

	// CodeUnhandled is the final catch-all for anything escaping the pipeline.
	CodeUnhandled Code = "unhandled"
)

// Error is the relay's classified failure. Message is always safe to return to
// the caller; Detail carries the underlying cause and is surfaced only in a
// development runtime posture.
type Error struct {
	Code    Code
	Message string
	Detail  string
}

// Error implements the error interface with the caller-safe message only.
func (e *Error) Error() string {
	return e.Message
}

// HTTPStatus maps the failure code to the response status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidFormat, CodeEmptyConversation, CodeTooManyMessages,
		CodeMalformedMessage, CodeInvalidRole:
		return http.StatusBadRequest
	case CodeRateLimited, CodeUpstreamRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a client-input failure.
func NewValidationError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewUpstreamError creates an upstream failure with an internal detail.
func NewUpstreamError(code Code, message, detail string) *Error {
	return &Error{Code: code, Message: message, Detail: detail}
}

// ErrRateLimited is returned when the local per-client window is exhausted.
//
//nolint:gochecknoglobals // Sentinel failure shared by limiter middleware
var ErrRateLimited = &Error{
	Code:    CodeRateLimited,
	Message: "Too many requests, please try again later.",
}
