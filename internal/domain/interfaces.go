package domain

import "context"

// Upstream is the credential-holding client for the text-generation provider.
type Upstream interface {
	// Complete sends one non-retried request and returns the normalized
	// result or a classified *Error.
	Complete(ctx context.Context, messages []Message, systemPrompt string) (*ChatResult, error)

	// Model returns the configured model identifier.
	Model() string
}

// RateLimiter caps request volume per client identity over a time window.
type RateLimiter interface {
	// Allow reports whether the identified client may proceed. A non-nil
	// error means the limiter backend failed, not that the client is over
	// the limit.
	Allow(ctx context.Context, key string) (bool, error)
}
