package domain

import "strings"

// Sanitize normalizes one piece of untrusted text for the upstream call.
// Non-string values sanitize to the empty string rather than failing.
// Strings are trimmed and truncated to MaxContentLength characters, counted
// in runes so truncation never splits a multi-byte sequence. The trailing
// trim keeps the function idempotent when the cut lands inside whitespace.
func Sanitize(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}

	s = strings.TrimSpace(s)

	runes := []rune(s)
	if len(runes) > MaxContentLength {
		s = string(runes[:MaxContentLength])
	}

	return strings.TrimSpace(s)
}
