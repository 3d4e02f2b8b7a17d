// Package safety implements the input gate that runs before routing:
// character sanitization with a length cap, then a coarse
// sensitive-word substring filter. The filter rejects obviously risky
// requests before they reach paid external APIs; it is not a security
// boundary.
package safety

import (
	"strings"
)

const (
	DefaultMaxInputLength = 1000
	truncationMarker      = "..."
)

// strippedChars are removed entirely during sanitization.
var strippedChars = []string{"<", ">", "&", "\"", "'", "`"}

// sensitiveWords trigger rejection when present as a case-insensitive
// substring of the sanitized input.
var sensitiveWords = []string{
	"delete", "remove", "destroy", "hack", "exploit",
	"password", "secret", "private", "confidential",
}

// Gate sanitizes and screens raw requests.
type Gate struct {
	maxLength int
}

func NewGate(maxLength int) *Gate {
	if maxLength <= 0 {
		maxLength = DefaultMaxInputLength
	}
	return &Gate{maxLength: maxLength}
}

// Sanitize strips the denylisted characters, trims surrounding
// whitespace, and caps the result at the configured rune length,
// appending a marker when truncation occurred. Deterministic for a
// given input.
func (g *Gate) Sanitize(raw string) string {
	cleaned := raw
	for _, c := range strippedChars {
		cleaned = strings.ReplaceAll(cleaned, c, "")
	}
	cleaned = strings.TrimSpace(cleaned)

	runes := []rune(cleaned)
	if len(runes) > g.maxLength {
		cleaned = string(runes[:g.maxLength]) + truncationMarker
	}
	return cleaned
}

// Check returns the matched trigger word and false when the sanitized
// input contains a sensitive substring. Matching is case-insensitive.
func (g *Gate) Check(sanitized string) (trigger string, ok bool) {
	lower := strings.ToLower(sanitized)
	for _, w := range sensitiveWords {
		if strings.Contains(lower, w) {
			return w, false
		}
	}
	return "", true
}
