package domain

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

const minQueryLength = 2

// ValidateSiteURL checks that a caller-supplied URL is an absolute http(s)
// URL with a plausible host. A missing scheme is tolerated by callers that
// normalize first; here the fully-normalized form is expected.
func ValidateSiteURL(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return NewValidationError("url", raw, ErrInvalidURL)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return NewValidationError("url", raw, ErrInvalidURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return NewValidationError("url", raw, ErrInvalidURL)
	}
	if parsed.Host == "" || !strings.Contains(parsed.Host, ".") {
		return NewValidationError("url", raw, ErrInvalidURL)
	}
	if strings.ContainsAny(parsed.Host, "{}[]<>\"'") {
		return NewValidationError("url", raw, ErrInvalidURL)
	}
	return nil
}

// ValidateQueryText checks a retrieval query before it is embedded.
func ValidateQueryText(text string) error {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minQueryLength {
		return NewValidationError("text", text, ErrEmptyQuery)
	}
	return nil
}
