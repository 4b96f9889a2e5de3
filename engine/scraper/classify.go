package scraper

import "strings"

// placeholderPatterns are template leftovers that site builders ship with.
// Matching is case-insensitive substring.
var placeholderPatterns = []string{
	"lorem ipsum",
	"this is the heading",
	"this is a heading",
	"placeholder",
	"sample text",
	"dummy text",
	"add your text here",
	"click to edit",
}

// menuWords are texts that, on their own, are navigation links rather than
// content.
var menuWords = map[string]struct{}{
	"home":      {},
	"about":     {},
	"services":  {},
	"contact":   {},
	"portfolio": {},
	"blog":      {},
	"login":     {},
	"sign up":   {},
	"menu":      {},
}

// IsPlaceholder reports whether text contains a known template placeholder.
func IsPlaceholder(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range placeholderPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// IsNavigational reports whether text looks like a menu entry: either an
// exact menu word, or short shouty text (under 15 chars, all upper case).
func IsNavigational(text string) bool {
	trimmed := strings.TrimSpace(text)
	if _, ok := menuWords[strings.ToLower(trimmed)]; ok {
		return true
	}
	if len(trimmed) > 0 && len(trimmed) < 15 && trimmed == strings.ToUpper(trimmed) && trimmed != strings.ToLower(trimmed) {
		return true
	}
	return false
}
