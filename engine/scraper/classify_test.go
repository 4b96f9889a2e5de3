package scraper

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"collapse spaces", "a   b    c", "a b c"},
		{"newlines and tabs", "a\n\tb\r\nc", "a b c"},
		{"trim", "  hello world  ", "hello world"},
		{"idempotent", "already clean", "already clean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := CleanText(CleanText(tt.in)); again != tt.want {
				t.Errorf("CleanText not idempotent on %q", tt.in)
			}
		})
	}
}

func TestIsPlaceholder(t *testing.T) {
	placeholders := []string{
		"Lorem ipsum dolor sit amet",
		"THIS IS THE HEADING",
		"this is a heading for the section",
		"A placeholder paragraph",
		"Some sample text goes here",
		"dummy text block",
		"Add your text here to customize",
		"Click to edit this block",
	}
	for _, text := range placeholders {
		if !IsPlaceholder(text) {
			t.Errorf("IsPlaceholder(%q) = false, want true", text)
		}
	}

	real := []string{
		"We provide cloud consulting for mid-size retailers.",
		"Founded in 2012, Acme serves over 300 clients.",
	}
	for _, text := range real {
		if IsPlaceholder(text) {
			t.Errorf("IsPlaceholder(%q) = true, want false", text)
		}
	}
}

func TestIsNavigational(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Home", true},
		{"ABOUT", true},
		{"Contact", true},
		{"sign up", true},
		{"CONTACT US", true}, // short all-caps
		{"Our Services Explained In Depth", false},
		{"WE ARE THE LEADING PROVIDER OF WIDGETS", false}, // all-caps but long
		{"welcome", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsNavigational(tt.text); got != tt.want {
			t.Errorf("IsNavigational(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
