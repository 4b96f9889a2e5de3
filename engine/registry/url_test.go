package registry

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://Example.COM/", "https://example.com"},
		{"  https://example.com  ", "https://example.com"},
		{"https://example.com///", "https://example.com"},
		{"http://example.com/about/", "http://example.com/about"},
		{"https://example.com", "https://example.com"},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestURLVariants(t *testing.T) {
	variants := URLVariants("https://example.com")

	if variants[0] != "https://example.com" {
		t.Errorf("first variant must be the normalized form, got %q", variants[0])
	}

	want := map[string]bool{
		"https://example.com":  true,
		"https://example.com/": true,
		"http://example.com":   true,
		"http://example.com/":  true,
		"example.com":          true,
		"example.com/":         true,
	}
	if len(variants) != len(want) {
		t.Fatalf("got %d variants: %v", len(variants), variants)
	}
	for _, v := range variants {
		if !want[v] {
			t.Errorf("unexpected variant %q", v)
		}
	}
}

func TestURLVariantsNoDuplicates(t *testing.T) {
	variants := URLVariants("example.com")
	seen := make(map[string]bool)
	for _, v := range variants {
		if seen[v] {
			t.Errorf("duplicate variant %q", v)
		}
		seen[v] = true
	}
}
