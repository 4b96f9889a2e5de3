package registry

import "strings"

// NormalizeURL produces the canonical form a company is keyed on: lower
// case, surrounding whitespace and trailing slashes removed.
func NormalizeURL(raw string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(raw)), "/")
}

// URLVariants returns the lookup candidates for a normalized URL, in a fixed
// order: the URL itself, a trailing-slash form, the other protocol, and the
// protocol-less form. Registered sites predating strict normalization may be
// stored under any of these.
func URLVariants(normalized string) []string {
	bare := normalized
	bare = strings.TrimPrefix(bare, "https://")
	bare = strings.TrimPrefix(bare, "http://")

	candidates := []string{
		normalized,
		normalized + "/",
		"https://" + bare,
		"https://" + bare + "/",
		"http://" + bare,
		"http://" + bare + "/",
		bare,
		bare + "/",
	}

	seen := make(map[string]struct{}, len(candidates))
	var out []string
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
