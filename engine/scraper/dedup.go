package scraper

import (
	"strings"

	"github.com/PagelineAI/pageline-mvp/engine/domain"
)

// Dedupe removes placeholder, too-short, exact-duplicate, and near-duplicate
// blocks, keeping the first occurrence. Running it twice is a no-op.
//
// Two blocks are near-duplicates when both normalized texts exceed
// opts.NearDupMinLen, one contains the other, and the shorter one's word set
// overlaps the longer one's by more than opts.NearDupThreshold.
func Dedupe(blocks []domain.ContentBlock, opts Options) []domain.ContentBlock {
	seen := make(map[string]struct{}, len(blocks))
	var kept []string
	var out []domain.ContentBlock

	for _, block := range blocks {
		if IsPlaceholder(block.Text) {
			continue
		}
		normalized := CleanText(strings.ToLower(block.Text))
		if len(normalized) < opts.MinBlockLen {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}

		nearDup := false
		for _, prev := range kept {
			if isNearDuplicate(normalized, prev, opts) {
				nearDup = true
				break
			}
		}
		if nearDup {
			continue
		}

		seen[normalized] = struct{}{}
		kept = append(kept, normalized)
		out = append(out, block)
	}
	return out
}

func isNearDuplicate(a, b string, opts Options) bool {
	if len(a) <= opts.NearDupMinLen || len(b) <= opts.NearDupMinLen {
		return false
	}
	shorter, longer := a, b
	if len(b) < len(a) {
		shorter, longer = b, a
	}
	if !strings.Contains(longer, shorter) {
		return false
	}
	return wordOverlap(shorter, longer) > opts.NearDupThreshold
}

// wordOverlap returns the fraction of the shorter text's distinct words that
// also occur in the longer text.
func wordOverlap(shorter, longer string) float64 {
	shortWords := wordSet(shorter)
	if len(shortWords) == 0 {
		return 0
	}
	longWords := wordSet(longer)
	matched := 0
	for w := range shortWords {
		if _, ok := longWords[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(shortWords))
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		set[w] = struct{}{}
	}
	return set
}
