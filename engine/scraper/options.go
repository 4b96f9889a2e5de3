package scraper

import "time"

// Options tunes content extraction and deduplication thresholds.
type Options struct {
	// MinBlockLen is the minimum cleaned length for an extracted block or
	// paragraph to be kept.
	MinBlockLen int
	// MinSectionLen is the minimum cleaned length for a located homepage
	// section to count as found.
	MinSectionLen int
	// MaxSectionLen caps the text taken from a located section.
	MaxSectionLen int
	// NearDupThreshold is the word-set overlap ratio above which two blocks
	// are considered duplicates.
	NearDupThreshold float64
	// NearDupMinLen is the minimum length both blocks must have before the
	// near-duplicate check applies.
	NearDupMinLen int
	// Timeout bounds each HTTP request.
	Timeout time.Duration
	// RequestsPerSecond throttles outbound requests. Zero disables the limiter.
	RequestsPerSecond float64
}

// DefaultOptions returns the thresholds used in production.
func DefaultOptions() Options {
	return Options{
		MinBlockLen:       30,
		MinSectionLen:     50,
		MaxSectionLen:     2000,
		NearDupThreshold:  0.8,
		NearDupMinLen:     50,
		Timeout:           10 * time.Second,
		RequestsPerSecond: 2,
	}
}
