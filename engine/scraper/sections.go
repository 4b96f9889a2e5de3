package scraper

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Section is a region of the home page recognised as covering one of the
// understood topics.
type Section struct {
	Heading string
	Text    string
}

// aboutKeywords and servicesKeywords match headings that introduce a topical
// section on a home page.
var (
	aboutKeywords = []string{"about", "about us", "who we are", "our story", "company"}

	servicesKeywords = []string{
		"services", "products", "solutions", "solution",
		"what we do", "offerings", "our services", "our service",
		"our solutions", "our solution", "what we offer",
		"our offerings", "what we provide", "our products",
	}
)

// LocateSection scans the home page for a heading matching one of the
// keywords and returns the surrounding section's text. Headings are visited
// h1 first through h6; the first usable match wins.
//
// For a matched heading the search walks up to three ancestor levels looking
// for a section, div, or article container. When no container qualifies it
// falls back to collecting the heading's following siblings. Either way the
// text must exceed opts.MinSectionLen and is capped at opts.MaxSectionLen.
//
// The document is mutated; parse a fresh copy per call.
func LocateSection(doc *goquery.Document, keywords []string, opts Options) *Section {
	doc.Find("script, style, nav, footer, header").Remove()

	root := contentRoot(doc)
	if root == nil {
		return nil
	}

	var found *Section
	for _, tag := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		root.Find(tag).EachWithBreak(func(_ int, heading *goquery.Selection) bool {
			headingText := CleanText(heading.Text())
			if !matchesKeyword(headingText, keywords) {
				return true
			}
			if s := sectionFromAncestors(heading, headingText, opts); s != nil {
				found = s
				return false
			}
			if s := sectionFromSiblings(heading, headingText, opts); s != nil {
				found = s
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

func matchesKeyword(headingText string, keywords []string) bool {
	lower := strings.ToLower(headingText)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// sectionFromAncestors walks up from the heading looking for a container
// whose text, minus the heading itself, is long enough to keep.
func sectionFromAncestors(heading *goquery.Selection, headingText string, opts Options) *Section {
	parent := heading.Parent()
	for level := 0; level < 3 && parent.Length() > 0; level++ {
		name := goquery.NodeName(parent)
		if name == "section" || name == "div" || name == "article" {
			cleaned := CleanText(parent.Text())
			cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, headingText))
			if !IsPlaceholder(cleaned) && len(cleaned) > opts.MinSectionLen {
				return &Section{
					Heading: headingText,
					Text:    truncate(cleaned, opts.MaxSectionLen),
				}
			}
		}
		parent = parent.Parent()
	}
	return nil
}

// sectionFromSiblings collects text from up to ten elements following the
// heading, stopping at the next heading.
func sectionFromSiblings(heading *goquery.Selection, headingText string, opts Options) *Section {
	var collected []string
	count := 0
	heading.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
		if count >= 10 {
			return false
		}
		count++
		name := goquery.NodeName(sib)
		if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
			return false
		}
		if name == "p" || name == "div" || name == "section" || name == "li" {
			text := CleanText(sib.Text())
			if len(text) > 20 {
				collected = append(collected, text)
			}
		}
		return true
	})

	if len(collected) > 5 {
		collected = collected[:5]
	}
	var filtered []string
	for _, text := range collected {
		if !IsPlaceholder(text) && len(text) > opts.MinBlockLen {
			filtered = append(filtered, text)
		}
	}
	combined := strings.Join(filtered, " ")
	if len(combined) <= opts.MinSectionLen {
		return nil
	}
	return &Section{
		Heading: headingText,
		Text:    truncate(combined, opts.MaxSectionLen),
	}
}

// truncate caps s at n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
