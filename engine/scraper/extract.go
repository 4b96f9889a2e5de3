package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/PagelineAI/pageline-mvp/engine/domain"
)

// strippedTags are removed wholesale before any content walk.
const strippedTags = "script, style, nav, footer, header, aside, form, button"

// uiClassRe matches class attributes of chrome elements (menus, cookie
// banners, share widgets) that never carry page content.
var uiClassRe = regexp.MustCompile(`(?i)nav|menu|button|form|search|social|share|cookie|popup|modal`)

var navParentRe = regexp.MustCompile(`(?i)nav|menu|header|footer`)

// ExtractBlocks walks the main content area of a parsed page and groups
// paragraph text under the nearest preceding heading. Navigation headings,
// placeholder text, and paragraphs shorter than opts.MinBlockLen are dropped.
//
// The document is mutated (chrome elements are removed); parse a fresh copy
// if the caller needs the DOM afterwards.
func ExtractBlocks(doc *goquery.Document, opts Options) []domain.ContentBlock {
	doc.Find(strippedTags).Remove()
	doc.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		if class, ok := s.Attr("class"); ok && uiClassRe.MatchString(class) {
			s.Remove()
		}
	})

	root := contentRoot(doc)
	if root == nil {
		return nil
	}

	var blocks []domain.ContentBlock
	var heading string
	var paras []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(paras, " "))
		if len(text) > opts.MinBlockLen {
			blocks = append(blocks, domain.ContentBlock{Heading: heading, Text: CleanText(text)})
		}
	}

	root.Find("h1, h2, h3, h4, h5, h6, p").Each(func(_ int, s *goquery.Selection) {
		if parentClass, ok := s.Parent().Attr("class"); ok && navParentRe.MatchString(parentClass) {
			return
		}

		tag := goquery.NodeName(s)
		if strings.HasPrefix(tag, "h") {
			text := CleanText(s.Text())
			if IsNavigational(text) {
				return
			}
			if heading != "" || len(paras) > 0 {
				flush()
			}
			heading = text
			paras = nil
			return
		}

		cleaned := CleanText(s.Text())
		if cleaned == "" || len(cleaned) <= opts.MinBlockLen {
			return
		}
		if IsPlaceholder(cleaned) || IsNavigational(cleaned) {
			return
		}
		paras = append(paras, cleaned)
	})

	if heading != "" || len(paras) > 0 {
		flush()
	}

	return blocks
}

// contentRoot returns the first of main, article, or body present.
func contentRoot(doc *goquery.Document) *goquery.Selection {
	for _, sel := range []string{"main", "article", "body"} {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return nil
}
