// Package scraper fetches a company website and extracts the content of its
// home, about, and services pages. About and services content is preferred
// from sections of the home page itself; dedicated pages are a fallback.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/PagelineAI/pageline-mvp/engine/domain"
	"github.com/PagelineAI/pageline-mvp/pkg/fn"
)

// pageFetcher is the transport the scraper needs. *Fetcher satisfies it.
type pageFetcher interface {
	Get(ctx context.Context, url string) (body []byte, finalURL string, err error)
	FindPage(ctx context.Context, baseURL string, paths []string) (body []byte, finalURL string, found bool)
}

// SiteScraper runs the full per-site scrape.
type SiteScraper struct {
	fetch  pageFetcher
	opts   Options
	logger *slog.Logger
}

// New creates a SiteScraper with its own Fetcher.
func New(opts Options, logger *slog.Logger) *SiteScraper {
	return newWithFetcher(NewFetcher(opts), opts, logger)
}

func newWithFetcher(f pageFetcher, opts Options, logger *slog.Logger) *SiteScraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &SiteScraper{fetch: f, opts: opts, logger: logger}
}

// ScrapeSite scrapes one website. The home page is mandatory; a failure
// there aborts with ErrHomeUnavailable. About and services are optional and
// resolve concurrently: first a section located on the home page, then a
// dedicated page, then absent (nil).
func (s *SiteScraper) ScrapeSite(ctx context.Context, baseURL string) (*domain.ScrapeResult, error) {
	base := strings.TrimRight(baseURL, "/")

	homeBody, homeURL, err := s.fetch.Get(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrHomeUnavailable, base, err)
	}

	home, err := s.scrapePage(homeBody, homeURL, domain.RoleHome)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrHomeUnavailable, base, err)
	}

	pages := fn.FanOut(
		func() *domain.PageScrape {
			return s.scrapeOptionalRole(ctx, base, homeBody, domain.RoleAbout, aboutKeywords, aboutPaths)
		},
		func() *domain.PageScrape {
			return s.scrapeOptionalRole(ctx, base, homeBody, domain.RoleServices, servicesKeywords, servicesPaths)
		},
	)

	return &domain.ScrapeResult{
		BaseURL:  base,
		Home:     home,
		About:    pages[0],
		Services: pages[1],
	}, nil
}

// scrapeOptionalRole resolves about or services content. Failures degrade to
// a nil page rather than failing the whole scrape.
func (s *SiteScraper) scrapeOptionalRole(ctx context.Context, base string, homeBody []byte, role domain.PageRole, keywords []string, paths []string) *domain.PageScrape {
	// Section locating mutates the DOM, so each role parses its own copy
	// of the already-fetched home page.
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(homeBody))
	if err == nil {
		if section := LocateSection(doc, keywords, s.opts); section != nil {
			s.logger.Debug("found section on home page", "role", string(role), "heading", section.Heading)
			return &domain.PageScrape{
				Role:         role,
				SourceURL:    base,
				Blocks:       []domain.ContentBlock{{Heading: section.Heading, Text: section.Text}},
				FromHomepage: true,
			}
		}
	}

	body, finalURL, found := s.fetch.FindPage(ctx, base, paths)
	if !found {
		s.logger.Debug("no page found for role", "role", string(role), "base", base)
		return nil
	}
	page, err := s.scrapePage(body, finalURL, role)
	if err != nil {
		s.logger.Warn("failed to parse page", "role", string(role), "url", finalURL, "error", err)
		return nil
	}
	return page
}

// scrapePage parses one fetched page: meta first, then extraction (which
// mutates the document), then dedup.
func (s *SiteScraper) scrapePage(body []byte, pageURL string, role domain.PageRole) (*domain.PageScrape, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	title := CleanText(doc.Find("title").First().Text())
	description := pageDescription(doc)

	blocks := Dedupe(ExtractBlocks(doc, s.opts), s.opts)

	return &domain.PageScrape{
		Role:        role,
		SourceURL:   pageURL,
		Title:       title,
		Description: description,
		Blocks:      blocks,
	}, nil
}

func pageDescription(doc *goquery.Document) string {
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	if desc, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	return ""
}
