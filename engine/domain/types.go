// Package domain defines core domain types, constants, and validation for the
// Pageline engine pipeline. It acts as the validation gate at pipeline entry points.
package domain

import (
	"strings"
	"time"
)

// PageRole identifies which of the three understood page categories a scrape
// belongs to. Storage and retrieval order is fixed: home, about, services.
type PageRole string

const (
	RoleHome     PageRole = "home"
	RoleAbout    PageRole = "about"
	RoleServices PageRole = "services"
)

// RoleOrder is the canonical storage order for page roles.
var RoleOrder = []PageRole{RoleHome, RoleAbout, RoleServices}

// Rank returns the position of the role in the canonical order.
// Unknown roles sort last.
func (r PageRole) Rank() int {
	for i, role := range RoleOrder {
		if r == role {
			return i
		}
	}
	return len(RoleOrder)
}

// Valid reports whether the role is one of the recognised page roles.
func (r PageRole) Valid() bool {
	return r == RoleHome || r == RoleAbout || r == RoleServices
}

// Company is the owner of all chunks derived from one website.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BaseURL   string    `json:"base_url"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// ContentBlock is a heading-anchored unit of extracted text prior to chunking.
// Body text is always normalized and at least the configured minimum length by
// the time a block leaves the extractor.
type ContentBlock struct {
	Heading string `json:"heading,omitempty"`
	Text    string `json:"text"`
}

// PageScrape is one page's scrape result. About/services scrapes may originate
// from a section located within the home page rather than a distinct page;
// FromHomepage records the origin but does not change downstream handling.
type PageScrape struct {
	Role         PageRole       `json:"role"`
	SourceURL    string         `json:"source_url"`
	Title        string         `json:"title,omitempty"`
	Description  string         `json:"description,omitempty"`
	Blocks       []ContentBlock `json:"blocks"`
	FromHomepage bool           `json:"from_homepage,omitempty"`
}

// CombinedText joins the page's content blocks into the single text body that
// gets chunked for storage. Headed blocks keep their heading on its own line.
func (p *PageScrape) CombinedText() string {
	if p == nil {
		return ""
	}
	parts := make([]string, 0, len(p.Blocks))
	for _, b := range p.Blocks {
		if b.Text == "" {
			continue
		}
		if b.Heading != "" {
			parts = append(parts, b.Heading+"\n"+b.Text)
		} else {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// ScrapeResult holds the outcome of scraping one website. A nil page means
// that role yielded no content.
type ScrapeResult struct {
	BaseURL  string
	Home     *PageScrape
	About    *PageScrape
	Services *PageScrape
}

// Page returns the scrape for the given role, nil when absent.
func (s *ScrapeResult) Page(role PageRole) *PageScrape {
	switch role {
	case RoleHome:
		return s.Home
	case RoleAbout:
		return s.About
	case RoleServices:
		return s.Services
	}
	return nil
}

// Chunk is a bounded-length slice of extracted page text stored as one
// retrievable unit. Index is unique only within (company, role).
type Chunk struct {
	CompanyID   string   `json:"company_id"`
	Role        PageRole `json:"page_role"`
	SourceURL   string   `json:"url"`
	Index       int      `json:"chunk_index"`
	Text        string   `json:"text"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
}
