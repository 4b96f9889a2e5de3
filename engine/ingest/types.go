package ingest

import "github.com/PagelineAI/pageline-mvp/engine/domain"

// Request asks for one website to be ingested.
type Request struct {
	URL             string `json:"url"`
	CompanyName     string `json:"company_name"`
	CompanyID       string `json:"company_id,omitempty"`
	ReplaceExisting bool   `json:"replace_existing,omitempty"`
}

// PagesScraped records which page roles yielded content.
type PagesScraped struct {
	Home     bool `json:"home"`
	About    bool `json:"about"`
	Services bool `json:"services"`
}

// Result summarizes one ingestion run. A Skipped result means the site was
// already ingested and nothing was written.
type Result struct {
	CompanyID string       `json:"company_id"`
	BaseURL   string       `json:"base_url"`
	Pages     PagesScraped `json:"pages"`
	Chunks    int          `json:"chunks"`
	Skipped   bool         `json:"skipped,omitempty"`
}

// scrapedSite is the pipeline payload after scraping and registration.
type scrapedSite struct {
	req     Request
	company domain.Company
	scrape  *domain.ScrapeResult
	skipped bool
}

// chunkedSite carries the site's chunks, ready for embedding.
type chunkedSite struct {
	scrapedSite
	chunks []domain.Chunk
}

// embeddedSite pairs each chunk with its embedding.
type embeddedSite struct {
	chunkedSite
	embeddings [][]float32
}

func (s scrapedSite) pages() PagesScraped {
	if s.scrape == nil {
		return PagesScraped{}
	}
	return PagesScraped{
		Home:     s.scrape.Home != nil,
		About:    s.scrape.About != nil,
		Services: s.scrape.Services != nil,
	}
}
