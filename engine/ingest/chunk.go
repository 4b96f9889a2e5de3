package ingest

import (
	"strings"

	"github.com/PagelineAI/pageline-mvp/engine/domain"
)

const (
	// DefaultChunkSize is the chunk window in characters.
	DefaultChunkSize = 500
	// DefaultOverlap is how many characters consecutive chunks share.
	DefaultOverlap = 50
)

// ChunkText splits text into overlapping fixed-size windows. Text at most
// one window long comes back as a single chunk. Each window starts
// size-overlap characters after the previous one, so every boundary is
// covered by two chunks. Chunks are trimmed; empty windows are dropped.
func ChunkText(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	for start := 0; start < len(runes); start += size - overlap {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}
	}
	return chunks
}

// buildChunks turns a scrape into the stored chunk sequence: pages in
// canonical role order, chunk indexes starting at zero per role.
func buildChunks(company domain.Company, scrape *domain.ScrapeResult, size, overlap int) []domain.Chunk {
	var chunks []domain.Chunk
	for _, role := range domain.RoleOrder {
		page := scrape.Page(role)
		if page == nil {
			continue
		}
		text := page.CombinedText()
		if text == "" {
			continue
		}
		for i, piece := range ChunkText(text, size, overlap) {
			chunks = append(chunks, domain.Chunk{
				CompanyID:   company.ID,
				Role:        role,
				SourceURL:   page.SourceURL,
				Index:       i,
				Text:        piece,
				Title:       page.Title,
				Description: page.Description,
			})
		}
	}
	return chunks
}
