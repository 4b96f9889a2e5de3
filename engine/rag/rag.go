// Package rag answers retrieval queries: it embeds a question, runs
// similarity search over stored website chunks, and returns ranked results.
// A company-scoped query that matches nothing falls back to the company's
// chunks in stored order so callers always get context when any exists.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PagelineAI/pageline-mvp/engine/domain"
	"github.com/PagelineAI/pageline-mvp/engine/semantic"
)

// Embedder embeds one query text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher abstracts the vector store's read side.
type Searcher interface {
	Search(ctx context.Context, embedding []float32, topK int, companyID string) ([]semantic.SearchResult, error)
	FetchCompany(ctx context.Context, companyID string) ([]semantic.SearchResult, error)
}

// Options configures retrieval behaviour.
type Options struct {
	TopK          int
	SearchTimeout time.Duration
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		TopK:          5,
		SearchTimeout: 5 * time.Second,
	}
}

// Service is the retrieval service.
type Service struct {
	embed  Embedder
	search Searcher
	opts   Options
	logger *slog.Logger
}

// New creates a retrieval Service.
func New(embed Embedder, search Searcher, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{embed: embed, search: search, opts: opts, logger: logger}
}

// Query returns up to topK chunks ranked by ascending distance. An empty
// companyID searches across all companies. When a company-scoped search
// matches nothing, the company's stored chunks are returned in canonical
// order instead, marked with a fallback meta entry.
func (s *Service) Query(ctx context.Context, question string, companyID string, topK int) ([]semantic.SearchResult, error) {
	if err := domain.ValidateQueryText(question); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = s.opts.TopK
	}

	embedding, err := s.embed.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("rag: embed query: %w", err)
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.opts.SearchTimeout)
	defer cancel()

	results, err := s.search.Search(searchCtx, embedding, topK, companyID)
	if err != nil {
		return nil, fmt.Errorf("rag: search: %w", err)
	}
	s.logger.Info("rag: search done", "results", len(results), "company_id", companyID)

	if len(results) == 0 && companyID != "" {
		return s.orderedFallback(ctx, companyID, topK)
	}
	return results, nil
}

// CompanyContent returns every stored chunk for a company in canonical
// order: pages by role rank, chunks by index.
func (s *Service) CompanyContent(ctx context.Context, companyID string) ([]semantic.SearchResult, error) {
	if companyID == "" {
		return nil, fmt.Errorf("%w: empty company id", domain.ErrCompanyNotFound)
	}
	rows, err := s.search.FetchCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("rag: fetch company %s: %w", companyID, err)
	}
	return rows, nil
}

// orderedFallback serves the first topK stored chunks when similarity
// search came back empty for a company that has content.
func (s *Service) orderedFallback(ctx context.Context, companyID string, topK int) ([]semantic.SearchResult, error) {
	rows, err := s.search.FetchCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("rag: fallback fetch %s: %w", companyID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows) > topK {
		rows = rows[:topK]
	}
	for i := range rows {
		rows[i].Distance = 0
		if rows[i].Meta == nil {
			rows[i].Meta = make(map[string]string)
		}
		rows[i].Meta["fallback"] = "ordered"
	}
	s.logger.Info("rag: ordered fallback", "company_id", companyID, "rows", len(rows))
	return rows, nil
}
