// Package ingest runs the website ingestion pipeline: scrape, register,
// chunk, embed, store.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/PagelineAI/pageline-mvp/engine/domain"
	"github.com/PagelineAI/pageline-mvp/engine/semantic"
	"github.com/PagelineAI/pageline-mvp/pkg/fn"
)

const (
	// IngestSubject is the NATS subject for incoming ingestion requests.
	IngestSubject = "engine.ingest"
	// DLQSubject is the dead letter queue subject for failed requests.
	DLQSubject = "engine.ingest.dlq"
	// MaxRetries before sending to DLQ.
	MaxRetries = 3
	// EmbedBatchSize is the max chunks per embedding request.
	EmbedBatchSize = 100
)

// Scraper fetches and extracts one website.
type Scraper interface {
	ScrapeSite(ctx context.Context, baseURL string) (*domain.ScrapeResult, error)
}

// Embedder turns texts into vectors, one per input, in input order.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorWriter is the vector store surface the pipeline writes through.
type VectorWriter interface {
	Upsert(ctx context.Context, records []semantic.VectorRecord) error
	Exists(ctx context.Context, companyID string) (bool, error)
	DeleteByCompany(ctx context.Context, companyID string) (bool, error)
}

// CompanyRegistry registers and finds companies.
type CompanyRegistry interface {
	FindByURL(ctx context.Context, rawURL string) (domain.Company, bool, error)
	CreateIfAbsent(ctx context.Context, c domain.Company) (domain.Company, bool, error)
}

// Deps holds the external dependencies for the ingestion pipeline.
type Deps struct {
	Scraper  Scraper
	Embedder Embedder
	Vectors  VectorWriter
	Registry CompanyRegistry
	Logger   *slog.Logger
}

// Service runs ingestion requests through the pipeline.
type Service struct {
	deps     Deps
	logger   *slog.Logger
	pipeline fn.Stage[Request, Result]
}

// New creates a Service.
func New(deps Deps) *Service {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Service{deps: deps, logger: log}

	scraped := fn.TracedStage("ingest.scrape", s.scrapeStage())
	chunked := fn.Then(scraped, fn.TracedStage("ingest.chunk", s.chunkStage()))
	embedded := fn.Then(chunked, fn.TracedStage("ingest.embed", s.embedStage()))
	s.pipeline = fn.Then(embedded, fn.TracedStage("ingest.store", s.storeStage()))

	return s
}

// Ingest processes one request. A site that is already ingested returns a
// Skipped result with zero chunks; ReplaceExisting forces a fresh scrape and
// replaces the stored vectors.
func (s *Service) Ingest(ctx context.Context, req Request) (Result, error) {
	req.URL = ensureScheme(req.URL)
	if err := domain.ValidateSiteURL(req.URL); err != nil {
		return Result{}, err
	}

	if existing, found, err := s.deps.Registry.FindByURL(ctx, req.URL); err != nil {
		return Result{}, err
	} else if found && !req.ReplaceExisting {
		s.logger.Info("ingest: site already ingested", "url", req.URL, "company_id", existing.ID)
		return Result{CompanyID: existing.ID, BaseURL: existing.BaseURL, Skipped: true}, nil
	}

	out, err := s.pipeline(ctx, req).Unwrap()
	if err != nil {
		s.logger.Error("ingest: pipeline failed", "url", req.URL, "error", err)
		return Result{}, err
	}
	s.logger.Info("ingest: done",
		"url", req.URL,
		"company_id", out.CompanyID,
		"chunks", out.Chunks,
		"skipped", out.Skipped,
	)
	return out, nil
}

// scrapeStage scrapes the site and registers the company. Registration is an
// atomic insert-if-absent on the normalized base URL, so two concurrent
// ingests of the same site converge on one company; the loser skips unless
// it asked to replace.
func (s *Service) scrapeStage() fn.Stage[Request, scrapedSite] {
	return func(ctx context.Context, req Request) fn.Result[scrapedSite] {
		scrape, err := s.deps.Scraper.ScrapeSite(ctx, req.URL)
		if err != nil {
			return fn.Err[scrapedSite](err)
		}

		name := req.CompanyName
		if name == "" {
			name = hostOf(scrape.BaseURL)
		}
		company, created, err := s.deps.Registry.CreateIfAbsent(ctx, domain.Company{
			ID:      req.CompanyID,
			Name:    name,
			BaseURL: scrape.BaseURL,
		})
		if err != nil {
			return fn.Err[scrapedSite](err)
		}

		skipped := false
		if !created && !req.ReplaceExisting {
			stored, err := s.deps.Vectors.Exists(ctx, company.ID)
			if err != nil {
				return fn.Err[scrapedSite](err)
			}
			skipped = stored
		}

		return fn.Ok(scrapedSite{req: req, company: company, scrape: scrape, skipped: skipped})
	}
}

func (s *Service) chunkStage() fn.Stage[scrapedSite, chunkedSite] {
	return fn.MapStage(func(site scrapedSite) chunkedSite {
		if site.skipped {
			return chunkedSite{scrapedSite: site}
		}
		return chunkedSite{
			scrapedSite: site,
			chunks:      buildChunks(site.company, site.scrape, DefaultChunkSize, DefaultOverlap),
		}
	})
}

func (s *Service) embedStage() fn.Stage[chunkedSite, embeddedSite] {
	return func(ctx context.Context, site chunkedSite) fn.Result[embeddedSite] {
		embeddings := make([][]float32, 0, len(site.chunks))

		for _, batch := range fn.Batch(site.chunks, EmbedBatchSize) {
			texts := fn.Map(batch, func(c domain.Chunk) string { return c.Text })
			vecs, err := s.deps.Embedder.EmbedBatch(ctx, texts)
			if err != nil {
				return fn.Err[embeddedSite](fmt.Errorf("embed batch: %w", err))
			}
			if len(vecs) != len(texts) {
				return fn.Errf[embeddedSite]("embed batch: got %d vectors for %d texts", len(vecs), len(texts))
			}
			embeddings = append(embeddings, vecs...)
		}

		return fn.Ok(embeddedSite{chunkedSite: site, embeddings: embeddings})
	}
}

func (s *Service) storeStage() fn.Stage[embeddedSite, Result] {
	return func(ctx context.Context, site embeddedSite) fn.Result[Result] {
		if site.skipped {
			return fn.Ok(Result{
				CompanyID: site.company.ID,
				BaseURL:   site.company.BaseURL,
				Pages:     site.pages(),
				Skipped:   true,
			})
		}

		if site.req.ReplaceExisting {
			deleted, err := s.deps.Vectors.DeleteByCompany(ctx, site.company.ID)
			if err != nil {
				return fn.Err[Result](fmt.Errorf("replace: %w", err))
			}
			if deleted {
				s.logger.Info("ingest: replaced stored chunks", "company_id", site.company.ID)
			}
		}

		records := make([]semantic.VectorRecord, len(site.chunks))
		for i, chunk := range site.chunks {
			records[i] = semantic.VectorRecord{
				ID:        PointID(site.company.ID, chunk.Role, chunk.Index),
				Embedding: site.embeddings[i],
				Payload: map[string]any{
					"company_id":  site.company.ID,
					"base_url":    site.company.BaseURL,
					"page_role":   string(chunk.Role),
					"chunk_index": chunk.Index,
					"content":     chunk.Text,
					"url":         chunk.SourceURL,
					"title":       chunk.Title,
					"description": chunk.Description,
				},
			}
		}
		if err := s.deps.Vectors.Upsert(ctx, records); err != nil {
			return fn.Err[Result](fmt.Errorf("vector upsert: %w", err))
		}

		return fn.Ok(Result{
			CompanyID: site.company.ID,
			BaseURL:   site.company.BaseURL,
			Pages:     site.pages(),
			Chunks:    len(records),
		})
	}
}

// PointID derives the deterministic vector point ID for a chunk, so
// re-ingesting a site overwrites its old points instead of duplicating them.
func PointID(companyID string, role domain.PageRole, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s-%s-%d", companyID, role, index))).String()
}

// ensureScheme defaults bare hostnames to https.
func ensureScheme(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return trimmed
	}
	if !strings.Contains(trimmed, "://") {
		return "https://" + trimmed
	}
	return trimmed
}

func hostOf(baseURL string) string {
	host := baseURL
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	return host
}
