// Package ollama provides an Ollama-backed embedding client for the
// ingestion and retrieval pipelines.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PagelineAI/pageline-mvp/pkg/fn"
	"github.com/PagelineAI/pageline-mvp/pkg/resilience"
)

// DefaultModel is the sentence-transformer served for 384-dim embeddings.
const DefaultModel = "all-minilm"

// EmbedClient calls Ollama's HTTP embedding API. Transient failures are
// retried with backoff; a persistently failing backend trips the breaker so
// ingestion fails fast instead of hammering a dead model server.
type EmbedClient struct {
	baseURL string
	model   string
	client  *http.Client
	breaker *resilience.Breaker
	retry   fn.RetryOpts
}

// NewEmbedClient creates an Ollama embedding client.
func NewEmbedClient(baseURL, model string) *EmbedClient {
	if model == "" {
		model = DefaultModel
	}
	return &EmbedClient{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
		breaker: resilience.NewBreaker(resilience.DefaultBreakerOpts),
		retry: fn.RetryOpts{
			MaxAttempts: 3,
			InitialWait: 200 * time.Millisecond,
			MaxWait:     2 * time.Second,
			Jitter:      true,
		},
	}
}

type embedReq struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResp struct {
	Embedding []float64 `json:"embedding"`
}

func (c *EmbedClient) embedOnce(ctx context.Context, text string) ([]float32, error) {
	body, _ := json.Marshal(embedReq{Model: c.model, Prompt: text})
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("ollama embed: status %d", resp.StatusCode)
	}

	var result embedResp
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("ollama embed decode: %w", err)
	}

	out := make([]float32, len(result.Embedding))
	for i, v := range result.Embedding {
		out[i] = float32(v)
	}
	return out, nil
}

// Embed returns the embedding for one text.
func (c *EmbedClient) Embed(ctx context.Context, text string) ([]float32, error) {
	result := fn.Retry(ctx, c.retry, func(ctx context.Context) fn.Result[[]float32] {
		var vals []float32
		err := c.breaker.Call(ctx, func(ctx context.Context) error {
			var embErr error
			vals, embErr = c.embedOnce(ctx, text)
			return embErr
		})
		return fn.FromPair(vals, err)
	})
	return result.Unwrap()
}

// EmbedBatch embeds texts one by one, preserving input order.
func (c *EmbedClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vals, err := c.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed batch [%d]: %w", i, err)
		}
		out[i] = vals
	}
	return out, nil
}
