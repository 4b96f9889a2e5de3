package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// desktopUserAgent is sent on every request. Some site builders serve empty
// shells to unknown agents.
const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// aboutPaths and servicesPaths are the dedicated-page path candidates, tried
// in order. The first path answering 200 wins.
var (
	aboutPaths = []string{
		"/about", "/about-us", "/aboutus", "/company", "/our-story", "/who-we-are",
	}

	servicesPaths = []string{
		"/services", "/products", "/solutions", "/solution",
		"/offerings", "/what-we-do", "/our-services", "/our-solutions",
	}
)

// Fetcher retrieves pages with a shared timeout, rate limit, and user agent.
// Responses follow redirects; the final URL after redirects is reported.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewFetcher builds a Fetcher from Options.
func NewFetcher(opts Options) *Fetcher {
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return &Fetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: limiter,
	}
}

// Get fetches one URL and returns the raw body plus the final URL after
// redirects. Non-200 statuses are errors.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", desktopUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", rawURL, err)
	}
	return body, resp.Request.URL.String(), nil
}

// FindPage tries each candidate path against the base URL and returns the
// first page that answers 200. Fetch errors on a candidate just move on to
// the next one.
func (f *Fetcher) FindPage(ctx context.Context, baseURL string, paths []string) ([]byte, string, bool) {
	base := strings.TrimRight(baseURL, "/")
	for _, path := range paths {
		candidate, err := url.JoinPath(base, path)
		if err != nil {
			continue
		}
		body, finalURL, err := f.Get(ctx, candidate)
		if err != nil {
			continue
		}
		return body, finalURL, true
	}
	return nil, "", false
}
