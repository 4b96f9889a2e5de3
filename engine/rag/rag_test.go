package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/PagelineAI/pageline-mvp/engine/domain"
	"github.com/PagelineAI/pageline-mvp/engine/semantic"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return f.vec, f.err
}

type fakeSearcher struct {
	searchResults []semantic.SearchResult
	searchErr     error
	companyRows   []semantic.SearchResult
	fetchErr      error

	gotTopK      int
	gotCompanyID string
	fetchCalls   int
}

func (f *fakeSearcher) Search(_ context.Context, _ []float32, topK int, companyID string) ([]semantic.SearchResult, error) {
	f.gotTopK = topK
	f.gotCompanyID = companyID
	return f.searchResults, f.searchErr
}

func (f *fakeSearcher) FetchCompany(_ context.Context, companyID string) ([]semantic.SearchResult, error) {
	f.fetchCalls++
	return f.companyRows, f.fetchErr
}

func newTestService(em *fakeEmbedder, se *fakeSearcher) *Service {
	return New(em, se, DefaultOptions(), nil)
}

func TestQuery_RankedResults(t *testing.T) {
	se := &fakeSearcher{
		searchResults: []semantic.SearchResult{
			{ID: "a", Distance: 0.1, Text: "closest"},
			{ID: "b", Distance: 0.4, Text: "further"},
		},
	}
	svc := newTestService(&fakeEmbedder{vec: []float32{1, 0}}, se)

	results, err := svc.Query(context.Background(), "what services do you offer", "c1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].ID != "a" {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Distance >= results[1].Distance {
		t.Error("results must come back in ascending distance order")
	}
	if se.gotTopK != 2 || se.gotCompanyID != "c1" {
		t.Errorf("search called with topK=%d company=%q", se.gotTopK, se.gotCompanyID)
	}
	if se.fetchCalls != 0 {
		t.Error("fallback must not run when search has hits")
	}
}

func TestQuery_DefaultTopK(t *testing.T) {
	se := &fakeSearcher{}
	svc := newTestService(&fakeEmbedder{vec: []float32{1}}, se)

	if _, err := svc.Query(context.Background(), "who are you", "", 0); err != nil {
		t.Fatal(err)
	}
	if se.gotTopK != DefaultOptions().TopK {
		t.Errorf("topK = %d, want default", se.gotTopK)
	}
}

func TestQuery_EmptyQuestion(t *testing.T) {
	svc := newTestService(&fakeEmbedder{}, &fakeSearcher{})
	_, err := svc.Query(context.Background(), "  ", "c1", 5)
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestQuery_EmbedErrorPropagates(t *testing.T) {
	svc := newTestService(&fakeEmbedder{err: errors.New("model offline")}, &fakeSearcher{})
	_, err := svc.Query(context.Background(), "real question", "c1", 5)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, domain.ErrEmptyQuery) {
		t.Fatal("wrong error")
	}
}

func TestQuery_OrderedFallback(t *testing.T) {
	se := &fakeSearcher{
		searchResults: nil, // no similarity hits
		companyRows: []semantic.SearchResult{
			{ID: "h0", Role: "home", ChunkIndex: 0, Distance: 0.7},
			{ID: "h1", Role: "home", ChunkIndex: 1, Distance: 0.9},
			{ID: "a0", Role: "about", ChunkIndex: 0},
		},
	}
	svc := newTestService(&fakeEmbedder{vec: []float32{1}}, se)

	results, err := svc.Query(context.Background(), "anything at all", "c1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want topK=2", len(results))
	}
	if results[0].ID != "h0" || results[1].ID != "h1" {
		t.Errorf("fallback must keep stored order: %+v", results)
	}
	for _, r := range results {
		if r.Distance != 0 {
			t.Errorf("fallback distance = %v, want 0", r.Distance)
		}
		if r.Meta["fallback"] != "ordered" {
			t.Errorf("fallback marker missing: %v", r.Meta)
		}
	}
}

func TestQuery_NoFallbackWithoutCompany(t *testing.T) {
	se := &fakeSearcher{companyRows: []semantic.SearchResult{{ID: "x"}}}
	svc := newTestService(&fakeEmbedder{vec: []float32{1}}, se)

	results, err := svc.Query(context.Background(), "broad question", "", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v, want none", results)
	}
	if se.fetchCalls != 0 {
		t.Error("fallback must not run for cross-company queries")
	}
}

func TestQuery_FallbackEmptyCompany(t *testing.T) {
	se := &fakeSearcher{}
	svc := newTestService(&fakeEmbedder{vec: []float32{1}}, se)

	results, err := svc.Query(context.Background(), "real question", "c1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v", results)
	}
}

func TestCompanyContent(t *testing.T) {
	se := &fakeSearcher{
		companyRows: []semantic.SearchResult{
			{ID: "h0", Role: "home", ChunkIndex: 0},
			{ID: "s0", Role: "services", ChunkIndex: 0},
		},
	}
	svc := newTestService(&fakeEmbedder{}, se)

	rows, err := svc.CompanyContent(context.Background(), "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}

	if _, err := svc.CompanyContent(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty company id")
	}
}
