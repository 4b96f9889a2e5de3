package repo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// --- Mock infrastructure ---

type mockResult struct {
	records []*neo4j.Record
	idx     int
}

func (m *mockResult) Next(ctx context.Context) bool {
	if m.idx < len(m.records) {
		m.idx++
		return true
	}
	return false
}

func (m *mockResult) Record() *neo4j.Record {
	return m.records[m.idx-1]
}

type mockRunner struct {
	result  *mockResult
	err     error
	cyphers []string
	params  []map[string]any
}

func (m *mockRunner) Run(ctx context.Context, cypher string, params map[string]any) (result, error) {
	m.cyphers = append(m.cyphers, cypher)
	m.params = append(m.params, params)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockRunner) Close(ctx context.Context) error { return nil }

type entity struct {
	ID      string
	BaseURL string
}

func makeRecord(id, baseURL string) *neo4j.Record {
	return &neo4j.Record{
		Values: []any{map[string]any{"id": id, "base_url": baseURL}},
		Keys:   []string{"n"},
	}
}

func newTestRepo(r *mockRunner) *Neo4jRepo[entity, string] {
	repo := NewNeo4jRepo[entity, string](
		nil, "Entity",
		func(e entity) map[string]any { return map[string]any{"id": e.ID, "base_url": e.BaseURL} },
		func(rec *neo4j.Record) (entity, error) {
			if len(rec.Values) == 0 {
				return entity{}, errors.New("empty")
			}
			m, ok := rec.Values[0].(map[string]any)
			if !ok {
				return entity{}, errors.New("bad type")
			}
			return entity{ID: m["id"].(string), BaseURL: m["base_url"].(string)}, nil
		},
	)
	repo.newSession = func(ctx context.Context) runner { return r }
	return repo
}

// --- Tests ---

func TestNewNeo4jRepoDefaults(t *testing.T) {
	r := NewNeo4jRepo[entity, string](nil, "Node", nil, nil)
	if r.idKey != "id" {
		t.Fatalf("expected default idKey=id, got %s", r.idKey)
	}

	r = NewNeo4jRepo[entity, string](nil, "Node", nil, nil, WithIDKey[entity, string]("uuid"))
	if r.idKey != "uuid" {
		t.Fatalf("expected idKey=uuid, got %s", r.idKey)
	}
}

func TestGet_Success(t *testing.T) {
	r := &mockRunner{result: &mockResult{records: []*neo4j.Record{makeRecord("1", "https://a.test")}}}
	repo := newTestRepo(r)

	e, err := repo.Get(context.Background(), "1")
	if err != nil {
		t.Fatal(err)
	}
	if e.ID != "1" || e.BaseURL != "https://a.test" {
		t.Fatalf("got %+v", e)
	}
}

func TestGet_NotFound(t *testing.T) {
	r := &mockRunner{result: &mockResult{}}
	repo := newTestRepo(r)
	if _, err := repo.Get(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
}

func TestList_Success(t *testing.T) {
	r := &mockRunner{result: &mockResult{records: []*neo4j.Record{
		makeRecord("1", "https://a.test"),
		makeRecord("2", "https://b.test"),
	}}}
	repo := newTestRepo(r)

	items, err := repo.List(context.Background(), ListOpts{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items", len(items))
	}
}

func TestMerge_UsesMergeOnKey(t *testing.T) {
	r := &mockRunner{result: &mockResult{records: []*neo4j.Record{makeRecord("1", "https://a.test")}}}
	repo := newTestRepo(r)

	e, err := repo.Merge(context.Background(), "base_url", entity{ID: "1", BaseURL: "https://a.test"})
	if err != nil {
		t.Fatal(err)
	}
	if e.ID != "1" {
		t.Fatalf("got %+v", e)
	}
	if len(r.cyphers) != 1 || !strings.Contains(r.cyphers[0], "MERGE (n:Entity {base_url: $key})") {
		t.Fatalf("cypher = %v", r.cyphers)
	}
	if !strings.Contains(r.cyphers[0], "ON CREATE SET") {
		t.Fatalf("merge must only set props on create: %s", r.cyphers[0])
	}
	if r.params[0]["key"] != "https://a.test" {
		t.Fatalf("params = %v", r.params[0])
	}
}

func TestMerge_ReturnsExisting(t *testing.T) {
	// The store answers with the pre-existing node, not the entity passed in.
	r := &mockRunner{result: &mockResult{records: []*neo4j.Record{makeRecord("old-id", "https://a.test")}}}
	repo := newTestRepo(r)

	e, err := repo.Merge(context.Background(), "base_url", entity{ID: "new-id", BaseURL: "https://a.test"})
	if err != nil {
		t.Fatal(err)
	}
	if e.ID != "old-id" {
		t.Fatalf("got %+v, want existing node", e)
	}
}

func TestMerge_MissingKeyProperty(t *testing.T) {
	repo := newTestRepo(&mockRunner{result: &mockResult{}})
	if _, err := repo.Merge(context.Background(), "nope", entity{ID: "1"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestMerge_RunError(t *testing.T) {
	repo := newTestRepo(&mockRunner{err: errors.New("db down")})
	if _, err := repo.Merge(context.Background(), "base_url", entity{ID: "1", BaseURL: "u"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestFindBy_Found(t *testing.T) {
	r := &mockRunner{result: &mockResult{records: []*neo4j.Record{makeRecord("1", "https://a.test")}}}
	repo := newTestRepo(r)

	e, found, err := repo.FindBy(context.Background(), "base_url", "https://a.test")
	if err != nil {
		t.Fatal(err)
	}
	if !found || e.ID != "1" {
		t.Fatalf("found=%v e=%+v", found, e)
	}
}

func TestFindBy_NotFound(t *testing.T) {
	repo := newTestRepo(&mockRunner{result: &mockResult{}})
	_, found, err := repo.FindBy(context.Background(), "base_url", "https://missing.test")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected not found")
	}
}

func TestDelete_DetachDeletes(t *testing.T) {
	r := &mockRunner{result: &mockResult{}}
	repo := newTestRepo(r)
	if err := repo.Delete(context.Background(), "1"); err != nil {
		t.Fatal(err)
	}
	if len(r.cyphers) != 1 || !strings.Contains(r.cyphers[0], "DETACH DELETE") {
		t.Fatalf("cypher = %v", r.cyphers)
	}
}
