// Package registry tracks which companies exist and which website each one
// was ingested from. Companies live as nodes in Neo4j keyed on their
// normalized base URL.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/PagelineAI/pageline-mvp/engine/domain"
)

// companyRepo is the repository surface the registry needs. Satisfied by
// *repo.Neo4jRepo[domain.Company, string].
type companyRepo interface {
	Merge(ctx context.Context, mergeKey string, c domain.Company) (domain.Company, error)
	FindBy(ctx context.Context, prop string, value any) (domain.Company, bool, error)
	Delete(ctx context.Context, id string) error
}

// Registry provides company registration and lookup.
type Registry struct {
	driver    neo4j.DriverWithContext
	companies companyRepo
}

// New creates a Registry on top of a Neo4j driver.
func New(driver neo4j.DriverWithContext) *Registry {
	return &Registry{
		driver:    driver,
		companies: newCompanyRepo(driver),
	}
}

// newWithRepo wires an explicit repository. Used in tests.
func newWithRepo(companies companyRepo) *Registry {
	return &Registry{companies: companies}
}

// EnsureSchema creates the uniqueness constraints the registry relies on.
// The base_url constraint is what makes CreateIfAbsent race-free.
func (r *Registry) EnsureSchema(ctx context.Context) error {
	sess := r.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	constraints := []string{
		`CREATE CONSTRAINT company_base_url IF NOT EXISTS FOR (c:Company) REQUIRE c.base_url IS UNIQUE`,
		`CREATE CONSTRAINT company_id IF NOT EXISTS FOR (c:Company) REQUIRE c.id IS UNIQUE`,
	}
	for _, cypher := range constraints {
		if _, err := sess.Run(ctx, cypher, nil); err != nil {
			return fmt.Errorf("registry: ensure schema: %w", err)
		}
	}
	return nil
}

// CreateIfAbsent registers a company keyed on its normalized base URL. When
// a company with the same base URL already exists, that company is returned
// and created is false; the incoming record never overwrites it.
func (r *Registry) CreateIfAbsent(ctx context.Context, c domain.Company) (domain.Company, bool, error) {
	c.BaseURL = NormalizeURL(c.BaseURL)
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	merged, err := r.companies.Merge(ctx, "base_url", c)
	if err != nil {
		return domain.Company{}, false, fmt.Errorf("registry: create company %s: %w", c.BaseURL, err)
	}
	return merged, merged.ID == c.ID, nil
}

// FindByURL looks a company up by website URL, tolerating protocol and
// trailing-slash differences. The first variant that matches wins.
func (r *Registry) FindByURL(ctx context.Context, rawURL string) (domain.Company, bool, error) {
	normalized := NormalizeURL(rawURL)
	for _, variant := range URLVariants(normalized) {
		c, found, err := r.companies.FindBy(ctx, "base_url", variant)
		if err != nil {
			return domain.Company{}, false, fmt.Errorf("registry: find by url %s: %w", rawURL, err)
		}
		if found {
			return c, true, nil
		}
	}
	return domain.Company{}, false, nil
}

// Get returns a company by ID, or ErrCompanyNotFound.
func (r *Registry) Get(ctx context.Context, id string) (domain.Company, error) {
	c, found, err := r.companies.FindBy(ctx, "id", id)
	if err != nil {
		return domain.Company{}, fmt.Errorf("registry: get company %s: %w", id, err)
	}
	if !found {
		return domain.Company{}, fmt.Errorf("%w: %s", domain.ErrCompanyNotFound, id)
	}
	return c, nil
}

// Delete removes a company node. Vector cleanup is the caller's concern.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if err := r.companies.Delete(ctx, id); err != nil {
		return fmt.Errorf("registry: delete company %s: %w", id, err)
	}
	return nil
}
