package registry

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/PagelineAI/pageline-mvp/engine/domain"
	"github.com/PagelineAI/pageline-mvp/pkg/repo"
)

// newCompanyRepo creates a Neo4j-backed repository for Company nodes.
func newCompanyRepo(driver neo4j.DriverWithContext) *repo.Neo4jRepo[domain.Company, string] {
	return repo.NewNeo4jRepo[domain.Company, string](
		driver,
		"Company",
		companyToMap,
		companyFromRecord,
	)
}

func companyToMap(c domain.Company) map[string]any {
	return map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"base_url":   c.BaseURL,
		"created_at": c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func companyFromRecord(rec *neo4j.Record) (domain.Company, error) {
	node, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "n")
	if err != nil {
		return domain.Company{}, err
	}
	props := node.Props
	c := domain.Company{
		ID:      strProp(props, "id"),
		Name:    strProp(props, "name"),
		BaseURL: strProp(props, "base_url"),
	}
	if ts := strProp(props, "created_at"); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			c.CreatedAt = parsed
		}
	}
	return c, nil
}

func strProp(props map[string]any, key string) string {
	if v, ok := props[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
