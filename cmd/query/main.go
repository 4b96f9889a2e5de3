// Command query embeds a question and retrieves the closest website chunks
// from Qdrant, optionally scoped to one company. With -content it dumps a
// company's stored chunks in page order instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/PagelineAI/pageline-mvp/engine/rag"
	"github.com/PagelineAI/pageline-mvp/engine/registry"
	"github.com/PagelineAI/pageline-mvp/engine/semantic"
	"github.com/PagelineAI/pageline-mvp/pkg/ollama"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func main() {
	var (
		question    = flag.String("q", "", "question to ask")
		companyID   = flag.String("company", "", "restrict to one company by ID")
		companyURL  = flag.String("url", "", "restrict to one company by website URL (resolved via Neo4j)")
		topK        = flag.Int("n", 5, "number of results")
		content     = flag.Bool("content", false, "dump all stored chunks for the company instead of searching")
		ollamaURL   = flag.String("ollama", "http://localhost:11434", "Ollama base URL")
		ollamaModel = flag.String("model", ollama.DefaultModel, "Ollama embedding model")
		qdrantAddr  = flag.String("qdrant", "localhost:6334", "Qdrant gRPC address")
		collection  = flag.String("collection", "pageline", "Qdrant collection name")
		neo4jURL    = flag.String("neo4j", "neo4j://localhost:7687", "Neo4j bolt URL")
		neo4jUser   = flag.String("neo4j-user", "neo4j", "Neo4j username")
		neo4jPass   = flag.String("neo4j-pass", "", "Neo4j password")
	)
	flag.Parse()

	log := slog.Default()
	ctx := context.Background()

	if *question == "" && !*content {
		fmt.Fprintln(os.Stderr, "usage: query -q <question> [-company <id> | -url <site>] [-n 5], or query -content -company <id>")
		os.Exit(2)
	}

	if *companyID == "" && *companyURL != "" {
		id, err := resolveCompany(ctx, *neo4jURL, *neo4jUser, *neo4jPass, *companyURL)
		if err != nil {
			log.Error("company lookup failed", "url", *companyURL, "error", err)
			os.Exit(1)
		}
		*companyID = id
	}

	vs, err := semantic.New(*qdrantAddr, *collection)
	if err != nil {
		log.Error("qdrant connect failed", "error", err)
		os.Exit(1)
	}
	defer vs.Close()

	embedder := ollama.NewEmbedClient(*ollamaURL, *ollamaModel)
	svc := rag.New(embedder, vs, rag.DefaultOptions(), log)

	if *content {
		rows, err := svc.CompanyContent(ctx, *companyID)
		if err != nil {
			log.Error("content fetch failed", "error", err)
			os.Exit(1)
		}
		for _, r := range rows {
			fmt.Printf("[%s #%d] %s\n", r.Role, r.ChunkIndex, r.Text)
		}
		return
	}

	results, err := svc.Query(ctx, *question, *companyID, *topK)
	if err != nil {
		log.Error("query failed", "error", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Println("no results")
		return
	}

	for i, r := range results {
		fmt.Printf("%d. (distance %.4f) [%s #%d]\n", i+1, r.Distance, r.Role, r.ChunkIndex)
		fmt.Println(indent(r.Text))
		if r.SourceURL != "" {
			fmt.Printf("   source: %s\n", r.SourceURL)
		}
	}
}

// resolveCompany maps a website URL to a registered company ID.
func resolveCompany(ctx context.Context, uri, user, pass, siteURL string) (string, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, pass, ""))
	if err != nil {
		return "", err
	}
	defer driver.Close(ctx)

	company, found, err := registry.New(driver).FindByURL(ctx, siteURL)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("no company registered for %s", siteURL)
	}
	return company.ID, nil
}

func indent(s string) string {
	return "   " + strings.ReplaceAll(s, "\n", "\n   ")
}
