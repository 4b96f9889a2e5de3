// Command ingest scrapes a company website and stores its content as
// embedded chunks in Qdrant, registering the company in Neo4j. It runs one
// URL directly, or serves the NATS ingestion subject with -serve.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/PagelineAI/pageline-mvp/engine/ingest"
	"github.com/PagelineAI/pageline-mvp/engine/registry"
	"github.com/PagelineAI/pageline-mvp/engine/scraper"
	"github.com/PagelineAI/pageline-mvp/engine/semantic"
	"github.com/PagelineAI/pageline-mvp/pkg/metrics"
	"github.com/PagelineAI/pageline-mvp/pkg/natsutil"
	"github.com/PagelineAI/pageline-mvp/pkg/ollama"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

var met = metrics.New()

var (
	mSitesTotal  = func(outcome string) *metrics.Counter { return met.Counter(metrics.WithLabels("pageline_ingest_sites_total", "outcome", outcome), "Sites ingested by outcome") }
	mChunksTotal = met.Counter("pageline_ingest_chunks_total", "Chunks stored")
	mPagesTotal  = func(role string) *metrics.Counter { return met.Counter(metrics.WithLabels("pageline_ingest_pages_total", "role", role), "Pages captured by role") }
	mIngestDur   = met.Histogram("pageline_ingest_duration_seconds", "Per-site pipeline time", nil)
	mInflight    = met.Gauge("pageline_ingest_inflight", "Requests currently processing")
	mErrorsTotal = met.Counter("pageline_ingest_errors_total", "Failed ingestion requests")
)

// all-minilm
const vectorDims = 384

func main() {
	var (
		siteURL     = flag.String("url", "", "company website URL to ingest")
		name        = flag.String("name", "", "company display name")
		replace     = flag.Bool("replace", false, "re-scrape and replace existing content")
		serve       = flag.Bool("serve", false, "consume ingestion requests from NATS")
		natsURL     = flag.String("nats", "", "NATS server URL (with -url: submit over NATS instead of running locally)")
		ollamaURL   = flag.String("ollama", "http://localhost:11434", "Ollama base URL")
		ollamaModel = flag.String("model", ollama.DefaultModel, "Ollama embedding model")
		neo4jURL    = flag.String("neo4j", "neo4j://localhost:7687", "Neo4j bolt URL")
		neo4jUser   = flag.String("neo4j-user", "neo4j", "Neo4j username")
		neo4jPass   = flag.String("neo4j-pass", "", "Neo4j password")
		qdrantAddr  = flag.String("qdrant", "localhost:6334", "Qdrant gRPC address")
		collection  = flag.String("collection", "pageline", "Qdrant collection name")
		metricsPort = flag.Int("metrics-port", 9091, "Prometheus metrics port")
		timeout     = flag.Duration("timeout", 2*time.Minute, "per-site ingestion timeout")
	)
	flag.Parse()

	log := slog.Default()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !*serve && *siteURL == "" {
		fmt.Fprintln(os.Stderr, "usage: ingest -url <site> [-name <company>] [-replace], or ingest -serve -nats <url>")
		os.Exit(2)
	}

	// Submit over NATS: no local pipeline needed.
	if *siteURL != "" && *natsURL != "" && !*serve {
		nc, err := nats.Connect(*natsURL)
		if err != nil {
			log.Error("nats connect failed", "error", err)
			os.Exit(1)
		}
		defer nc.Close()

		req := ingest.Request{URL: *siteURL, CompanyName: *name, ReplaceExisting: *replace}
		result, err := natsutil.Request[ingest.Request, ingest.Result](ctx, nc, ingest.IngestSubject, req, *timeout)
		if err != nil {
			log.Error("ingest request failed", "error", err)
			os.Exit(1)
		}
		printResult(result)
		return
	}

	// Connect Neo4j
	driver, err := neo4j.NewDriverWithContext(*neo4jURL, neo4j.BasicAuth(*neo4jUser, *neo4jPass, ""))
	if err != nil {
		log.Error("neo4j connect failed", "error", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Error("neo4j verify failed", "error", err)
		os.Exit(1)
	}
	reg := registry.New(driver)
	if err := reg.EnsureSchema(ctx); err != nil {
		log.Error("neo4j schema failed", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Neo4j")

	// Connect Qdrant
	vs, err := semantic.New(*qdrantAddr, *collection)
	if err != nil {
		log.Error("qdrant connect failed", "error", err)
		os.Exit(1)
	}
	defer vs.Close()
	if err := vs.EnsureCollection(ctx, vectorDims); err != nil {
		log.Error("qdrant ensure collection failed", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Qdrant", "collection", *collection, "dims", vectorDims)

	embedder := ollama.NewEmbedClient(*ollamaURL, *ollamaModel)
	log.Info("using Ollama embeddings", "model", *ollamaModel)

	svc := ingest.New(ingest.Deps{
		Scraper:  scraper.New(scraper.DefaultOptions(), log),
		Embedder: embedder,
		Vectors:  vs,
		Registry: reg,
		Logger:   log,
	})

	met.ServeAsync(*metricsPort)

	run := func(ctx context.Context, req ingest.Request) (ingest.Result, error) {
		mInflight.Inc()
		start := time.Now()
		result, err := svc.Ingest(ctx, req)
		mIngestDur.Since(start)
		mInflight.Dec()
		recordResult(result, err)
		return result, err
	}

	if *serve {
		if *natsURL == "" {
			fmt.Fprintln(os.Stderr, "-serve requires -nats")
			os.Exit(2)
		}
		nc, err := nats.Connect(*natsURL)
		if err != nil {
			log.Error("nats connect failed", "error", err)
			os.Exit(1)
		}
		defer nc.Close()

		sub, err := ingest.StartConsumer(nc, svc, log)
		if err != nil {
			log.Error("subscribe failed", "error", err)
			os.Exit(1)
		}
		defer sub.Unsubscribe()

		log.Info("consuming ingestion requests", "subject", ingest.IngestSubject)
		<-ctx.Done()
		log.Info("shutting down")
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	result, err := run(runCtx, ingest.Request{URL: *siteURL, CompanyName: *name, ReplaceExisting: *replace})
	if err != nil {
		log.Error("ingest failed", "url", *siteURL, "error", err)
		os.Exit(1)
	}
	printResult(result)
}

func recordResult(result ingest.Result, err error) {
	switch {
	case err != nil:
		mErrorsTotal.Inc()
		mSitesTotal("error").Inc()
	case result.Skipped:
		mSitesTotal("skipped").Inc()
	default:
		mSitesTotal("ingested").Inc()
		mChunksTotal.Add(int64(result.Chunks))
		if result.Pages.Home {
			mPagesTotal("home").Inc()
		}
		if result.Pages.About {
			mPagesTotal("about").Inc()
		}
		if result.Pages.Services {
			mPagesTotal("services").Inc()
		}
	}
}

func printResult(result ingest.Result) {
	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}
