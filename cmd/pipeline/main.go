package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"valuewatch/pkg/core/config"
	"valuewatch/pkg/core/edgar"
	"valuewatch/pkg/core/filings"
	"valuewatch/pkg/core/fundamentals"
	"valuewatch/pkg/core/pipeline"
	"valuewatch/pkg/core/prices"
	"valuewatch/pkg/core/store"
)

const defaultIdentity = "ValueWatch/1.0 (ops@valuewatch.local)"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	var (
		configPath    = flag.String("config", "config/tickers.yaml", "monitored tickers YAML")
		overridesPath = flag.String("overrides", "config/overrides.hjson", "analyst WACC overrides (optional)")
		dataDir       = flag.String("data", "data", "artifact and cache directory")
		historyYears  = flag.Int("years", 5, "fiscal years of ROIC history")
		windowDays    = flag.Int("window", 7, "calendar days in the price-drop window")
	)
	flag.Parse()

	tickers, err := config.LoadTickers(*configPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	overrides, err := config.LoadOverrides(*overridesPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	identity := os.Getenv("EDGAR_IDENTITY")
	if identity == "" {
		log.Printf("Warning: EDGAR_IDENTITY not set, using %q", defaultIdentity)
		identity = defaultIdentity
	}

	edgarClient := edgar.NewClient(identity)
	priceClient := prices.NewClient(os.Getenv("POLYGON_API_KEY"), *dataDir)
	cache := store.NewFinancialCache(*dataDir)
	analyzer := fundamentals.NewAnalyzer(edgarClient, cache)
	enricher := filings.NewEnricher(edgarClient, *dataDir)

	ctx := context.Background()

	var sink pipeline.ResultSink
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(ctx); err != nil {
			log.Printf("Warning: database unavailable, running file-only: %v", err)
		} else {
			defer store.CloseDB()
			sink = store.NewSpreadRepo()
		}
	}

	orch := &pipeline.Orchestrator{
		Prices:          priceClient,
		Enricher:        enricher,
		Analyzer:        analyzer,
		Sink:            sink,
		HistoryYears:    *historyYears,
		PriceWindowDays: *windowDays,
		Overrides:       overrides,
	}

	summary := orch.Run(ctx, tickers)
	if err := writeArtifacts(*dataDir, summary); err != nil {
		log.Fatalf("Error: %v", err)
	}

	if len(summary.Succeeded) == 0 {
		log.Fatalf("Error: all %d tickers failed", len(summary.Failed))
	}
	fmt.Printf("Run %s complete: %d/%d tickers succeeded.\n",
		summary.RunID, len(summary.Succeeded), len(summary.Outcomes))
}

func writeArtifacts(dataDir string, summary *pipeline.RunSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "run_summary.json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write run summary: %w", err)
	}

	report := pipeline.RenderReport(summary)
	if !pipeline.ValidateReport(report) {
		log.Println("Warning: rendered report failed markdown validation")
	}
	if err := os.WriteFile(filepath.Join(dataDir, "run_report.md"), []byte(report), 0644); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}
	return nil
}
