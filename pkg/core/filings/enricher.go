package filings

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Default enrichment settings: look back far enough to capture the latest
// quarterly and annual filings, keep the three best matches.
const (
	DefaultDaysBack = 90
	DefaultTopN     = 3
)

var defaultFormTypes = []string{"8-K", "10-Q", "10-K"}

// Source supplies recent filings for a ticker. The EDGAR client implements
// it; tests use fakes.
type Source interface {
	RecentFilings(ctx context.Context, ticker string, daysBack int, formTypes []string) ([]Filing, error)
}

// Enricher appends filing context to per-ticker alert files produced by the
// price-drop stage.
type Enricher struct {
	Source  Source
	DataDir string
}

func NewEnricher(source Source, dataDir string) *Enricher {
	return &Enricher{Source: source, DataDir: dataDir}
}

// alertPath must match where the prices stage writes alerts.
func (e *Enricher) alertPath(ticker string) string {
	return filepath.Join(e.DataDir, fmt.Sprintf("alerts_%s.json", strings.ToUpper(ticker)))
}

// EnrichAlert fetches the ticker's recent filings, ranks them against the
// drop date, and writes the top summaries into the alert file's
// filing_context key. No filings still writes an empty context so consumers
// see a consistent shape.
func (e *Enricher) EnrichAlert(ctx context.Context, ticker, dropDate string) error {
	recent, err := e.Source.RecentFilings(ctx, ticker, DefaultDaysBack, defaultFormTypes)
	if err != nil {
		return fmt.Errorf("fetch recent filings for %s: %w", ticker, err)
	}

	summaries := make([]Summary, 0, DefaultTopN)
	for _, sf := range TopRelevant(recent, dropDate, DefaultTopN) {
		summaries = append(summaries, BuildSummary(sf))
	}
	return e.appendContext(ticker, summaries)
}

// appendContext merges filing_context into the existing alert JSON without
// clobbering the alert fields themselves.
func (e *Enricher) appendContext(ticker string, summaries []Summary) error {
	path := e.alertPath(ticker)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("alert file not found: %w", err)
	}

	var alert map[string]interface{}
	if err := json.Unmarshal(data, &alert); err != nil {
		return fmt.Errorf("failed to parse alert file %s: %w", path, err)
	}
	alert["filing_context"] = summaries

	merged, err := json.MarshalIndent(alert, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal enriched alert: %w", err)
	}
	if err := os.WriteFile(path, merged, 0644); err != nil {
		return fmt.Errorf("failed to write enriched alert: %w", err)
	}

	log.Printf("Added %d filing contexts to %s alert", len(summaries), ticker)
	return nil
}

// EnrichAll processes tickers independently and reports which succeeded and
// which failed; one ticker's failure never stops the rest.
func (e *Enricher) EnrichAll(ctx context.Context, tickers []string, dropDates map[string]string) (succeeded, failed []string) {
	for _, ticker := range tickers {
		dropDate := dropDates[ticker]
		if err := e.EnrichAlert(ctx, ticker, dropDate); err != nil {
			log.Printf("WARNING: failed to enrich alerts for %s: %v", ticker, err)
			failed = append(failed, ticker)
			continue
		}
		succeeded = append(succeeded, ticker)
	}
	return succeeded, failed
}
