// Package pipeline runs the per-ticker monitoring flow end to end: price
// fetch, drop detection, filing enrichment, and spread analysis.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"valuewatch/pkg/core/fundamentals"
	"valuewatch/pkg/core/prices"
)

// PriceFetcher is the market-data collaborator.
type PriceFetcher interface {
	FetchDailyCloses(ctx context.Context, ticker string, days int) (*prices.State, error)
	SaveAlert(ticker string, alert prices.Alert) error
}

// AlertEnricher appends filing context to a triggered alert.
type AlertEnricher interface {
	EnrichAlert(ctx context.Context, ticker, dropDate string) error
}

// SpreadAnalyzer produces the fundamentals signal for a ticker.
type SpreadAnalyzer interface {
	CalculateSpread(ctx context.Context, ticker string, years int, opts fundamentals.WACCOptions) (*fundamentals.SpreadResult, error)
}

// ResultSink receives finished spread results (e.g. the Postgres repo).
type ResultSink interface {
	SaveSpread(ctx context.Context, ticker string, result *fundamentals.SpreadResult) error
}

// Orchestrator wires the stages together. Enricher and Sink are optional;
// a nil field skips that stage.
type Orchestrator struct {
	Prices   PriceFetcher
	Enricher AlertEnricher
	Analyzer SpreadAnalyzer
	Sink     ResultSink

	// HistoryYears is how many fiscal years of ROIC history to request.
	HistoryYears int
	// PriceWindowDays is the calendar window for the drop check.
	PriceWindowDays int
	// Overrides carries analyst WACC assumptions into every spread run.
	Overrides fundamentals.WACCOptions
}

// TickerOutcome records what happened for one ticker during a run.
type TickerOutcome struct {
	Ticker           string                     `json:"ticker"`
	AlertTriggered   bool                       `json:"alert_triggered"`
	DropPercentage   float64                    `json:"drop_percentage"`
	Spread           *fundamentals.SpreadResult `json:"spread,omitempty"`
	InsufficientData bool                       `json:"insufficient_data,omitempty"`
	Error            string                     `json:"error,omitempty"`
}

// RunSummary is the JSON artifact describing a whole pipeline run.
type RunSummary struct {
	RunID      string          `json:"run_id"`
	StartedAt  string          `json:"started_at"`
	FinishedAt string          `json:"finished_at"`
	Outcomes   []TickerOutcome `json:"outcomes"`
	Succeeded  []string        `json:"succeeded"`
	Failed     []string        `json:"failed"`
}

// Run processes every ticker sequentially. Tickers are independent: one
// ticker's failure (insufficient data, missing filings, provider errors) is
// recorded in its outcome and never stops the rest of the run.
func (o *Orchestrator) Run(ctx context.Context, tickers []string) *RunSummary {
	summary := &RunSummary{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}
	log.Printf("Pipeline run %s starting for %d tickers", summary.RunID, len(tickers))

	for _, ticker := range tickers {
		outcome := o.runTicker(ctx, ticker)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Error == "" {
			summary.Succeeded = append(summary.Succeeded, ticker)
		} else {
			summary.Failed = append(summary.Failed, ticker)
		}
	}

	summary.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	log.Printf("Pipeline run %s finished: %d succeeded, %d failed",
		summary.RunID, len(summary.Succeeded), len(summary.Failed))
	return summary
}

func (o *Orchestrator) runTicker(ctx context.Context, ticker string) TickerOutcome {
	outcome := TickerOutcome{Ticker: ticker}

	windowDays := o.PriceWindowDays
	if windowDays <= 0 {
		windowDays = 7
	}

	// 1. Prices and drop detection.
	state, err := o.Prices.FetchDailyCloses(ctx, ticker, windowDays)
	if err != nil {
		outcome.Error = fmt.Sprintf("price fetch: %v", err)
		return outcome
	}
	alert, err := prices.DetectDropAlert(state)
	if err != nil {
		outcome.Error = fmt.Sprintf("drop detection: %v", err)
		return outcome
	}
	outcome.AlertTriggered = alert.AlertTriggered
	outcome.DropPercentage = alert.DropPercentage
	if err := o.Prices.SaveAlert(ticker, alert); err != nil {
		log.Printf("WARNING: failed to save alert for %s: %v", ticker, err)
	}

	// 2. Filing enrichment, only when the drop triggered.
	if alert.AlertTriggered && o.Enricher != nil {
		dropDate := lastPriceDate(state)
		if err := o.Enricher.EnrichAlert(ctx, ticker, dropDate); err != nil {
			log.Printf("WARNING: enrichment failed for %s: %v", ticker, err)
		}
	}

	// 3. Fundamentals signal.
	spread, err := o.Analyzer.CalculateSpread(ctx, ticker, o.HistoryYears, o.Overrides)
	if err != nil {
		outcome.InsufficientData = errors.Is(err, fundamentals.ErrInsufficientData)
		outcome.Error = fmt.Sprintf("spread analysis: %v", err)
		return outcome
	}
	outcome.Spread = spread

	// 4. Persistence.
	if o.Sink != nil {
		if err := o.Sink.SaveSpread(ctx, ticker, spread); err != nil {
			log.Printf("WARNING: failed to persist spread for %s: %v", ticker, err)
		}
	}
	return outcome
}

// lastPriceDate is the drop date used for filing relevance scoring: the most
// recent close in the window, today when the window is empty.
func lastPriceDate(state *prices.State) string {
	latest := ""
	for _, p := range state.Prices {
		if p.Date > latest {
			latest = p.Date
		}
	}
	if latest == "" {
		return time.Now().UTC().Format("2006-01-02")
	}
	return latest
}
