package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"valuewatch/pkg/core/fundamentals"
)

// SpreadRepo persists finished spread analyses to Postgres so the dashboard
// can query history without touching cache files.
//
// Schema assumption (managed outside this module):
//
//	CREATE TABLE IF NOT EXISTS spread_analysis (
//	  ticker      TEXT PRIMARY KEY,
//	  analysis    JSONB,
//	  durability  TEXT,
//	  trend       TEXT,
//	  updated_at  TIMESTAMPTZ
//	);
type SpreadRepo struct{}

// NewSpreadRepo creates a new repository instance.
func NewSpreadRepo() *SpreadRepo {
	return &SpreadRepo{}
}

// SaveSpread upserts a ticker's spread result keyed by ticker.
func (r *SpreadRepo) SaveSpread(ctx context.Context, ticker string, result *fundamentals.SpreadResult) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	analysisJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal spread result: %w", err)
	}

	query := `
		INSERT INTO spread_analysis (ticker, analysis, durability, trend, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ticker)
		DO UPDATE SET
			analysis = EXCLUDED.analysis,
			durability = EXCLUDED.durability,
			trend = EXCLUDED.trend,
			updated_at = EXCLUDED.updated_at
	`
	_, err = pool.Exec(ctx, query, ticker, analysisJSON, result.Durability, result.SpreadTrend, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save spread analysis for %s: %w", ticker, err)
	}
	return nil
}

// LoadSpread reads back a previously saved spread result, or nil if none.
func (r *SpreadRepo) LoadSpread(ctx context.Context, ticker string) (*fundamentals.SpreadResult, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var analysisJSON []byte
	query := `SELECT analysis FROM spread_analysis WHERE ticker = $1 LIMIT 1`
	if err := pool.QueryRow(ctx, query, ticker).Scan(&analysisJSON); err != nil {
		return nil, nil
	}
	var result fundamentals.SpreadResult
	if err := json.Unmarshal(analysisJSON, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored analysis: %w", err)
	}
	return &result, nil
}
