// Package store persists per-ticker analysis results: a JSON file cache for
// the extraction stages and an optional Postgres repository for finished
// spread analyses.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"valuewatch/pkg/core/fundamentals"
)

// MaxCacheAge is how long a cached record stays usable before reads treat it
// as absent.
const MaxCacheAge = 90 * 24 * time.Hour

// FinancialCache is a per-ticker on-disk memo of extraction results. One
// JSON file per ticker holds the independently-keyed sub-results plus a
// cache_date stamp refreshed on every write.
//
// Reads never fail: a stale, corrupt, or unreadable file is a cache miss.
// Writes merge the refreshed key into the existing record so sibling
// sub-results survive. No file locking; at most one process is expected to
// operate on a ticker's cache at a time.
type FinancialCache struct {
	dir string
	now func() time.Time
}

// NewFinancialCache creates a cache rooted at dir, creating it if needed.
func NewFinancialCache(dir string) *FinancialCache {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("WARNING: could not create cache dir %s: %v", dir, err)
	}
	return &FinancialCache{dir: dir, now: time.Now}
}

// cacheRecord is the on-disk shape of one ticker's cache file.
type cacheRecord struct {
	Ticker         string                       `json:"ticker"`
	CacheDate      string                       `json:"cache_date"`
	ROICHistory    *fundamentals.ROICData       `json:"roic_history,omitempty"`
	WACCComponents *fundamentals.WACCComponents `json:"wacc_components,omitempty"`
	SpreadResult   *fundamentals.SpreadResult   `json:"spread_result,omitempty"`
}

// Path returns the cache file path for a ticker.
func (c *FinancialCache) Path(ticker string) string {
	return filepath.Join(c.dir, fmt.Sprintf("financial_cache_%s.json", strings.ToUpper(ticker)))
}

// ROICHistory returns the cached ROIC history for a ticker, if fresh.
func (c *FinancialCache) ROICHistory(ticker string) (*fundamentals.ROICData, bool) {
	record, ok := c.loadFresh(ticker)
	if !ok || record.ROICHistory == nil {
		return nil, false
	}
	return record.ROICHistory, true
}

// SaveROICHistory merges a ROIC history into the ticker's cache record.
func (c *FinancialCache) SaveROICHistory(ticker string, data *fundamentals.ROICData) error {
	return c.merge(ticker, func(r *cacheRecord) { r.ROICHistory = data })
}

// WACCComponents returns the cached WACC components for a ticker, if fresh.
func (c *FinancialCache) WACCComponents(ticker string) (*fundamentals.WACCComponents, bool) {
	record, ok := c.loadFresh(ticker)
	if !ok || record.WACCComponents == nil {
		return nil, false
	}
	return record.WACCComponents, true
}

// SaveWACCComponents merges WACC components into the ticker's cache record.
func (c *FinancialCache) SaveWACCComponents(ticker string, components *fundamentals.WACCComponents) error {
	return c.merge(ticker, func(r *cacheRecord) { r.WACCComponents = components })
}

// SpreadResult returns the cached spread result for a ticker, if fresh.
func (c *FinancialCache) SpreadResult(ticker string) (*fundamentals.SpreadResult, bool) {
	record, ok := c.loadFresh(ticker)
	if !ok || record.SpreadResult == nil {
		return nil, false
	}
	return record.SpreadResult, true
}

// SaveSpreadResult merges a spread result into the ticker's cache record.
func (c *FinancialCache) SaveSpreadResult(ticker string, result *fundamentals.SpreadResult) error {
	return c.merge(ticker, func(r *cacheRecord) { r.SpreadResult = result })
}

// loadFresh reads a ticker's record and applies the staleness policy.
func (c *FinancialCache) loadFresh(ticker string) (*cacheRecord, bool) {
	record, ok := c.load(ticker)
	if !ok {
		return nil, false
	}
	cacheDate, err := parseCacheDate(record.CacheDate)
	if err != nil {
		log.Printf("WARNING: unparsable cache_date for %s: %v", ticker, err)
		return nil, false
	}
	age := c.now().Sub(cacheDate)
	if age >= MaxCacheAge {
		log.Printf("Cache for %s is %d days old, refreshing", ticker, int(age.Hours()/24))
		return nil, false
	}
	return record, true
}

// load reads a ticker's record regardless of age. Corrupt or unreadable
// files read as absent.
func (c *FinancialCache) load(ticker string) (*cacheRecord, bool) {
	data, err := os.ReadFile(c.Path(ticker))
	if err != nil {
		return nil, false
	}
	var record cacheRecord
	if err := json.Unmarshal(data, &record); err != nil {
		log.Printf("WARNING: failed to parse cache for %s: %v", ticker, err)
		return nil, false
	}
	return &record, true
}

// merge is the read-modify-write transaction behind every Save: load the
// full record even if stale, apply the single-key update, re-stamp
// cache_date, write back.
func (c *FinancialCache) merge(ticker string, update func(*cacheRecord)) error {
	record, ok := c.load(ticker)
	if !ok {
		record = &cacheRecord{}
	}
	update(record)
	record.Ticker = strings.ToUpper(ticker)
	record.CacheDate = c.now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache record: %w", err)
	}
	if err := os.WriteFile(c.Path(ticker), data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

func parseCacheDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	// Tolerate zone-less ISO-8601 stamps from older cache files.
	return time.Parse("2006-01-02T15:04:05", value)
}
