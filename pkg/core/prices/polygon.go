// Package prices integrates with the Polygon market-data API: daily close
// fetching, on-disk state persistence, and week-over-week drop detection.
package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const polygonAggsURL = "https://api.polygon.io/v2/aggs/ticker/%s/range/1/day/%s/%s"

// Price is one trading day's close.
type Price struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// State is the persisted result of a price fetch for one ticker.
type State struct {
	Timestamp          string  `json:"timestamp"`
	Prices             []Price `json:"prices"`
	LastFetchTimestamp string  `json:"last_fetch_timestamp"`
}

// Client fetches daily aggregates from Polygon and persists per-ticker
// state files under DataDir.
type Client struct {
	apiKey     string
	dataDir    string
	httpClient *http.Client
}

// NewClient creates a Polygon client. The API key is threaded in explicitly;
// callers typically read POLYGON_API_KEY at startup.
func NewClient(apiKey, dataDir string) *Client {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Printf("WARNING: could not create data dir %s: %v", dataDir, err)
	}
	return &Client{
		apiKey:  apiKey,
		dataDir: dataDir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// aggsResponse is Polygon's aggregates payload.
type aggsResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Close     float64 `json:"c"`
		Volume    float64 `json:"v"`
		Timestamp int64   `json:"t"` // ms since epoch
	} `json:"results"`
}

// FetchDailyCloses fetches adjusted daily closes for the last `days`
// calendar days, persists the state file, and returns it.
func (c *Client) FetchDailyCloses(ctx context.Context, ticker string, days int) (*State, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("polygon API key is not set")
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -(days - 1))
	url := fmt.Sprintf(polygonAggsURL, strings.ToUpper(ticker),
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("adjusted", "true")
	q.Set("apiKey", c.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polygon request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("polygon API returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read polygon response: %w", err)
	}

	var aggs aggsResponse
	if err := json.Unmarshal(body, &aggs); err != nil {
		return nil, fmt.Errorf("failed to parse polygon response: %w", err)
	}
	if aggs.Status != "OK" && aggs.Status != "DELAYED" {
		return nil, fmt.Errorf("polygon API returned non-OK status: %s", aggs.Status)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	state := &State{
		Timestamp:          now,
		LastFetchTimestamp: now,
	}
	for _, r := range aggs.Results {
		state.Prices = append(state.Prices, Price{
			Date:   time.UnixMilli(r.Timestamp).UTC().Format("2006-01-02"),
			Close:  r.Close,
			Volume: r.Volume,
		})
	}

	if err := c.SaveState(ticker, state); err != nil {
		return nil, err
	}
	log.Printf("Fetched %d price records for %s", len(state.Prices), ticker)
	return state, nil
}

// StatePath returns the prices-state file path for a ticker.
func (c *Client) StatePath(ticker string) string {
	return filepath.Join(c.dataDir, fmt.Sprintf("prices_state_%s.json", strings.ToUpper(ticker)))
}

// AlertPath returns the alert file path for a ticker.
func (c *Client) AlertPath(ticker string) string {
	return filepath.Join(c.dataDir, fmt.Sprintf("alerts_%s.json", strings.ToUpper(ticker)))
}

// LoadState reads a ticker's persisted prices state. A missing or corrupt
// file returns an empty state.
func (c *Client) LoadState(ticker string) *State {
	data, err := os.ReadFile(c.StatePath(ticker))
	if err != nil {
		return emptyState()
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("WARNING: could not read prices state for %s: %v", ticker, err)
		return emptyState()
	}
	return &state
}

// SaveState writes a ticker's prices state.
func (c *Client) SaveState(ticker string, state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal prices state: %w", err)
	}
	if err := os.WriteFile(c.StatePath(ticker), data, 0644); err != nil {
		return fmt.Errorf("failed to save prices state: %w", err)
	}
	return nil
}

func emptyState() *State {
	return &State{Timestamp: time.Now().UTC().Format(time.RFC3339)}
}
