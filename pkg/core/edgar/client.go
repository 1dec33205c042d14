// Package edgar is the SEC EDGAR collaborator: ticker-to-CIK resolution,
// company submissions, and XBRL company facts, exposed as the tabular
// annual statements the analysis engine consumes.
// API documentation: https://www.sec.gov/developer
package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	secSubmissionsURL  = "https://data.sec.gov/submissions/CIK%s.json"
	secCompanyFactsURL = "https://data.sec.gov/api/xbrl/companyfacts/CIK%s.json"
	secTickerMapURL    = "https://www.sec.gov/files/company_tickers.json"
	secArchiveURL      = "https://www.sec.gov/Archives/edgar/data/%s/%s"
)

// Client handles SEC EDGAR API requests. SEC requires a declared identity in
// the User-Agent header on every call; the identity is threaded through the
// client explicitly rather than held in process-global state.
type Client struct {
	userAgent  string
	httpClient *http.Client
}

// NewClient creates an EDGAR client with the given identity string
// (e.g. "ValueWatch/1.0 (ops@example.com)").
func NewClient(userAgent string) *Client {
	return &Client{
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// getJSON fetches a URL with the SEC-required headers and decodes the JSON
// body into out.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	body, err := c.get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse SEC response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("SEC API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("SEC API rejected request (status %d): check the declared identity", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SEC API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// LookupCIK finds the zero-padded CIK for a ticker symbol using the SEC's
// ticker mapping file.
func (c *Client) LookupCIK(ctx context.Context, ticker string) (string, error) {
	// Response structure: { "0": {"cik_str": 320193, "ticker": "AAPL", ...}, ... }
	var mapping map[string]struct {
		CIK    int    `json:"cik_str"`
		Ticker string `json:"ticker"`
		Title  string `json:"title"`
	}
	if err := c.getJSON(ctx, secTickerMapURL, &mapping); err != nil {
		return "", fmt.Errorf("failed to fetch ticker mapping: %w", err)
	}

	ticker = strings.ToUpper(ticker)
	for _, entry := range mapping {
		if entry.Ticker == ticker {
			return fmt.Sprintf("%010d", entry.CIK), nil
		}
	}
	return "", fmt.Errorf("ticker %s not found in SEC database", ticker)
}

// padCIK zero-pads a CIK to the 10 digits the data.sec.gov endpoints expect.
func padCIK(cik string) string {
	return fmt.Sprintf("%010s", strings.TrimLeft(cik, "0"))
}
