package edgar

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"valuewatch/pkg/core/filings"
)

// submissions is the data.sec.gov/submissions payload. Recent filings come
// back as parallel arrays.
type submissions struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent recentFilings `json:"recent"`
	} `json:"filings"`
}

type recentFilings struct {
	AccessionNumber []string `json:"accessionNumber"` // e.g. "0000320193-24-000123"
	FilingDate      []string `json:"filingDate"`      // e.g. "2024-11-01"
	ReportDate      []string `json:"reportDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}

const summaryMaxLen = 200

// RecentFilings lists the ticker's filings of the given form types filed
// within daysBack days, newest first. Implements filings.Source.
//
// Each filing's summary is extracted from its primary document; a fetch or
// parse failure degrades to a one-line description rather than failing the
// listing.
func (c *Client) RecentFilings(ctx context.Context, ticker string, daysBack int, formTypes []string) ([]filings.Filing, error) {
	cik, err := c.LookupCIK(ctx, ticker)
	if err != nil {
		return nil, err
	}

	var subs submissions
	if err := c.getJSON(ctx, fmt.Sprintf(secSubmissionsURL, padCIK(cik)), &subs); err != nil {
		return nil, fmt.Errorf("failed to fetch submissions for %s: %w", ticker, err)
	}

	wantForm := make(map[string]bool, len(formTypes))
	for _, ft := range formTypes {
		wantForm[ft] = true
	}
	cutoff := time.Now().AddDate(0, 0, -daysBack)

	recent := subs.Filings.Recent
	var result []filings.Filing
	for i := range recent.AccessionNumber {
		if len(formTypes) > 0 && !wantForm[recent.Form[i]] {
			continue
		}
		filed, err := time.Parse("2006-01-02", recent.FilingDate[i])
		if err != nil || filed.Before(cutoff) {
			continue
		}

		accession := strings.ReplaceAll(recent.AccessionNumber[i], "-", "")
		url := fmt.Sprintf(secArchiveURL, strings.TrimLeft(subs.CIK, "0"), accession+"/"+recent.PrimaryDocument[i])

		result = append(result, filings.Filing{
			FormType:  recent.Form[i],
			FiledDate: recent.FilingDate[i],
			URL:       url,
			Summary:   c.filingSummary(ctx, url, recent.Form[i], recent.FilingDate[i]),
		})
	}
	return result, nil
}

// filingSummary fetches the primary document and extracts leading text.
func (c *Client) filingSummary(ctx context.Context, url, formType, filedDate string) string {
	body, err := c.get(ctx, url, "text/html")
	if err == nil {
		text, err := filings.ExtractDocumentText(bytes.NewReader(body), summaryMaxLen)
		if err == nil && text != "" {
			return text
		}
	}
	if err != nil {
		log.Printf("WARNING: could not fetch filing document %s: %v", url, err)
	}
	return fmt.Sprintf("%s filed on %s", formType, filedDate)
}
