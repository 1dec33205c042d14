package edgar

import (
	"context"
	"fmt"
	"sort"
	"time"

	"valuewatch/pkg/core/fundamentals"
)

// companyFacts is the data.sec.gov/api/xbrl/companyfacts payload: every XBRL
// fact the company has ever reported, grouped by taxonomy and concept.
type companyFacts struct {
	CIK        int                                `json:"cik"`
	EntityName string                             `json:"entityName"`
	Facts      map[string]map[string]conceptFacts `json:"facts"`
}

type conceptFacts struct {
	Label string                 `json:"label"`
	Units map[string][]factValue `json:"units"`
}

// factValue is one reported value. Duration facts (income statement) carry a
// start date; instant facts (balance sheet) do not.
type factValue struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Val   float64 `json:"val"`
	FY    int     `json:"fy"`
	FP    string  `json:"fp"`
	Form  string  `json:"form"`
}

// Filing10K is one fiscal year's annual statements, reconstructed from XBRL
// company facts.
type Filing10K struct {
	Ticker string
	Year   int

	income  *fundamentals.Statement
	balance *fundamentals.Statement
}

func (f *Filing10K) FiscalYear() int                          { return f.Year }
func (f *Filing10K) IncomeStatement() *fundamentals.Statement { return f.income }
func (f *Filing10K) BalanceSheet() *fundamentals.Statement    { return f.balance }

// AnnualFilings returns up to count of the ticker's most recent fiscal years
// of 10-K data, most recent first. Implements fundamentals.FilingProvider.
//
// Each year's statements are rebuilt from companyfacts: USD facts reported
// on a 10-K (or amendment), instant facts onto the balance sheet, full-year
// duration facts onto the income statement, keyed by the period end date.
func (c *Client) AnnualFilings(ctx context.Context, ticker string, count int) ([]fundamentals.AnnualFiling, error) {
	cik, err := c.LookupCIK(ctx, ticker)
	if err != nil {
		return nil, err
	}

	var facts companyFacts
	if err := c.getJSON(ctx, fmt.Sprintf(secCompanyFactsURL, padCIK(cik)), &facts); err != nil {
		return nil, fmt.Errorf("failed to fetch company facts for %s: %w", ticker, err)
	}
	return buildAnnualFilings(&facts, ticker, count)
}

// buildAnnualFilings reconstructs per-fiscal-year statements from a
// companyfacts payload.
func buildAnnualFilings(facts *companyFacts, ticker string, count int) ([]fundamentals.AnnualFiling, error) {
	gaap, ok := facts.Facts["us-gaap"]
	if !ok {
		return nil, fmt.Errorf("no us-gaap facts reported for %s", ticker)
	}

	type yearStatements struct {
		income  *fundamentals.Statement
		balance *fundamentals.Statement
		periods map[string]bool
	}
	byYear := make(map[int]*yearStatements)
	statementsFor := func(year int) *yearStatements {
		ys, ok := byYear[year]
		if !ok {
			ys = &yearStatements{
				income:  fundamentals.NewStatement(),
				balance: fundamentals.NewStatement(),
				periods: make(map[string]bool),
			}
			byYear[year] = ys
		}
		return ys
	}

	for concept, cf := range gaap {
		for _, v := range cf.Units["USD"] {
			if !isAnnualForm(v.Form) {
				continue
			}
			end, err := time.Parse("2006-01-02", v.End)
			if err != nil {
				continue
			}
			duration, instant := factDuration(v)
			if !instant && !isFullYear(duration) {
				continue
			}
			ys := statementsFor(end.Year())
			ys.periods[v.End] = true
			if instant {
				ys.balance.Set("us-gaap:"+concept, v.End, v.Val)
			} else {
				ys.income.Set("us-gaap:"+concept, v.End, v.Val)
			}
		}
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	if count > 0 && len(years) > count {
		years = years[:count]
	}

	filings := make([]fundamentals.AnnualFiling, 0, len(years))
	for _, year := range years {
		ys := byYear[year]
		periods := make([]string, 0, len(ys.periods))
		for p := range ys.periods {
			periods = append(periods, p)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(periods)))
		ys.income.Periods = periods
		ys.balance.Periods = periods
		filings = append(filings, &Filing10K{
			Ticker:  ticker,
			Year:    year,
			income:  ys.income,
			balance: ys.balance,
		})
	}
	return filings, nil
}

// LatestAnnualFiling returns the most recent annual filing, or nil when the
// company exists but has no 10-K data.
func (c *Client) LatestAnnualFiling(ctx context.Context, ticker string) (fundamentals.AnnualFiling, error) {
	filings, err := c.AnnualFilings(ctx, ticker, 1)
	if err != nil {
		return nil, err
	}
	if len(filings) == 0 {
		return nil, nil
	}
	return filings[0], nil
}

func isAnnualForm(form string) bool {
	return form == "10-K" || form == "10-K/A"
}

// factDuration reports a fact's covered duration and whether it is an
// instant (point-in-time) fact.
func factDuration(v factValue) (time.Duration, bool) {
	if v.Start == "" {
		return 0, true
	}
	start, err := time.Parse("2006-01-02", v.Start)
	if err != nil {
		return 0, true
	}
	end, err := time.Parse("2006-01-02", v.End)
	if err != nil {
		return 0, true
	}
	return end.Sub(start), false
}

// isFullYear accepts durations close to a fiscal year, filtering out the
// quarterly comparatives a 10-K also reports.
func isFullYear(d time.Duration) bool {
	days := d.Hours() / 24
	return days >= 300 && days <= 400
}
