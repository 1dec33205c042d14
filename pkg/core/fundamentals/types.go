// Package fundamentals extracts accounting data from multi-year SEC filings
// and derives the ROIC-WACC spread for a ticker.
//
// Formulas:
//   - ROIC = NOPAT / Invested Capital
//   - NOPAT = Operating Income × (1 - Tax Rate)
//   - Invested Capital = Total Assets - Cash - Non-Interest Liabilities
//   - Cost of Equity (CAPM): Re = Rf + β × MRP
//   - Cost of Debt: Rd = |Interest Expense| / Total Debt
//   - WACC = (E/V × Re) + (D/V × Rd × (1-Tc))
package fundamentals

import "context"

// Default assumptions for the CAPM cost of equity.
const (
	DefaultRiskFreeRate      = 0.040 // 10-year Treasury
	DefaultMarketRiskPremium = 0.055
	DefaultBeta              = 1.0
)

// MinHistoryYears is the minimum number of valid fiscal years required for a
// ROIC history to be usable.
const MinHistoryYears = 3

// Spread trend classifications.
const (
	TrendImproving     = "improving"
	TrendDeteriorating = "deteriorating"
	TrendStable        = "stable"
)

// Spread durability assessments.
const (
	DurabilityStrong    = "strong"
	DurabilityUncertain = "uncertain"
	DurabilityWeak      = "weak"
)

// ROICData holds a company's ROIC history, one entry per fiscal year,
// ascending. The four slices are index-aligned.
type ROICData struct {
	Years                 []int     `json:"years"`
	ROICValues            []float64 `json:"roic_values"`
	NOPATValues           []float64 `json:"nopat_values"`
	InvestedCapitalValues []float64 `json:"invested_capital_values"`
}

// WACCComponents holds every input to the WACC formula. EquityRatio and
// DebtRatio are always derived from TotalEquity and TotalDebt, never set
// independently, so they sum to 1 within floating tolerance.
type WACCComponents struct {
	CostOfEquity      float64 `json:"cost_of_equity"`
	CostOfDebt        float64 `json:"cost_of_debt"`
	TaxRate           float64 `json:"tax_rate"`
	DebtRatio         float64 `json:"debt_ratio"`
	EquityRatio       float64 `json:"equity_ratio"`
	TotalDebt         float64 `json:"total_debt"`
	TotalEquity       float64 `json:"total_equity"`
	RiskFreeRate      float64 `json:"risk_free_rate"`
	Beta              float64 `json:"beta"`
	MarketRiskPremium float64 `json:"market_risk_premium"`
}

// WACCResult is the output of a WACC calculation. Scenarios always contains
// "base"; "pessimistic" and "optimistic" are present when sensitivity
// analysis was requested.
type WACCResult struct {
	BaselineWACC float64            `json:"baseline_wacc"`
	Scenarios    map[string]float64 `json:"scenarios"`
	Components   WACCComponents     `json:"components_breakdown"`
}

// SpreadResult is the output of the spread analysis: a per-year ROIC-WACC
// spread series with trend and durability classification.
type SpreadResult struct {
	CurrentSpread float64     `json:"current_spread"`
	SpreadHistory []float64   `json:"spread_history"`
	Years         []int       `json:"years"`
	SpreadTrend   string      `json:"spread_trend"`
	Durability    string      `json:"durability_assessment"`
	ROICData      *ROICData   `json:"roic_data"`
	WACCResult    *WACCResult `json:"wacc_result"`
}

// WACCOptions carries optional analyst overrides for the CAPM inputs.
// A nil field falls back to the package default.
type WACCOptions struct {
	RiskFreeRate      *float64 `json:"risk_free_rate"`
	MarketRiskPremium *float64 `json:"market_risk_premium"`
	Beta              *float64 `json:"beta"`
}

// AnnualFiling is one annual (10-K) filing with its two statements.
// Implementations are expected to come from the SEC EDGAR client; tests use
// in-memory fakes.
type AnnualFiling interface {
	FiscalYear() int
	IncomeStatement() *Statement
	BalanceSheet() *Statement
}

// FilingProvider supplies annual filings for a company.
//
// AnnualFilings returns up to count filings in any order; the ROIC builder
// sorts extracted years ascending itself. An error means the company lookup
// failed; an empty slice means the company exists but has no annual filings.
type FilingProvider interface {
	AnnualFilings(ctx context.Context, ticker string, count int) ([]AnnualFiling, error)
	LatestAnnualFiling(ctx context.Context, ticker string) (AnnualFiling, error)
}

// Cache memoizes per-ticker results. Extraction is correct without one;
// implementations must treat stale or unreadable entries as absent.
type Cache interface {
	ROICHistory(ticker string) (*ROICData, bool)
	SaveROICHistory(ticker string, data *ROICData) error
	WACCComponents(ticker string) (*WACCComponents, bool)
	SaveWACCComponents(ticker string, c *WACCComponents) error
	SpreadResult(ticker string) (*SpreadResult, bool)
	SaveSpreadResult(ticker string, r *SpreadResult) error
}
