package fundamentals

import "context"

// --- Fakes ---

type fakeFiling struct {
	year    int
	income  *Statement
	balance *Statement
}

func (f *fakeFiling) FiscalYear() int             { return f.year }
func (f *fakeFiling) IncomeStatement() *Statement { return f.income }
func (f *fakeFiling) BalanceSheet() *Statement    { return f.balance }

type fakeProvider struct {
	AnnualFn func(ctx context.Context, ticker string, count int) ([]AnnualFiling, error)
	LatestFn func(ctx context.Context, ticker string) (AnnualFiling, error)
}

func (p *fakeProvider) AnnualFilings(ctx context.Context, ticker string, count int) ([]AnnualFiling, error) {
	if p.AnnualFn != nil {
		return p.AnnualFn(ctx, ticker, count)
	}
	return nil, nil
}

func (p *fakeProvider) LatestAnnualFiling(ctx context.Context, ticker string) (AnnualFiling, error) {
	if p.LatestFn != nil {
		return p.LatestFn(ctx, ticker)
	}
	return nil, nil
}

type fakeCache struct {
	ROICFn       func(ticker string) (*ROICData, bool)
	SaveROICFn   func(ticker string, data *ROICData) error
	WACCFn       func(ticker string) (*WACCComponents, bool)
	SaveWACCFn   func(ticker string, c *WACCComponents) error
	SpreadFn     func(ticker string) (*SpreadResult, bool)
	SaveSpreadFn func(ticker string, r *SpreadResult) error
}

func (c *fakeCache) ROICHistory(ticker string) (*ROICData, bool) {
	if c.ROICFn != nil {
		return c.ROICFn(ticker)
	}
	return nil, false
}

func (c *fakeCache) SaveROICHistory(ticker string, data *ROICData) error {
	if c.SaveROICFn != nil {
		return c.SaveROICFn(ticker, data)
	}
	return nil
}

func (c *fakeCache) WACCComponents(ticker string) (*WACCComponents, bool) {
	if c.WACCFn != nil {
		return c.WACCFn(ticker)
	}
	return nil, false
}

func (c *fakeCache) SaveWACCComponents(ticker string, comp *WACCComponents) error {
	if c.SaveWACCFn != nil {
		return c.SaveWACCFn(ticker, comp)
	}
	return nil
}

func (c *fakeCache) SpreadResult(ticker string) (*SpreadResult, bool) {
	if c.SpreadFn != nil {
		return c.SpreadFn(ticker)
	}
	return nil, false
}

func (c *fakeCache) SaveSpreadResult(ticker string, r *SpreadResult) error {
	if c.SaveSpreadFn != nil {
		return c.SaveSpreadFn(ticker, r)
	}
	return nil
}

// filingFields are the raw statement values a fake filing carries. Zero
// pointers mean the concept is absent from the statement entirely.
type filingFields struct {
	operatingIncome *float64
	taxExpense      *float64
	pretaxIncome    *float64
	totalAssets     *float64
	cash            *float64
	currentLiabs    *float64
	shortTermDebt   *float64
	longTermDebt    *float64
	interestExpense *float64
	equity          *float64
}

func f64(v float64) *float64 { return &v }

func buildFiling(year int, fields filingFields) *fakeFiling {
	period := "2024-09-28"
	income := NewStatement(period)
	balance := NewStatement(period)

	set := func(stmt *Statement, concept string, v *float64) {
		if v != nil {
			stmt.Set(concept, period, *v)
		}
	}
	set(income, "OperatingIncomeLoss", fields.operatingIncome)
	set(income, "IncomeTaxExpenseBenefit", fields.taxExpense)
	set(income, "IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest", fields.pretaxIncome)
	set(income, "InterestExpense", fields.interestExpense)
	set(balance, "Assets", fields.totalAssets)
	set(balance, "CashAndCashEquivalentsAtCarryingValue", fields.cash)
	set(balance, "LiabilitiesCurrent", fields.currentLiabs)
	set(balance, "ShortTermBorrowings", fields.shortTermDebt)
	set(balance, "LongTermDebt", fields.longTermDebt)
	set(balance, "StockholdersEquity", fields.equity)

	return &fakeFiling{year: year, income: income, balance: balance}
}

// roicFiling builds a filing that yields a clean ROIC: zero tax rate (tax
// expense 0 over positive pre-tax income), no cash, no current liabilities,
// so ROIC = operatingIncome / totalAssets.
func roicFiling(year int, operatingIncome, totalAssets float64) *fakeFiling {
	return buildFiling(year, filingFields{
		operatingIncome: f64(operatingIncome),
		taxExpense:      f64(0),
		pretaxIncome:    f64(100),
		totalAssets:     f64(totalAssets),
		equity:          f64(totalAssets),
	})
}

func providerOf(filings ...AnnualFiling) *fakeProvider {
	return &fakeProvider{
		AnnualFn: func(ctx context.Context, ticker string, count int) ([]AnnualFiling, error) {
			return filings, nil
		},
		LatestFn: func(ctx context.Context, ticker string) (AnnualFiling, error) {
			if len(filings) == 0 {
				return nil, nil
			}
			return filings[0], nil
		},
	}
}
