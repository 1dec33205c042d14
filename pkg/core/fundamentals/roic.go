package fundamentals

import (
	"context"
	"log"
	"sort"
)

// ExtractROICHistory builds the ROIC history for a ticker from its most
// recent annual filings.
//
// Per filing:
//
//	NOPAT            = Operating Income × (1 - effective tax rate)
//	Invested Capital = Total Assets - Cash - max(0, Current Liabs - ST Debt)
//	ROIC             = NOPAT / Invested Capital
//
// A filing missing its statements, operating income, or total assets is
// skipped with a warning; so is one whose invested capital is not positive.
// The result is sorted by year ascending. Fewer than MinHistoryYears valid
// years after processing every filing yields ErrInsufficientData; a failed
// company lookup yields a FinancialDataError instead, so callers can tell
// "doesn't exist" from "exists but thin".
func (a *Analyzer) ExtractROICHistory(ctx context.Context, ticker string, years int) (*ROICData, error) {
	if years <= 0 {
		years = 5
	}

	if a.Cache != nil {
		if cached, ok := a.Cache.ROICHistory(ticker); ok {
			return cached, nil
		}
	}

	filings, err := a.Provider.AnnualFilings(ctx, ticker, years)
	if err != nil {
		return nil, dataError(ticker, "fetch annual filings", err)
	}
	if len(filings) == 0 {
		return nil, insufficientData(ticker, 0)
	}

	result := &ROICData{}
	for _, filing := range filings {
		incomeStmt := filing.IncomeStatement()
		balanceSheet := filing.BalanceSheet()
		if incomeStmt == nil || balanceSheet == nil {
			log.Printf("WARNING: missing financial statements for %s FY%d", ticker, filing.FiscalYear())
			continue
		}

		operatingIncome, ok := LookupConcept(incomeStmt, operatingIncomeConcepts)
		if !ok {
			log.Printf("WARNING: no operating income found for %s FY%d", ticker, filing.FiscalYear())
			continue
		}

		taxRate := effectiveTaxRate(incomeStmt)
		nopat := operatingIncome * (1 - taxRate)

		totalAssets, ok := LookupConcept(balanceSheet, totalAssetsConcepts)
		if !ok {
			log.Printf("WARNING: no total assets found for %s FY%d", ticker, filing.FiscalYear())
			continue
		}
		cash := lookupOrZero(balanceSheet, cashConcepts)
		currentLiabilities := lookupOrZero(balanceSheet, currentLiabilitiesConcepts)
		shortTermDebt := lookupOrZero(balanceSheet, shortTermDebtConcepts)

		nonInterestLiabilities := currentLiabilities - shortTermDebt
		if nonInterestLiabilities < 0 {
			nonInterestLiabilities = 0
		}
		investedCapital := totalAssets - cash - nonInterestLiabilities
		if investedCapital <= 0 {
			log.Printf("WARNING: invalid invested capital (%.0f) for %s FY%d", investedCapital, ticker, filing.FiscalYear())
			continue
		}

		roic := nopat / investedCapital
		result.Years = append(result.Years, filing.FiscalYear())
		result.ROICValues = append(result.ROICValues, roic)
		result.NOPATValues = append(result.NOPATValues, nopat)
		result.InvestedCapitalValues = append(result.InvestedCapitalValues, investedCapital)
		log.Printf("Extracted ROIC for %s FY%d: %.2f%%", ticker, filing.FiscalYear(), roic*100)
	}

	if len(result.Years) < MinHistoryYears {
		return nil, insufficientData(ticker, len(result.Years))
	}
	sortByYear(result)

	if a.Cache != nil {
		warnCacheWrite(ticker, "roic_history", a.Cache.SaveROICHistory(ticker, result))
	}
	return result, nil
}

func sortByYear(d *ROICData) {
	idx := make([]int, len(d.Years))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return d.Years[idx[a]] < d.Years[idx[b]] })

	years := make([]int, len(idx))
	roic := make([]float64, len(idx))
	nopat := make([]float64, len(idx))
	capital := make([]float64, len(idx))
	for i, j := range idx {
		years[i] = d.Years[j]
		roic[i] = d.ROICValues[j]
		nopat[i] = d.NOPATValues[j]
		capital[i] = d.InvestedCapitalValues[j]
	}
	d.Years, d.ROICValues, d.NOPATValues, d.InvestedCapitalValues = years, roic, nopat, capital
}
