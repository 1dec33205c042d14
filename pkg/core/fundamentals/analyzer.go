package fundamentals

import "log"

// Analyzer runs the financial-analysis engine for one provider. Cache is
// optional: when set, each stage memoizes its result per ticker, but no
// stage's correctness depends on it.
type Analyzer struct {
	Provider FilingProvider
	Cache    Cache
}

func NewAnalyzer(provider FilingProvider, cache Cache) *Analyzer {
	return &Analyzer{Provider: provider, Cache: cache}
}

// Concept alias chains, canonical GAAP name first. The prefixed spellings
// cover filers whose statements carry the namespace in the tag.
var (
	operatingIncomeConcepts = []string{
		"OperatingIncomeLoss",
		"us-gaap:OperatingIncomeLoss",
		"IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest",
		"us-gaap:IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest",
	}
	incomeTaxExpenseConcepts = []string{
		"IncomeTaxExpenseBenefit",
		"us-gaap:IncomeTaxExpenseBenefit",
	}
	pretaxIncomeConcepts = []string{
		"IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest",
		"us-gaap:IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest",
	}
	totalAssetsConcepts = []string{
		"Assets",
		"us-gaap:Assets",
	}
	cashConcepts = []string{
		"CashAndCashEquivalentsAtCarryingValue",
		"us-gaap:CashAndCashEquivalentsAtCarryingValue",
		"Cash",
		"us-gaap:Cash",
	}
	currentLiabilitiesConcepts = []string{
		"LiabilitiesCurrent",
		"us-gaap:LiabilitiesCurrent",
	}
	shortTermDebtConcepts = []string{
		"ShortTermBorrowings",
		"us-gaap:ShortTermBorrowings",
		"DebtCurrent",
		"us-gaap:DebtCurrent",
	}
	debtCurrentConcepts = []string{
		"DebtCurrent",
		"us-gaap:DebtCurrent",
		"ShortTermBorrowings",
		"us-gaap:ShortTermBorrowings",
	}
	longTermDebtConcepts = []string{
		"LongTermDebt",
		"us-gaap:LongTermDebt",
		"LongTermDebtNoncurrent",
		"us-gaap:LongTermDebtNoncurrent",
	}
	interestExpenseConcepts = []string{
		"InterestExpense",
		"us-gaap:InterestExpense",
		"InterestExpenseDebt",
		"us-gaap:InterestExpenseDebt",
	}
	stockholdersEquityConcepts = []string{
		"StockholdersEquity",
		"us-gaap:StockholdersEquity",
		"StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest",
		"us-gaap:StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest",
	}
)

const defaultTaxRate = 0.21

// effectiveTaxRate derives |tax expense / pre-tax income| from an income
// statement. A zero or missing denominator, or a rate outside [0, 0.5],
// falls back to the statutory default: extreme effective rates are assumed
// to be data artifacts, not real tax policy.
func effectiveTaxRate(incomeStmt *Statement) float64 {
	taxExpense, haveTax := LookupConcept(incomeStmt, incomeTaxExpenseConcepts)
	pretaxIncome, havePretax := LookupConcept(incomeStmt, pretaxIncomeConcepts)
	if !haveTax || !havePretax || pretaxIncome == 0 {
		return defaultTaxRate
	}
	rate := abs(taxExpense / pretaxIncome)
	if rate < 0 || rate > 0.5 {
		return defaultTaxRate
	}
	return rate
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func warnCacheWrite(ticker, key string, err error) {
	if err != nil {
		log.Printf("WARNING: failed to cache %s for %s: %v", key, ticker, err)
	}
}
