package fundamentals

import (
	"context"
	"errors"
	"log"
)

const defaultCostOfDebt = 0.05

// ExtractWACCComponents derives every WACC input from a ticker's latest
// annual filing.
//
// Cost of debt and tax rate clamp to defaults when their raw derivation is
// missing or lands outside sane bounds; the design favors an approximate
// WACC over a hard failure. The two exceptions are stockholders' equity
// (must be present and positive) and total capital (must be positive): a
// company cannot be weighted without a positive equity base, so either
// condition is a FinancialDataError.
func (a *Analyzer) ExtractWACCComponents(ctx context.Context, ticker string, opts WACCOptions) (*WACCComponents, error) {
	if a.Cache != nil {
		if cached, ok := a.Cache.WACCComponents(ticker); ok {
			return cached, nil
		}
	}

	filing, err := a.Provider.LatestAnnualFiling(ctx, ticker)
	if err != nil {
		return nil, dataError(ticker, "fetch latest annual filing", err)
	}
	if filing == nil {
		return nil, dataError(ticker, "fetch latest annual filing", errors.New("no 10-K filing found"))
	}
	incomeStmt := filing.IncomeStatement()
	balanceSheet := filing.BalanceSheet()
	if incomeStmt == nil || balanceSheet == nil {
		return nil, dataError(ticker, "read statements", errors.New("missing financial statements"))
	}

	shortTermDebt := lookupOrZero(balanceSheet, debtCurrentConcepts)
	longTermDebt := lookupOrZero(balanceSheet, longTermDebtConcepts)
	totalDebt := shortTermDebt + longTermDebt

	costOfDebt := defaultCostOfDebt
	if interestExpense, ok := LookupConcept(incomeStmt, interestExpenseConcepts); ok && totalDebt > 0 {
		raw := abs(interestExpense) / totalDebt
		if raw >= 0 && raw <= 0.20 {
			costOfDebt = raw
		}
	}

	equity, ok := LookupConcept(balanceSheet, stockholdersEquityConcepts)
	if !ok || equity <= 0 {
		return nil, dataError(ticker, "extract equity", errors.New("invalid stockholders equity"))
	}

	taxRate := effectiveTaxRate(incomeStmt)

	totalCapital := equity + totalDebt
	if totalCapital <= 0 {
		return nil, dataError(ticker, "capital structure", errors.New("invalid total capital"))
	}
	equityRatio := equity / totalCapital
	debtRatio := totalDebt / totalCapital

	rf := DefaultRiskFreeRate
	if opts.RiskFreeRate != nil {
		rf = *opts.RiskFreeRate
	}
	mrp := DefaultMarketRiskPremium
	if opts.MarketRiskPremium != nil {
		mrp = *opts.MarketRiskPremium
	}
	beta := DefaultBeta
	if opts.Beta != nil {
		beta = *opts.Beta
	}

	components := &WACCComponents{
		CostOfEquity:      costOfEquityCAPM(rf, beta, mrp),
		CostOfDebt:        costOfDebt,
		TaxRate:           taxRate,
		DebtRatio:         debtRatio,
		EquityRatio:       equityRatio,
		TotalDebt:         totalDebt,
		TotalEquity:       equity,
		RiskFreeRate:      rf,
		Beta:              beta,
		MarketRiskPremium: mrp,
	}

	if a.Cache != nil {
		warnCacheWrite(ticker, "wacc_components", a.Cache.SaveWACCComponents(ticker, components))
	}
	return components, nil
}

// CalculateWACC combines extracted components into a weighted cost of
// capital:
//
//	WACC = (E/V × Re) + (D/V × Rd × (1-Tc))
//
// With sensitivity requested, pessimistic and optimistic scenarios shift the
// risk-free rate ±100bp (optimistic floored at zero) and recompute the cost
// of equity with the same capital weights, so pessimistic ≥ base ≥ optimistic
// always holds.
func (a *Analyzer) CalculateWACC(ctx context.Context, ticker string, opts WACCOptions, sensitivity bool) (*WACCResult, error) {
	components, err := a.ExtractWACCComponents(ctx, ticker, opts)
	if err != nil {
		return nil, err
	}

	debtComponent := components.DebtRatio * components.CostOfDebt * (1 - components.TaxRate)
	baseline := components.EquityRatio*components.CostOfEquity + debtComponent

	scenarios := map[string]float64{"base": baseline}
	if sensitivity {
		pessimisticRe := costOfEquityCAPM(components.RiskFreeRate+0.01, components.Beta, components.MarketRiskPremium)
		scenarios["pessimistic"] = components.EquityRatio*pessimisticRe + debtComponent

		optimisticRf := components.RiskFreeRate - 0.01
		if optimisticRf < 0 {
			optimisticRf = 0
		}
		optimisticRe := costOfEquityCAPM(optimisticRf, components.Beta, components.MarketRiskPremium)
		scenarios["optimistic"] = components.EquityRatio*optimisticRe + debtComponent
	}

	log.Printf("Calculated WACC for %s: %.2f%%", ticker, baseline*100)
	return &WACCResult{
		BaselineWACC: baseline,
		Scenarios:    scenarios,
		Components:   *components,
	}, nil
}

// costOfEquityCAPM is the Capital Asset Pricing Model: Re = Rf + β × MRP.
func costOfEquityCAPM(riskFreeRate, beta, marketRiskPremium float64) float64 {
	return riskFreeRate + beta*marketRiskPremium
}
