package fundamentals

import (
	"context"
	"fmt"
	"log"
)

// CalculateSpread combines the ROIC history with a sensitivity-analyzed WACC
// into a per-year ROIC-WACC spread series, then classifies its trend and
// durability.
//
// The same latest-year baseline WACC is subtracted from every historical
// ROIC year. That is a deliberate simplifying approximation, not a WACC
// time series; downstream consumers get the sensitivity scenarios through
// the embedded WACCResult.
func (a *Analyzer) CalculateSpread(ctx context.Context, ticker string, years int, opts WACCOptions) (*SpreadResult, error) {
	if a.Cache != nil {
		if cached, ok := a.Cache.SpreadResult(ticker); ok {
			return cached, nil
		}
	}

	roicData, err := a.ExtractROICHistory(ctx, ticker, years)
	if err != nil {
		return nil, fmt.Errorf("calculate spread for %s: %w", ticker, err)
	}
	waccResult, err := a.CalculateWACC(ctx, ticker, opts, true)
	if err != nil {
		return nil, fmt.Errorf("calculate spread for %s: %w", ticker, err)
	}

	spreadHistory := make([]float64, len(roicData.ROICValues))
	for i, roic := range roicData.ROICValues {
		spreadHistory[i] = roic - waccResult.BaselineWACC
	}

	currentSpread := 0.0
	if len(spreadHistory) > 0 {
		currentSpread = spreadHistory[len(spreadHistory)-1]
	}

	trend := classifyTrend(spreadHistory)
	durability := classifyDurability(currentSpread, trend)

	result := &SpreadResult{
		CurrentSpread: currentSpread,
		SpreadHistory: spreadHistory,
		Years:         roicData.Years,
		SpreadTrend:   trend,
		Durability:    durability,
		ROICData:      roicData,
		WACCResult:    waccResult,
	}

	log.Printf("Calculated spread for %s: %.2f%% (%s, %s)", ticker, currentSpread*100, durability, trend)

	if a.Cache != nil {
		warnCacheWrite(ticker, "spread_result", a.Cache.SaveSpreadResult(ticker, result))
	}
	return result, nil
}

// classifyTrend takes the slope of the three most recent spreads,
// (s2 - s0) / 2, and classifies it against a ±2% band. Fewer than three
// years of history reads as stable.
func classifyTrend(spreadHistory []float64) string {
	if len(spreadHistory) < 3 {
		return TrendStable
	}
	recent := spreadHistory[len(spreadHistory)-3:]
	slope := (recent[2] - recent[0]) / 2
	switch {
	case slope > 0.02:
		return TrendImproving
	case slope < -0.02:
		return TrendDeteriorating
	default:
		return TrendStable
	}
}

// classifyDurability applies the assessment decision table. The conditions
// overlap, so evaluation order is part of the contract: strong first, then
// weak, else uncertain.
func classifyDurability(currentSpread float64, trend string) string {
	if currentSpread > 0.05 && trend == TrendImproving {
		return DurabilityStrong
	}
	if currentSpread < 0 || (trend == TrendDeteriorating && currentSpread < 0.03) {
		return DurabilityWeak
	}
	return DurabilityUncertain
}
