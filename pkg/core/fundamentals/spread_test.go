package fundamentals

import (
	"context"
	"errors"
	"math"
	"testing"
)

// spreadAnalyzer wires an all-equity provider whose WACC comes out at
// exactly 8% under a 2.5% risk-free rate override, so every spread in the
// tests is ROIC - 0.08.
func spreadAnalyzer(filings ...AnnualFiling) (*Analyzer, WACCOptions) {
	return NewAnalyzer(providerOf(filings...), nil), WACCOptions{RiskFreeRate: f64(0.025)}
}

func TestCalculateSpreadImprovingStrong(t *testing.T) {
	analyzer, opts := spreadAnalyzer(
		roicFiling(2022, 150, 1000),
		roicFiling(2023, 180, 1000),
		roicFiling(2024, 220, 1000),
	)

	result, err := analyzer.CalculateSpread(context.Background(), "AAPL", 5, opts)
	if err != nil {
		t.Fatalf("CalculateSpread: %v", err)
	}

	// ROIC 15/18/22% against an 8% WACC: spreads 7/10/14%.
	wantSpreads := []float64{0.07, 0.10, 0.14}
	if len(result.SpreadHistory) != len(wantSpreads) {
		t.Fatalf("got %d spreads, want %d", len(result.SpreadHistory), len(wantSpreads))
	}
	for i, want := range wantSpreads {
		if math.Abs(result.SpreadHistory[i]-want) > 1e-9 {
			t.Errorf("SpreadHistory[%d] = %v, want %v", i, result.SpreadHistory[i], want)
		}
	}
	if math.Abs(result.CurrentSpread-0.14) > 1e-9 {
		t.Errorf("CurrentSpread = %v, want 0.14", result.CurrentSpread)
	}
	if result.SpreadTrend != TrendImproving {
		t.Errorf("SpreadTrend = %q, want %q", result.SpreadTrend, TrendImproving)
	}
	if result.Durability != DurabilityStrong {
		t.Errorf("Durability = %q, want %q", result.Durability, DurabilityStrong)
	}
	if result.ROICData == nil || result.WACCResult == nil {
		t.Fatal("expected embedded ROIC and WACC results")
	}
	if math.Abs(result.WACCResult.BaselineWACC-0.08) > 1e-9 {
		t.Errorf("BaselineWACC = %v, want 0.08", result.WACCResult.BaselineWACC)
	}
	if _, ok := result.WACCResult.Scenarios["pessimistic"]; !ok {
		t.Error("spread analysis should always request sensitivity scenarios")
	}
}

func TestCalculateSpreadDeterioratingWeak(t *testing.T) {
	analyzer, opts := spreadAnalyzer(
		roicFiling(2022, 200, 1000),
		roicFiling(2023, 150, 1000),
		roicFiling(2024, 100, 1000),
	)

	result, err := analyzer.CalculateSpread(context.Background(), "FADE", 5, opts)
	if err != nil {
		t.Fatalf("CalculateSpread: %v", err)
	}
	if result.SpreadTrend != TrendDeteriorating {
		t.Errorf("SpreadTrend = %q, want %q", result.SpreadTrend, TrendDeteriorating)
	}
	// Current spread 2% is positive but below 3% on a deteriorating trend.
	if result.Durability != DurabilityWeak {
		t.Errorf("Durability = %q, want %q", result.Durability, DurabilityWeak)
	}
}

func TestCalculateSpreadInsufficientHistory(t *testing.T) {
	analyzer, opts := spreadAnalyzer(
		roicFiling(2023, 150, 1000),
		roicFiling(2024, 180, 1000),
	)

	_, err := analyzer.CalculateSpread(context.Background(), "TINY", 5, opts)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("err = %v, want ErrInsufficientData", err)
	}
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name    string
		history []float64
		want    string
	}{
		{"short history is stable", []float64{0.05, 0.10}, TrendStable},
		{"flat history", []float64{0.05, 0.05, 0.05}, TrendStable},
		{"within the band", []float64{0.05, 0.09, 0.08}, TrendStable},
		{"improving", []float64{0.05, 0.08, 0.12}, TrendImproving},
		{"deteriorating", []float64{0.12, 0.08, 0.05}, TrendDeteriorating},
		{"only last three count", []float64{0.50, 0.05, 0.05, 0.05}, TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyTrend(tt.history); got != tt.want {
				t.Errorf("classifyTrend(%v) = %q, want %q", tt.history, got, tt.want)
			}
		})
	}
}

func TestClassifyDurability(t *testing.T) {
	tests := []struct {
		name   string
		spread float64
		trend  string
		want   string
	}{
		{"wide and improving", 0.06, TrendImproving, DurabilityStrong},
		{"wide but stable", 0.06, TrendStable, DurabilityUncertain},
		{"negative spread", -0.01, TrendImproving, DurabilityWeak},
		{"thin and deteriorating", 0.02, TrendDeteriorating, DurabilityWeak},
		{"wide and deteriorating", 0.06, TrendDeteriorating, DurabilityUncertain},
		{"thin and stable", 0.02, TrendStable, DurabilityUncertain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyDurability(tt.spread, tt.trend); got != tt.want {
				t.Errorf("classifyDurability(%v, %q) = %q, want %q", tt.spread, tt.trend, got, tt.want)
			}
		})
	}
}

func TestCalculateSpreadUsesCache(t *testing.T) {
	cached := &SpreadResult{CurrentSpread: 0.09, Durability: DurabilityUncertain}
	cache := &fakeCache{
		SpreadFn: func(ticker string) (*SpreadResult, bool) { return cached, true },
	}
	analyzer := NewAnalyzer(providerOf(), cache)

	result, err := analyzer.CalculateSpread(context.Background(), "HIT", 5, WACCOptions{})
	if err != nil {
		t.Fatalf("CalculateSpread: %v", err)
	}
	if result != cached {
		t.Error("expected the cached result to be returned as-is")
	}
}
