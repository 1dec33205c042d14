package prices

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
)

// DropThresholdPct is the week-over-week decline that triggers an alert.
const DropThresholdPct = 5.0

// MinPricePoints is the minimum number of daily closes needed before a drop
// assessment is meaningful.
const MinPricePoints = 5

// Alert is the result of a drop assessment over a ticker's price window.
type Alert struct {
	AlertTriggered  bool    `json:"alert_triggered"`
	PriceFirstClose float64 `json:"price_first_close"`
	PriceLastClose  float64 `json:"price_last_close"`
	DropPercentage  float64 `json:"drop_percentage"`
	Reason          string  `json:"reason"`
}

// DetectDropAlert computes the percentage change between the first and last
// close of the window (sorted chronologically) and triggers when the drop
// reaches the threshold. Fewer than MinPricePoints closes yields a non-alert
// with reason "insufficient_data" rather than an error.
func DetectDropAlert(state *State) (Alert, error) {
	if state == nil || len(state.Prices) < MinPricePoints {
		n := 0
		if state != nil {
			n = len(state.Prices)
		}
		log.Printf("WARNING: insufficient price data: %d points (minimum %d required)", n, MinPricePoints)
		return Alert{Reason: "insufficient_data"}, nil
	}

	sorted := make([]Price, len(state.Prices))
	copy(sorted, state.Prices)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	first := sorted[0].Close
	last := sorted[len(sorted)-1].Close
	if first <= 0 {
		return Alert{}, fmt.Errorf("invalid first close price: %v (must be > 0)", first)
	}

	dropPct := (first - last) / first * 100
	triggered := dropPct >= DropThresholdPct

	reason := fmt.Sprintf("price_change_%.2f%%", dropPct)
	if triggered {
		reason = fmt.Sprintf("price_drop_%.2f%%", dropPct)
	}

	log.Printf("Price drop analysis: %.2f%% change, alert_triggered=%v", dropPct, triggered)
	return Alert{
		AlertTriggered:  triggered,
		PriceFirstClose: first,
		PriceLastClose:  last,
		DropPercentage:  dropPct,
		Reason:          reason,
	}, nil
}

// SaveAlert writes a ticker's alert file for downstream enrichment.
func (c *Client) SaveAlert(ticker string, alert Alert) error {
	data, err := json.MarshalIndent(alert, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}
	if err := os.WriteFile(c.AlertPath(ticker), data, 0644); err != nil {
		return fmt.Errorf("failed to save alert: %w", err)
	}
	return nil
}
