// Package filings enriches price-drop alerts with contextually relevant SEC
// filings: fetching recent filings, scoring their relevance to the drop
// date, and summarizing the top candidates.
package filings

import (
	"sort"
	"time"
)

// Filing is one SEC filing as consumed by the enrichment stage.
type Filing struct {
	FormType  string `json:"form_type"`
	FiledDate string `json:"filed_date"` // YYYY-MM-DD
	URL       string `json:"url"`
	Summary   string `json:"summary"`
}

// ScoredFiling is a filing with its computed relevance to a drop date.
type ScoredFiling struct {
	Filing
	RelevanceScore float64 `json:"relevance_score"`
}

// Form-type base scores: how relevant each form is to a recent price move
// before time decay.
var formTypeBaseScores = map[string]float64{
	"8-K":  0.9, // current events
	"10-Q": 0.6, // quarterly results
	"10-K": 0.3, // annual report, less tied to recent drops
	"4":    0.4, // insider trades
	"6-K":  0.7, // foreign private issuer current events
	"8-A":  0.2, // securities registration
}

// Per-day decay applied to the base score.
var timeDecayRates = map[string]float64{
	"8-K":  0.05,
	"10-Q": 0.03,
	"10-K": 0.01,
	"4":    0.04,
	"6-K":  0.05,
}

const (
	defaultBaseScore = 0.2
	defaultDecayRate = 0.02
)

// ScoreRelevance scores how relevant a filing is to a price drop on
// dropDate, in [0, 1]. Same-day and next-day 8-Ks score near the top of the
// scale; otherwise the form-type base score decays with the gap in days.
// Unparsable dates score a flat 0.1.
func ScoreRelevance(filing Filing, dropDate string) float64 {
	filed, err1 := time.Parse("2006-01-02", filing.FiledDate)
	drop, err2 := time.Parse("2006-01-02", dropDate)
	if err1 != nil || err2 != nil {
		return 0.1
	}

	daysDiff := int(drop.Sub(filed).Hours() / 24)
	if daysDiff < 0 {
		daysDiff = -daysDiff
	}

	switch {
	case filing.FormType == "8-K" && daysDiff == 0:
		return 0.95
	case filing.FormType == "8-K" && daysDiff == 1:
		return 0.85
	case filing.FormType == "10-Q" && daysDiff <= 7:
		return 0.65
	case filing.FormType == "10-Q" && daysDiff <= 14:
		return 0.45
	case filing.FormType == "10-K" && daysDiff <= 30:
		return 0.30
	}

	base, ok := formTypeBaseScores[filing.FormType]
	if !ok {
		base = defaultBaseScore
	}
	decay, ok := timeDecayRates[filing.FormType]
	if !ok {
		decay = defaultDecayRate
	}

	score := base - float64(daysDiff)*decay
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

// RankByRelevance scores every filing against the drop date and sorts
// highest first. Input filings are not modified.
func RankByRelevance(fs []Filing, dropDate string) []ScoredFiling {
	scored := make([]ScoredFiling, 0, len(fs))
	for _, f := range fs {
		scored = append(scored, ScoredFiling{
			Filing:         f,
			RelevanceScore: ScoreRelevance(f, dropDate),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})
	return scored
}

// TopRelevant returns the n most relevant filings for a drop date.
func TopRelevant(fs []Filing, dropDate string, n int) []ScoredFiling {
	ranked := RankByRelevance(fs, dropDate)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// RelevanceLabel maps a score onto its human-readable band.
func RelevanceLabel(score float64) string {
	switch {
	case score >= 0.8:
		return "Strongly related"
	case score >= 0.6:
		return "Likely related"
	case score >= 0.4:
		return "Possibly related"
	case score >= 0.2:
		return "Probably unrelated"
	default:
		return "Unlikely related"
	}
}
