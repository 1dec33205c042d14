package filings

import "strings"

// Key phrase rule tables. A filing summary mentioning phrases from a
// category yields one key point for that category.
var keyPhrases = []struct {
	category string
	title    string
	phrases  []string
}{
	{"officer_changes", "Officer changes", []string{
		"officer", "departure", "resignation", "appointment", "termination",
		"executive", "management", "leadership", "board", "director",
	}},
	{"financial_performance", "Financial performance", []string{
		"earnings", "revenue", "profit", "loss", "guidance", "forecast",
		"outlook", "warning", "miss", "beat", "exceed", "fall short",
	}},
	{"corporate_actions", "Corporate actions", []string{
		"acquisition", "merger", "takeover", "buyout", "divestiture",
		"spin-off", "split", "reorganization", "restructuring",
	}},
	{"dividend_changes", "Dividend changes", []string{
		"dividend", "distribution", "payout", "split", "suspension",
		"increase", "decrease", "cut", "eliminate",
	}},
	{"legal_regulatory", "Legal/regulatory", []string{
		"lawsuit", "litigation", "investigation", "regulatory", "compliance",
		"settlement", "fine", "penalty", "violation", "enforcement",
	}},
	{"offering_financing", "Financing activities", []string{
		"offering", "financing", "capital", "raise", "issue", "securities",
		"debt", "equity", "shares", "stock", "convertible",
	}},
}

var fallbackWords = []string{
	"officer", "departure", "resignation", "acquisition", "merger",
	"dividend", "warning", "risk",
}

const maxKeyPoints = 3

// ExtractKeyPoints scans a filing's summary text for the phrase categories
// that tend to move prices and returns up to three key points.
func ExtractKeyPoints(filing Filing) []string {
	summary := strings.ToLower(filing.Summary)
	if summary == "" {
		return nil
	}

	var keyPoints []string
	for _, kp := range keyPhrases {
		for _, phrase := range kp.phrases {
			if strings.Contains(summary, phrase) {
				keyPoints = append(keyPoints, keyPointTitle(kp.category, kp.title, filing.FormType))
				break
			}
		}
	}

	// Individual important words as a fallback when categories missed them.
	for _, word := range fallbackWords {
		if !strings.Contains(summary, word) {
			continue
		}
		covered := false
		for _, kp := range keyPoints {
			if strings.Contains(strings.ToLower(kp), word) {
				covered = true
				break
			}
		}
		if !covered {
			keyPoints = append(keyPoints, strings.ToUpper(word[:1])+word[1:])
		}
	}

	if len(keyPoints) > maxKeyPoints {
		keyPoints = keyPoints[:maxKeyPoints]
	}
	return keyPoints
}

// keyPointTitle adds form-type context for the category/form combinations
// where it matters.
func keyPointTitle(category, title, formType string) string {
	if formType == "8-K" && (category == "officer_changes" || category == "corporate_actions") {
		return "8-K: " + title
	}
	if (formType == "10-Q" || formType == "10-K") && category == "financial_performance" {
		return formType + ": " + title
	}
	return title
}

// Summary is the structured filing context appended to an alert.
type Summary struct {
	FormType       string   `json:"form_type"`
	FiledDate      string   `json:"filed_date"`
	URL            string   `json:"url"`
	Summary        string   `json:"summary"`
	RelevanceScore float64  `json:"relevance_score"`
	RelevanceLabel string   `json:"relevance_label"`
	KeyPoints      []string `json:"key_points"`
}

// BuildSummary turns a scored filing into its display form.
func BuildSummary(sf ScoredFiling) Summary {
	return Summary{
		FormType:       sf.FormType,
		FiledDate:      sf.FiledDate,
		URL:            sf.URL,
		Summary:        sf.Summary,
		RelevanceScore: sf.RelevanceScore,
		RelevanceLabel: RelevanceLabel(sf.RelevanceScore),
		KeyPoints:      ExtractKeyPoints(sf.Filing),
	}
}
