package pipeline

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// RenderReport produces the human-readable Markdown summary of a run,
// written next to the JSON artifact for operators.
func RenderReport(summary *RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Pipeline run %s\n\n", summary.RunID)
	fmt.Fprintf(&b, "Started %s, finished %s.\n\n", summary.StartedAt, summary.FinishedAt)
	fmt.Fprintf(&b, "**%d succeeded, %d failed.**\n\n", len(summary.Succeeded), len(summary.Failed))

	b.WriteString("| Ticker | Alert | Drop % | Spread | Trend | Durability | Error |\n")
	b.WriteString("|--------|-------|--------|--------|-------|------------|-------|\n")
	for _, o := range summary.Outcomes {
		spread, trend, durability := "-", "-", "-"
		if o.Spread != nil {
			spread = fmt.Sprintf("%.2f%%", o.Spread.CurrentSpread*100)
			trend = o.Spread.SpreadTrend
			durability = o.Spread.Durability
		}
		errText := o.Error
		if errText == "" {
			errText = "-"
		} else if o.InsufficientData {
			errText = "needs more history"
		}
		fmt.Fprintf(&b, "| %s | %v | %.2f%% | %s | %s | %s | %s |\n",
			o.Ticker, o.AlertTriggered, o.DropPercentage, spread, trend, durability, errText)
	}
	return b.String()
}

// ValidateReport checks that the rendered report parses as Markdown.
// Goldmark is permissive, so this is a basic structural check.
func ValidateReport(report string) bool {
	parser := goldmark.DefaultParser()
	doc := parser.Parse(text.NewReader([]byte(report)))
	return doc != nil
}
