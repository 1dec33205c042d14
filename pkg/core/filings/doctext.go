package filings

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractDocumentText pulls readable text out of a filing's HTML document
// for use as a summary, truncated to maxLen characters. Script and style
// content is discarded; whitespace is collapsed.
func ExtractDocumentText(r io.Reader, maxLen int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	doc.Find("script, style").Remove()
	text := doc.Find("body").Text()
	if text == "" {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")

	if maxLen > 0 && len(text) > maxLen {
		return text[:maxLen] + "...", nil
	}
	return text, nil
}
