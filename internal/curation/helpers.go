package curation

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// normalizeBaseURL prefixes https:// when a source is configured without a
// scheme ("example.com").
func normalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}

// resolveURL makes href absolute against base. Returns "" when either part
// is unparsable.
func resolveURL(base, href string) string {
	if href == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}

// stripHTML extracts the plain text of an HTML fragment using a structured
// parse. Feed descriptions routinely carry markup.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

// truncateSummary bounds a summary to summaryMaxLen runes, marking the cut
// with an ellipsis.
func truncateSummary(s string) string {
	runes := []rune(s)
	if len(runes) <= summaryMaxLen {
		return s
	}
	return string(runes[:summaryMaxLen-3]) + "..."
}

// isWithinDays reports whether a raw date string falls inside the recency
// window. Unknown or unparsable dates pass; the absence of a date never
// excludes an article.
func isWithinDays(dateStr string, days int) bool {
	if dateStr == "" {
		return true
	}

	t, err := dateparse.ParseAny(dateStr)
	if err != nil {
		return true
	}

	cutoff := now().AddDate(0, 0, -days)
	return !t.Before(cutoff)
}
