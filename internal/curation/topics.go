package curation

import (
	"fmt"
	"sort"
	"strings"
)

const maxSuggestedTopics = 5

// SuggestTopics ranks the topics that actually matched across a curated
// article set, most frequent first, capped to five. Ties keep first-seen
// order, so the suggestion list is deterministic.
func SuggestTopics(articles []Article) []string {
	counts := make(map[string]int)
	var order []string

	for _, article := range articles {
		for _, topic := range article.MatchedTopics {
			if _, seen := counts[topic]; !seen {
				order = append(order, topic)
			}
			counts[topic]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxSuggestedTopics {
		order = order[:maxSuggestedTopics]
	}
	return order
}

// PromptContext formats curated articles into the reference block the post
// generator hands to the model alongside its instructions.
func PromptContext(articles []Article) string {
	if len(articles) == 0 {
		return ""
	}

	lines := make([]string, 0, len(articles))
	for i, article := range articles {
		var b strings.Builder
		fmt.Fprintf(&b, "[Article %d]\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", article.Title)
		fmt.Fprintf(&b, "Source: %s\n", article.Source)
		fmt.Fprintf(&b, "URL: %s", article.URL)
		if article.Summary != "" {
			fmt.Fprintf(&b, "\nSummary: %s", article.Summary)
		}
		if len(article.MatchedTopics) > 0 {
			fmt.Fprintf(&b, "\nTopics: %s", strings.Join(article.MatchedTopics, ", "))
		}
		lines = append(lines, b.String())
	}

	return "--- CURATED ARTICLES FOR REFERENCE ---\n" +
		"Use these recent articles as inspiration and context. Reference them naturally when relevant.\n\n" +
		strings.Join(lines, "\n\n") +
		"\n\n--- END CURATED ARTICLES ---"
}
