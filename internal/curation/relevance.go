package curation

import "strings"

// ScoreRelevance judges one article against an audience topic list. A topic
// counts as matched when at least half of its keywords (rounded up) appear
// in the lowercased title+summary text. Title hits weigh more than
// summary-only hits. Pure function, no I/O.
func ScoreRelevance(article Article, topics []string) (matchedTopics []string, score int) {
	textToSearch := strings.ToLower(article.Title + " " + article.Summary)

	for _, topic := range topics {
		keywords := strings.Fields(strings.ToLower(topic))
		if len(keywords) == 0 {
			continue
		}

		matchCount := 0
		for _, kw := range keywords {
			if strings.Contains(textToSearch, kw) {
				matchCount++
			}
		}

		// Ceiling of half the keyword count
		if matchCount >= (len(keywords)+1)/2 {
			matchedTopics = append(matchedTopics, topic)
		}
	}

	score = len(matchedTopics) * scoreBase

	titleLower := strings.ToLower(article.Title)
	for _, topic := range matchedTopics {
		for _, kw := range strings.Fields(strings.ToLower(topic)) {
			if strings.Contains(titleLower, kw) {
				score += scoreTitleBonus
				break
			}
		}
	}

	return matchedTopics, score
}
