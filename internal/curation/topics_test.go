package curation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuggestTopics_RanksByFrequency(t *testing.T) {
	articles := []Article{
		{MatchedTopics: []string{"budgeting", "investing"}},
		{MatchedTopics: []string{"investing"}},
		{MatchedTopics: []string{"investing", "tax planning"}},
		{MatchedTopics: []string{"budgeting"}},
	}

	topics := SuggestTopics(articles)
	require.Equal(t, []string{"investing", "budgeting", "tax planning"}, topics)
}

func TestSuggestTopics_TiesKeepFirstSeenOrder(t *testing.T) {
	articles := []Article{
		{MatchedTopics: []string{"alpha"}},
		{MatchedTopics: []string{"beta"}},
		{MatchedTopics: []string{"gamma"}},
	}

	topics := SuggestTopics(articles)
	require.Equal(t, []string{"alpha", "beta", "gamma"}, topics)
}

func TestSuggestTopics_CapsAtFive(t *testing.T) {
	articles := []Article{{MatchedTopics: []string{"a", "b", "c", "d", "e", "f", "g"}}}

	topics := SuggestTopics(articles)
	require.Len(t, topics, maxSuggestedTopics)
}

func TestSuggestTopics_EmptyInput(t *testing.T) {
	require.Empty(t, SuggestTopics(nil))
	require.Empty(t, SuggestTopics([]Article{{Title: "no matches"}}))
}

func TestPromptContext_FormatsArticleBlocks(t *testing.T) {
	articles := []Article{
		{
			Title:         "Roth Conversions in a Down Market",
			URL:           "https://example.com/roth",
			Summary:       "Why a dip can be a conversion window.",
			Source:        "Example Finance",
			MatchedTopics: []string{"retirement planning", "tax optimization"},
		},
		{
			Title:  "Second Story",
			URL:    "https://example.com/second",
			Source: "Other Site",
		},
	}

	out := PromptContext(articles)

	require.True(t, strings.HasPrefix(out, "--- CURATED ARTICLES FOR REFERENCE ---"))
	require.True(t, strings.HasSuffix(out, "--- END CURATED ARTICLES ---"))
	require.Contains(t, out, "[Article 1]\nTitle: Roth Conversions in a Down Market\nSource: Example Finance\nURL: https://example.com/roth")
	require.Contains(t, out, "Summary: Why a dip can be a conversion window.")
	require.Contains(t, out, "Topics: retirement planning, tax optimization")
	require.Contains(t, out, "[Article 2]")

	// Optional fields are omitted entirely for the second article
	block := out[strings.Index(out, "[Article 2]"):]
	require.NotContains(t, block, "Summary:")
	require.NotContains(t, block, "Topics:")
}

func TestPromptContext_EmptyInput(t *testing.T) {
	require.Empty(t, PromptContext(nil))
}
