package curation

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/advisorpost/curator/internal/audience"
	"github.com/advisorpost/curator/internal/logger"
	"github.com/advisorpost/curator/internal/metrics"
	"github.com/advisorpost/curator/internal/retry"
)

// Curator is the top-level coordinator: it fans out across all configured
// sources concurrently, ranks what comes back, and narrows the merged pool
// to a bounded, diverse selection. Individual source failures never fail a
// run; they are reported in the result's error list.
type Curator struct {
	discoverer *Discoverer
	feeds      *FeedFetcher
	scraper    *Scraper
	enricher   *Enricher
	retryCfg   retry.Config
}

func NewCurator(d *Discoverer, f *FeedFetcher, s *Scraper, e *Enricher, retryCfg retry.Config) *Curator {
	if retryCfg.MaxAttempts < 1 {
		retryCfg.MaxAttempts = 1
	}
	return &Curator{
		discoverer: d,
		feeds:      f,
		scraper:    s,
		enricher:   e,
		retryCfg:   retryCfg,
	}
}

type sourceResult struct {
	source   string
	articles []Article
	err      error
}

// Curate runs one curation pass over the given sources. The effective topic
// list comes from the audience segment, or from customTopics when the
// segment is Custom.
func (c *Curator) Curate(ctx context.Context, sources []string, aud audience.Type, customTopics []string, opts Options) (*Result, error) {
	startTime := time.Now()
	defer func() {
		metrics.Global.RecordCurationTime(time.Since(startTime))
		metrics.Global.SetLastRun()
	}()

	opts = opts.withDefaults()
	topics := audience.TopicsFor(aud, customTopics)

	logger.Info("starting curation",
		"sources", len(sources), "audience", string(aud), "topics", len(topics))

	// One task per source; results land in their input slot so the merge
	// order is independent of completion order.
	results := make([]sourceResult, len(sources))
	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, source string) {
			defer wg.Done()
			metrics.Global.IncrementSourcesFetched()
			articles, err := c.fetchAndRank(ctx, source, topics, opts)
			results[i] = sourceResult{source: source, articles: articles, err: err}
		}(i, source)
	}
	wg.Wait()

	var pool []Article
	errors := []SourceError{}
	for _, res := range results {
		if res.err != nil {
			logger.Warn("source failed", "source", res.source, "error", res.err)
			metrics.Global.IncrementSourceErrors()
			errors = append(errors, SourceError{Source: res.source, Error: res.err.Error()})
			continue
		}
		pool = append(pool, res.articles...)
	}
	metrics.Global.AddArticlesCollected(len(pool))

	pool = dropMissingURLs(pool)
	pool = dedupPool(pool)

	selected := selectDiverse(pool, opts.MaxTotalArticles)

	if opts.EnrichImages && c.enricher != nil {
		selected = c.enricher.EnrichImages(ctx, selected, min(enrichCap, opts.MaxTotalArticles))
	}

	logger.Info("curation complete",
		"articles", len(selected), "failed_sources", len(errors),
		"duration", time.Since(startTime))

	return &Result{
		Articles:  selected,
		Errors:    errors,
		FetchedAt: now().UTC().Format(time.RFC3339),
	}, nil
}

// fetchAndRank runs one source's pipeline: fetch (feed or scrape), recency
// filter, relevance scoring, per-source cap.
func (c *Curator) fetchAndRank(ctx context.Context, source string, topics []string, opts Options) ([]Article, error) {
	articles, err := c.fetchFromSource(ctx, source)
	if err != nil {
		return nil, err
	}

	recent := articles[:0:0]
	for _, a := range articles {
		if isWithinDays(a.PublishedAt, opts.MaxDays) {
			recent = append(recent, a)
		}
	}

	for i := range recent {
		recent[i].MatchedTopics, recent[i].RelevanceScore = ScoreRelevance(recent[i], topics)
	}

	// Stable keeps encountered order among equal scores, so ranking is
	// deterministic for identical inputs.
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].RelevanceScore > recent[j].RelevanceScore
	})

	if len(recent) > opts.MaxArticlesPerSource {
		recent = recent[:opts.MaxArticlesPerSource]
	}
	return recent, nil
}

// fetchFromSource tries the feed path first, falling back to scraping when
// no feed is discoverable or the feed fetch fails.
func (c *Curator) fetchFromSource(ctx context.Context, source string) ([]Article, error) {
	normalized := normalizeBaseURL(source)

	feedURL, err := c.discoverer.Discover(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if feedURL != "" {
		metrics.Global.IncrementFeedsDiscovered()

		var articles []Article
		err := retry.WithRetry(ctx, c.retryCfg, func() error {
			var fetchErr error
			articles, fetchErr = c.feeds.Fetch(ctx, feedURL)
			return fetchErr
		})
		if err == nil {
			return articles, nil
		}
		logger.Warn("feed fetch failed, falling back to scraping",
			"source", source, "feed", feedURL, "error", err)
	}

	metrics.Global.IncrementScrapeFallbacks()
	return c.scraper.Scrape(ctx, normalized)
}

// dropMissingURLs removes entries without a link before dedup, so they do
// not collide as false duplicates under an empty key.
func dropMissingURLs(articles []Article) []Article {
	out := articles[:0:0]
	for _, a := range articles {
		if a.URL != "" {
			out = append(out, a)
		}
	}
	return out
}

func dedupPool(articles []Article) []Article {
	seen := make(map[string]struct{}, len(articles))
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if _, dup := seen[a.URL]; dup {
			metrics.Global.IncrementDuplicatesFiltered()
			continue
		}
		seen[a.URL] = struct{}{}
		out = append(out, a)
	}
	return out
}

// selectDiverse greedily picks the article with the highest adjusted score:
// relevance decayed by how often its source was already picked, plus a flat
// bonus for sources not yet represented. Ties resolve to the earliest
// article in pool order.
func selectDiverse(pool []Article, maxTotal int) []Article {
	selected := make([]Article, 0, min(len(pool), maxTotal))
	usage := make(map[string]int)

	remaining := make([]Article, len(pool))
	copy(remaining, pool)

	for len(selected) < maxTotal && len(remaining) > 0 {
		bestIndex := 0
		bestScore := -1.0

		for i, a := range remaining {
			usageCount := usage[strings.ToLower(a.Source)]

			adjusted := float64(a.RelevanceScore) * math.Pow(diversityDecay, float64(usageCount))
			if usageCount == 0 {
				adjusted += firstUseBonus
			}

			if adjusted > bestScore {
				bestScore = adjusted
				bestIndex = i
			}
		}

		picked := remaining[bestIndex]
		remaining = append(remaining[:bestIndex], remaining[bestIndex+1:]...)
		selected = append(selected, picked)
		usage[strings.ToLower(picked.Source)]++
	}

	return selected
}
