package curation

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/advisorpost/curator/internal/audience"
	"github.com/advisorpost/curator/internal/fetch"
	"github.com/advisorpost/curator/internal/retry"
)

func newTestCurator() *Curator {
	client := fetch.NewClient(2*time.Second, "curator-test")
	return NewCurator(
		NewDiscoverer(client, client, nil, time.Minute),
		NewFeedFetcher(client),
		NewScraper(client),
		NewEnricher(client),
		retry.Config{MaxAttempts: 1},
	)
}

// feedSource serves an RSS feed at /feed with the given items.
func feedSource(t *testing.T, title string, items []string) *httptest.Server {
	t.Helper()
	body := `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>` +
		title + `</title>` + strings.Join(items, "") + `</channel></rss>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/feed" {
			w.Header().Set("Content-Type", "application/rss+xml")
			w.Write([]byte(body))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// scrapeSource serves article-container HTML with no discoverable feed.
func scrapeSource(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func feedItem(title, link, pubDate string) string {
	item := "<item><title>" + title + "</title><link>" + link + "</link>"
	if pubDate != "" {
		item += "<pubDate>" + pubDate + "</pubDate>"
	}
	return item + "</item>"
}

func TestCurate_FeedAndScrapeSourcesWithDuplicate(t *testing.T) {
	recent := time.Now().Add(-24 * time.Hour).Format(time.RFC1123Z)

	srvA := feedSource(t, "Feed Source", []string{
		feedItem("Retirement Planning Basics", "https://example.com/a1", recent),
		feedItem("Tax Optimization Moves", "https://example.com/a2", recent),
		feedItem("Social Security Timing", "https://example.com/a3", recent),
		feedItem("Estate Planning Guide", "https://example.com/a4", recent),
	})

	var scraped strings.Builder
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&scraped,
			`<article><h2>Scraped Story %d About Retirement</h2><a href="/blog/s%d">x</a></article>`, i, i)
	}
	// Duplicates a URL already seen in the feed source
	scraped.WriteString(`<article><h2>Duplicate Of Feed Story</h2><a href="https://example.com/a1">x</a></article>`)
	srvB := scrapeSource(t, "<html><body>"+scraped.String()+"</body></html>")

	result, err := newTestCurator().Curate(context.Background(),
		[]string{srvA.URL, srvB.URL},
		audience.Custom, []string{"retirement planning"},
		Options{MaxDays: 7, MaxTotalArticles: 10, MaxArticlesPerSource: 10, EnrichImages: false})

	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.LessOrEqual(t, len(result.Articles), 9)

	seen := make(map[string]bool)
	for _, a := range result.Articles {
		require.NotEmpty(t, a.URL)
		require.False(t, seen[a.URL], "duplicate URL %s in result", a.URL)
		seen[a.URL] = true
	}

	_, err = time.Parse(time.RFC3339, result.FetchedAt)
	require.NoError(t, err)
}

func TestCurate_PartialFailureIsReported(t *testing.T) {
	recent := time.Now().Add(-time.Hour).Format(time.RFC1123Z)

	srvA := feedSource(t, "Healthy Feed", []string{
		feedItem("Story One", "https://example.com/one", recent),
		feedItem("Story Two", "https://example.com/two", recent),
	})
	srvB := scrapeSource(t, `<html><body>
		<article><h2>Scraped Headline</h2><a href="/blog/x">x</a></article>
	</body></html>`)

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	result, err := newTestCurator().Curate(context.Background(),
		[]string{srvA.URL, deadURL, srvB.URL},
		audience.YoungProfessionals, nil,
		Options{EnrichImages: false})

	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	require.Equal(t, deadURL, result.Errors[0].Source)
	require.Len(t, result.Articles, 3)
}

func TestCurate_PerSourceCap(t *testing.T) {
	recent := time.Now().Add(-time.Hour).Format(time.RFC1123Z)

	var items []string
	for i := 0; i < 12; i++ {
		items = append(items, feedItem(
			fmt.Sprintf("Story %d", i), fmt.Sprintf("https://example.com/%d", i), recent))
	}
	srv := feedSource(t, "Busy Feed", items)

	result, err := newTestCurator().Curate(context.Background(),
		[]string{srv.URL},
		audience.Retirees, nil,
		Options{MaxArticlesPerSource: 3, MaxTotalArticles: 30, EnrichImages: false})

	require.NoError(t, err)
	require.Len(t, result.Articles, 3)
}

func TestCurate_TotalCap(t *testing.T) {
	recent := time.Now().Add(-time.Hour).Format(time.RFC1123Z)

	var items []string
	for i := 0; i < 8; i++ {
		items = append(items, feedItem(
			fmt.Sprintf("Story %d", i), fmt.Sprintf("https://example.com/%d", i), recent))
	}
	srv := feedSource(t, "Busy Feed", items)

	result, err := newTestCurator().Curate(context.Background(),
		[]string{srv.URL},
		audience.Retirees, nil,
		Options{MaxTotalArticles: 4, MaxArticlesPerSource: 10, EnrichImages: false})

	require.NoError(t, err)
	require.Len(t, result.Articles, 4)
}

func TestCurate_RecencyFilter(t *testing.T) {
	old := time.Now().Add(-30 * 24 * time.Hour).Format(time.RFC1123Z)
	recent := time.Now().Add(-24 * time.Hour).Format(time.RFC1123Z)

	srv := feedSource(t, "Mixed Ages", []string{
		feedItem("Old Story", "https://example.com/old", old),
		feedItem("Recent Story", "https://example.com/recent", recent),
		feedItem("Undated Story", "https://example.com/undated", ""),
	})

	result, err := newTestCurator().Curate(context.Background(),
		[]string{srv.URL},
		audience.PreRetirees, nil,
		Options{MaxDays: 7, EnrichImages: false})

	require.NoError(t, err)
	require.Len(t, result.Articles, 2)
	for _, a := range result.Articles {
		require.NotEqual(t, "https://example.com/old", a.URL)
	}
}

func TestSelectDiverse_EverySourceRepresentedFirst(t *testing.T) {
	var pool []Article
	for _, source := range []string{"alpha", "beta", "gamma"} {
		for i, score := range []int{100, 90, 80, 70, 60} {
			pool = append(pool, Article{
				Title:          source,
				URL:            fmt.Sprintf("https://%s.example.com/%d", source, i),
				Source:         source,
				RelevanceScore: score,
			})
		}
	}

	selected := selectDiverse(pool, 3)
	require.Len(t, selected, 3)

	sources := map[string]bool{}
	for _, a := range selected {
		sources[a.Source] = true
	}
	require.Len(t, sources, 3, "each source should contribute before any repeats")
}

func TestSelectDiverse_DeterministicOnTies(t *testing.T) {
	pool := []Article{
		{URL: "https://a.example.com/1", Source: "a", RelevanceScore: 50},
		{URL: "https://b.example.com/1", Source: "b", RelevanceScore: 50},
		{URL: "https://c.example.com/1", Source: "c", RelevanceScore: 50},
	}

	first := selectDiverse(pool, 3)
	second := selectDiverse(pool, 3)
	require.Equal(t, first, second)
	require.Equal(t, "https://a.example.com/1", first[0].URL)
}

func TestDedupPool_KeepsFirstOccurrence(t *testing.T) {
	pool := []Article{
		{URL: "https://example.com/x", Source: "first"},
		{URL: "https://example.com/x", Source: "second"},
		{URL: "https://example.com/y", Source: "second"},
	}

	out := dedupPool(pool)
	require.Len(t, out, 2)
	require.Equal(t, "first", out[0].Source)
}

func TestDropMissingURLs(t *testing.T) {
	pool := []Article{
		{Title: "no link"},
		{Title: "linked", URL: "https://example.com/x"},
		{Title: "no link either"},
	}

	out := dropMissingURLs(pool)
	require.Len(t, out, 1)
	require.Equal(t, "https://example.com/x", out[0].URL)
}
