package curation

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/advisorpost/curator/internal/fetch"
)

// articleSelectors are container selectors tried in order; the first one
// matching anything on the page wins.
var articleSelectors = []string{
	"article",
	".article",
	".post",
	".entry",
	`[class*="article"]`,
	`[class*="post"]`,
	".story",
	".news-item",
	".blog-post",
}

// articleHrefMarkers and yearPathPattern decide whether a bare anchor looks
// like an article link when no container selector matches.
var articleHrefMarkers = []string{"/article", "/news", "/blog", "/post"}

var yearPathPattern = regexp.MustCompile(`/\d{4}/`)

// Scraper heuristically extracts article-like entries from a site's HTML
// when no feed is discoverable.
type Scraper struct {
	client *fetch.Client
}

func NewScraper(client *fetch.Client) *Scraper {
	return &Scraper{client: client}
}

// Scrape fetches the site's HTML and extracts article entries. Network and
// parse failures propagate; the orchestrator records the source as failed.
func (s *Scraper) Scrape(ctx context.Context, siteURL string) ([]Article, error) {
	base, err := url.Parse(normalizeBaseURL(siteURL))
	if err != nil || base.Hostname() == "" {
		return nil, fmt.Errorf("invalid source URL %q", siteURL)
	}

	doc, err := s.client.GetDocument(ctx, base.String())
	if err != nil {
		return nil, fmt.Errorf("failed to scrape %s: %w", base.Hostname(), err)
	}

	var containers *goquery.Selection
	for _, selector := range articleSelectors {
		if found := doc.Find(selector); found.Length() > 0 {
			containers = found
			break
		}
	}

	var articles []Article
	if containers == nil {
		articles = s.extractHeadlineLinks(doc, base)
	} else {
		articles = s.extractContainers(containers, base)
	}

	return dedupByURL(articles), nil
}

// extractContainers pulls title, link, summary, date and image out of each
// container element, capped to the first scrapeContainerCap matches.
// Entries missing a title or link are dropped.
func (s *Scraper) extractContainers(containers *goquery.Selection, base *url.URL) []Article {
	limit := min(containers.Length(), scrapeContainerCap)
	articles := make([]Article, 0, limit)

	containers.Slice(0, limit).Each(func(_ int, el *goquery.Selection) {
		title := strings.TrimSpace(el.Find("h1, h2, h3, h4, .title, .headline").First().Text())
		if title == "" {
			title = strings.TrimSpace(el.Find("a").First().Text())
		}

		link := resolveURL(base.String(), el.Find("a").First().AttrOr("href", ""))

		if title == "" || link == "" {
			return
		}

		summary := strings.TrimSpace(el.Find("p, .excerpt, .summary, .description").First().Text())

		dateEl := el.Find("time, .date, .published").First()
		published := dateEl.AttrOr("datetime", "")
		if published == "" {
			published = strings.TrimSpace(dateEl.Text())
		}

		articles = append(articles, Article{
			Title:         title,
			URL:           link,
			Summary:       truncateSummary(summary),
			ImageURL:      resolveURL(base.String(), el.Find("img").First().AttrOr("src", "")),
			PublishedAt:   published,
			Source:        base.Hostname(),
			MatchedTopics: []string{},
		})
	})

	return articles
}

// extractHeadlineLinks is the fallback when no container selector matched:
// accept anchors whose text reads like a headline and whose href looks like
// an article path.
func (s *Scraper) extractHeadlineLinks(doc *goquery.Document, base *url.URL) []Article {
	var articles []Article

	doc.Find("a").Each(func(_ int, el *goquery.Selection) {
		href := el.AttrOr("href", "")
		text := strings.TrimSpace(el.Text())

		if href == "" || strings.Contains(href, "#") {
			return
		}
		if n := len([]rune(text)); n <= 30 || n >= 200 {
			return
		}
		if !looksLikeArticleHref(href) {
			return
		}

		articles = append(articles, Article{
			Title:         text,
			URL:           resolveURL(base.String(), href),
			Source:        base.Hostname(),
			MatchedTopics: []string{},
		})
	})

	return articles
}

func looksLikeArticleHref(href string) bool {
	for _, marker := range articleHrefMarkers {
		if strings.Contains(href, marker) {
			return true
		}
	}
	return yearPathPattern.MatchString(href)
}

// dedupByURL keeps the first occurrence of each URL.
func dedupByURL(articles []Article) []Article {
	seen := make(map[string]struct{}, len(articles))
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if _, dup := seen[a.URL]; dup {
			continue
		}
		seen[a.URL] = struct{}{}
		out = append(out, a)
	}
	return out
}
