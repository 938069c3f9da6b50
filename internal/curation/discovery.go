package curation

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/advisorpost/curator/internal/cache"
	"github.com/advisorpost/curator/internal/fetch"
	"github.com/advisorpost/curator/internal/logger"
)

// feedPaths are common feed locations probed in order.
var feedPaths = []string{
	"/feed",
	"/rss",
	"/feed.xml",
	"/rss.xml",
	"/atom.xml",
	"/feed/",
	"/rss/",
	"/blog/feed",
	"/blog/rss",
	"/news/feed",
}

// knownFeeds maps major finance publishers to their feed URLs, keyed by
// hostname without the www prefix.
var knownFeeds = map[string]string{
	"investopedia.com": "https://www.investopedia.com/feedbuilder/feed/getfeed?feedName=rss_headline",
	"bloomberg.com":    "https://www.bloomberg.com/feed/podcast/etf-iq.xml",
	"cnbc.com":         "https://www.cnbc.com/id/10000664/device/rss/rss.html",
	"marketwatch.com":  "https://feeds.marketwatch.com/marketwatch/topstories",
	"fool.com":         "https://www.fool.com/feeds/index.aspx",
	"kiplinger.com":    "https://www.kiplinger.com/rss.xml",
	"nerdwallet.com":   "https://www.nerdwallet.com/blog/feed/",
	"forbes.com":       "https://www.forbes.com/money/feed/",
}

// Discoverer locates a usable syndication feed for a website: registry
// lookup, common-path probes, then a scan of the page markup for an
// advertised feed link.
type Discoverer struct {
	probeClient *fetch.Client
	pageClient  *fetch.Client
	cache       *cache.Cache
	cacheTTL    time.Duration
}

func NewDiscoverer(probeClient, pageClient *fetch.Client, c *cache.Cache, cacheTTL time.Duration) *Discoverer {
	return &Discoverer{
		probeClient: probeClient,
		pageClient:  pageClient,
		cache:       c,
		cacheTTL:    cacheTTL,
	}
}

// Discover returns the feed URL for a website, or "" when none is found.
// "Not found" is a normal outcome; only a malformed base URL is an error.
// Results, including misses, are cached per host.
func (d *Discoverer) Discover(ctx context.Context, baseURL string) (string, error) {
	base, err := url.Parse(normalizeBaseURL(baseURL))
	if err != nil || base.Hostname() == "" {
		return "", fmt.Errorf("invalid source URL %q", baseURL)
	}

	host := strings.TrimPrefix(base.Hostname(), "www.")

	if d.cache != nil {
		if feedURL, ok := d.cache.Get(host); ok {
			logger.Debug("feed discovery cache hit", "host", host, "feed", feedURL)
			return feedURL, nil
		}
	}

	feedURL := d.discover(ctx, base, host)
	if d.cache != nil {
		d.cache.Set(host, feedURL, d.cacheTTL)
	}
	return feedURL, nil
}

func (d *Discoverer) discover(ctx context.Context, base *url.URL, host string) string {
	// Check known feeds first
	if feedURL, ok := knownFeeds[host]; ok {
		return feedURL
	}

	// Probe common paths
	for _, path := range feedPaths {
		ref, err := url.Parse(path)
		if err != nil {
			continue
		}
		probeURL := base.ResolveReference(ref).String()

		resp, err := d.probeClient.Head(ctx, probeURL)
		if err != nil || resp.StatusCode != http.StatusOK {
			continue
		}

		contentType := strings.ToLower(resp.Header.Get("Content-Type"))
		if strings.Contains(contentType, "xml") ||
			strings.Contains(contentType, "rss") ||
			strings.Contains(contentType, "atom") {
			return probeURL
		}
	}

	// Look for an advertised feed link in the page markup
	doc, err := d.pageClient.GetDocument(ctx, base.String())
	if err != nil {
		logger.Debug("feed link scan failed", "host", host, "error", err)
		return ""
	}

	href := doc.Find(`link[type="application/rss+xml"]`).First().AttrOr("href", "")
	if href == "" {
		href = doc.Find(`link[type="application/atom+xml"]`).First().AttrOr("href", "")
	}
	if href != "" {
		return resolveURL(base.String(), href)
	}

	return ""
}
