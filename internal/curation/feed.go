package curation

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/mmcdole/gofeed"

	"github.com/advisorpost/curator/internal/fetch"
)

const feedAccept = "application/rss+xml, application/atom+xml, application/xml, text/xml"

// FeedFetcher retrieves a syndication feed and normalizes its entries into
// Articles. All "trust the external format" handling lives in
// normalizeItem; the rest of the pipeline sees a uniform shape.
type FeedFetcher struct {
	client *fetch.Client
	parser *gofeed.Parser
}

func NewFeedFetcher(client *fetch.Client) *FeedFetcher {
	return &FeedFetcher{
		client: client,
		parser: gofeed.NewParser(),
	}
}

// Fetch parses the feed at feedURL. Parse and fetch failures propagate; the
// orchestrator falls back to scraping on error.
func (f *FeedFetcher) Fetch(ctx context.Context, feedURL string) ([]Article, error) {
	data, err := f.client.GetBody(ctx, feedURL, feedAccept)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	feed, err := f.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	source := feed.Title
	if source == "" {
		if u, err := url.Parse(feedURL); err == nil {
			source = u.Hostname()
		}
	}

	articles := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		articles = append(articles, normalizeItem(item, source))
	}

	return articles, nil
}

// normalizeItem maps a loosely-typed feed entry onto an Article. Entries
// without a link are kept; the orchestrator decides their fate.
func normalizeItem(item *gofeed.Item, source string) Article {
	title := item.Title
	if title == "" {
		title = "Untitled"
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	summary = truncateSummary(stripHTML(summary))

	published := item.Published
	if published == "" {
		published = item.Updated
	}

	return Article{
		Title:         title,
		URL:           item.Link,
		Summary:       summary,
		ImageURL:      itemImage(item),
		PublishedAt:   published,
		Source:        source,
		MatchedTopics: []string{},
	}
}

// itemImage pulls an image from the first of: enclosure, media:content,
// media:thumbnail.
func itemImage(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" {
			return enc.URL
		}
	}
	if u := mediaExtensionURL(item, "content"); u != "" {
		return u
	}
	return mediaExtensionURL(item, "thumbnail")
}

func mediaExtensionURL(item *gofeed.Item, name string) string {
	media, ok := item.Extensions["media"]
	if !ok {
		return ""
	}
	for _, ext := range media[name] {
		if u := ext.Attrs["url"]; u != "" {
			return u
		}
	}
	return ""
}
