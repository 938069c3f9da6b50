package curation

import (
	"context"
	"strings"
	"sync"

	"github.com/advisorpost/curator/internal/fetch"
	"github.com/advisorpost/curator/internal/logger"
	"github.com/advisorpost/curator/internal/metrics"
)

// previewImageSelectors are the social preview metadata variants checked in
// order on an article page.
var previewImageSelectors = []string{
	`meta[property="og:image"]`,
	`meta[name="og:image"]`,
	`meta[property="twitter:image"]`,
	`meta[name="twitter:image"]`,
	`meta[property="twitter:image:src"]`,
}

// Enricher fills in missing article images from page social-preview
// metadata, bounded to a capped number of page fetches per run.
type Enricher struct {
	client *fetch.Client
}

func NewEnricher(client *fetch.Client) *Enricher {
	return &Enricher{client: client}
}

// EnrichImages returns a copy of articles where up to maxToEnrich of the
// leading entries lacking an image get one fetched. Candidates come
// strictly from the front of the list; fetches run concurrently and a
// failure leaves that article's image empty without affecting siblings.
func (e *Enricher) EnrichImages(ctx context.Context, articles []Article, maxToEnrich int) []Article {
	out := make([]Article, len(articles))
	copy(out, articles)

	var candidates []int
	for i := 0; i < len(out) && i < maxToEnrich; i++ {
		if out[i].ImageURL == "" && out[i].URL != "" {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return out
	}

	var wg sync.WaitGroup
	for _, idx := range candidates {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			imageURL := e.fetchPreviewImage(ctx, out[idx].URL)
			if imageURL == "" {
				metrics.Global.IncrementEnrichFailures()
				return
			}
			out[idx].ImageURL = imageURL
			metrics.Global.IncrementImagesEnriched()
		}(idx)
	}
	wg.Wait()

	return out
}

// fetchPreviewImage extracts the first available social preview image from
// the page at pageURL. Never fails; unresolvable images come back empty.
func (e *Enricher) fetchPreviewImage(ctx context.Context, pageURL string) string {
	doc, err := e.client.GetDocument(ctx, pageURL)
	if err != nil {
		logger.Debug("preview image fetch failed", "url", pageURL, "error", err)
		return ""
	}

	var content string
	for _, selector := range previewImageSelectors {
		if content = doc.Find(selector).First().AttrOr("content", ""); content != "" {
			break
		}
	}
	if content == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(content, "//"):
		return "https:" + content
	case strings.HasPrefix(content, "/"):
		return resolveURL(pageURL, content)
	default:
		return content
	}
}
