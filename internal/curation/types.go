package curation

import "time"

// Article is the transient unit flowing through the pipeline. Nothing here
// is persisted; callers keep what they select.
type Article struct {
	Title          string   `json:"title"`
	URL            string   `json:"url"`
	Summary        string   `json:"summary"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	PublishedAt    string   `json:"publishedAt,omitempty"`
	Source         string   `json:"source"`
	MatchedTopics  []string `json:"matchedTopics"`
	RelevanceScore int      `json:"relevanceScore"`
}

// SourceError records a source that contributed nothing to a curation run.
type SourceError struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// Result is the outcome of one curation run. Articles are ordered by
// selection, not by raw score.
type Result struct {
	Articles  []Article     `json:"articles"`
	Errors    []SourceError `json:"errors"`
	FetchedAt string        `json:"fetchedAt"`
}

// Options are the tunable limits of a curation run.
type Options struct {
	MaxDays              int
	MaxArticlesPerSource int
	MaxTotalArticles     int
	EnrichImages         bool
}

// DefaultOptions mirror the limits the surrounding application uses when a
// caller passes none.
func DefaultOptions() Options {
	return Options{
		MaxDays:              7,
		MaxArticlesPerSource: 10,
		MaxTotalArticles:     30,
		EnrichImages:         true,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxDays <= 0 {
		o.MaxDays = d.MaxDays
	}
	if o.MaxArticlesPerSource <= 0 {
		o.MaxArticlesPerSource = d.MaxArticlesPerSource
	}
	if o.MaxTotalArticles <= 0 {
		o.MaxTotalArticles = d.MaxTotalArticles
	}
	return o
}

// Summary truncation bound, matching the length the post generator expects.
const summaryMaxLen = 300

// Selection tuning values. Empirical; adjust with care.
const (
	// scoreBase is added per matched topic.
	scoreBase = 10
	// scoreTitleBonus is added per matched topic whose keywords also hit
	// the title.
	scoreTitleBonus = 5
	// diversityDecay discounts each additional pick from a source already
	// represented in the selection.
	diversityDecay = 0.6
	// firstUseBonus favors sources with no picks yet, so every source gets
	// early representation.
	firstUseBonus = 5.0
	// enrichCap bounds how many leading articles get an image fetch.
	enrichCap = 15
	// scrapeContainerCap bounds how many container elements a scrape
	// examines on one page.
	scrapeContainerCap = 20
)

// BackupSources are financial news sites callers can fall back to when all
// of their configured sources fail.
var BackupSources = []string{
	"https://www.investopedia.com",
	"https://www.kiplinger.com",
	"https://www.cnbc.com/personal-finance/",
	"https://www.nerdwallet.com",
}

// now is swapped in tests that pin the recency filter to a fixed clock.
var now = time.Now
