package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	SourcesFetched     int64
	FeedsDiscovered    int64
	ScrapeFallbacks    int64
	ArticlesCollected  int64
	DuplicatesFiltered int64
	ImagesEnriched     int64
	EnrichFailures     int64
	SourceErrors       int64

	// Timings
	LastCurationTime    time.Duration
	AverageCurationTime time.Duration
	TotalCurationTime   time.Duration
	CurationCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementSourcesFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFetched++
}

func (m *Metrics) IncrementFeedsDiscovered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsDiscovered++
}

func (m *Metrics) IncrementScrapeFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScrapeFallbacks++
}

func (m *Metrics) AddArticlesCollected(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesCollected += int64(n)
}

func (m *Metrics) IncrementDuplicatesFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered++
}

func (m *Metrics) IncrementImagesEnriched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImagesEnriched++
}

func (m *Metrics) IncrementEnrichFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnrichFailures++
}

func (m *Metrics) IncrementSourceErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceErrors++
}

func (m *Metrics) RecordCurationTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastCurationTime = duration
	m.TotalCurationTime += duration
	m.CurationCount++

	if m.CurationCount > 0 {
		m.AverageCurationTime = m.TotalCurationTime / time.Duration(m.CurationCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"sources_fetched":          m.SourcesFetched,
		"feeds_discovered":         m.FeedsDiscovered,
		"scrape_fallbacks":         m.ScrapeFallbacks,
		"articles_collected":       m.ArticlesCollected,
		"duplicates_filtered":      m.DuplicatesFiltered,
		"images_enriched":          m.ImagesEnriched,
		"enrich_failures":          m.EnrichFailures,
		"source_errors":            m.SourceErrors,
		"last_curation_time_ms":    m.LastCurationTime.Milliseconds(),
		"average_curation_time_ms": m.AverageCurationTime.Milliseconds(),
		"last_run_time":            m.LastRunTime.Format(time.RFC3339),
		"last_error_time":          m.LastErrorTime.Format(time.RFC3339),
		"last_error":               m.LastError,
		"is_healthy":               m.IsHealthy,
	}
}
