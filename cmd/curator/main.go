package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/advisorpost/curator/internal/audience"
	"github.com/advisorpost/curator/internal/cache"
	"github.com/advisorpost/curator/internal/config"
	"github.com/advisorpost/curator/internal/curation"
	"github.com/advisorpost/curator/internal/fetch"
	"github.com/advisorpost/curator/internal/logger"
	"github.com/advisorpost/curator/internal/metrics"
	"github.com/advisorpost/curator/internal/retry"
)

// output is the JSON shape written to stdout for the batch-generation and
// manual-curation collaborators.
type output struct {
	Articles        []curation.Article     `json:"articles"`
	Errors          []curation.SourceError `json:"errors"`
	SuggestedTopics []string               `json:"suggestedTopics"`
	FetchedAt       string                 `json:"fetchedAt"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger.Init(cfg.Debug)

	// Check if we should start HTTP server for monitoring
	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer(cfg.MonitoringPort)
	}

	sources, err := config.LoadSources(cfg.SourcesConfigPath)
	if err != nil {
		logger.Error("failed to load sources", "path", cfg.SourcesConfigPath, "error", err)
		os.Exit(1)
	}

	aud := audience.Type(cfg.Audience)
	if !audience.Valid(aud) {
		logger.Warn("unknown audience, using default",
			"audience", cfg.Audience, "default", string(audience.Default))
		aud = audience.Default
	}

	discoverer := curation.NewDiscoverer(
		fetch.NewClient(cfg.ProbeTimeout, cfg.UserAgent),
		fetch.NewClient(cfg.FeedTimeout, cfg.UserAgent),
		cache.New(),
		cfg.DiscoveryCacheTTL,
	)
	feeds := curation.NewFeedFetcher(fetch.NewClient(cfg.FeedTimeout, cfg.UserAgent))
	scraper := curation.NewScraper(fetch.NewClient(cfg.PageTimeout, cfg.UserAgent))
	enricher := curation.NewEnricher(fetch.NewClient(cfg.EnrichTimeout, cfg.UserAgent))

	curator := curation.NewCurator(discoverer, feeds, scraper, enricher, retry.Config{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CurationTimeout)
	defer cancel()

	result, err := curator.Curate(ctx, sources, aud, cfg.CustomTopics, curation.Options{
		MaxDays:              cfg.MaxDays,
		MaxArticlesPerSource: cfg.MaxArticlesPerSource,
		MaxTotalArticles:     cfg.MaxTotalArticles,
		EnrichImages:         cfg.EnrichImages,
	})
	if err != nil {
		metrics.Global.SetError(err.Error())
		logger.Error("curation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("curation summary",
		"articles", len(result.Articles), "sources_with_issues", len(result.Errors))

	if len(result.Articles) == 0 && len(result.Errors) == len(sources) {
		logger.Warn("every source failed; consider widening the source set",
			"backup_sources", curation.BackupSources)
	}

	out := output{
		Articles:        result.Articles,
		Errors:          result.Errors,
		SuggestedTopics: curation.SuggestTopics(result.Articles),
		FetchedAt:       result.FetchedAt,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("failed to encode result", "error", err)
		os.Exit(1)
	}
}

func startMonitoringServer(port string) {
	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	logger.Info("starting monitoring server", "port", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		logger.Error("monitoring server error", "error", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
