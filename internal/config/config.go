package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Source settings
	SourcesConfigPath string
	Audience          string
	CustomTopics      []string

	// Curation limits
	MaxDays              int
	MaxArticlesPerSource int
	MaxTotalArticles     int
	EnrichImages         bool

	// HTTP settings
	UserAgent     string
	ProbeTimeout  time.Duration
	FeedTimeout   time.Duration
	PageTimeout   time.Duration
	EnrichTimeout time.Duration

	// Retry settings
	RetryAttempts int
	RetryDelay    time.Duration

	// Overall deadline for one curation pass
	CurationTimeout time.Duration

	// Discovery cache
	DiscoveryCacheTTL time.Duration

	// App settings
	Debug          bool
	MonitoringPort string
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		SourcesConfigPath:    "configs/sources.yaml",
		Audience:             "young-professionals",
		MaxDays:              7,
		MaxArticlesPerSource: 10,
		MaxTotalArticles:     30,
		EnrichImages:         true,
		UserAgent:            "AdvisorPost-Curator/1.0 (RSS Reader)",
		ProbeTimeout:         5 * time.Second,
		FeedTimeout:          10 * time.Second,
		PageTimeout:          15 * time.Second,
		EnrichTimeout:        8 * time.Second,
		RetryAttempts:        2,
		RetryDelay:           2 * time.Second,
		CurationTimeout:      2 * time.Minute,
		DiscoveryCacheTTL:    6 * time.Hour,
		MonitoringPort:       "8080",
	}

	cfg.SourcesConfigPath = getEnvOrDefault("SOURCES_CONFIG_PATH", cfg.SourcesConfigPath)
	cfg.Audience = getEnvOrDefault("AUDIENCE", cfg.Audience)

	if topics := os.Getenv("CUSTOM_TOPICS"); topics != "" {
		for _, t := range strings.Split(topics, ",") {
			if t = strings.TrimSpace(t); t != "" {
				cfg.CustomTopics = append(cfg.CustomTopics, t)
			}
		}
	}

	cfg.MaxDays = getEnvIntOrDefault("MAX_DAYS", cfg.MaxDays)
	cfg.MaxArticlesPerSource = getEnvIntOrDefault("MAX_ARTICLES_PER_SOURCE", cfg.MaxArticlesPerSource)
	cfg.MaxTotalArticles = getEnvIntOrDefault("MAX_TOTAL_ARTICLES", cfg.MaxTotalArticles)

	if v := os.Getenv("ENRICH_IMAGES"); v != "" {
		cfg.EnrichImages = v == "true"
	}

	if v := os.Getenv("USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}

	cfg.ProbeTimeout = getEnvSecondsOrDefault("PROBE_TIMEOUT_SECONDS", cfg.ProbeTimeout)
	cfg.FeedTimeout = getEnvSecondsOrDefault("FEED_TIMEOUT_SECONDS", cfg.FeedTimeout)
	cfg.PageTimeout = getEnvSecondsOrDefault("PAGE_TIMEOUT_SECONDS", cfg.PageTimeout)
	cfg.EnrichTimeout = getEnvSecondsOrDefault("ENRICH_TIMEOUT_SECONDS", cfg.EnrichTimeout)

	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)
	cfg.RetryDelay = getEnvSecondsOrDefault("RETRY_DELAY_SECONDS", cfg.RetryDelay)
	cfg.CurationTimeout = getEnvSecondsOrDefault("CURATION_TIMEOUT_SECONDS", cfg.CurationTimeout)

	if hours := getEnvIntOrDefault("DISCOVERY_CACHE_TTL_HOURS", 0); hours > 0 {
		cfg.DiscoveryCacheTTL = time.Duration(hours) * time.Hour
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	cfg.MonitoringPort = getEnvOrDefault("MONITORING_PORT", cfg.MonitoringPort)

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvSecondsOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return time.Duration(intValue) * time.Second
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.MaxDays <= 0 {
		return fmt.Errorf("MAX_DAYS must be positive")
	}
	if c.MaxArticlesPerSource <= 0 {
		return fmt.Errorf("MAX_ARTICLES_PER_SOURCE must be positive")
	}
	if c.MaxTotalArticles <= 0 {
		return fmt.Errorf("MAX_TOTAL_ARTICLES must be positive")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1")
	}
	return nil
}
