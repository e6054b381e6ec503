package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"edinet_insight/pkg/api/config"
	"edinet_insight/pkg/api/filings"
	"edinet_insight/pkg/core/cache"
	"edinet_insight/pkg/core/edinet"
	"edinet_insight/pkg/core/pipeline"
	"edinet_insight/pkg/core/ratelimit"
	"edinet_insight/pkg/core/store"
	"edinet_insight/pkg/core/taxonomy"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v2"
)

// serverConfig is loaded from config/edinet.yaml. Every field has a
// usable default so the file is optional.
type serverConfig struct {
	Addr           string `yaml:"addr"`
	CacheTTLMin    int    `yaml:"cache_ttl_minutes"`
	CacheMaxSize   int    `yaml:"cache_max_size"`
	RateLimit      int    `yaml:"rate_limit_requests"`
	RateWindowSec  int    `yaml:"rate_limit_window_seconds"`
	TaxonomyPath   string `yaml:"taxonomy_overrides"`
	LookbackDays   int    `yaml:"lookback_days"`
	StoreTTLDays   int    `yaml:"store_ttl_days"`
	ListTimeoutSec int    `yaml:"list_timeout_seconds"`
	DLTimeoutSec   int    `yaml:"download_timeout_seconds"`
}

func loadConfig() serverConfig {
	cfg := serverConfig{
		Addr:          ":8080",
		RateLimit:     30,
		RateWindowSec: 60,
	}
	data, err := os.ReadFile("config/edinet.yaml")
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Printf("[WARNING] Failed to parse config/edinet.yaml: %v\n", err)
	}
	return cfg
}

func main() {
	// Load environment variables
	godotenv.Load()

	cfg := loadConfig()

	apiKey := os.Getenv("EDINET_API_KEY")
	if apiKey == "" {
		fmt.Println("[FATAL] EDINET_API_KEY environment variable not set")
		os.Exit(1)
	}

	// Optional taxonomy overrides extend the built-in concept table
	if cfg.TaxonomyPath != "" {
		if err := taxonomy.LoadOverrides(cfg.TaxonomyPath); err != nil {
			fmt.Printf("[WARNING] Failed to load taxonomy overrides: %v\n", err)
			fmt.Println("  Falling back to built-in concept table")
		}
	}

	ctx := context.Background()

	// Postgres is optional; without it the persistent tier is a no-op
	var extractionStore *cache.Store
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(ctx); err != nil {
			fmt.Printf("[WARNING] Database unavailable, persistent cache disabled: %v\n", err)
		}
	}
	extractionStore = cache.NewStore(store.GetPool(), time.Duration(cfg.StoreTTLDays)*24*time.Hour)
	if err := extractionStore.EnsureSchema(ctx); err != nil {
		fmt.Printf("[WARNING] Failed to ensure cache schema: %v\n", err)
	}
	defer store.Close()

	client := edinet.NewClient(edinet.Config{
		APIKey:          apiKey,
		ListTimeout:     time.Duration(cfg.ListTimeoutSec) * time.Second,
		DownloadTimeout: time.Duration(cfg.DLTimeoutSec) * time.Second,
	})
	limiter := ratelimit.New(cfg.RateLimit, time.Duration(cfg.RateWindowSec)*time.Second)

	service := pipeline.NewService(
		edinet.NewLocator(client, limiter, "pipeline"),
		edinet.NewFetcher(client),
		cache.NewMemory(time.Duration(cfg.CacheTTLMin)*time.Minute, cfg.CacheMaxSize),
		extractionStore,
	)

	handler := filings.NewHandler(service, limiter)
	http.HandleFunc("/api/filings/extract", handler.HandleExtract)
	http.HandleFunc("/api/filings/history", handler.HandleHistory)
	http.HandleFunc("/api/filings/cache-stats", handler.HandleCacheStats)
	http.HandleFunc("/api/filings/rate-limit", handler.HandleRateLimit)

	lookback := cfg.LookbackDays
	if lookback <= 0 {
		lookback = 90
	}
	cacheTTL := time.Duration(cfg.CacheTTLMin) * time.Minute
	if cacheTTL <= 0 {
		cacheTTL = cache.DefaultTTL
	}
	storeTTL := time.Duration(cfg.StoreTTLDays) * 24 * time.Hour
	if storeTTL <= 0 {
		storeTTL = cache.DefaultStoreTTL
	}
	configHandler := config.NewHandler(config.Settings{
		DefaultLookbackDays: lookback,
		CacheTTL:            cacheTTL,
		StoreTTL:            storeTTL,
		RateLimitRequests:   cfg.RateLimit,
		RateLimitWindow:     time.Duration(cfg.RateWindowSec) * time.Second,
		PersistentCache:     store.GetPool() != nil,
	})
	http.HandleFunc("/api/config", configHandler.HandleConfig)

	fmt.Printf("API server starting on %s...\n", cfg.Addr)
	fmt.Println("  - POST /api/filings/extract")
	fmt.Println("  - POST /api/filings/history")
	fmt.Println("  - GET  /api/filings/cache-stats")
	fmt.Println("  - GET  /api/filings/rate-limit")
	fmt.Println("  - GET  /api/config")

	if err := http.ListenAndServe(cfg.Addr, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
