// Package config exposes the server's effective extraction settings
// for the front-end and for operational spot checks.
package config

import (
	"encoding/json"
	"net/http"
	"time"
)

type Response struct {
	DocumentTypes       []string `json:"document_types"`
	DefaultLookbackDays int      `json:"default_lookback_days"`
	CacheTTLMinutes     int      `json:"cache_ttl_minutes"`
	StoreTTLDays        int      `json:"store_ttl_days"`
	RateLimitRequests   int      `json:"rate_limit_requests"`
	RateLimitWindowSec  int      `json:"rate_limit_window_seconds"`
	PersistentCache     bool     `json:"persistent_cache"`
}

// Settings are the values the server was started with.
type Settings struct {
	DefaultLookbackDays int
	CacheTTL            time.Duration
	StoreTTL            time.Duration
	RateLimitRequests   int
	RateLimitWindow     time.Duration
	PersistentCache     bool
}

// Handler holds the settings reported by the config endpoint
type Handler struct {
	resp Response
}

// NewHandler creates a new config handler
func NewHandler(s Settings) *Handler {
	return &Handler{
		resp: Response{
			DocumentTypes:       []string{"annual", "quarterly"},
			DefaultLookbackDays: s.DefaultLookbackDays,
			CacheTTLMinutes:     int(s.CacheTTL.Minutes()),
			StoreTTLDays:        int(s.StoreTTL.Hours() / 24),
			RateLimitRequests:   s.RateLimitRequests,
			RateLimitWindowSec:  int(s.RateLimitWindow.Seconds()),
			PersistentCache:     s.PersistentCache,
		},
	}
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(h.resp)
}
