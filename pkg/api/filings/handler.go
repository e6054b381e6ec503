// Package filings provides the HTTP API over the filing extraction
// pipeline: locate-and-extract, filing history, and cache/rate-limit
// introspection.
package filings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"edinet_insight/pkg/core/edinet"
	"edinet_insight/pkg/core/pipeline"
	"edinet_insight/pkg/core/ratelimit"
)

const (
	defaultLookbackDays = 90
	defaultHistoryYears = 5
)

// Handler serves the filings API endpoints.
type Handler struct {
	service *pipeline.Service
	limiter *ratelimit.Limiter
}

// NewHandler creates a handler over the pipeline service. The limiter
// gates extraction requests per client IP.
func NewHandler(service *pipeline.Service, limiter *ratelimit.Limiter) *Handler {
	return &Handler{service: service, limiter: limiter}
}

// ExtractRequest selects a company and document type for extraction.
type ExtractRequest struct {
	Code         string `json:"code"`          // 4-digit securities code
	Name         string `json:"name"`          // company name substring, used when code is empty
	DocType      string `json:"doc_type"`      // "annual" (default) or "quarterly"
	LookbackDays int    `json:"lookback_days"` // defaults to 90
}

// HistoryRequest selects a company for multi-year extraction.
type HistoryRequest struct {
	Code    string `json:"code"`
	DocType string `json:"doc_type"`
	Years   int    `json:"years"` // defaults to 5
}

// HandleExtract handles POST /api/filings/extract.
func (h *Handler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Code == "" && req.Name == "" {
		http.Error(w, "code or name is required", http.StatusBadRequest)
		return
	}
	if req.DocType == "" {
		req.DocType = "annual"
	}
	if req.LookbackDays <= 0 {
		req.LookbackDays = defaultLookbackDays
	}

	if !h.admit(w, r) {
		return
	}

	start := time.Now()
	result, err := h.service.LocateAndExtract(r.Context(),
		edinet.Query{Code: req.Code, Name: req.Name},
		edinet.DocTypeCode(req.DocType), req.LookbackDays)
	if err != nil {
		writeExtractionError(w, err)
		return
	}

	log.Printf("[Handler] extracted %s in %v (cached=%v)",
		result.Metadata.DocID, time.Since(start), result.Metadata.FromCache)
	json.NewEncoder(w).Encode(result)
}

// HandleHistory handles POST /api/filings/history.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req HistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}
	if req.DocType == "" {
		req.DocType = "annual"
	}
	if req.Years <= 0 {
		req.Years = defaultHistoryYears
	}

	if !h.admit(w, r) {
		return
	}

	results, err := h.service.History(r.Context(), req.Code, edinet.DocTypeCode(req.DocType), req.Years)
	if err != nil {
		writeExtractionError(w, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"code":    req.Code,
		"years":   len(results),
		"results": results,
	})
}

// HandleCacheStats handles GET /api/filings/cache-stats.
func (h *Handler) HandleCacheStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := map[string]any{"memory": h.service.CacheStats()}
	if stats, err := h.service.StoreStats(r.Context()); err == nil {
		resp["persistent"] = stats
	}
	json.NewEncoder(w).Encode(resp)
}

// HandleRateLimit handles GET /api/filings/rate-limit, reporting the
// calling client's current window without consuming an admission.
func (h *Handler) HandleRateLimit(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	json.NewEncoder(w).Encode(h.limiter.Stats(clientID(r)))
}

// admit runs the caller through the rate limiter, writing a 429 with a
// Retry-After header on denial.
func (h *Handler) admit(w http.ResponseWriter, r *http.Request) bool {
	if h.limiter == nil {
		return true
	}
	allowed, retryAfter := h.limiter.Check(clientID(r))
	if allowed {
		return true
	}
	w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())+1))
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(map[string]any{
		"error":               "rate limit exceeded",
		"retry_after_seconds": int(retryAfter.Seconds()) + 1,
	})
	return false
}

// writeExtractionError maps pipeline errors to HTTP statuses: not-found
// and rate-limit outcomes are distinct from upstream failures.
func writeExtractionError(w http.ResponseWriter, err error) {
	var rateErr *edinet.RateLimitError
	switch {
	case errors.Is(err, edinet.ErrNotFound):
		http.Error(w, "No matching filing found", http.StatusNotFound)
	case errors.As(err, &rateErr):
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rateErr.RetryAfter.Seconds())+1))
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	default:
		http.Error(w, fmt.Sprintf("Extraction failed: %v", err), http.StatusBadGateway)
	}
}

func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
