package edinet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production EDINET v2 endpoint.
const DefaultBaseURL = "https://api.edinet-fsa.go.jp/api/v2"

// Config carries the explicit parameters the client needs. The API key is
// billed per call upstream; it is always injected, never read from globals
// inside this package.
type Config struct {
	BaseURL string
	APIKey  string

	// ListTimeout/DownloadTimeout bound the two call classes separately;
	// package downloads are an order of magnitude slower than listings.
	ListTimeout     time.Duration
	DownloadTimeout time.Duration
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.BaseURL == "" {
		out.BaseURL = DefaultBaseURL
	}
	if out.ListTimeout == 0 {
		out.ListTimeout = 30 * time.Second
	}
	if out.DownloadTimeout == 0 {
		out.DownloadTimeout = 120 * time.Second
	}
	return out
}

// Client talks to the EDINET disclosure API.
type Client struct {
	cfg        Config
	listClient *http.Client
	dlClient   *http.Client
}

// NewClient creates an EDINET API client.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:        cfg,
		listClient: &http.Client{Timeout: cfg.ListTimeout},
		dlClient:   &http.Client{Timeout: cfg.DownloadTimeout},
	}
}

// ListDocuments returns the filings submitted on one calendar day.
// type=2 requests the full metadata listing.
func (c *Client) ListDocuments(ctx context.Context, date string) ([]DocumentInfo, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("type", "2")
	q.Set("Subscription-Key", c.cfg.APIKey)

	endpoint := fmt.Sprintf("%s/documents.json?%s", c.cfg.BaseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing request: %w", err)
	}

	resp, err := c.listClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned status %d", resp.StatusCode)
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("failed to parse listing response: %w", err)
	}
	return lr.Results, nil
}

// DownloadPackage retrieves the compressed filing package for a document.
// type=1 selects the XBRL archive.
func (c *Client) DownloadPackage(ctx context.Context, docID string) ([]byte, error) {
	q := url.Values{}
	q.Set("type", "1")
	q.Set("Subscription-Key", c.cfg.APIKey)

	endpoint := fmt.Sprintf("%s/documents/%s?%s", c.cfg.BaseURL, docID, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.dlClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read package body: %w", err)
	}
	return body, nil
}
