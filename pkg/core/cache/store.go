package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultStoreTTL bounds how old a persisted extraction may be before a
// read treats it as stale. Filings do not change after submission, but the
// label linkbases and our own normalization logic do, so stale rows are
// re-extracted rather than served forever.
const DefaultStoreTTL = 7 * 24 * time.Hour

// Store persists extraction results in Postgres, keyed by
// (company_code, doc_id, period_end). A nil pool makes every method a
// no-op so callers need not branch on whether a database is configured.
type Store struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// StoreStats summarizes the persisted rows.
type StoreStats struct {
	TotalRows int    `json:"total_rows"`
	Companies int    `json:"companies"`
	OldestRow string `json:"oldest_row,omitempty"`
	NewestRow string `json:"newest_row,omitempty"`
}

// NewStore creates a store over pool. Non-positive ttl falls back to
// DefaultStoreTTL.
func NewStore(pool *pgxpool.Pool, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultStoreTTL
	}
	return &Store{pool: pool, ttl: ttl}
}

// EnsureSchema creates the extraction table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	ddl := `
		CREATE TABLE IF NOT EXISTS edinet_extractions (
			id            BIGSERIAL PRIMARY KEY,
			company_code  TEXT NOT NULL,
			doc_id        TEXT NOT NULL,
			period_end    TEXT NOT NULL,
			company_name  TEXT NOT NULL DEFAULT '',
			doc_type_code TEXT NOT NULL DEFAULT '',
			data          JSONB NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (company_code, doc_id, period_end)
		)
	`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure extraction schema: %w", err)
	}
	return nil
}

// Get returns the persisted payload for the key, or ok=false on a miss.
// Rows older than the store TTL are treated as misses.
func (s *Store) Get(ctx context.Context, companyCode, docID, periodEnd string, out any) (bool, error) {
	if s.pool == nil {
		return false, nil
	}
	query := `
		SELECT data
		FROM edinet_extractions
		WHERE company_code = $1 AND doc_id = $2 AND period_end = $3
		  AND updated_at > NOW() - $4::interval
		LIMIT 1
	`
	interval := fmt.Sprintf("%d seconds", int(s.ttl.Seconds()))
	var dataJSON []byte
	err := s.pool.QueryRow(ctx, query, companyCode, docID, periodEnd, interval).Scan(&dataJSON)
	if err != nil {
		return false, nil // miss or unavailable, caller re-extracts
	}
	if err := json.Unmarshal(dataJSON, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached extraction: %w", err)
	}
	return true, nil
}

// Put upserts the payload under the key. Re-extracting the same filing
// overwrites the previous row and refreshes updated_at.
func (s *Store) Put(ctx context.Context, companyCode, docID, periodEnd, companyName, docTypeCode string, payload any) error {
	if s.pool == nil {
		return nil
	}
	dataJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal extraction: %w", err)
	}
	query := `
		INSERT INTO edinet_extractions (
			company_code, doc_id, period_end, company_name, doc_type_code, data
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_code, doc_id, period_end)
		DO UPDATE SET
			data = EXCLUDED.data,
			company_name = EXCLUDED.company_name,
			doc_type_code = EXCLUDED.doc_type_code,
			updated_at = NOW()
	`
	if _, err := s.pool.Exec(ctx, query, companyCode, docID, periodEnd, companyName, docTypeCode, dataJSON); err != nil {
		return fmt.Errorf("failed to save extraction: %w", err)
	}
	return nil
}

// Stats reports row counts and the age range of the persisted data.
func (s *Store) Stats(ctx context.Context) (StoreStats, error) {
	var stats StoreStats
	if s.pool == nil {
		return stats, nil
	}
	query := `
		SELECT COUNT(*),
		       COUNT(DISTINCT company_code),
		       COALESCE(MIN(updated_at)::text, ''),
		       COALESCE(MAX(updated_at)::text, '')
		FROM edinet_extractions
	`
	err := s.pool.QueryRow(ctx, query).Scan(&stats.TotalRows, &stats.Companies, &stats.OldestRow, &stats.NewestRow)
	if err != nil {
		return stats, fmt.Errorf("failed to query extraction stats: %w", err)
	}
	return stats, nil
}
