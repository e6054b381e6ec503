// Package pipeline wires the locator, fetcher, extractors, and caches
// into the single entry point downstream callers use.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"edinet_insight/pkg/core/cache"
	"edinet_insight/pkg/core/edinet"
	"edinet_insight/pkg/core/extract"
	"edinet_insight/pkg/core/xbrl"
)

// Metadata identifies the filing an extraction came from. FromCache is
// true when the result was served without touching the upstream API.
type Metadata struct {
	CompanyName  string `json:"company_name"`
	SecurityCode string `json:"security_code"`
	PeriodEnd    string `json:"period_end"`
	SubmitDate   string `json:"submit_date"`
	DocumentType string `json:"document_type"`
	DocID        string `json:"doc_id"`
	FromCache    bool   `json:"from_cache"`
}

// ExtractionResult is the full output for one filing.
type ExtractionResult struct {
	Metadata     Metadata                   `json:"metadata"`
	Financials   extract.Record             `json:"financials"`
	Text         map[extract.Section]string `json:"text"`
	Shareholders []extract.ShareholderEntry `json:"shareholders"`
	WebsiteURL   string                     `json:"website_url,omitempty"`
}

// Service runs the locate-fetch-extract pipeline behind a two-tier cache.
type Service struct {
	locator *edinet.Locator
	fetcher *edinet.Fetcher
	memory  *cache.Memory
	store   *cache.Store
}

// NewService assembles a pipeline. memory and store must be non-nil; use
// cache.NewStore(nil, 0) when no database is configured.
func NewService(locator *edinet.Locator, fetcher *edinet.Fetcher, memory *cache.Memory, store *cache.Store) *Service {
	return &Service{locator: locator, fetcher: fetcher, memory: memory, store: store}
}

// LocateAndExtract finds the most recent filing matching the query and
// returns its extraction. Both cache tiers are checked before the
// upstream API is touched; a fresh extraction is written back to both.
// Returns edinet.ErrNotFound (wrapped) when no filing matches.
func (s *Service) LocateAndExtract(ctx context.Context, q edinet.Query, docType string, lookbackDays int) (*ExtractionResult, error) {
	memKey := memoryKey(q, docType)
	if v, ok := s.memory.Get(memKey); ok {
		if res, ok := v.(*ExtractionResult); ok {
			return fromCache(res), nil
		}
	}

	filing, err := s.locator.FindLatest(ctx, q, docType, lookbackDays)
	if err != nil {
		return nil, err
	}

	companyCode := q.Code
	if companyCode == "" {
		companyCode = filing.SecCode
	}

	var cached ExtractionResult
	hit, err := s.store.Get(ctx, companyCode, filing.DocID, filing.PeriodEnd, &cached)
	if err != nil {
		log.Printf("[Pipeline] persistent cache read failed for %s: %v", filing.DocID, err)
	}
	if hit {
		s.memory.Set(memKey, &cached)
		return fromCache(&cached), nil
	}

	result, err := s.extractFiling(ctx, filing)
	if err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, companyCode, filing.DocID, filing.PeriodEnd, filing.FilerName, filing.DocTypeCode, result); err != nil {
		log.Printf("[Pipeline] persistent cache write failed for %s: %v", filing.DocID, err)
	}
	s.memory.Set(memKey, result)
	return result, nil
}

// History extracts up to years of annual filings for a company code,
// newest first. Each filing goes through the persistent cache
// independently so repeated calls only fetch what is missing.
func (s *Service) History(ctx context.Context, code, docType string, years int) ([]*ExtractionResult, error) {
	filings, err := s.locator.FindHistory(ctx, edinet.Query{Code: code}, docType, years)
	if err != nil {
		return nil, err
	}

	results := make([]*ExtractionResult, 0, len(filings))
	for _, filing := range filings {
		var cached ExtractionResult
		hit, err := s.store.Get(ctx, code, filing.DocID, filing.PeriodEnd, &cached)
		if err != nil {
			log.Printf("[Pipeline] persistent cache read failed for %s: %v", filing.DocID, err)
		}
		if hit {
			results = append(results, fromCache(&cached))
			continue
		}

		result, err := s.extractFiling(ctx, filing)
		if err != nil {
			// One bad package should not sink the rest of the history.
			log.Printf("[Pipeline] skipping %s (%s): %v", filing.DocID, filing.PeriodEnd, err)
			continue
		}
		if err := s.store.Put(ctx, code, filing.DocID, filing.PeriodEnd, filing.FilerName, filing.DocTypeCode, result); err != nil {
			log.Printf("[Pipeline] persistent cache write failed for %s: %v", filing.DocID, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// CacheStats reports in-process cache occupancy.
func (s *Service) CacheStats() cache.MemoryStats {
	return s.memory.Stats()
}

// StoreStats reports persistent cache occupancy.
func (s *Service) StoreStats(ctx context.Context) (cache.StoreStats, error) {
	return s.store.Stats(ctx)
}

// extractFiling downloads one filing's package and runs every extractor
// over it. The package directory is removed on all exit paths.
func (s *Service) extractFiling(ctx context.Context, filing *edinet.Filing) (*ExtractionResult, error) {
	pkg, err := s.fetcher.Fetch(ctx, filing.DocID)
	if err != nil {
		return nil, err
	}
	defer pkg.Close()

	instancePath, err := xbrl.FindInstancePath(pkg.Dir)
	if err != nil {
		return nil, fmt.Errorf("no instance document in package %s: %w", filing.DocID, err)
	}
	inst, err := xbrl.ParseInstanceFile(instancePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse instance for %s: %w", filing.DocID, err)
	}

	resolver := xbrl.NewResolverForPackage(pkg.Dir)
	financials := extract.Financials(inst, resolver)
	sections := extract.Sections(inst)
	extract.ScanEmployeeStatus(financials, sections[extract.SectionEmployees])

	shareholders := extract.ParseShareholders(extract.RawSection(inst, extract.SectionMajorShareholders))
	log.Printf("[Pipeline] %s: %d concepts, %d sections, %d shareholders",
		filing.DocID, len(financials), len(sections), len(shareholders))

	return &ExtractionResult{
		Metadata: Metadata{
			CompanyName:  filing.FilerName,
			SecurityCode: filing.SecCode,
			PeriodEnd:    filing.PeriodEnd,
			SubmitDate:   filing.SubmitDate,
			DocumentType: filing.DocDescription,
			DocID:        filing.DocID,
		},
		Financials:   financials,
		Text:         sections,
		Shareholders: shareholders,
		WebsiteURL:   extract.WebsiteURL(inst),
	}, nil
}

// fromCache returns a copy marked as cache-served, leaving the cached
// value itself untouched.
func fromCache(res *ExtractionResult) *ExtractionResult {
	out := *res
	out.Metadata.FromCache = true
	return &out
}

func memoryKey(q edinet.Query, docType string) string {
	id := q.Code
	if id == "" {
		id = q.Name
	}
	return "extract:" + id + ":" + docType
}
