package edinet

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"
)

// Admission gates upstream calls. Implemented by ratelimit.Limiter.
type Admission interface {
	Check(clientID string) (allowed bool, retryAfter time.Duration)
}

// Query selects a company either by securities code or by name substring.
// Code takes precedence when both are set.
type Query struct {
	Code string // 4-digit canonical code; 5-digit variants match by prefix
	Name string // substring of the filer name
}

// Locator finds the most recent filing matching a query by walking the
// daily listings backward from today. The search is sequential and stops at
// the first matching day.
type Locator struct {
	client   *Client
	limiter  Admission
	clientID string

	// now is injectable for tests
	now func() time.Time
}

// NewLocator creates a locator. Every listing call is gated by the limiter
// under the given client identity.
func NewLocator(client *Client, limiter Admission, clientID string) *Locator {
	return &Locator{client: client, limiter: limiter, clientID: clientID, now: time.Now}
}

// FindLatest returns the most recent filing of docType matching the query
// within lookbackDays, or ErrNotFound when the window is exhausted.
// Upstream failure on any day aborts the search with a LocatorError; the
// caller decides whether to re-issue.
func (l *Locator) FindLatest(ctx context.Context, q Query, docType string, lookbackDays int) (*Filing, error) {
	for i := 0; i < lookbackDays; i++ {
		date := l.now().AddDate(0, 0, -i).Format("2006-01-02")

		docs, err := l.listDay(ctx, date)
		if err != nil {
			return nil, err
		}

		matches := filterDocuments(docs, q, docType)
		if len(matches) == 0 {
			continue
		}
		// Multiple submissions on one day: the latest submission wins
		// (corrections supersede the original).
		sort.Slice(matches, func(a, b int) bool {
			return matches[a].SubmitDateTime > matches[b].SubmitDateTime
		})
		log.Printf("[Locator] matched %s (%s) on %s", matches[0].FilerName, matches[0].DocID, date)
		return toFiling(matches[0]), nil
	}
	return nil, ErrNotFound
}

// FindHistory returns up to `years` filings, one per distinct fiscal
// period, newest first by period end. For each period the latest submission
// wins. Walks the full window even after the first match.
func (l *Locator) FindHistory(ctx context.Context, q Query, docType string, years int) ([]*Filing, error) {
	lookbackDays := years*366 + 100

	var all []DocumentInfo
	for i := 0; i < lookbackDays; i++ {
		date := l.now().AddDate(0, 0, -i).Format("2006-01-02")
		docs, err := l.listDay(ctx, date)
		if err != nil {
			return nil, err
		}
		all = append(all, filterDocuments(docs, q, docType)...)
	}

	sort.Slice(all, func(a, b int) bool {
		return all[a].SubmitDateTime > all[b].SubmitDateTime
	})

	seen := make(map[string]bool)
	var filings []*Filing
	for _, d := range all {
		if seen[d.PeriodEnd] {
			continue
		}
		seen[d.PeriodEnd] = true
		filings = append(filings, toFiling(d))
		if len(filings) >= years {
			break
		}
	}

	sort.Slice(filings, func(a, b int) bool {
		return filings[a].PeriodEnd > filings[b].PeriodEnd
	})
	return filings, nil
}

func (l *Locator) listDay(ctx context.Context, date string) ([]DocumentInfo, error) {
	if allowed, retryAfter := l.limiter.Check(l.clientID); !allowed {
		return nil, &RateLimitError{RetryAfter: retryAfter}
	}
	docs, err := l.client.ListDocuments(ctx, date)
	if err != nil {
		return nil, &LocatorError{Date: date, Err: err}
	}
	return docs, nil
}

// filterDocuments applies the matching rules: document type equality,
// investment-vehicle exclusion, then code-prefix or name-substring match.
func filterDocuments(docs []DocumentInfo, q Query, docType string) []DocumentInfo {
	var out []DocumentInfo
	for _, d := range docs {
		if d.DocTypeCode != docType {
			continue
		}
		// Investment trusts and investment corporations file the same
		// document type but are not operating companies.
		if strings.Contains(d.DocDescription, "投資信託") || strings.Contains(d.DocDescription, "投資法人") {
			continue
		}
		switch {
		case q.Code != "":
			// secCode is 5 digits in listings; compare on the 4-digit prefix.
			if d.SecCode != "" && strings.HasPrefix(d.SecCode, q.Code) {
				out = append(out, d)
			}
		case q.Name != "":
			if strings.Contains(d.FilerName, q.Name) {
				out = append(out, d)
			}
		}
	}
	return out
}

func toFiling(d DocumentInfo) *Filing {
	return &Filing{
		DocID:          d.DocID,
		SecCode:        d.SecCode,
		FilerName:      d.FilerName,
		DocTypeCode:    d.DocTypeCode,
		DocDescription: d.DocDescription,
		SubmitDate:     d.SubmitDateTime,
		PeriodEnd:      d.PeriodEnd,
		LocatedAt:      time.Now(),
	}
}
