package edinet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// openAdmission admits everything; denyAdmission rejects everything.
type openAdmission struct{}

func (openAdmission) Check(string) (bool, time.Duration) { return true, 0 }

type denyAdmission struct{}

func (denyAdmission) Check(string) (bool, time.Duration) { return false, 42 * time.Second }

// newTestLocator serves canned listings keyed by date. Days without an
// entry return an empty listing.
func newTestLocator(t *testing.T, listings map[string][]DocumentInfo, limiter Admission) (*Locator, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents.json" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("Subscription-Key") == "" {
			http.Error(w, "missing key", http.StatusUnauthorized)
			return
		}
		date := r.URL.Query().Get("date")
		json.NewEncoder(w).Encode(listResponse{Results: listings[date]})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	loc := NewLocator(client, limiter, "test")
	loc.now = func() time.Time {
		return time.Date(2025, 6, 27, 12, 0, 0, 0, time.UTC)
	}
	return loc, srv
}

func annualDoc(docID, secCode, name, periodEnd, submitted string) DocumentInfo {
	return DocumentInfo{
		DocID:          docID,
		DocTypeCode:    DocTypeAnnual,
		SecCode:        secCode,
		FilerName:      name,
		DocDescription: "有価証券報告書－第121期",
		SubmitDateTime: submitted,
		PeriodEnd:      periodEnd,
	}
}

// =============================================================================
// FIND LATEST
// =============================================================================

func TestFindLatestWalksBackToMatch(t *testing.T) {
	listings := map[string][]DocumentInfo{
		// Two days before "today"; the walk must reach it.
		"2025-06-25": {annualDoc("S100ABCD", "72030", "トヨタ自動車株式会社", "2025-03-31", "2025-06-25 15:00")},
	}
	loc, _ := newTestLocator(t, listings, openAdmission{})

	filing, err := loc.FindLatest(context.Background(), Query{Code: "7203"}, DocTypeAnnual, 5)
	if err != nil {
		t.Fatalf("FindLatest: %v", err)
	}
	if filing.DocID != "S100ABCD" {
		t.Errorf("doc id = %q", filing.DocID)
	}
	if filing.SecCode != "72030" {
		t.Errorf("sec code = %q", filing.SecCode)
	}
}

func TestFindLatestByNameSubstring(t *testing.T) {
	listings := map[string][]DocumentInfo{
		"2025-06-27": {
			annualDoc("S100AAAA", "72030", "トヨタ自動車株式会社", "2025-03-31", "2025-06-27 09:00"),
			annualDoc("S100BBBB", "99840", "ソフトバンクグループ株式会社", "2025-03-31", "2025-06-27 10:00"),
		},
	}
	loc, _ := newTestLocator(t, listings, openAdmission{})

	filing, err := loc.FindLatest(context.Background(), Query{Name: "ソフトバンク"}, DocTypeAnnual, 1)
	if err != nil {
		t.Fatalf("FindLatest: %v", err)
	}
	if filing.DocID != "S100BBBB" {
		t.Errorf("doc id = %q", filing.DocID)
	}
}

func TestFindLatestExcludesInvestmentVehicles(t *testing.T) {
	trust := annualDoc("S100TRST", "72030", "トヨタ投資ファンド", "2025-03-31", "2025-06-27 09:00")
	trust.DocDescription = "有価証券報告書（内国投資信託受益証券）"
	corp := annualDoc("S100CORP", "72030", "トヨタ不動産投資法人", "2025-03-31", "2025-06-27 09:30")
	corp.DocDescription = "有価証券報告書（内国投資証券）投資法人"

	listings := map[string][]DocumentInfo{"2025-06-27": {trust, corp}}
	loc, _ := newTestLocator(t, listings, openAdmission{})

	_, err := loc.FindLatest(context.Background(), Query{Code: "7203"}, DocTypeAnnual, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound (investment vehicles excluded)", err)
	}
}

func TestFindLatestDocTypeMustMatch(t *testing.T) {
	quarterly := annualDoc("S100QTRL", "72030", "トヨタ自動車株式会社", "2025-06-30", "2025-06-27 09:00")
	quarterly.DocTypeCode = DocTypeQuarterly

	listings := map[string][]DocumentInfo{"2025-06-27": {quarterly}}
	loc, _ := newTestLocator(t, listings, openAdmission{})

	if _, err := loc.FindLatest(context.Background(), Query{Code: "7203"}, DocTypeAnnual, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for mismatched doc type", err)
	}
}

func TestFindLatestLatestSubmissionWins(t *testing.T) {
	listings := map[string][]DocumentInfo{
		"2025-06-27": {
			annualDoc("S100ORIG", "72030", "トヨタ自動車株式会社", "2025-03-31", "2025-06-27 09:00"),
			annualDoc("S100CORR", "72030", "トヨタ自動車株式会社", "2025-03-31", "2025-06-27 16:30"),
		},
	}
	loc, _ := newTestLocator(t, listings, openAdmission{})

	filing, err := loc.FindLatest(context.Background(), Query{Code: "7203"}, DocTypeAnnual, 1)
	if err != nil {
		t.Fatalf("FindLatest: %v", err)
	}
	if filing.DocID != "S100CORR" {
		t.Errorf("doc id = %q, want the later submission", filing.DocID)
	}
}

func TestFindLatestNotFound(t *testing.T) {
	loc, _ := newTestLocator(t, nil, openAdmission{})
	_, err := loc.FindLatest(context.Background(), Query{Code: "0000"}, DocTypeAnnual, 3)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFindLatestRateLimited(t *testing.T) {
	loc, _ := newTestLocator(t, nil, denyAdmission{})
	_, err := loc.FindLatest(context.Background(), Query{Code: "7203"}, DocTypeAnnual, 3)

	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("err = %v, want RateLimitError", err)
	}
	if rateErr.RetryAfter != 42*time.Second {
		t.Errorf("retry after = %v", rateErr.RetryAfter)
	}
}

func TestFindLatestUpstreamErrorWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	loc := NewLocator(client, openAdmission{}, "test")

	_, err := loc.FindLatest(context.Background(), Query{Code: "7203"}, DocTypeAnnual, 1)
	var locErr *LocatorError
	if !errors.As(err, &locErr) {
		t.Fatalf("err = %v, want LocatorError", err)
	}
	if locErr.Date == "" {
		t.Error("locator error lost the failing date")
	}
}

// =============================================================================
// FIND HISTORY
// =============================================================================

func TestFindHistoryOnePerPeriod(t *testing.T) {
	listings := map[string][]DocumentInfo{
		"2025-06-25": {
			annualDoc("S100Y25A", "72030", "トヨタ自動車株式会社", "2025-03-31", "2025-06-25 09:00"),
			annualDoc("S100Y25B", "72030", "トヨタ自動車株式会社", "2025-03-31", "2025-06-25 17:00"),
		},
		"2024-06-26": {annualDoc("S100Y24", "72030", "トヨタ自動車株式会社", "2024-03-31", "2024-06-26 09:00")},
		"2023-06-28": {annualDoc("S100Y23", "72030", "トヨタ自動車株式会社", "2023-03-31", "2023-06-28 09:00")},
	}
	loc, _ := newTestLocator(t, listings, openAdmission{})

	filings, err := loc.FindHistory(context.Background(), Query{Code: "7203"}, DocTypeAnnual, 2)
	if err != nil {
		t.Fatalf("FindHistory: %v", err)
	}
	// years=2 caps the result; newest period first; the corrected
	// submission wins within its period.
	if len(filings) != 2 {
		t.Fatalf("got %d filings, want 2", len(filings))
	}
	if filings[0].DocID != "S100Y25B" {
		t.Errorf("newest filing = %q, want the later submission S100Y25B", filings[0].DocID)
	}
	if filings[1].DocID != "S100Y24" {
		t.Errorf("second filing = %q", filings[1].DocID)
	}
}

// =============================================================================
// DOC TYPE NAMES
// =============================================================================

func TestDocTypeCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"annual", DocTypeAnnual},
		{"quarterly", DocTypeQuarterly},
		{DocTypeQuarterly, DocTypeQuarterly},
		{"", DocTypeAnnual},
		{"anything-else", DocTypeAnnual},
	}
	for _, tt := range tests {
		if got := DocTypeCode(tt.in); got != tt.want {
			t.Errorf("DocTypeCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
