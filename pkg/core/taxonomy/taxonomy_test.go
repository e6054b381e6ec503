package taxonomy

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// TAG NORMALIZATION
// =============================================================================

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		name   string
		tag    string
		want   Concept
		wantOK bool
	}{
		// Exact alias matches
		{"JGAAP net sales", "NetSales", Revenue, true},
		{"IFRS revenue headline", "RevenuesIFRS", Revenue, true},
		{"Summary-of-results variant", "NetSalesSummaryOfBusinessResults", Revenue, true},
		{"Ordinary income", "OrdinaryIncome", OrdinaryIncome, true},
		{"Equity ratio exact", "EquityToAssetRatioSummaryOfBusinessResults", EquityRatio, true},

		// Substring matches for non-strict concepts
		{"Prefixed revenue tag", "ConsolidatedNetSalesForTheYear", Revenue, true},
		{"Employee count variant", "NumberOfEmployeesAsOfFiscalYearEnd", Employees, true},

		// Strict concepts never match by substring
		{"ROE buried in tag", "DescriptionOfRateOfReturnOnEquityPolicy", "", false},

		// Unknown
		{"Unrelated tag", "NumberOfSharesHeldByDirectors", "", false},
		{"Empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeTag(tt.tag)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("NormalizeTag(%q) = (%q, %v), want (%q, %v)", tt.tag, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		concept Concept
		want    Kind
	}{
		{Revenue, KindMonetary},
		{ROE, KindRatio},
		{EquityRatio, KindRatio},
		{EPS, KindPerShare},
		{Employees, KindCount},
		{AverageSalary, KindSalary},
		{Concept("unknown"), KindMonetary},
	}
	for _, tt := range tests {
		if got := KindOf(tt.concept); got != tt.want {
			t.Errorf("KindOf(%q) = %v, want %v", tt.concept, got, tt.want)
		}
	}
}

// =============================================================================
// JAPANESE LABELS
// =============================================================================

func TestJapaneseLabel(t *testing.T) {
	if got := JapaneseLabel("NetSales"); got != "売上高" {
		t.Errorf("JapaneseLabel(NetSales) = %q", got)
	}
	// Unknown tags fall back to the tag itself.
	if got := JapaneseLabel("CompletelyUnknownTag"); got != "CompletelyUnknownTag" {
		t.Errorf("JapaneseLabel(unknown) = %q", got)
	}
}

func TestDisplayOrderCoversDisplayLabels(t *testing.T) {
	seen := make(map[Concept]bool)
	for _, c := range DisplayOrder {
		if seen[c] {
			t.Errorf("concept %q appears twice in DisplayOrder", c)
		}
		seen[c] = true
		if _, ok := DisplayLabels[c]; !ok {
			t.Errorf("DisplayOrder concept %q has no display label", c)
		}
	}
}

// =============================================================================
// YAML OVERRIDES
// =============================================================================

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.yaml")
	content := `concepts:
  revenue:
    - NetSalesRevisedTag2026
    - NetSales
labels:
  NetSalesRevisedTag2026: 売上高
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	before := len(ConceptGroups[Revenue])
	if err := LoadOverrides(path); err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}

	// New alias appended, existing alias not duplicated.
	if got := len(ConceptGroups[Revenue]); got != before+1 {
		t.Errorf("revenue aliases = %d, want %d", got, before+1)
	}
	if c, ok := NormalizeTag("NetSalesRevisedTag2026"); !ok || c != Revenue {
		t.Errorf("override alias not resolvable: (%q, %v)", c, ok)
	}
	if got := JapaneseLabel("NetSalesRevisedTag2026"); got != "売上高" {
		t.Errorf("override label = %q", got)
	}
}

func TestLoadOverridesMissingFile(t *testing.T) {
	if err := LoadOverrides(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing overrides file")
	}
}
