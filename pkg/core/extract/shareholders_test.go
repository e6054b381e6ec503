package extract

import (
	"testing"
)

// =============================================================================
// CONCATENATED NUMBER SPLITTING
// =============================================================================

func TestSplitConcatenatedNumber(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantShares string
		wantRatio  string
		wantOK     bool
	}{
		// Real runs observed in degraded filings
		{"Two-digit ratio", "1,805,60513.84", "1,805,605", "13.84", true},
		{"One-digit ratio after grouping check", "1,192,3319.14", "1,192,331", "9.14", true},
		{"One-digit ratio short count", "811,6476.22", "811,647", "6.22", true},
		{"One-digit ratio another", "633,2214.85", "633,221", "4.85", true},

		// Rejections
		{"No decimal point", "1,805,605", "", "", false},
		{"Decimal too close to end", "123.4", "", "", false},
		{"Empty shares part", "3.84", "", "", false},
		{"Bad comma grouping both ways", "1,23,45678.90", "", "", false},
		{"Empty string", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, ratio, ok := SplitConcatenatedNumber(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("SplitConcatenatedNumber(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if shares != tt.wantShares || ratio != tt.wantRatio {
				t.Errorf("SplitConcatenatedNumber(%q) = (%q, %q), want (%q, %q)",
					tt.input, shares, ratio, tt.wantShares, tt.wantRatio)
			}
		})
	}
}

// =============================================================================
// STRUCTURED TABLE PATH
// =============================================================================

func TestParseShareholdersStructuredTable(t *testing.T) {
	html := `<table>
		<tr><th>氏名又は名称</th><th>所有株式数（千株）</th><th>発行済株式総数に対する所有株式数の割合（％）</th></tr>
		<tr><td>日本マスタートラスト信託銀行株式会社</td><td>1,805,605</td><td>13.84</td></tr>
		<tr><td>株式会社豊田自動織機</td><td>1,192,331</td><td>9.14</td></tr>
		<tr><td>計</td><td>2,997,936</td><td>22.98</td></tr>
	</table>`

	entries := ParseShareholders(html)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}

	first := entries[0]
	if first.Name != "日本マスタートラスト信託銀行株式会社" {
		t.Errorf("first holder name = %q", first.Name)
	}
	// Thousand-share header scales counts to whole shares.
	if first.Shares != 1805605000 {
		t.Errorf("first holder shares = %d, want 1805605000", first.Shares)
	}
	if first.Ratio != 13.84 {
		t.Errorf("first holder ratio = %v, want 13.84", first.Ratio)
	}
}

func TestParseShareholdersSkipsHeaderLikeRows(t *testing.T) {
	html := `<table>
		<tr><td>株主名</td><td>持株数</td><td>割合</td></tr>
		<tr><td>株主名</td><td>持株数</td><td>割合</td></tr>
		<tr><td>テスト株主</td><td>100</td><td>5.0</td></tr>
	</table>`

	entries := ParseShareholders(html)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Name != "テスト株主" {
		t.Errorf("holder name = %q", entries[0].Name)
	}
}

// =============================================================================
// DEGRADED TEXT FALLBACK
// =============================================================================

func TestParseShareholdersDegradedText(t *testing.T) {
	// Markup collapsed into one run of text: header, then rows of
	// name + prefecture-led address + concatenated shares/ratio digits.
	text := "（６）【大株主の状況】2025年３月31日現在氏名又は名称住所所有株式数(千株)発行済株式(自己株式を除く)の総数に対する所有株式数の割合(％)" +
		"日本マスタートラスト信託銀行㈱東京都港区赤坂一丁目８番１号1,805,60513.84" +
		"㈱豊田自動織機愛知県刈谷市豊田町二丁目１番地1,192,3319.14" +
		"㈱日本カストディ銀行東京都中央区晴海一丁目８番12号811,6476.22" +
		"日本生命保険（相）大阪府大阪市中央区今橋三丁目５番12号633,2214.85"

	entries := ParseShareholders(text)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d: %+v", len(entries), entries)
	}

	want := []struct {
		name   string
		shares int64
		ratio  float64
	}{
		{"日本マスタートラスト信託銀行㈱", 1805605000, 13.84},
		{"㈱豊田自動織機", 1192331000, 9.14},
		{"㈱日本カストディ銀行", 811647000, 6.22},
		{"日本生命保険（相）", 633221000, 4.85},
	}
	for i, w := range want {
		got := entries[i]
		if got.Name != w.name {
			t.Errorf("entry %d name = %q, want %q", i, got.Name, w.name)
		}
		if got.Shares != w.shares {
			t.Errorf("entry %d shares = %d, want %d", i, got.Shares, w.shares)
		}
		if got.Ratio != w.ratio {
			t.Errorf("entry %d ratio = %v, want %v", i, got.Ratio, w.ratio)
		}
		if got.Address == "" {
			t.Errorf("entry %d has empty address", i)
		}
	}

	// Address keeps the prefecture anchor.
	if entries[0].Address != "東京都港区赤坂一丁目８番１号" {
		t.Errorf("entry 0 address = %q", entries[0].Address)
	}
}

func TestParseShareholdersGarbage(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"No table no anchors", "<p>該当事項はありません。</p>"},
		{"Anchors without numbers", "東京都のオフィスと大阪府の支社があります"},
		{"Table without shareholder headers", "<table><tr><td>売上高</td><td>100</td></tr></table>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if entries := ParseShareholders(tt.input); len(entries) != 0 {
				t.Errorf("expected no entries, got %+v", entries)
			}
		})
	}
}

// =============================================================================
// CELL VALUE PARSING
// =============================================================================

func TestParseShareNumber(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		thousand bool
		want     int64
	}{
		{"Plain with commas", "1,234,567", false, 1234567},
		{"Thousand unit scales", "1,234", true, 1234000},
		{"Unit suffix stripped", "1234千株", false, 1234},
		{"Empty", "", false, 0},
		{"Non-numeric", "－", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseShareNumber(tt.raw, tt.thousand); got != tt.want {
				t.Errorf("parseShareNumber(%q, %v) = %d, want %d", tt.raw, tt.thousand, got, tt.want)
			}
		})
	}
}

func TestParseRatioPercentage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"Percent value", "10.5", 10.5},
		{"Percent sign", "10.5%", 10.5},
		{"Full-width percent", "10.5％", 10.5},
		{"Fraction form scaled", "0.105", 10.5},
		{"Over hundred capped", "250", 100},
		{"Empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRatioPercentage(tt.raw); got != tt.want {
				t.Errorf("parseRatioPercentage(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
