package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ShareholderEntry is one row of the major-shareholders disclosure.
// Shares is in units of one share (thousand-share tables are scaled up),
// Ratio is a percentage in [0, 100]. Address is empty when the source
// table does not carry one.
type ShareholderEntry struct {
	Name    string  `json:"name"`
	Address string  `json:"address,omitempty"`
	Shares  int64   `json:"shares"`
	Ratio   float64 `json:"ratio"`
}

// prefecturePattern anchors the degraded-text parser: every shareholder
// address in the disclosure starts with one of the 47 prefecture names, so
// splitting on them recovers row boundaries after the table markup is gone.
var prefecturePattern = regexp.MustCompile(`(東京都|北海道|(?:京都|大阪)府|青森県|岩手県|宮城県|秋田県|山形県|福島県|茨城県|栃木県|群馬県|埼玉県|千葉県|神奈川県|新潟県|富山県|石川県|福井県|山梨県|長野県|岐阜県|静岡県|愛知県|三重県|滋賀県|兵庫県|奈良県|和歌山県|鳥取県|島根県|岡山県|広島県|山口県|徳島県|香川県|愛媛県|高知県|福岡県|佐賀県|長崎県|熊本県|大分県|宮崎県|鹿児島県|沖縄県)`)

// decimalRunPattern matches a shares+ratio digit run. Addresses contain
// bare digit runs ("8番12号") but never a decimal point, so requiring one
// skips past them.
var decimalRunPattern = regexp.MustCompile(`[0-9][0-9,]*\.[0-9]+`)

var (
	nameHeaderKeywords   = []string{"氏名", "名称", "株主", "所有者"}
	sharesHeaderKeywords = []string{"株式数", "持株数", "所有株式", "保有株数"}
	ratioHeaderKeywords  = []string{"割合", "比率", "持株比率", "議決権"}
)

// ParseShareholders extracts shareholder rows from the major-shareholders
// HTML fragment. It reads structured table cells when present; when no
// table yields a row it falls back to prefecture-anchored segmentation of
// the flattened text. An empty slice means no data, never an error.
func ParseShareholders(htmlContent string) []ShareholderEntry {
	if htmlContent == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return parseDegradedShareholderText(htmlContent)
	}
	if rows := parseShareholderTables(doc); len(rows) > 0 {
		return rows
	}
	return parseDegradedShareholderText(doc.Text())
}

// parseShareholderTables reads the first table whose header row names both
// a holder column and a share-count column. Later tables are only
// consulted if earlier ones yield no rows.
func parseShareholderTables(doc *goquery.Document) []ShareholderEntry {
	var entries []ShareholderEntry

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() == 0 {
			return true
		}

		headerIdx := -1
		var headerCells []string
		rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
			cells := cellTexts(row)
			if containsAny(cells, nameHeaderKeywords) && containsAny(cells, sharesHeaderKeywords) {
				headerIdx = i
				headerCells = cells
				return false
			}
			return true
		})
		if headerIdx == -1 {
			return true
		}

		nameCol, sharesCol, ratioCol := -1, -1, -1
		for i, h := range headerCells {
			switch {
			case nameCol == -1 && matchesAny(h, nameHeaderKeywords):
				nameCol = i
			case sharesCol == -1 && matchesAny(h, sharesHeaderKeywords):
				sharesCol = i
			case ratioCol == -1 && matchesAny(h, ratioHeaderKeywords):
				ratioCol = i
			}
		}
		thousandUnit := strings.Contains(strings.Join(headerCells, ""), "千株")

		rows.Each(func(i int, row *goquery.Selection) {
			if i <= headerIdx {
				return
			}
			cells := row.Find("td, th")
			maxCol := nameCol
			if sharesCol > maxCol {
				maxCol = sharesCol
			}
			if ratioCol > maxCol {
				maxCol = ratioCol
			}
			if cells.Length() <= maxCol {
				return
			}

			name := strings.TrimSpace(cells.Eq(nameCol).Text())
			if name == "" || isAggregateRow(name) || matchesAny(name, []string{"株主名", "氏名又は名称"}) {
				return
			}

			var shares int64
			if sharesCol >= 0 {
				shares = parseShareNumber(cells.Eq(sharesCol).Text(), thousandUnit)
			}
			var ratio float64
			if ratioCol >= 0 {
				ratio = parseRatioPercentage(cells.Eq(ratioCol).Text())
			}
			if shares > 0 || ratio > 0 {
				entries = append(entries, ShareholderEntry{Name: name, Shares: shares, Ratio: ratio})
			}
		})

		return len(entries) == 0
	})

	return entries
}

// parseDegradedShareholderText recovers rows from a fragment whose table
// markup degraded into one run of text. Prefecture names anchor the
// address of each row; the digits trailing each address concatenate the
// share count and the ownership ratio with no separator, so the pair is
// recovered by SplitConcatenatedNumber. Segments that fail validation are
// dropped rather than guessed at.
func parseDegradedShareholderText(text string) []ShareholderEntry {
	clean := strings.NewReplacer("　", "", " ", "", "\n", "", "\r", "", "\t", "").Replace(text)
	if clean == "" {
		return nil
	}
	thousandUnit := strings.Contains(clean, "千株")

	parts := prefectureSplit(clean)
	if len(parts) < 3 {
		return nil
	}

	var entries []ShareholderEntry
	// parts alternate: leading text, prefecture, segment, prefecture, ...
	for i := 1; i+1 < len(parts); i += 2 {
		pref := parts[i]
		seg := parts[i+1]

		loc := decimalRunPattern.FindStringIndex(seg)
		if loc == nil {
			continue
		}
		sharesStr, ratioStr, ok := SplitConcatenatedNumber(seg[loc[0]:loc[1]])
		if !ok {
			continue
		}

		name := holderNameBefore(parts[i-1])
		if name == "" {
			continue
		}

		shares := parseShareNumber(sharesStr, thousandUnit)
		ratio := parseRatioPercentage(ratioStr)
		entries = append(entries, ShareholderEntry{
			Name:    name,
			Address: pref + seg[:loc[0]],
			Shares:  shares,
			Ratio:   ratio,
		})
	}
	return entries
}

// prefectureSplit splits text on prefecture anchors, keeping the anchors
// as their own elements.
func prefectureSplit(text string) []string {
	locs := prefecturePattern.FindAllStringIndex(text, -1)
	if locs == nil {
		return []string{text}
	}
	parts := make([]string, 0, len(locs)*2+1)
	prev := 0
	for _, loc := range locs {
		parts = append(parts, text[prev:loc[0]], text[loc[0]:loc[1]])
		prev = loc[1]
	}
	parts = append(parts, text[prev:])
	return parts
}

// holderNameBefore extracts the holder name trailing the previous
// segment. For mid-table segments the name follows that segment's own
// shares+ratio run; for the leading segment it follows the closing
// bracket of the last header cell. A holder name that itself ends in
// digits defeats this, which mirrors the upstream data's own ambiguity.
func holderNameBefore(prev string) string {
	if locs := decimalRunPattern.FindAllStringIndex(prev, -1); locs != nil {
		last := locs[len(locs)-1]
		return strings.TrimSpace(prev[last[1]:])
	}
	if idx := strings.LastIndexAny(prev, "）)"); idx != -1 {
		_, size := utf8.DecodeRuneInString(prev[idx:])
		return strings.TrimSpace(prev[idx+size:])
	}
	return strings.TrimSpace(prev)
}

// SplitConcatenatedNumber splits a digit run like "1,805,60513.84" into
// the share count ("1,805,605") and ownership percentage ("13.84") that
// were concatenated without a separator. A two-digit percentage integer
// part is tried before a one-digit one; each candidate must leave a
// percentage strictly inside (0, 100) and a share count whose comma
// grouping is well formed. Runs failing both candidates are rejected.
func SplitConcatenatedNumber(s string) (shares, ratio string, ok bool) {
	decimalPos := strings.Index(s, ".")
	if decimalPos == -1 || decimalPos+3 > len(s) {
		return "", "", false
	}

	for _, ratioIntDigits := range []int{2, 1} {
		start := decimalPos - ratioIntDigits
		if start < 0 {
			continue
		}
		ratioCandidate := s[start : decimalPos+3]
		pct, err := strconv.ParseFloat(ratioCandidate, 64)
		if err != nil || pct <= 0 || pct >= 100 {
			continue
		}

		sharesCandidate := s[:start]
		if !validShareGrouping(sharesCandidate) {
			continue
		}
		return sharesCandidate, ratioCandidate, true
	}
	return "", "", false
}

// validShareGrouping reports whether s is all digits with standard comma
// grouping: first group 1-3 digits, every later group exactly 3.
func validShareGrouping(s string) bool {
	if s == "" {
		return false
	}
	noComma := strings.ReplaceAll(s, ",", "")
	if noComma == "" {
		return false
	}
	for _, r := range noComma {
		if r < '0' || r > '9' {
			return false
		}
	}
	groups := strings.Split(s, ",")
	if len(groups) > 1 {
		if len(groups[0]) < 1 || len(groups[0]) > 3 {
			return false
		}
		for _, g := range groups[1:] {
			if len(g) != 3 {
				return false
			}
		}
	}
	return true
}

// parseShareNumber parses a share count cell to whole shares. Thousand-
// share tables are scaled up so callers always see the same unit.
func parseShareNumber(raw string, thousandUnit bool) int64 {
	cleaned := strings.NewReplacer(",", "", "，", "", " ", "", "千株", "", "株", "", "千", "").Replace(strings.TrimSpace(raw))
	m := numberPattern.FindString(cleaned)
	if m == "" {
		return 0
	}
	num, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	if thousandUnit {
		num *= 1000
	}
	return int64(num)
}

var numberPattern = regexp.MustCompile(`[\d.]+`)

// parseRatioPercentage parses an ownership ratio cell to a percentage.
// Fractional encodings ("0.105") are scaled to percent; values over 100
// are capped since no single holder can exceed the float.
func parseRatioPercentage(raw string) float64 {
	cleaned := strings.NewReplacer("%", "", "％", "", " ", "").Replace(strings.TrimSpace(raw))
	m := numberPattern.FindString(cleaned)
	if m == "" {
		return 0
	}
	num, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	if num > 0 && num < 1 {
		num *= 100
	}
	if num > 100 {
		num = 100
	}
	return math.Round(num*100) / 100
}

func cellTexts(row *goquery.Selection) []string {
	cells := row.Find("th")
	if cells.Length() == 0 {
		cells = row.Find("td")
	}
	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, c *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(c.Text()))
	})
	return texts
}

func isAggregateRow(name string) bool {
	switch name {
	case "計", "合計", "その他", "自己名義":
		return true
	}
	return false
}

func containsAny(texts, keywords []string) bool {
	for _, t := range texts {
		if matchesAny(t, keywords) {
			return true
		}
	}
	return false
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
