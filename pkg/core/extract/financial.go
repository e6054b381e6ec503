// Package extract turns a parsed filing instance into normalized
// financial facts, qualitative text sections, and shareholder rows.
package extract

import (
	"log"
	"strconv"
	"strings"

	"edinet_insight/pkg/core/taxonomy"
	"edinet_insight/pkg/core/xbrl"
)

// Fact is one normalized financial value together with the raw tag that
// supplied it. Derived marks values computed from other facts rather than
// read from the filing. UnitUnknown marks salary figures that arrived
// without a unit suffix; their magnitude is kept untouched.
type Fact struct {
	Value       float64 `json:"value"`
	RawTag      string  `json:"raw_tag,omitempty"`
	Derived     bool    `json:"derived,omitempty"`
	UnitUnknown bool    `json:"unit_unknown,omitempty"`
}

// Record maps canonical concepts to their normalized facts. A concept
// with no resolvable fact is absent, keeping zero and unknown distinct.
type Record map[taxonomy.Concept]Fact

// Financials walks the instance's facts, resolves each tag to a canonical
// concept, and normalizes the value by concept kind. The first resolvable
// fact per concept wins, matching document order.
func Financials(inst *xbrl.Instance, res *xbrl.Resolver) Record {
	record := make(Record)
	for _, fact := range inst.Facts {
		value, ok := parseNumeric(fact.Value)
		if !ok {
			continue
		}
		concept, ok := res.Resolve(fact.Tag)
		if !ok {
			continue
		}
		if _, seen := record[concept]; seen {
			continue
		}
		if taxonomy.KindOf(concept) == taxonomy.KindRatio {
			value = NormalizeRatio(value)
		}
		record[concept] = Fact{Value: value, RawTag: fact.Tag}
	}

	deriveMissing(record)
	log.Printf("[Extract] normalized %d financial concepts", len(record))
	return record
}

// NormalizeRatio converts fractional ratio encodings to percentages.
// Values in (0,1] are fractions and scale by 100; values above 1 are
// already percentages and pass through, so the function is idempotent.
func NormalizeRatio(v float64) float64 {
	if v > 0 && v <= 1 {
		return v * 100
	}
	return v
}

// deriveMissing fills gaps that the filing's own tagging leaves. Derived
// values never overwrite declared ones.
func deriveMissing(record Record) {
	// Banks report ordinary income where operating income would be.
	if _, ok := record[taxonomy.OperatingIncome]; !ok {
		if ord, ok := record[taxonomy.OrdinaryIncome]; ok {
			record[taxonomy.OperatingIncome] = Fact{Value: ord.Value, Derived: true}
		}
	}
	if _, ok := record[taxonomy.FreeCF]; !ok {
		op, okOp := record[taxonomy.OperatingCF]
		inv, okInv := record[taxonomy.InvestingCF]
		if okOp && okInv {
			record[taxonomy.FreeCF] = Fact{Value: op.Value + inv.Value, Derived: true}
		}
	}
	if _, ok := record[taxonomy.EquityRatio]; !ok {
		equity, okE := record[taxonomy.NetAssets]
		assets, okA := record[taxonomy.TotalAssets]
		if okE && okA && assets.Value != 0 {
			record[taxonomy.EquityRatio] = Fact{Value: equity.Value / assets.Value * 100, Derived: true}
		}
	}
	if _, ok := record[taxonomy.ROE]; !ok {
		income, okI := record[taxonomy.NetIncome]
		equity, okE := record[taxonomy.NetAssets]
		if okI && okE && equity.Value != 0 {
			record[taxonomy.ROE] = Fact{Value: income.Value / equity.Value * 100, Derived: true}
		}
	}
	if _, ok := record[taxonomy.ROA]; !ok {
		income, okI := record[taxonomy.NetIncome]
		assets, okA := record[taxonomy.TotalAssets]
		if okI && okA && assets.Value != 0 {
			record[taxonomy.ROA] = Fact{Value: income.Value / assets.Value * 100, Derived: true}
		}
	}
}

// parseNumeric parses a fact value that may carry thousands separators.
// Non-numeric values (text blocks, dates) report ok=false.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ".") {
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	}
	v, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	return float64(v), err == nil
}
