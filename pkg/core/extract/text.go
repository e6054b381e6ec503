package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"edinet_insight/pkg/core/xbrl"

	"github.com/PuerkitoBio/goquery"
)

// Section identifies one qualitative narrative block of a filing.
type Section string

const (
	SectionBusinessOverview      Section = "business_overview"
	SectionManagementStrategy    Section = "management_strategy"
	SectionManagementAnalysis    Section = "management_analysis"
	SectionFinancialPosition     Section = "financial_position"
	SectionOperatingResults      Section = "operating_results"
	SectionCashFlows             Section = "cash_flows"
	SectionAccountingPolicies    Section = "accounting_policies"
	SectionSignificantAccounting Section = "significant_accounting"
	SectionIssues                Section = "issues"
	SectionRisks                 Section = "risks"
	SectionRAndD                 Section = "research_and_development"
	SectionCapex                 Section = "capital_expenditures"
	SectionEmployees             Section = "employee_status"
	SectionGovernance            Section = "governance"
	SectionOfficers              Section = "officers"
	SectionSustainability        Section = "sustainability"
	SectionMajorShareholders     Section = "major_shareholders"
	SectionStockInfo             Section = "stock_info"
	SectionOwnership             Section = "ownership_distribution"
)

// sectionTargets maps each section to the tag fragments that identify its
// text block across taxonomy years. Order matters: the first fragment
// match long enough to be a real narrative wins.
var sectionTargets = map[Section][]string{
	SectionBusinessOverview:      {"DescriptionOfBusinessTextBlock", "OverviewOfBusinessTextBlock"},
	SectionManagementStrategy:    {"ManagementPolicyBusinessPolicyAndManagementStrategyTextBlock", "ManagementPolicyTextBlock"},
	SectionManagementAnalysis:    {"ManagementAnalysisOfFinancialPosition", "ManagementAnalysisOfFinancialPositionOperatingResultsAndCashFlowsTextBlock", "OverviewOfBusinessResultsTextBlock"},
	SectionFinancialPosition:     {"AnalysisOfFinancialPositionTextBlock", "FinancialPositionTextBlock", "OverviewOfFinancialPositionTextBlock"},
	SectionOperatingResults:      {"AnalysisOfOperatingResultsTextBlock", "OperatingResultsTextBlock", "OverviewOfOperatingResultsTextBlock"},
	SectionCashFlows:             {"AnalysisOfCashFlowsTextBlock", "CashFlowsTextBlock", "OverviewOfCashFlowsTextBlock", "CashFlowPositionTextBlock"},
	SectionAccountingPolicies:    {"AccountingPoliciesTextBlock", "SignificantAccountingPoliciesTextBlock", "BusinessAccountingStandardsTextBlock"},
	SectionSignificantAccounting: {"SignificantAccountingPoliciesAndEstimatesTextBlock", "AccountingEstimatesTextBlock"},
	SectionIssues:                {"IssuesToBeAddressedTextBlock"},
	SectionRisks:                 {"BusinessRisksTextBlock", "RiskManagementTextBlock", "RisksOfBusinessEtcTextBlock"},
	SectionRAndD:                 {"ResearchAndDevelopmentActivitiesTextBlock"},
	SectionCapex:                 {"OverviewOfCapitalExpendituresEtcTextBlock", "CapitalExpendituresTextBlock"},
	SectionEmployees:             {"InformationAboutEmployeesTextBlock", "EmployeesTextBlock"},
	SectionGovernance:            {"CorporateGovernanceTextBlock", "StatusOfCorporateGovernanceTextBlock"},
	SectionOfficers:              {"InformationAboutOfficersTextBlock", "DirectorsAndExecutiveOfficersTextBlock", "DirectorsTextBlock"},
	SectionSustainability:        {"SustainabilityInformationTextBlock", "SustainabilityTextBlock", "EnvironmentalConservationActivitiesTextBlock"},
	SectionMajorShareholders:     {"MajorShareholdersTextBlock", "StatusOfMajorShareholdersTextBlock", "InformationAboutMajorShareholdersTextBlock", "MajorShareholders"},
	SectionStockInfo:             {"StockInformationTextBlock", "StatusOfSharesTextBlock", "ShareInformationTextBlock"},
	SectionOwnership:             {"StateOfShareholdingByOwnershipTextBlock", "ShareholdingByOwnershipTextBlock", "OwnershipOfSharesTextBlock"},
}

// minSectionRunes filters out placeholder blocks ("該当事項はありません。"
// style stubs are longer than this, real boilerplate markers are not).
const minSectionRunes = 20

var websiteTagFragments = []string{
	"URLOfCompanyWebsite", "WebsiteOfCompany", "CompanyWebsite", "InformationAboutOfficialWebsiteOfCompany",
}

// Sections pulls every recognizable narrative block out of the instance.
// Absent sections are absent from the map, never present as "".
func Sections(inst *xbrl.Instance) map[Section]string {
	out := make(map[Section]string)
	for section, frags := range sectionTargets {
		for _, fact := range inst.Facts {
			if !matchesAny(fact.Tag, frags) {
				continue
			}
			cleaned := CleanTextBlock(fact.Value)
			if utf8.RuneCountInString(cleaned) > minSectionRunes {
				out[section] = cleaned
				break
			}
		}
	}
	return out
}

// RawSection returns one section's block before text cleanup, preserving
// the embedded markup. The shareholder parser needs the markup to find
// table cell boundaries.
func RawSection(inst *xbrl.Instance, section Section) string {
	frags, ok := sectionTargets[section]
	if !ok {
		return ""
	}
	for _, fact := range inst.Facts {
		if matchesAny(fact.Tag, frags) && fact.Value != "" {
			return fact.Value
		}
	}
	return ""
}

// WebsiteURL returns the company website URL declared in the filing, or
// "" when none of the known tags carries a plausible URL.
func WebsiteURL(inst *xbrl.Instance) string {
	for _, fact := range inst.Facts {
		if !matchesAny(fact.Tag, websiteTagFragments) {
			continue
		}
		v := strings.TrimSpace(fact.Value)
		if strings.HasPrefix(v, "http") {
			return v
		}
	}
	return ""
}

// listMarkers start a new line even when the previous line lacks
// sentence-ending punctuation.
var listMarkers = []string{"(1)", "(2)", "(3)", "①", "②", "③", "・", "－", "1.", "2.", "3."}

var (
	openParenSpace  = regexp.MustCompile(`（\s*`)
	closeParenSpace = regexp.MustCompile(`\s*）`)
)

// CleanTextBlock flattens an XBRL text block's embedded HTML to readable
// plain text. Line breaks survive only at structural elements, and lines
// fragmented by inline tags are merged back unless the previous line
// already ended a sentence or the next one starts a list item.
func CleanTextBlock(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return strings.TrimSpace(stripTags(htmlContent))
	}

	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, tr").AfterHtml("\n")

	text := doc.Text()
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\t", "")

	var lines []string
	var buf string
	for _, line := range strings.Split(text, "\n") {
		stripped := strings.ReplaceAll(strings.TrimSpace(line), "　", " ")
		if stripped == "" {
			continue
		}
		if buf != "" && !endsSentence(buf) && !startsListItem(stripped) {
			buf += stripped
			continue
		}
		if buf != "" {
			lines = append(lines, buf)
		}
		buf = stripped
	}
	if buf != "" {
		lines = append(lines, buf)
	}

	out := strings.Join(lines, "\n")
	out = openParenSpace.ReplaceAllString(out, "（")
	out = closeParenSpace.ReplaceAllString(out, "）")
	return out
}

func endsSentence(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, suffix := range []string{"。", "．", "：", "!", "?", "！", "？"} {
		if strings.HasSuffix(trimmed, suffix) {
			return true
		}
	}
	return false
}

func startsListItem(line string) bool {
	for _, m := range listMarkers {
		if strings.HasPrefix(line, m) {
			return true
		}
	}
	return false
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}
