// Package taxonomy holds the static EDINET tag dictionaries used when a
// filing carries no usable label linkbase. The upstream taxonomy is revised
// yearly (the employee-related tags changed structurally in 2019), so the
// tables favor recall: one canonical concept maps to an ordered list of tag
// aliases, IFRS variants first.
package taxonomy

import "strings"

// Concept is a filing-year-independent canonical name for a financial fact.
type Concept string

const (
	Revenue            Concept = "revenue"
	OperatingIncome    Concept = "operating_income"
	OrdinaryIncome     Concept = "ordinary_income"
	NetIncome          Concept = "net_income"
	TotalAssets        Concept = "total_assets"
	NetAssets          Concept = "net_assets"
	OperatingCF        Concept = "operating_cf"
	InvestingCF        Concept = "investing_cf"
	FinancingCF        Concept = "financing_cf"
	FreeCF             Concept = "free_cf"
	EPS                Concept = "eps"
	DividendPerShare   Concept = "dividend_per_share"
	ROE                Concept = "roe"
	ROA                Concept = "roa"
	EquityRatio        Concept = "equity_ratio"
	PER                Concept = "per"
	CashEquivalents    Concept = "cash_equivalents"
	CurrentAssets      Concept = "current_assets"
	CurrentLiabilities Concept = "current_liabilities"
	Inventories        Concept = "inventories"
	Receivables        Concept = "receivables"
	Employees          Concept = "employees"
	TemporaryEmployees Concept = "temporary_employees"
	AverageAge         Concept = "average_age"
	AverageTenure      Concept = "average_tenure"
	AverageSalary      Concept = "average_salary"
)

// Kind classifies how a concept's raw value must be normalized.
type Kind int

const (
	KindMonetary Kind = iota // kept in the filing's native unit
	KindRatio                // (0,1] values are fractions, scale to percent
	KindPerShare             // yen per share, never scaled
	KindCount                // people / shares, unitless count
	KindSalary               // yen, may arrive without a unit suffix
)

// ConceptGroups maps each canonical concept to its acceptable raw tag local
// names, in priority order. First alias present in a filing wins.
// Ported from the upstream taxonomy dictionary; IFRS elements come first
// because mixed filings tag both and the IFRS figure is the headline one.
var ConceptGroups = map[Concept][]string{
	Revenue: {
		"OperatingRevenuesIFRS",
		"OperatingRevenuesIFRSSummaryOfBusinessResults",
		"Revenues",
		"RevenuesIFRS",
		"NetSales",
		"NetSalesSummaryOfBusinessResults",
		"Revenue",
		"SalesRevenues",
	},
	OperatingIncome: {
		"OperatingIncomeIFRS",
		"OperatingIncomeIFRSSummaryOfBusinessResults",
		"OperatingProfitLossIFRS",
		"OperatingIncome",
		"OperatingIncomeSummaryOfBusinessResults",
		"OperatingProfitLoss",
	},
	// Unique to Japanese GAAP; IFRS filings have no equivalent.
	OrdinaryIncome: {
		"OrdinaryIncome",
		"OrdinaryIncomeLoss",
		"OrdinaryIncomeLossSummaryOfBusinessResults",
	},
	NetIncome: {
		"ProfitLossAttributableToOwnersOfParentIFRS",
		"ProfitLossAttributableToOwnersOfParentIFRSSummaryOfBusinessResults",
		"ProfitLossAttributableToOwnersOfParent",
		"ProfitLossAttributableToOwnersOfParentSummaryOfBusinessResults",
		"NetIncome",
		"NetIncomeLoss",
		"NetIncomeLossSummaryOfBusinessResults",
		"ProfitLoss",
	},
	TotalAssets: {
		"TotalAssetsIFRS",
		"TotalAssetsIFRSSummaryOfBusinessResults",
		"TotalAssets",
		"TotalAssetsSummaryOfBusinessResults",
		"Assets",
	},
	NetAssets: {
		"EquityAttributableToOwnersOfParentIFRS",
		"EquityAttributableToOwnersOfParentIFRSSummaryOfBusinessResults",
		"TotalEquityIFRS",
		"NetAssets",
		"NetAssetsSummaryOfBusinessResults",
		"TotalEquity",
	},
	OperatingCF: {
		"CashFlowsFromUsedInOperatingActivitiesIFRS",
		"CashFlowsFromUsedInOperatingActivitiesIFRSSummaryOfBusinessResults",
		"NetCashProvidedByUsedInOperatingActivities",
		"NetCashProvidedByUsedInOperatingActivitiesSummaryOfBusinessResults",
		"CashFlowsFromOperatingActivities",
	},
	InvestingCF: {
		"CashFlowsFromUsedInInvestingActivitiesIFRS",
		"CashFlowsFromUsedInInvestingActivitiesIFRSSummaryOfBusinessResults",
		"NetCashProvidedByUsedInInvestingActivities",
		"NetCashProvidedByUsedInInvestmentActivities",
		"NetCashProvidedByUsedInInvestingActivitiesSummaryOfBusinessResults",
		"CashFlowsFromInvestingActivities",
	},
	FinancingCF: {
		"CashFlowsFromUsedInFinancingActivitiesIFRS",
		"CashFlowsFromUsedInFinancingActivitiesIFRSSummaryOfBusinessResults",
		"NetCashProvidedByUsedInFinancingActivities",
		"NetCashProvidedByUsedInFinancingActivitiesSummaryOfBusinessResults",
		"CashFlowsFromFinancingActivities",
	},
	EPS: {
		"BasicEarningsLossPerShareIFRS",
		"BasicEarningsLossPerShareIFRSSummaryOfBusinessResults",
		"BasicEarningsPerShare",
		"BasicEarningsLossPerShare",
		"BasicEarningsLossPerShareSummaryOfBusinessResults",
	},
	DividendPerShare: {
		"DividendPaidPerShareSummaryOfBusinessResults",
		"DividendPerShare",
		"DividendPerShareDividendsOfSurplus",
	},
	ROE: {
		"RateOfReturnOnEquityIFRS",
		"RateOfReturnOnEquityIFRSSummaryOfBusinessResults",
		"RateOfReturnOnEquity",
		"RateOfReturnOnEquitySummaryOfBusinessResults",
		"ReturnOnEquity",
	},
	ROA: {
		"RateOfReturnOnAssetsIFRS",
		"RateOfReturnOnAssetsIFRSSummaryOfBusinessResults",
		"RateOfReturnOnAssets",
		"RateOfReturnOnAssetsSummaryOfBusinessResults",
		"ReturnOnAssets",
	},
	EquityRatio: {
		"RatioOfOwnersEquityToGrossAssetsIFRS",
		"RatioOfOwnersEquityToGrossAssetsIFRSSummaryOfBusinessResults",
		"EquityToAssetRatio",
		"EquityToAssetRatioSummaryOfBusinessResults",
	},
	PER: {
		"PriceEarningsRatioIFRS",
		"PriceEarningsRatioIFRSSummaryOfBusinessResults",
		"PriceEarningsRatio",
		"PriceEarningsRatioSummaryOfBusinessResults",
	},
	CashEquivalents: {
		"CashAndCashEquivalentsIFRS",
		"CashAndCashEquivalentsIFRSSummaryOfBusinessResults",
		"CashAndCashEquivalents",
		"CashAndCashEquivalentsSummaryOfBusinessResults",
		"CashAndDeposits",
	},
	CurrentAssets: {
		"CurrentAssetsIFRS",
		"CurrentAssetsIFRSSummaryOfBusinessResults",
		"CurrentAssets",
		"CurrentAssetsSummaryOfBusinessResults",
	},
	CurrentLiabilities: {
		"CurrentLiabilitiesIFRS",
		"CurrentLiabilitiesIFRSSummaryOfBusinessResults",
		"CurrentLiabilities",
		"CurrentLiabilitiesSummaryOfBusinessResults",
	},
	Inventories: {
		"InventoriesIFRS",
		"InventoriesIFRSSummaryOfBusinessResults",
		"Inventories",
		"InventoriesSummaryOfBusinessResults",
		"MerchandiseAndFinishedGoods",
	},
	Receivables: {
		"TradeAndOtherReceivablesIFRS",
		"TradeAndOtherReceivablesIFRSSummaryOfBusinessResults",
		"NotesAndAccountsReceivableTrade",
		"NotesAndAccountsReceivableTradeSummaryOfBusinessResults",
	},
	Employees: {
		"NumberOfEmployees",
		"NumberOfEmployeesIFRS",
		"NumberOfEmployeesSummaryOfBusinessResults",
		"NumberOfEmployeesInformationAboutReportingCompanyInformationAboutEmployees",
	},
	TemporaryEmployees: {
		"AverageNumberOfTemporaryWorkers",
		"AverageNumberOfTemporaryWorkersInformationAboutReportingCompanyInformationAboutEmployees",
	},
	// Employee statistics tags were restructured in the 2019 taxonomy; both
	// generations are listed.
	AverageAge: {
		"AverageAgeYearsInformationAboutReportingCompanyInformationAboutEmployees",
		"AverageAgeYearsOfEmployeesOfSubmittingCompanyInformationAboutEmployees",
		"AverageAgeOfEmployees",
		"AverageAgeInformationAboutEmployees",
	},
	AverageTenure: {
		"AverageLengthOfServiceYearsInformationAboutReportingCompanyInformationAboutEmployees",
		"AverageLengthOfServiceYearsOfEmployeesOfSubmittingCompanyInformationAboutEmployees",
		"AverageLengthOfServiceOfEmployees",
		"AverageLengthOfServiceInformationAboutEmployees",
	},
	AverageSalary: {
		"AverageAnnualSalaryInformationAboutReportingCompanyInformationAboutEmployees",
		"AverageAnnualSalaryYenOfEmployeesOfSubmittingCompanyInformationAboutEmployees",
		"AverageAnnualSalaryOfEmployees",
		"AverageAnnualSalaryInformationAboutEmployees",
	},
}

// conceptKinds drives normalization in the financial extractor.
var conceptKinds = map[Concept]Kind{
	Revenue:            KindMonetary,
	OperatingIncome:    KindMonetary,
	OrdinaryIncome:     KindMonetary,
	NetIncome:          KindMonetary,
	TotalAssets:        KindMonetary,
	NetAssets:          KindMonetary,
	OperatingCF:        KindMonetary,
	InvestingCF:        KindMonetary,
	FinancingCF:        KindMonetary,
	FreeCF:             KindMonetary,
	CashEquivalents:    KindMonetary,
	CurrentAssets:      KindMonetary,
	CurrentLiabilities: KindMonetary,
	Inventories:        KindMonetary,
	Receivables:        KindMonetary,
	ROE:                KindRatio,
	ROA:                KindRatio,
	EquityRatio:        KindRatio,
	PER:                KindRatio,
	EPS:                KindPerShare,
	DividendPerShare:   KindPerShare,
	Employees:          KindCount,
	TemporaryEmployees: KindCount,
	AverageAge:         KindCount,
	AverageTenure:      KindCount,
	AverageSalary:      KindSalary,
}

// KindOf returns the normalization class for a concept.
// Unknown concepts (e.g. ones added via overrides) default to monetary.
func KindOf(c Concept) Kind {
	if k, ok := conceptKinds[c]; ok {
		return k
	}
	return KindMonetary
}

// strictConcepts require an exact alias match: partial matching on ratio
// tags produces false positives (e.g. "PriceEarningsRatio" inside unrelated
// disclosure tags).
var strictConcepts = map[Concept]bool{
	EquityRatio: true,
	ROE:         true,
	PER:         true,
}

// NormalizeTag maps a raw tag local name to its canonical concept.
// Exact alias matches are tried first across all groups; substring matches
// are only allowed for non-strict concepts.
func NormalizeTag(tag string) (Concept, bool) {
	for concept, aliases := range ConceptGroups {
		for _, a := range aliases {
			if tag == a {
				return concept, true
			}
		}
	}
	for concept, aliases := range ConceptGroups {
		if strictConcepts[concept] {
			continue
		}
		for _, a := range aliases {
			if strings.Contains(tag, a) {
				return concept, true
			}
		}
	}
	return "", false
}
