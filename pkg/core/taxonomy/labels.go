package taxonomy

import "strings"

// FallbackLabels maps raw tag local names to Japanese display labels. Used
// when the filing ships no label linkbase or the linkbase misses a tag.
var FallbackLabels = map[string]string{
	// Profit & loss
	"NetSales":                            "売上高",
	"NetSalesSummaryOfBusinessResults":    "売上高",
	"Revenue":                             "売上高",
	"OperatingRevenue":                    "営業収益",
	"OperatingRevenuesIFRS":               "売上高(IFRS)",
	"RevenueFromContractsWithCustomers":   "顧客との契約から生じる収益",
	"GrossProfit":                         "売上総利益",
	"GrossProfitSummaryOfBusinessResults": "売上総利益",
	"OperatingIncome":                     "営業利益",
	"OperatingIncomeSummaryOfBusinessResults": "営業利益",
	"OperatingProfitLoss":                     "営業損益",
	"OrdinaryIncome":                          "経常利益",
	"OrdinaryIncomeLoss":                      "経常損益",
	"OrdinaryIncomeLossSummaryOfBusinessResults": "経常利益",
	"IncomeBeforeIncomeTaxes":                    "税引前当期純利益",
	"ProfitLossBeforeTaxIFRS":                    "税引前利益(IFRS)",
	"ProfitLossBeforeTax":                        "税引前利益",
	"NetIncome":                                  "当期純利益",
	"NetIncomeLoss":                              "当期純損益",
	"NetIncomeLossSummaryOfBusinessResults":      "当期純利益",
	"ProfitLoss":                                 "当期純利益",
	"ProfitLossAttributableToOwnersOfParent":     "親会社株主に帰属する当期純利益",
	"ProfitLossAttributableToOwnersOfParentSummaryOfBusinessResults": "親会社株主に帰属する当期純利益",
	"ProfitLossAttributableToOwnersOfParentIFRS":                     "親会社株主帰属利益(IFRS)",

	// Balance sheet
	"TotalAssets":                      "総資産",
	"TotalAssetsSummaryOfBusinessResults": "総資産",
	"TotalAssetsIFRS":                     "総資産(IFRS)",
	"Assets":                              "資産合計",
	"CurrentAssets":                       "流動資産",
	"NoncurrentAssets":                    "固定資産",
	"CashAndDeposits":                     "現金及び預金",
	"CashAndCashEquivalents":              "現金及び現金同等物",
	"CashAndCashEquivalentsSummaryOfBusinessResults": "現金及び現金同等物",
	"TotalLiabilities":                               "負債合計",
	"TotalLiabilitiesIFRS":                           "負債合計(IFRS)",
	"CurrentLiabilities":                             "流動負債",
	"NoncurrentLiabilities":                          "固定負債",
	"NetAssets":                                      "純資産",
	"NetAssetsSummaryOfBusinessResults":              "純資産",
	"TotalEquity":                                    "株主資本合計",
	"TotalEquityIFRS":                                "純資産(IFRS)",
	"ShareholdersEquity":                             "株主資本",
	"CapitalStock":                                   "資本金",
	"CapitalStockSummaryOfBusinessResults":           "資本金",
	"CapitalSurplus":                                 "資本剰余金",
	"RetainedEarnings":                               "利益剰余金",

	// Per share
	"BasicEarningsPerShare":                              "1株当たり当期純利益",
	"BasicEarningsLossPerShare":                          "1株当たり当期純損益",
	"BasicEarningsLossPerShareSummaryOfBusinessResults":  "1株当たり当期純利益",
	"BasicEarningsLossPerShareIFRS":                      "1株当たり利益(IFRS)",
	"DilutedEarningsPerShare":                            "潜在株式調整後1株当たり当期純利益",
	"DilutedEarningsPerShareSummaryOfBusinessResults":    "潜在株式調整後1株当たり当期純利益",
	"NetAssetsPerShare":                                  "1株当たり純資産",
	"NetAssetsPerShareSummaryOfBusinessResults":          "1株当たり純資産",
	"DividendPerShare":                                   "1株当たり配当金",
	"DividendPerShareDividendsOfSurplus":                 "1株当たり配当金",
	"DividendPaidPerShareSummaryOfBusinessResults":       "1株当たり配当金",

	// Cash flow
	"NetCashProvidedByUsedInOperatingActivities":                         "営業活動によるキャッシュ・フロー",
	"NetCashProvidedByUsedInOperatingActivitiesSummaryOfBusinessResults": "営業活動によるキャッシュ・フロー",
	"CashFlowsFromOperatingActivities":                                   "営業活動によるキャッシュ・フロー",
	"NetCashProvidedByUsedInInvestingActivities":                         "投資活動によるキャッシュ・フロー",
	"NetCashProvidedByUsedInInvestmentActivities":                        "投資活動によるキャッシュ・フロー",
	"NetCashProvidedByUsedInInvestingActivitiesSummaryOfBusinessResults": "投資活動によるキャッシュ・フロー",
	"CashFlowsFromInvestingActivities":                                   "投資活動によるキャッシュ・フロー",
	"NetCashProvidedByUsedInFinancingActivities":                         "財務活動によるキャッシュ・フロー",
	"NetCashProvidedByUsedInFinancingActivitiesSummaryOfBusinessResults": "財務活動によるキャッシュ・フロー",
	"CashFlowsFromFinancingActivities":                                   "財務活動によるキャッシュ・フロー",

	// Ratios
	"RateOfReturnOnEquity":                         "自己資本利益率(ROE)",
	"RateOfReturnOnEquitySummaryOfBusinessResults": "自己資本利益率(ROE)",
	"ReturnOnEquity":                               "自己資本利益率(ROE)",
	"EquityToAssetRatio":                           "自己資本比率",
	"EquityToAssetRatioSummaryOfBusinessResults":   "自己資本比率",
	"PriceEarningsRatio":                           "株価収益率(PER)",
	"PriceEarningsRatioSummaryOfBusinessResults":   "株価収益率(PER)",

	// Dividends
	"TotalAmountOfDividends":                   "配当金総額",
	"TotalAmountOfDividendsDividendsOfSurplus": "配当金総額",
	"DividendsFromSurplus":                     "剰余金の配当",
	"PayoutRatio":                              "配当性向",

	// Other
	"NumberOfEmployees":                               "従業員数",
	"NumberOfEmployeesSummaryOfBusinessResults":       "従業員数",
	"CapitalExpenditures":                             "設備投資額",
	"CapitalExpendituresOverviewOfCapitalExpendituresEtc": "設備投資額",
	"DepreciationAndAmortization":                         "減価償却費",
	"ResearchAndDevelopmentExpenses":                      "研究開発費",

	// Officers
	"NameOfficer":                 "役員氏名",
	"TitleOfficer":                "役職名",
	"BirthDateOfficer":            "生年月日",
	"TermOfOfficeOfficer":         "任期",
	"NumberOfSharesHeldOfficer":   "所有株式数（役員）",
	"BriefPersonalHistoryOfficer": "略歴",
}

// JapaneseLabel resolves a raw tag to a display label: exact fallback match,
// then partial match, then the tag itself.
func JapaneseLabel(tag string) string {
	if l, ok := FallbackLabels[tag]; ok {
		return l
	}
	for key, l := range FallbackLabels {
		if strings.Contains(tag, key) {
			return l
		}
	}
	return tag
}

// DisplayOrder is the preferred ordering of normalized concepts in reports
// and CLI output.
var DisplayOrder = []Concept{
	Revenue, OperatingIncome, OrdinaryIncome, NetIncome,
	TotalAssets, NetAssets, CashEquivalents,
	OperatingCF, InvestingCF, FinancingCF, FreeCF,
	EPS, DividendPerShare, ROE, ROA, EquityRatio, PER,
	Employees, AverageAge, AverageTenure, AverageSalary,
}

// DisplayLabels maps canonical concepts to Japanese display names.
var DisplayLabels = map[Concept]string{
	Revenue:            "売上高",
	OperatingIncome:    "営業利益",
	OrdinaryIncome:     "経常利益",
	NetIncome:          "当期純利益",
	TotalAssets:        "総資産",
	NetAssets:          "純資産",
	CashEquivalents:    "現金同等物",
	OperatingCF:        "営業CF",
	InvestingCF:        "投資CF",
	FinancingCF:        "財務CF",
	FreeCF:             "フリーCF",
	EPS:                "EPS",
	DividendPerShare:   "配当金",
	ROE:                "ROE",
	ROA:                "ROA",
	EquityRatio:        "自己資本比率",
	PER:                "PER",
	CurrentAssets:      "流動資産",
	CurrentLiabilities: "流動負債",
	Inventories:        "棚卸資産",
	Receivables:        "受取手形及び売掛金",
	Employees:          "従業員数",
	TemporaryEmployees: "臨時従業員数",
	AverageAge:         "平均年齢",
	AverageTenure:      "平均勤続年数",
	AverageSalary:      "平均年収",
}
