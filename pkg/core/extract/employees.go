package extract

import (
	"regexp"
	"strconv"
	"strings"

	"edinet_insight/pkg/core/taxonomy"
)

// scanSource marks facts recovered from the employee-status narrative
// rather than from tagged values.
const scanSource = "employee_status_scan"

var (
	employeesScan = regexp.MustCompile(`従業員数[^0-9０-９]{0,10}([\d,]+)\s*名`)
	tempScan      = regexp.MustCompile(`臨時(?:従業|雇用|雇)[^0-9０-９]{0,10}([\d,]+)\s*名`)
	ageScan       = regexp.MustCompile(`平均年齢[^0-9０-９]{0,10}([\d.]+)\s*歳`)
	tenureScan    = regexp.MustCompile(`平均勤続年数[^0-9０-９]{0,10}([\d.]+)\s*年`)
	salaryScan    = regexp.MustCompile(`平均年間給与[^0-9０-９]{0,10}([\d,]+)\s*(千円|円)?`)
)

// ScanEmployeeStatus fills workforce concepts missing from record by
// scanning the employee-status text block. Tagged values always win over
// scanned ones. Salary figures without a unit suffix are kept at their
// raw magnitude and flagged unit-unknown.
func ScanEmployeeStatus(record Record, text string) {
	if text == "" {
		return
	}

	scanInto(record, taxonomy.Employees, employeesScan, text)
	scanInto(record, taxonomy.TemporaryEmployees, tempScan, text)
	scanInto(record, taxonomy.AverageAge, ageScan, text)
	scanInto(record, taxonomy.AverageTenure, tenureScan, text)

	if _, ok := record[taxonomy.AverageSalary]; !ok {
		if m := salaryScan.FindStringSubmatch(text); m != nil {
			if v, ok := parseScannedNumber(m[1]); ok {
				record[taxonomy.AverageSalary] = Fact{
					Value:       v,
					RawTag:      scanSource,
					UnitUnknown: m[2] == "",
				}
			}
		}
	}
}

func scanInto(record Record, concept taxonomy.Concept, re *regexp.Regexp, text string) {
	if _, ok := record[concept]; ok {
		return
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return
	}
	if v, ok := parseScannedNumber(m[1]); ok {
		record[concept] = Fact{Value: v, RawTag: scanSource}
	}
}

func parseScannedNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
