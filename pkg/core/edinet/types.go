// Package edinet provides the EDINET disclosure API integration: document
// listing, company search, and filing package download.
// API documentation: https://disclosure.edinet-fsa.go.jp/
package edinet

import "time"

// Document type codes used by the disclosure system.
const (
	DocTypeAnnual    = "120" // 有価証券報告書 (annual securities report)
	DocTypeQuarterly = "140" // 四半期報告書 (quarterly report)
)

// DocTypeCode converts the public document-type names to EDINET codes.
// Unknown names fall back to annual.
func DocTypeCode(name string) string {
	switch name {
	case "quarterly", DocTypeQuarterly:
		return DocTypeQuarterly
	default:
		return DocTypeAnnual
	}
}

// DocumentInfo is one row of the daily listing response.
type DocumentInfo struct {
	DocID          string `json:"docID"`
	DocTypeCode    string `json:"docTypeCode"`
	SecCode        string `json:"secCode"`
	FilerName      string `json:"filerName"`
	DocDescription string `json:"docDescription"`
	SubmitDateTime string `json:"submitDateTime"`
	PeriodEnd      string `json:"periodEnd"`
}

// listResponse is the top-level shape of the documents.json endpoint.
type listResponse struct {
	Results []DocumentInfo `json:"results"`
}

// Filing identifies one located disclosure document. Immutable once
// returned by the locator.
type Filing struct {
	DocID          string    `json:"doc_id"`
	SecCode        string    `json:"security_code"`
	FilerName      string    `json:"company_name"`
	DocTypeCode    string    `json:"doc_type_code"`
	DocDescription string    `json:"document_type"`
	SubmitDate     string    `json:"submit_date"`
	PeriodEnd      string    `json:"period_end"`
	LocatedAt      time.Time `json:"located_at"`
}
