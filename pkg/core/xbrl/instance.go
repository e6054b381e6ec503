// Package xbrl parses EDINET XBRL packages: the instance document carrying
// tagged facts and the optional Japanese label linkbase. It is deliberately
// not a full XBRL implementation; it extracts exactly what the downstream
// extractors consume.
package xbrl

import (
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const xbrliNS = "http://www.xbrl.org/2003/instance"

// Fact is one tagged value from the instance document.
type Fact struct {
	Tag        string // element local name, e.g. "NetSales"
	ContextRef string
	UnitRef    string
	Value      string // raw text content, untrimmed of commas
}

// Instance is a parsed XBRL instance restricted to the current reporting
// period. Prior-year contexts are filtered out during parsing.
type Instance struct {
	Facts []Fact

	validContexts map[string]bool
	latestDate    string
}

// FindInstancePath locates the instance document inside an extracted filing
// package. Corporate filings ship a jpcrp-prefixed instance next to audit
// and header files; prefer it, fall back to any .xbrl.
func FindInstancePath(root string) (string, error) {
	var preferred, any string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !strings.HasSuffix(d.Name(), ".xbrl") {
			return nil
		}
		if strings.Contains(strings.ToLower(d.Name()), "jpcrp") && preferred == "" {
			preferred = path
		}
		if any == "" {
			any = path
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan package: %w", err)
	}
	if preferred != "" {
		return preferred, nil
	}
	if any != "" {
		return any, nil
	}
	return "", fmt.Errorf("no instance document found under %s", root)
}

// ParseInstanceFile parses an instance document from disk.
func ParseInstanceFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open instance: %w", err)
	}
	defer f.Close()
	return ParseInstance(f)
}

// ParseInstance decodes an instance document from a reader. Two passes over
// the token stream are avoided by collecting contexts and facts together and
// filtering facts afterwards.
func ParseInstance(r io.Reader) (*Instance, error) {
	dec := xml.NewDecoder(r)

	inst := &Instance{validContexts: make(map[string]bool)}
	contextDates := make(map[string]string)
	var allFacts []Fact

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if start.Name.Space == xbrliNS && start.Name.Local == "context" {
			id, date := parseContext(dec, start)
			if id == "" {
				continue
			}
			// CurrentYear/CurrentPeriod contexts are valid regardless of date.
			if strings.Contains(id, "CurrentYear") || strings.Contains(id, "CurrentPeriod") {
				inst.validContexts[id] = true
			}
			if date != "" {
				contextDates[id] = date
				if date > inst.latestDate {
					inst.latestDate = date
				}
			}
			continue
		}

		if start.Name.Space == xbrliNS || start.Name.Space == "http://www.xbrl.org/2003/linkbase" {
			continue
		}

		ctxRef := attr(start, "contextRef")
		if ctxRef == "" {
			continue
		}
		value, err := collectText(dec)
		if err != nil {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		allFacts = append(allFacts, Fact{
			Tag:        start.Name.Local,
			ContextRef: ctxRef,
			UnitRef:    attr(start, "unitRef"),
			Value:      value,
		})
	}

	// Contexts dated at the latest instant/endDate also belong to the
	// current period (instant contexts for B/S items carry no CurrentYear id
	// in some filings).
	for id, d := range contextDates {
		if d == inst.latestDate {
			inst.validContexts[id] = true
		}
	}

	for _, f := range allFacts {
		if inst.acceptContext(f.ContextRef) {
			inst.Facts = append(inst.Facts, f)
		}
	}
	return inst, nil
}

// acceptContext reports whether a fact's context belongs to the current
// period. When context analysis produced nothing usable, fall back to
// excluding obviously-prior contexts only.
func (in *Instance) acceptContext(id string) bool {
	if len(in.validContexts) > 0 {
		return in.validContexts[id]
	}
	return !strings.Contains(id, "Prior") && !strings.Contains(id, "Previous")
}

// parseContext reads a <xbrli:context> subtree, returning its id and the
// instant or endDate text if present.
func parseContext(dec *xml.Decoder, start xml.StartElement) (id, date string) {
	id = attr(start, "id")
	depth := 1
	var inDateElem bool
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return id, date
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			inDateElem = t.Name.Space == xbrliNS &&
				(t.Name.Local == "instant" || t.Name.Local == "endDate")
		case xml.EndElement:
			depth--
			inDateElem = false
		case xml.CharData:
			if inDateElem {
				if s := strings.TrimSpace(string(t)); s != "" {
					date = s
				}
			}
		}
	}
	return id, date
}

// collectText concatenates character data until the matching end element,
// including text nested inside markup (text blocks embed XHTML).
func collectText(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(t)
		}
	}
	return sb.String(), nil
}

func attr(e xml.StartElement, local string) string {
	for _, a := range e.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
