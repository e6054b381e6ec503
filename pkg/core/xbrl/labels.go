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

// LabelMap maps element local names to Japanese label text, built from the
// filing's own label linkbase. Label ids are filing-specific, so the map is
// rebuilt for every filing and discarded after extraction.
type LabelMap map[string]string

// FindLabelPath locates the Japanese label linkbase (*_lab.xml) inside an
// extracted package. The English companion (*_lab-en.xml) is ignored.
func FindLabelPath(root string) (string, bool) {
	var found string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || found != "" {
			return err
		}
		name := d.Name()
		if strings.HasSuffix(name, "_lab.xml") && !strings.HasSuffix(name, "_lab-en.xml") {
			found = path
		}
		return nil
	})
	return found, found != ""
}

// ParseLabelFile parses a label linkbase from disk. A missing or malformed
// file is the caller's cue to fall back to the static dictionary; it is
// never fatal.
func ParseLabelFile(path string) (LabelMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open label linkbase: %w", err)
	}
	defer f.Close()
	return ParseLabels(f)
}

// linkbase label ids look like:
//
//	jpcrp030000-asr_E39920-000_NetSales_label
//
// The element name sits second-to-last when a "_label..." suffix is present,
// last otherwise.
type labelElement struct {
	Lang  string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	Label string `xml:"http://www.w3.org/1999/xlink label,attr"`
	Text  string `xml:",chardata"`
}

type labelLinkbase struct {
	Labels []labelElement `xml:"labelLink>label"`
}

// ParseLabels extracts Japanese labels from a label linkbase reader.
func ParseLabels(r io.Reader) (LabelMap, error) {
	var lb labelLinkbase
	if err := xml.NewDecoder(r).Decode(&lb); err != nil {
		return nil, fmt.Errorf("failed to decode label linkbase: %w", err)
	}

	labels := make(LabelMap)
	for _, l := range lb.Labels {
		if l.Lang != "ja" || l.Text == "" || l.Label == "" {
			continue
		}
		if name := elementNameFromLabelID(l.Label); name != "" {
			labels[name] = l.Text
		}
	}
	return labels, nil
}

func elementNameFromLabelID(id string) string {
	parts := strings.Split(id, "_")
	if len(parts) < 2 {
		return ""
	}
	if strings.HasPrefix(parts[len(parts)-1], "label") {
		return parts[len(parts)-2]
	}
	return parts[len(parts)-1]
}
