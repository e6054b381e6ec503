package taxonomy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Overrides is the on-disk shape of a taxonomy extension file. EDINET revises
// its taxonomy each fiscal year; shipping new tag aliases as config avoids a
// rebuild when next year's filings start arriving.
//
//	concepts:
//	  revenue:
//	    - NetSalesRevisedTag2026
//	labels:
//	  NetSalesRevisedTag2026: 売上高
type Overrides struct {
	Concepts map[string][]string `yaml:"concepts"`
	Labels   map[string]string   `yaml:"labels"`
}

// LoadOverrides reads a YAML extension file and merges it into the static
// tables. New aliases are appended after the built-in ones so the curated
// priority order keeps winning when both are present.
func LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read taxonomy overrides: %w", err)
	}

	var ov Overrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return fmt.Errorf("failed to parse taxonomy overrides: %w", err)
	}

	for name, aliases := range ov.Concepts {
		c := Concept(name)
		for _, a := range aliases {
			if a == "" || hasAlias(c, a) {
				continue
			}
			ConceptGroups[c] = append(ConceptGroups[c], a)
		}
	}
	for tag, label := range ov.Labels {
		if tag != "" && label != "" {
			FallbackLabels[tag] = label
		}
	}
	return nil
}

func hasAlias(c Concept, alias string) bool {
	for _, a := range ConceptGroups[c] {
		if a == alias {
			return true
		}
	}
	return false
}
