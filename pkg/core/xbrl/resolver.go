package xbrl

import (
	"log"

	"edinet_insight/pkg/core/taxonomy"
)

// Resolver maps raw fact tags to canonical concepts and display labels for
// one filing. Resolution is a two-stage chain: the filing's own label
// linkbase first, the static taxonomy fallback second. Built per filing
// because label ids are not stable across filings.
type Resolver struct {
	dynamic LabelMap

	// reverse index of concept display labels, so a dynamic Japanese label
	// can pin a tag to a concept ahead of the static alias tables
	byLabel map[string]taxonomy.Concept
}

// NewResolver builds a resolver for one filing. Pass nil when the package
// has no label linkbase; the static fallback then serves everything.
func NewResolver(dynamic LabelMap) *Resolver {
	byLabel := make(map[string]taxonomy.Concept, len(taxonomy.DisplayLabels))
	for c, l := range taxonomy.DisplayLabels {
		byLabel[l] = c
	}
	return &Resolver{dynamic: dynamic, byLabel: byLabel}
}

// NewResolverForPackage builds a resolver from an extracted package
// directory, parsing the Japanese label linkbase when present. Label file
// problems are logged and degrade to static-only resolution.
func NewResolverForPackage(root string) *Resolver {
	path, ok := FindLabelPath(root)
	if !ok {
		log.Printf("[Resolver] no Japanese label linkbase in package, using static taxonomy only")
		return NewResolver(nil)
	}
	labels, err := ParseLabelFile(path)
	if err != nil {
		log.Printf("[Resolver] label linkbase unusable (%v), using static taxonomy only", err)
		return NewResolver(nil)
	}
	log.Printf("[Resolver] parsed %d Japanese labels from linkbase", len(labels))
	return NewResolver(labels)
}

// Resolve maps a raw tag to its canonical concept. The dynamic label wins
// when it names a known concept; otherwise the static alias tables decide.
// ok is false when the tag maps to no concept at all.
func (r *Resolver) Resolve(tag string) (taxonomy.Concept, bool) {
	if label, found := r.dynamic[tag]; found {
		if c, known := r.byLabel[label]; known {
			return c, true
		}
	}
	return taxonomy.NormalizeTag(tag)
}

// Label returns the human-readable Japanese label for a tag: dynamic
// linkbase first, static dictionary second, the tag itself last.
func (r *Resolver) Label(tag string) string {
	if label, found := r.dynamic[tag]; found {
		return label
	}
	return taxonomy.JapaneseLabel(tag)
}
